package types

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GraphPoint is one row of a user's manually edited hourly snapshot. The full
// per-user set is replaced wholesale on every save.
type GraphPoint struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID               uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User                 *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	HourLabel            string    `gorm:"not null;column:hour_label" json:"hour_label"`
	ConversionPercentage float64   `gorm:"not null;column:conversion_percentage" json:"conversion_percentage"`
}

func (GraphPoint) TableName() string {
	return "graph_data"
}

func (p *GraphPoint) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
