package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CallEvent struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UploadID  uuid.UUID `gorm:"type:uuid;not null;index" json:"upload_id"`
	Upload    *Upload   `gorm:"constraint:OnDelete:CASCADE;foreignKey:UploadID;references:ID" json:"upload,omitempty"`
	Timestamp time.Time `gorm:"not null;column:timestamp" json:"timestamp"`
	Converted bool      `gorm:"not null;column:converted" json:"converted"`
}

func (CallEvent) TableName() string {
	return "call_events"
}

func (e *CallEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
