package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Upload is one ingestion batch. At most one row exists per email: replacing
// a dataset deletes the old row (cascading to its call events) and inserts a
// fresh one. Rows are never patched in place.
type Upload struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string         `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Meta      datatypes.JSON `gorm:"type:jsonb;column:meta" json:"meta,omitempty"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	Events    []*CallEvent   `gorm:"foreignKey:UploadID;constraint:OnDelete:CASCADE" json:"events,omitempty"`
}

func (Upload) TableName() string {
	return "uploads"
}

func (u *Upload) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
