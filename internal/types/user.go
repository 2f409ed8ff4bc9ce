package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User resolves an email to an opaque id for the graph-snapshot dataset.
// Created lazily on the first snapshot save (get-or-create).
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null;column:email" json:"email"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
