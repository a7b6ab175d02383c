package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents an account holder and the credentials saved under it.
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Entries      Entries   `json:"entries" gorm:"type:json"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Entries == nil {
		u.Entries = Entries{}
	}
	return nil
}

// AddEntry appends e to the user's collection.
func (u *User) AddEntry(e PasswordEntry) {
	u.Entries = append(u.Entries, e)
}

// RemoveEntry drops the entry whose id renders as entryID and reports whether
// one was removed.
func (u *User) RemoveEntry(entryID string) bool {
	for i, e := range u.Entries {
		if e.ID.String() == entryID {
			u.Entries = append(u.Entries[:i:i], u.Entries[i+1:]...)
			return true
		}
	}
	return false
}
