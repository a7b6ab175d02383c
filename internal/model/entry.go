package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PasswordEntry is one saved credential. It has no table of its own and lives
// embedded in its owning User.
type PasswordEntry struct {
	ID        uuid.UUID `json:"id"`
	AppName   string    `json:"appName"`
	Username  string    `json:"username"`
	Password  string    `json:"password"`
	Category  string    `json:"category,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewPasswordEntry stamps a fresh id and creation time.
func NewPasswordEntry(appName, username, password, category string) PasswordEntry {
	return PasswordEntry{
		ID:        uuid.New(),
		AppName:   appName,
		Username:  username,
		Password:  password,
		Category:  category,
		CreatedAt: time.Now().UTC(),
	}
}

// Entries is the ordered entry collection, stored as a JSON column.
type Entries []PasswordEntry

// Value implements driver.Valuer.
func (e Entries) Value() (driver.Value, error) {
	if e == nil {
		e = Entries{}
	}
	b, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal entries: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (e *Entries) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*e = Entries{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("scan entries: unsupported type %T", src)
	}
	if len(raw) == 0 {
		*e = Entries{}
		return nil
	}
	var out Entries
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("unmarshal entries: %w", err)
	}
	if out == nil {
		out = Entries{}
	}
	*e = out
	return nil
}
