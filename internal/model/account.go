package model

import (
	"encoding/json"
	"fmt"
)

// User is the account returned by register and /api/auth/me.
type User struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// SavedCV is the backend's summary of a persisted draft.
type SavedCV struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
	Note      string `json:"note"`
}

// RawCV is a stored draft with its identity.
type RawCV struct {
	ID        int64
	CreatedAt string
	Draft     Draft
}

func (c *RawCV) UnmarshalJSON(data []byte) error {
	var meta struct {
		ID        int64  `json:"id"`
		CreatedAt string `json:"created_at"`
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return fmt.Errorf("decode cv identity: %w", err)
	}
	var d Draft
	if err := json.Unmarshal(data, &d); err != nil {
		return fmt.Errorf("decode cv fields: %w", err)
	}
	c.ID, c.CreatedAt, c.Draft = meta.ID, meta.CreatedAt, d
	return nil
}

// PhotoFile is a photo picked for upload.
type PhotoFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// Size returns the photo size in bytes.
func (f PhotoFile) Size() int64 { return int64(len(f.Data)) }
