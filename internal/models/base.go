package models

import (
	"encoding/json"

	"github.com/kai-os/platform/internal/store"
)

// Base carries the fields every stored record shares. ID and CreatedAt are
// assigned by the store on creation and are immutable afterwards.
type Base struct {
	ID        string `json:"id,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// ToRecord converts a typed model into a store record via its JSON form.
func ToRecord(v interface{}) (store.Record, error) {
	content, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var rec store.Record
	if err := json.Unmarshal(content, &rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// FromRecord decodes a store record into a typed model.
func FromRecord(rec store.Record, out interface{}) error {
	content, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return json.Unmarshal(content, out)
}
