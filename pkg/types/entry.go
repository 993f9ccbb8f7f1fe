package types

import "time"

// FormEntry is a single submission to a form. Entries are immutable after
// creation except for deletion.
type FormEntry struct {
	ID        string         `json:"id"`
	FormID    string         `json:"formId"`
	Data      map[string]any `json:"data"`
	CreatedAt time.Time      `json:"createdAt"`
}

// NewEntry holds the caller-supplied fields for entry creation.
type NewEntry struct {
	FormID string         `json:"formId"`
	Data   map[string]any `json:"data"`
}
