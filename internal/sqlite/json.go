package sqlite

import (
	"encoding/json"
	"time"

	"github.com/mesh-intelligence/appdeck/pkg/types"
)

// parseObject decodes a serialized JSON object column. Malformed or empty
// values default to an empty object; a bad row must never abort a list.
func parseObject(raw string) map[string]any {
	m := make(map[string]any)
	if raw == "" {
		return m
	}
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return make(map[string]any)
	}
	return m
}

// parseFields decodes a serialized fields column. Malformed values default
// to an empty field list.
func parseFields(raw string) []types.FormField {
	if raw == "" {
		return []types.FormField{}
	}
	var fields []types.FormField
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return []types.FormField{}
	}
	if fields == nil {
		fields = []types.FormField{}
	}
	return fields
}

// marshalJSON serializes a value for a JSON column, with "{}" as the
// fallback for unmarshalable input.
func marshalJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// parseTime decodes an RFC3339 timestamp column. Malformed values default
// to the zero time rather than failing the row.
func parseTime(raw string) time.Time {
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
