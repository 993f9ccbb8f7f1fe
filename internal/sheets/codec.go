package sheets

import (
	"encoding/json"
	"time"

	"github.com/spf13/cast"

	"github.com/mesh-intelligence/appdeck/pkg/types"
)

// Cell codecs. Hydration is forgiving: a malformed cell degrades to the
// zero value for its kind instead of failing the whole read.

func parseObjectCell(raw string) map[string]any {
	if raw == "" {
		return map[string]any{}
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err != nil || m == nil {
		return map[string]any{}
	}
	return m
}

func parseFieldsCell(raw string) []types.FormField {
	if raw == "" {
		return []types.FormField{}
	}
	var fields []types.FormField
	if err := json.Unmarshal([]byte(raw), &fields); err != nil || fields == nil {
		return []types.FormField{}
	}
	return fields
}

func marshalCell(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(data)
}

func parseBoolCell(raw string) bool {
	return cast.ToBool(raw)
}

func boolCell(v bool) string {
	if v {
		return "TRUE"
	}
	return "FALSE"
}

func parseIntCell(raw string) int {
	return cast.ToInt(raw)
}

func intCell(v int) string {
	return cast.ToString(v)
}

func parseTimeCell(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}

func timeCell(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
