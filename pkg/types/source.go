package types

import "time"

// Data source types.
const (
	SourceTypeGoogleSheets = "google_sheets"
)

// DataSource is a configured external feed producing data items for an app.
// In the relational backend it is a first-class row; the spreadsheet backend
// synthesizes sources by grouping items on DataSourceID.
type DataSource struct {
	ID       string         `json:"id"`
	AppID    string         `json:"appId"`
	Type     string         `json:"type"`
	Config   map[string]any `json:"config"`
	LastSync *time.Time     `json:"lastSync,omitempty"`
}

// NewDataSource holds the caller-supplied fields for source creation.
type NewDataSource struct {
	AppID  string         `json:"appId"`
	Type   string         `json:"type"`
	Config map[string]any `json:"config"`
}

// DataSourcePatch is a partial update. Nil fields are left untouched.
type DataSourcePatch struct {
	Config   *map[string]any `json:"config"`
	LastSync *time.Time      `json:"lastSync"`
}

// Apply merges the non-nil patch fields into the source.
func (p DataSourcePatch) Apply(s *DataSource) {
	if p.Config != nil {
		s.Config = *p.Config
	}
	if p.LastSync != nil {
		s.LastSync = p.LastSync
	}
}
