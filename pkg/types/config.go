package types

import "errors"

// Supported backend names.
const (
	BackendSQLite = "sqlite"
	BackendSheets = "sheets"
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite: true,
	BackendSheets: true,
}

// SheetsConfig holds spreadsheet backend parameters.
type SheetsConfig struct {
	// SpreadsheetID identifies the spreadsheet holding the entity tabs.
	SpreadsheetID string `json:"spreadsheet_id" yaml:"spreadsheet_id"`

	// Token is the bearer token presented to the values API.
	Token string `json:"token" yaml:"token"`

	// BaseURL overrides the values API endpoint; empty means the public
	// Sheets v4 endpoint. Tests point this at a local fake.
	BaseURL string `json:"base_url" yaml:"base_url"`
}

// Config holds backend selection and parameters for Store.Attach.
type Config struct {
	Backend string       `json:"backend" yaml:"backend"`
	DataDir string       `json:"data_dir" yaml:"data_dir"`
	Sheets  SheetsConfig `json:"sheets" yaml:"sheets"`
}

// Config validation errors.
var (
	ErrBackendEmpty     = errors.New("backend must not be empty")
	ErrBackendUnknown   = errors.New("unknown backend")
	ErrSpreadsheetEmpty = errors.New("sheets backend requires a spreadsheet ID")
)

// Validate checks that the Config is well-formed. It returns a sentinel
// error from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if c.Backend == BackendSheets && c.Sheets.SpreadsheetID == "" {
		return ErrSpreadsheetEmpty
	}
	return nil
}
