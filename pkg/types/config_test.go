package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:   "sqlite backend valid",
			config: Config{Backend: BackendSQLite, DataDir: "/tmp/appdeck"},
		},
		{
			name: "sheets backend valid",
			config: Config{
				Backend: BackendSheets,
				Sheets:  SheetsConfig{SpreadsheetID: "sheet-1"},
			},
		},
		{
			name:    "empty backend rejected",
			config:  Config{},
			wantErr: ErrBackendEmpty,
		},
		{
			name:    "unknown backend rejected",
			config:  Config{Backend: "postgres"},
			wantErr: ErrBackendUnknown,
		},
		{
			name:    "sheets without spreadsheet ID rejected",
			config:  Config{Backend: BackendSheets},
			wantErr: ErrSpreadsheetEmpty,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNewShareCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code := NewShareCode()
		assert.Len(t, code, ShareCodeLength)
		for _, r := range code {
			assert.Contains(t, shareCodeAlphabet, string(r))
		}
		seen[code] = true
	}
	// 100 draws from a 36^8 space colliding down to a handful would mean a
	// broken generator.
	assert.Greater(t, len(seen), 90)
}
