// Package sheets implements the store contract on top of a spreadsheet,
// one tab per collection with a header row. Rows are addressed by a linear
// scan of the id column; deletion clears the row range, so readers skip
// blank rows and row numbers are never reused within a read-modify cycle.
package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mesh-intelligence/appdeck/pkg/types"
)

// Tab layouts. The letter is the last populated column of the tab.
const (
	tabApps    = "Apps"
	lastApps   = "K"
	tabData    = "Data"
	lastData   = "H"
	tabForms   = "Forms"
	lastForms  = "J"
	tabEntries = "Entries"
	lastEnts   = "D"
	tabLinks   = "Links"
	lastLinks  = "F"
)

// Backend stores every collection in spreadsheet tabs. Data sources have no
// tab of their own; they are synthesized from the dataSourceId column of the
// Data tab.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	client   ValuesClient
	log      *slog.Logger

	apps    *appStore
	items   *itemStore
	forms   *formStore
	entries *entryStore
	links   *linkStore
	sources *sourceStore
}

var _ types.Store = (*Backend)(nil)

// NewBackend creates a detached spreadsheet backend. A nil logger falls back
// to slog.Default.
func NewBackend(log *slog.Logger) *Backend {
	if log == nil {
		log = slog.Default()
	}
	b := &Backend{log: log}
	b.apps = &appStore{backend: b}
	b.items = &itemStore{backend: b}
	b.forms = &formStore{backend: b}
	b.entries = &entryStore{backend: b}
	b.links = &linkStore{backend: b}
	b.sources = &sourceStore{backend: b}
	return b
}

// Attach validates the configuration and builds the HTTP values client. A
// client injected before Attach (tests) is kept as-is.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}
	if config.Backend != types.BackendSheets {
		return fmt.Errorf("%w: %q", types.ErrBackendUnknown, config.Backend)
	}

	if b.client == nil {
		b.client = newHTTPValuesClient(config.Sheets)
	}
	b.config = config
	b.attached = true
	return nil
}

// Detach drops the client. Detaching a detached backend is a no-op.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	b.client = nil
	b.attached = false
	return nil
}

func (b *Backend) Apps() types.AppStore       { return b.apps }
func (b *Backend) Items() types.ItemStore     { return b.items }
func (b *Backend) Forms() types.FormStore     { return b.forms }
func (b *Backend) Entries() types.EntryStore  { return b.entries }
func (b *Backend) Links() types.LinkStore     { return b.links }
func (b *Backend) Sources() types.SourceStore { return b.sources }

// conn returns the values client or ErrStoreDetached.
func (b *Backend) conn() (ValuesClient, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	return b.client, nil
}

// dataRows reads a tab and strips the header row plus any cleared rows. The
// returned index is the 1-based spreadsheet row number of each surviving row.
type numberedRow struct {
	num   int
	cells []string
}

func (b *Backend) dataRows(ctx context.Context, tab, lastCol string) ([]numberedRow, error) {
	client, err := b.conn()
	if err != nil {
		return nil, err
	}
	rows, err := client.GetRange(ctx, fmt.Sprintf("%s!A:%s", tab, lastCol))
	if err != nil {
		return nil, err
	}
	out := make([]numberedRow, 0, len(rows))
	for i, cells := range rows {
		if i == 0 {
			continue // header
		}
		if cell(cells, 0) == "" {
			continue // cleared by a delete
		}
		out = append(out, numberedRow{num: i + 1, cells: cells})
	}
	return out, nil
}

// findRow scans the id column of a tab. Returns ErrNotFound when no row
// carries the id.
func (b *Backend) findRow(ctx context.Context, tab, lastCol, id string) (numberedRow, error) {
	if id == "" {
		return numberedRow{}, types.ErrInvalidID
	}
	rows, err := b.dataRows(ctx, tab, lastCol)
	if err != nil {
		return numberedRow{}, err
	}
	for _, row := range rows {
		if cell(row.cells, 0) == id {
			return row, nil
		}
	}
	return numberedRow{}, types.ErrNotFound
}

// appendRow appends a single row to the bottom of a tab.
func (b *Backend) appendRow(ctx context.Context, tab, lastCol string, row []string) error {
	client, err := b.conn()
	if err != nil {
		return err
	}
	return client.Append(ctx, fmt.Sprintf("%s!A:%s", tab, lastCol), row)
}

// updateRow overwrites one numbered row in place.
func (b *Backend) updateRow(ctx context.Context, tab, lastCol string, num int, row []string) error {
	client, err := b.conn()
	if err != nil {
		return err
	}
	return client.Update(ctx, rowRange(tab, lastCol, num), row)
}

// clearRow blanks one numbered row. The row keeps its position; readers skip
// it because the id cell is empty.
func (b *Backend) clearRow(ctx context.Context, tab, lastCol string, num int) error {
	client, err := b.conn()
	if err != nil {
		return err
	}
	return client.Clear(ctx, rowRange(tab, lastCol, num))
}

func rowRange(tab, lastCol string, num int) string {
	return fmt.Sprintf("%s!A%d:%s%d", tab, num, lastCol, num)
}

// cell reads a column by index, tolerating short rows.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
