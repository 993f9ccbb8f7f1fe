// Package sqlite implements the relational storage backend for appdeck.
// Entities live in normal tables; JSON payload columns (data, config,
// fields) are serialized strings at rest and parsed on every read.
package sqlite

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/appdeck/pkg/types"
)

// Compile-time interface check: Backend must implement Store.
var _ types.Store = (*Backend)(nil)

// Backend implements the Store interface on a SQLite database file.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
	log      *slog.Logger

	apps    *appStore
	items   *itemStore
	forms   *formStore
	entries *entryStore
	links   *linkStore
	sources *sourceStore
}

// NewBackend creates a new SQLite backend instance. The backend is not
// attached; call Attach with a Config to initialize. A nil logger means
// slog.Default().
func NewBackend(log *slog.Logger) *Backend {
	if log == nil {
		log = slog.Default()
	}
	b := &Backend{log: log}
	b.apps = &appStore{b: b}
	b.items = &itemStore{b: b}
	b.forms = &formStore{b: b}
	b.entries = &entryStore{b: b}
	b.links = &linkStore{b: b}
	b.sources = &sourceStore{b: b}
	return b
}

// Attach opens (or creates) the database under config.DataDir and ensures
// the schema exists. Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	dbPath := filepath.Join(dataDir, "appdeck.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", dbPath, err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return fmt.Errorf("applying schema: %w", err)
	}

	b.db = db
	b.config = config
	b.attached = true
	return nil
}

// Detach closes the database. Idempotent; after Detach, operations return
// ErrStoreDetached.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}
	b.attached = false
	return nil
}

// conn returns the live database handle, or ErrStoreDetached.
func (b *Backend) conn() (*sql.DB, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached || b.db == nil {
		return nil, types.ErrStoreDetached
	}
	return b.db, nil
}

func (b *Backend) Apps() types.AppStore       { return b.apps }
func (b *Backend) Items() types.ItemStore     { return b.items }
func (b *Backend) Forms() types.FormStore     { return b.forms }
func (b *Backend) Entries() types.EntryStore  { return b.entries }
func (b *Backend) Links() types.LinkStore     { return b.links }
func (b *Backend) Sources() types.SourceStore { return b.sources }
