package types

import (
	"context"
	"errors"
)

// Store is the backend-agnostic data access interface. Callers attach to a
// backend once at startup, access the entity stores, and detach when done.
// Exactly one backend implementation is active per deployment.
type Store interface {
	// Attach connects the store to the backend described by config.
	// Idempotent on first call; returns ErrAlreadyAttached if called while
	// already attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent: multiple calls succeed.
	// After Detach, operations return ErrStoreDetached.
	Detach() error

	Apps() AppStore
	Items() ItemStore
	Forms() FormStore
	Entries() EntryStore
	Links() LinkStore
	Sources() SourceStore
}

// AppStore provides CRUD access to apps.
//
// All List methods across the entity stores share the read-path contract:
// a backend failure is absorbed. The method logs and returns an empty
// slice, never an error, so callers can always range over the result.
type AppStore interface {
	List(ctx context.Context) ([]App, error)

	// Get returns ErrNotFound if no app exists with that ID.
	Get(ctx context.Context, id string) (*App, error)

	// GetByShareCode resolves an app by its public share token regardless of
	// publication state; publication gating is the caller's concern.
	GetByShareCode(ctx context.Context, code string) (*App, error)

	// Create assigns the ID, share code, and timestamps and returns the full
	// created record.
	Create(ctx context.Context, in NewApp) (*App, error)

	// Update merges only the non-nil patch fields into the stored record.
	Update(ctx context.Context, id string, patch AppPatch) (*App, error)

	// Delete is idempotent; a missing ID is not an error. Owned items,
	// forms, entries, links, and sources are removed with the app.
	Delete(ctx context.Context, id string) error
}

// ItemStore provides CRUD access to data items.
type ItemStore interface {
	// List returns the items for the given app ordered by display order.
	// An empty appID returns the unfiltered collection.
	List(ctx context.Context, appID string) ([]DataItem, error)

	// ListBySource returns the items attached to a data source, optionally
	// restricted to favorites, newest first.
	ListBySource(ctx context.Context, sourceID string, favoritesOnly bool) ([]DataItem, error)

	Get(ctx context.Context, id string) (*DataItem, error)

	// Create assigns ID and timestamps and sets DisplayOrder to the count of
	// the app's items at creation time.
	Create(ctx context.Context, in NewDataItem) (*DataItem, error)

	Update(ctx context.Context, id string, patch DataItemPatch) (*DataItem, error)
	Delete(ctx context.Context, id string) error
}

// FormStore provides CRUD access to forms.
type FormStore interface {
	// List returns the forms for the given app, newest first. An empty appID
	// returns the unfiltered collection.
	List(ctx context.Context, appID string) ([]Form, error)

	Get(ctx context.Context, id string) (*Form, error)
	Create(ctx context.Context, in NewForm) (*Form, error)
	Update(ctx context.Context, id string, patch FormPatch) (*Form, error)

	// Delete removes the form and its entries.
	Delete(ctx context.Context, id string) error
}

// EntryStore provides access to form entries.
type EntryStore interface {
	// ListByForm returns entries for a form, newest first, with limit and
	// offset applied after ordering. An empty formID returns the unfiltered
	// collection. A non-positive limit means DefaultEntryLimit.
	ListByForm(ctx context.Context, formID string, limit, offset int) ([]FormEntry, error)

	// CountByForm returns the total number of entries for the form.
	CountByForm(ctx context.Context, formID string) (int, error)

	Get(ctx context.Context, id string) (*FormEntry, error)
	Create(ctx context.Context, in NewEntry) (*FormEntry, error)
	Delete(ctx context.Context, id string) error
}

// LinkStore provides access to embed-app links.
type LinkStore interface {
	// List returns the links for the given app ordered by display order.
	// An empty appID returns the unfiltered collection.
	List(ctx context.Context, appID string) ([]Link, error)

	Create(ctx context.Context, in NewLink) (*Link, error)
	Delete(ctx context.Context, id string) error
}

// SourceStore provides CRUD access to data sources.
type SourceStore interface {
	List(ctx context.Context, appID string) ([]DataSource, error)
	Get(ctx context.Context, id string) (*DataSource, error)
	Create(ctx context.Context, in NewDataSource) (*DataSource, error)
	Update(ctx context.Context, id string, patch DataSourcePatch) (*DataSource, error)
	Delete(ctx context.Context, id string) error
}

// DefaultEntryLimit is the page size for entry listings when the caller
// does not supply one.
const DefaultEntryLimit = 100

// Store lifecycle errors.
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
)

// Operation errors.
var (
	ErrNotFound           = errors.New("record not found")
	ErrInvalidID          = errors.New("invalid record ID")
	ErrValidation         = errors.New("validation failed")
	ErrNotPublished       = errors.New("resource is not published")
	ErrBackendUnavailable = errors.New("backend unavailable")
)
