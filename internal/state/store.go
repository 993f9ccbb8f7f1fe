// Package state holds the in-memory record store backing the CLI surfaces:
// the synced collections, the current selection, and the user preferences
// that persist across runs. Mutations are versioned so projections can be
// memoized, and subscribers are notified after every change.
package state

import (
	"log/slog"
	"sync"
	"time"

	"github.com/mesh-intelligence/appdeck/pkg/types"
)

// Store is the single mutable state container. All methods are safe for
// concurrent use.
type Store struct {
	mu sync.RWMutex

	apps    []types.App
	items   []types.DataItem
	forms   []types.Form
	entries []types.FormEntry
	links   []types.Link
	sources []types.DataSource

	prefs     Preferences
	prefsPath string

	// Volatile session state, never persisted.
	currentAppID string
	offline      bool
	lastRefresh  time.Time

	version     uint64
	projections projectionCache

	subscribers map[int]func()
	nextSub     int

	log *slog.Logger
}

// NewStore creates a store rooted at dir, loading any preferences persisted
// there by an earlier run. A nil logger falls back to slog.Default.
func NewStore(dir string, log *slog.Logger) (*Store, error) {
	if log == nil {
		log = slog.Default()
	}
	s := &Store{
		prefs:       defaultPreferences(),
		prefsPath:   prefsPath(dir),
		subscribers: map[int]func(){},
		log:         log,
	}
	if err := s.loadPrefs(); err != nil {
		return nil, err
	}
	return s, nil
}

// Subscribe registers fn to run after every mutation. The returned function
// removes the subscription.
func (s *Store) Subscribe(fn func()) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// mutate runs fn under the write lock, bumps the version, and notifies
// subscribers outside the lock.
func (s *Store) mutate(fn func()) {
	s.mu.Lock()
	fn()
	s.version++
	subs := make([]func(), 0, len(s.subscribers))
	for _, sub := range s.subscribers {
		subs = append(subs, sub)
	}
	s.mu.Unlock()
	for _, sub := range subs {
		sub()
	}
}

// Version returns the current mutation counter.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// --- apps ---

func (s *Store) Apps() []types.App {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]types.App(nil), s.apps...)
}

func (s *Store) SetApps(apps []types.App) {
	s.mutate(func() { s.apps = append([]types.App(nil), apps...) })
}

func (s *Store) AddApp(app types.App) {
	s.mutate(func() { s.apps = append(s.apps, app) })
}

// UpdateApp replaces the app with the same ID. Unknown IDs are a no-op.
func (s *Store) UpdateApp(app types.App) {
	s.mutate(func() {
		for i := range s.apps {
			if s.apps[i].ID == app.ID {
				s.apps[i] = app
				return
			}
		}
	})
}

// DeleteApp removes the app and everything scoped to it. Unknown IDs are a
// no-op.
func (s *Store) DeleteApp(id string) {
	s.mutate(func() {
		apps := s.apps[:0]
		for _, a := range s.apps {
			if a.ID != id {
				apps = append(apps, a)
			}
		}
		s.apps = apps

		items := s.items[:0]
		for _, it := range s.items {
			if it.AppID != id {
				items = append(items, it)
			}
		}
		s.items = items

		formIDs := map[string]bool{}
		forms := s.forms[:0]
		for _, f := range s.forms {
			if f.AppID == id {
				formIDs[f.ID] = true
				continue
			}
			forms = append(forms, f)
		}
		s.forms = forms

		entries := s.entries[:0]
		for _, e := range s.entries {
			if !formIDs[e.FormID] {
				entries = append(entries, e)
			}
		}
		s.entries = entries

		links := s.links[:0]
		for _, l := range s.links {
			if l.AppID != id {
				links = append(links, l)
			}
		}
		s.links = links

		if s.currentAppID == id {
			s.currentAppID = ""
		}
	})
}

func (s *Store) App(id string) (types.App, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.apps {
		if a.ID == id {
			return a, true
		}
	}
	return types.App{}, false
}

// --- items ---

func (s *Store) Items() []types.DataItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]types.DataItem(nil), s.items...)
}

func (s *Store) SetItems(items []types.DataItem) {
	s.mutate(func() { s.items = append([]types.DataItem(nil), items...) })
}

func (s *Store) AddItem(it types.DataItem) {
	s.mutate(func() { s.items = append(s.items, it) })
}

// SetAppItems replaces the items of one app while leaving other apps'
// items in place.
func (s *Store) SetAppItems(appID string, items []types.DataItem) {
	s.mutate(func() {
		kept := s.items[:0]
		for _, it := range s.items {
			if it.AppID != appID {
				kept = append(kept, it)
			}
		}
		s.items = append(kept, items...)
	})
}

// UpdateItem replaces the item with the same ID. Unknown IDs are a no-op.
func (s *Store) UpdateItem(it types.DataItem) {
	s.mutate(func() {
		for i := range s.items {
			if s.items[i].ID == it.ID {
				s.items[i] = it
				return
			}
		}
	})
}

func (s *Store) DeleteItem(id string) {
	s.mutate(func() {
		items := s.items[:0]
		for _, it := range s.items {
			if it.ID != id {
				items = append(items, it)
			}
		}
		s.items = items
	})
}

func (s *Store) Item(id string) (types.DataItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, it := range s.items {
		if it.ID == id {
			return it, true
		}
	}
	return types.DataItem{}, false
}

// ToggleFavorite flips the favorite flag of an item and reports the new
// value. Unknown IDs are a no-op returning false.
func (s *Store) ToggleFavorite(id string) bool {
	var now bool
	s.mutate(func() {
		for i := range s.items {
			if s.items[i].ID == id {
				s.items[i].IsFavorite = !s.items[i].IsFavorite
				now = s.items[i].IsFavorite
				return
			}
		}
	})
	return now
}

// --- forms, entries, links, sources ---

func (s *Store) Forms() []types.Form {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]types.Form(nil), s.forms...)
}

func (s *Store) SetForms(forms []types.Form) {
	s.mutate(func() { s.forms = append([]types.Form(nil), forms...) })
}

func (s *Store) Entries() []types.FormEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]types.FormEntry(nil), s.entries...)
}

func (s *Store) SetEntries(entries []types.FormEntry) {
	s.mutate(func() { s.entries = append([]types.FormEntry(nil), entries...) })
}

func (s *Store) AddEntry(e types.FormEntry) {
	s.mutate(func() { s.entries = append(s.entries, e) })
}

// SetAppForms replaces the forms of one app while leaving other apps'
// forms in place.
func (s *Store) SetAppForms(appID string, forms []types.Form) {
	s.mutate(func() {
		kept := s.forms[:0]
		for _, f := range s.forms {
			if f.AppID != appID {
				kept = append(kept, f)
			}
		}
		s.forms = append(kept, forms...)
	})
}

func (s *Store) Links() []types.Link {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]types.Link(nil), s.links...)
}

func (s *Store) SetLinks(links []types.Link) {
	s.mutate(func() { s.links = append([]types.Link(nil), links...) })
}

func (s *Store) Sources() []types.DataSource {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]types.DataSource(nil), s.sources...)
}

func (s *Store) SetSources(sources []types.DataSource) {
	s.mutate(func() { s.sources = append([]types.DataSource(nil), sources...) })
}

// --- volatile session state ---

func (s *Store) SetCurrentApp(id string) {
	s.mutate(func() { s.currentAppID = id })
}

func (s *Store) CurrentAppID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentAppID
}

func (s *Store) SetOffline(offline bool) {
	s.mutate(func() { s.offline = offline })
}

func (s *Store) Offline() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.offline
}

func (s *Store) SetLastRefresh(t time.Time) {
	s.mutate(func() { s.lastRefresh = t })
}

func (s *Store) LastRefresh() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastRefresh
}
