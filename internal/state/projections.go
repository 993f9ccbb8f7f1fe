package state

import (
	"sort"

	"github.com/mesh-intelligence/appdeck/pkg/types"
)

// projectionCache memoizes derived views until the next mutation.
type projectionCache struct {
	version  uint64
	items    map[projectionKey][]types.DataItem
	favCount int
	favValid bool
}

type projectionKey struct {
	appID         string
	favoritesOnly bool
}

// ProjectItems returns the items of an app ordered by display order,
// optionally restricted to favorites. Results are cached until the store
// mutates.
func (s *Store) ProjectItems(appID string, favoritesOnly bool) []types.DataItem {
	key := projectionKey{appID: appID, favoritesOnly: favoritesOnly}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshCacheLocked()
	if cached, ok := s.projections.items[key]; ok {
		return append([]types.DataItem(nil), cached...)
	}

	out := []types.DataItem{}
	for _, it := range s.items {
		if appID != "" && it.AppID != appID {
			continue
		}
		if favoritesOnly && !it.IsFavorite {
			continue
		}
		out = append(out, it)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DisplayOrder < out[j].DisplayOrder
	})

	s.projections.items[key] = out
	return append([]types.DataItem(nil), out...)
}

// FavoritesCount counts favorites across every app, not just the current
// one. Cached until the store mutates.
func (s *Store) FavoritesCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshCacheLocked()
	if s.projections.favValid {
		return s.projections.favCount
	}
	count := 0
	for _, it := range s.items {
		if it.IsFavorite {
			count++
		}
	}
	s.projections.favCount = count
	s.projections.favValid = true
	return count
}

// refreshCacheLocked drops memoized projections computed for an older
// version. Caller holds the write lock.
func (s *Store) refreshCacheLocked() {
	if s.projections.items != nil && s.projections.version == s.version {
		return
	}
	s.projections = projectionCache{
		version: s.version,
		items:   map[projectionKey][]types.DataItem{},
	}
}
