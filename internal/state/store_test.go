package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/appdeck/pkg/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir(), nil)
	require.NoError(t, err)
	return s
}

func TestToggleFavorite_DoubleToggleRestores(t *testing.T) {
	s := newTestStore(t)
	s.SetItems([]types.DataItem{
		{ID: "a", AppID: "app-1"},
		{ID: "b", AppID: "app-1", IsFavorite: true},
	})

	assert.True(t, s.ToggleFavorite("a"), "first toggle sets the flag")
	assert.Equal(t, 2, s.FavoritesCount())
	assert.False(t, s.ToggleFavorite("a"), "second toggle clears the flag")
	assert.Equal(t, 1, s.FavoritesCount())

	// Unknown IDs are a no-op.
	assert.False(t, s.ToggleFavorite("missing"))
	assert.Equal(t, 1, s.FavoritesCount())
}

func TestFavoritesCount_SpansApps(t *testing.T) {
	s := newTestStore(t)
	s.SetItems([]types.DataItem{
		{ID: "a", AppID: "app-1", IsFavorite: true},
		{ID: "b", AppID: "app-2", IsFavorite: true},
		{ID: "c", AppID: "app-2"},
	})
	assert.Equal(t, 2, s.FavoritesCount(), "count spans all apps")
}

func TestProjectItems_OrderAndFilter(t *testing.T) {
	s := newTestStore(t)
	s.SetItems([]types.DataItem{
		{ID: "c", AppID: "app-1", DisplayOrder: 2, IsFavorite: true},
		{ID: "a", AppID: "app-1", DisplayOrder: 0},
		{ID: "b", AppID: "app-1", DisplayOrder: 1, IsFavorite: true},
		{ID: "x", AppID: "app-2", DisplayOrder: 0},
	})

	all := s.ProjectItems("app-1", false)
	require.Len(t, all, 3)
	assert.Equal(t, "a", all[0].ID)
	assert.Equal(t, "b", all[1].ID)
	assert.Equal(t, "c", all[2].ID)

	favs := s.ProjectItems("app-1", true)
	require.Len(t, favs, 2)
	assert.Equal(t, "b", favs[0].ID)
	assert.Equal(t, "c", favs[1].ID)

	// The projection tracks later mutations.
	s.ToggleFavorite("a")
	assert.Len(t, s.ProjectItems("app-1", true), 3)
}

func TestUpdateAndDelete_NoOpOnMissingID(t *testing.T) {
	s := newTestStore(t)
	s.SetApps([]types.App{{ID: "app-1", Name: "Kept"}})

	before := s.Version()
	s.UpdateApp(types.App{ID: "ghost", Name: "Ghost"})
	s.DeleteApp("ghost")
	s.DeleteItem("ghost")

	apps := s.Apps()
	require.Len(t, apps, 1)
	assert.Equal(t, "Kept", apps[0].Name)
	assert.NotEqual(t, before, s.Version(), "version advances even for no-op mutations")
}

func TestDeleteApp_DropsScopedRecords(t *testing.T) {
	s := newTestStore(t)
	s.SetApps([]types.App{{ID: "app-1"}, {ID: "app-2"}})
	s.SetItems([]types.DataItem{{ID: "i1", AppID: "app-1"}, {ID: "i2", AppID: "app-2"}})
	s.SetForms([]types.Form{{ID: "f1", AppID: "app-1"}})
	s.SetEntries([]types.FormEntry{{ID: "e1", FormID: "f1"}})
	s.SetLinks([]types.Link{{ID: "l1", AppID: "app-1"}})
	s.SetCurrentApp("app-1")

	s.DeleteApp("app-1")

	assert.Len(t, s.Apps(), 1)
	assert.Len(t, s.Items(), 1)
	assert.Empty(t, s.Forms())
	assert.Empty(t, s.Entries())
	assert.Empty(t, s.Links())
	assert.Empty(t, s.CurrentAppID(), "current selection clears when its app is deleted")
}

func TestPrefs_PersistAcrossStores(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(dir, nil)
	require.NoError(t, err)
	got := s.Prefs()
	assert.Equal(t, ThemeLight, got.Theme)
	assert.Equal(t, ViewModeGrid, got.ViewMode)

	require.NoError(t, s.SetTheme(ThemeDark))
	require.NoError(t, s.SetViewMode(ViewModeList))
	require.NoError(t, s.SetShowFavorites(true))

	again, err := NewStore(dir, nil)
	require.NoError(t, err)
	got = again.Prefs()
	assert.Equal(t, ThemeDark, got.Theme)
	assert.Equal(t, ViewModeList, got.ViewMode)
	assert.True(t, got.ShowFavorites)
}

func TestPrefs_CorruptFileFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, prefsFileName), []byte("{broken"), 0o644))

	s, err := NewStore(dir, nil)
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, s.Prefs().Theme, "corrupt prefs fall back to defaults")
}

func TestSubscribe_NotifiesUntilUnsubscribed(t *testing.T) {
	s := newTestStore(t)
	calls := 0
	unsubscribe := s.Subscribe(func() { calls++ })

	s.AddApp(types.App{ID: "app-1"})
	s.SetOffline(true)
	assert.Equal(t, 2, calls)

	unsubscribe()
	s.AddApp(types.App{ID: "app-2"})
	assert.Equal(t, 2, calls, "no notifications after unsubscribe")
}
