package sheets

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/appdeck/pkg/types"
)

func testConfig() types.Config {
	return types.Config{
		Backend: types.BackendSheets,
		Sheets:  types.SheetsConfig{SpreadsheetID: "sheet-under-test"},
	}
}

// newTestBackend returns an attached backend over a fresh in-memory fake.
func newTestBackend(t *testing.T) (*Backend, *fakeValues) {
	t.Helper()
	fake := newFakeValues()
	b := NewBackend(nil)
	b.client = fake
	require.NoError(t, b.Attach(testConfig()))
	t.Cleanup(func() {
		require.NoError(t, b.Detach())
	})
	return b, fake
}

func TestBackend_AttachLifecycle(t *testing.T) {
	b := NewBackend(nil)
	b.client = newFakeValues()
	require.NoError(t, b.Attach(testConfig()))
	assert.ErrorIs(t, b.Attach(testConfig()), types.ErrAlreadyAttached)
	require.NoError(t, b.Detach())
	assert.NoError(t, b.Detach(), "second Detach should not error")

	_, err := b.Apps().List(context.Background())
	assert.ErrorIs(t, err, types.ErrStoreDetached)
}

func TestBackend_AttachRejectsBadConfig(t *testing.T) {
	b := NewBackend(nil)
	b.client = newFakeValues()
	err := b.Attach(types.Config{Backend: types.BackendSheets})
	assert.Error(t, err, "Attach with empty spreadsheet ID should fail")
}

func TestBackend_ReadsAbsorbClientFailures(t *testing.T) {
	b, fake := newTestBackend(t)
	ctx := context.Background()
	fake.fail = errors.New("quota exceeded")

	apps, err := b.Apps().List(ctx)
	require.NoError(t, err)
	require.NotNil(t, apps, "List must return an empty slice, not nil")
	assert.Empty(t, apps)

	items, err := b.Items().List(ctx, "any-app")
	require.NoError(t, err)
	assert.Empty(t, items)

	// Point reads and writes still surface the failure.
	_, err = b.Apps().Get(ctx, "some-id")
	assert.Error(t, err, "Get should fail when the client fails")
	_, err = b.Apps().Create(ctx, types.NewApp{Name: "X"})
	assert.Error(t, err, "Create should fail when the client fails")
}

func TestBackend_ClearedRowsAreSkipped(t *testing.T) {
	b, fake := newTestBackend(t)
	ctx := context.Background()

	first, err := b.Apps().Create(ctx, types.NewApp{Name: "First"})
	require.NoError(t, err)
	second, err := b.Apps().Create(ctx, types.NewApp{Name: "Second"})
	require.NoError(t, err)

	require.NoError(t, b.Apps().Delete(ctx, first.ID))

	// The cleared row stays in the tab; readers must step over it.
	assert.Len(t, fake.tabs[tabApps], 3, "header + blank + survivor")
	apps, err := b.Apps().List(ctx)
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, second.ID, apps[0].ID)
}
