// Tests for SQLite backend lifecycle.
package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/appdeck/pkg/types"
)

// newTestBackend returns an attached backend rooted in a temp dir.
func newTestBackend(t *testing.T) *Backend {
	t.Helper()
	b := NewBackend(nil)
	config := types.Config{
		Backend: types.BackendSQLite,
		DataDir: t.TempDir(),
	}
	require.NoError(t, b.Attach(config))
	t.Cleanup(func() { b.Detach() })
	return b
}

func TestBackend_Attach(t *testing.T) {
	tmpDir := t.TempDir()

	b := NewBackend(nil)
	config := types.Config{
		Backend: types.BackendSQLite,
		DataDir: tmpDir,
	}

	require.NoError(t, b.Attach(config))
	defer b.Detach()

	assert.FileExists(t, filepath.Join(tmpDir, "appdeck.db"))
	assert.ErrorIs(t, b.Attach(config), types.ErrAlreadyAttached)
}

func TestBackend_AttachRejectsBadConfig(t *testing.T) {
	b := NewBackend(nil)
	assert.ErrorIs(t, b.Attach(types.Config{Backend: "mystery"}), types.ErrBackendUnknown)
}

func TestBackend_Detach(t *testing.T) {
	b := NewBackend(nil)
	config := types.Config{
		Backend: types.BackendSQLite,
		DataDir: t.TempDir(),
	}
	require.NoError(t, b.Attach(config))

	require.NoError(t, b.Detach())
	assert.NoError(t, b.Detach(), "second Detach should not error")

	_, err := b.Apps().List(context.Background())
	assert.ErrorIs(t, err, types.ErrStoreDetached)
}

func TestBackend_ReattachKeepsData(t *testing.T) {
	tmpDir := t.TempDir()
	config := types.Config{Backend: types.BackendSQLite, DataDir: tmpDir}
	ctx := context.Background()

	b := NewBackend(nil)
	require.NoError(t, b.Attach(config))
	app, err := b.Apps().Create(ctx, types.NewApp{Name: "Catalog"})
	require.NoError(t, err)
	b.Detach()

	b2 := NewBackend(nil)
	require.NoError(t, b2.Attach(config))
	defer b2.Detach()

	got, err := b2.Apps().Get(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, "Catalog", got.Name)
}
