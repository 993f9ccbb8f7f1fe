// Tests for the forms and form entries stores.
package sqlite

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/appdeck/pkg/types"
)

func TestForms_CreateDefaults(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()

	app, err := b.Apps().Create(ctx, types.NewApp{Name: "Contact", AppType: types.AppTypeForm})
	require.NoError(t, err)
	form, err := b.Forms().Create(ctx, types.NewForm{
		AppID: app.ID,
		Name:  "Contact Us",
		Fields: []types.FormField{
			{ID: "f1", Name: "email", Type: types.FieldTypeEmail, Required: true},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, types.DefaultSubmitText, form.SubmitText)
	assert.Equal(t, types.DefaultSuccessMsg, form.SuccessMsg)
	assert.True(t, form.IsPublished, "forms default to published")

	got, err := b.Forms().Get(ctx, form.ID)
	require.NoError(t, err)
	require.Len(t, got.Fields, 1)
	assert.Equal(t, "email", got.Fields[0].Name, "fields round-trip through storage")
}

func TestForms_UpdateUnpublishKeepsFields(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()

	app, err := b.Apps().Create(ctx, types.NewApp{Name: "Contact"})
	require.NoError(t, err)
	form, err := b.Forms().Create(ctx, types.NewForm{
		AppID:  app.ID,
		Name:   "Contact Us",
		Fields: []types.FormField{{ID: "f1", Name: "email", Type: types.FieldTypeEmail}},
	})
	require.NoError(t, err)

	published := false
	updated, err := b.Forms().Update(ctx, form.ID, types.FormPatch{IsPublished: &published})
	require.NoError(t, err)
	assert.False(t, updated.IsPublished)
	assert.Len(t, updated.Fields, 1, "fields survive a publish toggle")
}

func TestEntries_PaginationNewestFirst(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()

	app, err := b.Apps().Create(ctx, types.NewApp{Name: "Contact"})
	require.NoError(t, err)
	form, err := b.Forms().Create(ctx, types.NewForm{AppID: app.ID, Name: "Contact Us"})
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, err := b.Entries().Create(ctx, types.NewEntry{
			FormID: form.ID,
			Data:   map[string]any{"n": fmt.Sprintf("%d", i)},
		})
		require.NoError(t, err)
	}

	page, err := b.Entries().ListByForm(ctx, form.ID, 2, 0)
	require.NoError(t, err)
	assert.Len(t, page, 2)

	rest, err := b.Entries().ListByForm(ctx, form.ID, 100, 2)
	require.NoError(t, err)
	assert.Len(t, rest, 3)

	total, err := b.Entries().CountByForm(ctx, form.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
}

func TestEntries_ListEmptyFormNeverErrors(t *testing.T) {
	b := newTestBackend(t)

	entries, err := b.Entries().ListByForm(context.Background(), "no-such-form", 0, 0)
	require.NoError(t, err)
	require.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestEntries_DeleteIdempotent(t *testing.T) {
	b := newTestBackend(t)

	assert.NoError(t, b.Entries().Delete(context.Background(), "no-such-entry"))
}

func TestLinks_CreateAndOrder(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()

	app, err := b.Apps().Create(ctx, types.NewApp{Name: "Portal", AppType: types.AppTypeEmbed})
	require.NoError(t, err)

	first, err := b.Links().Create(ctx, types.NewLink{AppID: app.ID, Title: "Docs", URL: "https://example.com/docs"})
	require.NoError(t, err)
	assert.Equal(t, types.DefaultLinkIcon, first.Icon)
	assert.Equal(t, 0, first.DisplayOrder)

	second, err := b.Links().Create(ctx, types.NewLink{AppID: app.ID, Title: "Blog", URL: "https://example.com/blog"})
	require.NoError(t, err)
	assert.Equal(t, 1, second.DisplayOrder)

	links, err := b.Links().List(ctx, app.ID)
	require.NoError(t, err)
	assert.Len(t, links, 2)
	assert.NoError(t, b.Links().Delete(ctx, "missing"), "deleting an unknown link succeeds")
}

func TestSources_UpdateConfigOnly(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()

	app, err := b.Apps().Create(ctx, types.NewApp{Name: "Catalog"})
	require.NoError(t, err)
	src, err := b.Sources().Create(ctx, types.NewDataSource{
		AppID:  app.ID,
		Type:   types.SourceTypeGoogleSheets,
		Config: map[string]any{"sheet": "Roster"},
	})
	require.NoError(t, err)

	cfg := map[string]any{"sheet": "Roster", "range": "A:F"}
	updated, err := b.Sources().Update(ctx, src.ID, types.DataSourcePatch{Config: &cfg})
	require.NoError(t, err)
	assert.Equal(t, types.SourceTypeGoogleSheets, updated.Type, "type survives a config update")
	assert.Equal(t, "A:F", updated.Config["range"])
}
