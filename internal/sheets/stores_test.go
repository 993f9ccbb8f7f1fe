package sheets

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/appdeck/pkg/types"
)

func TestApps_CreateAppliesDefaults(t *testing.T) {
	b, _ := newTestBackend(t)
	ctx := context.Background()

	app, err := b.Apps().Create(ctx, types.NewApp{Name: "Catalog"})
	require.NoError(t, err)
	assert.Equal(t, types.DefaultAppIcon, app.Icon)
	assert.Equal(t, types.AppTypeData, app.AppType)
	assert.True(t, app.IsPublished, "new app should be published")
	assert.Len(t, app.ShareCode, types.ShareCodeLength)

	got, err := b.Apps().GetByShareCode(ctx, app.ShareCode)
	require.NoError(t, err)
	assert.Equal(t, app.ID, got.ID)
	assert.Equal(t, "Catalog", got.Name)
}

func TestApps_UpdatePreservesUntouchedFields(t *testing.T) {
	b, _ := newTestBackend(t)
	ctx := context.Background()

	app, err := b.Apps().Create(ctx, types.NewApp{Name: "Before", Description: "keep me"})
	require.NoError(t, err)

	name := "After"
	updated, err := b.Apps().Update(ctx, app.ID, types.AppPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "After", updated.Name)
	assert.Equal(t, "keep me", updated.Description, "untouched fields survive")
	assert.Equal(t, app.ShareCode, updated.ShareCode, "share code must survive updates")

	_, err = b.Apps().Update(ctx, "missing", types.AppPatch{Name: &name})
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestApps_DeleteCascades(t *testing.T) {
	b, _ := newTestBackend(t)
	ctx := context.Background()

	app, err := b.Apps().Create(ctx, types.NewApp{Name: "Doomed"})
	require.NoError(t, err)
	_, err = b.Items().Create(ctx, types.NewDataItem{AppID: app.ID, Data: map[string]any{"name": "x"}})
	require.NoError(t, err)
	form, err := b.Forms().Create(ctx, types.NewForm{AppID: app.ID, Name: "Contact"})
	require.NoError(t, err)
	_, err = b.Entries().Create(ctx, types.NewEntry{FormID: form.ID, Data: map[string]any{"a": "b"}})
	require.NoError(t, err)
	_, err = b.Links().Create(ctx, types.NewLink{AppID: app.ID, Title: "Docs", URL: "https://example.com"})
	require.NoError(t, err)

	require.NoError(t, b.Apps().Delete(ctx, app.ID))
	assert.NoError(t, b.Apps().Delete(ctx, app.ID), "second delete succeeds")

	items, err := b.Items().List(ctx, app.ID)
	require.NoError(t, err)
	forms, err := b.Forms().List(ctx, app.ID)
	require.NoError(t, err)
	entries, err := b.Entries().ListByForm(ctx, form.ID, 0, 0)
	require.NoError(t, err)
	links, err := b.Links().List(ctx, app.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Empty(t, forms)
	assert.Empty(t, entries)
	assert.Empty(t, links)
}

func TestItems_DisplayOrderTracksScope(t *testing.T) {
	b, _ := newTestBackend(t)
	ctx := context.Background()

	app, err := b.Apps().Create(ctx, types.NewApp{Name: "A"})
	require.NoError(t, err)
	other, err := b.Apps().Create(ctx, types.NewApp{Name: "B"})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		it, err := b.Items().Create(ctx, types.NewDataItem{AppID: app.ID})
		require.NoError(t, err)
		assert.Equal(t, i, it.DisplayOrder, "item %d", i)
	}
	// A second app counts its own items only.
	it, err := b.Items().Create(ctx, types.NewDataItem{AppID: other.ID})
	require.NoError(t, err)
	assert.Equal(t, 0, it.DisplayOrder)
}

func TestItems_MalformedDataCellDegradesToEmptyObject(t *testing.T) {
	b, fake := newTestBackend(t)
	ctx := context.Background()

	fake.addRow(tabData, []string{"item-1", "app-1", "{not json", "TRUE", "0", "", "2024-05-01T10:00:00Z", "2024-05-01T10:00:00Z"})

	items, err := b.Items().List(ctx, "app-1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].Data)
	assert.Empty(t, items[0].Data, "malformed data cell defaults to an empty object")
	assert.True(t, items[0].IsFavorite, "favorite flag should still hydrate")
}

func TestEntries_PaginationNewestFirst(t *testing.T) {
	b, fake := newTestBackend(t)
	ctx := context.Background()

	fake.addRow(tabEntries, []string{"e1", "form-1", "{}", "2024-05-01T10:00:00Z"})
	fake.addRow(tabEntries, []string{"e2", "form-1", "{}", "2024-05-02T10:00:00Z"})
	fake.addRow(tabEntries, []string{"e3", "form-1", "{}", "2024-05-03T10:00:00Z"})
	fake.addRow(tabEntries, []string{"e4", "form-2", "{}", "2024-05-04T10:00:00Z"})

	page, err := b.Entries().ListByForm(ctx, "form-1", 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "e3", page[0].ID)
	assert.Equal(t, "e2", page[1].ID)

	page, err = b.Entries().ListByForm(ctx, "form-1", 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "e1", page[0].ID)

	total, err := b.Entries().CountByForm(ctx, "form-1")
	require.NoError(t, err)
	assert.Equal(t, 3, total)
}

func TestForms_CreateAppliesDefaults(t *testing.T) {
	b, _ := newTestBackend(t)
	ctx := context.Background()

	form, err := b.Forms().Create(ctx, types.NewForm{AppID: "app-1", Name: "Contact"})
	require.NoError(t, err)
	assert.Equal(t, types.DefaultSubmitText, form.SubmitText)
	assert.Equal(t, types.DefaultSuccessMsg, form.SuccessMsg)
	assert.True(t, form.IsPublished, "new form should be published")
	assert.NotNil(t, form.Fields, "Fields should hydrate as an empty slice")

	got, err := b.Forms().Get(ctx, form.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.Fields, "round-tripped Fields should stay non-nil")
}

func TestLinks_OrderAndDefaultIcon(t *testing.T) {
	b, _ := newTestBackend(t)
	ctx := context.Background()

	first, err := b.Links().Create(ctx, types.NewLink{AppID: "app-1", Title: "Docs", URL: "https://example.com"})
	require.NoError(t, err)
	assert.Equal(t, types.DefaultLinkIcon, first.Icon)

	second, err := b.Links().Create(ctx, types.NewLink{AppID: "app-1", Title: "Blog", URL: "https://example.com/blog", Icon: "📝"})
	require.NoError(t, err)
	assert.Equal(t, 1, second.DisplayOrder)

	links, err := b.Links().List(ctx, "app-1")
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, first.ID, links[0].ID)
}

func TestSources_SynthesizedFromItems(t *testing.T) {
	b, _ := newTestBackend(t)
	ctx := context.Background()

	src, err := b.Sources().Create(ctx, types.NewDataSource{AppID: "app-1"})
	require.NoError(t, err)
	assert.Equal(t, types.SourceTypeGoogleSheets, src.Type)

	// The source is invisible until an item references it.
	_, err = b.Sources().Get(ctx, src.ID)
	assert.ErrorIs(t, err, types.ErrNotFound)

	for i := 0; i < 2; i++ {
		_, err := b.Items().Create(ctx, types.NewDataItem{AppID: "app-1", DataSourceID: src.ID})
		require.NoError(t, err)
	}

	sources, err := b.Sources().List(ctx, "app-1")
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, src.ID, sources[0].ID)

	require.NoError(t, b.Sources().Delete(ctx, src.ID))
	sources, err = b.Sources().List(ctx, "app-1")
	require.NoError(t, err)
	assert.Empty(t, sources)
	items, err := b.Items().List(ctx, "app-1")
	require.NoError(t, err)
	assert.Len(t, items, 2, "source delete detaches items, not removes them")
}
