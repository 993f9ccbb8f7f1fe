// In-process stack tests: the sqlite backend behind the HTTP API, exercised
// through the REST client and the syncer, the way the client commands use
// them.
package integration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/mesh-intelligence/appdeck/internal/client"
	"github.com/mesh-intelligence/appdeck/internal/httpapi"
	"github.com/mesh-intelligence/appdeck/internal/sqlite"
	"github.com/mesh-intelligence/appdeck/internal/state"
	"github.com/mesh-intelligence/appdeck/internal/syncer"
	"github.com/mesh-intelligence/appdeck/pkg/types"
)

// newStack starts an in-process API server over a fresh sqlite backend and
// returns a REST client against it.
func newStack(t *testing.T) *client.Client {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store := sqlite.NewBackend(logger)
	if err := store.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	t.Cleanup(func() { store.Detach() })

	api := httpapi.New(store, logger, httpapi.Options{})
	srv := httptest.NewServer(api.Handler())
	t.Cleanup(srv.Close)

	return client.New(srv.URL)
}

// mustCreateApp creates an app through the REST client.
func mustCreateApp(t *testing.T, c *client.Client, in types.NewApp) *types.App {
	t.Helper()
	app, err := c.CreateApp(context.Background(), in)
	if err != nil {
		t.Fatalf("CreateApp: %v", err)
	}
	return app
}

// contactForm is a published form with a required name and email field.
func contactForm(appID string) types.NewForm {
	return types.NewForm{
		AppID: appID,
		Name:  "Contact",
		Fields: []types.FormField{
			{ID: "f1", Name: "name", Label: "Name", Type: types.FieldTypeText, Required: true},
			{ID: "f2", Name: "email", Label: "Email", Type: types.FieldTypeEmail, Required: true},
		},
	}
}

func TestFormSubmissionRoundTrip(t *testing.T) {
	c := newStack(t)
	ctx := context.Background()

	app := mustCreateApp(t, c, types.NewApp{Name: "Contact Form", AppType: types.AppTypeForm})
	form, err := c.CreateForm(ctx, contactForm(app.ID))
	if err != nil {
		t.Fatalf("CreateForm: %v", err)
	}
	if form.SubmitText != types.DefaultSubmitText {
		t.Errorf("submit text = %q, want default", form.SubmitText)
	}

	// Valid submission.
	entry, err := c.SubmitEntry(ctx, types.NewEntry{
		FormID: form.ID,
		Data:   map[string]any{"name": "Jane Smith", "email": "jane@example.com"},
	})
	if err != nil {
		t.Fatalf("SubmitEntry: %v", err)
	}
	if entry.ID == "" {
		t.Error("entry ID not assigned")
	}

	// Missing required field is rejected at the API boundary.
	_, err = c.SubmitEntry(ctx, types.NewEntry{
		FormID: form.ID,
		Data:   map[string]any{"name": "No Email"},
	})
	if !errors.Is(err, types.ErrValidation) {
		t.Errorf("missing field: got %v, want ErrValidation", err)
	}

	// Malformed email is rejected.
	_, err = c.SubmitEntry(ctx, types.NewEntry{
		FormID: form.ID,
		Data:   map[string]any{"name": "Bad Email", "email": "not-an-email"},
	})
	if !errors.Is(err, types.ErrValidation) {
		t.Errorf("bad email: got %v, want ErrValidation", err)
	}

	// Unpublished forms do not accept submissions, and the caller cannot
	// tell whether the form exists at all.
	published := false
	if _, err := c.UpdateForm(ctx, form.ID, types.FormPatch{IsPublished: &published}); err != nil {
		t.Fatalf("UpdateForm: %v", err)
	}
	_, err = c.SubmitEntry(ctx, types.NewEntry{
		FormID: form.ID,
		Data:   map[string]any{"name": "Late", "email": "late@example.com"},
	})
	if !errors.Is(err, types.ErrNotFound) {
		t.Errorf("unpublished form: got %v, want ErrNotFound", err)
	}
}

func TestEntryPaginationThroughClient(t *testing.T) {
	c := newStack(t)
	ctx := context.Background()

	app := mustCreateApp(t, c, types.NewApp{Name: "Survey", AppType: types.AppTypeForm})
	form, err := c.CreateForm(ctx, types.NewForm{
		AppID:  app.ID,
		Name:   "Feedback",
		Fields: []types.FormField{{ID: "f1", Name: "note", Label: "Note", Type: types.FieldTypeText}},
	})
	if err != nil {
		t.Fatalf("CreateForm: %v", err)
	}

	for i := 0; i < 5; i++ {
		_, err := c.SubmitEntry(ctx, types.NewEntry{
			FormID: form.ID,
			Data:   map[string]any{"note": fmt.Sprintf("entry %d", i)},
		})
		if err != nil {
			t.Fatalf("SubmitEntry %d: %v", i, err)
		}
	}

	page, err := c.ListEntries(ctx, form.ID, 2, 2)
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}
	if page.Total != 5 {
		t.Errorf("total = %d, want 5", page.Total)
	}
	if len(page.Entries) != 2 {
		t.Errorf("page size = %d, want 2", len(page.Entries))
	}
	if page.Limit != 2 || page.Offset != 2 {
		t.Errorf("page metadata = limit %d offset %d, want 2/2", page.Limit, page.Offset)
	}
}

func TestSyncerAgainstLiveServer(t *testing.T) {
	c := newStack(t)
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	local, err := state.NewStore(t.TempDir(), logger)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	s := syncer.New(c, local, logger)

	app := s.CreateApp(ctx, types.NewApp{Name: "Inventory", AppType: types.AppTypeData})
	item := s.CreateItem(ctx, types.NewDataItem{
		AppID: app.ID,
		Data:  map[string]any{"Name": "Widget"},
	})

	// The mutations went through the server, not the local fallback.
	if local.Offline() {
		t.Fatal("store marked offline while server is up")
	}
	remote, err := c.ListItems(ctx, app.ID)
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(remote) != 1 || remote[0].ID != item.ID {
		t.Fatalf("expected item %s on server, got %+v", item.ID, remote)
	}

	// Favorite toggles replicate to the server.
	if got := s.ToggleFavorite(ctx, item.ID); !got {
		t.Fatal("ToggleFavorite returned false")
	}
	remote, err = c.ListItems(ctx, app.ID)
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if !remote[0].IsFavorite {
		t.Error("favorite flag did not reach the server")
	}

	// A fresh client session pulls the server state back down.
	other, err := state.NewStore(t.TempDir(), logger)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	s2 := syncer.New(c, other, logger)
	s2.RefreshApps(ctx)
	if err := s2.RefreshAppContent(ctx, app.ID); err != nil {
		t.Fatalf("RefreshAppContent: %v", err)
	}
	if other.Offline() {
		t.Error("fresh session marked offline")
	}
	items := other.ProjectItems(app.ID, false)
	if len(items) != 1 || !items[0].IsFavorite {
		t.Errorf("fresh session items = %+v, want the favorited widget", items)
	}
}

func TestShareResolverAgainstLiveServer(t *testing.T) {
	c := newStack(t)
	ctx := context.Background()

	app := mustCreateApp(t, c, types.NewApp{Name: "Catalog", AppType: types.AppTypeData})
	if _, err := c.CreateItem(ctx, types.NewDataItem{
		AppID: app.ID,
		Data:  map[string]any{"Name": "Widget"},
	}); err != nil {
		t.Fatalf("CreateItem: %v", err)
	}

	r := syncer.NewShareResolver(c)
	if got := r.Resolve(ctx, app.ShareCode); got != syncer.StateFound {
		t.Fatalf("Resolve = %v, want found", got)
	}
	shared := r.App()
	if shared.Name != "Catalog" || len(shared.DataItems) != 1 {
		t.Errorf("shared view = %+v, want Catalog with 1 item", shared)
	}

	// Unpublishing makes the code resolve like an unknown one.
	published := false
	if _, err := c.UpdateApp(ctx, app.ID, types.AppPatch{IsPublished: &published}); err != nil {
		t.Fatalf("UpdateApp: %v", err)
	}
	r2 := syncer.NewShareResolver(c)
	if got := r2.Resolve(ctx, app.ShareCode); got != syncer.StateNotFound {
		t.Errorf("Resolve after unpublish = %v, want not found", got)
	}
}
