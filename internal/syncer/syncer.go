// Package syncer keeps the local record store reconciled with a remote
// appdeck server. Every mutation is remote-first: on success the canonical
// server record lands in the store, on failure an equivalent record is
// synthesized locally and the operation still reports success. The caller
// therefore works identically online and offline.
package syncer

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mesh-intelligence/appdeck/internal/state"
	"github.com/mesh-intelligence/appdeck/pkg/types"
)

// API is the remote surface the syncer drives. internal/client satisfies it;
// tests substitute a stub.
type API interface {
	ListApps(ctx context.Context) ([]types.App, error)
	CreateApp(ctx context.Context, in types.NewApp) (*types.App, error)
	UpdateApp(ctx context.Context, id string, patch types.AppPatch) (*types.App, error)
	DeleteApp(ctx context.Context, id string) error

	ListItems(ctx context.Context, appID string) ([]types.DataItem, error)
	CreateItem(ctx context.Context, in types.NewDataItem) (*types.DataItem, error)
	UpdateItem(ctx context.Context, id string, patch types.DataItemPatch) (*types.DataItem, error)
	DeleteItem(ctx context.Context, id string) error

	ListForms(ctx context.Context, appID string) ([]types.Form, error)
	SubmitEntry(ctx context.Context, in types.NewEntry) (*types.FormEntry, error)

	GetShared(ctx context.Context, code string) (*types.SharedApp, error)
}

// Syncer reconciles a state.Store against a remote API. IDs and Now are
// injectable so the local synthesis path is deterministic under test.
type Syncer struct {
	API   API
	Store *state.Store
	IDs   func() string
	Now   func() time.Time
	Log   *slog.Logger
}

// New builds a syncer with production ID and clock sources.
func New(api API, store *state.Store, log *slog.Logger) *Syncer {
	if log == nil {
		log = slog.Default()
	}
	return &Syncer{
		API:   api,
		Store: store,
		IDs:   types.NewID,
		Now:   time.Now,
		Log:   log,
	}
}

// RefreshApps pulls the app list. When the server is unreachable the store
// flips offline and, if still empty, is seeded with demo content so there is
// always something to show.
func (s *Syncer) RefreshApps(ctx context.Context) {
	apps, err := s.API.ListApps(ctx)
	if err != nil {
		s.Log.Warn("app refresh failed", "error", err)
		s.Store.SetOffline(true)
		if len(s.Store.Apps()) == 0 {
			s.SeedDemo()
		}
		return
	}
	s.Store.SetApps(apps)
	s.Store.SetOffline(false)
	s.Store.SetLastRefresh(s.Now())
}

// RefreshAppContent loads the items and forms of one app concurrently. The
// two fetches are independent; either failing fails the refresh and leaves
// the store untouched.
func (s *Syncer) RefreshAppContent(ctx context.Context, appID string) error {
	var (
		items []types.DataItem
		forms []types.Form
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.API.ListItems(gctx, appID)
		return err
	})
	g.Go(func() error {
		var err error
		forms, err = s.API.ListForms(gctx, appID)
		return err
	})
	if err := g.Wait(); err != nil {
		s.Log.Warn("app content refresh failed", "appID", appID, "error", err)
		s.Store.SetOffline(true)
		return err
	}
	s.Store.SetAppItems(appID, items)
	s.Store.SetAppForms(appID, forms)
	s.Store.SetOffline(false)
	return nil
}

// CreateApp creates remotely when possible, otherwise fabricates the record
// locally. Either way the returned app is in the store and the call
// succeeds.
func (s *Syncer) CreateApp(ctx context.Context, in types.NewApp) types.App {
	if created, err := s.API.CreateApp(ctx, in); err == nil {
		s.Store.AddApp(*created)
		return *created
	} else {
		s.Log.Warn("remote app create failed, keeping local copy", "name", in.Name, "error", err)
	}

	now := s.Now()
	app := types.App{
		ID:          s.IDs(),
		Name:        in.Name,
		Description: in.Description,
		Icon:        in.Icon,
		IconType:    in.IconType,
		AppType:     in.AppType,
		Config:      in.Config,
		IsPublished: true,
		ShareCode:   types.NewShareCode(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if app.Icon == "" {
		app.Icon = types.DefaultAppIcon
	}
	if app.IconType == "" {
		app.IconType = types.IconTypeDefault
	}
	if app.AppType == "" {
		app.AppType = types.AppTypeData
	}
	if app.Config == nil {
		app.Config = map[string]any{}
	}
	s.Store.AddApp(app)
	s.Store.SetOffline(true)
	return app
}

// UpdateApp patches remotely when possible, otherwise applies the patch to
// the local record.
func (s *Syncer) UpdateApp(ctx context.Context, id string, patch types.AppPatch) {
	if updated, err := s.API.UpdateApp(ctx, id, patch); err == nil {
		s.Store.UpdateApp(*updated)
		return
	} else {
		s.Log.Warn("remote app update failed, patching locally", "appID", id, "error", err)
	}
	if app, ok := s.Store.App(id); ok {
		patch.Apply(&app, s.Now())
		s.Store.UpdateApp(app)
	}
	s.Store.SetOffline(true)
}

// DeleteApp removes the app remotely and locally. A remote failure still
// removes the local copy.
func (s *Syncer) DeleteApp(ctx context.Context, id string) {
	if err := s.API.DeleteApp(ctx, id); err != nil {
		s.Log.Warn("remote app delete failed, removing local copy", "appID", id, "error", err)
		s.Store.SetOffline(true)
	}
	s.Store.DeleteApp(id)
}

// CreateItem creates remotely when possible, otherwise fabricates the item
// with a display order computed from the local projection.
func (s *Syncer) CreateItem(ctx context.Context, in types.NewDataItem) types.DataItem {
	if created, err := s.API.CreateItem(ctx, in); err == nil {
		s.Store.AddItem(*created)
		return *created
	} else {
		s.Log.Warn("remote item create failed, keeping local copy", "appID", in.AppID, "error", err)
	}

	now := s.Now()
	it := types.DataItem{
		ID:           s.IDs(),
		AppID:        in.AppID,
		Data:         in.Data,
		IsFavorite:   in.IsFavorite,
		DisplayOrder: len(s.Store.ProjectItems(in.AppID, false)),
		DataSourceID: in.DataSourceID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if it.Data == nil {
		it.Data = map[string]any{}
	}
	s.Store.AddItem(it)
	s.Store.SetOffline(true)
	return it
}

// DeleteItem removes the item remotely and locally. A remote failure still
// removes the local copy.
func (s *Syncer) DeleteItem(ctx context.Context, id string) {
	if err := s.API.DeleteItem(ctx, id); err != nil {
		s.Log.Warn("remote item delete failed, removing local copy", "itemID", id, "error", err)
		s.Store.SetOffline(true)
	}
	s.Store.DeleteItem(id)
}

// ToggleFavorite is optimistic: the local flag flips first, then the new
// value is pushed best-effort. A remote failure keeps the local flip.
func (s *Syncer) ToggleFavorite(ctx context.Context, id string) bool {
	now := s.Store.ToggleFavorite(id)
	fav := now
	if _, err := s.API.UpdateItem(ctx, id, types.DataItemPatch{IsFavorite: &fav}); err != nil {
		s.Log.Debug("favorite toggle not pushed", "itemID", id, "error", err)
	}
	return now
}

// SubmitEntry submits remotely when possible, otherwise records the entry
// locally.
func (s *Syncer) SubmitEntry(ctx context.Context, in types.NewEntry) types.FormEntry {
	if created, err := s.API.SubmitEntry(ctx, in); err == nil {
		s.Store.AddEntry(*created)
		return *created
	} else {
		s.Log.Warn("remote entry submit failed, keeping local copy", "formID", in.FormID, "error", err)
	}

	e := types.FormEntry{
		ID:        s.IDs(),
		FormID:    in.FormID,
		Data:      in.Data,
		CreatedAt: s.Now(),
	}
	if e.Data == nil {
		e.Data = map[string]any{}
	}
	s.Store.AddEntry(e)
	s.Store.SetOffline(true)
	return e
}
