package sheets

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mesh-intelligence/appdeck/pkg/types"
)

// appStore keeps apps in the Apps tab. Columns A..K:
// id, name, description, icon, iconType, appType, config, isPublished,
// shareCode, createdAt, updatedAt.
type appStore struct {
	backend *Backend
}

var _ types.AppStore = (*appStore)(nil)

func (s *appStore) List(ctx context.Context) ([]types.App, error) {
	rows, err := s.backend.dataRows(ctx, tabApps, lastApps)
	if err != nil {
		if errors.Is(err, types.ErrStoreDetached) {
			return nil, err
		}
		s.backend.log.Warn("listing apps failed, returning empty set", "error", err)
		return []types.App{}, nil
	}
	apps := make([]types.App, 0, len(rows))
	for _, row := range rows {
		apps = append(apps, hydrateApp(row.cells))
	}
	return apps, nil
}

func (s *appStore) Get(ctx context.Context, id string) (*types.App, error) {
	row, err := s.backend.findRow(ctx, tabApps, lastApps, id)
	if err != nil {
		return nil, err
	}
	app := hydrateApp(row.cells)
	return &app, nil
}

func (s *appStore) GetByShareCode(ctx context.Context, shareCode string) (*types.App, error) {
	if shareCode == "" {
		return nil, types.ErrInvalidID
	}
	rows, err := s.backend.dataRows(ctx, tabApps, lastApps)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if cell(row.cells, 8) == shareCode {
			app := hydrateApp(row.cells)
			return &app, nil
		}
	}
	return nil, types.ErrNotFound
}

func (s *appStore) Create(ctx context.Context, in types.NewApp) (*types.App, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("%w: app name is required", types.ErrValidation)
	}
	if in.AppType != "" && !types.ValidAppType(in.AppType) {
		return nil, fmt.Errorf("%w: unknown app type %q", types.ErrValidation, in.AppType)
	}

	now := time.Now().UTC()
	app := types.App{
		ID:          types.NewID(),
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
	applyAppDefaults(&app)

	if err := s.backend.appendRow(ctx, tabApps, lastApps, dehydrateApp(app)); err != nil {
		return nil, err
	}
	return &app, nil
}

func (s *appStore) Update(ctx context.Context, id string, patch types.AppPatch) (*types.App, error) {
	row, err := s.backend.findRow(ctx, tabApps, lastApps, id)
	if err != nil {
		return nil, err
	}
	app := hydrateApp(row.cells)
	patch.Apply(&app, time.Now().UTC())
	if err := s.backend.updateRow(ctx, tabApps, lastApps, row.num, dehydrateApp(app)); err != nil {
		return nil, err
	}
	return &app, nil
}

// Delete clears the app row and cascades over the dependent tabs. Deleting
// an absent app is a no-op.
func (s *appStore) Delete(ctx context.Context, id string) error {
	row, err := s.backend.findRow(ctx, tabApps, lastApps, id)
	if errors.Is(err, types.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	forms, err := s.backend.dataRows(ctx, tabForms, lastForms)
	if err != nil {
		return err
	}
	formIDs := map[string]bool{}
	for _, f := range forms {
		if cell(f.cells, 1) != id {
			continue
		}
		formIDs[cell(f.cells, 0)] = true
		if err := s.backend.clearRow(ctx, tabForms, lastForms, f.num); err != nil {
			return err
		}
	}

	entries, err := s.backend.dataRows(ctx, tabEntries, lastEnts)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if !formIDs[cell(e.cells, 1)] {
			continue
		}
		if err := s.backend.clearRow(ctx, tabEntries, lastEnts, e.num); err != nil {
			return err
		}
	}

	items, err := s.backend.dataRows(ctx, tabData, lastData)
	if err != nil {
		return err
	}
	for _, it := range items {
		if cell(it.cells, 1) != id {
			continue
		}
		if err := s.backend.clearRow(ctx, tabData, lastData, it.num); err != nil {
			return err
		}
	}

	links, err := s.backend.dataRows(ctx, tabLinks, lastLinks)
	if err != nil {
		return err
	}
	for _, l := range links {
		if cell(l.cells, 1) != id {
			continue
		}
		if err := s.backend.clearRow(ctx, tabLinks, lastLinks, l.num); err != nil {
			return err
		}
	}

	return s.backend.clearRow(ctx, tabApps, lastApps, row.num)
}

func applyAppDefaults(app *types.App) {
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
}

func hydrateApp(cells []string) types.App {
	return types.App{
		ID:          cell(cells, 0),
		Name:        cell(cells, 1),
		Description: cell(cells, 2),
		Icon:        cell(cells, 3),
		IconType:    cell(cells, 4),
		AppType:     cell(cells, 5),
		Config:      parseObjectCell(cell(cells, 6)),
		IsPublished: parseBoolCell(cell(cells, 7)),
		ShareCode:   cell(cells, 8),
		CreatedAt:   parseTimeCell(cell(cells, 9)),
		UpdatedAt:   parseTimeCell(cell(cells, 10)),
	}
}

func dehydrateApp(app types.App) []string {
	return []string{
		app.ID,
		app.Name,
		app.Description,
		app.Icon,
		app.IconType,
		app.AppType,
		marshalCell(app.Config),
		boolCell(app.IsPublished),
		app.ShareCode,
		timeCell(app.CreatedAt),
		timeCell(app.UpdatedAt),
	}
}
