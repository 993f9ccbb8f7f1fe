package sheets

import (
	"context"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/appdeck/pkg/types"
)

// sourceStore synthesizes data sources from the Data tab: every distinct
// non-empty dataSourceId column value is one source. There is no Sources tab,
// so a source only becomes visible once an item references it; source
// configuration lives with whichever caller holds the source record.
type sourceStore struct {
	backend *Backend
}

var _ types.SourceStore = (*sourceStore)(nil)

func (s *sourceStore) List(ctx context.Context, appID string) ([]types.DataSource, error) {
	sources, err := s.synthesize(ctx)
	if err != nil {
		if errors.Is(err, types.ErrStoreDetached) {
			return nil, err
		}
		s.backend.log.Warn("listing sources failed, returning empty set", "appID", appID, "error", err)
		return []types.DataSource{}, nil
	}
	if appID == "" {
		return sources, nil
	}
	out := make([]types.DataSource, 0, len(sources))
	for _, src := range sources {
		if src.AppID == appID {
			out = append(out, src)
		}
	}
	return out, nil
}

func (s *sourceStore) Get(ctx context.Context, id string) (*types.DataSource, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	sources, err := s.synthesize(ctx)
	if err != nil {
		return nil, err
	}
	for _, src := range sources {
		if src.ID == id {
			return &src, nil
		}
	}
	return nil, types.ErrNotFound
}

// Create assigns an ID and returns the record without writing anything; the
// source materializes in the tab through the items later attached to it.
func (s *sourceStore) Create(ctx context.Context, in types.NewDataSource) (*types.DataSource, error) {
	if in.AppID == "" {
		return nil, fmt.Errorf("%w: data source needs an app", types.ErrValidation)
	}
	if _, err := s.backend.conn(); err != nil {
		return nil, err
	}
	src := types.DataSource{
		ID:     types.NewID(),
		AppID:  in.AppID,
		Type:   in.Type,
		Config: in.Config,
	}
	if src.Type == "" {
		src.Type = types.SourceTypeGoogleSheets
	}
	if src.Config == nil {
		src.Config = map[string]any{}
	}
	return &src, nil
}

// Update merges the patch into the synthesized record. Config and sync state
// are not persisted in this backend; the merged record is returned for the
// caller to carry.
func (s *sourceStore) Update(ctx context.Context, id string, patch types.DataSourcePatch) (*types.DataSource, error) {
	src, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(src)
	return src, nil
}

// Delete detaches every item referencing the source by blanking its
// dataSourceId cell. Deleting an unknown source is a no-op.
func (s *sourceStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	rows, err := s.backend.dataRows(ctx, tabData, lastData)
	if err != nil {
		return err
	}
	for _, row := range rows {
		if cell(row.cells, 5) != id {
			continue
		}
		it := hydrateItem(row.cells)
		it.DataSourceID = ""
		if err := s.backend.updateRow(ctx, tabData, lastData, row.num, dehydrateItem(it)); err != nil {
			return err
		}
	}
	return nil
}

// synthesize groups Data tab rows on their dataSourceId column. The app of a
// source is the first non-empty appId seen among its items.
func (s *sourceStore) synthesize(ctx context.Context) ([]types.DataSource, error) {
	rows, err := s.backend.dataRows(ctx, tabData, lastData)
	if err != nil {
		return nil, err
	}
	seen := map[string]int{}
	sources := []types.DataSource{}
	for _, row := range rows {
		sourceID := cell(row.cells, 5)
		if sourceID == "" {
			continue
		}
		if i, ok := seen[sourceID]; ok {
			if sources[i].AppID == "" {
				sources[i].AppID = cell(row.cells, 1)
			}
			continue
		}
		seen[sourceID] = len(sources)
		sources = append(sources, types.DataSource{
			ID:     sourceID,
			AppID:  cell(row.cells, 1),
			Type:   types.SourceTypeGoogleSheets,
			Config: map[string]any{},
		})
	}
	return sources, nil
}
