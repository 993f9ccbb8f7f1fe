package sheets

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/mesh-intelligence/appdeck/pkg/types"
)

// itemStore keeps data items in the Data tab. Columns A..H:
// id, appId, data, isFavorite, displayOrder, dataSourceId, createdAt,
// updatedAt.
type itemStore struct {
	backend *Backend
}

var _ types.ItemStore = (*itemStore)(nil)

func (s *itemStore) List(ctx context.Context, appID string) ([]types.DataItem, error) {
	rows, err := s.backend.dataRows(ctx, tabData, lastData)
	if err != nil {
		if errors.Is(err, types.ErrStoreDetached) {
			return nil, err
		}
		s.backend.log.Warn("listing items failed, returning empty set", "appID", appID, "error", err)
		return []types.DataItem{}, nil
	}
	items := make([]types.DataItem, 0, len(rows))
	for _, row := range rows {
		if appID != "" && cell(row.cells, 1) != appID {
			continue
		}
		items = append(items, hydrateItem(row.cells))
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].DisplayOrder < items[j].DisplayOrder
	})
	return items, nil
}

func (s *itemStore) ListBySource(ctx context.Context, sourceID string, favoritesOnly bool) ([]types.DataItem, error) {
	rows, err := s.backend.dataRows(ctx, tabData, lastData)
	if err != nil {
		if errors.Is(err, types.ErrStoreDetached) {
			return nil, err
		}
		s.backend.log.Warn("listing source items failed, returning empty set", "sourceID", sourceID, "error", err)
		return []types.DataItem{}, nil
	}
	items := make([]types.DataItem, 0, len(rows))
	for _, row := range rows {
		if cell(row.cells, 5) != sourceID {
			continue
		}
		it := hydrateItem(row.cells)
		if favoritesOnly && !it.IsFavorite {
			continue
		}
		items = append(items, it)
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *itemStore) Get(ctx context.Context, id string) (*types.DataItem, error) {
	row, err := s.backend.findRow(ctx, tabData, lastData, id)
	if err != nil {
		return nil, err
	}
	it := hydrateItem(row.cells)
	return &it, nil
}

func (s *itemStore) Create(ctx context.Context, in types.NewDataItem) (*types.DataItem, error) {
	if in.AppID == "" && in.DataSourceID == "" {
		return nil, fmt.Errorf("%w: item needs an app or data source", types.ErrValidation)
	}

	// Display order is the current size of the item's scope, counted from a
	// fresh read of the tab.
	rows, err := s.backend.dataRows(ctx, tabData, lastData)
	if err != nil {
		return nil, err
	}
	order := 0
	for _, row := range rows {
		if in.AppID != "" && cell(row.cells, 1) == in.AppID {
			order++
		} else if in.AppID == "" && cell(row.cells, 5) == in.DataSourceID {
			order++
		}
	}

	now := time.Now().UTC()
	it := types.DataItem{
		ID:           types.NewID(),
		AppID:        in.AppID,
		Data:         in.Data,
		IsFavorite:   in.IsFavorite,
		DisplayOrder: order,
		DataSourceID: in.DataSourceID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if it.Data == nil {
		it.Data = map[string]any{}
	}

	if err := s.backend.appendRow(ctx, tabData, lastData, dehydrateItem(it)); err != nil {
		return nil, err
	}
	return &it, nil
}

func (s *itemStore) Update(ctx context.Context, id string, patch types.DataItemPatch) (*types.DataItem, error) {
	row, err := s.backend.findRow(ctx, tabData, lastData, id)
	if err != nil {
		return nil, err
	}
	it := hydrateItem(row.cells)
	patch.Apply(&it, time.Now().UTC())
	if err := s.backend.updateRow(ctx, tabData, lastData, row.num, dehydrateItem(it)); err != nil {
		return nil, err
	}
	return &it, nil
}

func (s *itemStore) Delete(ctx context.Context, id string) error {
	row, err := s.backend.findRow(ctx, tabData, lastData, id)
	if errors.Is(err, types.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return s.backend.clearRow(ctx, tabData, lastData, row.num)
}

func hydrateItem(cells []string) types.DataItem {
	return types.DataItem{
		ID:           cell(cells, 0),
		AppID:        cell(cells, 1),
		Data:         parseObjectCell(cell(cells, 2)),
		IsFavorite:   parseBoolCell(cell(cells, 3)),
		DisplayOrder: parseIntCell(cell(cells, 4)),
		DataSourceID: cell(cells, 5),
		CreatedAt:    parseTimeCell(cell(cells, 6)),
		UpdatedAt:    parseTimeCell(cell(cells, 7)),
	}
}

func dehydrateItem(it types.DataItem) []string {
	return []string{
		it.ID,
		it.AppID,
		marshalCell(it.Data),
		boolCell(it.IsFavorite),
		intCell(it.DisplayOrder),
		it.DataSourceID,
		timeCell(it.CreatedAt),
		timeCell(it.UpdatedAt),
	}
}
