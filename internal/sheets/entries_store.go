package sheets

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/mesh-intelligence/appdeck/pkg/types"
)

// entryStore keeps form submissions in the Entries tab. Columns A..D:
// id, formId, data, createdAt.
type entryStore struct {
	backend *Backend
}

var _ types.EntryStore = (*entryStore)(nil)

func (s *entryStore) ListByForm(ctx context.Context, formID string, limit, offset int) ([]types.FormEntry, error) {
	if limit <= 0 {
		limit = types.DefaultEntryLimit
	}
	if offset < 0 {
		offset = 0
	}

	all, err := s.byForm(ctx, formID, true)
	if err != nil {
		if errors.Is(err, types.ErrStoreDetached) {
			return nil, err
		}
		s.backend.log.Warn("listing entries failed, returning empty set", "formID", formID, "error", err)
		return []types.FormEntry{}, nil
	}

	if offset >= len(all) {
		return []types.FormEntry{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (s *entryStore) CountByForm(ctx context.Context, formID string) (int, error) {
	all, err := s.byForm(ctx, formID, false)
	if err != nil {
		return 0, err
	}
	return len(all), nil
}

func (s *entryStore) Get(ctx context.Context, id string) (*types.FormEntry, error) {
	row, err := s.backend.findRow(ctx, tabEntries, lastEnts, id)
	if err != nil {
		return nil, err
	}
	e := hydrateEntry(row.cells)
	return &e, nil
}

func (s *entryStore) Create(ctx context.Context, in types.NewEntry) (*types.FormEntry, error) {
	if in.FormID == "" {
		return nil, fmt.Errorf("%w: entry needs a form", types.ErrValidation)
	}
	e := types.FormEntry{
		ID:        types.NewID(),
		FormID:    in.FormID,
		Data:      in.Data,
		CreatedAt: time.Now().UTC(),
	}
	if e.Data == nil {
		e.Data = map[string]any{}
	}
	if err := s.backend.appendRow(ctx, tabEntries, lastEnts, dehydrateEntry(e)); err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *entryStore) Delete(ctx context.Context, id string) error {
	row, err := s.backend.findRow(ctx, tabEntries, lastEnts, id)
	if errors.Is(err, types.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return s.backend.clearRow(ctx, tabEntries, lastEnts, row.num)
}

// byForm reads the entry rows for a form, newest first when ordered is set.
// An empty formID selects the whole tab.
func (s *entryStore) byForm(ctx context.Context, formID string, ordered bool) ([]types.FormEntry, error) {
	rows, err := s.backend.dataRows(ctx, tabEntries, lastEnts)
	if err != nil {
		return nil, err
	}
	entries := make([]types.FormEntry, 0, len(rows))
	for _, row := range rows {
		if formID != "" && cell(row.cells, 1) != formID {
			continue
		}
		entries = append(entries, hydrateEntry(row.cells))
	}
	if ordered {
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].CreatedAt.After(entries[j].CreatedAt)
		})
	}
	return entries, nil
}

func hydrateEntry(cells []string) types.FormEntry {
	return types.FormEntry{
		ID:        cell(cells, 0),
		FormID:    cell(cells, 1),
		Data:      parseObjectCell(cell(cells, 2)),
		CreatedAt: parseTimeCell(cell(cells, 3)),
	}
}

func dehydrateEntry(e types.FormEntry) []string {
	return []string{
		e.ID,
		e.FormID,
		marshalCell(e.Data),
		timeCell(e.CreatedAt),
	}
}
