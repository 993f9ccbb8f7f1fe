package sheets

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/mesh-intelligence/appdeck/pkg/types"
)

// linkStore keeps embed-app links in the Links tab. Columns A..F:
// id, appId, title, url, icon, displayOrder.
type linkStore struct {
	backend *Backend
}

var _ types.LinkStore = (*linkStore)(nil)

func (s *linkStore) List(ctx context.Context, appID string) ([]types.Link, error) {
	rows, err := s.backend.dataRows(ctx, tabLinks, lastLinks)
	if err != nil {
		if errors.Is(err, types.ErrStoreDetached) {
			return nil, err
		}
		s.backend.log.Warn("listing links failed, returning empty set", "appID", appID, "error", err)
		return []types.Link{}, nil
	}
	links := make([]types.Link, 0, len(rows))
	for _, row := range rows {
		if appID != "" && cell(row.cells, 1) != appID {
			continue
		}
		links = append(links, hydrateLink(row.cells))
	}
	sort.SliceStable(links, func(i, j int) bool {
		return links[i].DisplayOrder < links[j].DisplayOrder
	})
	return links, nil
}

func (s *linkStore) Create(ctx context.Context, in types.NewLink) (*types.Link, error) {
	if in.AppID == "" {
		return nil, fmt.Errorf("%w: link needs an app", types.ErrValidation)
	}
	if in.Title == "" || in.URL == "" {
		return nil, fmt.Errorf("%w: link title and url are required", types.ErrValidation)
	}

	rows, err := s.backend.dataRows(ctx, tabLinks, lastLinks)
	if err != nil {
		return nil, err
	}
	order := 0
	for _, row := range rows {
		if cell(row.cells, 1) == in.AppID {
			order++
		}
	}

	l := types.Link{
		ID:           types.NewID(),
		AppID:        in.AppID,
		Title:        in.Title,
		URL:          in.URL,
		Icon:         in.Icon,
		DisplayOrder: order,
	}
	if l.Icon == "" {
		l.Icon = types.DefaultLinkIcon
	}

	if err := s.backend.appendRow(ctx, tabLinks, lastLinks, dehydrateLink(l)); err != nil {
		return nil, err
	}
	return &l, nil
}

func (s *linkStore) Delete(ctx context.Context, id string) error {
	row, err := s.backend.findRow(ctx, tabLinks, lastLinks, id)
	if errors.Is(err, types.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return s.backend.clearRow(ctx, tabLinks, lastLinks, row.num)
}

func hydrateLink(cells []string) types.Link {
	return types.Link{
		ID:           cell(cells, 0),
		AppID:        cell(cells, 1),
		Title:        cell(cells, 2),
		URL:          cell(cells, 3),
		Icon:         cell(cells, 4),
		DisplayOrder: parseIntCell(cell(cells, 5)),
	}
}

func dehydrateLink(l types.Link) []string {
	return []string{
		l.ID,
		l.AppID,
		l.Title,
		l.URL,
		l.Icon,
		intCell(l.DisplayOrder),
	}
}
