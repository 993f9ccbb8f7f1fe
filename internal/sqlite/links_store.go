package sqlite

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/appdeck/pkg/types"
)

// Compile-time interface check.
var _ types.LinkStore = (*linkStore)(nil)

// linkStore implements types.LinkStore on the links table. Links are
// first-class rows here, so embed-type apps work the same on both backends.
type linkStore struct {
	b *Backend
}

const linkColumns = "link_id, app_id, title, url, icon, display_order"

func (s *linkStore) List(ctx context.Context, appID string) ([]types.Link, error) {
	db, err := s.b.conn()
	if err != nil {
		return nil, err
	}

	query := "SELECT " + linkColumns + " FROM links"
	var args []any
	if appID != "" {
		query += " WHERE app_id = ?"
		args = append(args, appID)
	}
	query += " ORDER BY display_order ASC"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		s.b.log.Warn("listing links", "err", err)
		return []types.Link{}, nil
	}
	defer rows.Close()

	links := []types.Link{}
	for rows.Next() {
		var l types.Link
		if err := rows.Scan(&l.ID, &l.AppID, &l.Title, &l.URL, &l.Icon, &l.DisplayOrder); err != nil {
			s.b.log.Warn("scanning link row", "err", err)
			continue
		}
		links = append(links, l)
	}
	if err := rows.Err(); err != nil {
		s.b.log.Warn("iterating links", "err", err)
	}
	return links, nil
}

func (s *linkStore) Create(ctx context.Context, in types.NewLink) (*types.Link, error) {
	db, err := s.b.conn()
	if err != nil {
		return nil, err
	}
	if in.AppID == "" {
		return nil, fmt.Errorf("%w: appId is required", types.ErrValidation)
	}

	var count int
	if err := db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM links WHERE app_id = ?", in.AppID).Scan(&count); err != nil {
		return nil, fmt.Errorf("counting links for app %s: %w", in.AppID, err)
	}

	l := &types.Link{
		ID:           types.NewID(),
		AppID:        in.AppID,
		Title:        in.Title,
		URL:          in.URL,
		Icon:         in.Icon,
		DisplayOrder: count,
	}
	if l.Icon == "" {
		l.Icon = types.DefaultLinkIcon
	}

	_, err = db.ExecContext(ctx,
		"INSERT INTO links ("+linkColumns+") VALUES (?, ?, ?, ?, ?, ?)",
		l.ID, l.AppID, l.Title, l.URL, l.Icon, l.DisplayOrder,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting link: %w", err)
	}
	return l, nil
}

// Delete is idempotent; a missing ID succeeds.
func (s *linkStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	db, err := s.b.conn()
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, "DELETE FROM links WHERE link_id = ?", id); err != nil {
		return fmt.Errorf("deleting link %s: %w", id, err)
	}
	return nil
}
