package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mesh-intelligence/appdeck/pkg/types"
)

// Compile-time interface check.
var _ types.ItemStore = (*itemStore)(nil)

// itemStore implements types.ItemStore on the data_items table.
type itemStore struct {
	b *Backend
}

const itemColumns = "item_id, app_id, data, is_favorite, display_order, data_source_id, created_at, updated_at"

func (s *itemStore) List(ctx context.Context, appID string) ([]types.DataItem, error) {
	db, err := s.b.conn()
	if err != nil {
		return nil, err
	}

	query := "SELECT " + itemColumns + " FROM data_items"
	var args []any
	if appID != "" {
		query += " WHERE app_id = ?"
		args = append(args, appID)
	}
	query += " ORDER BY display_order ASC"

	return s.queryItems(ctx, db, query, args...)
}

func (s *itemStore) ListBySource(ctx context.Context, sourceID string, favoritesOnly bool) ([]types.DataItem, error) {
	db, err := s.b.conn()
	if err != nil {
		return nil, err
	}

	query := "SELECT " + itemColumns + " FROM data_items WHERE data_source_id = ?"
	args := []any{sourceID}
	if favoritesOnly {
		query += " AND is_favorite = 1"
	}
	query += " ORDER BY created_at DESC"

	return s.queryItems(ctx, db, query, args...)
}

func (s *itemStore) queryItems(ctx context.Context, db *sql.DB, query string, args ...any) ([]types.DataItem, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		s.b.log.Warn("listing data items", "err", err)
		return []types.DataItem{}, nil
	}
	defer rows.Close()

	items := []types.DataItem{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			s.b.log.Warn("scanning data item row", "err", err)
			continue
		}
		items = append(items, *it)
	}
	if err := rows.Err(); err != nil {
		s.b.log.Warn("iterating data items", "err", err)
	}
	return items, nil
}

func (s *itemStore) Get(ctx context.Context, id string) (*types.DataItem, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	db, err := s.b.conn()
	if err != nil {
		return nil, err
	}
	row := db.QueryRowContext(ctx, "SELECT "+itemColumns+" FROM data_items WHERE item_id = ?", id)
	it, err := scanItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("getting data item %s: %w", id, err)
	}
	return it, nil
}

// Create assigns ID and timestamps and sets DisplayOrder to the current
// count of the app's items. Two concurrent creates can observe the same
// count; that race is accepted (no transactions span the count and insert
// in the spreadsheet backend either).
func (s *itemStore) Create(ctx context.Context, in types.NewDataItem) (*types.DataItem, error) {
	db, err := s.b.conn()
	if err != nil {
		return nil, err
	}
	if in.AppID == "" && in.DataSourceID == "" {
		return nil, fmt.Errorf("%w: appId is required", types.ErrValidation)
	}

	// Display order is the pre-creation count within the owning scope.
	countQuery, countArg := "SELECT COUNT(*) FROM data_items WHERE app_id = ?", in.AppID
	if in.AppID == "" {
		countQuery, countArg = "SELECT COUNT(*) FROM data_items WHERE data_source_id = ?", in.DataSourceID
	}
	var count int
	if err := db.QueryRowContext(ctx, countQuery, countArg).Scan(&count); err != nil {
		return nil, fmt.Errorf("counting items: %w", err)
	}

	now := time.Now().UTC()
	it := &types.DataItem{
		ID:           types.NewID(),
		AppID:        in.AppID,
		Data:         in.Data,
		IsFavorite:   in.IsFavorite,
		DisplayOrder: count,
		DataSourceID: in.DataSourceID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if it.Data == nil {
		it.Data = make(map[string]any)
	}

	_, err = db.ExecContext(ctx,
		"INSERT INTO data_items ("+itemColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		it.ID, it.AppID, marshalJSON(it.Data), boolToInt(it.IsFavorite), it.DisplayOrder,
		nullable(it.DataSourceID), formatTime(it.CreatedAt), formatTime(it.UpdatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting data item: %w", err)
	}
	return it, nil
}

func (s *itemStore) Update(ctx context.Context, id string, patch types.DataItemPatch) (*types.DataItem, error) {
	it, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(it, time.Now().UTC())

	db, err := s.b.conn()
	if err != nil {
		return nil, err
	}
	_, err = db.ExecContext(ctx,
		"UPDATE data_items SET data = ?, is_favorite = ?, display_order = ?, updated_at = ? WHERE item_id = ?",
		marshalJSON(it.Data), boolToInt(it.IsFavorite), it.DisplayOrder, formatTime(it.UpdatedAt), id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating data item %s: %w", id, err)
	}
	return it, nil
}

// Delete is idempotent; a missing ID succeeds.
func (s *itemStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	db, err := s.b.conn()
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, "DELETE FROM data_items WHERE item_id = ?", id); err != nil {
		return fmt.Errorf("deleting data item %s: %w", id, err)
	}
	return nil
}

func scanItem(row rowScanner) (*types.DataItem, error) {
	var it types.DataItem
	var data, createdAt, updatedAt string
	var sourceID sql.NullString
	var favorite int
	if err := row.Scan(&it.ID, &it.AppID, &data, &favorite, &it.DisplayOrder,
		&sourceID, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	it.Data = parseObject(data)
	it.IsFavorite = favorite != 0
	it.DataSourceID = sourceID.String
	it.CreatedAt = parseTime(createdAt)
	it.UpdatedAt = parseTime(updatedAt)
	return &it, nil
}

// nullable maps an empty string to NULL for optional foreign keys.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
