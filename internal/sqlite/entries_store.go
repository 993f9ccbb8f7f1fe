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
var _ types.EntryStore = (*entryStore)(nil)

// entryStore implements types.EntryStore on the form_entries table.
type entryStore struct {
	b *Backend
}

const entryColumns = "entry_id, form_id, data, created_at"

// ListByForm returns entries newest first with limit and offset applied
// after ordering. A non-positive limit means DefaultEntryLimit.
func (s *entryStore) ListByForm(ctx context.Context, formID string, limit, offset int) ([]types.FormEntry, error) {
	db, err := s.b.conn()
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = types.DefaultEntryLimit
	}
	if offset < 0 {
		offset = 0
	}

	query := "SELECT " + entryColumns + " FROM form_entries"
	var args []any
	if formID != "" {
		query += " WHERE form_id = ?"
		args = append(args, formID)
	}
	query += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		s.b.log.Warn("listing form entries", "err", err)
		return []types.FormEntry{}, nil
	}
	defer rows.Close()

	entries := []types.FormEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			s.b.log.Warn("scanning entry row", "err", err)
			continue
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		s.b.log.Warn("iterating form entries", "err", err)
	}
	return entries, nil
}

func (s *entryStore) CountByForm(ctx context.Context, formID string) (int, error) {
	db, err := s.b.conn()
	if err != nil {
		return 0, err
	}
	var count int
	if err := db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM form_entries WHERE form_id = ?", formID).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting entries for form %s: %w", formID, err)
	}
	return count, nil
}

func (s *entryStore) Get(ctx context.Context, id string) (*types.FormEntry, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	db, err := s.b.conn()
	if err != nil {
		return nil, err
	}
	row := db.QueryRowContext(ctx, "SELECT "+entryColumns+" FROM form_entries WHERE entry_id = ?", id)
	e, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("getting entry %s: %w", id, err)
	}
	return e, nil
}

func (s *entryStore) Create(ctx context.Context, in types.NewEntry) (*types.FormEntry, error) {
	db, err := s.b.conn()
	if err != nil {
		return nil, err
	}
	if in.FormID == "" {
		return nil, fmt.Errorf("%w: formId is required", types.ErrValidation)
	}

	e := &types.FormEntry{
		ID:        types.NewID(),
		FormID:    in.FormID,
		Data:      in.Data,
		CreatedAt: time.Now().UTC(),
	}
	if e.Data == nil {
		e.Data = make(map[string]any)
	}

	_, err = db.ExecContext(ctx,
		"INSERT INTO form_entries ("+entryColumns+") VALUES (?, ?, ?, ?)",
		e.ID, e.FormID, marshalJSON(e.Data), formatTime(e.CreatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting entry: %w", err)
	}
	return e, nil
}

// Delete is idempotent; a missing ID succeeds.
func (s *entryStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	db, err := s.b.conn()
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, "DELETE FROM form_entries WHERE entry_id = ?", id); err != nil {
		return fmt.Errorf("deleting entry %s: %w", id, err)
	}
	return nil
}

func scanEntry(row rowScanner) (*types.FormEntry, error) {
	var e types.FormEntry
	var data, createdAt string
	if err := row.Scan(&e.ID, &e.FormID, &data, &createdAt); err != nil {
		return nil, err
	}
	e.Data = parseObject(data)
	e.CreatedAt = parseTime(createdAt)
	return &e, nil
}
