package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/appdeck/pkg/types"
)

// Compile-time interface check.
var _ types.SourceStore = (*sourceStore)(nil)

// sourceStore implements types.SourceStore on the data_sources table.
type sourceStore struct {
	b *Backend
}

const sourceColumns = "source_id, app_id, type, config, last_sync"

func (s *sourceStore) List(ctx context.Context, appID string) ([]types.DataSource, error) {
	db, err := s.b.conn()
	if err != nil {
		return nil, err
	}

	query := "SELECT " + sourceColumns + " FROM data_sources"
	var args []any
	if appID != "" {
		query += " WHERE app_id = ?"
		args = append(args, appID)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		s.b.log.Warn("listing data sources", "err", err)
		return []types.DataSource{}, nil
	}
	defer rows.Close()

	sources := []types.DataSource{}
	for rows.Next() {
		src, err := scanSource(rows)
		if err != nil {
			s.b.log.Warn("scanning data source row", "err", err)
			continue
		}
		sources = append(sources, *src)
	}
	if err := rows.Err(); err != nil {
		s.b.log.Warn("iterating data sources", "err", err)
	}
	return sources, nil
}

func (s *sourceStore) Get(ctx context.Context, id string) (*types.DataSource, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	db, err := s.b.conn()
	if err != nil {
		return nil, err
	}
	row := db.QueryRowContext(ctx, "SELECT "+sourceColumns+" FROM data_sources WHERE source_id = ?", id)
	src, err := scanSource(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("getting data source %s: %w", id, err)
	}
	return src, nil
}

func (s *sourceStore) Create(ctx context.Context, in types.NewDataSource) (*types.DataSource, error) {
	db, err := s.b.conn()
	if err != nil {
		return nil, err
	}
	if in.AppID == "" {
		return nil, fmt.Errorf("%w: appId is required", types.ErrValidation)
	}

	src := &types.DataSource{
		ID:     types.NewID(),
		AppID:  in.AppID,
		Type:   in.Type,
		Config: in.Config,
	}
	if src.Config == nil {
		src.Config = make(map[string]any)
	}

	_, err = db.ExecContext(ctx,
		"INSERT INTO data_sources ("+sourceColumns+") VALUES (?, ?, ?, ?, NULL)",
		src.ID, src.AppID, src.Type, marshalJSON(src.Config),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting data source: %w", err)
	}
	return src, nil
}

func (s *sourceStore) Update(ctx context.Context, id string, patch types.DataSourcePatch) (*types.DataSource, error) {
	src, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(src)

	db, err := s.b.conn()
	if err != nil {
		return nil, err
	}
	var lastSync any
	if src.LastSync != nil {
		lastSync = formatTime(*src.LastSync)
	}
	_, err = db.ExecContext(ctx,
		"UPDATE data_sources SET config = ?, last_sync = ? WHERE source_id = ?",
		marshalJSON(src.Config), lastSync, id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating data source %s: %w", id, err)
	}
	return src, nil
}

// Delete is idempotent; a missing ID succeeds. Items fed by the source keep
// their rows but lose the association.
func (s *sourceStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	db, err := s.b.conn()
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"UPDATE data_items SET data_source_id = NULL WHERE data_source_id = ?", id); err != nil {
		return fmt.Errorf("detaching source items: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM data_sources WHERE source_id = ?", id); err != nil {
		return fmt.Errorf("deleting data source %s: %w", id, err)
	}
	return tx.Commit()
}

func scanSource(row rowScanner) (*types.DataSource, error) {
	var src types.DataSource
	var config string
	var lastSync sql.NullString
	if err := row.Scan(&src.ID, &src.AppID, &src.Type, &config, &lastSync); err != nil {
		return nil, err
	}
	src.Config = parseObject(config)
	if lastSync.Valid {
		t := parseTime(lastSync.String)
		src.LastSync = &t
	}
	return &src, nil
}
