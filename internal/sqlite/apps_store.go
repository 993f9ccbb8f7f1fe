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
var _ types.AppStore = (*appStore)(nil)

// appStore implements types.AppStore on the apps table.
type appStore struct {
	b *Backend
}

const appColumns = "app_id, name, description, icon, icon_type, app_type, config, is_published, share_code, created_at, updated_at"

// List returns all apps, most recently updated first. Backend read failures
// are absorbed: the error is logged and an empty slice returned.
func (s *appStore) List(ctx context.Context) ([]types.App, error) {
	db, err := s.b.conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, "SELECT "+appColumns+" FROM apps ORDER BY updated_at DESC")
	if err != nil {
		s.b.log.Warn("listing apps", "err", err)
		return []types.App{}, nil
	}
	defer rows.Close()

	apps := []types.App{}
	for rows.Next() {
		app, err := scanApp(rows)
		if err != nil {
			s.b.log.Warn("scanning app row", "err", err)
			continue
		}
		apps = append(apps, *app)
	}
	if err := rows.Err(); err != nil {
		s.b.log.Warn("iterating apps", "err", err)
	}
	return apps, nil
}

func (s *appStore) Get(ctx context.Context, id string) (*types.App, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	db, err := s.b.conn()
	if err != nil {
		return nil, err
	}
	return s.getWhere(ctx, db, "app_id = ?", id)
}

func (s *appStore) GetByShareCode(ctx context.Context, code string) (*types.App, error) {
	if code == "" {
		return nil, types.ErrInvalidID
	}
	db, err := s.b.conn()
	if err != nil {
		return nil, err
	}
	return s.getWhere(ctx, db, "share_code = ?", code)
}

func (s *appStore) getWhere(ctx context.Context, db *sql.DB, where string, arg any) (*types.App, error) {
	row := db.QueryRowContext(ctx, "SELECT "+appColumns+" FROM apps WHERE "+where, arg)
	app, err := scanApp(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("getting app: %w", err)
	}
	return app, nil
}

// Create assigns the ID, share code, and timestamps, fills unset fields with
// defaults, and inserts the row. Apps are born published.
func (s *appStore) Create(ctx context.Context, in types.NewApp) (*types.App, error) {
	db, err := s.b.conn()
	if err != nil {
		return nil, err
	}
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name is required", types.ErrValidation)
	}

	now := time.Now().UTC()
	app := &types.App{
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
	applyAppDefaults(app)

	_, err = db.ExecContext(ctx,
		"INSERT INTO apps ("+appColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		app.ID, app.Name, app.Description, app.Icon, app.IconType, app.AppType,
		marshalJSON(app.Config), boolToInt(app.IsPublished), app.ShareCode,
		formatTime(app.CreatedAt), formatTime(app.UpdatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting app: %w", err)
	}
	return app, nil
}

// Update merges only the non-nil patch fields into the stored record.
func (s *appStore) Update(ctx context.Context, id string, patch types.AppPatch) (*types.App, error) {
	db, err := s.b.conn()
	if err != nil {
		return nil, err
	}

	app, err := s.getWhere(ctx, db, "app_id = ?", id)
	if err != nil {
		return nil, err
	}
	patch.Apply(app, time.Now().UTC())

	_, err = db.ExecContext(ctx,
		`UPDATE apps SET name = ?, description = ?, icon = ?, icon_type = ?, app_type = ?,
		 config = ?, is_published = ?, updated_at = ? WHERE app_id = ?`,
		app.Name, app.Description, app.Icon, app.IconType, app.AppType,
		marshalJSON(app.Config), boolToInt(app.IsPublished), formatTime(app.UpdatedAt), id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating app %s: %w", id, err)
	}
	return app, nil
}

// Delete removes the app and everything it owns. Idempotent: a missing ID
// succeeds.
func (s *appStore) Delete(ctx context.Context, id string) error {
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
		"DELETE FROM form_entries WHERE form_id IN (SELECT form_id FROM forms WHERE app_id = ?)", id); err != nil {
		return fmt.Errorf("deleting app entries: %w", err)
	}
	for _, stmt := range []string{
		"DELETE FROM forms WHERE app_id = ?",
		"DELETE FROM data_items WHERE app_id = ?",
		"DELETE FROM links WHERE app_id = ?",
		"DELETE FROM data_sources WHERE app_id = ?",
		"DELETE FROM apps WHERE app_id = ?",
	} {
		if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
			return fmt.Errorf("deleting app %s: %w", id, err)
		}
	}
	return tx.Commit()
}

// applyAppDefaults fills unset creation fields.
func applyAppDefaults(app *types.App) {
	if app.Icon == "" {
		app.Icon = types.DefaultAppIcon
	}
	if app.IconType == "" {
		app.IconType = types.IconTypeDefault
	}
	if app.AppType == "" || !types.ValidAppType(app.AppType) {
		app.AppType = types.AppTypeData
	}
	if app.Config == nil {
		app.Config = make(map[string]any)
	}
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanApp(row rowScanner) (*types.App, error) {
	var a types.App
	var description sql.NullString
	var config, createdAt, updatedAt string
	var published int
	if err := row.Scan(&a.ID, &a.Name, &description, &a.Icon, &a.IconType, &a.AppType,
		&config, &published, &a.ShareCode, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	a.Description = description.String
	a.Config = parseObject(config)
	a.IsPublished = published != 0
	a.CreatedAt = parseTime(createdAt)
	a.UpdatedAt = parseTime(updatedAt)
	return &a, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
