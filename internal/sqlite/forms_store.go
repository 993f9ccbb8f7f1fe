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
var _ types.FormStore = (*formStore)(nil)

// formStore implements types.FormStore on the forms table.
type formStore struct {
	b *Backend
}

const formColumns = "form_id, app_id, name, description, fields, submit_text, success_msg, is_published, created_at, updated_at"

func (s *formStore) List(ctx context.Context, appID string) ([]types.Form, error) {
	db, err := s.b.conn()
	if err != nil {
		return nil, err
	}

	query := "SELECT " + formColumns + " FROM forms"
	var args []any
	if appID != "" {
		query += " WHERE app_id = ?"
		args = append(args, appID)
	}
	query += " ORDER BY created_at DESC"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		s.b.log.Warn("listing forms", "err", err)
		return []types.Form{}, nil
	}
	defer rows.Close()

	forms := []types.Form{}
	for rows.Next() {
		f, err := scanForm(rows)
		if err != nil {
			s.b.log.Warn("scanning form row", "err", err)
			continue
		}
		forms = append(forms, *f)
	}
	if err := rows.Err(); err != nil {
		s.b.log.Warn("iterating forms", "err", err)
	}
	return forms, nil
}

func (s *formStore) Get(ctx context.Context, id string) (*types.Form, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	db, err := s.b.conn()
	if err != nil {
		return nil, err
	}
	row := db.QueryRowContext(ctx, "SELECT "+formColumns+" FROM forms WHERE form_id = ?", id)
	f, err := scanForm(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("getting form %s: %w", id, err)
	}
	return f, nil
}

func (s *formStore) Create(ctx context.Context, in types.NewForm) (*types.Form, error) {
	db, err := s.b.conn()
	if err != nil {
		return nil, err
	}
	if in.AppID == "" {
		return nil, fmt.Errorf("%w: appId is required", types.ErrValidation)
	}

	now := time.Now().UTC()
	f := &types.Form{
		ID:          types.NewID(),
		AppID:       in.AppID,
		Name:        in.Name,
		Description: in.Description,
		Fields:      in.Fields,
		SubmitText:  in.SubmitText,
		SuccessMsg:  in.SuccessMsg,
		IsPublished: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.IsPublished != nil {
		f.IsPublished = *in.IsPublished
	}
	if f.Fields == nil {
		f.Fields = []types.FormField{}
	}
	if f.SubmitText == "" {
		f.SubmitText = types.DefaultSubmitText
	}
	if f.SuccessMsg == "" {
		f.SuccessMsg = types.DefaultSuccessMsg
	}

	_, err = db.ExecContext(ctx,
		"INSERT INTO forms ("+formColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		f.ID, f.AppID, f.Name, f.Description, marshalJSON(f.Fields),
		f.SubmitText, f.SuccessMsg, boolToInt(f.IsPublished),
		formatTime(f.CreatedAt), formatTime(f.UpdatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting form: %w", err)
	}
	return f, nil
}

func (s *formStore) Update(ctx context.Context, id string, patch types.FormPatch) (*types.Form, error) {
	f, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(f, time.Now().UTC())

	db, err := s.b.conn()
	if err != nil {
		return nil, err
	}
	_, err = db.ExecContext(ctx,
		`UPDATE forms SET name = ?, description = ?, fields = ?, submit_text = ?,
		 success_msg = ?, is_published = ?, updated_at = ? WHERE form_id = ?`,
		f.Name, f.Description, marshalJSON(f.Fields), f.SubmitText,
		f.SuccessMsg, boolToInt(f.IsPublished), formatTime(f.UpdatedAt), id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating form %s: %w", id, err)
	}
	return f, nil
}

// Delete removes the form and its entries. Idempotent.
func (s *formStore) Delete(ctx context.Context, id string) error {
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

	if _, err := tx.ExecContext(ctx, "DELETE FROM form_entries WHERE form_id = ?", id); err != nil {
		return fmt.Errorf("deleting form entries: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM forms WHERE form_id = ?", id); err != nil {
		return fmt.Errorf("deleting form %s: %w", id, err)
	}
	return tx.Commit()
}

func scanForm(row rowScanner) (*types.Form, error) {
	var f types.Form
	var description sql.NullString
	var fields, createdAt, updatedAt string
	var published int
	if err := row.Scan(&f.ID, &f.AppID, &f.Name, &description, &fields,
		&f.SubmitText, &f.SuccessMsg, &published, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	f.Description = description.String
	f.Fields = parseFields(fields)
	f.IsPublished = published != 0
	f.CreatedAt = parseTime(createdAt)
	f.UpdatedAt = parseTime(updatedAt)
	return &f, nil
}
