package sheets

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/mesh-intelligence/appdeck/pkg/types"
)

// formStore keeps forms in the Forms tab. Columns A..J:
// id, appId, name, description, fields, submitText, successMsg, isPublished,
// createdAt, updatedAt.
type formStore struct {
	backend *Backend
}

var _ types.FormStore = (*formStore)(nil)

func (s *formStore) List(ctx context.Context, appID string) ([]types.Form, error) {
	rows, err := s.backend.dataRows(ctx, tabForms, lastForms)
	if err != nil {
		if errors.Is(err, types.ErrStoreDetached) {
			return nil, err
		}
		s.backend.log.Warn("listing forms failed, returning empty set", "appID", appID, "error", err)
		return []types.Form{}, nil
	}
	forms := make([]types.Form, 0, len(rows))
	for _, row := range rows {
		if appID != "" && cell(row.cells, 1) != appID {
			continue
		}
		forms = append(forms, hydrateForm(row.cells))
	}
	sort.SliceStable(forms, func(i, j int) bool {
		return forms[i].CreatedAt.After(forms[j].CreatedAt)
	})
	return forms, nil
}

func (s *formStore) Get(ctx context.Context, id string) (*types.Form, error) {
	row, err := s.backend.findRow(ctx, tabForms, lastForms, id)
	if err != nil {
		return nil, err
	}
	f := hydrateForm(row.cells)
	return &f, nil
}

func (s *formStore) Create(ctx context.Context, in types.NewForm) (*types.Form, error) {
	if in.AppID == "" {
		return nil, fmt.Errorf("%w: form needs an app", types.ErrValidation)
	}
	if in.Name == "" {
		return nil, fmt.Errorf("%w: form name is required", types.ErrValidation)
	}

	now := time.Now().UTC()
	f := types.Form{
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
	applyFormDefaults(&f)

	if err := s.backend.appendRow(ctx, tabForms, lastForms, dehydrateForm(f)); err != nil {
		return nil, err
	}
	return &f, nil
}

func (s *formStore) Update(ctx context.Context, id string, patch types.FormPatch) (*types.Form, error) {
	row, err := s.backend.findRow(ctx, tabForms, lastForms, id)
	if err != nil {
		return nil, err
	}
	f := hydrateForm(row.cells)
	patch.Apply(&f, time.Now().UTC())
	if err := s.backend.updateRow(ctx, tabForms, lastForms, row.num, dehydrateForm(f)); err != nil {
		return nil, err
	}
	return &f, nil
}

// Delete clears the form row and every entry submitted to it. Deleting an
// absent form is a no-op.
func (s *formStore) Delete(ctx context.Context, id string) error {
	row, err := s.backend.findRow(ctx, tabForms, lastForms, id)
	if errors.Is(err, types.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	entries, err := s.backend.dataRows(ctx, tabEntries, lastEnts)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if cell(e.cells, 1) != id {
			continue
		}
		if err := s.backend.clearRow(ctx, tabEntries, lastEnts, e.num); err != nil {
			return err
		}
	}

	return s.backend.clearRow(ctx, tabForms, lastForms, row.num)
}

func applyFormDefaults(f *types.Form) {
	if f.SubmitText == "" {
		f.SubmitText = types.DefaultSubmitText
	}
	if f.SuccessMsg == "" {
		f.SuccessMsg = types.DefaultSuccessMsg
	}
	if f.Fields == nil {
		f.Fields = []types.FormField{}
	}
}

func hydrateForm(cells []string) types.Form {
	return types.Form{
		ID:          cell(cells, 0),
		AppID:       cell(cells, 1),
		Name:        cell(cells, 2),
		Description: cell(cells, 3),
		Fields:      parseFieldsCell(cell(cells, 4)),
		SubmitText:  cell(cells, 5),
		SuccessMsg:  cell(cells, 6),
		IsPublished: parseBoolCell(cell(cells, 7)),
		CreatedAt:   parseTimeCell(cell(cells, 8)),
		UpdatedAt:   parseTimeCell(cell(cells, 9)),
	}
}

func dehydrateForm(f types.Form) []string {
	return []string{
		f.ID,
		f.AppID,
		f.Name,
		f.Description,
		marshalCell(f.Fields),
		f.SubmitText,
		f.SuccessMsg,
		boolCell(f.IsPublished),
		timeCell(f.CreatedAt),
		timeCell(f.UpdatedAt),
	}
}
