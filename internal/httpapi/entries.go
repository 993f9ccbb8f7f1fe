package httpapi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cast"

	"github.com/mesh-intelligence/appdeck/pkg/types"
)

// entriesListLimit caps the flat /entries listing when the caller does not
// ask for a smaller page.
const entriesListLimit = 500

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	limit := cast.ToInt(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > entriesListLimit {
		limit = entriesListLimit
	}
	entries, err := s.store.Entries().ListByForm(r.Context(), r.URL.Query().Get("formId"), limit, 0)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

func (s *Server) handleGetEntry(w http.ResponseWriter, r *http.Request) {
	entry, err := s.store.Entries().Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entry": entry})
}

// handleSubmitEntry is the public submission endpoint backing shared form
// apps.
func (s *Server) handleSubmitEntry(w http.ResponseWriter, r *http.Request) {
	var in types.NewEntry
	if err := decode(r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	if in.FormID == "" {
		writeError(w, http.StatusBadRequest, "formId is required")
		return
	}
	entry, err := s.submitEntry(r, in.FormID, in.Data)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"entry": entry})
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Entries().Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// submitEntry validates a submission against its form and stores it. An
// unpublished form is reported the same way as a missing one so the public
// endpoint does not leak draft forms.
func (s *Server) submitEntry(r *http.Request, formID string, data map[string]any) (*types.FormEntry, error) {
	ctx := r.Context()
	form, err := s.store.Forms().Get(ctx, formID)
	if err != nil {
		return nil, err
	}
	if !form.IsPublished {
		return nil, fmt.Errorf("%w: form %q", types.ErrNotFound, formID)
	}
	if data == nil {
		data = map[string]any{}
	}
	if err := form.ValidateEntry(data); err != nil {
		return nil, err
	}
	entry, err := s.store.Entries().Create(ctx, types.NewEntry{FormID: form.ID, Data: data})
	if err != nil {
		return nil, err
	}
	return entry, nil
}
