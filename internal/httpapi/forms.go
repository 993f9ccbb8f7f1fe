package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cast"

	"github.com/mesh-intelligence/appdeck/pkg/types"
)

func (s *Server) handleListForms(w http.ResponseWriter, r *http.Request) {
	forms, err := s.store.Forms().List(r.Context(), r.URL.Query().Get("appId"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"forms": forms})
}

func (s *Server) handleGetForm(w http.ResponseWriter, r *http.Request) {
	form, err := s.store.Forms().Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"form": form})
}

func (s *Server) handleCreateForm(w http.ResponseWriter, r *http.Request) {
	var in types.NewForm
	if err := decode(r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	form, err := s.store.Forms().Create(r.Context(), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"form": form})
}

func (s *Server) handleUpdateForm(w http.ResponseWriter, r *http.Request) {
	var patch types.FormPatch
	if err := decode(r, &patch); err != nil {
		s.fail(w, r, err)
		return
	}
	form, err := s.store.Forms().Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"form": form})
}

func (s *Server) handleDeleteForm(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Forms().Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// handleListFormEntries pages through a form's submissions, newest first.
func (s *Server) handleListFormEntries(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	formID := chi.URLParam(r, "id")
	if _, err := s.store.Forms().Get(ctx, formID); err != nil {
		s.fail(w, r, err)
		return
	}

	limit := cast.ToInt(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = types.DefaultEntryLimit
	}
	offset := cast.ToInt(r.URL.Query().Get("offset"))
	if offset < 0 {
		offset = 0
	}

	entries, err := s.store.Entries().ListByForm(ctx, formID, limit, offset)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	total, err := s.store.Entries().CountByForm(ctx, formID)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"entries": entries,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}

// handleCreateFormEntry records a submission for the form in the path. The
// body carries only the entry data. This is the owner surface: the form only
// has to exist, so drafts accept entries here; the publication gate and field
// validation apply to the public submission endpoint only.
func (s *Server) handleCreateFormEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var body struct {
		Data map[string]any `json:"data"`
	}
	if err := decode(r, &body); err != nil {
		s.fail(w, r, err)
		return
	}
	form, err := s.store.Forms().Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if body.Data == nil {
		body.Data = map[string]any{}
	}
	entry, err := s.store.Entries().Create(ctx, types.NewEntry{FormID: form.ID, Data: body.Data})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"entry": entry})
}
