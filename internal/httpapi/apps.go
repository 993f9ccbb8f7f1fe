package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mesh-intelligence/appdeck/pkg/types"
)

func (s *Server) handleListApps(w http.ResponseWriter, r *http.Request) {
	apps, err := s.store.Apps().List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"apps": apps})
}

func (s *Server) handleGetApp(w http.ResponseWriter, r *http.Request) {
	app, err := s.store.Apps().Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"app": app})
}

// handleGetSharedApp is the public share endpoint: unknown codes and
// unpublished apps are indistinguishable 404s. Items arrive in display
// order; only published forms are embedded.
func (s *Server) handleGetSharedApp(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	app, err := s.store.Apps().GetByShareCode(ctx, chi.URLParam(r, "shareCode"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if !app.IsPublished {
		writeError(w, http.StatusNotFound, "app not found")
		return
	}

	items, err := s.store.Items().List(ctx, app.ID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	forms, err := s.store.Forms().List(ctx, app.ID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	published := make([]types.Form, 0, len(forms))
	for _, f := range forms {
		if f.IsPublished {
			published = append(published, f)
		}
	}

	shared := types.SharedApp{App: *app, DataItems: items, Forms: published}
	writeJSON(w, http.StatusOK, map[string]any{"app": shared})
}

func (s *Server) handleCreateApp(w http.ResponseWriter, r *http.Request) {
	var in types.NewApp
	if err := decode(r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	app, err := s.store.Apps().Create(r.Context(), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"app": app})
}

func (s *Server) handleUpdateApp(w http.ResponseWriter, r *http.Request) {
	var patch types.AppPatch
	if err := decode(r, &patch); err != nil {
		s.fail(w, r, err)
		return
	}
	app, err := s.store.Apps().Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"app": app})
}

func (s *Server) handleDeleteApp(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Apps().Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
