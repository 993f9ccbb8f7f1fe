package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mesh-intelligence/appdeck/pkg/types"
)

func (s *Server) handleListLinks(w http.ResponseWriter, r *http.Request) {
	links, err := s.store.Links().List(r.Context(), r.URL.Query().Get("appId"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"links": links})
}

func (s *Server) handleCreateLink(w http.ResponseWriter, r *http.Request) {
	var in types.NewLink
	if err := decode(r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	link, err := s.store.Links().Create(r.Context(), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"link": link})
}

func (s *Server) handleDeleteLink(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Links().Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
