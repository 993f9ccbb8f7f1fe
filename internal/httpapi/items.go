package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mesh-intelligence/appdeck/pkg/types"
)

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.store.Items().List(r.Context(), r.URL.Query().Get("appId"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	item, err := s.store.Items().Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"item": item})
}

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var in types.NewDataItem
	if err := decode(r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	item, err := s.store.Items().Create(r.Context(), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"item": item})
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	var patch types.DataItemPatch
	if err := decode(r, &patch); err != nil {
		s.fail(w, r, err)
		return
	}
	item, err := s.store.Items().Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"item": item})
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Items().Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
