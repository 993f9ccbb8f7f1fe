package httpapi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mesh-intelligence/appdeck/pkg/types"
)

// The data-source surfaces return bare objects and arrays, without the
// wrapper keys the rest of the API uses. Kept that way on purpose: existing
// clients of this surface parse the bare shape.

func (s *Server) handleListSources(w http.ResponseWriter, r *http.Request) {
	sources, err := s.store.Sources().List(r.Context(), r.URL.Query().Get("appId"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sources)
}

func (s *Server) handleGetSource(w http.ResponseWriter, r *http.Request) {
	source, err := s.store.Sources().Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, source)
}

// handleCreateSource registers a data source. A google_sheets source is
// seeded with mock people rows so the connected app has something to render
// before a real sync runs.
func (s *Server) handleCreateSource(w http.ResponseWriter, r *http.Request) {
	var in types.NewDataSource
	if err := decode(r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	if in.AppID == "" {
		writeError(w, http.StatusBadRequest, "appId is required")
		return
	}

	ctx := r.Context()
	source, err := s.store.Sources().Create(ctx, in)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if source.Type == types.SourceTypeGoogleSheets {
		for _, row := range mockSheetRows() {
			_, err := s.store.Items().Create(ctx, types.NewDataItem{
				DataSourceID: source.ID,
				Data:         row,
			})
			if err != nil {
				s.fail(w, r, err)
				return
			}
		}
	}

	writeJSON(w, http.StatusCreated, source)
}

func (s *Server) handleUpdateSource(w http.ResponseWriter, r *http.Request) {
	var patch types.DataSourcePatch
	if err := decode(r, &patch); err != nil {
		s.fail(w, r, err)
		return
	}
	source, err := s.store.Sources().Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, source)
}

func (s *Server) handleDeleteSource(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Sources().Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleListSourceItems(w http.ResponseWriter, r *http.Request) {
	favoritesOnly := r.URL.Query().Get("favorites") == "true"
	items, err := s.store.Items().ListBySource(r.Context(), chi.URLParam(r, "id"), favoritesOnly)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleCreateSourceItem(w http.ResponseWriter, r *http.Request) {
	var in types.NewDataItem
	if err := decode(r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	in.DataSourceID = chi.URLParam(r, "id")
	item, err := s.store.Items().Create(r.Context(), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (s *Server) handleUpdateSourceItem(w http.ResponseWriter, r *http.Request) {
	var patch types.DataItemPatch
	if err := decode(r, &patch); err != nil {
		s.fail(w, r, err)
		return
	}
	item, err := s.store.Items().Update(r.Context(), chi.URLParam(r, "itemID"), patch)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleDeleteSourceItem(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Items().Delete(r.Context(), chi.URLParam(r, "itemID")); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// mockSheetRows fabricates five demo people, one row per person.
func mockSheetRows() []map[string]any {
	names := []string{"John Doe", "Jane Smith", "Bob Johnson", "Alice Williams", "Charlie Brown"}
	emails := []string{"john@example.com", "jane@example.com", "bob@example.com", "alice@example.com", "charlie@example.com"}
	departments := []string{"Engineering", "Marketing", "Sales", "HR", "Finance"}

	rows := make([]map[string]any, len(names))
	for i, name := range names {
		status := "Pending"
		if i%2 == 0 {
			status = "Active"
		}
		rows[i] = map[string]any{
			"Name":       name,
			"Email":      emails[i],
			"Department": departments[i],
			"Status":     status,
			"Score":      (i*37 + 11) % 100,
			"JoinDate":   fmt.Sprintf("2024-%02d-15", i+1),
		}
	}
	return rows
}
