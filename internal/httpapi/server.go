// Package httpapi exposes the REST surface over a store backend. Successful
// responses wrap each resource under its named key; the data-source surfaces
// return bare objects and arrays.
package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/mesh-intelligence/appdeck/pkg/types"
)

// Options tunes the router.
type Options struct {
	// AllowedOrigins is handed to the CORS middleware. Empty means any
	// origin.
	AllowedOrigins []string
}

// Server routes API requests to a store.
type Server struct {
	store  types.Store
	log    *slog.Logger
	router chi.Router
}

// New builds the router. A nil logger falls back to slog.Default.
func New(store types.Store, log *slog.Logger, opts Options) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{store: store, log: log}

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealth)

	r.Route("/apps", func(r chi.Router) {
		r.Get("/", s.handleListApps)
		r.Post("/", s.handleCreateApp)
		r.Get("/share/{shareCode}", s.handleGetSharedApp)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetApp)
			r.Put("/", s.handleUpdateApp)
			r.Delete("/", s.handleDeleteApp)
		})
	})

	r.Route("/data-items", func(r chi.Router) {
		r.Get("/", s.handleListItems)
		r.Post("/", s.handleCreateItem)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetItem)
			r.Put("/", s.handleUpdateItem)
			r.Delete("/", s.handleDeleteItem)
		})
	})

	r.Route("/data-sources", func(r chi.Router) {
		r.Get("/", s.handleListSources)
		r.Post("/", s.handleCreateSource)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetSource)
			r.Put("/", s.handleUpdateSource)
			r.Delete("/", s.handleDeleteSource)
			r.Get("/items", s.handleListSourceItems)
			r.Post("/items", s.handleCreateSourceItem)
			r.Put("/items/{itemID}", s.handleUpdateSourceItem)
			r.Delete("/items/{itemID}", s.handleDeleteSourceItem)
		})
	})

	r.Route("/forms", func(r chi.Router) {
		r.Get("/", s.handleListForms)
		r.Post("/", s.handleCreateForm)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetForm)
			r.Put("/", s.handleUpdateForm)
			r.Delete("/", s.handleDeleteForm)
			r.Get("/entries", s.handleListFormEntries)
			r.Post("/entries", s.handleCreateFormEntry)
		})
	})

	r.Route("/entries", func(r chi.Router) {
		r.Get("/", s.handleListEntries)
		r.Post("/", s.handleSubmitEntry)
		r.Get("/{id}", s.handleGetEntry)
		r.Delete("/{id}", s.handleDeleteEntry)
	})

	r.Route("/links", func(r chi.Router) {
		r.Get("/", s.handleListLinks)
		r.Post("/", s.handleCreateLink)
		r.Delete("/{id}", s.handleDeleteLink)
	})

	s.router = r
	return s
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// requestLogger logs one line per request at Info with method, path, status,
// and duration.
func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
				"requestID", middleware.GetReqID(r.Context()),
			)
		})
	}
}
