package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"partscout/internal/catalog"
	"partscout/internal/logging"
)

// Catalog is the query surface the server exposes.
type Catalog interface {
	SearchAppliances(ctx context.Context, modelQuery string) ([]catalog.Appliance, error)
	ListGrouped(ctx context.Context) ([]catalog.CategoryGroup, error)
}

// Server answers catalog queries over HTTP.
type Server struct {
	catalog Catalog
	logger  *slog.Logger
	mux     *http.ServeMux
}

// NewServer builds the HTTP handler around a catalog.
func NewServer(cat Catalog, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		catalog: cat,
		logger:  logging.WithComponent(logger, "api"),
		mux:     http.NewServeMux(),
	}
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /api/consumables", s.handleConsumables)
	s.mux.HandleFunc("GET /api/categories", s.handleCategories)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	s.mux.ServeHTTP(w, r)
	s.logger.Debug("request served",
		logging.String("method", r.Method),
		logging.String("path", r.URL.Path),
		logging.Duration("elapsed", time.Since(start)))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleConsumables(w http.ResponseWriter, r *http.Request) {
	model := strings.TrimSpace(r.URL.Query().Get("model"))
	if model == "" {
		writeError(w, http.StatusBadRequest, "query parameter 'model' is required")
		return
	}

	appliances, err := s.catalog.SearchAppliances(r.Context(), model)
	if err != nil {
		s.logger.Error("appliance search failed", logging.Error(err))
		writeError(w, http.StatusInternalServerError, "catalog query failed")
		return
	}
	if len(appliances) == 0 {
		writeError(w, http.StatusNotFound, "no appliances match model "+model)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"query":      model,
		"appliances": appliances,
	})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	groups, err := s.catalog.ListGrouped(r.Context())
	if err != nil {
		s.logger.Error("category listing failed", logging.Error(err))
		writeError(w, http.StatusInternalServerError, "catalog query failed")
		return
	}
	if groups == nil {
		groups = []catalog.CategoryGroup{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": groups})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
