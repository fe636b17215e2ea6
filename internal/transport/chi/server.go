// Package chi implements the HTTP API on the chi router.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/stonesoup-hq/soupsearch/internal/domain"
	"github.com/stonesoup-hq/soupsearch/internal/domain/search/request"
	"github.com/stonesoup-hq/soupsearch/internal/domain/search/response"
	healthuc "github.com/stonesoup-hq/soupsearch/internal/usecase/health"
)

// Searcher is the search service contract consumed by the server.
type Searcher interface {
	Search(ctx context.Context, cauldronID string, req *request.Request) (*response.Envelope, error)
	Quick(ctx context.Context, cauldronID, query string, limit int) (*response.Envelope, error)
}

// Suggester produces query suggestions.
type Suggester interface {
	Suggest(ctx context.Context, cauldronID, prefix string, limit int) ([]response.Suggestion, error)
}

// Summarizer digests a result set.
type Summarizer interface {
	Summarize(ctx context.Context, query string, env *response.Envelope, summaryType string) (response.Summary, error)
}

// HealthChecker runs component health checks.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// Server implements the HTTP API handlers.
type Server struct {
	search     Searcher
	suggest    Suggester
	summarizer Summarizer
	health     HealthChecker
	logger     *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(
	search Searcher, suggest Suggester, summarizer Summarizer,
	health HealthChecker, logger *zap.Logger,
) *Server {
	return &Server{
		search:     search,
		suggest:    suggest,
		summarizer: summarizer,
		health:     health,
		logger:     logger,
	}
}

// Routes registers all handlers on the router.
func (s *Server) Routes(r chi.Router) {
	r.Post("/search", s.handleSearch)
	r.Post("/search/quick", s.handleQuickSearch)
	r.Get("/search/suggestions", s.handleSuggestions)
	r.Post("/search/summary", s.handleSummary)
	r.Get("/health", s.handleHealth)
	r.Get("/metrics", s.handleMetrics)
}

// handleSearch handles POST /search.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var body searchRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	req, err := request.New(body.toParams())
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	env, err := s.search.Search(r.Context(), cauldronFromContext(r.Context()), &req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, env)
}

// handleQuickSearch handles POST /search/quick.
func (s *Server) handleQuickSearch(w http.ResponseWriter, r *http.Request) {
	var body quickSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	env, err := s.search.Quick(r.Context(), cauldronFromContext(r.Context()), body.Query, body.Limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, env)
}

// handleSuggestions handles GET /search/suggestions.
func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	prefix := r.URL.Query().Get("q")
	if prefix == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "query parameter q is required")
		return
	}

	limit := 5
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, codeBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	suggestions, err := s.suggest.Suggest(r.Context(), cauldronFromContext(r.Context()), prefix, limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if suggestions == nil {
		suggestions = []response.Suggestion{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"suggestions": suggestions})
}

// handleSummary handles POST /search/summary: runs the search and returns
// only the summary of its result set.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	var body summaryRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	req, err := request.New(body.toParams())
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	cauldronID := cauldronFromContext(r.Context())
	env, err := s.search.Search(r.Context(), cauldronID, &req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	summary, err := s.summarizer.Summarize(r.Context(), req.Query(), env, body.SummaryType)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// handleMetrics handles GET /metrics.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// handleDomainError maps domain sentinels onto HTTP statuses.
func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrTenantRequired):
		writeError(w, http.StatusBadRequest, codeTenantRequired, err.Error())
	case errors.Is(err, domain.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, err.Error())
	case errors.Is(err, domain.ErrEmbeddingProviderError),
		errors.Is(err, domain.ErrSummaryProviderError):
		writeError(w, http.StatusBadGateway, codeProviderError, err.Error())
	default:
		s.logger.Error("Unhandled error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, codeInternal, "internal error")
	}
}
