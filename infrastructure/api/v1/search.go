// Package v1 implements the v1 REST API.
package v1

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	registrysearch "github.com/lastmile-ai/mcp-registry-search"
	"github.com/lastmile-ai/mcp-registry-search/application/service"
	"github.com/lastmile-ai/mcp-registry-search/infrastructure/api/middleware"
	"github.com/lastmile-ai/mcp-registry-search/infrastructure/api/v1/dto"
)

// Query parameter bounds.
const (
	maxSearchLimit = 100
	maxWeight      = 10.0
)

// SearchRouter handles search API endpoints.
type SearchRouter struct {
	client *registrysearch.Client
	logger *slog.Logger
}

// NewSearchRouter creates a new SearchRouter.
func NewSearchRouter(client *registrysearch.Client) *SearchRouter {
	return &SearchRouter{
		client: client,
		logger: client.Logger(),
	}
}

// Routes returns the chi router for search endpoints.
func (r *SearchRouter) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", r.Search)
	return router
}

// Search handles GET /api/v1/search.
// Query parameters: q (required), limit, full_text_weight, semantic_weight.
func (r *SearchRouter) Search(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	query := req.URL.Query()

	q := query.Get("q")
	if q == "" {
		middleware.WriteError(w, req, service.ErrEmptyQuery, r.logger)
		return
	}

	var opts []service.SearchOption
	if limit, ok := parseIntParam(query.Get("limit")); ok {
		opts = append(opts, service.WithLimit(clampInt(limit, 1, maxSearchLimit)))
	}
	if weight, ok := parseFloatParam(query.Get("full_text_weight")); ok {
		opts = append(opts, service.WithFullTextWeight(clampFloat(weight, 0, maxWeight)))
	}
	if weight, ok := parseFloatParam(query.Get("semantic_weight")); ok {
		opts = append(opts, service.WithSemanticWeight(clampFloat(weight, 0, maxWeight)))
	}

	results, err := r.client.Search.Search(ctx, q, opts...)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	response := dto.SearchResponse{
		Query:   q,
		Results: make([]dto.SearchResult, len(results)),
		Count:   len(results),
	}
	for i, res := range results {
		response.Results[i] = dto.FromResult(res)
	}

	middleware.WriteJSON(w, http.StatusOK, response)
}

func parseIntParam(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

func parseFloatParam(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func clampInt(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

func clampFloat(f, lo, hi float64) float64 {
	if f < lo {
		return lo
	}
	if f > hi {
		return hi
	}
	return f
}
