package v1

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	registrysearch "github.com/lastmile-ai/mcp-registry-search"
	"github.com/lastmile-ai/mcp-registry-search/infrastructure/api/middleware"
	"github.com/lastmile-ai/mcp-registry-search/infrastructure/api/v1/dto"
)

// Listing bounds.
const (
	defaultListLimit = 100
	maxListLimit     = 1000
)

// ServersRouter handles catalog listing endpoints.
type ServersRouter struct {
	client *registrysearch.Client
	logger *slog.Logger
}

// NewServersRouter creates a new ServersRouter.
func NewServersRouter(client *registrysearch.Client) *ServersRouter {
	return &ServersRouter{
		client: client,
		logger: client.Logger(),
	}
}

// Routes returns the chi router for catalog endpoints.
func (r *ServersRouter) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", r.List)
	// Registry names contain slashes ("ai.example/server"), so the name is
	// matched as a wildcard rather than a single path segment.
	router.Get("/*", r.Get)
	return router
}

// List handles GET /api/v1/servers.
// Query parameters: limit, offset.
func (r *ServersRouter) List(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	query := req.URL.Query()

	limit := defaultListLimit
	if n, ok := parseIntParam(query.Get("limit")); ok {
		limit = clampInt(n, 1, maxListLimit)
	}
	offset := 0
	if n, ok := parseIntParam(query.Get("offset")); ok && n > 0 {
		offset = n
	}

	servers, err := r.client.Servers.List(ctx, limit, offset)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	total, err := r.client.Servers.Count(ctx)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	response := dto.ServersResponse{
		Servers: make([]dto.Server, len(servers)),
		Count:   len(servers),
		Total:   total,
		Limit:   limit,
		Offset:  offset,
	}
	for i, srv := range servers {
		response.Servers[i] = dto.FromServer(srv)
	}

	middleware.WriteJSON(w, http.StatusOK, response)
}

// Get handles GET /api/v1/servers/{name}.
func (r *ServersRouter) Get(w http.ResponseWriter, req *http.Request) {
	name := chi.URLParam(req, "*")
	if name == "" {
		middleware.WriteError(w, req,
			middleware.NewAPIError(http.StatusBadRequest, "server name is required", nil), r.logger)
		return
	}

	srv, err := r.client.Servers.Get(req.Context(), name)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, dto.FromServer(srv))
}
