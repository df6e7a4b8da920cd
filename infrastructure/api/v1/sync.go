package v1

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	registrysearch "github.com/lastmile-ai/mcp-registry-search"
	"github.com/lastmile-ai/mcp-registry-search/infrastructure/api/middleware"
	"github.com/lastmile-ai/mcp-registry-search/infrastructure/api/v1/dto"
)

// SyncRouter exposes the catalog sync trigger. The route is bearer-protected
// by the caller; this router only runs the sync.
type SyncRouter struct {
	client *registrysearch.Client
	logger *slog.Logger
}

// NewSyncRouter creates a new SyncRouter.
func NewSyncRouter(client *registrysearch.Client) *SyncRouter {
	return &SyncRouter{
		client: client,
		logger: client.Logger(),
	}
}

// Routes returns the chi router for the sync endpoint.
func (r *SyncRouter) Routes() chi.Router {
	router := chi.NewRouter()
	router.Post("/", r.Trigger)
	return router
}

// Trigger handles POST /api/v1/sync. The run executes synchronously so
// schedulers see failures in the response status.
func (r *SyncRouter) Trigger(w http.ResponseWriter, req *http.Request) {
	summary, err := r.client.Sync.Run(req.Context())
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, dto.FromSummary(summary))
}
