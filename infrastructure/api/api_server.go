package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	mcpserver "github.com/mark3labs/mcp-go/server"

	registrysearch "github.com/lastmile-ai/mcp-registry-search"
	apimiddleware "github.com/lastmile-ai/mcp-registry-search/infrastructure/api/middleware"
	v1 "github.com/lastmile-ai/mcp-registry-search/infrastructure/api/v1"
	mcpinternal "github.com/lastmile-ai/mcp-registry-search/internal/mcp"
)

// APIServer provides the HTTP API backed by a registry-search Client.
type APIServer struct {
	client *registrysearch.Client
	server *Server
	router chi.Router
	logger *slog.Logger
}

// NewAPIServer creates a new APIServer wired to the given Client.
func NewAPIServer(client *registrysearch.Client) *APIServer {
	return &APIServer{
		client: client,
		logger: client.Logger(),
	}
}

// mountRoutes wires up all routes on the given router.
func (a *APIServer) mountRoutes(router chi.Router) {
	cfg := a.client.Config()

	router.Use(apimiddleware.Logging(a.logger))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	router.Get("/health", a.health)
	router.Get("/", a.root)

	router.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(apimiddleware.RequireAPIKey(cfg.APIKeys()))
			r.Use(chimiddleware.Timeout(60 * time.Second))

			r.Mount("/search", v1.NewSearchRouter(a.client).Routes())
			r.Mount("/servers", v1.NewServersRouter(a.client).Routes())
		})

		// The sync trigger mutates the index, so it sits behind the
		// shared cron secret. No request timeout: a first sync of a
		// large catalog embeds every entry and legitimately runs for
		// minutes.
		r.Group(func(r chi.Router) {
			r.Use(apimiddleware.RequireBearer(cfg.CronSecret()))
			r.Mount("/sync", v1.NewSyncRouter(a.client).Routes())
		})
	})

	// MCP endpoint. No timeout middleware: MCP streams responses and
	// manages session state via headers.
	mcpSrv := mcpinternal.NewServer(a.client.Search, a.client.Servers, registrysearch.Version, a.logger)
	router.Mount("/mcp", mcpserver.NewStreamableHTTPServer(mcpSrv.MCPServer()))

	// Authenticated upstream stream proxy, only when configured.
	if cfg.StreamProxy().IsConfigured() {
		proxy := NewStreamProxy(cfg.StreamProxy(), a.logger)
		router.Handle("/stream", proxy)
		router.Handle("/stream/*", proxy)
	}
}

func (a *APIServer) health(w http.ResponseWriter, _ *http.Request) {
	apimiddleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *APIServer) root(w http.ResponseWriter, _ *http.Request) {
	apimiddleware.WriteJSON(w, http.StatusOK, map[string]any{
		"name":    "mcp-registry-search",
		"version": registrysearch.Version,
		"endpoints": map[string]string{
			"search":  "/api/v1/search?q=...",
			"servers": "/api/v1/servers",
			"sync":    "/api/v1/sync",
			"mcp":     "/mcp",
			"health":  "/health",
		},
	})
}

// ListenAndServe starts the HTTP server on the given address.
func (a *APIServer) ListenAndServe(addr string) error {
	server := NewServer(addr, a.logger)
	a.server = &server
	a.mountRoutes(server.Router())
	return server.Start()
}

// Shutdown gracefully shuts down the server.
func (a *APIServer) Shutdown(ctx context.Context) error {
	if a.server == nil {
		return nil
	}
	return a.server.Shutdown(ctx)
}

// Handler returns the router as an http.Handler for use with custom servers
// and tests.
func (a *APIServer) Handler() http.Handler {
	if a.router == nil {
		a.router = chi.NewRouter()
		a.mountRoutes(a.router)
	}
	return a.router
}
