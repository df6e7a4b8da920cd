// Package mcp exposes registry search over the Model Context Protocol.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/lastmile-ai/mcp-registry-search/application/service"
	"github.com/lastmile-ai/mcp-registry-search/domain/search"
)

// Server wraps the MCP server with registry search tools.
type Server struct {
	mcpServer *server.MCPServer
	search    *service.Search
	servers   *service.Servers
	logger    *slog.Logger
}

// NewServer creates a new MCP server with the given services.
func NewServer(search *service.Search, servers *service.Servers, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		search:  search,
		servers: servers,
		logger:  logger,
	}

	mcpServer := server.NewMCPServer(
		"mcp-registry-search",
		version,
		server.WithToolCapabilities(true),
		server.WithPromptCapabilities(true),
		server.WithResourceCapabilities(false, true),
	)

	s.registerTools(mcpServer)
	s.registerPrompts(mcpServer)
	s.registerResources(mcpServer)

	s.mcpServer = mcpServer
	return s
}

func (s *Server) registerTools(mcpServer *server.MCPServer) {
	searchTool := mcp.NewTool("search_servers",
		mcp.WithDescription("Search the MCP server registry using hybrid full-text and semantic search"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("The search query"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Number of results to return (default: 10, max: 100)"),
		),
		mcp.WithNumber("semantic_weight",
			mcp.Description("Weight of the semantic similarity signal (default: 1.0)"),
		),
		mcp.WithNumber("full_text_weight",
			mcp.Description("Weight of the full-text match signal (default: 1.0)"),
		),
	)

	mcpServer.AddTool(searchTool, s.handleSearch)

	listTool := mcp.NewTool("list_servers",
		mcp.WithDescription("List servers in the MCP registry ordered by name"),
		mcp.WithNumber("limit",
			mcp.Description("Number of servers to return (default: 100, max: 1000)"),
		),
		mcp.WithNumber("offset",
			mcp.Description("Number of servers to skip"),
		),
	)

	mcpServer.AddTool(listTool, s.handleList)
}

func (s *Server) registerPrompts(mcpServer *server.MCPServer) {
	findPrompt := mcp.NewPrompt("find_server",
		mcp.WithPromptDescription("Find MCP servers that provide a given capability"),
		mcp.WithArgument("capability",
			mcp.RequiredArgument(),
			mcp.ArgumentDescription("The capability to look for, e.g. 'database access'"),
		),
	)

	mcpServer.AddPrompt(findPrompt, s.handleFindServerPrompt)
}

const searchResourcePrefix = "mcp-registry://search/"

func (s *Server) registerResources(mcpServer *server.MCPServer) {
	searchResource := mcp.NewResourceTemplate(
		searchResourcePrefix+"{query}",
		"Registry search results",
		mcp.WithTemplateDescription("Search results from the MCP server registry as markdown"),
		mcp.WithTemplateMIMEType("text/markdown"),
	)

	mcpServer.AddResourceTemplate(searchResource, s.handleSearchResource)
}

// handleSearch handles the search_servers tool invocation.
func (s *Server) handleSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query is required"), nil
	}

	opts := []service.SearchOption{}
	if limit := request.GetInt("limit", 0); limit > 0 {
		opts = append(opts, service.WithLimit(limit))
	}
	if w := request.GetFloat("semantic_weight", -1); w >= 0 {
		opts = append(opts, service.WithSemanticWeight(w))
	}
	if w := request.GetFloat("full_text_weight", -1); w >= 0 {
		opts = append(opts, service.WithFullTextWeight(w))
	}

	results, err := s.search.Search(ctx, query, opts...)
	if err != nil {
		s.logger.Error("search failed", slog.Any("error", err))
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	type searchResult struct {
		Name        string  `json:"name"`
		Description string  `json:"description"`
		Version     string  `json:"version"`
		Status      string  `json:"status"`
		Score       float64 `json:"score"`
	}

	out := make([]searchResult, len(results))
	for i, res := range results {
		srv := res.Server()
		out[i] = searchResult{
			Name:        srv.Name(),
			Description: srv.Description(),
			Version:     srv.Version(),
			Status:      string(srv.Status()),
			Score:       res.Score(),
		}
	}

	jsonBytes, err := json.Marshal(out)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal results: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonBytes)), nil
}

// handleList handles the list_servers tool invocation.
func (s *Server) handleList(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := request.GetInt("limit", 100)
	offset := request.GetInt("offset", 0)

	servers, err := s.servers.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error("list servers failed", slog.Any("error", err))
		return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
	}

	type serverEntry struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Version     string `json:"version"`
		Status      string `json:"status"`
	}

	out := make([]serverEntry, len(servers))
	for i, srv := range servers {
		out[i] = serverEntry{
			Name:        srv.Name(),
			Description: srv.Description(),
			Version:     srv.Version(),
			Status:      string(srv.Status()),
		}
	}

	jsonBytes, err := json.Marshal(out)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal results: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonBytes)), nil
}

// handleFindServerPrompt renders the find_server prompt.
func (s *Server) handleFindServerPrompt(_ context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	capability := request.Params.Arguments["capability"]
	if capability == "" {
		return nil, fmt.Errorf("capability argument is required")
	}

	text := fmt.Sprintf(
		"Use the search_servers tool to find MCP servers that provide %s. "+
			"Summarize the top matches with their name, description and install hints.",
		capability,
	)

	return mcp.NewGetPromptResult(
		"Find MCP servers by capability",
		[]mcp.PromptMessage{
			mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(text)),
		},
	), nil
}

// handleSearchResource serves search results as a markdown document. The
// query is carried in the resource URI itself.
func (s *Server) handleSearchResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	raw := strings.TrimPrefix(request.Params.URI, searchResourcePrefix)
	query, err := url.PathUnescape(raw)
	if err != nil {
		query = raw
	}
	if query == "" {
		return nil, fmt.Errorf("search query is required")
	}

	results, err := s.search.Search(ctx, query, service.WithLimit(10))
	if err != nil {
		s.logger.Error("search resource failed", slog.Any("error", err))
		return nil, fmt.Errorf("search failed: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "text/markdown",
			Text:     renderSearchMarkdown(query, results),
		},
	}, nil
}

func renderSearchMarkdown(query string, results []search.Result) string {
	var md strings.Builder
	fmt.Fprintf(&md, "# Search Results for: %s\n\n", query)

	for i, res := range results {
		srv := res.Server()
		fmt.Fprintf(&md, "## %d. %s\n", i+1, srv.Name())
		fmt.Fprintf(&md, "**Version:** %s\n", srv.Version())
		fmt.Fprintf(&md, "**Description:** %s\n", srv.Description())
		if repoURL := repositoryURL(srv.Repository()); repoURL != "" {
			fmt.Fprintf(&md, "**Repository:** %s\n", repoURL)
		}
		fmt.Fprintf(&md, "**Score:** %.4f\n\n", res.Score())
	}
	return md.String()
}

func repositoryURL(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var repo struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(raw, &repo); err != nil {
		return ""
	}
	return repo.URL
}

// MCPServer returns the underlying MCP server for HTTP or stdio serving.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio runs the MCP server on stdio.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
