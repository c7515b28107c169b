// Package mcp exposes an engine as a Model Context Protocol server, so agents
// can run path queries over the host graph.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/wayfinder"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// GraphURI addresses the host graph resource.
const GraphURI = "wayfinder://graph"

// Engine is the part of *wayfinder.Engine the server needs.
type Engine interface {
	Execute(ctx context.Context, q domain.Query) (*wayfinder.Answer, error)
	Graph() ports.Graph
	Automata() []string
}

var _ Engine = (*wayfinder.Engine)(nil)

// QueryArgs are the arguments shared by the query tools.
// Roots is a comma separated list or a JSON array of node names.
type QueryArgs struct {
	Automaton string `json:"automaton"`
	Roots     string `json:"roots"`
	Target    string `json:"target,omitempty"`
}

// QueryResult is a name-based digest of an answer, with its markdown report.
type QueryResult struct {
	Automaton string          `json:"automaton" jsonschema_description:"The automaton that was run"`
	Mode      string          `json:"mode" jsonschema_description:"pathsystem, slice or path"`
	Roots     []string        `json:"roots" jsonschema_description:"Start nodes"`
	Accepted  []string        `json:"accepted" jsonschema_description:"Nodes reached in a final automaton state"`
	Nodes     []string        `json:"nodes" jsonschema_description:"Host nodes in the result; for a path, in path order"`
	Edges     []domain.EdgeID `json:"edges" jsonschema_description:"Host edge ids in the result; for a path, in path order"`
	Report    string          `json:"report" jsonschema_description:"Markdown summary"`
}

// Server wraps an engine as an MCP server.
type Server struct {
	engine    Engine
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Server{
		engine: engine,
		logger: logger,
		mcpServer: server.NewMCPServer("wayfinder-mcp", strings.TrimSpace(wayfinder.Version),
			server.WithToolCapabilities(false),
			server.WithResourceCapabilities(false, false),
		),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the SSE transport on port until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(fmt.Sprintf("http://localhost:%d", port)))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())
	httpServer := &http.Server{Addr: addr, Handler: mux}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func queryTool(name, description string, withTarget bool) mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(description),
		mcp.WithString("automaton", mcp.Required(), mcp.Description("Name of a registered automaton")),
		mcp.WithString("roots", mcp.Required(), mcp.Description("Start node names, comma separated or as a JSON array")),
	}
	if withTarget {
		opts = append(opts, mcp.WithString("target", mcp.Required(), mcp.Description("Node name the path must end at")))
	}
	opts = append(opts, mcp.WithOutputSchema[QueryResult]())
	return mcp.NewTool(name, opts...)
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(queryTool("build_path_system",
		"Find the shortest accepted path from the roots to every node the automaton accepts.", false),
		mcp.NewStructuredToolHandler(s.handler(domain.KindPathSystem)))

	s.mcpServer.AddTool(queryTool("build_slice",
		"Find every node and edge lying on some accepted path from the roots.", false),
		mcp.NewStructuredToolHandler(s.handler(domain.KindSlice)))

	s.mcpServer.AddTool(queryTool("extract_path",
		"Find one shortest accepted path from the roots to the target.", true),
		mcp.NewStructuredToolHandler(s.handler(domain.KindPath)))

	s.mcpServer.AddTool(mcp.NewTool("list_automata",
		mcp.WithDescription("List the names of the registered automata."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText(strings.Join(s.engine.Automata(), "\n")), nil
	})
}

func (s *Server) handler(mode domain.ResultKind) func(context.Context, mcp.CallToolRequest, QueryArgs) (QueryResult, error) {
	return func(ctx context.Context, _ mcp.CallToolRequest, args QueryArgs) (QueryResult, error) {
		roots, err := ParseRoots(args.Roots)
		if err != nil {
			return QueryResult{}, err
		}
		q := domain.Query{Automaton: args.Automaton, Roots: roots, Mode: mode, Target: args.Target}
		ans, err := s.engine.Execute(ctx, q)
		if err != nil {
			s.logger.Debug("MCP query failed", "tool", mode, "err", err)
			return QueryResult{}, fmt.Errorf("%s failed: %w", mode, err)
		}
		return digest(s.engine.Graph(), ans), nil
	}
}

// ParseRoots accepts "a, b" as well as `["a","b"]`.
func ParseRoots(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "[") {
		var roots []string
		if err := json.Unmarshal([]byte(raw), &roots); err != nil {
			return nil, fmt.Errorf("roots: %w", err)
		}
		return roots, nil
	}
	var roots []string
	for _, r := range strings.Split(raw, ",") {
		if r = strings.TrimSpace(r); r != "" {
			roots = append(roots, r)
		}
	}
	return roots, nil
}

func names(g ports.Graph, ids []domain.NodeID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
		if n, ok := g.Node(id); ok && n.Name != "" {
			out[i] = n.Name
		}
	}
	return out
}

func digest(g ports.Graph, ans *wayfinder.Answer) QueryResult {
	res := QueryResult{
		Automaton: ans.Query.Automaton,
		Mode:      string(ans.Query.Mode),
		Roots:     names(g, ans.Roots),
		Report:    ans.Markdown(g),
	}
	switch {
	case ans.PathSystem != nil:
		res.Accepted = names(g, ans.PathSystem.FinalNodes())
		res.Nodes = names(g, ans.PathSystem.HostNodes())
		res.Edges = ans.PathSystem.HostEdges()
	case ans.Slice != nil:
		res.Accepted = names(g, ans.Slice.FinalNodes())
		res.Nodes = names(g, ans.Slice.Nodes())
		res.Edges = ans.Slice.Edges()
	case ans.Path != nil:
		res.Accepted = names(g, []domain.NodeID{ans.Path.End()})
		res.Nodes = names(g, ans.Path.Nodes)
		res.Edges = ans.Path.Edges
	}
	return res
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(GraphURI, "Host graph",
		mcp.WithResourceDescription("Nodes and edges of the host graph, by name"),
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		data, err := json.Marshal(wayfinder.Summarize(s.engine.Graph()))
		if err != nil {
			return nil, fmt.Errorf("failed to encode graph: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      GraphURI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})
}
