// Package server wires the call-graph engine to the Model Context
// Protocol: it owns the process-wide graph snapshot, validates tool
// arguments, and maps engine results onto the MCP contract.
package server

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"callgraph/internal/config"
	"callgraph/internal/extract"
	"callgraph/internal/graph"
	"callgraph/internal/history"
	"callgraph/internal/scanner"
)

const (
	serverName    = "callgraph"
	serverVersion = "0.2.0"
)

// Server hosts the MCP tools over one mutable call graph. The graph is
// only ever replaced wholesale: analyze builds a fresh store off-lock and
// swaps the pointer in, so a failed analysis leaves the previous graph
// intact and queries never observe a half-built state.
type Server struct {
	mcpServer *mcp.Server
	logger    *slog.Logger
	cfg       *config.Config

	extractor *extract.Extractor // nil when the grammar failed to load
	scanner   *scanner.Scanner
	history   *history.Store // nil when history is disabled

	mu           sync.RWMutex
	graph        *graph.Store
	lastAnalysis time.Time
	lastLabel    string
}

func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	s := &Server{
		logger:  logger,
		cfg:     cfg,
		scanner: scanner.New(cfg.Scanner.Extensions, cfg.Scanner.ExcludeDirs),
		graph:   graph.NewStore(),
	}

	extractor, err := extract.New()
	if err != nil {
		// Queries still work against the (empty) graph; only analysis
		// reports ParseUnavailable.
		logger.Warn("extractor unavailable", "error", err)
	} else {
		s.extractor = extractor
	}

	if cfg.History.Path != "" {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			logger.Warn("history disabled", "path", cfg.History.Path, "error", err)
		} else {
			s.history = store
		}
	}

	s.mcpServer = mcp.NewServer(&mcp.Implementation{
		Name:    serverName,
		Version: serverVersion,
	}, nil)
	s.registerTools()
	s.registerResources()

	return s, nil
}

// Run serves MCP over stdio until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("serving", "name", serverName, "version", serverVersion)
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) Close() error {
	if s.history != nil {
		return s.history.Close()
	}
	return nil
}

// swapGraph installs a freshly built graph as the current snapshot.
func (s *Server) swapGraph(st *graph.Store, label string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.graph = st
	s.lastAnalysis = time.Now().UTC()
	s.lastLabel = label
}

// snapshot returns the current graph for a read-only traversal. Installed
// stores are never mutated again, so holding the lock only for the pointer
// read is safe.
func (s *Server) snapshot() *graph.Store {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.graph
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}
