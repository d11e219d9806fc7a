package server

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	cgerrors "callgraph/internal/errors"
	"callgraph/internal/extract"
	"callgraph/internal/graph"
	"callgraph/internal/history"
	"callgraph/util"
)

// Arguments structs

type AnalyzeCodebaseArgs struct {
	Source string `json:"source" jsonschema:"required,description:The full C++ source code to analyze"`
}

type AnalyzePathArgs struct {
	Path string `json:"path" jsonschema:"description:Workspace directory to analyze; defaults to the enclosing git repository root"`
}

type GetCallersArgs struct {
	FunctionName string `json:"function_name" jsonschema:"required,description:The function whose direct callers to return"`
}

type GetCalleesArgs struct {
	FunctionName string `json:"function_name" jsonschema:"required,description:The function whose direct callees to return"`
}

type DetectCyclesArgs struct{}

type GetOrphanFunctionsArgs struct{}

type ListFunctionsArgs struct{}

type GraphStatusArgs struct{}

type AnalysisHistoryArgs struct {
	Limit int `json:"limit" jsonschema:"description:Maximum number of history entries to return (default 10)"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "analyze_codebase",
		Description: "Parses C++ source code and rebuilds the call graph. Call this first to populate the graph.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args AnalyzeCodebaseArgs) (*mcp.CallToolResult, any, error) {
		return s.analyzeInline(ctx, args.Source), nil, nil
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "analyze_path",
		Description: "Scans a workspace directory for C++ sources and rebuilds the call graph from all of them.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args AnalyzePathArgs) (*mcp.CallToolResult, any, error) {
		root, err := util.FindGitRoot(args.Path)
		if err != nil {
			return errorResult(fmt.Sprintf("Failed to resolve workspace root: %v", err)), nil, nil
		}
		return s.analyzeWorkspace(ctx, root), nil, nil
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_callers",
		Description: "Returns the direct callers of a function (one hop upstream), in node insertion order.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args GetCallersArgs) (*mcp.CallToolResult, any, error) {
		name, errRes := requireName(args.FunctionName)
		if errRes != nil {
			return errRes, nil, nil
		}
		return jsonResult(s.snapshot().Callers(name)), nil, nil
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_callees",
		Description: "Returns the direct callees of a function (one hop downstream), in node insertion order.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args GetCalleesArgs) (*mcp.CallToolResult, any, error) {
		name, errRes := requireName(args.FunctionName)
		if errRes != nil {
			return errRes, nil, nil
		}
		return jsonResult(s.snapshot().Callees(name)), nil, nil
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "detect_cycles",
		Description: "Reports every call cycle as a closed path of function names, including direct self-calls.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args DetectCyclesArgs) (*mcp.CallToolResult, any, error) {
		return jsonResult(s.snapshot().DetectCycles()), nil, nil
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_orphan_functions",
		Description: "Returns defined functions that are never called by any parsed function.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args GetOrphanFunctionsArgs) (*mcp.CallToolResult, any, error) {
		return jsonResult(s.snapshot().Orphans()), nil, nil
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_functions",
		Description: "Lists every function in the graph with its defined flag.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args ListFunctionsArgs) (*mcp.CallToolResult, any, error) {
		return jsonResult(s.snapshot().Nodes()), nil, nil
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "graph_status",
		Description: "Returns the current graph size and the time of the last analysis.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args GraphStatusArgs) (*mcp.CallToolResult, any, error) {
		s.mu.RLock()
		st := s.graph
		last := s.lastAnalysis
		label := s.lastLabel
		s.mu.RUnlock()

		status := map[string]any{
			"node_count":      st.NodeCount(),
			"edge_count":      st.EdgeCount(),
			"history_enabled": s.history != nil,
		}
		if !last.IsZero() {
			status["last_analysis"] = last
			status["last_source"] = label
		}
		return jsonResult(status), nil, nil
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "analysis_history",
		Description: "Returns recent analysis runs from the history log, newest first.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args AnalysisHistoryArgs) (*mcp.CallToolResult, any, error) {
		if args.Limit < 0 {
			return errorResult("[INVALID_ARGUMENT] limit must not be negative"), nil, nil
		}
		if s.history == nil {
			return textResult("History is disabled: no history database configured."), nil, nil
		}
		entries, err := s.history.Recent(ctx, args.Limit)
		if err != nil {
			return errorResult(fmt.Sprintf("History query failed: %v", err)), nil, nil
		}
		if entries == nil {
			entries = []history.Entry{}
		}
		return jsonResult(entries), nil, nil
	})
}

// analyzeInline validates and analyzes one source string.
func (s *Server) analyzeInline(ctx context.Context, source string) *mcp.CallToolResult {
	if len(source) > s.cfg.MaxSourceBytes {
		return errorResult(fmt.Sprintf("[INVALID_ARGUMENT] source exceeds the %d byte limit", s.cfg.MaxSourceBytes))
	}
	data := []byte(source)
	return s.analyze(ctx, "inline", util.HashContent(data), data)
}

// analyze runs extraction and atomically replaces the graph. The previous
// graph stays installed on any failure.
func (s *Server) analyze(ctx context.Context, label, hash string, source []byte) *mcp.CallToolResult {
	if s.extractor == nil {
		return errorResult("[PARSE_UNAVAILABLE] the C++ grammar could not be loaded; analysis is unavailable")
	}

	res, err := s.extractor.Extract(source)
	if err != nil {
		s.logger.Error("extraction failed", "source", label, "error", err)
		if cgerrors.IsCode(err, cgerrors.CodeParseUnavailable) {
			return errorResult(fmt.Sprintf("[PARSE_UNAVAILABLE] extraction failed: %v", err))
		}
		return errorResult(fmt.Sprintf("[INTERNAL] extraction failed: %v", err))
	}

	return s.install(ctx, label, hash, res)
}

// analyzeWorkspace extracts every scanned file and ingests the union.
// Unreadable files are skipped, so whole-workspace analysis stays as fault
// tolerant as single-source analysis.
func (s *Server) analyzeWorkspace(ctx context.Context, root string) *mcp.CallToolResult {
	if s.extractor == nil {
		return errorResult("[PARSE_UNAVAILABLE] the C++ grammar could not be loaded; analysis is unavailable")
	}

	files, err := s.scanner.Scan(root)
	if err != nil {
		return errorResult(fmt.Sprintf("Workspace scan failed: %v", err))
	}

	combined := &extract.Result{}
	var hashes strings.Builder
	for _, path := range files {
		content, err := os.ReadFile(path)
		if err != nil {
			s.logger.Warn("skipping unreadable file", "path", path, "error", err)
			continue
		}
		res, err := s.extractor.Extract(content)
		if err != nil {
			return errorResult(fmt.Sprintf("[PARSE_UNAVAILABLE] extraction failed for %s: %v", path, err))
		}
		combined.Functions = append(combined.Functions, res.Functions...)
		combined.Diagnostics = append(combined.Diagnostics, res.Diagnostics...)
		hashes.WriteString(util.HashContent(content))
	}

	result := s.install(ctx, util.PathToURI(root), util.HashContent([]byte(hashes.String())), combined)
	if !result.IsError {
		result.Content = append(result.Content, &mcp.TextContent{
			Text: fmt.Sprintf("Scanned %d files under %s.", len(files), root),
		})
	}
	return result
}

// install builds the new graph off-lock, swaps it in, and records the run.
func (s *Server) install(ctx context.Context, label, hash string, res *extract.Result) *mcp.CallToolResult {
	st := graph.NewStore()
	nodeCount := st.Ingest(res.Functions)
	edgeCount := st.EdgeCount()

	s.swapGraph(st, label)

	if s.history != nil {
		err := s.history.Record(ctx, history.Entry{
			SourceLabel: label,
			SourceHash:  hash,
			NodeCount:   nodeCount,
			EdgeCount:   edgeCount,
			CycleCount:  len(st.DetectCycles()),
			OrphanCount: len(st.Orphans()),
		})
		if err != nil {
			// Best effort: the graph swap already happened.
			s.logger.Warn("failed to record analysis", "error", err)
		}
	}

	s.logger.Info("graph rebuilt",
		"source", label, "nodes", nodeCount, "edges", edgeCount,
		"skipped_regions", len(res.Diagnostics))

	msg := fmt.Sprintf("Successfully analyzed codebase: graph built with %d functions and %d call edges.", nodeCount, edgeCount)
	if len(res.Diagnostics) > 0 {
		msg += fmt.Sprintf(" Skipped %d malformed regions.", len(res.Diagnostics))
	}
	return textResult(msg)
}

// requireName validates a function-name argument. A blank identifier is an
// InvalidArgument; an identifier absent from the graph is not an error and
// simply yields empty results downstream.
func requireName(raw string) (string, *mcp.CallToolResult) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", errorResult("[INVALID_ARGUMENT] function_name must be a non-empty string")
	}
	return name, nil
}

func jsonResult(v any) *mcp.CallToolResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult(fmt.Sprintf("Failed to encode result: %v", err))
	}
	return textResult(string(data))
}
