package server

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const usageGuidelines = `# Callgraph MCP Server

Query the call structure of a C++ codebase instead of reading raw source.

## Workflow

1. Call ` + "`analyze_codebase`" + ` with source text (or ` + "`analyze_path`" + `
   for a whole workspace) to build the call graph. Each analysis replaces
   the previous graph wholesale.
2. Query it:
   - ` + "`get_callers`" + ` / ` + "`get_callees`" + ` - direct neighbors, one hop.
   - ` + "`detect_cycles`" + ` - every cycle as a closed name path.
   - ` + "`get_orphan_functions`" + ` - defined but never called.
   - ` + "`list_functions`" + ` - all known names with their defined flag.
3. ` + "`graph_status`" + ` and ` + "`analysis_history`" + ` describe the session.

## Notes

- Function identity is the raw name: overloads and namespaces with the
  same spelling merge into one node.
- Querying a name absent from the graph returns an empty list, not an
  error.
- Malformed source regions are skipped during analysis, never fatal.
`

func (s *Server) registerResources() {
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "callgraph://usage-guidelines",
		Name:        "Usage Guidelines",
		Description: "Usage guidelines for the callgraph MCP server",
		MIMEType:    "text/markdown",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{
				{
					URI:      "callgraph://usage-guidelines",
					MIMEType: "text/markdown",
					Text:     usageGuidelines,
				},
			},
		}, nil
	})

	// Map of tool name -> schema JSON for dynamic dispatch.
	schemaMap := buildSchemaMap()

	// One resource template matches callgraph://schemas/{tool_name}.
	s.mcpServer.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: "callgraph://schemas/{tool_name}",
		Name:        "Tool Schema",
		Description: "JSON schema for the named tool's arguments",
		MIMEType:    "application/schema+json",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		uri := req.Params.URI
		toolName := strings.TrimPrefix(uri, "callgraph://schemas/")
		schemaJSON, ok := schemaMap[toolName]
		if !ok {
			return nil, fmt.Errorf("unknown tool schema: %q", toolName)
		}
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{
				{
					URI:      uri,
					MIMEType: "application/schema+json",
					Text:     schemaJSON,
				},
			},
		}, nil
	})
}

// buildSchemaMap constructs a map from tool name to its JSON schema string.
// Schemas are derived from the args structs using jsonschema inference.
func buildSchemaMap() map[string]string {
	m := make(map[string]string)
	addSchema[AnalyzeCodebaseArgs](m, "analyze_codebase")
	addSchema[AnalyzePathArgs](m, "analyze_path")
	addSchema[GetCallersArgs](m, "get_callers")
	addSchema[GetCalleesArgs](m, "get_callees")
	addSchema[DetectCyclesArgs](m, "detect_cycles")
	addSchema[GetOrphanFunctionsArgs](m, "get_orphan_functions")
	addSchema[ListFunctionsArgs](m, "list_functions")
	addSchema[GraphStatusArgs](m, "graph_status")
	addSchema[AnalysisHistoryArgs](m, "analysis_history")
	return m
}

func addSchema[T any](m map[string]string, name string) {
	schema, err := jsonschema.For[T](nil)
	if err != nil {
		return
	}
	schemaJSON, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return
	}
	m[name] = string(schemaJSON)
}
