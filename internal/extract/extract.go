// Package extract turns raw C++ source text into ordered per-function call
// records for graph ingestion. Extraction is fault tolerant: malformed
// regions are reported as diagnostics and skipped, they never fail the
// whole parse.
package extract

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_cpp "github.com/tree-sitter/tree-sitter-cpp/bindings/go"

	"callgraph/internal/errors"
	"callgraph/internal/graph"
)

// Diagnostic marks a source region the parser could not make sense of.
type Diagnostic struct {
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Snippet string `json:"snippet"`
}

// Result is the extraction output for one source unit: function records in
// source order plus diagnostics for skipped regions.
type Result struct {
	Functions   []graph.Function
	Diagnostics []Diagnostic
}

// Extractor parses C++ with the tree-sitter grammar. Construction fails
// only when the grammar itself cannot be loaded; parse errors in source
// text never fail extraction.
type Extractor struct {
	lang *sitter.Language
}

func New() (*Extractor, error) {
	lang := sitter.NewLanguage(tree_sitter_cpp.Language())
	if lang == nil {
		return nil, errors.New(errors.CodeParseUnavailable, "cpp grammar could not be loaded")
	}
	return &Extractor{lang: lang}, nil
}

// Extract parses source and collects every function definition with the
// set of names it calls. Nested definitions yield their own records, and
// their calls also count toward the enclosing function, matching a plain
// subtree scan.
func (e *Extractor) Extract(source []byte) (*Result, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(e.lang)

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, errors.New(errors.CodeParseUnavailable, "parser produced no tree")
	}
	defer tree.Close()

	res := &Result{}
	e.walk(tree.RootNode(), source, res)
	return res, nil
}

func (e *Extractor) walk(node *sitter.Node, source []byte, res *Result) {
	switch node.Kind() {
	case "ERROR":
		res.Diagnostics = append(res.Diagnostics, Diagnostic{
			Line:    int(node.StartPosition().Row) + 1,
			Column:  int(node.StartPosition().Column) + 1,
			Snippet: snippet(node, source),
		})
	case "function_definition":
		if name := functionName(node, source); name != "" {
			res.Functions = append(res.Functions, graph.Function{
				Name:  name,
				Calls: collectCalls(node, source),
			})
		}
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		e.walk(node.Child(i), source, res)
	}
}

// functionName unwraps the declarator chain of a function_definition.
// Pointer, reference and parenthesized declarators wrap the inner
// declarator; plain identifiers and field identifiers terminate the walk.
// Qualified names (Foo::bar) are kept whole.
func functionName(def *sitter.Node, source []byte) string {
	declarator := def.ChildByFieldName("declarator")
	if declarator == nil {
		return ""
	}

	curr := declarator
	for curr != nil {
		switch curr.Kind() {
		case "identifier", "field_identifier", "destructor_name":
			return text(curr, source)
		case "function_declarator", "parenthesized_declarator",
			"pointer_declarator", "reference_declarator":
			curr = curr.ChildByFieldName("declarator")
		case "qualified_identifier", "operator_name":
			return text(curr, source)
		default:
			curr = nil
		}
	}
	return ""
}

// collectCalls gathers callee names from every call_expression in the
// definition's subtree, deduplicated in order of first appearance.
func collectCalls(def *sitter.Node, source []byte) []string {
	var calls []string
	seen := make(map[string]bool)

	var walk func(node *sitter.Node)
	walk = func(node *sitter.Node) {
		if node.Kind() == "call_expression" {
			if fn := node.ChildByFieldName("function"); fn != nil {
				name := text(fn, source)
				if name != "" && !seen[name] {
					seen[name] = true
					calls = append(calls, name)
				}
			}
		}
		for i := uint(0); i < node.ChildCount(); i++ {
			walk(node.Child(i))
		}
	}
	walk(def)

	return calls
}

func text(node *sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}

func snippet(node *sitter.Node, source []byte) string {
	s := strings.TrimSpace(text(node, source))
	const max = 80
	if len(s) > max {
		s = s[:max] + "..."
	}
	return s
}
