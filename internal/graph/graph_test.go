package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ingest(t *testing.T, funcs []Function) *Store {
	t.Helper()
	s := NewStore()
	s.Ingest(funcs)
	return s
}

func TestStoreEdgeCreatesEndpoints(t *testing.T) {
	s := NewStore()
	s.AddEdge("f", "g")

	assert.True(t, s.Has("f"))
	assert.True(t, s.Has("g"))
	assert.True(t, s.Defined("f"), "a caller must have a parsed body")
	assert.False(t, s.Defined("g"), "a bare call target is undefined")
	assert.Equal(t, 1, s.EdgeCount())
}

func TestStoreEdgeIdempotent(t *testing.T) {
	s := NewStore()
	s.AddEdge("f", "g")
	s.AddEdge("f", "g")
	s.AddEdge("f", "g")

	assert.Equal(t, 1, s.EdgeCount())
	assert.Equal(t, []string{"g"}, s.Callees("f"))
}

func TestStoreIndexSymmetry(t *testing.T) {
	s := ingest(t, []Function{
		{Name: "a", Calls: []string{"b", "c"}},
		{Name: "b", Calls: []string{"c"}},
		{Name: "c", Calls: []string{"a"}},
	})

	for _, n := range s.Nodes() {
		for _, callee := range s.Callees(n.Name) {
			assert.Contains(t, s.Callers(callee), n.Name,
				"edge %s->%s missing from reverse index", n.Name, callee)
		}
		for _, caller := range s.Callers(n.Name) {
			assert.Contains(t, s.Callees(caller), n.Name,
				"edge %s->%s missing from forward index", caller, n.Name)
		}
	}
}

func TestStoreClear(t *testing.T) {
	s := ingest(t, []Function{{Name: "f", Calls: []string{"g"}}})
	s.Clear()

	assert.Equal(t, 0, s.NodeCount())
	assert.Equal(t, 0, s.EdgeCount())
	assert.Empty(t, s.Callers("g"))
	assert.Empty(t, s.Orphans())
}

func TestIngestLinear(t *testing.T) {
	// Scenario: f calls g, g calls nothing.
	s := NewStore()
	count := s.Ingest([]Function{
		{Name: "f", Calls: []string{"g"}},
		{Name: "g"},
	})

	assert.Equal(t, 2, count)
	assert.Equal(t, []string{"f"}, s.Callers("g"))
	assert.Equal(t, []string{"g"}, s.Callees("f"))
	assert.Equal(t, []string{"f"}, s.Orphans())
	assert.Empty(t, s.DetectCycles())
}

func TestIngestEmpty(t *testing.T) {
	s := NewStore()
	count := s.Ingest(nil)

	assert.Equal(t, 0, count)
	assert.Empty(t, s.Nodes())
	assert.Empty(t, s.Orphans())
	assert.Empty(t, s.DetectCycles())
}

func TestIngestUnionsDuplicateDefinitions(t *testing.T) {
	// Error-tolerant extraction can emit the same definition twice;
	// callee sets merge instead of the later record winning.
	s := ingest(t, []Function{
		{Name: "f", Calls: []string{"g"}},
		{Name: "f", Calls: []string{"h"}},
	})

	assert.Equal(t, []string{"g", "h"}, s.Callees("f"))
	assert.Equal(t, 3, s.NodeCount())
}

func TestIngestReplacesWholesale(t *testing.T) {
	s := NewStore()
	s.Ingest([]Function{
		{Name: "f", Calls: []string{"g"}},
		{Name: "g"},
	})
	count := s.Ingest([]Function{{Name: "h"}})

	assert.Equal(t, 1, count)
	assert.False(t, s.Has("f"), "first graph must be fully discarded")
	assert.False(t, s.Has("g"))
	assert.Empty(t, s.Callers("g"))
	assert.Equal(t, []string{"h"}, s.Orphans())
}

func TestIngestDefinedCountMatchesInput(t *testing.T) {
	s := ingest(t, []Function{
		{Name: "a", Calls: []string{"x", "y"}},
		{Name: "b", Calls: []string{"a"}},
		{Name: "a"}, // duplicate
	})

	defined := 0
	for _, n := range s.Nodes() {
		if n.Defined {
			defined++
		}
	}
	assert.Equal(t, 2, defined, "distinct defined nodes = distinct input names")
}

func TestCallersAbsentName(t *testing.T) {
	s := ingest(t, []Function{{Name: "f", Calls: []string{"g"}}})

	assert.Empty(t, s.Callers("doesNotExist"))
	assert.Empty(t, s.Callees("doesNotExist"))
}

func TestCallersInsertionOrder(t *testing.T) {
	s := ingest(t, []Function{
		{Name: "c", Calls: []string{"target"}},
		{Name: "a", Calls: []string{"target"}},
		{Name: "b", Calls: []string{"target"}},
	})

	// Order of first appearance, not lexicographic.
	assert.Equal(t, []string{"c", "a", "b"}, s.Callers("target"))
}

func TestOrphansExcludeUndefined(t *testing.T) {
	// "external" only ever appears as a call target: in-degree tracking
	// aside, it is an unresolved call, never dead local code.
	s := ingest(t, []Function{
		{Name: "f", Calls: []string{"external"}},
	})

	assert.Equal(t, []string{"f"}, s.Orphans())

	s2 := ingest(t, []Function{{Name: "lonely"}})
	assert.Equal(t, []string{"lonely"}, s2.Orphans())
}

func TestOrphansRootsAndCalled(t *testing.T) {
	s := ingest(t, []Function{
		{Name: "orphan"},
		{Name: "parent", Calls: []string{"child"}},
		{Name: "child"},
	})

	orphans := s.Orphans()
	assert.Contains(t, orphans, "orphan")
	assert.Contains(t, orphans, "parent")
	assert.NotContains(t, orphans, "child")
}

func TestDetectCyclesAcyclic(t *testing.T) {
	s := ingest(t, []Function{
		{Name: "a", Calls: []string{"b", "c"}},
		{Name: "b", Calls: []string{"d"}},
		{Name: "c", Calls: []string{"d"}},
		{Name: "d"},
	})

	assert.Empty(t, s.DetectCycles())
}

func TestDetectCyclesTwoNode(t *testing.T) {
	s := ingest(t, []Function{
		{Name: "a", Calls: []string{"b"}},
		{Name: "b", Calls: []string{"a"}},
	})

	cycles := s.DetectCycles()
	require.Len(t, cycles, 1)
	assert.Equal(t, Cycle{"a", "b", "a"}, cycles[0])

	assert.NotEmpty(t, s.Callers("a"))
	assert.NotEmpty(t, s.Callers("b"))
	assert.Empty(t, s.Orphans())
}

func TestDetectCyclesSelfLoop(t *testing.T) {
	s := ingest(t, []Function{
		{Name: "x", Calls: []string{"x"}},
	})

	cycles := s.DetectCycles()
	require.Len(t, cycles, 1)
	assert.Equal(t, Cycle{"x", "x"}, cycles[0])
	assert.Equal(t, []string{"x"}, s.Callers("x"))
}

func TestDetectCyclesSelfLoopInsideComponent(t *testing.T) {
	// A self-edge is always its own length-1 cycle, on top of the
	// component's representative cycle.
	s := ingest(t, []Function{
		{Name: "a", Calls: []string{"a", "b"}},
		{Name: "b", Calls: []string{"a"}},
	})

	cycles := s.DetectCycles()
	require.Len(t, cycles, 2)
	assert.Equal(t, Cycle{"a", "a"}, cycles[0])
	assert.Equal(t, Cycle{"a", "b", "a"}, cycles[1])
}

func TestDetectCyclesLongComponent(t *testing.T) {
	s := ingest(t, []Function{
		{Name: "a", Calls: []string{"b"}},
		{Name: "b", Calls: []string{"c"}},
		{Name: "c", Calls: []string{"a"}},
		{Name: "d", Calls: []string{"a"}}, // feeds the cycle, not in it
	})

	cycles := s.DetectCycles()
	require.Len(t, cycles, 1)
	assert.Equal(t, Cycle{"a", "b", "c", "a"}, cycles[0])
}

func TestDetectCyclesDisjoint(t *testing.T) {
	s := ingest(t, []Function{
		{Name: "a", Calls: []string{"b"}},
		{Name: "b", Calls: []string{"a"}},
		{Name: "p", Calls: []string{"q"}},
		{Name: "q", Calls: []string{"p"}},
	})

	cycles := s.DetectCycles()
	require.Len(t, cycles, 2)
	assert.Equal(t, Cycle{"a", "b", "a"}, cycles[0])
	assert.Equal(t, Cycle{"p", "q", "p"}, cycles[1])
}

func TestDetectCyclesDeterministic(t *testing.T) {
	funcs := []Function{
		{Name: "m", Calls: []string{"n", "o"}},
		{Name: "n", Calls: []string{"m"}},
		{Name: "o", Calls: []string{"m", "o"}},
	}

	first := ingest(t, funcs).DetectCycles()
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ingest(t, funcs).DetectCycles())
	}
}

func TestNodesInsertionOrder(t *testing.T) {
	s := ingest(t, []Function{
		{Name: "z", Calls: []string{"a"}},
		{Name: "m"},
	})

	nodes := s.Nodes()
	require.Len(t, nodes, 3)
	assert.Equal(t, "z", nodes[0].Name)
	assert.Equal(t, "a", nodes[1].Name)
	assert.Equal(t, "m", nodes[2].Name)
	assert.True(t, nodes[0].Defined)
	assert.False(t, nodes[1].Defined)
}
