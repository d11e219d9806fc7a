package graph

// Callers returns the direct predecessors of name, one hop only. A name
// outside the graph is not an error: agents probe arbitrary identifiers,
// and "no such function" and "function with zero callers" are the same
// observable state. Results are in node insertion order.
func (s *Store) Callers(name string) []string {
	return s.Incoming(name)
}

// Callees returns the direct successors of name, one hop only, in node
// insertion order. Empty when name is absent or calls nothing.
func (s *Store) Callees(name string) []string {
	return s.Outgoing(name)
}

// Orphans returns every defined node with no incoming edges: functions
// that exist in the codebase but are never called by any parsed function.
// Undefined nodes are never orphans regardless of in-degree; they are
// unresolved external calls, not dead local code. Insertion order.
func (s *Store) Orphans() []string {
	orphans := []string{}
	for _, name := range s.order {
		if s.nodes[name].Defined && len(s.in[name]) == 0 {
			orphans = append(orphans, name)
		}
	}
	return orphans
}
