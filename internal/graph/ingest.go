package graph

// Ingest replaces the store's contents with the graph described by one
// batch of extraction records. Records are processed in order; repeated
// definitions of the same name union their callee sets rather than
// overwriting, so duplicate records from error-tolerant extraction never
// silently drop edges.
//
// Returns the number of distinct nodes in the rebuilt graph, including
// undefined nodes that appear only as call targets.
func (s *Store) Ingest(funcs []Function) int {
	s.Clear()
	for _, fn := range funcs {
		s.MarkDefined(fn.Name)
		for _, callee := range fn.Calls {
			s.AddEdge(fn.Name, callee)
		}
	}
	return s.NodeCount()
}
