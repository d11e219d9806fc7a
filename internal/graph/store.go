package graph

// Store owns node and edge storage for one call graph. It has no
// algorithmic logic; traversal and cycle detection live in traverse.go and
// cycles.go. The forward and reverse adjacency indices are kept in
// lockstep: edge (a,b) is present in out[a] exactly when it is present in
// in[b], and both endpoints always exist as nodes.
//
// Node identity is the raw name string. Insertion order of first
// appearance is tracked so every query can return a deterministic,
// documented ordering.
//
// A Store is not safe for concurrent use; the owner serializes access.
type Store struct {
	nodes map[string]*Node
	order []string // names in order of first appearance
	index map[string]int

	out map[string]map[string]struct{}
	in  map[string]map[string]struct{}
}

func NewStore() *Store {
	s := &Store{}
	s.reset()
	return s
}

func (s *Store) reset() {
	s.nodes = make(map[string]*Node)
	s.order = nil
	s.index = make(map[string]int)
	s.out = make(map[string]map[string]struct{})
	s.in = make(map[string]map[string]struct{})
}

// AddNode registers a node if absent. New nodes start undefined: they have
// only been seen as call targets until MarkDefined says otherwise.
func (s *Store) AddNode(name string) {
	if _, ok := s.nodes[name]; ok {
		return
	}
	s.nodes[name] = &Node{Name: name}
	s.index[name] = len(s.order)
	s.order = append(s.order, name)
	s.out[name] = make(map[string]struct{})
	s.in[name] = make(map[string]struct{})
}

// MarkDefined records that a definition body was ingested for name.
func (s *Store) MarkDefined(name string) {
	s.AddNode(name)
	s.nodes[name].Defined = true
}

// AddEdge records caller -> callee, creating both endpoints as needed.
// Multiple call sites between the same pair collapse to one edge. The
// caller is marked defined: only a parsed body can contribute calls.
func (s *Store) AddEdge(caller, callee string) {
	s.MarkDefined(caller)
	s.AddNode(callee)
	s.out[caller][callee] = struct{}{}
	s.in[callee][caller] = struct{}{}
}

// Clear drops all nodes and edges atomically.
func (s *Store) Clear() {
	s.reset()
}

func (s *Store) Has(name string) bool {
	_, ok := s.nodes[name]
	return ok
}

func (s *Store) Defined(name string) bool {
	n, ok := s.nodes[name]
	return ok && n.Defined
}

// Nodes returns copies of all nodes in insertion order.
func (s *Store) Nodes() []Node {
	nodes := make([]Node, 0, len(s.order))
	for _, name := range s.order {
		nodes = append(nodes, *s.nodes[name])
	}
	return nodes
}

func (s *Store) NodeCount() int {
	return len(s.order)
}

func (s *Store) EdgeCount() int {
	count := 0
	for _, targets := range s.out {
		count += len(targets)
	}
	return count
}

// Outgoing returns the direct successor names of name in insertion order.
// Empty when name is absent or has no callees.
func (s *Store) Outgoing(name string) []string {
	return s.ordered(s.out[name])
}

// Incoming returns the direct predecessor names of name in insertion order.
func (s *Store) Incoming(name string) []string {
	return s.ordered(s.in[name])
}

// ordered flattens an adjacency set into a slice sorted by node insertion
// order, the documented ordering for every query result.
func (s *Store) ordered(set map[string]struct{}) []string {
	if len(set) == 0 {
		return []string{}
	}
	names := make([]string, 0, len(set))
	for _, name := range s.order {
		if _, ok := set[name]; ok {
			names = append(names, name)
		}
	}
	return names
}
