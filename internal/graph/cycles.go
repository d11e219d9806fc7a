package graph

import "sort"

// DetectCycles reports every cycle in the graph as a closed path of node
// names. Every node with a direct self-edge yields the length-1 form
// ["x", "x"]; every strongly connected component of size >= 2 yields one
// representative cycle. The result is deterministic for a given ingestion
// order: self-loops come first in node insertion order, then one cycle per
// SCC ordered by the insertion index of the cycle's starting node.
//
// Runs in O(V+E); an empty or acyclic graph returns an empty slice.
func (s *Store) DetectCycles() []Cycle {
	cycles := []Cycle{}

	for _, name := range s.order {
		if _, ok := s.out[name][name]; ok {
			cycles = append(cycles, Cycle{name, name})
		}
	}

	var reps []Cycle
	for _, comp := range s.stronglyConnected() {
		if len(comp) < 2 {
			continue
		}
		if c := s.componentCycle(comp); c != nil {
			reps = append(reps, c)
		}
	}
	sort.Slice(reps, func(i, j int) bool {
		return s.index[reps[i][0]] < s.index[reps[j][0]]
	})

	return append(cycles, reps...)
}

// stronglyConnected computes SCCs with an iterative Tarjan walk. Roots and
// successors are visited in node insertion order, which fixes the SCC
// discovery order for a given ingestion.
func (s *Store) stronglyConnected() [][]string {
	type frame struct {
		name  string
		succs []string
		next  int
	}

	number := make(map[string]int, len(s.order))
	lowlink := make(map[string]int, len(s.order))
	onStack := make(map[string]bool, len(s.order))
	var stack []string
	var comps [][]string
	counter := 0

	visit := func(name string) frame {
		number[name] = counter
		lowlink[name] = counter
		counter++
		stack = append(stack, name)
		onStack[name] = true
		return frame{name: name, succs: s.Outgoing(name)}
	}

	for _, root := range s.order {
		if _, seen := number[root]; seen {
			continue
		}
		frames := []frame{visit(root)}

		for len(frames) > 0 {
			f := &frames[len(frames)-1]
			if f.next < len(f.succs) {
				succ := f.succs[f.next]
				f.next++
				if _, seen := number[succ]; !seen {
					frames = append(frames, visit(succ))
				} else if onStack[succ] && number[succ] < lowlink[f.name] {
					lowlink[f.name] = number[succ]
				}
				continue
			}

			frames = frames[:len(frames)-1]
			if len(frames) > 0 {
				parent := frames[len(frames)-1].name
				if lowlink[f.name] < lowlink[parent] {
					lowlink[parent] = lowlink[f.name]
				}
			}

			if lowlink[f.name] == number[f.name] {
				var comp []string
				for {
					top := stack[len(stack)-1]
					stack = stack[:len(stack)-1]
					onStack[top] = false
					comp = append(comp, top)
					if top == f.name {
						break
					}
				}
				comps = append(comps, comp)
			}
		}
	}

	return comps
}

// componentCycle builds one representative cycle through an SCC of size
// >= 2: starting from the member with the smallest insertion index, follow
// its first in-component successor and walk the shortest path back to the
// start. Strong connectivity guarantees such a path exists.
func (s *Store) componentCycle(comp []string) Cycle {
	members := make(map[string]bool, len(comp))
	for _, name := range comp {
		members[name] = true
	}

	start := comp[0]
	for _, name := range comp[1:] {
		if s.index[name] < s.index[start] {
			start = name
		}
	}

	var first string
	for _, succ := range s.Outgoing(start) {
		if succ != start && members[succ] {
			first = succ
			break
		}
	}
	if first == "" {
		return nil
	}

	// BFS from first back to start, restricted to component members.
	prev := map[string]string{first: ""}
	queue := []string{first}
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		if curr == start {
			break
		}
		for _, next := range s.Outgoing(curr) {
			if !members[next] {
				continue
			}
			if _, seen := prev[next]; seen {
				continue
			}
			prev[next] = curr
			queue = append(queue, next)
		}
	}
	if _, ok := prev[start]; !ok {
		return nil
	}

	var tail []string
	for node := start; node != ""; node = prev[node] {
		tail = append(tail, node)
	}
	// tail is start..first reversed; emit start, first, ..., start.
	cycle := Cycle{start}
	for i := len(tail) - 1; i >= 0; i-- {
		cycle = append(cycle, tail[i])
	}
	return cycle
}
