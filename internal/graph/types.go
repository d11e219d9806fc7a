package graph

// Node is a function identity in the call graph. Names live in a flat
// global namespace: two definitions sharing a name merge into one node.
type Node struct {
	Name    string `json:"name"`
	Defined bool   `json:"defined"`
}

// Function is one extraction record: a defined function and the names of
// the functions it calls. Records arrive in source order; duplicate
// definitions of the same name are legal and their callee sets are unioned.
type Function struct {
	Name  string   `json:"name"`
	Calls []string `json:"calls"`
}

// Cycle is a closed path of node names: it begins and ends with the same
// name, e.g. ["a", "b", "a"]. A direct self-call is the length-1 form
// ["x", "x"].
type Cycle []string
