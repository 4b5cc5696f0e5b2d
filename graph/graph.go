package graph

import "context"

// End is the terminal marker: an edge destination meaning "execution ends".
const End = "__end__"

// Label identifies one outcome of a router at a conditional edge site.
type Label string

// NodeFunc is a node's transform: it receives the current state snapshot and
// returns a sparse partial update covering only the fields it intends to
// change. Expected domain failures must be encoded in the partial (the
// uniform error-as-data protocol); a non-nil error fails the whole run.
type NodeFunc[S, P any] func(ctx context.Context, state S) (P, error)

// RouterFunc picks the next edge label from a state snapshot. Routers must be
// side-effect free; for conditional edges they see the post-merge state, for
// the entry they see the initial state.
type RouterFunc[S any] func(state S) Label

// Reducer folds a partial update into a base state, producing a new state.
// It must be pure: neither argument may be mutated, so that the same partial
// can be re-applied without double-application hazards.
type Reducer[S, P any] func(base S, partial P) S

// node pairs a transform with its gate flag.
type node[S, P any] struct {
	fn   NodeFunc[S, P]
	gate bool
}

// conditional is a router plus its label -> destination table.
type conditional[S any] struct {
	router RouterFunc[S]
	labels map[Label]string
}

// Graph is a mutable builder. Register nodes and edges, designate an entry,
// then Compile. The builder is not safe for concurrent use; the compiled
// graph is.
type Graph[S, P any] struct {
	reduce   Reducer[S, P]
	nodes    map[string]node[S, P]
	edges    map[string]string
	branches map[string]conditional[S]

	entry       string
	entryRouter *conditional[S]

	compiled bool
	err      error
}

// New creates an empty graph builder bound to a reducer.
func New[S, P any](reduce Reducer[S, P]) *Graph[S, P] {
	return &Graph[S, P]{
		reduce:   reduce,
		nodes:    make(map[string]node[S, P]),
		edges:    make(map[string]string),
		branches: make(map[string]conditional[S]),
	}
}

// AddNode registers a node under a unique id.
func (g *Graph[S, P]) AddNode(id string, fn NodeFunc[S, P]) *Graph[S, P] {
	return g.addNode(id, fn, false)
}

// AddGate registers a human-input gate: a node whose transform is allowed to
// block on an external synchronous decision. While it runs, the invocation
// reports StatusAwaitingInput instead of StatusRunning.
func (g *Graph[S, P]) AddGate(id string, fn NodeFunc[S, P]) *Graph[S, P] {
	return g.addNode(id, fn, true)
}

func (g *Graph[S, P]) addNode(id string, fn NodeFunc[S, P], gate bool) *Graph[S, P] {
	if g.compiled {
		g.fail(ErrGraphCompiled)
		return g
	}
	if _, exists := g.nodes[id]; exists {
		g.fail(&DuplicateNodeError{ID: id})
		return g
	}
	g.nodes[id] = node[S, P]{fn: fn, gate: gate}
	return g
}

// AddEdge registers the unconditional successor of a node. The destination
// may be another node id or End.
func (g *Graph[S, P]) AddEdge(from, to string) *Graph[S, P] {
	if g.compiled {
		g.fail(ErrGraphCompiled)
		return g
	}
	if g.hasOutgoing(from) {
		g.fail(&DuplicateEdgeError{From: from})
		return g
	}
	g.edges[from] = to
	return g
}

// AddConditionalEdges registers a router for a node together with the table
// mapping every label the router can emit to a destination. Exhaustiveness of
// the table cannot be checked statically (routers are opaque); a label missing
// at runtime surfaces as UnmappedLabelError.
func (g *Graph[S, P]) AddConditionalEdges(from string, router RouterFunc[S], labels map[Label]string) *Graph[S, P] {
	if g.compiled {
		g.fail(ErrGraphCompiled)
		return g
	}
	if g.hasOutgoing(from) {
		g.fail(&DuplicateEdgeError{From: from})
		return g
	}
	g.branches[from] = conditional[S]{router: router, labels: copyLabels(labels)}
	return g
}

// SetEntry designates a fixed entry node.
func (g *Graph[S, P]) SetEntry(id string) *Graph[S, P] {
	if g.compiled {
		g.fail(ErrGraphCompiled)
		return g
	}
	g.entry = id
	g.entryRouter = nil
	return g
}

// SetEntryRouter designates a conditional entry: the router is evaluated
// against the initial state, before any node runs, and its label selects the
// first node (or End) via the table.
func (g *Graph[S, P]) SetEntryRouter(router RouterFunc[S], labels map[Label]string) *Graph[S, P] {
	if g.compiled {
		g.fail(ErrGraphCompiled)
		return g
	}
	g.entry = ""
	g.entryRouter = &conditional[S]{router: router, labels: copyLabels(labels)}
	return g
}

// Compile validates the graph and freezes it into an immutable executable
// form. All structural errors (duplicate nodes/edges, unknown references,
// missing entry, nodes without an outgoing edge) surface here, never during
// execution.
func (g *Graph[S, P]) Compile() (*CompiledGraph[S, P], error) {
	if g.err != nil {
		return nil, g.err
	}
	if g.compiled {
		return nil, ErrGraphCompiled
	}
	if err := g.validate(); err != nil {
		return nil, err
	}
	g.compiled = true

	return &CompiledGraph[S, P]{
		reduce:      g.reduce,
		nodes:       g.nodes,
		edges:       g.edges,
		branches:    g.branches,
		entry:       g.entry,
		entryRouter: g.entryRouter,
	}, nil
}

func (g *Graph[S, P]) validate() error {
	if g.entry == "" && g.entryRouter == nil {
		return ErrNoEntryPoint
	}
	if g.entry != "" {
		if _, ok := g.nodes[g.entry]; !ok {
			return &UnknownNodeError{ID: g.entry}
		}
	}
	if g.entryRouter != nil {
		if err := g.checkTargets(g.entryRouter.labels); err != nil {
			return err
		}
	}
	for from, to := range g.edges {
		if _, ok := g.nodes[from]; !ok {
			return &UnknownNodeError{ID: from}
		}
		if to != End {
			if _, ok := g.nodes[to]; !ok {
				return &UnknownNodeError{ID: to}
			}
		}
	}
	for from, c := range g.branches {
		if _, ok := g.nodes[from]; !ok {
			return &UnknownNodeError{ID: from}
		}
		if err := g.checkTargets(c.labels); err != nil {
			return err
		}
	}
	for id := range g.nodes {
		if !g.hasOutgoing(id) {
			return &MissingEdgeError{ID: id}
		}
	}
	return nil
}

func (g *Graph[S, P]) checkTargets(labels map[Label]string) error {
	for _, to := range labels {
		if to == End {
			continue
		}
		if _, ok := g.nodes[to]; !ok {
			return &UnknownNodeError{ID: to}
		}
	}
	return nil
}

func (g *Graph[S, P]) hasOutgoing(from string) bool {
	if _, ok := g.edges[from]; ok {
		return true
	}
	_, ok := g.branches[from]
	return ok
}

// fail records the first builder error; Compile reports it.
func (g *Graph[S, P]) fail(err error) {
	if g.err == nil {
		g.err = err
	}
}

func copyLabels(labels map[Label]string) map[Label]string {
	cp := make(map[Label]string, len(labels))
	for k, v := range labels {
		cp[k] = v
	}
	return cp
}
