package graph

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/hupe1980/hrflow/logging"
)

// Status describes the execution state machine of one invocation.
type Status int

const (
	// StatusEntry is the initial status while the entry destination is resolved.
	StatusEntry Status = iota
	// StatusRunning means a regular node transform is executing.
	StatusRunning
	// StatusAwaitingInput means a gate node is blocked on an external decision.
	StatusAwaitingInput
	// StatusDone means the invocation reached End.
	StatusDone
	// StatusFailed means a structural error (unmapped label, node error)
	// terminated the invocation.
	StatusFailed
	// StatusCancelled means the invocation's context was cancelled at a node
	// boundary before completion.
	StatusCancelled
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusEntry:
		return "ENTRY"
	case StatusRunning:
		return "RUNNING"
	case StatusAwaitingInput:
		return "AWAITING_INPUT"
	case StatusDone:
		return "DONE"
	case StatusFailed:
		return "FAILED"
	case StatusCancelled:
		return "CANCELLED"
	default:
		return "UNKNOWN"
	}
}

// StatusListener observes machine transitions. nodeID is the node about to
// run (for RUNNING / AWAITING_INPUT) and empty for terminal statuses.
type StatusListener func(status Status, nodeID string)

// InvokeOptions configure a single invocation.
type InvokeOptions struct {
	// Logger receives per-transition structured log records. Defaults to NoOp.
	Logger logging.Logger
	// StatusListener, if set, is called on every machine transition.
	StatusListener StatusListener
	// RunID correlates log records of one invocation. Random if empty.
	RunID string
}

// WithLogger sets the invocation logger.
func WithLogger(logger logging.Logger) func(o *InvokeOptions) {
	return func(o *InvokeOptions) { o.Logger = logger }
}

// WithStatusListener registers a transition observer.
func WithStatusListener(fn StatusListener) func(o *InvokeOptions) {
	return func(o *InvokeOptions) { o.StatusListener = fn }
}

// WithRunID pins the run correlation id.
func WithRunID(id string) func(o *InvokeOptions) {
	return func(o *InvokeOptions) { o.RunID = id }
}

// CompiledGraph is the immutable executable form produced by Compile. It
// holds no per-invocation state: any number of Invoke calls may run
// concurrently as long as each supplies its own initial state.
type CompiledGraph[S, P any] struct {
	reduce      Reducer[S, P]
	nodes       map[string]node[S, P]
	edges       map[string]string
	branches    map[string]conditional[S]
	entry       string
	entryRouter *conditional[S]
}

// Entry returns the fixed entry node id, or "" when the entry is a router.
func (cg *CompiledGraph[S, P]) Entry() string { return cg.entry }

// HasNode reports whether a node id is registered.
func (cg *CompiledGraph[S, P]) HasNode(id string) bool {
	_, ok := cg.nodes[id]
	return ok
}

// NodeIDs returns all registered node identifiers in unspecified order.
func (cg *CompiledGraph[S, P]) NodeIDs() []string {
	ids := make([]string, 0, len(cg.nodes))
	for id := range cg.nodes {
		ids = append(ids, id)
	}
	return ids
}

// Invoke walks the graph from the entry to End, merging every node's partial
// update into the running state, and returns the final merged state.
//
// Nodes run strictly sequentially. A gate node flips the machine to
// AWAITING_INPUT for the duration of its (blocking) transform. Routers for
// conditional edges are evaluated against the post-merge state; an unmapped
// label terminates the run in StatusFailed and no further partial is merged.
// Context cancellation is observed at each node boundary and terminates the
// run in StatusCancelled.
func (cg *CompiledGraph[S, P]) Invoke(ctx context.Context, initial S, optFns ...func(o *InvokeOptions)) (S, error) {
	opts := InvokeOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}

	run := &run[S, P]{graph: cg, opts: opts, state: initial}
	return run.execute(ctx)
}

// run carries the mutable bookkeeping of one invocation.
type run[S, P any] struct {
	graph *CompiledGraph[S, P]
	opts  InvokeOptions
	state S
}

func (r *run[S, P]) execute(ctx context.Context) (S, error) {
	r.transition(StatusEntry, "")

	current, err := r.resolveEntry()
	if err != nil {
		return r.failed(err)
	}

	for current != End {
		if err := ctx.Err(); err != nil {
			r.transition(StatusCancelled, "")
			r.opts.Logger.Info("graph.run.cancelled", "run_id", r.opts.RunID, "node", current)
			return r.state, err
		}

		n, ok := r.graph.nodes[current]
		if !ok {
			// Unreachable after Compile; guards against misuse via reflection.
			return r.failed(&UnknownNodeError{ID: current})
		}

		if n.gate {
			r.transition(StatusAwaitingInput, current)
		} else {
			r.transition(StatusRunning, current)
		}
		r.opts.Logger.Debug("graph.node.start", "run_id", r.opts.RunID, "node", current, "gate", n.gate)

		partial, err := n.fn(ctx, r.state)
		if err != nil {
			return r.failed(&NodeError{ID: current, Err: err})
		}
		r.state = r.graph.reduce(r.state, partial)
		r.opts.Logger.Debug("graph.node.done", "run_id", r.opts.RunID, "node", current)

		next, err := r.next(current)
		if err != nil {
			return r.failed(err)
		}
		current = next
	}

	r.transition(StatusDone, "")
	r.opts.Logger.Info("graph.run.done", "run_id", r.opts.RunID)
	return r.state, nil
}

// resolveEntry evaluates the entry router (against the initial state) when
// present, otherwise returns the fixed entry node.
func (r *run[S, P]) resolveEntry() (string, error) {
	if r.graph.entryRouter == nil {
		return r.graph.entry, nil
	}
	label := r.graph.entryRouter.router(r.state)
	to, ok := r.graph.entryRouter.labels[label]
	if !ok {
		return "", &UnmappedLabelError{Label: label}
	}
	r.opts.Logger.Debug("graph.entry.routed", "run_id", r.opts.RunID, "label", string(label), "to", to)
	return to, nil
}

// next determines the destination after a node: the conditional router on the
// post-merge state when one is registered, the unconditional edge otherwise.
func (r *run[S, P]) next(current string) (string, error) {
	if c, ok := r.graph.branches[current]; ok {
		label := c.router(r.state)
		to, ok := c.labels[label]
		if !ok {
			return "", &UnmappedLabelError{From: current, Label: label}
		}
		r.opts.Logger.Debug("graph.edge.routed", "run_id", r.opts.RunID, "from", current, "label", string(label), "to", to)
		return to, nil
	}
	if to, ok := r.graph.edges[current]; ok {
		return to, nil
	}
	// Unreachable after Compile.
	return "", &MissingEdgeError{ID: current}
}

func (r *run[S, P]) failed(err error) (S, error) {
	r.transition(StatusFailed, "")
	r.opts.Logger.Error("graph.run.failed", "run_id", r.opts.RunID, "error", err.Error())
	return r.state, fmt.Errorf("graph execution failed: %w", err)
}

func (r *run[S, P]) transition(status Status, nodeID string) {
	if r.opts.StatusListener != nil {
		r.opts.StatusListener(status, nodeID)
	}
}
