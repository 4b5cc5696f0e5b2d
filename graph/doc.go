// Package graph implements a small state-machine workflow engine: named nodes
// transform a shared state, edges (unconditional or label-routed) connect
// them, and a compiled graph walks from an entry point to the End sentinel
// merging each node's partial update into the running state.
//
// The engine is generic over the state type S and the partial-update type P.
// How a partial is folded into the state is entirely the caller's business,
// expressed as a Reducer[S, P] supplied at construction. This keeps the
// engine free of any assumptions about field semantics (last-write-wins vs
// append-only accumulation) while letting domain packages use plain structs
// instead of untyped maps.
//
// A node flagged as a gate (AddGate) may block on external human input; while
// it runs the machine reports StatusAwaitingInput. Nodes otherwise execute
// strictly sequentially: each node sees the cumulative merged state of all
// predecessors. A compiled graph is immutable and may serve any number of
// concurrent invocations, each owning its own state instance.
package graph
