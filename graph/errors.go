package graph

import (
	"errors"
	"fmt"
)

var (
	// ErrGraphCompiled is returned when nodes or edges are added to a
	// builder after Compile has been called.
	ErrGraphCompiled = errors.New("graph already compiled")

	// ErrNoEntryPoint is returned by Compile when neither SetEntry nor
	// SetEntryRouter was called.
	ErrNoEntryPoint = errors.New("no entry point designated")
)

// DuplicateNodeError reports a node id registered twice.
type DuplicateNodeError struct {
	ID string
}

func (e *DuplicateNodeError) Error() string {
	return fmt.Sprintf("node %q already registered", e.ID)
}

// UnknownNodeError reports a reference to a node id that was never registered.
type UnknownNodeError struct {
	ID string
}

func (e *UnknownNodeError) Error() string {
	return fmt.Sprintf("unknown node %q", e.ID)
}

// DuplicateEdgeError reports a second outgoing edge specification for a node.
// A node's routing must be unambiguous: it owns either one unconditional edge
// or one conditional-edge table, never both and never two of either.
type DuplicateEdgeError struct {
	From string
}

func (e *DuplicateEdgeError) Error() string {
	return fmt.Sprintf("node %q already has an outgoing edge specification", e.From)
}

// MissingEdgeError reports a node with no outgoing edge specification at all.
// Caught by Compile, never at runtime.
type MissingEdgeError struct {
	ID string
}

func (e *MissingEdgeError) Error() string {
	return fmt.Sprintf("node %q has no outgoing edge", e.ID)
}

// UnmappedLabelError reports a router returning a label absent from its label
// map. Routers are opaque, so this cannot be ruled out statically; an
// invocation hitting it terminates in StatusFailed.
type UnmappedLabelError struct {
	From  string // routing site ("" for the entry router)
	Label Label
}

func (e *UnmappedLabelError) Error() string {
	if e.From == "" {
		return fmt.Sprintf("entry router returned unmapped label %q", e.Label)
	}
	return fmt.Sprintf("router for node %q returned unmapped label %q", e.From, e.Label)
}

// NodeError wraps an error returned by a node's transform. Nodes are expected
// to convert recoverable domain failures into error-carrying partial updates;
// a Go error escaping a node is treated as structural and fails the run.
type NodeError struct {
	ID  string
	Err error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("node %q: %v", e.ID, e.Err)
}

// Unwrap exposes the underlying node error for errors.Is / errors.As.
func (e *NodeError) Unwrap() error { return e.Err }
