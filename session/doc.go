// Package session houses conversation session tracking for interactive use:
// a session accumulates the message history and the final state of each
// completed run so that subsequent invocations start from the full
// conversation. Storage is volatile by design - workflow state does not
// survive a process restart; add durable backends in sub-packages without
// changing calling code if that ever changes.
package session
