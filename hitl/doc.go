// Package hitl abstracts the human-in-the-loop decision transport as a
// synchronous request/response exchange: the gate node sends a rendered
// summary and blocks for a binary decision plus an optional justification.
// The executor's contract stops there, so the same workflow runs unchanged
// against a terminal (ConsolePrompter), a pair of channels bridged to a web
// form or ticketing system (ChannelPrompter), or a test double.
package hitl
