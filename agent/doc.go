// Package agent implements the HR leave workflow on top of the graph engine:
// the fixed state schema shared by all nodes, the reducer folding partial
// updates into it, the business nodes (external agent query, approval
// threshold check, human approval gate, finalization, privacy denial) and the
// graph wiring that connects them.
//
// All collaborators are injected through Dependencies; the package holds no
// process-wide mutable state, so the compiled workflow can be exercised with
// test doubles and shared across concurrent invocations.
package agent
