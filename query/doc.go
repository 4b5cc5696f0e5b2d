// Package query defines the contract between the workflow and the external
// agent-query collaborator: given free text, the collaborator returns a
// natural-language reply plus, for actionable leave requests, a structured
// payload of leave fields. Concrete backends live in sub-packages (langflow
// for the HTTP endpoint, openai and anthropic for direct model access); the
// business nodes only ever see the Client interface.
package query
