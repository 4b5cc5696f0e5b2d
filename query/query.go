package query

import (
	"context"
	"fmt"
)

// LeaveDetails is the structured payload returned for actionable leave
// requests. Pointer fields distinguish "absent" from zero so a caller can
// leave untouched whatever the collaborator did not report.
type LeaveDetails struct {
	EmployeeID    string `json:"employee_id,omitempty"`
	EmployeeName  string `json:"employee_name,omitempty"`
	LeaveType     string `json:"leave_type,omitempty"`
	StartDate     string `json:"start_date,omitempty"`
	EndDate       string `json:"end_date,omitempty"`
	LeaveBalance  *int   `json:"leave_balance,omitempty"`
	DaysRequested *int   `json:"days_requested,omitempty"`
}

// Result is the collaborator's answer to one query.
type Result struct {
	// Response is the natural-language reply shown to the user.
	Response string
	// Actionable distinguishes an actionable leave request from a purely
	// informational query (balance lookup, policy question).
	Actionable bool
	// Leave carries the extracted leave fields; nil for informational
	// queries or when the backend returned no structured data.
	Leave *LeaveDetails
}

// Client is the narrow interface the workflow imposes on agent-query
// backends. employeeID provides request context and may be empty.
type Client interface {
	Query(ctx context.Context, message string, employeeID string) (*Result, error)
}

// MockClient is a canned-response Client for tests and demos.
type MockClient struct {
	responses map[string]*Result
	fallback  *Result
	// Calls records the messages received, in order.
	Calls []string
}

// NewMockClient constructs a MockClient with a generic fallback reply.
func NewMockClient() *MockClient {
	return &MockClient{
		responses: map[string]*Result{},
		fallback:  &Result{Response: "I can help you with leave requests and balance inquiries."},
	}
}

// AddResult registers a canned result for an exact message.
func (m *MockClient) AddResult(message string, result *Result) { m.responses[message] = result }

// SetFallback replaces the reply used for unregistered messages.
func (m *MockClient) SetFallback(result *Result) { m.fallback = result }

// Query implements Client.
func (m *MockClient) Query(_ context.Context, message string, _ string) (*Result, error) {
	m.Calls = append(m.Calls, message)
	if r, ok := m.responses[message]; ok {
		return r, nil
	}
	if m.fallback != nil {
		return m.fallback, nil
	}
	return nil, fmt.Errorf("no canned result for %q", message)
}
