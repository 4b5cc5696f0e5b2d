package agent

// ApprovalStatus enumerates the lifecycle of a leave request decision.
type ApprovalStatus string

const (
	// ApprovalPending means the request awaits a human decision.
	ApprovalPending ApprovalStatus = "pending"
	// ApprovalApproved means a human approved the request.
	ApprovalApproved ApprovalStatus = "approved"
	// ApprovalRejected means a human rejected the request.
	ApprovalRejected ApprovalStatus = "rejected"
	// ApprovalAuto means the request fell under the threshold and was
	// approved without human review.
	ApprovalAuto ApprovalStatus = "auto_approved"
)

// Message is one turn of the conversation.
type Message struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// State is the fixed schema shared by every node of the workflow. The field
// set is closed at compile time of this package; nodes cannot invent fields,
// which is the point of using a struct instead of an untyped map.
//
// Messages accumulate (append-only, order-preserving); every other field is
// last-write-wins per merge. Empty string / zero int means "not set".
type State struct {
	Messages []Message

	// Identity of the acting principal.
	CurrentUserName string
	EmployeeID      string
	EmployeeName    string

	// Leave request details extracted by the agent query.
	LeaveType     string // vacation, sick, personal
	StartDate     string
	EndDate       string
	DaysRequested int
	LeaveBalance  int

	// Approval workflow.
	RequiresApproval bool
	ApprovalStatus   ApprovalStatus
	ApprovalReason   string

	// User-facing response and error-as-data carrier.
	AgentResponse string
	Error         string
}

// LatestUserMessage returns the content of the most recent user-authored
// message, or "" when none exists.
func (s State) LatestUserMessage() string {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == "user" {
			return s.Messages[i].Content
		}
	}
	return ""
}

// Partial is a sparse update produced by a node: nil pointer fields are left
// untouched by Reduce, Messages are appended.
type Partial struct {
	Messages []Message

	CurrentUserName *string
	EmployeeID      *string
	EmployeeName    *string

	LeaveType     *string
	StartDate     *string
	EndDate       *string
	DaysRequested *int
	LeaveBalance  *int

	RequiresApproval *bool
	ApprovalStatus   *ApprovalStatus
	ApprovalReason   *string

	AgentResponse *string
	Error         *string
}

// Reduce merges a partial update into a base state, producing a new state.
// Messages concatenate in arrival order; all other fields overwrite when set.
// Neither argument is mutated: the message slice is re-allocated so the
// result never aliases the base, making Reduce safe to re-apply.
func Reduce(base State, partial Partial) State {
	next := base

	if len(partial.Messages) > 0 {
		msgs := make([]Message, 0, len(base.Messages)+len(partial.Messages))
		msgs = append(msgs, base.Messages...)
		msgs = append(msgs, partial.Messages...)
		next.Messages = msgs
	}

	if partial.CurrentUserName != nil {
		next.CurrentUserName = *partial.CurrentUserName
	}
	if partial.EmployeeID != nil {
		next.EmployeeID = *partial.EmployeeID
	}
	if partial.EmployeeName != nil {
		next.EmployeeName = *partial.EmployeeName
	}
	if partial.LeaveType != nil {
		next.LeaveType = *partial.LeaveType
	}
	if partial.StartDate != nil {
		next.StartDate = *partial.StartDate
	}
	if partial.EndDate != nil {
		next.EndDate = *partial.EndDate
	}
	if partial.DaysRequested != nil {
		next.DaysRequested = *partial.DaysRequested
	}
	if partial.LeaveBalance != nil {
		next.LeaveBalance = *partial.LeaveBalance
	}
	if partial.RequiresApproval != nil {
		next.RequiresApproval = *partial.RequiresApproval
	}
	if partial.ApprovalStatus != nil {
		next.ApprovalStatus = *partial.ApprovalStatus
	}
	if partial.ApprovalReason != nil {
		next.ApprovalReason = *partial.ApprovalReason
	}
	if partial.AgentResponse != nil {
		next.AgentResponse = *partial.AgentResponse
	}
	if partial.Error != nil {
		next.Error = *partial.Error
	}

	return next
}

// ptr returns a pointer to v. Keeps Partial construction in nodes terse.
func ptr[T any](v T) *T { return &v }
