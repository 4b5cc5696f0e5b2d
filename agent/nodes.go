package agent

import (
	"context"
	"fmt"

	"github.com/hupe1980/hrflow/graph"
	"github.com/hupe1980/hrflow/hitl"
	"github.com/hupe1980/hrflow/query"
)

// ThresholdSource yields the approval-day threshold. It is consulted once per
// execution, never cached across executions, because the value is allowed to
// change between invocations.
type ThresholdSource interface {
	ApprovalThreshold() int
}

// StaticThreshold is a fixed ThresholdSource for tests and demos.
type StaticThreshold int

// ApprovalThreshold implements ThresholdSource.
func (t StaticThreshold) ApprovalThreshold() int { return int(t) }

const errorApology = "I encountered an error processing your request."

// NewQueryNode builds the node that forwards the latest user message to the
// external agent-query collaborator and maps the structured payload onto the
// state field by field. Collaborator failures are expected domain failures:
// they become an error-carrying partial with an apology response, never a Go
// error, so finalization always runs and always produces a reply.
func NewQueryNode(client query.Client) graph.NodeFunc[State, Partial] {
	return func(ctx context.Context, state State) (Partial, error) {
		message := state.LatestUserMessage()
		if message == "" {
			return Partial{
				Error:         ptr("no messages to process"),
				AgentResponse: ptr(errorApology),
			}, nil
		}

		result, err := client.Query(ctx, message, state.EmployeeID)
		if err != nil {
			return Partial{
				Error:         ptr(err.Error()),
				AgentResponse: ptr(errorApology),
			}, nil
		}

		partial := Partial{
			AgentResponse: ptr(result.Response),
			Messages:      []Message{{Role: "assistant", Content: result.Response}},
		}
		if leave := result.Leave; leave != nil {
			if leave.EmployeeID != "" {
				partial.EmployeeID = ptr(leave.EmployeeID)
			}
			if leave.EmployeeName != "" {
				partial.EmployeeName = ptr(leave.EmployeeName)
			}
			if leave.LeaveType != "" {
				partial.LeaveType = ptr(leave.LeaveType)
			}
			if leave.StartDate != "" {
				partial.StartDate = ptr(leave.StartDate)
			}
			if leave.EndDate != "" {
				partial.EndDate = ptr(leave.EndDate)
			}
			if leave.DaysRequested != nil {
				partial.DaysRequested = ptr(*leave.DaysRequested)
			}
			if leave.LeaveBalance != nil {
				partial.LeaveBalance = ptr(*leave.LeaveBalance)
			}
		}
		return partial, nil
	}
}

// NewCheckApprovalNode builds the node that applies the business rule: more
// requested days than the threshold requires a human decision, anything up to
// and including the threshold is approved automatically.
func NewCheckApprovalNode(thresholds ThresholdSource) graph.NodeFunc[State, Partial] {
	return func(_ context.Context, state State) (Partial, error) {
		threshold := thresholds.ApprovalThreshold()

		if state.DaysRequested > 0 && state.DaysRequested > threshold {
			return Partial{
				RequiresApproval: ptr(true),
				ApprovalStatus:   ptr(ApprovalPending),
			}, nil
		}
		return Partial{
			RequiresApproval: ptr(false),
			ApprovalStatus:   ptr(ApprovalAuto),
		}, nil
	}
}

// NewHumanApprovalNode builds the gate node: it renders the request summary
// through the prompter, blocks for the reviewer's decision and derives the
// user-facing response from it. A broken prompter transport degrades to an
// error-carrying partial like any other collaborator failure.
func NewHumanApprovalNode(prompter hitl.Prompter) graph.NodeFunc[State, Partial] {
	return func(ctx context.Context, state State) (Partial, error) {
		summary := hitl.Summary{
			EmployeeID:    state.EmployeeID,
			EmployeeName:  state.EmployeeName,
			LeaveType:     state.LeaveType,
			StartDate:     state.StartDate,
			EndDate:       state.EndDate,
			DaysRequested: state.DaysRequested,
			LeaveBalance:  state.LeaveBalance,
		}

		decision, err := prompter.Prompt(ctx, summary)
		if err != nil {
			return Partial{
				Error:         ptr(fmt.Sprintf("approval prompt failed: %v", err)),
				AgentResponse: ptr(errorApology),
			}, nil
		}

		reason := decision.Reason
		if reason == "" {
			reason = "No reason provided"
		}

		status := ApprovalRejected
		verdict := "rejected"
		if decision.Approved {
			status = ApprovalApproved
			verdict = "approved"
		}

		response := fmt.Sprintf(
			"Your leave request for %d days has been %s. Reason: %s",
			state.DaysRequested, verdict, reason,
		)

		return Partial{
			ApprovalStatus: ptr(status),
			ApprovalReason: ptr(reason),
			AgentResponse:  ptr(response),
			Messages:       []Message{{Role: "assistant", Content: response}},
		}, nil
	}
}

// NewFinalizeNode builds the terminal business node. It appends the
// auto-approval note when applicable and, when an error field is present,
// overrides the user-facing response with an apologetic message - the single
// consumer of the error-as-data protocol.
func NewFinalizeNode() graph.NodeFunc[State, Partial] {
	return func(_ context.Context, state State) (Partial, error) {
		response := state.AgentResponse

		if state.ApprovalStatus == ApprovalAuto && state.DaysRequested > 0 {
			response = fmt.Sprintf("%s Your request has been automatically approved.", response)
		}
		if state.Error != "" {
			response = fmt.Sprintf("Error: %s. Please try again or contact support.", state.Error)
		}

		return Partial{AgentResponse: ptr(response)}, nil
	}
}

// approvalRouter picks the destination after the threshold check.
func approvalRouter(state State) graph.Label {
	if state.RequiresApproval {
		return labelHumanApproval
	}
	return labelFinalize
}
