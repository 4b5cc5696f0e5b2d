package hitl

import (
	"context"
	"fmt"
)

// Summary carries the state fields rendered for the external reviewer.
type Summary struct {
	EmployeeID    string
	EmployeeName  string
	LeaveType     string
	StartDate     string
	EndDate       string
	DaysRequested int
	LeaveBalance  int
}

// Decision is the reviewer's verdict. Reason may be empty.
type Decision struct {
	Approved bool
	Reason   string
}

// Prompter presents a summary to an external reviewer and blocks until a
// decision arrives. Implementations own input validation: malformed input is
// re-prompted, never coerced, and never surfaces to the caller. Prompt
// returns an error only when the transport itself breaks (closed channel,
// EOF on the terminal, context cancellation).
type Prompter interface {
	Prompt(ctx context.Context, summary Summary) (Decision, error)
}

// ChannelPrompter bridges the gate to any asynchronous frontend through a
// pair of channels: each Prompt sends the summary on Requests and blocks for
// the next value on Decisions. The frontend validates its own input and
// delivers exactly one Decision per received Summary.
type ChannelPrompter struct {
	Requests  chan Summary
	Decisions chan Decision
}

// NewChannelPrompter constructs a ChannelPrompter with unbuffered channels.
func NewChannelPrompter() *ChannelPrompter {
	return &ChannelPrompter{
		Requests:  make(chan Summary),
		Decisions: make(chan Decision),
	}
}

// Prompt implements Prompter.
func (p *ChannelPrompter) Prompt(ctx context.Context, summary Summary) (Decision, error) {
	select {
	case <-ctx.Done():
		return Decision{}, ctx.Err()
	case p.Requests <- summary:
	}

	select {
	case <-ctx.Done():
		return Decision{}, ctx.Err()
	case decision, ok := <-p.Decisions:
		if !ok {
			return Decision{}, fmt.Errorf("decision channel closed")
		}
		return decision, nil
	}
}

// StaticPrompter always returns the same decision. Test and demo helper.
type StaticPrompter struct {
	Decision Decision
	// Prompts records every summary received, in order.
	Prompts []Summary
}

// Prompt implements Prompter.
func (p *StaticPrompter) Prompt(_ context.Context, summary Summary) (Decision, error) {
	p.Prompts = append(p.Prompts, summary)
	return p.Decision, nil
}
