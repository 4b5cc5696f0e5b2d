package hitl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// ConsolePrompter renders the approval summary to a terminal and reads the
// decision from an input stream. Exactly the tokens "yes" and "no"
// (case-insensitive, surrounding whitespace ignored) are accepted; anything
// else is re-prompted. An optional free-text reason follows.
type ConsolePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewConsolePrompter constructs a prompter reading from in and writing to out.
func NewConsolePrompter(in io.Reader, out io.Writer) *ConsolePrompter {
	return &ConsolePrompter{in: bufio.NewReader(in), out: out}
}

// Prompt implements Prompter. It blocks until a canonical decision token and
// the reason line have been read. Returns an error on EOF or broken output.
func (p *ConsolePrompter) Prompt(_ context.Context, summary Summary) (Decision, error) {
	p.render(summary)

	var approved bool
	for {
		fmt.Fprint(p.out, "\nApprove this request? (yes/no): ")
		line, err := p.in.ReadString('\n')
		if err != nil && line == "" {
			return Decision{}, fmt.Errorf("failed to read decision: %w", err)
		}

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "yes":
			approved = true
		case "no":
			approved = false
		default:
			fmt.Fprintln(p.out, "Please enter 'yes' or 'no'")
			continue
		}
		break
	}

	fmt.Fprint(p.out, "Reason (optional): ")
	reason, err := p.in.ReadString('\n')
	if err != nil && reason == "" {
		// Decision already captured; a missing reason line is not fatal.
		reason = ""
	}

	return Decision{Approved: approved, Reason: strings.TrimSpace(reason)}, nil
}

func (p *ConsolePrompter) render(summary Summary) {
	divider := strings.Repeat("=", 60)
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, divider)
	fmt.Fprintln(p.out, "HUMAN APPROVAL REQUIRED")
	fmt.Fprintln(p.out, divider)
	fmt.Fprintf(p.out, "Employee ID: %s\n", orUnknown(summary.EmployeeID))
	fmt.Fprintf(p.out, "Employee Name: %s\n", orUnknown(summary.EmployeeName))
	fmt.Fprintf(p.out, "Leave Type: %s\n", orUnknown(summary.LeaveType))
	fmt.Fprintf(p.out, "Duration: %d days\n", summary.DaysRequested)
	fmt.Fprintf(p.out, "Dates: %s to %s\n", orNA(summary.StartDate), orNA(summary.EndDate))
	fmt.Fprintf(p.out, "Current Balance: %d days\n", summary.LeaveBalance)
	fmt.Fprintln(p.out, divider)
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
