package session

import (
	"time"

	"github.com/hupe1980/hrflow/agent"
)

// Session is one user's running conversation with the HR workflow.
type Session struct {
	ID       string
	UserName string
	// EmployeeID is the authenticated principal's identifier, may be empty.
	EmployeeID string
	// Messages is the accumulated conversation across all runs of this session.
	Messages []agent.Message
	// LastState is the final merged state of the most recent run.
	LastState agent.State
	Created   time.Time
	Updated   time.Time
}

// Clone returns a deep copy safe for independent mutation.
func (s *Session) Clone() *Session {
	clone := *s
	clone.Messages = make([]agent.Message, len(s.Messages))
	copy(clone.Messages, s.Messages)
	return &clone
}

// Store persists sessions and their accumulated conversations.
type Store interface {
	// Get returns an existing session or lazily creates an empty one.
	Get(sessionID string) (*Session, error)
	// AppendMessages adds messages to a session's conversation.
	AppendMessages(sessionID string, messages ...agent.Message) error
	// SetLastState records the final state of a completed run.
	SetLastState(sessionID string, state agent.State) error
}
