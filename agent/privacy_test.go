package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectThirdPartyNames(t *testing.T) {
	tests := []struct {
		name      string
		message   string
		principal string
		want      []string
	}{
		{
			name:      "for phrasing",
			message:   "Submit a vacation request for Bob",
			principal: "Alice",
			want:      []string{"Bob"},
		},
		{
			name:      "possessive phrasing",
			message:   "What is Carol's leave balance?",
			principal: "Alice",
			want:      []string{"Carol"},
		},
		{
			name:      "employee phrasing",
			message:   "Show leave history of employee Dave",
			principal: "Alice",
			want:      []string{"Dave"},
		},
		{
			name:      "own name is not third party",
			message:   "Submit a vacation request for Alice",
			principal: "Alice",
			want:      nil,
		},
		{
			name:      "own first name in full name",
			message:   "What is Alice's balance?",
			principal: "Alice Smith",
			want:      nil,
		},
		{
			name:      "no names at all",
			message:   "what is my leave balance?",
			principal: "Alice",
			want:      nil,
		},
		{
			name:      "duplicate mentions reported once",
			message:   "Request for Bob covering Bob's shift",
			principal: "Alice",
			want:      []string{"Bob"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectThirdPartyNames(tt.message, tt.principal))
		})
	}
}

func TestPrivacyRouter(t *testing.T) {
	router := newPrivacyRouter(DetectThirdPartyNames)

	t.Run("third party routes to deny", func(t *testing.T) {
		state := NewInitialState("Alice", "", "Submit a vacation request for Bob")
		assert.Equal(t, labelDeny, router(state))
	})

	t.Run("own request proceeds", func(t *testing.T) {
		state := NewInitialState("Alice", "", "I want 3 days off for vacation")
		assert.Equal(t, labelProceed, router(state))
	})

	t.Run("empty conversation proceeds", func(t *testing.T) {
		assert.Equal(t, labelProceed, router(State{CurrentUserName: "Alice"}))
	})
}

func TestPrivacyRouter_CustomDetector(t *testing.T) {
	denyAll := func(string, string) []string { return []string{"somebody"} }
	router := newPrivacyRouter(denyAll)

	state := NewInitialState("Alice", "", "what is my balance?")
	assert.Equal(t, labelDeny, router(state))
}
