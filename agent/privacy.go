package agent

import (
	"context"
	"regexp"
	"strings"

	"github.com/hupe1980/hrflow/graph"
)

// NameDetector reports the third-party names a message refers to, given the
// acting principal's own name. It backs the privacy entry router and is
// pluggable so the capitalized-name heuristic can be swapped for a stricter
// identifier-based check without touching the executor.
type NameDetector func(message, principal string) []string

// Possessive, "for <Name>" and "employee <Name>" phrasings around a
// capitalized word. A heuristic: capitalized non-name words produce false
// positives and lowercase names slip through.
var thirdPartyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b([A-Z][a-z]+)'s\b`),
	regexp.MustCompile(`\bfor\s+([A-Z][a-z]+)\b`),
	regexp.MustCompile(`\bemployee\s+([A-Z][a-z]+)\b`),
}

// DetectThirdPartyNames is the default NameDetector. It collects capitalized
// names in third-party phrasings and drops the principal's own name
// (case-insensitive, first name or full match).
func DetectThirdPartyNames(message, principal string) []string {
	principalParts := map[string]bool{}
	for _, part := range strings.Fields(strings.ToLower(principal)) {
		principalParts[part] = true
	}

	seen := map[string]bool{}
	var names []string
	for _, pattern := range thirdPartyPatterns {
		for _, m := range pattern.FindAllStringSubmatch(message, -1) {
			name := m[1]
			if principalParts[strings.ToLower(name)] || seen[name] {
				continue
			}
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}

// newPrivacyRouter builds the conditional entry router: evaluated against the
// initial state before any node runs, it short-circuits the whole graph to
// the denial path when the inbound message mentions somebody other than the
// acting principal. The proceed path is a pure pass-through - no state is
// touched.
func newPrivacyRouter(detect NameDetector) graph.RouterFunc[State] {
	return func(state State) graph.Label {
		message := state.LatestUserMessage()
		if message == "" {
			return labelProceed
		}
		if names := detect(message, state.CurrentUserName); len(names) > 0 {
			return labelDeny
		}
		return labelProceed
	}
}

// NewDenyAccessNode builds the denial finalization: it records the privacy
// violation as an error and produces the access-denied reply, ending the run
// without invoking any business node.
func NewDenyAccessNode() graph.NodeFunc[State, Partial] {
	return func(_ context.Context, _ State) (Partial, error) {
		response := "Access denied: you can only view and manage your own leave information."
		return Partial{
			Error:         ptr("attempted access to another employee's records"),
			AgentResponse: ptr(response),
			Messages:      []Message{{Role: "assistant", Content: response}},
		}, nil
	}
}
