package agent

import (
	"fmt"

	"github.com/hupe1980/hrflow/graph"
	"github.com/hupe1980/hrflow/hitl"
	"github.com/hupe1980/hrflow/query"
)

// Node identifiers of the HR workflow.
const (
	NodeCallAgent     = "call_agent"
	NodeCheckApproval = "check_approval"
	NodeHumanApproval = "human_approval"
	NodeFinalize      = "finalize"
	NodeDenyAccess    = "deny_access"
)

// Router labels.
const (
	labelProceed       graph.Label = "proceed"
	labelDeny          graph.Label = "deny"
	labelHumanApproval graph.Label = "human_approval"
	labelFinalize      graph.Label = "finalize"
)

// Dependencies are the collaborators injected into the workflow nodes.
type Dependencies struct {
	// Client answers agent queries. Required.
	Client query.Client
	// Prompter collects the human approval decision. Required.
	Prompter hitl.Prompter
	// Thresholds yields the approval-day threshold. Required.
	Thresholds ThresholdSource
	// Detector overrides the third-party-name heuristic. Optional.
	Detector NameDetector
}

// BuildGraph wires the HR leave workflow and compiles it:
//
//	entry router -(deny)-> deny_access -> End
//	            \(proceed)-> call_agent -> check_approval
//	                             -(human_approval)-> human_approval -> finalize -> End
//	                             \(finalize)-> finalize -> End
//
// The privacy entry router runs against the initial state, before any node.
func BuildGraph(deps Dependencies) (*graph.CompiledGraph[State, Partial], error) {
	if deps.Client == nil || deps.Prompter == nil || deps.Thresholds == nil {
		return nil, fmt.Errorf("client, prompter and thresholds are required")
	}
	detect := deps.Detector
	if detect == nil {
		detect = DetectThirdPartyNames
	}

	g := graph.New(Reduce)

	g.AddNode(NodeCallAgent, NewQueryNode(deps.Client))
	g.AddNode(NodeCheckApproval, NewCheckApprovalNode(deps.Thresholds))
	g.AddGate(NodeHumanApproval, NewHumanApprovalNode(deps.Prompter))
	g.AddNode(NodeFinalize, NewFinalizeNode())
	g.AddNode(NodeDenyAccess, NewDenyAccessNode())

	g.SetEntryRouter(newPrivacyRouter(detect), map[graph.Label]string{
		labelProceed: NodeCallAgent,
		labelDeny:    NodeDenyAccess,
	})

	g.AddEdge(NodeCallAgent, NodeCheckApproval)
	g.AddConditionalEdges(NodeCheckApproval, approvalRouter, map[graph.Label]string{
		labelHumanApproval: NodeHumanApproval,
		labelFinalize:      NodeFinalize,
	})
	g.AddEdge(NodeHumanApproval, NodeFinalize)
	g.AddEdge(NodeFinalize, graph.End)
	g.AddEdge(NodeDenyAccess, graph.End)

	return g.Compile()
}

// NewInitialState seeds the state for one invocation from the authenticated
// principal and the inbound user message.
func NewInitialState(userName, employeeID, message string) State {
	return State{
		Messages:        []Message{{Role: "user", Content: message}},
		CurrentUserName: userName,
		EmployeeID:      employeeID,
	}
}
