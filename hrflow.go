// Package hrflow provides a high-level façade over the graph engine and the
// HR leave workflow, enabling an application to run conversational leave
// inquiries with human-in-the-loop approval in a few lines. Most
// applications interact with this package by:
//  1. Creating an App via New() with the injected collaborators (query
//     client, prompter; optionally session store, threshold source, logger)
//  2. Calling Run() per user message; the call blocks through any human
//     approval gate and returns the final merged state
//
// The façade delegates execution to graph.CompiledGraph while keeping setup
// ergonomics concise. All defaults are safe for local development and
// testing; deployments typically supply a real query backend and a
// structured logger.
package hrflow

import (
	"context"
	"fmt"

	"github.com/hupe1980/hrflow/agent"
	"github.com/hupe1980/hrflow/config"
	"github.com/hupe1980/hrflow/graph"
	"github.com/hupe1980/hrflow/hitl"
	"github.com/hupe1980/hrflow/logging"
	"github.com/hupe1980/hrflow/query"
	"github.com/hupe1980/hrflow/session"
)

// Options configure the App.
type Options struct {
	// Thresholds yields the approval-day threshold per execution. Defaults
	// to the env-backed source with the standard fallback.
	Thresholds agent.ThresholdSource

	// Detector overrides the third-party-name heuristic of the privacy
	// entry router.
	Detector agent.NameDetector

	// SessionStore accumulates conversations across runs. Defaults to the
	// in-memory store.
	SessionStore session.Store

	// Logger receives structured execution logs. Defaults to NoOp.
	Logger logging.Logger

	// StatusListener observes the machine transitions of every run.
	StatusListener graph.StatusListener
}

// App aggregates the compiled workflow and its injected services.
type App struct {
	workflow *graph.CompiledGraph[agent.State, agent.Partial]
	sessions session.Store
	logger   logging.Logger
	listener graph.StatusListener
}

// New builds the workflow graph around the given collaborators and returns
// the ready-to-run App.
func New(client query.Client, prompter hitl.Prompter, optFns ...func(o *Options)) (*App, error) {
	opts := Options{
		Thresholds:   config.EnvThresholdSource{},
		SessionStore: session.NewInMemoryStore(),
		Logger:       logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	workflow, err := agent.BuildGraph(agent.Dependencies{
		Client:     client,
		Prompter:   prompter,
		Thresholds: opts.Thresholds,
		Detector:   opts.Detector,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build workflow: %w", err)
	}

	return &App{
		workflow: workflow,
		sessions: opts.SessionStore,
		logger:   opts.Logger,
		listener: opts.StatusListener,
	}, nil
}

// Workflow exposes the compiled graph for direct invocation.
func (a *App) Workflow() *graph.CompiledGraph[agent.State, agent.Partial] {
	return a.workflow
}

// Run executes one conversational turn: it appends the user message to the
// session, seeds the initial state with the accumulated conversation, walks
// the workflow (blocking through the human approval gate when routed there)
// and records the outcome. The returned state carries the user-facing
// response in AgentResponse.
func (a *App) Run(ctx context.Context, sessionID, userName, employeeID, message string) (agent.State, error) {
	sess, err := a.sessions.Get(sessionID)
	if err != nil {
		return agent.State{}, fmt.Errorf("failed to get session: %w", err)
	}

	userMsg := agent.Message{Role: "user", Content: message}
	if err := a.sessions.AppendMessages(sessionID, userMsg); err != nil {
		return agent.State{}, fmt.Errorf("failed to append user message: %w", err)
	}

	initial := agent.NewInitialState(userName, employeeID, message)
	if len(sess.Messages) > 0 {
		history := make([]agent.Message, 0, len(sess.Messages)+1)
		history = append(history, sess.Messages...)
		history = append(history, userMsg)
		initial.Messages = history
	}

	invokeOpts := []func(o *graph.InvokeOptions){graph.WithLogger(a.logger)}
	if a.listener != nil {
		invokeOpts = append(invokeOpts, graph.WithStatusListener(a.listener))
	}

	final, err := a.workflow.Invoke(ctx, initial, invokeOpts...)
	if err != nil {
		return final, err
	}

	if final.AgentResponse != "" {
		_ = a.sessions.AppendMessages(sessionID, agent.Message{Role: "assistant", Content: final.AgentResponse})
	}
	_ = a.sessions.SetLastState(sessionID, final)

	return final, nil
}
