package graph

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func linearGraph(t *testing.T) *CompiledGraph[testState, testPartial] {
	t.Helper()
	g := New(testReduce)
	g.AddNode("a", logNode("a"))
	g.AddNode("b", logNode("b"))
	g.AddNode("c", logNode("c"))
	g.AddEdge("a", "b")
	g.AddEdge("b", "c")
	g.AddEdge("c", End)
	g.SetEntry("a")

	compiled, err := g.Compile()
	require.NoError(t, err)
	return compiled
}

func TestInvoke_LinearWalk(t *testing.T) {
	compiled := linearGraph(t)

	final, err := compiled.Invoke(context.Background(), testState{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, final.Log)
}

func TestInvoke_StatusTransitions(t *testing.T) {
	compiled := linearGraph(t)

	type transition struct {
		status Status
		node   string
	}
	var transitions []transition

	_, err := compiled.Invoke(context.Background(), testState{}, WithStatusListener(func(s Status, node string) {
		transitions = append(transitions, transition{s, node})
	}))
	require.NoError(t, err)

	assert.Equal(t, []transition{
		{StatusEntry, ""},
		{StatusRunning, "a"},
		{StatusRunning, "b"},
		{StatusRunning, "c"},
		{StatusDone, ""},
	}, transitions)
}

func TestInvoke_ConditionalRoutingSeesPostMergeState(t *testing.T) {
	g := New(testReduce)
	g.AddNode("set", func(_ context.Context, _ testState) (testPartial, error) {
		v := 7
		return testPartial{Value: &v}, nil
	})
	g.AddNode("high", logNode("high"))
	g.AddNode("low", logNode("low"))
	g.AddConditionalEdges("set", func(s testState) Label {
		// The router must observe the value merged from "set" itself.
		if s.Value > 5 {
			return "high"
		}
		return "low"
	}, map[Label]string{"high": "high", "low": "low"})
	g.AddEdge("high", End)
	g.AddEdge("low", End)
	g.SetEntry("set")

	compiled, err := g.Compile()
	require.NoError(t, err)

	final, err := compiled.Invoke(context.Background(), testState{})
	require.NoError(t, err)
	assert.Equal(t, []string{"high"}, final.Log)
}

func TestInvoke_EntryRouterUsesInitialState(t *testing.T) {
	g := New(testReduce)
	g.AddNode("a", logNode("a"))
	g.AddNode("b", logNode("b"))
	g.AddEdge("a", End)
	g.AddEdge("b", End)
	g.SetEntryRouter(func(s testState) Label {
		if s.Value > 0 {
			return "positive"
		}
		return "zero"
	}, map[Label]string{"positive": "a", "zero": "b"})

	compiled, err := g.Compile()
	require.NoError(t, err)

	final, err := compiled.Invoke(context.Background(), testState{Value: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, final.Log)

	final, err = compiled.Invoke(context.Background(), testState{})
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, final.Log)
}

func TestInvoke_EntryRouterStraightToEnd(t *testing.T) {
	g := New(testReduce)
	g.AddNode("a", logNode("a"))
	g.AddEdge("a", End)
	g.SetEntryRouter(func(testState) Label { return "stop" }, map[Label]string{
		"go":   "a",
		"stop": End,
	})

	compiled, err := g.Compile()
	require.NoError(t, err)

	initial := testState{Log: []string{"seed"}, Value: 42}
	final, err := compiled.Invoke(context.Background(), initial)
	require.NoError(t, err)
	// State passes through unchanged when the entry routes to End.
	assert.Equal(t, initial, final)
}

func TestInvoke_UnmappedLabelFails(t *testing.T) {
	g := New(testReduce)
	g.AddNode("a", logNode("a"))
	g.AddNode("b", logNode("b"))
	g.AddConditionalEdges("a", func(testState) Label { return "surprise" }, map[Label]string{"known": "b"})
	g.AddEdge("b", End)
	g.SetEntry("a")

	compiled, err := g.Compile()
	require.NoError(t, err)

	var last Status
	final, err := compiled.Invoke(context.Background(), testState{}, WithStatusListener(func(s Status, _ string) {
		last = s
	}))
	require.Error(t, err)

	var unmapped *UnmappedLabelError
	require.ErrorAs(t, err, &unmapped)
	assert.Equal(t, "a", unmapped.From)
	assert.Equal(t, Label("surprise"), unmapped.Label)
	assert.Equal(t, StatusFailed, last)
	// Nothing after the failure point was merged: "b" never ran.
	assert.Equal(t, []string{"a"}, final.Log)
}

func TestInvoke_NodeErrorFails(t *testing.T) {
	boom := errors.New("boom")

	g := New(testReduce)
	g.AddNode("a", func(_ context.Context, _ testState) (testPartial, error) {
		return testPartial{}, boom
	})
	g.AddEdge("a", End)
	g.SetEntry("a")

	compiled, err := g.Compile()
	require.NoError(t, err)

	_, err = compiled.Invoke(context.Background(), testState{})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	var nodeErr *NodeError
	require.ErrorAs(t, err, &nodeErr)
	assert.Equal(t, "a", nodeErr.ID)
}

func TestInvoke_GateReportsAwaitingInput(t *testing.T) {
	decisions := make(chan string, 1)
	decisions <- "ok"

	g := New(testReduce)
	g.AddNode("before", logNode("before"))
	g.AddGate("gate", func(ctx context.Context, _ testState) (testPartial, error) {
		select {
		case <-ctx.Done():
			return testPartial{}, ctx.Err()
		case d := <-decisions:
			return testPartial{Log: []string{"gate:" + d}}, nil
		}
	})
	g.AddNode("after", logNode("after"))
	g.AddEdge("before", "gate")
	g.AddEdge("gate", "after")
	g.AddEdge("after", End)
	g.SetEntry("before")

	compiled, err := g.Compile()
	require.NoError(t, err)

	var statuses []Status
	final, err := compiled.Invoke(context.Background(), testState{}, WithStatusListener(func(s Status, _ string) {
		statuses = append(statuses, s)
	}))
	require.NoError(t, err)
	assert.Equal(t, []string{"before", "gate:ok", "after"}, final.Log)
	assert.Equal(t, []Status{StatusEntry, StatusRunning, StatusAwaitingInput, StatusRunning, StatusDone}, statuses)
}

func TestInvoke_CancellationBetweenNodes(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	g := New(testReduce)
	g.AddNode("a", func(_ context.Context, _ testState) (testPartial, error) {
		cancel() // observed at the next node boundary
		return testPartial{Log: []string{"a"}}, nil
	})
	g.AddNode("b", logNode("b"))
	g.AddEdge("a", "b")
	g.AddEdge("b", End)
	g.SetEntry("a")

	compiled, err := g.Compile()
	require.NoError(t, err)

	var last Status
	final, err := compiled.Invoke(ctx, testState{}, WithStatusListener(func(s Status, _ string) { last = s }))
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StatusCancelled, last)
	assert.Equal(t, []string{"a"}, final.Log)
}

func TestInvoke_Idempotent(t *testing.T) {
	compiled := linearGraph(t)
	initial := testState{Log: []string{"seed"}}

	first, err := compiled.Invoke(context.Background(), initial)
	require.NoError(t, err)
	second, err := compiled.Invoke(context.Background(), initial)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	// The shared initial state was not mutated by either run.
	assert.Equal(t, []string{"seed"}, initial.Log)
}

func TestInvoke_ConcurrentInvocations(t *testing.T) {
	compiled := linearGraph(t)

	var wg sync.WaitGroup
	results := make([]testState, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			final, err := compiled.Invoke(context.Background(), testState{Value: i})
			assert.NoError(t, err)
			results[i] = final
		}(i)
	}

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("concurrent invocations did not finish")
	}

	for i, final := range results {
		assert.Equal(t, []string{"a", "b", "c"}, final.Log)
		assert.Equal(t, i, final.Value)
	}
}
