package session

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/hrflow/agent"
)

func TestInMemoryStore_LazyCreate(t *testing.T) {
	store := NewInMemoryStore()

	sess, err := store.Get("sess-1")
	require.NoError(t, err)

	assert.Equal(t, "sess-1", sess.ID)
	assert.Empty(t, sess.Messages)
	assert.False(t, sess.Created.IsZero())
}

func TestInMemoryStore_AppendMessages(t *testing.T) {
	store := NewInMemoryStore()

	require.NoError(t, store.AppendMessages("sess-1",
		agent.Message{Role: "user", Content: "hello"},
		agent.Message{Role: "assistant", Content: "hi"},
	))
	require.NoError(t, store.AppendMessages("sess-1",
		agent.Message{Role: "user", Content: "bye"},
	))

	sess, err := store.Get("sess-1")
	require.NoError(t, err)

	require.Len(t, sess.Messages, 3)
	assert.Equal(t, "bye", sess.Messages[2].Content)
	assert.True(t, sess.Updated.After(sess.Created) || sess.Updated.Equal(sess.Created))
}

func TestInMemoryStore_SetLastState(t *testing.T) {
	store := NewInMemoryStore()

	final := agent.State{CurrentUserName: "Alice", AgentResponse: "done"}
	require.NoError(t, store.SetLastState("sess-1", final))

	sess, err := store.Get("sess-1")
	require.NoError(t, err)
	assert.Equal(t, final, sess.LastState)
}

func TestInMemoryStore_GetReturnsClone(t *testing.T) {
	store := NewInMemoryStore()
	require.NoError(t, store.AppendMessages("sess-1", agent.Message{Role: "user", Content: "hello"}))

	sess, err := store.Get("sess-1")
	require.NoError(t, err)
	sess.Messages[0].Content = "mutated"
	sess.Messages = append(sess.Messages, agent.Message{Role: "user", Content: "extra"})

	fresh, err := store.Get("sess-1")
	require.NoError(t, err)
	require.Len(t, fresh.Messages, 1)
	assert.Equal(t, "hello", fresh.Messages[0].Content)
}

func TestInMemoryStore_SessionsAreIsolated(t *testing.T) {
	store := NewInMemoryStore()

	require.NoError(t, store.AppendMessages("a", agent.Message{Role: "user", Content: "for a"}))
	require.NoError(t, store.AppendMessages("b", agent.Message{Role: "user", Content: "for b"}))

	a, err := store.Get("a")
	require.NoError(t, err)
	b, err := store.Get("b")
	require.NoError(t, err)

	require.Len(t, a.Messages, 1)
	require.Len(t, b.Messages, 1)
	assert.NotEqual(t, a.Messages[0], b.Messages[0])
}

func TestInMemoryStore_ConcurrentAccess(t *testing.T) {
	store := NewInMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("sess-%d", n%4)
			assert.NoError(t, store.AppendMessages(id, agent.Message{Role: "user", Content: "m"}))
			_, err := store.Get(id)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	total := 0
	for i := 0; i < 4; i++ {
		sess, err := store.Get(fmt.Sprintf("sess-%d", i))
		require.NoError(t, err)
		total += len(sess.Messages)
	}
	assert.Equal(t, 16, total)
}
