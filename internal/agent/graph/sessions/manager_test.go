package sessions

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autostream-agent/server/internal/agent/model"
	"github.com/autostream-agent/server/internal/agent/repo"
)

func newTestManager(knowledgeTurns, chatTurns int) *Manager {
	cfg := model.SessionConfig{}
	cfg.Context.KnowledgeTurns = knowledgeTurns
	cfg.Context.ChatTurns = chatTurns
	return NewManager(repo.NewMemorySessionRepository(), cfg)
}

func seededState(turns int) *model.ConversationState {
	state := model.NewConversationState("s1")
	for i := 0; i < turns; i++ {
		state.Append(
			schema.UserMessage(fmt.Sprintf("question %d", i)),
			schema.AssistantMessage(fmt.Sprintf("answer %d", i), nil),
		)
	}
	return state
}

func TestLoadStateUnknownSessionIsFresh(t *testing.T) {
	m := newTestManager(5, 7)

	state, err := m.LoadState(context.Background(), "never-seen")
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, "never-seen", state.SessionID)
	assert.Empty(t, state.History)
	assert.Equal(t, model.IntentUnknown, state.Intent)
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	m := newTestManager(5, 7)
	ctx := context.Background()

	state := seededState(2)
	state.Intent = model.IntentHighIntent
	require.NoError(t, m.SaveState(ctx, state))

	loaded, err := m.LoadState(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, model.IntentHighIntent, loaded.Intent)
	assert.Len(t, loaded.History, 4)
}

func TestKnowledgeContextWindow(t *testing.T) {
	m := newTestManager(5, 7)

	state := seededState(3) // 6 history entries
	got := m.KnowledgeContext(state, "what about refunds?")

	// last 5 entries: the current message plus the four before it
	assert.Equal(t,
		"user: question 1\n"+
			"assistant: answer 1\n"+
			"user: question 2\n"+
			"assistant: answer 2\n"+
			"user: what about refunds?",
		got,
	)
}

func TestKnowledgeContextShortHistory(t *testing.T) {
	m := newTestManager(5, 7)

	state := model.NewConversationState("s1")
	got := m.KnowledgeContext(state, "what plans do you offer?")
	assert.Equal(t, "user: what plans do you offer?", got)
}

func TestChatWindowBounds(t *testing.T) {
	m := newTestManager(5, 7)

	state := seededState(5) // 10 history entries
	msgs := m.ChatWindow(state, "persona", "hello again")

	// system prompt + last 7 of (10 history + current)
	require.Len(t, msgs, 8)
	assert.Equal(t, schema.System, msgs[0].Role)
	assert.Equal(t, "persona", msgs[0].Content)
	assert.Equal(t, "hello again", msgs[len(msgs)-1].Content)
	assert.Equal(t, schema.User, msgs[len(msgs)-1].Role)
	// oldest surviving entry is "question 2"
	assert.Equal(t, "question 2", msgs[1].Content)
}

func TestLockSerializesPerSession(t *testing.T) {
	m := newTestManager(5, 7)

	var mu sync.Mutex
	events := []string{}
	record := func(e string) {
		mu.Lock()
		events = append(events, e)
		mu.Unlock()
	}

	unlock := m.Lock("s1")

	done := make(chan struct{})
	go func() {
		u := m.Lock("s1")
		record("second acquired")
		u()
		close(done)
	}()

	// a different session is not blocked
	otherDone := make(chan struct{})
	go func() {
		u := m.Lock("s2")
		record("other session acquired")
		u()
		close(otherDone)
	}()
	<-otherDone

	record("first releasing")
	unlock()
	<-done

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, events, 3)
	assert.Equal(t, "other session acquired", events[0])
	assert.Equal(t, "first releasing", events[1])
	assert.Equal(t, "second acquired", events[2])
}

func TestReset(t *testing.T) {
	m := newTestManager(5, 7)
	ctx := context.Background()

	require.NoError(t, m.SaveState(ctx, seededState(1)))
	require.NoError(t, m.Reset(ctx, "s1"))

	state, err := m.LoadState(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, state.History)
}
