package repo

import (
	"context"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autostream-agent/server/internal/agent/model"
	errx "github.com/autostream-agent/server/internal/core/error"
)

func TestMemoryRepoLoadUnknownSession(t *testing.T) {
	r := NewMemorySessionRepository()

	state, err := r.Load(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, state)
}

func TestMemoryRepoSaveAndLoad(t *testing.T) {
	r := NewMemorySessionRepository()
	ctx := context.Background()

	state := model.NewConversationState("s1")
	state.Intent = model.IntentHighIntent
	state.Lead = model.Lead{Name: "John Doe"}
	state.Append(schema.UserMessage("I want to sign up"))
	require.NoError(t, r.Save(ctx, state))

	loaded, err := r.Load(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, model.IntentHighIntent, loaded.Intent)
	assert.Equal(t, "John Doe", loaded.Lead.Name)
	assert.Len(t, loaded.History, 1)
}

func TestMemoryRepoReturnsCopies(t *testing.T) {
	r := NewMemorySessionRepository()
	ctx := context.Background()

	state := model.NewConversationState("s1")
	require.NoError(t, r.Save(ctx, state))

	first, err := r.Load(ctx, "s1")
	require.NoError(t, err)
	first.Lead.Name = "mutated"
	first.Append(schema.UserMessage("extra"))

	second, err := r.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, second.Lead.Name)
	assert.Empty(t, second.History)
}

func TestMemoryRepoReset(t *testing.T) {
	r := NewMemorySessionRepository()
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, model.NewConversationState("s1")))
	require.NoError(t, r.Reset(ctx, "s1"))

	state, err := r.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, state)

	err = r.Reset(ctx, "s1")
	assert.ErrorIs(t, err, errx.ErrSessionNotFound)
}
