package repo

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/cloudwego/eino/schema"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autostream-agent/server/internal/agent/model"
	errx "github.com/autostream-agent/server/internal/core/error"
)

func newRedisRepo(t *testing.T, ttl time.Duration) (*RedisSessionRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisSessionRepository(client, ttl), mr
}

func TestRedisRepoLoadUnknownSession(t *testing.T) {
	r, _ := newRedisRepo(t, time.Minute)

	state, err := r.Load(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, state)
}

func TestRedisRepoSaveAndLoad(t *testing.T) {
	r, _ := newRedisRepo(t, time.Minute)
	ctx := context.Background()

	state := model.NewConversationState("s1")
	state.Intent = model.IntentProductInquiry
	state.Lead = model.Lead{Name: "John Doe", Email: "john@example.com"}
	state.LeadCaptured = true
	state.Append(
		schema.UserMessage("tell me about pricing"),
		schema.AssistantMessage("Basic is $29/month.", nil),
	)
	require.NoError(t, r.Save(ctx, state))

	loaded, err := r.Load(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, model.IntentProductInquiry, loaded.Intent)
	assert.Equal(t, "john@example.com", loaded.Lead.Email)
	assert.True(t, loaded.LeadCaptured)
	require.Len(t, loaded.History, 2)
	assert.Equal(t, schema.Assistant, loaded.History[1].Role)
}

func TestRedisRepoTTLRefreshOnSave(t *testing.T) {
	r, mr := newRedisRepo(t, time.Minute)
	ctx := context.Background()

	state := model.NewConversationState("s1")
	require.NoError(t, r.Save(ctx, state))

	mr.FastForward(50 * time.Second)
	require.NoError(t, r.Save(ctx, state))

	mr.FastForward(50 * time.Second)
	loaded, err := r.Load(ctx, "s1")
	require.NoError(t, err)
	assert.NotNil(t, loaded, "second save should have refreshed the TTL")

	mr.FastForward(time.Minute)
	loaded, err = r.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, loaded, "state should expire after the TTL elapses")
}

func TestRedisRepoReset(t *testing.T) {
	r, _ := newRedisRepo(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, model.NewConversationState("s1")))
	require.NoError(t, r.Reset(ctx, "s1"))

	state, err := r.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, state)

	err = r.Reset(ctx, "s1")
	assert.ErrorIs(t, err, errx.ErrSessionNotFound)
}
