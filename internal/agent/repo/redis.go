package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/autostream-agent/server/internal/agent/model"
	errx "github.com/autostream-agent/server/internal/core/error"
	logx "github.com/autostream-agent/server/pkg/logger"
)

// RedisSessionRepository stores one JSON state document per session key,
// for deployments where turns may land on different processes.
type RedisSessionRepository struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisSessionRepository(rdb redis.Cmdable, ttl time.Duration) *RedisSessionRepository {
	return &RedisSessionRepository{rdb: rdb, ttl: ttl}
}

func (r *RedisSessionRepository) sessionKey(sessionID string) string {
	return fmt.Sprintf("session:%s:state", sessionID)
}

func (r *RedisSessionRepository) Load(ctx context.Context, sessionID string) (*model.ConversationState, error) {
	key := r.sessionKey(sessionID)

	raw, err := r.rdb.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		logx.Error().Err(err).Str("key", key).Msg("failed to load session state from redis")
		return nil, errx.WrapRedis(err)
	}

	var state model.ConversationState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		logx.Error().Err(err).Str("sessionID", sessionID).Msg("failed to unmarshal session state")
		return nil, fmt.Errorf("unmarshal session state: %w", err)
	}
	return &state, nil
}

func (r *RedisSessionRepository) Save(ctx context.Context, state *model.ConversationState) error {
	b, err := json.Marshal(state)
	if err != nil {
		logx.Error().Err(err).Str("sessionID", state.SessionID).Msg("failed to marshal session state")
		return fmt.Errorf("marshal session state: %w", err)
	}

	key := r.sessionKey(state.SessionID)
	// TTL extends on every write so active conversations stay alive
	if err := r.rdb.Set(ctx, key, b, r.ttl).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to save session state to redis")
		return errx.WrapRedis(err)
	}
	return nil
}

func (r *RedisSessionRepository) Reset(ctx context.Context, sessionID string) error {
	key := r.sessionKey(sessionID)

	n, err := r.rdb.Del(ctx, key).Result()
	if err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to delete session state from redis")
		return errx.WrapRedis(err)
	}
	if n == 0 {
		return errx.SessionNotFound(sessionID)
	}
	return nil
}

var _ model.SessionRepository = (*RedisSessionRepository)(nil)
