package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/artem13815/hrbot/pkg/logger"
)

const keyPrefix = "hrbot:session:"

type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisStore keeps sessions as JSON values. A positive ttl expires idle
// sessions; every Save refreshes it. An undecodable value is dropped and
// reported as ErrNotFound, so the chat starts over.
type RedisStore struct {
	rdb redisClient
	ttl time.Duration
	log *zap.Logger
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration, log *zap.Logger) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl, log: logger.OrNop(log)}
}

func key(chatID int64) string {
	return keyPrefix + strconv.FormatInt(chatID, 10)
}

func (r *RedisStore) Get(ctx context.Context, chatID int64) (Session, error) {
	raw, err := r.rdb.Get(ctx, key(chatID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("redis get session: %w", err)
	}
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		log := logger.OrNop(r.log).With(zap.Int64("chat_id", chatID))
		log.Warn("dropping undecodable session", zap.Error(err))
		if err := r.Delete(ctx, chatID); err != nil {
			log.Error("deleting undecodable session", zap.Error(err))
		}
		return Session{}, ErrNotFound
	}
	return s, nil
}

func (r *RedisStore) Save(ctx context.Context, s Session) error {
	s.UpdatedAt = time.Now().UTC()
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := r.rdb.Set(ctx, key(s.ChatID), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, chatID int64) error {
	if err := r.rdb.Del(ctx, key(chatID)).Err(); err != nil {
		return fmt.Errorf("redis del session: %w", err)
	}
	return nil
}
