package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	pkgredis "github.com/wisetee/orderline-backend/pkg/redis"
)

// transcripts idle longer than this are dropped by redis
const transcriptTTL = 24 * time.Hour

type redisClient interface {
	RPush(ctx context.Context, key string, values ...any) error
	LRange(ctx context.Context, key string, start, stop int64) ([]string, error)
	LTrim(ctx context.Context, key string, start, stop int64) error
	Expire(ctx context.Context, key string, ttl time.Duration) error
	ConversationKey(conversationID string) string
}

// RedisStore keeps transcripts in redis lists so multiple instances share
// conversation state.
type RedisStore struct {
	client   redisClient
	capacity int
}

// NewRedisStore builds a redis-backed store with the given capacity per
// conversation (DefaultCapacity when non-positive).
func NewRedisStore(client *pkgredis.Client, capacity int) *RedisStore {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &RedisStore{client: client, capacity: capacity}
}

func (s *RedisStore) Append(ctx context.Context, conversationID string, exchange Exchange) error {
	payload, err := json.Marshal(exchange)
	if err != nil {
		return fmt.Errorf("encoding exchange: %w", err)
	}

	key := s.client.ConversationKey(conversationID)
	if err := s.client.RPush(ctx, key, string(payload)); err != nil {
		return fmt.Errorf("appending exchange: %w", err)
	}
	if err := s.client.LTrim(ctx, key, int64(-s.capacity), -1); err != nil {
		return fmt.Errorf("trimming transcript: %w", err)
	}
	if err := s.client.Expire(ctx, key, transcriptTTL); err != nil {
		return fmt.Errorf("refreshing transcript ttl: %w", err)
	}
	return nil
}

func (s *RedisStore) History(ctx context.Context, conversationID string) ([]Exchange, error) {
	key := s.client.ConversationKey(conversationID)
	raw, err := s.client.LRange(ctx, key, 0, -1)
	if err != nil {
		return nil, fmt.Errorf("reading transcript: %w", err)
	}

	entries := make([]Exchange, 0, len(raw))
	for _, item := range raw {
		var exchange Exchange
		if err := json.Unmarshal([]byte(item), &exchange); err != nil {
			return nil, fmt.Errorf("decoding exchange: %w", err)
		}
		entries = append(entries, exchange)
	}
	return entries, nil
}
