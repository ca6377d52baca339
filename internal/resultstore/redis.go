package resultstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore provides Redis-backed persistence for evaluation records.
// Records live in a sorted set per phase, scored by evaluation time, so
// range queries and retention trimming stay cheap.
type RedisStore struct {
	client *redis.Client
	prefix string
	retain time.Duration
}

// NewRedisStore creates a new Redis storage backend.
// Returns error if connection fails.
func NewRedisStore(url string, retain time.Duration) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	// Test connection with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	if retain <= 0 {
		retain = 30 * 24 * time.Hour
	}

	return &RedisStore{
		client: client,
		prefix: "relscore:results:",
		retain: retain,
	}, nil
}

// Save stores a record and trims entries older than the retention window.
func (s *RedisStore) Save(ctx context.Context, rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshaling record: %w", err)
	}

	key := s.prefix + rec.Phase

	// Use pipeline for atomic add + trim
	pipe := s.client.Pipeline()

	pipe.ZAdd(ctx, key, redis.Z{
		Score:  float64(rec.ScoredAt.Unix()),
		Member: string(data),
	})

	minScore := time.Now().Add(-s.retain).Unix()
	pipe.ZRemRangeByScore(ctx, key, "-inf", fmt.Sprintf("%d", minScore))

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("saving record: %w", err)
	}

	return nil
}

// Recent returns up to n records for a phase, newest first.
func (s *RedisStore) Recent(ctx context.Context, phase string, n int) ([]Record, error) {
	key := s.prefix + phase

	if n <= 0 {
		n = 50
	}

	members, err := s.client.ZRevRange(ctx, key, 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("loading records: %w", err)
	}

	records := make([]Record, 0, len(members))
	for _, m := range members {
		var rec Record
		if err := json.Unmarshal([]byte(m), &rec); err != nil {
			// Skip invalid entries
			continue
		}
		records = append(records, rec)
	}

	return records, nil
}

// Phases returns all phases with stored records.
func (s *RedisStore) Phases(ctx context.Context) ([]string, error) {
	keys, err := s.client.Keys(ctx, s.prefix+"*").Result()
	if err != nil {
		return nil, fmt.Errorf("listing phases: %w", err)
	}

	names := make([]string, len(keys))
	for i, key := range keys {
		names[i] = key[len(s.prefix):]
	}
	return names, nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
