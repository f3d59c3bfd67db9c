package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/pong-ladder/internal/stats"
	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
)

const leaderboardKey = "pong:leaderboard"

// Redis is a LeaderboardCache backed by Redis.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

var _ LeaderboardCache = (*Redis)(nil)

// NewRedis connects to the Redis server at url and verifies the connection.
func NewRedis(url string, ttl time.Duration) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return NewRedisWithClient(client, ttl), nil
}

// NewRedisWithClient wraps an existing client.
func NewRedisWithClient(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func (r *Redis) Get(ctx context.Context) ([]stats.LeaderboardEntry, bool, error) {
	data, err := r.client.Get(ctx, leaderboardKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read leaderboard cache: %w", err)
	}

	var entries []stats.LeaderboardEntry
	if err := msgpack.Unmarshal(data, &entries); err != nil {
		log.Warn("Discarding unreadable leaderboard cache entry", "error", err)
		return nil, false, nil
	}
	return entries, true, nil
}

func (r *Redis) Set(ctx context.Context, entries []stats.LeaderboardEntry) error {
	data, err := msgpack.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode leaderboard: %w", err)
	}
	if err := r.client.Set(ctx, leaderboardKey, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write leaderboard cache: %w", err)
	}
	return nil
}

func (r *Redis) Invalidate(ctx context.Context) error {
	if err := r.client.Del(ctx, leaderboardKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate leaderboard cache: %w", err)
	}
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
