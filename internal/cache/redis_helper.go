package cache

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/andresuchdata/scmdash/backend-go/internal/config"
	"github.com/redis/go-redis/v9"
)

const (
	defaultSummaryTTL = 5 * time.Minute
	pingTimeout       = 5 * time.Second
)

// keyUnlinker is the slice of the redis API session invalidation needs.
type keyUnlinker interface {
	Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd
	Unlink(ctx context.Context, keys ...string) *redis.IntCmd
}

var _ keyUnlinker = (*redis.Client)(nil)

// connectRedis dials the summary cache and checks it answers.
func connectRedis(cfg config.CacheConfig) (*redis.Client, error) {
	opts, err := redisOptions(cfg)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping %s failed: %w", opts.Addr, err)
	}
	return client, nil
}

// redisOptions prefers REDIS_URL and falls back to host, port and db.
func redisOptions(cfg config.CacheConfig) (*redis.Options, error) {
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		return opt, nil
	}

	host, port := cfg.RedisHost, cfg.RedisPort
	if host == "" {
		host = "127.0.0.1"
	}
	if port == "" {
		port = "6379"
	}
	return &redis.Options{
		Addr:     net.JoinHostPort(host, port),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, nil
}

func summaryTTL(cfg config.CacheConfig) time.Duration {
	if cfg.SummaryTTLSeconds <= 0 {
		return defaultSummaryTTL
	}
	return time.Duration(cfg.SummaryTTLSeconds) * time.Second
}

var globEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

// sessionPattern matches every summary key of one session and nothing else,
// whatever characters the session id holds.
func sessionPattern(sessionID string) string {
	return globEscaper.Replace(sessionKeyPrefix(sessionID)) + "*"
}

// unlinkSession removes the session's summaries page by page. Each SCAN page
// is dropped with a single UNLINK so redis frees memory off the main thread.
// It returns the number of keys removed.
func unlinkSession(ctx context.Context, client keyUnlinker, sessionID string, pageSize int64) (int64, error) {
	pattern := sessionPattern(sessionID)
	var cursor, removed uint64
	for {
		keys, next, err := client.Scan(ctx, cursor, pattern, pageSize).Result()
		if err != nil {
			return int64(removed), fmt.Errorf("redis scan %s failed: %w", pattern, err)
		}
		if len(keys) > 0 {
			n, err := client.Unlink(ctx, keys...).Result()
			if err != nil {
				return int64(removed), fmt.Errorf("redis unlink failed: %w", err)
			}
			removed += uint64(n)
		}
		if next == 0 {
			return int64(removed), nil
		}
		cursor = next
	}
}
