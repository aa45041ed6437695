package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/andresuchdata/scmdash/backend-go/internal/config"
	"github.com/andresuchdata/scmdash/backend-go/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	summaryKeyPrefix = "summary"
	scanBatchSize    = 100
)

// SummaryCache stores aggregate summaries per session, snapshot generation
// and filter. A new upload bumps the generation, so stale entries are never
// read even before InvalidateSession runs.
type SummaryCache interface {
	GetSummary(ctx context.Context, sessionID string, generation uint64, filter domain.Filter) (*domain.AggregateSummary, bool, error)
	SetSummary(ctx context.Context, sessionID string, generation uint64, filter domain.Filter, summary *domain.AggregateSummary) error
	InvalidateSession(ctx context.Context, sessionID string) error
}

type redisSummaryCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopSummaryCache struct{}

func NewSummaryCache(cfg config.CacheConfig) (SummaryCache, error) {
	if !cfg.Enabled {
		return &noopSummaryCache{}, nil
	}

	client, err := connectRedis(cfg)
	if err != nil {
		return nil, err
	}

	return &redisSummaryCache{
		client: client,
		ttl:    summaryTTL(cfg),
	}, nil
}

func NewNoopSummaryCache() SummaryCache {
	return &noopSummaryCache{}
}

func (c *redisSummaryCache) GetSummary(ctx context.Context, sessionID string, generation uint64, filter domain.Filter) (*domain.AggregateSummary, bool, error) {
	key := buildSummaryKey(sessionID, generation, filter)

	payload, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var summary domain.AggregateSummary
	if err := json.Unmarshal(payload, &summary); err != nil {
		return nil, false, fmt.Errorf("decode summary cache: %w", err)
	}

	return &summary, true, nil
}

func (c *redisSummaryCache) SetSummary(ctx context.Context, sessionID string, generation uint64, filter domain.Filter, summary *domain.AggregateSummary) error {
	key := buildSummaryKey(sessionID, generation, filter)
	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("encode summary cache: %w", err)
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisSummaryCache) InvalidateSession(ctx context.Context, sessionID string) error {
	_, err := unlinkSession(ctx, c.client, sessionID, scanBatchSize)
	return err
}

func (n *noopSummaryCache) GetSummary(ctx context.Context, sessionID string, generation uint64, filter domain.Filter) (*domain.AggregateSummary, bool, error) {
	return nil, false, nil
}

func (n *noopSummaryCache) SetSummary(ctx context.Context, sessionID string, generation uint64, filter domain.Filter, summary *domain.AggregateSummary) error {
	return nil
}

func (n *noopSummaryCache) InvalidateSession(ctx context.Context, sessionID string) error {
	return nil
}

func sessionKeyPrefix(sessionID string) string {
	return fmt.Sprintf("%s:%s:", summaryKeyPrefix, sessionID)
}

func buildSummaryKey(sessionID string, generation uint64, filter domain.Filter) string {
	return fmt.Sprintf("%s%d:%s", sessionKeyPrefix(sessionID), generation, filterHash(filter))
}

func filterHash(filter domain.Filter) string {
	parts := []string{}

	if v := strings.TrimSpace(filter.ItemFamily); v != "" {
		parts = append(parts, "item_family="+strings.ToLower(v))
	}
	if v := strings.TrimSpace(filter.Warehouse); v != "" {
		parts = append(parts, "warehouse="+strings.ToLower(v))
	}
	if v := strings.TrimSpace(filter.Supplier); v != "" {
		parts = append(parts, "supplier="+strings.ToLower(v))
	}

	if len(parts) == 0 {
		return "default"
	}

	sort.Strings(parts)
	raw := strings.Join(parts, "|")
	sum := sha1.Sum([]byte(raw))
	return hex.EncodeToString(sum[:])
}
