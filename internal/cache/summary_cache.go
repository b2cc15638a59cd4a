package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/andresuchdata/bufferboard/internal/config"
	"github.com/andresuchdata/bufferboard/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	zoneSummaryKeyPrefix = "recommendations:summary"
	summaryScanBatchSize = 100
)

// SummaryCache holds zone tallies per (org, warehouse, date). Entries are
// short lived and invalidated whenever a recalculation or sales rebuild
// changes the data behind them.
type SummaryCache interface {
	GetSummary(ctx context.Context, filter domain.RecommendationFilter) (*domain.ZoneSummary, bool, error)
	SetSummary(ctx context.Context, filter domain.RecommendationFilter, summary *domain.ZoneSummary) error
	InvalidateOrg(ctx context.Context, orgID string) error
	InvalidateAll(ctx context.Context) error
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

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisSummaryCache{
		client: client,
		ttl:    ttl,
	}, nil
}

func NewNoopSummaryCache() SummaryCache {
	return &noopSummaryCache{}
}

func (c *redisSummaryCache) GetSummary(ctx context.Context, filter domain.RecommendationFilter) (*domain.ZoneSummary, bool, error) {
	key := buildSummaryKey(filter)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var summary domain.ZoneSummary
	if err := json.Unmarshal(payload, &summary); err != nil {
		return nil, false, fmt.Errorf("decode zone summary cache: %w", err)
	}

	return &summary, true, nil
}

func (c *redisSummaryCache) SetSummary(ctx context.Context, filter domain.RecommendationFilter, summary *domain.ZoneSummary) error {
	key := buildSummaryKey(filter)
	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("encode zone summary cache: %w", err)
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisSummaryCache) InvalidateOrg(ctx context.Context, orgID string) error {
	prefix := fmt.Sprintf("%s:%s:", zoneSummaryKeyPrefix, strings.TrimSpace(orgID))
	return deleteKeysWithPrefix(ctx, c.client, prefix, summaryScanBatchSize)
}

func (c *redisSummaryCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, zoneSummaryKeyPrefix, summaryScanBatchSize)
}

func (n *noopSummaryCache) GetSummary(ctx context.Context, filter domain.RecommendationFilter) (*domain.ZoneSummary, bool, error) {
	return nil, false, nil
}

func (n *noopSummaryCache) SetSummary(ctx context.Context, filter domain.RecommendationFilter, summary *domain.ZoneSummary) error {
	return nil
}

func (n *noopSummaryCache) InvalidateOrg(ctx context.Context, orgID string) error {
	return nil
}

func (n *noopSummaryCache) InvalidateAll(ctx context.Context) error {
	return nil
}

// Keys carry the org segment in clear so per-org invalidation can scan a
// narrow prefix; the rest of the filter collapses into a stable hash.
func buildSummaryKey(filter domain.RecommendationFilter) string {
	return fmt.Sprintf("%s:%s:%s", zoneSummaryKeyPrefix, strings.TrimSpace(filter.OrgID), summaryFilterHash(filter))
}

func summaryFilterHash(filter domain.RecommendationFilter) string {
	parts := []string{}

	if filter.WarehouseID != "" {
		parts = append(parts, "warehouse="+strings.ToUpper(strings.TrimSpace(filter.WarehouseID)))
	}
	if !filter.Date.IsZero() {
		parts = append(parts, "date="+filter.Date.Format("2006-01-02"))
	}

	if len(parts) == 0 {
		return "default"
	}

	sort.Strings(parts)
	raw := strings.Join(parts, "|")
	sum := sha1.Sum([]byte(raw))
	return hex.EncodeToString(sum[:])
}
