package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/course-scheduler-api/internal/dto"
	appErrors "github.com/noah-isme/course-scheduler-api/pkg/errors"
)

const scheduleCachePrefix = "schedule:v1:"

// CacheRepository abstracts persistence for cached payloads.
type CacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// ScheduleCache stores generated schedules keyed by their normalised input.
type ScheduleCache struct {
	repo    CacheRepository
	metrics *MetricsService
	ttl     time.Duration
	logger  *zap.Logger
	enabled bool
}

// NewScheduleCache constructs the cache.
func NewScheduleCache(repo CacheRepository, metrics *MetricsService, ttl time.Duration, logger *zap.Logger, enabled bool) *ScheduleCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleCache{repo: repo, metrics: metrics, ttl: ttl, logger: logger, enabled: enabled}
}

// Enabled indicates whether caching is active.
func (c *ScheduleCache) Enabled() bool {
	return c != nil && c.enabled && c.repo != nil
}

// Key derives the cache key for a normalised request.
func (c *ScheduleCache) Key(input cacheInput) (string, error) {
	payload, err := json.Marshal(input)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return scheduleCachePrefix + hex.EncodeToString(sum[:]), nil
}

// Get returns the cached response and whether it was found. Lookup failures are
// logged and reported as misses.
func (c *ScheduleCache) Get(ctx context.Context, key string) (*dto.GenerateScheduleResponse, bool) {
	if !c.Enabled() {
		return nil, false
	}
	start := time.Now()
	var resp dto.GenerateScheduleResponse
	err := c.repo.Get(ctx, key, &resp)
	c.metrics.RecordCacheOperation(err == nil, time.Since(start))
	if err != nil {
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			c.logger.Warn("schedule cache get failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	return &resp, true
}

// Set stores the response. Failures are logged and otherwise ignored.
func (c *ScheduleCache) Set(ctx context.Context, key string, resp *dto.GenerateScheduleResponse) {
	if !c.Enabled() || resp == nil {
		return
	}
	start := time.Now()
	err := c.repo.Set(ctx, key, resp, c.ttl)
	c.metrics.ObserveCacheWrite(time.Since(start))
	if err != nil {
		c.logger.Warn("schedule cache set failed", zap.String("key", key), zap.Error(err))
	}
}
