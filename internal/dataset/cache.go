// internal/dataset/cache.go
package dataset

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"country-match-workers/internal/common/logger"
	"country-match-workers/internal/models"

	"github.com/redis/go-redis/v9"
)

const DefaultCacheKey = "countries:dataset:v1"

// CachedSource keeps the decoded dataset in Redis. Any cache failure falls
// back to the wrapped source.
type CachedSource struct {
	source Source
	redis  redis.Cmdable
	key    string
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedSource(source Source, rdb redis.Cmdable, key string, ttl time.Duration, log logger.Logger) *CachedSource {
	if key == "" {
		key = DefaultCacheKey
	}
	return &CachedSource{
		source: source,
		redis:  rdb,
		key:    key,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"cacheKey": key}),
	}
}

func (s *CachedSource) String() string {
	return "cache(" + describe(s.source) + ")"
}

func (s *CachedSource) Countries(ctx context.Context) ([]models.Country, error) {
	if countries, ok := s.fromCache(ctx); ok {
		return countries, nil
	}

	countries, err := s.source.Countries(ctx)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(countries)
	if err != nil {
		s.logger.Warn("failed to encode dataset for cache", map[string]interface{}{"error": err})
		return countries, nil
	}
	if err := s.redis.Set(ctx, s.key, data, s.ttl).Err(); err != nil {
		s.logger.Warn("failed to write dataset cache", map[string]interface{}{"error": err})
	}
	return countries, nil
}

func (s *CachedSource) fromCache(ctx context.Context) ([]models.Country, bool) {
	data, err := s.redis.Get(ctx, s.key).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		s.logger.Warn("dataset cache unavailable", map[string]interface{}{"error": err})
		return nil, false
	}

	var countries []models.Country
	if err := json.Unmarshal(data, &countries); err != nil {
		s.logger.Warn("discarding corrupt dataset cache", map[string]interface{}{"error": err})
		return nil, false
	}
	s.logger.Debug("dataset served from cache", map[string]interface{}{"countries": len(countries)})
	return countries, true
}
