// Package contentcache caches generated restaurant content in the key-value store.
package contentcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/findmyfood/internal/db"
	"github.com/kailas-cloud/findmyfood/internal/domain"
	"github.com/kailas-cloud/findmyfood/internal/domain/menu"
)

var cacheKeyPrefix = domain.KeyPrefix + "content:"

// Cache kinds, used in keys and metric labels.
const (
	kindRestaurant  = "restaurant"
	kindSuggestions = "suggestions"
)

// store is the consumer interface for the content cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// Cached decorates a content source with a TTL cache. Store failures are
// logged and bypassed; they never fail a request.
type Cached struct {
	inner      domain.ContentSource
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with labels "kind" and "result" ("hit"/"miss"), passed explicitly.
func New(
	inner domain.ContentSource,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *Cached {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cached{inner: inner, store: s, ttl: ttl, cacheTotal: cacheTotal, logger: logger}
}

// Restaurant returns a cached restaurant or generates one. Hits report zero token usage.
func (c *Cached) Restaurant(ctx context.Context, q menu.Query) (domain.RestaurantResult, error) {
	key := restaurantKey(q)

	var cached restaurantDTO
	if c.load(ctx, key, &cached) {
		c.inc(kindRestaurant, "hit")
		return domain.RestaurantResult{Restaurant: cached.toDomain()}, nil
	}
	c.inc(kindRestaurant, "miss")

	res, err := c.inner.Restaurant(ctx, q)
	if err != nil {
		return domain.RestaurantResult{}, fmt.Errorf("content restaurant: %w", err)
	}
	c.save(ctx, key, restaurantToDTO(res.Restaurant))
	return res, nil
}

// Suggest returns cached suggestions or generates them. Empty answers are not cached.
func (c *Cached) Suggest(ctx context.Context, q menu.SuggestionQuery) (domain.SuggestionsResult, error) {
	key := suggestionsKey(q)

	var cached []suggestionDTO
	if c.load(ctx, key, &cached) {
		c.inc(kindSuggestions, "hit")
		return domain.SuggestionsResult{Suggestions: suggestionsToDomain(cached)}, nil
	}
	c.inc(kindSuggestions, "miss")

	res, err := c.inner.Suggest(ctx, q)
	if err != nil {
		return domain.SuggestionsResult{}, fmt.Errorf("content suggestions: %w", err)
	}
	if len(res.Suggestions) > 0 {
		c.save(ctx, key, suggestionsToDTO(res.Suggestions))
	}
	return res, nil
}

// HealthCheck delegates to the inner source when it supports health checks.
func (c *Cached) HealthCheck(ctx context.Context) error {
	if hc, ok := c.inner.(domain.HealthChecker); ok {
		return hc.HealthCheck(ctx) //nolint:wrapcheck // pass-through decorator
	}
	return nil
}

func (c *Cached) inc(kind, result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(kind, result).Inc()
	}
}

func (c *Cached) load(ctx context.Context, key string, dst any) bool {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to read cached content", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if len(data) == 0 {
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		c.logger.Warn("Dropping unreadable cached content", zap.String("key", key), zap.Error(err))
		if delErr := c.store.Del(ctx, key); delErr != nil {
			c.logger.Warn("Failed to drop cached content", zap.String("key", key), zap.Error(delErr))
		}
		return false
	}
	return true
}

func (c *Cached) save(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		c.logger.Warn("Failed to encode content for cache", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache content", zap.String("key", key), zap.Error(err))
	}
}

// restaurantKey hashes the normalized query. Label sets are order-insensitive;
// taste keywords keep their order since it drives the first match reason.
func restaurantKey(q menu.Query) string {
	parts := []string{
		norm(q.RestaurantName),
		norm(q.Location),
		strings.Join(normAll(q.TasteKeywords, false), ","),
		strings.Join(normAll(q.Requirements, true), ","),
		strings.Join(normAll(q.Allergens, true), ","),
	}
	return hashKey(kindRestaurant, parts)
}

func suggestionsKey(q menu.SuggestionQuery) string {
	parts := []string{
		strings.Join(normAll(q.Cuisines, true), ","),
		norm(q.Location),
		fmt.Sprint(q.Count),
	}
	return hashKey(kindSuggestions, parts)
}

func hashKey(kind string, parts []string) string {
	h := sha256.Sum256([]byte(strings.Join(parts, "\x1f")))
	return cacheKeyPrefix + kind + ":" + hex.EncodeToString(h[:])
}

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func normAll(in []string, sorted bool) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		n := norm(s)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	if sorted {
		sort.Strings(out)
	}
	return out
}
