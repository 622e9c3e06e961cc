package feed

import (
	"context"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/creatorhub/engage/internal/model"
)

// FeedResult is what callers get back: the items plus where they came
// from, so the API can mark degraded responses.
type FeedResult struct {
	Items []*model.ContentItem `json:"items"`
	// Origin is "cache", "live", or "fallback".
	Origin string `json:"origin"`
}

// Service assembles per-user feeds with a cache-aside strategy: serve
// the cached feed while live, repopulate from the gateway on a miss,
// and fall back to static items when every upstream is down.
type Service struct {
	gateway *Gateway
	cache   Cache
	ttl     time.Duration
	logger  zerolog.Logger
}

// NewService creates a feed service. ttl governs how long an assembled
// feed is served before the upstreams are consulted again.
func NewService(gateway *Gateway, cache Cache, ttl time.Duration, logger zerolog.Logger) *Service {
	return &Service{
		gateway: gateway,
		cache:   cache,
		ttl:     ttl,
		logger:  logger.With().Str("component", "feed").Logger(),
	}
}

func cacheKey(userID string) string { return "feed:" + userID }

// GetFeed returns the user's feed. The item order is shuffled once at
// population time and then held stable for the cache lifetime, so the
// user sees a consistent page while the entry is live. The static
// fallback is never cached.
func (s *Service) GetFeed(ctx context.Context, userID string) (*FeedResult, error) {
	key := cacheKey(userID)
	if items, ok := s.cache.Get(key); ok {
		return &FeedResult{Items: items, Origin: "cache"}, nil
	}

	items, err := s.gateway.FetchAll(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Str("userID", userID).Msg("all providers failed, serving fallback")
		return &FeedResult{Items: staticItems(), Origin: "fallback"}, nil
	}

	rand.Shuffle(len(items), func(i, j int) {
		items[i], items[j] = items[j], items[i]
	})
	s.cache.Set(key, items, s.ttl)
	return &FeedResult{Items: items, Origin: "live"}, nil
}
