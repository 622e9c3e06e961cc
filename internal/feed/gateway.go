package feed

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/creatorhub/engage/internal/model"
)

// Gateway fans a fetch out to every provider concurrently and merges
// the results. A failing provider degrades the feed; only a total
// failure is surfaced.
type Gateway struct {
	providers []Provider
	logger    zerolog.Logger
}

// NewGateway creates a gateway over the given providers.
func NewGateway(logger zerolog.Logger, providers ...Provider) *Gateway {
	return &Gateway{providers: providers, logger: logger.With().Str("component", "feed").Logger()}
}

// FetchAll queries all providers in parallel. Results arrive grouped by
// provider, in provider registration order. Returns
// model.ErrUpstreamUnavailable only when every provider fails (or none
// are configured).
func (g *Gateway) FetchAll(ctx context.Context) ([]*model.ContentItem, error) {
	results := make([][]*model.ContentItem, len(g.providers))
	errs := make([]error, len(g.providers))

	var wg sync.WaitGroup
	for i, p := range g.providers {
		wg.Add(1)
		go func(i int, p Provider) {
			defer wg.Done()
			items, err := p.Fetch(ctx)
			if err != nil {
				g.logger.Warn().Err(err).Str("provider", p.Name()).Msg("provider fetch failed")
				errs[i] = err
				return
			}
			results[i] = items
		}(i, p)
	}
	wg.Wait()

	var merged []*model.ContentItem
	failed := 0
	for i := range g.providers {
		if errs[i] != nil {
			failed++
			continue
		}
		merged = append(merged, results[i]...)
	}
	if len(g.providers) == 0 || failed == len(g.providers) {
		return nil, model.ErrUpstreamUnavailable
	}
	return merged, nil
}
