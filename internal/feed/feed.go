// Package feed aggregates content from upstream providers behind a
// per-user TTL cache.
package feed

import (
	"context"

	"github.com/creatorhub/engage/internal/model"
)

// Provider fetches content from one upstream source, normalized to
// model.ContentItem.
type Provider interface {
	// Name identifies the source ("twitter", "reddit").
	Name() string
	Fetch(ctx context.Context) ([]*model.ContentItem, error)
}
