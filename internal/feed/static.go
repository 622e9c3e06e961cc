package feed

import (
	"time"

	"github.com/creatorhub/engage/internal/model"
)

// staticItems is the fallback served when every upstream provider is
// down. Served directly, never written to the cache, so real content
// returns as soon as a provider recovers.
func staticItems() []*model.ContentItem {
	now := time.Now().UTC()
	return []*model.ContentItem{
		{
			ID:          "static-1",
			Source:      "reddit",
			Title:       "Getting started as a content creator in 2025",
			Description: "A community thread collecting advice for creators just starting out.",
			URL:         "https://reddit.com/r/creators/comments/static-1",
			Upvotes:     1240,
			Comments:    318,
			CreatedAt:   now.Add(-2 * time.Hour),
		},
		{
			ID:          "static-2",
			Source:      "reddit",
			Title:       "What editing tools do you actually use day to day?",
			Description: "Creators compare their real-world editing workflows.",
			URL:         "https://reddit.com/r/creators/comments/static-2",
			Upvotes:     856,
			Comments:    204,
			CreatedAt:   now.Add(-5 * time.Hour),
		},
		{
			ID:        "static-3",
			Source:    "twitter",
			Title:     "Thread: 10 lessons from my first year of building an audience",
			URL:       "https://twitter.com/i/status/static-3",
			Upvotes:   2310,
			Comments:  145,
			CreatedAt: now.Add(-8 * time.Hour),
		},
		{
			ID:        "static-4",
			Source:    "twitter",
			Title:     "Consistency beats virality. Every time.",
			URL:       "https://twitter.com/i/status/static-4",
			Upvotes:   980,
			Comments:  67,
			CreatedAt: now.Add(-12 * time.Hour),
		},
		{
			ID:          "static-5",
			Source:      "reddit",
			Title:       "Monetization milestones: share yours",
			Description: "From the first dollar to the first thousand.",
			URL:         "https://reddit.com/r/creators/comments/static-5",
			Upvotes:     432,
			Comments:    129,
			CreatedAt:   now.Add(-24 * time.Hour),
		},
	}
}
