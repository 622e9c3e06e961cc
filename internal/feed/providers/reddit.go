// Package providers contains the upstream content clients. Each client
// normalizes its source's payload into model.ContentItem; quirks of the
// upstream APIs stay inside this package.
package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"github.com/creatorhub/engage/internal/model"
)

// Reddit fetches hot posts from a subreddit via the public JSON API.
type Reddit struct {
	client    *resty.Client
	subreddit string
}

// NewReddit creates a Reddit provider for the given subreddit.
func NewReddit(baseURL, subreddit string, timeout time.Duration) *Reddit {
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("User-Agent", "engage-service/1.0").
		SetTimeout(timeout)
	return &Reddit{client: c, subreddit: subreddit}
}

func (r *Reddit) Name() string { return "reddit" }

type redditListing struct {
	Data struct {
		Children []struct {
			Data redditPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type redditPost struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Selftext    string  `json:"selftext"`
	Permalink   string  `json:"permalink"`
	Thumbnail   string  `json:"thumbnail"`
	Ups         int     `json:"ups"`
	NumComments int     `json:"num_comments"`
	CreatedUTC  float64 `json:"created_utc"`
}

func (r *Reddit) Fetch(ctx context.Context) ([]*model.ContentItem, error) {
	resp, err := r.client.R().
		SetContext(ctx).
		SetQueryParam("limit", "25").
		Get("/r/" + r.subreddit + "/hot.json")
	if err != nil {
		return nil, errors.Wrap(err, "reddit request")
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, errors.Errorf("reddit status %d: %s", resp.StatusCode(), resp.String())
	}

	var listing redditListing
	if err := json.Unmarshal(resp.Body(), &listing); err != nil {
		return nil, errors.Wrap(err, "decode reddit listing")
	}

	items := make([]*model.ContentItem, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		p := child.Data
		item := &model.ContentItem{
			ID:          p.ID,
			Source:      "reddit",
			Title:       p.Title,
			Description: p.Selftext,
			URL:         "https://reddit.com" + p.Permalink,
			Upvotes:     p.Ups,
			Comments:    p.NumComments,
			CreatedAt:   time.Unix(int64(p.CreatedUTC), 0).UTC(),
		}
		// Reddit uses placeholder words ("self", "default") for posts
		// without a real thumbnail.
		if strings.HasPrefix(p.Thumbnail, "http") {
			item.Image = p.Thumbnail
		}
		items = append(items, item)
	}
	return items, nil
}
