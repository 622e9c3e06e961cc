package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"github.com/creatorhub/engage/internal/model"
)

// Twitter fetches recent tweets matching a query via the v2 search API.
type Twitter struct {
	client *resty.Client
	query  string
}

// NewTwitter creates a Twitter provider. bearerToken is the app-only
// token for the v2 API.
func NewTwitter(baseURL, bearerToken, query string, timeout time.Duration) *Twitter {
	c := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(bearerToken).
		SetTimeout(timeout)
	return &Twitter{client: c, query: query}
}

func (t *Twitter) Name() string { return "twitter" }

type twitterSearchResponse struct {
	Data []struct {
		ID            string    `json:"id"`
		Text          string    `json:"text"`
		CreatedAt     time.Time `json:"created_at"`
		PublicMetrics struct {
			LikeCount  int `json:"like_count"`
			ReplyCount int `json:"reply_count"`
		} `json:"public_metrics"`
	} `json:"data"`
}

func (t *Twitter) Fetch(ctx context.Context) ([]*model.ContentItem, error) {
	resp, err := t.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"query":        t.query,
			"max_results":  "25",
			"tweet.fields": "created_at,public_metrics",
		}).
		Get("/2/tweets/search/recent")
	if err != nil {
		return nil, errors.Wrap(err, "twitter request")
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, errors.Errorf("twitter status %d: %s", resp.StatusCode(), resp.String())
	}

	var sr twitterSearchResponse
	if err := json.Unmarshal(resp.Body(), &sr); err != nil {
		return nil, errors.Wrap(err, "decode twitter response")
	}

	items := make([]*model.ContentItem, 0, len(sr.Data))
	for _, tw := range sr.Data {
		items = append(items, &model.ContentItem{
			ID:        tw.ID,
			Source:    "twitter",
			Title:     tw.Text,
			URL:       "https://twitter.com/i/status/" + tw.ID,
			Upvotes:   tw.PublicMetrics.LikeCount,
			Comments:  tw.PublicMetrics.ReplyCount,
			CreatedAt: tw.CreatedAt,
		})
	}
	return items, nil
}
