package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const redditListingJSON = `{
  "data": {
    "children": [
      {"data": {
        "id": "p1", "title": "First post", "selftext": "body",
        "permalink": "/r/creators/comments/p1", "thumbnail": "https://img.example.com/p1.png",
        "ups": 42, "num_comments": 7, "created_utc": 1741600000
      }},
      {"data": {
        "id": "p2", "title": "Second post", "selftext": "",
        "permalink": "/r/creators/comments/p2", "thumbnail": "self",
        "ups": 9, "num_comments": 1, "created_utc": 1741603600
      }}
    ]
  }
}`

func TestReddit_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/r/creators/hot.json", r.URL.Path)
		assert.Equal(t, "25", r.URL.Query().Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(redditListingJSON))
	}))
	defer srv.Close()

	p := NewReddit(srv.URL, "creators", 5*time.Second)
	items, err := p.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "p1", items[0].ID)
	assert.Equal(t, "reddit", items[0].Source)
	assert.Equal(t, "https://reddit.com/r/creators/comments/p1", items[0].URL)
	assert.Equal(t, "https://img.example.com/p1.png", items[0].Image)
	assert.Equal(t, 42, items[0].Upvotes)
	assert.Equal(t, 7, items[0].Comments)

	// "self" thumbnail placeholder must not leak through as an image.
	assert.Empty(t, items[1].Image)
}

func TestReddit_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p := NewReddit(srv.URL, "creators", 5*time.Second)
	_, err := p.Fetch(context.Background())
	assert.Error(t, err)
}

const twitterSearchJSON = `{
  "data": [
    {"id": "1111", "text": "Shipping my first course today",
     "created_at": "2025-03-10T09:00:00Z",
     "public_metrics": {"like_count": 120, "reply_count": 14}}
  ]
}`

func TestTwitter_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2/tweets/search/recent", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "creator economy", r.URL.Query().Get("query"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(twitterSearchJSON))
	}))
	defer srv.Close()

	p := NewTwitter(srv.URL, "test-token", "creator economy", 5*time.Second)
	items, err := p.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)

	assert.Equal(t, "1111", items[0].ID)
	assert.Equal(t, "twitter", items[0].Source)
	assert.Equal(t, "https://twitter.com/i/status/1111", items[0].URL)
	assert.Equal(t, 120, items[0].Upvotes)
	assert.Equal(t, 14, items[0].Comments)
	assert.Equal(t, time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC), items[0].CreatedAt)
}

func TestTwitter_EmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"meta":{"result_count":0}}`))
	}))
	defer srv.Close()

	p := NewTwitter(srv.URL, "test-token", "creator economy", 5*time.Second)
	items, err := p.Fetch(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}
