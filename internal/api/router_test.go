package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creatorhub/engage/internal/auth"
	"github.com/creatorhub/engage/internal/dashboard"
	"github.com/creatorhub/engage/internal/feed"
	"github.com/creatorhub/engage/internal/ledger"
	"github.com/creatorhub/engage/internal/model"
	"github.com/creatorhub/engage/internal/notify"
	"github.com/creatorhub/engage/internal/store"
	"github.com/creatorhub/engage/internal/store/sqlite"
)

const testSecret = "api-test-secret"

type staticProvider struct {
	items []*model.ContentItem
}

func (staticProvider) Name() string { return "reddit" }

func (p staticProvider) Fetch(context.Context) ([]*model.ContentItem, error) {
	return p.items, nil
}

func newTestRouter(t *testing.T) (http.Handler, store.Store) {
	t.Helper()
	db, err := sqlite.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, sqlite.EnsureSchema(context.Background(), db))
	st := sqlite.NewWithDB(db)

	notifyService := notify.NewService(st, nil)
	ledgerService := ledger.NewService(st, notifyService)
	gateway := feed.NewGateway(zerolog.Nop(), staticProvider{items: []*model.ContentItem{
		{ID: "p1", Source: "reddit", Title: "Post 1", URL: "https://reddit.com/p/1"},
	}})
	feedService := feed.NewService(gateway, feed.NewMemoryCache(), 10*time.Minute, zerolog.Nop())

	router := NewRouter(Deps{
		Store:      st,
		Feed:       feedService,
		Ledger:     ledgerService,
		Notify:     notifyService,
		Dashboard:  dashboard.NewService(st),
		Authorizer: auth.NewJWTAuthorizer(testSecret),
		Logger:     zerolog.Nop(),
	})
	return router, st
}

func seedUser(t *testing.T, st store.Store, userID, role string) string {
	t.Helper()
	_, err := st.Users().Create(context.Background(), &model.User{
		UserID:   userID,
		Email:    userID + "@example.com",
		Role:     role,
		Username: userID,
	})
	require.NoError(t, err)
	token, err := auth.IssueToken(testSecret, userID, role, time.Hour)
	require.NoError(t, err)
	return token
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestRouter_HealthIsPublic(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := doJSON(t, router, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, router, http.MethodGet, "/api/health/db", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRouter_RequiresAuth(t *testing.T) {
	router, _ := newTestRouter(t)
	rr := doJSON(t, router, http.MethodGet, "/api/feed", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestFirstRequestProvisionsUser(t *testing.T) {
	router, st := newTestRouter(t)

	// No seeding: the identity exists only inside the bearer token, the
	// way an externally issued credential arrives in production.
	token, err := auth.IssueToken(testSecret, "fresh-user", "user", time.Hour)
	require.NoError(t, err)

	rr := doJSON(t, router, http.MethodPost, "/api/engage/login", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var res model.EngagementResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	assert.EqualValues(t, ledger.DailyLoginBonus, res.CreditsEarned)

	rr = doJSON(t, router, http.MethodPost, "/api/feed/share", token,
		map[string]interface{}{"contentId": "p1", "source": "reddit", "title": "Post 1"})
	require.Equal(t, http.StatusOK, rr.Code)

	u, err := st.Users().Get(context.Background(), "fresh-user")
	require.NoError(t, err)
	assert.EqualValues(t, ledger.DailyLoginBonus+ledger.ShareCredits, u.Credits)
}

func TestGetFeed(t *testing.T) {
	router, st := newTestRouter(t)
	token := seedUser(t, st, "user-1", "user")

	rr := doJSON(t, router, http.MethodGet, "/api/feed", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var res feed.FeedResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	assert.Equal(t, "live", res.Origin)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "p1", res.Items[0].ID)

	// Second read comes from cache.
	rr = doJSON(t, router, http.MethodGet, "/api/feed", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	assert.Equal(t, "cache", res.Origin)
}

func TestSaveContent_ConflictOnDuplicate(t *testing.T) {
	router, st := newTestRouter(t)
	token := seedUser(t, st, "user-1", "user")

	body := map[string]interface{}{
		"contentId": "p1", "source": "reddit",
		"title": "Post 1", "url": "https://reddit.com/p/1",
	}
	rr := doJSON(t, router, http.MethodPost, "/api/feed/save", token, body)
	require.Equal(t, http.StatusCreated, rr.Code)

	var res model.EngagementResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	assert.EqualValues(t, ledger.SaveCredits, res.CreditsEarned)

	rr = doJSON(t, router, http.MethodPost, "/api/feed/save", token, body)
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestSaveContent_BadRequest(t *testing.T) {
	router, st := newTestRouter(t)
	token := seedUser(t, st, "user-1", "user")

	rr := doJSON(t, router, http.MethodPost, "/api/feed/save", token,
		map[string]interface{}{"contentId": "p1"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestShareAndLoginAndProfileFlow(t *testing.T) {
	router, st := newTestRouter(t)
	token := seedUser(t, st, "user-1", "user")

	rr := doJSON(t, router, http.MethodPost, "/api/engage/login", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var res model.EngagementResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	assert.EqualValues(t, ledger.DailyLoginBonus, res.CreditsEarned)

	rr = doJSON(t, router, http.MethodPost, "/api/feed/share", token,
		map[string]interface{}{"contentId": "p1", "source": "reddit", "title": "Post 1"})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, router, http.MethodPut, "/api/profile", token,
		map[string]interface{}{"bio": "creator", "avatar": "https://cdn.example.com/a.png"})
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	assert.EqualValues(t, ledger.ProfileCompletionBonus, res.CreditsEarned)
	assert.EqualValues(t, ledger.DailyLoginBonus+ledger.ShareCredits+ledger.ProfileCompletionBonus, res.TotalCredits)
}

func TestReportContent(t *testing.T) {
	router, st := newTestRouter(t)
	token := seedUser(t, st, "user-1", "user")

	rr := doJSON(t, router, http.MethodPost, "/api/feed/report", token,
		map[string]interface{}{"contentId": "p1", "source": "reddit", "reason": "spam"})
	require.Equal(t, http.StatusCreated, rr.Code)

	var res model.EngagementResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	assert.Zero(t, res.CreditsEarned)
}

func TestNotificationsFlow(t *testing.T) {
	router, st := newTestRouter(t)
	token := seedUser(t, st, "user-1", "user")

	// Saving content produces a notification.
	rr := doJSON(t, router, http.MethodPost, "/api/feed/save", token,
		map[string]interface{}{"contentId": "p1", "source": "reddit", "title": "Post 1", "url": "https://reddit.com/p/1"})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = doJSON(t, router, http.MethodGet, "/api/notifications", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var list struct {
		Notifications []*model.Notification `json:"notifications"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	require.Len(t, list.Notifications, 1)
	assert.False(t, list.Notifications[0].Read)

	rr = doJSON(t, router, http.MethodPut, "/api/notifications/read", token,
		map[string]interface{}{"ids": []string{list.Notifications[0].NotificationID}})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, router, http.MethodGet, "/api/notifications", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	require.Len(t, list.Notifications, 1)
	assert.True(t, list.Notifications[0].Read)
}

func TestDashboard(t *testing.T) {
	router, st := newTestRouter(t)
	token := seedUser(t, st, "user-1", "user")

	rr := doJSON(t, router, http.MethodPost, "/api/engage/login", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, router, http.MethodGet, "/api/dashboard", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var sum dashboard.Summary
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &sum))
	assert.EqualValues(t, ledger.DailyLoginBonus, sum.User.Credits)
	assert.EqualValues(t, ledger.DailyLoginBonus, sum.Breakdown.Login)

	rr = doJSON(t, router, http.MethodGet, "/api/dashboard/saved", token, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestAdminEndpoints(t *testing.T) {
	router, st := newTestRouter(t)
	userToken := seedUser(t, st, "user-1", "user")
	adminToken := seedUser(t, st, "admin-1", "admin")

	// Regular users cannot reach the admin views.
	rr := doJSON(t, router, http.MethodGet, "/api/dashboard/admin", userToken, nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	rr = doJSON(t, router, http.MethodPut, "/api/dashboard/admin/credits/admin-1", userToken,
		map[string]interface{}{"credits": 10})
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = doJSON(t, router, http.MethodGet, "/api/dashboard/admin", adminToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var stats dashboard.AdminStats
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &stats))
	assert.EqualValues(t, 2, stats.TotalUsers)
	assert.EqualValues(t, 1, stats.AdminUsers)

	rr = doJSON(t, router, http.MethodPut, "/api/dashboard/admin/credits/user-1", adminToken,
		map[string]interface{}{"credits": 50})
	require.Equal(t, http.StatusOK, rr.Code)
	var res model.EngagementResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	assert.EqualValues(t, 50, res.TotalCredits)
	assert.EqualValues(t, 50, res.CreditsEarned)

	// Negative balances are rejected at the transport layer.
	rr = doJSON(t, router, http.MethodPut, "/api/dashboard/admin/credits/user-1", adminToken,
		map[string]interface{}{"credits": -5})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
