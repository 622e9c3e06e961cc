package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creatorhub/engage/internal/model"
	"github.com/creatorhub/engage/internal/store"
	"github.com/creatorhub/engage/internal/store/sqlite"
)

type recordingPusher struct {
	pushed []*model.Notification
}

func (r *recordingPusher) Push(_ string, n *model.Notification) {
	r.pushed = append(r.pushed, n)
}

func newTestService(t *testing.T) (*Service, store.Store, *recordingPusher) {
	t.Helper()
	db, err := sqlite.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, sqlite.EnsureSchema(context.Background(), db))

	st := sqlite.NewWithDB(db)
	createUser(t, st, "user-1")
	createUser(t, st, "user-2")

	p := &recordingPusher{}
	return NewService(st, p), st, p
}

func createUser(t *testing.T, st store.Store, userID string) {
	t.Helper()
	_, err := st.Users().Create(context.Background(), &model.User{
		UserID:   userID,
		Email:    userID + "@example.com",
		Role:     "user",
		Username: userID,
	})
	require.NoError(t, err)
}

func TestNotify_PersistsThenPushes(t *testing.T) {
	svc, st, p := newTestService(t)
	ctx := context.Background()

	svc.Notify(ctx, "user-1", "save", "You saved content: Go at scale",
		map[string]interface{}{"credits": 2})

	list, err := st.Notifications().ListRecent(ctx, "user-1", 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "save", list[0].Type)
	assert.False(t, list[0].Read)
	assert.NotEmpty(t, list[0].NotificationID)

	require.Len(t, p.pushed, 1)
	assert.Equal(t, list[0].NotificationID, p.pushed[0].NotificationID)
}

func TestMarkRead_ScopedToOwner(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	svc.Notify(ctx, "user-1", "credit", "Daily login bonus: +5 credits", nil)
	svc.Notify(ctx, "user-2", "credit", "Daily login bonus: +5 credits", nil)

	mine, err := svc.ListRecent(ctx, "user-1", 10)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	theirs, err := svc.ListRecent(ctx, "user-2", 10)
	require.NoError(t, err)
	require.Len(t, theirs, 1)

	// user-1 tries to mark both; only their own flips.
	err = svc.MarkRead(ctx, "user-1", []string{mine[0].NotificationID, theirs[0].NotificationID})
	require.NoError(t, err)

	mine, err = svc.ListRecent(ctx, "user-1", 10)
	require.NoError(t, err)
	assert.True(t, mine[0].Read)
	theirs, err = svc.ListRecent(ctx, "user-2", 10)
	require.NoError(t, err)
	assert.False(t, theirs[0].Read)
}

func TestMarkRead_UnknownIdsIgnored(t *testing.T) {
	svc, _, _ := newTestService(t)
	err := svc.MarkRead(context.Background(), "user-1", []string{"does-not-exist"})
	assert.NoError(t, err)
}

func TestListRecent_ClampsLimit(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		svc.Notify(ctx, "user-1", "share", "You shared content", nil)
	}
	list, err := svc.ListRecent(ctx, "user-1", 0)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}
