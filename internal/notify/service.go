// Package notify persists notifications and forwards them to connected
// websocket clients. Persistence is authoritative; the push is a hint.
package notify

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/creatorhub/engage/internal/model"
	"github.com/creatorhub/engage/internal/store"
)

// DefaultListLimit bounds unqualified notification listings.
const DefaultListLimit = 50

// Pusher delivers a notification to a user's live connections, if any.
// Implemented by the websocket hub; a user with no open connections is
// not an error.
type Pusher interface {
	Push(userID string, n *model.Notification)
}

// NopPusher drops all pushes; used when the websocket layer is disabled.
type NopPusher struct{}

func (NopPusher) Push(string, *model.Notification) {}

// Service stores notifications and fans them out.
type Service struct {
	store  store.Store
	pusher Pusher
}

// NewService creates a notification service. pusher may be nil.
func NewService(s store.Store, p Pusher) *Service {
	if p == nil {
		p = NopPusher{}
	}
	return &Service{store: s, pusher: p}
}

// Notify writes the notification and pushes it to live connections.
// A persistence failure is logged and swallowed: notification delivery
// must never fail the action that produced it.
func (s *Service) Notify(ctx context.Context, userID, notifType, message string, metadata map[string]interface{}) {
	n, err := s.store.Notifications().Create(ctx, &model.Notification{
		UserID:   userID,
		Type:     notifType,
		Message:  message,
		Metadata: metadata,
	})
	if err != nil {
		log.Error().Err(err).Str("userID", userID).Str("type", notifType).Msg("failed to persist notification")
		return
	}
	s.pusher.Push(userID, n)
}

// ListRecent returns the user's notifications, newest first.
func (s *Service) ListRecent(ctx context.Context, userID string, limit int) ([]*model.Notification, error) {
	if limit <= 0 || limit > DefaultListLimit {
		limit = DefaultListLimit
	}
	return s.store.Notifications().ListRecent(ctx, userID, limit)
}

// MarkRead flips the given notifications to read. Ids the user does not
// own, or that are already read, are ignored.
func (s *Service) MarkRead(ctx context.Context, userID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return s.store.Notifications().MarkRead(ctx, userID, ids)
}
