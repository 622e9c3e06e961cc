// Package dashboard assembles read-only summaries over the ledger for
// the user and admin dashboard views.
package dashboard

import (
	"context"

	"github.com/creatorhub/engage/internal/model"
	"github.com/creatorhub/engage/internal/store"
)

const (
	recentActivityLimit = 10
	recentSavesLimit    = 20
	topUsersLimit       = 5
	adminRecentLimit    = 20
)

// CreditBreakdown is per-action credit totals for one user.
type CreditBreakdown struct {
	Login         int64 `json:"login"`
	ProfileUpdate int64 `json:"profileUpdate"`
	ContentSave   int64 `json:"contentSave"`
	ContentShare  int64 `json:"contentShare"`
	AdminAdjust   int64 `json:"adminAdjust"`
}

// Summary is the user dashboard payload.
type Summary struct {
	User           *model.User       `json:"user"`
	Breakdown      CreditBreakdown   `json:"breakdown"`
	RecentActivity []*model.Activity `json:"recentActivity"`
}

// AdminStats is the admin dashboard payload.
type AdminStats struct {
	TotalUsers     int64             `json:"totalUsers"`
	AdminUsers     int64             `json:"adminUsers"`
	TotalCredits   int64             `json:"totalCredits"`
	TopUsers       []*model.User     `json:"topUsers"`
	RecentActivity []*model.Activity `json:"recentActivity"`
	RecentReports  []*model.Report   `json:"recentReports"`
}

// Service serves dashboard reads. It never writes.
type Service struct {
	store store.Store
}

// NewService creates a dashboard service.
func NewService(s store.Store) *Service {
	return &Service{store: s}
}

// Summary returns the user's profile, credit breakdown and recent
// activity in one payload.
func (s *Service) Summary(ctx context.Context, userID string) (*Summary, error) {
	u, err := s.store.Users().Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	sums, err := s.store.Activities().SumByAction(ctx, userID)
	if err != nil {
		return nil, err
	}
	recent, err := s.store.Activities().ListRecent(ctx, userID, recentActivityLimit)
	if err != nil {
		return nil, err
	}
	return &Summary{
		User: u,
		Breakdown: CreditBreakdown{
			Login:         sums[model.ActionLogin],
			ProfileUpdate: sums[model.ActionProfileUpdate],
			ContentSave:   sums[model.ActionContentSave],
			ContentShare:  sums[model.ActionContentShare],
			AdminAdjust:   sums[model.ActionAdminAdjust],
		},
		RecentActivity: recent,
	}, nil
}

// SavedContent returns the user's saved items, newest first.
func (s *Service) SavedContent(ctx context.Context, userID string) ([]*model.SavedContent, error) {
	return s.store.Saves().ListRecent(ctx, userID, recentSavesLimit)
}

// AdminOverview returns system-wide stats. Authorization is the
// caller's responsibility.
func (s *Service) AdminOverview(ctx context.Context) (*AdminStats, error) {
	total, admins, err := s.store.Users().Count(ctx)
	if err != nil {
		return nil, err
	}
	top, err := s.store.Users().TopByCredits(ctx, topUsersLimit)
	if err != nil {
		return nil, err
	}
	totalCredits, err := s.store.Users().TotalCredits(ctx)
	if err != nil {
		return nil, err
	}
	activity, err := s.store.Activities().ListAllRecent(ctx, adminRecentLimit)
	if err != nil {
		return nil, err
	}
	reports, err := s.store.Reports().ListRecent(ctx, adminRecentLimit)
	if err != nil {
		return nil, err
	}
	return &AdminStats{
		TotalUsers:     total,
		AdminUsers:     admins,
		TotalCredits:   totalCredits,
		TopUsers:       top,
		RecentActivity: activity,
		RecentReports:  reports,
	}, nil
}
