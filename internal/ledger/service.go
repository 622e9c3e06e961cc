// Package ledger implements the engagement/credit bookkeeping core: one
// operation per rewarded action, per-action idempotency, and atomic
// balance updates backed by the append-only activity log.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/creatorhub/engage/internal/model"
	"github.com/creatorhub/engage/internal/store"
)

// Credit amounts awarded per action.
const (
	DailyLoginBonus        = 5
	ProfileCompletionBonus = 20
	SaveCredits            = 2
	ShareCredits           = 3
)

var reportReasons = map[string]bool{
	"inappropriate": true,
	"spam":          true,
	"misleading":    true,
	"offensive":     true,
	"other":         true,
}

// Notifier receives one call per ledger event that should surface to the
// user. Delivery is entirely best-effort; implementations must not
// block the caller on transport failures.
type Notifier interface {
	Notify(ctx context.Context, userID, notifType, message string, metadata map[string]interface{})
}

// NopNotifier discards events; used when no notification layer is wired.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, string, string, string, map[string]interface{}) {}

// Service contains the core business logic for engagement operations.
// Every credit-bearing operation runs guard + balance + activity as one
// transaction; the notification is emitted only after commit.
type Service struct {
	store    store.Store
	notifier Notifier
}

// NewService creates a new ledger service.
func NewService(s store.Store, n Notifier) *Service {
	if n == nil {
		n = NopNotifier{}
	}
	return &Service{store: s, notifier: n}
}

// AwardLogin grants the daily login bonus when now falls on a later
// calendar day than the stored last-login. The last-login timestamp is
// refreshed either way.
func (s *Service) AwardLogin(ctx context.Context, userID string, now time.Time) (*model.EngagementResult, error) {
	if userID == "" {
		return nil, NewValidationError("userId", "user ID is required")
	}

	var res model.EngagementResult
	err := s.store.InTx(ctx, func(tx store.Store) error {
		awarded, err := tx.Users().AwardDailyLogin(ctx, userID, now, DailyLoginBonus)
		if err != nil {
			return err
		}
		if awarded {
			res.CreditsEarned = DailyLoginBonus
			if _, err := tx.Activities().Append(ctx, &model.Activity{
				UserID:        userID,
				Action:        model.ActionLogin,
				Description:   "Daily login bonus",
				CreditsChange: DailyLoginBonus,
			}); err != nil {
				return err
			}
		}
		u, err := tx.Users().Get(ctx, userID)
		if err != nil {
			return err
		}
		res.TotalCredits = u.Credits
		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("userID", userID).Msg("AwardLogin failed")
		return nil, err
	}

	if res.CreditsEarned > 0 {
		s.notifier.Notify(ctx, userID, "credit",
			fmt.Sprintf("Daily login bonus: +%d credits", DailyLoginBonus),
			map[string]interface{}{"credits": DailyLoginBonus})
	}
	return &res, nil
}

// ProfileUpdate carries the profile fields a user may change. Nil fields
// are left untouched.
type ProfileUpdate struct {
	Username *string
	Bio      *string
	Avatar   *string
}

// CompleteProfile applies the profile update and grants the completion
// bonus exactly once, on the first transition to a profile with
// username, bio and avatar all present. The completeness flag is a
// one-way latch; resubmitting a complete profile earns nothing.
func (s *Service) CompleteProfile(ctx context.Context, userID string, upd ProfileUpdate) (*model.EngagementResult, error) {
	if userID == "" {
		return nil, NewValidationError("userId", "user ID is required")
	}

	var res model.EngagementResult
	err := s.store.InTx(ctx, func(tx store.Store) error {
		if err := tx.Users().UpdateProfile(ctx, userID, upd.Username, upd.Bio, upd.Avatar); err != nil {
			return err
		}
		awarded, err := tx.Users().LatchProfileComplete(ctx, userID)
		if err != nil {
			return err
		}
		if awarded {
			balance, err := tx.Users().AddCredits(ctx, userID, ProfileCompletionBonus)
			if err != nil {
				return err
			}
			if _, err := tx.Activities().Append(ctx, &model.Activity{
				UserID:        userID,
				Action:        model.ActionProfileUpdate,
				Description:   "Completed profile",
				CreditsChange: ProfileCompletionBonus,
			}); err != nil {
				return err
			}
			res.CreditsEarned = ProfileCompletionBonus
			res.TotalCredits = balance
			return nil
		}
		u, err := tx.Users().Get(ctx, userID)
		if err != nil {
			return err
		}
		res.TotalCredits = u.Credits
		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("userID", userID).Msg("CompleteProfile failed")
		return nil, err
	}

	if res.CreditsEarned > 0 {
		s.notifier.Notify(ctx, userID, "credit",
			fmt.Sprintf("Profile completed: +%d credits", ProfileCompletionBonus),
			map[string]interface{}{"credits": ProfileCompletionBonus})
	}
	return &res, nil
}

// SaveContentRequest describes the feed item being saved.
type SaveContentRequest struct {
	ContentID   string
	Source      string
	Title       string
	Description *string
	URL         string
	Image       *string
}

// SaveContent stores the item and credits the user once per engagement
// key. A duplicate (user, contentId, source) fails with
// model.ErrDuplicateEngagement; the uniqueness check rides on the
// insert, so concurrent duplicates lose deterministically.
func (s *Service) SaveContent(ctx context.Context, userID string, req SaveContentRequest) (*model.EngagementResult, error) {
	if userID == "" {
		return nil, NewValidationError("userId", "user ID is required")
	}
	if req.ContentID == "" || req.Source == "" || req.Title == "" || req.URL == "" {
		return nil, NewValidationError("content", "contentId, source, title, and url are required")
	}

	var res model.EngagementResult
	err := s.store.InTx(ctx, func(tx store.Store) error {
		if _, err := tx.Saves().Create(ctx, &model.SavedContent{
			UserID:      userID,
			ContentID:   req.ContentID,
			Source:      req.Source,
			Title:       req.Title,
			Description: req.Description,
			URL:         req.URL,
			Image:       req.Image,
		}); err != nil {
			return err
		}
		balance, err := tx.Users().AddCredits(ctx, userID, SaveCredits)
		if err != nil {
			return err
		}
		if _, err := tx.Activities().Append(ctx, &model.Activity{
			UserID:        userID,
			Action:        model.ActionContentSave,
			Description:   "Saved content: " + req.Title,
			CreditsChange: SaveCredits,
			Metadata: map[string]interface{}{
				"contentId": req.ContentID,
				"source":    req.Source,
				"title":     req.Title,
			},
		}); err != nil {
			return err
		}
		res = model.EngagementResult{CreditsEarned: SaveCredits, TotalCredits: balance}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, userID, "save",
		"You saved content: "+req.Title,
		map[string]interface{}{
			"contentId": req.ContentID,
			"source":    req.Source,
			"credits":   SaveCredits,
		})
	return &res, nil
}

// ContentRef identifies the content being shared.
type ContentRef struct {
	ContentID string
	Source    string
	Title     string
}

// ShareContent always credits the share amount; shares are intentionally
// not deduplicated.
func (s *Service) ShareContent(ctx context.Context, userID string, ref ContentRef) (*model.EngagementResult, error) {
	if userID == "" {
		return nil, NewValidationError("userId", "user ID is required")
	}
	if ref.ContentID == "" || ref.Source == "" || ref.Title == "" {
		return nil, NewValidationError("content", "contentId, source, and title are required")
	}

	var res model.EngagementResult
	err := s.store.InTx(ctx, func(tx store.Store) error {
		balance, err := tx.Users().AddCredits(ctx, userID, ShareCredits)
		if err != nil {
			return err
		}
		if _, err := tx.Activities().Append(ctx, &model.Activity{
			UserID:        userID,
			Action:        model.ActionContentShare,
			Description:   "Shared content: " + ref.Title,
			CreditsChange: ShareCredits,
			Metadata: map[string]interface{}{
				"contentId": ref.ContentID,
				"source":    ref.Source,
				"title":     ref.Title,
			},
		}); err != nil {
			return err
		}
		res = model.EngagementResult{CreditsEarned: ShareCredits, TotalCredits: balance}
		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("userID", userID).Msg("ShareContent failed")
		return nil, err
	}

	s.notifier.Notify(ctx, userID, "share",
		"You shared content: "+ref.Title,
		map[string]interface{}{
			"contentId": ref.ContentID,
			"source":    ref.Source,
			"credits":   ShareCredits,
		})
	return &res, nil
}

// ReportContentRequest describes a content report.
type ReportContentRequest struct {
	ContentID   string
	Source      string
	Reason      string
	Description *string
}

// ReportContent files a pending report. Reporting earns no credits but
// shares the save action's idempotency mechanism: a second report of the
// same content by the same user fails with model.ErrDuplicateEngagement.
func (s *Service) ReportContent(ctx context.Context, userID string, req ReportContentRequest) (*model.EngagementResult, error) {
	if userID == "" {
		return nil, NewValidationError("userId", "user ID is required")
	}
	if req.ContentID == "" || req.Source == "" || req.Reason == "" {
		return nil, NewValidationError("report", "contentId, source, and reason are required")
	}
	if !reportReasons[req.Reason] {
		return nil, NewValidationError("reason", "unknown report reason")
	}

	var res model.EngagementResult
	err := s.store.InTx(ctx, func(tx store.Store) error {
		if _, err := tx.Reports().Create(ctx, &model.Report{
			UserID:      userID,
			ContentID:   req.ContentID,
			Source:      req.Source,
			Reason:      req.Reason,
			Description: req.Description,
		}); err != nil {
			return err
		}
		if _, err := tx.Activities().Append(ctx, &model.Activity{
			UserID:      userID,
			Action:      model.ActionContentReport,
			Description: "Reported content",
			Metadata: map[string]interface{}{
				"contentId": req.ContentID,
				"source":    req.Source,
				"reason":    req.Reason,
			},
		}); err != nil {
			return err
		}
		u, err := tx.Users().Get(ctx, userID)
		if err != nil {
			return err
		}
		res.TotalCredits = u.Credits
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// AdjustCredits sets the target user's balance directly. Privileged: the
// acting user must hold the admin role. The signed delta and both
// balances are recorded on the audit activity.
func (s *Service) AdjustCredits(ctx context.Context, adminID, targetUserID string, newBalance int64) (*model.EngagementResult, error) {
	if adminID == "" || targetUserID == "" {
		return nil, NewValidationError("userId", "admin and target user IDs are required")
	}
	admin, err := s.store.Users().Get(ctx, adminID)
	if err != nil {
		return nil, err
	}
	if !admin.IsAdmin() {
		return nil, NewForbiddenError(adminID, "admin role required")
	}

	var res model.EngagementResult
	err = s.store.InTx(ctx, func(tx store.Store) error {
		old, err := tx.Users().SetBalance(ctx, targetUserID, newBalance)
		if err != nil {
			return err
		}
		delta := newBalance - old
		if _, err := tx.Activities().Append(ctx, &model.Activity{
			UserID:        targetUserID,
			Action:        model.ActionAdminAdjust,
			Description:   fmt.Sprintf("Admin updated credits from %d to %d", old, newBalance),
			CreditsChange: delta,
			Metadata: map[string]interface{}{
				"adminId":         adminID,
				"previousCredits": old,
				"newCredits":      newBalance,
			},
		}); err != nil {
			return err
		}
		res = model.EngagementResult{CreditsEarned: delta, TotalCredits: newBalance}
		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("adminID", adminID).Str("targetUserID", targetUserID).Msg("AdjustCredits failed")
		return nil, err
	}

	s.notifier.Notify(ctx, targetUserID, "admin",
		fmt.Sprintf("An administrator set your balance to %d credits", newBalance),
		map[string]interface{}{"credits": res.CreditsEarned})
	return &res, nil
}
