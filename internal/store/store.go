package store

import (
	"context"
	"time"

	"github.com/creatorhub/engage/internal/model"
)

// Store exposes persistence operations required by services.
// Implementations live under internal/store/<driver>/ (postgres, sqlite).
//
// InTx runs fn against a transactional view of the store; every write
// issued through the view commits or rolls back as one unit. The ledger
// relies on this for its guard + balance + activity triple.
type Store interface {
	Users() Users
	Activities() Activities
	Saves() Saves
	Reports() Reports
	Notifications() Notifications

	InTx(ctx context.Context, fn func(Store) error) error
	HealthPing(ctx context.Context) error
}

type Users interface {
	Create(ctx context.Context, u *model.User) (*model.User, error)
	Get(ctx context.Context, userID string) (*model.User, error)

	// Ensure provisions the row for an externally issued identity; an
	// existing row is left untouched. Identities arrive via bearer
	// tokens, so the row is created on the first authenticated request
	// rather than at registration.
	Ensure(ctx context.Context, userID, role string) error

	// AddCredits atomically applies credits = credits + delta and
	// returns the new balance. Never a read-modify-write.
	AddCredits(ctx context.Context, userID string, delta int64) (int64, error)

	// SetBalance overwrites the balance and returns the previous value.
	SetBalance(ctx context.Context, userID string, balance int64) (int64, error)

	// AwardDailyLogin credits bonus if now falls on a later calendar day
	// than the stored last_login, refreshing last_login either way.
	// Returns true when the bonus row was applied. The day comparison is
	// evaluated inside a single conditional UPDATE so concurrent logins
	// cannot double-award.
	AwardDailyLogin(ctx context.Context, userID string, now time.Time, bonus int64) (bool, error)

	// UpdateProfile writes the provided non-nil profile fields.
	UpdateProfile(ctx context.Context, userID string, username *string, bio *string, avatar *string) error

	// LatchProfileComplete flips profile_complete exactly once, and only
	// when username, bio and avatar are all present. One-way.
	LatchProfileComplete(ctx context.Context, userID string) (bool, error)

	Count(ctx context.Context) (total, admins int64, err error)
	TotalCredits(ctx context.Context) (int64, error)
	TopByCredits(ctx context.Context, limit int) ([]*model.User, error)
}

// Activities is append-only: no update or delete operations exist.
type Activities interface {
	Append(ctx context.Context, a *model.Activity) (*model.Activity, error)
	ListRecent(ctx context.Context, userID string, limit int) ([]*model.Activity, error)
	ListAllRecent(ctx context.Context, limit int) ([]*model.Activity, error)

	// SumByAction returns per-action credit totals for one user.
	SumByAction(ctx context.Context, userID string) (map[model.Action]int64, error)

	// SumCredits returns the total credit delta for a user, used to
	// verify the ledger reconciliation invariant.
	SumCredits(ctx context.Context, userID string) (int64, error)
}

type Saves interface {
	// Create inserts a saved-content row. A second insert for the same
	// (user, contentId, source) returns model.ErrDuplicateEngagement;
	// the uniqueness check is evaluated atomically with the insert.
	Create(ctx context.Context, s *model.SavedContent) (*model.SavedContent, error)
	ListRecent(ctx context.Context, userID string, limit int) ([]*model.SavedContent, error)
}

type Reports interface {
	// Create inserts a pending report. Duplicate (user, contentId,
	// source) returns model.ErrDuplicateEngagement.
	Create(ctx context.Context, r *model.Report) (*model.Report, error)
	ListRecent(ctx context.Context, limit int) ([]*model.Report, error)
}

type Notifications interface {
	Create(ctx context.Context, n *model.Notification) (*model.Notification, error)
	ListRecent(ctx context.Context, userID string, limit int) ([]*model.Notification, error)

	// MarkRead transitions the given notifications to read, scoped to
	// userID. Ids that are absent, already read, or owned by another
	// user are silently ignored.
	MarkRead(ctx context.Context, userID string, ids []string) error
}
