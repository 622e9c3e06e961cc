package model

import "time"

// Action is the kind of ledger event recorded for a user.
type Action string

const (
	ActionLogin         Action = "login"
	ActionProfileUpdate Action = "profile_update"
	ActionContentSave   Action = "content_save"
	ActionContentShare  Action = "content_share"
	ActionContentReport Action = "content_report"
	ActionAdminAdjust   Action = "admin_adjust"
)

// User represents an account in the system. Credits are mutated only by
// the ledger; ProfileComplete is a one-way latch.
type User struct {
	UserID          string     `json:"userId"`
	Email           string     `json:"email"`
	Role            string     `json:"role"`
	Credits         int64      `json:"credits"`
	Username        string     `json:"username"`
	Bio             *string    `json:"bio,omitempty"`
	Avatar          *string    `json:"avatar,omitempty"`
	ProfileComplete bool       `json:"profileComplete"`
	LastLogin       *time.Time `json:"lastLogin,omitempty"`
	CreationTime    time.Time  `json:"creationTime"`
}

// IsAdmin reports whether the user may perform privileged operations.
func (u *User) IsAdmin() bool { return u.Role == "admin" }

// Activity is an immutable, append-only ledger record. The sum of
// CreditsChange over a user's activities equals their current balance.
type Activity struct {
	ActivityID    string                 `json:"activityId"`
	UserID        string                 `json:"userId"`
	Action        Action                 `json:"action"`
	Description   string                 `json:"description"`
	CreditsChange int64                  `json:"creditsChange"`
	Metadata      map[string]interface{} `json:"metadata,omitempty"`
	CreationTime  time.Time              `json:"creationTime"`
}

// SavedContent mirrors a feed item kept by a user. Created once per
// engagement key, never updated.
type SavedContent struct {
	UserID       string    `json:"userId"`
	ContentID    string    `json:"contentId"`
	Source       string    `json:"source"`
	Title        string    `json:"title"`
	Description  *string   `json:"description,omitempty"`
	URL          string    `json:"url"`
	Image        *string   `json:"image,omitempty"`
	CreationTime time.Time `json:"creationTime"`
}

// Report is a user-filed content report. Status starts at "pending";
// reporting is not rewarded with credits.
type Report struct {
	ReportID     string    `json:"reportId"`
	UserID       string    `json:"userId"`
	ContentID    string    `json:"contentId"`
	Source       string    `json:"source"`
	Reason       string    `json:"reason"`
	Description  *string   `json:"description,omitempty"`
	Status       string    `json:"status"`
	CreationTime time.Time `json:"creationTime"`
}

// Notification is the durable record behind the real-time push. Mutated
// only by the unread -> read transition.
type Notification struct {
	NotificationID string                 `json:"notificationId"`
	UserID         string                 `json:"userId"`
	Type           string                 `json:"type"`
	Message        string                 `json:"message"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
	Read           bool                   `json:"read"`
	CreationTime   time.Time              `json:"creationTime"`
}

// ContentItem is a normalized item from an upstream content provider.
type ContentItem struct {
	ID          string    `json:"id"`
	Source      string    `json:"source"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Image       string    `json:"image,omitempty"`
	URL         string    `json:"url"`
	Upvotes     int       `json:"upvotes"`
	Comments    int       `json:"comments"`
	CreatedAt   time.Time `json:"createdAt"`
}

// EngagementResult is returned by every ledger operation so callers can
// surface "+N credits" feedback without a second read.
type EngagementResult struct {
	CreditsEarned int64 `json:"creditsEarned"`
	TotalCredits  int64 `json:"totalCredits"`
}
