package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/creatorhub/engage/internal/model"
	"github.com/creatorhub/engage/internal/store"
)

// Open opens (or creates) a SQLite database at the given path and enables
// WAL journal mode. The URI parameter ensures better concurrency for
// read-heavy workloads.
func Open(path string) (*sql.DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// SQLite serializes writers; a single connection avoids SQLITE_BUSY
	// under concurrent transactions.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// OpenMemory opens an in-memory database, used by tests.
func OpenMemory() (*sql.DB, error) {
	db, err := sql.Open("sqlite", "file::memory:?_pragma=foreign_keys(ON)")
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// NewWithDB constructs a SQLite store backed directly by database/sql.
func NewWithDB(db *sql.DB) store.Store { return &sqStore{db: db, q: db} }

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type sqStore struct {
	db *sql.DB // nil inside a transaction view
	q  querier
}

func (s *sqStore) Users() store.Users                 { return &users{q: s.q} }
func (s *sqStore) Activities() store.Activities       { return &activities{q: s.q} }
func (s *sqStore) Saves() store.Saves                 { return &saves{q: s.q} }
func (s *sqStore) Reports() store.Reports             { return &reports{q: s.q} }
func (s *sqStore) Notifications() store.Notifications { return &notifications{q: s.q} }

func (s *sqStore) InTx(ctx context.Context, fn func(store.Store) error) error {
	if s.db == nil {
		return fn(s)
	}
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(&sqStore{q: tx}); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *sqStore) HealthPing(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	return s.db.PingContext(ctx)
}

// isUniqueViolation matches SQLite's unique constraint error text; the
// driver does not expose a stable typed error for it.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// nullIfEmpty maps "" to NULL so rows provisioned without an email do
// not collide on the unique index.
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func marshalMetadata(m map[string]interface{}) (any, error) {
	if m == nil {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func unmarshalMetadata(s sql.NullString) (map[string]interface{}, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(s.String), &m); err != nil {
		return nil, err
	}
	return m, nil
}

// --- Users ---

type users struct{ q querier }

func (u *users) Create(ctx context.Context, m *model.User) (*model.User, error) {
	now := time.Now().UTC()
	role := m.Role
	if role == "" {
		role = "user"
	}
	_, err := u.q.ExecContext(ctx, `
        INSERT INTO users (user_id, email, role, credits, username, bio, avatar, profile_complete, creation_time)
        VALUES (?,?,?,?,?,?,?,?,?)
    `, m.UserID, nullIfEmpty(m.Email), role, m.Credits, m.Username, m.Bio, m.Avatar, m.ProfileComplete, now)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("user %s: %w", m.UserID, model.ErrDuplicateEngagement)
		}
		return nil, err
	}
	out := *m
	out.Role = role
	out.CreationTime = now
	return &out, nil
}

func (u *users) Ensure(ctx context.Context, userID, role string) error {
	if role == "" {
		role = "user"
	}
	_, err := u.q.ExecContext(ctx, `
        INSERT INTO users (user_id, role, creation_time)
        VALUES (?,?,?)
        ON CONFLICT (user_id) DO NOTHING
    `, userID, role, time.Now().UTC())
	return err
}

func (u *users) Get(ctx context.Context, userID string) (*model.User, error) {
	var out model.User
	var email sql.NullString
	row := u.q.QueryRowContext(ctx, `
        SELECT user_id, email, role, credits, username, bio, avatar, profile_complete, last_login, creation_time
        FROM users WHERE user_id=?
    `, userID)
	err := row.Scan(&out.UserID, &email, &out.Role, &out.Credits, &out.Username,
		&out.Bio, &out.Avatar, &out.ProfileComplete, &out.LastLogin, &out.CreationTime)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	out.Email = email.String
	return &out, nil
}

func (u *users) AddCredits(ctx context.Context, userID string, delta int64) (int64, error) {
	var balance int64
	row := u.q.QueryRowContext(ctx, `
        UPDATE users SET credits = credits + ? WHERE user_id=? RETURNING credits
    `, delta, userID)
	if err := row.Scan(&balance); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, model.ErrNotFound
		}
		return 0, err
	}
	return balance, nil
}

func (u *users) SetBalance(ctx context.Context, userID string, balance int64) (int64, error) {
	var old int64
	row := u.q.QueryRowContext(ctx, `SELECT credits FROM users WHERE user_id=?`, userID)
	if err := row.Scan(&old); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, model.ErrNotFound
		}
		return 0, err
	}
	if _, err := u.q.ExecContext(ctx, `UPDATE users SET credits=? WHERE user_id=?`, balance, userID); err != nil {
		return 0, err
	}
	return old, nil
}

func (u *users) AwardDailyLogin(ctx context.Context, userID string, now time.Time, bonus int64) (bool, error) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	res, err := u.q.ExecContext(ctx, `
        UPDATE users SET credits = credits + ?
        WHERE user_id=? AND (last_login IS NULL OR last_login < ?)
    `, bonus, userID, dayStart.UTC())
	if err != nil {
		return false, err
	}
	awarded, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	refresh, err := u.q.ExecContext(ctx, `UPDATE users SET last_login=? WHERE user_id=?`, now.UTC(), userID)
	if err != nil {
		return false, err
	}
	if n, err := refresh.RowsAffected(); err != nil {
		return false, err
	} else if n == 0 {
		return false, model.ErrNotFound
	}
	return awarded > 0, nil
}

func (u *users) UpdateProfile(ctx context.Context, userID string, username, bio, avatar *string) error {
	res, err := u.q.ExecContext(ctx, `
        UPDATE users SET
            username = COALESCE(?, username),
            bio      = COALESCE(?, bio),
            avatar   = COALESCE(?, avatar)
        WHERE user_id=?
    `, username, bio, avatar, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (u *users) LatchProfileComplete(ctx context.Context, userID string) (bool, error) {
	res, err := u.q.ExecContext(ctx, `
        UPDATE users SET profile_complete=TRUE
        WHERE user_id=? AND profile_complete=FALSE
          AND username <> ''
          AND bio IS NOT NULL AND bio <> ''
          AND avatar IS NOT NULL AND avatar <> ''
    `, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (u *users) Count(ctx context.Context) (int64, int64, error) {
	var total, admins int64
	row := u.q.QueryRowContext(ctx, `
        SELECT COUNT(*), COALESCE(SUM(CASE WHEN role='admin' THEN 1 ELSE 0 END),0) FROM users
    `)
	if err := row.Scan(&total, &admins); err != nil {
		return 0, 0, err
	}
	return total, admins, nil
}

func (u *users) TotalCredits(ctx context.Context) (int64, error) {
	var total int64
	row := u.q.QueryRowContext(ctx, `SELECT COALESCE(SUM(credits), 0) FROM users`)
	if err := row.Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (u *users) TopByCredits(ctx context.Context, limit int) ([]*model.User, error) {
	rows, err := u.q.QueryContext(ctx, `
        SELECT user_id, email, role, credits, username, bio, avatar, profile_complete, last_login, creation_time
        FROM users ORDER BY credits DESC, user_id ASC LIMIT ?
    `, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []*model.User
	for rows.Next() {
		var m model.User
		var email sql.NullString
		if err := rows.Scan(&m.UserID, &email, &m.Role, &m.Credits, &m.Username,
			&m.Bio, &m.Avatar, &m.ProfileComplete, &m.LastLogin, &m.CreationTime); err != nil {
			return nil, err
		}
		m.Email = email.String
		res = append(res, &m)
	}
	return res, rows.Err()
}

// --- Activities ---

type activities struct{ q querier }

func (a *activities) Append(ctx context.Context, m *model.Activity) (*model.Activity, error) {
	id := m.ActivityID
	if id == "" {
		id = uuid.New().String()
	}
	meta, err := marshalMetadata(m.Metadata)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	_, err = a.q.ExecContext(ctx, `
        INSERT INTO activities (activity_id, user_id, action, description, credits_change, metadata, creation_time)
        VALUES (?,?,?,?,?,?,?)
    `, id, m.UserID, string(m.Action), m.Description, m.CreditsChange, meta, now)
	if err != nil {
		return nil, err
	}
	out := *m
	out.ActivityID = id
	out.CreationTime = now
	return &out, nil
}

const activityColumns = `activity_id, user_id, action, description, credits_change, metadata, creation_time`

func scanActivities(rows *sql.Rows) ([]*model.Activity, error) {
	defer func() { _ = rows.Close() }()
	var res []*model.Activity
	for rows.Next() {
		var m model.Activity
		var action string
		var meta sql.NullString
		if err := rows.Scan(&m.ActivityID, &m.UserID, &action, &m.Description,
			&m.CreditsChange, &meta, &m.CreationTime); err != nil {
			return nil, err
		}
		m.Action = model.Action(action)
		md, err := unmarshalMetadata(meta)
		if err != nil {
			return nil, err
		}
		m.Metadata = md
		res = append(res, &m)
	}
	return res, rows.Err()
}

func (a *activities) ListRecent(ctx context.Context, userID string, limit int) ([]*model.Activity, error) {
	rows, err := a.q.QueryContext(ctx, `
        SELECT `+activityColumns+` FROM activities
        WHERE user_id=? ORDER BY creation_time DESC, activity_id DESC LIMIT ?
    `, userID, limit)
	if err != nil {
		return nil, err
	}
	return scanActivities(rows)
}

func (a *activities) ListAllRecent(ctx context.Context, limit int) ([]*model.Activity, error) {
	rows, err := a.q.QueryContext(ctx, `
        SELECT `+activityColumns+` FROM activities
        ORDER BY creation_time DESC, activity_id DESC LIMIT ?
    `, limit)
	if err != nil {
		return nil, err
	}
	return scanActivities(rows)
}

func (a *activities) SumByAction(ctx context.Context, userID string) (map[model.Action]int64, error) {
	rows, err := a.q.QueryContext(ctx, `
        SELECT action, COALESCE(SUM(credits_change),0) FROM activities
        WHERE user_id=? GROUP BY action
    `, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	res := make(map[model.Action]int64)
	for rows.Next() {
		var action string
		var sum int64
		if err := rows.Scan(&action, &sum); err != nil {
			return nil, err
		}
		res[model.Action(action)] = sum
	}
	return res, rows.Err()
}

func (a *activities) SumCredits(ctx context.Context, userID string) (int64, error) {
	var sum int64
	row := a.q.QueryRowContext(ctx, `
        SELECT COALESCE(SUM(credits_change),0) FROM activities WHERE user_id=?
    `, userID)
	if err := row.Scan(&sum); err != nil {
		return 0, err
	}
	return sum, nil
}

// --- Saves ---

type saves struct{ q querier }

func (s *saves) Create(ctx context.Context, m *model.SavedContent) (*model.SavedContent, error) {
	now := time.Now().UTC()
	_, err := s.q.ExecContext(ctx, `
        INSERT INTO saved_content (user_id, content_id, source, title, description, url, image, creation_time)
        VALUES (?,?,?,?,?,?,?,?)
    `, m.UserID, m.ContentID, m.Source, m.Title, m.Description, m.URL, m.Image, now)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, model.ErrDuplicateEngagement
		}
		return nil, err
	}
	out := *m
	out.CreationTime = now
	return &out, nil
}

func (s *saves) ListRecent(ctx context.Context, userID string, limit int) ([]*model.SavedContent, error) {
	rows, err := s.q.QueryContext(ctx, `
        SELECT user_id, content_id, source, title, description, url, image, creation_time
        FROM saved_content WHERE user_id=?
        ORDER BY creation_time DESC, content_id DESC LIMIT ?
    `, userID, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []*model.SavedContent
	for rows.Next() {
		var m model.SavedContent
		if err := rows.Scan(&m.UserID, &m.ContentID, &m.Source, &m.Title,
			&m.Description, &m.URL, &m.Image, &m.CreationTime); err != nil {
			return nil, err
		}
		res = append(res, &m)
	}
	return res, rows.Err()
}

// --- Reports ---

type reports struct{ q querier }

func (r *reports) Create(ctx context.Context, m *model.Report) (*model.Report, error) {
	id := m.ReportID
	if id == "" {
		id = uuid.New().String()
	}
	now := time.Now().UTC()
	_, err := r.q.ExecContext(ctx, `
        INSERT INTO reports (report_id, user_id, content_id, source, reason, description, status, creation_time)
        VALUES (?,?,?,?,?,?,'pending',?)
    `, id, m.UserID, m.ContentID, m.Source, m.Reason, m.Description, now)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, model.ErrDuplicateEngagement
		}
		return nil, err
	}
	out := *m
	out.ReportID = id
	out.Status = "pending"
	out.CreationTime = now
	return &out, nil
}

func (r *reports) ListRecent(ctx context.Context, limit int) ([]*model.Report, error) {
	rows, err := r.q.QueryContext(ctx, `
        SELECT report_id, user_id, content_id, source, reason, description, status, creation_time
        FROM reports ORDER BY creation_time DESC, report_id DESC LIMIT ?
    `, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []*model.Report
	for rows.Next() {
		var m model.Report
		if err := rows.Scan(&m.ReportID, &m.UserID, &m.ContentID, &m.Source,
			&m.Reason, &m.Description, &m.Status, &m.CreationTime); err != nil {
			return nil, err
		}
		res = append(res, &m)
	}
	return res, rows.Err()
}

// --- Notifications ---

type notifications struct{ q querier }

func (n *notifications) Create(ctx context.Context, m *model.Notification) (*model.Notification, error) {
	id := m.NotificationID
	if id == "" {
		id = uuid.New().String()
	}
	meta, err := marshalMetadata(m.Metadata)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	_, err = n.q.ExecContext(ctx, `
        INSERT INTO notifications (notification_id, user_id, type, message, metadata, read, creation_time)
        VALUES (?,?,?,?,?,0,?)
    `, id, m.UserID, m.Type, m.Message, meta, now)
	if err != nil {
		return nil, err
	}
	out := *m
	out.NotificationID = id
	out.Read = false
	out.CreationTime = now
	return &out, nil
}

func (n *notifications) ListRecent(ctx context.Context, userID string, limit int) ([]*model.Notification, error) {
	rows, err := n.q.QueryContext(ctx, `
        SELECT notification_id, user_id, type, message, metadata, read, creation_time
        FROM notifications WHERE user_id=?
        ORDER BY creation_time DESC, notification_id DESC LIMIT ?
    `, userID, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []*model.Notification
	for rows.Next() {
		var m model.Notification
		var meta sql.NullString
		if err := rows.Scan(&m.NotificationID, &m.UserID, &m.Type, &m.Message,
			&meta, &m.Read, &m.CreationTime); err != nil {
			return nil, err
		}
		md, err := unmarshalMetadata(meta)
		if err != nil {
			return nil, err
		}
		m.Metadata = md
		res = append(res, &m)
	}
	return res, rows.Err()
}

func (n *notifications) MarkRead(ctx context.Context, userID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]any, 0, len(ids)+1)
	args = append(args, userID)
	for _, id := range ids {
		args = append(args, id)
	}
	_, err := n.q.ExecContext(ctx, `
        UPDATE notifications SET read=1
        WHERE user_id=? AND notification_id IN (`+placeholders+`)
    `, args...)
	return err
}
