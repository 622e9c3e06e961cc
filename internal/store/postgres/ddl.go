package postgres

import (
	"context"
	"database/sql"
)

// Schema is the Postgres DDL for the engagement service. The compound
// unique indexes on saved_content and reports are the idempotency
// boundary for save/report actions.
const Schema = `
CREATE TABLE IF NOT EXISTS users (
    user_id          TEXT PRIMARY KEY,
    email            TEXT UNIQUE,
    role             TEXT NOT NULL DEFAULT 'user',
    credits          BIGINT NOT NULL DEFAULT 0,
    username         TEXT NOT NULL DEFAULT '',
    bio              TEXT,
    avatar           TEXT,
    profile_complete BOOLEAN NOT NULL DEFAULT FALSE,
    last_login       TIMESTAMPTZ,
    creation_time    TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS activities (
    activity_id    TEXT PRIMARY KEY,
    user_id        TEXT NOT NULL REFERENCES users(user_id),
    action         TEXT NOT NULL,
    description    TEXT NOT NULL,
    credits_change BIGINT NOT NULL DEFAULT 0,
    metadata       JSONB,
    creation_time  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_activities_user_time ON activities (user_id, creation_time DESC);

CREATE TABLE IF NOT EXISTS saved_content (
    user_id       TEXT NOT NULL REFERENCES users(user_id),
    content_id    TEXT NOT NULL,
    source        TEXT NOT NULL,
    title         TEXT NOT NULL,
    description   TEXT,
    url           TEXT NOT NULL,
    image         TEXT,
    creation_time TIMESTAMPTZ NOT NULL,
    UNIQUE (user_id, content_id, source)
);

CREATE TABLE IF NOT EXISTS reports (
    report_id     TEXT PRIMARY KEY,
    user_id       TEXT NOT NULL REFERENCES users(user_id),
    content_id    TEXT NOT NULL,
    source        TEXT NOT NULL,
    reason        TEXT NOT NULL,
    description   TEXT,
    status        TEXT NOT NULL DEFAULT 'pending',
    creation_time TIMESTAMPTZ NOT NULL,
    UNIQUE (user_id, content_id, source)
);

CREATE TABLE IF NOT EXISTS notifications (
    notification_id TEXT PRIMARY KEY,
    user_id         TEXT NOT NULL REFERENCES users(user_id),
    type            TEXT NOT NULL,
    message         TEXT NOT NULL,
    metadata        JSONB,
    read            BOOLEAN NOT NULL DEFAULT FALSE,
    creation_time   TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_notifications_user_time ON notifications (user_id, creation_time DESC);
`

// EnsureSchema applies the DDL. Statements are idempotent.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, Schema)
	return err
}
