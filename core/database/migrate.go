package database

import (
	"context"
	"fmt"

	"meetgrid/core/logger"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS events (
		id          VARCHAR(16) PRIMARY KEY,
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		location    TEXT NOT NULL DEFAULT '',
		dates       TEXT NOT NULL,
		start_time  VARCHAR(5) NOT NULL,
		end_time    VARCHAR(5) NOT NULL,
		status      VARCHAR(16) NOT NULL DEFAULT 'open',
		final_date  VARCHAR(10),
		final_time  VARCHAR(5),
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS event_participants (
		event_id   VARCHAR(16) NOT NULL REFERENCES events(id) ON DELETE CASCADE,
		name       TEXT NOT NULL,
		position   INT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (event_id, name)
	)`,
	`CREATE TABLE IF NOT EXISTS event_slots (
		event_id VARCHAR(16) NOT NULL REFERENCES events(id) ON DELETE CASCADE,
		date     VARCHAR(10) NOT NULL,
		time     VARCHAR(5) NOT NULL,
		position INT NOT NULL,
		PRIMARY KEY (event_id, date, time)
	)`,
	`CREATE TABLE IF NOT EXISTS slot_availability (
		event_id    VARCHAR(16) NOT NULL,
		date        VARCHAR(10) NOT NULL,
		time        VARCHAR(5) NOT NULL,
		participant TEXT NOT NULL,
		position    INT NOT NULL,
		PRIMARY KEY (event_id, date, time, participant),
		FOREIGN KEY (event_id, date, time) REFERENCES event_slots(event_id, date, time) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS event_invites (
		id         UUID PRIMARY KEY,
		event_id   VARCHAR(16) NOT NULL REFERENCES events(id) ON DELETE CASCADE,
		email      TEXT NOT NULL,
		status     VARCHAR(16) NOT NULL DEFAULT 'pending',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS event_invites_email_idx ON event_invites (event_id, LOWER(email))`,
	`CREATE TABLE IF NOT EXISTS notifications (
		id         UUID PRIMARY KEY,
		recipient  TEXT NOT NULL,
		subject    TEXT NOT NULL,
		body       TEXT NOT NULL,
		type       VARCHAR(32) NOT NULL,
		data       JSONB,
		status     VARCHAR(16) NOT NULL DEFAULT 'pending',
		attempts   INT NOT NULL DEFAULT 0,
		last_error TEXT NOT NULL DEFAULT '',
		sent_at    TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS notifications_pending_idx ON notifications (status, created_at)`,
}

// Migrate creates the tables used by the service. Statements are idempotent.
func Migrate(ctx context.Context, db IDatabase) error {
	for i, stmt := range schema {
		if err := db.ExecContext(ctx, stmt); err != nil {
			logger.Error("Database:Migrate", "statement", i, "error", err)
			return fmt.Errorf("migrate statement %d: %w", i, err)
		}
	}
	logger.Info("Database:Migrate:Success", "statements", len(schema))
	return nil
}
