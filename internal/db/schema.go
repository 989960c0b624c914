package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates all tables and indexes if they do not exist yet.
// Statements are idempotent, so running it on every startup is safe.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS admins (
		id            uuid PRIMARY KEY,
		username      text UNIQUE NOT NULL,
		password_hash text NOT NULL,
		created_at    timestamptz NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS participants (
		id                 uuid PRIMARY KEY,
		name               text NOT NULL,
		email              text NOT NULL,
		confirmation_token text UNIQUE NOT NULL,
		created_at         timestamptz NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS timeslots (
		id                uuid PRIMARY KEY,
		start_time        timestamptz NOT NULL,
		end_time          timestamptz NOT NULL,
		location          text NOT NULL DEFAULT '',
		appointment_type  text NOT NULL DEFAULT 'primary',
		original_type     text NOT NULL DEFAULT 'primary',
		capacity          integer,
		primary_capacity  integer,
		followup_capacity integer,
		is_featured       boolean NOT NULL DEFAULT false,
		created_at        timestamptz NOT NULL DEFAULT now(),
		updated_at        timestamptz NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS bookings (
		id                  uuid PRIMARY KEY,
		participant_id      uuid NOT NULL REFERENCES participants(id),
		timeslot_id         uuid NOT NULL REFERENCES timeslots(id),
		status              text NOT NULL DEFAULT 'active',
		is_followup         boolean NOT NULL DEFAULT false,
		parent_booking_id   uuid REFERENCES bookings(id),
		appointment_type    text NOT NULL,
		result_status       text,
		reminder_7d_sent_at timestamptz,
		reminder_1d_sent_at timestamptz,
		created_at          timestamptz NOT NULL DEFAULT now(),
		updated_at          timestamptz NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS activity_logs (
		id          bigserial PRIMARY KEY,
		action_type text NOT NULL,
		actor_type  text NOT NULL DEFAULT '',
		entity_id   uuid,
		details     jsonb,
		created_at  timestamptz NOT NULL DEFAULT now()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_bookings_participant ON bookings(participant_id)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_timeslot ON bookings(timeslot_id)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_status ON bookings(status)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_parent ON bookings(parent_booking_id)`,
	`CREATE INDEX IF NOT EXISTS idx_timeslots_type ON timeslots(appointment_type)`,
	`CREATE INDEX IF NOT EXISTS idx_timeslots_start ON timeslots(start_time)`,
	`CREATE INDEX IF NOT EXISTS idx_participants_token ON participants(confirmation_token)`,
	`CREATE INDEX IF NOT EXISTS idx_activity_logs_created ON activity_logs(created_at)`,
}
