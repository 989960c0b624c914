package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier is satisfied by *pgxpool.Pool and pgx.Tx so every repository
// method works both standalone and inside InTx.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type PgRepository struct {
	pool *pgxpool.Pool
	db   querier
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool, db: pool}
}

func (r *PgRepository) InTx(ctx context.Context, fn func(Repository) error) error {
	if _, nested := r.db.(pgx.Tx); nested {
		// Already transactional, run in the same tx.
		return fn(r)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	txRepo := &PgRepository{pool: r.pool, db: tx}
	if err := fn(txRepo); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Helpers

const participantCols = `id, name, email, confirmation_token, created_at`

func scanParticipant(row pgx.Row) (*Participant, error) {
	var p Participant
	err := row.Scan(&p.ID, &p.Name, &p.Email, &p.ConfirmationToken, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrParticipantNotFound
		}
		return nil, err
	}
	return &p, nil
}

const timeslotCols = `id, start_time, end_time, location, appointment_type, original_type,
		capacity, primary_capacity, followup_capacity, is_featured, created_at, updated_at`

func scanTimeslot(row pgx.Row) (*Timeslot, error) {
	var t Timeslot
	err := row.Scan(
		&t.ID,
		&t.StartTime,
		&t.EndTime,
		&t.Location,
		&t.AppointmentType,
		&t.OriginalType,
		&t.Capacity,
		&t.PrimaryCapacity,
		&t.FollowupCapacity,
		&t.IsFeatured,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTimeslotNotFound
		}
		return nil, err
	}
	return &t, nil
}

const bookingCols = `id, participant_id, timeslot_id, status, is_followup, parent_booking_id,
		appointment_type, result_status, reminder_7d_sent_at, reminder_1d_sent_at, created_at, updated_at`

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	err := row.Scan(
		&b.ID,
		&b.ParticipantID,
		&b.TimeslotID,
		&b.Status,
		&b.IsFollowup,
		&b.ParentBookingID,
		&b.AppointmentType,
		&b.ResultStatus,
		&b.Reminder7dSentAt,
		&b.Reminder1dSentAt,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

// detailCols joins booking, participant and timeslot columns in scan order.
const detailCols = `
		b.id, b.participant_id, b.timeslot_id, b.status, b.is_followup, b.parent_booking_id,
		b.appointment_type, b.result_status, b.reminder_7d_sent_at, b.reminder_1d_sent_at,
		b.created_at, b.updated_at,
		p.id, p.name, p.email, p.confirmation_token, p.created_at,
		t.id, t.start_time, t.end_time, t.location, t.appointment_type, t.original_type,
		t.capacity, t.primary_capacity, t.followup_capacity, t.is_featured, t.created_at, t.updated_at`

const detailFrom = `
	FROM bookings b
	JOIN participants p ON b.participant_id = p.id
	JOIN timeslots t ON b.timeslot_id = t.id`

func scanBookingDetail(row pgx.Row) (*BookingDetail, error) {
	var d BookingDetail
	var p Participant
	var t Timeslot
	err := row.Scan(
		&d.ID, &d.ParticipantID, &d.TimeslotID, &d.Status, &d.IsFollowup, &d.ParentBookingID,
		&d.AppointmentType, &d.ResultStatus, &d.Reminder7dSentAt, &d.Reminder1dSentAt,
		&d.CreatedAt, &d.UpdatedAt,
		&p.ID, &p.Name, &p.Email, &p.ConfirmationToken, &p.CreatedAt,
		&t.ID, &t.StartTime, &t.EndTime, &t.Location, &t.AppointmentType, &t.OriginalType,
		&t.Capacity, &t.PrimaryCapacity, &t.FollowupCapacity, &t.IsFeatured, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	d.Participant = &p
	d.Timeslot = &t
	return &d, nil
}

func collectBookingDetails(rows pgx.Rows) ([]BookingDetail, error) {
	defer rows.Close()
	var result []BookingDetail
	for rows.Next() {
		d, err := scanBookingDetail(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Participants

func (r *PgRepository) CreateParticipant(ctx context.Context, p *Participant) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	row := r.db.QueryRow(ctx, `
		INSERT INTO participants (id, name, email, confirmation_token, created_at)
		VALUES ($1, $2, $3, $4, now())
		RETURNING created_at
	`, p.ID, p.Name, p.Email, p.ConfirmationToken)
	return row.Scan(&p.CreatedAt)
}

func (r *PgRepository) GetParticipantByID(ctx context.Context, id uuid.UUID) (*Participant, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+participantCols+`
		FROM participants
		WHERE id = $1
	`, id)
	return scanParticipant(row)
}

func (r *PgRepository) GetParticipantByToken(ctx context.Context, token string) (*Participant, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+participantCols+`
		FROM participants
		WHERE confirmation_token = $1
	`, token)
	return scanParticipant(row)
}

func (r *PgRepository) ListParticipants(ctx context.Context) ([]Participant, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+participantCols+`
		FROM participants
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Participant
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	return result, rows.Err()
}

func (r *PgRepository) CountParticipants(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM participants`).Scan(&n)
	return n, err
}

func (r *PgRepository) DeleteParticipant(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM participants WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrParticipantNotFound
	}
	return nil
}

// Admins

func (r *PgRepository) GetAdminByUsername(ctx context.Context, username string) (*Admin, error) {
	var a Admin
	err := r.db.QueryRow(ctx, `
		SELECT id, username, password_hash, created_at
		FROM admins
		WHERE username = $1
	`, username).Scan(&a.ID, &a.Username, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *PgRepository) UpsertAdmin(ctx context.Context, username, passwordHash string) (*Admin, error) {
	var a Admin
	err := r.db.QueryRow(ctx, `
		INSERT INTO admins (id, username, password_hash, created_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (username) DO UPDATE SET password_hash = EXCLUDED.password_hash
		RETURNING id, username, password_hash, created_at
	`, uuid.New(), username, passwordHash).Scan(&a.ID, &a.Username, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("upsert admin: %w", err)
	}
	return &a, nil
}

// Timeslots

func (r *PgRepository) CreateTimeslot(ctx context.Context, t *Timeslot) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	row := r.db.QueryRow(ctx, `
		INSERT INTO timeslots (id, start_time, end_time, location, appointment_type, original_type,
			capacity, primary_capacity, followup_capacity, is_featured, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now(), now())
		RETURNING created_at, updated_at
	`, t.ID, t.StartTime, t.EndTime, t.Location, t.AppointmentType, t.OriginalType,
		t.Capacity, t.PrimaryCapacity, t.FollowupCapacity, t.IsFeatured)
	return row.Scan(&t.CreatedAt, &t.UpdatedAt)
}

func (r *PgRepository) GetTimeslotByID(ctx context.Context, id uuid.UUID) (*Timeslot, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+timeslotCols+`
		FROM timeslots
		WHERE id = $1
	`, id)
	return scanTimeslot(row)
}

func (r *PgRepository) GetTimeslotForUpdate(ctx context.Context, id uuid.UUID) (*Timeslot, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+timeslotCols+`
		FROM timeslots
		WHERE id = $1
		FOR UPDATE
	`, id)
	return scanTimeslot(row)
}

func (r *PgRepository) ListTimeslots(ctx context.Context, limit, offset int) ([]Timeslot, error) {
	query := `
		SELECT ` + timeslotCols + `
		FROM timeslots
		ORDER BY start_time ASC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1 OFFSET $2`
		args = append(args, limit, offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Timeslot
	for rows.Next() {
		t, err := scanTimeslot(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *t)
	}
	return result, rows.Err()
}

func (r *PgRepository) CountTimeslots(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM timeslots`).Scan(&n)
	return n, err
}

func (r *PgRepository) ListAvailableTimeslots(ctx context.Context, kind AppointmentType, from, to *time.Time, now time.Time) ([]TimeslotAvailability, error) {
	isFollowup := kind == TypeFollowup
	query := `
		SELECT t.` + `id, t.start_time, t.end_time, t.location, t.appointment_type, t.original_type,
			t.capacity, t.primary_capacity, t.followup_capacity, t.is_featured, t.created_at, t.updated_at,
			(SELECT COUNT(*) FROM bookings b WHERE b.timeslot_id = t.id AND b.status = 'active') AS booked_count,
			(SELECT COUNT(*) FROM bookings b WHERE b.timeslot_id = t.id AND b.status = 'active' AND b.is_followup = $3) AS kind_count
		FROM timeslots t
		WHERE t.start_time > $1
		  AND (t.appointment_type = $2 OR t.appointment_type = 'dual')`
	args := []any{now, kind, isFollowup}
	if from != nil {
		args = append(args, *from)
		query += fmt.Sprintf(` AND t.start_time >= $%d`, len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(` AND t.start_time <= $%d`, len(args))
	}
	query += ` ORDER BY t.start_time ASC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []TimeslotAvailability
	for rows.Next() {
		var a TimeslotAvailability
		var kindCount int
		err := rows.Scan(
			&a.ID, &a.StartTime, &a.EndTime, &a.Location, &a.AppointmentType, &a.OriginalType,
			&a.Capacity, &a.PrimaryCapacity, &a.FollowupCapacity, &a.IsFeatured, &a.CreatedAt, &a.UpdatedAt,
			&a.BookedCount, &kindCount,
		)
		if err != nil {
			return nil, err
		}

		// Capacity filter: variant-capacity slots count only bookings of
		// the requested kind, shared-capacity slots count everything.
		limit := a.EffectiveCapacity(isFollowup)
		if limit != nil {
			count := a.BookedCount
			if a.HasVariantCapacity() {
				count = kindCount
			}
			if count >= *limit {
				continue
			}
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

func (r *PgRepository) UpdateTimeslot(ctx context.Context, t *Timeslot) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE timeslots
		SET start_time = $2,
		    end_time = $3,
		    location = $4,
		    appointment_type = $5,
		    capacity = $6,
		    primary_capacity = $7,
		    followup_capacity = $8,
		    updated_at = now()
		WHERE id = $1
	`, t.ID, t.StartTime, t.EndTime, t.Location, t.AppointmentType,
		t.Capacity, t.PrimaryCapacity, t.FollowupCapacity)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTimeslotNotFound
	}
	return nil
}

func (r *PgRepository) DeleteTimeslot(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM timeslots WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTimeslotNotFound
	}
	return nil
}

func (r *PgRepository) SetTimeslotType(ctx context.Context, id uuid.UUID, newType AppointmentType) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE timeslots
		SET appointment_type = $2,
		    updated_at = now()
		WHERE id = $1
	`, id, newType)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTimeslotNotFound
	}
	return nil
}

func (r *PgRepository) SetFeaturedTimeslot(ctx context.Context, id *uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `UPDATE timeslots SET is_featured = false WHERE is_featured`); err != nil {
		return err
	}
	if id == nil {
		return nil
	}
	tag, err := r.db.Exec(ctx, `UPDATE timeslots SET is_featured = true, updated_at = now() WHERE id = $1`, *id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTimeslotNotFound
	}
	return nil
}

func (r *PgRepository) GetFeaturedTimeslot(ctx context.Context) (*Timeslot, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+timeslotCols+`
		FROM timeslots
		WHERE is_featured
		LIMIT 1
	`)
	return scanTimeslot(row)
}

// Bookings

func (r *PgRepository) CreateBooking(ctx context.Context, b *Booking) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.Status == "" {
		b.Status = StatusActive
	}
	row := r.db.QueryRow(ctx, `
		INSERT INTO bookings (id, participant_id, timeslot_id, status, is_followup, parent_booking_id,
			appointment_type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
		RETURNING created_at, updated_at
	`, b.ID, b.ParticipantID, b.TimeslotID, b.Status, b.IsFollowup, b.ParentBookingID, b.AppointmentType)
	return row.Scan(&b.CreatedAt, &b.UpdatedAt)
}

func (r *PgRepository) GetBookingByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+bookingCols+`
		FROM bookings
		WHERE id = $1
	`, id)
	return scanBooking(row)
}

func (r *PgRepository) GetBookingDetail(ctx context.Context, id uuid.UUID) (*BookingDetail, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+detailCols+detailFrom+`
		WHERE b.id = $1
	`, id)
	return scanBookingDetail(row)
}

func (r *PgRepository) ListBookingsByParticipant(ctx context.Context, participantID uuid.UUID, activeOnly bool) ([]Booking, error) {
	query := `
		SELECT ` + bookingCols + `
		FROM bookings
		WHERE participant_id = $1`
	if activeOnly {
		query += ` AND status = 'active'`
	}
	query += ` ORDER BY is_followup ASC, created_at ASC`

	rows, err := r.db.Query(ctx, query, participantID)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

func (r *PgRepository) ListBookingsByTimeslot(ctx context.Context, timeslotID uuid.UUID, activeOnly bool) ([]Booking, error) {
	query := `
		SELECT ` + bookingCols + `
		FROM bookings
		WHERE timeslot_id = $1`
	if activeOnly {
		query += ` AND status = 'active'`
	}

	rows, err := r.db.Query(ctx, query, timeslotID)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

func collectBookings(rows pgx.Rows) ([]Booking, error) {
	defer rows.Close()
	var result []Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *b)
	}
	return result, rows.Err()
}

func (r *PgRepository) ListBookingDetails(ctx context.Context) ([]BookingDetail, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+detailCols+detailFrom+`
		ORDER BY t.start_time ASC
	`)
	if err != nil {
		return nil, err
	}
	return collectBookingDetails(rows)
}

func (r *PgRepository) GetActiveFollowup(ctx context.Context, primaryID uuid.UUID) (*Booking, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+bookingCols+`
		FROM bookings
		WHERE parent_booking_id = $1 AND status = 'active'
	`, primaryID)
	return scanBooking(row)
}

func (r *PgRepository) CountActiveBookings(ctx context.Context, timeslotID uuid.UUID) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM bookings
		WHERE timeslot_id = $1 AND status = 'active'
	`, timeslotID).Scan(&n)
	return n, err
}

func (r *PgRepository) CountActiveBookingsByKind(ctx context.Context, timeslotID uuid.UUID, isFollowup bool) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM bookings
		WHERE timeslot_id = $1 AND status = 'active' AND is_followup = $2
	`, timeslotID, isFollowup).Scan(&n)
	return n, err
}

func (r *PgRepository) UpdateBookingStatus(ctx context.Context, id uuid.UUID, status BookingStatus) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE bookings
		SET status = $2,
		    updated_at = now()
		WHERE id = $1
	`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrBookingNotFound
	}
	return nil
}

func (r *PgRepository) UpdateBookingTimeslot(ctx context.Context, id, timeslotID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE bookings
		SET timeslot_id = $2,
		    updated_at = now()
		WHERE id = $1
	`, id, timeslotID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrBookingNotFound
	}
	return nil
}

func (r *PgRepository) SetResultStatus(ctx context.Context, id uuid.UUID, status ResultStatus) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE bookings
		SET result_status = $2,
		    updated_at = now()
		WHERE id = $1
	`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrBookingNotFound
	}
	return nil
}

func (r *PgRepository) DeleteBookings(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.db.Exec(ctx, `DELETE FROM bookings WHERE id = ANY($1)`, ids)
	return err
}

func (r *PgRepository) ListPastUnreviewed(ctx context.Context, now time.Time) ([]BookingDetail, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+detailCols+detailFrom+`
		WHERE t.end_time < $1
		  AND b.result_status IS NULL
		  AND b.status = 'active'
		ORDER BY t.start_time DESC
	`, now)
	if err != nil {
		return nil, err
	}
	return collectBookingDetails(rows)
}

// Reminders

func reminderColumn(daysBefore int) (string, error) {
	switch daysBefore {
	case 7:
		return "reminder_7d_sent_at", nil
	case 1:
		return "reminder_1d_sent_at", nil
	}
	return "", fmt.Errorf("unsupported reminder threshold: %d days", daysBefore)
}

func (r *PgRepository) ListNeedingReminder(ctx context.Context, daysBefore int, now time.Time) ([]BookingDetail, error) {
	col, err := reminderColumn(daysBefore)
	if err != nil {
		return nil, err
	}

	cutoff := now.Add(time.Duration(daysBefore) * 24 * time.Hour)
	rows, err := r.db.Query(ctx, `
		SELECT `+detailCols+detailFrom+`
		WHERE b.status = 'active'
		  AND b.`+col+` IS NULL
		  AND t.start_time > $1
		  AND t.start_time <= $2
		ORDER BY t.start_time ASC
	`, now, cutoff)
	if err != nil {
		return nil, err
	}
	return collectBookingDetails(rows)
}

func (r *PgRepository) MarkReminderSent(ctx context.Context, bookingID uuid.UUID, daysBefore int, at time.Time) error {
	col, err := reminderColumn(daysBefore)
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, `
		UPDATE bookings
		SET `+col+` = $2,
		    updated_at = now()
		WHERE id = $1
	`, bookingID, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// Activity log

func (r *PgRepository) InsertActivity(ctx context.Context, entry ActivityLog) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO activity_logs (action_type, actor_type, entity_id, details, created_at)
		VALUES ($1, $2, $3, $4, COALESCE($5, now()))
	`, entry.ActionType, entry.ActorType, entry.EntityID, entry.Details, nullableTime(entry.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert activity log: %w", err)
	}
	return nil
}

func (r *PgRepository) ListActivity(ctx context.Context, limit, offset int) ([]ActivityLog, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, action_type, actor_type, entity_id, details, created_at
		FROM activity_logs
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ActivityLog
	for rows.Next() {
		var entry ActivityLog
		if err := rows.Scan(&entry.ID, &entry.ActionType, &entry.ActorType, &entry.EntityID, &entry.Details, &entry.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}

func (r *PgRepository) CountActivity(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM activity_logs`).Scan(&n)
	return n, err
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
