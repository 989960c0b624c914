package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository contains all DB interactions needed by the engine. InTx runs
// the callback against a transaction-backed Repository; every multi-row
// mutation in the engine goes through it so cascades commit atomically.
type Repository interface {
	InTx(ctx context.Context, fn func(Repository) error) error

	// Participants
	CreateParticipant(ctx context.Context, p *Participant) error
	GetParticipantByID(ctx context.Context, id uuid.UUID) (*Participant, error)
	GetParticipantByToken(ctx context.Context, token string) (*Participant, error)
	ListParticipants(ctx context.Context) ([]Participant, error)
	CountParticipants(ctx context.Context) (int, error)
	DeleteParticipant(ctx context.Context, id uuid.UUID) error

	// Admins
	GetAdminByUsername(ctx context.Context, username string) (*Admin, error)
	UpsertAdmin(ctx context.Context, username, passwordHash string) (*Admin, error)

	// Timeslots
	CreateTimeslot(ctx context.Context, t *Timeslot) error
	GetTimeslotByID(ctx context.Context, id uuid.UUID) (*Timeslot, error)
	// GetTimeslotForUpdate locks the slot row for the rest of the enclosing
	// transaction, serializing capacity check-then-write.
	GetTimeslotForUpdate(ctx context.Context, id uuid.UUID) (*Timeslot, error)
	ListTimeslots(ctx context.Context, limit, offset int) ([]Timeslot, error)
	CountTimeslots(ctx context.Context) (int, error)
	// ListAvailableTimeslots is the discovery hot path: future slots of the
	// given kind (dual matches either kind) with spare effective capacity,
	// optionally restricted to a start-time range.
	ListAvailableTimeslots(ctx context.Context, kind AppointmentType, from, to *time.Time, now time.Time) ([]TimeslotAvailability, error)
	UpdateTimeslot(ctx context.Context, t *Timeslot) error
	DeleteTimeslot(ctx context.Context, id uuid.UUID) error
	SetTimeslotType(ctx context.Context, id uuid.UUID, newType AppointmentType) error
	// SetFeaturedTimeslot marks one slot featured and clears all others;
	// nil clears the flag everywhere.
	SetFeaturedTimeslot(ctx context.Context, id *uuid.UUID) error
	GetFeaturedTimeslot(ctx context.Context) (*Timeslot, error)

	// Bookings
	CreateBooking(ctx context.Context, b *Booking) error
	GetBookingByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	GetBookingDetail(ctx context.Context, id uuid.UUID) (*BookingDetail, error)
	ListBookingsByParticipant(ctx context.Context, participantID uuid.UUID, activeOnly bool) ([]Booking, error)
	ListBookingsByTimeslot(ctx context.Context, timeslotID uuid.UUID, activeOnly bool) ([]Booking, error)
	ListBookingDetails(ctx context.Context) ([]BookingDetail, error)
	// GetActiveFollowup resolves the follow-up leg of a primary booking by
	// reverse parent lookup; ErrBookingNotFound when none exists.
	GetActiveFollowup(ctx context.Context, primaryID uuid.UUID) (*Booking, error)
	CountActiveBookings(ctx context.Context, timeslotID uuid.UUID) (int, error)
	CountActiveBookingsByKind(ctx context.Context, timeslotID uuid.UUID, isFollowup bool) (int, error)
	UpdateBookingStatus(ctx context.Context, id uuid.UUID, status BookingStatus) error
	UpdateBookingTimeslot(ctx context.Context, id, timeslotID uuid.UUID) error
	SetResultStatus(ctx context.Context, id uuid.UUID, status ResultStatus) error
	DeleteBookings(ctx context.Context, ids []uuid.UUID) error
	ListPastUnreviewed(ctx context.Context, now time.Time) ([]BookingDetail, error)

	// Reminders
	ListNeedingReminder(ctx context.Context, daysBefore int, now time.Time) ([]BookingDetail, error)
	MarkReminderSent(ctx context.Context, bookingID uuid.UUID, daysBefore int, at time.Time) error

	// Activity log
	InsertActivity(ctx context.Context, entry ActivityLog) error
	ListActivity(ctx context.Context, limit, offset int) ([]ActivityLog, error)
	CountActivity(ctx context.Context) (int, error)
}
