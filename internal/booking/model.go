package booking

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentType string

const (
	TypePrimary  AppointmentType = "primary"
	TypeFollowup AppointmentType = "followup"
	TypeDual     AppointmentType = "dual"
)

func ValidAppointmentType(t AppointmentType) bool {
	switch t {
	case TypePrimary, TypeFollowup, TypeDual:
		return true
	}
	return false
}

type BookingStatus string

const (
	StatusActive    BookingStatus = "active"
	StatusCancelled BookingStatus = "cancelled"
)

type ResultStatus string

const (
	ResultSuccessful   ResultStatus = "successful"
	ResultIssuesArised ResultStatus = "issues_arised"
	ResultUnusableData ResultStatus = "unusable_data"
	ResultNoShow       ResultStatus = "no_show"
)

func ValidResultStatus(s ResultStatus) bool {
	switch s {
	case ResultSuccessful, ResultIssuesArised, ResultUnusableData, ResultNoShow:
		return true
	}
	return false
}

type Participant struct {
	ID                uuid.UUID
	Name              string
	Email             string
	ConfirmationToken string
	CreatedAt         time.Time
}

type Timeslot struct {
	ID              uuid.UUID
	StartTime       time.Time
	EndTime         time.Time
	Location        string
	AppointmentType AppointmentType
	OriginalType    AppointmentType // immutable after creation, revert target for dual slots
	Capacity        *int            // nil = unlimited
	PrimaryCapacity *int            // variant capacity for primary bookings, overrides Capacity
	FollowupCapacity *int           // variant capacity for follow-up bookings, overrides Capacity
	IsFeatured      bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// HasVariantCapacity reports whether the slot tracks primary and follow-up
// capacity separately. Such slots refuse shared-capacity bulk edits.
func (t *Timeslot) HasVariantCapacity() bool {
	return t.PrimaryCapacity != nil || t.FollowupCapacity != nil
}

// EffectiveCapacity returns the capacity that applies to a booking of the
// given kind, nil meaning unlimited.
func (t *Timeslot) EffectiveCapacity(isFollowup bool) *int {
	if isFollowup && t.FollowupCapacity != nil {
		return t.FollowupCapacity
	}
	if !isFollowup && t.PrimaryCapacity != nil {
		return t.PrimaryCapacity
	}
	return t.Capacity
}

// Accepts reports whether the slot's current type admits a booking of the
// given kind.
func (t *Timeslot) Accepts(isFollowup bool) bool {
	switch t.AppointmentType {
	case TypeDual:
		return true
	case TypeFollowup:
		return isFollowup
	default:
		return !isFollowup
	}
}

type Booking struct {
	ID              uuid.UUID
	ParticipantID   uuid.UUID
	TimeslotID      uuid.UUID
	Status          BookingStatus
	IsFollowup      bool
	ParentBookingID *uuid.UUID // set on follow-up legs, points at the primary sibling
	AppointmentType AppointmentType
	ResultStatus    *ResultStatus
	Reminder7dSentAt *time.Time
	Reminder1dSentAt *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (b *Booking) Active() bool {
	return b.Status == StatusActive
}

type Admin struct {
	ID           uuid.UUID
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

type ActivityLog struct {
	ID         int64
	ActionType string
	ActorType  string // "participant", "admin", "system"
	EntityID   *uuid.UUID
	Details    []byte // JSON payload
	CreatedAt  time.Time
}

// BookingDetail is a booking hydrated with its participant and timeslot.
type BookingDetail struct {
	Booking
	Participant *Participant
	Timeslot    *Timeslot
}

// TimeslotAvailability is a timeslot together with its active booking count,
// the shape returned by the public discovery query.
type TimeslotAvailability struct {
	Timeslot
	BookedCount int
}

// PairedAppointments groups a participant with whichever legs of their
// primary/follow-up pair exist, resolved before a destructive operation so
// notifications can describe the full before-state.
type PairedAppointments struct {
	Participant Participant
	Primary     *BookingDetail
	Followup    *BookingDetail
}

// Statistics summarizes bookings, timeslots and recruitment progress for the
// admin dashboard.
type Statistics struct {
	TotalBookings    int            `json:"totalBookings"`
	PrimaryBookings  int            `json:"primaryBookings"`
	FollowupBookings int            `json:"followupBookings"`
	Completed        int            `json:"completed"`
	Results          map[string]int `json:"results"`
	TotalTimeslots   int            `json:"totalTimeslots"`
	BookedTimeslots  int            `json:"bookedTimeslots"`
	Participants     int            `json:"participants"`
	ParticipantGoal  int            `json:"participantGoal"`
}
