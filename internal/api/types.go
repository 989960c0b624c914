package api

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/studyslots/booking-server/internal/booking"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Requests

type RegisterRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	PrimarySlotID  string `json:"primaryTimeslotId"`
	FollowupSlotID string `json:"followupTimeslotId"`
}

type BookRequest struct {
	ParticipantID string `json:"participantId"`
	TimeslotID    string `json:"timeslotId"`
	IsFollowup    bool   `json:"isFollowup"`
}

type RescheduleRequest struct {
	Token             string  `json:"token"`
	BookingID         string  `json:"bookingId"`
	NewTimeslotID     string  `json:"newTimeslotId"`
	NewFollowupSlotID *string `json:"newFollowupTimeslotId,omitempty"`
}

type CancelRequest struct {
	Token string `json:"token"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type TimeslotRequest struct {
	StartTime        time.Time `json:"startTime"`
	EndTime          time.Time `json:"endTime"`
	Location         string    `json:"location"`
	AppointmentType  string    `json:"appointmentType"`
	Capacity         *int      `json:"capacity"`
	PrimaryCapacity  *int      `json:"primaryCapacity"`
	FollowupCapacity *int      `json:"followupCapacity"`
}

type TimeslotSeriesRequest struct {
	StartDate        time.Time `json:"startDate"`
	EndDate          time.Time `json:"endDate"`
	Weekdays         []int     `json:"weekdays"` // 0 = Sunday
	DayStartHour     int       `json:"dayStartHour"`
	DayEndHour       int       `json:"dayEndHour"`
	DurationMinutes  int       `json:"durationMinutes"`
	Location         string    `json:"location"`
	AppointmentType  string    `json:"appointmentType"`
	Capacity         *int      `json:"capacity"`
	PrimaryCapacity  *int      `json:"primaryCapacity"`
	FollowupCapacity *int      `json:"followupCapacity"`
}

type TimeslotUpdateRequest struct {
	StartTime        *time.Time `json:"startTime"`
	EndTime          *time.Time `json:"endTime"`
	Location         *string    `json:"location"`
	AppointmentType  *string    `json:"appointmentType"`
	Capacity         *int       `json:"capacity"`
	ClearCapacity    bool       `json:"clearCapacity"`
	PrimaryCapacity  *int       `json:"primaryCapacity"`
	FollowupCapacity *int       `json:"followupCapacity"`
}

type BulkEditRequest struct {
	IDs []string `json:"timeslotIds"`
	TimeslotUpdateRequest
}

type BulkIDsRequest struct {
	IDs []string `json:"timeslotIds"`
}

type ResultStatusRequest struct {
	ResultStatus string `json:"resultStatus"`
}

type SendEmailRequest struct {
	ParticipantID string `json:"participantId"`
	Subject       string `json:"subject"`
	Message       string `json:"message"`
}

// Responses

type TimeslotResponse struct {
	ID               uuid.UUID `json:"id"`
	StartTime        time.Time `json:"startTime"`
	EndTime          time.Time `json:"endTime"`
	Location         string    `json:"location"`
	AppointmentType  string    `json:"appointmentType"`
	Capacity         *int      `json:"capacity"`
	PrimaryCapacity  *int      `json:"primaryCapacity,omitempty"`
	FollowupCapacity *int      `json:"followupCapacity,omitempty"`
	IsFeatured       bool      `json:"isFeatured"`
	BookedCount      *int      `json:"bookedCount,omitempty"`
}

func toTimeslotResponse(t booking.Timeslot) TimeslotResponse {
	return TimeslotResponse{
		ID:               t.ID,
		StartTime:        t.StartTime,
		EndTime:          t.EndTime,
		Location:         t.Location,
		AppointmentType:  string(t.AppointmentType),
		Capacity:         t.Capacity,
		PrimaryCapacity:  t.PrimaryCapacity,
		FollowupCapacity: t.FollowupCapacity,
		IsFeatured:       t.IsFeatured,
	}
}

func toAvailabilityResponse(a booking.TimeslotAvailability) TimeslotResponse {
	resp := toTimeslotResponse(a.Timeslot)
	count := a.BookedCount
	resp.BookedCount = &count
	return resp
}

type ParticipantResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

func toParticipantResponse(p booking.Participant) ParticipantResponse {
	return ParticipantResponse{ID: p.ID, Name: p.Name, Email: p.Email, CreatedAt: p.CreatedAt}
}

type BookingResponse struct {
	ID              uuid.UUID            `json:"id"`
	ParticipantID   uuid.UUID            `json:"participantId"`
	TimeslotID      uuid.UUID            `json:"timeslotId"`
	Status          string               `json:"status"`
	IsFollowup      bool                 `json:"isFollowup"`
	ParentBookingID *uuid.UUID           `json:"parentBookingId,omitempty"`
	ResultStatus    *string              `json:"resultStatus,omitempty"`
	CreatedAt       time.Time            `json:"createdAt"`
	Participant     *ParticipantResponse `json:"participant,omitempty"`
	Timeslot        *TimeslotResponse    `json:"timeslot,omitempty"`
}

func toBookingResponse(b booking.Booking) BookingResponse {
	var rs *string
	if b.ResultStatus != nil {
		s := string(*b.ResultStatus)
		rs = &s
	}
	return BookingResponse{
		ID:              b.ID,
		ParticipantID:   b.ParticipantID,
		TimeslotID:      b.TimeslotID,
		Status:          string(b.Status),
		IsFollowup:      b.IsFollowup,
		ParentBookingID: b.ParentBookingID,
		ResultStatus:    rs,
		CreatedAt:       b.CreatedAt,
	}
}

func toBookingDetailResponse(d booking.BookingDetail) BookingResponse {
	resp := toBookingResponse(d.Booking)
	if d.Participant != nil {
		p := toParticipantResponse(*d.Participant)
		resp.Participant = &p
	}
	if d.Timeslot != nil {
		t := toTimeslotResponse(*d.Timeslot)
		resp.Timeslot = &t
	}
	return resp
}

type RegisterResponse struct {
	ParticipantID     uuid.UUID           `json:"participantId"`
	ConfirmationToken string              `json:"confirmationToken"`
	PrimaryBookingID  uuid.UUID           `json:"primaryBookingId"`
	FollowupBookingID uuid.UUID           `json:"followupBookingId"`
	Participant       ParticipantResponse `json:"participant"`
	Primary           BookingResponse     `json:"primaryBooking"`
	Followup          BookingResponse     `json:"followupBooking"`
}

type RescheduleResponse struct {
	Booking         *BookingResponse `json:"booking,omitempty"`
	FollowupBooking *BookingResponse `json:"followupBooking,omitempty"`
}

// NeedsFollowupResponse is the 400 body telling the caller to resubmit the
// reschedule with a replacement follow-up slot. Field names match what
// booking clients already consume.
type NeedsFollowupResponse struct {
	RequiresFollowupReschedule bool `json:"requiresFollowupReschedule"`
	DaysDiff                   int  `json:"daysDiff"`
	MinDays                    int  `json:"minDays"`
	MaxDays                    int  `json:"maxDays"`
}

type PairResponse struct {
	Participant ParticipantResponse `json:"participant"`
	Primary     *BookingResponse    `json:"primary,omitempty"`
	Followup    *BookingResponse    `json:"followup,omitempty"`
}

type ActivityLogResponse struct {
	ID         int64           `json:"id"`
	ActionType string          `json:"actionType"`
	ActorType  string          `json:"actorType"`
	EntityID   *uuid.UUID      `json:"entityId,omitempty"`
	Details    json.RawMessage `json:"details,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

func toActivityLogResponse(l booking.ActivityLog) ActivityLogResponse {
	return ActivityLogResponse{
		ID:         l.ID,
		ActionType: l.ActionType,
		ActorType:  l.ActorType,
		EntityID:   l.EntityID,
		Details:    json.RawMessage(l.Details),
		CreatedAt:  l.CreatedAt,
	}
}

type BulkReportResponse struct {
	Succeeded []uuid.UUID       `json:"succeeded"`
	Failed    []BulkFailureItem `json:"failed"`
}

type BulkFailureItem struct {
	ID    uuid.UUID `json:"id"`
	Error string    `json:"error"`
}

func toBulkReportResponse(r *booking.BulkReport) BulkReportResponse {
	resp := BulkReportResponse{
		Succeeded: r.Succeeded,
		Failed:    make([]BulkFailureItem, 0, len(r.Failed)),
	}
	if resp.Succeeded == nil {
		resp.Succeeded = []uuid.UUID{}
	}
	for _, f := range r.Failed {
		resp.Failed = append(resp.Failed, BulkFailureItem{ID: f.ID, Error: f.Err.Error()})
	}
	return resp
}

type ConfigResponse struct {
	FollowupMinDays int `json:"followupMinDays"`
	FollowupMaxDays int `json:"followupMaxDays"`
	ParticipantGoal int `json:"participantGoal"`
}
