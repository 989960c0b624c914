package booking

import "fmt"

// The engine surfaces every invariant violation as one of three error
// kinds; the API layer maps them to 400, 404 and 409. Common cases have
// package-level values so callers can match with errors.Is.

type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string { return e.Msg }

type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return e.Msg }

func validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

func conflictf(format string, args ...any) error {
	return &ConflictError{Msg: fmt.Sprintf(format, args...)}
}

var (
	ErrParticipantNotFound = &NotFoundError{Msg: "participant not found"}
	ErrTimeslotNotFound    = &NotFoundError{Msg: "timeslot not found"}
	ErrBookingNotFound     = &NotFoundError{Msg: "booking not found"}
	ErrAdminNotFound       = &NotFoundError{Msg: "admin not found"}

	ErrInvalidCredentials = &ValidationError{Msg: "invalid credentials"}
	ErrInvalidToken       = &ValidationError{Msg: "booking not found or invalid token"}

	ErrSlotFull                = &ConflictError{Msg: "timeslot has reached maximum capacity"}
	ErrSlotBeingBooked         = &ConflictError{Msg: "timeslot is currently being booked, please retry"}
	ErrBookingAlreadyCancelled = &ConflictError{Msg: "booking is already cancelled"}
)
