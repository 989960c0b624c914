package booking

import "context"

// Notifier is the outbound-email port. The engine invokes it after commit,
// fire-and-forget: implementations may block, but failures are only ever
// logged and never reach the participant-facing caller.
type Notifier interface {
	PairRegistered(ctx context.Context, p Participant, primary, followup Timeslot) error
	BookingConfirmed(ctx context.Context, p Participant, slot Timeslot, isFollowup bool) error
	Rescheduled(ctx context.Context, p Participant, oldSlot, newSlot Timeslot, isFollowup bool) error
	CancellationConfirmed(ctx context.Context, p Participant, primary, followup *Timeslot) error
	TimeslotChanged(ctx context.Context, p Participant, oldSlot, newSlot Timeslot, isFollowup bool) error
	Reminder(ctx context.Context, p Participant, slot Timeslot, daysBefore int, isFollowup bool) error
	AdminAlert(ctx context.Context, event string, p Participant, primary, followup *Timeslot) error
	Custom(ctx context.Context, email, name, subject, message string) error
}

// NopNotifier discards every notification. Used by tests and by commands
// that run without SMTP configuration.
type NopNotifier struct{}

func (NopNotifier) PairRegistered(context.Context, Participant, Timeslot, Timeslot) error {
	return nil
}
func (NopNotifier) BookingConfirmed(context.Context, Participant, Timeslot, bool) error { return nil }
func (NopNotifier) Rescheduled(context.Context, Participant, Timeslot, Timeslot, bool) error {
	return nil
}
func (NopNotifier) CancellationConfirmed(context.Context, Participant, *Timeslot, *Timeslot) error {
	return nil
}
func (NopNotifier) TimeslotChanged(context.Context, Participant, Timeslot, Timeslot, bool) error {
	return nil
}
func (NopNotifier) Reminder(context.Context, Participant, Timeslot, int, bool) error { return nil }
func (NopNotifier) AdminAlert(context.Context, string, Participant, *Timeslot, *Timeslot) error {
	return nil
}
func (NopNotifier) Custom(context.Context, string, string, string, string) error { return nil }
