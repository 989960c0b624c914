package booking

// The appointment type of a dual slot is a small state machine:
// dual -> primary or dual -> followup on the first booking of that kind,
// and back to dual once no active bookings remain. Slots created as
// primary or followup never change type. The transitions are pure so
// they can be tested without a database; callers persist the result.

// TypeAfterBooking returns the slot type after a booking of the given kind
// lands on the slot.
func TypeAfterBooking(slot Timeslot, isFollowup bool) AppointmentType {
	if slot.AppointmentType != TypeDual {
		return slot.AppointmentType
	}
	if isFollowup {
		return TypeFollowup
	}
	return TypePrimary
}

// TypeAfterVacated returns the slot type after bookings were cancelled or
// deleted, given the number of active bookings that remain on the slot.
func TypeAfterVacated(slot Timeslot, remainingActive int) AppointmentType {
	if remainingActive == 0 && slot.OriginalType == TypeDual {
		return TypeDual
	}
	return slot.AppointmentType
}
