package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeAfterBooking(t *testing.T) {
	tests := []struct {
		name       string
		slotType   AppointmentType
		isFollowup bool
		want       AppointmentType
	}{
		{"dual flips to primary on primary booking", TypeDual, false, TypePrimary},
		{"dual flips to followup on followup booking", TypeDual, true, TypeFollowup},
		{"primary slot stays primary", TypePrimary, false, TypePrimary},
		{"followup slot stays followup", TypeFollowup, true, TypeFollowup},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slot := Timeslot{AppointmentType: tt.slotType, OriginalType: tt.slotType}
			assert.Equal(t, tt.want, TypeAfterBooking(slot, tt.isFollowup))
		})
	}
}

func TestTypeAfterVacated(t *testing.T) {
	tests := []struct {
		name         string
		current      AppointmentType
		original     AppointmentType
		remaining    int
		want         AppointmentType
	}{
		{"flipped slot reverts to dual when empty", TypePrimary, TypeDual, 0, TypeDual},
		{"flipped followup slot reverts to dual when empty", TypeFollowup, TypeDual, 0, TypeDual},
		{"flipped slot keeps type while bookings remain", TypePrimary, TypeDual, 2, TypePrimary},
		{"natively primary slot never reverts", TypePrimary, TypePrimary, 0, TypePrimary},
		{"natively followup slot never reverts", TypeFollowup, TypeFollowup, 0, TypeFollowup},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slot := Timeslot{AppointmentType: tt.current, OriginalType: tt.original}
			assert.Equal(t, tt.want, TypeAfterVacated(slot, tt.remaining))
		})
	}
}

func TestTimeslotAccepts(t *testing.T) {
	dual := Timeslot{AppointmentType: TypeDual}
	primary := Timeslot{AppointmentType: TypePrimary}
	followup := Timeslot{AppointmentType: TypeFollowup}

	assert.True(t, dual.Accepts(false))
	assert.True(t, dual.Accepts(true))
	assert.True(t, primary.Accepts(false))
	assert.False(t, primary.Accepts(true))
	assert.False(t, followup.Accepts(false))
	assert.True(t, followup.Accepts(true))
}

func TestEffectiveCapacity(t *testing.T) {
	shared := 5
	prim := 3
	fol := 2

	unlimited := Timeslot{}
	assert.Nil(t, unlimited.EffectiveCapacity(false))

	sharedOnly := Timeslot{Capacity: &shared}
	assert.Equal(t, 5, *sharedOnly.EffectiveCapacity(false))
	assert.Equal(t, 5, *sharedOnly.EffectiveCapacity(true))
	assert.False(t, sharedOnly.HasVariantCapacity())

	variant := Timeslot{Capacity: &shared, PrimaryCapacity: &prim, FollowupCapacity: &fol}
	assert.Equal(t, 3, *variant.EffectiveCapacity(false))
	assert.Equal(t, 2, *variant.EffectiveCapacity(true))
	assert.True(t, variant.HasVariantCapacity())
}
