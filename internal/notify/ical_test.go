package notify

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/studyslots/booking-server/internal/booking"
)

func TestBuildICS(t *testing.T) {
	slot := booking.Timeslot{
		ID:        uuid.New(),
		StartTime: time.Date(2026, time.October, 5, 9, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, time.October, 5, 10, 0, 0, 0, time.UTC),
		Location:  "Raum 2.04",
	}

	ics := buildICS(slot, "Ersttermin - Studie Teilnahme", "Ada Lovelace", "noreply@example.com")

	assert.True(t, strings.HasPrefix(ics, "BEGIN:VCALENDAR"))
	assert.True(t, strings.HasSuffix(ics, "END:VCALENDAR"))
	assert.Contains(t, ics, "DTSTART:20261005T090000Z")
	assert.Contains(t, ics, "DTEND:20261005T100000Z")
	assert.Contains(t, ics, "SUMMARY:Ersttermin - Studie Teilnahme")
	assert.Contains(t, ics, "LOCATION:Raum 2.04")
	assert.Contains(t, ics, "ORGANIZER:MAILTO:noreply@example.com")
	// Calendar lines are CRLF separated.
	assert.Contains(t, ics, "\r\nBEGIN:VEVENT\r\n")
}

func TestBuildCalendarTwoEvents(t *testing.T) {
	primary := booking.Timeslot{
		ID:        uuid.New(),
		StartTime: time.Date(2026, time.October, 5, 9, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, time.October, 5, 10, 0, 0, 0, time.UTC),
		Location:  "Raum 2.04",
	}
	followup := booking.Timeslot{
		ID:        uuid.New(),
		StartTime: time.Date(2026, time.November, 4, 9, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, time.November, 4, 10, 0, 0, 0, time.UTC),
		Location:  "Raum 2.04",
	}

	ics := buildCalendar([]icsEvent{
		{slot: primary, summary: "Ersttermin - Studie Teilnahme"},
		{slot: followup, summary: "Folgetermin - Studie Teilnahme"},
	}, "Ada Lovelace", "noreply@example.com")

	// One calendar document wrapping both events.
	assert.Equal(t, 1, strings.Count(ics, "BEGIN:VCALENDAR"))
	assert.Equal(t, 1, strings.Count(ics, "END:VCALENDAR"))
	assert.True(t, strings.HasSuffix(ics, "END:VCALENDAR"))
	assert.Equal(t, 2, strings.Count(ics, "BEGIN:VEVENT"))
	assert.Equal(t, 2, strings.Count(ics, "END:VEVENT"))
	assert.Contains(t, ics, "SUMMARY:Ersttermin - Studie Teilnahme")
	assert.Contains(t, ics, "SUMMARY:Folgetermin - Studie Teilnahme")
	assert.Contains(t, ics, "DTSTART:20261005T090000Z")
	assert.Contains(t, ics, "DTSTART:20261104T090000Z")
}

func TestBuildICSEscapesAndDefaults(t *testing.T) {
	slot := booking.Timeslot{
		ID:        uuid.New(),
		StartTime: time.Date(2026, time.October, 5, 9, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, time.October, 5, 10, 0, 0, 0, time.UTC),
	}

	ics := buildICS(slot, "Termin; mit, Sonderzeichen", "Ada", "noreply@example.com")

	assert.Contains(t, ics, "SUMMARY:Termin\\; mit\\, Sonderzeichen")
	assert.Contains(t, ics, "LOCATION:Wird noch bekannt gegeben")
}

func TestICalTimeConvertsToUTC(t *testing.T) {
	berlin := time.FixedZone("CET", 3600)
	local := time.Date(2026, time.October, 5, 10, 0, 0, 0, berlin)
	assert.Equal(t, "20261005T090000Z", icalTime(local))
}
