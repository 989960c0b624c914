package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/studyslots/booking-server/internal/booking"
)

type icsEvent struct {
	slot    booking.Timeslot
	summary string
}

// buildICS renders a single-event calendar invite for an appointment.
// Timestamps use UTC so calendar clients agree on the instant regardless of
// their local timezone.
func buildICS(slot booking.Timeslot, summary, attendeeName, organizer string) string {
	return buildCalendar([]icsEvent{{slot: slot, summary: summary}}, attendeeName, organizer)
}

// buildCalendar renders one VCALENDAR holding a VEVENT per appointment, so
// a paired registration ships both dates in a single valid attachment.
func buildCalendar(events []icsEvent, attendeeName, organizer string) string {
	now := icalTime(time.Now())

	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//StudySlots//DE",
		"CALSCALE:GREGORIAN",
		"METHOD:REQUEST",
	}
	for _, ev := range events {
		location := ev.slot.Location
		if location == "" {
			location = "Wird noch bekannt gegeben"
		}
		uid := fmt.Sprintf("%s-%d@studyslots", ev.slot.ID, time.Now().UnixNano())

		lines = append(lines,
			"BEGIN:VEVENT",
			"UID:"+uid,
			"DTSTAMP:"+now,
			"DTSTART:"+icalTime(ev.slot.StartTime),
			"DTEND:"+icalTime(ev.slot.EndTime),
			"SUMMARY:"+icalEscape(ev.summary),
			"DESCRIPTION:Termin für die Teilnahme an der Studie",
			"LOCATION:"+icalEscape(location),
			fmt.Sprintf("ATTENDEE;CN=%s:MAILTO:participant@example.com", icalEscape(attendeeName)),
			"ORGANIZER:MAILTO:"+organizer,
			"STATUS:CONFIRMED",
			"SEQUENCE:0",
			"END:VEVENT",
		)
	}
	lines = append(lines, "END:VCALENDAR")
	return strings.Join(lines, "\r\n")
}

func icalTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

func icalEscape(s string) string {
	r := strings.NewReplacer("\\", "\\\\", ";", "\\;", ",", "\\,", "\n", "\\n")
	return r.Replace(s)
}
