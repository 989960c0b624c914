// Package notify delivers participant and admin emails over SMTP. When no
// SMTP server is configured the mailer logs the message instead of sending
// it, which keeps local development working without a mail account.
package notify

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/studyslots/booking-server/internal/booking"
	"github.com/studyslots/booking-server/internal/config"
)

type Mailer struct {
	dialer     *gomail.Dialer
	from       string
	adminEmail string
	baseURL    string
}

var _ booking.Notifier = (*Mailer)(nil)

func NewMailer(cfg config.Config) *Mailer {
	m := &Mailer{
		from:       cfg.SMTPFrom,
		adminEmail: cfg.AdminEmail,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
	}
	if cfg.SMTPConfigured() {
		m.dialer = gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
	} else {
		log.Println("mailer: SMTP not configured, emails will be logged instead of sent")
	}
	return m
}

const (
	dateFormat = "Monday, 02.01.2006"
	timeFormat = "15:04"
)

func slotDate(t booking.Timeslot) string { return t.StartTime.Format(dateFormat) }

func slotTime(t booking.Timeslot) string {
	return t.StartTime.Format(timeFormat) + " - " + t.EndTime.Format(timeFormat)
}

func slotLocation(t booking.Timeslot) string {
	if t.Location == "" {
		return "Wird noch bekannt gegeben"
	}
	return t.Location
}

func kindLabel(isFollowup bool) string {
	if isFollowup {
		return "Folgetermin"
	}
	return "Ersttermin"
}

func slotBlock(label string, t booking.Timeslot) string {
	return fmt.Sprintf("%s:\n- Datum: %s\n- Uhrzeit: %s\n- Ort: %s\n",
		label, slotDate(t), slotTime(t), slotLocation(t))
}

func (m *Mailer) PairRegistered(ctx context.Context, p booking.Participant, primary, followup booking.Timeslot) error {
	subject := "Terminbestätigung - Studie Teilnahme (2 Termine)"

	var b strings.Builder
	fmt.Fprintf(&b, "Hallo %s,\n\n", p.Name)
	b.WriteString("Ihre Anmeldung war erfolgreich! Ihre beiden Termine wurden gebucht.\n\n")
	b.WriteString(slotBlock("Ersttermin", primary))
	b.WriteString("\n")
	b.WriteString(slotBlock("Folgetermin", followup))
	fmt.Fprintf(&b, "\nIhre Termine verwalten:\n%s/booking/%s\n", m.baseURL, p.ConfirmationToken)
	b.WriteString("\nMit freundlichen Grüßen\nIhr Studienteam\n")

	ics := buildCalendar([]icsEvent{
		{slot: primary, summary: "Ersttermin - Studie Teilnahme"},
		{slot: followup, summary: "Folgetermin - Studie Teilnahme"},
	}, p.Name, m.from)

	return m.send(ctx, p.Email, subject, b.String(), ics)
}

func (m *Mailer) BookingConfirmed(ctx context.Context, p booking.Participant, slot booking.Timeslot, isFollowup bool) error {
	subject := "Terminbestätigung - " + kindLabel(isFollowup)

	var b strings.Builder
	fmt.Fprintf(&b, "Hallo %s,\n\nIhre Buchung wurde erfolgreich bestätigt!\n\n", p.Name)
	b.WriteString(slotBlock("Termindetails ("+kindLabel(isFollowup)+")", slot))
	b.WriteString("\nFalls Sie Fragen haben oder den Termin nicht wahrnehmen können, kontaktieren Sie uns bitte.\n")
	b.WriteString("\nMit freundlichen Grüßen\nIhr Studienteam\n")

	ics := buildICS(slot, kindLabel(isFollowup)+" - Studie Teilnahme", p.Name, m.from)
	return m.send(ctx, p.Email, subject, b.String(), ics)
}

func (m *Mailer) Rescheduled(ctx context.Context, p booking.Participant, oldSlot, newSlot booking.Timeslot, isFollowup bool) error {
	subject := "Terminänderung bestätigt"

	var b strings.Builder
	fmt.Fprintf(&b, "Hallo %s,\n\nIhr %s wurde verlegt.\n\n", p.Name, kindLabel(isFollowup))
	b.WriteString(slotBlock("Bisheriger Termin", oldSlot))
	b.WriteString("\n")
	b.WriteString(slotBlock("Neuer Termin", newSlot))
	b.WriteString("\nMit freundlichen Grüßen\nIhr Studienteam\n")

	ics := buildICS(newSlot, kindLabel(isFollowup)+" - Studie Teilnahme", p.Name, m.from)
	return m.send(ctx, p.Email, subject, b.String(), ics)
}

func (m *Mailer) CancellationConfirmed(ctx context.Context, p booking.Participant, primary, followup *booking.Timeslot) error {
	subject := "Terminabsage bestätigt"

	var b strings.Builder
	fmt.Fprintf(&b, "Hallo %s,\n\nIhre Termine wurden storniert.\n\n", p.Name)
	if primary != nil {
		b.WriteString(slotBlock("Ersttermin (storniert)", *primary))
		b.WriteString("\n")
	}
	if followup != nil {
		b.WriteString(slotBlock("Folgetermin (storniert)", *followup))
		b.WriteString("\n")
	}
	b.WriteString("Sie können sich jederzeit erneut anmelden.\n")
	b.WriteString("\nMit freundlichen Grüßen\nIhr Studienteam\n")

	return m.send(ctx, p.Email, subject, b.String(), "")
}

func (m *Mailer) TimeslotChanged(ctx context.Context, p booking.Participant, oldSlot, newSlot booking.Timeslot, isFollowup bool) error {
	subject := "Terminänderung durch Studienleitung"

	var b strings.Builder
	fmt.Fprintf(&b, "Hallo %s,\n\nIhr %s wurde von der Studienleitung geändert.\n\n", p.Name, kindLabel(isFollowup))
	b.WriteString(slotBlock("Bisheriger Termin", oldSlot))
	b.WriteString("\n")
	b.WriteString(slotBlock("Neuer Termin", newSlot))
	fmt.Fprintf(&b, "\nIhre Termine verwalten:\n%s/booking/%s\n", m.baseURL, p.ConfirmationToken)
	b.WriteString("\nMit freundlichen Grüßen\nIhr Studienteam\n")

	ics := buildICS(newSlot, kindLabel(isFollowup)+" - Studie Teilnahme", p.Name, m.from)
	return m.send(ctx, p.Email, subject, b.String(), ics)
}

func (m *Mailer) Reminder(ctx context.Context, p booking.Participant, slot booking.Timeslot, daysBefore int, isFollowup bool) error {
	var subject, lead string
	if daysBefore == 1 {
		subject = "Terminerinnerung - Ihr Termin morgen"
		lead = "Ihr Termin findet morgen statt."
	} else {
		subject = fmt.Sprintf("Terminerinnerung - Ihr Termin in %d Tagen", daysBefore)
		lead = fmt.Sprintf("Ihr Termin findet in %d Tagen statt.", daysBefore)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Hallo %s,\n\n%s\n\n", p.Name, lead)
	b.WriteString(slotBlock(kindLabel(isFollowup), slot))
	fmt.Fprintf(&b, "\nIhre Termine verwalten:\n%s/booking/%s\n", m.baseURL, p.ConfirmationToken)
	b.WriteString("\nMit freundlichen Grüßen\nIhr Studienteam\n")

	return m.send(ctx, p.Email, subject, b.String(), "")
}

func (m *Mailer) AdminAlert(ctx context.Context, event string, p booking.Participant, primary, followup *booking.Timeslot) error {
	if m.adminEmail == "" {
		return nil
	}

	var subject string
	switch event {
	case "registration":
		subject = "Neue Anmeldung: " + p.Name
	case "cancellation":
		subject = "Terminabsage: " + p.Name
	case "reschedule":
		subject = "Terminänderung: " + p.Name
	default:
		subject = "Terminsystem: " + event
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Teilnehmer: %s <%s>\n\n", p.Name, p.Email)
	if primary != nil {
		b.WriteString(slotBlock("Ersttermin", *primary))
		b.WriteString("\n")
	}
	if followup != nil {
		b.WriteString(slotBlock("Folgetermin", *followup))
	}

	return m.send(ctx, m.adminEmail, subject, b.String(), "")
}

func (m *Mailer) Custom(ctx context.Context, email, name, subject, message string) error {
	body := fmt.Sprintf("Hallo %s,\n\n%s\n\nMit freundlichen Grüßen\nIhr Studienteam\n", name, message)
	return m.send(ctx, email, subject, body, "")
}

func (m *Mailer) send(ctx context.Context, to, subject, body, ics string) error {
	if m.dialer == nil {
		log.Printf("email to=%s subject=%q (SMTP disabled)\n%s", to, subject, body)
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	if ics != "" {
		msg.Attach("termin.ics", gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write([]byte(ics))
			return err
		}), gomail.SetHeader(map[string][]string{
			"Content-Type": {"text/calendar; charset=utf-8; method=REQUEST"},
		}))
	}

	start := time.Now()
	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	log.Printf("email sent to=%s subject=%q took=%s", to, subject, time.Since(start))
	return nil
}
