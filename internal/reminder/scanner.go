// Package reminder sends the 7-day and 1-day appointment reminders. A scan
// walks active bookings whose slot start falls inside the threshold and
// whose sent-timestamp for that threshold is still empty, so a booking gets
// each reminder at most once no matter how often scans run.
package reminder

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"github.com/studyslots/booking-server/internal/booking"
)

var thresholds = []int{7, 1}

type Scanner struct {
	repo     booking.Repository
	notifier booking.Notifier
	now      func() time.Time
	running  atomic.Bool
}

func NewScanner(repo booking.Repository, notifier booking.Notifier) *Scanner {
	return &Scanner{repo: repo, notifier: notifier, now: time.Now}
}

type ScanReport struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

// Scan processes both reminder thresholds once. Concurrent calls are
// collapsed: if a scan is already in flight the second call returns
// immediately with an empty report.
func (s *Scanner) Scan(ctx context.Context) (*ScanReport, error) {
	if !s.running.CompareAndSwap(false, true) {
		log.Println("reminder scan already running, skipping")
		return &ScanReport{}, nil
	}
	defer s.running.Store(false)

	report := &ScanReport{}
	for _, days := range thresholds {
		if err := s.scanThreshold(ctx, days, report); err != nil {
			return report, err
		}
	}
	return report, nil
}

func (s *Scanner) scanThreshold(ctx context.Context, daysBefore int, report *ScanReport) error {
	now := s.now()
	due, err := s.repo.ListNeedingReminder(ctx, daysBefore, now)
	if err != nil {
		return err
	}
	if len(due) > 0 {
		log.Printf("found %d bookings needing %d-day reminders", len(due), daysBefore)
	}

	for _, d := range due {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.Participant == nil || d.Timeslot == nil {
			continue
		}
		if err := s.notifier.Reminder(ctx, *d.Participant, *d.Timeslot, daysBefore, d.IsFollowup); err != nil {
			report.Failed++
			log.Printf("failed to send %d-day reminder booking=%s: %v", daysBefore, d.ID, err)
			continue
		}
		// Mark only after a successful send so a failed send is retried on
		// the next scan.
		if err := s.repo.MarkReminderSent(ctx, d.ID, daysBefore, now); err != nil {
			log.Printf("failed to mark %d-day reminder sent booking=%s: %v", daysBefore, d.ID, err)
			continue
		}
		report.Sent++
	}
	return nil
}

// Run scans immediately and then on every tick until the context ends.
func (s *Scanner) Run(ctx context.Context, interval time.Duration) {
	s.runOnce(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("reminder scanner stopping")
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Scanner) runOnce(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	start := time.Now()
	report, err := s.Scan(runCtx)
	if err != nil {
		log.Printf("reminder scan error: %v", err)
		return
	}
	if report.Sent > 0 || report.Failed > 0 {
		log.Printf("reminder scan done sent=%d failed=%d took=%s", report.Sent, report.Failed, time.Since(start))
	}
}
