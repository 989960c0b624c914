package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Authenticate checks admin credentials against the stored bcrypt hash.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*Admin, error) {
	admin, err := s.repo.GetAdminByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrAdminNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return admin, nil
}

// BootstrapAdmin creates or updates the admin account from configuration.
// Called once at startup.
func (s *Service) BootstrapAdmin(ctx context.Context) error {
	if s.cfg.AdminUsername == "" || s.cfg.AdminPassword == "" {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(s.cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	if _, err := s.repo.UpsertAdmin(ctx, s.cfg.AdminUsername, string(hash)); err != nil {
		return fmt.Errorf("upsert admin account: %w", err)
	}
	return nil
}

type TimeslotInput struct {
	StartTime        time.Time
	EndTime          time.Time
	Location         string
	AppointmentType  AppointmentType
	Capacity         *int
	PrimaryCapacity  *int
	FollowupCapacity *int
}

func (in TimeslotInput) validate() error {
	if !in.EndTime.After(in.StartTime) {
		return validationf("end time must be after start time")
	}
	if !ValidAppointmentType(in.AppointmentType) {
		return validationf("appointment type must be primary, followup or dual")
	}
	for _, c := range []*int{in.Capacity, in.PrimaryCapacity, in.FollowupCapacity} {
		if c != nil && *c < 1 {
			return validationf("capacity must be at least 1")
		}
	}
	if (in.PrimaryCapacity == nil) != (in.FollowupCapacity == nil) {
		return validationf("primary and follow-up capacity must be set together")
	}
	if in.PrimaryCapacity != nil && in.AppointmentType != TypeDual {
		return validationf("variant capacities are only valid on dual timeslots")
	}
	return nil
}

// CreateTimeslot creates a single slot. The original type records what the
// slot should revert to once all bookings on it are gone.
func (s *Service) CreateTimeslot(ctx context.Context, in TimeslotInput) (*Timeslot, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	slot := &Timeslot{
		StartTime:        in.StartTime,
		EndTime:          in.EndTime,
		Location:         in.Location,
		AppointmentType:  in.AppointmentType,
		OriginalType:     in.AppointmentType,
		Capacity:         in.Capacity,
		PrimaryCapacity:  in.PrimaryCapacity,
		FollowupCapacity: in.FollowupCapacity,
	}

	err := s.repo.InTx(ctx, func(repo Repository) error {
		if err := repo.CreateTimeslot(ctx, slot); err != nil {
			return fmt.Errorf("create timeslot: %w", err)
		}
		s.logActivity(ctx, repo, ActionTimeslotCreated, "admin", &slot.ID, map[string]any{
			"start_time": slot.StartTime.Format(time.RFC3339),
			"type":       string(slot.AppointmentType),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return slot, nil
}

type SeriesInput struct {
	StartDate        time.Time
	EndDate          time.Time
	Weekdays         []time.Weekday // empty means every day
	DayStartHour     int
	DayEndHour       int
	DurationMinutes  int
	Location         string
	AppointmentType  AppointmentType
	Capacity         *int
	PrimaryCapacity  *int
	FollowupCapacity *int
}

// GenerateTimeslotSeries bulk-creates slots over a date range at a fixed
// cadence inside working hours.
func (s *Service) GenerateTimeslotSeries(ctx context.Context, in SeriesInput) ([]Timeslot, error) {
	if in.EndDate.Before(in.StartDate) {
		return nil, validationf("end date must not be before start date")
	}
	if in.DurationMinutes < 5 {
		return nil, validationf("slot duration must be at least 5 minutes")
	}
	if in.DayStartHour < 0 || in.DayEndHour > 24 || in.DayEndHour <= in.DayStartHour {
		return nil, validationf("working hours must satisfy 0 <= start < end <= 24")
	}
	probe := TimeslotInput{
		StartTime:        in.StartDate,
		EndTime:          in.StartDate.Add(time.Minute),
		AppointmentType:  in.AppointmentType,
		Capacity:         in.Capacity,
		PrimaryCapacity:  in.PrimaryCapacity,
		FollowupCapacity: in.FollowupCapacity,
	}
	if err := probe.validate(); err != nil {
		return nil, err
	}

	wanted := make(map[time.Weekday]bool, len(in.Weekdays))
	for _, wd := range in.Weekdays {
		wanted[wd] = true
	}

	duration := time.Duration(in.DurationMinutes) * time.Minute
	var created []Timeslot

	err := s.repo.InTx(ctx, func(repo Repository) error {
		for day := dateOnly(in.StartDate); !day.After(dateOnly(in.EndDate)); day = day.AddDate(0, 0, 1) {
			if len(wanted) > 0 && !wanted[day.Weekday()] {
				continue
			}
			dayEnd := day.Add(time.Duration(in.DayEndHour) * time.Hour)
			for start := day.Add(time.Duration(in.DayStartHour) * time.Hour); !start.Add(duration).After(dayEnd); start = start.Add(duration) {
				slot := Timeslot{
					StartTime:        start,
					EndTime:          start.Add(duration),
					Location:         in.Location,
					AppointmentType:  in.AppointmentType,
					OriginalType:     in.AppointmentType,
					Capacity:         in.Capacity,
					PrimaryCapacity:  in.PrimaryCapacity,
					FollowupCapacity: in.FollowupCapacity,
				}
				if err := repo.CreateTimeslot(ctx, &slot); err != nil {
					return fmt.Errorf("create timeslot in series: %w", err)
				}
				created = append(created, slot)
			}
		}
		s.logActivity(ctx, repo, ActionTimeslotCreated, "admin", nil, map[string]any{
			"series_count": len(created),
			"from":         in.StartDate.Format("2006-01-02"),
			"to":           in.EndDate.Format("2006-01-02"),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

type TimeslotUpdate struct {
	StartTime        *time.Time
	EndTime          *time.Time
	Location         *string
	AppointmentType  *AppointmentType
	Capacity         *int
	ClearCapacity    bool
	PrimaryCapacity  *int
	FollowupCapacity *int
}

// UpdateTimeslot edits a slot in place. Moving a slot in time re-validates
// the day-window for every booked pair touching it; time and location
// changes notify affected participants.
func (s *Service) UpdateTimeslot(ctx context.Context, id uuid.UUID, upd TimeslotUpdate) (*Timeslot, error) {
	return s.updateTimeslot(ctx, id, upd, false)
}

func (s *Service) updateTimeslot(ctx context.Context, id uuid.UUID, upd TimeslotUpdate, guardVariantCapacity bool) (*Timeslot, error) {
	var updated *Timeslot
	var notify []struct {
		participant Participant
		oldSlot     Timeslot
		isFollowup  bool
	}

	err := s.withSlotLocks(ctx, []uuid.UUID{id}, func(ctx context.Context) error {
		return s.repo.InTx(ctx, func(repo Repository) error {
			slot, err := repo.GetTimeslotForUpdate(ctx, id)
			if err != nil {
				return err
			}
			old := *slot

			// Bulk edits only touch the shared capacity; a slot split into
			// per-type capacities keeps them.
			if guardVariantCapacity && (upd.Capacity != nil || upd.ClearCapacity) && old.HasVariantCapacity() {
				return validationf("cannot change capacity, timeslot has separate primary and follow-up capacities")
			}

			if upd.StartTime != nil {
				slot.StartTime = *upd.StartTime
			}
			if upd.EndTime != nil {
				slot.EndTime = *upd.EndTime
			}
			if upd.Location != nil {
				slot.Location = *upd.Location
			}
			if upd.Capacity != nil {
				slot.Capacity = upd.Capacity
			}
			if upd.ClearCapacity {
				slot.Capacity = nil
			}
			if upd.PrimaryCapacity != nil {
				slot.PrimaryCapacity = upd.PrimaryCapacity
			}
			if upd.FollowupCapacity != nil {
				slot.FollowupCapacity = upd.FollowupCapacity
			}

			if upd.AppointmentType != nil && *upd.AppointmentType != slot.AppointmentType {
				if !ValidAppointmentType(*upd.AppointmentType) {
					return validationf("appointment type must be primary, followup or dual")
				}
				// A type change is only blocked by bookings the new type
				// could not have accepted. Widening to dual is always fine.
				switch *upd.AppointmentType {
				case TypePrimary:
					followups, err := repo.CountActiveBookingsByKind(ctx, id, true)
					if err != nil {
						return err
					}
					if followups > 0 {
						return conflictf("cannot change to primary-only, timeslot has active follow-up bookings")
					}
				case TypeFollowup:
					primaries, err := repo.CountActiveBookingsByKind(ctx, id, false)
					if err != nil {
						return err
					}
					if primaries > 0 {
						return conflictf("cannot change to follow-up-only, timeslot has active primary bookings")
					}
				}
				slot.AppointmentType = *upd.AppointmentType
				slot.OriginalType = *upd.AppointmentType
			}

			if !slot.EndTime.After(slot.StartTime) {
				return validationf("end time must be after start time")
			}

			timeChanged := !slot.StartTime.Equal(old.StartTime) || !slot.EndTime.Equal(old.EndTime)
			locationChanged := slot.Location != old.Location
			if timeChanged {
				if err := s.checkPairedWindows(ctx, repo, id, slot.StartTime); err != nil {
					return err
				}
			}

			if err := repo.UpdateTimeslot(ctx, slot); err != nil {
				return fmt.Errorf("update timeslot: %w", err)
			}
			updated = slot

			if timeChanged || locationChanged {
				bookings, err := repo.ListBookingsByTimeslot(ctx, id, true)
				if err != nil {
					return err
				}
				for _, bkg := range bookings {
					p, err := repo.GetParticipantByID(ctx, bkg.ParticipantID)
					if err != nil {
						return err
					}
					notify = append(notify, struct {
						participant Participant
						oldSlot     Timeslot
						isFollowup  bool
					}{*p, old, bkg.IsFollowup})
				}
			}

			s.logActivity(ctx, repo, ActionTimeslotUpdated, "admin", &id, map[string]any{
				"time_changed":     timeChanged,
				"location_changed": locationChanged,
			})
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	newSlot := *updated
	for _, n := range notify {
		n := n
		s.notifyAsync("timeslot change", func(ctx context.Context) error {
			return s.notifier.TimeslotChanged(ctx, n.participant, n.oldSlot, newSlot, n.isFollowup)
		})
	}
	return updated, nil
}

// checkPairedWindows rejects a slot move that would break the day-window of
// any booked primary/follow-up pair anchored on this slot.
func (s *Service) checkPairedWindows(ctx context.Context, repo Repository, slotID uuid.UUID, newStart time.Time) error {
	bookings, err := repo.ListBookingsByTimeslot(ctx, slotID, true)
	if err != nil {
		return err
	}
	for _, bkg := range bookings {
		if bkg.IsFollowup {
			if bkg.ParentBookingID == nil {
				continue
			}
			primary, err := repo.GetBookingByID(ctx, *bkg.ParentBookingID)
			if err != nil || !primary.Active() {
				continue
			}
			primarySlot, err := repo.GetTimeslotByID(ctx, primary.TimeslotID)
			if err != nil {
				return err
			}
			days := DaysBetween(primarySlot.StartTime, newStart)
			if !s.window.Contains(days) {
				return validationf("moving this timeslot would put a booked follow-up %d days after its primary, allowed range is %d-%d",
					days, s.window.MinDays, s.window.MaxDays)
			}
			continue
		}
		followup, err := repo.GetActiveFollowup(ctx, bkg.ID)
		if err != nil {
			if errors.Is(err, ErrBookingNotFound) {
				continue
			}
			return err
		}
		followupSlot, err := repo.GetTimeslotByID(ctx, followup.TimeslotID)
		if err != nil {
			return err
		}
		days := DaysBetween(newStart, followupSlot.StartTime)
		if !s.window.Contains(days) {
			return validationf("moving this timeslot would put a booked follow-up %d days after its primary, allowed range is %d-%d",
				days, s.window.MinDays, s.window.MaxDays)
		}
	}
	return nil
}

// DeleteTimeslot removes a slot and everything booked on it. Linked
// bookings on other slots are cancelled too so no half-pairs survive, and
// each affected participant gets one notification.
func (s *Service) DeleteTimeslot(ctx context.Context, id uuid.UUID) error {
	report, err := s.BulkDeleteTimeslots(ctx, []uuid.UUID{id})
	if err != nil {
		return err
	}
	if len(report.Failed) > 0 {
		return report.Failed[0].Err
	}
	return nil
}

type BulkFailure struct {
	ID  uuid.UUID
	Err error
}

type BulkReport struct {
	Succeeded []uuid.UUID
	Failed    []BulkFailure
}

// BulkDeleteTimeslots deletes slots independently: one failing slot does
// not stop the rest, and the report says which went which way.
func (s *Service) BulkDeleteTimeslots(ctx context.Context, ids []uuid.UUID) (*BulkReport, error) {
	report := &BulkReport{}
	for _, id := range ids {
		if err := s.deleteOneTimeslot(ctx, id); err != nil {
			report.Failed = append(report.Failed, BulkFailure{ID: id, Err: err})
			continue
		}
		report.Succeeded = append(report.Succeeded, id)
	}
	return report, nil
}

func (s *Service) deleteOneTimeslot(ctx context.Context, id uuid.UUID) error {
	type affected struct {
		participant Participant
		primary     *Timeslot
		followup    *Timeslot
	}
	var toNotify map[uuid.UUID]*affected

	err := s.withSlotLocks(ctx, []uuid.UUID{id}, func(ctx context.Context) error {
		return s.repo.InTx(ctx, func(repo Repository) error {
			if _, err := repo.GetTimeslotForUpdate(ctx, id); err != nil {
				return err
			}

			bookings, err := repo.ListBookingsByTimeslot(ctx, id, false)
			if err != nil {
				return err
			}

			// Resolve the full closure: every booking on this slot plus its
			// linked sibling, so pairs never survive half-deleted.
			toDelete := make(map[uuid.UUID]Booking)
			toNotify = make(map[uuid.UUID]*affected)
			for _, bkg := range bookings {
				toDelete[bkg.ID] = bkg
				siblings, err := s.linkedBookings(ctx, repo, bkg)
				if err != nil {
					return err
				}
				for _, sib := range siblings {
					toDelete[sib.ID] = sib
				}
			}

			vacatedSlots := make(map[uuid.UUID]bool)
			deleteIDs := make([]uuid.UUID, 0, len(toDelete))
			for _, bkg := range toDelete {
				deleteIDs = append(deleteIDs, bkg.ID)
				if bkg.TimeslotID != id {
					vacatedSlots[bkg.TimeslotID] = true
				}
				if !bkg.Active() {
					continue
				}
				entry, ok := toNotify[bkg.ParticipantID]
				if !ok {
					p, err := repo.GetParticipantByID(ctx, bkg.ParticipantID)
					if err != nil {
						return err
					}
					entry = &affected{participant: *p}
					toNotify[bkg.ParticipantID] = entry
				}
				bookedSlot, err := repo.GetTimeslotByID(ctx, bkg.TimeslotID)
				if err != nil {
					return err
				}
				if bkg.IsFollowup {
					entry.followup = bookedSlot
				} else {
					entry.primary = bookedSlot
				}
			}

			if err := repo.DeleteBookings(ctx, deleteIDs); err != nil {
				return fmt.Errorf("delete bookings for timeslot: %w", err)
			}
			if err := repo.DeleteTimeslot(ctx, id); err != nil {
				return fmt.Errorf("delete timeslot: %w", err)
			}
			for slotID := range vacatedSlots {
				if err := revertSlotIfVacated(ctx, repo, slotID); err != nil {
					return err
				}
			}

			s.logActivity(ctx, repo, ActionTimeslotDeleted, "admin", &id, map[string]any{
				"deleted_bookings": len(deleteIDs),
			})
			return nil
		})
	})
	if err != nil {
		return err
	}

	for _, entry := range toNotify {
		entry := entry
		s.notifyAsync("timeslot deletion notice", func(ctx context.Context) error {
			return s.notifier.CancellationConfirmed(ctx, entry.participant, entry.primary, entry.followup)
		})
	}
	return nil
}

// linkedBookings returns the sibling legs of a booking, in either link
// direction.
func (s *Service) linkedBookings(ctx context.Context, repo Repository, bkg Booking) ([]Booking, error) {
	if bkg.IsFollowup {
		if bkg.ParentBookingID == nil {
			return nil, nil
		}
		parent, err := repo.GetBookingByID(ctx, *bkg.ParentBookingID)
		if err != nil {
			if errors.Is(err, ErrBookingNotFound) {
				return nil, nil
			}
			return nil, err
		}
		return []Booking{*parent}, nil
	}
	followup, err := repo.GetActiveFollowup(ctx, bkg.ID)
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return []Booking{*followup}, nil
}

// BulkEditTimeslots applies one update to many slots, reporting per-slot
// results rather than failing the batch.
func (s *Service) BulkEditTimeslots(ctx context.Context, ids []uuid.UUID, upd TimeslotUpdate) (*BulkReport, error) {
	report := &BulkReport{}
	for _, id := range ids {
		if _, err := s.updateTimeslot(ctx, id, upd, true); err != nil {
			report.Failed = append(report.Failed, BulkFailure{ID: id, Err: err})
			continue
		}
		report.Succeeded = append(report.Succeeded, id)
	}
	return report, nil
}

// CancelBookingsForTimeslot cancels every active booking on a slot without
// deleting the slot. Linked siblings on other slots are cancelled too.
func (s *Service) CancelBookingsForTimeslot(ctx context.Context, id uuid.UUID) (int, error) {
	var cancelled int
	err := s.repo.InTx(ctx, func(repo Repository) error {
		if _, err := repo.GetTimeslotByID(ctx, id); err != nil {
			return err
		}
		bookings, err := repo.ListBookingsByTimeslot(ctx, id, true)
		if err != nil {
			return err
		}
		seen := make(map[uuid.UUID]bool)
		for _, bkg := range bookings {
			targets := []Booking{bkg}
			siblings, err := s.linkedBookings(ctx, repo, bkg)
			if err != nil {
				return err
			}
			for _, sib := range siblings {
				if sib.Active() {
					targets = append(targets, sib)
				}
			}
			for i := range targets {
				if seen[targets[i].ID] {
					continue
				}
				seen[targets[i].ID] = true
				if err := s.cancelOne(ctx, repo, &targets[i]); err != nil {
					return err
				}
				cancelled++
			}
		}
		return nil
	})
	return cancelled, err
}

// ToggleFeatured marks a slot as the highlighted one, or clears the flag
// when it was already featured. At most one slot is featured at a time.
func (s *Service) ToggleFeatured(ctx context.Context, id uuid.UUID) (*Timeslot, error) {
	var slot *Timeslot
	err := s.repo.InTx(ctx, func(repo Repository) error {
		var err error
		slot, err = repo.GetTimeslotByID(ctx, id)
		if err != nil {
			return err
		}
		if slot.IsFeatured {
			if err := repo.SetFeaturedTimeslot(ctx, nil); err != nil {
				return err
			}
			slot.IsFeatured = false
			return nil
		}
		if err := repo.SetFeaturedTimeslot(ctx, &id); err != nil {
			return err
		}
		slot.IsFeatured = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return slot, nil
}

// SetResultStatus records the outcome review of a booking. Reviews are only
// accepted once the appointment time has passed.
func (s *Service) SetResultStatus(ctx context.Context, bookingID uuid.UUID, status ResultStatus) error {
	if !ValidResultStatus(status) {
		return validationf("invalid result status")
	}
	return s.repo.InTx(ctx, func(repo Repository) error {
		bkg, err := repo.GetBookingByID(ctx, bookingID)
		if err != nil {
			return err
		}
		slot, err := repo.GetTimeslotByID(ctx, bkg.TimeslotID)
		if err != nil {
			return err
		}
		if slot.EndTime.After(s.now()) {
			return conflictf("cannot record a result before the appointment has ended")
		}
		if err := repo.SetResultStatus(ctx, bookingID, status); err != nil {
			return err
		}
		s.logActivity(ctx, repo, ActionResultReviewed, "admin", &bookingID, map[string]any{
			"result_status": string(status),
		})
		return nil
	})
}

// ListUnreviewed returns past bookings that still need an outcome review.
func (s *Service) ListUnreviewed(ctx context.Context) ([]BookingDetail, error) {
	return s.repo.ListPastUnreviewed(ctx, s.now())
}

func (s *Service) ListBookings(ctx context.Context, limit, offset int) ([]BookingDetail, error) {
	details, err := s.repo.ListBookingDetails(ctx)
	if err != nil {
		return nil, err
	}
	return paginate(details, limit, offset), nil
}

// paginate slices an already-ordered result set. Zero limit means all.
func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func (s *Service) ListTimeslots(ctx context.Context, limit, offset int) ([]Timeslot, int, error) {
	slots, err := s.repo.ListTimeslots(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountTimeslots(ctx)
	if err != nil {
		return nil, 0, err
	}
	return slots, total, nil
}

func (s *Service) GetTimeslot(ctx context.Context, id uuid.UUID) (*Timeslot, error) {
	return s.repo.GetTimeslotByID(ctx, id)
}

// ListParticipants returns participants with their booked pair attached.
func (s *Service) ListParticipants(ctx context.Context, limit, offset int) ([]PairedAppointments, int, error) {
	all, err := s.repo.ListParticipants(ctx)
	if err != nil {
		return nil, 0, err
	}
	total := len(all)
	participants := paginate(all, limit, offset)

	out := make([]PairedAppointments, 0, len(participants))
	for _, p := range participants {
		pair := PairedAppointments{Participant: p}
		bookings, err := s.repo.ListBookingsByParticipant(ctx, p.ID, true)
		if err != nil {
			return nil, 0, err
		}
		for _, bkg := range bookings {
			detail, err := s.repo.GetBookingDetail(ctx, bkg.ID)
			if err != nil {
				return nil, 0, err
			}
			if bkg.IsFollowup {
				pair.Followup = detail
			} else {
				pair.Primary = detail
			}
		}
		out = append(out, pair)
	}
	return out, total, nil
}

// DeleteParticipant removes a participant and all their bookings, reverting
// any dual slots they alone occupied.
func (s *Service) DeleteParticipant(ctx context.Context, id uuid.UUID) error {
	return s.repo.InTx(ctx, func(repo Repository) error {
		if _, err := repo.GetParticipantByID(ctx, id); err != nil {
			return err
		}
		bookings, err := repo.ListBookingsByParticipant(ctx, id, false)
		if err != nil {
			return err
		}
		ids := make([]uuid.UUID, 0, len(bookings))
		slots := make(map[uuid.UUID]bool)
		for _, bkg := range bookings {
			ids = append(ids, bkg.ID)
			slots[bkg.TimeslotID] = true
		}
		if len(ids) > 0 {
			if err := repo.DeleteBookings(ctx, ids); err != nil {
				return fmt.Errorf("delete participant bookings: %w", err)
			}
		}
		if err := repo.DeleteParticipant(ctx, id); err != nil {
			return err
		}
		for slotID := range slots {
			if err := revertSlotIfVacated(ctx, repo, slotID); err != nil {
				return err
			}
		}
		s.logActivity(ctx, repo, ActionParticipantDeleted, "admin", &id, map[string]any{
			"deleted_bookings": len(ids),
		})
		return nil
	})
}

// Statistics aggregates booking and participation numbers for the admin
// dashboard.
func (s *Service) Statistics(ctx context.Context) (*Statistics, error) {
	details, err := s.repo.ListBookingDetails(ctx)
	if err != nil {
		return nil, err
	}

	stats := &Statistics{
		Results:         make(map[string]int),
		ParticipantGoal: s.cfg.ParticipantGoal,
	}
	for _, d := range details {
		if !d.Active() {
			continue
		}
		stats.TotalBookings++
		if d.IsFollowup {
			stats.FollowupBookings++
		} else {
			stats.PrimaryBookings++
		}
		if d.ResultStatus != nil {
			stats.Completed++
			stats.Results[string(*d.ResultStatus)]++
		}
	}

	stats.TotalTimeslots, err = s.repo.CountTimeslots(ctx)
	if err != nil {
		return nil, err
	}
	booked := make(map[uuid.UUID]bool)
	for _, d := range details {
		if d.Active() {
			booked[d.TimeslotID] = true
		}
	}
	stats.BookedTimeslots = len(booked)

	stats.Participants, err = s.repo.CountParticipants(ctx)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *Service) Logs(ctx context.Context, limit, offset int) ([]ActivityLog, int, error) {
	logs, err := s.repo.ListActivity(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountActivity(ctx)
	if err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

// SendCustomEmail sends a one-off admin-composed message to a participant.
func (s *Service) SendCustomEmail(ctx context.Context, participantID uuid.UUID, subject, message string) error {
	if subject == "" || message == "" {
		return validationf("subject and message are required")
	}
	p, err := s.repo.GetParticipantByID(ctx, participantID)
	if err != nil {
		return err
	}
	return s.notifier.Custom(ctx, p.Email, p.Name, subject, message)
}
