package booking

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/studyslots/booking-server/internal/config"
	redisclient "github.com/studyslots/booking-server/internal/redis"
)

const (
	ActionPairRegistered    = "PAIR_REGISTERED"
	ActionBookingCreated    = "BOOKING_CREATED"
	ActionBookingRescheduled = "BOOKING_RESCHEDULED"
	ActionBookingCancelled  = "BOOKING_CANCELLED"
	ActionTimeslotCreated   = "TIMESLOT_CREATED"
	ActionTimeslotUpdated   = "TIMESLOT_UPDATED"
	ActionTimeslotDeleted   = "TIMESLOT_DELETED"
	ActionParticipantDeleted = "PARTICIPANT_DELETED"
	ActionResultReviewed    = "RESULT_REVIEWED"
)

type Service struct {
	repo     Repository
	locker   redisclient.Locker
	notifier Notifier
	validate *validator.Validate
	window   Window
	cfg      config.Config
	now      func() time.Time
}

func NewService(repo Repository, locker redisclient.Locker, notifier Notifier, cfg config.Config) *Service {
	return &Service{
		repo:     repo,
		locker:   locker,
		notifier: notifier,
		validate: validator.New(),
		window:   Window{MinDays: cfg.FollowupMinDays, MaxDays: cfg.FollowupMaxDays},
		cfg:      cfg,
		now:      time.Now,
	}
}

func (s *Service) Window() Window        { return s.window }
func (s *Service) ParticipantGoal() int  { return s.cfg.ParticipantGoal }

type registerInput struct {
	Name  string `validate:"required"`
	Email string `validate:"required,email"`
}

type RegistrationResult struct {
	Participant     *Participant
	PrimaryBooking  *Booking
	FollowupBooking *Booking
}

// RegisterPair creates a participant and books the primary and follow-up
// legs atomically. The day-window, slot types and capacities are validated
// against row-locked slots so two concurrent registrations on a near-full
// slot cannot both succeed.
func (s *Service) RegisterPair(ctx context.Context, name, email string, primarySlotID, followupSlotID uuid.UUID) (*RegistrationResult, error) {
	if err := s.validate.Struct(registerInput{Name: name, Email: email}); err != nil {
		return nil, validationf("name and a valid email address are required")
	}
	if primarySlotID == followupSlotID {
		return nil, validationf("primary and follow-up must use different timeslots")
	}

	var result RegistrationResult
	var primarySlot, followupSlot *Timeslot

	err := s.withSlotLocks(ctx, []uuid.UUID{primarySlotID, followupSlotID}, func(ctx context.Context) error {
		return s.repo.InTx(ctx, func(repo Repository) error {
			slots, err := lockSlots(ctx, repo, primarySlotID, followupSlotID)
			if err != nil {
				return err
			}
			primarySlot = slots[primarySlotID]
			followupSlot = slots[followupSlotID]

			daysDiff := DaysBetween(primarySlot.StartTime, followupSlot.StartTime)
			if !s.window.Contains(daysDiff) {
				return validationf("follow-up appointment must be %d-%d days after primary appointment, got %d days",
					s.window.MinDays, s.window.MaxDays, daysDiff)
			}

			if !primarySlot.Accepts(false) {
				return conflictf("cannot book a primary appointment in a follow-up-only timeslot")
			}
			if !followupSlot.Accepts(true) {
				return conflictf("cannot book a follow-up in a primary-only timeslot")
			}

			if err := ensureCapacity(ctx, repo, primarySlot, false); err != nil {
				return err
			}
			if err := ensureCapacity(ctx, repo, followupSlot, true); err != nil {
				return err
			}

			token, err := newConfirmationToken()
			if err != nil {
				return fmt.Errorf("generate confirmation token: %w", err)
			}
			participant := &Participant{Name: name, Email: email, ConfirmationToken: token}
			if err := repo.CreateParticipant(ctx, participant); err != nil {
				return fmt.Errorf("create participant: %w", err)
			}

			primary, err := s.createBookingOnSlot(ctx, repo, participant.ID, primarySlot, false, nil)
			if err != nil {
				return err
			}
			followup, err := s.createBookingOnSlot(ctx, repo, participant.ID, followupSlot, true, &primary.ID)
			if err != nil {
				return err
			}

			result = RegistrationResult{
				Participant:     participant,
				PrimaryBooking:  primary,
				FollowupBooking: followup,
			}

			s.logActivity(ctx, repo, ActionPairRegistered, "participant", &participant.ID, map[string]any{
				"primary_timeslot_id":  primarySlotID.String(),
				"followup_timeslot_id": followupSlotID.String(),
				"days_diff":            daysDiff,
			})
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	p := *result.Participant
	prim, fol := *primarySlot, *followupSlot
	s.notifyAsync("pair registration", func(ctx context.Context) error {
		return s.notifier.PairRegistered(ctx, p, prim, fol)
	})
	s.notifyAsync("admin registration alert", func(ctx context.Context) error {
		return s.notifier.AdminAlert(ctx, "registration", p, &prim, &fol)
	})

	return &result, nil
}

// BookOne books a single leg for an existing participant, used by
// administrative and partial flows. A follow-up leg requires an active
// primary and is held to the day-window against it.
func (s *Service) BookOne(ctx context.Context, participantID, timeslotID uuid.UUID, isFollowup bool) (*Booking, error) {
	participant, err := s.repo.GetParticipantByID(ctx, participantID)
	if err != nil {
		return nil, err
	}

	var created *Booking
	var slot *Timeslot

	err = s.withSlotLocks(ctx, []uuid.UUID{timeslotID}, func(ctx context.Context) error {
		return s.repo.InTx(ctx, func(repo Repository) error {
			slot, err = repo.GetTimeslotForUpdate(ctx, timeslotID)
			if err != nil {
				return err
			}

			if !slot.Accepts(isFollowup) {
				if isFollowup {
					return conflictf("cannot book a follow-up in a primary-only timeslot")
				}
				return conflictf("cannot book a primary appointment in a follow-up-only timeslot")
			}

			existing, err := repo.ListBookingsByParticipant(ctx, participantID, true)
			if err != nil {
				return fmt.Errorf("list participant bookings: %w", err)
			}
			var primary *Booking
			for i := range existing {
				b := existing[i]
				if b.IsFollowup == isFollowup {
					if isFollowup {
						return conflictf("participant already has a follow-up booking")
					}
					return conflictf("participant already has a primary booking")
				}
				if !b.IsFollowup {
					primary = &existing[i]
				}
			}

			var parentID *uuid.UUID
			if isFollowup {
				if primary == nil {
					return conflictf("must book a primary appointment before booking a follow-up")
				}
				primarySlot, err := repo.GetTimeslotByID(ctx, primary.TimeslotID)
				if err != nil {
					return err
				}
				daysDiff := DaysBetween(primarySlot.StartTime, slot.StartTime)
				if !s.window.Contains(daysDiff) {
					return conflictf("follow-up must be %d-%d days after primary appointment, current gap: %d days",
						s.window.MinDays, s.window.MaxDays, daysDiff)
				}
				parentID = &primary.ID
			}

			if err := ensureCapacity(ctx, repo, slot, isFollowup); err != nil {
				return err
			}

			created, err = s.createBookingOnSlot(ctx, repo, participantID, slot, isFollowup, parentID)
			if err != nil {
				return err
			}

			s.logActivity(ctx, repo, ActionBookingCreated, "admin", &created.ID, map[string]any{
				"participant_id": participantID.String(),
				"timeslot_id":    timeslotID.String(),
				"is_followup":    isFollowup,
			})
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	p := *participant
	sl := *slot
	s.notifyAsync("booking confirmation", func(ctx context.Context) error {
		return s.notifier.BookingConfirmed(ctx, p, sl, isFollowup)
	})

	return created, nil
}

type RescheduleOutcome struct {
	// RequiresFollowupReschedule is set when moving the primary leg would
	// push the existing follow-up out of the day-window and the caller did
	// not supply a replacement follow-up slot. Nothing was mutated; the
	// caller is expected to re-request with both legs.
	RequiresFollowupReschedule bool
	DaysDiff                   int
	MinDays                    int
	MaxDays                    int

	Booking         *Booking
	FollowupBooking *Booking // set when both legs moved together
}

// Reschedule moves a booking, and optionally its follow-up sibling, to new
// timeslots. The confirmation token must own the booking.
func (s *Service) Reschedule(ctx context.Context, token string, bookingID, newSlotID uuid.UUID, newFollowupSlotID *uuid.UUID) (*RescheduleOutcome, error) {
	participant, err := s.repo.GetParticipantByToken(ctx, token)
	if err != nil {
		if errors.Is(err, ErrParticipantNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	bkg, err := s.repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if bkg.ParticipantID != participant.ID {
		return nil, ErrInvalidToken
	}
	if !bkg.Active() {
		return nil, conflictf("cannot reschedule a cancelled booking")
	}

	lockIDs := []uuid.UUID{bkg.TimeslotID, newSlotID}
	if newFollowupSlotID != nil {
		lockIDs = append(lockIDs, *newFollowupSlotID)
	}

	var outcome RescheduleOutcome
	var oldSlot, newSlot *Timeslot

	err = s.withSlotLocks(ctx, lockIDs, func(ctx context.Context) error {
		return s.repo.InTx(ctx, func(repo Repository) error {
			oldSlot, err = repo.GetTimeslotForUpdate(ctx, bkg.TimeslotID)
			if err != nil {
				return err
			}
			newSlot, err = repo.GetTimeslotForUpdate(ctx, newSlotID)
			if err != nil {
				return err
			}
			if !newSlot.Accepts(bkg.IsFollowup) {
				return conflictf("new timeslot does not accept this appointment kind")
			}
			if err := ensureCapacity(ctx, repo, newSlot, bkg.IsFollowup); err != nil {
				return err
			}

			if bkg.IsFollowup {
				return s.rescheduleFollowupLeg(ctx, repo, bkg, newSlot, oldSlot, &outcome)
			}
			return s.reschedulePrimaryLeg(ctx, repo, bkg, newSlot, oldSlot, newFollowupSlotID, &outcome)
		})
	})
	if err != nil {
		return nil, err
	}

	if outcome.RequiresFollowupReschedule {
		return &outcome, nil
	}

	p := *participant
	oldS, newS := *oldSlot, *newSlot
	isFollowup := bkg.IsFollowup
	s.notifyAsync("reschedule confirmation", func(ctx context.Context) error {
		return s.notifier.Rescheduled(ctx, p, oldS, newS, isFollowup)
	})

	return &outcome, nil
}

// rescheduleFollowupLeg moves a follow-up alone. The day-window against the
// existing primary is non-negotiable on this path.
func (s *Service) rescheduleFollowupLeg(ctx context.Context, repo Repository, bkg *Booking, newSlot, oldSlot *Timeslot, outcome *RescheduleOutcome) error {
	if bkg.ParentBookingID != nil {
		primary, err := repo.GetBookingByID(ctx, *bkg.ParentBookingID)
		if err != nil {
			return err
		}
		primarySlot, err := repo.GetTimeslotByID(ctx, primary.TimeslotID)
		if err != nil {
			return err
		}
		daysDiff := DaysBetween(primarySlot.StartTime, newSlot.StartTime)
		if !s.window.Contains(daysDiff) {
			return validationf("follow-up must be %d-%d days after the primary appointment, chosen date is %d days after",
				s.window.MinDays, s.window.MaxDays, daysDiff)
		}
	}
	if err := s.moveBooking(ctx, repo, bkg, oldSlot, newSlot); err != nil {
		return err
	}
	outcome.Booking = bkg
	return nil
}

func (s *Service) reschedulePrimaryLeg(ctx context.Context, repo Repository, bkg *Booking, newSlot, oldSlot *Timeslot, newFollowupSlotID *uuid.UUID, outcome *RescheduleOutcome) error {
	followup, err := repo.GetActiveFollowup(ctx, bkg.ID)
	if err != nil && !errors.Is(err, ErrBookingNotFound) {
		return err
	}

	if followup != nil && newFollowupSlotID == nil {
		followupSlot, err := repo.GetTimeslotByID(ctx, followup.TimeslotID)
		if err != nil {
			return err
		}
		daysDiff := DaysBetween(newSlot.StartTime, followupSlot.StartTime)
		if !s.window.Contains(daysDiff) {
			// No mutation: the caller has to pick a new follow-up too.
			*outcome = RescheduleOutcome{
				RequiresFollowupReschedule: true,
				DaysDiff:                   daysDiff,
				MinDays:                    s.window.MinDays,
				MaxDays:                    s.window.MaxDays,
			}
			return nil
		}
	}

	if newFollowupSlotID != nil {
		newFollowupSlot, err := repo.GetTimeslotForUpdate(ctx, *newFollowupSlotID)
		if err != nil {
			return err
		}
		if !newFollowupSlot.Accepts(true) {
			return conflictf("new follow-up timeslot does not accept follow-up appointments")
		}
		if err := ensureCapacity(ctx, repo, newFollowupSlot, true); err != nil {
			return err
		}

		daysDiff := DaysBetween(newSlot.StartTime, newFollowupSlot.StartTime)
		if !s.window.Contains(daysDiff) {
			return validationf("follow-up must be %d-%d days after the primary appointment, chosen gap is %d days",
				s.window.MinDays, s.window.MaxDays, daysDiff)
		}

		if followup != nil {
			oldFollowupSlot, err := repo.GetTimeslotForUpdate(ctx, followup.TimeslotID)
			if err != nil {
				return err
			}
			if err := s.moveBooking(ctx, repo, followup, oldFollowupSlot, newFollowupSlot); err != nil {
				return err
			}
			outcome.FollowupBooking = followup
		}
	}

	if err := s.moveBooking(ctx, repo, bkg, oldSlot, newSlot); err != nil {
		return err
	}
	outcome.Booking = bkg

	s.logActivity(ctx, repo, ActionBookingRescheduled, "participant", &bkg.ID, map[string]any{
		"new_timeslot_id": newSlot.ID.String(),
		"both_legs":       outcome.FollowupBooking != nil,
	})
	return nil
}

// moveBooking repoints a booking at a new slot and keeps both slots' dual
// type state consistent.
func (s *Service) moveBooking(ctx context.Context, repo Repository, bkg *Booking, oldSlot, newSlot *Timeslot) error {
	if err := flipSlotForBooking(ctx, repo, newSlot, bkg.IsFollowup); err != nil {
		return err
	}
	if err := repo.UpdateBookingTimeslot(ctx, bkg.ID, newSlot.ID); err != nil {
		return err
	}
	bkg.TimeslotID = newSlot.ID
	if oldSlot.ID != newSlot.ID {
		if err := revertSlotIfVacated(ctx, repo, oldSlot.ID); err != nil {
			return err
		}
	}
	return nil
}

// CancelBooking cancels one booking. Cancelling a primary cascades to its
// active follow-up; cancelling a follow-up leaves the primary alone.
// Cancelling an already-cancelled booking is rejected so repeated calls can
// never double-notify.
func (s *Service) CancelBooking(ctx context.Context, bookingID uuid.UUID) error {
	return s.repo.InTx(ctx, func(repo Repository) error {
		bkg, err := repo.GetBookingByID(ctx, bookingID)
		if err != nil {
			return err
		}
		if !bkg.Active() {
			return ErrBookingAlreadyCancelled
		}

		if err := s.cancelOne(ctx, repo, bkg); err != nil {
			return err
		}

		if !bkg.IsFollowup {
			followup, err := repo.GetActiveFollowup(ctx, bkg.ID)
			if err != nil {
				if errors.Is(err, ErrBookingNotFound) {
					return nil
				}
				return err
			}
			if err := s.cancelOne(ctx, repo, followup); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Service) cancelOne(ctx context.Context, repo Repository, bkg *Booking) error {
	if err := repo.UpdateBookingStatus(ctx, bkg.ID, StatusCancelled); err != nil {
		return err
	}
	if err := revertSlotIfVacated(ctx, repo, bkg.TimeslotID); err != nil {
		return err
	}
	s.logActivity(ctx, repo, ActionBookingCancelled, "system", &bkg.ID, map[string]any{
		"timeslot_id": bkg.TimeslotID.String(),
		"is_followup": bkg.IsFollowup,
	})
	return nil
}

// CancelAllByToken cancels every active booking the participant holds and
// sends one summary email covering whichever legs existed.
func (s *Service) CancelAllByToken(ctx context.Context, token string) (int, error) {
	participant, err := s.repo.GetParticipantByToken(ctx, token)
	if err != nil {
		if errors.Is(err, ErrParticipantNotFound) {
			return 0, ErrInvalidToken
		}
		return 0, err
	}

	var cancelled int
	var primarySlot, followupSlot *Timeslot

	err = s.repo.InTx(ctx, func(repo Repository) error {
		bookings, err := repo.ListBookingsByParticipant(ctx, participant.ID, true)
		if err != nil {
			return err
		}
		if len(bookings) == 0 {
			return ErrInvalidToken
		}

		for i := range bookings {
			bkg := &bookings[i]
			slot, err := repo.GetTimeslotByID(ctx, bkg.TimeslotID)
			if err != nil {
				return err
			}
			if bkg.IsFollowup {
				followupSlot = slot
			} else {
				primarySlot = slot
			}
			if err := s.cancelOne(ctx, repo, bkg); err != nil {
				return err
			}
			cancelled++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	p := *participant
	prim, fol := primarySlot, followupSlot
	s.notifyAsync("cancellation confirmation", func(ctx context.Context) error {
		return s.notifier.CancellationConfirmed(ctx, p, prim, fol)
	})
	s.notifyAsync("admin cancellation alert", func(ctx context.Context) error {
		return s.notifier.AdminAlert(ctx, "cancellation", p, prim, fol)
	})

	return cancelled, nil
}

// BookingsByToken returns the participant's active bookings, primary first.
func (s *Service) BookingsByToken(ctx context.Context, token string) ([]BookingDetail, error) {
	participant, err := s.repo.GetParticipantByToken(ctx, token)
	if err != nil {
		if errors.Is(err, ErrParticipantNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	bookings, err := s.repo.ListBookingsByParticipant(ctx, participant.ID, true)
	if err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return nil, ErrInvalidToken
	}

	details := make([]BookingDetail, 0, len(bookings))
	for _, bkg := range bookings {
		d, err := s.repo.GetBookingDetail(ctx, bkg.ID)
		if err != nil {
			return nil, err
		}
		details = append(details, *d)
	}
	return details, nil
}

// AvailableTimeslots lists bookable future slots of a kind. For follow-up
// discovery with a known primary date, results are restricted to the
// configured day-window after that date.
func (s *Service) AvailableTimeslots(ctx context.Context, kind AppointmentType, primaryDate *time.Time) ([]TimeslotAvailability, error) {
	if kind == "" {
		kind = TypePrimary
	}
	if kind != TypePrimary && kind != TypeFollowup {
		return nil, validationf("type must be primary or followup")
	}

	var from, to *time.Time
	if kind == TypeFollowup && primaryDate != nil {
		base := dateOnly(*primaryDate)
		f := base.AddDate(0, 0, s.window.MinDays)
		t := base.AddDate(0, 0, s.window.MaxDays).Add(24*time.Hour - time.Nanosecond)
		from, to = &f, &t
	}

	return s.repo.ListAvailableTimeslots(ctx, kind, from, to, s.now())
}

// FeaturedTimeslot returns the currently featured slot, nil when none is.
func (s *Service) FeaturedTimeslot(ctx context.Context) (*Timeslot, error) {
	slot, err := s.repo.GetFeaturedTimeslot(ctx)
	if err != nil {
		if errors.Is(err, ErrTimeslotNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return slot, nil
}

// Internal helpers

// createBookingOnSlot creates the row and flips a dual slot to the booked
// kind, which is what keeps slot type and active bookings consistent.
func (s *Service) createBookingOnSlot(ctx context.Context, repo Repository, participantID uuid.UUID, slot *Timeslot, isFollowup bool, parentID *uuid.UUID) (*Booking, error) {
	if err := flipSlotForBooking(ctx, repo, slot, isFollowup); err != nil {
		return nil, err
	}

	bkg := &Booking{
		ParticipantID:   participantID,
		TimeslotID:      slot.ID,
		Status:          StatusActive,
		IsFollowup:      isFollowup,
		ParentBookingID: parentID,
		AppointmentType: slot.AppointmentType,
	}
	if err := repo.CreateBooking(ctx, bkg); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}
	return bkg, nil
}

func flipSlotForBooking(ctx context.Context, repo Repository, slot *Timeslot, isFollowup bool) error {
	newType := TypeAfterBooking(*slot, isFollowup)
	if newType == slot.AppointmentType {
		return nil
	}
	if err := repo.SetTimeslotType(ctx, slot.ID, newType); err != nil {
		return fmt.Errorf("flip slot type: %w", err)
	}
	slot.AppointmentType = newType
	return nil
}

func revertSlotIfVacated(ctx context.Context, repo Repository, slotID uuid.UUID) error {
	slot, err := repo.GetTimeslotByID(ctx, slotID)
	if err != nil {
		return err
	}
	remaining, err := repo.CountActiveBookings(ctx, slotID)
	if err != nil {
		return err
	}
	newType := TypeAfterVacated(*slot, remaining)
	if newType == slot.AppointmentType {
		return nil
	}
	if err := repo.SetTimeslotType(ctx, slotID, newType); err != nil {
		return fmt.Errorf("revert slot type: %w", err)
	}
	return nil
}

// ensureCapacity assumes the slot row is already locked in the current
// transaction.
func ensureCapacity(ctx context.Context, repo Repository, slot *Timeslot, isFollowup bool) error {
	limit := slot.EffectiveCapacity(isFollowup)
	if limit == nil {
		return nil
	}

	var count int
	var err error
	if slot.HasVariantCapacity() {
		count, err = repo.CountActiveBookingsByKind(ctx, slot.ID, isFollowup)
	} else {
		count, err = repo.CountActiveBookings(ctx, slot.ID)
	}
	if err != nil {
		return fmt.Errorf("count active bookings: %w", err)
	}
	if count >= *limit {
		return ErrSlotFull
	}
	return nil
}

// lockSlots acquires FOR UPDATE locks in a stable order so concurrent
// multi-slot operations cannot deadlock each other.
func lockSlots(ctx context.Context, repo Repository, ids ...uuid.UUID) (map[uuid.UUID]*Timeslot, error) {
	ordered := append([]uuid.UUID(nil), ids...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].String() < ordered[j].String() })

	slots := make(map[uuid.UUID]*Timeslot, len(ordered))
	for _, id := range ordered {
		if _, ok := slots[id]; ok {
			continue
		}
		slot, err := repo.GetTimeslotForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		slots[id] = slot
	}
	return slots, nil
}

func (s *Service) withSlotLocks(ctx context.Context, ids []uuid.UUID, fn func(ctx context.Context) error) error {
	err := s.locker.WithSlotLocks(ctx, ids, fn)
	if errors.Is(err, redisclient.ErrLockNotAcquired) {
		return ErrSlotBeingBooked
	}
	return err
}

func (s *Service) logActivity(ctx context.Context, repo Repository, action, actor string, entityID *uuid.UUID, payload map[string]any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("failed to marshal activity payload for %s: %v", action, err)
		data = nil
	}

	entry := ActivityLog{
		ActionType: action,
		ActorType:  actor,
		EntityID:   entityID,
		Details:    data,
		CreatedAt:  s.now(),
	}
	if err := repo.InsertActivity(ctx, entry); err != nil {
		log.Printf("failed to insert activity log %s: %v", action, err)
	}
}

func (s *Service) notifyAsync(name string, fn func(ctx context.Context) error) {
	// Detached from the request context: a booking is committed once the
	// transaction is, regardless of what happens to the email.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := fn(ctx); err != nil {
			log.Printf("notification %q failed: %v", name, err)
		}
	}()
}

func newConfirmationToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
