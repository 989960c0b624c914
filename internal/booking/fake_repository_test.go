package booking

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// fakeRepository is an in-memory Repository used by the engine tests. InTx
// snapshots the state and restores it when the callback fails, mirroring a
// rolled-back transaction.
type fakeRepository struct {
	mu           sync.Mutex
	participants map[uuid.UUID]Participant
	admins       map[string]Admin
	timeslots    map[uuid.UUID]Timeslot
	bookings     map[uuid.UUID]Booking
	activity     []ActivityLog
	nextLogID    int64
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		participants: make(map[uuid.UUID]Participant),
		admins:       make(map[string]Admin),
		timeslots:    make(map[uuid.UUID]Timeslot),
		bookings:     make(map[uuid.UUID]Booking),
	}
}

func (f *fakeRepository) snapshot() *fakeRepository {
	c := newFakeRepository()
	for k, v := range f.participants {
		c.participants[k] = v
	}
	for k, v := range f.admins {
		c.admins[k] = v
	}
	for k, v := range f.timeslots {
		c.timeslots[k] = v
	}
	for k, v := range f.bookings {
		c.bookings[k] = v
	}
	c.activity = append([]ActivityLog(nil), f.activity...)
	c.nextLogID = f.nextLogID
	return c
}

func (f *fakeRepository) restore(s *fakeRepository) {
	f.participants = s.participants
	f.admins = s.admins
	f.timeslots = s.timeslots
	f.bookings = s.bookings
	f.activity = s.activity
	f.nextLogID = s.nextLogID
}

func (f *fakeRepository) InTx(ctx context.Context, fn func(Repository) error) error {
	f.mu.Lock()
	snap := f.snapshot()
	f.mu.Unlock()

	if err := fn(f); err != nil {
		f.mu.Lock()
		f.restore(snap)
		f.mu.Unlock()
		return err
	}
	return nil
}

func (f *fakeRepository) CreateParticipant(ctx context.Context, p *Participant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = time.Now()
	f.participants[p.ID] = *p
	return nil
}

func (f *fakeRepository) GetParticipantByID(ctx context.Context, id uuid.UUID) (*Participant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.participants[id]
	if !ok {
		return nil, ErrParticipantNotFound
	}
	return &p, nil
}

func (f *fakeRepository) GetParticipantByToken(ctx context.Context, token string) (*Participant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.participants {
		if p.ConfirmationToken == token {
			p := p
			return &p, nil
		}
	}
	return nil, ErrParticipantNotFound
}

func (f *fakeRepository) ListParticipants(ctx context.Context) ([]Participant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Participant, 0, len(f.participants))
	for _, p := range f.participants {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeRepository) CountParticipants(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.participants), nil
}

func (f *fakeRepository) DeleteParticipant(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.participants[id]; !ok {
		return ErrParticipantNotFound
	}
	delete(f.participants, id)
	return nil
}

func (f *fakeRepository) GetAdminByUsername(ctx context.Context, username string) (*Admin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.admins[username]
	if !ok {
		return nil, ErrAdminNotFound
	}
	return &a, nil
}

func (f *fakeRepository) UpsertAdmin(ctx context.Context, username, passwordHash string) (*Admin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.admins[username]
	if !ok {
		a = Admin{ID: uuid.New(), Username: username, CreatedAt: time.Now()}
	}
	a.PasswordHash = passwordHash
	f.admins[username] = a
	return &a, nil
}

func (f *fakeRepository) CreateTimeslot(ctx context.Context, t *Timeslot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	f.timeslots[t.ID] = *t
	return nil
}

func (f *fakeRepository) GetTimeslotByID(ctx context.Context, id uuid.UUID) (*Timeslot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.timeslots[id]
	if !ok {
		return nil, ErrTimeslotNotFound
	}
	return &t, nil
}

func (f *fakeRepository) GetTimeslotForUpdate(ctx context.Context, id uuid.UUID) (*Timeslot, error) {
	return f.GetTimeslotByID(ctx, id)
}

func (f *fakeRepository) ListTimeslots(ctx context.Context, limit, offset int) ([]Timeslot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Timeslot, 0, len(f.timeslots))
	for _, t := range f.timeslots {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	if offset >= len(out) {
		return []Timeslot{}, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeRepository) CountTimeslots(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.timeslots), nil
}

func (f *fakeRepository) ListAvailableTimeslots(ctx context.Context, kind AppointmentType, from, to *time.Time, now time.Time) ([]TimeslotAvailability, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	isFollowup := kind == TypeFollowup
	var out []TimeslotAvailability
	for _, t := range f.timeslots {
		if !t.StartTime.After(now) {
			continue
		}
		if !t.Accepts(isFollowup) {
			continue
		}
		if from != nil && t.StartTime.Before(*from) {
			continue
		}
		if to != nil && t.StartTime.After(*to) {
			continue
		}

		total, kindCount := 0, 0
		for _, b := range f.bookings {
			if b.TimeslotID == t.ID && b.Status == StatusActive {
				total++
				if b.IsFollowup == isFollowup {
					kindCount++
				}
			}
		}
		limit := t.EffectiveCapacity(isFollowup)
		if limit != nil {
			used := total
			if t.HasVariantCapacity() {
				used = kindCount
			}
			if used >= *limit {
				continue
			}
		}
		out = append(out, TimeslotAvailability{Timeslot: t, BookedCount: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (f *fakeRepository) UpdateTimeslot(ctx context.Context, t *Timeslot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.timeslots[t.ID]; !ok {
		return ErrTimeslotNotFound
	}
	t.UpdatedAt = time.Now()
	f.timeslots[t.ID] = *t
	return nil
}

func (f *fakeRepository) DeleteTimeslot(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.timeslots[id]; !ok {
		return ErrTimeslotNotFound
	}
	delete(f.timeslots, id)
	return nil
}

func (f *fakeRepository) SetTimeslotType(ctx context.Context, id uuid.UUID, newType AppointmentType) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.timeslots[id]
	if !ok {
		return ErrTimeslotNotFound
	}
	t.AppointmentType = newType
	f.timeslots[id] = t
	return nil
}

func (f *fakeRepository) SetFeaturedTimeslot(ctx context.Context, id *uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for k, t := range f.timeslots {
		t.IsFeatured = id != nil && k == *id
		f.timeslots[k] = t
	}
	return nil
}

func (f *fakeRepository) GetFeaturedTimeslot(ctx context.Context) (*Timeslot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.timeslots {
		if t.IsFeatured {
			t := t
			return &t, nil
		}
	}
	return nil, ErrTimeslotNotFound
}

func (f *fakeRepository) CreateBooking(ctx context.Context, b *Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	f.bookings[b.ID] = *b
	return nil
}

func (f *fakeRepository) GetBookingByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	return &b, nil
}

func (f *fakeRepository) GetBookingDetail(ctx context.Context, id uuid.UUID) (*BookingDetail, error) {
	f.mu.Lock()
	b, ok := f.bookings[id]
	f.mu.Unlock()
	if !ok {
		return nil, ErrBookingNotFound
	}
	d := BookingDetail{Booking: b}
	if p, err := f.GetParticipantByID(ctx, b.ParticipantID); err == nil {
		d.Participant = p
	}
	if t, err := f.GetTimeslotByID(ctx, b.TimeslotID); err == nil {
		d.Timeslot = t
	}
	return &d, nil
}

func (f *fakeRepository) ListBookingsByParticipant(ctx context.Context, participantID uuid.UUID, activeOnly bool) ([]Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Booking
	for _, b := range f.bookings {
		if b.ParticipantID != participantID {
			continue
		}
		if activeOnly && b.Status != StatusActive {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return !out[i].IsFollowup && out[j].IsFollowup })
	return out, nil
}

func (f *fakeRepository) ListBookingsByTimeslot(ctx context.Context, timeslotID uuid.UUID, activeOnly bool) ([]Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Booking
	for _, b := range f.bookings {
		if b.TimeslotID != timeslotID {
			continue
		}
		if activeOnly && b.Status != StatusActive {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (f *fakeRepository) ListBookingDetails(ctx context.Context) ([]BookingDetail, error) {
	f.mu.Lock()
	ids := make([]uuid.UUID, 0, len(f.bookings))
	for id := range f.bookings {
		ids = append(ids, id)
	}
	f.mu.Unlock()

	out := make([]BookingDetail, 0, len(ids))
	for _, id := range ids {
		d, err := f.GetBookingDetail(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Timeslot == nil || out[j].Timeslot == nil {
			return false
		}
		return out[i].Timeslot.StartTime.Before(out[j].Timeslot.StartTime)
	})
	return out, nil
}

func (f *fakeRepository) GetActiveFollowup(ctx context.Context, primaryID uuid.UUID) (*Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.ParentBookingID != nil && *b.ParentBookingID == primaryID && b.Status == StatusActive {
			b := b
			return &b, nil
		}
	}
	return nil, ErrBookingNotFound
}

func (f *fakeRepository) CountActiveBookings(ctx context.Context, timeslotID uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, b := range f.bookings {
		if b.TimeslotID == timeslotID && b.Status == StatusActive {
			n++
		}
	}
	return n, nil
}

func (f *fakeRepository) CountActiveBookingsByKind(ctx context.Context, timeslotID uuid.UUID, isFollowup bool) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, b := range f.bookings {
		if b.TimeslotID == timeslotID && b.Status == StatusActive && b.IsFollowup == isFollowup {
			n++
		}
	}
	return n, nil
}

func (f *fakeRepository) UpdateBookingStatus(ctx context.Context, id uuid.UUID, status BookingStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return ErrBookingNotFound
	}
	b.Status = status
	b.UpdatedAt = time.Now()
	f.bookings[id] = b
	return nil
}

func (f *fakeRepository) UpdateBookingTimeslot(ctx context.Context, id, timeslotID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return ErrBookingNotFound
	}
	b.TimeslotID = timeslotID
	b.UpdatedAt = time.Now()
	f.bookings[id] = b
	return nil
}

func (f *fakeRepository) SetResultStatus(ctx context.Context, id uuid.UUID, status ResultStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return ErrBookingNotFound
	}
	b.ResultStatus = &status
	b.UpdatedAt = time.Now()
	f.bookings[id] = b
	return nil
}

func (f *fakeRepository) DeleteBookings(ctx context.Context, ids []uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range ids {
		delete(f.bookings, id)
	}
	return nil
}

func (f *fakeRepository) ListPastUnreviewed(ctx context.Context, now time.Time) ([]BookingDetail, error) {
	details, err := f.ListBookingDetails(ctx)
	if err != nil {
		return nil, err
	}
	var out []BookingDetail
	for _, d := range details {
		if d.Status != StatusActive || d.ResultStatus != nil {
			continue
		}
		if d.Timeslot != nil && d.Timeslot.EndTime.Before(now) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeRepository) ListNeedingReminder(ctx context.Context, daysBefore int, now time.Time) ([]BookingDetail, error) {
	details, err := f.ListBookingDetails(ctx)
	if err != nil {
		return nil, err
	}
	cutoff := now.AddDate(0, 0, daysBefore)
	var out []BookingDetail
	for _, d := range details {
		if d.Status != StatusActive || d.Timeslot == nil {
			continue
		}
		sent := d.Reminder7dSentAt
		if daysBefore == 1 {
			sent = d.Reminder1dSentAt
		}
		if sent != nil {
			continue
		}
		if d.Timeslot.StartTime.After(now) && !d.Timeslot.StartTime.After(cutoff) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeRepository) MarkReminderSent(ctx context.Context, bookingID uuid.UUID, daysBefore int, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[bookingID]
	if !ok {
		return ErrBookingNotFound
	}
	if daysBefore == 1 {
		b.Reminder1dSentAt = &at
	} else {
		b.Reminder7dSentAt = &at
	}
	f.bookings[bookingID] = b
	return nil
}

func (f *fakeRepository) InsertActivity(ctx context.Context, entry ActivityLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextLogID++
	entry.ID = f.nextLogID
	f.activity = append(f.activity, entry)
	return nil
}

func (f *fakeRepository) ListActivity(ctx context.Context, limit, offset int) ([]ActivityLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := append([]ActivityLog(nil), f.activity...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if offset >= len(out) {
		return []ActivityLog{}, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeRepository) CountActivity(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.activity), nil
}

var _ Repository = (*fakeRepository)(nil)
