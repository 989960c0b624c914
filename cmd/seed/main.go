package main

import (
	"context"
	"log"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"

	"github.com/studyslots/booking-server/internal/booking"
	"github.com/studyslots/booking-server/internal/config"
	"github.com/studyslots/booking-server/internal/db"
	redisclient "github.com/studyslots/booking-server/internal/redis"
)

// Seeds the database with four weeks of timeslots and a handful of fake
// participants with booked pairs. Intended for local development only.
func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	if err := db.EnsureSchema(context.Background(), pool); err != nil {
		log.Fatalf("ensure schema: %v", err)
	}

	rdb, err := redisclient.Connect(ctx, cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
	if err != nil {
		log.Fatalf("redis connection error: %v", err)
	}
	defer rdb.Close()

	repo := booking.NewPgRepository(pool)
	locker := redisclient.NewRedisSlotLocker(rdb, cfg.LockTTL)
	svc := booking.NewService(repo, locker, booking.NopNotifier{}, cfg)

	if err := svc.BootstrapAdmin(context.Background()); err != nil {
		log.Fatalf("bootstrap admin: %v", err)
	}

	gofakeit.Seed(time.Now().UnixNano())

	slots, err := seedTimeslots(context.Background(), svc, cfg)
	if err != nil {
		log.Fatalf("seed timeslots: %v", err)
	}
	if err := seedParticipants(context.Background(), svc, cfg, slots, 10); err != nil {
		log.Fatalf("seed participants: %v", err)
	}

	log.Println("seed complete")
}

func seedTimeslots(ctx context.Context, svc *booking.Service, cfg config.Config) ([]booking.Timeslot, error) {
	start := time.Now().AddDate(0, 0, 1)
	end := start.AddDate(0, 0, cfg.FollowupMaxDays+14)
	capacity := 3

	slots, err := svc.GenerateTimeslotSeries(ctx, booking.SeriesInput{
		StartDate: start,
		EndDate:   end,
		Weekdays: []time.Weekday{
			time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday,
		},
		DayStartHour:    9,
		DayEndHour:      17,
		DurationMinutes: 60,
		Location:        "Raum 2.04, Institutsgebäude",
		AppointmentType: booking.TypeDual,
		Capacity:        &capacity,
	})
	if err != nil {
		return nil, err
	}
	log.Printf("seeded %d timeslots", len(slots))
	return slots, nil
}

func seedParticipants(ctx context.Context, svc *booking.Service, cfg config.Config, slots []booking.Timeslot, count int) error {
	log.Printf("seeding %d participants with booked pairs", count)

	for i := 0; i < count; i++ {
		primary, followup, ok := pickPair(slots, cfg.FollowupMinDays, cfg.FollowupMaxDays)
		if !ok {
			log.Println("no valid slot pair left, stopping participant seed early")
			return nil
		}

		name := gofakeit.Name()
		email := gofakeit.Email()
		if _, err := svc.RegisterPair(ctx, name, email, primary, followup); err != nil {
			log.Printf("skipping participant %s: %v", email, err)
		}
	}
	return nil
}

// pickPair finds a random primary slot plus a follow-up slot inside the
// configured day-window.
func pickPair(slots []booking.Timeslot, minDays, maxDays int) (primary, followup uuid.UUID, ok bool) {
	if len(slots) == 0 {
		return primary, followup, false
	}
	for attempt := 0; attempt < 50; attempt++ {
		p := slots[gofakeit.Number(0, len(slots)-1)]
		for _, f := range slots {
			days := booking.DaysBetween(p.StartTime, f.StartTime)
			if days >= minDays && days <= maxDays {
				return p.ID, f.ID, true
			}
		}
	}
	return primary, followup, false
}
