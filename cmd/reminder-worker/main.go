package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/studyslots/booking-server/internal/booking"
	"github.com/studyslots/booking-server/internal/config"
	"github.com/studyslots/booking-server/internal/db"
	"github.com/studyslots/booking-server/internal/notify"
	"github.com/studyslots/booking-server/internal/reminder"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("reminder-worker starting up")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	log.Printf("running reminder worker in env=%s interval=%s", cfg.Env, cfg.ReminderInterval)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
	cancelPg()
	if err != nil {
		log.Fatalf("postgres connection error: %v", err)
	}
	defer pgPool.Close()
	log.Println("connected to Postgres")

	repo := booking.NewPgRepository(pgPool)
	mailer := notify.NewMailer(cfg)
	scanner := reminder.NewScanner(repo, mailer)

	scanner.Run(rootCtx, cfg.ReminderInterval)
	log.Println("reminder-worker stopped")
}
