package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/studyslots/booking-server/internal/api"
	"github.com/studyslots/booking-server/internal/booking"
	"github.com/studyslots/booking-server/internal/config"
	"github.com/studyslots/booking-server/internal/db"
	"github.com/studyslots/booking-server/internal/notify"
	redisclient "github.com/studyslots/booking-server/internal/redis"
	"github.com/studyslots/booking-server/internal/reminder"
)

const version = "1.0.0"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("api-server starting up")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	log.Printf("running in env=%s http_port=%s window=%d-%d days",
		cfg.Env, cfg.HTTPPort, cfg.FollowupMinDays, cfg.FollowupMaxDays)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect Postgres
	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
	cancelPg()
	if err != nil {
		log.Fatalf("postgres connection error: %v", err)
	}
	defer pgPool.Close()
	log.Println("connected to Postgres")

	schemaCtx, cancelSchema := context.WithTimeout(rootCtx, 30*time.Second)
	err = db.EnsureSchema(schemaCtx, pgPool)
	cancelSchema()
	if err != nil {
		log.Fatalf("schema migration error: %v", err)
	}

	// Connect Redis
	rdb, err := redisclient.Connect(rootCtx, cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
	if err != nil {
		log.Fatalf("redis connection error: %v", err)
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Printf("error closing redis: %v", err)
		}
	}()
	log.Println("connected to Redis")

	repo := booking.NewPgRepository(pgPool)
	locker := redisclient.NewRedisSlotLocker(rdb, cfg.LockTTL)
	mailer := notify.NewMailer(cfg)
	svc := booking.NewService(repo, locker, mailer, cfg)

	bootCtx, cancelBoot := context.WithTimeout(rootCtx, 10*time.Second)
	err = svc.BootstrapAdmin(bootCtx)
	cancelBoot()
	if err != nil {
		log.Fatalf("admin bootstrap error: %v", err)
	}

	scanner := reminder.NewScanner(repo, mailer)
	sessions := api.NewSessionManager(cfg.SessionSecret, cfg.SessionTTL, cfg.Env == "prod")

	handler := api.NewRouter(api.RouterConfig{
		Service:       svc,
		Sessions:      sessions,
		Reminder:      scanner,
		PgPool:        pgPool,
		Redis:         rdb,
		Env:           cfg.Env,
		Version:       version,
		AllowedOrigin: cfg.AllowedOrigin,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}()

	<-rootCtx.Done()
	log.Println("shutdown signal received")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown error: %v", err)
	}
	log.Println("api-server stopped")
}
