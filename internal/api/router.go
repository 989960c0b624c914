package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/studyslots/booking-server/internal/booking"
	"github.com/studyslots/booking-server/internal/reminder"
)

type RouterConfig struct {
	Service       *booking.Service
	Sessions      *SessionManager
	Reminder      *reminder.Scanner
	PgPool        *pgxpool.Pool
	Redis         *redis.Client
	Env           string
	Version       string
	AllowedOrigin string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(RequestLogger)
	if cfg.AllowedOrigin != "" {
		r.Use(CORS(cfg.AllowedOrigin))
	}

	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	r.Route("/api", func(r chi.Router) {
		// Public endpoints
		r.Get("/timeslots", listTimeslotsHandler(cfg.Service))
		r.Get("/config", configHandler(cfg.Service))
		r.Get("/featured-timeslot", featuredTimeslotHandler(cfg.Service))
		r.Post("/register", registerHandler(cfg.Service))
		r.Post("/book", bookHandler(cfg.Service))
		r.Get("/booking/{token}", bookingByTokenHandler(cfg.Service))
		r.Post("/reschedule", rescheduleHandler(cfg.Service))
		r.Post("/cancel", cancelHandler(cfg.Service))

		r.Route("/admin", func(r chi.Router) {
			// Session endpoints stay open so the admin can log in.
			r.Post("/login", loginHandler(cfg.Service, cfg.Sessions))
			r.Post("/logout", logoutHandler(cfg.Sessions))
			r.Get("/check", sessionCheckHandler(cfg.Sessions))

			// Everything else requires the session cookie.
			r.Group(func(r chi.Router) {
				r.Use(cfg.Sessions.RequireAdmin)

				r.Get("/timeslots", adminListTimeslotsHandler(cfg.Service))
				r.Post("/timeslots", createTimeslotHandler(cfg.Service))
				r.Post("/bulk-timeslots", createTimeslotSeriesHandler(cfg.Service))
				r.Get("/timeslots/{id}", getTimeslotHandler(cfg.Service))
				r.Put("/timeslots/{id}", updateTimeslotHandler(cfg.Service))
				r.Delete("/timeslots/{id}", deleteTimeslotHandler(cfg.Service))
				r.Post("/timeslots/bulk-delete", bulkDeleteTimeslotsHandler(cfg.Service))
				r.Post("/timeslots/bulk-edit", bulkEditTimeslotsHandler(cfg.Service))
				r.Post("/timeslots/{id}/cancel-bookings", cancelTimeslotBookingsHandler(cfg.Service))
				r.Post("/timeslots/{id}/toggle-featured", toggleFeaturedHandler(cfg.Service))

				r.Get("/bookings", adminListBookingsHandler(cfg.Service))
				r.Post("/bookings/{id}/cancel", adminCancelBookingHandler(cfg.Service))
				r.Get("/bookings/unreviewed", unreviewedBookingsHandler(cfg.Service))
				r.Put("/bookings/{id}/result-status", resultStatusHandler(cfg.Service))

				r.Get("/participants", listParticipantsHandler(cfg.Service))
				r.Delete("/participants/{id}", deleteParticipantHandler(cfg.Service))

				r.Get("/logs", activityLogsHandler(cfg.Service))
				r.Get("/statistics", statisticsHandler(cfg.Service))
				r.Post("/send-email", sendEmailHandler(cfg.Service))
				r.Post("/trigger-reminders", triggerRemindersHandler(cfg.Reminder))
			})
		})
	})

	return r
}
