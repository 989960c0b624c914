package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/studyslots/booking-server/internal/booking"
)

func listTimeslotsHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind := booking.AppointmentType(r.URL.Query().Get("type"))

		var primaryDate *time.Time
		if raw := r.URL.Query().Get("primaryDate"); raw != "" {
			t, err := time.Parse("2006-01-02", raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_primary_date", "primaryDate must be YYYY-MM-DD")
				return
			}
			primaryDate = &t
		}

		slots, err := svc.AvailableTimeslots(r.Context(), kind, primaryDate)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		resp := make([]TimeslotResponse, 0, len(slots))
		for _, s := range slots {
			resp = append(resp, toAvailabilityResponse(s))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func configHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		win := svc.Window()
		writeJSON(w, http.StatusOK, ConfigResponse{
			FollowupMinDays: win.MinDays,
			FollowupMaxDays: win.MaxDays,
			ParticipantGoal: svc.ParticipantGoal(),
		})
	}
}

func featuredTimeslotHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slot, err := svc.FeaturedTimeslot(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if slot == nil {
			writeJSON(w, http.StatusOK, map[string]any{"featured": nil})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"featured": toTimeslotResponse(*slot)})
	}
}

func registerHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		primaryID, err := uuid.Parse(req.PrimarySlotID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_timeslot_id", "primaryTimeslotId must be a valid UUID")
			return
		}
		followupID, err := uuid.Parse(req.FollowupSlotID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_timeslot_id", "followupTimeslotId must be a valid UUID")
			return
		}

		result, err := svc.RegisterPair(r.Context(), req.Name, req.Email, primaryID, followupID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, RegisterResponse{
			ParticipantID:     result.Participant.ID,
			ConfirmationToken: result.Participant.ConfirmationToken,
			PrimaryBookingID:  result.PrimaryBooking.ID,
			FollowupBookingID: result.FollowupBooking.ID,
			Participant:       toParticipantResponse(*result.Participant),
			Primary:           toBookingResponse(*result.PrimaryBooking),
			Followup:          toBookingResponse(*result.FollowupBooking),
		})
	}
}

func bookHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req BookRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		participantID, err := uuid.Parse(req.ParticipantID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_participant_id", "participantId must be a valid UUID")
			return
		}
		timeslotID, err := uuid.Parse(req.TimeslotID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_timeslot_id", "timeslotId must be a valid UUID")
			return
		}

		bkg, err := svc.BookOne(r.Context(), participantID, timeslotID, req.IsFollowup)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toBookingResponse(*bkg))
	}
}

func bookingByTokenHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := chi.URLParam(r, "token")

		details, err := svc.BookingsByToken(r.Context(), token)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		resp := make([]BookingResponse, 0, len(details))
		for _, d := range details {
			resp = append(resp, toBookingDetailResponse(d))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func rescheduleHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RescheduleRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		bookingID, err := uuid.Parse(req.BookingID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_booking_id", "bookingId must be a valid UUID")
			return
		}
		newSlotID, err := uuid.Parse(req.NewTimeslotID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_timeslot_id", "new_timeslotId must be a valid UUID")
			return
		}
		var newFollowupID *uuid.UUID
		if req.NewFollowupSlotID != nil {
			id, err := uuid.Parse(*req.NewFollowupSlotID)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_timeslot_id", "new_followupTimeslotId must be a valid UUID")
				return
			}
			newFollowupID = &id
		}

		outcome, err := svc.Reschedule(r.Context(), req.Token, bookingID, newSlotID, newFollowupID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		if outcome.RequiresFollowupReschedule {
			// Not a failure: the caller has to resubmit with a new follow-up
			// slot as well. Nothing was changed.
			writeJSON(w, http.StatusBadRequest, NeedsFollowupResponse{
				RequiresFollowupReschedule: true,
				DaysDiff:                   outcome.DaysDiff,
				MinDays:                    outcome.MinDays,
				MaxDays:                    outcome.MaxDays,
			})
			return
		}

		resp := RescheduleResponse{}
		if outcome.Booking != nil {
			b := toBookingResponse(*outcome.Booking)
			resp.Booking = &b
		}
		if outcome.FollowupBooking != nil {
			b := toBookingResponse(*outcome.FollowupBooking)
			resp.FollowupBooking = &b
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func cancelHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CancelRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		count, err := svc.CancelAllByToken(r.Context(), req.Token)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"cancelled": count})
	}
}
