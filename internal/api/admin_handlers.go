package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/studyslots/booking-server/internal/booking"
	"github.com/studyslots/booking-server/internal/reminder"
)

func loginHandler(svc *booking.Service, sessions *SessionManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		admin, err := svc.Authenticate(r.Context(), req.Username, req.Password)
		if err != nil {
			if errors.Is(err, booking.ErrInvalidCredentials) {
				writeError(w, http.StatusUnauthorized, "invalid_credentials", "username or password is incorrect")
				return
			}
			writeServiceError(w, err)
			return
		}

		if err := sessions.Issue(w, admin.Username); err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", "could not create session")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"username": admin.Username})
	}
}

func logoutHandler(sessions *SessionManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessions.Clear(w)
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	}
}

func sessionCheckHandler(sessions *SessionManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username, ok := sessions.Verify(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized", "no valid session")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"username": username})
	}
}

func parseTimeslotInput(req TimeslotRequest) booking.TimeslotInput {
	return booking.TimeslotInput{
		StartTime:        req.StartTime,
		EndTime:          req.EndTime,
		Location:         req.Location,
		AppointmentType:  booking.AppointmentType(req.AppointmentType),
		Capacity:         req.Capacity,
		PrimaryCapacity:  req.PrimaryCapacity,
		FollowupCapacity: req.FollowupCapacity,
	}
}

func createTimeslotHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req TimeslotRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		slot, err := svc.CreateTimeslot(r.Context(), parseTimeslotInput(req))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toTimeslotResponse(*slot))
	}
}

func createTimeslotSeriesHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req TimeslotSeriesRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		weekdays := make([]time.Weekday, 0, len(req.Weekdays))
		for _, d := range req.Weekdays {
			if d < 0 || d > 6 {
				writeError(w, http.StatusBadRequest, "invalid_weekday", "weekdays must be 0 (Sunday) through 6 (Saturday)")
				return
			}
			weekdays = append(weekdays, time.Weekday(d))
		}

		slots, err := svc.GenerateTimeslotSeries(r.Context(), booking.SeriesInput{
			StartDate:        req.StartDate,
			EndDate:          req.EndDate,
			Weekdays:         weekdays,
			DayStartHour:     req.DayStartHour,
			DayEndHour:       req.DayEndHour,
			DurationMinutes:  req.DurationMinutes,
			Location:         req.Location,
			AppointmentType:  booking.AppointmentType(req.AppointmentType),
			Capacity:         req.Capacity,
			PrimaryCapacity:  req.PrimaryCapacity,
			FollowupCapacity: req.FollowupCapacity,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		resp := make([]TimeslotResponse, 0, len(slots))
		for _, s := range slots {
			resp = append(resp, toTimeslotResponse(s))
		}
		writeJSON(w, http.StatusCreated, map[string]any{"created": len(resp), "timeslots": resp})
	}
}

func adminListTimeslotsHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset := paginationParams(r)
		slots, total, err := svc.ListTimeslots(r.Context(), limit, offset)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		resp := make([]TimeslotResponse, 0, len(slots))
		for _, s := range slots {
			resp = append(resp, toTimeslotResponse(s))
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": resp, "total": total})
	}
}

func getTimeslotHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r)
		if !ok {
			return
		}
		slot, err := svc.GetTimeslot(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toTimeslotResponse(*slot))
	}
}

func updateTimeslotHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r)
		if !ok {
			return
		}
		var req TimeslotUpdateRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		upd, ok := toTimeslotUpdate(w, req)
		if !ok {
			return
		}
		slot, err := svc.UpdateTimeslot(r.Context(), id, upd)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toTimeslotResponse(*slot))
	}
}

func toTimeslotUpdate(w http.ResponseWriter, req TimeslotUpdateRequest) (booking.TimeslotUpdate, bool) {
	upd := booking.TimeslotUpdate{
		StartTime:        req.StartTime,
		EndTime:          req.EndTime,
		Location:         req.Location,
		Capacity:         req.Capacity,
		ClearCapacity:    req.ClearCapacity,
		PrimaryCapacity:  req.PrimaryCapacity,
		FollowupCapacity: req.FollowupCapacity,
	}
	if req.AppointmentType != nil {
		t := booking.AppointmentType(*req.AppointmentType)
		if !booking.ValidAppointmentType(t) {
			writeError(w, http.StatusBadRequest, "invalid_appointment_type", "appointment_type must be primary, followup or dual")
			return upd, false
		}
		upd.AppointmentType = &t
	}
	return upd, true
}

func deleteTimeslotHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r)
		if !ok {
			return
		}
		if err := svc.DeleteTimeslot(r.Context(), id); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"deleted": true})
	}
}

func bulkDeleteTimeslotsHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ids, ok := decodeBulkIDs(w, r)
		if !ok {
			return
		}
		report, err := svc.BulkDeleteTimeslots(r.Context(), ids)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toBulkReportResponse(report))
	}
}

func bulkEditTimeslotsHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req BulkEditRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		ids, ok := parseUUIDs(w, req.IDs)
		if !ok {
			return
		}
		upd, ok := toTimeslotUpdate(w, req.TimeslotUpdateRequest)
		if !ok {
			return
		}

		report, err := svc.BulkEditTimeslots(r.Context(), ids, upd)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toBulkReportResponse(report))
	}
}

func cancelTimeslotBookingsHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r)
		if !ok {
			return
		}
		count, err := svc.CancelBookingsForTimeslot(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"cancelled": count})
	}
}

func toggleFeaturedHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r)
		if !ok {
			return
		}
		slot, err := svc.ToggleFeatured(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toTimeslotResponse(*slot))
	}
}

func adminListBookingsHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset := paginationParams(r)
		details, err := svc.ListBookings(r.Context(), limit, offset)
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

func adminCancelBookingHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r)
		if !ok {
			return
		}
		if err := svc.CancelBooking(r.Context(), id); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"cancelled": true})
	}
}

func unreviewedBookingsHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		details, err := svc.ListUnreviewed(r.Context())
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

func resultStatusHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r)
		if !ok {
			return
		}
		var req ResultStatusRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if err := svc.SetResultStatus(r.Context(), id, booking.ResultStatus(req.ResultStatus)); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"updated": true})
	}
}

func listParticipantsHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset := paginationParams(r)
		pairs, total, err := svc.ListParticipants(r.Context(), limit, offset)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		resp := make([]PairResponse, 0, len(pairs))
		for _, pair := range pairs {
			item := PairResponse{Participant: toParticipantResponse(pair.Participant)}
			if pair.Primary != nil {
				b := toBookingDetailResponse(*pair.Primary)
				item.Primary = &b
			}
			if pair.Followup != nil {
				b := toBookingDetailResponse(*pair.Followup)
				item.Followup = &b
			}
			resp = append(resp, item)
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": resp, "total": total})
	}
}

func deleteParticipantHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r)
		if !ok {
			return
		}
		if err := svc.DeleteParticipant(r.Context(), id); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"deleted": true})
	}
}

func activityLogsHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset := paginationParams(r)
		if limit == 0 {
			limit = 100
		}
		logs, total, err := svc.Logs(r.Context(), limit, offset)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		resp := make([]ActivityLogResponse, 0, len(logs))
		for _, l := range logs {
			resp = append(resp, toActivityLogResponse(l))
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": resp, "total": total})
	}
}

func statisticsHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := svc.Statistics(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

func sendEmailHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SendEmailRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		participantID, err := uuid.Parse(req.ParticipantID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_participant_id", "participantId must be a valid UUID")
			return
		}
		if err := svc.SendCustomEmail(r.Context(), participantID, req.Subject, req.Message); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"sent": true})
	}
}

func triggerRemindersHandler(scanner *reminder.Scanner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := scanner.Scan(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}

// Shared helpers

func parseIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "id must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}

func parseUUIDs(w http.ResponseWriter, raw []string) ([]uuid.UUID, bool) {
	if len(raw) == 0 {
		writeError(w, http.StatusBadRequest, "missing_ids", "timeslotIds must not be empty")
		return nil, false
	}
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_id", "timeslotIds must all be valid UUIDs")
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}

func decodeBulkIDs(w http.ResponseWriter, r *http.Request) ([]uuid.UUID, bool) {
	var req BulkIDsRequest
	if !decodeJSON(w, r, &req) {
		return nil, false
	}
	return parseUUIDs(w, req.IDs)
}

func paginationParams(r *http.Request) (limit, offset int) {
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			offset = v
		}
	}
	return limit, offset
}
