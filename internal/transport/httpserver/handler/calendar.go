package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	calendardomain "family-planner-go/internal/domain/calendar"
	"family-planner-go/internal/transport/httpserver/middleware"
)

type eventResponse struct {
	ID    string  `json:"id"`
	Title string  `json:"title"`
	Start int64   `json:"start"`
	End   int64   `json:"end"`
	Notes *string `json:"notes"`
	Color *string `json:"color"`
}

func toEventResponse(event *calendardomain.Event) eventResponse {
	return eventResponse{
		ID:    event.ID,
		Title: event.Title,
		Start: calendardomain.TimeToMillis(event.StartTime),
		End:   calendardomain.TimeToMillis(event.EndTime),
		Notes: event.Notes,
		Color: event.Color,
	}
}

type createEventRequest struct {
	Title string  `json:"title"`
	Start *int64  `json:"start"`
	End   *int64  `json:"end"`
	Notes *string `json:"notes"`
	Color *string `json:"color"`
}

type updateEventRequest struct {
	Title *string `json:"title"`
	Start *int64  `json:"start"`
	End   *int64  `json:"end"`
	Notes *string `json:"notes"`
	Color *string `json:"color"`
}

func (h *Handlers) writeCalendarError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, calendardomain.ErrEventNotFound):
		h.log.BusinessError(op+": event not found", err)
		writeError(w, http.StatusNotFound, "not_found", "event not found")
	case errors.Is(err, calendardomain.ErrInvalidRange):
		h.log.BusinessError(op+": invalid range", err)
		writeError(w, http.StatusBadRequest, "invalid_request", "end must be >= start")
	case errors.Is(err, calendardomain.ErrTitleRequired),
		errors.Is(err, calendardomain.ErrBadDate):
		h.log.BusinessError(op+": rejected", err)
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		h.log.InternalError(op+" failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func (h *Handlers) ListEvents(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	query := r.URL.Query()
	start, err := parseOptionalInt64(query.Get("start"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid start timestamp")
		return
	}
	end, err := parseOptionalInt64(query.Get("end"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid end timestamp")
		return
	}

	events, err := h.Calendar.ListEvents(r.Context(), user.ID, start, end)
	if err != nil {
		h.writeCalendarError(w, "calendar.list_events", err)
		return
	}

	resp := make([]eventResponse, 0, len(events))
	for i := range events {
		resp = append(resp, toEventResponse(&events[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) CreateEvent(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req createEventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if req.Title == "" || req.Start == nil || req.End == nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "title, start and end are required")
		return
	}

	event, err := h.Calendar.CreateEvent(r.Context(), user.ID, calendardomain.EventInput{
		Title:   req.Title,
		StartMs: *req.Start,
		EndMs:   *req.End,
		Notes:   req.Notes,
		Color:   req.Color,
	})
	if err != nil {
		h.writeCalendarError(w, "calendar.create_event", err)
		return
	}

	writeJSON(w, http.StatusCreated, toEventResponse(event))
}

func (h *Handlers) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req updateEventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	event, err := h.Calendar.UpdateEvent(r.Context(), user.ID, chi.URLParam(r, "id"), calendardomain.UpdateEventInput{
		Title:   req.Title,
		StartMs: req.Start,
		EndMs:   req.End,
		Notes:   req.Notes,
		Color:   req.Color,
	})
	if err != nil {
		h.writeCalendarError(w, "calendar.update_event", err)
		return
	}

	writeJSON(w, http.StatusOK, toEventResponse(event))
}

func (h *Handlers) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	if err := h.Calendar.DeleteEvent(r.Context(), user.ID, chi.URLParam(r, "id")); err != nil {
		h.writeCalendarError(w, "calendar.delete_event", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "event deleted"})
}

type dayNoteResponse struct {
	ID    string `json:"id,omitempty"`
	Date  string `json:"date"`
	Notes string `json:"notes"`
}

type saveDayNoteRequest struct {
	Notes *string `json:"notes"`
}

func (h *Handlers) GetDayNote(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	note, err := h.Calendar.GetDayNote(r.Context(), user.ID, chi.URLParam(r, "date"))
	if err != nil {
		h.writeCalendarError(w, "calendar.get_day_note", err)
		return
	}

	writeJSON(w, http.StatusOK, dayNoteResponse{
		ID:    note.ID,
		Date:  note.Date.Format("2006-01-02"),
		Notes: note.Notes,
	})
}

func (h *Handlers) SaveDayNote(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req saveDayNoteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if req.Notes == nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "notes is required")
		return
	}

	note, err := h.Calendar.SaveDayNote(r.Context(), user.ID, chi.URLParam(r, "date"), *req.Notes)
	if err != nil {
		h.writeCalendarError(w, "calendar.save_day_note", err)
		return
	}

	writeJSON(w, http.StatusOK, dayNoteResponse{
		ID:    note.ID,
		Date:  note.Date.Format("2006-01-02"),
		Notes: note.Notes,
	})
}
