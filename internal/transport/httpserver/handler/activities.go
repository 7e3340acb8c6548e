package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	scheduledomain "family-planner-go/internal/domain/schedule"
	"family-planner-go/internal/transport/httpserver/middleware"
)

// decodeActivityPayloads accepts a single activity object or an array
// of them; clients send both shapes.
func decodeActivityPayloads(r *http.Request) ([]scheduledomain.ActivityPayload, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	trimmed := bytes.TrimSpace(body)

	if len(trimmed) > 0 && trimmed[0] == '[' {
		var payloads []scheduledomain.ActivityPayload
		if err := json.Unmarshal(trimmed, &payloads); err != nil {
			return nil, err
		}
		return payloads, nil
	}

	var payload scheduledomain.ActivityPayload
	if err := json.Unmarshal(trimmed, &payload); err != nil {
		return nil, err
	}
	return []scheduledomain.ActivityPayload{payload}, nil
}

type activityResponse struct {
	ID           string   `json:"id"`
	SeriesID     string   `json:"seriesId,omitempty"`
	Name         string   `json:"name"`
	Icon         *string  `json:"icon,omitempty"`
	Day          string   `json:"day"`
	Week         int      `json:"week"`
	Year         int      `json:"year"`
	StartTime    string   `json:"startTime"`
	EndTime      string   `json:"endTime"`
	Location     *string  `json:"location,omitempty"`
	Notes        *string  `json:"notes,omitempty"`
	Color        *string  `json:"color,omitempty"`
	Participants []string `json:"participants"`
}

func toActivityResponse(activity *scheduledomain.Activity) activityResponse {
	participants := activity.Participants
	if participants == nil {
		participants = []string{}
	}
	return activityResponse{
		ID:           activity.ID,
		SeriesID:     activity.SeriesID,
		Name:         activity.Name,
		Icon:         activity.Icon,
		Day:          activity.Day,
		Week:         activity.Week,
		Year:         activity.Year,
		StartTime:    activity.StartTime,
		EndTime:      activity.EndTime,
		Location:     activity.Location,
		Notes:        activity.Notes,
		Color:        activity.Color,
		Participants: participants,
	}
}

type updateActivityRequest struct {
	Name         *string                   `json:"name"`
	Icon         *string                   `json:"icon"`
	Day          *scheduledomain.FlexRef   `json:"day"`
	Week         *int                      `json:"week"`
	Year         *int                      `json:"year"`
	StartTime    *string                   `json:"startTime"`
	EndTime      *string                   `json:"endTime"`
	Location     *string                   `json:"location"`
	Notes        *string                   `json:"notes"`
	Color        *string                   `json:"color"`
	Participants *[]scheduledomain.FlexRef `json:"participants"`
}

func (r updateActivityRequest) toInput() scheduledomain.UpdateActivityInput {
	return scheduledomain.UpdateActivityInput{
		Name:         r.Name,
		Icon:         r.Icon,
		Day:          r.Day,
		Week:         r.Week,
		Year:         r.Year,
		StartTime:    r.StartTime,
		EndTime:      r.EndTime,
		Location:     r.Location,
		Notes:        r.Notes,
		Color:        r.Color,
		Participants: r.Participants,
	}
}

func (h *Handlers) ListActivities(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	query := r.URL.Query()
	week, err := parseOptionalInt(query.Get("week"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid week")
		return
	}
	year, err := parseOptionalInt(query.Get("year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid year")
		return
	}

	activities, err := h.Schedule.ListActivities(r.Context(), user.ID, scheduledomain.ActivityFilter{Week: week, Year: year})
	if err != nil {
		h.writeScheduleError(w, "activities.list", err)
		return
	}

	resp := make([]activityResponse, 0, len(activities))
	for i := range activities {
		resp = append(resp, toActivityResponse(&activities[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateActivities accepts either a single activity object or an array
// of them, validates and expands the batch, and persists it atomically
// unless a conflict is detected.
func (h *Handlers) CreateActivities(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	payloads, err := decodeActivityPayloads(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if len(payloads) == 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "no activities provided")
		return
	}

	created, err := h.Schedule.CreateActivities(r.Context(), user.ID, payloads, true)
	if err != nil {
		h.writeScheduleError(w, "activities.create", err)
		return
	}

	resp := make([]activityResponse, 0, len(created))
	for _, activity := range created {
		resp = append(resp, toActivityResponse(activity))
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *Handlers) UpdateActivity(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req updateActivityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	activity, err := h.Schedule.UpdateActivity(r.Context(), user.ID, chi.URLParam(r, "id"), req.toInput())
	if err != nil {
		h.writeScheduleError(w, "activities.update", err)
		return
	}

	writeJSON(w, http.StatusOK, toActivityResponse(activity))
}

func (h *Handlers) DeleteActivity(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	if err := h.Schedule.DeleteActivity(r.Context(), user.ID, chi.URLParam(r, "id")); err != nil {
		h.writeScheduleError(w, "activities.delete", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "activity deleted"})
}

func (h *Handlers) ListSeries(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	activities, err := h.Schedule.ListSeries(r.Context(), user.ID, chi.URLParam(r, "seriesId"))
	if err != nil {
		h.writeScheduleError(w, "series.list", err)
		return
	}

	resp := make([]activityResponse, 0, len(activities))
	for i := range activities {
		resp = append(resp, toActivityResponse(&activities[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) UpdateSeries(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req updateActivityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	updated, err := h.Schedule.UpdateSeries(r.Context(), user.ID, chi.URLParam(r, "seriesId"), req.toInput())
	if err != nil {
		h.writeScheduleError(w, "series.update", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"updated": updated})
}

func (h *Handlers) DeleteSeries(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	deleted, err := h.Schedule.DeleteSeries(r.Context(), user.ID, chi.URLParam(r, "seriesId"))
	if err != nil {
		h.writeScheduleError(w, "series.delete", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"deleted": deleted})
}
