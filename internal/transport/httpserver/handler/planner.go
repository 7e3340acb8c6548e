package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	aiimportdomain "family-planner-go/internal/domain/aiimport"
	plannerdomain "family-planner-go/internal/domain/planner"
	"family-planner-go/internal/transport/httpserver/middleware"
)

type plannerActivityResponse struct {
	ID          string  `json:"id"`
	UserID      string  `json:"userId"`
	Title       string  `json:"title"`
	Teacher     *string `json:"teacher"`
	Room        *string `json:"room"`
	Notes       *string `json:"notes"`
	Day         string  `json:"day"`
	StartTime   string  `json:"startTime"`
	EndTime     string  `json:"endTime"`
	Color       *string `json:"color"`
	Duration    int     `json:"duration"`
	ArchiveName *string `json:"archiveName"`
}

func toPlannerActivityResponse(activity *plannerdomain.Activity) plannerActivityResponse {
	return plannerActivityResponse{
		ID:          activity.ID,
		UserID:      activity.UserID,
		Title:       activity.Title,
		Teacher:     activity.Teacher,
		Room:        activity.Room,
		Notes:       activity.Notes,
		Day:         activity.Day,
		StartTime:   activity.StartTime,
		EndTime:     activity.EndTime,
		Color:       activity.Color,
		Duration:    activity.Duration,
		ArchiveName: activity.ArchiveName,
	}
}

type plannerActivityRequest struct {
	ID        string                 `json:"id"`
	Title     string                 `json:"title"`
	Teacher   *string                `json:"teacher"`
	Room      *string                `json:"room"`
	Notes     *string                `json:"notes"`
	Day       string                 `json:"day"`
	StartTime string                 `json:"startTime"`
	EndTime   string                 `json:"endTime"`
	Color     *string                `json:"color"`
	Duration  aiimportdomain.FlexInt `json:"duration"`
}

// plannerSyncRequest accepts either a bare array of activities or an
// object wrapping them with an archive name.
type plannerSyncRequest struct {
	ArchiveName *string                  `json:"archiveName"`
	Activities  []plannerActivityRequest `json:"activities"`
}

func (h *Handlers) writePlannerError(w http.ResponseWriter, op string, err error) {
	var validationErr *plannerdomain.ValidationError
	if errors.As(err, &validationErr) {
		h.log.BusinessError(op+": validation failed", err)
		writeError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}
	h.log.InternalError(op+" failed", err)
	writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
}

// archiveParam reads the optional archive_name query parameter; absent
// means the live timetable.
func archiveParam(r *http.Request) *string {
	if !r.URL.Query().Has("archive_name") {
		return nil
	}
	name := r.URL.Query().Get("archive_name")
	return &name
}

func (h *Handlers) ListPlannerActivities(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	activities, err := h.Planner.List(r.Context(), user.ID, archiveParam(r))
	if err != nil {
		h.writePlannerError(w, "planner.list", err)
		return
	}

	resp := make([]plannerActivityResponse, 0, len(activities))
	for i := range activities {
		resp = append(resp, toPlannerActivityResponse(&activities[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) ListPlannerArchives(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	names, err := h.Planner.Archives(r.Context(), user.ID)
	if err != nil {
		h.writePlannerError(w, "planner.archives", err)
		return
	}
	writeJSON(w, http.StatusOK, names)
}

func (h *Handlers) SyncPlannerActivities(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var raw json.RawMessage
	if err := decodeJSON(r, &raw); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	var req plannerSyncRequest
	if err := json.Unmarshal(raw, &req.Activities); err != nil {
		if err := json.Unmarshal(raw, &req); err != nil || req.Activities == nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "payload must be a list of activities")
			return
		}
	}

	inputs := make([]plannerdomain.ActivityInput, 0, len(req.Activities))
	for _, item := range req.Activities {
		input := plannerdomain.ActivityInput{
			ID:        item.ID,
			Title:     item.Title,
			Teacher:   item.Teacher,
			Room:      item.Room,
			Notes:     item.Notes,
			Day:       item.Day,
			StartTime: item.StartTime,
			EndTime:   item.EndTime,
			Color:     item.Color,
		}
		input.Duration = item.Duration.Value
		inputs = append(inputs, input)
	}

	count, err := h.Planner.Sync(r.Context(), user.ID, req.ArchiveName, inputs)
	if err != nil {
		h.writePlannerError(w, "planner.sync", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"count": count})
}

func (h *Handlers) DeletePlannerActivities(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	if err := h.Planner.Delete(r.Context(), user.ID, archiveParam(r)); err != nil {
		h.writePlannerError(w, "planner.delete", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "planner activities deleted"})
}
