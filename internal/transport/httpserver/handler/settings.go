package handler

import (
	"net/http"

	scheduledomain "family-planner-go/internal/domain/schedule"
	"family-planner-go/internal/transport/httpserver/middleware"
)

type settingsResponse struct {
	ShowWeekends bool `json:"showWeekends"`
	DayStart     int  `json:"dayStart"`
	DayEnd       int  `json:"dayEnd"`
}

type updateSettingsRequest struct {
	ShowWeekends *bool `json:"showWeekends"`
	DayStart     *int  `json:"dayStart"`
	DayEnd       *int  `json:"dayEnd"`
}

func toSettingsResponse(settings *scheduledomain.Settings) settingsResponse {
	return settingsResponse{
		ShowWeekends: settings.ShowWeekends,
		DayStart:     settings.DayStart,
		DayEnd:       settings.DayEnd,
	}
}

func (h *Handlers) GetSettings(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	settings, err := h.Schedule.GetSettings(r.Context(), user.ID)
	if err != nil {
		h.writeScheduleError(w, "settings.get", err)
		return
	}

	writeJSON(w, http.StatusOK, toSettingsResponse(settings))
}

func (h *Handlers) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req updateSettingsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	settings, err := h.Schedule.UpdateSettings(r.Context(), user.ID, scheduledomain.UpdateSettingsInput{
		ShowWeekends: req.ShowWeekends,
		DayStart:     req.DayStart,
		DayEnd:       req.DayEnd,
	})
	if err != nil {
		h.writeScheduleError(w, "settings.update", err)
		return
	}

	writeJSON(w, http.StatusOK, toSettingsResponse(settings))
}
