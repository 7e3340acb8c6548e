package handler

import (
	"errors"
	"net/http"

	aiimportdomain "family-planner-go/internal/domain/aiimport"
	"family-planner-go/internal/transport/httpserver/middleware"
)

type parseScheduleRequest struct {
	Text string `json:"text"`
	Week *int   `json:"week"`
	Year *int   `json:"year"`
}

func (h *Handlers) ParseSchedule(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req parseScheduleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	payloads, err := h.Importer.Preview(r.Context(), user.ID, req.Text, req.Week, req.Year)
	if err != nil {
		if errors.Is(err, aiimportdomain.ErrNotConfigured) {
			h.log.BusinessError("aiimport.parse: not configured", err)
			writeError(w, http.StatusServiceUnavailable, "ai_not_configured", "AI parsing is not configured")
			return
		}
		h.writeScheduleError(w, "aiimport.parse", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"activities": payloads})
}

func (h *Handlers) ImportSchedule(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req parseScheduleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	created, err := h.Importer.Import(r.Context(), user.ID, req.Text, req.Week, req.Year)
	if err != nil {
		if errors.Is(err, aiimportdomain.ErrNotConfigured) {
			h.log.BusinessError("aiimport.import: not configured", err)
			writeError(w, http.StatusServiceUnavailable, "ai_not_configured", "AI parsing is not configured")
			return
		}
		h.writeScheduleError(w, "aiimport.import", err)
		return
	}

	resp := make([]activityResponse, 0, len(created))
	for _, activity := range created {
		resp = append(resp, toActivityResponse(activity))
	}
	writeJSON(w, http.StatusCreated, resp)
}
