package handler

import (
	"errors"
	"net/http"

	aiimportdomain "family-planner-go/internal/domain/aiimport"
	plannerdomain "family-planner-go/internal/domain/planner"
	scheduledomain "family-planner-go/internal/domain/schedule"
	userdomain "family-planner-go/internal/domain/user"

	calendardomain "family-planner-go/internal/domain/calendar"
	notesdomain "family-planner-go/internal/domain/notes"
	"family-planner-go/pkg/logger"
)

type Handlers struct {
	Users    *userdomain.Service
	Schedule *scheduledomain.Service
	Planner  *plannerdomain.Service
	Calendar *calendardomain.Service
	Notes    *notesdomain.Service
	Importer *aiimportdomain.Service
	log      logger.Logger
}

func New(users *userdomain.Service, schedule *scheduledomain.Service, planner *plannerdomain.Service, calendar *calendardomain.Service, notes *notesdomain.Service, importer *aiimportdomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Users:    users,
		Schedule: schedule,
		Planner:  planner,
		Calendar: calendar,
		Notes:    notes,
		Importer: importer,
		log:      log,
	}
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":        "ok",
		"ai_configured": h.Importer != nil && h.Importer.Configured(),
	})
}

// writeScheduleError maps schedule domain failures to HTTP statuses:
// malformed payloads are 400, unresolvable participants 422, overlap
// conflicts 409.
func (h *Handlers) writeScheduleError(w http.ResponseWriter, op string, err error) {
	var validationErr *scheduledomain.ValidationError
	var unknownErr *scheduledomain.UnknownParticipantsError
	var conflictErr *scheduledomain.ConflictError

	switch {
	case errors.As(err, &validationErr):
		h.log.BusinessError(op+": validation failed", err)
		writeError(w, http.StatusBadRequest, "validation_error", validationErr.Error())
	case errors.As(err, &unknownErr):
		h.log.BusinessError(op+": unknown participants", err)
		writeErrorDetails(w, http.StatusUnprocessableEntity, "unknown_participants",
			"unknown participants", map[string]interface{}{"unknown": unknownErr.Refs})
	case errors.As(err, &conflictErr):
		h.log.BusinessError(op+": schedule conflict", err)
		writeErrorDetails(w, http.StatusConflict, "schedule_conflict",
			"activities overlap for shared participants", map[string]interface{}{"conflicts": conflictErr.Conflicts})
	case errors.Is(err, scheduledomain.ErrActivityNotFound),
		errors.Is(err, scheduledomain.ErrSeriesNotFound),
		errors.Is(err, scheduledomain.ErrMemberNotFound):
		h.log.BusinessError(op+": not found", err)
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, scheduledomain.ErrMemberNameTaken):
		h.log.BusinessError(op+": name taken", err)
		writeError(w, http.StatusConflict, "name_taken", err.Error())
	case errors.Is(err, scheduledomain.ErrMemberInUse):
		h.log.BusinessError(op+": member in use", err)
		writeError(w, http.StatusConflict, "member_in_use", err.Error())
	default:
		h.log.InternalError(op+" failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}
