package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	scheduledomain "family-planner-go/internal/domain/schedule"
	"family-planner-go/internal/transport/httpserver/middleware"
)

type memberResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	Icon      string `json:"icon"`
	SortOrder int    `json:"sortOrder"`
}

func toMemberResponse(member scheduledomain.Member) memberResponse {
	return memberResponse{
		ID:        member.ID,
		Name:      member.Name,
		Color:     member.Color,
		Icon:      member.Icon,
		SortOrder: member.SortOrder,
	}
}

type createMemberRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

type updateMemberRequest struct {
	Name      *string `json:"name"`
	Color     *string `json:"color"`
	Icon      *string `json:"icon"`
	SortOrder *int    `json:"sortOrder"`
}

func (h *Handlers) ListMembers(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	members, err := h.Schedule.ListMembers(r.Context(), user.ID)
	if err != nil {
		h.writeScheduleError(w, "members.list", err)
		return
	}

	resp := make([]memberResponse, 0, len(members))
	for _, member := range members {
		resp = append(resp, toMemberResponse(member))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) CreateMember(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req createMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	member, err := h.Schedule.CreateMember(r.Context(), user.ID, scheduledomain.CreateMemberInput{
		Name:  req.Name,
		Color: req.Color,
		Icon:  req.Icon,
	})
	if err != nil {
		h.writeScheduleError(w, "members.create", err)
		return
	}

	writeJSON(w, http.StatusCreated, toMemberResponse(*member))
}

func (h *Handlers) UpdateMember(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req updateMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	member, err := h.Schedule.UpdateMember(r.Context(), user.ID, chi.URLParam(r, "id"), scheduledomain.UpdateMemberInput{
		Name:      req.Name,
		Color:     req.Color,
		Icon:      req.Icon,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		h.writeScheduleError(w, "members.update", err)
		return
	}

	writeJSON(w, http.StatusOK, toMemberResponse(*member))
}

func (h *Handlers) DeleteMember(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	if err := h.Schedule.DeleteMember(r.Context(), user.ID, chi.URLParam(r, "id")); err != nil {
		h.writeScheduleError(w, "members.delete", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "member deleted"})
}
