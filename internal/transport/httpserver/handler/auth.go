package handler

import (
	"errors"
	"net/http"
	"time"

	userdomain "family-planner-go/internal/domain/user"
	"family-planner-go/internal/transport/httpserver/middleware"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	CreatedAt string `json:"createdAt"`
	LastLogin string `json:"lastLogin,omitempty"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

func toUserResponse(user *userdomain.User) userResponse {
	resp := userResponse{
		ID:        user.ID,
		Username:  user.Username,
		CreatedAt: user.CreatedAt.UTC().Format(time.RFC3339),
	}
	if user.LastLogin != nil {
		resp.LastLogin = user.LastLogin.UTC().Format(time.RFC3339)
	}
	return resp
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	user, signed, err := h.Users.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, userdomain.ErrUsernameTaken) {
			h.log.BusinessError("auth.register: username taken", err, "username", req.Username)
			writeError(w, http.StatusConflict, "username_taken", "username already taken")
			return
		}
		h.log.BusinessError("auth.register: rejected", err)
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{Token: signed, User: toUserResponse(user)})
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	user, signed, err := h.Users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, userdomain.ErrInvalidCredentials) {
			h.log.BusinessError("auth.login: invalid credentials", err, "username", req.Username)
			writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid username or password")
			return
		}
		h.log.InternalError("auth.login failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Token: signed, User: toUserResponse(user)})
}

func (h *Handlers) AuthMe(w http.ResponseWriter, r *http.Request) {
	auth, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	user, err := h.Users.Get(r.Context(), auth.ID)
	if err != nil {
		if errors.Is(err, userdomain.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "user not found")
			return
		}
		h.log.InternalError("auth.me failed", err, "user_id", auth.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}
