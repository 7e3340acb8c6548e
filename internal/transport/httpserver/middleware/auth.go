package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"family-planner-go/pkg/logger"
	"family-planner-go/pkg/token"
)

type contextKey int

const (
	userIDKey contextKey = iota
	userKey
)

type User struct {
	ID       string
	Username string
}

// JWTAuth validates bearer tokens issued by pkg/token and injects the
// authenticated user into the request context.
type JWTAuth struct {
	tokens *token.Manager
	log    logger.Logger
}

func NewJWTAuth(tokens *token.Manager, log logger.Logger) *JWTAuth {
	return &JWTAuth{tokens: tokens, log: log}
}

func (a *JWTAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		bearer, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			unauthorized(w, "missing bearer token")
			return
		}

		claims, err := a.tokens.Parse(bearer)
		if err != nil {
			if errors.Is(err, token.ErrTokenExpired) {
				unauthorized(w, "token expired")
				return
			}
			unauthorized(w, "invalid token")
			return
		}

		user := User{ID: claims.UserID, Username: claims.Username}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

func bearerToken(value string) (string, bool) {
	parts := strings.Fields(value)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    "invalid_token",
			"message": message,
		},
	})
}

func WithUser(ctx context.Context, user User) context.Context {
	ctx = context.WithValue(ctx, userKey, user)
	return context.WithValue(ctx, userIDKey, user.ID)
}

func UserFromContext(ctx context.Context) (User, bool) {
	user, ok := ctx.Value(userKey).(User)
	if !ok || user.ID == "" {
		return User{}, false
	}
	return user, true
}

func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}
