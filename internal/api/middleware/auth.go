package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/2exd/suit-streak-server/internal/api/apierr"
	"github.com/2exd/suit-streak-server/internal/model"
	"github.com/2exd/suit-streak-server/internal/services/identity"
)

type contextKey string

const (
	userContextKey    contextKey = "user"
	sessionContextKey contextKey = "session"
)

// Auth creates authentication middleware. It requires a valid session
// token but does not require the user to have set a username.
func Auth(identityService *identity.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			session, err := identityService.ValidateSession(token)
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			// Add session and user id to context
			ctx := r.Context()
			ctx = context.WithValue(ctx, sessionContextKey, session)
			ctx = context.WithValue(ctx, userContextKey, session.UserID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireLogin rejects users who have not set a username yet. It must
// run after Auth.
func RequireLogin(identityService *identity.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := GetUserID(r.Context())
			if userID == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			loggedIn, err := identityService.IsLoggedIn(r.Context(), userID)
			if err != nil {
				apierr.WriteError(w, err)
				return
			}
			if !loggedIn {
				apierr.WriteError(w, model.ErrNotAuthenticated)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// extractToken extracts the session token from the request
func extractToken(r *http.Request) string {
	// Check Authorization header first
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	// Fall back to cookie
	cookie, err := r.Cookie("session")
	if err == nil {
		return cookie.Value
	}

	return ""
}

// GetUserID returns the authenticated user id from the request context
func GetUserID(ctx context.Context) model.UserID {
	userID, _ := ctx.Value(userContextKey).(model.UserID)
	return userID
}

// GetSession returns the session from the request context
func GetSession(ctx context.Context) *identity.Session {
	session, _ := ctx.Value(sessionContextKey).(*identity.Session)
	return session
}

// MustGetUserID returns the authenticated user id or panics
func MustGetUserID(ctx context.Context) model.UserID {
	userID := GetUserID(ctx)
	if userID == "" {
		panic("no user in context - auth middleware not applied?")
	}
	return userID
}
