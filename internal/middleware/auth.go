package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"localshop/internal/service"
)

type contextKey string

const (
	UserIDKey   contextKey = "user_id"
	UserNameKey contextKey = "user_name"

	// SessionCookieName carries the access token for browser clients
	SessionCookieName = "session"
)

// TokenValidator verifies an access token and returns its claims
type TokenValidator interface {
	ValidateToken(tokenString string) (*service.Claims, error)
}

// AuthMiddleware authenticates requests by a Bearer token or the session cookie
func AuthMiddleware(tokens TokenValidator, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, err := extractToken(r)
			if err != nil {
				logger.Debug("Rejected unauthenticated request", zap.Error(err), zap.String("path", r.URL.Path))
				RespondWithError(w, http.StatusUnauthorized, err.Error())
				return
			}

			claims, err := tokens.ValidateToken(tokenString)
			if err != nil {
				logger.Debug("Token validation failed", zap.Error(err))
				if errors.Is(err, service.ErrTokenExpired) {
					RespondWithError(w, http.StatusUnauthorized, "token expired")
				} else {
					RespondWithError(w, http.StatusUnauthorized, "invalid token")
				}
				return
			}

			if claims.UserID == "" {
				logger.Error("Missing user_id in token claims")
				RespondWithError(w, http.StatusUnauthorized, "invalid token claims")
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, UserNameKey, claims.Name)

			logger.Debug("User authenticated", zap.String("user_id", claims.UserID))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

var (
	errMissingCredentials = errors.New("missing authorization header")
	errMalformedHeader    = errors.New("invalid authorization header format")
)

// extractToken prefers the Authorization header and falls back to the session cookie
func extractToken(r *http.Request) (string, error) {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			return "", errMalformedHeader
		}
		return parts[1], nil
	}

	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	return "", errMissingCredentials
}

// GetUserID extracts user ID from request context
func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok
}

// GetUserName extracts the display name from request context
func GetUserName(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(UserNameKey).(string)
	return name, ok
}
