package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/smart-attendance/attendance-backend-go/internal/domain/auth"
	"github.com/smart-attendance/attendance-backend-go/internal/domain/user"
	"github.com/smart-attendance/attendance-backend-go/internal/handler/http/response"
	"github.com/smart-attendance/attendance-backend-go/internal/pkg/jwt"
)

// AuthRequired rejects requests that do not carry a valid, unrevoked
// access token.
func AuthRequired(jwtService jwt.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			tokenType, ok := claims["type"].(string)
			if !ok || tokenType != "access" {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			if jwtService.IsTokenRevoked(jwtauth.TokenFromHeader(r)) {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(hfn)
	}
}

// UserID extracts the authenticated user ID from the verified token claims.
func UserID(r *http.Request) (string, error) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return "", auth.ErrInvalidToken
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", auth.ErrInvalidToken
	}

	return userID, nil
}

// IsAdmin reports whether the verified token carries the admin role.
func IsAdmin(r *http.Request) bool {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return false
	}

	role, ok := claims["role"].(string)
	return ok && role == string(user.RoleAdmin)
}
