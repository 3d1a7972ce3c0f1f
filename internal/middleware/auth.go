package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"dinehall-pos-services/internal/auth"
	"dinehall-pos-services/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

type contextKey string

const authContextKey contextKey = "authContext"

type AuthContext struct {
	UserID int64
	Role   auth.UserRole
	Email  string
	Name   string
}

func WithAuthContext(ctx context.Context, authCtx *AuthContext) context.Context {
	return context.WithValue(ctx, authContextKey, authCtx)
}

func GetAuthContext(ctx context.Context) (*AuthContext, bool) {
	value := ctx.Value(authContextKey)
	if value == nil {
		return nil, false
	}
	ac, ok := value.(*AuthContext)
	return ac, ok
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error":   "UNAUTHORIZED",
		"message": message,
	})
}

// StaffAuth resolves the caller from the bearer header or the session
// cookie, confirms the account is still active and attaches an
// AuthContext for the handlers.
func StaffAuth(db *pgxpool.Pool, cfg config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := auth.ParseBearerToken(r.Header.Get("Authorization"))
			if token == "" {
				if cookie, err := r.Cookie(cfg.SessionCookieName); err == nil {
					token = cookie.Value
				}
			}

			claims, err := auth.VerifyAccessToken(token, cfg.JWTSecret)
			if err != nil {
				writeAuthError(w, http.StatusUnauthorized, "Authorization token required")
				return
			}

			userID, err := strconv.ParseInt(claims.UserID, 10, 64)
			if err != nil {
				writeAuthError(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			var (
				role     string
				isActive bool
			)
			err = db.QueryRow(r.Context(),
				`select role, is_active from users where id = $1`, userID,
			).Scan(&role, &isActive)
			if err != nil || !isActive {
				writeAuthError(w, http.StatusUnauthorized, "Account not found or disabled")
				return
			}

			parsedRole, ok := auth.ParseRole(role)
			if !ok || parsedRole != claims.Role {
				writeAuthError(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			authCtx := &AuthContext{
				UserID: userID,
				Role:   parsedRole,
				Email:  claims.Email,
				Name:   claims.Name,
			}
			next.ServeHTTP(w, r.WithContext(WithAuthContext(r.Context(), authCtx)))
		})
	}
}

// Require gates a route group on the role policy for one resource.
func Require(resource auth.Resource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authCtx, ok := GetAuthContext(r.Context())
			if !ok {
				writeAuthError(w, http.StatusUnauthorized, "Authorization token required")
				return
			}
			if !auth.Allowed(authCtx.Role, resource) {
				writeAuthError(w, http.StatusForbidden, "You do not have permission to access this resource")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
