package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"dinehall-pos-services/internal/auth"
	"dinehall-pos-services/internal/middleware"
	"dinehall-pos-services/pkg/response"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

type signupPayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userView struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	IsActive bool   `json:"isActive"`
}

// AuthSignup registers a staff account. The first account ever created
// becomes ADMIN regardless of the requested role; after that the
// requested role is honored only when it parses.
func (h *Handler) AuthSignup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var payload signupPayload
	if err := decodeJSON(r, &payload); err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_PAYLOAD", "Invalid request body")
		return
	}

	name := strings.TrimSpace(payload.Name)
	email := strings.ToLower(strings.TrimSpace(payload.Email))
	if name == "" || email == "" || !strings.Contains(email, "@") {
		response.Error(w, http.StatusBadRequest, "AUTH_VALIDATION_ERROR", "Name and a valid email are required")
		return
	}
	if len(payload.Password) < 8 {
		response.Error(w, http.StatusBadRequest, "AUTH_VALIDATION_ERROR", "Password must have at least 8 characters")
		return
	}

	role, ok := auth.ParseRole(payload.Role)
	if !ok {
		role = auth.RoleWaiter
	}

	var userCount int64
	if err := h.DB.QueryRow(ctx, `select count(*) from users`).Scan(&userCount); err != nil {
		h.Logger.Error("signup count failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create account")
		return
	}
	if userCount == 0 {
		role = auth.RoleAdmin
	}

	hash, err := auth.HashPassword(payload.Password)
	if err != nil {
		h.Logger.Error("password hash failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create account")
		return
	}

	var user userView
	err = h.DB.QueryRow(ctx, `
		insert into users (name, email, password_hash, role, is_active)
		values ($1, $2, $3, $4, true)
		returning id, name, email, role, is_active
	`, name, email, hash, string(role)).Scan(&user.ID, &user.Name, &user.Email, &user.Role, &user.IsActive)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			response.Error(w, http.StatusConflict, "EMAIL_TAKEN", "An account with this email already exists")
			return
		}
		h.Logger.Error("signup insert failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create account")
		return
	}

	response.Created(w, user)
}

// AuthLogin verifies credentials, sets the session cookie and returns the
// token so API clients can use the bearer header instead.
func (h *Handler) AuthLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var payload loginPayload
	if err := decodeJSON(r, &payload); err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_PAYLOAD", "Invalid request body")
		return
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))
	if email == "" || payload.Password == "" {
		response.Error(w, http.StatusBadRequest, "AUTH_VALIDATION_ERROR", "Email and password are required")
		return
	}

	var (
		user         userView
		passwordHash string
	)
	err := h.DB.QueryRow(ctx, `
		select id, name, email, password_hash, role, is_active
		from users where email = $1
	`, email).Scan(&user.ID, &user.Name, &user.Email, &passwordHash, &user.Role, &user.IsActive)
	if errors.Is(err, pgx.ErrNoRows) {
		response.Error(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
		return
	}
	if err != nil {
		h.Logger.Error("login lookup failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to sign in")
		return
	}

	if !user.IsActive {
		response.Error(w, http.StatusUnauthorized, "ACCOUNT_DISABLED", "This account has been disabled")
		return
	}
	if !auth.CheckPassword(passwordHash, payload.Password) {
		response.Error(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
		return
	}

	role, _ := auth.ParseRole(user.Role)
	expiry := time.Duration(h.Config.JWTExpirySeconds) * time.Second
	token, err := auth.IssueAccessToken(fmt.Sprint(user.ID), role, user.Email, user.Name, h.Config.JWTSecret, expiry)
	if err != nil {
		h.Logger.Error("token issue failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to sign in")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.Config.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.Config.JWTExpirySeconds),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.Config.Env == "production",
	})

	response.Success(w, map[string]any{
		"token": token,
		"user":  user,
	})
}

func (h *Handler) AuthLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.Config.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.Config.Env == "production",
	})
	response.Success(w, map[string]any{"loggedOut": true})
}

func (h *Handler) AuthMe(w http.ResponseWriter, r *http.Request) {
	authCtx, ok := middleware.GetAuthContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authorization token required")
		return
	}

	var user userView
	err := h.DB.QueryRow(r.Context(), `
		select id, name, email, role, is_active from users where id = $1
	`, authCtx.UserID).Scan(&user.ID, &user.Name, &user.Email, &user.Role, &user.IsActive)
	if err != nil {
		response.Error(w, http.StatusNotFound, "USER_NOT_FOUND", "Account not found")
		return
	}
	response.Success(w, user)
}
