package handlers

import (
	"errors"
	"net/http"
	"strings"

	"dinehall-pos-services/internal/auth"
	"dinehall-pos-services/internal/middleware"
	"dinehall-pos-services/pkg/response"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

type staffUpdatePayload struct {
	Name     *string `json:"name,omitempty"`
	Role     *string `json:"role,omitempty"`
	IsActive *bool   `json:"isActive,omitempty"`
}

func (h *Handler) StaffList(w http.ResponseWriter, r *http.Request) {
	rows, err := h.DB.Query(r.Context(), `
		select id, name, email, role, is_active from users order by name
	`)
	if err != nil {
		h.Logger.Error("staff list failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to retrieve staff")
		return
	}
	defer rows.Close()

	staff := make([]userView, 0)
	for rows.Next() {
		var u userView
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.IsActive); err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to retrieve staff")
			return
		}
		staff = append(staff, u)
	}
	response.Success(w, staff)
}

// StaffCreate adds an account with an explicit role; unlike signup it is
// admin-gated by the route policy.
func (h *Handler) StaffCreate(w http.ResponseWriter, r *http.Request) {
	var payload signupPayload
	if err := decodeJSON(r, &payload); err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_PAYLOAD", "Invalid request body")
		return
	}

	name := strings.TrimSpace(payload.Name)
	email := strings.ToLower(strings.TrimSpace(payload.Email))
	if name == "" || email == "" || !strings.Contains(email, "@") {
		response.Error(w, http.StatusBadRequest, "STAFF_VALIDATION_ERROR", "Name and a valid email are required")
		return
	}
	if len(payload.Password) < 8 {
		response.Error(w, http.StatusBadRequest, "STAFF_VALIDATION_ERROR", "Password must have at least 8 characters")
		return
	}
	role, ok := auth.ParseRole(payload.Role)
	if !ok {
		response.Error(w, http.StatusBadRequest, "STAFF_VALIDATION_ERROR", "Role must be ADMIN, MANAGER or WAITER")
		return
	}

	hash, err := auth.HashPassword(payload.Password)
	if err != nil {
		h.Logger.Error("password hash failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create staff account")
		return
	}

	var user userView
	err = h.DB.QueryRow(r.Context(), `
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
		h.Logger.Error("staff insert failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create staff account")
		return
	}
	response.Created(w, user)
}

func (h *Handler) StaffUpdate(w http.ResponseWriter, r *http.Request) {
	userID, err := readPathInt64(r, "userId")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_PAYLOAD", "Invalid user id")
		return
	}

	var payload staffUpdatePayload
	if err := decodeJSON(r, &payload); err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_PAYLOAD", "Invalid request body")
		return
	}

	var roleArg *string
	if payload.Role != nil {
		role, ok := auth.ParseRole(*payload.Role)
		if !ok {
			response.Error(w, http.StatusBadRequest, "STAFF_VALIDATION_ERROR", "Role must be ADMIN, MANAGER or WAITER")
			return
		}
		value := string(role)
		roleArg = &value
	}

	// Admins cannot disable or demote themselves.
	if authCtx, ok := middleware.GetAuthContext(r.Context()); ok && authCtx.UserID == userID {
		if (payload.IsActive != nil && !*payload.IsActive) || roleArg != nil {
			response.Error(w, http.StatusConflict, "STAFF_SELF_UPDATE", "You cannot change your own role or disable your own account")
			return
		}
	}

	tag, err := h.DB.Exec(r.Context(), `
		update users
		set name = coalesce($1, name),
		    role = coalesce($2, role),
		    is_active = coalesce($3, is_active),
		    updated_at = now()
		where id = $4
	`, payload.Name, roleArg, payload.IsActive, userID)
	if err != nil {
		h.Logger.Error("staff update failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update staff account")
		return
	}
	if tag.RowsAffected() == 0 {
		response.Error(w, http.StatusNotFound, "USER_NOT_FOUND", "Account not found")
		return
	}
	response.Success(w, map[string]any{"updated": true})
}
