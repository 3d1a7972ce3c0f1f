package handlers

import (
	"errors"
	"net/http"
	"strings"

	"dinehall-pos-services/pkg/response"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

type categoryView struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"isActive"`
}

type categoryPayload struct {
	Name     string `json:"name"`
	IsActive *bool  `json:"isActive"`
}

func (h *Handler) CategoriesList(w http.ResponseWriter, r *http.Request) {
	rows, err := h.DB.Query(r.Context(), `
		select id, name, is_active from categories order by name
	`)
	if err != nil {
		h.Logger.Error("categories list failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to retrieve categories")
		return
	}
	defer rows.Close()

	items := make([]categoryView, 0)
	for rows.Next() {
		var c categoryView
		if err := rows.Scan(&c.ID, &c.Name, &c.IsActive); err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to retrieve categories")
			return
		}
		items = append(items, c)
	}
	response.Success(w, items)
}

func (h *Handler) CategoryCreate(w http.ResponseWriter, r *http.Request) {
	var payload categoryPayload
	if err := decodeJSON(r, &payload); err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_PAYLOAD", "Invalid request body")
		return
	}
	name := strings.TrimSpace(payload.Name)
	if name == "" {
		response.Error(w, http.StatusBadRequest, "CATEGORY_VALIDATION_ERROR", "Category name is required")
		return
	}

	var c categoryView
	err := h.DB.QueryRow(r.Context(), `
		insert into categories (name, is_active) values ($1, true)
		returning id, name, is_active
	`, name).Scan(&c.ID, &c.Name, &c.IsActive)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			response.Error(w, http.StatusConflict, "CATEGORY_NAME_TAKEN", "A category with this name already exists")
			return
		}
		h.Logger.Error("category insert failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create category")
		return
	}
	response.Created(w, c)
}

func (h *Handler) CategoryUpdate(w http.ResponseWriter, r *http.Request) {
	categoryID, err := readPathInt64(r, "categoryId")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_PAYLOAD", "Invalid category id")
		return
	}

	var payload categoryPayload
	if err := decodeJSON(r, &payload); err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_PAYLOAD", "Invalid request body")
		return
	}

	name := strings.TrimSpace(payload.Name)
	if name == "" && payload.IsActive == nil {
		response.Error(w, http.StatusBadRequest, "CATEGORY_VALIDATION_ERROR", "Nothing to update")
		return
	}

	tag, err := h.DB.Exec(r.Context(), `
		update categories
		set name = coalesce(nullif($1, ''), name),
		    is_active = coalesce($2, is_active),
		    updated_at = now()
		where id = $3
	`, name, payload.IsActive, categoryID)
	if err != nil {
		h.Logger.Error("category update failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update category")
		return
	}
	if tag.RowsAffected() == 0 {
		response.Error(w, http.StatusNotFound, "CATEGORY_NOT_FOUND", "Category does not exist")
		return
	}
	response.Success(w, map[string]any{"updated": true})
}

// CategoryDelete deactivates a category; items keep their reference so
// history stays intact.
func (h *Handler) CategoryDelete(w http.ResponseWriter, r *http.Request) {
	categoryID, err := readPathInt64(r, "categoryId")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_PAYLOAD", "Invalid category id")
		return
	}

	tag, err := h.DB.Exec(r.Context(), `
		update categories set is_active = false, updated_at = now() where id = $1
	`, categoryID)
	if err != nil {
		h.Logger.Error("category delete failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete category")
		return
	}
	if tag.RowsAffected() == 0 {
		response.Error(w, http.StatusNotFound, "CATEGORY_NOT_FOUND", "Category does not exist")
		return
	}
	response.Success(w, map[string]any{"deleted": true})
}
