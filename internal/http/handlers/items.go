package handlers

import (
	"errors"
	"net/http"
	"strings"

	"dinehall-pos-services/internal/utils"
	"dinehall-pos-services/pkg/response"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type itemView struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Price       string  `json:"price"`
	CategoryID  int64   `json:"categoryId"`
	IsActive    bool    `json:"isActive"`
	ImageURL    *string `json:"imageUrl,omitempty"`
}

type itemPayload struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Price       string  `json:"price"`
	CategoryID  int64   `json:"categoryId"`
	IsActive    *bool   `json:"isActive,omitempty"`
}

func parsePrice(raw string) (decimal.Decimal, bool) {
	price, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || !price.IsPositive() {
		return decimal.Zero, false
	}
	return price, true
}

// ItemsList returns menu items, optionally filtered by category or
// restricted to active ones for the order screens.
func (h *Handler) ItemsList(w http.ResponseWriter, r *http.Request) {
	query := `
		select id, name, description, price, category_id, is_active, image_url
		from items
	`
	args := make([]any, 0, 1)
	conditions := make([]string, 0, 2)

	if r.URL.Query().Get("active") == "true" {
		conditions = append(conditions, "is_active")
	}
	if categoryID := r.URL.Query().Get("categoryId"); categoryID != "" {
		args = append(args, categoryID)
		conditions = append(conditions, "category_id = $1")
	}
	if len(conditions) > 0 {
		query += " where " + strings.Join(conditions, " and ")
	}
	query += " order by name"

	rows, err := h.DB.Query(r.Context(), query, args...)
	if err != nil {
		h.Logger.Error("items list failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to retrieve items")
		return
	}
	defer rows.Close()

	items := make([]itemView, 0)
	for rows.Next() {
		var (
			item        itemView
			description pgtype.Text
			price       pgtype.Numeric
			imageURL    pgtype.Text
		)
		if err := rows.Scan(&item.ID, &item.Name, &description, &price, &item.CategoryID, &item.IsActive, &imageURL); err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to retrieve items")
			return
		}
		if description.Valid {
			item.Description = &description.String
		}
		if imageURL.Valid {
			item.ImageURL = &imageURL.String
		}
		item.Price = utils.NumericToDecimal(price).StringFixed(2)
		items = append(items, item)
	}
	response.Success(w, items)
}

func (h *Handler) ItemCreate(w http.ResponseWriter, r *http.Request) {
	var payload itemPayload
	if err := decodeJSON(r, &payload); err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_PAYLOAD", "Invalid request body")
		return
	}

	name := strings.TrimSpace(payload.Name)
	if name == "" {
		response.Error(w, http.StatusBadRequest, "ITEM_VALIDATION_ERROR", "Item name is required")
		return
	}
	price, ok := parsePrice(payload.Price)
	if !ok {
		response.Error(w, http.StatusBadRequest, "ITEM_VALIDATION_ERROR", "Price must be a positive amount")
		return
	}
	if payload.CategoryID <= 0 {
		response.Error(w, http.StatusBadRequest, "ITEM_VALIDATION_ERROR", "A category is required")
		return
	}

	var id int64
	err := h.DB.QueryRow(r.Context(), `
		insert into items (name, description, price, category_id, is_active)
		values ($1, $2, $3, $4, true)
		returning id
	`, name, payload.Description, utils.DecimalToNumeric(price), payload.CategoryID).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			response.Error(w, http.StatusNotFound, "CATEGORY_NOT_FOUND", "Category does not exist")
			return
		}
		h.Logger.Error("item insert failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create item")
		return
	}
	response.Created(w, map[string]any{"id": id})
}

func (h *Handler) ItemUpdate(w http.ResponseWriter, r *http.Request) {
	itemID, err := readPathInt64(r, "itemId")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_PAYLOAD", "Invalid item id")
		return
	}

	var payload itemPayload
	if err := decodeJSON(r, &payload); err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_PAYLOAD", "Invalid request body")
		return
	}

	var priceArg any
	if strings.TrimSpace(payload.Price) != "" {
		price, ok := parsePrice(payload.Price)
		if !ok {
			response.Error(w, http.StatusBadRequest, "ITEM_VALIDATION_ERROR", "Price must be a positive amount")
			return
		}
		priceArg = utils.DecimalToNumeric(price)
	}

	var categoryArg any
	if payload.CategoryID > 0 {
		categoryArg = payload.CategoryID
	}

	tag, err := h.DB.Exec(r.Context(), `
		update items
		set name = coalesce(nullif($1, ''), name),
		    description = coalesce($2, description),
		    price = coalesce($3, price),
		    category_id = coalesce($4, category_id),
		    is_active = coalesce($5, is_active),
		    updated_at = now()
		where id = $6
	`, strings.TrimSpace(payload.Name), payload.Description, priceArg, categoryArg, payload.IsActive, itemID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			response.Error(w, http.StatusNotFound, "CATEGORY_NOT_FOUND", "Category does not exist")
			return
		}
		h.Logger.Error("item update failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update item")
		return
	}
	if tag.RowsAffected() == 0 {
		response.Error(w, http.StatusNotFound, "ITEM_NOT_FOUND", "Item does not exist")
		return
	}
	response.Success(w, map[string]any{"updated": true})
}

// ItemDelete deactivates an item. Bill lines reference items, so rows are
// never physically removed.
func (h *Handler) ItemDelete(w http.ResponseWriter, r *http.Request) {
	itemID, err := readPathInt64(r, "itemId")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_PAYLOAD", "Invalid item id")
		return
	}

	tag, err := h.DB.Exec(r.Context(), `
		update items set is_active = false, updated_at = now() where id = $1
	`, itemID)
	if err != nil {
		h.Logger.Error("item delete failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete item")
		return
	}
	if tag.RowsAffected() == 0 {
		response.Error(w, http.StatusNotFound, "ITEM_NOT_FOUND", "Item does not exist")
		return
	}
	response.Success(w, map[string]any{"deleted": true})
}
