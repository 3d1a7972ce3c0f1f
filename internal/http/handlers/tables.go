package handlers

import (
	"errors"
	"net/http"

	"dinehall-pos-services/internal/tables"
	"dinehall-pos-services/pkg/response"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

type createTablePayload struct {
	TableNumber int32 `json:"tableNumber"`
	SeatCount   int32 `json:"seatCount"`
}

type tableStatusPayload struct {
	IsActive   *bool `json:"isActive"`
	IsReserved *bool `json:"isReserved"`
}

// TablesAvailable lists active tables with no unpaid bill on the given
// date (defaulting to today).
func (h *Handler) TablesAvailable(w http.ResponseWriter, r *http.Request) {
	date, ok := h.reportDate(r)
	if !ok {
		response.Error(w, http.StatusBadRequest, "INVALID_PAYLOAD", "Invalid date, expected YYYY-MM-DD")
		return
	}

	available, opErr := tables.ListAvailable(r.Context(), h.DB, date)
	if opErr != nil {
		h.writeTablesError(w, opErr)
		return
	}
	response.Success(w, available)
}

func (h *Handler) TablesList(w http.ResponseWriter, r *http.Request) {
	all, opErr := tables.ListAll(r.Context(), h.DB)
	if opErr != nil {
		h.writeTablesError(w, opErr)
		return
	}
	response.Success(w, all)
}

func (h *Handler) TableCreate(w http.ResponseWriter, r *http.Request) {
	var payload createTablePayload
	if err := decodeJSON(r, &payload); err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_PAYLOAD", "Invalid request body")
		return
	}
	if payload.TableNumber <= 0 {
		response.Error(w, http.StatusBadRequest, "TABLE_VALIDATION_ERROR", "Table number must be positive")
		return
	}
	if payload.SeatCount <= 0 {
		payload.SeatCount = 4
	}

	var id int64
	err := h.DB.QueryRow(r.Context(), `
		insert into dining_tables (table_number, seat_count, is_active)
		values ($1, $2, true)
		returning id
	`, payload.TableNumber, payload.SeatCount).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			response.Error(w, http.StatusConflict, "TABLE_NUMBER_TAKEN", "A table with this number already exists")
			return
		}
		h.Logger.Error("table insert failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create table")
		return
	}
	response.Created(w, map[string]any{"id": id})
}

// TableStatusUpdate toggles the active or reserved flags. Clearing the
// reserved flag also clears the reservation window and note mirrored on
// the table row.
func (h *Handler) TableStatusUpdate(w http.ResponseWriter, r *http.Request) {
	tableID, err := readPathInt64(r, "tableId")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_PAYLOAD", "Invalid table id")
		return
	}

	var payload tableStatusPayload
	if err := decodeJSON(r, &payload); err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_PAYLOAD", "Invalid request body")
		return
	}
	if payload.IsActive == nil && payload.IsReserved == nil {
		response.Error(w, http.StatusBadRequest, "TABLE_VALIDATION_ERROR", "Nothing to update")
		return
	}

	ctx := r.Context()
	if payload.IsActive != nil {
		tag, err := h.DB.Exec(ctx, `
			update dining_tables set is_active = $1, updated_at = now() where id = $2
		`, *payload.IsActive, tableID)
		if err != nil {
			h.Logger.Error("table status update failed", zap.Error(err))
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update table")
			return
		}
		if tag.RowsAffected() == 0 {
			response.Error(w, http.StatusNotFound, "TABLE_NOT_FOUND", "Table does not exist")
			return
		}
	}
	if payload.IsReserved != nil {
		var tag pgconn.CommandTag
		if *payload.IsReserved {
			tag, err = h.DB.Exec(ctx, `
				update dining_tables set is_reserved = true, updated_at = now() where id = $1
			`, tableID)
		} else {
			tag, err = h.DB.Exec(ctx, `
				update dining_tables
				set is_reserved = false, reserved_from = null, reserved_until = null, note = null, updated_at = now()
				where id = $1
			`, tableID)
		}
		if err != nil {
			h.Logger.Error("table status update failed", zap.Error(err))
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update table")
			return
		}
		if tag.RowsAffected() == 0 {
			response.Error(w, http.StatusNotFound, "TABLE_NOT_FOUND", "Table does not exist")
			return
		}
	}

	response.Success(w, map[string]any{"updated": true})
}

func (h *Handler) TableDelete(w http.ResponseWriter, r *http.Request) {
	tableID, err := readPathInt64(r, "tableId")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_PAYLOAD", "Invalid table id")
		return
	}

	var openBills int64
	if err := h.DB.QueryRow(r.Context(),
		`select count(*) from bills where table_id = $1 and not is_paid`, tableID,
	).Scan(&openBills); err != nil {
		h.Logger.Error("table delete check failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete table")
		return
	}
	if openBills > 0 {
		response.Error(w, http.StatusConflict, "TABLE_HAS_OPEN_BILL", "Table has an unpaid bill and cannot be removed")
		return
	}

	tag, err := h.DB.Exec(r.Context(), `
		update dining_tables set is_active = false, updated_at = now() where id = $1
	`, tableID)
	if err != nil {
		h.Logger.Error("table delete failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete table")
		return
	}
	if tag.RowsAffected() == 0 {
		response.Error(w, http.StatusNotFound, "TABLE_NOT_FOUND", "Table does not exist")
		return
	}
	response.Success(w, map[string]any{"deleted": true})
}
