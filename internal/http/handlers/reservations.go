package handlers

import (
	"net/http"
	"time"

	"dinehall-pos-services/internal/tables"
	"dinehall-pos-services/pkg/response"
)

type createReservationPayload struct {
	CustomerName  string  `json:"customerName"`
	CustomerPhone string  `json:"customerPhone"`
	StartsAt      string  `json:"startsAt"`
	EndsAt        string  `json:"endsAt"`
	Note          *string `json:"note,omitempty"`
	TableIDs      []int64 `json:"tableIds"`
}

func (h *Handler) ReservationCreate(w http.ResponseWriter, r *http.Request) {
	var payload createReservationPayload
	if err := decodeJSON(r, &payload); err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_PAYLOAD", "Invalid request body")
		return
	}

	startsAt, err := time.Parse(time.RFC3339, payload.StartsAt)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "RESERVATION_VALIDATION_ERROR", "startsAt must be an RFC3339 timestamp")
		return
	}
	endsAt, err := time.Parse(time.RFC3339, payload.EndsAt)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "RESERVATION_VALIDATION_ERROR", "endsAt must be an RFC3339 timestamp")
		return
	}

	ids, opErr := tables.CreateReservation(r.Context(), h.DB, tables.CreateReservationParams{
		CustomerName:  payload.CustomerName,
		CustomerPhone: payload.CustomerPhone,
		StartsAt:      startsAt,
		EndsAt:        endsAt,
		Note:          payload.Note,
		TableIDs:      payload.TableIDs,
	})
	if opErr != nil {
		h.writeTablesError(w, opErr)
		return
	}

	response.Created(w, map[string]any{"reservationIds": ids})
}

func (h *Handler) ReservationsList(w http.ResponseWriter, r *http.Request) {
	reservations, opErr := tables.ListReservations(r.Context(), h.DB, time.Now())
	if opErr != nil {
		h.writeTablesError(w, opErr)
		return
	}
	response.Success(w, reservations)
}
