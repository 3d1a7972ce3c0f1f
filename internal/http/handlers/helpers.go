package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"dinehall-pos-services/internal/billing"
	"dinehall-pos-services/internal/tables"
	"dinehall-pos-services/internal/utils"
	"dinehall-pos-services/pkg/response"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

var errMissingParam = errors.New("missing param")

func readPathString(r *http.Request, key string) string {
	return chi.URLParam(r, key)
}

func readPathInt64(r *http.Request, key string) (int64, error) {
	value := readPathString(r, key)
	if value == "" {
		return 0, errMissingParam
	}
	var out int64
	_, err := fmt.Sscan(value, &out)
	return out, err
}

func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

// reportDate resolves the ?date query param, defaulting to today in the
// configured timezone.
func (h *Handler) reportDate(r *http.Request) (string, bool) {
	date := r.URL.Query().Get("date")
	if date == "" {
		return utils.CurrentDateInTimezone(h.Config.Timezone), true
	}
	if !utils.IsValidDate(date) {
		return "", false
	}
	return date, true
}

func (h *Handler) writeBillingError(w http.ResponseWriter, err *billing.Error) {
	if err.StatusCode >= http.StatusInternalServerError {
		h.Logger.Error("billing operation failed", zap.Error(err))
	}
	response.Error(w, err.StatusCode, string(err.Code), err.Message)
}

func (h *Handler) writeTablesError(w http.ResponseWriter, err *tables.Error) {
	if err.StatusCode >= http.StatusInternalServerError {
		h.Logger.Error("tables operation failed", zap.Error(err))
	}
	response.Error(w, err.StatusCode, string(err.Code), err.Message)
}
