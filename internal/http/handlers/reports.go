package handlers

import (
	"net/http"

	"dinehall-pos-services/internal/utils"
	"dinehall-pos-services/pkg/response"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ReportDaily lists the day's bills with a total over the paid ones.
// Total sales only counts settled bills; open tables are still in flight.
func (h *Handler) ReportDaily(w http.ResponseWriter, r *http.Request) {
	date, ok := h.reportDate(r)
	if !ok {
		response.Error(w, http.StatusBadRequest, "INVALID_PAYLOAD", "Invalid date, expected YYYY-MM-DD")
		return
	}

	rows, err := h.DB.Query(r.Context(), `
		select id, bill_no, bill_date, order_type, table_id, token_no, total_amount, is_paid, payment_method
		from bills
		where bill_date = $1
		order by bill_no
	`, date)
	if err != nil {
		h.Logger.Error("report query failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to retrieve report")
		return
	}
	defer rows.Close()

	bills := make([]billView, 0)
	totalSales := decimal.Zero
	byMethod := map[string]decimal.Decimal{}

	for rows.Next() {
		var (
			view          billView
			billDate      pgtype.Date
			tableID       pgtype.Int8
			tokenNo       pgtype.Int8
			totalAmount   pgtype.Numeric
			paymentMethod pgtype.Text
		)
		if err := rows.Scan(&view.ID, &view.BillNo, &billDate, &view.OrderType, &tableID, &tokenNo, &totalAmount, &view.IsPaid, &paymentMethod); err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to retrieve report")
			return
		}
		if billDate.Valid {
			view.BillDate = billDate.Time.Format("2006-01-02")
		}
		if tableID.Valid {
			view.TableID = &tableID.Int64
		}
		if tokenNo.Valid {
			view.TokenNo = &tokenNo.Int64
		}
		amount := utils.NumericToDecimal(totalAmount)
		view.TotalAmount = amount.StringFixed(2)
		if paymentMethod.Valid {
			view.PaymentMethod = &paymentMethod.String
		}
		if view.IsPaid {
			totalSales = totalSales.Add(amount)
			if paymentMethod.Valid {
				byMethod[paymentMethod.String] = byMethod[paymentMethod.String].Add(amount)
			}
		}
		bills = append(bills, view)
	}
	if err := rows.Err(); err != nil {
		h.Logger.Error("report query failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to retrieve report")
		return
	}

	salesByMethod := make(map[string]string, len(byMethod))
	for method, amount := range byMethod {
		salesByMethod[method] = amount.StringFixed(2)
	}

	response.Success(w, map[string]any{
		"date":          date,
		"bills":         bills,
		"totalSales":    totalSales.StringFixed(2),
		"salesByMethod": salesByMethod,
	})
}
