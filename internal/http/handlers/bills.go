package handlers

import (
	"fmt"
	"net/http"
	"time"

	"dinehall-pos-services/internal/billing"
	"dinehall-pos-services/pkg/response"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/phpdave11/gofpdf"
	"go.uber.org/zap"
)

type settleBillPayload struct {
	PaymentMethod string `json:"paymentMethod"`
}

func (h *Handler) BillSettle(w http.ResponseWriter, r *http.Request) {
	billID, err := readPathInt64(r, "billId")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_PAYLOAD", "Invalid bill id")
		return
	}

	var payload settleBillPayload
	if err := decodeJSON(r, &payload); err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_PAYLOAD", "Invalid request body")
		return
	}

	if opErr := billing.SettleBill(r.Context(), h.DB, billID, payload.PaymentMethod); opErr != nil {
		h.writeBillingError(w, opErr)
		return
	}
	response.Success(w, map[string]any{"paid": true})
}

func (h *Handler) BillGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	billID, err := readPathInt64(r, "billId")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_PAYLOAD", "Invalid bill id")
		return
	}

	bill, opErr := billing.GetBill(ctx, h.DB, billID)
	if opErr != nil {
		h.writeBillingError(w, opErr)
		return
	}
	items, opErr := billing.ListLineItems(ctx, h.DB, bill.ID)
	if opErr != nil {
		h.writeBillingError(w, opErr)
		return
	}

	response.Success(w, map[string]any{
		"bill":  billViewOf(bill),
		"items": lineItemViews(items),
	})
}

// BillReceiptPDF renders the bill as a printable PDF receipt.
func (h *Handler) BillReceiptPDF(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	billID, err := readPathInt64(r, "billId")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_PAYLOAD", "Invalid bill id")
		return
	}

	bill, opErr := billing.GetBill(ctx, h.DB, billID)
	if opErr != nil {
		h.writeBillingError(w, opErr)
		return
	}
	items, opErr := billing.ListLineItems(ctx, h.DB, bill.ID)
	if opErr != nil {
		h.writeBillingError(w, opErr)
		return
	}

	var tableNumber pgtype.Int4
	if bill.TableID != nil {
		_ = h.DB.QueryRow(ctx,
			`select table_number from dining_tables where id = $1`, *bill.TableID,
		).Scan(&tableNumber)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 8, "DineHall", "", 1, "C", false, 0, "")

	pdf.Ln(2)
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Bill #%d", bill.BillNo), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(0, 5, bill.BillDate, "", 1, "C", false, 0, "")
	if bill.OrderType == billing.OrderTypeDineIn && tableNumber.Valid {
		pdf.CellFormat(0, 5, fmt.Sprintf("Table %d", tableNumber.Int32), "", 1, "C", false, 0, "")
	}
	if bill.TokenNo != nil {
		pdf.CellFormat(0, 5, fmt.Sprintf("Token %d", *bill.TokenNo), "", 1, "C", false, 0, "")
	}

	pdf.Ln(3)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 6, "Items", "B", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	for _, item := range items {
		pdf.CellFormat(120, 5, fmt.Sprintf("%dx %s", item.Quantity, item.ItemName), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 5, item.Subtotal.StringFixed(2), "", 1, "R", false, 0, "")
		if item.Note != nil && *item.Note != "" {
			pdf.SetFont("Arial", "I", 8)
			pdf.CellFormat(0, 4, *item.Note, "", 1, "L", false, 0, "")
			pdf.SetFont("Arial", "", 9)
		}
	}

	pdf.Ln(2)
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(120, 7, "Total", "T", 0, "L", false, 0, "")
	pdf.CellFormat(0, 7, bill.TotalAmount.StringFixed(2), "T", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 9)
	if bill.IsPaid && bill.PaymentMethod != nil {
		pdf.CellFormat(0, 5, fmt.Sprintf("Paid by %s", *bill.PaymentMethod), "", 1, "L", false, 0, "")
	} else {
		pdf.CellFormat(0, 5, "UNPAID", "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)
	pdf.SetFont("Arial", "I", 8)
	pdf.CellFormat(0, 5, time.Now().Format("02 Jan 2006 15:04"), "", 1, "C", false, 0, "")

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename="bill-%d.pdf"`, bill.BillNo))
	if err := pdf.Output(w); err != nil {
		h.Logger.Error("receipt pdf render failed", zap.Int64("billId", bill.ID), zap.Error(err))
	}
}
