package handlers

import (
	"context"
	"net/http"
	"time"

	"dinehall-pos-services/internal/billing"
	"dinehall-pos-services/internal/middleware"
	"dinehall-pos-services/internal/queue"
	"dinehall-pos-services/internal/utils"
	"dinehall-pos-services/pkg/response"

	"go.uber.org/zap"
)

type orderItemPayload struct {
	ItemID   int64   `json:"itemId"`
	Quantity int32   `json:"quantity"`
	Note     *string `json:"note,omitempty"`
}

type placeOrderPayload struct {
	OrderType     string             `json:"orderType"`
	TableID       *int64             `json:"tableId"`
	Items         []orderItemPayload `json:"items"`
	PaymentMethod string             `json:"paymentMethod,omitempty"`
}

type updateLineItemPayload struct {
	ItemID   int64   `json:"itemId"`
	Quantity int32   `json:"quantity"`
	Note     *string `json:"note,omitempty"`
}

type lineItemView struct {
	ID       int64   `json:"id"`
	BillID   int64   `json:"billId"`
	ItemID   int64   `json:"itemId"`
	ItemName string  `json:"itemName"`
	Quantity int32   `json:"quantity"`
	Subtotal string  `json:"subtotal"`
	Note     *string `json:"note,omitempty"`
	KotNo    int64   `json:"kotNo"`
	OrderID  int64   `json:"orderId"`
}

type billView struct {
	ID            int64   `json:"id"`
	BillNo        int64   `json:"billNo"`
	BillDate      string  `json:"billDate"`
	OrderType     string  `json:"orderType"`
	TableID       *int64  `json:"tableId,omitempty"`
	TokenNo       *int64  `json:"tokenNo,omitempty"`
	TotalAmount   string  `json:"totalAmount"`
	IsPaid        bool    `json:"isPaid"`
	PaymentMethod *string `json:"paymentMethod,omitempty"`
}

func lineItemViews(items []billing.LineItem) []lineItemView {
	out := make([]lineItemView, 0, len(items))
	for _, item := range items {
		out = append(out, lineItemView{
			ID:       item.ID,
			BillID:   item.BillID,
			ItemID:   item.ItemID,
			ItemName: item.ItemName,
			Quantity: item.Quantity,
			Subtotal: item.Subtotal.StringFixed(2),
			Note:     item.Note,
			KotNo:    item.KotNo,
			OrderID:  item.OrderID,
		})
	}
	return out
}

func billViewOf(bill *billing.Bill) billView {
	return billView{
		ID:            bill.ID,
		BillNo:        bill.BillNo,
		BillDate:      bill.BillDate,
		OrderType:     bill.OrderType,
		TableID:       bill.TableID,
		TokenNo:       bill.TokenNo,
		TotalAmount:   bill.TotalAmount.StringFixed(2),
		IsPaid:        bill.IsPaid,
		PaymentMethod: bill.PaymentMethod,
	}
}

// OrderCreate records one order submission and, when the queue is up,
// announces the KOT to the kitchen consumers.
func (h *Handler) OrderCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var payload placeOrderPayload
	if err := decodeJSON(r, &payload); err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_PAYLOAD", "Invalid request body")
		return
	}

	params := billing.PlaceOrderParams{
		OrderType:     payload.OrderType,
		TableID:       payload.TableID,
		PaymentMethod: payload.PaymentMethod,
		BillDate:      utils.CurrentDateInTimezone(h.Config.Timezone),
	}
	for _, item := range payload.Items {
		params.Items = append(params.Items, billing.OrderItemParams{
			ItemID:   item.ItemID,
			Quantity: item.Quantity,
			Note:     item.Note,
		})
	}
	if authCtx, ok := middleware.GetAuthContext(ctx); ok {
		params.CreatedBy = &authCtx.UserID
	}

	result, opErr := billing.PlaceOrder(ctx, h.DB, params)
	if opErr != nil {
		h.writeBillingError(w, opErr)
		return
	}

	h.publishKitchenTicket(result, payload)

	response.Created(w, map[string]any{
		"billId":  result.BillID,
		"billNo":  result.BillNo,
		"kotNo":   result.KotNo,
		"tokenNo": result.TokenNo,
		"merged":  result.Merged,
	})
}

func (h *Handler) publishKitchenTicket(result *billing.OrderResult, payload placeOrderPayload) {
	if h.Queue == nil {
		return
	}

	event := queue.KitchenTicketEvent{
		BillID:    result.BillID,
		BillNo:    result.BillNo,
		KotNo:     result.KotNo,
		OrderType: payload.OrderType,
		TableID:   payload.TableID,
		TokenNo:   result.TokenNo,
		PlacedAt:  time.Now(),
	}
	for _, item := range payload.Items {
		event.Items = append(event.Items, queue.KitchenItemEvent{
			ItemID:   item.ItemID,
			Quantity: item.Quantity,
			Note:     item.Note,
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := h.Queue.PublishKitchenTicket(ctx, event); err != nil {
		h.Logger.Warn("kitchen ticket publish failed",
			zap.Int64("billId", result.BillID),
			zap.Int64("kotNo", result.KotNo),
			zap.Error(err))
	}
}

func (h *Handler) OrderLineItemUpdate(w http.ResponseWriter, r *http.Request) {
	lineItemID, err := readPathInt64(r, "lineItemId")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_PAYLOAD", "Invalid line item id")
		return
	}

	var payload updateLineItemPayload
	if err := decodeJSON(r, &payload); err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_PAYLOAD", "Invalid request body")
		return
	}

	opErr := billing.UpdateLineItem(r.Context(), h.DB, billing.UpdateLineItemParams{
		LineItemID: lineItemID,
		ItemID:     payload.ItemID,
		Quantity:   payload.Quantity,
		Note:       payload.Note,
	})
	if opErr != nil {
		h.writeBillingError(w, opErr)
		return
	}
	response.Success(w, map[string]any{"updated": true})
}

func (h *Handler) OrderLineItemDelete(w http.ResponseWriter, r *http.Request) {
	lineItemID, err := readPathInt64(r, "lineItemId")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_PAYLOAD", "Invalid line item id")
		return
	}

	if opErr := billing.RemoveLineItem(r.Context(), h.DB, lineItemID); opErr != nil {
		h.writeBillingError(w, opErr)
		return
	}
	response.Success(w, map[string]any{"deleted": true})
}

// OrderForTable returns the table's open bill with its lines in KOT order.
func (h *Handler) OrderForTable(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tableID, err := readPathInt64(r, "tableId")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_PAYLOAD", "Invalid table id")
		return
	}

	bill, opErr := billing.OpenBillForTable(ctx, h.DB, tableID)
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
