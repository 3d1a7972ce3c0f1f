package billing

import (
	"strings"

	"github.com/shopspring/decimal"
)

const (
	OrderTypeDineIn   = "dinein"
	OrderTypeTakeaway = "takeaway"
)

const (
	PaymentCash = "cash"
	PaymentCard = "card"
	PaymentUPI  = "upi"
)

func ValidPaymentMethod(method string) bool {
	switch strings.TrimSpace(method) {
	case PaymentCash, PaymentCard, PaymentUPI:
		return true
	default:
		return false
	}
}

type OrderItemParams struct {
	ItemID   int64
	Quantity int32
	Note     *string
}

type PlaceOrderParams struct {
	OrderType string
	TableID   *int64
	Items     []OrderItemParams
	// PaymentMethod is the takeaway hint from the client. It is validated
	// here but only persisted when the bill is settled.
	PaymentMethod string
	CreatedBy     *int64
	BillDate      string
}

type OrderResult struct {
	BillID  int64
	BillNo  int64
	KotNo   int64
	TokenNo *int64
	// Merged reports that the submission was appended to the table's
	// existing open bill instead of opening a new one.
	Merged bool
}

type LineItem struct {
	ID       int64
	BillID   int64
	ItemID   int64
	ItemName string
	Quantity int32
	Subtotal decimal.Decimal
	Note     *string
	KotNo    int64
	OrderID  int64
}

type Bill struct {
	ID            int64
	BillNo        int64
	BillDate      string
	OrderType     string
	TableID       *int64
	TokenNo       *int64
	TotalAmount   decimal.Decimal
	IsPaid        bool
	PaymentMethod *string
}

func validatePlaceOrder(params PlaceOrderParams) *Error {
	switch params.OrderType {
	case OrderTypeDineIn:
		if params.TableID == nil || *params.TableID <= 0 {
			return ValidationError(ErrOrderInvalid, "Invalid table number for dine-in order")
		}
	case OrderTypeTakeaway:
		if params.TableID != nil {
			return ValidationError(ErrOrderInvalid, "Table number should be null for takeaway orders")
		}
	default:
		return ValidationError(ErrOrderInvalid, "Invalid order type")
	}

	if len(params.Items) == 0 {
		return ValidationError(ErrOrderInvalid, "Items must be a non-empty array")
	}
	for _, item := range params.Items {
		if item.ItemID <= 0 {
			return ValidationError(ErrOrderInvalid, "Invalid itemId")
		}
		if item.Quantity <= 0 {
			return ValidationError(ErrOrderInvalid, "Invalid quantity")
		}
	}

	if params.PaymentMethod != "" && !ValidPaymentMethod(params.PaymentMethod) {
		return ValidationError(ErrPaymentInvalid, "Invalid payment method")
	}

	return nil
}

// lineSubtotal keeps money arithmetic in exact decimals; quantity times
// unit price never passes through a float.
func lineSubtotal(price decimal.Decimal, quantity int32) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity)))
}

// subtotalDelta is the adjustment applied to a bill total when one line
// moves from oldSubtotal to newSubtotal. A removed line is a move to zero.
func subtotalDelta(oldSubtotal, newSubtotal decimal.Decimal) decimal.Decimal {
	return newSubtotal.Sub(oldSubtotal)
}
