package billing

import (
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
)

func int64Ptr(v int64) *int64 { return &v }

func TestValidatePlaceOrder(t *testing.T) {
	validItems := []OrderItemParams{{ItemID: 1, Quantity: 2}}

	cases := []struct {
		name    string
		params  PlaceOrderParams
		wantErr ErrorCode
	}{
		{
			name:   "valid dine-in",
			params: PlaceOrderParams{OrderType: OrderTypeDineIn, TableID: int64Ptr(3), Items: validItems},
		},
		{
			name:   "valid takeaway",
			params: PlaceOrderParams{OrderType: OrderTypeTakeaway, Items: validItems},
		},
		{
			name:   "valid takeaway with payment hint",
			params: PlaceOrderParams{OrderType: OrderTypeTakeaway, Items: validItems, PaymentMethod: PaymentUPI},
		},
		{
			name:    "dine-in without table",
			params:  PlaceOrderParams{OrderType: OrderTypeDineIn, Items: validItems},
			wantErr: ErrOrderInvalid,
		},
		{
			name:    "dine-in with non-positive table",
			params:  PlaceOrderParams{OrderType: OrderTypeDineIn, TableID: int64Ptr(0), Items: validItems},
			wantErr: ErrOrderInvalid,
		},
		{
			name:    "takeaway with table",
			params:  PlaceOrderParams{OrderType: OrderTypeTakeaway, TableID: int64Ptr(3), Items: validItems},
			wantErr: ErrOrderInvalid,
		},
		{
			name:    "unknown order type",
			params:  PlaceOrderParams{OrderType: "delivery", Items: validItems},
			wantErr: ErrOrderInvalid,
		},
		{
			name:    "empty items",
			params:  PlaceOrderParams{OrderType: OrderTypeTakeaway, Items: nil},
			wantErr: ErrOrderInvalid,
		},
		{
			name:    "item without id",
			params:  PlaceOrderParams{OrderType: OrderTypeTakeaway, Items: []OrderItemParams{{ItemID: 0, Quantity: 1}}},
			wantErr: ErrOrderInvalid,
		},
		{
			name:    "item with zero quantity",
			params:  PlaceOrderParams{OrderType: OrderTypeTakeaway, Items: []OrderItemParams{{ItemID: 1, Quantity: 0}}},
			wantErr: ErrOrderInvalid,
		},
		{
			name:    "item with negative quantity",
			params:  PlaceOrderParams{OrderType: OrderTypeTakeaway, Items: []OrderItemParams{{ItemID: 1, Quantity: -2}}},
			wantErr: ErrOrderInvalid,
		},
		{
			name:    "bad payment hint",
			params:  PlaceOrderParams{OrderType: OrderTypeTakeaway, Items: validItems, PaymentMethod: "cheque"},
			wantErr: ErrPaymentInvalid,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validatePlaceOrder(tc.params)
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("expected no error, got %s: %s", err.Code, err.Message)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error %s, got nil", tc.wantErr)
			}
			if err.Code != tc.wantErr {
				t.Fatalf("expected code %s, got %s", tc.wantErr, err.Code)
			}
			if err.StatusCode != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d", err.StatusCode)
			}
		})
	}
}

func TestValidPaymentMethod(t *testing.T) {
	for _, method := range []string{PaymentCash, PaymentCard, PaymentUPI} {
		if !ValidPaymentMethod(method) {
			t.Fatalf("expected %s to be valid", method)
		}
	}
	for _, method := range []string{"", "CASH", "cheque", "credit"} {
		if ValidPaymentMethod(method) {
			t.Fatalf("expected %s to be invalid", method)
		}
	}
}

func TestLineSubtotal(t *testing.T) {
	cases := []struct {
		name     string
		price    string
		quantity int32
		expected string
	}{
		{name: "whole amount", price: "120", quantity: 2, expected: "240"},
		{name: "paise precision", price: "49.95", quantity: 3, expected: "149.85"},
		{name: "single unit", price: "10.10", quantity: 1, expected: "10.10"},
		{name: "fractional does not drift", price: "0.10", quantity: 3, expected: "0.30"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := lineSubtotal(decimal.RequireFromString(tc.price), tc.quantity)
			expected := decimal.RequireFromString(tc.expected)
			if !got.Equal(expected) {
				t.Fatalf("expected %s, got %s", expected, got)
			}
		})
	}
}

func TestErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    *Error
		status int
	}{
		{name: "validation", err: ValidationError(ErrOrderInvalid, "bad"), status: http.StatusBadRequest},
		{name: "not found", err: NotFoundError(ErrBillNotFound, "missing"), status: http.StatusNotFound},
		{name: "conflict", err: ConflictError(ErrBillAlreadyPaid, "paid"), status: http.StatusConflict},
		{name: "storage", err: StorageError(nil), status: http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err.StatusCode != tc.status {
				t.Fatalf("expected status %d, got %d", tc.status, tc.err.StatusCode)
			}
		})
	}

	storage := StorageError(nil)
	if storage.Message != "A storage error occurred" {
		t.Fatalf("storage error must not leak the cause, got %q", storage.Message)
	}
}

// TestBillTotalBookkeeping walks a bill through placement, a quantity
// update and a line removal, checking after every step that the running
// total carried by delta adjustments equals the sum of the live lines.
func TestBillTotalBookkeeping(t *testing.T) {
	dosa := decimal.RequireFromString("100")
	chai := decimal.RequireFromString("50")

	lines := map[string]decimal.Decimal{
		"dosa": lineSubtotal(dosa, 2),
		"chai": lineSubtotal(chai, 1),
	}
	total := decimal.Zero
	for _, subtotal := range lines {
		total = total.Add(subtotal)
	}

	liveSum := func() decimal.Decimal {
		sum := decimal.Zero
		for _, subtotal := range lines {
			sum = sum.Add(subtotal)
		}
		return sum
	}
	check := func(t *testing.T, want string) {
		t.Helper()
		if expected := decimal.RequireFromString(want); !total.Equal(expected) {
			t.Fatalf("total = %s, want %s", total, expected)
		}
		if sum := liveSum(); !total.Equal(sum) {
			t.Fatalf("total = %s but live lines sum to %s", total, sum)
		}
	}

	t.Run("placement", func(t *testing.T) {
		check(t, "250")
	})

	t.Run("quantity update adjusts by the delta", func(t *testing.T) {
		updated := lineSubtotal(dosa, 3)
		total = total.Add(subtotalDelta(lines["dosa"], updated))
		lines["dosa"] = updated
		check(t, "350")
	})

	t.Run("removal subtracts the line subtotal", func(t *testing.T) {
		total = total.Add(subtotalDelta(lines["chai"], decimal.Zero))
		delete(lines, "chai")
		check(t, "300")
	})

	t.Run("settlement payment method is accepted", func(t *testing.T) {
		if !ValidPaymentMethod(PaymentCash) {
			t.Fatal("cash must be a valid settlement method")
		}
	})
}
