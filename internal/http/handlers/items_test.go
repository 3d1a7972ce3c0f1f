package handlers

import (
	"testing"

	"dinehall-pos-services/internal/billing"

	"github.com/shopspring/decimal"
)

func TestParsePrice(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		expected string
		ok       bool
	}{
		{name: "whole", input: "120", expected: "120", ok: true},
		{name: "two decimals", input: "49.95", expected: "49.95", ok: true},
		{name: "padded", input: " 10.00 ", expected: "10", ok: true},
		{name: "zero rejected", input: "0", ok: false},
		{name: "negative rejected", input: "-5", ok: false},
		{name: "not a number", input: "ten", ok: false},
		{name: "empty", input: "", ok: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			price, ok := parsePrice(tc.input)
			if ok != tc.ok {
				t.Fatalf("expected ok=%v, got %v", tc.ok, ok)
			}
			if ok && !price.Equal(decimal.RequireFromString(tc.expected)) {
				t.Fatalf("expected %s, got %s", tc.expected, price)
			}
		})
	}
}

func TestBillViewFormatting(t *testing.T) {
	tableID := int64(4)
	bill := &billing.Bill{
		ID:          11,
		BillNo:      3,
		BillDate:    "2026-03-01",
		OrderType:   billing.OrderTypeDineIn,
		TableID:     &tableID,
		TotalAmount: decimal.RequireFromString("149.85"),
	}

	view := billViewOf(bill)
	if view.TotalAmount != "149.85" {
		t.Fatalf("expected 149.85, got %s", view.TotalAmount)
	}
	if view.TableID == nil || *view.TableID != 4 {
		t.Fatalf("expected table 4, got %v", view.TableID)
	}
	if view.TokenNo != nil {
		t.Fatal("dine-in bill must not carry a token")
	}
}

func TestLineItemViewsKeepOrder(t *testing.T) {
	note := "less spicy"
	items := []billing.LineItem{
		{ID: 1, BillID: 11, ItemID: 5, ItemName: "Dosa", Quantity: 2, Subtotal: decimal.RequireFromString("240"), KotNo: 1, OrderID: 100},
		{ID: 2, BillID: 11, ItemID: 7, ItemName: "Chai", Quantity: 1, Subtotal: decimal.RequireFromString("20.50"), Note: &note, KotNo: 2, OrderID: 101},
	}

	views := lineItemViews(items)
	if len(views) != 2 {
		t.Fatalf("expected 2 views, got %d", len(views))
	}
	if views[0].Subtotal != "240.00" || views[1].Subtotal != "20.50" {
		t.Fatalf("unexpected subtotals: %s, %s", views[0].Subtotal, views[1].Subtotal)
	}
	if views[0].KotNo != 1 || views[1].KotNo != 2 {
		t.Fatal("KOT order must be preserved")
	}
	if views[1].Note == nil || *views[1].Note != "less spicy" {
		t.Fatal("note must be carried through")
	}
}
