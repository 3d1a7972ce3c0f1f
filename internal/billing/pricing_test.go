package billing

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"dinehall-pos-services/internal/utils"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// scanFunc adapts a closure to pgx.Row for fake-backed tests.
type scanFunc func(dest ...any) error

func (f scanFunc) Scan(dest ...any) error {
	return f(dest...)
}

// fakeItemStore answers the price lookup from an in-memory menu. It only
// hides inactive rows when the query filters on is_active, so a lookup
// that drops the filter is caught by the soft-delete cases below.
type fakeItemStore struct {
	prices map[int64]string
	active map[int64]bool
}

func (f *fakeItemStore) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, errors.New("unexpected exec")
}

func (f *fakeItemStore) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("unexpected query")
}

func (f *fakeItemStore) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	id, _ := args[0].(int64)
	price, ok := f.prices[id]
	if ok && strings.Contains(sql, "is_active") && !f.active[id] {
		ok = false
	}
	if !ok {
		return scanFunc(func(dest ...any) error { return pgx.ErrNoRows })
	}
	return scanFunc(func(dest ...any) error {
		*dest[0].(*pgtype.Numeric) = utils.DecimalToNumeric(decimal.RequireFromString(price))
		return nil
	})
}

func TestActiveItemPrice(t *testing.T) {
	store := &fakeItemStore{
		prices: map[int64]string{1: "100", 2: "50.50"},
		active: map[int64]bool{1: true, 2: false},
	}

	t.Run("active item resolves its price", func(t *testing.T) {
		price, err := activeItemPrice(context.Background(), store, 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if price.String() != "100" {
			t.Errorf("price = %s, want 100", price)
		}
	})

	t.Run("soft-deleted item is not orderable", func(t *testing.T) {
		_, err := activeItemPrice(context.Background(), store, 2)
		if err == nil {
			t.Fatal("expected an error for an inactive item")
		}
		if err.Code != ErrItemNotFound {
			t.Errorf("code = %s, want %s", err.Code, ErrItemNotFound)
		}
		if err.StatusCode != http.StatusNotFound {
			t.Errorf("status = %d, want %d", err.StatusCode, http.StatusNotFound)
		}
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		_, err := activeItemPrice(context.Background(), store, 99)
		if err == nil || err.Code != ErrItemNotFound {
			t.Fatalf("expected %s, got %v", ErrItemNotFound, err)
		}
	})
}
