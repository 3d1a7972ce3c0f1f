package billing

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// fakeCounterStore emulates the upsert-increment contract of
// daily_counters keyed on (scope, counter_date).
type fakeCounterStore struct {
	values map[string]int64
}

func (f *fakeCounterStore) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, errors.New("unexpected exec")
}

func (f *fakeCounterStore) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("unexpected query")
}

func (f *fakeCounterStore) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if f.values == nil {
		f.values = make(map[string]int64)
	}
	key := args[0].(string) + "|" + args[1].(string)
	f.values[key]++
	value := f.values[key]
	return scanFunc(func(dest ...any) error {
		*dest[0].(*int64) = value
		return nil
	})
}

func TestNextCounter(t *testing.T) {
	ctx := context.Background()
	store := &fakeCounterStore{}

	next := func(scope, date string) int64 {
		t.Helper()
		v, err := nextCounter(ctx, store, scope, date)
		if err != nil {
			t.Fatalf("nextCounter(%s, %s): %v", scope, date, err)
		}
		return v
	}

	t.Run("values are monotonic within a scope and date", func(t *testing.T) {
		for want := int64(1); want <= 3; want++ {
			if got := next(counterBill, "2026-03-01"); got != want {
				t.Fatalf("bill counter = %d, want %d", got, want)
			}
		}
	})

	t.Run("scopes count independently", func(t *testing.T) {
		if got := next(counterToken, "2026-03-01"); got != 1 {
			t.Errorf("token counter = %d, want 1", got)
		}
	})

	t.Run("daily scopes restart on a new date", func(t *testing.T) {
		if got := next(counterBill, "2026-03-02"); got != 1 {
			t.Errorf("bill counter on new date = %d, want 1", got)
		}
	})

	t.Run("order scope survives across bill dates", func(t *testing.T) {
		first := next(counterOrder, globalCounterDate)
		second := next(counterOrder, globalCounterDate)
		if second != first+1 {
			t.Errorf("order ids %d then %d, want consecutive", first, second)
		}
	})
}
