package billing

import (
	"context"
)

// Counter scopes. Bill and token numbers restart each day; the line-item
// order id is a single global sequence, kept under a sentinel date.
const (
	counterBill  = "bill"
	counterToken = "token"
	counterOrder = "order"

	globalCounterDate = "1970-01-01"
)

// nextCounter returns the next value of a named counter via an atomic
// upsert-increment. Running it inside the caller's transaction makes the
// issued number and the row it numbers commit or roll back together, and
// the row-level lock on the counter serializes concurrent callers.
func nextCounter(ctx context.Context, q Querier, scope string, date string) (int64, error) {
	var value int64
	err := q.QueryRow(ctx, `
		insert into daily_counters (scope, counter_date, value)
		values ($1, $2, 1)
		on conflict (scope, counter_date)
		do update set value = daily_counters.value + 1
		returning value
	`, scope, date).Scan(&value)
	if err != nil {
		return 0, err
	}
	return value, nil
}
