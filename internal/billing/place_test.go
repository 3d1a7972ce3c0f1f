package billing

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestOpenBillConflict(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "open-bill unique violation maps to a conflict",
			err:  &pgconn.PgError{Code: "23505", ConstraintName: "uq_bills_open_table"},
			want: true,
		},
		{
			name: "wrapped violation is still recognized",
			err:  fmt.Errorf("insert bill: %w", &pgconn.PgError{Code: "23505", ConstraintName: "uq_bills_open_table"}),
			want: true,
		},
		{
			name: "other unique violations pass through",
			err:  &pgconn.PgError{Code: "23505", ConstraintName: "uq_items_name"},
			want: false,
		},
		{
			name: "other pg errors pass through",
			err:  &pgconn.PgError{Code: "23503", ConstraintName: "uq_bills_open_table"},
			want: false,
		},
		{
			name: "plain errors pass through",
			err:  errors.New("connection reset"),
			want: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := openBillConflict(tc.err)
			if !tc.want {
				if got != nil {
					t.Fatalf("expected nil, got %v", got)
				}
				return
			}
			if got == nil {
				t.Fatal("expected a conflict error")
			}
			if got.Code != ErrTableAlreadyOccupied {
				t.Errorf("code = %s, want %s", got.Code, ErrTableAlreadyOccupied)
			}
			if got.StatusCode != http.StatusConflict {
				t.Errorf("status = %d, want %d", got.StatusCode, http.StatusConflict)
			}
		})
	}
}
