package tables

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// Querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Table struct {
	ID            int64      `json:"id"`
	TableNumber   int32      `json:"tableNumber"`
	SeatCount     int32      `json:"seatCount"`
	IsActive      bool       `json:"isActive"`
	IsReserved    bool       `json:"isReserved"`
	ReservedFrom  *time.Time `json:"reservedFrom,omitempty"`
	ReservedUntil *time.Time `json:"reservedUntil,omitempty"`
	Note          *string    `json:"note,omitempty"`
}

// ListOccupied returns the ids of tables holding an unpaid bill dated
// asOfDate (YYYY-MM-DD). Occupancy for the listing is date-scoped; the
// order path guards double occupancy by bill lifetime instead.
func ListOccupied(ctx context.Context, q Querier, asOfDate string) ([]int64, *Error) {
	rows, err := q.Query(ctx, `
		select distinct table_id from bills
		where bill_date = $1 and not is_paid and table_id is not null
	`, asOfDate)
	if err != nil {
		return nil, StorageError(err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, StorageError(err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, StorageError(err)
	}
	return ids, nil
}

// ListAvailable returns active tables with no unpaid bill dated asOfDate,
// ordered by table number.
func ListAvailable(ctx context.Context, q Querier, asOfDate string) ([]Table, *Error) {
	rows, err := q.Query(ctx, `
		select id, table_number, seat_count, is_active, is_reserved, reserved_from, reserved_until, note
		from dining_tables
		where is_active
		  and id not in (
			select table_id from bills
			where bill_date = $1 and not is_paid and table_id is not null
		  )
		order by table_number
	`, asOfDate)
	if err != nil {
		return nil, StorageError(err)
	}
	defer rows.Close()

	return scanTables(rows)
}

// ListAll returns every table regardless of flags, ordered by number.
func ListAll(ctx context.Context, q Querier) ([]Table, *Error) {
	rows, err := q.Query(ctx, `
		select id, table_number, seat_count, is_active, is_reserved, reserved_from, reserved_until, note
		from dining_tables
		order by table_number
	`)
	if err != nil {
		return nil, StorageError(err)
	}
	defer rows.Close()

	return scanTables(rows)
}

func scanTables(rows pgx.Rows) ([]Table, *Error) {
	out := make([]Table, 0)
	for rows.Next() {
		var (
			t    Table
			from pgtype.Timestamptz
			till pgtype.Timestamptz
			note pgtype.Text
		)
		if err := rows.Scan(&t.ID, &t.TableNumber, &t.SeatCount, &t.IsActive, &t.IsReserved, &from, &till, &note); err != nil {
			return nil, StorageError(err)
		}
		if from.Valid {
			t.ReservedFrom = &from.Time
		}
		if till.Valid {
			t.ReservedUntil = &till.Time
		}
		if note.Valid {
			t.Note = &note.String
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, StorageError(err)
	}
	return out, nil
}
