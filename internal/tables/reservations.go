package tables

import (
	"context"
	"strings"
	"time"

	"dinehall-pos-services/internal/db"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Reservation struct {
	ID            int64     `json:"id"`
	TableID       int64     `json:"tableId"`
	CustomerName  string    `json:"customerName"`
	CustomerPhone string    `json:"customerPhone"`
	StartsAt      time.Time `json:"startsAt"`
	EndsAt        time.Time `json:"endsAt"`
	Note          *string   `json:"note,omitempty"`
}

type CreateReservationParams struct {
	CustomerName  string
	CustomerPhone string
	StartsAt      time.Time
	EndsAt        time.Time
	Note          *string
	TableIDs      []int64
}

func validateReservation(params CreateReservationParams) *Error {
	if len(params.TableIDs) == 0 {
		return ValidationError(ErrReservationInvalid, "At least one table is required")
	}
	seen := make(map[int64]bool, len(params.TableIDs))
	for _, id := range params.TableIDs {
		if id <= 0 {
			return ValidationError(ErrReservationInvalid, "Invalid table id")
		}
		if seen[id] {
			return ValidationError(ErrReservationInvalid, "Duplicate table id")
		}
		seen[id] = true
	}
	if strings.TrimSpace(params.CustomerName) == "" {
		return ValidationError(ErrReservationInvalid, "Customer name is required")
	}
	if len(strings.TrimSpace(params.CustomerPhone)) < 10 {
		return ValidationError(ErrReservationInvalid, "Customer phone must have at least 10 digits")
	}
	if params.StartsAt.IsZero() || params.EndsAt.IsZero() || !params.StartsAt.Before(params.EndsAt) {
		return ValidationError(ErrReservationInvalid, "Reservation window is invalid")
	}
	return nil
}

// Overlaps reports whether two half-open windows [aStart, aEnd) and
// [bStart, bEnd) intersect. Adjacent windows do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// CheckOverlap fails when any requested table already has a reservation
// intersecting [start, end).
func CheckOverlap(ctx context.Context, q Querier, tableIDs []int64, start, end time.Time) *Error {
	rows, err := q.Query(ctx, `
		select distinct table_id from reservations
		where table_id = any($1) and starts_at < $3 and ends_at > $2
	`, tableIDs, start, end)
	if err != nil {
		return StorageError(err)
	}
	defer rows.Close()

	if rows.Next() {
		return ConflictError(ErrReservationOverlap, "One or more tables are already reserved for this time range")
	}
	if err := rows.Err(); err != nil {
		return StorageError(err)
	}
	return nil
}

// CreateReservation books every requested table for the window in one
// all-or-nothing transaction: active/unreserved checks, overlap check,
// one reservation row per table, and the mirrored window on the tables.
func CreateReservation(ctx context.Context, pool *pgxpool.Pool, params CreateReservationParams) ([]int64, *Error) {
	if verr := validateReservation(params); verr != nil {
		return nil, verr
	}

	var reservationIDs []int64
	var opErr *Error

	err := db.WithTx(ctx, pool, func(ctx context.Context, tx pgx.Tx) error {
		var existing int64
		if err := tx.QueryRow(ctx,
			`select count(*) from dining_tables where id = any($1)`, params.TableIDs,
		).Scan(&existing); err != nil {
			return err
		}
		if existing != int64(len(params.TableIDs)) {
			opErr = NotFoundError(ErrTableNotFound, "One or more selected tables do not exist")
			return opErr
		}

		rows, err := tx.Query(ctx, `
			select id from dining_tables
			where id = any($1) and is_active and not is_reserved
			for update
		`, params.TableIDs)
		if err != nil {
			return err
		}
		eligible := make(map[int64]bool)
		for rows.Next() {
			var id int64
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return err
			}
			eligible[id] = true
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		if len(eligible) != len(params.TableIDs) {
			opErr = ConflictError(ErrTableUnavailable, "One or more selected tables are not available")
			return opErr
		}

		if verr := CheckOverlap(ctx, tx, params.TableIDs, params.StartsAt, params.EndsAt); verr != nil {
			opErr = verr
			return opErr
		}

		reservationIDs = make([]int64, 0, len(params.TableIDs))
		for _, tableID := range params.TableIDs {
			var id int64
			err := tx.QueryRow(ctx, `
				insert into reservations (table_id, customer_name, customer_phone, starts_at, ends_at, note)
				values ($1, $2, $3, $4, $5, $6)
				returning id
			`, tableID, params.CustomerName, params.CustomerPhone, params.StartsAt, params.EndsAt, params.Note).Scan(&id)
			if err != nil {
				return err
			}
			reservationIDs = append(reservationIDs, id)
		}

		_, err = tx.Exec(ctx, `
			update dining_tables
			set is_reserved = true, reserved_from = $2, reserved_until = $3, note = $4, updated_at = now()
			where id = any($1)
		`, params.TableIDs, params.StartsAt, params.EndsAt, params.Note)
		return err
	})

	if err != nil {
		if opErr != nil {
			return nil, opErr
		}
		return nil, StorageError(err)
	}
	return reservationIDs, nil
}

// ListReservations returns upcoming reservations ordered by start time.
func ListReservations(ctx context.Context, q Querier, from time.Time) ([]Reservation, *Error) {
	rows, err := q.Query(ctx, `
		select id, table_id, customer_name, customer_phone, starts_at, ends_at, note
		from reservations
		where ends_at > $1
		order by starts_at, table_id
	`, from)
	if err != nil {
		return nil, StorageError(err)
	}
	defer rows.Close()

	out := make([]Reservation, 0)
	for rows.Next() {
		var (
			r    Reservation
			note pgtype.Text
		)
		if err := rows.Scan(&r.ID, &r.TableID, &r.CustomerName, &r.CustomerPhone, &r.StartsAt, &r.EndsAt, &note); err != nil {
			return nil, StorageError(err)
		}
		if note.Valid {
			r.Note = &note.String
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, StorageError(err)
	}
	return out, nil
}
