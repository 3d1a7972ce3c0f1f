package billing

import (
	"context"
	"errors"

	"dinehall-pos-services/internal/db"
	"dinehall-pos-services/internal/utils"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PlaceOrder records one order submission. Dine-in submissions against a
// table that already has an open bill are appended to that bill under a
// fresh KOT number; otherwise a new bill is opened with the day's next
// bill number (and token number for takeaway). The whole submission is a
// single transaction: bill row, line items and the running total commit
// or roll back together.
func PlaceOrder(ctx context.Context, pool *pgxpool.Pool, params PlaceOrderParams) (*OrderResult, *Error) {
	if verr := validatePlaceOrder(params); verr != nil {
		return nil, verr
	}

	var result OrderResult
	var opErr *Error

	err := db.WithTx(ctx, pool, func(ctx context.Context, tx pgx.Tx) error {
		if params.OrderType == OrderTypeDineIn {
			var tableID int64
			err := tx.QueryRow(ctx,
				`select id from dining_tables where id = $1`, *params.TableID,
			).Scan(&tableID)
			if errors.Is(err, pgx.ErrNoRows) {
				opErr = NotFoundError(ErrTableNotFound, "Table does not exist")
				return opErr
			}
			if err != nil {
				return err
			}
		}

		billID, billNo, kotNo, tokenNo, merged, err := openOrReuseBill(ctx, tx, params)
		if err != nil {
			if cerr := openBillConflict(err); cerr != nil {
				opErr = cerr
				return opErr
			}
			return err
		}

		orderID, err := nextCounter(ctx, tx, counterOrder, globalCounterDate)
		if err != nil {
			return err
		}

		submissionTotal := decimal.Zero
		for _, item := range params.Items {
			price, perr := activeItemPrice(ctx, tx, item.ItemID)
			if perr != nil {
				opErr = perr
				return opErr
			}

			subtotal := lineSubtotal(price, item.Quantity)
			if _, err := tx.Exec(ctx, `
				insert into bill_items (bill_id, item_id, quantity, subtotal, note, kot_no, order_id)
				values ($1, $2, $3, $4, $5, $6, $7)
			`, billID, item.ItemID, item.Quantity, utils.DecimalToNumeric(subtotal), item.Note, kotNo, orderID); err != nil {
				return err
			}
			submissionTotal = submissionTotal.Add(subtotal)
		}

		if _, err := tx.Exec(ctx, `
			update bills set total_amount = total_amount + $1, updated_at = now() where id = $2
		`, utils.DecimalToNumeric(submissionTotal), billID); err != nil {
			return err
		}

		result = OrderResult{
			BillID:  billID,
			BillNo:  billNo,
			KotNo:   kotNo,
			TokenNo: tokenNo,
			Merged:  merged,
		}
		return nil
	})

	if err != nil {
		if opErr != nil {
			return nil, opErr
		}
		return nil, StorageError(err)
	}
	return &result, nil
}

// openOrReuseBill locks and reuses the table's open bill when one exists,
// otherwise inserts a new bill with freshly issued day numbers. The row
// lock on the reused bill serializes KOT assignment for the same table.
func openOrReuseBill(ctx context.Context, tx pgx.Tx, params PlaceOrderParams) (billID int64, billNo int64, kotNo int64, tokenNo *int64, merged bool, err error) {
	if params.OrderType == OrderTypeDineIn {
		err = tx.QueryRow(ctx, `
			select id, bill_no from bills
			where table_id = $1 and not is_paid
			for update
		`, *params.TableID).Scan(&billID, &billNo)
		if err == nil {
			err = tx.QueryRow(ctx,
				`select coalesce(max(kot_no), 0) + 1 from bill_items where bill_id = $1`, billID,
			).Scan(&kotNo)
			merged = true
			return
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return
		}
	}

	billNo, err = nextCounter(ctx, tx, counterBill, params.BillDate)
	if err != nil {
		return
	}

	if params.OrderType == OrderTypeTakeaway {
		var token int64
		token, err = nextCounter(ctx, tx, counterToken, params.BillDate)
		if err != nil {
			return
		}
		tokenNo = &token
	}

	err = tx.QueryRow(ctx, `
		insert into bills (bill_no, bill_date, order_type, table_id, token_no, total_amount, is_paid, created_by)
		values ($1, $2, $3, $4, $5, 0, false, $6)
		returning id
	`, billNo, params.BillDate, params.OrderType, params.TableID, tokenNo, params.CreatedBy).Scan(&billID)
	kotNo = 1
	return
}

// openBillConflict recognizes the unique-index violation raised when two
// first orders for the same table race past the open-bill lookup, so the
// loser surfaces as a conflict instead of a storage failure.
func openBillConflict(err error) *Error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "uq_bills_open_table" {
		return ConflictError(ErrTableAlreadyOccupied, "Table already has an open bill")
	}
	return nil
}
