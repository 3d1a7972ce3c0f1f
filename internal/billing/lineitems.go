package billing

import (
	"context"
	"errors"

	"dinehall-pos-services/internal/db"
	"dinehall-pos-services/internal/utils"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UpdateLineItemParams struct {
	LineItemID int64
	ItemID     int64
	Quantity   int32
	Note       *string
}

// UpdateLineItem rewrites one line of an open bill and adjusts the bill
// total by the subtotal delta in the same transaction, never by a later
// recomputation pass.
func UpdateLineItem(ctx context.Context, pool *pgxpool.Pool, params UpdateLineItemParams) *Error {
	if params.LineItemID <= 0 {
		return ValidationError(ErrOrderInvalid, "Invalid billDetailsId")
	}
	if params.ItemID <= 0 {
		return ValidationError(ErrOrderInvalid, "Invalid itemId")
	}
	if params.Quantity <= 0 {
		return ValidationError(ErrOrderInvalid, "Invalid quantity")
	}

	var opErr *Error
	err := db.WithTx(ctx, pool, func(ctx context.Context, tx pgx.Tx) error {
		var (
			billID      int64
			oldSubtotal pgtype.Numeric
			isPaid      bool
		)
		err := tx.QueryRow(ctx, `
			select bi.bill_id, bi.subtotal, b.is_paid
			from bill_items bi
			join bills b on b.id = bi.bill_id
			where bi.id = $1
			for update of bi, b
		`, params.LineItemID).Scan(&billID, &oldSubtotal, &isPaid)
		if errors.Is(err, pgx.ErrNoRows) {
			opErr = NotFoundError(ErrLineItemNotFound, "Bill detail not found")
			return opErr
		}
		if err != nil {
			return err
		}
		if isPaid {
			opErr = ConflictError(ErrBillAlreadyPaid, "Cannot update a paid bill")
			return opErr
		}

		price, perr := activeItemPrice(ctx, tx, params.ItemID)
		if perr != nil {
			opErr = perr
			return opErr
		}

		newSubtotal := lineSubtotal(price, params.Quantity)
		delta := subtotalDelta(utils.NumericToDecimal(oldSubtotal), newSubtotal)

		if _, err := tx.Exec(ctx, `
			update bill_items set item_id = $1, quantity = $2, subtotal = $3, note = $4 where id = $5
		`, params.ItemID, params.Quantity, utils.DecimalToNumeric(newSubtotal), params.Note, params.LineItemID); err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
			update bills set total_amount = total_amount + $1, updated_at = now() where id = $2
		`, utils.DecimalToNumeric(delta), billID)
		return err
	})

	if err != nil {
		if opErr != nil {
			return opErr
		}
		return StorageError(err)
	}
	return nil
}

// RemoveLineItem deletes one line of an open bill and subtracts its
// subtotal from the bill total atomically.
func RemoveLineItem(ctx context.Context, pool *pgxpool.Pool, lineItemID int64) *Error {
	if lineItemID <= 0 {
		return ValidationError(ErrOrderInvalid, "Invalid billDetailsId")
	}

	var opErr *Error
	err := db.WithTx(ctx, pool, func(ctx context.Context, tx pgx.Tx) error {
		var (
			billID   int64
			subtotal pgtype.Numeric
			isPaid   bool
		)
		err := tx.QueryRow(ctx, `
			select bi.bill_id, bi.subtotal, b.is_paid
			from bill_items bi
			join bills b on b.id = bi.bill_id
			where bi.id = $1
			for update of bi, b
		`, lineItemID).Scan(&billID, &subtotal, &isPaid)
		if errors.Is(err, pgx.ErrNoRows) {
			opErr = NotFoundError(ErrLineItemNotFound, "Bill detail not found")
			return opErr
		}
		if err != nil {
			return err
		}
		if isPaid {
			opErr = ConflictError(ErrBillAlreadyPaid, "Cannot delete an item from a paid bill")
			return opErr
		}

		if _, err := tx.Exec(ctx, `delete from bill_items where id = $1`, lineItemID); err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
			update bills set total_amount = total_amount - $1, updated_at = now() where id = $2
		`, subtotal, billID)
		return err
	})

	if err != nil {
		if opErr != nil {
			return opErr
		}
		return StorageError(err)
	}
	return nil
}

// ListLineItems returns a bill's lines ordered by KOT, the order the
// kitchen received them.
func ListLineItems(ctx context.Context, q Querier, billID int64) ([]LineItem, *Error) {
	rows, err := q.Query(ctx, `
		select bi.id, bi.bill_id, bi.item_id, i.name, bi.quantity, bi.subtotal, bi.note, bi.kot_no, bi.order_id
		from bill_items bi
		join items i on i.id = bi.item_id
		where bi.bill_id = $1
		order by bi.kot_no, bi.id
	`, billID)
	if err != nil {
		return nil, StorageError(err)
	}
	defer rows.Close()

	items := make([]LineItem, 0)
	for rows.Next() {
		var (
			item     LineItem
			subtotal pgtype.Numeric
			note     pgtype.Text
		)
		if err := rows.Scan(&item.ID, &item.BillID, &item.ItemID, &item.ItemName, &item.Quantity, &subtotal, &note, &item.KotNo, &item.OrderID); err != nil {
			return nil, StorageError(err)
		}
		item.Subtotal = utils.NumericToDecimal(subtotal)
		if note.Valid {
			item.Note = &note.String
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, StorageError(err)
	}
	return items, nil
}

// OpenBillForTable resolves the table's current unpaid bill, if any.
func OpenBillForTable(ctx context.Context, q Querier, tableID int64) (*Bill, *Error) {
	var (
		bill          Bill
		billDate      pgtype.Date
		tableRef      pgtype.Int8
		tokenNo       pgtype.Int8
		totalAmount   pgtype.Numeric
		paymentMethod pgtype.Text
	)
	err := q.QueryRow(ctx, `
		select id, bill_no, bill_date, order_type, table_id, token_no, total_amount, is_paid, payment_method
		from bills
		where table_id = $1 and not is_paid
		order by created_at desc
		limit 1
	`, tableID).Scan(&bill.ID, &bill.BillNo, &billDate, &bill.OrderType, &tableRef, &tokenNo, &totalAmount, &bill.IsPaid, &paymentMethod)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, NotFoundError(ErrBillNotFound, "No active orders found for this table")
	}
	if err != nil {
		return nil, StorageError(err)
	}

	if billDate.Valid {
		bill.BillDate = billDate.Time.Format("2006-01-02")
	}
	if tableRef.Valid {
		bill.TableID = &tableRef.Int64
	}
	if tokenNo.Valid {
		bill.TokenNo = &tokenNo.Int64
	}
	if paymentMethod.Valid {
		bill.PaymentMethod = &paymentMethod.String
	}
	bill.TotalAmount = utils.NumericToDecimal(totalAmount)
	return &bill, nil
}

// GetBill loads one bill by id.
func GetBill(ctx context.Context, q Querier, billID int64) (*Bill, *Error) {
	var (
		bill          Bill
		billDate      pgtype.Date
		tableRef      pgtype.Int8
		tokenNo       pgtype.Int8
		totalAmount   pgtype.Numeric
		paymentMethod pgtype.Text
	)
	err := q.QueryRow(ctx, `
		select id, bill_no, bill_date, order_type, table_id, token_no, total_amount, is_paid, payment_method
		from bills where id = $1
	`, billID).Scan(&bill.ID, &bill.BillNo, &billDate, &bill.OrderType, &tableRef, &tokenNo, &totalAmount, &bill.IsPaid, &paymentMethod)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, NotFoundError(ErrBillNotFound, "Bill not found")
	}
	if err != nil {
		return nil, StorageError(err)
	}

	if billDate.Valid {
		bill.BillDate = billDate.Time.Format("2006-01-02")
	}
	if tableRef.Valid {
		bill.TableID = &tableRef.Int64
	}
	if tokenNo.Valid {
		bill.TokenNo = &tokenNo.Int64
	}
	if paymentMethod.Valid {
		bill.PaymentMethod = &paymentMethod.String
	}
	bill.TotalAmount = utils.NumericToDecimal(totalAmount)
	return &bill, nil
}
