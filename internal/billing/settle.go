package billing

import (
	"context"
	"errors"

	"dinehall-pos-services/internal/db"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SettleBill marks a bill paid. Paid is terminal: the row lock plus the
// is_paid guard make a second settlement, or any later line-item
// mutation, fail without touching state.
func SettleBill(ctx context.Context, pool *pgxpool.Pool, billID int64, paymentMethod string) *Error {
	if billID <= 0 {
		return ValidationError(ErrOrderInvalid, "Bill Id is required")
	}
	if !ValidPaymentMethod(paymentMethod) {
		return ValidationError(ErrPaymentInvalid, "Invalid payment method")
	}

	var opErr *Error
	err := db.WithTx(ctx, pool, func(ctx context.Context, tx pgx.Tx) error {
		var isPaid bool
		err := tx.QueryRow(ctx,
			`select is_paid from bills where id = $1 for update`, billID,
		).Scan(&isPaid)
		if errors.Is(err, pgx.ErrNoRows) {
			opErr = NotFoundError(ErrBillNotFound, "Bill not found")
			return opErr
		}
		if err != nil {
			return err
		}
		if isPaid {
			opErr = ConflictError(ErrBillAlreadyPaid, "Bill is already paid")
			return opErr
		}

		_, err = tx.Exec(ctx, `
			update bills set is_paid = true, payment_method = $1, updated_at = now() where id = $2
		`, paymentMethod, billID)
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
