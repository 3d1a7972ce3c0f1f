package billing

import (
	"context"
	"errors"
	"fmt"

	"dinehall-pos-services/internal/utils"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// activeItemPrice resolves the current price of an orderable item. Items
// soft-deleted from the menu fail the same way as unknown ids.
func activeItemPrice(ctx context.Context, q Querier, itemID int64) (decimal.Decimal, *Error) {
	var price pgtype.Numeric
	err := q.QueryRow(ctx,
		`select price from items where id = $1 and is_active`, itemID,
	).Scan(&price)
	if errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, NotFoundError(ErrItemNotFound, fmt.Sprintf("Item with id %d not found", itemID))
	}
	if err != nil {
		return decimal.Zero, StorageError(err)
	}
	return utils.NumericToDecimal(price), nil
}
