package utils

import (
	"math/big"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// NumericToDecimal converts a scanned numeric column into an exact decimal.
// Null and NaN collapse to zero; money columns are declared not null.
func NumericToDecimal(value pgtype.Numeric) decimal.Decimal {
	if !value.Valid || value.NaN || value.Int == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(value.Int, value.Exp)
}

func DecimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	coefficient := new(big.Int).Set(d.Coefficient())
	return pgtype.Numeric{Int: coefficient, Exp: d.Exponent(), Valid: true}
}

func NumericToFloat64(value pgtype.Numeric) float64 {
	if !value.Valid {
		return 0
	}
	f, err := value.Float64Value()
	if err != nil {
		return 0
	}
	return f.Float64
}
