package atomic

import (
	"math/big"

	"github.com/shopspring/decimal"
)

func decimalFromRatio(a, b int64) decimal.Decimal {
	return decimal.NewFromInt(a).DivRound(decimal.NewFromInt(b), DecimalPrecision)
}

func decimalFromBigRatio(a, b *big.Int) decimal.Decimal {
	return decimal.NewFromBigInt(a, 0).DivRound(decimal.NewFromBigInt(b, 0), DecimalPrecision)
}
