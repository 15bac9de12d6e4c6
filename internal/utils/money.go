package utils

import (
	"github.com/shopspring/decimal"
)

// MoneyPrecision is the number of decimal places stored for balances and movements.
const MoneyPrecision = 2

// FormatMoney renders an amount with the stored precision, e.g. 1000 -> "1000.00".
func FormatMoney(amount decimal.Decimal) string {
	return amount.StringFixed(MoneyPrecision)
}

// HasMoneyPrecision reports whether amount can be stored without rounding.
func HasMoneyPrecision(amount decimal.Decimal) bool {
	return amount.Equal(amount.Round(MoneyPrecision))
}
