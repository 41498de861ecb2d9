package core

import (
	"github.com/shopspring/decimal"
)

// Money is an amount in integer minor units (cents).
type Money int64

// MoneyFromFloat converts a decimal amount, as found in JSON exports, to minor units.
// The value is rounded to two places, half away from zero.
func MoneyFromFloat(amount float64) Money {
	return Money(decimal.NewFromFloat(amount).Round(2).Shift(2).IntPart())
}

// MoneyFromDecimal converts an exact decimal amount to minor units.
func MoneyFromDecimal(amount decimal.Decimal) Money {
	return Money(amount.Round(2).Shift(2).IntPart())
}

// Decimal returns the amount in major units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(int64(m), -2)
}

// String renders the amount with exactly two decimal places, e.g. "1234.50".
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

// MarshalJSON renders the amount as a JSON number with two decimal places.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts a JSON number or numeric string in major units.
func (m *Money) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	*m = MoneyFromDecimal(d)
	return nil
}
