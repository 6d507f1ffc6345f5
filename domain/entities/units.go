package entities

import "github.com/shopspring/decimal"

// UnitPrecision is the number of decimal places units are stored with
const UnitPrecision = 2

// RoundUnits rounds an amount of units to cents, half away from zero
func RoundUnits(d decimal.Decimal) decimal.Decimal {
	return d.Round(UnitPrecision)
}

// IsMultipleOf reports whether amount is a whole positive multiple of increment
func IsMultipleOf(amount, increment decimal.Decimal) bool {
	if !increment.IsPositive() {
		return false
	}
	return amount.Mod(increment).IsZero()
}
