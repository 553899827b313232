package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an amount in cents of the single implicit currency
type Money int64

// centsPerUnit is the number of minor units in one currency unit
const centsPerUnit = 100

var hundred = decimal.NewFromInt(centsPerUnit)

// MoneyFromDecimal converts a currency-unit amount to Money.
// Negative amounts and amounts finer than one cent are rejected.
func MoneyFromDecimal(d decimal.Decimal) (Money, error) {
	if d.IsNegative() {
		return 0, ErrInvalidAmount
	}
	if d.IsZero() {
		return 0, nil
	}
	// Exponent and digit bounds are checked before any arithmetic
	exp := int64(d.Exponent())
	if exp < -maxFractionDigits || int64(d.NumDigits())+exp > maxUnitDigits {
		return 0, ErrInvalidAmount
	}
	cents := d.Mul(hundred)
	if !cents.IsInteger() || cents.GreaterThan(decimal.NewFromInt(maxMoney)) {
		return 0, ErrInvalidAmount
	}
	return Money(cents.IntPart()), nil
}

// maxMoney keeps sums of many amounts well inside int64
const maxMoney = 1 << 50

const (
	// maxUnitDigits is the integer-digit count of maxMoney in currency units, plus slack
	maxUnitDigits = 16
	// maxFractionDigits allows trailing zeros such as "12.5000" but not unbounded precision
	maxFractionDigits = 18
)

// ParseMoney parses a currency-unit amount such as "150" or "12.50"
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	if s == "" {
		return 0, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	return MoneyFromDecimal(d)
}

// Units returns m as a decimal amount of currency units
func (m Money) Units() decimal.Decimal {
	return decimal.New(int64(m), -2)
}

// String formats m in currency units, e.g. "12.50" or "-3.00"
func (m Money) String() string {
	return m.Units().StringFixed(2)
}
