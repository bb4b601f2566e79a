// Package currencyutils provides amount parsing and exact summation for
// statement amounts.
package currencyutils

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount parses a statement amount. Every comma is treated as a
// decimal point; there is no thousands-separator handling, so "1,234,56"
// fails to parse.
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	standardized := StandardizeAmount(amountStr)
	amount, err := decimal.NewFromString(standardized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", amountStr, err)
	}
	return amount, nil
}

// ErrAmountOutOfRange marks an amount that parses as a decimal but does not
// fit a finite float64, such as "1e400".
var ErrAmountOutOfRange = errors.New("amount out of float64 range")

// ParseAmountFloat parses a statement amount into a float64. Amounts whose
// float64 value would be infinite fail with ErrAmountOutOfRange.
func ParseAmountFloat(amountStr string) (float64, error) {
	amount, err := ParseAmount(amountStr)
	if err != nil {
		return 0, err
	}
	f := amount.InexactFloat64()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, fmt.Errorf("failed to parse amount '%s': %w", amountStr, ErrAmountOutOfRange)
	}
	return f, nil
}

// StandardizeAmount replaces every comma with a decimal point.
func StandardizeAmount(amountStr string) string {
	return strings.ReplaceAll(amountStr, ",", ".")
}

// Accumulator sums float64 amounts in decimal arithmetic so totals do not
// pick up binary rounding noise (0.1 + 0.2 totals 0.3).
type Accumulator struct {
	total decimal.Decimal
}

// Add adds amount to the running total.
func (a *Accumulator) Add(amount float64) {
	a.total = a.total.Add(decimal.NewFromFloat(amount))
}

// Float64 returns the running total.
func (a *Accumulator) Float64() float64 {
	return a.total.InexactFloat64()
}

// Sum returns the decimal-exact sum of amounts as a float64.
func Sum(amounts ...float64) float64 {
	var acc Accumulator
	for _, a := range amounts {
		acc.Add(a)
	}
	return acc.Float64()
}

// FormatAmount renders amount with two decimals and a comma separator, the
// way statement exports write it.
func FormatAmount(amount float64) string {
	return strings.Replace(decimal.NewFromFloat(amount).StringFixed(2), ".", ",", 1)
}
