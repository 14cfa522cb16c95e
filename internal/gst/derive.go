// Package gst derives the tax fields printed on a GST tax invoice from a
// tax-inclusive total, and renders rupee amounts in words.
package gst

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// SplitPolicy decides how the combined tax is divided between CGST and SGST.
type SplitPolicy string

const (
	// SumExact rounds CGST half-up and lets SGST absorb the remainder, so
	// CGST + SGST always equals TotalTax but the halves may differ by 0.01.
	SumExact SplitPolicy = "sum-exact"
	// DisplayEqual floors both halves to two decimals, so CGST == SGST but
	// their sum may be 0.01 below TotalTax. TotalTax is never reduced to match.
	DisplayEqual SplitPolicy = "display-equal"
)

// ErrInvalidInput is returned for inputs the engine refuses to derive from.
var ErrInvalidInput = errors.New("invalid input")

var hundred = decimal.NewFromInt(100)

// TaxFields holds the derived financial fields of one invoice.
type TaxFields struct {
	TotalAmount   decimal.Decimal // tax-inclusive total, rounded to 2dp
	Rate          decimal.Decimal // taxable value per unit
	TaxableAmount decimal.Decimal
	CGSTAmount    decimal.Decimal
	SGSTAmount    decimal.Decimal
	TotalTax      decimal.Decimal
}

// Drift is the part of TotalTax not covered by CGST + SGST. It is always zero
// under SumExact and 0.00 or 0.01 under DisplayEqual.
func (t TaxFields) Drift() decimal.Decimal {
	return t.TotalTax.Sub(t.CGSTAmount.Add(t.SGSTAmount))
}

// ParseSplitPolicy maps a configuration string onto a SplitPolicy.
func ParseSplitPolicy(s string) (SplitPolicy, error) {
	switch p := SplitPolicy(s); p {
	case SumExact, DisplayEqual:
		return p, nil
	default:
		return "", fmt.Errorf("%w: unknown split policy %q (want %q or %q)", ErrInvalidInput, s, SumExact, DisplayEqual)
	}
}

// DeriveTaxFields computes rate, taxable value and the CGST/SGST split from a
// tax-inclusive total. Every stage is rounded to two decimals before the next
// one uses it; TotalTax is the difference between the rounded total and the
// rounded taxable value, so TaxableAmount + TotalTax == TotalAmount.
func DeriveTaxFields(totalAmount float64, quantity int, taxRatePercent float64, policy SplitPolicy) (TaxFields, error) {
	if quantity < 1 {
		return TaxFields{}, fmt.Errorf("%w: quantity must be at least 1", ErrInvalidInput)
	}
	if math.IsNaN(totalAmount) || math.IsInf(totalAmount, 0) || totalAmount <= 0 {
		return TaxFields{}, fmt.Errorf("%w: total amount must be a positive number", ErrInvalidInput)
	}
	if math.IsNaN(taxRatePercent) || math.IsInf(taxRatePercent, 0) || taxRatePercent < 0 || taxRatePercent >= 100 {
		return TaxFields{}, fmt.Errorf("%w: tax rate must be between 0 and 100 percent", ErrInvalidInput)
	}
	if _, err := ParseSplitPolicy(string(policy)); err != nil {
		return TaxFields{}, err
	}

	total := round2(decimal.NewFromFloat(totalAmount))
	if !total.IsPositive() {
		return TaxFields{}, fmt.Errorf("%w: total amount must be at least 0.01", ErrInvalidInput)
	}

	return derive(total, quantity, decimal.NewFromFloat(taxRatePercent), policy), nil
}

func derive(total decimal.Decimal, quantity int, ratePercent decimal.Decimal, policy SplitPolicy) TaxFields {
	total = round2(total)
	divisor := decimal.NewFromInt(1).Add(ratePercent.Div(hundred))

	taxable := round2(total.Div(divisor))
	totalTax := round2(total.Sub(taxable))
	halfTax := totalTax.Div(decimal.NewFromInt(2))

	var cgst, sgst decimal.Decimal
	switch policy {
	case SumExact:
		cgst = round2(halfTax)
		sgst = totalTax.Sub(cgst)
	case DisplayEqual:
		cgst = floor2(halfTax)
		sgst = cgst
	}

	return TaxFields{
		TotalAmount:   total,
		Rate:          round2(taxable.Div(decimal.NewFromInt(int64(quantity)))),
		TaxableAmount: taxable,
		CGSTAmount:    cgst,
		SGSTAmount:    sgst,
		TotalTax:      totalTax,
	}
}

// HalfRatePercent renders the per-component rate, e.g. 18 -> "9", 5 -> "2.5".
func HalfRatePercent(taxRatePercent float64) string {
	return decimal.NewFromFloat(taxRatePercent).Div(decimal.NewFromInt(2)).String()
}

func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

func floor2(d decimal.Decimal) decimal.Decimal {
	return d.Mul(hundred).Floor().Div(hundred)
}
