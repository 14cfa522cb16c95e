package gst

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var units = [...]string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen",
	"Sixteen", "Seventeen", "Eighteen", "Nineteen",
}

var tens = [...]string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}

var crore = decimal.NewFromInt(10000000)

// AmountInWords renders a rupee amount for the "amount in words" line of a
// tax invoice using Indian grouping (crore, lakh, thousand).
func AmountInWords(amount float64) (string, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return "", fmt.Errorf("%w: amount must be a finite number", ErrInvalidInput)
	}
	return AmountInWordsDecimal(decimal.NewFromFloat(amount))
}

// AmountInWordsDecimal is AmountInWords for values already held as decimals.
// Amounts below one rupee read "Zero Rupees and N Paise Only".
func AmountInWordsDecimal(amount decimal.Decimal) (string, error) {
	if amount.IsNegative() {
		return "", fmt.Errorf("%w: amount must not be negative", ErrInvalidInput)
	}

	amount = amount.Round(2)
	rupees := amount.Floor()
	paise := int(amount.Sub(rupees).Mul(hundred).IntPart())

	if rupees.IsZero() && paise == 0 {
		return "Zero Rupees Only", nil
	}

	words := "Zero"
	if rupees.IsPositive() {
		words = integerInWords(rupees)
	}
	words += " Rupees"
	if paise > 0 {
		words += " and " + belowHundred(paise) + " Paise"
	}
	return words + " Only", nil
}

// integerInWords spells a non-negative whole number. Counts of crores are
// spelled by recursion, so there is no upper bound.
func integerInWords(n decimal.Decimal) string {
	if n.GreaterThanOrEqual(crore) {
		crores := n.Div(crore).Floor()
		rest := n.Sub(crores.Mul(crore))
		words := integerInWords(crores) + " Crore"
		if rest.IsPositive() {
			words += " " + integerInWords(rest)
		}
		return words
	}

	v := int(n.IntPart())
	var parts []string
	if lakhs := v / 100000; lakhs > 0 {
		parts = append(parts, belowHundred(lakhs)+" Lakh")
	}
	v %= 100000
	if thousands := v / 1000; thousands > 0 {
		parts = append(parts, belowHundred(thousands)+" Thousand")
	}
	v %= 1000
	if v > 0 {
		parts = append(parts, belowThousand(v))
	}
	return strings.Join(parts, " ")
}

func belowThousand(n int) string {
	if n < 100 {
		return belowHundred(n)
	}
	words := units[n/100] + " Hundred"
	if rem := n % 100; rem > 0 {
		words += " " + belowHundred(rem)
	}
	return words
}

func belowHundred(n int) string {
	if n < 20 {
		return units[n]
	}
	words := tens[n/10]
	if n%10 > 0 {
		words += " " + units[n%10]
	}
	return words
}
