// Package core provides money parsing and handling utilities.
//
// This file contains functions for parsing monetary amounts from user input
// and formatting them for exports and display.
package core

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// CurrencySymbol prefixes every amount shown to the user.
const CurrencySymbol = "Rs."

// ParseAmount converts a decimal string to an amount rounded to two places.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and performs
// half-up rounding on the third decimal place. The result is always positive.
// Returns a ValidationError for invalid formats, signed values, or zero amounts.
//
// Examples:
//
//	ParseAmount("12.34")  -> 12.34, nil
//	ParseAmount("12,34")  -> 12.34, nil
//	ParseAmount("12.345") -> 12.35, nil (rounds up)
//	ParseAmount("0.004")  -> error (rounds to zero)
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, &ValidationError{Field: "amount", Err: ErrInvalidAmount}
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return decimal.Zero, &ValidationError{Field: "amount", Err: ErrInvalidAmount}
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return decimal.Zero, &ValidationError{Field: "amount", Err: ErrInvalidAmount}
	}
	for _, p := range parts {
		for _, r := range p {
			if !unicode.IsDigit(r) {
				return decimal.Zero, &ValidationError{Field: "amount", Err: ErrInvalidAmount}
			}
		}
	}
	if parts[0] == "" {
		s = "0" + s
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &ValidationError{Field: "amount", Err: ErrInvalidAmount}
	}
	d = d.Round(2)
	if err := ValidateAmount(d); err != nil {
		return decimal.Zero, &ValidationError{Field: "amount", Err: err}
	}
	return d, nil
}

// ValidateAmount rejects zero and negative amounts.
func ValidateAmount(d decimal.Decimal) error {
	if !d.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

// FormatAmount renders d with two decimals, e.g. "300.00" or "-12.50".
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// FormatMoney renders d with the currency prefix, e.g. "Rs.300.00".
func FormatMoney(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-" + CurrencySymbol + d.Neg().StringFixed(2)
	}
	return CurrencySymbol + d.StringFixed(2)
}
