package dto

import (
	"strings"

	"github.com/shopspring/decimal"
)

// currencyExponents maps ISO currency codes to their minor-unit exponent.
// Unlisted currencies default to 2.
var currencyExponents = map[string]int32{
	"KRW": 0,
	"JPY": 0,
	"USD": 2,
	"EUR": 2,
}

// MajorUnits renders an amount in minor units as a major-unit decimal string
// for display, e.g. 12345 USD -> "123.45", 12345 KRW -> "12345".
func MajorUnits(minor int64, currency string) string {
	exp, ok := currencyExponents[strings.ToUpper(currency)]
	if !ok {
		exp = 2
	}
	return decimal.New(minor, -exp).StringFixed(exp)
}
