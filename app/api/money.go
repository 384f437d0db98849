package api

import "github.com/shopspring/decimal"

// FormatPrice renders an amount in minor units as a two-decimal string.
func FormatPrice(minor int64) string {
	return decimal.New(minor, -2).StringFixed(2)
}
