package trade

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// TradeLineItem is one worklist row: a matched product plus the
// per-customer selections made at the counter.
type TradeLineItem struct {
	Barcode        string          `json:"barcode"`
	Design         string          `json:"design"`
	SelectedSize   string          `json:"selectedSize"`
	SelectedColor  string          `json:"selectedColor"`
	Price          decimal.Decimal `json:"price"`
	Unit           int             `json:"unit"`
	Total          decimal.Decimal `json:"total"`
	CustomerName   string          `json:"customerName"`
	CustomerMobile string          `json:"customerMobile"`
}

// ParseUnit coerces raw counter input to a usable unit count.
// Non-numeric and negative input both read as zero.
func ParseUnit(raw string) int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || value < 0 {
		return 0
	}
	return value
}

// LineTotal computes unit times price.
func LineTotal(unit int, price decimal.Decimal) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(unit)))
}
