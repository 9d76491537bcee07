package export

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/stockscan/stockscan-backend/internal/trade"
)

// Filters narrow the worklist view. Every set field must match
// (conjunction); the free-text query searches all visible fields.
type Filters struct {
	CustomerName string
	Barcode      string
	Design       string
	Size         string
	Color        string
	Query        string
}

// IsZero reports whether no filter is active.
func (f Filters) IsZero() bool {
	return f == Filters{}
}

// Apply returns the lines matching the filters. It is pure: applying
// the same filters to its own output changes nothing.
func Apply(items []trade.TradeLineItem, f Filters) []trade.TradeLineItem {
	if f.IsZero() {
		return append([]trade.TradeLineItem(nil), items...)
	}
	out := make([]trade.TradeLineItem, 0, len(items))
	for _, item := range items {
		if f.CustomerName != "" && item.CustomerName != f.CustomerName {
			continue
		}
		if f.Barcode != "" && item.Barcode != f.Barcode {
			continue
		}
		if f.Design != "" && item.Design != f.Design {
			continue
		}
		if f.Size != "" && item.SelectedSize != f.Size {
			continue
		}
		if f.Color != "" && item.SelectedColor != f.Color {
			continue
		}
		if f.Query != "" && !matchesQuery(item, f.Query) {
			continue
		}
		out = append(out, item)
	}
	return out
}

func matchesQuery(item trade.TradeLineItem, query string) bool {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return true
	}
	for _, field := range []string{
		item.CustomerName,
		item.Barcode,
		item.Design,
		item.SelectedSize,
		item.SelectedColor,
	} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// Totals summarize a filtered view.
type Totals struct {
	Items  int             `json:"items"`
	Units  int             `json:"units"`
	Amount decimal.Decimal `json:"amount"`
}

// Summarize computes the three footer totals.
func Summarize(items []trade.TradeLineItem) Totals {
	totals := Totals{Amount: decimal.Zero}
	for _, item := range items {
		totals.Items++
		totals.Units += item.Unit
		totals.Amount = totals.Amount.Add(item.Total)
	}
	return totals
}
