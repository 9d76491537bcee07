package catalog

import (
	"strings"

	"github.com/stockscan/stockscan-backend/pkg/db/models"
	pkgerrors "github.com/stockscan/stockscan-backend/pkg/errors"
)

// Lookup returns the first product whose barcode contains code,
// compared case-insensitively. Partial codes are accepted so damaged
// labels still resolve.
func Lookup(products []models.Product, code string) (*models.Product, error) {
	needle := strings.ToLower(strings.TrimSpace(code))
	if needle == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "lookup code is required")
	}
	for i := range products {
		if strings.Contains(strings.ToLower(products[i].Barcode), needle) {
			return &products[i], nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no product matches code")
}

// applyFilters narrows the catalog the same way the worklist view does:
// per-field equality (sizes/colors as membership) plus a free-text
// substring over every visible field.
func applyFilters(products []models.Product, filters ListFilters) []models.Product {
	if filters.IsZero() {
		return products
	}
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if filters.Name != "" && p.Name != filters.Name {
			continue
		}
		if filters.Design != "" && p.Design != filters.Design {
			continue
		}
		if filters.Size != "" && !containsString(p.Sizes, filters.Size) {
			continue
		}
		if filters.Color != "" && !containsString(p.Colors, filters.Color) {
			continue
		}
		if filters.Query != "" && !matchesQuery(p, filters.Query) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func containsString(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}

func matchesQuery(p models.Product, query string) bool {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return true
	}
	haystack := []string{p.Name, p.Barcode, p.Design}
	haystack = append(haystack, p.Sizes...)
	haystack = append(haystack, p.Colors...)
	for _, field := range haystack {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}
