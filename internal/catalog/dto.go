package catalog

import "github.com/shopspring/decimal"

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Barcode string
	Name    string
	Design  string
	Sizes   []string
	Colors  []string
	Price   decimal.Decimal
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Barcode *string
	Name    *string
	Design  *string
	Sizes   *[]string
	Colors  *[]string
	Price   *decimal.Decimal
}

// ListFilters narrows the catalog view. Empty fields apply no constraint.
type ListFilters struct {
	Name   string
	Design string
	Size   string
	Color  string
	Query  string
}

// IsZero reports whether no filter is active.
func (f ListFilters) IsZero() bool {
	return f.Name == "" && f.Design == "" && f.Size == "" && f.Color == "" && f.Query == ""
}
