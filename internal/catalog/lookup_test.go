package catalog

import (
	"testing"

	"github.com/stockscan/stockscan-backend/pkg/db/models"
	pkgerrors "github.com/stockscan/stockscan-backend/pkg/errors"
)

func TestLookup(t *testing.T) {
	products := []models.Product{
		{Barcode: "ABC12345", Name: "Shirt"},
		{Barcode: "48571035", Name: "Jeans"},
		{Barcode: "ABC99999", Name: "Jacket"},
	}

	t.Run("case insensitive substring", func(t *testing.T) {
		got, err := Lookup(products, "abc123")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Barcode != "ABC12345" {
			t.Fatalf("expected ABC12345, got %s", got.Barcode)
		}
	})

	t.Run("exact match", func(t *testing.T) {
		got, err := Lookup(products, "48571035")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Name != "Jeans" {
			t.Fatalf("expected Jeans, got %s", got.Name)
		}
	})

	t.Run("first match wins on ties", func(t *testing.T) {
		got, err := Lookup(products, "ABC")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Barcode != "ABC12345" {
			t.Fatalf("expected first catalog match, got %s", got.Barcode)
		}
	})

	t.Run("miss", func(t *testing.T) {
		_, err := Lookup(products, "zzz")
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
			t.Fatalf("expected not-found error, got %v", err)
		}
	})

	t.Run("empty code rejected", func(t *testing.T) {
		_, err := Lookup(products, "   ")
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
}

func TestApplyFilters(t *testing.T) {
	products := []models.Product{
		{Barcode: "111", Name: "Shirt", Design: "Floral", Sizes: []string{"M", "L"}, Colors: []string{"Red"}},
		{Barcode: "222", Name: "Shirt", Design: "Plain", Sizes: []string{"S"}, Colors: []string{"Blue"}},
		{Barcode: "333", Name: "Jeans", Design: "Denim", Sizes: []string{"M"}, Colors: []string{"Blue"}},
	}

	t.Run("field filters are conjunctive", func(t *testing.T) {
		got := applyFilters(products, ListFilters{Name: "Shirt", Color: "Blue"})
		if len(got) != 1 || got[0].Barcode != "222" {
			t.Fatalf("expected only barcode 222, got %v", got)
		}
	})

	t.Run("size membership", func(t *testing.T) {
		got := applyFilters(products, ListFilters{Size: "M"})
		if len(got) != 2 {
			t.Fatalf("expected 2 products with size M, got %d", len(got))
		}
	})

	t.Run("free text over all fields", func(t *testing.T) {
		got := applyFilters(products, ListFilters{Query: "denim"})
		if len(got) != 1 || got[0].Barcode != "333" {
			t.Fatalf("expected denim product, got %v", got)
		}
	})

	t.Run("no filters returns everything", func(t *testing.T) {
		got := applyFilters(products, ListFilters{})
		if len(got) != len(products) {
			t.Fatalf("expected full catalog, got %d", len(got))
		}
	})
}
