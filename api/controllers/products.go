package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockscan/stockscan-backend/api/responses"
	"github.com/stockscan/stockscan-backend/api/validators"
	catalogsvc "github.com/stockscan/stockscan-backend/internal/catalog"
	pkgerrors "github.com/stockscan/stockscan-backend/pkg/errors"
	"github.com/stockscan/stockscan-backend/pkg/logger"
)

// CreateProduct handles product registration.
func CreateProduct(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), payload.toCreateInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

type createProductRequest struct {
	Barcode string          `json:"barcode" validate:"required"`
	Name    string          `json:"name" validate:"required"`
	Design  string          `json:"design" validate:"required"`
	Sizes   []string        `json:"sizes" validate:"required,min=1,dive,required"`
	Colors  []string        `json:"colors" validate:"required,min=1,dive,required"`
	Price   decimal.Decimal `json:"price"`
}

func (r createProductRequest) toCreateInput() catalogsvc.CreateProductInput {
	return catalogsvc.CreateProductInput{
		Barcode: strings.TrimSpace(r.Barcode),
		Name:    strings.TrimSpace(r.Name),
		Design:  strings.TrimSpace(r.Design),
		Sizes:   r.Sizes,
		Colors:  r.Colors,
		Price:   r.Price,
	}
}

// ListProducts returns the catalog narrowed by the query filters.
func ListProducts(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		query := r.URL.Query()
		filters := catalogsvc.ListFilters{
			Name:   validators.SanitizeString(query.Get("name"), 120),
			Design: validators.SanitizeString(query.Get("design"), 120),
			Size:   validators.SanitizeString(query.Get("size"), 40),
			Color:  validators.SanitizeString(query.Get("color"), 40),
			Query:  validators.SanitizeString(query.Get("q"), 120),
		}

		products, err := svc.ListProducts(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, products)
	}
}

// UpdateProduct applies a partial update to a product.
func UpdateProduct(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.UpdateProduct(r.Context(), id, payload.toUpdateInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

type updateProductRequest struct {
	Barcode *string          `json:"barcode,omitempty"`
	Name    *string          `json:"name,omitempty"`
	Design  *string          `json:"design,omitempty"`
	Sizes   *[]string        `json:"sizes,omitempty" validate:"omitempty,min=1,dive,required"`
	Colors  *[]string        `json:"colors,omitempty" validate:"omitempty,min=1,dive,required"`
	Price   *decimal.Decimal `json:"price,omitempty"`
}

func (r updateProductRequest) toUpdateInput() catalogsvc.UpdateProductInput {
	return catalogsvc.UpdateProductInput{
		Barcode: r.Barcode,
		Name:    r.Name,
		Design:  r.Design,
		Sizes:   r.Sizes,
		Colors:  r.Colors,
		Price:   r.Price,
	}
}

// DeleteProducts removes the products named in the payload and reports
// how many rows were actually deleted.
func DeleteProducts(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload deleteProductsRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		deleted, err := svc.DeleteProducts(r.Context(), payload.IDs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]int{"deleted": deleted})
	}
}

type deleteProductsRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,required"`
}

// LookupProduct resolves a scanned or typed code to a catalog product.
func LookupProduct(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		code := validators.SanitizeString(r.URL.Query().Get("code"), 120)
		product, err := svc.Lookup(r.Context(), code)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}
