package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockscan/stockscan-backend/pkg/db/models"
	pkgerrors "github.com/stockscan/stockscan-backend/pkg/errors"
	"github.com/stockscan/stockscan-backend/pkg/logger"
	"go.uber.org/multierr"
	"gorm.io/gorm"
)

// Service exposes catalog management and lookup operations.
type Service interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error)
	ListProducts(ctx context.Context, filters ListFilters) ([]models.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*models.Product, error)
	DeleteProducts(ctx context.Context, ids []string) (int, error)
	Lookup(ctx context.Context, code string) (*models.Product, error)
	Count(ctx context.Context) (int64, error)
}

// service implements the catalog service.
type service struct {
	repo  *Repository
	cache *Cache
	log   *logger.Logger
}

// NewService constructs a catalog service instance. The cache may be nil.
func NewService(repo *Repository, cache *Cache, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo, cache: cache, log: logg}, nil
}

// CreateProduct validates and stores a new catalog record.
func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	input.Barcode = strings.TrimSpace(input.Barcode)
	input.Name = strings.TrimSpace(input.Name)
	input.Design = strings.TrimSpace(input.Design)

	if err := validateProductFields(input.Barcode, input.Name, input.Design, input.Sizes, input.Colors, input.Price); err != nil {
		return nil, err
	}

	product := &models.Product{
		ID:      uuid.New(),
		Barcode: input.Barcode,
		Name:    input.Name,
		Design:  input.Design,
		Sizes:   input.Sizes,
		Colors:  input.Colors,
		Price:   input.Price,
	}

	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "barcode already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "inserting product")
	}

	s.cache.Invalidate(ctx)
	return created, nil
}

// ListProducts returns the catalog narrowed by the provided filters.
func (s *service) ListProducts(ctx context.Context, filters ListFilters) ([]models.Product, error) {
	products, err := s.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	return applyFilters(products, filters), nil
}

// UpdateProduct applies a partial mutation to an existing record.
func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading product")
	}

	applyUpdateToProduct(product, input)

	if err := validateProductFields(product.Barcode, product.Name, product.Design, product.Sizes, product.Colors, product.Price); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateProduct(ctx, product)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "barcode already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating product")
	}

	s.cache.Invalidate(ctx)
	return updated, nil
}

// DeleteProducts removes the records for every valid id in the list.
// Invalid entries are skipped; a list with no valid ids is rejected.
func (s *service) DeleteProducts(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "ids are required")
	}

	parsed := make([]uuid.UUID, 0, len(ids))
	var parseErrs []error
	for _, raw := range ids {
		id, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil {
			parseErrs = append(parseErrs, fmt.Errorf("id %q: %w", raw, err))
			continue
		}
		parsed = append(parsed, id)
	}
	if len(parsed) == 0 {
		return 0, pkgerrors.Wrap(pkgerrors.CodeValidation, multierr.Combine(parseErrs...), "no valid ids in list")
	}
	if len(parseErrs) > 0 && s.log != nil {
		s.log.Warn(s.log.WithField(ctx, "skipped", multierr.Combine(parseErrs...).Error()), "skipping unparseable product ids")
	}

	deleted, err := s.repo.DeleteByIDs(ctx, parsed)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting products")
	}

	s.cache.Invalidate(ctx)
	return int(deleted), nil
}

// Lookup resolves a scanned or typed code against the catalog.
func (s *service) Lookup(ctx context.Context, code string) (*models.Product, error) {
	products, err := s.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	return Lookup(products, code)
}

// Count returns the catalog size.
func (s *service) Count(ctx context.Context) (int64, error) {
	count, err := s.repo.CountProducts(ctx)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "counting products")
	}
	return count, nil
}

func (s *service) loadCatalog(ctx context.Context) ([]models.Product, error) {
	if snapshot, ok := s.cache.Snapshot(ctx); ok {
		return snapshot, nil
	}
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing products")
	}
	s.cache.Store(ctx, products)
	return products, nil
}

func applyUpdateToProduct(product *models.Product, input UpdateProductInput) {
	if input.Barcode != nil {
		product.Barcode = strings.TrimSpace(*input.Barcode)
	}
	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Design != nil {
		product.Design = strings.TrimSpace(*input.Design)
	}
	if input.Sizes != nil {
		product.Sizes = append([]string(nil), (*input.Sizes)...)
	}
	if input.Colors != nil {
		product.Colors = append([]string(nil), (*input.Colors)...)
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
}

func validateProductFields(barcode, name, design string, sizes, colors []string, price decimal.Decimal) error {
	if barcode == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "barcode is required")
	}
	if name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if design == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "design is required")
	}
	if len(sizes) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one size is required")
	}
	if len(colors) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one color is required")
	}
	if price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	return nil
}
