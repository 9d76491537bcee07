package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockscan/stockscan-backend/pkg/db/models"
)

func seedProduct(t *testing.T, repo *Repository, barcode, name string) *models.Product {
	t.Helper()
	product, err := repo.CreateProduct(context.Background(), &models.Product{
		ID:      uuid.New(),
		Barcode: barcode,
		Name:    name,
		Design:  "Denim",
		Sizes:   []string{"M", "L"},
		Colors:  []string{"Blue"},
		Price:   decimal.NewFromInt(100),
	})
	require.NoError(t, err)
	return product
}

func TestRepositoryRoundTrip(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()

	first := seedProduct(t, repo, "48571035", "Jeans")
	second := seedProduct(t, repo, "90114427", "Shirt")

	found, err := repo.FindByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "48571035", found.Barcode)
	assert.Equal(t, []string{"M", "L"}, found.Sizes)
	assert.True(t, found.Price.Equal(decimal.NewFromInt(100)))
	assert.False(t, found.Date.IsZero())

	products, err := repo.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)

	count, err := repo.CountProducts(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	deleted, err := repo.DeleteByIDs(ctx, []uuid.UUID{first.ID, second.ID, uuid.New()})
	require.NoError(t, err)
	assert.EqualValues(t, 2, deleted)

	count, err = repo.CountProducts(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestRepositoryUpdatePersists(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()

	product := seedProduct(t, repo, "48571035", "Jeans")
	product.Name = "Slim Jeans"
	product.Price = decimal.NewFromInt(120)

	updated, err := repo.UpdateProduct(ctx, product)
	require.NoError(t, err)
	assert.True(t, updated.UpdatedAt.After(time.Time{}))

	found, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Slim Jeans", found.Name)
	assert.True(t, found.Price.Equal(decimal.NewFromInt(120)))
}

func TestRepositoryDuplicateBarcode(t *testing.T) {
	repo := NewRepository(openTestDB(t))

	seedProduct(t, repo, "48571035", "Jeans")
	_, err := repo.CreateProduct(context.Background(), &models.Product{
		ID:      uuid.New(),
		Barcode: "48571035",
		Name:    "Other",
		Design:  "Denim",
		Sizes:   []string{"S"},
		Colors:  []string{"Red"},
		Price:   decimal.NewFromInt(50),
	})
	require.Error(t, err)
}
