package routes

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockscan/stockscan-backend/api/controllers"
	catalogsvc "github.com/stockscan/stockscan-backend/internal/catalog"
	"github.com/stockscan/stockscan-backend/internal/scan"
	"github.com/stockscan/stockscan-backend/internal/trade"
	"github.com/stockscan/stockscan-backend/pkg/config"
	"github.com/stockscan/stockscan-backend/pkg/db/models"
	"github.com/stockscan/stockscan-backend/pkg/logger"
)

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

type stubCatalogService struct{}

func (stubCatalogService) CreateProduct(ctx context.Context, input catalogsvc.CreateProductInput) (*models.Product, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubCatalogService) ListProducts(ctx context.Context, filters catalogsvc.ListFilters) ([]models.Product, error) {
	return []models.Product{}, nil
}

func (stubCatalogService) UpdateProduct(ctx context.Context, id uuid.UUID, input catalogsvc.UpdateProductInput) (*models.Product, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubCatalogService) DeleteProducts(ctx context.Context, ids []string) (int, error) {
	return 0, nil
}

func (stubCatalogService) Lookup(ctx context.Context, code string) (*models.Product, error) {
	return &models.Product{
		ID:      uuid.New(),
		Barcode: "48571035",
		Name:    "Jeans",
		Design:  "Denim",
		Sizes:   []string{"M"},
		Colors:  []string{"Blue"},
		Price:   decimal.NewFromInt(100),
	}, nil
}

func (stubCatalogService) Count(ctx context.Context) (int64, error) {
	return 0, nil
}

func newTestRouter(t *testing.T, deps map[string]controllers.Pinger) http.Handler {
	t.Helper()

	logg := logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
	cfg := &config.Config{}
	cfg.App.Env = "test"

	worklist, err := trade.NewWorklist(nil)
	if err != nil {
		t.Fatalf("new worklist: %v", err)
	}
	aggregator := trade.NewAggregator(worklist)

	scanManager := scan.NewManager(scan.UnavailableProvider{Reason: "no capture device"}, scan.NewManualScheduler(), logg, scan.Options{})
	t.Cleanup(scanManager.Shutdown)

	return NewRouter(cfg, logg, deps, stubCatalogService{}, scanManager, aggregator, worklist, &trade.Gate{}, nil, nil)
}

func TestRouterHealthEndpoints(t *testing.T) {
	t.Run("live", func(t *testing.T) {
		router := newTestRouter(t, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if env := rec.Header().Get("X-StockScan-Env"); env != "test" {
			t.Fatalf("unexpected env header %q", env)
		}
	})

	t.Run("ready with healthy deps", func(t *testing.T) {
		router := newTestRouter(t, map[string]controllers.Pinger{"db": stubPinger{}})
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("ready with failing dep", func(t *testing.T) {
		router := newTestRouter(t, map[string]controllers.Pinger{"db": stubPinger{err: fmt.Errorf("down")}})
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d", rec.Code)
		}
	})
}

func TestRouterWiresAPIRoutes(t *testing.T) {
	router := newTestRouter(t, nil)

	cases := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/api/v1/products", http.StatusOK},
		{http.MethodGet, "/api/v1/catalog/lookup?code=48571035", http.StatusOK},
		{http.MethodGet, "/api/v1/worklist", http.StatusOK},
		{http.MethodGet, "/api/v1/worklist/filters", http.StatusOK},
		{http.MethodGet, "/api/v1/stats", http.StatusOK},
		{http.MethodGet, "/api/v1/nope", http.StatusNotFound},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		if rec.Code != tc.status {
			t.Fatalf("%s %s: expected %d, got %d", tc.method, tc.path, tc.status, rec.Code)
		}
	}
}

func TestRouterScanSessionFallsBackToManual(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/scan/sessions", nil))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouterSetsRequestID(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if rec.Header().Get("X-Request-Id") == "" {
		t.Fatal("expected a generated request id")
	}
}
