package controllers

import (
	"net/http"

	"github.com/stockscan/stockscan-backend/api/responses"
	catalogsvc "github.com/stockscan/stockscan-backend/internal/catalog"
	"github.com/stockscan/stockscan-backend/internal/export"
	"github.com/stockscan/stockscan-backend/internal/trade"
	pkgerrors "github.com/stockscan/stockscan-backend/pkg/errors"
	"github.com/stockscan/stockscan-backend/pkg/logger"
)

type statsView struct {
	CatalogCount int64         `json:"catalogCount"`
	Worklist     export.Totals `json:"worklist"`
}

// Stats summarizes the catalog size and the worklist totals.
func Stats(svc catalogsvc.Service, worklist *trade.Worklist, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || worklist == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "stats unavailable"))
			return
		}

		count, err := svc.Count(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, statsView{
			CatalogCount: count,
			Worklist:     export.Summarize(worklist.Items()),
		})
	}
}
