package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/stockscan/stockscan-backend/api/responses"
	"github.com/stockscan/stockscan-backend/internal/export"
	"github.com/stockscan/stockscan-backend/internal/trade"
	pkgerrors "github.com/stockscan/stockscan-backend/pkg/errors"
	"github.com/stockscan/stockscan-backend/pkg/logger"
)

// ExportWorklist streams the filtered worklist as a text, PDF or XLSX
// attachment. The filters mirror the worklist view so what you see is
// what you export.
func ExportWorklist(worklist *trade.Worklist, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if worklist == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "worklist unavailable"))
			return
		}

		format, err := export.ParseFormat(r.URL.Query().Get("format"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		artifact, err := export.Render(worklist.Items(), filtersFromQuery(r), format, time.Now().UTC())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set("Content-Type", artifact.ContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.Filename))
		w.Header().Set("Content-Length", strconv.Itoa(len(artifact.Data)))
		w.WriteHeader(http.StatusOK)
		w.Write(artifact.Data)
	}
}
