package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/stockscan/stockscan-backend/api/responses"
	"github.com/stockscan/stockscan-backend/api/validators"
	catalogsvc "github.com/stockscan/stockscan-backend/internal/catalog"
	"github.com/stockscan/stockscan-backend/internal/export"
	"github.com/stockscan/stockscan-backend/internal/trade"
	pkgerrors "github.com/stockscan/stockscan-backend/pkg/errors"
	"github.com/stockscan/stockscan-backend/pkg/logger"
)

type worklistView struct {
	Items  []trade.TradeLineItem `json:"items"`
	Totals export.Totals         `json:"totals"`
}

// GetWorklist returns the filtered worklist together with its totals.
// Totals always describe the visible rows, not the whole list.
func GetWorklist(worklist *trade.Worklist, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if worklist == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "worklist unavailable"))
			return
		}

		visible := export.Apply(worklist.Items(), filtersFromQuery(r))
		responses.WriteSuccess(w, worklistView{
			Items:  visible,
			Totals: export.Summarize(visible),
		})
	}
}

// CommitTradeLine resolves the scanned code, folds the edits into the
// pending draft and commits it onto the worklist head.
func CommitTradeLine(svc catalogsvc.Service, agg *trade.Aggregator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || agg == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "trade aggregator unavailable"))
			return
		}

		var payload commitTradeLineRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Lookup(r.Context(), payload.Code)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		agg.RegisterMatch(*product)
		if _, err := agg.UpdateDraft(payload.toDraftUpdate()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := agg.Commit()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

type commitTradeLineRequest struct {
	Code           string  `json:"code" validate:"required"`
	SelectedSize   *string `json:"selectedSize,omitempty"`
	SelectedColor  *string `json:"selectedColor,omitempty"`
	Unit           *string `json:"unit,omitempty"`
	CustomerName   *string `json:"customerName,omitempty"`
	CustomerMobile *string `json:"customerMobile,omitempty"`
}

func (r commitTradeLineRequest) toDraftUpdate() trade.DraftUpdate {
	return trade.DraftUpdate{
		SelectedSize:   r.SelectedSize,
		SelectedColor:  r.SelectedColor,
		Unit:           r.Unit,
		CustomerName:   r.CustomerName,
		CustomerMobile: r.CustomerMobile,
	}
}

// RemoveWorklistItem deletes a single line by its current position.
func RemoveWorklistItem(worklist *trade.Worklist, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if worklist == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "worklist unavailable"))
			return
		}

		index, err := strconv.Atoi(chi.URLParam(r, "index"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "index must be numeric"))
			return
		}

		if err := worklist.RemoveAt(index); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// ClearWorklist arms the confirmation gate for a bulk delete. Nothing
// is removed until the confirm endpoint answers yes.
func ClearWorklist(worklist *trade.Worklist, gate *trade.Gate, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if worklist == nil || gate == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "worklist unavailable"))
			return
		}

		var payload clearWorklistRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if worklist.Len() == 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "worklist is empty"))
			return
		}

		label := "all items"
		if len(payload.Indices) > 0 {
			indices := payload.Indices
			label = fmt.Sprintf("%d selected items", len(indices))
			gate.Arm(label, func() error { return worklist.RemoveSelected(indices) })
		} else {
			gate.Arm(label, worklist.RemoveAll)
		}

		responses.WriteSuccess(w, map[string]string{"awaiting": label})
	}
}

type clearWorklistRequest struct {
	Indices []int `json:"indices,omitempty"`
}

// ConfirmClearWorklist resolves the armed gate. "yes" runs the pending
// delete exactly once; "cancel" discards it.
func ConfirmClearWorklist(worklist *trade.Worklist, gate *trade.Gate, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if worklist == nil || gate == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "worklist unavailable"))
			return
		}

		var payload confirmClearRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if payload.Answer == "cancel" {
			gate.Cancel()
			responses.WriteSuccess(w, map[string]any{"status": "cancelled", "remaining": worklist.Len()})
			return
		}

		if err := gate.Confirm(); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"status": "cleared", "remaining": worklist.Len()})
	}
}

type confirmClearRequest struct {
	Answer string `json:"answer" validate:"required,oneof=yes cancel"`
}

// WorklistFilterOptions returns the distinct values present on the
// worklist, for populating filter dropdowns.
func WorklistFilterOptions(worklist *trade.Worklist, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if worklist == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "worklist unavailable"))
			return
		}

		responses.WriteSuccess(w, worklist.Options())
	}
}

func filtersFromQuery(r *http.Request) export.Filters {
	query := r.URL.Query()
	return export.Filters{
		CustomerName: validators.SanitizeString(query.Get("customer"), 120),
		Barcode:      validators.SanitizeString(query.Get("barcode"), 120),
		Design:       validators.SanitizeString(query.Get("design"), 120),
		Size:         validators.SanitizeString(query.Get("size"), 40),
		Color:        validators.SanitizeString(query.Get("color"), 40),
		Query:        validators.SanitizeString(query.Get("q"), 120),
	}
}
