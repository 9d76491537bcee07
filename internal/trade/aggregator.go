package trade

import (
	"sync"

	"github.com/shopspring/decimal"
	"github.com/stockscan/stockscan-backend/pkg/db/models"
	pkgerrors "github.com/stockscan/stockscan-backend/pkg/errors"
)

// Draft is the pending line item being filled in for one customer.
// Catalog fields come from the matched product; the rest is typed in.
type Draft struct {
	Barcode        string          `json:"barcode"`
	Design         string          `json:"design"`
	Price          decimal.Decimal `json:"price"`
	Sizes          []string        `json:"sizes"`
	Colors         []string        `json:"colors"`
	SelectedSize   string          `json:"selectedSize"`
	SelectedColor  string          `json:"selectedColor"`
	Unit           int             `json:"unit"`
	Total          decimal.Decimal `json:"total"`
	CustomerName   string          `json:"customerName"`
	CustomerMobile string          `json:"customerMobile"`
}

// DraftUpdate carries the editable draft fields. Nil pointers leave a
// field untouched; Unit arrives as raw text from the counter.
type DraftUpdate struct {
	SelectedSize   *string
	SelectedColor  *string
	Unit           *string
	CustomerName   *string
	CustomerMobile *string
}

// Aggregator owns the single pending draft and the worklist it
// commits into.
type Aggregator struct {
	mu       sync.Mutex
	draft    *Draft
	worklist *Worklist
}

// NewAggregator builds an aggregator committing into the worklist.
func NewAggregator(worklist *Worklist) *Aggregator {
	return &Aggregator{worklist: worklist}
}

// RegisterMatch seeds a draft from a matched product. Registering the
// barcode already pending returns the existing draft unchanged; a new
// barcode replaces the draft.
func (a *Aggregator) RegisterMatch(product models.Product) Draft {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.draft != nil && a.draft.Barcode == product.Barcode {
		return *a.draft
	}
	a.draft = &Draft{
		Barcode: product.Barcode,
		Design:  product.Design,
		Price:   product.Price,
		Sizes:   append([]string(nil), product.Sizes...),
		Colors:  append([]string(nil), product.Colors...),
		Total:   decimal.Zero,
	}
	return *a.draft
}

// Draft returns the pending draft, if any.
func (a *Aggregator) Draft() (Draft, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.draft == nil {
		return Draft{}, false
	}
	return *a.draft, true
}

// UpdateDraft applies edits. The total is recomputed on every change
// so it always equals unit times price.
func (a *Aggregator) UpdateDraft(update DraftUpdate) (Draft, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.draft == nil {
		return Draft{}, pkgerrors.New(pkgerrors.CodeStateConflict, "no pending draft")
	}
	if update.SelectedSize != nil {
		a.draft.SelectedSize = *update.SelectedSize
	}
	if update.SelectedColor != nil {
		a.draft.SelectedColor = *update.SelectedColor
	}
	if update.Unit != nil {
		a.draft.Unit = ParseUnit(*update.Unit)
	}
	if update.CustomerName != nil {
		a.draft.CustomerName = *update.CustomerName
	}
	if update.CustomerMobile != nil {
		a.draft.CustomerMobile = *update.CustomerMobile
	}
	a.draft.Total = LineTotal(a.draft.Unit, a.draft.Price)
	return *a.draft, nil
}

// Commit appends a copy of the draft to the worklist, newest first,
// then clears the per-customer fields so the same product can be rung
// up again for the next customer.
func (a *Aggregator) Commit() (TradeLineItem, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.draft == nil {
		return TradeLineItem{}, pkgerrors.New(pkgerrors.CodeStateConflict, "no pending draft")
	}

	item := TradeLineItem{
		Barcode:        a.draft.Barcode,
		Design:         a.draft.Design,
		SelectedSize:   a.draft.SelectedSize,
		SelectedColor:  a.draft.SelectedColor,
		Price:          a.draft.Price,
		Unit:           a.draft.Unit,
		Total:          LineTotal(a.draft.Unit, a.draft.Price),
		CustomerName:   a.draft.CustomerName,
		CustomerMobile: a.draft.CustomerMobile,
	}
	if err := a.worklist.Prepend(item); err != nil {
		return TradeLineItem{}, err
	}

	a.draft.SelectedSize = ""
	a.draft.SelectedColor = ""
	a.draft.Unit = 0
	a.draft.Total = decimal.Zero
	a.draft.CustomerName = ""
	a.draft.CustomerMobile = ""
	return item, nil
}

// ClearDraft drops the pending draft entirely.
func (a *Aggregator) ClearDraft() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.draft = nil
}
