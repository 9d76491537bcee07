package trade

import (
	"encoding/json"
	"sort"
	"sync"

	pkgerrors "github.com/stockscan/stockscan-backend/pkg/errors"
)

// Persister stores the worklist document wholesale. Satisfied by
// pkg/localstore.Store; nil disables persistence.
type Persister interface {
	Save(data []byte) error
	Load() ([]byte, error)
}

// Worklist holds the committed trade lines, newest first, and mirrors
// every mutation into the local store.
type Worklist struct {
	mu    sync.Mutex
	items []TradeLineItem
	store Persister
}

// NewWorklist builds a worklist hydrated from the store.
func NewWorklist(store Persister) (*Worklist, error) {
	w := &Worklist{store: store}
	if store == nil {
		return w, nil
	}
	raw, err := store.Load()
	if err != nil {
		return nil, err
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &w.items); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "worklist document corrupt")
		}
	}
	return w, nil
}

// Items returns a copy of the worklist.
func (w *Worklist) Items() []TradeLineItem {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]TradeLineItem(nil), w.items...)
}

// Len returns the number of committed lines.
func (w *Worklist) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.items)
}

// Prepend inserts the item at the head so the newest line shows first.
func (w *Worklist) Prepend(item TradeLineItem) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.items = append([]TradeLineItem{item}, w.items...)
	return w.persistLocked()
}

// RemoveAt deletes one line by position.
func (w *Worklist) RemoveAt(index int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if index < 0 || index >= len(w.items) {
		return pkgerrors.New(pkgerrors.CodeValidation, "index out of range")
	}
	w.items = append(w.items[:index], w.items[index+1:]...)
	return w.persistLocked()
}

// RemoveSelected deletes the given positions. Out-of-range and
// duplicate indices are ignored.
func (w *Worklist) RemoveSelected(indices []int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(indices) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "indices are required")
	}

	drop := make(map[int]struct{}, len(indices))
	for _, i := range indices {
		if i >= 0 && i < len(w.items) {
			drop[i] = struct{}{}
		}
	}
	if len(drop) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "no valid indices in list")
	}

	kept := make([]TradeLineItem, 0, len(w.items)-len(drop))
	for i, item := range w.items {
		if _, gone := drop[i]; !gone {
			kept = append(kept, item)
		}
	}
	w.items = kept
	return w.persistLocked()
}

// RemoveAll empties the worklist.
func (w *Worklist) RemoveAll() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.items = nil
	return w.persistLocked()
}

// persistLocked overwrites the stored document with the full list.
func (w *Worklist) persistLocked() error {
	if w.store == nil {
		return nil
	}
	raw, err := json.Marshal(w.items)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding worklist")
	}
	if err := w.store.Save(raw); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persisting worklist")
	}
	return nil
}

// FilterOptions are the distinct values present in the worklist, used
// to build filter dropdowns.
type FilterOptions struct {
	Names    []string `json:"names"`
	Barcodes []string `json:"barcodes"`
	Designs  []string `json:"designs"`
	Sizes    []string `json:"sizes"`
	Colors   []string `json:"colors"`
}

// Options collects the distinct filterable values, sorted.
func (w *Worklist) Options() FilterOptions {
	items := w.Items()
	names := map[string]struct{}{}
	barcodes := map[string]struct{}{}
	designs := map[string]struct{}{}
	sizes := map[string]struct{}{}
	colors := map[string]struct{}{}
	for _, item := range items {
		add(names, item.CustomerName)
		add(barcodes, item.Barcode)
		add(designs, item.Design)
		add(sizes, item.SelectedSize)
		add(colors, item.SelectedColor)
	}
	return FilterOptions{
		Names:    sorted(names),
		Barcodes: sorted(barcodes),
		Designs:  sorted(designs),
		Sizes:    sorted(sizes),
		Colors:   sorted(colors),
	}
}

func add(set map[string]struct{}, value string) {
	if value != "" {
		set[value] = struct{}{}
	}
}

func sorted(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
