package trade

import (
	"sync"

	pkgerrors "github.com/stockscan/stockscan-backend/pkg/errors"
)

// Gate guards destructive worklist operations behind an explicit
// confirmation. Arming stores the operation; Confirm executes it
// exactly once; Cancel disarms without effect. A stray Confirm with
// nothing armed is a state conflict, not a repeat execution.
type Gate struct {
	mu      sync.Mutex
	pending func() error
	label   string
}

// Arm stages the operation, replacing whatever was armed before.
func (g *Gate) Arm(label string, op func() error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pending = op
	g.label = label
}

// Armed reports whether an operation is staged and its label.
func (g *Gate) Armed() (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.label, g.pending != nil
}

// Cancel disarms the gate. The staged operation never runs.
func (g *Gate) Cancel() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pending = nil
	g.label = ""
}

// Confirm runs the staged operation and disarms the gate before
// executing, so re-entrant or repeated confirms cannot run it twice.
func (g *Gate) Confirm() error {
	g.mu.Lock()
	op := g.pending
	g.pending = nil
	g.label = ""
	g.mu.Unlock()

	if op == nil {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "nothing awaiting confirmation")
	}
	return op()
}
