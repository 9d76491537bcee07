package trade

import (
	"testing"

	pkgerrors "github.com/stockscan/stockscan-backend/pkg/errors"
)

func TestGateConfirmExecutesOnce(t *testing.T) {
	var runs int
	gate := &Gate{}
	gate.Arm("clear-all", func() error { runs++; return nil })

	if err := gate.Confirm(); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if runs != 1 {
		t.Fatalf("expected one execution, got %d", runs)
	}

	err := gate.Confirm()
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("stray confirm must be a state conflict, got %v", err)
	}
	if runs != 1 {
		t.Fatalf("stray confirm must not re-run, got %d", runs)
	}
}

func TestGateCancelHasNoEffect(t *testing.T) {
	var runs int
	gate := &Gate{}
	gate.Arm("clear-all", func() error { runs++; return nil })
	gate.Cancel()

	if runs != 0 {
		t.Fatal("cancel must never execute the operation")
	}
	if _, armed := gate.Armed(); armed {
		t.Fatal("cancel must disarm the gate")
	}
	if err := gate.Confirm(); err == nil {
		t.Fatal("confirm after cancel must be a state conflict")
	}
}

func TestGateRearmReplacesPending(t *testing.T) {
	var first, second int
	gate := &Gate{}
	gate.Arm("clear-selected", func() error { first++; return nil })
	gate.Arm("clear-all", func() error { second++; return nil })

	label, armed := gate.Armed()
	if !armed || label != "clear-all" {
		t.Fatalf("expected clear-all armed, got %q armed=%v", label, armed)
	}
	if err := gate.Confirm(); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if first != 0 || second != 1 {
		t.Fatalf("only the latest armed operation may run, got first=%d second=%d", first, second)
	}
}
