package scan

import (
	"context"
	"image"

	pkgerrors "github.com/stockscan/stockscan-backend/pkg/errors"
)

// Capture is an acquired detection capability. Detect runs one pass
// over a frame; Release must be called when the capture is done.
type Capture interface {
	Detect(ctx context.Context, frame image.Image) ([]string, error)
	Release() error
}

// CapabilityProvider hands out captures. Acquisition can fail on hosts
// without a detection backend; sessions fall back to manual entry.
type CapabilityProvider interface {
	Acquire(ctx context.Context) (Capture, error)
}

// UnavailableProvider always fails acquisition with the given reason.
type UnavailableProvider struct {
	Reason string
}

func (p UnavailableProvider) Acquire(ctx context.Context) (Capture, error) {
	reason := p.Reason
	if reason == "" {
		reason = "no detection backend on this host"
	}
	return nil, pkgerrors.New(pkgerrors.CodeCapability, reason)
}
