package scan

import (
	"context"
	"image"
	"sync"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/oned"
	"github.com/makiuchi-d/gozxing/qrcode"
	pkgerrors "github.com/stockscan/stockscan-backend/pkg/errors"
)

// ZXingProvider acquires image-decoding captures backed by gozxing.
// It recognizes QR codes and the common 1D retail symbologies.
type ZXingProvider struct{}

// NewZXingProvider builds the default detection provider.
func NewZXingProvider() *ZXingProvider {
	return &ZXingProvider{}
}

func (p *ZXingProvider) Acquire(ctx context.Context) (Capture, error) {
	if err := ctx.Err(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeCapability, err, "acquire cancelled")
	}
	hints := map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_TRY_HARDER: true,
	}
	return &zxingCapture{
		readers: []gozxing.Reader{
			qrcode.NewQRCodeReader(),
			oned.NewMultiFormatUPCEANReader(hints),
		},
		hints: hints,
	}, nil
}

type zxingCapture struct {
	mu       sync.Mutex
	readers  []gozxing.Reader
	hints    map[gozxing.DecodeHintType]interface{}
	released bool
}

// Detect runs every reader over the frame. A reader failing to decode
// is a normal miss, not an error; the caller retries with the next frame.
func (c *zxingCapture) Detect(ctx context.Context, frame image.Image) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.released {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "capture already released")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bitmap, err := gozxing.NewBinaryBitmapFromImage(frame)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "frame is not decodable")
	}

	var values []string
	for _, reader := range c.readers {
		result, err := reader.Decode(bitmap, c.hints)
		if err != nil {
			continue
		}
		if text := result.GetText(); text != "" {
			values = append(values, text)
		}
	}
	return values, nil
}

func (c *zxingCapture) Release() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.released = true
	return nil
}
