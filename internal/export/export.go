package export

import (
	"strings"
	"time"

	"github.com/stockscan/stockscan-backend/internal/trade"
	pkgerrors "github.com/stockscan/stockscan-backend/pkg/errors"
)

// Format selects the artifact type.
type Format string

const (
	FormatText Format = "text"
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
)

// ParseFormat validates a user-supplied format string.
func ParseFormat(raw string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(raw))) {
	case FormatText:
		return FormatText, nil
	case FormatPDF:
		return FormatPDF, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", pkgerrors.New(pkgerrors.CodeValidation, "format must be text, pdf or xlsx")
	}
}

func (f Format) extension() string {
	switch f {
	case FormatText:
		return "txt"
	case FormatPDF:
		return "pdf"
	default:
		return "xlsx"
	}
}

func (f Format) contentType() string {
	switch f {
	case FormatText:
		return "text/plain; charset=utf-8"
	case FormatPDF:
		return "application/pdf"
	default:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
}

// Filename stamps the artifact with the export date.
func Filename(format Format, now time.Time) string {
	return "scanned-items-" + now.Format("2006-01-02") + "." + format.extension()
}

// Artifact is a rendered export ready to stream to the client.
type Artifact struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Render filters the worklist and produces the requested artifact.
// An empty filtered view is rejected; no artifact is produced.
func Render(items []trade.TradeLineItem, filters Filters, format Format, now time.Time) (*Artifact, error) {
	view := Apply(items, filters)
	if len(view) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "nothing to export for the current view")
	}
	totals := Summarize(view)

	var (
		data []byte
		err  error
	)
	switch format {
	case FormatText:
		data, err = renderText(view)
	case FormatPDF:
		data, err = renderPDF(view, totals, now)
	case FormatXLSX:
		data, err = renderXLSX(view, totals)
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported format")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rendering export")
	}

	return &Artifact{
		Filename:    Filename(format, now),
		ContentType: format.contentType(),
		Data:        data,
	}, nil
}
