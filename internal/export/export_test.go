package export

import (
	"bufio"
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stockscan/stockscan-backend/internal/trade"
	pkgerrors "github.com/stockscan/stockscan-backend/pkg/errors"
)

var exportStamp = time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

func TestParseFormat(t *testing.T) {
	for _, raw := range []string{"text", "PDF", " xlsx "} {
		if _, err := ParseFormat(raw); err != nil {
			t.Fatalf("expected %q to parse, got %v", raw, err)
		}
	}
	_, err := ParseFormat("csv")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestFilename(t *testing.T) {
	if got := Filename(FormatXLSX, exportStamp); got != "scanned-items-2026-08-31.xlsx" {
		t.Fatalf("unexpected filename %q", got)
	}
	if got := Filename(FormatText, exportStamp); got != "scanned-items-2026-08-31.txt" {
		t.Fatalf("unexpected filename %q", got)
	}
}

func TestRenderEmptyViewRejected(t *testing.T) {
	_, err := Render(nil, Filters{}, FormatText, exportStamp)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	// non-empty worklist, empty filtered view
	_, err = Render(sampleWorklist(), Filters{CustomerName: "Nobody"}, FormatText, exportStamp)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRenderText(t *testing.T) {
	artifact, err := Render(sampleWorklist(), Filters{}, FormatText, exportStamp)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if artifact.ContentType != "text/plain; charset=utf-8" {
		t.Fatalf("unexpected content type %q", artifact.ContentType)
	}

	scanner := bufio.NewScanner(bytes.NewReader(artifact.Data))
	lines := 0
	for scanner.Scan() {
		var item trade.TradeLineItem
		if err := json.Unmarshal(scanner.Bytes(), &item); err != nil {
			t.Fatalf("line %d is not a JSON record: %v", lines+1, err)
		}
		lines++
	}
	if lines != 3 {
		t.Fatalf("expected one record per worklist line, got %d", lines)
	}
}

func TestRenderPDF(t *testing.T) {
	artifact, err := Render(sampleWorklist(), Filters{}, FormatPDF, exportStamp)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !bytes.HasPrefix(artifact.Data, []byte("%PDF")) {
		t.Fatal("expected a PDF document")
	}
	if artifact.Filename != "scanned-items-2026-08-31.pdf" {
		t.Fatalf("unexpected filename %q", artifact.Filename)
	}
}

func TestRenderXLSX(t *testing.T) {
	artifact, err := Render(sampleWorklist(), Filters{}, FormatXLSX, exportStamp)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !bytes.HasPrefix(artifact.Data, []byte("PK")) {
		t.Fatal("expected a zip-based workbook")
	}
}

func TestRenderRespectsFilters(t *testing.T) {
	artifact, err := Render(sampleWorklist(), Filters{CustomerName: "Ravi"}, FormatText, exportStamp)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if count := bytes.Count(artifact.Data, []byte("\n")); count != 1 {
		t.Fatalf("expected a single exported record, got %d", count)
	}
}
