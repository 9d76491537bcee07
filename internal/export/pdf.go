package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf/v2"
	"github.com/stockscan/stockscan-backend/internal/trade"
)

// renderPDF lays the worklist out as a bordered table with a header
// row and the three totals below it.
func renderPDF(items []trade.TradeLineItem, totals Totals, now time.Time) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(277, 10, "Scanned Items", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(277, 6, fmt.Sprintf("Generated: %s", now.Format("02-Jan-2006 03:04 PM")), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	widths := []float64{45, 35, 35, 35, 25, 25, 20, 27, 30}
	headers := []string{"Customer", "Mobile", "Barcode", "Design", "Size", "Color", "Unit", "Price", "Total"}

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	for i, header := range headers {
		pdf.CellFormat(widths[i], 7, header, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for _, item := range items {
		cells := []string{
			item.CustomerName,
			item.CustomerMobile,
			item.Barcode,
			item.Design,
			item.SelectedSize,
			item.SelectedColor,
			fmt.Sprintf("%d", item.Unit),
			item.Price.StringFixed(2),
			item.Total.StringFixed(2),
		}
		for i, cell := range cells {
			align := "L"
			if i >= 6 {
				align = "R"
			}
			pdf.CellFormat(widths[i], 6, cell, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(92, 8, fmt.Sprintf("Total Items: %d", totals.Items), "1", 0, "C", false, 0, "")
	pdf.CellFormat(92, 8, fmt.Sprintf("Total Units: %d", totals.Units), "1", 0, "C", false, 0, "")
	pdf.CellFormat(93, 8, fmt.Sprintf("Total Amount: %s", totals.Amount.StringFixed(2)), "1", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
