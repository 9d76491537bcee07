package export

import (
	"bytes"
	"fmt"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/stockscan/stockscan-backend/internal/trade"
)

const sheetName = "Sheet1"

// renderXLSX mirrors the PDF layout: header row, data rows, then the
// three totals.
func renderXLSX(items []trade.TradeLineItem, totals Totals) ([]byte, error) {
	file := excelize.NewFile()

	headers := []string{"Customer", "Mobile", "Barcode", "Design", "Size", "Color", "Unit", "Price", "Total"}
	for i, header := range headers {
		file.SetCellValue(sheetName, axis(i, 1), header)
	}

	row := 2
	for _, item := range items {
		file.SetCellValue(sheetName, axis(0, row), item.CustomerName)
		file.SetCellValue(sheetName, axis(1, row), item.CustomerMobile)
		file.SetCellValue(sheetName, axis(2, row), item.Barcode)
		file.SetCellValue(sheetName, axis(3, row), item.Design)
		file.SetCellValue(sheetName, axis(4, row), item.SelectedSize)
		file.SetCellValue(sheetName, axis(5, row), item.SelectedColor)
		file.SetCellValue(sheetName, axis(6, row), item.Unit)
		file.SetCellValue(sheetName, axis(7, row), item.Price.StringFixed(2))
		file.SetCellValue(sheetName, axis(8, row), item.Total.StringFixed(2))
		row++
	}

	row++
	file.SetCellValue(sheetName, axis(0, row), "Total Items")
	file.SetCellValue(sheetName, axis(1, row), totals.Items)
	row++
	file.SetCellValue(sheetName, axis(0, row), "Total Units")
	file.SetCellValue(sheetName, axis(1, row), totals.Units)
	row++
	file.SetCellValue(sheetName, axis(0, row), "Total Amount")
	file.SetCellValue(sheetName, axis(1, row), totals.Amount.StringFixed(2))

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// axis builds an A1-style cell reference for the first 26 columns.
func axis(col, row int) string {
	return fmt.Sprintf("%c%d", 'A'+col, row)
}
