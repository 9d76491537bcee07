package export

import (
	"bytes"
	"encoding/json"

	"github.com/stockscan/stockscan-backend/internal/trade"
)

// renderText writes one JSON record per line.
func renderText(items []trade.TradeLineItem) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, item := range items {
		if err := enc.Encode(item); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}
