package render

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/adpopescu/panex-api/internal/domain/fiscal"
)

// CSVRenderer writes the production sheet the bakery floor works from.
type CSVRenderer struct{}

// NewCSVRenderer builds the renderer.
func NewCSVRenderer() *CSVRenderer { return &CSVRenderer{} }

var productionHeader = []string{
	"nr", "data", "gestiune", "cod_produs", "denumire", "lot", "um", "cantitate", "pret", "valoare",
}

// RenderProduction writes one CSV row per order line, semicolon separated the
// way the downstream import expects.
func (r *CSVRenderer) RenderProduction(date string, seq int, rows []fiscal.ProductionRow) (string, []byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = ';'

	if err := w.Write(productionHeader); err != nil {
		return "", nil, fmt.Errorf("write production header: %w", err)
	}
	for _, row := range rows {
		rec := []string{
			strconv.Itoa(row.Seq),
			row.Date,
			row.Warehouse,
			row.ProductCode,
			row.Description,
			strconv.Itoa(row.Lot),
			row.Unit,
			row.Quantity.StringFixed(3),
			row.UnitPrice.StringFixed(4),
			row.Value.StringFixed(2),
		}
		if err := w.Write(rec); err != nil {
			return "", nil, fmt.Errorf("write production row %d: %w", row.Seq, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", nil, fmt.Errorf("flush production csv: %w", err)
	}
	return exportFileName("productie", date, seq, "csv"), buf.Bytes(), nil
}
