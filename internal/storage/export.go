package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"

	"github.com/san-kum/fizz/internal/metrics"
)

type ExportData struct {
	Run     RunMetadata `json:"run"`
	Columns []string    `json:"columns"`
	Rows    [][]float64 `json:"rows"`
}

// ExportJSON writes a run's metadata and diagnostics as one JSON document.
func ExportJSON(w io.Writer, meta *RunMetadata, rows []metrics.Row) error {
	data := ExportData{
		Run:     *meta,
		Columns: metrics.Columns,
		Rows:    make([][]float64, len(rows)),
	}
	for i, r := range rows {
		data.Rows[i] = r.Values()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// ExportCSV writes the diagnostics rows with a header.
func ExportCSV(w io.Writer, rows []metrics.Row) error {
	return WriteDiagnostics(csv.NewWriter(w), rows)
}
