// Package ingest is the surrounding glue that loads a quantification
// export into a typed frame. The core never parses files itself; it
// consumes the frame this package produces. Tab-delimited text and XLSX
// workbooks are supported.
package ingest

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"diaquant/domain/dataset"
	"diaquant/domain/frame"
)

// ReadFile loads a TSV or XLSX export based on the file extension.
func ReadFile(path string) (*frame.Frame, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return ReadXLSX(path)
	}
	return ReadTSV(path)
}

// ReadTSV loads a tab-delimited export with a header row.
func ReadTSV(path string) (*frame.Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = '\t'
	reader.LazyQuotes = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return BuildFrame(records)
}

// BuildFrame converts header+rows into a typed frame. The identifier and
// metadata columns keep their declared types; every other column is
// numeric, with empty, "NaN" and "Filtered" cells treated as missing.
func BuildFrame(records [][]string) (*frame.Frame, error) {
	if len(records) < 1 {
		return nil, fmt.Errorf("input has no header row")
	}
	header := records[0]
	rows := records[1:]

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}
	for _, required := range dataset.RequiredColumns {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("required column %q missing from input", required)
		}
	}

	stringCols := map[string]bool{
		dataset.ColProteinGroups: true,
		dataset.ColGenes:         true,
		dataset.ColOrganisms:     true,
	}

	columns := make([]frame.Column, 0, len(header))
	for c, name := range header {
		switch {
		case stringCols[name]:
			values := make([]string, len(rows))
			for r, row := range rows {
				values[r] = cell(row, c)
			}
			columns = append(columns, frame.StringColumn(name, values))
		case name == dataset.ColIsDecoy:
			values := make([]bool, len(rows))
			for r, row := range rows {
				b, err := parseBool(cell(row, c))
				if err != nil {
					return nil, fmt.Errorf("row %d, column %q: %w", r+2, name, err)
				}
				values[r] = b
			}
			columns = append(columns, frame.BoolColumn(name, values))
		default:
			values := make([]float64, len(rows))
			for r, row := range rows {
				values[r] = parseNumber(cell(row, c))
			}
			columns = append(columns, frame.NumericColumn(name, values))
		}
	}
	return frame.New(columns...)
}

func cell(row []string, c int) string {
	if c >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[c])
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "true", "1":
		return true, nil
	case "false", "0", "":
		// The decoy flag is never null after ingestion; an empty cell
		// means the entry is a real measurement.
		return false, nil
	default:
		return false, fmt.Errorf("cannot parse %q as decoy flag", s)
	}
}

func parseNumber(s string) float64 {
	if s == "" || strings.EqualFold(s, "nan") || strings.EqualFold(s, "filtered") || s == "#N/A" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
