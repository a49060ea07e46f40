package ingest

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"diaquant/domain/frame"
)

// ReadXLSX loads the first sheet of a workbook export.
func ReadXLSX(path string) (*frame.Frame, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return BuildFrame(rows)
}
