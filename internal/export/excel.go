package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Package export holds the tabular and document export collaborators
// consumed by the download branches of the listing endpoints. Formatting
// only; all filtering and ordering happened upstream in the query pipeline.

// ContentTypeExcel is the MIME type of generated spreadsheets.
const ContentTypeExcel = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Spreadsheet renders an ordered header row plus pre-flattened data rows
// into xlsx bytes. Rows must already match the column order.
func Spreadsheet(sheet string, columns []string, rows [][]any) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if sheet == "" {
		sheet = "Sheet1"
	} else if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]any, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header row: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("resolve cell: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}
