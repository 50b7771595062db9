package importer

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const templateSheet = "Agencies"

// exampleRow seeds the template so operators see the expected shapes.
var exampleRow = []string{
	"Apex Staffing Partners",
	"contact@apexstaffing.example",
	"+15551234567",
	"https://apexstaffing.example",
	"Denver",
	"CO",
	"electrical, plumbing",
	"11-50",
	"LIC-048821",
	"Regional skilled-trades staffing agency.",
}

// BuildTemplateXLSX renders the downloadable import template: a header row
// listing every accepted column plus one example data row.
func BuildTemplateXLSX() ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	index, err := f.NewSheet(templateSheet)
	if err != nil {
		return nil, fmt.Errorf("create template sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}

	for i, col := range AllowedColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(templateSheet, cell, col); err != nil {
			return nil, err
		}
	}
	for i, value := range exampleRow {
		cell, err := excelize.CoordinatesToCellName(i+1, 2)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(templateSheet, cell, value); err != nil {
			return nil, err
		}
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		endCell, cellErr := excelize.CoordinatesToCellName(len(AllowedColumns), 1)
		if cellErr == nil {
			_ = f.SetCellStyle(templateSheet, "A1", endCell, style)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write template workbook: %w", err)
	}
	return buf.Bytes(), nil
}
