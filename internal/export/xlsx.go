// Package export writes the data behind each chart panel to a workbook, so
// the plotted numbers can be checked without re-running the pipeline.
package export

import (
	"fmt"
	"math"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/FLAMEGPU/FLAMEGPU2-submodel-benchmark/internal/figure"
)

// SummarySheet lists every panel of the figure.
const SummarySheet = "Panels"

// SheetName is the sheet holding a chart panel's data.
func SheetName(label string) string { return "Panel " + label }

// SaveXLSX writes a summary sheet and one sheet per chart panel holding the
// plotted columns of its filtered, derived table.
func SaveXLSX(filename string, fig *figure.Figure) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return fmt.Errorf("failed to name summary sheet: %w", err)
	}
	header := []interface{}{"Panel", "Kind", "Source", "X", "Y", "Hue", "Rows"}
	if err := f.SetSheetRow(SummarySheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}

	for i, p := range fig.Panels {
		source, rows := p.Def.CSV, 0
		if p.Data == nil {
			source = p.Def.Image
		} else {
			rows = p.Data.Len()
		}
		row := []interface{}{p.Label, string(p.Def.Kind), source, p.Def.X, p.Def.Y, p.Def.Hue, rows}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(SummarySheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}

		if p.Data != nil {
			if err := writePanel(f, p); err != nil {
				return fmt.Errorf("panel %s: %w", p.Label, err)
			}
		}
	}

	if err := f.SaveAs(filename); err != nil {
		return fmt.Errorf("failed to save %s: %w", filename, err)
	}
	return nil
}

func writePanel(f *excelize.File, p *figure.Panel) error {
	sheet := SheetName(p.Label)
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	cols := p.Columns()
	for c, name := range cols {
		cell, _ := excelize.CoordinatesToCellName(c+1, 1)
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return err
		}

		vals, err := p.Data.Strings(name)
		if err != nil {
			return err
		}
		for r, v := range vals {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheet, cell, cellValue(v)); err != nil {
				return err
			}
		}
	}
	return nil
}

// cellValue stores numbers as numbers. Missing and non-finite values are
// left blank.
func cellValue(s string) interface{} {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return s
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}
