package tabular

import (
	"github.com/xuri/excelize/v2"

	"github.com/dukerupert/nursery/internal/domain"
)

// SheetName is the sheet written to exported workbooks.
const SheetName = "Products"

const columnWidth = 20

func readXLSX(path string) (*Table, error) {
	const op = "tabular.read_xlsx"

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, domain.WrapError(err, domain.EFORMAT, op, "failed to open workbook")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, domain.Errorf(domain.EFORMAT, op, "no sheets found in %s", path)
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, domain.WrapError(err, domain.EFORMAT, op, "failed to read sheet")
	}
	return newTable(records), nil
}

func writeXLSX(path string, t *Table) error {
	const op = "tabular.write_xlsx"

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return domain.Internal(err, op, "failed to name sheet")
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})
	if err != nil {
		return domain.Internal(err, op, "failed to create header style")
	}

	for i, h := range t.Header {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return domain.Internal(err, op, "failed to address header cell")
		}
		if err := f.SetCellStr(SheetName, cell, h); err != nil {
			return domain.Internal(err, op, "failed to write header")
		}
	}
	if len(t.Header) > 0 {
		lastCol, err := excelize.ColumnNumberToName(len(t.Header))
		if err != nil {
			return domain.Internal(err, op, "failed to name column")
		}
		if err := f.SetCellStyle(SheetName, "A1", lastCol+"1", headerStyle); err != nil {
			return domain.Internal(err, op, "failed to style header")
		}
		if err := f.SetColWidth(SheetName, "A", lastCol, columnWidth); err != nil {
			return domain.Internal(err, op, "failed to set column width")
		}
	}

	for r, row := range t.Rows {
		for i, h := range t.Header {
			cell, err := excelize.CoordinatesToCellName(i+1, r+2)
			if err != nil {
				return domain.Internal(err, op, "failed to address cell")
			}
			if err := f.SetCellStr(SheetName, cell, row[h]); err != nil {
				return domain.Internal(err, op, "failed to write row")
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return domain.Internal(err, op, "failed to save workbook")
	}
	return nil
}
