package reports

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// BuildAbcAnalysisWorkbook renders the ABC classification as a spreadsheet
// for download. The handler streams the file; this only builds it.
func BuildAbcAnalysisWorkbook(ctx context.Context) (*excelize.File, error) {
	data, err := GetAbcAnalysis(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := "ABC Analysis"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	f.SetCellValue(sheet, "A1", "Product")
	f.SetCellValue(sheet, "B1", "Revenue")
	f.SetCellValue(sheet, "C1", "Grade")

	for i, row := range data {
		rowNo := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", rowNo), row.ProductName)
		revenue, _ := row.Revenue.Float64()
		f.SetCellValue(sheet, fmt.Sprintf("B%d", rowNo), revenue)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", rowNo), row.Grade)
	}

	return f, nil
}
