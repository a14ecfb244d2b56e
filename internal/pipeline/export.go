package pipeline

import (
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"docgen/internal"
)

// MissReportName is the miss report file written into the output directory.
const MissReportName = "nepronadjene-sifre.xlsx"

// ExportMissesToXLSX writes one row per unresolved job code.
func ExportMissesToXLSX(misses []internal.LookupMiss, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	headers := []string{"red", "ime", "prezime", "sifra", "sifra_dopunjena"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, miss := range misses {
		r := i + 2
		set := func(col int, value any) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(sheet, cell, value)
		}

		set(1, miss.RowNumber)
		set(2, miss.FirstName)
		set(3, miss.LastName)
		// Codes stay text so leading zeros survive.
		set(4, miss.RawKey)
		set(5, miss.PaddedKey)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}
