// Package sheettest builds workbook fixtures for tests.
package sheettest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// WriteXLSX writes a workbook with one sheet per entry of sheets, in the
// order given by names.
func WriteXLSX(t testing.TB, path string, names []string, sheets map[string][][]any) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, name := range names {
		if i == 0 {
			require.NoError(t, f.SetSheetName(f.GetSheetName(0), name))
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for r, row := range sheets[name] {
			for c, v := range row {
				cell, err := excelize.CoordinatesToCellName(c+1, r+1)
				require.NoError(t, err)
				require.NoError(t, f.SetCellValue(name, cell, v))
			}
		}
	}
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, f.SaveAs(path))
}

// WriteSheet is WriteXLSX for a single sheet.
func WriteSheet(t testing.TB, path, name string, rows [][]any) {
	t.Helper()
	WriteXLSX(t, path, []string{name}, map[string][][]any{name: rows})
}
