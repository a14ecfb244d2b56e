package catalog

import (
	"github.com/go-faster/errors"

	"docgen/internal"
	"docgen/internal/columns"
	"docgen/internal/sheet"
)

// Load reads the code book sheet and indexes it. Every failure to find the
// workbook, the sheet or the required columns is a ConfigurationError.
func Load(path, sheetName string, table columns.Table) (*Index, columns.Map, error) {
	t, err := sheet.ReadTable(path, sheetName)
	if err != nil {
		return nil, nil, &internal.ConfigurationError{
			Source: path,
			Sheet:  sheetName,
			Reason: "cannot read code book",
			Err:    err,
		}
	}
	if t.Empty() {
		return nil, nil, &internal.ConfigurationError{
			Source: path,
			Sheet:  sheetName,
			Reason: "workbook is empty or sheet missing",
			Err:    availableSheets(path),
		}
	}

	cols := columns.Resolve(t.Header, table)
	if err := columns.Require(path, sheetName, t.Header, cols, table); err != nil {
		return nil, nil, err
	}

	codeCol, _ := cols.Column(columns.JobCode)
	descCol, _ := cols.Column(columns.JobDescription)
	return BuildIndex(t.Rows, codeCol, descCol), cols, nil
}

func availableSheets(path string) error {
	names, err := sheet.SheetNames(path)
	if err != nil || len(names) == 0 {
		return nil
	}
	return errors.Errorf("available sheets: %q", names)
}
