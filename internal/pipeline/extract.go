package pipeline

import (
	"docgen/internal"
	"docgen/internal/columns"
	"docgen/internal/sheet"
)

// Roster is the input sheet with its resolved column map.
type Roster struct {
	Table   sheet.Table
	Columns columns.Map
}

// ReadRoster reads the input sheet and checks that every required column is
// present. Failures are ConfigurationErrors.
func ReadRoster(path, sheetName string, table columns.Table) (Roster, error) {
	t, err := sheet.ReadTable(path, sheetName)
	if err != nil {
		return Roster{}, &internal.ConfigurationError{
			Source: path,
			Sheet:  sheetName,
			Reason: "cannot read input roster",
			Err:    err,
		}
	}
	if t.Empty() {
		return Roster{}, &internal.ConfigurationError{
			Source: path,
			Sheet:  sheetName,
			Reason: "workbook is empty or sheet missing",
		}
	}

	cols := columns.Resolve(t.Header, table)
	if err := columns.Require(path, sheetName, t.Header, cols, table); err != nil {
		return Roster{}, err
	}
	return Roster{Table: t, Columns: cols}, nil
}

// Records turns every data row into an EmployeeRecord, in sheet order.
func (r Roster) Records() []internal.EmployeeRecord {
	out := make([]internal.EmployeeRecord, 0, len(r.Table.Rows))
	for i, row := range r.Table.Rows {
		line := i + 2
		if i < len(r.Table.Lines) {
			line = r.Table.Lines[i]
		}
		out = append(out, NormalizeRecord(row, r.Columns, line))
	}
	return out
}
