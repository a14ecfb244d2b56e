package pipeline

import (
	"docgen/internal"
	"docgen/internal/columns"
	"docgen/internal/sheet"
	"docgen/internal/util"
)

// NormalizeRecord reads the logical fields of one roster row. Columns the
// sheet does not have yield "".
func NormalizeRecord(row sheet.Row, cols columns.Map, line int) internal.EmployeeRecord {
	return internal.EmployeeRecord{
		RowNumber:   line,
		FirstName:   util.Normalize(cols.Value(row, columns.FirstName)),
		LastName:    util.Normalize(cols.Value(row, columns.LastName)),
		NationalID:  util.Normalize(cols.Value(row, columns.NationalID)),
		JobCode:     util.Normalize(cols.Value(row, columns.JobCode)),
		Description: util.Normalize(cols.Value(row, columns.JobDescription)),
		Date:        util.NormalizeDate(cols.Value(row, columns.Date)),
	}
}

// NewRenderContext fills the template fields for one employee. today is used
// when the row carries no date.
func NewRenderContext(rec internal.EmployeeRecord, description, today string) internal.RenderContext {
	return internal.RenderContext{
		Ime:             rec.FirstName,
		Prezime:         rec.LastName,
		JMBG:            rec.NationalID,
		OpisRadnogMesta: description,
		OpisRM:          description,
		Datum:           util.FirstNonEmpty(rec.Date, today),
	}
}
