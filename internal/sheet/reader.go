package sheet

import (
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-faster/errors"
	"github.com/xuri/excelize/v2"
)

// Row maps header -> cell text. Missing cells are "", never absent.
type Row map[string]string

type Table struct {
	Header []string
	Rows   []Row
	// Lines holds the 1-based sheet row of each entry of Rows.
	Lines []int
}

func (t Table) Empty() bool {
	return len(t.Header) == 0 && len(t.Rows) == 0
}

var ErrUnsupportedFormat = errors.New("unsupported workbook format")

type format int

const (
	formatXLSX format = iota
	formatHTML
)

// ReadTable loads sheetName from the workbook at path. A missing sheet or a
// sheet without rows yields an empty Table and no error; deciding whether that
// is fatal is up to the caller.
func ReadTable(path, sheetName string) (Table, error) {
	kind, err := detectFormat(path)
	if err != nil {
		return Table{}, err
	}
	var rows [][]string
	switch kind {
	case formatHTML:
		rows, err = readHTMLSheet(path, sheetName)
	default:
		rows, err = readXLSXSheet(path, sheetName)
	}
	if err != nil {
		return Table{}, err
	}
	return toTable(rows), nil
}

// SheetNames lists the sheets of a workbook in order.
func SheetNames(path string) ([]string, error) {
	kind, err := detectFormat(path)
	if err != nil {
		return nil, err
	}
	if kind == formatHTML {
		return htmlSheetNames(path)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open workbook %s", path)
	}
	defer f.Close()
	return f.GetSheetList(), nil
}

func detectFormat(path string) (format, error) {
	if _, err := os.Stat(path); err != nil {
		return 0, errors.Wrap(err, "workbook")
	}
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return 0, errors.Wrapf(err, "detect format of %s", path)
	}
	switch {
	case mtype.Is("text/html"):
		return formatHTML, nil
	case mtype.Is("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"), mtype.Is("application/zip"):
		return formatXLSX, nil
	default:
		return 0, errors.Wrapf(ErrUnsupportedFormat, "%s is %s", path, mtype.String())
	}
}

func readXLSXSheet(path, sheetName string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open workbook %s", path)
	}
	defer f.Close()

	if idx, err := f.GetSheetIndex(sheetName); err != nil || idx < 0 {
		return nil, nil
	}
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, errors.Wrapf(err, "read rows from sheet %s", sheetName)
	}
	return rows, nil
}

// toTable takes the first row as header and keys every other row by it.
// Fully blank rows are dropped.
func toTable(rows [][]string) Table {
	if len(rows) == 0 {
		return Table{}
	}
	header := append([]string{}, rows[0]...)
	out := Table{Header: header, Rows: make([]Row, 0, len(rows)-1)}
	for i, cells := range rows[1:] {
		if isBlank(cells) {
			continue
		}
		row := make(Row, len(header))
		for col, name := range header {
			if _, taken := row[name]; taken {
				continue
			}
			if col < len(cells) {
				row[name] = cells[col]
			} else {
				row[name] = ""
			}
		}
		out.Rows = append(out.Rows, row)
		out.Lines = append(out.Lines, i+2)
	}
	return out
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
