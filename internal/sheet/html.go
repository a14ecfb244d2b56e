package sheet

import (
	"fmt"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-faster/errors"
)

// Some HR systems export ".xls" files that are really HTML. Every <table> is
// treated as a sheet, named by its caption or else Sheet1, Sheet2, ...

func openHTML(path string) (*goquery.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open html workbook")
	}
	defer f.Close()
	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return nil, errors.Wrapf(err, "parse html workbook %s", path)
	}
	return doc, nil
}

func htmlSheetNames(path string) ([]string, error) {
	doc, err := openHTML(path)
	if err != nil {
		return nil, err
	}
	var names []string
	doc.Find("table").Each(func(i int, table *goquery.Selection) {
		names = append(names, htmlSheetName(i, table))
	})
	return names, nil
}

func readHTMLSheet(path, sheetName string) ([][]string, error) {
	doc, err := openHTML(path)
	if err != nil {
		return nil, err
	}

	var rows [][]string
	found := false
	doc.Find("table").EachWithBreak(func(i int, table *goquery.Selection) bool {
		if htmlSheetName(i, table) != sheetName {
			return true
		}
		found = true
		table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			cells := []string{}
			tr.Find("th,td").Each(func(_ int, cell *goquery.Selection) {
				cells = append(cells, strings.TrimSpace(cell.Text()))
			})
			rows = append(rows, cells)
		})
		return false
	})
	if !found {
		return nil, nil
	}
	return rows, nil
}

func htmlSheetName(i int, table *goquery.Selection) string {
	if caption := strings.TrimSpace(table.Find("caption").First().Text()); caption != "" {
		return caption
	}
	return fmt.Sprintf("Sheet%d", i+1)
}
