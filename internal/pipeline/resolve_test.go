package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docgen/internal"
	"docgen/internal/catalog"
	"docgen/internal/sheet"
)

func testIndex() *catalog.Index {
	return catalog.BuildIndex([]sheet.Row{
		{"Sifra": "007", "Opis": "Vozač"},
		{"Sifra": "120", "Opis": "Magacioner"},
		{"Sifra": "AB", "Opis": "Referent"},
	}, "Sifra", "Opis")
}

func TestResolveDescription(t *testing.T) {
	idx := testIndex()
	pad := catalog.DerivePadder(idx)

	tests := []struct {
		name    string
		rec     internal.EmployeeRecord
		want    string
		matched bool
	}{
		{"direct description wins", internal.EmployeeRecord{JobCode: "007", Description: "Direktor"}, "Direktor", true},
		{"direct description without code", internal.EmployeeRecord{Description: "Direktor"}, "Direktor", true},
		{"raw code", internal.EmployeeRecord{JobCode: "120"}, "Magacioner", true},
		{"padded code", internal.EmployeeRecord{JobCode: "7"}, "Vozač", true},
		{"padded code with spaces", internal.EmployeeRecord{JobCode: " 7 "}, "Vozač", true},
		{"non numeric code", internal.EmployeeRecord{JobCode: "AB"}, "Referent", true},
		{"unknown code", internal.EmployeeRecord{JobCode: "999"}, "", false},
		{"empty code", internal.EmployeeRecord{}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ResolveDescription(tt.rec, idx, pad)
			assert.Equal(t, tt.want, res.Description)
			assert.Equal(t, tt.matched, res.Matched)
			assert.Equal(t, !tt.matched, res.Miss != nil)
		})
	}
}

func TestResolveMissCarriesKeys(t *testing.T) {
	idx := testIndex()
	rec := internal.EmployeeRecord{RowNumber: 4, FirstName: "Ana", LastName: "Ilić", JobCode: "5"}

	res := ResolveDescription(rec, idx, catalog.DerivePadder(idx))
	require.NotNil(t, res.Miss)
	assert.Equal(t, internal.LookupMiss{
		RowNumber: 4,
		FirstName: "Ana",
		LastName:  "Ilić",
		RawKey:    "5",
		PaddedKey: "005",
	}, *res.Miss)
	assert.Contains(t, res.Miss.Error(), `raw="5" padded="005"`)
}

func TestTallyRecord(t *testing.T) {
	var tally Tally
	tally = tally.Record(Resolution{Matched: true})
	tally = tally.Record(Resolution{Miss: &internal.LookupMiss{}})
	tally = tally.Record(Resolution{Matched: true})

	assert.Equal(t, Tally{Hits: 2, Misses: 1}, tally)

	before := tally
	after := tally.Record(Resolution{Miss: &internal.LookupMiss{}})
	assert.Equal(t, before.Hits, after.Hits)
	assert.Equal(t, before.Misses+1, after.Misses)
}

func TestOutputFileName(t *testing.T) {
	tests := []struct {
		first, last string
		want        string
	}{
		{"Petar", "Petrović", "Petar Petrović - generisano.docx"},
		{"A/B:C", `x\y*z?"<>|`, "A_B_C x_y_z_____ - generisano.docx"},
		{"  Ana ", "", "Ana - generisano.docx"},
		{"", "", "bez-imena - generisano.docx"},
		{" ", " ", "bez-imena - generisano.docx"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, OutputFileName(tt.first, tt.last))
		})
	}
}

func TestNewRenderContext(t *testing.T) {
	rec := internal.EmployeeRecord{FirstName: "Ana", LastName: "Ilić", NationalID: "123", Date: "01.02.2024."}
	ctx := NewRenderContext(rec, "Vozač", "16.10.2026.")
	assert.Equal(t, "Vozač", ctx.OpisRadnogMesta)
	assert.Equal(t, "Vozač", ctx.OpisRM)
	assert.Equal(t, "01.02.2024.", ctx.Datum)

	rec.Date = ""
	assert.Equal(t, "16.10.2026.", NewRenderContext(rec, "", "16.10.2026.").Datum)
}
