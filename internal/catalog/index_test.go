package catalog

import (
	"path/filepath"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docgen/internal"
	"docgen/internal/columns"
	"docgen/internal/sheet"
	"docgen/internal/sheet/sheettest"
)

func TestBuildIndex(t *testing.T) {
	rows := []sheet.Row{
		{"SifraRM": " 007 ", "OpisRM": "Inženjer"},
		{"SifraRM": "", "OpisRM": "bez šifre"},
		{"SifraRM": "12", "OpisRM": "Vozač"},
		{"SifraRM": "12", "OpisRM": "Vozač  B kategorije"},
	}

	idx := BuildIndex(rows, "SifraRM", "OpisRM")
	assert.Equal(t, 2, idx.Len())
	assert.Equal(t, 3, idx.MaxKeyLen())

	desc, ok := idx.Lookup("007")
	require.True(t, ok)
	assert.Equal(t, "Inženjer", desc)

	desc, ok = idx.Lookup("12")
	require.True(t, ok)
	assert.Equal(t, "Vozač B kategorije", desc, "last duplicate wins")

	_, ok = idx.Lookup("")
	assert.False(t, ok)
}

func TestDerivePadder(t *testing.T) {
	idx := BuildIndex([]sheet.Row{{"c": "007", "d": "x"}, {"c": "AB", "d": "y"}}, "c", "d")
	pad := DerivePadder(idx)

	cases := []struct {
		input string
		want  string
	}{
		{input: "7", want: "007"},
		{input: " 7 ", want: "007"},
		{input: "07", want: "007"},
		{input: "AB", want: "AB"},
		{input: "A7", want: "A7"},
		{input: "1234", want: "1234"},
		{input: "123", want: "123"},
		{input: "", want: ""},
	}
	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.want, pad(tc.input))
		})
	}
}

func TestDerivePadderEmptyIndex(t *testing.T) {
	pad := DerivePadder(BuildIndex(nil, "c", "d"))
	assert.Equal(t, "7", pad("7"))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sifarnik.xlsx")
	sheettest.WriteSheet(t, path, "Sifarnik", [][]any{
		{"Šifra RM", "Opis radnog mesta"},
		{"01", "Vozač"},
		{"02", "Magacioner"},
	})

	idx, cols, err := Load(path, "Sifarnik", columns.Default().CodeBook)
	require.NoError(t, err)
	assert.Equal(t, "Šifra RM", cols[columns.JobCode])
	assert.Equal(t, 2, idx.Len())

	desc, ok := idx.Lookup(DerivePadder(idx)("1"))
	require.True(t, ok)
	assert.Equal(t, "Vozač", desc)
}

func TestLoadMissingSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sifarnik.xlsx")
	sheettest.WriteSheet(t, path, "Drugi", [][]any{{"SifraRM", "OpisRM"}})

	_, _, err := Load(path, "Sifarnik", columns.Default().CodeBook)
	var cfgErr *internal.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "workbook is empty or sheet missing", cfgErr.Reason)
	assert.Contains(t, err.Error(), "Drugi")
}

func TestLoadMissingColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sifarnik.xlsx")
	sheettest.WriteSheet(t, path, "Sifarnik", [][]any{{"SifraRM", "Napomena"}, {"01", "x"}})

	_, _, err := Load(path, "Sifarnik", columns.Default().CodeBook)
	var cfgErr *internal.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, []string{columns.JobDescription}, cfgErr.Missing)
	assert.Equal(t, []string{"SifraRM", "Napomena"}, cfgErr.Header)
}

func TestLoadMissingFile(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "nema.xlsx"), "Sifarnik", columns.Default().CodeBook)
	var cfgErr *internal.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "cannot read code book", cfgErr.Reason)
}
