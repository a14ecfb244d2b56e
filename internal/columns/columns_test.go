package columns

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docgen/internal"
)

func TestResolveFoldsAliases(t *testing.T) {
	header := []string{"Ime", "Prezime", "JMBG", "Šifra RM"}
	table := Table{{Name: JobCode, Required: true, Aliases: []string{"sifrarm", "sifra rm", "sifra"}}}

	m := Resolve(header, table)
	col, ok := m.Column(JobCode)
	require.True(t, ok)
	assert.Equal(t, "Šifra RM", col)
}

func TestResolveFirstHeaderWins(t *testing.T) {
	header := []string{"Opis", "Sifra", "SIFRA"}
	table := Table{{Name: JobCode, Aliases: []string{"sifra"}}}

	m := Resolve(header, table)
	assert.Equal(t, "Sifra", m[JobCode])
}

func TestResolveIsExactNotFuzzy(t *testing.T) {
	header := []string{"Sifra radnog m."}
	table := Table{{Name: JobCode, Aliases: []string{"sifra"}}}

	m := Resolve(header, table)
	_, ok := m.Column(JobCode)
	assert.False(t, ok)
	assert.Equal(t, "", m.Value(map[string]string{"Sifra radnog m.": "7"}, JobCode))
}

func TestDefaultInputTable(t *testing.T) {
	header := []string{"IME", "prezime", "Jmbg", "SifraRM", "Opis radnog mesta", "Datum"}
	m := Resolve(header, Default().Input)

	assert.Equal(t, Map{
		FirstName:      "IME",
		LastName:       "prezime",
		NationalID:     "Jmbg",
		JobCode:        "SifraRM",
		JobDescription: "Opis radnog mesta",
		Date:           "Datum",
	}, m)
	require.NoError(t, Require("ulaz.xlsx", "Ulaz", header, m, Default().Input))
}

func TestRequireReportsEveryMissingField(t *testing.T) {
	header := []string{"Ime", "Sifra radnog m.", "Napomena"}
	table := Default().Input
	m := Resolve(header, table)

	err := Require("ulaz.xlsx", "Ulaz", header, m, table)
	require.Error(t, err)

	var cfgErr *internal.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, []string{LastName, NationalID, JobCode}, cfgErr.Missing)
	assert.Equal(t, header, cfgErr.Header)
	assert.Contains(t, cfgErr.Suggestions[JobCode], "Sifra radnog m.")
	assert.Contains(t, err.Error(), `"Napomena"`)
}

func TestMergeIsAdditive(t *testing.T) {
	extra, err := Parse([]byte(`
input:
  - field: jobCode
    aliases: ["Radno mesto"]
  - field: department
    aliases: ["Sektor"]
`))
	require.NoError(t, err)

	merged := Default().Merge(extra)
	code, ok := merged.Input.Field(JobCode)
	require.True(t, ok)
	assert.True(t, code.Required)
	assert.Contains(t, code.Aliases, "SifraRM")
	assert.Contains(t, code.Aliases, "Radno mesto")

	_, ok = merged.Input.Field("department")
	assert.True(t, ok)
	assert.Equal(t, len(Default().CodeBook), len(merged.CodeBook))
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aliases.yaml")
	require.NoError(t, os.WriteFile(path, []byte("codebook:\n  - field: jobCode\n    aliases: [\"Šifra posla\"]\n"), 0o644))

	a, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, a.CodeBook, 1)
	assert.Equal(t, []string{"Šifra posla"}, a.CodeBook[0].Aliases)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
