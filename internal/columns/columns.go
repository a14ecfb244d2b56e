// Package columns maps logical fields onto the physical header names found in
// a sheet. Header variants are data (aliases.yaml), not code.
package columns

import (
	_ "embed"
	"os"
	"sort"

	"github.com/go-faster/errors"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"gopkg.in/yaml.v3"

	"docgen/internal"
	"docgen/internal/util"
)

// Logical field names used by the default alias tables.
const (
	JobCode        = "jobCode"
	JobDescription = "jobDescription"
	FirstName      = "firstName"
	LastName       = "lastName"
	NationalID     = "nationalID"
	Date           = "date"
)

const maxSuggestions = 3

//go:embed aliases.yaml
var defaultAliases []byte

type Field struct {
	Name     string   `yaml:"field"`
	Required bool     `yaml:"required"`
	Aliases  []string `yaml:"aliases"`
}

// Table lists the logical fields of one sheet kind, in declaration order.
type Table []Field

type Aliases struct {
	CodeBook Table `yaml:"codebook"`
	Input    Table `yaml:"input"`
}

// Map is logical field -> physical header. A field that was not found is absent.
type Map map[string]string

func Default() Aliases {
	a, err := Parse(defaultAliases)
	if err != nil {
		panic(errors.Wrap(err, "embedded aliases.yaml"))
	}
	return a
}

func Parse(data []byte) (Aliases, error) {
	var a Aliases
	if err := yaml.Unmarshal(data, &a); err != nil {
		return Aliases{}, errors.Wrap(err, "parse alias table")
	}
	return a, nil
}

func LoadFile(path string) (Aliases, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Aliases{}, errors.Wrap(err, "read alias table")
	}
	return Parse(data)
}

// Merge adds the fields and aliases of extra. Existing aliases are never
// removed and a field stays required once any table requires it.
func (a Aliases) Merge(extra Aliases) Aliases {
	return Aliases{
		CodeBook: a.CodeBook.Merge(extra.CodeBook),
		Input:    a.Input.Merge(extra.Input),
	}
}

func (t Table) Merge(extra Table) Table {
	out := make(Table, 0, len(t)+len(extra))
	pos := map[string]int{}
	for _, f := range t {
		pos[f.Name] = len(out)
		out = append(out, Field{Name: f.Name, Required: f.Required, Aliases: append([]string(nil), f.Aliases...)})
	}
	for _, f := range extra {
		i, ok := pos[f.Name]
		if !ok {
			pos[f.Name] = len(out)
			out = append(out, Field{Name: f.Name, Required: f.Required, Aliases: append([]string(nil), f.Aliases...)})
			continue
		}
		out[i].Required = out[i].Required || f.Required
		out[i].Aliases = append(out[i].Aliases, f.Aliases...)
	}
	return out
}

func (t Table) Field(name string) (Field, bool) {
	for _, f := range t {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Resolve picks, for each field, the first header (in sheet order) whose
// folded form equals one of the field's folded aliases.
func Resolve(header []string, table Table) Map {
	m := Map{}
	for _, field := range table {
		keys := map[string]struct{}{}
		for _, alias := range field.Aliases {
			if k := util.FoldKey(alias); k != "" {
				keys[k] = struct{}{}
			}
		}
		for _, h := range header {
			if _, ok := keys[util.FoldKey(h)]; ok {
				m[field.Name] = h
				break
			}
		}
	}
	return m
}

func (m Map) Column(field string) (string, bool) {
	col, ok := m[field]
	return col, ok
}

// Value reads field from row, "" when the field has no column.
func (m Map) Value(row map[string]string, field string) string {
	col, ok := m[field]
	if !ok {
		return ""
	}
	return row[col]
}

// Require fails with a ConfigurationError naming every required field that
// has no column, together with the full header row that was read.
func Require(source, sheet string, header []string, m Map, table Table) error {
	var missing []string
	suggestions := map[string][]string{}
	for _, field := range table {
		if !field.Required {
			continue
		}
		if _, ok := m[field.Name]; ok {
			continue
		}
		missing = append(missing, field.Name)
		if hints := suggest(header, field.Aliases); len(hints) > 0 {
			suggestions[field.Name] = hints
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &internal.ConfigurationError{
		Source:      source,
		Sheet:       sheet,
		Reason:      "required columns not found",
		Header:      append([]string{}, header...),
		Missing:     missing,
		Suggestions: suggestions,
	}
}

// suggest ranks headers that look like one of the aliases. Used for
// diagnostics only.
func suggest(header []string, aliases []string) []string {
	folded := make([]string, len(header))
	for i, h := range header {
		folded[i] = util.FoldKey(h)
	}
	foldedAliases := make([]string, 0, len(aliases))
	for _, alias := range aliases {
		foldedAliases = append(foldedAliases, util.FoldKey(alias))
	}

	best := map[int]int{}
	keep := func(idx, distance int) {
		if folded[idx] == "" {
			return
		}
		if d, ok := best[idx]; !ok || distance < d {
			best[idx] = distance
		}
	}
	for _, alias := range foldedAliases {
		if alias == "" {
			continue
		}
		for _, rank := range fuzzy.RankFindNormalizedFold(alias, folded) {
			keep(rank.OriginalIndex, rank.Distance)
		}
	}
	for i, h := range folded {
		if h == "" {
			continue
		}
		ranks := fuzzy.RankFindNormalizedFold(h, foldedAliases)
		sort.Sort(ranks)
		if len(ranks) > 0 {
			keep(i, ranks[0].Distance)
		}
	}

	idx := make([]int, 0, len(best))
	for i := range best {
		idx = append(idx, i)
	}
	sort.Slice(idx, func(a, b int) bool {
		if best[idx[a]] != best[idx[b]] {
			return best[idx[a]] < best[idx[b]]
		}
		return idx[a] < idx[b]
	})
	if len(idx) > maxSuggestions {
		idx = idx[:maxSuggestions]
	}
	out := make([]string, 0, len(idx))
	for _, i := range idx {
		out = append(out, header[i])
	}
	return out
}
