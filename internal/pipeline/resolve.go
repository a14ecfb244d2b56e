package pipeline

import (
	"docgen/internal"
	"docgen/internal/catalog"
	"docgen/internal/util"
)

// Resolution is the outcome of looking up one employee's job description.
type Resolution struct {
	Description string
	Matched     bool
	Miss        *internal.LookupMiss
}

// ResolveDescription picks the job description for rec. A description given
// directly in the roster wins verbatim. Otherwise the job code is looked up as
// written, then zero-padded; the first hit wins.
func ResolveDescription(rec internal.EmployeeRecord, idx *catalog.Index, pad catalog.Padder) Resolution {
	if rec.Description != "" {
		return Resolution{Description: rec.Description, Matched: true}
	}

	raw := util.Normalize(rec.JobCode)
	if desc, ok := idx.Lookup(raw); ok {
		return Resolution{Description: desc, Matched: true}
	}

	padded := pad(raw)
	if padded != raw {
		if desc, ok := idx.Lookup(padded); ok {
			return Resolution{Description: desc, Matched: true}
		}
	}

	return Resolution{
		Miss: &internal.LookupMiss{
			RowNumber: rec.RowNumber,
			FirstName: rec.FirstName,
			LastName:  rec.LastName,
			RawKey:    raw,
			PaddedKey: padded,
		},
	}
}

// Tally counts resolved and unresolved rows of a run.
type Tally struct {
	Hits   int
	Misses int
}

func (t Tally) Record(r Resolution) Tally {
	if r.Matched {
		t.Hits++
	} else {
		t.Misses++
	}
	return t
}
