package internal

import (
	"fmt"
	"strings"
	"time"
)

// Placeholder names understood by document templates.
const (
	FieldFirstName          = "Ime"
	FieldLastName           = "Prezime"
	FieldNationalID         = "JMBG"
	FieldJobDescription     = "OpisRadnogMesta"
	FieldJobDescriptionTerm = "OpisRM"
	FieldDate               = "Datum"
)

var PlaceholderNames = []string{
	FieldFirstName,
	FieldLastName,
	FieldNationalID,
	FieldJobDescription,
	FieldJobDescriptionTerm,
	FieldDate,
}

// EmployeeRecord is one row of the input roster. Absent cells are "".
type EmployeeRecord struct {
	RowNumber   int
	FirstName   string
	LastName    string
	NationalID  string
	JobCode     string
	Description string
	Date        string
}

// RenderContext is the fixed field set substituted into a template.
type RenderContext struct {
	Ime             string
	Prezime         string
	JMBG            string
	OpisRadnogMesta string
	OpisRM          string
	Datum           string
}

func (c RenderContext) Values() map[string]string {
	return map[string]string{
		FieldFirstName:          c.Ime,
		FieldLastName:           c.Prezime,
		FieldNationalID:         c.JMBG,
		FieldJobDescription:     c.OpisRadnogMesta,
		FieldJobDescriptionTerm: c.OpisRM,
		FieldDate:               c.Datum,
	}
}

// LookupMiss records a row whose job code was not found in the code book,
// neither raw nor zero-padded. It is a soft failure: the run continues.
type LookupMiss struct {
	RowNumber int
	FirstName string
	LastName  string
	RawKey    string
	PaddedKey string
}

func (m *LookupMiss) Error() string {
	return fmt.Sprintf("job code not found for %s %s (row %d): raw=%q padded=%q",
		m.FirstName, m.LastName, m.RowNumber, m.RawKey, m.PaddedKey)
}

// ConfigurationError is fatal and raised before any row is processed.
type ConfigurationError struct {
	Source      string
	Sheet       string
	Reason      string
	Header      []string
	Missing     []string
	Suggestions map[string][]string
	Err         error
}

func (e *ConfigurationError) Error() string {
	var b strings.Builder
	b.WriteString("configuration error")
	if e.Source != "" {
		fmt.Fprintf(&b, " in %s", e.Source)
		if e.Sheet != "" {
			fmt.Fprintf(&b, " (sheet %q)", e.Sheet)
		}
	}
	b.WriteString(": ")
	b.WriteString(e.Reason)
	if len(e.Missing) > 0 {
		fmt.Fprintf(&b, "; missing columns: %s", strings.Join(e.Missing, ", "))
		for _, field := range e.Missing {
			if hints := e.Suggestions[field]; len(hints) > 0 {
				fmt.Fprintf(&b, "; %s: did you mean %s?", field, quoteAll(hints))
			}
		}
	}
	if e.Header != nil {
		fmt.Fprintf(&b, "; header row read: [%s]", quoteAll(e.Header))
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

func quoteAll(values []string) string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, fmt.Sprintf("%q", v))
	}
	return strings.Join(out, ", ")
}

type RunStatus string

const (
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
	RunDryRun    RunStatus = "dry_run"
)

// RunRecord is what the journal keeps about one generation run.
type RunRecord struct {
	ID           string
	StartedAt    time.Time
	FinishedAt   time.Time
	CodeBookPath string
	InputPath    string
	TemplatePath string
	OutputDir    string
	Rows         int
	Hits         int
	Misses       int
	Status       RunStatus
	Error        string
}
