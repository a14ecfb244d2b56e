package docx

import (
	"fmt"
	"strings"
)

// Problem describes one offending placeholder.
type Problem struct {
	Part        string
	Tag         string
	Explanation string
}

// TemplateError lists every offending placeholder of a template, not only
// the first one.
type TemplateError struct {
	Problems []Problem
}

func (e *TemplateError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "template error: %d invalid placeholder(s)", len(e.Problems))
	for _, p := range e.Problems {
		fmt.Fprintf(&b, "\n  %s: %q: %s", p.Part, p.Tag, p.Explanation)
	}
	return b.String()
}
