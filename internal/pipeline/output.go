package pipeline

import (
	"strings"

	"docgen/internal/util"
)

const (
	outputSuffix = " - generisano.docx"
	// Used when a row has neither a first nor a last name.
	fallbackName = "bez-imena"
)

// OutputFileName names the generated document of one employee.
func OutputFileName(first, last string) string {
	name := util.SanitizeFilename(strings.TrimSpace(util.Normalize(first) + " " + util.Normalize(last)))
	if name == "" {
		name = fallbackName
	}
	return name + outputSuffix
}

func describe(description string) string {
	if description == "" {
		return "(empty)"
	}
	return description
}
