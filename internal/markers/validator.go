package markers

import (
	"fmt"
	"strings"
)

// Report is the outcome of validating a template's content and marker set.
// Warnings are informational and never block an upload; only Errors make the
// template invalid.
type Report struct {
	Valid    bool     `json:"valid"`
	Warnings []string `json:"warnings"`
	Errors   []string `json:"errors"`
}

// Validate checks extracted template content against its scanned markers.
// Custom (non-catalog) markers are allowed; they are reported as warnings so
// the uploader can map them explicitly.
func Validate(content string, tokens []string) Report {
	report := Report{
		Warnings: []string{},
		Errors:   []string{},
	}

	if strings.TrimSpace(content) == "" {
		report.Errors = append(report.Errors, "template has no content")
	}

	if len(tokens) == 0 && len(report.Errors) == 0 {
		report.Warnings = append(report.Warnings, "no smart markers detected; template will render as-is")
	}

	for _, token := range tokens {
		if !IsKnown(token) {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("custom marker %s is not in the catalog and needs an explicit field mapping", token))
		}
	}

	report.Valid = len(report.Errors) == 0
	return report
}
