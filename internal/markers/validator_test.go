package markers

import (
	"strings"
	"testing"
)

func TestValidate_EmptyContent(t *testing.T) {
	report := Validate("", nil)
	if report.Valid {
		t.Fatalf("expected invalid report for empty content")
	}
	if len(report.Errors) != 1 || !strings.Contains(report.Errors[0], "no content") {
		t.Fatalf("unexpected errors: %v", report.Errors)
	}
}

func TestValidate_NoMarkersIsWarningOnly(t *testing.T) {
	report := Validate("a fully static letter", nil)
	if !report.Valid {
		t.Fatalf("static template should still be valid: %v", report.Errors)
	}
	if len(report.Warnings) != 1 || !strings.Contains(report.Warnings[0], "no smart markers") {
		t.Fatalf("unexpected warnings: %v", report.Warnings)
	}
}

func TestValidate_CustomMarkerIsWarningNotError(t *testing.T) {
	content := "To whom it may concern: {{FOO_BAR}}"
	tokens := Scan(content)
	report := Validate(content, tokens)
	if !report.Valid {
		t.Fatalf("custom markers must not invalidate a template: %v", report.Errors)
	}
	if len(report.Errors) != 0 {
		t.Fatalf("expected no errors, got %v", report.Errors)
	}
	if len(report.Warnings) != 1 || !strings.Contains(report.Warnings[0], "{{FOO_BAR}}") {
		t.Fatalf("expected a custom-marker warning naming the token, got %v", report.Warnings)
	}
}

func TestValidate_KnownMarkersProduceNoWarnings(t *testing.T) {
	content := "Dear {{AGENCY_NAME}}, case {{CASE_NUMBER}}."
	report := Validate(content, Scan(content))
	if !report.Valid || len(report.Warnings) != 0 || len(report.Errors) != 0 {
		t.Fatalf("expected clean report, got %+v", report)
	}
}

func TestValidate_Deterministic(t *testing.T) {
	content := "{{AGENCY_NAME}} {{WEIRD_ONE}} {{ANOTHER_ODD}}"
	tokens := Scan(content)
	first := Validate(content, tokens)
	second := Validate(content, tokens)
	if len(first.Warnings) != len(second.Warnings) {
		t.Fatalf("validation not deterministic: %v vs %v", first.Warnings, second.Warnings)
	}
	for i := range first.Warnings {
		if first.Warnings[i] != second.Warnings[i] {
			t.Fatalf("warning order changed between runs")
		}
	}
}
