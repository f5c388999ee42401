package render

import (
	"strings"
	"testing"
	"time"

	"vasplink/internal/markers"
)

func TestRenderText_BasicSubstitution(t *testing.T) {
	content := "Dear {{AGENCY_NAME}}, case {{CASE_NUMBER}}."
	data := markers.CaseData{Fields: map[string]string{
		"agencyName": "FBI",
		"caseNumber": "24-001",
	}}
	values := markers.Resolve(data, nil, time.Now())

	got := RenderText(content, values)
	if got != "Dear FBI, case 24-001." {
		t.Fatalf("rendered = %q", got)
	}
}

func TestRenderText_RoundTripLeavesNoTokens(t *testing.T) {
	var b strings.Builder
	for _, entry := range markers.Catalog() {
		b.WriteString(entry.Token)
		b.WriteString("\n")
	}
	content := b.String()

	data := markers.CaseData{
		Fields: map[string]string{
			"agencyName": "x", "agencyAddress": "x", "agencyContact": "x",
			"agencyPhone": "x", "agencyEmail": "x", "caseNumber": "x",
			"caseType": "x", "crimeDescription": "x", "statute": "x",
			"investigatorName": "x", "investigatorTitle": "x",
			"investigatorBadge": "x", "investigatorPhone": "x",
			"investigatorEmail": "x", "vaspName": "x", "vaspLegalName": "x",
			"vaspAddress": "x", "vaspEmail": "x", "signatureBlock": "x",
			"customField1": "x", "customField2": "x", "customField3": "x",
		},
		Transactions:  []markers.Transaction{{ID: "t1", Date: "2024-01-01", Amount: "1", Currency: "BTC"}},
		RequestedInfo: []string{"kyc_info"},
	}
	values := markers.Resolve(data, nil, time.Now())

	got := RenderText(content, values)
	for _, entry := range markers.Catalog() {
		if strings.Contains(got, entry.Token) {
			t.Fatalf("token %s survived rendering", entry.Token)
		}
	}
}

func TestRenderText_GlobalReplacement(t *testing.T) {
	content := "{{CASE_NUMBER}} and again {{CASE_NUMBER}}"
	got := RenderText(content, map[string]string{"{{CASE_NUMBER}}": "24-002"})
	if got != "24-002 and again 24-002" {
		t.Fatalf("rendered = %q", got)
	}
}

func TestRenderText_UnknownTokensSurvive(t *testing.T) {
	content := "keep {{SOMETHING_UNMAPPED}} as-is"
	got := RenderText(content, map[string]string{"{{CASE_NUMBER}}": "x"})
	if got != content {
		t.Fatalf("rendered = %q", got)
	}
}

func TestGenerateFilename(t *testing.T) {
	now := time.Unix(1710000000, 0)
	got := GenerateFilename("subpoena", "24/001 A", "docx", now)
	want := "subpoena_24-001-A_1710000000.docx"
	if got != want {
		t.Fatalf("filename = %q, want %q", got, want)
	}

	got = GenerateFilename("letterhead", "", "pdf", now)
	if got != "letterhead_no-case_1710000000.pdf" {
		t.Fatalf("filename = %q", got)
	}
}
