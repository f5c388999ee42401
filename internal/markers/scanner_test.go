package markers

import (
	"reflect"
	"strings"
	"testing"
)

func TestScan_OrderAndDedup(t *testing.T) {
	content := "Dear {{AGENCY_NAME}}, re case {{CASE_NUMBER}} at {{AGENCY_NAME}}."
	got := Scan(content)
	want := []string{"{{AGENCY_NAME}}", "{{CASE_NUMBER}}"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Scan() = %v, want %v", got, want)
	}
}

func TestScan_NoMarkers(t *testing.T) {
	if got := Scan("plain letter body with no tokens"); len(got) != 0 {
		t.Fatalf("expected no tokens, got %v", got)
	}
	if got := Scan(""); len(got) != 0 {
		t.Fatalf("expected no tokens for empty content, got %v", got)
	}
}

func TestScan_MalformedDelimiters(t *testing.T) {
	cases := map[string][]string{
		"open only {{AGENCY_NAME":          nil,
		"close only AGENCY_NAME}}":         nil,
		"empty {{}} token":                 nil,
		"{{CASE_NUMBER}} then {{dangling":  {"{{CASE_NUMBER}}"},
		"dangling}} then {{CASE_NUMBER}}":  {"{{CASE_NUMBER}}"},
	}
	for content, want := range cases {
		got := Scan(content)
		if len(got) != len(want) {
			t.Fatalf("Scan(%q) = %v, want %v", content, got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("Scan(%q) = %v, want %v", content, got, want)
			}
		}
	}
}

func TestScan_LoneBracesInsideToken(t *testing.T) {
	cases := map[string][]string{
		"prefix {{A{B}} suffix": {"{{A{B}}"},
		"prefix {{A}B}} suffix": {"{{A}B}}"},
		// The first "}}" closes the token.
		"{{A}}} tail": {"{{A}}"},
	}
	for content, want := range cases {
		got := Scan(content)
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("Scan(%q) = %v, want %v", content, got, want)
		}
	}
}

func TestScan_Idempotent(t *testing.T) {
	content := "{{A}} {{B}} {{A}} {{C}} text {{B}}"
	first := Scan(content)
	second := Scan(content)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated scans differ: %v vs %v", first, second)
	}
	// Scanning the joined marker list reproduces it.
	rescanned := Scan(strings.Join(first, " "))
	if !reflect.DeepEqual(first, rescanned) {
		t.Fatalf("rescan of own output differs: %v vs %v", first, rescanned)
	}
}
