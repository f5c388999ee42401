package render

import (
	"archive/zip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vasplink/internal/markers"
)

func writeTestDocx(t *testing.T, documentXML string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "template.docx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create docx: %v", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, body := range map[string]string{
		"[Content_Types].xml": `<?xml version="1.0"?><Types></Types>`,
		"word/document.xml":   documentXML,
	} {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create zip entry: %v", err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatalf("write zip entry: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return path
}

func readDocumentXML(t *testing.T, path string) string {
	t.Helper()

	r, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("open rendered docx: %v", err)
	}
	defer r.Close()

	for _, file := range r.File {
		if file.Name != "word/document.xml" {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			t.Fatalf("open document.xml: %v", err)
		}
		defer rc.Close()
		raw, err := io.ReadAll(rc)
		if err != nil {
			t.Fatalf("read document.xml: %v", err)
		}
		return string(raw)
	}
	t.Fatalf("rendered docx has no word/document.xml")
	return ""
}

func TestDocxRenderer_ContiguousToken(t *testing.T) {
	doc := `<w:document><w:body><w:p><w:r><w:t>Dear {{AGENCY_NAME}},</w:t></w:r></w:p></w:body></w:document>`
	input := writeTestDocx(t, doc)
	output := filepath.Join(t.TempDir(), "out.docx")

	r := NewDocxRenderer(input, output)
	if err := r.Render(map[string]string{"{{AGENCY_NAME}}": "FBI"}, nil); err != nil {
		t.Fatalf("render: %v", err)
	}

	got := readDocumentXML(t, output)
	if !strings.Contains(got, "Dear FBI,") {
		t.Fatalf("substitution missing: %q", got)
	}
	if strings.Contains(got, "{{AGENCY_NAME}}") {
		t.Fatalf("token survived: %q", got)
	}
}

func TestDocxRenderer_TokenSplitAcrossRuns(t *testing.T) {
	doc := `<w:document><w:body><w:p><w:r><w:t>Dear {{AGEN</w:t></w:r>` +
		`<w:r><w:rPr><w:b/></w:rPr><w:t>CY_NAME}}</w:t></w:r><w:r><w:t>,</w:t></w:r></w:p></w:body></w:document>`
	input := writeTestDocx(t, doc)
	output := filepath.Join(t.TempDir(), "out.docx")

	r := NewDocxRenderer(input, output)
	if err := r.Render(map[string]string{"{{AGENCY_NAME}}": "FBI"}, nil); err != nil {
		t.Fatalf("render: %v", err)
	}

	got := readDocumentXML(t, output)
	if !strings.Contains(got, "FBI") {
		t.Fatalf("split token not substituted: %q", got)
	}
	if strings.Contains(got, "AGEN") || strings.Contains(got, "CY_NAME") {
		t.Fatalf("token fragments survived: %q", got)
	}
}

func TestDocxRenderer_ValueEscapingAndLineBreaks(t *testing.T) {
	doc := `<w:document><w:body><w:p><w:r><w:t>{{AGENCY_ADDRESS}}</w:t></w:r></w:p></w:body></w:document>`
	input := writeTestDocx(t, doc)
	output := filepath.Join(t.TempDir(), "out.docx")

	r := NewDocxRenderer(input, output)
	value := "Main & 1st\nSuite <5>"
	if err := r.Render(map[string]string{"{{AGENCY_ADDRESS}}": value}, nil); err != nil {
		t.Fatalf("render: %v", err)
	}

	got := readDocumentXML(t, output)
	if !strings.Contains(got, "Main &amp; 1st") {
		t.Fatalf("ampersand not escaped: %q", got)
	}
	if !strings.Contains(got, "<w:br/>") {
		t.Fatalf("newline did not become a real break: %q", got)
	}
	if strings.Contains(got, "\nSuite") {
		t.Fatalf("literal newline survived inside run: %q", got)
	}
	if !strings.Contains(got, "Suite &lt;5&gt;") {
		t.Fatalf("angle brackets not escaped: %q", got)
	}
}

func TestDocxRenderer_TransactionLoop(t *testing.T) {
	doc := `<w:document><w:body>` +
		`<w:p><w:r><w:t>{{#TRANSACTIONS}}</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>{{TX_INDEX}}. {{TX_ID}} for {{TX_AMOUNT}} {{TX_CURRENCY}}</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>{{/TRANSACTIONS}}</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Regards</w:t></w:r></w:p>` +
		`</w:body></w:document>`
	input := writeTestDocx(t, doc)
	output := filepath.Join(t.TempDir(), "out.docx")

	txs := []markers.Transaction{
		{ID: "tx-btc", Date: "2024-01-02", Amount: "0.5", Currency: "BTC"},
		{ID: "tx-eth", Date: "2024-01-03", Amount: "12", Currency: "ETH"},
	}

	r := NewDocxRenderer(input, output)
	if err := r.Render(nil, txs); err != nil {
		t.Fatalf("render: %v", err)
	}

	got := readDocumentXML(t, output)
	if !strings.Contains(got, "1. tx-btc for 0.5 BTC") {
		t.Fatalf("first transaction row missing: %q", got)
	}
	if !strings.Contains(got, "2. tx-eth for 12 ETH") {
		t.Fatalf("second transaction row missing: %q", got)
	}
	if strings.Index(got, "tx-btc") > strings.Index(got, "tx-eth") {
		t.Fatalf("transaction order not preserved: %q", got)
	}
	if strings.Contains(got, "TRANSACTIONS}}") {
		t.Fatalf("loop tokens survived: %q", got)
	}
	if !strings.Contains(got, "Regards") {
		t.Fatalf("content after the loop was lost: %q", got)
	}
}

func TestDocxRenderer_EmptyLoopDropsBlock(t *testing.T) {
	doc := `<w:document><w:body>` +
		`<w:p><w:r><w:t>{{#TRANSACTIONS}}</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>{{TX_ID}}</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>{{/TRANSACTIONS}}</w:t></w:r></w:p>` +
		`</w:body></w:document>`
	input := writeTestDocx(t, doc)
	output := filepath.Join(t.TempDir(), "out.docx")

	r := NewDocxRenderer(input, output)
	if err := r.Render(nil, nil); err != nil {
		t.Fatalf("render: %v", err)
	}

	got := readDocumentXML(t, output)
	if strings.Contains(got, "TX_ID") || strings.Contains(got, "TRANSACTIONS") {
		t.Fatalf("empty loop block not dropped: %q", got)
	}
}

func TestDocxRenderer_UnterminatedLoopFails(t *testing.T) {
	doc := `<w:document><w:body><w:p><w:r><w:t>{{#TRANSACTIONS}} {{TX_ID}}</w:t></w:r></w:p></w:body></w:document>`
	input := writeTestDocx(t, doc)
	output := filepath.Join(t.TempDir(), "out.docx")

	r := NewDocxRenderer(input, output)
	err := r.Render(nil, []markers.Transaction{{ID: "tx-1"}})
	if !errors.Is(err, ErrMalformedLoop) {
		t.Fatalf("expected ErrMalformedLoop, got %v", err)
	}
	if _, statErr := os.Stat(output); !os.IsNotExist(statErr) {
		t.Fatalf("partial output written despite render failure")
	}
}

func TestDocxRenderer_ScratchDirStaysBesideOutputAndIsRemoved(t *testing.T) {
	doc := `<w:document><w:body><w:p><w:r><w:t>{{CASE_NUMBER}}</w:t></w:r></w:p></w:body></w:document>`
	input := writeTestDocx(t, doc)
	outDir := t.TempDir()
	output := filepath.Join(outDir, "out.docx")

	r := NewDocxRenderer(input, output)
	if filepath.Dir(r.tempDir) != outDir {
		t.Fatalf("scratch dir %q should live beside the output in %q", r.tempDir, outDir)
	}

	if err := r.Render(map[string]string{"{{CASE_NUMBER}}": "24-001"}, nil); err != nil {
		t.Fatalf("render: %v", err)
	}

	entries, err := os.ReadDir(outDir)
	if err != nil {
		t.Fatalf("read output dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "out.docx" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("output dir should hold only the rendered file, got %v", names)
	}
}
