// Package extract recovers plain-text content from uploaded template files so
// markers can be scanned and previews rendered regardless of source format.
package extract

import (
	"archive/zip"
	"errors"
	"fmt"
	"html"
	"io"
	"os"
	"strings"

	"vasplink/internal/models"
)

// ErrUnsupportedType is returned for file types the extractor does not handle.
var ErrUnsupportedType = errors.New("unsupported file type")

// Extract returns the visible text content of the file at path. Marker tokens
// survive extraction verbatim, including tokens split across DOCX formatting
// runs, because run boundaries carry no text of their own.
func Extract(path, fileType string) (string, error) {
	switch fileType {
	case models.FileTypeDocx:
		return extractDocx(path)
	case models.FileTypeHTML:
		raw, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read html file: %w", err)
		}
		return FromHTML(string(raw)), nil
	case models.FileTypeTxt:
		raw, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read text file: %w", err)
		}
		return string(raw), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, fileType)
	}
}

func extractDocx(path string) (string, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("failed to open docx archive: %w", err)
	}
	defer reader.Close()

	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return "", fmt.Errorf("failed to open document.xml: %w", err)
		}
		defer rc.Close()

		raw, err := io.ReadAll(rc)
		if err != nil {
			return "", fmt.Errorf("failed to read document.xml: %w", err)
		}
		return FromDocumentXML(string(raw)), nil
	}

	return "", fmt.Errorf("docx archive has no word/document.xml")
}

// FromDocumentXML converts WordprocessingML to plain text. Paragraph ends,
// explicit breaks and tabs become newlines/tabs before tags are stripped, so
// the result keeps the document's visible line structure.
func FromDocumentXML(xmlContent string) string {
	replacer := strings.NewReplacer(
		"</w:p>", "\n",
		"<w:br/>", "\n",
		"<w:br />", "\n",
		"<w:cr/>", "\n",
		"<w:tab/>", "\t",
	)
	normalized := replacer.Replace(xmlContent)
	return html.UnescapeString(stripTags(normalized))
}

// FromHTML strips markup from an HTML template and unescapes entities.
func FromHTML(htmlContent string) string {
	replacer := strings.NewReplacer(
		"<br>", "\n",
		"<br/>", "\n",
		"<br />", "\n",
		"</p>", "\n",
		"</div>", "\n",
	)
	normalized := replacer.Replace(htmlContent)
	return html.UnescapeString(stripTags(normalized))
}

// stripTags drops everything between < and >. Text split across adjacent
// elements is joined with nothing in between, which is what keeps split
// marker tokens intact.
func stripTags(content string) string {
	var b strings.Builder
	b.Grow(len(content))
	inTag := false

	for _, char := range content {
		switch {
		case char == '<':
			inTag = true
		case char == '>':
			inTag = false
		case !inTag:
			b.WriteRune(char)
		}
	}

	return b.String()
}
