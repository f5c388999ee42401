package render

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"vasplink/internal/markers"
)

const (
	loopBeginToken = "{{#TRANSACTIONS}}"
	loopEndToken   = "{{/TRANSACTIONS}}"
)

// ErrMalformedLoop is returned when a transaction block is opened without
// being closed (or closed without being opened). A malformed loop fails the
// whole render; no partial document is produced.
var ErrMalformedLoop = errors.New("malformed transaction block")

// DocxRenderer rewrites the document XML inside a DOCX zip container,
// substituting resolved marker values and expanding transaction loop blocks.
// Each renderer owns a private scratch directory for the unpacked archive,
// placed beside the output file so it never escapes the caller's work area.
type DocxRenderer struct {
	inputFile  string
	outputFile string
	tempDir    string
}

func NewDocxRenderer(inputFile, outputFile string) *DocxRenderer {
	return &DocxRenderer{
		inputFile:  inputFile,
		outputFile: outputFile,
		tempDir:    filepath.Join(filepath.Dir(outputFile), fmt.Sprintf("docx_render_%d", time.Now().UnixNano())),
	}
}

// Render unpacks the template, rewrites word/document.xml and repacks the
// archive at the output path. Any failure aborts without writing output.
func (r *DocxRenderer) Render(values map[string]string, txs []markers.Transaction) error {
	if err := r.unzip(); err != nil {
		return err
	}
	defer r.cleanup()

	if err := r.rewriteDocument(values, txs); err != nil {
		return err
	}

	return r.rezip()
}

func (r *DocxRenderer) unzip() error {
	reader, err := zip.OpenReader(r.inputFile)
	if err != nil {
		return fmt.Errorf("failed to open docx file: %w", err)
	}
	defer reader.Close()

	if err := os.MkdirAll(r.tempDir, 0o755); err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}

	for _, file := range reader.File {
		if err := r.extractFile(file); err != nil {
			return fmt.Errorf("failed to extract %s: %w", file.Name, err)
		}
	}

	return nil
}

func (r *DocxRenderer) extractFile(file *zip.File) error {
	rc, err := file.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	path := filepath.Join(r.tempDir, file.Name)

	if file.FileInfo().IsDir() {
		return os.MkdirAll(path, file.FileInfo().Mode())
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	outFile, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, file.FileInfo().Mode())
	if err != nil {
		return err
	}
	defer outFile.Close()

	_, err = io.Copy(outFile, rc)
	return err
}

func (r *DocxRenderer) rewriteDocument(values map[string]string, txs []markers.Transaction) error {
	documentPath := filepath.Join(r.tempDir, "word", "document.xml")

	raw, err := os.ReadFile(documentPath)
	if err != nil {
		return fmt.Errorf("failed to read document.xml: %w", err)
	}

	content, err := expandTransactionLoops(string(raw), txs)
	if err != nil {
		return err
	}

	for token, value := range values {
		content = replaceTokenXML(content, token, encodeValue(value))
	}

	if err := os.WriteFile(documentPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write document.xml: %w", err)
	}

	return nil
}

func (r *DocxRenderer) rezip() error {
	outputFile, err := os.Create(r.outputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer outputFile.Close()

	zipWriter := zip.NewWriter(outputFile)
	defer zipWriter.Close()

	return filepath.Walk(r.tempDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		relPath, err := filepath.Rel(r.tempDir, path)
		if err != nil {
			return err
		}

		zipFile, err := zipWriter.Create(filepath.ToSlash(relPath))
		if err != nil {
			return err
		}

		file, err := os.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()

		_, err = io.Copy(zipFile, file)
		return err
	})
}

func (r *DocxRenderer) cleanup() {
	os.RemoveAll(r.tempDir)
}

// expandTransactionLoops duplicates the paragraphs between the loop begin and
// end tokens once per transaction, substituting the per-transaction markers
// in each copy. With no transactions the whole block is dropped.
func expandTransactionLoops(content string, txs []markers.Transaction) (string, error) {
	for {
		beginStart, beginEnd, found := findTokenXML(content, loopBeginToken, 0)
		endStart, endEnd, endFound := findTokenXML(content, loopEndToken, 0)

		if !found {
			if endFound {
				return "", fmt.Errorf("%w: %s without %s", ErrMalformedLoop, loopEndToken, loopBeginToken)
			}
			return content, nil
		}
		if !endFound || endStart < beginEnd {
			return "", fmt.Errorf("%w: %s without matching %s", ErrMalformedLoop, loopBeginToken, loopEndToken)
		}

		// Widen the block to whole paragraphs so each repetition keeps the
		// template's paragraph formatting.
		blockStart := paragraphStart(content, beginStart)
		blockEnd := paragraphEnd(content, endEnd)
		block := content[blockStart:blockEnd]

		var expanded strings.Builder
		for i, tx := range txs {
			copyBlock := replaceTokenXML(block, loopBeginToken, "")
			copyBlock = replaceTokenXML(copyBlock, loopEndToken, "")
			for token, value := range markers.TransactionFields(tx, i) {
				copyBlock = replaceTokenXML(copyBlock, token, encodeValue(value))
			}
			expanded.WriteString(copyBlock)
		}

		content = content[:blockStart] + expanded.String() + content[blockEnd:]
	}
}

func paragraphStart(content string, pos int) int {
	if start := strings.LastIndex(content[:pos], "<w:p "); start != -1 {
		if alt := strings.LastIndex(content[:pos], "<w:p>"); alt > start {
			return alt
		}
		return start
	}
	if start := strings.LastIndex(content[:pos], "<w:p>"); start != -1 {
		return start
	}
	return pos
}

func paragraphEnd(content string, pos int) int {
	if end := strings.Index(content[pos:], "</w:p>"); end != -1 {
		return pos + end + len("</w:p>")
	}
	return pos
}

// replaceTokenXML substitutes every occurrence of token with value, matching
// tokens even when their characters are split across formatting runs. XML
// tags inside a matched span are dropped together with the token, which
// leaves the surrounding run structure balanced.
func replaceTokenXML(content, token, value string) string {
	// Fast path: contiguous occurrences.
	if strings.Contains(content, token) {
		content = strings.ReplaceAll(content, token, value)
	}

	contentRunes := []rune(content)
	tokenRunes := []rune(token)
	if len(tokenRunes) == 0 {
		return content
	}

	var result []rune
	inTag := false
	i := 0
	for i < len(contentRunes) {
		char := contentRunes[i]
		if char == '<' {
			inTag = true
		} else if char == '>' {
			inTag = false
		}

		if !inTag && char == tokenRunes[0] {
			if matched, matchEnd := matchTokenAt(contentRunes, i, tokenRunes); matched {
				if result == nil {
					result = append(result, contentRunes[:i]...)
				}
				result = append(result, []rune(value)...)
				i = matchEnd
				continue
			}
		}

		if result != nil {
			result = append(result, char)
		}
		i++
	}

	if result == nil {
		return content
	}
	return string(result)
}

// findTokenXML locates the first occurrence of token at or after from,
// using the same run-splitting-tolerant matching as replaceTokenXML. The
// returned bounds are rune offsets converted back to byte offsets.
func findTokenXML(content, token string, from int) (int, int, bool) {
	contentRunes := []rune(content)
	tokenRunes := []rune(token)
	if len(tokenRunes) == 0 || from >= len(content) {
		return 0, 0, false
	}

	// Byte offset per rune index, so callers can slice the original string.
	byteOffsets := make([]int, len(contentRunes)+1)
	offset := 0
	for i, r := range contentRunes {
		byteOffsets[i] = offset
		offset += len(string(r))
	}
	byteOffsets[len(contentRunes)] = offset

	inTag := false
	for i := 0; i < len(contentRunes); i++ {
		char := contentRunes[i]
		if char == '<' {
			inTag = true
		} else if char == '>' {
			inTag = false
		}
		if byteOffsets[i] < from || inTag || char != tokenRunes[0] {
			continue
		}
		if matched, matchEnd := matchTokenAt(contentRunes, i, tokenRunes); matched {
			return byteOffsets[i], byteOffsets[matchEnd], true
		}
	}

	return 0, 0, false
}

// matchTokenAt attempts to match tokenRunes starting at startPos, skipping
// characters that are inside XML tags.
func matchTokenAt(content []rune, startPos int, tokenRunes []rune) (bool, int) {
	tokenIdx := 0
	pos := startPos
	inTag := false

	for pos < len(content) && tokenIdx < len(tokenRunes) {
		char := content[pos]

		if char == '<' {
			inTag = true
		} else if char == '>' {
			inTag = false
		} else if !inTag {
			if char != tokenRunes[tokenIdx] {
				return false, startPos
			}
			tokenIdx++
		}

		pos++
	}

	return tokenIdx == len(tokenRunes), pos
}

// encodeValue makes a resolved value safe for insertion into a w:t run:
// XML-escaped, with embedded newlines emitted as real line breaks rather than
// literal "\n" text.
func encodeValue(value string) string {
	escaped := xmlEscape(value)
	if !strings.Contains(escaped, "\n") {
		return escaped
	}
	escaped = strings.ReplaceAll(escaped, "\r\n", "\n")
	return strings.ReplaceAll(escaped, "\n", "</w:t><w:br/><w:t xml:space=\"preserve\">")
}

func xmlEscape(value string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&apos;",
	)
	return replacer.Replace(value)
}

// GenerateFilename builds a deliverable filename embedding the document
// category, the case number and a timestamp uniqueness token.
func GenerateFilename(category, caseNumber, ext string, now time.Time) string {
	if caseNumber == "" {
		caseNumber = "no-case"
	}
	sanitizer := strings.NewReplacer(" ", "-", "/", "-", "\\", "-", ":", "-")
	return fmt.Sprintf("%s_%s_%d.%s", category, sanitizer.Replace(caseNumber), now.Unix(), ext)
}
