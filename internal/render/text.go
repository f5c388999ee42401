package render

import "strings"

// RenderText performs straight global substitution of each marker token in
// plain-text or HTML template content. No escaping is applied; the output is
// handed downstream (e.g. to a PDF converter) as-is.
func RenderText(content string, values map[string]string) string {
	if len(values) == 0 {
		return content
	}

	pairs := make([]string, 0, len(values)*2)
	for token, value := range values {
		pairs = append(pairs, token, value)
	}
	return strings.NewReplacer(pairs...).Replace(content)
}
