package markers

import "regexp"

// A token is "{{", one or more characters up to the first "}}", then "}}".
// Lone braces inside a token are allowed; tokens do not span lines.
var tokenPattern = regexp.MustCompile(`\{\{.+?\}\}`)

// Scan extracts every {{...}} token from content, preserving first-occurrence
// order and dropping duplicates. Unbalanced fragments (an opening "{{" that
// never closes, or a stray "}}") simply never match; they are ignored rather
// than treated as an error.
func Scan(content string) []string {
	var tokens []string
	seen := make(map[string]bool)

	for _, token := range tokenPattern.FindAllString(content, -1) {
		if !seen[token] {
			tokens = append(tokens, token)
			seen[token] = true
		}
	}

	return tokens
}
