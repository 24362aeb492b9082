// Package textcase normalizes identifiers between the naming conventions a
// scaffold has to juggle: CamelCase type names, snake_case file names,
// dash-case project names and Title Case headings.
package textcase

import (
	"regexp"
	"strings"
)

var (
	upperLower = regexp.MustCompile(`([A-Z][a-z])`)
	lowerUpper = regexp.MustCompile(`([a-z0-9])([A-Z])`)
	nonWord    = regexp.MustCompile(`[\W_]`)
	spaceRun   = regexp.MustCompile(`\s+`)
)

// Normalize reduces a value to space-separated words: CamelCase boundaries
// become spaces, every non-word character becomes a space, and runs of
// spaces collapse to one. Consecutive capitals (constants, acronyms) are
// kept together.
func Normalize(value string) string {
	value = upperLower.ReplaceAllString(value, ` $1`)
	value = lowerUpper.ReplaceAllString(value, `$1 $2`)
	value = nonWord.ReplaceAllString(value, " ")

	return spaceRun.ReplaceAllString(strings.TrimSpace(value), " ")
}

// Snake converts a value to snake_case.
func Snake(value string) string {
	return strings.ReplaceAll(strings.ToLower(Normalize(value)), " ", "_")
}

// Dash converts a value to dash-case.
func Dash(value string) string {
	return strings.ReplaceAll(strings.ToLower(Normalize(value)), " ", "-")
}

// Title converts a value to Title Case with single spaces.
func Title(value string) string {
	words := strings.Split(strings.ToLower(Normalize(value)), " ")
	for i, w := range words {
		if w == "" {
			continue
		}

		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}

	return strings.Join(words, " ")
}

// Camel converts a value to CamelCase.
func Camel(value string) string {
	return strings.ReplaceAll(Title(value), " ", "")
}
