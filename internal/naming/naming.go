// Package naming transforms hardware description identifiers into valid
// output-language identifiers.
package naming

import (
	"strings"
	"unicode"
)

// Convention defines the case convention applied to emitted identifiers.
type Convention string

const (
	// KeepCase keeps the identifier casing of the hardware description.
	KeepCase Convention = "keep"
	// PascalCase converts identifiers to PascalCase.
	PascalCase Convention = "pascal"
	// SnakeCase converts identifiers to snake_case.
	SnakeCase Convention = "snake"
	// ScreamingCase converts identifiers to SCREAMING_CASE.
	ScreamingCase Convention = "screaming"
)

// ConventionFromString returns the convention matching the given flag value.
func ConventionFromString(s string) (Convention, bool) {
	switch Convention(strings.ToLower(s)) {
	case "", KeepCase:
		return KeepCase, true
	case PascalCase:
		return PascalCase, true
	case SnakeCase:
		return SnakeCase, true
	case ScreamingCase:
		return ScreamingCase, true
	default:
		return "", false
	}
}

// Apply sanitizes the identifier and applies the case convention.
func Apply(convention Convention, name string) string {
	name = Sanitize(name)

	switch convention {
	case PascalCase:
		// case transforms can drop a protecting underscore prefix,
		// sanitize again to keep a leading digit covered
		return Sanitize(pascal(name))
	case SnakeCase:
		return Sanitize(strings.ToLower(snake(name)))
	case ScreamingCase:
		return Sanitize(strings.ToUpper(snake(name)))
	default:
		return name
	}
}

// Sanitize turns an arbitrary hardware description name into a valid
// identifier: invalid runes are replaced by underscores and a leading digit
// gets an underscore prefix.
func Sanitize(name string) string {
	var sb strings.Builder
	for _, r := range name {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
		} else {
			sb.WriteRune('_')
		}
	}

	s := sb.String()
	if s == "" {
		return "_unnamed"
	}
	if unicode.IsDigit(rune(s[0])) {
		return "_" + s
	}
	return s
}

// splitWords splits an identifier into words at underscores and at
// lower-to-upper case boundaries.
func splitWords(name string) []string {
	var words []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			words = append(words, current.String())
			current.Reset()
		}
	}

	runes := []rune(name)
	for i, r := range runes {
		switch {
		case r == '_':
			flush()
		case unicode.IsUpper(r) && i > 0 && unicode.IsLower(runes[i-1]):
			flush()
			current.WriteRune(r)
		default:
			current.WriteRune(r)
		}
	}
	flush()
	return words
}

func pascal(name string) string {
	var sb strings.Builder
	for _, word := range splitWords(name) {
		sb.WriteString(strings.ToUpper(word[:1]))
		sb.WriteString(strings.ToLower(word[1:]))
	}
	if sb.Len() == 0 {
		return name
	}
	return sb.String()
}

func snake(name string) string {
	words := splitWords(name)
	if len(words) == 0 {
		return name
	}
	return strings.Join(words, "_")
}
