// Package classify guesses the language of a text snippet from a fixed,
// ordered list of signatures.
package classify

import (
	"regexp"
	"strings"
)

// Language result of a classification
type Language string

const (
	LanguageMarkup      Language = "markup"
	LanguageMarkupStyle Language = "markup+style"
	LanguageStyle       Language = "style"
	LanguageQuery       Language = "query"
	LanguageUnknown     Language = "unknown"
)

// Languages lists every possible result
var Languages = []Language{
	LanguageMarkup,
	LanguageMarkupStyle,
	LanguageStyle,
	LanguageQuery,
	LanguageUnknown,
}

// StyleBlockMarker turns markup into markup+style
const StyleBlockMarker = "<style>"

var (
	// <pre> or <header> do not count as <p> or <h1>
	markupTagRegex  = regexp.MustCompile(`(?i)</?(html|head|body|div|p|span|h1|style)(\s|/|>|$)`)
	markupRootRegex = regexp.MustCompile(`(?i)^<\s*html`)
	queryRegex      = regexp.MustCompile(`(?i)^(SELECT|INSERT|UPDATE|DELETE|CREATE|DROP|ALTER)\b`)
)

// Signature a pure predicate on the trimmed text
type Signature struct {
	Language Language
	Match    func(trimmed string) bool
}

// IsMarkup the text starts like a html document or contains a structural tag
func IsMarkup(trimmed string) bool {
	return markupRootRegex.MatchString(trimmed) || markupTagRegex.MatchString(trimmed)
}

// IsMarkupStyle markup with an embedded style block
func IsMarkupStyle(trimmed string) bool {
	return IsMarkup(trimmed) && strings.Contains(trimmed, StyleBlockMarker)
}

// IsQuery the text starts with a query keyword
func IsQuery(trimmed string) bool {
	return queryRegex.MatchString(trimmed)
}

// IsStyle there is a "{" with a "}" somewhere after it
func IsStyle(trimmed string) bool {
	open := strings.Index(trimmed, "{")
	return open > -1 && strings.LastIndex(trimmed, "}") > open
}

// signatures in priority order, the first match wins. Markup must come before
// style, snippets with tags often contain braces as well.
var signatures = []Signature{
	{Language: LanguageMarkupStyle, Match: IsMarkupStyle},
	{Language: LanguageMarkup, Match: IsMarkup},
	{Language: LanguageQuery, Match: IsQuery},
	{Language: LanguageStyle, Match: IsStyle},
}

// Signatures returns a copy of the ordered signature list
func Signatures() []Signature {
	return append([]Signature{}, signatures...)
}

// Classify never fails, if no signature matches the result is LanguageUnknown
func Classify(text string) Language {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return LanguageUnknown
	}
	for _, s := range signatures {
		if s.Match(trimmed) {
			return s.Language
		}
	}
	return LanguageUnknown
}
