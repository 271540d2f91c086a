// Package inline resolves stylesheet rules into inline style attributes of a
// markup document.
package inline

import (
	"regexp"
	"strings"

	"github.com/foomo/snippet/markup"
	"github.com/foomo/snippet/selector"
	"github.com/foomo/snippet/stylesheet"
)

var styleBlockRegex = regexp.MustCompile(`(?is)<style\b[^>]*>(.*?)</style\s*>`)

// Stats of an Apply run
type Stats struct {
	Rules        int
	Matches      int
	Declarations int
	// Unsupported selectors, that matched nothing because of their shape
	Unsupported []string
}

// SplitStyleBlocks removes all <style> blocks from text and returns the
// remaining markup and the concatenated block contents in source order.
func SplitStyleBlocks(text string) (body, css string) {
	blocks := []string{}
	for _, m := range styleBlockRegex.FindAllStringSubmatch(text, -1) {
		blocks = append(blocks, m[1])
	}
	return styleBlockRegex.ReplaceAllString(text, ""), strings.Join(blocks, "\n")
}

// Apply every rule in source order to doc. Each declaration of a rule is
// appended to the inline style of every matching element, so later rules
// end up behind earlier ones and nothing gets replaced.
func Apply(doc *markup.Document, rules []stylesheet.Rule) (stats Stats) {
	stats.Unsupported = []string{}
	for _, rule := range rules {
		stats.Rules++
		sel := selector.Parse(rule.Selector)
		if !sel.Supported() {
			stats.Unsupported = append(stats.Unsupported, rule.Selector)
			continue
		}
		for _, el := range sel.Select(doc) {
			stats.Matches++
			for _, d := range rule.Declarations {
				el.AppendStyle(d.Property, d.Value)
				stats.Declarations++
			}
		}
	}
	return stats
}

// Resolve parses markupText, applies the rules from styleText and returns the
// serialized result. When the markup can not be parsed, nothing is applied
// and the *markup.ParseError is returned.
func Resolve(markupText, styleText string, opts ...markup.Option) (resolved string, stats Stats, err error) {
	doc, errParse := markup.Parse(markupText, opts...)
	if errParse != nil {
		return "", stats, errParse
	}
	stats = Apply(doc, stylesheet.Parse(styleText))
	return doc.String(), stats, nil
}
