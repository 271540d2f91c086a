// Package stylesheet parses a minimal stylesheet grammar: flat
// "selector { property: value; ... }" blocks without nesting.
package stylesheet

import (
	"regexp"
	"strings"
)

var (
	commentRegex = regexp.MustCompile(`(?s)/\*.*?\*/`)
	blockRegex   = regexp.MustCompile(`([^{]+)\{([^}]*)\}`)
)

// Declaration property: value
type Declaration struct {
	Property string
	Value    string
}

// Rule a selector and its declarations in source order
type Rule struct {
	Selector     string
	Declarations []Declaration
}

// Set a property, an existing property keeps its position and gets the new value
func (r *Rule) Set(property, value string) {
	for i := range r.Declarations {
		if r.Declarations[i].Property == property {
			r.Declarations[i].Value = value
			return
		}
	}
	r.Declarations = append(r.Declarations, Declaration{Property: property, Value: value})
}

// Get a property value
func (r *Rule) Get(property string) (value string, ok bool) {
	for _, d := range r.Declarations {
		if d.Property == property {
			return d.Value, true
		}
	}
	return "", false
}

// Parse text into rules. Comments are stripped first, then every
// "selector{body}" block is taken from left to right. A body is split on ";"
// and each segment on its first ":", segments without ":" are dropped.
// Nested braces are not supported, a selector never contains "{".
func Parse(text string) (rules []Rule) {
	rules = []Rule{}
	text = commentRegex.ReplaceAllString(text, "")
	for _, block := range blockRegex.FindAllStringSubmatch(text, -1) {
		rule := Rule{
			Selector:     strings.TrimSpace(block[1]),
			Declarations: []Declaration{},
		}
		if rule.Selector == "" {
			continue
		}
		for _, segment := range strings.Split(block[2], ";") {
			property, value, found := strings.Cut(segment, ":")
			if !found {
				continue
			}
			property = strings.TrimSpace(property)
			if property == "" {
				continue
			}
			rule.Set(property, strings.TrimSpace(value))
		}
		rules = append(rules, rule)
	}
	return rules
}
