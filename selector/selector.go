// Package selector matches simple selectors against a markup document.
//
// Only five shapes are understood: "#id", ".class", "tag", "tag.class" and
// "tag#id". Everything else (combinators, groups, pseudo classes, attribute
// selectors) is KindUnsupported and matches nothing.
package selector

import (
	"regexp"
	"strings"

	"github.com/foomo/snippet/markup"
)

// Kind of a selector
type Kind int

const (
	KindUnsupported Kind = iota
	KindID
	KindClass
	KindTag
	KindTagClass
	KindTagID
)

func (k Kind) String() string {
	switch k {
	case KindID:
		return "id"
	case KindClass:
		return "class"
	case KindTag:
		return "tag"
	case KindTagClass:
		return "tag.class"
	case KindTagID:
		return "tag#id"
	default:
		return "unsupported"
	}
}

var nameRegex = regexp.MustCompile(`^-?[A-Za-z_][A-Za-z0-9_-]*$`)

// Selector a classified selector string
type Selector struct {
	Raw   string
	Kind  Kind
	Tag   string
	Class string
	ID    string
}

// Supported is false for selectors, that match nothing
func (s Selector) Supported() bool {
	return s.Kind != KindUnsupported
}

// Parse classifies raw using a fixed chain: a leading "#", a leading ".",
// a "." after a tag, a "#" after a tag and finally a plain tag.
func Parse(raw string) (s Selector) {
	s = Selector{Raw: raw}
	trimmed := strings.TrimSpace(raw)
	switch {
	case strings.HasPrefix(trimmed, "#"):
		s.Kind, s.ID = KindID, trimmed[1:]
	case strings.HasPrefix(trimmed, "."):
		s.Kind, s.Class = KindClass, trimmed[1:]
	case strings.Contains(trimmed, "."):
		s.Kind = KindTagClass
		s.Tag, s.Class, _ = strings.Cut(trimmed, ".")
	case strings.Contains(trimmed, "#"):
		s.Kind = KindTagID
		s.Tag, s.ID, _ = strings.Cut(trimmed, "#")
	default:
		s.Kind, s.Tag = KindTag, trimmed
	}
	if !s.valid() {
		s.Kind = KindUnsupported
	}
	return s
}

func (s Selector) valid() bool {
	switch s.Kind {
	case KindID:
		return validName(s.ID)
	case KindClass:
		return validName(s.Class)
	case KindTag:
		return validName(s.Tag)
	case KindTagClass:
		return validName(s.Tag) && validName(s.Class)
	case KindTagID:
		return validName(s.Tag) && validName(s.ID)
	}
	return false
}

func validName(name string) bool {
	return nameRegex.MatchString(name)
}

// Matches tests a single element
func (s Selector) Matches(el *markup.Element) bool {
	switch s.Kind {
	case KindID:
		return el.ID() == s.ID
	case KindClass:
		return el.HasClass(s.Class)
	case KindTag:
		return el.IsTag(s.Tag)
	case KindTagClass:
		return el.IsTag(s.Tag) && el.HasClass(s.Class)
	case KindTagID:
		return el.IsTag(s.Tag) && el.ID() == s.ID
	}
	return false
}

// first is true for shapes that select at most one element
func (s Selector) first() bool {
	return s.Kind == KindID || s.Kind == KindTagID
}

// Select all matching elements of doc in document order. Id shapes return
// the first match only.
func (s Selector) Select(doc *markup.Document) (elements []*markup.Element) {
	elements = []*markup.Element{}
	if !s.Supported() || doc == nil {
		return
	}
	doc.Walk(func(el *markup.Element) bool {
		if s.Matches(el) {
			elements = append(elements, el)
			return !s.first()
		}
		return true
	})
	return
}

// Match parses raw and selects from doc
func Match(doc *markup.Document, raw string) []*markup.Element {
	return Parse(raw).Select(doc)
}
