// Package markup holds a small owned element tree, a lenient parser that fills
// it from markup snippets and a serializer that writes it back.
package markup

import (
	"strings"
)

const (
	attrID    = "id"
	attrClass = "class"
	attrStyle = "style"
)

// Node is either an *Element or a *Text
type Node interface {
	node()
}

// Attribute of an element, names are unique within one element
type Attribute struct {
	Key string
	Val string
}

// Element owns its attributes and children, there are no parent links
type Element struct {
	Tag         string
	Attrs       []Attribute
	Children    []Node
	SelfClosing bool
}

// Text is an opaque piece of the input (text, comment, doctype), written back verbatim
type Text struct {
	Data string
}

func (*Element) node() {}
func (*Text) node()    {}

// Document is the root of a parsed snippet
type Document struct {
	Nodes []Node
}

// Attr returns the value of the attribute name
func (el *Element) Attr(name string) (val string, ok bool) {
	i := el.attrIndex(name)
	if i < 0 {
		return "", false
	}
	return el.Attrs[i].Val, true
}

// SetAttr replaces the value of an existing attribute or appends a new one
func (el *Element) SetAttr(name, val string) {
	i := el.attrIndex(name)
	if i < 0 {
		el.Attrs = append(el.Attrs, Attribute{Key: name, Val: val})
		return
	}
	el.Attrs[i].Val = val
}

func (el *Element) attrIndex(name string) int {
	for i, attr := range el.Attrs {
		if strings.EqualFold(attr.Key, name) {
			return i
		}
	}
	return -1
}

// ID value of the id attribute
func (el *Element) ID() string {
	id, _ := el.Attr(attrID)
	return id
}

// HasClass is true, if name is one of the whitespace separated tokens of the
// class attribute. Comparison is case sensitive.
func (el *Element) HasClass(name string) bool {
	classes, ok := el.Attr(attrClass)
	if !ok || name == "" {
		return false
	}
	for _, class := range strings.Fields(classes) {
		if class == name {
			return true
		}
	}
	return false
}

// IsTag compares the tag name case insensitive
func (el *Element) IsTag(name string) bool {
	return strings.EqualFold(el.Tag, name)
}

// Style returns the current inline style value
func (el *Element) Style() string {
	style, _ := el.Attr(attrStyle)
	return style
}

// AppendStyle appends "property: value; " to the inline style. Earlier
// declarations are never touched, so repeated properties show up repeatedly.
func (el *Element) AppendStyle(property, value string) {
	style, ok := el.Attr(attrStyle)
	if !ok {
		el.Attrs = append(el.Attrs, Attribute{Key: attrStyle})
	}
	if trimmed := strings.TrimRight(style, " \t\r\n"); trimmed != "" && !strings.HasSuffix(trimmed, ";") {
		style = trimmed + "; "
	}
	el.SetAttr(attrStyle, style+property+": "+value+"; ")
}

// Walk visits el and all its descendant elements in document order, until fn
// returns false. The result is false, if the walk was stopped.
func (el *Element) Walk(fn func(el *Element) bool) bool {
	if !fn(el) {
		return false
	}
	return walkNodes(el.Children, fn)
}

// Walk visits all elements of the document in document order
func (doc *Document) Walk(fn func(el *Element) bool) {
	walkNodes(doc.Nodes, fn)
}

// Elements lists all elements in document order
func (doc *Document) Elements() (elements []*Element) {
	elements = []*Element{}
	doc.Walk(func(el *Element) bool {
		elements = append(elements, el)
		return true
	})
	return
}

func walkNodes(nodes []Node, fn func(el *Element) bool) bool {
	for _, n := range nodes {
		if el, ok := n.(*Element); ok {
			if !el.Walk(fn) {
				return false
			}
		}
	}
	return true
}

var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

func isVoid(tag string) bool {
	return voidElements[strings.ToLower(tag)]
}
