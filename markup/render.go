package markup

import (
	"bufio"
	"io"
	"strings"
)

var attrEscaper = strings.NewReplacer(`&`, "&amp;", `"`, "&quot;")

// Render writes the document back as markup. Text is written verbatim, tags
// keep their case, attribute values are double quoted and escaped.
func (doc *Document) Render(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, n := range doc.Nodes {
		if err := renderNode(bw, n); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func (doc *Document) String() string {
	sb := &strings.Builder{}
	_ = doc.Render(sb)
	return sb.String()
}

func renderNode(w *bufio.Writer, n Node) error {
	switch n := n.(type) {
	case *Text:
		_, err := w.WriteString(n.Data)
		return err
	case *Element:
		return renderElement(w, n)
	}
	return nil
}

func renderElement(w *bufio.Writer, el *Element) error {
	w.WriteByte('<')
	w.WriteString(el.Tag)
	for _, attr := range el.Attrs {
		w.WriteByte(' ')
		w.WriteString(attr.Key)
		w.WriteString(`="`)
		w.WriteString(attrEscaper.Replace(attr.Val))
		w.WriteByte('"')
	}
	if el.SelfClosing {
		_, err := w.WriteString("/>")
		return err
	}
	w.WriteByte('>')
	if isVoid(el.Tag) {
		return nil
	}
	for _, child := range el.Children {
		if err := renderNode(w, child); err != nil {
			return err
		}
	}
	w.WriteString("</")
	w.WriteString(el.Tag)
	_, err := w.WriteString(">")
	return err
}
