package markup

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"golang.org/x/net/html"
)

const (
	DefaultMaxBytes = 1 << 20
	DefaultMaxDepth = 512
)

var (
	// ErrTooLarge input exceeds the configured size limit
	ErrTooLarge = errors.New("markup too large")
	// ErrTooDeep elements are nested deeper than the configured limit
	ErrTooDeep = errors.New("markup nested too deep")
)

// ParseError is only returned, when the input could not be tokenized at all.
// Structural problems like unclosed or unknown tags are not errors.
type ParseError struct {
	Offset int
	Detail string
	Err    error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprint("offset ", e.Offset, ": ", e.Err.Error())
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

type options struct {
	maxBytes int
	maxDepth int
}

// Option for Parse
type Option func(o *options)

// WithMaxBytes limits the size of the input, 0 disables the limit
func WithMaxBytes(maxBytes int) Option {
	return func(o *options) {
		o.maxBytes = maxBytes
	}
}

// WithMaxDepth limits the nesting of elements, 0 disables the limit
func WithMaxDepth(maxDepth int) Option {
	return func(o *options) {
		o.maxDepth = maxDepth
	}
}

type parser struct {
	doc      *Document
	open     []*Element
	maxDepth int
}

// Parse text into a document. The grammar is lenient: unclosed tags are closed
// at the end of their parent, stray end tags are dropped and unknown tags are
// kept as they are. Tag names keep the case they were typed in.
func Parse(text string, opts ...Option) (doc *Document, err error) {
	o := &options{
		maxBytes: DefaultMaxBytes,
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.maxBytes > 0 && len(text) > o.maxBytes {
		return nil, &ParseError{
			Err:    ErrTooLarge,
			Detail: humanize.Bytes(uint64(len(text))) + " exceeds the limit of " + humanize.Bytes(uint64(o.maxBytes)),
		}
	}
	p := &parser{
		doc:      &Document{},
		maxDepth: o.maxDepth,
	}
	// the length check above bounds every token, the tokenizer buffer stays unlimited
	z := html.NewTokenizer(strings.NewReader(text))
	offset := 0
	for {
		tt := z.Next()
		// TagName lower cases the buffer in place, so copy the raw token first
		raw := string(z.Raw())
		switch tt {
		case html.ErrorToken:
			errTokenize := z.Err()
			if errTokenize == io.EOF {
				return p.doc, nil
			}
			return nil, &ParseError{Offset: offset, Err: errTokenize}
		case html.StartTagToken, html.SelfClosingTagToken:
			el := &Element{
				Tag:         rawTagName(raw),
				SelfClosing: tt == html.SelfClosingTagToken,
			}
			_, hasAttr := z.TagName()
			for hasAttr {
				var key, val []byte
				key, val, hasAttr = z.TagAttr()
				if _, exists := el.Attr(string(key)); !exists {
					el.Attrs = append(el.Attrs, Attribute{Key: string(key), Val: string(val)})
				}
			}
			p.add(el)
			if tt == html.StartTagToken && !isVoid(el.Tag) {
				if p.maxDepth > 0 && len(p.open) >= p.maxDepth {
					return nil, &ParseError{
						Offset: offset,
						Err:    ErrTooDeep,
						Detail: fmt.Sprint("more than ", p.maxDepth, " open elements at <", el.Tag, ">"),
					}
				}
				p.open = append(p.open, el)
			}
		case html.EndTagToken:
			p.close(rawTagName(raw))
		default:
			p.add(&Text{Data: raw})
		}
		offset += len(raw)
	}
}

func (p *parser) add(n Node) {
	if len(p.open) == 0 {
		p.doc.Nodes = append(p.doc.Nodes, n)
		return
	}
	parent := p.open[len(p.open)-1]
	parent.Children = append(parent.Children, n)
}

// close pops the innermost open element with that tag, implicitly closing
// everything opened after it. Without a match the end tag is dropped.
func (p *parser) close(tag string) {
	for i := len(p.open) - 1; i >= 0; i-- {
		if p.open[i].IsTag(tag) {
			p.open = p.open[:i]
			return
		}
	}
}

// rawTagName extracts the tag name from a raw start or end tag as typed
func rawTagName(raw string) string {
	name := strings.TrimPrefix(strings.TrimPrefix(raw, "<"), "/")
	if end := strings.IndexAny(name, " \t\n\f\r/>"); end > -1 {
		name = name[:end]
	}
	return name
}
