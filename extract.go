package snippet

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

type Heading struct {
	Level int
	Text  string
}

// Structure is a summary of rendered markup
type Structure struct {
	Title    string
	Headings []Heading
	Elements int
	Styled   int
}

func extractStructure(markupText string) (s Structure, err error) {
	doc, errDoc := goquery.NewDocumentFromReader(strings.NewReader(markupText))
	if errDoc != nil {
		return s, errDoc
	}
	s = Structure{
		Title:    strings.TrimSpace(doc.Find("title").First().Text()),
		Headings: []Heading{},
		Elements: doc.Find("body *").Length(),
		Styled:   doc.Find("[style]").Length(),
	}
	doc.Find("h1, h2, h3, h4, h5, h6").Each(func(i int, sel *goquery.Selection) {
		level, errLevel := strconv.Atoi(strings.TrimPrefix(goquery.NodeName(sel), "h"))
		if errLevel != nil {
			return
		}
		s.Headings = append(s.Headings, Heading{
			Level: level,
			Text:  strings.TrimSpace(sel.Text()),
		})
	})
	return s, nil
}
