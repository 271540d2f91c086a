package stylesheet

import (
	"io"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"

	"github.com/foomo/snippet/selector"
)

// Warning about a construct Parse will not apply the way a browser would
type Warning struct {
	Rule    string
	Message string
}

func (w Warning) String() string {
	if w.Rule == "" {
		return w.Message
	}
	return w.Rule + ": " + w.Message
}

// Lint runs a real css tokenizer over text and reports at-rules, grouped
// selectors and selectors outside the supported shapes.
func Lint(text string) (warnings []Warning) {
	warnings = []Warning{}
	p := css.NewParser(parse.NewInputString(text), false)
	for {
		gt, _, data := p.Next()
		switch gt {
		case css.ErrorGrammar:
			if errParse := p.Err(); errParse != nil && errParse != io.EOF {
				warnings = append(warnings, Warning{Message: "css syntax error: " + errParse.Error()})
			}
			return warnings
		case css.AtRuleGrammar, css.BeginAtRuleGrammar:
			warnings = append(warnings, Warning{
				Rule:    string(data),
				Message: "at-rules are not applied",
			})
		case css.BeginRulesetGrammar, css.QualifiedRuleGrammar:
			warnings = append(warnings, lintSelector(tokenText(data, p.Values()))...)
		}
	}
}

func lintSelector(text string) (warnings []Warning) {
	parts := strings.Split(text, ",")
	if len(parts) > 1 {
		warnings = append(warnings, Warning{
			Rule:    text,
			Message: "grouped selectors are matched as one selector",
		})
	}
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" && !selector.Parse(part).Supported() {
			warnings = append(warnings, Warning{
				Rule:    part,
				Message: "unsupported selector matches nothing",
			})
		}
	}
	return warnings
}

func tokenText(data []byte, values []css.Token) string {
	sb := &strings.Builder{}
	sb.Write(data)
	for _, v := range values {
		sb.Write(v.Data)
	}
	return strings.TrimSpace(sb.String())
}
