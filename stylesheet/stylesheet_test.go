package stylesheet

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSingleRule(t *testing.T) {
	rules := Parse("#a { color: red; font-size: 12px; }")
	require.Len(t, rules, 1)
	assert.Equal(t, "#a", rules[0].Selector)
	assert.Equal(t, []Declaration{
		{Property: "color", Value: "red"},
		{Property: "font-size", Value: "12px"},
	}, rules[0].Declarations)
}

func TestParseOrderAndComments(t *testing.T) {
	rules := Parse(`
/* header
   comment */
.c { color: red }
p{margin:0;;padding :1px 2px}
/* between */ .c { color: blue; /* inline */ }
`)
	require.Len(t, rules, 3)
	assert.Equal(t, []string{".c", "p", ".c"}, []string{rules[0].Selector, rules[1].Selector, rules[2].Selector})
	value, ok := rules[2].Get("color")
	assert.True(t, ok)
	assert.Equal(t, "blue", value)
	assert.Equal(t, []Declaration{{Property: "margin", Value: "0"}, {Property: "padding", Value: "1px 2px"}}, rules[1].Declarations)
}

func TestParseDeclarations(t *testing.T) {
	rules := Parse(`a { color: red; nonsense; color: green; background: url(http://x/y.png); : lost; }`)
	require.Len(t, rules, 1)
	assert.Equal(t, []Declaration{
		{Property: "color", Value: "green"},
		{Property: "background", Value: "url(http://x/y.png)"},
	}, rules[0].Declarations)
}

func TestParseEdgeCases(t *testing.T) {
	assert.Empty(t, Parse(""))
	assert.Empty(t, Parse("no blocks here"))
	assert.Empty(t, Parse("{ color: red }"))

	rules := Parse("a {} b { c: d }")
	require.Len(t, rules, 2)
	assert.Equal(t, "a", rules[0].Selector)
	assert.Empty(t, rules[0].Declarations)
	assert.Equal(t, "b", rules[1].Selector)

	// nested blocks are not supported, the inner selector ends up in the body
	rules = Parse("@media print { p { color: red } }")
	require.Len(t, rules, 1)
	assert.Equal(t, "@media print", rules[0].Selector)
}

func TestLint(t *testing.T) {
	warnings := Lint(`
@media print { p { color: red } }
p:hover { color: blue }
h1, h2 { margin: 0 }
#ok { color: red }
div.box { color: red }
`)
	messages := []string{}
	for _, w := range warnings {
		messages = append(messages, w.String())
	}
	joined := strings.Join(messages, "\n")
	assert.Contains(t, joined, "@media: at-rules are not applied")
	assert.Contains(t, joined, "p:hover: unsupported selector matches nothing")
	assert.Contains(t, joined, "grouped selectors are matched as one selector")
	assert.NotContains(t, joined, "#ok")
	assert.NotContains(t, joined, "div.box")

	assert.Empty(t, Lint(".c { color: red } p { margin: 0 }"))
}
