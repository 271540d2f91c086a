package snippet

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/foomo/snippet/classify"
	"github.com/foomo/snippet/markup"
	"github.com/foomo/snippet/query"
)

const testDocMarkup = `<html>
<head><title>Hello Test</title></head>
<body>
<h1>h1-0</h1>
<h2 style="color: red">h2-0</h2>
<p>text {not a style}</p>
</body>
</html>`

func newTestInterpreter(t *testing.T, opts Options) *Interpreter {
	t.Helper()
	opts.Logger = zaptest.NewLogger(t)
	return NewInterpreter(opts)
}

func newTestEngine(t *testing.T) *query.Engine {
	t.Helper()
	e, errOpen := query.Open("", zaptest.NewLogger(t))
	require.NoError(t, errOpen)
	t.Cleanup(func() {
		assert.NoError(t, e.Close())
	})
	return e
}

func TestRunMarkupStyle(t *testing.T) {
	i := newTestInterpreter(t, Options{})
	r := i.Run(context.Background(), `<div id="x"><p class="c">hi</p></div><style>#x{border:1px solid black}.c{color:blue}</style>`)
	require.NoError(t, r.Err)
	assert.Equal(t, classify.LanguageMarkupStyle, r.Language)
	assert.Equal(t, `<div id="x" style="border: 1px solid black; "><p class="c" style="color: blue; ">hi</p></div>`, r.Markup)
	require.NotNil(t, r.Structure)
	assert.Equal(t, 2, r.Structure.Elements)
	assert.Equal(t, 2, r.Structure.Styled)
	assert.Empty(t, r.Warnings)
}

func TestRunMarkupStyleWarnings(t *testing.T) {
	i := newTestInterpreter(t, Options{})
	r := i.Run(context.Background(), `<p class="c">x</p><style>.c{color:red}.c{color:blue} p:hover{color:green}</style>`)
	require.NoError(t, r.Err)
	assert.Equal(t, `<p class="c" style="color: red; color: blue; ">x</p>`, r.Markup)
	require.Len(t, r.Warnings, 1)
	assert.Equal(t, "p:hover", r.Warnings[0].Rule)
}

func TestRunMarkup(t *testing.T) {
	i := newTestInterpreter(t, Options{})
	r := i.Run(context.Background(), testDocMarkup)
	require.NoError(t, r.Err)
	assert.Equal(t, classify.LanguageMarkup, r.Language)
	assert.Equal(t, testDocMarkup, r.Markup)
	require.NotNil(t, r.Structure)
	assert.Equal(t, "Hello Test", r.Structure.Title)
	assert.Equal(t, []Heading{{Level: 1, Text: "h1-0"}, {Level: 2, Text: "h2-0"}}, r.Structure.Headings)
	assert.Equal(t, 1, r.Structure.Styled)
}

func TestRunMarkupShortCircuit(t *testing.T) {
	i := newTestInterpreter(t, Options{MarkupOptions: []markup.Option{markup.WithMaxBytes(16)}})
	for _, text := range []string{
		`<div id="x"><p class="c">hi</p></div><style>#x{border:1px solid black}.c{color:blue}</style>`,
		`<div id="x"><p class="c">hi</p></div>`,
	} {
		r := i.Run(context.Background(), text)
		require.Error(t, r.Err)
		assert.True(t, errors.Is(r.Err, markup.ErrTooLarge))
		assert.True(t, strings.HasPrefix(r.Message, "Markup syntax error: "))
		assert.Empty(t, r.Markup)
		assert.Nil(t, r.Structure)
	}
}

func TestRunStyle(t *testing.T) {
	i := newTestInterpreter(t, Options{})
	r := i.Run(context.Background(), "@media print { p { color: red } }\n.c { color: blue }")
	assert.NoError(t, r.Err)
	assert.Equal(t, classify.LanguageStyle, r.Language)
	assert.Equal(t, MessageStyleOnly, r.Output)
	assert.Empty(t, r.Markup)
	assert.NotEmpty(t, r.Warnings)
}

func TestRunUnknown(t *testing.T) {
	i := newTestInterpreter(t, Options{})
	for _, text := range []string{"", "   ", "just words"} {
		r := i.Run(context.Background(), text)
		assert.NoError(t, r.Err)
		assert.Equal(t, classify.LanguageUnknown, r.Language)
		assert.Equal(t, MessageUnknown, r.Output)
	}
}

func TestRunQuery(t *testing.T) {
	i := newTestInterpreter(t, Options{Query: newTestEngine(t)})
	ctx := context.Background()
	r := i.Run(ctx, "CREATE TABLE t (a INTEGER, b TEXT); INSERT INTO t VALUES (1, 'x');")
	require.NoError(t, r.Err)
	assert.Equal(t, classify.LanguageQuery, r.Language)
	assert.Equal(t, "Executed: CREATE TABLE t (a INTEGER, b TEXT)\nExecuted: INSERT INTO t VALUES (1, 'x')", r.Output)

	r = i.Run(ctx, "select a, b from t")
	require.NoError(t, r.Err)
	assert.Equal(t, "Query: select a, b from t\nColumns: a, b\n(1, 'x')", r.Output)

	r = i.Run(ctx, "SELECT * FROM missing; DROP TABLE t;")
	require.Error(t, r.Err)
	assert.True(t, strings.HasPrefix(r.Output, "Error: "))

	r = i.Run(ctx, "SELECT count(*) AS n FROM t")
	require.NoError(t, r.Err)
	assert.Equal(t, "Query: SELECT count(*) AS n FROM t\nColumns: n\n(1,)", r.Output)
}

func TestRunQueryTable(t *testing.T) {
	i := newTestInterpreter(t, Options{Query: newTestEngine(t), QueryFormat: query.FormatTable})
	r := i.Run(context.Background(), "CREATE TABLE t (a INTEGER); INSERT INTO t VALUES (42); SELECT a FROM t")
	require.NoError(t, r.Err)
	assert.Contains(t, r.Output, "Executed: CREATE TABLE t (a INTEGER)")
	assert.Contains(t, r.Output, "42")
	assert.Contains(t, r.Output, "(1 rows)")
}

func TestRunQueryWithoutEngine(t *testing.T) {
	i := newTestInterpreter(t, Options{})
	r := i.Run(context.Background(), "SELECT 1")
	assert.Equal(t, classify.LanguageQuery, r.Language)
	assert.True(t, errors.Is(r.Err, ErrNoQueryEngine))
}

func TestMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	i := newTestInterpreter(t, Options{Registerer: registry})
	ctx := context.Background()
	i.Run(ctx, `<p class="c">x</p><style>.c{color:red;margin:0}</style>`)
	i.Run(ctx, `<p>x</p>`)
	i.Run(ctx, `SELECT 1`)
	assert.Equal(t, float64(1), testutil.ToFloat64(i.metrics.runs.WithLabelValues("markup+style")))
	assert.Equal(t, float64(1), testutil.ToFloat64(i.metrics.runs.WithLabelValues("markup")))
	assert.Equal(t, float64(1), testutil.ToFloat64(i.metrics.failures.WithLabelValues("query")))
	assert.Equal(t, float64(2), testutil.ToFloat64(i.metrics.declarations))

	families, errGather := registry.Gather()
	require.NoError(t, errGather)
	assert.NotEmpty(t, families)
}

func TestPrintResult(t *testing.T) {
	i := newTestInterpreter(t, Options{})
	buf := &bytes.Buffer{}
	PrintResult(buf, i.Run(context.Background(), `<h1 class="c">x</h1><style>.c{color:red} h1, h2 {margin:0}</style>`))
	out := buf.String()
	assert.Contains(t, out, "Detected language: markup+style")
	assert.Contains(t, out, `<h1 class="c" style="color: red; ">x</h1>`)
	assert.Contains(t, out, "h1: x")
	assert.Contains(t, out, "grouped selectors")

	buf.Reset()
	PrintResult(buf, i.Run(context.Background(), "SELECT 1"))
	assert.Contains(t, buf.String(), "Error: "+ErrNoQueryEngine.Error())
}
