// Package snippet detects the language of a text snippet and routes it: markup
// is validated, markup with embedded style blocks gets its styles inlined and
// queries are forwarded to a query engine.
package snippet

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/foomo/snippet/classify"
	"github.com/foomo/snippet/inline"
	"github.com/foomo/snippet/markup"
	"github.com/foomo/snippet/query"
	"github.com/foomo/snippet/stylesheet"
)

const (
	MessageStyleOnly = "Style detected but no markup provided to apply styles."
	MessageUnknown   = "Language not detected or not supported."
)

// ErrNoQueryEngine a query was detected, but there is nothing to run it
var ErrNoQueryEngine = errors.New("no query engine configured")

// QueryRunner executes a ";" separated batch of statements, *query.Engine
// is the implementation
type QueryRunner interface {
	Run(ctx context.Context, text string) (*query.Batch, error)
}

type Options struct {
	// Query runs the query path, the caller owns it and closes it
	Query         QueryRunner
	QueryFormat   string
	MarkupOptions []markup.Option
	Logger        *zap.Logger
	// Registerer for prometheus metrics, nil disables registration
	Registerer prometheus.Registerer
}

// Result of a run. Nothing in here is html escaped.
type Result struct {
	Language classify.Language
	// Output plain text like the query execution log
	Output string
	// Markup the resolved or validated markup
	Markup    string
	Structure *Structure
	Warnings  []stylesheet.Warning
	// Message for the user, when Err is set
	Message string
	Err     error
}

type Interpreter struct {
	query         QueryRunner
	queryFormat   string
	markupOptions []markup.Option
	l             *zap.Logger
	metrics       *metrics
}

func NewInterpreter(opts Options) *Interpreter {
	l := opts.Logger
	if l == nil {
		l = zap.NewNop()
	}
	queryFormat := opts.QueryFormat
	if queryFormat == "" {
		queryFormat = query.FormatLog
	}
	return &Interpreter{
		query:         opts.Query,
		queryFormat:   queryFormat,
		markupOptions: opts.MarkupOptions,
		l:             l.Named("interpreter"),
		metrics:       setupMetrics(opts.Registerer),
	}
}

// Run classifies text and processes it with the matching pipeline
func (i *Interpreter) Run(ctx context.Context, text string) (r Result) {
	start := time.Now()
	r = Result{
		Language: classify.Classify(text),
		Warnings: []stylesheet.Warning{},
	}
	l := i.l.With(zap.String("language", string(r.Language)), zap.Int("bytes", len(text)))
	l.Debug("classified")
	switch r.Language {
	case classify.LanguageMarkupStyle:
		i.runMarkupStyle(text, &r, l)
	case classify.LanguageMarkup:
		i.runMarkup(text, &r, l)
	case classify.LanguageStyle:
		r.Warnings = stylesheet.Lint(text)
		r.Output = MessageStyleOnly
	case classify.LanguageQuery:
		i.runQuery(ctx, text, &r, l)
	default:
		r.Output = MessageUnknown
	}
	language := string(r.Language)
	i.metrics.runs.WithLabelValues(language).Inc()
	if r.Err != nil {
		i.metrics.failures.WithLabelValues(language).Inc()
		l.Info("run failed", zap.Error(r.Err))
	}
	i.metrics.durations.WithLabelValues(language).Observe(time.Since(start).Seconds())
	return r
}

func (i *Interpreter) runMarkupStyle(text string, r *Result, l *zap.Logger) {
	body, css := inline.SplitStyleBlocks(text)
	doc, errParse := markup.Parse(body, i.markupOptions...)
	if errParse != nil {
		i.markupFailed(errParse, r)
		return
	}
	r.Warnings = stylesheet.Lint(css)
	for _, w := range r.Warnings {
		l.Debug("stylesheet warning", zap.String("rule", w.Rule), zap.String("warning", w.Message))
	}
	stats := inline.Apply(doc, stylesheet.Parse(css))
	l.Debug("styles inlined",
		zap.Int("rules", stats.Rules),
		zap.Int("matches", stats.Matches),
		zap.Int("declarations", stats.Declarations),
		zap.Strings("unsupported", stats.Unsupported),
	)
	i.metrics.declarations.Add(float64(stats.Declarations))
	r.Markup = doc.String()
	r.Structure = i.structure(r.Markup, l)
}

func (i *Interpreter) runMarkup(text string, r *Result, l *zap.Logger) {
	if _, errParse := markup.Parse(text, i.markupOptions...); errParse != nil {
		i.markupFailed(errParse, r)
		return
	}
	r.Markup = text
	r.Structure = i.structure(r.Markup, l)
}

func (i *Interpreter) markupFailed(err error, r *Result) {
	r.Err = err
	r.Message = "Markup syntax error: " + err.Error()
}

func (i *Interpreter) structure(markupText string, l *zap.Logger) *Structure {
	s, errExtract := extractStructure(markupText)
	if errExtract != nil {
		l.Warn("could not extract structure", zap.Error(errExtract))
		return nil
	}
	return &s
}

func (i *Interpreter) runQuery(ctx context.Context, text string, r *Result, l *zap.Logger) {
	if i.query == nil {
		r.Err = ErrNoQueryEngine
		r.Message = ErrNoQueryEngine.Error()
		return
	}
	batch, errRun := i.query.Run(ctx, text)
	if batch == nil && errRun == nil {
		batch = &query.Batch{}
	}
	if batch == nil {
		r.Err = errRun
		r.Message = "Query error: " + errRun.Error()
		return
	}
	i.metrics.statements.WithLabelValues("ok").Add(float64(len(batch.Results)))
	if errRun != nil {
		// the error is part of the execution log
		i.metrics.statements.WithLabelValues("error").Inc()
		r.Err = errRun
	}
	switch i.queryFormat {
	case query.FormatTable:
		buf := &bytes.Buffer{}
		batch.Table(buf)
		r.Output = buf.String()
	default:
		r.Output = batch.Log()
	}
	l.Debug("batch done", zap.Int("statements", len(batch.Results)))
}
