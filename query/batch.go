// Package query forwards ";" separated statements to a relational engine.
package query

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Output formats of a batch
const (
	FormatLog   = "log"
	FormatTable = "table"
)

// Rows returned by a single statement. Write statements have no columns and
// Read is false.
type Rows struct {
	Columns []string
	Values  [][]any
	Read    bool
}

// Executor runs exactly one statement
type Executor interface {
	Execute(ctx context.Context, statement string) (*Rows, error)
}

// StatementError is the failure of one statement, it aborts its batch
type StatementError struct {
	Index     int
	Statement string
	Err       error
}

func (e *StatementError) Error() string {
	return fmt.Sprint("statement ", e.Index+1, " \"", e.Statement, "\": ", e.Err)
}

func (e *StatementError) Unwrap() error {
	return e.Err
}

// Result of one statement in a batch
type Result struct {
	Statement string
	Rows      *Rows
}

// Batch the results of all statements, that ran before a possible failure
type Batch struct {
	Results []Result
	Err     *StatementError
}

// Split text on ";" into trimmed, non empty statements. Semicolons in string
// literals are not recognized.
func Split(text string) (statements []string) {
	statements = []string{}
	for _, statement := range strings.Split(text, ";") {
		statement = strings.TrimSpace(statement)
		if statement != "" {
			statements = append(statements, statement)
		}
	}
	return statements
}

// RunBatch executes statements in order and stops at the first failure.
// Effects of statements, that already ran, are not rolled back.
func RunBatch(ctx context.Context, exec Executor, statements []string) (batch *Batch, err error) {
	batch = &Batch{Results: []Result{}}
	for i, statement := range statements {
		rows, errExec := exec.Execute(ctx, statement)
		if errExec != nil {
			batch.Err = &StatementError{Index: i, Statement: statement, Err: errExec}
			return batch, batch.Err
		}
		batch.Results = append(batch.Results, Result{Statement: statement, Rows: rows})
	}
	return batch, nil
}

// Log renders the plain text execution log
func (b *Batch) Log() string {
	lines := []string{}
	for _, r := range b.Results {
		if r.Rows == nil || !r.Rows.Read {
			lines = append(lines, "Executed: "+r.Statement)
			continue
		}
		lines = append(lines, "Query: "+r.Statement, "Columns: "+strings.Join(r.Rows.Columns, ", "))
		for _, values := range r.Rows.Values {
			lines = append(lines, formatTuple(values))
		}
	}
	if b.Err != nil {
		lines = append(lines, "Error: "+b.Err.Err.Error())
	}
	return strings.Join(lines, "\n")
}

// Table renders read results as tables, write statements and the error as
// log lines in between
func (b *Batch) Table(w io.Writer) {
	for _, r := range b.Results {
		if r.Rows == nil || !r.Rows.Read {
			fmt.Fprintln(w, "Executed:", r.Statement)
			continue
		}
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetStyle(table.StyleLight)
		t.SetTitle(r.Statement)
		header := make(table.Row, len(r.Rows.Columns))
		for i, column := range r.Rows.Columns {
			header[i] = column
		}
		t.AppendHeader(header)
		for _, values := range r.Rows.Values {
			row := make(table.Row, len(values))
			for i, v := range values {
				row[i] = formatValue(v)
			}
			t.AppendRow(row)
		}
		t.Render()
		fmt.Fprintf(w, "(%d rows)\n", len(r.Rows.Values))
	}
	if b.Err != nil {
		fmt.Fprintln(w, "Error:", b.Err.Err.Error())
	}
}

func formatTuple(values []any) string {
	parts := make([]string, len(values))
	for i, v := range values {
		switch v.(type) {
		case string:
			parts[i] = "'" + formatValue(v) + "'"
		default:
			parts[i] = formatValue(v)
		}
	}
	if len(parts) == 1 {
		// a single value still reads as a tuple
		return "(" + parts[0] + ",)"
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func formatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(v)
	case time.Time:
		return v.Format(time.RFC3339)
	default:
		return fmt.Sprint(v)
	}
}
