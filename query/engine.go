package query

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	// pure go sqlite driver
	_ "modernc.org/sqlite"
)

// DefaultDSN an in-memory database, that lives as long as the engine
const DefaultDSN = ":memory:"

// ErrClosed the engine does not accept batches anymore
var ErrClosed = errors.New("query engine closed")

var readKeywords = []string{"SELECT", "WITH", "PRAGMA", "EXPLAIN", "VALUES"}

type run struct {
	ctx        context.Context
	statements []string
	chanResult chan runResult
}

type runResult struct {
	batch *Batch
	err   error
}

// Engine owns a single database connection. All batches go through one
// goroutine, so statements of two batches never interleave.
type Engine struct {
	db        *sql.DB
	l         *zap.Logger
	chanRun   chan run
	chanStop  chan struct{}
	chanDone  chan struct{}
	closeOnce sync.Once
}

// Open a sqlite database. An empty dsn opens DefaultDSN.
func Open(dsn string, l *zap.Logger) (e *Engine, err error) {
	if dsn == "" {
		dsn = DefaultDSN
	}
	db, errOpen := sql.Open("sqlite", dsn)
	if errOpen != nil {
		return nil, errOpen
	}
	// every connection to an in-memory database is a new database
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	if errPing := db.Ping(); errPing != nil {
		return nil, multierr.Append(errPing, db.Close())
	}
	return NewEngine(db, l), nil
}

// NewEngine takes ownership of db, Close closes it
func NewEngine(db *sql.DB, l *zap.Logger) *Engine {
	if l == nil {
		l = zap.NewNop()
	}
	e := &Engine{
		db:       db,
		l:        l.Named("query"),
		chanRun:  make(chan run),
		chanStop: make(chan struct{}),
		chanDone: make(chan struct{}),
	}
	go e.main()
	return e
}

func (e *Engine) main() {
	defer close(e.chanDone)
	exec := &dbExecutor{db: e.db}
	for {
		select {
		case r := <-e.chanRun:
			e.l.Debug("running batch", zap.Int("statements", len(r.statements)))
			batch, errBatch := RunBatch(r.ctx, exec, r.statements)
			if errBatch != nil {
				e.l.Warn("batch aborted", zap.Error(errBatch), zap.Int("completed", len(batch.Results)))
			}
			r.chanResult <- runResult{batch: batch, err: errBatch}
		case <-e.chanStop:
			return
		}
	}
}

// Run splits text into statements and executes them as one batch
func (e *Engine) Run(ctx context.Context, text string) (batch *Batch, err error) {
	return e.RunStatements(ctx, Split(text))
}

// RunStatements executes statements as one batch
func (e *Engine) RunStatements(ctx context.Context, statements []string) (batch *Batch, err error) {
	r := run{
		ctx:        ctx,
		statements: statements,
		chanResult: make(chan runResult, 1),
	}
	select {
	case e.chanRun <- r:
	case <-e.chanDone:
		return nil, ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	result := <-r.chanResult
	return result.batch, result.err
}

// Close stops the engine and closes the database
func (e *Engine) Close() (err error) {
	e.closeOnce.Do(func() {
		close(e.chanStop)
		<-e.chanDone
		err = e.db.Close()
	})
	return err
}

type dbExecutor struct {
	db *sql.DB
}

func isRead(statement string) bool {
	fields := strings.Fields(statement)
	if len(fields) == 0 {
		return false
	}
	for _, keyword := range readKeywords {
		if strings.EqualFold(fields[0], keyword) {
			return true
		}
	}
	return false
}

func (x *dbExecutor) Execute(ctx context.Context, statement string) (r *Rows, err error) {
	if !isRead(statement) {
		if _, errExec := x.db.ExecContext(ctx, statement); errExec != nil {
			return nil, errExec
		}
		return &Rows{}, nil
	}
	rows, errQuery := x.db.QueryContext(ctx, statement)
	if errQuery != nil {
		return nil, errQuery
	}
	defer func() {
		err = multierr.Append(err, rows.Close())
	}()
	columns, errColumns := rows.Columns()
	if errColumns != nil {
		return nil, errColumns
	}
	r = &Rows{
		Columns: columns,
		Values:  [][]any{},
		Read:    true,
	}
	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if errScan := rows.Scan(pointers...); errScan != nil {
			return nil, errScan
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		r.Values = append(r.Values, values)
	}
	if errRows := rows.Err(); errRows != nil {
		return nil, errRows
	}
	return r, nil
}
