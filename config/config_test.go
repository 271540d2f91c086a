package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/foomo/snippet/query"
)

const (
	confComplete = `
---
markup:
  maxbytes: 2048
  maxdepth: 16
query:
  dsn: "file:test.db"
  format: table
log:
  level: debug
metrics:
  addr: ":3001"
...
`
	confMinimal = `
---
query:
  format: log
...
`
	confBroken = `
---
markup:
  maxbytes: -1
query:
  format: html
log:
  level: loud
...
`
)

func TestLoad(t *testing.T) {
	cnf, errCnf := Load([]byte(confComplete))
	assert.NoError(t, errCnf)
	assert.Equal(t, 2048, cnf.Markup.MaxBytes)
	assert.Equal(t, 16, cnf.Markup.MaxDepth)
	assert.Equal(t, "file:test.db", cnf.Query.DSN)
	assert.Equal(t, query.FormatTable, cnf.Query.Format)
	assert.Equal(t, "debug", cnf.Log.Level)
	assert.Equal(t, ":3001", cnf.Metrics.Addr)
	assert.Len(t, cnf.MarkupOptions(), 2)

	cnf, errCnf = Load([]byte(confMinimal))
	assert.NoError(t, errCnf)
	assert.Equal(t, Default(), cnf)
}

func TestLoadInvalid(t *testing.T) {
	_, errCnf := Load([]byte(confBroken))
	require.Error(t, errCnf)
	assert.Len(t, multierr.Errors(errCnf), 3)

	_, errCnf = Load([]byte("markup: ["))
	assert.Error(t, errCnf)
}

func TestGet(t *testing.T) {
	cnf, errCnf := Get("")
	assert.NoError(t, errCnf)
	assert.Equal(t, Default(), cnf)

	filename := filepath.Join(t.TempDir(), "snippet.yaml")
	require.NoError(t, os.WriteFile(filename, []byte(confComplete), 0o600))
	cnf, errCnf = Get(filename)
	assert.NoError(t, errCnf)
	assert.Equal(t, query.FormatTable, cnf.Query.Format)

	_, errCnf = Get(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, errCnf)
}

func TestLogger(t *testing.T) {
	l, errLogger := Default().Logger()
	require.NoError(t, errLogger)
	assert.NotNil(t, l)
}
