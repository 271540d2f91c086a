package config

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	yaml "gopkg.in/yaml.v3"

	"github.com/foomo/snippet/markup"
	"github.com/foomo/snippet/query"
)

type Markup struct {
	MaxBytes int `yaml:"maxbytes"`
	MaxDepth int `yaml:"maxdepth"`
}

type Query struct {
	DSN    string `yaml:"dsn"`
	Format string `yaml:"format"`
}

type Log struct {
	Level string `yaml:"level"`
}

type Metrics struct {
	Addr string `yaml:"addr"`
}

type Config struct {
	Markup  Markup  `yaml:"markup"`
	Query   Query   `yaml:"query"`
	Log     Log     `yaml:"log"`
	Metrics Metrics `yaml:"metrics"`
}

// Default configuration, everything Load does not find keeps these values
func Default() *Config {
	return &Config{
		Markup: Markup{
			MaxBytes: markup.DefaultMaxBytes,
			MaxDepth: markup.DefaultMaxDepth,
		},
		Query: Query{
			DSN:    query.DefaultDSN,
			Format: query.FormatLog,
		},
		Log: Log{
			Level: "info",
		},
		Metrics: Metrics{
			Addr: ":9090",
		},
	}
}

// Load yaml bytes on top of the defaults
func Load(yamlBytes []byte) (conf *Config, err error) {
	conf = Default()
	errUnmarshal := yaml.Unmarshal(yamlBytes, conf)
	if errUnmarshal != nil {
		return nil, errUnmarshal
	}
	errValidate := conf.Validate()
	if errValidate != nil {
		return nil, errValidate
	}
	return conf, nil
}

// Get loads a config file, an empty filename returns the defaults
func Get(filename string) (conf *Config, err error) {
	if filename == "" {
		return Default(), nil
	}
	yamlBytes, errRead := os.ReadFile(filename)
	if errRead != nil {
		return nil, errRead
	}
	return Load(yamlBytes)
}

// Validate reports all problems at once
func (c *Config) Validate() (err error) {
	if c.Markup.MaxBytes < 0 {
		err = multierr.Append(err, fmt.Errorf("markup.maxbytes must not be negative: %d", c.Markup.MaxBytes))
	}
	if c.Markup.MaxDepth < 0 {
		err = multierr.Append(err, fmt.Errorf("markup.maxdepth must not be negative: %d", c.Markup.MaxDepth))
	}
	switch c.Query.Format {
	case query.FormatLog, query.FormatTable:
	default:
		err = multierr.Append(err, errors.New("query.format must be one of log, table: "+c.Query.Format))
	}
	if _, errLevel := zapcore.ParseLevel(c.Log.Level); errLevel != nil {
		err = multierr.Append(err, errLevel)
	}
	return err
}

// MarkupOptions for markup.Parse
func (c *Config) MarkupOptions() []markup.Option {
	return []markup.Option{
		markup.WithMaxBytes(c.Markup.MaxBytes),
		markup.WithMaxDepth(c.Markup.MaxDepth),
	}
}

// Logger builds a console logger for the configured level
func (c *Config) Logger() (*zap.Logger, error) {
	level, errLevel := zapcore.ParseLevel(c.Log.Level)
	if errLevel != nil {
		return nil, errLevel
	}
	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.DisableStacktrace = true
	zc.DisableCaller = true
	return zc.Build()
}
