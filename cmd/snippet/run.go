package main

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/foomo/snippet"
	"github.com/foomo/snippet/classify"
	"github.com/foomo/snippet/config"
	"github.com/foomo/snippet/query"
)

func newInterpreter(conf *config.Config, l *zap.Logger, registerer prometheus.Registerer) (*snippet.Interpreter, *query.Engine, error) {
	engine, errEngine := query.Open(conf.Query.DSN, l)
	if errEngine != nil {
		return nil, nil, fmt.Errorf("could not open query engine: %w", errEngine)
	}
	return snippet.NewInterpreter(snippet.Options{
		Query:         engine,
		QueryFormat:   conf.Query.Format,
		MarkupOptions: conf.MarkupOptions(),
		Logger:        l,
		Registerer:    registerer,
	}), engine, nil
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run [file|-]",
		Short: "interpret a snippet and print the result",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			conf, l, errConf := loadConfig()
			if errConf != nil {
				return errConf
			}
			defer l.Sync()
			text, errRead := readInput(cmd, args)
			if errRead != nil {
				return errRead
			}
			interpreter, engine, errInterpreter := newInterpreter(conf, l, nil)
			if errInterpreter != nil {
				return errInterpreter
			}
			defer func() {
				err = multierr.Append(err, engine.Close())
			}()
			r := interpreter.Run(cmd.Context(), text)
			snippet.PrintResult(cmd.OutOrStdout(), r)
			return nil
		},
	}
}

func newClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify [file|-]",
		Short: "print the detected language of a snippet",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, errRead := readInput(cmd, args)
			if errRead != nil {
				return errRead
			}
			fmt.Fprintln(cmd.OutOrStdout(), classify.Classify(text))
			return nil
		},
	}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "accept snippets on POST /run and expose /metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			conf, l, errConf := loadConfig()
			if errConf != nil {
				return errConf
			}
			defer l.Sync()
			interpreter, engine, errInterpreter := newInterpreter(conf, l, prometheus.DefaultRegisterer)
			if errInterpreter != nil {
				return errInterpreter
			}
			defer func() {
				err = multierr.Append(err, engine.Close())
			}()
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			mux.Handle("/run", newRunHandler(interpreter, conf.Markup.MaxBytes))
			l.Info("listening", zap.String("addr", conf.Metrics.Addr))
			return http.ListenAndServe(conf.Metrics.Addr, mux)
		},
	}
}
