package main

import (
	"fmt"
	"io"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/foomo/snippet/config"
)

var (
	flagConfig string
	flagDebug  bool
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "snippet",
		Short:        "detect the language of a snippet, inline its styles or run its queries",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path/to/config.yaml (default: built in defaults)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "debug logging and config dump")
	rootCmd.AddCommand(
		newRunCmd(),
		newClassifyCmd(),
		newServeCmd(),
	)
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (conf *config.Config, l *zap.Logger, err error) {
	conf, errConf := config.Get(flagConfig)
	if errConf != nil {
		return nil, nil, fmt.Errorf("config error: %w", errConf)
	}
	if flagDebug {
		conf.Log.Level = "debug"
	}
	l, errLogger := conf.Logger()
	if errLogger != nil {
		return nil, nil, errLogger
	}
	if flagDebug {
		l.Debug("config", zap.String("dump", spew.Sdump(conf)))
	}
	return conf, l, nil
}

// readInput reads a file, "-" or no argument reads stdin
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		inputBytes, errRead := io.ReadAll(cmd.InOrStdin())
		return string(inputBytes), errRead
	}
	inputBytes, errRead := os.ReadFile(args[0])
	return string(inputBytes), errRead
}
