// Package cli implements the questdb command line client: exec, imp and exp
// subcommands over the QuestDB HTTP API.
package cli

import (
	"fmt"
	"os"

	questdb "github.com/questdb-sdk/questdb-go"
	"github.com/questdb-sdk/questdb-go/internal/config"
	"github.com/questdb-sdk/questdb-go/internal/logger"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app carries the state shared by the subcommands of one invocation.
type app struct {
	endpoint string
	logLevel string

	fs     afero.Fs
	logger *zap.Logger
	client *questdb.Client
}

// Execute runs the CLI application.
func Execute() {
	if err := newRootCommand(&app{fs: afero.NewOsFs()}).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, describeError(err))
		os.Exit(1)
	}
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:               "questdb",
		Short:             "Command line client for the QuestDB HTTP API",
		Long:              `questdb runs queries, imports files and exports query results against a QuestDB server over HTTP.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: a.teardown,
	}

	root.PersistentFlags().StringVar(&a.endpoint, "endpoint", "", "QuestDB HTTP endpoint (default from QUESTDB_ENDPOINT)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error (default from LOG_LEVEL)")

	root.AddCommand(a.execCommand(), a.importCommand(), a.exportCommand())
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("endpoint") {
		cfg.Endpoint = a.endpoint
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}

	a.logger = logger.New(cfg.LogLevel)
	a.client = questdb.NewClient(&questdb.Config{
		Endpoint: cfg.Endpoint,
		Timeout:  cfg.Timeout,
	}, questdb.WithFs(a.fs), questdb.WithLogger(a.logger))

	a.logger.Debug("configured", zap.String("endpoint", cfg.Endpoint), zap.Duration("timeout", cfg.Timeout))
	return nil
}

func (a *app) teardown(*cobra.Command, []string) {
	if a.client != nil {
		a.client.Close()
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

func parseLimitFlag(s string) (*questdb.Limit, error) {
	if s == "" {
		return nil, nil
	}
	return questdb.ParseLimit(s)
}

func boolFlag(cmd *cobra.Command, name string, v bool) *bool {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return questdb.Bool(v)
}
