// Package main provides the CLI entry point for ledgerconv.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/ukaji3/ledgerconv-go/internal/config"
	"github.com/ukaji3/ledgerconv-go/internal/logging"
	"github.com/ukaji3/ledgerconv-go/pkg/ledgerconv/classify"
)

func main() {
	if err := newRootCmd(newApp()).Execute(); err != nil {
		os.Exit(1)
	}
}

// app carries the state shared by all subcommands.
type app struct {
	configPath string
	envFile    string
	logLevel   string

	cfg config.Config
	log *slog.Logger

	now        func() time.Time
	classifier func(config.Config) classify.Classifier
}

func newApp() *app {
	return &app{
		now:        time.Now,
		classifier: config.Config.Classifier,
	}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ledgerconv",
		Short: "Convert payslips, asset ledgers, and receipts into accounting import CSV",
		Long: `ledgerconv reads payroll workbooks, fixed asset ledger exports, and
receipt images, and writes the fixed-column CSV layouts accounting software
imports.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Path to YAML config file")
	flags.StringVar(&a.envFile, "env-file", "", "Path to .env file (default: ./.env when present)")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newPayrollCmd(a),
		newAssetCmd(a),
		newReceiptCmd(a),
		newGridCmd(a),
		newWarekiCmd(a),
	)
	return rootCmd
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath, a.envFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	// Flags are the last override.
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = a.logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	a.cfg = cfg
	a.log = logging.New(cfg.LogLevel, cmd.ErrOrStderr())
	return nil
}

// outputFlags select where a converter writes its result.
type outputFlags struct {
	path string
	dir  string
}

func (o *outputFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&o.path, "output", "o", "", "Output file path (default: stdout)")
	fs.StringVar(&o.dir, "output-dir", "", "Directory to write the output under its default file name")
}

// write sends the result to the selected destination. defaultName is used
// with --output-dir. A file is removed again when fn fails.
func (a *app) write(cmd *cobra.Command, o outputFlags, defaultName string, fn func(io.Writer) error) error {
	target := o.path
	if o.dir != "" {
		if err := os.MkdirAll(o.dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		target = filepath.Join(o.dir, defaultName)
	}

	if target == "" {
		return fn(cmd.OutOrStdout())
	}

	f, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := fn(f); err != nil {
		f.Close()
		// A partial import file must not be left under its expected name.
		if rmErr := os.Remove(target); rmErr != nil {
			a.log.Warn("failed to remove partial output", "path", target, "error", rmErr)
		}
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(target)
		return fmt.Errorf("failed to write output: %w", err)
	}
	a.log.Info("wrote output", "path", target)
	return nil
}
