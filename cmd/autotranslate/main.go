package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-autotranslate"
	"github.com/goliatone/go-autotranslate/internal/di"
	"github.com/goliatone/go-autotranslate/internal/storage"
)

const defaultDatabase = "file:autotranslate.db?cache=shared"

type rootOptions struct {
	configPath string
	database   string
	logLevel   string
	// extra container overrides, used by tests
	containerOpts []di.Option
}

func newRootCmd(opts *rootOptions) *cobra.Command {
	root := &cobra.Command{
		Use:   "autotranslate",
		Short: "Translate travel content from Indonesian and report coverage",
		Long: `autotranslate fills in translation rows for packages, blogs, testimonials,
galleries and sections, and reports how complete each language is.

Configuration is read from --config (YAML) and AUTOTRANSLATE_* environment
variables. The provider API key is only read from AUTOTRANSLATE_PROVIDER_API_KEY.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "YAML configuration file")
	root.PersistentFlags().StringVar(&opts.database, "db", "", "SQLite DSN (overrides storage config)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")

	root.AddCommand(
		newTranslateCmd(opts),
		newStatusCmd(opts),
		newCoverageCmd(opts),
		newBackfillCmd(opts),
		newSeedCmd(opts),
		newImportMarkdownCmd(opts),
	)
	return root
}

func main() {
	if err := newRootCmd(&rootOptions{}).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "autotranslate: %v\n", err)
		os.Exit(1)
	}
}

// open builds the module for one invocation. The in-memory store would not
// survive the process, so the CLI falls back to a local SQLite file.
func (o *rootOptions) open(ctx context.Context) (*autotranslate.Module, error) {
	cfg, err := autotranslate.LoadConfig(o.configPath)
	if err != nil {
		return nil, err
	}
	if dsn := strings.TrimSpace(o.database); dsn != "" {
		cfg.Storage.Driver = storage.DriverSQLite
		cfg.Storage.DSN = dsn
	} else if cfg.Storage.Driver == storage.DriverMemory {
		cfg.Storage.Driver = storage.DriverSQLite
		cfg.Storage.DSN = defaultDatabase
	}
	if level := strings.TrimSpace(o.logLevel); level != "" {
		cfg.Logging.Level = level
	}

	module, err := autotranslate.New(cfg, o.containerOpts...)
	if err != nil {
		return nil, err
	}
	if err := module.Migrate(ctx); err != nil {
		module.Close()
		return nil, err
	}
	return module, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
