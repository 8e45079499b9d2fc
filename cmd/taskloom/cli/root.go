// Package cli builds the taskloom command tree and wires the composition
// root each subcommand needs: config, a logger, the store, the provider
// factory, the event broadcaster, and the orchestrator façade.
//
// Grounded on yarlson-ralph/cmd/root.go's NewRootCmd()+Execute() shape and
// the teacher's cmd/cortex/main.go logger construction
// (configureLogger(logLevel, useDev)).
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arclight-dev/taskloom/internal/config"
	"github.com/arclight-dev/taskloom/internal/events"
	"github.com/arclight-dev/taskloom/internal/orchestrator"
	"github.com/arclight-dev/taskloom/internal/providers"
	"github.com/arclight-dev/taskloom/internal/store"
)

var (
	cfgFile  string
	devLogs  bool
	logLevel string
)

// NewRootCmd builds the root command and its full subcommand tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "taskloom",
		Short:         "Task orchestration core: transcripts and PRDs in, lifecycle-managed tasks out",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to TOML config file (default: compiled defaults)")
	rootCmd.PersistentFlags().BoolVar(&devLogs, "dev", false, "use text log format (default is JSON)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")

	rootCmd.AddCommand(
		newSubmitCmd(),
		newIngestCmd(),
		newRunCmd(),
		newWorkerCmd(),
	)

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

func configureLogger(level string, useDev bool) *slog.Logger {
	lvl := slog.LevelInfo
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if useDev {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}

// composition bundles the objects every subcommand needs, built once from
// the persistent flags after cobra has parsed them.
type composition struct {
	logger  *slog.Logger
	cfg     *config.Config
	store   *store.Store
	factory *providers.Factory
	orch    *orchestrator.Orchestrator
}

func newComposition() (*composition, error) {
	logger := configureLogger(logLevel, devLogs)

	cfg, err := config.Load(cfgFile, nil)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	factory, err := providers.New(cfg, logger.With("component", "providers"))
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("build provider factory: %w", err)
	}

	broadcast := events.NewBroadcaster()
	orch := orchestrator.New(st, factory, broadcast, logger.With("component", "orchestrator"))

	return &composition{logger: logger, cfg: cfg, store: st, factory: factory, orch: orch}, nil
}

func (c *composition) Close() error {
	return c.store.Close()
}
