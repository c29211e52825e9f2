package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/avelar/rollcall/internal/ledger"
	"github.com/avelar/rollcall/internal/policy"
	"github.com/avelar/rollcall/internal/registry"
)

// runtime bundles everything a command needs: the resolved config, the
// open ledger and the registry on top of it.
type runtime struct {
	cfg      Config
	ledger   *ledger.Ledger
	registry *registry.Registry
}

// openRuntime resolves config, opens the database and builds the
// registry. Callers must Close it.
func openRuntime(opts *RootOptions) (*runtime, error) {
	logLevel := slog.LevelWarn
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))

	cfg, err := LoadConfig(opts.Config)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}

	pol := policy.Default()
	if cfg.Policy != "" {
		pol, err = policy.Load(cfg.Policy)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to load policy", err)
		}
	}

	l, err := ledger.Open(databasePath(opts, cfg))
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}

	return &runtime{
		cfg:    cfg,
		ledger: l,
		registry: registry.New(l,
			registry.WithPolicy(pol),
			registry.WithLogger(log),
		),
	}, nil
}

func (rt *runtime) Close() {
	if err := rt.ledger.Close(); err != nil {
		slog.Error("error closing database", "error", err)
	}
}

// caller resolves the acting identity for mutating commands.
func (rt *runtime) caller(opts *RootOptions) (string, error) {
	return callerIdentity(opts, rt.cfg)
}

// formatter builds the output formatter for a command invocation.
func formatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
}
