package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"projectdash/internal/config"
	"projectdash/internal/repository/backend"
)

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Manage the projectdash schema and demo data",
	Long: `Create the schema, load demo projects, or clear all projects.

The store is selected with the same environment variables as the server
(STORE_DRIVER, DATABASE_URL, SQLITE_PATH, ENVIRONMENT).`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(migrateCmd, runCmd, clearCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.New(color.FgRed).Sprint("✗"), err)
		os.Exit(1)
	}
}

// env is the loaded configuration plus the opened store
type env struct {
	cfg     *config.Config
	store   *backend.Backend
	logger  *slog.Logger
	closeFn func()
}

func (e *env) Close() { e.closeFn() }

// openEnv loads configuration and opens the store. Destructive commands
// refuse to run against production.
func openEnv(ctx context.Context, destructive bool) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if destructive && cfg.Environment == "prod" {
		return nil, fmt.Errorf("refusing to run a destructive command in the prod environment")
	}

	// Store and seeding logs are noise on the terminal unless debugging
	var out io.Writer = io.Discard
	if cfg.LogLevel == "debug" {
		out = os.Stderr
	}
	logger, logCloser, err := config.NewLogger(cfg, out)
	if err != nil {
		return nil, err
	}

	store, err := backend.Open(ctx, cfg, logger)
	if err != nil {
		logCloser.Close()
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	fmt.Printf("%s %s store (environment: %s, prefix: %s)\n",
		color.New(color.FgCyan).Sprint("→"), store.Driver, cfg.Environment, cfg.TablePrefix)

	return &env{
		cfg:    cfg,
		store:  store,
		logger: logger,
		closeFn: func() {
			store.Close()
			logCloser.Close()
		},
	}, nil
}

func ok(format string, args ...any) {
	fmt.Printf("%s %s\n", color.New(color.FgGreen).Sprint("✓"), fmt.Sprintf(format, args...))
}

func warn(format string, args ...any) {
	fmt.Printf("%s %s\n", color.New(color.FgYellow).Sprint("!"), fmt.Sprintf(format, args...))
}
