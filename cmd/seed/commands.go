package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"projectdash/internal/seed"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create tables and indexes if they do not exist",
	RunE:  runMigrate,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Replace all projects with generated demo data",
	RunE:  runSeed,
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every project (schema is kept)",
	RunE:  runClear,
}

func init() {
	migrateCmd.Flags().Bool("drop", false, "Drop tables first (deletes all data)")

	runCmd.Flags().Int("count", seed.DefaultCount, "Number of projects to create")
	runCmd.Flags().Bool("spread-months", false, "Backdate creation times across the last 12 months")
	runCmd.Flags().Uint64("seed", 0, "Random seed for reproducible data (0 = random)")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	drop, _ := cmd.Flags().GetBool("drop")

	e, err := openEnv(cmd.Context(), drop)
	if err != nil {
		return err
	}
	defer e.Close()

	if drop {
		warn("dropping tables")
		if err := e.store.Reset(cmd.Context()); err != nil {
			return fmt.Errorf("failed to reset schema: %w", err)
		}
		ok("schema recreated")
		return nil
	}

	if err := e.store.Migrate(cmd.Context()); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	ok("schema ready")
	return nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	count, _ := cmd.Flags().GetInt("count")
	spread, _ := cmd.Flags().GetBool("spread-months")
	randSeed, _ := cmd.Flags().GetUint64("seed")

	e, err := openEnv(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer e.Close()

	if err := e.store.Migrate(cmd.Context()); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	fixtures, err := seed.LoadFixtures()
	if err != nil {
		return err
	}

	seeder := seed.NewSeeder(e.store.Store, e.store.TxManager, fixtures, e.logger)
	projects, err := seeder.Run(cmd.Context(), seed.Options{
		Count:         count,
		SpreadCreated: spread,
		Seed:          randSeed,
	})
	if err != nil {
		return fmt.Errorf("seed failed: %w", err)
	}

	ok("created %d projects", len(projects))
	fmt.Println()
	fmt.Println("Sample projects:")
	for _, p := range projects[:min(5, len(projects))] {
		fmt.Printf("  • %s (%s) - $%s\n", p.Name, statusColor(string(p.Status)), p.Budget.StringFixed(2))
	}
	return nil
}

func runClear(cmd *cobra.Command, args []string) error {
	e, err := openEnv(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer e.Close()

	seeder := seed.NewSeeder(e.store.Store, e.store.TxManager, nil, e.logger)
	removed, err := seeder.Clear(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to clear projects: %w", err)
	}
	ok("deleted %d projects", removed)
	return nil
}

func statusColor(status string) string {
	switch status {
	case "ACTIVE":
		return color.New(color.FgGreen).Sprint(status)
	case "ON_HOLD":
		return color.New(color.FgYellow).Sprint(status)
	default:
		return color.New(color.FgBlue).Sprint(status)
	}
}
