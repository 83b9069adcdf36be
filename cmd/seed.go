package cmd

import (
	"context"
	"fmt"

	"github.com/seedling-db/seedling/internal/config"
	"github.com/seedling-db/seedling/internal/database"
	"github.com/seedling-db/seedling/internal/fixture"
	"github.com/seedling-db/seedling/internal/seeder"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load all fixture files into the database",
	Long: `Load every fixture file from the configured fixtures directory into the
database, in numeric-prefix order.

Refuses to run unless the safety gate environment variable (default
ALLOW_DB_SEED) is set, so a stray invocation cannot seed a non-test
database.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		// Safety gate comes before anything touches the database.
		if err := cfg.CheckSeedGate(); err != nil {
			return err
		}

		sources, err := fixture.LoadDir(cfg.FixturesDir, cfg.Marker)
		if err != nil {
			return err
		}
		if len(sources) == 0 {
			fmt.Println("No fixture files found, nothing to do")
			return nil
		}

		dbURL, err := cfg.GetDatabaseURL()
		if err != nil {
			return err
		}

		ctx := context.Background()
		db, err := database.Connect(ctx, dbURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()

		return seeder.New(db).Run(ctx, sources)
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
