package cmd

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/seedling-db/seedling/internal/config"
	"github.com/seedling-db/seedling/internal/database"
	"github.com/seedling-db/seedling/internal/fixture"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate fixtures against the database schema without seeding",
	Long: `Load all fixture files, derive their target table names and verify each
table exists in the database. Nothing is written, so the seeding safety gate
is not required.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		sources, err := fixture.LoadDir(cfg.FixturesDir, cfg.Marker)
		if err != nil {
			return err
		}
		if len(sources) == 0 {
			fmt.Println("No fixture files found, nothing to check")
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

		missing := 0
		for _, src := range sources {
			fmt.Printf("📋 %s\n", src.Name)
			for _, export := range src.Exports {
				exists, err := db.TableExists(ctx, export.Table)
				if err != nil {
					return err
				}
				if exists {
					color.Green("  ✅ %s → %s (%d record(s))", export.Name, export.Table, len(export.Records))
				} else {
					color.Red("  ❌ %s → %s: table does not exist", export.Name, export.Table)
					missing++
				}
			}
		}

		if missing > 0 {
			return fmt.Errorf("%d fixture export(s) reference missing tables", missing)
		}

		color.Green("\n✅ All fixture tables exist")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
