package seeder

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/seedling-db/seedling/internal/fixture"
)

// pkColumn is the primary key column every fixture record carries explicitly.
const pkColumn = "id"

// Store is the slice of database behavior the seeder needs. It is satisfied
// by *database.Postgres and by fakes in tests.
type Store interface {
	ColumnIsIdentity(ctx context.Context, table, column string) (bool, error)
	DropIdentity(ctx context.Context, table, column string) error
	RestoreIdentity(ctx context.Context, table, column string) error
	SyncSequence(ctx context.Context, table, column string) (int64, error)
	InsertRows(ctx context.Context, table string, rows []fixture.Record) (int64, error)
}

// Seeder loads explicit-keyed fixture records into tables, toggling identity
// generation off and back on around each insert so the sequences stay in
// sync with the seeded keys.
type Seeder struct {
	store Store
}

func New(store Store) *Seeder {
	return &Seeder{store: store}
}

// Run seeds every export of every source in order. The first failure aborts
// the rest of the run; sources already committed stay committed.
func (s *Seeder) Run(ctx context.Context, sources []fixture.Source) error {
	color.Cyan("🌱 Seeding %d fixture source(s)...", len(sources))

	total := int64(0)
	for _, src := range sources {
		for _, export := range src.Exports {
			// Empty exports are a no-op: no identity probe, no insert,
			// no log line.
			if len(export.Records) == 0 {
				continue
			}

			count, err := s.seedExport(ctx, export)
			if err != nil {
				return fmt.Errorf("failed to seed %s (from %s): %w", export.Table, src.Name, err)
			}
			total += count
		}
	}

	color.Green("\n✅ Seeding completed: %d record(s) inserted", total)
	return nil
}

func (s *Seeder) seedExport(ctx context.Context, export fixture.Export) (int64, error) {
	hadIdentity, err := s.store.ColumnIsIdentity(ctx, export.Table, pkColumn)
	if err != nil {
		return 0, err
	}

	// Identity must be off before rows with explicit ids can go in.
	if hadIdentity {
		if err := s.store.DropIdentity(ctx, export.Table, pkColumn); err != nil {
			return 0, err
		}
	}

	count, err := s.store.InsertRows(ctx, export.Table, export.Records)
	if err != nil {
		return 0, err
	}

	if hadIdentity {
		if err := s.store.RestoreIdentity(ctx, export.Table, pkColumn); err != nil {
			return 0, err
		}
		if _, err := s.store.SyncSequence(ctx, export.Table, pkColumn); err != nil {
			return 0, err
		}
	}

	fmt.Printf("  📝 %s: %d record(s) inserted\n", export.Table, count)
	return count, nil
}
