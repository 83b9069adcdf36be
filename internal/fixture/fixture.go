package fixture

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Record maps column names to values, including the explicit primary key
// under "id".
type Record map[string]any

// Export is one named record set inside a fixture file. The semantic record
// names from the file are only an authoring aid for cross-fixture references;
// they are dropped after parsing and never persisted.
type Export struct {
	Name    string
	Table   string
	Records []Record
}

// Source is one fixture file. Sources are seeded in ascending Order so that
// tables without foreign-key dependents load before their dependents.
type Source struct {
	Name    string
	Order   int
	Exports []Export
}

// LoadDir discovers, parses and orders all fixture files in dir. Export
// names are resolved to table names using marker (see TableName).
func LoadDir(dir, marker string) ([]Source, error) {
	entries, err := Discover(dir)
	if err != nil {
		return nil, err
	}

	sources := make([]Source, 0, len(entries))
	for _, entry := range entries {
		src, err := loadFile(filepath.Join(dir, entry.Name), marker)
		if err != nil {
			return nil, fmt.Errorf("failed to load fixture %s: %w", entry.Name, err)
		}
		src.Name = entry.Name
		src.Order = entry.Order
		sources = append(sources, src)
	}

	return sources, nil
}

func loadFile(path, marker string) (Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Source{}, err
	}

	// Export name -> semantic record name -> record.
	var raw map[string]map[string]Record

	if strings.HasSuffix(path, ".json") {
		if err := json.Unmarshal(data, &raw); err != nil {
			return Source{}, fmt.Errorf("invalid JSON: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return Source{}, fmt.Errorf("invalid YAML: %w", err)
		}
	}

	var src Source
	for name, records := range raw {
		table, err := TableName(marker, name)
		if err != nil {
			return Source{}, err
		}

		export := Export{
			Name:    name,
			Table:   table,
			Records: make([]Record, 0, len(records)),
		}

		// Record names are maps with no inherent order; sort them so the
		// insert batch is deterministic run to run.
		names := make([]string, 0, len(records))
		for recName := range records {
			names = append(names, recName)
		}
		sort.Strings(names)
		for _, recName := range names {
			export.Records = append(export.Records, records[recName])
		}

		src.Exports = append(src.Exports, export)
	}

	sort.Slice(src.Exports, func(i, j int) bool {
		return src.Exports[i].Name < src.Exports[j].Name
	})

	return src, nil
}
