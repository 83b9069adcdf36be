package fixture

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
)

// Fixture files are named like 001-regions.fixture.yaml. The numeric prefix
// controls seeding order; everything else in the directory is ignored.
var fixturePattern = regexp.MustCompile(`^(\d+)-[^.]+\.fixture\.(ya?ml|json)$`)

// Entry is a discovered fixture file and its parsed order prefix.
type Entry struct {
	Name  string
	Order int
}

// Discover returns the fixture files in dir sorted ascending by numeric
// prefix. Two files sharing a prefix would make the seeding order ambiguous,
// so that is rejected instead of picking one arbitrarily.
func Discover(dir string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixtures directory %s: %w", dir, err)
	}

	seen := make(map[int]string)
	var entries []Entry

	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		m := fixturePattern.FindStringSubmatch(de.Name())
		if m == nil {
			continue
		}

		order, err := strconv.Atoi(m[1])
		if err != nil {
			// Prefix longer than an int can hold; the pattern already
			// guaranteed digits.
			return nil, fmt.Errorf("invalid order prefix in %s: %w", de.Name(), err)
		}

		if prev, dup := seen[order]; dup {
			return nil, fmt.Errorf("duplicate fixture order %d: %s and %s", order, prev, de.Name())
		}
		seen[order] = de.Name()

		entries = append(entries, Entry{Name: de.Name(), Order: order})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Order < entries[j].Order
	})

	return entries, nil
}
