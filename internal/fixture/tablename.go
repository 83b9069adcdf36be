package fixture

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/fatih/camelcase"
)

// validIdentifier validates SQL identifiers (table/column names) to prevent
// SQL injection through fixture export names.
var validIdentifier = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// IsValidIdentifier reports whether name is a safe SQL identifier.
func IsValidIdentifier(name string) bool {
	return validIdentifier.MatchString(name)
}

// TableName derives the target table from an export name: the marker prefix
// is stripped and the remaining CamelCase identifier becomes snake_case.
// "testRegions" -> "regions", "testCampusInfo" -> "campus_info".
func TableName(marker, export string) (string, error) {
	if !strings.HasPrefix(export, marker) {
		return "", fmt.Errorf("export %q does not start with marker %q", export, marker)
	}

	rest := strings.TrimPrefix(export, marker)
	if rest == "" {
		return "", fmt.Errorf("export %q has no table identifier after marker %q", export, marker)
	}

	words := camelcase.Split(rest)
	for i := range words {
		words[i] = strings.ToLower(words[i])
	}
	table := strings.Join(words, "_")

	if !IsValidIdentifier(table) {
		return "", fmt.Errorf("export %q derives invalid table name %q", export, table)
	}

	return table, nil
}
