package database

import (
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/seedling-db/seedling/internal/fixture"
)

var testQB = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

func TestBuildInsert(t *testing.T) {
	rows := []fixture.Record{
		{"id": 1, "name": "Europe"},
		{"id": 2, "name": "Australia"},
	}

	query, args, err := buildInsert(testQB, "regions", rows)
	if err != nil {
		t.Fatalf("buildInsert failed: %v", err)
	}

	want := "INSERT INTO regions (id,name) VALUES ($1,$2),($3,$4)"
	if query != want {
		t.Errorf("Expected query %q, got %q", want, query)
	}
	if len(args) != 4 {
		t.Fatalf("Expected 4 args, got %d: %v", len(args), args)
	}
	if args[0] != 1 || args[1] != "Europe" || args[2] != 2 || args[3] != "Australia" {
		t.Errorf("Unexpected args: %v", args)
	}
}

func TestBuildInsertColumnUnion(t *testing.T) {
	// Records with different shapes: missing keys become NULL args.
	rows := []fixture.Record{
		{"id": 1, "name": "Europe"},
		{"id": 2, "name": "Australia", "code": "AU"},
	}

	query, args, err := buildInsert(testQB, "regions", rows)
	if err != nil {
		t.Fatalf("buildInsert failed: %v", err)
	}

	want := "INSERT INTO regions (code,id,name) VALUES ($1,$2,$3),($4,$5,$6)"
	if query != want {
		t.Errorf("Expected query %q, got %q", want, query)
	}
	if args[0] != nil {
		t.Errorf("Expected NULL for missing code in first record, got %v", args[0])
	}
	if args[3] != "AU" {
		t.Errorf("Expected AU, got %v", args[3])
	}
}

func TestBuildInsertRejectsBadIdentifiers(t *testing.T) {
	rows := []fixture.Record{{"id": 1}}

	if _, _, err := buildInsert(testQB, "regions; DROP TABLE users", rows); err == nil {
		t.Error("Expected error for malicious table name, got nil")
	}

	bad := []fixture.Record{{"id; --": 1}}
	if _, _, err := buildInsert(testQB, "regions", bad); err == nil {
		t.Error("Expected error for malicious column name, got nil")
	}
}
