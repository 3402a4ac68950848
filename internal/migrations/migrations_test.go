package migrations

import (
	"database/sql"
	"strings"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := embedMigrations.ReadDir(".")
	if err != nil {
		t.Fatalf("Failed to read embedded migrations: %v", err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			names = append(names, entry.Name())
		}
	}

	if len(names) < 2 {
		t.Fatalf("expected schema and seed migrations, got %v", names)
	}
}

func TestSeedContainsAllStatuses(t *testing.T) {
	data, err := embedMigrations.ReadFile("00002_seed_dictionaries.sql")
	if err != nil {
		t.Fatalf("Failed to read seed migration: %v", err)
	}

	// id статусов - часть публичного API (statusId в запросах)
	for _, want := range []string{"(1, 'NOT_APPROVED')", "(2, 'APPROVED')", "(3, 'CANCELLED')", "(4, 'COMPLETED')"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("seed migration does not contain %s", want)
		}
	}
}

func TestRunWithInvalidDB(t *testing.T) {
	db, err := sql.Open("pgx", "invalid://connection")
	if err != nil {
		t.Skipf("Cannot create test DB connection: %v", err)
	}
	defer db.Close()

	if err := Run(db); err == nil {
		t.Error("Expected error for invalid DB connection, got nil")
	}
}

func TestVersionWithInvalidDB(t *testing.T) {
	db, err := sql.Open("pgx", "invalid://connection")
	if err != nil {
		t.Skipf("Cannot create test DB connection: %v", err)
	}
	defer db.Close()

	if _, err := Version(db); err == nil {
		t.Error("Expected error for invalid DB connection, got nil")
	}
}
