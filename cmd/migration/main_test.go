package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/dirk.krummacker/birthday-greeter/internal/source"
	"go.uber.org/zap"
)

// createMockObjects builds a mock database handle and a mock object for defining our expected SQL
// calls.
func createMockObjects(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "mysql"), mock
}

// writeFile creates a file with the specified content in a temporary directory.
func writeFile(t *testing.T, name string, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// TestMigrateDefaultSchemaAndImport creates the table and imports the friends file.
func TestMigrateDefaultSchemaAndImport(t *testing.T) {
	db, mock := createMockObjects(t)
	csv := writeFile(t, "friends.csv", "Doe,Jane,1990-03-15,jane@example.com\n")

	// Define expectations on SQL statements
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS contacts").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectBegin()
	mock.ExpectPrepare("INSERT INTO contacts").ExpectExec().
		WithArgs("Doe", "Jane", time.Date(1990, time.March, 15, 0, 0, 0, 0, time.UTC), "jane@example.com").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	// Run test and compare results
	err := migrate(context.Background(), db, CLI{CSV: csv}, zap.NewNop())
	assert.NoError(t, err)
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestMigrateSchemaFile executes each statement of the schema file.
func TestMigrateSchemaFile(t *testing.T) {
	db, mock := createMockObjects(t)
	schema := writeFile(t, "database.sql", "DROP TABLE IF EXISTS contacts;\nCREATE TABLE contacts (\n  id BIGINT\n);\n")

	mock.ExpectExec("DROP TABLE IF EXISTS contacts").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE contacts").WillReturnResult(sqlmock.NewResult(0, 0))

	err := migrate(context.Background(), db, CLI{Schema: schema}, zap.NewNop())
	assert.NoError(t, err)
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestMigrateBrokenFriendsFile rolls the import back.
func TestMigrateBrokenFriendsFile(t *testing.T) {
	db, mock := createMockObjects(t)
	csv := writeFile(t, "friends.csv", "Doe,Jane,not-a-date,jane@example.com\n")

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS contacts").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectBegin()
	mock.ExpectPrepare("INSERT INTO contacts")
	mock.ExpectRollback()

	err := migrate(context.Background(), db, CLI{CSV: csv}, zap.NewNop())
	var parseErr *source.ParseError
	assert.ErrorAs(t, err, &parseErr)
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}
