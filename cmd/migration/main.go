package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/jmoiron/sqlx"
	"gitlab.com/dirk.krummacker/birthday-greeter/internal/config"
	"gitlab.com/dirk.krummacker/birthday-greeter/internal/source"
	"go.uber.org/zap"
)

// CLI is the command line of the migration.
type CLI struct {
	Schema string `help:"SQL file to execute before the import. Creates the contacts table if omitted." type:"existingfile"`
	CSV    string `help:"Friends file to import into the contacts table." type:"existingfile"`
}

// Usage example on the command line:
// > DBHOST=localhost:3306 DBUSER=dirk DBPWD=bullo92 go run main.go --schema=../../scripts/database.sql --csv=../../friends.csv
func main() {
	var cli CLI
	kctx := kong.Parse(&cli, kong.Name("migration"), kong.Description("Prepares the contacts database."))

	logger, err := zap.NewProduction()
	kctx.FatalIfErrorf(err)
	defer logger.Sync()

	cfg, err := config.Load(config.DefaultFile)
	kctx.FatalIfErrorf(err)
	cfg.ApplyEnv()

	db, err := source.OpenMySQL(cfg.MySQL())
	kctx.FatalIfErrorf(err)
	defer db.Close()

	ctx := context.Background()
	if err := migrate(ctx, db, cli, logger); err != nil {
		logger.Error("Migration failed", zap.Error(err))
		db.Close()
		os.Exit(1)
	}
}

// migrate executes the schema and imports the friends file.
func migrate(ctx context.Context, db *sqlx.DB, cli CLI, logger *zap.Logger) error {
	if cli.Schema == "" {
		if _, err := db.ExecContext(ctx, source.CreateTable); err != nil {
			return fmt.Errorf("creating contacts table: %w", err)
		}
	} else {
		count, err := executeFile(ctx, db, cli.Schema)
		if err != nil {
			return err
		}
		logger.Info("Schema executed", zap.String("file", cli.Schema), zap.Int("statements", count))
	}

	if cli.CSV == "" {
		return nil
	}
	count, err := source.NewSQL(db).Import(ctx, source.NewCSV(cli.CSV).All(ctx))
	if err != nil {
		return err
	}
	logger.Info("Contacts imported", zap.String("file", cli.CSV), zap.Int("contacts", count))
	return nil
}

// executeFile runs every statement of an SQL file. A statement ends on the line that contains a
// semicolon. It returns the number of executed statements.
func executeFile(ctx context.Context, db *sqlx.DB, path string) (int, error) {
	readFile, err := os.Open(path) // nosemgrep
	if err != nil {
		return 0, err
	}
	defer readFile.Close()

	count := 0
	fileScanner := bufio.NewScanner(readFile)
	fileScanner.Split(bufio.ScanLines)
	builder := strings.Builder{}
	for fileScanner.Scan() {
		line := fileScanner.Text()
		builder.WriteString(line)
		builder.WriteString(" ")
		if strings.Contains(line, ";") {
			if _, err := db.ExecContext(ctx, builder.String()); err != nil {
				return count, fmt.Errorf("executing statement %d of %s: %w", count+1, path, err)
			}
			count++
			builder = strings.Builder{}
		}
	}
	if err := fileScanner.Err(); err != nil {
		return count, fmt.Errorf("reading %s: %w", path, err)
	}
	return count, nil
}
