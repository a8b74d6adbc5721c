package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"gitlab.com/dirk.krummacker/birthday-greeter/internal/birthday"
	"gitlab.com/dirk.krummacker/birthday-greeter/internal/config"
	"gitlab.com/dirk.krummacker/birthday-greeter/internal/notifier"
	"gitlab.com/dirk.krummacker/birthday-greeter/internal/source"
	"go.uber.org/zap"
)

// CLI is the command line of the greeter.
type CLI struct {
	Date   string `short:"d" help:"Reference date (YYYY-MM-DD). Defaults to today." placeholder:"DATE"`
	Config string `help:"Path to the YAML config file." default:"${config_file}" type:"path"`
}

// Usage example on the command line:
// > go run main.go --date=2024-03-15
// > GREETER_CSV_PATH=/data/friends.csv go run main.go
func main() {
	var cli CLI
	kong.Parse(&cli,
		kong.Name("greeter"),
		kong.Description("Greets every friend whose birthday falls on the reference date."),
		kong.Vars{"config_file": config.DefaultFile},
	)
	if err := run(context.Background(), cli, os.Stdout, time.Now); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}

// run greets the contacts whose birthday falls on the reference date. The reference date is
// checked before any contact is read.
func run(ctx context.Context, cli CLI, out io.Writer, now func() time.Time) error {
	reference, err := birthday.ResolveReferenceDate(cli.Date, now)
	if err != nil {
		return err
	}

	cfg, err := config.Load(cli.Config)
	if err != nil {
		return err
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	src, closeSource, err := openSource(cfg, logger)
	if err != nil {
		return err
	}
	defer closeSource()

	logger.Debug("Greeting friends", zap.String("date", cli.Date), zap.Time("reference", reference))
	return birthday.NewService(src, notifier.NewConsole(out), logger).Execute(ctx, reference)
}

// newLogger builds a production logger that writes to stderr at the configured level.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, err
	}
	zapConfig := zap.NewProductionConfig()
	zapConfig.Level = zap.NewAtomicLevelAt(level)
	zapConfig.OutputPaths = []string{"stderr"}
	return zapConfig.Build()
}

// openSource creates the contact source selected by the config. The returned function releases
// whatever the source holds.
func openSource(cfg *config.Config, logger *zap.Logger) (source.Source, func(), error) {
	if cfg.Source.Kind == config.SourceMySQL {
		db, err := source.OpenMySQL(cfg.MySQL())
		if err != nil {
			return nil, nil, err
		}
		logger.Debug("Reading contacts from database", zap.String("host", cfg.Database.Host))
		return source.NewSQL(db), func() { db.Close() }, nil
	}
	dir, err := config.ExecutableDir()
	if err != nil {
		return nil, nil, err
	}
	path := cfg.ResolveCSVPath(dir)
	logger.Debug("Reading contacts from file", zap.String("path", path))
	return source.NewCSV(path), func() {}, nil
}
