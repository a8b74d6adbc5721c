package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gitlab.com/dirk.krummacker/birthday-greeter/internal/config"
	"gitlab.com/dirk.krummacker/birthday-greeter/internal/service"
	"gitlab.com/dirk.krummacker/birthday-greeter/internal/source"
	"go.uber.org/zap"
)

// Usage example on the command line:
// > PORT=8080 GREETER_CSV_PATH=/data/friends.csv GIN_MODE=release GIN_LOGGING=OFF go run main.go
// > PORT=8080 GREETER_SOURCE=mysql DBUSER=dirk DBPWD=bullo92 go run main.go
func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Println("could not create logger", err)
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load(config.DefaultFile)
	if err != nil {
		logger.Fatal("Loading config failed", zap.Error(err))
	}
	cfg.ApplyEnv()
	if err := cfg.ApplyHTTPEnv(); err != nil {
		logger.Fatal("Loading config failed", zap.Error(err))
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid config", zap.Error(err))
	}
	if err := cfg.ValidateHTTP(); err != nil {
		logger.Fatal("Invalid config", zap.Error(err))
	}

	var src source.Source
	if cfg.Source.Kind == config.SourceMySQL {
		db, err := source.OpenMySQL(cfg.MySQL())
		if err != nil {
			logger.Fatal("Opening database failed", zap.Error(err))
		}
		defer db.Close()
		src = source.NewSQL(db)
	} else {
		dir, err := config.ExecutableDir()
		if err != nil {
			logger.Fatal("Locating friends file failed", zap.Error(err))
		}
		src = source.NewCSV(cfg.ResolveCSVPath(dir))
	}

	router := service.SetupHttpRouter(src, logger, time.Now)
	addr := ":" + strconv.Itoa(cfg.HTTP.Port)
	logger.Info("Serving contacts", zap.String("addr", addr), zap.String("source", cfg.Source.Kind))
	if err := router.Run(addr); err != nil {
		logger.Error("HTTP server stopped", zap.Error(err))
		os.Exit(1)
	}
}
