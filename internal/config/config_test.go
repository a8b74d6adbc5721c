package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

// writeConfig creates a config file with the specified content in a temporary directory.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultFile)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), *cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoadCommentOnlyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, "# nothing here\n"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), *cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
source:
  kind: mysql
database:
  host: db:3306
  user: dirk
log:
  level: debug
`))
	require.NoError(t, err)
	assert.Equal(t, SourceMySQL, cfg.Source.Kind)
	assert.Equal(t, "../friends.csv", cfg.Source.CSVPath)
	assert.Equal(t, "db:3306", cfg.Database.Host)
	assert.Equal(t, "dirk", cfg.Database.User)
	assert.Equal(t, "test", cfg.Database.Name)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 8080, cfg.HTTP.Port)
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	_, err := Load(writeConfig(t, "source:\n  path: friends.csv\n"))
	assert.ErrorContains(t, err, "config: parsing")
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("GREETER_SOURCE", "mysql")
	t.Setenv("GREETER_CSV_PATH", "/data/friends.csv")
	t.Setenv("GREETER_LOG_LEVEL", "error")
	t.Setenv("DBHOST", "db:3306")
	t.Setenv("DBUSER", "dirk")
	t.Setenv("DBPWD", "secret")
	t.Setenv("DBNAME", "people")
	t.Setenv("PORT", "9090")

	cfg := DefaultConfig()
	cfg.ApplyEnv()
	assert.Equal(t, Config{
		Source:   Source{Kind: SourceMySQL, CSVPath: "/data/friends.csv"},
		Database: Database{Host: "db:3306", User: "dirk", Password: "secret", Name: "people"},
		Log:      Log{Level: "error"},
		HTTP:     HTTP{Port: 8080},
	}, cfg)
}

// TestApplyEnvIgnoresPort leaves a malformed PORT to the HTTP service.
func TestApplyEnvIgnoresPort(t *testing.T) {
	t.Setenv("PORT", "eighty")
	cfg := DefaultConfig()
	cfg.ApplyEnv()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, 8080, cfg.HTTP.Port)
}

func TestApplyHTTPEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	cfg := DefaultConfig()
	require.NoError(t, cfg.ApplyHTTPEnv())
	assert.Equal(t, HTTP{Port: 9090}, cfg.HTTP)
}

func TestApplyHTTPEnvInvalidPort(t *testing.T) {
	t.Setenv("PORT", "eighty")
	cfg := DefaultConfig()
	assert.ErrorContains(t, cfg.ApplyHTTPEnv(), "invalid PORT")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   string
	}{
		{"unknown source", func(c *Config) { c.Source.Kind = "ldap" }, "source.kind"},
		{"empty csv path", func(c *Config) { c.Source.CSVPath = "" }, "source.csv_path"},
		{"empty database host", func(c *Config) { c.Source.Kind = SourceMySQL; c.Database.Host = "" }, "database.host"},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}
}

func TestValidateHTTP(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.ValidateHTTP())

	for _, port := range []int{0, -1, 65536} {
		cfg.HTTP.Port = port
		assert.ErrorContains(t, cfg.ValidateHTTP(), "http.port", port)
		assert.NoError(t, cfg.Validate(), port)
	}
}

func TestLogLevel(t *testing.T) {
	cfg := DefaultConfig()
	level, err := cfg.LogLevel()
	require.NoError(t, err)
	assert.Equal(t, zapcore.WarnLevel, level)
}

func TestResolveCSVPath(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, filepath.Join("/opt", "friends.csv"), cfg.ResolveCSVPath("/opt/bin"))

	cfg.Source.CSVPath = "/data/friends.csv"
	assert.Equal(t, "/data/friends.csv", cfg.ResolveCSVPath("/opt/bin"))
}

func TestMySQL(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Database.User = "dirk"
	cfg.Database.Password = "bullo92"
	assert.Equal(t, "dirk:bullo92@tcp(localhost:3306)/test?parseTime=true", cfg.MySQL().FormatDSN())
}
