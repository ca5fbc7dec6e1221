package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/ecofocus/internal/config"
	"github.com/rshade/ecofocus/internal/logging"
)

// isolate points the config home at a temp dir and clears overrides.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv(config.EnvHome, home)
	for _, k := range []string{
		config.EnvDB, config.EnvLogLevel, config.EnvLogFormat, config.EnvProjectDir, config.EnvSeed,
	} {
		t.Setenv(k, "")
	}
	config.ResetGlobalConfigForTest()
	t.Cleanup(config.ResetGlobalConfigForTest)
	return home
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNew_Defaults(t *testing.T) {
	home := isolate(t)

	cfg := config.New()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "table", cfg.Output.DefaultFormat)
	assert.Equal(t, filepath.Join(home, "ecofocus.db"), cfg.Storage.Database)
	assert.Equal(t, filepath.Join(home, "cache"), cfg.Storage.CacheDir)
	assert.Equal(t, "xgboost", cfg.Model.Variant)
	assert.Equal(t, 7, cfg.Forecast.Days)
	assert.Equal(t, 30, cfg.Analysis.HistoryDays)
	assert.Equal(t, 24*time.Hour, cfg.ReportTTL())
	assert.Equal(t, filepath.Join(home, "config.yaml"), cfg.Path())
}

func TestNew_ReadsConfigFileAndEnv(t *testing.T) {
	home := isolate(t)
	writeFile(t, filepath.Join(home, "config.yaml"), `
model:
  variant: lightgbm
forecast:
  days: 14
`)
	t.Setenv(config.EnvDB, "/tmp/other.db")
	t.Setenv(config.EnvLogLevel, "warn")
	t.Setenv(config.EnvSeed, "99")

	cfg := config.New()
	assert.Equal(t, "lightgbm", cfg.Model.Variant)
	assert.Equal(t, 100, cfg.Model.Estimators, "fields absent from the file keep defaults")
	assert.Equal(t, 14, cfg.Forecast.Days)
	assert.Equal(t, uint64(99), cfg.Forecast.Seed)
	assert.Equal(t, "/tmp/other.db", cfg.Storage.Database)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestSaveAndLoad(t *testing.T) {
	home := isolate(t)

	cfg := config.New()
	cfg.Analysis.CarbonPrice = 80
	require.NoError(t, cfg.Save())

	loaded, err := config.Load(filepath.Join(home, "config.yaml"))
	require.NoError(t, err)
	assert.InDelta(t, 80.0, loaded.Analysis.CarbonPrice, 1e-9)
	assert.Equal(t, cfg.Storage, loaded.Storage)
}

func TestLoad_Errors(t *testing.T) {
	isolate(t)

	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	bad := writeFile(t, filepath.Join(t.TempDir(), "bad.yaml"), "model: [unclosed")
	_, err = config.Load(bad)
	require.ErrorContains(t, err, "parsing config")
}

func TestValidate(t *testing.T) {
	isolate(t)

	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   error
	}{
		{"output format", func(c *config.Config) { c.Output.DefaultFormat = "xml" }, config.ErrInvalidOutputFormat},
		{"log level", func(c *config.Config) { c.Logging.Level = "loud" }, config.ErrInvalidLogLevel},
		{"log format", func(c *config.Config) { c.Logging.Format = "xml" }, config.ErrInvalidLogFormat},
		{"variant", func(c *config.Config) { c.Model.Variant = "svm" }, config.ErrInvalidVariant},
		{"estimators", func(c *config.Config) { c.Model.Estimators = 0 }, config.ErrInvalidRange},
		{"ttl", func(c *config.Config) { c.Model.ReportTTL = "1s" }, config.ErrInvalidCacheTTL},
		{"forecast days", func(c *config.Config) { c.Forecast.Days = 0 }, config.ErrInvalidRange},
		{"carbon price", func(c *config.Config) { c.Analysis.CarbonPrice = -1 }, config.ErrInvalidRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default(t.TempDir())
			tt.mutate(cfg)
			require.ErrorIs(t, cfg.Validate(), tt.want)
		})
	}
}

func TestToLoggingConfig(t *testing.T) {
	lc := config.LoggingConfig{Level: "debug", Format: "json"}
	assert.Equal(t, logging.Config{Level: "debug", Format: "json", Output: logging.OutputStderr}, lc.ToLoggingConfig())

	lc.File = "/var/log/ecofocus.log"
	got := lc.ToLoggingConfig()
	assert.Equal(t, logging.OutputFile, got.Output)
	assert.Equal(t, "/var/log/ecofocus.log", got.File)
}

func TestGetLoggingConfig_UsesGlobal(t *testing.T) {
	isolate(t)
	cfg := config.Default(t.TempDir())
	cfg.Logging.Level = "error"
	config.SetGlobalConfig(cfg)

	assert.Equal(t, "error", config.GetLoggingConfig().Level)
	assert.Equal(t, "table", config.GetDefaultOutputFormat())
}

func TestShallowMergeYAML(t *testing.T) {
	isolate(t)

	target := config.Default(t.TempDir())
	target.Model.Estimators = 250
	overlay := writeFile(t, filepath.Join(t.TempDir(), "overlay.yaml"), `
model:
  variant: random_forest
unknown_section:
  ignored: true
`)

	require.NoError(t, config.ShallowMergeYAML(target, overlay))
	assert.Equal(t, "random_forest", target.Model.Variant)
	assert.Zero(t, target.Model.Estimators, "a present section replaces the whole section")
	assert.Equal(t, "table", target.Output.DefaultFormat, "absent sections are untouched")
}

func TestShallowMergeYAML_Errors(t *testing.T) {
	require.Error(t, config.ShallowMergeYAML(nil, "x.yaml"))

	target := config.Default(t.TempDir())
	require.Error(t, config.ShallowMergeYAML(target, filepath.Join(t.TempDir(), "missing.yaml")))

	empty := writeFile(t, filepath.Join(t.TempDir(), "empty.yaml"), "# nothing\n")
	require.NoError(t, config.ShallowMergeYAML(target, empty))
}

func TestResolveProjectDir(t *testing.T) {
	isolate(t)
	ctx := context.Background()

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, config.ProjectDirName), 0o700))
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o700))

	assert.Equal(t, filepath.Join(root, config.ProjectDirName), config.ResolveProjectDir(ctx, "", nested))

	flag := t.TempDir()
	assert.Equal(t, filepath.Join(flag, config.ProjectDirName), config.ResolveProjectDir(ctx, flag, nested))
	assert.Equal(t, filepath.Join(flag, config.ProjectDirName),
		config.ResolveProjectDir(ctx, filepath.Join(flag, config.ProjectDirName), nested))

	t.Setenv(config.EnvProjectDir, flag)
	assert.Equal(t, filepath.Join(flag, config.ProjectDirName), config.ResolveProjectDir(ctx, "", nested))
}

func TestNewWithProjectDir(t *testing.T) {
	isolate(t)
	ctx := context.Background()

	project := filepath.Join(t.TempDir(), config.ProjectDirName)
	writeFile(t, filepath.Join(project, "config.yaml"), "output:\n  default_format: json\n")

	cfg := config.NewWithProjectDir(ctx, project)
	assert.Equal(t, "json", cfg.Output.DefaultFormat)

	assert.Equal(t, "table", config.NewWithProjectDir(ctx, "").Output.DefaultFormat)
	assert.Equal(t, "table", config.NewWithProjectDir(ctx, t.TempDir()).Output.DefaultFormat)
}
