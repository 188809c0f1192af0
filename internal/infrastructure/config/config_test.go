package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp runs the test from an empty directory so no config.toml or .env is picked up
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		chdirTemp(t)

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "menuhub", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "5000", cfg.App.Port)
		assert.Equal(t, "UTC", cfg.App.Timezone)
		assert.Equal(t, DriverPostgres, cfg.Database.Driver)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, 5*time.Minute, cfg.Redis.CacheTTL)
		assert.Equal(t, int64(5<<20), cfg.HTTP.MaxUploadSize)
		assert.Equal(t, StorageLocal, cfg.Storage.Driver)
		assert.Equal(t, "/metrics", cfg.Metrics.Path)
		assert.True(t, cfg.Swagger.Enabled)
		assert.False(t, cfg.Printing.Enabled)
		assert.Equal(t, 30*time.Second, cfg.Printing.Timeout)
	})

	t.Run("loads values from environment variables with MENUHUB prefix", func(t *testing.T) {
		chdirTemp(t)
		t.Setenv("MENUHUB_APP_PORT", "9000")
		t.Setenv("MENUHUB_APP_TIMEZONE", "Asia/Karachi")
		t.Setenv("MENUHUB_DATABASE_DRIVER", "sqlite")
		t.Setenv("MENUHUB_DATABASE_PATH", ":memory:")
		t.Setenv("MENUHUB_REDIS_CACHE_TTL", "1m")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, DriverSQLite, cfg.Database.Driver)
		assert.Equal(t, ":memory:", cfg.Database.Path)
		assert.Equal(t, time.Minute, cfg.Redis.CacheTTL)

		loc, err := cfg.App.Location()
		require.NoError(t, err)
		assert.Equal(t, "Asia/Karachi", loc.String())
	})

	t.Run("reads config.toml and .env", func(t *testing.T) {
		dir := chdirTemp(t)
		toml := "[app]\nname = \"from-toml\"\n\n[storage]\ndriver = \"s3\"\nbucket = \"menu-images\"\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(toml), 0o600))
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("MENUHUB_APP_PORT=7070\n"), 0o600))
		t.Cleanup(func() { _ = os.Unsetenv("MENUHUB_APP_PORT") })

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "from-toml", cfg.App.Name)
		assert.Equal(t, "7070", cfg.App.Port)
		assert.Equal(t, StorageS3, cfg.Storage.Driver)
		assert.Equal(t, "menu-images", cfg.Storage.Bucket)
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{}
		applyDefaults(cfg)
		return cfg
	}

	require.NoError(t, valid().validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"unknown driver", func(c *Config) { c.Database.Driver = "mysql" }, "database.driver"},
		{"idle exceeds open", func(c *Config) { c.Database.MaxIdleConns = 100 }, "max_idle_conns"},
		{"bad timezone", func(c *Config) { c.App.Timezone = "Mars/Olympus" }, "app.timezone"},
		{"s3 without bucket", func(c *Config) { c.Storage.Driver = StorageS3 }, "storage.bucket"},
		{"unknown storage", func(c *Config) { c.Storage.Driver = "ftp" }, "storage.driver"},
		{"production without secret", func(c *Config) { c.App.Env = "production" }, "jwt.secret"},
		{"unprotected swagger in production", func(c *Config) {
			c.App.Env = "production"
			c.JWT.Secret = "a-production-secret-of-32-bytes!!"
			c.Database.Password = "secret"
			c.Swagger.Enabled = true
		}, "swagger endpoint"},
		{"sampling out of range", func(c *Config) { c.Telemetry.SamplingRatio = 2 }, "sampling_ratio"},
		{"profiling without address", func(c *Config) { c.Profiling.Enabled = true }, "profiling.server_address"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestValidate_ProtectedSwaggerInProduction(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)
	cfg.App.Env = "production"
	cfg.JWT.Secret = "a-production-secret-of-32-bytes!!"
	cfg.Database.Password = "secret"
	cfg.Swagger = SwaggerConfig{Enabled: true, AllowedIPs: []string{"10.0.0.1"}}

	assert.NoError(t, cfg.validate())
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{User: "app", Password: "p@ss word", Host: "db", Port: 5432, DBName: "menuhub", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%20word@db:5432/menuhub?sslmode=disable", d.DSN())
}
