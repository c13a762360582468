package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const validYAML = `
server:
  port: "8080"
database:
  host: "localhost"
  port: "5432"
  user: "postgres"
  dbname: "identity_db"
  sslmode: "disable"
auth:
  secret: "test-secret"
`

func TestLoad_FromFile(t *testing.T) {
	path := writeTestConfig(t, validYAML)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "test-secret", cfg.Auth.Secret)

	// Defaults applied
	assert.Equal(t, 1800, cfg.Auth.LoginCodeTTLSeconds)
	assert.Equal(t, 6, cfg.Auth.LoginCodeLength)
	assert.Equal(t, 24, cfg.Auth.AccessTokenLifetimeHrs)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeTestConfig(t, validYAML)

	t.Setenv("DATABASE_HOST", "db.internal")
	t.Setenv("AUTH_LOGIN_CODE_LENGTH", "8")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 8, cfg.Auth.LoginCodeLength)
}

func TestLoad_RequiresSecret(t *testing.T) {
	path := writeTestConfig(t, `
database:
  host: "localhost"
  user: "postgres"
  dbname: "identity_db"
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "auth secret")
}

func TestLoad_RequiresDatabase(t *testing.T) {
	path := writeTestConfig(t, `
auth:
  secret: "test-secret"
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database configuration")
}

func TestLoad_EmailEnabledNeedsProvider(t *testing.T) {
	path := writeTestConfig(t, validYAML+`
email:
  enabled: true
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email is enabled")
}

func TestPostgresConnectionString(t *testing.T) {
	d := DatabaseConfig{
		Host: "localhost", Port: "5432", User: "postgres",
		Password: "pw", DBName: "identity_db", SSLMode: "disable",
	}
	assert.Equal(t,
		"host=localhost port=5432 user=postgres password=pw dbname=identity_db sslmode=disable",
		d.PostgresConnectionString())
}
