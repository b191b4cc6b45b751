package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_USERNAME", "hire")
	t.Setenv("DB_PASSWORD", "p@ss word")
	t.Setenv("DB_NAME", "hireradar")
	t.Setenv("JWT_SECRET", "secret")
}

func TestParseRequiresDatabaseSettings(t *testing.T) {
	setRequired(t)
	t.Setenv("DB_HOST", "")

	_, err := Parse()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_HOST")
}

func TestParseDefaults(t *testing.T) {
	setRequired(t)
	t.Setenv("SMTP_USER", "mailer@example.com")

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "Hire Radar", cfg.AppName)
	assert.Equal(t, "mailer@example.com", cfg.SMTPFrom)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.Equal(t, "1h0m0s", cfg.PasswordResetTTL.String())
	assert.Equal(t, "24h0m0s", cfg.SessionTTL.String())
	assert.False(t, cfg.GoogleEnabled())
	assert.False(t, cfg.MinIOEnabled())
}

func TestDatabaseURL(t *testing.T) {
	cfg := Config{DBHost: "db", DBUser: "hire", DBPassword: "p@ss word", DBName: "jobs", DBSSLMode: "disable"}
	assert.Equal(t, "postgres://hire:p%40ss%20word@db/jobs?sslmode=disable", cfg.DatabaseURL())

	cfg.DBPort = "5433"
	assert.Equal(t, "postgres://hire:p%40ss%20word@db:5433/jobs?sslmode=disable", cfg.DatabaseURL())
}

func TestSplitAndTrim(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitAndTrim([]string{" a", "", "b "}))
	assert.Equal(t, []string{"*"}, splitAndTrim(nil))
}
