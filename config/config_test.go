package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ExplicitPath(t *testing.T) {
	// GIVEN: A config file at a caller-chosen location
	// WHEN: Loading with that path
	// THEN: Its values apply; nothing touches the home directory default

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"listen: \"127.0.0.1:9999\"\ndb_path: \"/tmp/t.db\"\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9999", cfg.Listen)
	assert.Equal(t, "/tmp/t.db", cfg.DBPath)
}

func TestLoad_PartialFileBackfilled(t *testing.T) {
	// Fields the user left out keep their built-in defaults.
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen: \"0.0.0.0:8080\"\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:8080", cfg.Listen)
	assert.Equal(t, float64(DefaultAnnualVacationDays), cfg.Leave.AnnualVacationDays)
	assert.Equal(t, float64(DefaultSickDays), cfg.Leave.SickDays)
}

func TestLoad_MissingFileWritesTemplate(t *testing.T) {
	// First run: defaults come back and the annotated template lands on disk.
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultListen, cfg.Listen)

	written, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(written), "annual_vacation_days")
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen: [not: closed\n"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}
