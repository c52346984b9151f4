/*
config.go - Application configuration

PURPOSE:
  Loads the YAML configuration from ~/.timesheet/config.yaml, creating an
  annotated template on first run. Every field has a built-in default, so
  the application works with no file at all and with a partially filled one.
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration, stored in ~/.timesheet/config.yaml.
type Config struct {
	// Listen is the address the API server binds to.
	Listen string `yaml:"listen"`
	// DBPath is the sqlite database file. Empty means ~/.timesheet/timesheet.db.
	DBPath string `yaml:"db_path"`
	// Leave holds the yearly allotments seeded into a fresh database.
	Leave LeaveConfig `yaml:"leave"`
}

// LeaveConfig holds the yearly leave allotments, in days.
type LeaveConfig struct {
	AnnualVacationDays float64 `yaml:"annual_vacation_days"`
	SickDays           float64 `yaml:"sick_days"`
}

const (
	// DefaultListen binds to loopback only. The API has no authentication,
	// so it must not be reachable from other hosts.
	DefaultListen = "127.0.0.1:8080"

	DefaultAnnualVacationDays = 10
	DefaultSickDays           = 7
)

func defaultConfig() Config {
	return Config{
		Listen: DefaultListen,
		Leave: LeaveConfig{
			AnnualVacationDays: DefaultAnnualVacationDays,
			SickDays:           DefaultSickDays,
		},
	}
}

// configTemplate is the annotated config written on first run.
const configTemplate = `# timesheet configuration - ~/.timesheet/config.yaml
#
# All settings are optional; the built-in defaults shown below work out of
# the box.

# Address the API server binds to. Keep it on loopback: the API has no
# authentication.
listen: "127.0.0.1:8080"

# Path to the sqlite database file. Empty means ~/.timesheet/timesheet.db.
db_path: ""

# Yearly leave allotments, in days. Used to seed a fresh database; once the
# database exists, change them through the settings screen or the API.
leave:
  annual_vacation_days: 10
  sick_days: 7
`

// Dir returns the application data directory, ~/.timesheet.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".timesheet"), nil
}

func configFilePath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// DefaultDBPath returns the database location used when db_path is empty.
func DefaultDBPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("creating data directory: %w", err)
	}
	return filepath.Join(dir, "timesheet.db"), nil
}

// Load reads the config file at path, or ~/.timesheet/config.yaml when path
// is empty, creating it with annotated defaults on first run.
func Load(path string) (Config, error) {
	if path == "" {
		var err error
		path, err = configFilePath()
		if err != nil {
			return defaultConfig(), err
		}
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		// First run: write the annotated template so users can discover options.
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
		return defaultConfig(), nil
	}
	if err != nil {
		return defaultConfig(), fmt.Errorf("reading config file %s: %w", path, err)
	}

	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return defaultConfig(), fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
	}

	// Fill zero-value fields so callers always get a usable Config even if
	// the user only partially fills in the file.
	if cfg.Listen == "" {
		cfg.Listen = DefaultListen
	}
	if cfg.Leave.AnnualVacationDays == 0 {
		cfg.Leave.AnnualVacationDays = DefaultAnnualVacationDays
	}
	if cfg.Leave.SickDays == 0 {
		cfg.Leave.SickDays = DefaultSickDays
	}

	return cfg, nil
}

func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
