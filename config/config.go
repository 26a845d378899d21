package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the settings the extractor and store collaborators need.
// It is loaded once at startup and passed explicitly; there is no
// process-global configuration state.
type Config struct {
	// InputDir is the folder scanned for .html/.htm source files on build.
	InputDir string `yaml:"input_dir"`

	// DatabaseFile is the path of the JSON record store.
	DatabaseFile string `yaml:"database_file"`

	// Year is the 4-digit academic year used to complete the month/day
	// date cells in the source data. Zero means the current run year.
	Year int `yaml:"year"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		InputDir:     "input",
		DatabaseFile: "database.json",
	}
}

// Normalize fills in missing values so a partially-filled config file
// still behaves correctly.
func (c *Config) Normalize() {
	if c.InputDir == "" {
		c.InputDir = "input"
	}
	if c.DatabaseFile == "" {
		c.DatabaseFile = "database.json"
	}
	if c.Year <= 0 {
		c.Year = time.Now().Year()
	}
}

// Load loads configuration from the given YAML path. If the file does not
// exist, a default config is written there (the Year field is left at zero
// in the file so it keeps tracking the run year) and returned.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			cfg.Normalize()
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the configuration to path atomically (temp file + rename).
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".scout-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}
