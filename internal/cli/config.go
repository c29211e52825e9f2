package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is searched in the working directory when --config is
// not given. A missing default config is not an error.
const DefaultConfigPath = "rollcall.yaml"

// DefaultDatabase is used when neither flag nor config name a database.
const DefaultDatabase = "rollcall.db"

// Config is the YAML config file. Every field is optional; flags win over
// config values, config values win over built-in defaults.
type Config struct {
	Database string `yaml:"database"` // SQLite path
	Identity string `yaml:"identity"` // default acting identity
	Policy   string `yaml:"policy"`   // CUE policy file path
}

// LoadConfig reads the config file at path. An empty path falls back to
// DefaultConfigPath, which may be absent; an explicit path must exist.
func LoadConfig(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// databasePath resolves the SQLite path from flags, config and default.
func databasePath(opts *RootOptions, cfg Config) string {
	if opts.Database != "" {
		return opts.Database
	}
	if cfg.Database != "" {
		return cfg.Database
	}
	return DefaultDatabase
}

// callerIdentity resolves the acting identity from flags and config.
func callerIdentity(opts *RootOptions, cfg Config) (string, error) {
	if opts.Identity != "" {
		return opts.Identity, nil
	}
	if cfg.Identity != "" {
		return cfg.Identity, nil
	}
	return "", NewExitError(ExitCommandError, "no identity: pass --as or set identity in the config file")
}
