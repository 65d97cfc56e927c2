package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the configuration file looked up when none is given.
const DefaultPath = "contractfix.yaml"

type Config struct {
	Project struct {
		Root   string   `yaml:"root"`
		Ignore []string `yaml:"ignore"`
	} `yaml:"project"`
	Contracts struct {
		LegacyClass          string `yaml:"legacy_class"`
		DebugClass           string `yaml:"debug_class"`
		ReplacementClass     string `yaml:"replacement_class"`
		ReplacementNamespace string `yaml:"replacement_namespace"`
	} `yaml:"contracts"`
	Pull struct {
		SourceKinds         string `yaml:"source_kinds"`  // preconditions copied from base methods
		PresentKinds        string `yaml:"present_kinds"` // preconditions that count as already stated
		TransitiveOverrides bool   `yaml:"transitive_overrides"`
	} `yaml:"pull"`
	Rules struct {
		Disabled []string `yaml:"disabled"`
		Only     []string `yaml:"only"`
	} `yaml:"rules"`
	Concurrency int `yaml:"concurrency"`
	Storage     struct {
		Path string `yaml:"path"`
	} `yaml:"storage"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	var cfg Config
	cfg.Project.Root = "."
	cfg.Contracts.LegacyClass = "Contract"
	cfg.Contracts.DebugClass = "Debug"
	cfg.Contracts.ReplacementClass = "TurboContract"
	cfg.Contracts.ReplacementNamespace = "Qoollo.Turbo"
	cfg.Pull.SourceKinds = "default"
	cfg.Pull.PresentKinds = "all"
	// CR03 and CR09 rewrite the same calls.
	cfg.Rules.Disabled = []string{"CR03"}
	cfg.Concurrency = 8
	cfg.Storage.Path = "contractfix.db"
	return &cfg
}

// LoadConfig reads path over the defaults. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := Default()
	if path == "" {
		path = DefaultPath
	}
	file, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	default:
		if err := validate(file); err != nil {
			return nil, fmt.Errorf("invalid config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) applyEnv() error {
	if db := os.Getenv("CONTRACTFIX_DB"); db != "" {
		cfg.Storage.Path = db
	}
	if class := os.Getenv("CONTRACTFIX_REPLACEMENT_CLASS"); class != "" {
		cfg.Contracts.ReplacementClass = class
	}
	if v := os.Getenv("CONTRACTFIX_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid CONTRACTFIX_CONCURRENCY %q", v)
		}
		cfg.Concurrency = n
	}
	return nil
}
