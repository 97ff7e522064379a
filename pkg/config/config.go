// Package config loads build settings from dpc.yaml, a .env file and DPC_*
// environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/JustinHuPrime/DataPackCrafter-sub000/pkg/datapack"
	"github.com/JustinHuPrime/DataPackCrafter-sub000/pkg/logging"
)

const (
	DefaultFile    = "dpc.yaml"
	DefaultEnvFile = ".env"

	FormatZip = "zip"
	FormatDir = "dir"

	envPrefix = "DPC_"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	// Output is the archive or directory to write; empty means derived from
	// the namespace.
	Output      string `yaml:"output"`
	Format      string `yaml:"format"`
	PackFormat  int    `yaml:"pack_format"`
	Description string `yaml:"description"`
	Manifest    bool   `yaml:"manifest"`
	SigningKey  string `yaml:"signing_key"`
	LogLevel    string `yaml:"log_level"`
	History     string `yaml:"history"`
}

func Default() *Config {
	return &Config{
		Format:      FormatZip,
		PackFormat:  datapack.DefaultPackFormat,
		Description: datapack.DefaultDescription,
		LogLevel:    "warn",
		History:     ".dpc_history",
	}
}

// Loader reads configuration from its sources. Missing files are skipped.
type Loader struct {
	ConfigFile string
	EnvFile    string
	LookupEnv  func(string) (string, bool)
}

// Load reads path (dpc.yaml when empty), ./.env and the process environment.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultFile
	}
	return Loader{ConfigFile: path, EnvFile: DefaultEnvFile, LookupEnv: os.LookupEnv}.Load()
}

func (l Loader) Load() (*Config, error) {
	cfg := Default()

	if l.ConfigFile != "" {
		data, err := os.ReadFile(l.ConfigFile)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("reading %s: %w", l.ConfigFile, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing %s: %w", l.ConfigFile, err)
			}
		}
	}

	if l.EnvFile != "" {
		vars, err := godotenv.Read(l.EnvFile)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("reading %s: %w", l.EnvFile, err)
		default:
			if err := cfg.apply(func(key string) (string, bool) {
				v, ok := vars[key]
				return v, ok
			}); err != nil {
				return nil, fmt.Errorf("%s: %w", l.EnvFile, err)
			}
		}
	}

	if l.LookupEnv != nil {
		if err := cfg.apply(l.LookupEnv); err != nil {
			return nil, fmt.Errorf("environment: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// apply overrides fields from DPC_* variables found through lookup.
func (c *Config) apply(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"OUTPUT":      &c.Output,
		"FORMAT":      &c.Format,
		"DESCRIPTION": &c.Description,
		"SIGNING_KEY": &c.SigningKey,
		"LOG_LEVEL":   &c.LogLevel,
		"HISTORY":     &c.History,
	}
	for key, dst := range strs {
		if v, ok := lookup(envPrefix + key); ok {
			*dst = v
		}
	}

	if v, ok := lookup(envPrefix + "PACK_FORMAT"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %sPACK_FORMAT=%q is not an integer", ErrInvalidConfig, envPrefix, v)
		}
		c.PackFormat = n
	}
	if v, ok := lookup(envPrefix + "MANIFEST"); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %sMANIFEST=%q is not a boolean", ErrInvalidConfig, envPrefix, v)
		}
		c.Manifest = b
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Format != FormatZip && c.Format != FormatDir {
		return fmt.Errorf("%w: format must be %q or %q, got %q", ErrInvalidConfig, FormatZip, FormatDir, c.Format)
	}
	if c.PackFormat <= 0 {
		return fmt.Errorf("%w: pack_format must be positive, got %d", ErrInvalidConfig, c.PackFormat)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// PackMeta returns the pack.mcmeta fields.
func (c *Config) PackMeta() datapack.PackMeta {
	return datapack.PackMeta{Format: c.PackFormat, Description: c.Description}
}

// OutputPath returns Output, or a name derived from namespace and Format.
func (c *Config) OutputPath(namespace string) string {
	if c.Output != "" {
		return c.Output
	}
	if c.Format == FormatDir {
		return namespace
	}
	return namespace + ".zip"
}

// SignManifest reports whether built packs carry a signed manifest.
func (c *Config) SignManifest() bool {
	return c.SigningKey != ""
}
