// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/creativeyann17/go-mrsh/pkg/mrsh"
)

// ProjectFile is looked up in the working directory when no path is given
const ProjectFile = "gomrsh.toml"

const envPrefix = "GOMRSH_"

// Config holds CLI defaults; command-line flags override it.
type Config struct {
	Profile     string  `toml:"profile" yaml:"profile"`
	Workers     int     `toml:"workers" yaml:"workers"`
	Threshold   int     `toml:"threshold" yaml:"threshold"`
	Compression string  `toml:"compression" yaml:"compression"`
	Level       int     `toml:"level" yaml:"level"`
	Scan        Scan    `toml:"scan" yaml:"scan"`
	Logging     Logging `toml:"logging" yaml:"logging"`
}

// Scan holds directory traversal defaults
type Scan struct {
	Recursive     bool     `toml:"recursive" yaml:"recursive"`
	Extensions    []string `toml:"extensions" yaml:"extensions"`
	Gitignore     bool     `toml:"gitignore" yaml:"gitignore"`
	IncludeHidden bool     `toml:"include_hidden" yaml:"include_hidden"`
}

// Logging holds logger settings
type Logging struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Profile:     mrsh.DefaultProfileName,
		Workers:     0,
		Threshold:   50,
		Compression: "none",
		Logging: Logging{
			Level:  "warn",
			Format: "console",
		},
	}
}

// DefaultConfigPath returns the per-user configuration file location
func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "gomrsh", "config.toml"), nil
}

// Load reads the configuration at path, or the first of ./gomrsh.toml and
// DefaultConfigPath when path is empty. A missing file yields the defaults.
// GOMRSH_* environment variables override file values. Returns the resolved
// path and whether it existed.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolved, exists, err := resolvePath(path)
	if err != nil {
		return nil, "", false, err
	}
	if exists {
		if err := decodeFile(resolved, &cfg); err != nil {
			return nil, "", false, err
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, "", false, err
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolved, exists, nil
}

func resolvePath(path string) (string, bool, error) {
	if path != "" {
		_, err := os.Stat(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return path, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return path, true, nil
	}

	if info, err := os.Stat(ProjectFile); err == nil && !info.IsDir() {
		return ProjectFile, true, nil
	}
	userPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, nil
	}
	if info, err := os.Stat(userPath); err == nil && !info.IsDir() {
		return userPath, true, nil
	}
	return userPath, false, nil
}

func decodeFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(f)
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil {
			return fmt.Errorf("parse config %s: %w", path, err)
		}
	default:
		dec := toml.NewDecoder(f)
		dec.DisallowUnknownFields()
		if err := dec.Decode(cfg); err != nil {
			return fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(envPrefix + "PROFILE"); ok {
		c.Profile = v
	}
	if v, ok := lookup(envPrefix + "COMPRESSION"); ok {
		c.Compression = v
	}
	if v, ok := lookup(envPrefix + "LOG_LEVEL"); ok {
		c.Logging.Level = v
	}
	if v, ok := lookup(envPrefix + "LOG_FORMAT"); ok {
		c.Logging.Format = v
	}
	for name, dst := range map[string]*int{
		"WORKERS":   &c.Workers,
		"THRESHOLD": &c.Threshold,
		"LEVEL":     &c.Level,
	} {
		v, ok := lookup(envPrefix + name)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s%s: %w", envPrefix, name, err)
		}
		*dst = n
	}
	return nil
}

func (c *Config) normalize() {
	c.Profile = strings.TrimSpace(c.Profile)
	if c.Profile == "" {
		c.Profile = mrsh.DefaultProfileName
	}
	c.Compression = strings.ToLower(strings.TrimSpace(c.Compression))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
}

// Validate checks that every value is usable
func (c *Config) Validate() error {
	if _, ok := mrsh.LookupProfile(c.Profile); !ok {
		return fmt.Errorf("profile %q is unknown (have %s)", c.Profile, strings.Join(mrsh.ProfileNames(), ", "))
	}
	if c.Workers < 0 {
		return errors.New("workers must not be negative")
	}
	if c.Threshold < 0 || c.Threshold > mrsh.MaxScore {
		return fmt.Errorf("threshold must be between 0 and %d", mrsh.MaxScore)
	}
	if _, ok := mrsh.ParseCompression(c.Compression); !ok {
		return fmt.Errorf("compression %q is unknown (use none, zstd or xz)", c.Compression)
	}
	if c.Level < 0 || c.Level > 22 {
		return errors.New("level must be between 0 and 22")
	}
	switch c.Logging.Format {
	case "console", "text", "json":
	default:
		return fmt.Errorf("log format %q is unknown", c.Logging.Format)
	}
	return nil
}

// CompressionValue returns the parsed compression setting
func (c *Config) CompressionValue() mrsh.Compression {
	comp, _ := mrsh.ParseCompression(c.Compression)
	return comp
}
