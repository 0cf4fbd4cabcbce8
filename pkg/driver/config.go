package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fortio.org/log"
	"gopkg.in/yaml.v3"
)

const (
	// ConfigFileName is looked up in the working directory when no path is given.
	ConfigFileName = "alin.yml"
	// ConfigEnvVar names a config file used when the working directory has none.
	ConfigEnvVar = "ALIN_CONFIG"
)

// ColorMode selects when diagnostics are coloured.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// IsValid reports whether the mode is recognised.
func (m ColorMode) IsValid() bool {
	switch m {
	case ColorAuto, ColorAlways, ColorNever:
		return true
	default:
		return false
	}
}

// Config represents the parsed contents of alin.yml.
type Config struct {
	Path       string
	Prompt     string
	Banner     bool
	Color      ColorMode
	LogLevel   string
	StepLimit  int
	Playground PlaygroundConfig
}

// PlaygroundConfig holds the HTTP front-end settings.
type PlaygroundConfig struct {
	Addr      string
	StepLimit int
	CacheSize int
	// MaxStringLen caps strings built by a posted program, in bytes. Zero means unlimited.
	MaxStringLen int
	// MaxOutput caps the printed output kept per request, in bytes. Zero means unlimited.
	MaxOutput int
}

// DefaultConfig returns the settings used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		Prompt:   ">>> ",
		Banner:   true,
		Color:    ColorAuto,
		LogLevel: "info",
		Playground: PlaygroundConfig{
			Addr:         ":8080",
			StepLimit:    1_000_000,
			CacheSize:    128,
			MaxStringLen: 1 << 20,
			MaxOutput:    1 << 20,
		},
	}
}

// ValidationError aggregates config validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "config: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("config validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// ResolveConfigPath picks the config file to load. An explicit path wins; otherwise alin.yml
// in dir, then $ALIN_CONFIG. An empty result means built-in defaults.
func ResolveConfigPath(explicit, dir string) string {
	if explicit != "" {
		return explicit
	}
	local := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(local); err == nil {
		return local
	}
	return os.Getenv(ConfigEnvVar)
}

// LoadConfig parses alin.yml from disk, returning a validated config. An empty path yields
// the defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", absPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var raw configFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			log.LogVf("config %s is empty, using defaults", absPath)
			cfg := DefaultConfig()
			cfg.Path = absPath
			return cfg, nil
		}
		return nil, fmt.Errorf("config: parse %s: %w", absPath, err)
	}

	cfg := raw.toConfig(absPath)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var errs ValidationError
	if !c.Color.IsValid() {
		errs.Issues = append(errs.Issues, fmt.Sprintf("color must be one of auto, always, never (got %q)", c.Color))
	}
	if _, err := log.ValidateLevel(c.LogLevel); err != nil {
		errs.Issues = append(errs.Issues, fmt.Sprintf("log_level %q is not a known level", c.LogLevel))
	}
	if c.StepLimit < 0 {
		errs.Issues = append(errs.Issues, "step_limit must not be negative")
	}
	if strings.TrimSpace(c.Playground.Addr) == "" {
		errs.Issues = append(errs.Issues, "playground.addr must be provided")
	}
	if c.Playground.StepLimit < 0 {
		errs.Issues = append(errs.Issues, "playground.step_limit must not be negative")
	}
	if c.Playground.CacheSize < 0 {
		errs.Issues = append(errs.Issues, "playground.cache_size must not be negative")
	}
	if c.Playground.MaxStringLen < 0 {
		errs.Issues = append(errs.Issues, "playground.max_string_len must not be negative")
	}
	if c.Playground.MaxOutput < 0 {
		errs.Issues = append(errs.Issues, "playground.max_output must not be negative")
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

// configFile mirrors the YAML layout. Pointer fields distinguish "absent" from zero values so
// defaults survive partial files.
type configFile struct {
	Prompt     *string         `yaml:"prompt"`
	Banner     *bool           `yaml:"banner"`
	Color      *string         `yaml:"color"`
	LogLevel   *string         `yaml:"log_level"`
	StepLimit  *int            `yaml:"step_limit"`
	Playground *playgroundFile `yaml:"playground"`
}

type playgroundFile struct {
	Addr         *string `yaml:"addr"`
	StepLimit    *int    `yaml:"step_limit"`
	CacheSize    *int    `yaml:"cache_size"`
	MaxStringLen *int    `yaml:"max_string_len"`
	MaxOutput    *int    `yaml:"max_output"`
}

func (cf configFile) toConfig(path string) *Config {
	cfg := DefaultConfig()
	cfg.Path = path
	if cf.Prompt != nil {
		cfg.Prompt = *cf.Prompt
	}
	if cf.Banner != nil {
		cfg.Banner = *cf.Banner
	}
	if cf.Color != nil {
		cfg.Color = ColorMode(strings.ToLower(strings.TrimSpace(*cf.Color)))
	}
	if cf.LogLevel != nil {
		cfg.LogLevel = strings.TrimSpace(*cf.LogLevel)
	}
	if cf.StepLimit != nil {
		cfg.StepLimit = *cf.StepLimit
	}
	if pg := cf.Playground; pg != nil {
		if pg.Addr != nil {
			cfg.Playground.Addr = *pg.Addr
		}
		if pg.StepLimit != nil {
			cfg.Playground.StepLimit = *pg.StepLimit
		}
		if pg.CacheSize != nil {
			cfg.Playground.CacheSize = *pg.CacheSize
		}
		if pg.MaxStringLen != nil {
			cfg.Playground.MaxStringLen = *pg.MaxStringLen
		}
		if pg.MaxOutput != nil {
			cfg.Playground.MaxOutput = *pg.MaxOutput
		}
	}
	return cfg
}
