package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v2"

	"github.com/jo-hoe/go-request-template/app/logging"
	"github.com/jo-hoe/go-request-template/app/template"
)

type Config struct {
	LogLevel  string `yaml:"logLevel"`  // logging level: "debug" | "info" | "warn" | "error"
	LogFormat string `yaml:"logFormat"` // "text" | "json"
	Timeout   string `yaml:"timeout"`
	// Retries is how often a batch request is resent after a transport error.
	Retries int `yaml:"retries"`
	// MaxResponseSize limits response bodies, e.g. "10Mi". Empty means no limit.
	MaxResponseSize      string `yaml:"maxResponseSize"`
	MaxResponseSizeBytes int64  `yaml:"-"`
	// CoerceNumericStrings turns partially substituted data strings that form a number into numbers.
	CoerceNumericStrings bool `yaml:"coerceNumericStrings"`
	// RequestIDHeader names a header that receives a random UUID when the template does not set it.
	RequestIDHeader string `yaml:"requestIdHeader"`
	// EnvFile is a dotenv file whose variables can be referenced as ${NAME}. Relative to the config file.
	EnvFile   string                       `yaml:"envFile"`
	Templates map[string]template.Template `yaml:"templates"`
}

type loadOptions struct {
	baseDir   string
	lookupEnv func(string) (string, bool)
	logger    *slog.Logger
}

type Option func(*loadOptions)

// WithBaseDir sets the directory EnvFile is resolved against.
func WithBaseDir(dir string) Option {
	return func(o *loadOptions) {
		o.baseDir = dir
	}
}

// WithLookupEnv replaces os.LookupEnv as the source of ${NAME} values.
func WithLookupEnv(lookup func(string) (string, bool)) Option {
	return func(o *loadOptions) {
		o.lookupEnv = lookup
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *loadOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// LoadFile reads a config file. EnvFile is resolved relative to the file's directory.
func LoadFile(path string, opts ...Option) (*Config, error) {
	yamlBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	opts = append([]Option{WithBaseDir(filepath.Dir(path))}, opts...)
	return NewConfigFromYaml(yamlBytes, opts...)
}

func NewConfigFromYaml(yamlBytes []byte, opts ...Option) (*Config, error) {
	o := loadOptions{
		baseDir:   ".",
		lookupEnv: os.LookupEnv,
		logger:    logging.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	if err := checkShape(yamlBytes); err != nil {
		return nil, err
	}

	var cfg Config
	err := yaml.Unmarshal(yamlBytes, &cfg)
	if err != nil {
		return nil, err
	}

	setDefaults(&cfg)

	lookup, err := envLookup(o, cfg.EnvFile)
	if err != nil {
		return nil, err
	}
	for name, tpl := range cfg.Templates {
		cfg.Templates[name] = expandTemplateEnv(tpl, lookup, o.logger)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Template returns the named template.
func (c *Config) Template(name string) (template.Template, error) {
	tpl, ok := c.Templates[name]
	if !ok {
		return template.Template{}, fmt.Errorf("template '%s' not found (available: %s)", name, strings.Join(c.TemplateNames(), ", "))
	}
	return tpl, nil
}

// TemplateNames returns the configured template names in sorted order.
func (c *Config) TemplateNames() []string {
	names := make([]string, 0, len(c.Templates))
	for name := range c.Templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TimeoutDuration returns the parsed timeout. Validation guarantees it parses.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

func setDefaults(config *Config) {
	if strings.TrimSpace(config.LogLevel) == "" {
		config.LogLevel = "info"
	}
	if strings.TrimSpace(config.LogFormat) == "" {
		config.LogFormat = "text"
	}
	if strings.TrimSpace(config.Timeout) == "" {
		config.Timeout = "24s"
	}
	if config.Templates == nil {
		config.Templates = map[string]template.Template{}
	}
}

func validateConfig(config *Config) error {
	var result *multierror.Error

	level := strings.ToLower(strings.TrimSpace(config.LogLevel))
	switch level {
	case "debug", "info", "warn", "error":
		config.LogLevel = level
	default:
		result = multierror.Append(result, fmt.Errorf("invalid logLevel '%s' (supported: debug, info, warn, error)", config.LogLevel))
	}

	format := strings.ToLower(strings.TrimSpace(config.LogFormat))
	switch format {
	case "text", "json":
		config.LogFormat = format
	default:
		result = multierror.Append(result, fmt.Errorf("invalid logFormat '%s' (supported: text, json)", config.LogFormat))
	}

	if d, err := time.ParseDuration(config.Timeout); err != nil || d < 0 {
		result = multierror.Append(result, fmt.Errorf("invalid timeout '%s'", config.Timeout))
	}

	if config.Retries < 0 {
		result = multierror.Append(result, fmt.Errorf("invalid retries %d (must not be negative)", config.Retries))
	}

	if strings.TrimSpace(config.MaxResponseSize) != "" {
		size, err := parseSizeString(config.MaxResponseSize)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("invalid maxResponseSize '%s': %w", config.MaxResponseSize, err))
		}
		config.MaxResponseSizeBytes = size
	}

	if len(config.Templates) == 0 {
		result = multierror.Append(result, fmt.Errorf("no templates defined"))
	}
	for _, name := range config.TemplateNames() {
		if _, err := template.Validate(config.Templates[name]); err != nil {
			result = multierror.Append(result, fmt.Errorf("templates.%s: %w", name, err))
		}
	}

	return result.ErrorOrNil()
}
