package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/svcwatch/svcwatch-go/pkg/browse"
)

// Backends.
const (
	BackendZeroconf = "zeroconf"
	BackendDNSSD    = "dnssd"
)

// Classifier modes. ClassifierAuto uses the transport's diff when it has one.
const (
	ClassifierAuto       = "auto"
	ClassifierDiff       = "diff"
	ClassifierPositional = "positional"
)

// Config holds the svcwatch configuration. It can be loaded from a YAML
// file; flags given on the command line take precedence.
type Config struct {
	ConfigFile  string `yaml:"-"`
	Service     string `yaml:"service"`
	Domain      string `yaml:"domain"`
	Backend     string `yaml:"backend"`
	Interface   string `yaml:"interface"`
	LogLevel    string `yaml:"log_level"`
	EventLog    string `yaml:"event_log"`
	Interactive bool   `yaml:"interactive"`
	Classifier  string `yaml:"classifier"`
	QueueDepth  int    `yaml:"queue_depth"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Service:    "_http._tcp",
		Backend:    BackendZeroconf,
		LogLevel:   "info",
		Classifier: ClassifierAuto,
	}
}

// ConfigError describes a configuration problem.
type ConfigError struct {
	File    string
	Message string
	Cause   error
}

func (e *ConfigError) Error() string {
	msg := e.Message
	if e.File != "" {
		msg = e.File + ": " + msg
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// ParseConfig decodes YAML on top of base.
func ParseConfig(data []byte, base Config) (Config, error) {
	cfg := base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return base, &ConfigError{Message: "failed to parse YAML", Cause: err}
	}
	return cfg, nil
}

// LoadConfig reads path and decodes it on top of base.
func LoadConfig(path string, base Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, &ConfigError{File: path, Message: "failed to read file", Cause: err}
	}

	cfg, err := ParseConfig(data, base)
	if err != nil {
		if ce, ok := err.(*ConfigError); ok {
			ce.File = path
		}
		return base, err
	}
	cfg.ConfigFile = path
	return cfg, nil
}

// Override copies the fields named in set from flags into c. set holds
// flag names as reported by flag.Visit.
func (c *Config) Override(flags Config, set map[string]bool) {
	if set["service"] {
		c.Service = flags.Service
	}
	if set["domain"] {
		c.Domain = flags.Domain
	}
	if set["backend"] {
		c.Backend = flags.Backend
	}
	if set["interface"] {
		c.Interface = flags.Interface
	}
	if set["log-level"] {
		c.LogLevel = flags.LogLevel
	}
	if set["event-log"] {
		c.EventLog = flags.EventLog
	}
	if set["interactive"] {
		c.Interactive = flags.Interactive
	}
	if set["classifier"] {
		c.Classifier = flags.Classifier
	}
	if set["queue-depth"] {
		c.QueueDepth = flags.QueueDepth
	}
}

// Validate checks the enumerated settings.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Backend) {
	case BackendZeroconf, BackendDNSSD:
	default:
		return &ConfigError{Message: fmt.Sprintf("unknown backend: %s (use: zeroconf, dnssd)", c.Backend)}
	}

	switch strings.ToLower(c.Classifier) {
	case "", ClassifierAuto, ClassifierDiff, ClassifierPositional:
	default:
		return &ConfigError{Message: fmt.Sprintf("unknown classifier: %s (use: auto, diff, positional)", c.Classifier)}
	}

	if _, err := parseLevel(c.LogLevel); err != nil {
		return &ConfigError{Message: "invalid log level", Cause: err}
	}

	if _, err := c.Selector(); err != nil {
		return &ConfigError{Message: "invalid service", Cause: err}
	}
	return nil
}

// Selector builds the browse selector. Service may be a plain service type
// or a dnssd:// URI, in which case Domain is ignored.
func (c *Config) Selector() (browse.Selector, error) {
	if strings.HasPrefix(c.Service, "dnssd:") {
		return browse.ParseSelector(c.Service)
	}
	return browse.NewSelector(c.Service, c.Domain)
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level: %s (use: debug, info, warn, error)", s)
	}
}

// newLogger creates the operational logger.
func newLogger(level string, w io.Writer) *slog.Logger {
	lvl, err := parseLevel(level)
	if err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}
