// Package config holds the settings that control evaluation and printing.
package config

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/goccy/go-yaml"
)

// ErrInvalidConfig is returned when a configuration file holds values
// outside their allowed range.
var ErrInvalidConfig = errors.New("invalid configuration")

const (
	DefaultPrecision = 10
	DefaultPrompt    = "calq> "
	MaxPrecision     = 28
)

type Config struct {
	precision int
	prompt    string
	history   string
	verbosity int
	debug     map[string]bool
}

// file is the YAML layout of a configuration file.
type file struct {
	Precision *int     `yaml:"precision"`
	Prompt    *string  `yaml:"prompt"`
	History   string   `yaml:"history"`
	Verbosity int      `yaml:"verbosity"`
	Debug     []string `yaml:"debug"`
}

func Default() *Config {
	return &Config{
		precision: DefaultPrecision,
		prompt:    DefaultPrompt,
	}
}

// Load reads the configuration file at path. A missing file yields the
// default configuration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML configuration. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	var f file
	if err := yaml.UnmarshalWithOptions(data, &f, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	c := Default()
	if f.Precision != nil {
		if *f.Precision < 0 || *f.Precision > MaxPrecision {
			return nil, fmt.Errorf("%w: precision %d is not between 0 and %d", ErrInvalidConfig, *f.Precision, MaxPrecision)
		}
		c.precision = *f.Precision
	}
	if f.Prompt != nil {
		c.prompt = *f.Prompt
	}
	if f.Verbosity < 0 {
		return nil, fmt.Errorf("%w: verbosity %d is negative", ErrInvalidConfig, f.Verbosity)
	}
	c.history = f.History
	c.verbosity = f.Verbosity
	for _, name := range f.Debug {
		c.SetDebug(name, true)
	}
	return c, nil
}

// Marshal encodes the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	precision, prompt := c.precision, c.prompt
	return yaml.Marshal(file{
		Precision: &precision,
		Prompt:    &prompt,
		History:   c.history,
		Verbosity: c.verbosity,
		Debug:     c.DebugFlags(),
	})
}

// Precision is the number of decimal places printed for scalars.
func (c *Config) Precision() int {
	return c.precision
}

func (c *Config) SetPrecision(n int) error {
	if n < 0 || n > MaxPrecision {
		return fmt.Errorf("%w: precision %d is not between 0 and %d", ErrInvalidConfig, n, MaxPrecision)
	}
	c.precision = n
	return nil
}

func (c *Config) Prompt() string {
	return c.prompt
}

func (c *Config) SetPrompt(prompt string) {
	c.prompt = prompt
}

// History is the file the REPL keeps its history in. Empty disables it.
func (c *Config) History() string {
	return c.history
}

func (c *Config) SetHistory(path string) {
	c.history = path
}

func (c *Config) Verbosity() int {
	return c.verbosity
}

func (c *Config) SetVerbosity(v int) {
	c.verbosity = v
}

// Debug reports whether the named debug flag is set. Known flags are
// "tree", which prints each statement's tree before evaluating it, and
// "symbols", which prints the collected symbols.
func (c *Config) Debug(name string) bool {
	return c.debug[name]
}

func (c *Config) SetDebug(name string, state bool) {
	if c.debug == nil {
		c.debug = make(map[string]bool)
	}
	c.debug[name] = state
}

// DebugFlags returns the names of the flags that are set, sorted.
func (c *Config) DebugFlags() []string {
	var names []string
	for name, on := range c.debug {
		if on {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
