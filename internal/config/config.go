package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/dshills/tandem/internal/input/keymap"
)

//go:embed default.yaml
var defaultYAML []byte

// Format is a configuration file syntax.
type Format uint8

const (
	// FormatYAML is the default syntax.
	FormatYAML Format = iota
	// FormatTOML is chosen by a ".toml" extension.
	FormatTOML
)

// FormatOf picks the syntax for a file name.
func FormatOf(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// Config is the editor configuration.
type Config struct {
	// Host is the IPv4 address the server binds and the client dials.
	Host string `yaml:"host" toml:"host"`

	// Port is the TCP port of the server.
	Port uint16 `yaml:"port" toml:"port"`

	// Keymap lists the key bindings.
	Keymap []keymap.Binding `yaml:"keymap" toml:"keymap"`

	// Theme holds the colors of each screen element.
	Theme Theme `yaml:"theme" toml:"theme"`
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg, err := decode("default.yaml", defaultYAML, FormatYAML)
	if err != nil {
		panic("config: embedded default.yaml: " + err.Error())
	}
	return cfg
}

// Load reads the file at path over the defaults and validates the result.
// An empty path yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return Parse(path, data, FormatOf(path))
}

// Parse decodes data over the defaults and validates the result. The
// name is used in error messages.
func Parse(name string, data []byte, format Format) (*Config, error) {
	file, err := decode(name, data, format)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	cfg.merge(file)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return cfg, nil
}

func decode(name string, data []byte, format Format) (*Config, error) {
	cfg := &Config{}
	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, tomlParseError(name, err)
		}
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, yamlParseError(name, err)
		}
	}
	return cfg, nil
}

// merge overlays the non-zero fields of other.
func (c *Config) merge(other *Config) {
	if other.Host != "" {
		c.Host = other.Host
	}
	if other.Port != 0 {
		c.Port = other.Port
	}
	if len(other.Keymap) > 0 {
		c.Keymap = other.Keymap
	}
	c.Theme.merge(other.Theme)
}

// Validate checks the address and keymap.
func (c *Config) Validate() error {
	ip := net.ParseIP(c.Host)
	if ip == nil || ip.To4() == nil {
		return fmt.Errorf("%w: host %q is not an IPv4 address", ErrInvalidConfig, c.Host)
	}
	if c.Port == 0 {
		return fmt.Errorf("%w: port must be non-zero", ErrInvalidConfig)
	}
	if _, err := keymap.New(c.Keymap); err != nil {
		return fmt.Errorf("%w: keymap: %w", ErrInvalidConfig, err)
	}
	if _, err := c.Theme.Resolve(); err != nil {
		return fmt.Errorf("%w: theme: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Addr returns the host:port the server listens on.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(int(c.Port)))
}

// BuildKeymap builds the lookup table for the configured bindings.
func (c *Config) BuildKeymap() (*keymap.Keymap, error) {
	return keymap.New(c.Keymap)
}

func yamlParseError(name string, err error) *ParseError {
	pe := &ParseError{Path: name, Message: err.Error(), Err: err}
	// yaml.v3 reports "yaml: line N: ..." for syntax errors and
	// "line N: ..." inside a *yaml.TypeError.
	msg := strings.TrimPrefix(err.Error(), "yaml: ")
	var te *yaml.TypeError
	if errors.As(err, &te) && len(te.Errors) > 0 {
		msg = te.Errors[0]
	}
	if rest, ok := strings.CutPrefix(msg, "line "); ok {
		if n, tail, ok := strings.Cut(rest, ":"); ok {
			if line, convErr := strconv.Atoi(n); convErr == nil {
				pe.Line = line
				pe.Message = strings.TrimSpace(tail)
			}
		}
	}
	return pe
}

func tomlParseError(name string, err error) *ParseError {
	pe := &ParseError{Path: name, Message: err.Error(), Err: err}
	var de *toml.DecodeError
	if errors.As(err, &de) {
		pe.Line, pe.Column = de.Position()
	}
	return pe
}
