package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	Dir        = ".config/grf"
	ConfigFile = "config.yaml"

	DefaultVersion   = "latest"
	DefaultServeAddr = "127.0.0.1:7070"
)

type Config struct {
	// Version is used when a command is given no version argument.
	Version    string  `yaml:"version"`
	Enterprise bool    `yaml:"enterprise,omitempty"`
	Proxy      string  `yaml:"proxy,omitempty"`
	Serve      Serve   `yaml:"serve"`
	Build      Command `yaml:"build"`
	// Certificate prints the CA certificate installed in every container.
	Certificate Command `yaml:"certificate"`
}

type Serve struct {
	Addr string `yaml:"addr"`
}

// Command is an external program invocation.
type Command struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args,omitempty"`
}

// Argv returns the command line, or nil when no command is set.
func (c Command) Argv() []string {
	if c.Command == "" {
		return nil
	}
	return append([]string{c.Command}, c.Args...)
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Version == "" {
		c.Version = DefaultVersion
	}
	if c.Serve.Addr == "" {
		c.Serve.Addr = DefaultServeAddr
	}
	// A command replaces the default as a whole, arguments included.
	if c.Build.Command == "" {
		c.Build = Command{Command: "mage", Args: []string{"-v"}}
	}
	if c.Certificate.Command == "" {
		c.Certificate = Command{Command: "mage", Args: []string{"certificate"}}
	}
}

// Load reads config from ~/.config/grf/config.yaml relative to home. A
// missing file yields the defaults.
func Load(home string) (*Config, error) {
	data, err := os.ReadFile(Path(home))
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", Path(home), err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// Save writes config to ~/.config/grf/config.yaml relative to home.
func Save(home string, cfg *Config) error {
	dir := filepath.Join(home, Dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(Path(home), data, 0o644)
}

// Path returns the config file location.
func Path(home string) string {
	return filepath.Join(home, Dir, ConfigFile)
}

// Exists returns true if the config file exists.
func Exists(home string) bool {
	_, err := os.Stat(Path(home))
	return err == nil
}
