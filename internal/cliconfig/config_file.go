package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
// Frame sources are per-run and are only taken from the command line.
type FileConfig struct {
	Interface string  `toml:"interface"`
	Send      uint64  `toml:"send"`
	Rate      float64 `toml:"rate"`
	Count     *int64  `toml:"count"`
	Timeout   string  `toml:"timeout"`
	Filter    string  `toml:"filter"`
	Blacklist string  `toml:"blacklist"`
	Raw       *bool   `toml:"raw"`
	Output    string  `toml:"output"`
	SnapLen   int     `toml:"snaplen"`
	Promisc   *bool   `toml:"promisc"`
	Grace     string  `toml:"grace"`
	LogLevel  string  `toml:"log_level"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.nethex/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".nethex", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("interface", fc.Interface, &cfg.Interface)
	s.setString("filter", fc.Filter, &cfg.Filter)
	s.setString("blacklist", fc.Blacklist, &cfg.Blacklist)
	s.setString("output", fc.Output, &cfg.Output)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	if err := s.setDuration("timeout", fc.Timeout, &cfg.Timeout); err != nil {
		return err
	}
	if err := s.setDuration("grace", fc.Grace, &cfg.Grace); err != nil {
		return err
	}

	s.setUint64("send", fc.Send, &cfg.Send)
	s.setFloat("rate", fc.Rate, &cfg.Rate)
	s.setInt64("count", fc.Count, &cfg.Count)
	s.setInt("snaplen", fc.SnapLen, &cfg.SnapLen)

	s.setBool("raw", fc.Raw, &cfg.Raw)
	s.setBool("promisc", fc.Promisc, &cfg.Promisc)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
