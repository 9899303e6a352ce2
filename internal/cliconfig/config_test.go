package cliconfig

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/bft-labs/nethex/internal/domain"
	"github.com/bft-labs/nethex/internal/source"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Send != 1 {
		t.Errorf("Send = %v, want 1", cfg.Send)
	}
	if cfg.Count != -1 {
		t.Errorf("Count = %v, want -1", cfg.Count)
	}
	if cfg.Timeout != 0 {
		t.Errorf("Timeout = %v, want 0", cfg.Timeout)
	}
	if cfg.SnapLen != 65535 {
		t.Errorf("SnapLen = %v, want 65535", cfg.SnapLen)
	}
	if !cfg.Promisc {
		t.Error("Promisc = false, want true")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %v, want info", cfg.LogLevel)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config does not validate: %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"rate set", func(c *Config) { c.Rate = 2.5 }, false},
		{"count zero", func(c *Config) { c.Count = 0 }, false},
		{"count positive", func(c *Config) { c.Count = 10 }, false},
		{"timeout set", func(c *Config) { c.Timeout = 5 * time.Second }, false},
		{"send zero", func(c *Config) { c.Send = 0 }, true},
		{"negative rate", func(c *Config) { c.Rate = -1 }, true},
		{"NaN rate", func(c *Config) { c.Rate = math.NaN() }, true},
		{"infinite rate", func(c *Config) { c.Rate = math.Inf(1) }, true},
		{"count below sentinel", func(c *Config) { c.Count = -2 }, true},
		{"negative timeout", func(c *Config) { c.Timeout = -time.Second }, true},
		{"zero snaplen", func(c *Config) { c.SnapLen = 0 }, true},
		{"huge snaplen", func(c *Config) { c.SnapLen = MaxSnapLen + 1 }, true},
		{"zero grace", func(c *Config) { c.Grace = 0 }, true},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, domain.ErrInvalidConfig) {
				t.Errorf("Validate() error %v does not wrap ErrInvalidConfig", err)
			}
		})
	}
}

func TestConfig_Validate_ReportsAllProblems(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Send = 0
	cfg.Count = -5

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() = nil, want error")
	}
	msg := err.Error()
	for _, want := range []string{"send", "count"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q does not mention %q", msg, want)
		}
	}
}

func TestConfig_Derived(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Bytes = "0011"
	cfg.Stdin = true
	cfg.Count = 3
	cfg.Timeout = 2 * time.Second

	spec := cfg.SourceSpec()
	if spec.Kind() != source.KindLiteral {
		t.Errorf("SourceSpec().Kind() = %v, want literal", spec.Kind())
	}

	b := cfg.Bound()
	if b.Count != 3 || b.Timeout != 2*time.Second {
		t.Errorf("Bound() = %+v", b)
	}
}
