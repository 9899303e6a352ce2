package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (NETHEX_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("interface", os.Getenv("NETHEX_INTERFACE"), &cfg.Interface)
	s.setString("filter", os.Getenv("NETHEX_FILTER"), &cfg.Filter)
	s.setString("blacklist", os.Getenv("NETHEX_BLACKLIST"), &cfg.Blacklist)
	s.setString("output", os.Getenv("NETHEX_OUTPUT"), &cfg.Output)
	s.setString("log-level", os.Getenv("NETHEX_LOG_LEVEL"), &cfg.LogLevel)

	if err := s.setDuration("timeout", os.Getenv("NETHEX_TIMEOUT"), &cfg.Timeout); err != nil {
		return err
	}
	if err := s.setDuration("grace", os.Getenv("NETHEX_GRACE"), &cfg.Grace); err != nil {
		return err
	}

	if err := s.setUint64FromString("send", os.Getenv("NETHEX_SEND"), &cfg.Send); err != nil {
		return err
	}
	if err := s.setFloatFromString("rate", os.Getenv("NETHEX_RATE"), &cfg.Rate); err != nil {
		return err
	}
	if err := s.setInt64FromString("count", os.Getenv("NETHEX_COUNT"), &cfg.Count); err != nil {
		return err
	}
	if err := s.setIntFromString("snaplen", os.Getenv("NETHEX_SNAPLEN"), &cfg.SnapLen); err != nil {
		return err
	}

	s.setBoolFromString("raw", os.Getenv("NETHEX_RAW"), &cfg.Raw)
	s.setBoolFromString("promisc", os.Getenv("NETHEX_PROMISC"), &cfg.Promisc)

	return nil
}
