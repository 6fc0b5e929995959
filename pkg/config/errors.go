package config

import "fmt"

// ConfigError reports a missing or malformed setting
type ConfigError struct {
	Key    string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Key, e.Reason)
}

func missing(key string) error {
	return &ConfigError{Key: key, Reason: "environment variable is required"}
}

func invalid(key string, format string, args ...interface{}) error {
	return &ConfigError{Key: key, Reason: fmt.Sprintf(format, args...)}
}
