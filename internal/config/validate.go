package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate validates the configuration and returns an error if invalid
func Validate(config *Config) error {
	if err := validateAPIConfig(&config.API); err != nil {
		return fmt.Errorf("api config validation failed: %w", err)
	}

	if err := validateShareConfig(&config.Share); err != nil {
		return fmt.Errorf("share config validation failed: %w", err)
	}

	if err := validateLogConfig(&config.Log); err != nil {
		return fmt.Errorf("log config validation failed: %w", err)
	}

	if err := validateUploadConfig(&config.Upload); err != nil {
		return fmt.Errorf("upload config validation failed: %w", err)
	}

	return nil
}

// validateAPIConfig validates the box service settings
func validateAPIConfig(config *APIConfig) error {
	if err := validateHTTPURL("endpoint", config.Endpoint); err != nil {
		return err
	}

	if config.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got: %d", config.Timeout)
	}

	if config.DownloadTimeout < 0 {
		return fmt.Errorf("download_timeout must be non-negative, got: %d", config.DownloadTimeout)
	}

	if config.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be non-negative, got: %d", config.MaxRetries)
	}

	return nil
}

func validateShareConfig(config *ShareConfig) error {
	return validateHTTPURL("base_url", config.BaseURL)
}

// validateLogConfig validates log configuration
func validateLogConfig(config *LogConfig) error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
		"fatal": true,
		"panic": true,
	}

	level := strings.ToLower(config.Level)
	if !validLevels[level] {
		return fmt.Errorf("invalid log level: %s (valid: debug, info, warn, error, fatal, panic)", config.Level)
	}

	validFormats := map[string]bool{
		"text": true,
		"json": true,
	}

	format := strings.ToLower(config.Format)
	if !validFormats[format] {
		return fmt.Errorf("invalid log format: %s (valid: text, json)", config.Format)
	}

	return nil
}

// validateUploadConfig validates upload configuration
func validateUploadConfig(config *UploadConfig) error {
	if config == nil {
		return fmt.Errorf("upload config cannot be nil")
	}

	if config.DefaultCompress != "" && !IsValidCompressLevel(config.DefaultCompress) {
		return fmt.Errorf("invalid default_compress: %s (valid: high, fine, normal, low)", config.DefaultCompress)
	}

	return nil
}

// IsValidCompressLevel reports whether level names a known image compression level
func IsValidCompressLevel(level string) bool {
	switch level {
	case "high", "fine", "normal", "low":
		return true
	}
	return false
}

// validateHTTPURL checks that raw is an absolute http(s) URL
func validateHTTPURL(field, raw string) error {
	if strings.TrimSpace(raw) == "" {
		return fmt.Errorf("%s is required", field)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", field, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid %s scheme: %q (use http or https)", field, u.Scheme)
	}

	if u.Host == "" {
		return fmt.Errorf("invalid %s: missing host", field)
	}

	return nil
}
