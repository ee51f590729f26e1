// Package config holds run settings gathered from flags and an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"robotfuzz/internal/fingerprint"
	"robotfuzz/internal/templater"
)

const (
	DefaultThreads     = 25
	DefaultWordlist    = "/usr/share/seclists/Discovery/Web-Content/directory-list-2.3-small.txt"
	DefaultUserAgent   = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/108.0.0.0 Safari/537.36"
	DefaultFingerprint = "whatweb"
)

var (
	ErrMissingPlaceholder = errors.New("the provided URL must contain the placeholder 'FUZZ'")
	ErrMissingSecondary   = errors.New("a secondary wordlist requires the placeholder 'FUZ2Z' in the URL")
)

type Config struct {
	URL         string `yaml:"url"`
	Threads     int    `yaml:"threads"`
	Wordlist    string `yaml:"wordlist"`
	Wordlist2   string `yaml:"wordlist2"`
	Cookies     string `yaml:"cookies"`
	IPAddress   string `yaml:"ipaddress"`
	RPS         int    `yaml:"rps"`
	Insecure    bool   `yaml:"insecure"`
	UserAgent   string `yaml:"user_agent"`
	Fingerprint string `yaml:"fingerprint"`
	NoSitemap   bool   `yaml:"no_sitemap"`
	NoBar       bool   `yaml:"no_bar"`
	ShowCurl    bool   `yaml:"curl"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Threads:     DefaultThreads,
		Wordlist:    DefaultWordlist,
		UserAgent:   DefaultUserAgent,
		Fingerprint: DefaultFingerprint,
	}
}

// Load reads a YAML file over the defaults. Keys missing from the file keep
// their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the settings that must hold before any request is sent.
func (c Config) Validate() error {
	if !templater.HasPrimary(c.URL) {
		return ErrMissingPlaceholder
	}
	if c.Wordlist2 != "" && !templater.HasSecondary(c.URL) {
		return ErrMissingSecondary
	}
	if c.Threads < 1 {
		return fmt.Errorf("threads must be at least 1, got %d", c.Threads)
	}
	if c.RPS < 0 {
		return fmt.Errorf("rps must not be negative, got %d", c.RPS)
	}
	if c.Fingerprint != "" && !slices.Contains(fingerprint.Names, c.Fingerprint) {
		return fmt.Errorf("unknown fingerprint tool %q, expected one of %v", c.Fingerprint, fingerprint.Names)
	}
	return nil
}
