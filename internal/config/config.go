package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	BaseURL     = "base_url"
	Timeout     = "timeout"
	LogLevel    = "log_level"
	Concurrency = "concurrency"
)

const (
	configName = ".breachcheck"
	envPrefix  = "BREACHCHECK"

	defaultBaseURL     = "http://localhost:5002"
	defaultTimeout     = 10 * time.Second
	defaultLogLevel    = "info"
	defaultConcurrency = 4
)

// InitConfig initializes the configuration
func InitConfig() {
	home, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	Load(viper.GetViper(), home)
}

// Load wires defaults, the environment and the config file found in dir into v.
// A missing config file is not an error.
func Load(v *viper.Viper, dir string) {
	v.SetDefault(BaseURL, defaultBaseURL)
	v.SetDefault(Timeout, defaultTimeout)
	v.SetDefault(LogLevel, defaultLogLevel)
	v.SetDefault(Concurrency, defaultConcurrency)

	v.AddConfigPath(dir)
	v.SetConfigType("yaml")
	v.SetConfigName(configName)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	_ = v.ReadInConfig()
}

// SetBaseURL validates and stores the search service URL in the configuration file
func SetBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base url must use http or https, got %q", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("base url %q has no host", raw)
	}
	viper.Set(BaseURL, strings.TrimRight(raw, "/"))
	return write()
}

// SetTimeout stores the per-request timeout in the configuration file
func SetTimeout(raw string) error {
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parse timeout: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", d)
	}
	viper.Set(Timeout, d.String())
	return write()
}

func write() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	configPath := filepath.Join(home, configName+".yaml")
	return viper.WriteConfigAs(configPath)
}

// GetBaseURL returns the search service URL from the configuration
func GetBaseURL() string {
	return viper.GetString(BaseURL)
}

// GetTimeout returns the per-request timeout, falling back to the default for non-positive values
func GetTimeout() time.Duration {
	d := viper.GetDuration(Timeout)
	if d <= 0 {
		return defaultTimeout
	}
	return d
}

// GetLogLevel returns the configured log level
func GetLogLevel() string {
	return viper.GetString(LogLevel)
}

// GetConcurrency returns how many batch checks may run at once
func GetConcurrency() int {
	n := viper.GetInt(Concurrency)
	if n < 1 {
		return 1
	}
	return n
}
