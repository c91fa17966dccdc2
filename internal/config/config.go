package config

import (
	"fmt"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/ratemymusic/rmm-api/internal/constants"
)

// Config holds all application configuration
type Config struct {
	Port               string
	DBDriver           string
	DBDSN              string
	LogLevel           string
	LogFormat          string
	RedisAddr          string
	RedisPassword      string
	LoginRateLimit     int
	LoginRateWindow    time.Duration
	PasswordIterations int
	TrustedProxies     []string
}

// Load loads configuration from environment variables with defaults.
// A .env file in the working directory is read first when present; variables
// already set in the environment win.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:               getEnv("PORT", constants.DefaultPort),
		DBDriver:           getEnv("DB_DRIVER", constants.DefaultDBDriver),
		DBDSN:              getEnv("DB_DSN", constants.DefaultDBDSN),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "text"),
		RedisAddr:          getEnv("REDIS_ADDR", ""),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		LoginRateLimit:     getEnvInt("LOGIN_RATE_LIMIT", constants.DefaultLoginRateLimit),
		LoginRateWindow:    getEnvDuration("LOGIN_RATE_WINDOW", constants.DefaultLoginRateWindow),
		PasswordIterations: getEnvInt("PASSWORD_ITERATIONS", constants.DefaultPasswordIterations),
		TrustedProxies:     getEnvList("TRUSTED_PROXIES"),
	}
}

// Validate validates the configuration and returns detailed errors
func (c *Config) Validate() error {
	var errors []string

	// Validate Port
	if c.Port == "" {
		errors = append(errors, "PORT cannot be empty")
	} else {
		port, err := strconv.Atoi(c.Port)
		if err != nil {
			errors = append(errors, fmt.Sprintf("PORT must be a valid number, got: %s", c.Port))
		} else if port < 1 || port > 65535 {
			errors = append(errors, fmt.Sprintf("PORT must be between 1 and 65535, got: %d", port))
		}
	}

	validDrivers := map[string]bool{
		constants.DriverSQLite:   true,
		constants.DriverPostgres: true,
	}
	if !validDrivers[c.DBDriver] {
		errors = append(errors, fmt.Sprintf("DB_DRIVER must be one of: sqlite, postgres, got: %s", c.DBDriver))
	}

	if c.DBDSN == "" {
		errors = append(errors, "DB_DSN cannot be empty")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		errors = append(errors, fmt.Sprintf("LOG_LEVEL must be one of: debug, info, warn, error, got: %s", c.LogLevel))
	}

	validLogFormats := map[string]bool{
		"text":   true,
		"json":   true,
		"pretty": true,
	}
	if !validLogFormats[c.LogFormat] {
		errors = append(errors, fmt.Sprintf("LOG_FORMAT must be one of: text, json, pretty, got: %s", c.LogFormat))
	}

	if c.LoginRateLimit < 0 {
		errors = append(errors, fmt.Sprintf("LOGIN_RATE_LIMIT cannot be negative, got: %d", c.LoginRateLimit))
	}

	if c.LoginRateWindow <= 0 {
		errors = append(errors, "LOGIN_RATE_WINDOW must be a positive duration")
	}

	if c.PasswordIterations < 1 {
		errors = append(errors, fmt.Sprintf("PASSWORD_ITERATIONS must be positive, got: %d", c.PasswordIterations))
	}

	for _, proxy := range c.TrustedProxies {
		if _, err := parseProxy(proxy); err != nil {
			errors = append(errors, fmt.Sprintf("TRUSTED_PROXIES must hold IPs or CIDR ranges, got: %s", proxy))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

// TrustedProxyPrefixes returns the proxies whose forwarding headers are
// believed. Entries that do not parse are skipped; Validate reports them.
func (c *Config) TrustedProxyPrefixes() []netip.Prefix {
	prefixes := make([]netip.Prefix, 0, len(c.TrustedProxies))
	for _, proxy := range c.TrustedProxies {
		if p, err := parseProxy(proxy); err == nil {
			prefixes = append(prefixes, p)
		}
	}
	return prefixes
}

// parseProxy accepts a CIDR range or a single address.
func parseProxy(s string) (netip.Prefix, error) {
	if strings.Contains(s, "/") {
		p, err := netip.ParsePrefix(s)
		if err != nil {
			return netip.Prefix{}, err
		}
		return p.Masked(), nil
	}
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Prefix{}, err
	}
	addr = addr.Unmap()
	return netip.PrefixFrom(addr, addr.BitLen()), nil
}

// getEnv retrieves an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// getEnvInt returns -1 for unparsable values so Validate reports them.
func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return -1
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return d
}

// getEnvList splits a comma-separated variable, dropping blank entries.
func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
