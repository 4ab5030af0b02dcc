package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	// Hostname is the public hostname where this service is reachable.
	Hostname string

	// Port is the HTTP server port.
	Port int

	// UpstreamURL is the root of the upstream JSON API.
	UpstreamURL string

	// UserAgent is sent with every upstream request.
	UserAgent string

	// RemovedFrontend is the host of the mirror linked from removed content.
	RemovedFrontend string

	// SFWOnly drops NSFW posts from every response.
	SFWOnly bool

	// FetchTimeout bounds a single upstream request.
	FetchTimeout time.Duration

	// ParseWorkers bounds concurrent post building per page.
	ParseWorkers int

	// DatabasePath is the SQLite file holding crawl cursors.
	DatabasePath string

	// LogLevel is the minimum level logged.
	LogLevel slog.Level
}

// Load reads configuration from environment variables with sensible
// defaults. Variables from a .env file in the working directory are loaded
// first when the file exists; they never override the real environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	port, err := intEnv("PORT", 3000)
	if err != nil {
		return nil, err
	}

	workers, err := intEnv("REDPROXY_PARSE_WORKERS", 8)
	if err != nil {
		return nil, err
	}
	if workers < 1 {
		return nil, fmt.Errorf("invalid REDPROXY_PARSE_WORKERS: must be positive")
	}

	timeout := 30 * time.Second
	if v := os.Getenv("REDPROXY_FETCH_TIMEOUT"); v != "" {
		timeout, err = time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid REDPROXY_FETCH_TIMEOUT: %w", err)
		}
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(envOrDefault("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	return &Config{
		Hostname:        envOrDefault("REDPROXY_HOSTNAME", "localhost"),
		Port:            port,
		UpstreamURL:     strings.TrimSuffix(envOrDefault("REDPROXY_UPSTREAM_URL", "https://www.reddit.com"), "/"),
		UserAgent:       os.Getenv("REDPROXY_USER_AGENT"),
		RemovedFrontend: envOrDefault("REDPROXY_PUSHSHIFT_FRONTEND", "undelete.pullpush.io"),
		SFWOnly:         isOn(os.Getenv("REDPROXY_SFW_ONLY")),
		FetchTimeout:    timeout,
		ParseWorkers:    workers,
		DatabasePath:    envOrDefault("DATABASE_PATH", "redproxy.db"),
		LogLevel:        level,
	}, nil
}

// DefaultSetting returns the instance-wide default for a user preference,
// read from REDPROXY_DEFAULT_<NAME>.
func DefaultSetting(name string) (string, bool) {
	v, ok := os.LookupEnv("REDPROXY_DEFAULT_" + strings.ToUpper(name))
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func intEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func isOn(v string) bool {
	switch strings.ToLower(v) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}
