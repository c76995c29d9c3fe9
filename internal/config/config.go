package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	devAPIBaseURL  = "http://localhost:8080/api/v1"
	prodAPIBaseURL = "https://api.safiro.com/api/v1"
)

type Config struct {
	APIBaseURL string
	APITimeout time.Duration
	LogLevel   string
	Env        string // dev|prod
	SentryDSN  string
	Release    string

	// mock backend
	MockAddr       string
	DatabaseURL    string // пусто: хранилище в памяти
	MockAutoVerify bool

	ExportDir string
}

func Load() (*Config, error) {
	env := strings.ToLower(getenv("ENV", "dev"))
	if env != "dev" && env != "prod" {
		return nil, fmt.Errorf("ENV: unknown environment %q", env)
	}

	timeout, err := getenvDuration("API_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("API_TIMEOUT: %w", err)
	}
	autoVerify, err := getenvBool("MOCKAPI_AUTO_VERIFY", false)
	if err != nil {
		return nil, fmt.Errorf("MOCKAPI_AUTO_VERIFY: %w", err)
	}

	cfg := &Config{
		APIBaseURL:     strings.TrimRight(getenv("API_BASE_URL", defaultBaseURL(env)), "/"),
		APITimeout:     timeout,
		LogLevel:       getenv("LOG_LEVEL", "info"),
		Env:            env,
		SentryDSN:      os.Getenv("SENTRY_DSN"),
		Release:        getenv("RELEASE", "dev"),
		MockAddr:       getenv("MOCKAPI_ADDR", ":8080"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		MockAutoVerify: autoVerify,
		ExportDir:      getenv("EXPORT_DIR", "."),
	}
	return cfg, nil
}

func defaultBaseURL(env string) string {
	if env == "prod" {
		return prodAPIBaseURL
	}
	return devAPIBaseURL
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// getenvDuration принимает как "15s", так и голое число миллисекунд.
func getenvDuration(k string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def, nil
	}
	if ms, err := strconv.Atoi(v); err == nil {
		if ms <= 0 {
			return 0, fmt.Errorf("must be positive, got %d", ms)
		}
		return time.Duration(ms) * time.Millisecond, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive, got %s", d)
	}
	return d, nil
}

func getenvBool(k string, def bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def, nil
	}
	return strconv.ParseBool(v)
}
