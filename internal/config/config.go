package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// DefaultDatasetURL is the public storm events archive this report is built
// around. The URL-encoded path segment is intentional; the host serves the
// file under the literal "repdata%2Fdata%2F" key.
const DefaultDatasetURL = "https://d396qusza40orc.cloudfront.net/repdata%2Fdata%2FStormData.csv.bz2"

// Config holds all report settings, populated from environment variables.
type Config struct {
	DatasetURL  string
	DatasetPath string

	// TopEventTypes bounds the health chart to the N highest-impact event
	// types. EconomyTopEventTypes is tracked separately because the economic
	// chart intentionally shows twice the breadth.
	TopEventTypes        int
	EconomyTopEventTypes int

	HealthChartPath  string
	EconomyChartPath string

	FetchTimeout time.Duration

	HTTPAddr        string
	MetricsEnabled  bool
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	fetchTimeout, err := parseDuration("FETCH_TIMEOUT", "5m")
	if err != nil {
		return nil, err
	}

	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	topN, err := parsePositiveInt("TOP_EVENT_TYPES", 10)
	if err != nil {
		return nil, err
	}

	economyTopN, err := parsePositiveInt("ECONOMY_TOP_EVENT_TYPES", 2*topN)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DatasetURL:  envOrDefault("DATASET_URL", DefaultDatasetURL),
		DatasetPath: envOrDefault("DATASET_PATH", "data/StormData.csv.bz2"),

		TopEventTypes:        topN,
		EconomyTopEventTypes: economyTopN,

		HealthChartPath:  envOrDefault("HEALTH_CHART_PATH", "out/health_impact.html"),
		EconomyChartPath: envOrDefault("ECONOMY_CHART_PATH", "out/economic_impact.html"),

		FetchTimeout: fetchTimeout,

		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		MetricsEnabled:  os.Getenv("METRICS_ENABLED") == "true",
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
	}

	if cfg.DatasetURL == "" {
		return nil, errors.New("DATASET_URL is required")
	}
	if cfg.DatasetPath == "" {
		return nil, errors.New("DATASET_PATH is required")
	}
	if cfg.HealthChartPath == "" || cfg.EconomyChartPath == "" {
		return nil, errors.New("chart output paths are required")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parsePositiveInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}
