package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Rates    RatesConfig
	Cluster  ClusterConfig
	Forecast ForecastConfig
	Export   ExportConfig
}

// RatesConfig configures the exchange rate provider client.
type RatesConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// ClusterConfig configures fuzzy name clustering.
type ClusterConfig struct {
	Threshold int
}

// ForecastConfig configures the monthly forecaster.
type ForecastConfig struct {
	HorizonMonths int
}

// ExportConfig configures workbook export.
type ExportConfig struct {
	OutputDir string
}

// Load reads configuration from environment variables, consulting a .env
// file when one exists in the working directory.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Rates: RatesConfig{
			BaseURL: getEnv("RATES_BASE_URL", "https://marketdata.tradermade.com/api/v1"),
			APIKey:  getEnv("RATES_API_KEY", ""),
			Timeout: time.Duration(getEnvAsInt("RATES_TIMEOUT_SECONDS", 10)) * time.Second,
		},
		Cluster: ClusterConfig{
			Threshold: getEnvAsInt("CLUSTER_THRESHOLD", 90),
		},
		Forecast: ForecastConfig{
			HorizonMonths: getEnvAsInt("FORECAST_HORIZON_MONTHS", 12),
		},
		Export: ExportConfig{
			OutputDir: getEnv("EXPORT_OUTPUT_DIR", "."),
		},
	}

	if cfg.Cluster.Threshold < 0 || cfg.Cluster.Threshold > 100 {
		return nil, errors.New("CLUSTER_THRESHOLD must be between 0 and 100")
	}

	if cfg.Forecast.HorizonMonths <= 0 {
		return nil, errors.New("FORECAST_HORIZON_MONTHS must be positive")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
