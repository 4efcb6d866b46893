// Package config loads the adapter configuration from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	// Server
	Host     string `json:"host"`
	Port     int    `json:"port"`
	LogLevel string `json:"log_level"`
	Debug    bool   `json:"debug"`

	// CORS
	CORSOrigins []string `json:"cors_origins"`

	// Session material, kept for parity with the frontend deployment.
	SecretKey string `json:"secret_key"`

	// Google Cloud
	ProjectID       string `json:"project_id"`
	Location        string `json:"location"`
	CredentialsPath string `json:"credentials_path"`

	// BigQuery
	DatasetID string `json:"dataset_id"`
	TableID   string `json:"table_id"`

	// Data agent
	AgentID string `json:"agent_id"`

	// Rate limiting
	RateLimitPerMinute int `json:"rate_limit_per_minute"`
}

func Load() *Config {
	cfg := &Config{
		Host:               DefaultHost,
		Port:               DefaultPort,
		LogLevel:           DefaultLogLevel,
		CORSOrigins:        DefaultCORSOrigins,
		Location:           DefaultLocation,
		DatasetID:          DefaultDatasetID,
		RateLimitPerMinute: DefaultRateLimitPerMinute,
	}
	applyEnvOverrides(cfg)
	return cfg
}

func applyEnvOverrides(cfg *Config) {
	if v := getEnv("HOST", ""); v != "" {
		cfg.Host = v
	}
	if v := getEnv("PORT", ""); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Port = p
		}
	}
	if v := getEnv("LOG_LEVEL", ""); v != "" {
		cfg.LogLevel = v
	}
	if v := getEnv("DEBUG", ""); v != "" {
		cfg.Debug = v == "true" || v == "1"
	}
	if v := getEnv("CORS_ORIGINS", ""); v != "" {
		cfg.CORSOrigins = strings.Split(v, ",")
	}
	if v := getEnv("SECRET_KEY", ""); v != "" {
		cfg.SecretKey = v
	}
	if v := getEnv("GOOGLE_CLOUD_PROJECT_ID", ""); v != "" {
		cfg.ProjectID = v
	}
	if v := getEnv("GOOGLE_CLOUD_LOCATION", ""); v != "" {
		cfg.Location = v
	}
	if v := getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""); v != "" {
		cfg.CredentialsPath = v
	}
	if v := getEnv("BIGQUERY_DATASET_ID", ""); v != "" {
		cfg.DatasetID = v
	}
	if v := getEnv("BIGQUERY_TABLE_ID", ""); v != "" {
		cfg.TableID = v
	}
	if v := getEnv("DATA_AGENT_ID", ""); v != "" {
		cfg.AgentID = v
	}
	if v := getEnv("RATE_LIMIT_PER_MINUTE", ""); v != "" {
		if r, err := strconv.Atoi(v); err == nil {
			cfg.RateLimitPerMinute = r
		}
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}
