package config_test

import (
	"testing"

	"github.com/datatalk/datatalk/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg := config.Load()

	if cfg.Host != "0.0.0.0" {
		t.Errorf("Host = %q", cfg.Host)
	}
	if cfg.Port != 5000 {
		t.Errorf("Port = %d, want 5000", cfg.Port)
	}
	if cfg.Location != "global" {
		t.Errorf("Location = %q, want global", cfg.Location)
	}
	if cfg.DatasetID != "bigquery-public-data.covid19_weathersource_com" {
		t.Errorf("DatasetID = %q", cfg.DatasetID)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
	if cfg.RateLimitPerMinute != 60 {
		t.Errorf("RateLimitPerMinute = %d, want 60", cfg.RateLimitPerMinute)
	}
	if cfg.Debug {
		t.Error("Debug = true, want false by default")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("DEBUG", "true")
	t.Setenv("CORS_ORIGINS", "https://a.example.com,https://b.example.com")
	t.Setenv("GOOGLE_CLOUD_PROJECT_ID", "my-project")
	t.Setenv("BIGQUERY_DATASET_ID", "analytics")
	t.Setenv("DATA_AGENT_ID", "custom-agent")

	cfg := config.Load()

	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if !cfg.Debug {
		t.Error("Debug = false, want true")
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example.com" {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
	if cfg.ProjectID != "my-project" {
		t.Errorf("ProjectID = %q", cfg.ProjectID)
	}
	if cfg.DatasetID != "analytics" {
		t.Errorf("DatasetID = %q", cfg.DatasetID)
	}
	if cfg.AgentID != "custom-agent" {
		t.Errorf("AgentID = %q", cfg.AgentID)
	}
}

func TestLoadIgnoresInvalidPort(t *testing.T) {
	t.Setenv("PORT", "not-a-number")

	cfg := config.Load()
	if cfg.Port != 5000 {
		t.Errorf("Port = %d, want default 5000 on unparsable value", cfg.Port)
	}
}
