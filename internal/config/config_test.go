package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"partscout/internal/config"
)

func TestLoadDefaultsUseEnvCredentialsAndExpandPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("AMAZON_PAAPI_ACCESS_KEY", "AKIAEXAMPLE")
	t.Setenv("AMAZON_PAAPI_SECRET_KEY", "secret")
	t.Setenv("AMAZON_ASSOCIATE_TAG", "tag-20")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "partscout")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.Amazon.AccessKey != "AKIAEXAMPLE" {
		t.Fatalf("expected access key from env, got %q", cfg.Amazon.AccessKey)
	}
	if cfg.Amazon.PartnerTag != "tag-20" {
		t.Fatalf("expected partner tag from env, got %q", cfg.Amazon.PartnerTag)
	}
	if cfg.Amazon.Host != "webservices.amazon.com" {
		t.Fatalf("unexpected host default: %q", cfg.Amazon.Host)
	}
	if cfg.Enrich.Category != "refrigerator" {
		t.Fatalf("unexpected category default: %q", cfg.Enrich.Category)
	}
	if cfg.Enrich.ItemCount != 5 {
		t.Fatalf("unexpected item count default: %d", cfg.Enrich.ItemCount)
	}
	if err := cfg.RequireCredentials(); err != nil {
		t.Fatalf("RequireCredentials failed: %v", err)
	}
	if got := cfg.DatabasePath(); got != filepath.Join(wantData, "catalog.db") {
		t.Fatalf("unexpected database path: %q", got)
	}
	if got := cfg.ProgressPath(); got != filepath.Join(wantData, "enrich_progress.json") {
		t.Fatalf("unexpected progress path: %q", got)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.DataDir, cfg.Paths.LogDir} {
		if _, err := os.Stat(dir); err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
	}
}

func TestLoadReadsConfigFileAndKeepsFileValuesOverEnv(t *testing.T) {
	t.Setenv("AMAZON_PAAPI_ACCESS_KEY", "env-key")

	dir := t.TempDir()
	path := filepath.Join(dir, "partscout.toml")
	content := strings.Join([]string{
		"[paths]",
		`data_dir = "` + filepath.Join(dir, "data") + `"`,
		"[amazon]",
		`access_key = "file-key"`,
		`secret_key = "file-secret"`,
		`partner_tag = "file-tag"`,
		"[enrich]",
		"limit = 25",
		"delay_seconds = 0.5",
		"[logging]",
		`format = "json"`,
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected config at %q to be used, got %q exists=%v", path, resolved, exists)
	}
	if cfg.Amazon.AccessKey != "file-key" {
		t.Fatalf("expected file value to win over env, got %q", cfg.Amazon.AccessKey)
	}
	if cfg.Enrich.Limit != 25 {
		t.Fatalf("unexpected limit: %d", cfg.Enrich.Limit)
	}
	if cfg.Enrich.DelaySeconds != 0.5 {
		t.Fatalf("unexpected delay: %f", cfg.Enrich.DelaySeconds)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("unexpected log format: %q", cfg.Logging.Format)
	}
	// Defaults survive for sections the file does not mention.
	if cfg.Amazon.SearchIndex != "Appliances" {
		t.Fatalf("unexpected search index: %q", cfg.Amazon.SearchIndex)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"zero limit", func(c *config.Config) { c.Enrich.Limit = 0 }, "enrich.limit"},
		{"negative delay", func(c *config.Config) { c.Enrich.DelaySeconds = -1 }, "enrich.delay_seconds"},
		{"item count too high", func(c *config.Config) { c.Enrich.ItemCount = 11 }, "enrich.item_count"},
		{"empty category", func(c *config.Config) { c.Enrich.Category = " " }, "enrich.category"},
		{"empty host", func(c *config.Config) { c.Amazon.Host = "" }, "amazon.host"},
		{"zero timeout", func(c *config.Config) { c.Amazon.RequestTimeout = 0 }, "amazon.request_timeout"},
		{"empty bind", func(c *config.Config) { c.API.Bind = "" }, "api.bind"},
		{"bad log format", func(c *config.Config) { c.Logging.Format = "yaml" }, "logging.format"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}

func TestRequireCredentialsReportsMissingKeys(t *testing.T) {
	cfg := config.Default()
	err := cfg.RequireCredentials()
	if err == nil {
		t.Fatal("expected error when credentials missing")
	}
	if !strings.Contains(err.Error(), "amazon.access_key") {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg.Amazon.AccessKey = "key"
	cfg.Amazon.SecretKey = "secret"
	if err := cfg.RequireCredentials(); err == nil {
		t.Fatal("expected error when partner tag missing")
	}
}

func TestCreateSampleWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[amazon]") {
		t.Fatal("expected sample config to contain [amazon] section")
	}
}
