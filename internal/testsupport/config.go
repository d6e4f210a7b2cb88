package testsupport

import (
	"path/filepath"
	"testing"

	"partscout/internal/config"
)

// NewConfig produces a config seeded with unique temp directories per test
// and placeholder PA-API credentials.
func NewConfig(t testing.TB) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Amazon.AccessKey = "AKIATEST"
	cfg.Amazon.SecretKey = "test-secret"
	cfg.Amazon.PartnerTag = "test-20"
	cfg.Enrich.DelaySeconds = 0
	return &cfg
}
