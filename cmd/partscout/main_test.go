package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"partscout/internal/enrich"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
	dataDir    string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	for _, key := range []string{
		"AMAZON_PAAPI_ACCESS_KEY", "AMAZON_PAAPI_SECRET_KEY", "AMAZON_ASSOCIATE_TAG",
		"AMAZON_PAAPI_HOST", "AMAZON_PAAPI_REGION", "AMAZON_PAAPI_MARKETPLACE",
		"AMAZON_PAAPI_SEARCH_INDEX",
	} {
		t.Setenv(key, "")
	}

	base := t.TempDir()
	dataDir := filepath.Join(base, "data")
	logDir := filepath.Join(base, "logs")
	configPath := filepath.Join(base, "config.toml")

	content := fmt.Sprintf(`[paths]
data_dir = %q
log_dir = %q

[logging]
format = "json"
level = "error"
`, dataDir, logDir)
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write test config: %v", err)
	}

	return &cliTestEnv{baseDir: base, configPath: configPath, dataDir: dataDir}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	flags := []string{}
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q, got:\n%s", needle, haystack)
	}
}

func TestConfigInit(t *testing.T) {
	env := setupCLITestEnv(t)

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err := runCLI(t, []string{"config", "init", "--path", target}, env.configPath)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")

	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	// A second init without --overwrite refuses to clobber the file.
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, env.configPath); err == nil {
		t.Fatal("expected error when config already exists")
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, env.configPath); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestImportCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	csvPath := filepath.Join(env.baseDir, "catalog.csv")
	csv := `model,brand,category,consumable_name,consumable_type,sku
GSS25GSHSS,GE,refrigerator,GE MWF Water Filter,filter,MWF
WRS325SDHZ,Whirlpool,refrigerator,EveryDrop Filter 1,filter,EDR1RXD1
`
	if err := os.WriteFile(csvPath, []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}

	out, _, err := runCLI(t, []string{"import", "--input", csvPath}, env.configPath)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	requireContains(t, out, "Rows read: 2")
	requireContains(t, out, "Models: 2")
	requireContains(t, out, "New consumables: 2")

	if _, err := os.Stat(filepath.Join(env.dataDir, "catalog.db")); err != nil {
		t.Fatalf("expected catalog database: %v", err)
	}
}

func TestImportCommandRequiresInput(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, []string{"import"}, env.configPath); err == nil {
		t.Fatal("expected error without --input")
	}
}

func TestEnrichRequiresCredentials(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"enrich", "--dry-run"}, env.configPath)
	if err == nil {
		t.Fatal("expected error without credentials")
	}
	if !strings.Contains(err.Error(), "access_key") {
		t.Fatalf("expected credential guidance, got %v", err)
	}
}

func TestProgressCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	ledgerPath := filepath.Join(env.baseDir, "progress.json")
	ledger := enrich.NewLedger(ledgerPath)
	now := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	ledger.Upsert(1, enrich.Entry{
		ModelNumber: "GSS25GSHSS", Brand: "GE",
		Status: enrich.StatusFound, ASIN: "B000AST3AK",
	}, now)
	ledger.Upsert(2, enrich.Entry{
		ModelNumber: "WRS325SDHZ", Brand: "Whirlpool",
		Status: enrich.StatusError, Message: "http 429",
	}, now)
	if err := ledger.Save(now); err != nil {
		t.Fatalf("seed ledger: %v", err)
	}

	out, _, err := runCLI(t, []string{"progress", "--progress-file", ledgerPath}, env.configPath)
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	requireContains(t, out, "GSS25GSHSS")
	requireContains(t, out, "2 models recorded")
	requireContains(t, out, "error=1")
	requireContains(t, out, "found=1")

	out, _, err = runCLI(t, []string{"progress", "--progress-file", ledgerPath, "--status", "error"}, env.configPath)
	if err != nil {
		t.Fatalf("progress --status: %v", err)
	}
	requireContains(t, out, "WRS325SDHZ")
	if strings.Contains(out, "B000AST3AK") {
		t.Fatal("expected found entry filtered out")
	}
}

func TestProgressCommandEmptyLedger(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"progress"}, env.configPath)
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	requireContains(t, out, "No progress recorded")
}
