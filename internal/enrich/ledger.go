package enrich

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Entry records the outcome of one model's enrichment attempt.
type Entry struct {
	ModelNumber string `json:"model_number"`
	Brand       string `json:"brand"`
	Status      string `json:"status"`
	UpdatedAt   string `json:"updated_at"`
	ASIN        string `json:"asin,omitempty"`
	Title       string `json:"title,omitempty"`
	DetailURL   string `json:"detail_url,omitempty"`
	Message     string `json:"message,omitempty"`
}

// Ledger is the on-disk progress record keyed by model ID. Top-level fields
// this version does not know about survive a load/save round trip.
type Ledger struct {
	path      string
	models    map[string]Entry
	updatedAt string
	extra     map[string]json.RawMessage
}

// NewLedger returns an empty ledger that will save to path.
func NewLedger(path string) *Ledger {
	return &Ledger{
		path:   path,
		models: make(map[string]Entry),
		extra:  make(map[string]json.RawMessage),
	}
}

// LoadLedger reads the ledger at path. A missing or unreadable file yields an
// empty ledger so an interrupted or first run can proceed.
func LoadLedger(path string) *Ledger {
	ledger := NewLedger(path)

	raw, err := os.ReadFile(path)
	if err != nil {
		return ledger
	}
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return ledger
	}
	for key, value := range top {
		switch key {
		case "models":
			var models map[string]Entry
			if err := json.Unmarshal(value, &models); err == nil && models != nil {
				ledger.models = models
			}
		case "updated_at":
			_ = json.Unmarshal(value, &ledger.updatedAt)
		default:
			ledger.extra[key] = value
		}
	}
	return ledger
}

// Save writes the ledger atomically: a temp file in the same directory is
// renamed over the target so a crash never leaves a partial file.
func (l *Ledger) Save(now time.Time) error {
	l.updatedAt = now.UTC().Format(time.RFC3339)

	top := make(map[string]any, len(l.extra)+2)
	for key, value := range l.extra {
		top[key] = value
	}
	top["models"] = l.models
	top["updated_at"] = l.updatedAt

	encoded, err := json.MarshalIndent(top, "", "  ")
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}

	dir := filepath.Dir(l.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create ledger directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".enrich_progress-*.tmp")
	if err != nil {
		return fmt.Errorf("create ledger temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(encoded); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close ledger temp file: %w", err)
	}
	if err := os.Rename(tmpPath, l.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace ledger: %w", err)
	}
	return nil
}

// Path returns the ledger file location.
func (l *Ledger) Path() string {
	return l.path
}

// Len reports how many models have recorded entries.
func (l *Ledger) Len() int {
	return len(l.models)
}

// Entry returns the recorded entry for a model ID.
func (l *Ledger) Entry(modelID int64) (Entry, bool) {
	entry, ok := l.models[ledgerKey(modelID)]
	return entry, ok
}

// Entries returns a copy of all recorded entries keyed by model ID.
func (l *Ledger) Entries() map[string]Entry {
	out := make(map[string]Entry, len(l.models))
	for key, entry := range l.models {
		out[key] = entry
	}
	return out
}

// ShouldSkip reports whether a model already has a recorded outcome that a
// resumed run keeps. With retryErrors set, error entries are reprocessed.
func (l *Ledger) ShouldSkip(modelID int64, retryErrors bool) bool {
	entry, ok := l.models[ledgerKey(modelID)]
	if !ok {
		return false
	}
	if retryErrors && entry.Status == StatusError {
		return false
	}
	return true
}

// Upsert records an outcome for a model, stamping the entry time.
func (l *Ledger) Upsert(modelID int64, entry Entry, now time.Time) {
	entry.UpdatedAt = now.UTC().Format(time.RFC3339)
	l.models[ledgerKey(modelID)] = entry
}

func ledgerKey(modelID int64) string {
	return fmt.Sprintf("%d", modelID)
}
