package testsupport

import (
	"context"
	"testing"

	"partscout/internal/catalog"
	"partscout/internal/config"
)

// MustOpenStore opens a catalog.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *catalog.Store {
	t.Helper()

	store, err := catalog.Open(cfg)
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// AddModel seeds a model row for tests using the provided store.
func AddModel(t testing.TB, store *catalog.Store, modelNumber, brand, category string) int64 {
	t.Helper()

	id, err := store.AddModel(context.Background(), modelNumber, brand, category)
	if err != nil {
		t.Fatalf("store.AddModel: %v", err)
	}
	return id
}
