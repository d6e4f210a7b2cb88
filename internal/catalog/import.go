package catalog

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var requiredColumns = []string{"model", "brand", "category", "consumable_name", "consumable_type", "sku"}

var brandTitle = cases.Title(language.English)

// AddModel inserts a model with its brand and category, creating either when
// absent. Existing models are returned unchanged.
func (s *Store) AddModel(ctx context.Context, modelNumber, brand, category string) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin add model tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	id, err := s.addModelTx(ctx, tx, modelNumber, brand, category)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit add model tx: %w", err)
	}
	return id, nil
}

func (s *Store) addModelTx(ctx context.Context, tx *sql.Tx, modelNumber, brand, category string) (int64, error) {
	brandID, err := s.ensureBrand(ctx, tx, brand)
	if err != nil {
		return 0, err
	}
	categoryID, err := s.ensureCategory(ctx, tx, strings.ToLower(category))
	if err != nil {
		return 0, err
	}

	var id int64
	err = tx.QueryRowContext(ctx, `
        INSERT INTO models (model_number, brand_id, category_id)
        VALUES (?, ?, ?)
        ON CONFLICT (model_number, brand_id) DO UPDATE SET category_id = excluded.category_id
        RETURNING id`,
		modelNumber, brandID, categoryID).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("ensure model %q: %w", modelNumber, err)
	}
	return id, nil
}

// ImportCSV loads catalog rows from the canonical CSV export. Each row pairs
// one model with one consumable; rows missing a model, brand, category,
// consumable name, or SKU are skipped. The import is idempotent: models are
// keyed by (model number, brand), consumables by (name, SKU), and links by
// the model/consumable pair.
func (s *Store) ImportCSV(ctx context.Context, r io.Reader) (ImportStats, error) {
	var stats ImportStats

	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return stats, fmt.Errorf("read csv header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(strings.ToLower(name))] = i
	}
	var missing []string
	for _, name := range requiredColumns {
		if _, ok := index[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return stats, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return stats, fmt.Errorf("begin import tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	seenModels := make(map[int64]struct{})

	field := func(record []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return stats, fmt.Errorf("read csv row: %w", err)
		}
		stats.RowsRead++

		model := field(record, "model")
		brand := field(record, "brand")
		category := field(record, "category")
		name := field(record, "consumable_name")
		sku := field(record, "sku")
		if model == "" || brand == "" || category == "" || name == "" || sku == "" {
			stats.RowsSkipped++
			continue
		}

		modelID, err := s.addModelTx(ctx, tx, model, brandTitle.String(brand), category)
		if err != nil {
			return stats, err
		}
		if _, seen := seenModels[modelID]; !seen {
			seenModels[modelID] = struct{}{}
			stats.Models++
		}

		consumableID, created, err := ensureConsumable(ctx, tx,
			name, field(record, "consumable_type"), sku, field(record, "purchase_url"))
		if err != nil {
			return stats, err
		}
		if created {
			stats.Consumables++
		}

		res, err := tx.ExecContext(ctx, `
            INSERT INTO model_consumables (model_id, consumable_id, notes)
            VALUES (?, ?, ?)
            ON CONFLICT (model_id, consumable_id) DO NOTHING`,
			modelID, consumableID, nullableString(field(record, "notes")))
		if err != nil {
			return stats, fmt.Errorf("link imported consumable: %w", err)
		}
		if affected, err := res.RowsAffected(); err == nil && affected > 0 {
			stats.Links++
		}
	}

	if err := tx.Commit(); err != nil {
		return stats, fmt.Errorf("commit import tx: %w", err)
	}
	return stats, nil
}

func ensureConsumable(ctx context.Context, tx *sql.Tx, name, typ, sku, purchaseURL string) (int64, bool, error) {
	if typ == "" {
		typ = "other"
	}

	var id int64
	err := tx.QueryRowContext(ctx,
		"SELECT id FROM consumables WHERE name = ? AND sku = ? LIMIT 1",
		name, sku).Scan(&id)
	if err == nil {
		return id, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, false, fmt.Errorf("find consumable %q: %w", name, err)
	}

	err = tx.QueryRowContext(ctx, `
        INSERT INTO consumables (name, type, asin, sku, purchase_url)
        VALUES (?, ?, NULL, ?, ?)
        RETURNING id`,
		name, typ, sku, nullableString(purchaseURL)).Scan(&id)
	if err != nil {
		return 0, false, fmt.Errorf("insert consumable %q: %w", name, err)
	}
	return id, true, nil
}
