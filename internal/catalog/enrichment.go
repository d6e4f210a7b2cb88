package catalog

import (
	"context"
	"errors"
	"fmt"
)

// ErrColumnMissing is returned by EnsureWaterFilterColumn when the
// water_filter_missing column is absent and writing is not allowed.
var ErrColumnMissing = errors.New("models.water_filter_missing is missing; run a migration or rerun without --dry-run")

// ListCandidateModels returns models of a category ordered by brand then
// model number. When onlyMissing is set, models that already carry a
// water-filter consumable or are flagged water_filter_missing are excluded.
func (s *Store) ListCandidateModels(ctx context.Context, category string, limit int, onlyMissing bool) ([]CandidateModel, error) {
	var query string
	if onlyMissing {
		query = `
            SELECT m.id, m.model_number, b.name
            FROM models m
            JOIN categories c ON m.category_id = c.id
            JOIN brands b ON m.brand_id = b.id
            LEFT JOIN model_consumables mc ON mc.model_id = m.id
            LEFT JOIN consumables cons ON cons.id = mc.consumable_id
              AND LOWER(cons.name) LIKE '%water filter%'
            WHERE LOWER(c.name) = ?
              AND COALESCE(m.water_filter_missing, 0) = 0
            GROUP BY m.id, m.model_number, b.name
            HAVING COUNT(cons.id) = 0
            ORDER BY b.name, m.model_number
            LIMIT ?`
	} else {
		query = `
            SELECT m.id, m.model_number, b.name
            FROM models m
            JOIN categories c ON m.category_id = c.id
            JOIN brands b ON m.brand_id = b.id
            WHERE LOWER(c.name) = ?
            ORDER BY b.name, m.model_number
            LIMIT ?`
	}

	rows, err := s.db.QueryContext(ctx, query, lower(category), limit)
	if err != nil {
		return nil, fmt.Errorf("list candidate models: %w", err)
	}
	defer rows.Close()

	var models []CandidateModel
	for rows.Next() {
		var m CandidateModel
		if err := rows.Scan(&m.ID, &m.ModelNumber, &m.Brand); err != nil {
			return nil, fmt.Errorf("scan candidate model: %w", err)
		}
		models = append(models, m)
	}
	return models, rows.Err()
}

// EnsureWaterFilterColumn adds the water_filter_missing flag column to the
// models table when absent. With allowWrite false the absence is an error:
// a non-mutating run refuses to guess at the schema.
func (s *Store) EnsureWaterFilterColumn(ctx context.Context, allowWrite bool) error {
	exists, err := s.columnExists(ctx, "models", "water_filter_missing")
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	if !allowWrite {
		return ErrColumnMissing
	}
	_, err = s.db.ExecContext(ctx,
		"ALTER TABLE models ADD COLUMN water_filter_missing INTEGER NOT NULL DEFAULT 0")
	if err != nil {
		return fmt.Errorf("add water_filter_missing column: %w", err)
	}
	return nil
}

func (s *Store) columnExists(ctx context.Context, table, column string) (bool, error) {
	rows, err := s.db.QueryContext(ctx, "PRAGMA table_info("+table+")")
	if err != nil {
		return false, fmt.Errorf("table info %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid     int
			name    string
			typeStr string
			notNull int
			dflt    any
			pk      int
		)
		if err := rows.Scan(&cid, &name, &typeStr, &notNull, &dflt, &pk); err != nil {
			return false, fmt.Errorf("scan table info: %w", err)
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}

// SetWaterFilterMissing flags or clears the no-viable-match marker on a model.
func (s *Store) SetWaterFilterMissing(ctx context.Context, modelID int64, missing bool) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE models SET water_filter_missing = ? WHERE id = ?",
		boolToInt(missing), modelID)
	if err != nil {
		return fmt.Errorf("set water_filter_missing: %w", err)
	}
	return nil
}

// LinkDiscovered records a discovered consumable for a model in a single
// transaction: the consumable is upserted on its ASIN, linked to the model,
// and the model's water_filter_missing flag is cleared. Re-running with the
// same discovery is a no-op apart from refreshing the consumable title.
// Databases that predate the flag column are accepted; there is no flag to
// clear on them.
func (s *Store) LinkDiscovered(ctx context.Context, modelID int64, d Discovery) (int64, error) {
	hasFlag, err := s.columnExists(ctx, "models", "water_filter_missing")
	if err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin link tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var consumableID int64
	err = tx.QueryRowContext(ctx, `
        INSERT INTO consumables (name, type, asin, sku, purchase_url)
        VALUES (?, 'filter', ?, NULL, ?)
        ON CONFLICT (asin) DO UPDATE SET
            name = excluded.name,
            type = excluded.type,
            purchase_url = COALESCE(excluded.purchase_url, consumables.purchase_url)
        RETURNING id`,
		d.Title, d.ASIN, nullableString(d.PurchaseURL),
	).Scan(&consumableID)
	if err != nil {
		return 0, fmt.Errorf("upsert consumable: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
        INSERT INTO model_consumables (model_id, consumable_id, notes)
        VALUES (?, ?, ?)
        ON CONFLICT (model_id, consumable_id) DO NOTHING`,
		modelID, consumableID, nullableString(d.Note))
	if err != nil {
		return 0, fmt.Errorf("link consumable: %w", err)
	}

	if hasFlag {
		_, err = tx.ExecContext(ctx,
			"UPDATE models SET water_filter_missing = 0 WHERE id = ?", modelID)
		if err != nil {
			return 0, fmt.Errorf("clear water_filter_missing: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit link tx: %w", err)
	}
	return consumableID, nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
