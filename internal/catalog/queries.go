package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// SearchAppliances returns appliances whose model number contains the query
// substring, case-insensitively, each with its consumables.
func (s *Store) SearchAppliances(ctx context.Context, modelQuery string) ([]Appliance, error) {
	modelQuery = lower(strings.TrimSpace(modelQuery))
	if modelQuery == "" {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `
        SELECT m.id, m.model_number, b.name, c.name
        FROM models m
        JOIN brands b ON m.brand_id = b.id
        JOIN categories c ON m.category_id = c.id
        WHERE INSTR(LOWER(m.model_number), ?) > 0
        ORDER BY c.name, b.name, m.model_number`,
		modelQuery)
	if err != nil {
		return nil, fmt.Errorf("search appliances: %w", err)
	}
	defer rows.Close()

	type modelRow struct {
		id        int64
		appliance Appliance
	}
	var models []modelRow
	for rows.Next() {
		var m modelRow
		if err := rows.Scan(&m.id, &m.appliance.Model, &m.appliance.Brand, &m.appliance.Category); err != nil {
			return nil, fmt.Errorf("scan appliance: %w", err)
		}
		models = append(models, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	appliances := make([]Appliance, 0, len(models))
	for _, m := range models {
		consumables, err := s.consumablesForModel(ctx, m.id)
		if err != nil {
			return nil, err
		}
		m.appliance.Consumables = consumables
		appliances = append(appliances, m.appliance)
	}
	return appliances, nil
}

// ListGrouped returns the whole catalog grouped category -> brand ->
// appliance, each level sorted by name.
func (s *Store) ListGrouped(ctx context.Context) ([]CategoryGroup, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT m.id, m.model_number, b.name, c.name
        FROM models m
        JOIN brands b ON m.brand_id = b.id
        JOIN categories c ON m.category_id = c.id
        ORDER BY c.name, b.name, m.model_number`)
	if err != nil {
		return nil, fmt.Errorf("list grouped: %w", err)
	}
	defer rows.Close()

	var groups []CategoryGroup
	for rows.Next() {
		var (
			id        int64
			appliance Appliance
		)
		if err := rows.Scan(&id, &appliance.Model, &appliance.Brand, &appliance.Category); err != nil {
			return nil, fmt.Errorf("scan grouped row: %w", err)
		}
		consumables, err := s.consumablesForModel(ctx, id)
		if err != nil {
			return nil, err
		}
		appliance.Consumables = consumables

		if len(groups) == 0 || groups[len(groups)-1].Category != appliance.Category {
			groups = append(groups, CategoryGroup{Category: appliance.Category})
		}
		category := &groups[len(groups)-1]
		if len(category.Brands) == 0 || category.Brands[len(category.Brands)-1].Brand != appliance.Brand {
			category.Brands = append(category.Brands, BrandGroup{Brand: appliance.Brand})
		}
		brand := &category.Brands[len(category.Brands)-1]
		brand.Appliances = append(brand.Appliances, appliance)
	}
	return groups, rows.Err()
}

func (s *Store) consumablesForModel(ctx context.Context, modelID int64) ([]Consumable, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT cons.name, cons.type, cons.sku, mc.notes, cons.purchase_url
        FROM model_consumables mc
        JOIN consumables cons ON cons.id = mc.consumable_id
        WHERE mc.model_id = ?
        ORDER BY cons.name`,
		modelID)
	if err != nil {
		return nil, fmt.Errorf("consumables for model: %w", err)
	}
	defer rows.Close()

	var consumables []Consumable
	for rows.Next() {
		var (
			c     Consumable
			sku   sql.NullString
			notes sql.NullString
			url   sql.NullString
		)
		if err := rows.Scan(&c.Name, &c.Type, &sku, &notes, &url); err != nil {
			return nil, fmt.Errorf("scan consumable: %w", err)
		}
		c.SKU = sku.String
		c.Notes = notes.String
		c.PurchaseURL = url.String
		consumables = append(consumables, c)
	}
	return consumables, rows.Err()
}

func (s *Store) ensureBrand(ctx context.Context, tx *sql.Tx, name string) (int64, error) {
	return ensureNamed(ctx, tx, "brands", name)
}

func (s *Store) ensureCategory(ctx context.Context, tx *sql.Tx, name string) (int64, error) {
	return ensureNamed(ctx, tx, "categories", name)
}

func ensureNamed(ctx context.Context, tx *sql.Tx, table, name string) (int64, error) {
	var id int64
	err := tx.QueryRowContext(ctx,
		"INSERT INTO "+table+" (name) VALUES (?) ON CONFLICT (name) DO UPDATE SET name = excluded.name RETURNING id",
		name).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("ensure %s %q: %w", table, name, err)
	}
	return id, nil
}

func lower(value string) string {
	return strings.ToLower(value)
}
