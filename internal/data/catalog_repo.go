// internal/data/catalog_repo.go
package data

import (
	"context"
	"fmt"

	"carconfig/internal/catalog"
)

// =============================================================================
// SCHEMA DEFINITIONS
// =============================================================================

const catalogTablesSchema = `
    CREATE TABLE IF NOT EXISTS cars (
        id TEXT PRIMARY KEY,
        name TEXT NOT NULL,
        base_price_cents INTEGER NOT NULL DEFAULT 0,
        position INTEGER NOT NULL DEFAULT 0
    );
    CREATE TABLE IF NOT EXISTS options (
        car_id TEXT NOT NULL REFERENCES cars(id) ON DELETE CASCADE,
        id TEXT NOT NULL,
        name TEXT NOT NULL DEFAULT '',
        category TEXT NOT NULL DEFAULT '',
        price_cents INTEGER NOT NULL DEFAULT 0,
        exclusive_grp TEXT NOT NULL DEFAULT '',
        required BOOLEAN NOT NULL DEFAULT 0,
        position INTEGER NOT NULL DEFAULT 0,
        PRIMARY KEY (car_id, id)
    );
    CREATE TABLE IF NOT EXISTS conflict_edges (
        from_option_id TEXT NOT NULL,
        to_option_id TEXT NOT NULL,
        conflict_type TEXT NOT NULL DEFAULT '',
        PRIMARY KEY (from_option_id, to_option_id)
    );
    CREATE TABLE IF NOT EXISTS group_specs (
        grp TEXT PRIMARY KEY,
        required BOOLEAN NOT NULL DEFAULT 0
    );
    CREATE INDEX IF NOT EXISTS idx_options_car ON options(car_id, position);
    CREATE INDEX IF NOT EXISTS idx_edges_from ON conflict_edges(from_option_id);
    CREATE INDEX IF NOT EXISTS idx_edges_to ON conflict_edges(to_option_id);`

func createCatalogTables() error {
	return execSchema(catalogTablesSchema)
}

// =============================================================================
// CATALOG STORE
// =============================================================================

// CatalogStore loads and seeds catalog snapshots. It satisfies
// catalog.Loader so the in-memory service can refresh from SQLite.
type CatalogStore struct{}

// LoadCatalog reads the full catalog: cars with their options in display
// order, all conflict edges and all group specs.
func (CatalogStore) LoadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	conn, err := GetDB()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	cat := &catalog.Catalog{}

	rows, err := conn.QueryContext(ctx,
		`SELECT id, name, base_price_cents FROM cars ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query cars: %w", err)
	}
	for rows.Next() {
		var car catalog.Car
		if err := rows.Scan(&car.ID, &car.Name, &car.BasePriceCents); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan car: %w", err)
		}
		cat.Cars = append(cat.Cars, car)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read cars: %w", err)
	}

	for i := range cat.Cars {
		options, err := loadCarOptions(ctx, cat.Cars[i].ID)
		if err != nil {
			return nil, err
		}
		cat.Cars[i].Options = options
	}

	rows, err = conn.QueryContext(ctx,
		`SELECT from_option_id, to_option_id, conflict_type FROM conflict_edges`)
	if err != nil {
		return nil, fmt.Errorf("failed to query conflict edges: %w", err)
	}
	for rows.Next() {
		var edge catalog.ConflictEdge
		if err := rows.Scan(&edge.FromOptionID, &edge.ToOptionID, &edge.Type); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan conflict edge: %w", err)
		}
		cat.ConflictEdges = append(cat.ConflictEdges, edge)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read conflict edges: %w", err)
	}

	rows, err = conn.QueryContext(ctx, `SELECT grp, required FROM group_specs ORDER BY grp`)
	if err != nil {
		return nil, fmt.Errorf("failed to query group specs: %w", err)
	}
	for rows.Next() {
		var spec catalog.GroupSpec
		if err := rows.Scan(&spec.Group, &spec.Required); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan group spec: %w", err)
		}
		cat.GroupSpecs = append(cat.GroupSpecs, spec)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read group specs: %w", err)
	}

	return cat, nil
}

func loadCarOptions(ctx context.Context, carID string) ([]catalog.Option, error) {
	conn, err := GetDB()
	if err != nil {
		return nil, err
	}

	rows, err := conn.QueryContext(ctx,
		`SELECT id, name, category, price_cents, exclusive_grp, required
         FROM options WHERE car_id = ? ORDER BY position, id`, carID)
	if err != nil {
		return nil, fmt.Errorf("failed to query options for car %s: %w", carID, err)
	}
	defer rows.Close()

	var options []catalog.Option
	for rows.Next() {
		var opt catalog.Option
		if err := rows.Scan(&opt.ID, &opt.Name, &opt.Category, &opt.PriceCents,
			&opt.ExclusiveGroup, &opt.Required); err != nil {
			return nil, fmt.Errorf("failed to scan option: %w", err)
		}
		options = append(options, opt)
	}
	return options, rows.Err()
}

// SeedCatalog replaces the stored catalog with the given snapshot inside a
// single transaction. Used by the admin import path and the test suite.
func (CatalogStore) SeedCatalog(ctx context.Context, cat *catalog.Catalog) error {
	conn, err := GetDB()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin catalog seed: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"options", "cars", "conflict_edges", "group_specs"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for pos, car := range cat.Cars {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO cars (id, name, base_price_cents, position) VALUES (?, ?, ?, ?)`,
			car.ID, car.Name, car.BasePriceCents, pos); err != nil {
			return fmt.Errorf("failed to insert car %s: %w", car.ID, err)
		}
		for optPos, opt := range car.Options {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO options (car_id, id, name, category, price_cents, exclusive_grp, required, position)
                 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				car.ID, opt.ID, opt.Name, opt.Category, opt.PriceCents,
				opt.ExclusiveGroup, opt.Required, optPos); err != nil {
				return fmt.Errorf("failed to insert option %s: %w", opt.ID, err)
			}
		}
	}

	for _, edge := range cat.ConflictEdges {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO conflict_edges (from_option_id, to_option_id, conflict_type) VALUES (?, ?, ?)`,
			edge.FromOptionID, edge.ToOptionID, edge.Type); err != nil {
			return fmt.Errorf("failed to insert conflict edge %s-%s: %w", edge.FromOptionID, edge.ToOptionID, err)
		}
	}

	for _, spec := range cat.GroupSpecs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO group_specs (grp, required) VALUES (?, ?)`,
			spec.Group, spec.Required); err != nil {
			return fmt.Errorf("failed to insert group spec %s: %w", spec.Group, err)
		}
	}

	return tx.Commit()
}
