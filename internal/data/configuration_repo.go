// internal/data/configuration_repo.go
package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// SavedConfiguration is a buyer configuration that passed validation and
// was committed. Selected option ids are stored as JSON, matching how the
// rest of the schema stores list-shaped fields.
type SavedConfiguration struct {
	ID              string
	CarID           string
	BuyerName       string
	BuyerEmail      string
	SelectedOptions []string
	TotalPriceCents int64
	CreatedAt       time.Time
}

const configurationTableSchema = `
    CREATE TABLE IF NOT EXISTS saved_configurations (
        id TEXT PRIMARY KEY,
        car_id TEXT NOT NULL,
        buyer_name TEXT NOT NULL DEFAULT '',
        buyer_email TEXT NOT NULL DEFAULT '',
        selected_options_json TEXT NOT NULL DEFAULT '[]',
        total_price_cents INTEGER NOT NULL DEFAULT 0,
        created_at TEXT NOT NULL
    );
    CREATE INDEX IF NOT EXISTS idx_saved_configurations_car ON saved_configurations(car_id);
    CREATE INDEX IF NOT EXISTS idx_saved_configurations_created ON saved_configurations(created_at);`

func createConfigurationTable() error {
	return execSchema(configurationTableSchema)
}

// InsertConfiguration stores a validated configuration.
func InsertConfiguration(ctx context.Context, cfg *SavedConfiguration) error {
	conn, err := GetDB()
	if err != nil {
		return err
	}

	selectedJSON, err := json.Marshal(cfg.SelectedOptions)
	if err != nil {
		return fmt.Errorf("failed to marshal selected options: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err = conn.ExecContext(ctx,
		`INSERT INTO saved_configurations
         (id, car_id, buyer_name, buyer_email, selected_options_json, total_price_cents, created_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		cfg.ID, cfg.CarID, cfg.BuyerName, cfg.BuyerEmail,
		string(selectedJSON), cfg.TotalPriceCents, cfg.CreatedAt.Format(TimeFormat))
	if err != nil {
		return fmt.Errorf("failed to insert configuration %s: %w", cfg.ID, err)
	}
	return nil
}

// GetConfigurationByID fetches one saved configuration.
func GetConfigurationByID(ctx context.Context, id string) (*SavedConfiguration, error) {
	conn, err := GetDB()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	row := conn.QueryRowContext(ctx,
		`SELECT id, car_id, buyer_name, buyer_email, selected_options_json, total_price_cents, created_at
         FROM saved_configurations WHERE id = ?`, id)

	cfg, err := scanConfiguration(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("configuration not found: %s", id)
	}
	return cfg, err
}

// ListConfigurationsByCar returns the saved configurations for one car,
// newest first.
func ListConfigurationsByCar(ctx context.Context, carID string) ([]*SavedConfiguration, error) {
	conn, err := GetDB()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := conn.QueryContext(ctx,
		`SELECT id, car_id, buyer_name, buyer_email, selected_options_json, total_price_cents, created_at
         FROM saved_configurations WHERE car_id = ? ORDER BY created_at DESC`, carID)
	if err != nil {
		return nil, fmt.Errorf("failed to query configurations for car %s: %w", carID, err)
	}
	defer rows.Close()

	var configs []*SavedConfiguration
	for rows.Next() {
		cfg, err := scanConfiguration(rows)
		if err != nil {
			return nil, err
		}
		configs = append(configs, cfg)
	}
	return configs, rows.Err()
}

// CountConfigurations returns the number of saved configurations, for the
// stats endpoint.
func CountConfigurations(ctx context.Context) (int, error) {
	conn, err := GetDB()
	if err != nil {
		return 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var count int
	err = conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM saved_configurations`).Scan(&count)
	return count, err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanConfiguration(row rowScanner) (*SavedConfiguration, error) {
	var cfg SavedConfiguration
	var selectedJSON, createdAt string

	if err := row.Scan(&cfg.ID, &cfg.CarID, &cfg.BuyerName, &cfg.BuyerEmail,
		&selectedJSON, &cfg.TotalPriceCents, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan configuration: %w", err)
	}

	if err := json.Unmarshal([]byte(selectedJSON), &cfg.SelectedOptions); err != nil {
		return nil, fmt.Errorf("failed to parse selected options for %s: %w", cfg.ID, err)
	}

	parsed, err := time.Parse(TimeFormat, createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at for %s: %w", cfg.ID, err)
	}
	cfg.CreatedAt = parsed

	return &cfg, nil
}
