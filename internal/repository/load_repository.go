package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jengzang/lastmile-backend-go/internal/models"
)

// LoadRepository handles database operations for dataset load history
type LoadRepository struct {
	db *sql.DB
}

// NewLoadRepository creates a new load repository
func NewLoadRepository(db *sql.DB) *LoadRepository {
	return &LoadRepository{db: db}
}

// Create records a dataset load
func (r *LoadRepository) Create(ctx context.Context, load *models.DatasetLoad) error {
	if load.LoadedAt.IsZero() {
		load.LoadedAt = time.Now()
	}

	query := `
		INSERT INTO dataset_loads (
			source, row_count, checksum, has_coordinates, duration_ms, loaded_at
		) VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		load.Source,
		load.RowCount,
		load.Checksum,
		load.HasCoordinates,
		load.DurationMs,
		load.LoadedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to create dataset load: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	load.ID = id
	return nil
}

// List returns the most recent loads first. limit <= 0 returns everything.
func (r *LoadRepository) List(ctx context.Context, limit int) ([]models.DatasetLoad, error) {
	query := `
		SELECT id, source, row_count, checksum, has_coordinates, duration_ms, loaded_at
		FROM dataset_loads
		ORDER BY loaded_at DESC, id DESC
	`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list dataset loads: %w", err)
	}
	defer rows.Close()

	loads := []models.DatasetLoad{}
	for rows.Next() {
		var load models.DatasetLoad
		var loadedAt int64
		if err := rows.Scan(
			&load.ID,
			&load.Source,
			&load.RowCount,
			&load.Checksum,
			&load.HasCoordinates,
			&load.DurationMs,
			&loadedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan dataset load: %w", err)
		}
		load.LoadedAt = time.UnixMilli(loadedAt)
		loads = append(loads, load)
	}
	return loads, rows.Err()
}
