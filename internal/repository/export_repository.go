package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jengzang/lastmile-backend-go/internal/models"
)

// ExportRepository handles database operations for the export history
type ExportRepository struct {
	db *sql.DB
}

// NewExportRepository creates a new export repository
func NewExportRepository(db *sql.DB) *ExportRepository {
	return &ExportRepository{db: db}
}

// Create records an export. ID and CreatedAt are filled in when empty.
func (r *ExportRepository) Create(ctx context.Context, rec *models.ExportRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO export_log (
			id, file_name, format, row_count, filter_json, trigger_source, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		rec.ID,
		rec.FileName,
		rec.Format,
		rec.RowCount,
		rec.FilterJSON,
		rec.Trigger,
		rec.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to create export record: %w", err)
	}
	return nil
}

// List returns the most recent exports first. limit <= 0 returns everything.
func (r *ExportRepository) List(ctx context.Context, limit int) ([]models.ExportRecord, error) {
	query := `
		SELECT id, file_name, format, row_count, filter_json, trigger_source, created_at
		FROM export_log
		ORDER BY created_at DESC, rowid DESC
	`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list export records: %w", err)
	}
	defer rows.Close()

	records := []models.ExportRecord{}
	for rows.Next() {
		rec, err := scanExport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan export record: %w", err)
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanExport(row rowScanner) (*models.ExportRecord, error) {
	var rec models.ExportRecord
	var createdAt int64
	err := row.Scan(
		&rec.ID,
		&rec.FileName,
		&rec.Format,
		&rec.RowCount,
		&rec.FilterJSON,
		&rec.Trigger,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}
	rec.CreatedAt = time.UnixMilli(createdAt)
	return &rec, nil
}
