package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron"
	"go.uber.org/zap"

	"github.com/jengzang/lastmile-backend-go/internal/config"
	"github.com/jengzang/lastmile-backend-go/internal/dataset"
	"github.com/jengzang/lastmile-backend-go/internal/export"
	"github.com/jengzang/lastmile-backend-go/internal/filter"
	"github.com/jengzang/lastmile-backend-go/internal/models"
)

// ErrNoData is returned when the filtered selection is empty
var ErrNoData = errors.New("no data available for export")

// ExportLog persists the export history
type ExportLog interface {
	Create(ctx context.Context, rec *models.ExportRecord) error
	List(ctx context.Context, limit int) ([]models.ExportRecord, error)
}

// ExportService writes filtered records to files and keeps the export history
type ExportService struct {
	store  *dataset.Store
	log    ExportLog
	cfg    config.ExportConfig
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService creates a new export service. log may be nil to skip history.
func NewExportService(store *dataset.Store, log ExportLog, cfg config.ExportConfig, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		store:  store,
		log:    log,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// Export writes the filtered records to w and records the export
func (s *ExportService) Export(ctx context.Context, w io.Writer, f models.DeliveryFilter, format, trigger string) (*models.ExportRecord, error) {
	if format == "" {
		format = s.cfg.Format
	}
	if format != models.ExportFormatCSV && format != models.ExportFormatXLSX {
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
	if err := filter.Validate(f); err != nil {
		return nil, err
	}

	ds, err := s.store.Get(ctx)
	if err != nil {
		return nil, err
	}
	records := filter.Apply(ds.Records, f)
	if len(records) == 0 {
		return nil, ErrNoData
	}

	if err := export.Write(w, format, ds.Columns, records); err != nil {
		return nil, err
	}

	filterJSON, err := json.Marshal(f.Summary())
	if err != nil {
		return nil, fmt.Errorf("failed to encode filter: %w", err)
	}

	now := s.now()
	rec := &models.ExportRecord{
		FileName:   export.FileName(now, format),
		Format:     format,
		RowCount:   len(records),
		FilterJSON: string(filterJSON),
		Trigger:    trigger,
		CreatedAt:  now,
	}
	s.record(ctx, rec)
	return rec, nil
}

// ExportToDir writes the filtered records into dir under the dated export file name
func (s *ExportService) ExportToDir(ctx context.Context, dir string, f models.DeliveryFilter, format, trigger string) (string, *models.ExportRecord, error) {
	if dir == "" {
		dir = s.cfg.Dir
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", nil, fmt.Errorf("failed to create export directory: %w", err)
	}

	var buf bytes.Buffer
	rec, err := s.Export(ctx, &buf, f, format, trigger)
	if err != nil {
		return "", nil, err
	}

	path := filepath.Join(dir, rec.FileName)
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", nil, fmt.Errorf("failed to write export file: %w", err)
	}

	s.logger.Info("Export written",
		zap.String("path", path),
		zap.Int("rows", rec.RowCount),
		zap.String("trigger", trigger),
	)
	return path, rec, nil
}

// History returns the most recent exports
func (s *ExportService) History(ctx context.Context, limit int) ([]models.ExportRecord, error) {
	if s.log == nil {
		return []models.ExportRecord{}, nil
	}
	return s.log.List(ctx, limit)
}

func (s *ExportService) record(ctx context.Context, rec *models.ExportRecord) {
	if s.log == nil {
		return
	}
	if err := s.log.Create(ctx, rec); err != nil {
		s.logger.Warn("Failed to record export", zap.String("file", rec.FileName), zap.Error(err))
	}
}

// StartSchedule exports the full dataset on the configured cron schedule.
// It returns a stop function; with no schedule configured it does nothing.
func (s *ExportService) StartSchedule(ctx context.Context) (func(), error) {
	if s.cfg.Schedule == "" {
		return func() {}, nil
	}

	c := cron.New()
	err := c.AddFunc(s.cfg.Schedule, func() {
		if _, _, err := s.ExportToDir(ctx, s.cfg.Dir, models.DeliveryFilter{}, s.cfg.Format, models.ExportTriggerSchedule); err != nil {
			s.logger.Error("Scheduled export failed", zap.Error(err))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid export schedule %q: %w", s.cfg.Schedule, err)
	}

	c.Start()
	s.logger.Info("Scheduled export enabled", zap.String("schedule", s.cfg.Schedule))
	return c.Stop, nil
}
