package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/jengzang/lastmile-backend-go/internal/dataset"
	"github.com/jengzang/lastmile-backend-go/internal/models"
)

// LoadLog persists the dataset load history
type LoadLog interface {
	Create(ctx context.Context, load *models.DatasetLoad) error
	List(ctx context.Context, limit int) ([]models.DatasetLoad, error)
}

// DatasetService exposes the dataset snapshot status and reloads
type DatasetService struct {
	store  *dataset.Store
	log    LoadLog
	logger *zap.Logger
}

// NewDatasetService creates a new dataset service and records every load in log (if set)
func NewDatasetService(store *dataset.Store, log LoadLog, logger *zap.Logger) *DatasetService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &DatasetService{
		store:  store,
		log:    log,
		logger: logger,
	}
	if log != nil {
		store.OnLoad(s.recordLoad)
	}
	return s
}

func (s *DatasetService) recordLoad(ctx context.Context, ds *dataset.Dataset, took time.Duration) {
	load := &models.DatasetLoad{
		Source:         ds.Source,
		RowCount:       ds.Len(),
		Checksum:       ds.Checksum,
		HasCoordinates: ds.HasCoordinates,
		DurationMs:     took.Milliseconds(),
		LoadedAt:       ds.LoadedAt,
	}
	if err := s.log.Create(ctx, load); err != nil {
		s.logger.Warn("Failed to record dataset load", zap.Error(err))
	}
}

// Status returns the current snapshot, loading it if needed
func (s *DatasetService) Status(ctx context.Context) (*models.DatasetStatus, error) {
	ds, err := s.store.Get(ctx)
	if err != nil {
		return nil, err
	}
	status := ds.Status()
	return &status, nil
}

// Reload reads the source file again
func (s *DatasetService) Reload(ctx context.Context) (*models.DatasetStatus, error) {
	ds, err := s.store.Reload(ctx)
	if err != nil {
		return nil, err
	}
	status := ds.Status()
	return &status, nil
}

// Loads returns the most recent loads
func (s *DatasetService) Loads(ctx context.Context, limit int) ([]models.DatasetLoad, error) {
	if s.log == nil {
		return []models.DatasetLoad{}, nil
	}
	return s.log.List(ctx, limit)
}
