package service

import (
	"context"
	"fmt"

	"github.com/jengzang/lastmile-backend-go/internal/config"
	"github.com/jengzang/lastmile-backend-go/internal/dataset"
	"github.com/jengzang/lastmile-backend-go/internal/filter"
	"github.com/jengzang/lastmile-backend-go/internal/models"
)

const (
	defaultPageSize = 50
	maxPageSize     = 1000
)

// AnalyticsService answers dashboard queries against the current dataset snapshot
type AnalyticsService struct {
	store *dataset.Store
	cfg   config.AnalyticsConfig
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(store *dataset.Store, cfg config.AnalyticsConfig) *AnalyticsService {
	return &AnalyticsService{
		store: store,
		cfg:   cfg,
	}
}

// view validates f and returns the matching records with their snapshot
func (s *AnalyticsService) view(ctx context.Context, f models.DeliveryFilter) ([]models.Delivery, *dataset.Dataset, error) {
	if err := filter.Validate(f); err != nil {
		return nil, nil, err
	}
	ds, err := s.store.Get(ctx)
	if err != nil {
		return nil, nil, err
	}
	return filter.Apply(ds.Records, f), ds, nil
}

// FilterOptions returns the selectable filter values of the full dataset
func (s *AnalyticsService) FilterOptions(ctx context.Context) (*models.FilterOptions, error) {
	ds, err := s.store.Get(ctx)
	if err != nil {
		return nil, err
	}
	opts := filter.Options(ds.Records)
	return &opts, nil
}

// Deliveries returns one page of the filtered records
func (s *AnalyticsService) Deliveries(ctx context.Context, f models.DeliveryFilter, page models.PageFilter) (*models.DeliveryPage, error) {
	records, _, err := s.view(ctx, f)
	if err != nil {
		return nil, err
	}

	if page.Page < 1 {
		page.Page = 1
	}
	if page.PageSize < 1 {
		page.PageSize = defaultPageSize
	}
	if page.PageSize > maxPageSize {
		page.PageSize = maxPageSize
	}

	start := (page.Page - 1) * page.PageSize
	end := start + page.PageSize
	if start > len(records) {
		start = len(records)
	}
	if end > len(records) {
		end = len(records)
	}

	items := make([]models.DeliveryView, 0, end-start)
	for i := start; i < end; i++ {
		items = append(items, records[i].View())
	}

	return &models.DeliveryPage{
		Items:    items,
		Total:    len(records),
		Page:     page.Page,
		PageSize: page.PageSize,
	}, nil
}

// KPIs returns the KPI cards
func (s *AnalyticsService) KPIs(ctx context.Context, f models.DeliveryFilter) (*models.KPISummary, error) {
	records, _, err := s.view(ctx, f)
	if err != nil {
		return nil, err
	}
	kpis := ComputeKPIs(records, s.cfg.OnTimeMinutes)
	return &kpis, nil
}

// Overview returns the overview panel
func (s *AnalyticsService) Overview(ctx context.Context, f models.DeliveryFilter) (*models.OverviewPanel, error) {
	records, _, err := s.view(ctx, f)
	if err != nil {
		return nil, err
	}
	panel := ComputeOverview(records, s.cfg.DeliveryTimeBins)
	return &panel, nil
}

// Agents returns the agent performance panel
func (s *AnalyticsService) Agents(ctx context.Context, f models.DeliveryFilter) (*models.AgentPanel, error) {
	records, _, err := s.view(ctx, f)
	if err != nil {
		return nil, err
	}
	panel := ComputeAgents(records, s.cfg.RatingBins)
	return &panel, nil
}

// WeatherTraffic returns the weather and traffic panel
func (s *AnalyticsService) WeatherTraffic(ctx context.Context, f models.DeliveryFilter) (*models.WeatherTrafficPanel, error) {
	records, _, err := s.view(ctx, f)
	if err != nil {
		return nil, err
	}
	panel := ComputeWeatherTraffic(records)
	return &panel, nil
}

// Geographic returns the geographic panel
func (s *AnalyticsService) Geographic(ctx context.Context, f models.DeliveryFilter) (*models.GeographicPanel, error) {
	records, ds, err := s.view(ctx, f)
	if err != nil {
		return nil, err
	}
	panel := ComputeGeographic(records, ds.HasCoordinates, s.cfg.GeohashPrecision)
	return &panel, nil
}

// Recommendations returns the recommendation callouts
func (s *AnalyticsService) Recommendations(ctx context.Context, f models.DeliveryFilter) ([]models.Recommendation, error) {
	records, _, err := s.view(ctx, f)
	if err != nil {
		return nil, err
	}
	return ComputeRecommendations(records), nil
}

// Dashboard computes every panel over one filtered view
func (s *AnalyticsService) Dashboard(ctx context.Context, f models.DeliveryFilter) (*models.Dashboard, error) {
	records, ds, err := s.view(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("failed to build dashboard: %w", err)
	}

	return &models.Dashboard{
		Filter:          f.Summary(),
		RowCount:        len(records),
		KPIs:            ComputeKPIs(records, s.cfg.OnTimeMinutes),
		Overview:        ComputeOverview(records, s.cfg.DeliveryTimeBins),
		Agents:          ComputeAgents(records, s.cfg.RatingBins),
		WeatherTraffic:  ComputeWeatherTraffic(records),
		Geographic:      ComputeGeographic(records, ds.HasCoordinates, s.cfg.GeohashPrecision),
		Recommendations: ComputeRecommendations(records),
	}, nil
}
