package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jengzang/lastmile-backend-go/internal/config"
	"github.com/jengzang/lastmile-backend-go/internal/dataset"
	"github.com/jengzang/lastmile-backend-go/internal/filter"
	"github.com/jengzang/lastmile-backend-go/internal/models"
)

const fixtureCSV = `Order_ID,Agent_Age,Agent_Rating,Order_Date,Weather,Traffic,Vehicle,Area,Delivery_Time,Category
a,25,4.8,2022-03-01,Sunny,Low,motorcycle,Urban,40,Toys
b,25,4.6,2022-03-02,Sunny,High,scooter,Urban,60,Grocery
c,35,4.0,2022-03-03,Stormy,Jam,van,Metropolitian,150,Toys
d,35,4.2,2022-03-04,Fog,Low,van,Semi-Urban,90,Electronics
`

type memoryExportLog struct {
	mu      sync.Mutex
	records []models.ExportRecord
}

func (m *memoryExportLog) Create(_ context.Context, rec *models.ExportRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec.ID = "id-" + rec.FileName
	m.records = append(m.records, *rec)
	return nil
}

func (m *memoryExportLog) List(_ context.Context, limit int) ([]models.ExportRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := append([]models.ExportRecord(nil), m.records...)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type memoryLoadLog struct {
	mu    sync.Mutex
	loads []models.DatasetLoad
}

func (m *memoryLoadLog) Create(_ context.Context, load *models.DatasetLoad) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	load.ID = int64(len(m.loads) + 1)
	m.loads = append(m.loads, *load)
	return nil
}

func (m *memoryLoadLog) List(_ context.Context, _ int) ([]models.DatasetLoad, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.DatasetLoad(nil), m.loads...), nil
}

func newStore(t *testing.T) (*dataset.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "deliveries.csv")
	require.NoError(t, os.WriteFile(path, []byte(fixtureCSV), 0644))
	return dataset.NewStore(path, dataset.DefaultOptions(), nil), path
}

func TestAnalyticsServiceDashboard(t *testing.T) {
	store, _ := newStore(t)
	svc := NewAnalyticsService(store, config.Default().Analytics)
	ctx := context.Background()

	dash, err := svc.Dashboard(ctx, models.DeliveryFilter{Weather: []string{"Sunny"}})
	require.NoError(t, err)

	assert.Equal(t, 2, dash.RowCount)
	assert.Equal(t, []string{"Sunny"}, dash.Filter.Weather)
	assert.Equal(t, 2, dash.KPIs.TotalOrders)
	assert.InDelta(t, 100, *dash.KPIs.OnTimeRate, 1e-9)
	assert.False(t, dash.Geographic.MapAvailable)
	assert.Equal(t, "Sunny", dash.Recommendations[0].Subject)
}

func TestAnalyticsServiceEmptySelection(t *testing.T) {
	store, _ := newStore(t)
	svc := NewAnalyticsService(store, config.Default().Analytics)

	dash, err := svc.Dashboard(context.Background(), models.DeliveryFilter{Vehicle: []string{}})
	require.NoError(t, err)
	assert.Equal(t, 0, dash.RowCount)
	assert.Equal(t, models.NoDataMessage, dash.KPIs.Message)
	assert.Equal(t, models.NoDataMessage, dash.Overview.Message)
	assert.Equal(t, NoRecommendationMessage, dash.Recommendations[0].Message)
}

func TestAnalyticsServiceInvalidRange(t *testing.T) {
	store, _ := newStore(t)
	svc := NewAnalyticsService(store, config.Default().Analytics)

	f := models.DeliveryFilter{
		StartDate: time.Date(2022, 3, 5, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	_, err := svc.KPIs(context.Background(), f)
	assert.ErrorIs(t, err, filter.ErrInvalidDateRange)
}

func TestAnalyticsServiceMissingData(t *testing.T) {
	store := dataset.NewStore(filepath.Join(t.TempDir(), "none.csv"), dataset.DefaultOptions(), nil)
	svc := NewAnalyticsService(store, config.Default().Analytics)

	_, err := svc.Overview(context.Background(), models.DeliveryFilter{})
	assert.True(t, errors.Is(err, dataset.ErrDataNotFound))
}

func TestAnalyticsServiceDeliveriesPaging(t *testing.T) {
	store, _ := newStore(t)
	svc := NewAnalyticsService(store, config.Default().Analytics)
	ctx := context.Background()

	page, err := svc.Deliveries(ctx, models.DeliveryFilter{}, models.PageFilter{Page: 2, PageSize: 3})
	require.NoError(t, err)
	assert.Equal(t, 4, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "d", page.Items[0].OrderID)

	page, err = svc.Deliveries(ctx, models.DeliveryFilter{}, models.PageFilter{Page: 9, PageSize: 3})
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	page, err = svc.Deliveries(ctx, models.DeliveryFilter{}, models.PageFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, defaultPageSize, page.PageSize)
	assert.Len(t, page.Items, 4)
}

func TestAnalyticsServiceFilterOptions(t *testing.T) {
	store, _ := newStore(t)
	svc := NewAnalyticsService(store, config.Default().Analytics)

	opts, err := svc.FilterOptions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2022-03-01", opts.MinDate)
	assert.Equal(t, "2022-03-04", opts.MaxDate)
	assert.Equal(t, []string{"motorcycle", "scooter", "van"}, opts.Vehicle)
}

func TestExportServiceExport(t *testing.T) {
	store, _ := newStore(t)
	log := &memoryExportLog{}
	svc := NewExportService(store, log, config.Default().Export, nil)
	svc.now = func() time.Time { return time.Date(2024, 7, 5, 12, 0, 0, 0, time.UTC) }

	var buf bytes.Buffer
	rec, err := svc.Export(context.Background(), &buf, models.DeliveryFilter{Category: []string{"Toys"}}, "", models.ExportTriggerAPI)
	require.NoError(t, err)

	assert.Equal(t, "filtered_delivery_data_20240705.csv", rec.FileName)
	assert.Equal(t, models.ExportFormatCSV, rec.Format)
	assert.Equal(t, 2, rec.RowCount)
	assert.JSONEq(t, `{"weather":null,"traffic":null,"vehicle":null,"area":null,"category":["Toys"]}`, rec.FilterJSON)
	assert.Contains(t, buf.String(), "Order_ID")
	assert.Contains(t, buf.String(), "Metropolitian")

	history, err := svc.History(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, models.ExportTriggerAPI, history[0].Trigger)
}

func TestExportServiceEmptySelectionJSON(t *testing.T) {
	store, _ := newStore(t)
	svc := NewExportService(store, &memoryExportLog{}, config.Default().Export, nil)

	// an empty selection matches nothing and must not read back as unfiltered
	var buf bytes.Buffer
	_, err := svc.Export(context.Background(), &buf, models.DeliveryFilter{Vehicle: []string{}}, "", models.ExportTriggerAPI)
	assert.ErrorIs(t, err, ErrNoData)

	data, err := json.Marshal(models.DeliveryFilter{Vehicle: []string{}}.Summary())
	require.NoError(t, err)
	assert.JSONEq(t, `{"weather":null,"traffic":null,"vehicle":[],"area":null,"category":null}`, string(data))
}

func TestExportServiceNoData(t *testing.T) {
	store, _ := newStore(t)
	log := &memoryExportLog{}
	svc := NewExportService(store, log, config.Default().Export, nil)

	var buf bytes.Buffer
	_, err := svc.Export(context.Background(), &buf, models.DeliveryFilter{Area: []string{"Nowhere"}}, models.ExportFormatCSV, models.ExportTriggerCLI)
	assert.ErrorIs(t, err, ErrNoData)
	assert.Empty(t, log.records)

	_, err = svc.Export(context.Background(), &buf, models.DeliveryFilter{}, "parquet", models.ExportTriggerCLI)
	assert.Error(t, err)
}

func TestExportServiceToDir(t *testing.T) {
	store, _ := newStore(t)
	cfg := config.Default().Export
	cfg.Dir = filepath.Join(t.TempDir(), "exports")
	svc := NewExportService(store, nil, cfg, nil)

	path, rec, err := svc.ExportToDir(context.Background(), "", models.DeliveryFilter{}, models.ExportFormatXLSX, models.ExportTriggerCLI)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cfg.Dir, rec.FileName), path)
	assert.Equal(t, 4, rec.RowCount)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	history, err := svc.History(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestExportServiceSchedule(t *testing.T) {
	store, _ := newStore(t)

	cfg := config.Default().Export
	cfg.Schedule = ""
	svc := NewExportService(store, nil, cfg, nil)
	stop, err := svc.StartSchedule(context.Background())
	require.NoError(t, err)
	stop()

	cfg.Schedule = "not a schedule"
	svc = NewExportService(store, nil, cfg, nil)
	_, err = svc.StartSchedule(context.Background())
	assert.Error(t, err)
}

func TestExportServiceScheduleWritesFile(t *testing.T) {
	store, _ := newStore(t)
	core, logs := observer.New(zap.InfoLevel)

	cfg := config.Default().Export
	cfg.Dir = t.TempDir()
	cfg.Format = models.ExportFormatCSV
	cfg.Schedule = "@every 100ms"
	exportLog := &memoryExportLog{}
	svc := NewExportService(store, exportLog, cfg, zap.New(core))
	svc.now = func() time.Time { return time.Date(2024, 7, 5, 12, 0, 0, 0, time.UTC) }

	stop, err := svc.StartSchedule(context.Background())
	require.NoError(t, err)

	// the file is complete once the write is logged
	require.Eventually(t, func() bool {
		return logs.FilterMessage("Export written").Len() > 0
	}, 5*time.Second, 20*time.Millisecond)
	stop()

	path := filepath.Join(cfg.Dir, "filtered_delivery_data_20240705.csv")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Order_ID")

	history, err := svc.History(context.Background(), 0)
	require.NoError(t, err)
	require.NotEmpty(t, history)
	assert.Equal(t, models.ExportTriggerSchedule, history[0].Trigger)
	assert.Equal(t, 4, history[0].RowCount)
}

func TestDatasetServiceRecordsLoads(t *testing.T) {
	store, path := newStore(t)
	log := &memoryLoadLog{}
	svc := NewDatasetService(store, log, nil)
	ctx := context.Background()

	status, err := svc.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, status.RowCount)
	assert.Equal(t, path, status.Source)
	assert.Len(t, status.Checksum, 64)

	_, err = svc.Reload(ctx)
	require.NoError(t, err)

	loads, err := svc.Loads(ctx, 10)
	require.NoError(t, err)
	require.Len(t, loads, 2)
	assert.Equal(t, 4, loads[0].RowCount)
	assert.Equal(t, status.Checksum, loads[1].Checksum)
}

func TestDatasetServiceReloadFailureKeepsSnapshot(t *testing.T) {
	store, path := newStore(t)
	svc := NewDatasetService(store, nil, nil)
	ctx := context.Background()

	_, err := svc.Status(ctx)
	require.NoError(t, err)

	require.NoError(t, os.Remove(path))
	_, err = svc.Reload(ctx)
	assert.ErrorIs(t, err, dataset.ErrDataNotFound)

	status, err := svc.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, status.RowCount)

	loads, err := svc.Loads(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, loads)
}
