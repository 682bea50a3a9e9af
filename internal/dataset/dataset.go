package dataset

import (
	"errors"
	"math"
	"time"

	"github.com/jengzang/lastmile-backend-go/internal/config"
	"github.com/jengzang/lastmile-backend-go/internal/models"
)

// ErrDataNotFound is returned when the source file does not exist
var ErrDataNotFound = errors.New("data file not found")

// LoadError is returned by the Store when the source file cannot be loaded
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string { return e.Err.Error() }

func (e *LoadError) Unwrap() error { return e.Err }

// Dataset is one immutable, cleaned snapshot of the source file
type Dataset struct {
	Records        []models.Delivery
	Columns        []string // source column order followed by derived columns
	HasCoordinates bool
	Source         string
	Checksum       string // sha256 of the file bytes
	LoadedAt       time.Time
}

// Len returns the number of records
func (d *Dataset) Len() int {
	return len(d.Records)
}

// Status describes the snapshot for the API
func (d *Dataset) Status() models.DatasetStatus {
	return models.DatasetStatus{
		Source:         d.Source,
		RowCount:       len(d.Records),
		Columns:        d.Columns,
		HasCoordinates: d.HasCoordinates,
		Checksum:       d.Checksum,
		LoadedAt:       d.LoadedAt,
	}
}

// Options controls how a file is read and cleaned
type Options struct {
	Sheet              string
	Delimiter          rune
	FastMaxMinutes     float64
	MediumMaxMinutes   float64
	PickupDelayMinutes float64
	DefaultDistanceKm  float64
}

// DefaultOptions returns the options matching config.Default
func DefaultOptions() Options {
	return NewOptions(config.Default())
}

// NewOptions builds load options from the application configuration
func NewOptions(cfg *config.Config) Options {
	return Options{
		Sheet:              cfg.Data.Sheet,
		Delimiter:          cfg.DelimiterRune(),
		FastMaxMinutes:     cfg.Analytics.FastMaxMinutes,
		MediumMaxMinutes:   cfg.Analytics.MediumMaxMinutes,
		PickupDelayMinutes: cfg.Analytics.PickupDelayMinutes,
		DefaultDistanceKm:  cfg.Analytics.DefaultDistanceKm,
	}
}

// DeliveryType buckets a delivery time into Fast, Medium or Slow using right-closed bins
// starting at 0. Missing times and times at or below 0 get no bucket.
func DeliveryType(minutes, fastMax, mediumMax float64) string {
	switch {
	case math.IsNaN(minutes) || minutes <= 0:
		return ""
	case minutes <= fastMax:
		return models.DeliveryTypeFast
	case minutes <= mediumMax:
		return models.DeliveryTypeMedium
	default:
		return models.DeliveryTypeSlow
	}
}
