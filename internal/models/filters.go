package models

import "time"

// DeliveryFilter holds the six dashboard filter parameters.
// A nil value set means every value is allowed; a non-nil empty set allows nothing.
type DeliveryFilter struct {
	StartDate time.Time // inclusive, zero means unbounded
	EndDate   time.Time // inclusive by whole day, zero means unbounded
	Weather   []string
	Traffic   []string
	Vehicle   []string
	Area      []string
	Category  []string
}

// FilterOptions lists the selectable values of every filter
type FilterOptions struct {
	MinDate  string   `json:"min_date"`
	MaxDate  string   `json:"max_date"`
	Weather  []string `json:"weather"`
	Traffic  []string `json:"traffic"`
	Vehicle  []string `json:"vehicle"`
	Area     []string `json:"area"`
	Category []string `json:"category"`
}

// FilterSummary is the JSON echo of an applied filter. An unfiltered column is
// null; an empty selection is [].
type FilterSummary struct {
	StartDate string   `json:"start_date,omitempty"`
	EndDate   string   `json:"end_date,omitempty"`
	Weather   []string `json:"weather"`
	Traffic   []string `json:"traffic"`
	Vehicle   []string `json:"vehicle"`
	Area      []string `json:"area"`
	Category  []string `json:"category"`
}

// Summary returns the JSON echo of the filter
func (f DeliveryFilter) Summary() FilterSummary {
	s := FilterSummary{
		Weather:  f.Weather,
		Traffic:  f.Traffic,
		Vehicle:  f.Vehicle,
		Area:     f.Area,
		Category: f.Category,
	}
	if !f.StartDate.IsZero() {
		s.StartDate = f.StartDate.Format("2006-01-02")
	}
	if !f.EndDate.IsZero() {
		s.EndDate = f.EndDate.Format("2006-01-02")
	}
	return s
}

// PageFilter represents pagination parameters for record listings
type PageFilter struct {
	Page     int `form:"page"`
	PageSize int `form:"pageSize"`
}
