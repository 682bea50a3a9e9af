// Package filter narrows the delivery dataset to the dashboard's current selection.
package filter

import (
	"errors"
	"time"

	"github.com/jengzang/lastmile-backend-go/internal/models"
)

// ErrInvalidDateRange is returned when the start date is after the end date
var ErrInvalidDateRange = errors.New("start date must not be after end date")

// Validate checks the filter before it is applied
func Validate(f models.DeliveryFilter) error {
	if !f.StartDate.IsZero() && !f.EndDate.IsZero() && dayOf(f.StartDate).After(dayOf(f.EndDate)) {
		return ErrInvalidDateRange
	}
	return nil
}

// Apply returns the records matching every predicate of f, in their original order.
// The input slice is never modified.
func Apply(records []models.Delivery, f models.DeliveryFilter) []models.Delivery {
	m := newMatcher(f)
	out := make([]models.Delivery, 0, len(records))
	for i := range records {
		if m.match(&records[i]) {
			out = append(out, records[i])
		}
	}
	return out
}

type matcher struct {
	start    time.Time
	endExcl  time.Time // first instant after the end day
	weather  valueSet
	traffic  valueSet
	vehicle  valueSet
	area     valueSet
	category valueSet
}

// valueSet is nil when every value is allowed
type valueSet map[string]struct{}

func newValueSet(values []string) valueSet {
	if values == nil {
		return nil
	}
	set := make(valueSet, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func (s valueSet) allows(v string) bool {
	if s == nil {
		return true
	}
	_, ok := s[v]
	return ok
}

func newMatcher(f models.DeliveryFilter) *matcher {
	m := &matcher{
		weather:  newValueSet(f.Weather),
		traffic:  newValueSet(f.Traffic),
		vehicle:  newValueSet(f.Vehicle),
		area:     newValueSet(f.Area),
		category: newValueSet(f.Category),
	}
	if !f.StartDate.IsZero() {
		m.start = dayOf(f.StartDate)
	}
	if !f.EndDate.IsZero() {
		m.endExcl = dayOf(f.EndDate).AddDate(0, 0, 1)
	}
	return m
}

func (m *matcher) match(d *models.Delivery) bool {
	if !m.start.IsZero() && d.OrderDate.Before(m.start) {
		return false
	}
	if !m.endExcl.IsZero() && !d.OrderDate.Before(m.endExcl) {
		return false
	}
	return m.weather.allows(d.Weather) &&
		m.traffic.allows(d.Traffic) &&
		m.vehicle.allows(d.Vehicle) &&
		m.area.allows(d.Area) &&
		m.category.allows(d.Category)
}

// dayOf truncates t to midnight in its own location
func dayOf(t time.Time) time.Time {
	y, mo, d := t.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, t.Location())
}

// Options lists the distinct values of every filterable column in first-occurrence
// order, plus the order date range. Blank values are not listed: a record with a
// blank column only matches while that column is unfiltered.
func Options(records []models.Delivery) models.FilterOptions {
	opts := models.FilterOptions{
		Weather:  distinct(records, models.ColWeather),
		Traffic:  distinct(records, models.ColTraffic),
		Vehicle:  distinct(records, models.ColVehicle),
		Area:     distinct(records, models.ColArea),
		Category: distinct(records, models.ColCategory),
	}
	if len(records) == 0 {
		return opts
	}

	min, max := records[0].OrderDate, records[0].OrderDate
	for i := range records[1:] {
		d := records[i+1].OrderDate
		if d.Before(min) {
			min = d
		}
		if d.After(max) {
			max = d
		}
	}
	opts.MinDate = min.Format("2006-01-02")
	opts.MaxDate = max.Format("2006-01-02")
	return opts
}

func distinct(records []models.Delivery, column string) []string {
	seen := make(map[string]bool)
	values := []string{}
	for i := range records {
		v := records[i].Column(column)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		values = append(values, v)
	}
	return values
}
