package dataset

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jengzang/lastmile-backend-go/internal/models"
	"github.com/jengzang/lastmile-backend-go/internal/spatial"
	"github.com/jengzang/lastmile-backend-go/internal/stats"
)

// tokens read as a missing value
var missingTokens = map[string]bool{
	"":      true,
	"NA":    true,
	"N/A":   true,
	"NaN":   true,
	"nan":   true,
	"null":  true,
	"<nil>": true,
}

func isMissing(s string) bool {
	return missingTokens[strings.TrimSpace(s)]
}

// parseOptionalFloat returns NaN for missing or non-numeric values
func parseOptionalFloat(s string) float64 {
	s = strings.TrimSpace(s)
	if isMissing(s) {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// clean turns raw records (header first) into a Dataset
func clean(ctx context.Context, records [][]string, opts Options) (*Dataset, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("file has no header row")
	}

	header := make([]string, len(records[0]))
	index := make(map[string]int, len(header))
	for i, name := range records[0] {
		header[i] = strings.TrimSpace(name)
		if _, dup := index[header[i]]; !dup {
			index[header[i]] = i
		}
	}

	for _, col := range models.RequiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("missing required column %s", col)
		}
	}

	hasCoordinates := true
	for _, col := range models.CoordinateColumns {
		if _, ok := index[col]; !ok {
			hasCoordinates = false
			break
		}
	}

	known := make(map[string]bool)
	for _, col := range models.RequiredColumns {
		known[col] = true
	}
	for _, col := range models.CoordinateColumns {
		known[col] = true
	}
	for _, col := range models.DerivedColumns {
		known[col] = true
	}

	get := func(row []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}
	category := func(row []string, col string) string {
		v := strings.TrimSpace(get(row, col))
		if isMissing(v) {
			return ""
		}
		return v
	}

	rows := records[1:]
	deliveries := make([]models.Delivery, len(rows))
	var validRatings []float64

	for i, row := range rows {
		if i%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		line := i + 1

		orderDate, err := ParseDate(get(row, models.ColOrderDate))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid %s: %w", line, models.ColOrderDate, err)
		}

		// a blank time is kept as NaN; text that is not a number fails the load
		rawTime := strings.TrimSpace(get(row, models.ColDeliveryTime))
		deliveryTime := math.NaN()
		if !isMissing(rawTime) {
			if deliveryTime, err = strconv.ParseFloat(rawTime, 64); err != nil || math.IsNaN(deliveryTime) {
				return nil, fmt.Errorf("row %d: invalid %s %q", line, models.ColDeliveryTime, rawTime)
			}
		}

		rating := parseOptionalFloat(get(row, models.ColAgentRating))
		if !math.IsNaN(rating) {
			validRatings = append(validRatings, rating)
		}

		d := models.Delivery{
			OrderID:      strings.TrimSpace(get(row, models.ColOrderID)),
			OrderDate:    orderDate,
			DeliveryTime: deliveryTime,
			AgentAge:     parseOptionalFloat(get(row, models.ColAgentAge)),
			AgentRating:  rating,
			Weather:      category(row, models.ColWeather),
			Traffic:      category(row, models.ColTraffic),
			Vehicle:      category(row, models.ColVehicle),
			Area:         category(row, models.ColArea),
			Category:     category(row, models.ColCategory),
			StoreLat:     math.NaN(),
			StoreLon:     math.NaN(),
			DropLat:      math.NaN(),
			DropLon:      math.NaN(),
			DeliveryType: DeliveryType(deliveryTime, opts.FastMaxMinutes, opts.MediumMaxMinutes),
			PickupDelay:  opts.PickupDelayMinutes,
		}

		if hasCoordinates {
			d.StoreLat = parseOptionalFloat(get(row, models.ColStoreLatitude))
			d.StoreLon = parseOptionalFloat(get(row, models.ColStoreLongitude))
			d.DropLat = parseOptionalFloat(get(row, models.ColDropLatitude))
			d.DropLon = parseOptionalFloat(get(row, models.ColDropLongitude))
			d.DistanceKm = spatial.HaversineKm(d.StoreLat, d.StoreLon, d.DropLat, d.DropLon)
		} else {
			d.DistanceKm = opts.DefaultDistanceKm
		}

		for j, name := range header {
			if known[name] || name == "" || j >= len(row) {
				continue
			}
			if d.Extra == nil {
				d.Extra = make(map[string]string)
			}
			if isMissing(row[j]) {
				d.Extra[name] = ""
			} else {
				d.Extra[name] = row[j]
			}
		}

		deliveries[i] = d
	}

	if len(deliveries) > 0 {
		if len(validRatings) == 0 {
			return nil, fmt.Errorf("column %s has no numeric value", models.ColAgentRating)
		}
		median := stats.Median(validRatings)
		for i := range deliveries {
			if math.IsNaN(deliveries[i].AgentRating) {
				deliveries[i].AgentRating = median
			}
		}
	}

	columns := make([]string, 0, len(header)+len(models.DerivedColumns))
	seen := make(map[string]bool, len(header))
	for _, name := range header {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		columns = append(columns, name)
	}
	for _, name := range models.DerivedColumns {
		if !seen[name] {
			columns = append(columns, name)
		}
	}

	return &Dataset{
		Records:        deliveries,
		Columns:        columns,
		HasCoordinates: hasCoordinates,
	}, nil
}
