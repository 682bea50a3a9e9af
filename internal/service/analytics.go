package service

import (
	"math"
	"sort"

	"github.com/jengzang/lastmile-backend-go/internal/models"
	"github.com/jengzang/lastmile-backend-go/internal/spatial"
	"github.com/jengzang/lastmile-backend-go/internal/stats"
)

// MapUnavailableMessage is shown when the dataset has no coordinate columns
const MapUnavailableMessage = "Map data not available - missing latitude/longitude columns"

type field func(d *models.Delivery) float64

func deliveryTime(d *models.Delivery) float64 { return d.DeliveryTime }
func agentRating(d *models.Delivery) float64 { return d.AgentRating }
func agentAge(d *models.Delivery) float64 { return d.AgentAge }
func distanceKm(d *models.Delivery) float64 { return d.DistanceKm }

func column(records []models.Delivery, f field) []float64 {
	values := make([]float64, len(records))
	for i := range records {
		values[i] = f(&records[i])
	}
	return values
}

func meanOver(records []models.Delivery, rows []int, f field) float64 {
	values := make([]float64, len(rows))
	for i, r := range rows {
		values[i] = f(&records[r])
	}
	return stats.Mean(values)
}

// groupByColumn groups rows by a categorical column in ascending key order.
// Rows with an empty value are left out.
func groupByColumn(records []models.Delivery, name string) []stats.Group[string] {
	groups := stats.GroupBy(len(records), func(i int) string {
		return records[i].Column(name)
	})
	out := groups[:0]
	for _, g := range groups {
		if g.Key != "" {
			out = append(out, g)
		}
	}
	return out
}

// ComputeKPIs returns the four KPI cards. onTimeMinutes is the inclusive on-time limit.
func ComputeKPIs(records []models.Delivery, onTimeMinutes float64) models.KPISummary {
	if len(records) == 0 {
		return models.KPISummary{Message: models.NoDataMessage}
	}

	onTime := 0
	for i := range records {
		if records[i].DeliveryTime <= onTimeMinutes {
			onTime++
		}
	}

	return models.KPISummary{
		TotalOrders:     len(records),
		AvgDeliveryTime: models.OptionalFloat(stats.Mean(column(records, deliveryTime))),
		OnTimeRate:      models.OptionalFloat(float64(onTime) / float64(len(records)) * 100),
		AvgAgentRating:  models.OptionalFloat(stats.Mean(column(records, agentRating))),
	}
}

// groupStats returns mean delivery time, order count and mean rating per key, rounded to 2 decimals.
// Keys without any delivery time are left out.
func groupStats(records []models.Delivery, name string) []models.GroupStat {
	groups := groupByColumn(records, name)
	out := make([]models.GroupStat, 0, len(groups))
	for _, g := range groups {
		avgTime := meanOver(records, g.Rows, deliveryTime)
		if math.IsNaN(avgTime) {
			continue
		}
		out = append(out, models.GroupStat{
			Key:             g.Key,
			AvgDeliveryTime: stats.Round2(avgTime),
			OrderCount:      len(g.Rows),
			AvgRating:       stats.Round2(meanOver(records, g.Rows, agentRating)),
		})
	}
	return out
}

// ComputeOverview returns the delivery time distribution and the category table
func ComputeOverview(records []models.Delivery, bins int) models.OverviewPanel {
	if len(records) == 0 {
		return models.OverviewPanel{
			DeliveryTimeHistogram: []models.Bucket{},
			DeliveryTypeCounts:    []models.CategoryCount{},
			CategoryStats:         []models.GroupStat{},
			Message:               models.NoDataMessage,
		}
	}

	times := column(records, deliveryTime)

	counts := make(map[string]int)
	for i := range records {
		if t := records[i].DeliveryType; t != "" {
			counts[t]++
		}
	}
	typeCounts := []models.CategoryCount{}
	for _, t := range models.DeliveryTypes {
		if counts[t] > 0 {
			typeCounts = append(typeCounts, models.CategoryCount{Label: t, Count: counts[t]})
		}
	}
	sort.SliceStable(typeCounts, func(i, j int) bool {
		return typeCounts[i].Count > typeCounts[j].Count
	})

	categoryStats := groupStats(records, models.ColCategory)
	sort.SliceStable(categoryStats, func(i, j int) bool {
		return categoryStats[i].AvgDeliveryTime > categoryStats[j].AvgDeliveryTime
	})

	return models.OverviewPanel{
		DeliveryTimeSummary:   stats.Describe(times),
		DeliveryTimeHistogram: stats.Histogram(times, bins),
		DeliveryTypeCounts:    typeCounts,
		CategoryStats:         categoryStats,
	}
}

// ComputeAgents returns the agent performance panel
func ComputeAgents(records []models.Delivery, ratingBins int) models.AgentPanel {
	if len(records) == 0 {
		return models.AgentPanel{
			AgeVsDeliveryTime: []models.ScatterPoint{},
			RatingHistogram:   []models.Bucket{},
			Efficiency:        []models.AgentEfficiency{},
			Message:           models.NoDataMessage,
		}
	}

	points := []models.ScatterPoint{}
	for i := range records {
		d := &records[i]
		if math.IsNaN(d.AgentAge) || math.IsNaN(d.DeliveryTime) {
			continue
		}
		points = append(points, models.ScatterPoint{
			X:     d.AgentAge,
			Y:     d.DeliveryTime,
			Value: models.OptionalFloat(d.AgentRating),
			Size:  models.OptionalFloat(d.DistanceKm),
			Hover: map[string]string{
				models.ColVehicle: d.Vehicle,
				models.ColArea:    d.Area,
			},
			OrderID: d.OrderID,
		})
	}

	groups := stats.GroupBy(len(records), func(i int) float64 {
		return records[i].AgentAge
	})
	efficiency := make([]models.AgentEfficiency, 0, len(groups))
	for _, g := range groups {
		avgTime := meanOver(records, g.Rows, deliveryTime)
		if math.IsNaN(avgTime) {
			continue
		}
		avgDistance := meanOver(records, g.Rows, distanceKm)
		efficiency = append(efficiency, models.AgentEfficiency{
			AgentAge:        g.Key,
			AvgDeliveryTime: avgTime,
			AvgRating:       meanOver(records, g.Rows, agentRating),
			TotalOrders:     len(g.Rows),
			AvgDistanceKm:   models.OptionalFloat(avgDistance),
			EfficiencyScore: models.OptionalFloat(avgTime / avgDistance),
		})
	}
	// ascending score, undefined scores last
	sort.SliceStable(efficiency, func(i, j int) bool {
		a, b := efficiency[i].EfficiencyScore, efficiency[j].EfficiencyScore
		if a == nil || b == nil {
			return a != nil && b == nil
		}
		return *a < *b
	})

	return models.AgentPanel{
		AgeVsDeliveryTime:  points,
		RatingHistogram:    stats.Histogram(column(records, agentRating), ratingBins),
		Efficiency:         efficiency,
		AgeTimeCorrelation: models.OptionalFloat(stats.PearsonCorrelation(column(records, agentAge), column(records, deliveryTime))),
	}
}

func impact(records []models.Delivery, name string) []models.ImpactPoint {
	groups := groupByColumn(records, name)
	out := make([]models.ImpactPoint, 0, len(groups))
	for _, g := range groups {
		avgTime := meanOver(records, g.Rows, deliveryTime)
		if math.IsNaN(avgTime) {
			continue
		}
		out = append(out, models.ImpactPoint{Key: g.Key, AvgDeliveryTime: avgTime})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AvgDeliveryTime > out[j].AvgDeliveryTime
	})
	return out
}

// ComputeHeatmap pivots mean delivery time by weather (rows) and traffic (columns).
// Combinations without a delivery time are 0.
func ComputeHeatmap(records []models.Delivery) models.Heatmap {
	weather := groupByColumn(records, models.ColWeather)
	traffic := groupByColumn(records, models.ColTraffic)

	hm := models.Heatmap{
		Rows:    make([]string, len(weather)),
		Columns: make([]string, len(traffic)),
		Values:  make([][]float64, len(weather)),
	}
	colIndex := make(map[string]int, len(traffic))
	for j, g := range traffic {
		hm.Columns[j] = g.Key
		colIndex[g.Key] = j
	}

	for i, g := range weather {
		hm.Rows[i] = g.Key
		sums := make([]float64, len(traffic))
		counts := make([]int, len(traffic))
		for _, r := range g.Rows {
			j, ok := colIndex[records[r].Traffic]
			if !ok || math.IsNaN(records[r].DeliveryTime) {
				continue
			}
			sums[j] += records[r].DeliveryTime
			counts[j]++
		}
		hm.Values[i] = make([]float64, len(traffic))
		for j := range sums {
			if counts[j] > 0 {
				hm.Values[i][j] = sums[j] / float64(counts[j])
			}
		}
	}
	return hm
}

// ComputeWeatherTraffic returns the weather and traffic impact panel
func ComputeWeatherTraffic(records []models.Delivery) models.WeatherTrafficPanel {
	if len(records) == 0 {
		return models.WeatherTrafficPanel{
			WeatherImpact: []models.ImpactPoint{},
			TrafficImpact: []models.ImpactPoint{},
			Heatmap:       models.Heatmap{Rows: []string{}, Columns: []string{}, Values: [][]float64{}},
			Message:       models.NoDataMessage,
		}
	}

	return models.WeatherTrafficPanel{
		WeatherImpact: impact(records, models.ColWeather),
		TrafficImpact: impact(records, models.ColTraffic),
		Heatmap:       ComputeHeatmap(records),
	}
}

// ComputeGeographic returns the geographic panel. hasCoordinates tells whether the
// source carried coordinate columns at all.
func ComputeGeographic(records []models.Delivery, hasCoordinates bool, precision int) models.GeographicPanel {
	panel := models.GeographicPanel{
		MapAvailable:    hasCoordinates,
		StoreLocations:  []models.MapPoint{},
		Clusters:        []models.GeoCluster{},
		DistanceVsTime:  []models.ScatterPoint{},
		AreaPerformance: []models.GroupStat{},
	}
	if !hasCoordinates {
		panel.MapMessage = MapUnavailableMessage
	}
	if len(records) == 0 {
		panel.Message = models.NoDataMessage
		return panel
	}

	for i := range records {
		d := &records[i]
		if hasCoordinates && d.HasStoreLocation() {
			panel.StoreLocations = append(panel.StoreLocations, models.MapPoint{Lat: d.StoreLat, Lon: d.StoreLon})
		}
		if math.IsNaN(d.DistanceKm) || math.IsNaN(d.DeliveryTime) {
			continue
		}
		panel.DistanceVsTime = append(panel.DistanceVsTime, models.ScatterPoint{
			X:     d.DistanceKm,
			Y:     d.DeliveryTime,
			Color: d.Area,
			Hover: map[string]string{
				models.ColWeather: d.Weather,
				models.ColTraffic: d.Traffic,
			},
			OrderID: d.OrderID,
		})
	}

	if len(panel.StoreLocations) > 0 {
		panel.Bounds = spatial.BoundsOf(panel.StoreLocations)
		panel.Clusters = spatial.ClusterByGeohash(panel.StoreLocations, precision)
	}
	panel.AreaPerformance = groupStats(records, models.ColArea)
	return panel
}
