package service

import (
	"fmt"

	"github.com/jengzang/lastmile-backend-go/internal/models"
	"github.com/jengzang/lastmile-backend-go/internal/stats"
)

// NoRecommendationMessage is returned in place of recommendations for an empty selection
const NoRecommendationMessage = "No data available for recommendations"

// extremes returns the keys with the highest and lowest mean delivery time.
// Ties go to the first key in ascending order.
func extremes(records []models.Delivery, name string) (worst, best string, ok bool) {
	groups := groupByColumn(records, name)
	if len(groups) == 0 {
		return "", "", false
	}
	means := make([]float64, len(groups))
	for i, g := range groups {
		means[i] = meanOver(records, g.Rows, deliveryTime)
	}
	hi, lo := stats.ArgMax(means), stats.ArgMin(means)
	if hi < 0 || lo < 0 {
		return "", "", false
	}
	return groups[hi].Key, groups[lo].Key, true
}

// ComputeRecommendations derives the weather, vehicle and category recommendations
func ComputeRecommendations(records []models.Delivery) []models.Recommendation {
	if len(records) == 0 {
		return []models.Recommendation{{
			Kind:    "none",
			Level:   models.RecommendationInfo,
			Title:   "Recommendations",
			Message: NoRecommendationMessage,
		}}
	}

	var recs []models.Recommendation

	if worst, _, ok := extremes(records, models.ColWeather); ok {
		recs = append(recs, models.Recommendation{
			Kind:    "weather",
			Level:   models.RecommendationWarning,
			Title:   "Weather Alert",
			Message: fmt.Sprintf("%s conditions cause the longest delays. Consider:", worst),
			Actions: []string{
				"Pre-position additional agents during forecasted bad weather",
				"Implement weather-based surge pricing",
				"Adjust delivery time expectations for customers",
			},
			Subject: worst,
		})
	}

	if worst, best, ok := extremes(records, models.ColVehicle); ok {
		recs = append(recs, models.Recommendation{
			Kind:    "vehicle",
			Level:   models.RecommendationSuccess,
			Title:   "Vehicle Strategy",
			Message: fmt.Sprintf("%s performs best. Consider reallocating from %s", best, worst),
			Subject: best,
		})
	}

	if worst, _, ok := extremes(records, models.ColCategory); ok {
		recs = append(recs, models.Recommendation{
			Kind:    "category",
			Level:   models.RecommendationError,
			Title:   "Category Focus",
			Message: fmt.Sprintf("%s has the longest delivery times. Review:", worst),
			Actions: []string{
				"Packaging requirements",
				"Handling procedures",
				"Customer expectations",
			},
			Subject: worst,
		})
	}

	if len(recs) == 0 {
		recs = append(recs, models.Recommendation{
			Kind:    "none",
			Level:   models.RecommendationInfo,
			Title:   "Recommendations",
			Message: NoRecommendationMessage,
		})
	}
	return recs
}
