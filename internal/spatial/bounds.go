package spatial

import (
	"github.com/golang/geo/s2"

	"github.com/jengzang/lastmile-backend-go/internal/models"
)

// BoundsOf returns the lat/lng bounding box of the points and its center.
// Returns nil for an empty slice.
func BoundsOf(points []models.MapPoint) *models.MapBounds {
	if len(points) == 0 {
		return nil
	}

	rect := s2.EmptyRect()
	for _, p := range points {
		rect = rect.AddPoint(s2.LatLngFromDegrees(p.Lat, p.Lon))
	}

	center := rect.Center()
	return &models.MapBounds{
		MinLat:    rect.Lo().Lat.Degrees(),
		MinLon:    rect.Lo().Lng.Degrees(),
		MaxLat:    rect.Hi().Lat.Degrees(),
		MaxLon:    rect.Hi().Lng.Degrees(),
		CenterLat: center.Lat.Degrees(),
		CenterLon: center.Lng.Degrees(),
	}
}
