package spatial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/lastmile-backend-go/internal/models"
)

func TestEncodeGeohash(t *testing.T) {
	// Reference value for 57.64911, 10.40744
	assert.Equal(t, "u4pruydqqvj", EncodeGeohash(57.64911, 10.40744, 11))
	assert.Len(t, EncodeGeohash(1, 1, 0), 1)
	assert.Len(t, EncodeGeohash(1, 1, 20), 12)
}

func TestDecodeGeohashRoundTrip(t *testing.T) {
	hash := EncodeGeohash(12.9716, 77.5946, 9)
	lat, lon := DecodeGeohash(hash)
	assert.InDelta(t, 12.9716, lat, 0.001)
	assert.InDelta(t, 77.5946, lon, 0.001)

	minLat, minLon, maxLat, maxLon := GeohashBounds(hash)
	assert.True(t, minLat <= 12.9716 && 12.9716 <= maxLat)
	assert.True(t, minLon <= 77.5946 && 77.5946 <= maxLon)
}

func TestClusterByGeohash(t *testing.T) {
	points := []models.MapPoint{
		{Lat: 12.9716, Lon: 77.5946},
		{Lat: 12.9717, Lon: 77.5947},
		{Lat: 28.7041, Lon: 77.1025},
	}

	clusters := ClusterByGeohash(points, 5)
	require.Len(t, clusters, 2)
	assert.Equal(t, 2, clusters[0].Count)
	assert.Equal(t, 1, clusters[1].Count)
	assert.InDelta(t, 12.97, clusters[0].Lat, 0.05)

	assert.Empty(t, ClusterByGeohash(nil, 5))
}

func TestBoundsOf(t *testing.T) {
	assert.Nil(t, BoundsOf(nil))

	b := BoundsOf([]models.MapPoint{
		{Lat: 10, Lon: 70},
		{Lat: 20, Lon: 80},
	})
	require.NotNil(t, b)
	assert.InDelta(t, 10, b.MinLat, 1e-9)
	assert.InDelta(t, 70, b.MinLon, 1e-9)
	assert.InDelta(t, 20, b.MaxLat, 1e-9)
	assert.InDelta(t, 80, b.MaxLon, 1e-9)
	assert.InDelta(t, 15, b.CenterLat, 1e-9)
	assert.InDelta(t, 75, b.CenterLon, 1e-9)
}
