package models

// NoDataMessage is shown in place of any panel computed over zero rows
const NoDataMessage = "No data available for the selected filters"

// KPISummary represents the four headline KPI cards
type KPISummary struct {
	TotalOrders     int      `json:"total_orders"`
	AvgDeliveryTime *float64 `json:"avg_delivery_time"` // minutes
	OnTimeRate      *float64 `json:"on_time_rate"`      // percent, 0-100
	AvgAgentRating  *float64 `json:"avg_agent_rating"`
	Message         string   `json:"message,omitempty"`
}

// Bucket represents one histogram bin [Lower, Upper)
type Bucket struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// Summary represents descriptive statistics of a numeric column
type Summary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
}

// CategoryCount represents a value count of a categorical column
type CategoryCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// GroupStat represents grouped means and counts for one categorical key
type GroupStat struct {
	Key             string  `json:"key"`
	AvgDeliveryTime float64 `json:"avg_delivery_time"`
	OrderCount      int     `json:"order_count"`
	AvgRating       float64 `json:"avg_rating"`
}

// AgentEfficiency represents the per-age efficiency ranking row
type AgentEfficiency struct {
	AgentAge        float64  `json:"agent_age"`
	AvgDeliveryTime float64  `json:"avg_delivery_time"`
	AvgRating       float64  `json:"avg_rating"`
	TotalOrders     int      `json:"total_orders"`
	AvgDistanceKm   *float64 `json:"avg_distance_km"`
	EfficiencyScore *float64 `json:"efficiency_score"` // avg minutes per km, null when undefined
}

// ImpactPoint represents the mean delivery time of one category value
type ImpactPoint struct {
	Key             string  `json:"key"`
	AvgDeliveryTime float64 `json:"avg_delivery_time"`
}

// Heatmap represents a weather x traffic pivot of mean delivery times.
// Cells without any order are 0.
type Heatmap struct {
	Rows    []string    `json:"rows"`    // weather
	Columns []string    `json:"columns"` // traffic
	Values  [][]float64 `json:"values"`
}

// ScatterPoint represents one record in a scatter chart
type ScatterPoint struct {
	X       float64           `json:"x"`
	Y       float64           `json:"y"`
	Color   string            `json:"color,omitempty"`
	Value   *float64          `json:"value,omitempty"`
	Size    *float64          `json:"size,omitempty"`
	Hover   map[string]string `json:"hover,omitempty"`
	OrderID string            `json:"order_id"`
}

// MapPoint represents a store location
type MapPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// GeoCluster represents store locations aggregated into one geohash cell
type GeoCluster struct {
	Geohash string  `json:"geohash"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Count   int     `json:"count"`
}

// MapBounds represents the bounding box and center of a set of map points
type MapBounds struct {
	MinLat    float64 `json:"min_lat"`
	MinLon    float64 `json:"min_lon"`
	MaxLat    float64 `json:"max_lat"`
	MaxLon    float64 `json:"max_lon"`
	CenterLat float64 `json:"center_lat"`
	CenterLon float64 `json:"center_lon"`
}

// OverviewPanel is the "Overview" tab
type OverviewPanel struct {
	DeliveryTimeSummary   *Summary        `json:"delivery_time_summary"`
	DeliveryTimeHistogram []Bucket        `json:"delivery_time_histogram"`
	DeliveryTypeCounts    []CategoryCount `json:"delivery_type_counts"`
	CategoryStats         []GroupStat     `json:"category_stats"`
	Message               string          `json:"message,omitempty"`
}

// AgentPanel is the "Agent Performance" tab
type AgentPanel struct {
	AgeVsDeliveryTime  []ScatterPoint    `json:"age_vs_delivery_time"`
	RatingHistogram    []Bucket          `json:"rating_histogram"`
	Efficiency         []AgentEfficiency `json:"efficiency"`
	AgeTimeCorrelation *float64          `json:"age_time_correlation"`
	Message            string            `json:"message,omitempty"`
}

// WeatherTrafficPanel is the "Weather & Traffic" tab
type WeatherTrafficPanel struct {
	WeatherImpact []ImpactPoint `json:"weather_impact"`
	TrafficImpact []ImpactPoint `json:"traffic_impact"`
	Heatmap       Heatmap       `json:"heatmap"`
	Message       string        `json:"message,omitempty"`
}

// GeographicPanel is the "Geographic" tab
type GeographicPanel struct {
	MapAvailable    bool           `json:"map_available"`
	StoreLocations  []MapPoint     `json:"store_locations"`
	Bounds          *MapBounds     `json:"bounds,omitempty"`
	Clusters        []GeoCluster   `json:"clusters"`
	MapMessage      string         `json:"map_message,omitempty"`
	DistanceVsTime  []ScatterPoint `json:"distance_vs_time"`
	AreaPerformance []GroupStat    `json:"area_performance"`
	Message         string         `json:"message,omitempty"`
}

// Recommendation levels, matching the severity of the dashboard callouts
const (
	RecommendationInfo    = "info"
	RecommendationWarning = "warning"
	RecommendationSuccess = "success"
	RecommendationError   = "error"
)

// Recommendation is one canned, data-driven recommendation
type Recommendation struct {
	Kind    string   `json:"kind"` // weather, vehicle, category, none
	Level   string   `json:"level"`
	Title   string   `json:"title"`
	Message string   `json:"message"`
	Actions []string `json:"actions,omitempty"`
	Subject string   `json:"subject,omitempty"`
}

// Dashboard bundles every panel for one filter
type Dashboard struct {
	Filter          FilterSummary       `json:"filter"`
	RowCount        int                 `json:"row_count"`
	KPIs            KPISummary          `json:"kpis"`
	Overview        OverviewPanel       `json:"overview"`
	Agents          AgentPanel          `json:"agents"`
	WeatherTraffic  WeatherTrafficPanel `json:"weather_traffic"`
	Geographic      GeographicPanel     `json:"geographic"`
	Recommendations []Recommendation    `json:"recommendations"`
}
