package models

import (
	"math"
	"time"
)

// Source column names of the delivery dataset
const (
	ColOrderID        = "Order_ID"
	ColOrderDate      = "Order_Date"
	ColDeliveryTime   = "Delivery_Time"
	ColAgentRating    = "Agent_Rating"
	ColAgentAge       = "Agent_Age"
	ColWeather        = "Weather"
	ColTraffic        = "Traffic"
	ColVehicle        = "Vehicle"
	ColArea           = "Area"
	ColCategory       = "Category"
	ColStoreLatitude  = "Store_Latitude"
	ColStoreLongitude = "Store_Longitude"
	ColDropLatitude   = "Drop_Latitude"
	ColDropLongitude  = "Drop_Longitude"
)

// Derived column names
const (
	ColDistanceKm   = "Distance_km"
	ColPickupDelay  = "Pickup_Delay"
	ColDeliveryType = "Delivery_Type"
)

// RequiredColumns must be present in every input file
var RequiredColumns = []string{
	ColOrderID,
	ColOrderDate,
	ColDeliveryTime,
	ColAgentRating,
	ColAgentAge,
	ColWeather,
	ColTraffic,
	ColVehicle,
	ColArea,
	ColCategory,
}

// CoordinateColumns enable per-row distance calculation when all are present
var CoordinateColumns = []string{
	ColStoreLatitude,
	ColStoreLongitude,
	ColDropLatitude,
	ColDropLongitude,
}

// DerivedColumns are recomputed on every load
var DerivedColumns = []string{
	ColDistanceKm,
	ColPickupDelay,
	ColDeliveryType,
}

// DeliveryType buckets
const (
	DeliveryTypeFast   = "Fast"
	DeliveryTypeMedium = "Medium"
	DeliveryTypeSlow   = "Slow"
)

// DeliveryTypes in bucket order
var DeliveryTypes = []string{DeliveryTypeFast, DeliveryTypeMedium, DeliveryTypeSlow}

// Delivery is one cleaned row of the source dataset.
// Optional numerics are NaN when the source value is missing.
type Delivery struct {
	OrderID      string
	OrderDate    time.Time
	DeliveryTime float64 // minutes
	AgentAge     float64
	AgentRating  float64 // never NaN after cleaning
	Weather      string
	Traffic      string
	Vehicle      string
	Area         string
	Category     string

	StoreLat float64
	StoreLon float64
	DropLat  float64
	DropLon  float64

	DistanceKm   float64
	DeliveryType string
	PickupDelay  float64 // minutes

	// Extra holds source columns the cleaner does not interpret
	Extra map[string]string
}

// HasStoreLocation reports whether both store coordinates are known
func (d *Delivery) HasStoreLocation() bool {
	return !math.IsNaN(d.StoreLat) && !math.IsNaN(d.StoreLon)
}

// Column returns the categorical value for one of the filterable columns
func (d *Delivery) Column(name string) string {
	switch name {
	case ColWeather:
		return d.Weather
	case ColTraffic:
		return d.Traffic
	case ColVehicle:
		return d.Vehicle
	case ColArea:
		return d.Area
	case ColCategory:
		return d.Category
	case ColDeliveryType:
		return d.DeliveryType
	}
	return ""
}

// DeliveryView is the JSON projection of a Delivery
type DeliveryView struct {
	OrderID      string   `json:"order_id"`
	OrderDate    string   `json:"order_date"`
	DeliveryTime *float64 `json:"delivery_time"`
	AgentAge     *float64 `json:"agent_age"`
	AgentRating  float64  `json:"agent_rating"`
	Weather      string   `json:"weather"`
	Traffic      string   `json:"traffic"`
	Vehicle      string   `json:"vehicle"`
	Area         string   `json:"area"`
	Category     string   `json:"category"`
	StoreLat     *float64 `json:"store_latitude,omitempty"`
	StoreLon     *float64 `json:"store_longitude,omitempty"`
	DropLat      *float64 `json:"drop_latitude,omitempty"`
	DropLon      *float64 `json:"drop_longitude,omitempty"`
	DistanceKm   *float64 `json:"distance_km"`
	DeliveryType string   `json:"delivery_type"`
	PickupDelay  float64  `json:"pickup_delay"`
}

// View converts a Delivery to its JSON projection
func (d *Delivery) View() DeliveryView {
	return DeliveryView{
		OrderID:      d.OrderID,
		OrderDate:    d.OrderDate.Format("2006-01-02"),
		DeliveryTime: OptionalFloat(d.DeliveryTime),
		AgentAge:     OptionalFloat(d.AgentAge),
		AgentRating:  d.AgentRating,
		Weather:      d.Weather,
		Traffic:      d.Traffic,
		Vehicle:      d.Vehicle,
		Area:         d.Area,
		Category:     d.Category,
		StoreLat:     OptionalFloat(d.StoreLat),
		StoreLon:     OptionalFloat(d.StoreLon),
		DropLat:      OptionalFloat(d.DropLat),
		DropLon:      OptionalFloat(d.DropLon),
		DistanceKm:   OptionalFloat(d.DistanceKm),
		DeliveryType: d.DeliveryType,
		PickupDelay:  d.PickupDelay,
	}
}

// OptionalFloat maps NaN and Inf to nil so the value survives JSON encoding
func OptionalFloat(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// DeliveryPage is one page of filtered records
type DeliveryPage struct {
	Items    []DeliveryView `json:"items"`
	Total    int            `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}
