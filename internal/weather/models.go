package weather

import (
	"time"
)

// Condition represents a normalized high-level weather condition.
type Condition string

const (
	ConditionUnknown Condition = "unknown"
	ConditionClear   Condition = "clear"
	ConditionCloudy  Condition = "cloudy"
	ConditionRain    Condition = "rain"
	ConditionSnow    Condition = "snow"
	ConditionStorm   Condition = "storm"
	ConditionMist    Condition = "mist"
)

// Coordinate is a WGS84 position.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// CurrentConditions is the instant observation at fetch time.
type CurrentConditions struct {
	Timestamp    time.Time `json:"timestamp"` // always UTC
	TemperatureC float64   `json:"temperatureC"`
	WindSpeedKMH float64   `json:"windSpeedKmh"`
	Condition    Condition `json:"condition"`
}

// DayWeather is one calendar day of the daily forecast.
type DayWeather struct {
	Date             time.Time `json:"date"`
	PrecipitationMM  float64   `json:"precipitationMm"`
	HighTemperatureC float64   `json:"highTemperatureC"`
	LowTemperatureC  float64   `json:"lowTemperatureC"`
	MaxWindSpeedKMH  float64   `json:"maxWindSpeedKmh,omitempty"`
	Condition        Condition `json:"condition"`
}

// HourWeather is one hour of the hourly forecast.
type HourWeather struct {
	Time            time.Time `json:"time"`
	PrecipitationMM float64   `json:"precipitationMm"`
	TemperatureC    float64   `json:"temperatureC"`
	WindSpeedKMH    float64   `json:"windSpeedKmh"`
}

// Snapshot is the bundle of current, daily and hourly records returned by one fetch.
// Daily entries are ordered by Date ascending, hourly entries by Time ascending.
type Snapshot struct {
	ID           string            `json:"id"`
	ProviderName string            `json:"provider"`
	Location     Coordinate        `json:"location"`
	Current      CurrentConditions `json:"current"`
	Daily        []DayWeather      `json:"daily"`
	Hourly       []HourWeather     `json:"hourly"`
}

// DateRange is a span of days requested from a provider.
// The day of Start is included, the day of End is not.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Request describes what a Provider should return for a coordinate.
type Request struct {
	Location Coordinate
	Current  bool
	Daily    DateRange
	Hourly   DateRange
}

// Thresholds are the limits the derived conditions are computed against.
type Thresholds struct {
	// MinPrecipitationMM is the most rain (mm) a day may see and still count as dry.
	MinPrecipitationMM float64 `json:"minPrecipitationMm" validate:"gte=0"`

	// HotTemperatureC is the lowest high temperature (°C) a dry day may have.
	HotTemperatureC float64 `json:"hotTemperatureC"`

	// StrongWindKMH is the wind speed (km/h) from which it counts as windy.
	StrongWindKMH float64 `json:"strongWindKmh" validate:"gt=0"`
}

// DefaultThresholds returns the limits in mm, °C and km/h.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinPrecipitationMM: 10.0,
		HotTemperatureC:    25.0,
		StrongWindKMH:      50.0,
	}
}
