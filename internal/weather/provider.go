package weather

import (
	"context"
)

// Provider abstracts a weather data source (e.g. Open-Meteo, WeatherAPI).
// Fetch returns current, daily and hourly records for the requested ranges.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, req Request) (Snapshot, error)
}

// Locator abstracts the device location service.
//
// CurrentLocation reports the last known coordinate, if any.
// RefreshLocation starts a location lookup and returns immediately; the result
// is observed through CurrentLocation on a later call.
type Locator interface {
	CurrentLocation() (Coordinate, bool)
	RefreshLocation()
}
