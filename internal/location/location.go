// Package location provides weather.Locator implementations.
package location

import (
	"errors"
	"log"
	"sync"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/weather-reporter/internal/weather"
)

// Static always reports the same coordinate.
type Static struct {
	coord weather.Coordinate
}

// NewStatic creates a Static locator for coord.
func NewStatic(coord weather.Coordinate) *Static {
	return &Static{coord: coord}
}

func (s *Static) CurrentLocation() (weather.Coordinate, bool) {
	return s.coord, true
}

// RefreshLocation is a no-op; the coordinate never changes.
func (s *Static) RefreshLocation() {}

// Address is a postal address to geocode. Any subset of fields may be set.
type Address struct {
	Street  string
	City    string
	State   string
	Country string
}

func (a Address) empty() bool {
	return a.Street == "" && a.City == "" && a.State == "" && a.Country == ""
}

// ErrEmptyAddress is returned when a Geocoded locator has nothing to look up.
var ErrEmptyAddress = errors.New("location address is empty")

// GeocodeFunc resolves an address to a coordinate.
type GeocodeFunc func(Address) (weather.Coordinate, error)

// GoogleGeocoder returns a GeocodeFunc backed by the Google geocoding API.
//
// The geocoder package keeps its key in a package variable, so the key is set
// once here and every GoogleGeocoder in a process shares the last one given.
func GoogleGeocoder(apiKey string) GeocodeFunc {
	geocoder.ApiKey = apiKey
	return func(a Address) (weather.Coordinate, error) {
		loc, err := geocoder.Geocoding(geocoder.Address{
			Street:  a.Street,
			City:    a.City,
			State:   a.State,
			Country: a.Country,
		})
		if err != nil {
			return weather.Coordinate{}, err
		}
		return weather.Coordinate{Lat: loc.Latitude, Lon: loc.Longitude}, nil
	}
}

// Geocoded resolves a configured address in the background.
//
// RefreshLocation starts at most one lookup at a time and never blocks;
// callers poll CurrentLocation for the result.
type Geocoded struct {
	address Address
	lookup  GeocodeFunc

	mu         sync.RWMutex
	coord      *weather.Coordinate
	refreshing bool
	lastErr    error

	wg sync.WaitGroup
}

// NewGeocoded creates a Geocoded locator for address using lookup.
func NewGeocoded(address Address, lookup GeocodeFunc) (*Geocoded, error) {
	if address.empty() {
		return nil, ErrEmptyAddress
	}
	return &Geocoded{address: address, lookup: lookup}, nil
}

func (g *Geocoded) CurrentLocation() (weather.Coordinate, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if g.coord == nil {
		return weather.Coordinate{}, false
	}
	return *g.coord, true
}

func (g *Geocoded) RefreshLocation() {
	g.mu.Lock()
	if g.refreshing {
		g.mu.Unlock()
		return
	}
	g.refreshing = true
	g.mu.Unlock()

	g.wg.Add(1)
	go func() {
		defer g.wg.Done()

		coord, err := g.lookup(g.address)

		g.mu.Lock()
		defer g.mu.Unlock()
		g.refreshing = false
		g.lastErr = err
		if err != nil {
			log.Printf("ERROR: location: geocoding failed for %+v: %v", g.address, err)
			return
		}
		g.coord = &coord
		log.Printf("INFO: location resolved to %.4f,%.4f", coord.Lat, coord.Lon)
	}()
}

// Err returns the error of the last finished lookup, if any.
func (g *Geocoded) Err() error {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.lastErr
}

// Wait blocks until no lookup is running.
func (g *Geocoded) Wait() {
	g.wg.Wait()
}
