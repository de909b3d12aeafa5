package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/i474232898/weather-reporter/internal/weather"
)

const openMeteoBody = `{
  "utc_offset_seconds": 7200,
  "current": {"time": "2024-06-15T10:30", "temperature_2m": 24.1, "wind_speed_10m": 51.2, "weather_code": 2},
  "daily": {
    "time": ["2024-06-13", "2024-06-14", "2024-06-15", "2024-06-16"],
    "temperature_2m_max": [26.0, 27.5, 30.1, null],
    "temperature_2m_min": [14.0, 15.0, 16.2, null],
    "precipitation_sum": [0.0, 1.2, 0.0, null],
    "wind_speed_10m_max": [20.0, 22.0, 55.0, null],
    "weather_code": [0, 61, 1, null]
  },
  "hourly": {
    "time": ["2024-06-13T00:00", "2024-06-13T01:00"],
    "temperature_2m": [15.0, 14.5],
    "precipitation": [0.0, 0.2],
    "wind_speed_10m": [5.0, null]
  }
}`

func testBackoff() BackoffConfig {
	return BackoffConfig{MaxRetries: 2, InitialInterval: time.Millisecond, MaxInterval: 2 * time.Millisecond}
}

func testRequest() weather.Request {
	zone := time.FixedZone("CEST", 7200)
	span := weather.DateRange{
		Start: time.Date(2024, 6, 13, 12, 0, 0, 0, zone),
		End:   time.Date(2024, 6, 17, 12, 0, 0, 0, zone),
	}
	return weather.Request{
		Location: weather.Coordinate{Lat: 51.05, Lon: 3.72},
		Current:  true,
		Daily:    span,
		Hourly:   span,
	}
}

func TestOpenMeteoFetch(t *testing.T) {
	var query map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = map[string]string{}
		for k := range r.URL.Query() {
			query[k] = r.URL.Query().Get(k)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(openMeteoBody))
	}))
	defer srv.Close()

	p := NewOpenMeteoProvider(srv.Client())
	p.baseURL = srv.URL
	p.client.cfg.Backoff = testBackoff()

	snap, err := p.Fetch(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if query["start_date"] != "2024-06-13" || query["end_date"] != "2024-06-16" {
		t.Fatalf("unexpected date range %q..%q", query["start_date"], query["end_date"])
	}
	if query["wind_speed_unit"] != "kmh" {
		t.Fatalf("expected km/h wind unit, got %q", query["wind_speed_unit"])
	}
	if query["current"] == "" || query["daily"] == "" || query["hourly"] == "" {
		t.Fatalf("expected current, daily and hourly to be requested: %v", query)
	}

	wantTS := time.Date(2024, 6, 15, 8, 30, 0, 0, time.UTC)
	if !snap.Current.Timestamp.Equal(wantTS) {
		t.Fatalf("expected current timestamp %v, got %v", wantTS, snap.Current.Timestamp)
	}
	if snap.Current.WindSpeedKMH != 51.2 {
		t.Fatalf("expected wind 51.2, got %v", snap.Current.WindSpeedKMH)
	}

	// The trailing null day is dropped.
	if len(snap.Daily) != 3 {
		t.Fatalf("expected 3 daily records, got %d", len(snap.Daily))
	}
	if snap.Daily[1].PrecipitationMM != 1.2 || snap.Daily[1].Condition != weather.ConditionRain {
		t.Fatalf("unexpected second day %+v", snap.Daily[1])
	}
	if snap.Daily[2].HighTemperatureC != 30.1 {
		t.Fatalf("unexpected high temperature %v", snap.Daily[2].HighTemperatureC)
	}
	if len(snap.Hourly) != 2 || snap.Hourly[1].PrecipitationMM != 0.2 {
		t.Fatalf("unexpected hourly records %+v", snap.Hourly)
	}
}

func TestOpenMeteoFetchServerError(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	p := NewOpenMeteoProvider(srv.Client())
	p.baseURL = srv.URL
	p.client.cfg.Backoff = testBackoff()

	if _, err := p.Fetch(context.Background(), testRequest()); err == nil {
		t.Fatalf("expected error for server failure")
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
}

func TestMapOpenMeteoCondition(t *testing.T) {
	tests := map[int]weather.Condition{
		0:  weather.ConditionClear,
		3:  weather.ConditionCloudy,
		45: weather.ConditionMist,
		63: weather.ConditionRain,
		75: weather.ConditionSnow,
		96: weather.ConditionStorm,
		30: weather.ConditionUnknown,
	}
	for code, want := range tests {
		if got := mapOpenMeteoCondition(code); got != want {
			t.Fatalf("code %d: expected %s, got %s", code, want, got)
		}
	}
}
