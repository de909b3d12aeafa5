package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/i474232898/weather-reporter/internal/common"
	"github.com/i474232898/weather-reporter/internal/weather"
)

// WeatherAPI.com serves at most this many forecast days.
const weatherAPIMaxForecastDays = 14

// WeatherAPIProvider implements the weather.Provider interface for WeatherAPI.com.
// Past days come from history.json, today and later from forecast.json.
// WeatherAPI dates days in the location's zone, so "today" is taken from the
// forecast's location.localtime rather than from the device clock.
type WeatherAPIProvider struct {
	name    string
	apiKey  string
	baseURL string
	client  *resilientClient
	now     func() time.Time
}

func NewWeatherAPIProvider(client *http.Client, apiKey string, opts ...Option) *WeatherAPIProvider {
	return &WeatherAPIProvider{
		name:    "weatherapi",
		apiKey:  apiKey,
		baseURL: "https://api.weatherapi.com/v1",
		client:  newResilientClient("weatherapi", client, DefaultBackoff(), opts...),
		now:     time.Now,
	}
}

func (p *WeatherAPIProvider) Name() string {
	return p.name
}

type weatherAPICondition struct {
	Text string `json:"text"`
}

type weatherAPIDay struct {
	Date      string `json:"date"`
	DateEpoch int64  `json:"date_epoch"`
	Day       struct {
		MaxTempC      float64             `json:"maxtemp_c"`
		MinTempC      float64             `json:"mintemp_c"`
		TotalPrecipMm float64             `json:"totalprecip_mm"`
		MaxWindKph    float64             `json:"maxwind_kph"`
		Condition     weatherAPICondition `json:"condition"`
	} `json:"day"`
	Hour []struct {
		TimeEpoch int64   `json:"time_epoch"`
		TempC     float64 `json:"temp_c"`
		PrecipMm  float64 `json:"precip_mm"`
		WindKph   float64 `json:"wind_kph"`
	} `json:"hour"`
}

type weatherAPIResponse struct {
	Location struct {
		Localtime string `json:"localtime"`
	} `json:"location"`
	Current struct {
		LastUpdatedEpoch int64               `json:"last_updated_epoch"`
		TempC            float64             `json:"temp_c"`
		WindKph          float64             `json:"wind_kph"`
		Condition        weatherAPICondition `json:"condition"`
	} `json:"current"`
	Forecast struct {
		ForecastDay []weatherAPIDay `json:"forecastday"`
	} `json:"forecast"`
}

func (p *WeatherAPIProvider) endpoint(method string, req weather.Request, extra url.Values) string {
	values := url.Values{}
	values.Set("key", p.apiKey)
	values.Set("q", fmt.Sprintf("%f,%f", req.Location.Lat, req.Location.Lon))
	for k, v := range extra {
		values[k] = v
	}
	return fmt.Sprintf("%s/%s?%s", p.baseURL, method, values.Encode())
}

func (p *WeatherAPIProvider) Fetch(ctx context.Context, req weather.Request) (weather.Snapshot, error) {
	if p.apiKey == "" {
		return weather.Snapshot{}, fmt.Errorf("weatherapi api key is not configured")
	}

	span := req.Daily
	if span.Start.IsZero() {
		span = req.Hourly
	}
	zone := span.Start.Location()
	deviceToday := dayStart(p.now().In(zone))
	first := dayStart(span.Start)
	end := dayStart(span.End)

	// The location may be a calendar day behind the device, so ask for one
	// extra day; anything outside [first, end) is dropped below.
	forecastDays := daysBetween(deviceToday.AddDate(0, 0, -1), end)
	if forecastDays > weatherAPIMaxForecastDays {
		forecastDays = weatherAPIMaxForecastDays
	}
	if forecastDays < 1 {
		forecastDays = 1 // current conditions still come from forecast.json
	}

	var fc weatherAPIResponse
	u := p.endpoint("forecast.json", req, url.Values{
		"days":   {strconv.Itoa(forecastDays)},
		"aqi":    {"no"},
		"alerts": {"no"},
	})
	if err := p.client.getJSON(ctx, u, &fc); err != nil {
		return weather.Snapshot{}, fmt.Errorf("weatherapi forecast: %w", err)
	}
	days := fc.Forecast.ForecastDay

	today := locationToday(fc.Location.Localtime, zone, deviceToday)
	if first.Before(today) {
		histEnd := today.AddDate(0, 0, -1)
		if end.Before(today) {
			histEnd = end.AddDate(0, 0, -1)
		}
		var hist weatherAPIResponse
		u := p.endpoint("history.json", req, url.Values{
			"dt":     {dayDate(first)},
			"end_dt": {dayDate(histEnd)},
		})
		if err := p.client.getJSON(ctx, u, &hist); err != nil {
			return weather.Snapshot{}, fmt.Errorf("weatherapi history: %w", err)
		}
		days = append(days, hist.Forecast.ForecastDay...)
	}

	snap := weather.Snapshot{
		ProviderName: p.name,
		Location:     req.Location,
	}
	if req.Current {
		ts := time.Unix(fc.Current.LastUpdatedEpoch, 0).UTC()
		if fc.Current.LastUpdatedEpoch == 0 {
			ts = p.now().UTC()
		}
		snap.Current = weather.CurrentConditions{
			Timestamp:    ts,
			TemperatureC: fc.Current.TempC,
			WindSpeedKMH: fc.Current.WindKph,
			Condition:    mapWeatherAPICondition(fc.Current.Condition.Text),
		}
	}

	sort.SliceStable(days, func(i, j int) bool { return days[i].Date < days[j].Date })

	seen := make(map[string]bool, len(days))
	next := first
	for _, d := range days {
		date, err := time.ParseInLocation(time.DateOnly, d.Date, zone)
		if err != nil {
			return weather.Snapshot{}, fmt.Errorf("weatherapi: parse date %q: %w", d.Date, err)
		}
		if seen[d.Date] || date.Before(first) || !date.Before(end) {
			continue
		}
		seen[d.Date] = true

		// Daily indices are positional, so a missing day would misplace every later one.
		if !date.Equal(next) {
			return weather.Snapshot{}, fmt.Errorf("weatherapi: expected %s, got %s", dayDate(next), d.Date)
		}
		next = next.AddDate(0, 0, 1)

		if !req.Daily.Start.IsZero() {
			snap.Daily = append(snap.Daily, weather.DayWeather{
				Date:             date,
				PrecipitationMM:  d.Day.TotalPrecipMm,
				HighTemperatureC: d.Day.MaxTempC,
				LowTemperatureC:  d.Day.MinTempC,
				MaxWindSpeedKMH:  d.Day.MaxWindKph,
				Condition:        mapWeatherAPICondition(d.Day.Condition.Text),
			})
		}
		if !req.Hourly.Start.IsZero() {
			for _, h := range d.Hour {
				snap.Hourly = append(snap.Hourly, weather.HourWeather{
					Time:            time.Unix(h.TimeEpoch, 0).In(zone),
					PrecipitationMM: h.PrecipMm,
					TemperatureC:    h.TempC,
					WindSpeedKMH:    h.WindKph,
				})
			}
		}
	}

	return snap, nil
}

// locationToday parses the date part of a WeatherAPI localtime such as
// "2024-06-02 06:00", returning fallback when it is missing or malformed.
func locationToday(localtime string, zone *time.Location, fallback time.Time) time.Time {
	if len(localtime) < len(time.DateOnly) {
		return fallback
	}
	t, err := time.ParseInLocation(time.DateOnly, localtime[:len(time.DateOnly)], zone)
	if err != nil {
		return fallback
	}
	return t
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// daysBetween counts calendar days from a to b, both at midnight.
func daysBetween(a, b time.Time) int {
	n := 0
	for d := a; d.Before(b); d = d.AddDate(0, 0, 1) {
		n++
	}
	return n
}

func mapWeatherAPICondition(text string) weather.Condition {
	switch {
	case text == "":
		return weather.ConditionUnknown
	case common.HasAny(text, "thunder", "storm"):
		return weather.ConditionStorm
	case common.HasAny(text, "snow", "sleet", "blizzard", "ice pellets"):
		return weather.ConditionSnow
	case common.HasAny(text, "rain", "shower", "drizzle"):
		return weather.ConditionRain
	case common.HasAny(text, "mist", "fog"):
		return weather.ConditionMist
	case common.HasAny(text, "cloud", "overcast"):
		return weather.ConditionCloudy
	case common.HasAny(text, "sunny", "clear"):
		return weather.ConditionClear
	default:
		return weather.ConditionUnknown
	}
}
