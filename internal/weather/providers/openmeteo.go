package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/i474232898/weather-reporter/internal/weather"
)

const openMeteoTimeLayout = "2006-01-02T15:04"

// OpenMeteoProvider implements the weather.Provider interface for Open-Meteo.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	client  *resilientClient
}

func NewOpenMeteoProvider(client *http.Client, opts ...Option) *OpenMeteoProvider {
	return &OpenMeteoProvider{
		name:    "openmeteo",
		baseURL: "https://api.open-meteo.com/v1/forecast",
		client:  newResilientClient("openmeteo", client, DefaultBackoff(), opts...),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

type openMeteoResponse struct {
	UTCOffsetSeconds int `json:"utc_offset_seconds"`
	Current          struct {
		Time          string  `json:"time"`
		Temperature2m float64 `json:"temperature_2m"`
		WindSpeed10m  float64 `json:"wind_speed_10m"`
		WeatherCode   int     `json:"weather_code"`
	} `json:"current"`
	Daily struct {
		Time             []string   `json:"time"`
		Temperature2mMax []*float64 `json:"temperature_2m_max"`
		Temperature2mMin []*float64 `json:"temperature_2m_min"`
		PrecipitationSum []*float64 `json:"precipitation_sum"`
		WindSpeed10mMax  []*float64 `json:"wind_speed_10m_max"`
		WeatherCode      []*int     `json:"weather_code"`
	} `json:"daily"`
	Hourly struct {
		Time          []string   `json:"time"`
		Temperature2m []*float64 `json:"temperature_2m"`
		Precipitation []*float64 `json:"precipitation"`
		WindSpeed10m  []*float64 `json:"wind_speed_10m"`
	} `json:"hourly"`
}

func (p *OpenMeteoProvider) requestURL(req weather.Request) string {
	values := url.Values{}
	values.Set("latitude", fmt.Sprintf("%f", req.Location.Lat))
	values.Set("longitude", fmt.Sprintf("%f", req.Location.Lon))
	values.Set("timezone", "auto")
	values.Set("wind_speed_unit", "kmh")
	values.Set("precipitation_unit", "mm")
	values.Set("temperature_unit", "celsius")

	if req.Current {
		values.Set("current", "temperature_2m,wind_speed_10m,weather_code")
	}
	if !req.Daily.Start.IsZero() {
		values.Set("daily", "temperature_2m_max,temperature_2m_min,precipitation_sum,wind_speed_10m_max,weather_code")
	}
	if !req.Hourly.Start.IsZero() {
		values.Set("hourly", "temperature_2m,precipitation,wind_speed_10m")
	}

	// One date range serves both series; Open-Meteo includes end_date.
	span := req.Daily
	if span.Start.IsZero() {
		span = req.Hourly
	}
	if !span.Start.IsZero() {
		values.Set("start_date", dayDate(span.Start))
		values.Set("end_date", dayDate(lastDay(span.End)))
	}

	return fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
}

func (p *OpenMeteoProvider) Fetch(ctx context.Context, req weather.Request) (weather.Snapshot, error) {
	var payload openMeteoResponse
	if err := p.client.getJSON(ctx, p.requestURL(req), &payload); err != nil {
		return weather.Snapshot{}, fmt.Errorf("openmeteo: %w", err)
	}

	zone := time.FixedZone("", payload.UTCOffsetSeconds)
	snap := weather.Snapshot{
		ProviderName: p.name,
		Location:     req.Location,
	}

	if req.Current {
		ts, err := time.ParseInLocation(openMeteoTimeLayout, payload.Current.Time, zone)
		if err != nil {
			ts = time.Now()
		}
		snap.Current = weather.CurrentConditions{
			Timestamp:    ts.UTC(),
			TemperatureC: payload.Current.Temperature2m,
			WindSpeedKMH: payload.Current.WindSpeed10m,
			Condition:    mapOpenMeteoCondition(payload.Current.WeatherCode),
		}
	}

	d := payload.Daily
	for i, day := range d.Time {
		date, err := time.ParseInLocation(time.DateOnly, day, zone)
		if err != nil {
			return weather.Snapshot{}, fmt.Errorf("openmeteo: parse daily time %q: %w", day, err)
		}
		high, okHigh := floatAt(d.Temperature2mMax, i)
		precip, okPrecip := floatAt(d.PrecipitationSum, i)
		if !okHigh || !okPrecip {
			// Days without data end the usable forecast; later windows read as unknown.
			break
		}
		low, _ := floatAt(d.Temperature2mMin, i)
		wind, _ := floatAt(d.WindSpeed10mMax, i)

		cond := weather.ConditionUnknown
		if i < len(d.WeatherCode) && d.WeatherCode[i] != nil {
			cond = mapOpenMeteoCondition(*d.WeatherCode[i])
		}

		snap.Daily = append(snap.Daily, weather.DayWeather{
			Date:             date,
			PrecipitationMM:  precip,
			HighTemperatureC: high,
			LowTemperatureC:  low,
			MaxWindSpeedKMH:  wind,
			Condition:        cond,
		})
	}

	h := payload.Hourly
	for i, hour := range h.Time {
		ts, err := time.ParseInLocation(openMeteoTimeLayout, hour, zone)
		if err != nil {
			return weather.Snapshot{}, fmt.Errorf("openmeteo: parse hourly time %q: %w", hour, err)
		}
		temp, _ := floatAt(h.Temperature2m, i)
		precip, _ := floatAt(h.Precipitation, i)
		wind, _ := floatAt(h.WindSpeed10m, i)

		snap.Hourly = append(snap.Hourly, weather.HourWeather{
			Time:            ts,
			PrecipitationMM: precip,
			TemperatureC:    temp,
			WindSpeedKMH:    wind,
		})
	}

	return snap, nil
}

// floatAt returns vals[i], reporting false when it is out of range or null.
func floatAt(vals []*float64, i int) (float64, bool) {
	if i >= len(vals) || vals[i] == nil {
		return 0, false
	}
	return *vals[i], true
}

func mapOpenMeteoCondition(code int) weather.Condition {
	// Mapping based on Open-Meteo weather codes (simplified).
	switch {
	case code == 0:
		return weather.ConditionClear
	case code >= 1 && code <= 3:
		return weather.ConditionCloudy
	case code == 45 || code == 48:
		return weather.ConditionMist
	case (code >= 51 && code <= 67) || (code >= 80 && code <= 82):
		return weather.ConditionRain
	case (code >= 71 && code <= 77) || code == 85 || code == 86:
		return weather.ConditionSnow
	case code >= 95:
		return weather.ConditionStorm
	default:
		return weather.ConditionUnknown
	}
}
