package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/i474232898/weather-reporter/internal/location"
	"github.com/i474232898/weather-reporter/internal/weather"
)

var validate = validator.New()

type AppConfig struct {
	Window     weather.WindowConfig
	Thresholds weather.Thresholds

	// UpdateInterval is how old a snapshot may get before it is re-fetched.
	UpdateInterval time.Duration `validate:"gt=0"`

	// TimeoutInterval is how long a fetch without result blocks a retry.
	TimeoutInterval time.Duration `validate:"gt=0"`

	// PollInterval controls how often the scheduler calls Update.
	PollInterval time.Duration `validate:"gt=0"`
	HTTPTimeout  time.Duration `validate:"gt=0"`

	WeatherAPIKey string

	// Either a static coordinate or an address to geocode.
	Coordinate     *weather.Coordinate `validate:"-"`
	Address        location.Address    `validate:"-"`
	GeocoderAPIKey string

	Zone *time.Location `validate:"-"`
	Port string         `validate:"required,numeric"`
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds the configuration from getenv without touching .env files.
func FromEnv(getenv func(string) string) (*AppConfig, error) {
	env := envReader{getenv: getenv}
	cfg := &AppConfig{}

	cfg.Window.DaysInPast = env.getInt("DAYS_IN_PAST", 2)
	cfg.Window.DaysInFuture = env.getInt("DAYS_IN_FUTURE", 3)

	cfg.Thresholds = weather.DefaultThresholds()
	cfg.Thresholds.MinPrecipitationMM = env.getFloat("MIN_PRECIPITATION_MM", cfg.Thresholds.MinPrecipitationMM)
	cfg.Thresholds.HotTemperatureC = env.getFloat("HOT_TEMPERATURE_C", cfg.Thresholds.HotTemperatureC)
	cfg.Thresholds.StrongWindKMH = env.getFloat("STRONG_WIND_KMH", cfg.Thresholds.StrongWindKMH)

	cfg.UpdateInterval = env.getDuration("UPDATE_INTERVAL", "1h")
	cfg.TimeoutInterval = env.getDuration("TIMEOUT_INTERVAL", "10s")
	cfg.PollInterval = env.getDuration("POLL_INTERVAL", "5m")
	cfg.HTTPTimeout = env.getDuration("HTTP_TIMEOUT", "10s")

	cfg.WeatherAPIKey = getenv("WEATHERAPI_API_KEY")
	cfg.GeocoderAPIKey = getenv("GEOCODER_API_KEY")
	cfg.Port = env.getString("PORT", "8080")

	if env.err != nil {
		return nil, env.err
	}

	lat, lon := getenv("LOCATION_LAT"), getenv("LOCATION_LON")
	switch {
	case lat != "" && lon != "":
		latV, err := strconv.ParseFloat(lat, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid LOCATION_LAT: %w", err)
		}
		lonV, err := strconv.ParseFloat(lon, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid LOCATION_LON: %w", err)
		}
		cfg.Coordinate = &weather.Coordinate{Lat: latV, Lon: lonV}
	case lat != "" || lon != "":
		return nil, fmt.Errorf("LOCATION_LAT and LOCATION_LON must be set together")
	}

	cfg.Address = location.Address{
		Street:  getenv("LOCATION_ADDRESS"),
		City:    getenv("LOCATION_CITY"),
		State:   getenv("LOCATION_STATE"),
		Country: getenv("LOCATION_COUNTRY"),
	}

	cfg.Zone = time.Local
	if tz := getenv("TIMEZONE"); tz != "" {
		zone, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
		}
		cfg.Zone = zone
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.Coordinate != nil {
		if err := validate.Var(cfg.Coordinate.Lat, "latitude"); err != nil {
			return nil, fmt.Errorf("invalid LOCATION_LAT: %w", err)
		}
		if err := validate.Var(cfg.Coordinate.Lon, "longitude"); err != nil {
			return nil, fmt.Errorf("invalid LOCATION_LON: %w", err)
		}
	}

	return cfg, nil
}

// ReporterConfig maps the settings onto weather.ReporterConfig.
func (c *AppConfig) ReporterConfig() weather.ReporterConfig {
	return weather.ReporterConfig{
		Window:          c.Window,
		Thresholds:      c.Thresholds,
		UpdateInterval:  c.UpdateInterval,
		TimeoutInterval: c.TimeoutInterval,
		Zone:            c.Zone,
	}
}

// envReader collects the first parse error so Load can report it once.
type envReader struct {
	getenv func(string) string
	err    error
}

func (e *envReader) getString(key, def string) string {
	if v := e.getenv(key); v != "" {
		return v
	}
	return def
}

func (e *envReader) getInt(key string, def int) int {
	v := e.getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.fail(key, err)
		return def
	}
	return n
}

func (e *envReader) getFloat(key string, def float64) float64 {
	v := e.getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		e.fail(key, err)
		return def
	}
	return f
}

func (e *envReader) getDuration(key, def string) time.Duration {
	d, err := time.ParseDuration(e.getString(key, def))
	if err != nil {
		e.fail(key, err)
		return 0
	}
	return d
}

func (e *envReader) fail(key string, err error) {
	if e.err == nil {
		e.err = fmt.Errorf("invalid %s: %w", key, err)
	}
}
