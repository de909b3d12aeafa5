package weather

import (
	"fmt"
	"time"
)

// IndexRange is a half-open range [Lo, Hi) of indices into a daily forecast.
type IndexRange struct {
	Lo int
	Hi int
}

// Len returns the number of indices covered.
func (r IndexRange) Len() int {
	if r.Hi < r.Lo {
		return 0
	}
	return r.Hi - r.Lo
}

// Window names one of the three day ranges of a WindowConfig.
type Window string

const (
	WindowPast   Window = "past"
	WindowToday  Window = "today"
	WindowFuture Window = "future"
)

// WindowConfig fixes how many days around today a snapshot covers.
// Daily index 0 is the oldest past day and DaysInPast is today.
type WindowConfig struct {
	DaysInPast   int `json:"daysInPast" validate:"gte=0"`
	DaysInFuture int `json:"daysInFuture" validate:"gte=0"`
}

// NewWindowConfig returns a WindowConfig, rejecting negative day counts.
func NewWindowConfig(daysInPast, daysInFuture int) (WindowConfig, error) {
	if daysInPast < 0 || daysInFuture < 0 {
		return WindowConfig{}, fmt.Errorf("window days must not be negative (past=%d, future=%d)", daysInPast, daysInFuture)
	}
	return WindowConfig{DaysInPast: daysInPast, DaysInFuture: daysInFuture}, nil
}

// Past covers [0, DaysInPast).
func (w WindowConfig) Past() IndexRange {
	return IndexRange{Lo: 0, Hi: w.DaysInPast}
}

// Today covers the single index DaysInPast.
func (w WindowConfig) Today() IndexRange {
	return IndexRange{Lo: w.DaysInPast, Hi: w.DaysInPast + 1}
}

// Future covers [DaysInPast+1, DaysInPast+DaysInFuture].
func (w WindowConfig) Future() IndexRange {
	return IndexRange{Lo: w.DaysInPast + 1, Hi: w.DaysInPast + 1 + w.DaysInFuture}
}

// Range returns the index range for the named window.
func (w WindowConfig) Range(name Window) (IndexRange, error) {
	switch name {
	case WindowPast:
		return w.Past(), nil
	case WindowToday:
		return w.Today(), nil
	case WindowFuture:
		return w.Future(), nil
	default:
		return IndexRange{}, fmt.Errorf("unknown window %q", name)
	}
}

// Days returns the total number of daily records the config covers.
func (w WindowConfig) Days() int {
	return w.DaysInPast + 1 + w.DaysInFuture
}

// Noon returns 12:00 on the calendar day of t in loc.
func Noon(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, loc)
}

// ComputeWindow returns the date range to request around noon: from
// daysInPast days before it up to daysInFuture+1 days after it, so the last
// future day is fully covered by the end-exclusive range.
func ComputeWindow(noon time.Time, daysInPast, daysInFuture int) DateRange {
	return DateRange{
		Start: noon.AddDate(0, 0, -daysInPast),
		End:   noon.AddDate(0, 0, daysInFuture+1),
	}
}
