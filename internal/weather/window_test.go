package weather

import (
	"testing"
	"time"
)

func TestWindowRangesAreContiguous(t *testing.T) {
	for past := 0; past <= 5; past++ {
		for future := 0; future <= 5; future++ {
			w := WindowConfig{DaysInPast: past, DaysInFuture: future}
			p, d, f := w.Past(), w.Today(), w.Future()

			if p.Lo != 0 {
				t.Fatalf("past=%d future=%d: past must start at 0, got %d", past, future, p.Lo)
			}
			if p.Hi != d.Lo || d.Hi != f.Lo {
				t.Fatalf("past=%d future=%d: ranges not contiguous: %v %v %v", past, future, p, d, f)
			}
			if d.Len() != 1 {
				t.Fatalf("past=%d future=%d: today must be a single day, got %d", past, future, d.Len())
			}
			if f.Hi-1 != past+future {
				t.Fatalf("past=%d future=%d: future must end at %d, got %d", past, future, past+future, f.Hi-1)
			}
			if p.Len()+d.Len()+f.Len() != w.Days() {
				t.Fatalf("past=%d future=%d: ranges cover %d days, want %d", past, future, p.Len()+d.Len()+f.Len(), w.Days())
			}
		}
	}
}

func TestNewWindowConfigRejectsNegative(t *testing.T) {
	if _, err := NewWindowConfig(-1, 2); err == nil {
		t.Fatalf("expected error for negative past days")
	}
	if _, err := NewWindowConfig(1, -2); err == nil {
		t.Fatalf("expected error for negative future days")
	}
	w, err := NewWindowConfig(3, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.DaysInPast != 3 || w.DaysInFuture != 1 {
		t.Fatalf("unexpected config %+v", w)
	}
}

func TestWindowRangeByName(t *testing.T) {
	w := WindowConfig{DaysInPast: 2, DaysInFuture: 3}

	r, err := w.Range(WindowFuture)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r != (IndexRange{Lo: 3, Hi: 6}) {
		t.Fatalf("unexpected future range %v", r)
	}
	if _, err := w.Range("yesterday"); err == nil {
		t.Fatalf("expected error for unknown window")
	}
}

func TestNoon(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	in := time.Date(2024, 3, 10, 23, 30, 0, 0, time.UTC) // 00:30 next day in CET

	got := Noon(in, loc)
	want := time.Date(2024, 3, 11, 12, 0, 0, 0, loc)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestComputeWindow(t *testing.T) {
	noon := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	got := ComputeWindow(noon, 2, 3)
	if want := time.Date(2024, 6, 13, 12, 0, 0, 0, time.UTC); !got.Start.Equal(want) {
		t.Fatalf("expected start %v, got %v", want, got.Start)
	}
	if want := time.Date(2024, 6, 19, 12, 0, 0, 0, time.UTC); !got.End.Equal(want) {
		t.Fatalf("expected end %v, got %v", want, got.End)
	}

	got = ComputeWindow(noon, 0, 0)
	if !got.Start.Equal(noon) || !got.End.Equal(noon.Add(24*time.Hour)) {
		t.Fatalf("unexpected zero-day window %v", got)
	}
}

func TestComputeWindowKeepsNoonAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Brussels")
	if err != nil {
		t.Skipf("tz database unavailable: %v", err)
	}
	// 2024-03-31 is the spring-forward day in Brussels.
	noon := time.Date(2024, 4, 1, 12, 0, 0, 0, loc)

	got := ComputeWindow(noon, 2, 0)
	if got.Start.Hour() != 12 || got.Start.Day() != 30 {
		t.Fatalf("expected start at noon on March 30, got %v", got.Start)
	}
}
