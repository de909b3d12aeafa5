package providers

import (
	"context"
	"errors"
	"testing"

	"github.com/i474232898/weather-reporter/internal/weather"
)

type stubProvider struct {
	name  string
	snap  weather.Snapshot
	err   error
	calls int
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Fetch(ctx context.Context, req weather.Request) (weather.Snapshot, error) {
	s.calls++
	return s.snap, s.err
}

func TestFallbackProvider(t *testing.T) {
	primaryErr := errors.New("primary down")
	primary := &stubProvider{name: "primary", err: primaryErr}
	secondary := &stubProvider{name: "secondary", snap: weather.Snapshot{ProviderName: "secondary"}}
	third := &stubProvider{name: "third"}

	f := NewFallbackProvider(primary, secondary, third)
	if f.Name() != "fallback(primary,secondary,third)" {
		t.Fatalf("unexpected name %q", f.Name())
	}

	snap, err := f.Fetch(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.ProviderName != "secondary" {
		t.Fatalf("expected secondary snapshot, got %q", snap.ProviderName)
	}
	if third.calls != 0 {
		t.Fatalf("expected third provider to be skipped")
	}

	secondaryErr := errors.New("secondary down")
	secondary.err = secondaryErr
	third.err = errors.New("third down")
	_, err = f.Fetch(context.Background(), testRequest())
	if !errors.Is(err, primaryErr) || !errors.Is(err, secondaryErr) {
		t.Fatalf("expected joined provider errors, got %v", err)
	}

	if _, err := NewFallbackProvider().Fetch(context.Background(), testRequest()); err == nil {
		t.Fatalf("expected error without providers")
	}
}
