package providers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/i474232898/weather-reporter/internal/weather"
)

// FallbackProvider asks each provider in turn and returns the first success.
type FallbackProvider struct {
	providers []weather.Provider
}

// NewFallbackProvider chains providers in priority order.
func NewFallbackProvider(providers ...weather.Provider) *FallbackProvider {
	return &FallbackProvider{providers: providers}
}

func (f *FallbackProvider) Name() string {
	names := make([]string, 0, len(f.providers))
	for _, p := range f.providers {
		names = append(names, p.Name())
	}
	return "fallback(" + strings.Join(names, ",") + ")"
}

func (f *FallbackProvider) Fetch(ctx context.Context, req weather.Request) (weather.Snapshot, error) {
	if len(f.providers) == 0 {
		return weather.Snapshot{}, fmt.Errorf("no weather providers configured")
	}

	var errs []error
	for _, p := range f.providers {
		snap, err := p.Fetch(ctx, req)
		if err == nil {
			return snap, nil
		}
		log.Printf("provider %s fetch failed: %v", p.Name(), err)
		errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))

		if ctx.Err() != nil {
			break
		}
	}
	return weather.Snapshot{}, errors.Join(errs...)
}
