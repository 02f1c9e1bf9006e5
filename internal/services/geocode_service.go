package services

import (
	"context"

	"homevistaBack/internal/geo"
	"homevistaBack/internal/models"
)

// GeocodeService fronts the geocoding provider with a Redis cache. The
// cache is optional; without it every call goes straight to the provider.
type GeocodeService struct {
	Client *geo.GoogleClient
	Cache  *geo.GeocodeCache
}

func (s *GeocodeService) Geocode(ctx context.Context, query string) (models.GeocodeResult, error) {
	if s.Cache != nil {
		if result, ok := s.Cache.Get(ctx, query); ok {
			return result, nil
		}
	}

	result, err := s.Client.Geocode(ctx, query)
	if err != nil {
		return models.GeocodeResult{}, err
	}

	if s.Cache != nil {
		_ = s.Cache.Set(ctx, query, result)
	}
	return result, nil
}
