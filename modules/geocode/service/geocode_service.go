package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"eventra/core/cache"
	"eventra/core/config"
	"eventra/core/constants"
	"eventra/core/errors"
	"eventra/core/logger"
)

const (
	defaultGeocodeAPIBase = "https://maps.googleapis.com"
	geocodeCacheKeyPrefix = "geocode:"
)

// Coordinates is a resolved latitude/longitude pair.
type Coordinates struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// GeocodeService resolves free-form location strings into coordinates.
// Resolution is best effort: a missing API key, an unknown address or an
// upstream failure all yield nil coordinates rather than an error, so event
// writes never fail on geocoding.
type GeocodeService interface {
	Geocode(ctx context.Context, location string) (*Coordinates, error)
}

type geocodeService struct {
	cache cache.Cache

	// overridable in tests
	apiBase    string
	httpClient *http.Client
}

func NewGeocodeService(cacheStore cache.Cache) GeocodeService {
	return &geocodeService{
		cache:      cacheStore,
		apiBase:    defaultGeocodeAPIBase,
		httpClient: &http.Client{Timeout: constants.HTTPClientTimeout},
	}
}

func (s *geocodeService) Geocode(ctx context.Context, location string) (*Coordinates, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, nil
	}

	cfg, ok := config.GetSafe()
	if !ok || cfg.GoogleMaps.APIKey == "" {
		logger.Info("GeocodeService:Geocode:Skipped", "reason", "Google Maps API key not configured")
		return nil, nil
	}

	cacheKey := geocodeCacheKeyPrefix + strings.ToLower(location)
	if cached, err := s.cache.Get(ctx, cacheKey); err == nil {
		var coords Coordinates
		if err := json.Unmarshal([]byte(cached), &coords); err == nil {
			return &coords, nil
		}
	}

	coords, err := s.lookup(ctx, location, cfg.GoogleMaps.APIKey)
	if err != nil {
		logger.Error("GeocodeService:Geocode:Error", "error", err, "location", location)
		return nil, nil
	}
	if coords == nil {
		return nil, nil
	}

	// Addresses do not move; cache forever.
	if data, err := json.Marshal(coords); err == nil {
		if err := s.cache.Set(ctx, cacheKey, string(data), 0); err != nil {
			logger.Warn("GeocodeService:Geocode:CacheSet:Error", "error", err)
		}
	}
	return coords, nil
}

func (s *geocodeService) lookup(ctx context.Context, location, apiKey string) (*Coordinates, error) {
	query := url.Values{}
	query.Set("address", location)
	query.Set("key", apiKey)

	endpoint := s.apiBase + "/maps/api/geocode/json?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGeocodeFailed, "geocode request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewAppError(errors.ErrGeocodeFailed,
			fmt.Sprintf("geocode API returned status %d", resp.StatusCode), nil)
	}

	var result struct {
		Status  string `json:"status"`
		Results []struct {
			Geometry struct {
				Location Coordinates `json:"location"`
			} `json:"geometry"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, errors.NewAppError(errors.ErrGeocodeFailed, "failed to parse geocode response", err)
	}

	switch result.Status {
	case "OK":
		if len(result.Results) == 0 {
			return nil, nil
		}
		coords := result.Results[0].Geometry.Location
		return &coords, nil
	case "ZERO_RESULTS":
		return nil, nil
	default:
		return nil, errors.NewAppError(errors.ErrGeocodeFailed,
			fmt.Sprintf("geocode API status %s", result.Status), nil)
	}
}
