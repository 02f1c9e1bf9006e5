package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"homevistaBack/internal/models"
)

const geocodeBaseURL = "https://maps.googleapis.com"

// GoogleClient provides forward geocoding through the Google Geocoding API.
type GoogleClient struct {
	httpClient *http.Client
	apiKey     string
	region     string
}

// NewGoogleClient constructs a new geocoding client.
func NewGoogleClient(httpClient *http.Client, apiKey, region string) *GoogleClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	return &GoogleClient{httpClient: httpClient, apiKey: apiKey, region: region}
}

// tryParseLatLng returns lat,lng if query looks like "lat,lng", otherwise (0,0,false).
func tryParseLatLng(query string) (float64, float64, bool) {
	parts := strings.Split(strings.TrimSpace(query), ",")
	if len(parts) != 2 {
		return 0, 0, false
	}
	lat, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lng, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return 0, 0, false
	}
	return lat, lng, true
}

// Geocode resolves free text (address, city, or "city, state") to the
// single best-match coordinate and its normalized display string.
// A query with no matches returns models.ErrGeocodeNoMatch.
func (c *GoogleClient) Geocode(ctx context.Context, query string) (models.GeocodeResult, error) {
	if strings.TrimSpace(query) == "" {
		return models.GeocodeResult{}, errors.New("geocode: empty query")
	}

	// "lat,lng" input short-circuits without hitting the API.
	if lat, lng, ok := tryParseLatLng(query); ok {
		return models.GeocodeResult{
			Coordinate:       models.Coordinate{Lat: lat, Lng: lng},
			FormattedAddress: strings.TrimSpace(query),
		}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, 7*time.Second)
	defer cancel()

	params := url.Values{}
	params.Set("address", query)
	params.Set("key", c.apiKey)
	if c.region != "" {
		params.Set("region", c.region)
	}

	endpoint := fmt.Sprintf("%s/maps/api/geocode/json?%s", geocodeBaseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return models.GeocodeResult{}, fmt.Errorf("geocode: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.GeocodeResult{}, fmt.Errorf("geocode: do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return models.GeocodeResult{}, fmt.Errorf("geocode: http %s: %s", resp.Status, strings.TrimSpace(string(b)))
	}

	var payload struct {
		Status  string `json:"status"`
		Results []struct {
			FormattedAddress string `json:"formatted_address"`
			Geometry         struct {
				Location struct {
					Lat float64 `json:"lat"`
					Lng float64 `json:"lng"`
				} `json:"location"`
			} `json:"geometry"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return models.GeocodeResult{}, fmt.Errorf("geocode: decode: %w", err)
	}

	switch payload.Status {
	case "OK":
	case "ZERO_RESULTS":
		return models.GeocodeResult{}, models.ErrGeocodeNoMatch
	default:
		return models.GeocodeResult{}, fmt.Errorf("geocode: status=%s (query=%q)", payload.Status, query)
	}
	if len(payload.Results) == 0 {
		return models.GeocodeResult{}, models.ErrGeocodeNoMatch
	}

	best := payload.Results[0]
	return models.GeocodeResult{
		Coordinate: models.Coordinate{
			Lat: best.Geometry.Location.Lat,
			Lng: best.Geometry.Location.Lng,
		},
		FormattedAddress: best.FormattedAddress,
	}, nil
}
