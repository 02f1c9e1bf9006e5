package geo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"homevistaBack/internal/models"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestHTTPClient(t *testing.T, server *httptest.Server) *http.Client {
	t.Helper()

	parsedURL, err := url.Parse(server.URL)
	if err != nil {
		t.Fatalf("failed to parse server url: %v", err)
	}

	proxyClient := server.Client()
	baseTransport := proxyClient.Transport
	t.Cleanup(func() {
		if transport, ok := baseTransport.(*http.Transport); ok {
			transport.CloseIdleConnections()
		}
	})

	return &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			clone := req.Clone(req.Context())
			clone.URL.Scheme = parsedURL.Scheme
			clone.URL.Host = parsedURL.Host
			clone.Host = parsedURL.Host
			clone.RequestURI = ""
			return proxyClient.Do(clone)
		}),
	}
}

func TestGoogleClientGeocode(t *testing.T) {
	apiKey := "test-api-key"

	tests := []struct {
		name        string
		handler     func(t *testing.T, w http.ResponseWriter, r *http.Request)
		query       string
		wantLat     float64
		wantLng     float64
		wantAddr    string
		wantErr     bool
		wantNoMatch bool
		errContains string
	}{
		{
			name:  "ok",
			query: "Austin, TX",
			handler: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				if got := r.URL.Path; got != "/maps/api/geocode/json" {
					t.Fatalf("unexpected path: %s", got)
				}
				if got := r.URL.Query().Get("address"); got != "Austin, TX" {
					t.Fatalf("unexpected address param: %q", got)
				}
				if got := r.URL.Query().Get("key"); got != apiKey {
					t.Fatalf("unexpected key param: %q", got)
				}
				if got := r.URL.Query().Get("region"); got != "us" {
					t.Fatalf("unexpected region param: %q", got)
				}
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{
					"status": "OK",
					"results": [{
						"formatted_address": "Austin, TX, USA",
						"geometry": {"location": {"lat": 30.2672, "lng": -97.7431}}
					}]
				}`))
			},
			wantLat:  30.2672,
			wantLng:  -97.7431,
			wantAddr: "Austin, TX, USA",
		},
		{
			name:  "zero results",
			query: "Nowheresville XZ",
			handler: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"status": "ZERO_RESULTS", "results": []}`))
			},
			wantErr:     true,
			wantNoMatch: true,
		},
		{
			name:  "provider denied",
			query: "Austin, TX",
			handler: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"status": "REQUEST_DENIED", "results": []}`))
			},
			wantErr:     true,
			errContains: "REQUEST_DENIED",
		},
		{
			name:  "http error",
			query: "Austin, TX",
			handler: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				http.Error(w, "upstream busted", http.StatusBadGateway)
			},
			wantErr:     true,
			errContains: "502",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				tt.handler(t, w, r)
			}))
			defer server.Close()

			client := NewGoogleClient(newTestHTTPClient(t, server), apiKey, "us")
			result, err := client.Geocode(context.Background(), tt.query)

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if tt.wantNoMatch && !errors.Is(err, models.ErrGeocodeNoMatch) {
					t.Fatalf("err = %v; want ErrGeocodeNoMatch", err)
				}
				if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Fatalf("err = %v; want contains %q", err, tt.errContains)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Coordinate.Lat != tt.wantLat || result.Coordinate.Lng != tt.wantLng {
				t.Errorf("coordinate = %+v; want %v,%v", result.Coordinate, tt.wantLat, tt.wantLng)
			}
			if result.FormattedAddress != tt.wantAddr {
				t.Errorf("formatted address = %q; want %q", result.FormattedAddress, tt.wantAddr)
			}
		})
	}
}

func TestGoogleClientGeocodeLatLngShortCircuit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("coordinate input must not reach the API")
	}))
	defer server.Close()

	client := NewGoogleClient(newTestHTTPClient(t, server), "key", "")
	result, err := client.Geocode(context.Background(), "40.7128, -74.0060")
	if err != nil {
		t.Fatal(err)
	}
	if result.Coordinate.Lat != 40.7128 || result.Coordinate.Lng != -74.0060 {
		t.Errorf("coordinate = %+v", result.Coordinate)
	}
}

func TestGoogleClientGeocodeEmptyQuery(t *testing.T) {
	client := NewGoogleClient(nil, "key", "")
	if _, err := client.Geocode(context.Background(), "   "); err == nil {
		t.Fatal("empty query must error without a network call")
	}
}

func TestTryParseLatLng(t *testing.T) {
	tests := []struct {
		in  string
		ok  bool
		lat float64
		lng float64
	}{
		{"40.7, -74.0", true, 40.7, -74.0},
		{" 51.5 , 0.12 ", true, 51.5, 0.12},
		{"Austin, TX", false, 0, 0},
		{"95.0, 10.0", false, 0, 0},
		{"10.0, 195.0", false, 0, 0},
		{"10.0", false, 0, 0},
	}
	for _, tt := range tests {
		lat, lng, ok := tryParseLatLng(tt.in)
		if ok != tt.ok || lat != tt.lat || lng != tt.lng {
			t.Errorf("tryParseLatLng(%q) = %v,%v,%v; want %v,%v,%v", tt.in, lat, lng, ok, tt.lat, tt.lng, tt.ok)
		}
	}
}
