package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestParseFilterFromQuery(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet,
		"/properties?type=rent&min_price=500&max_price=2000&min_bedrooms=2&min_bathrooms=1&property_type=apartment&city=Austin&state=TX", nil)

	filter := parseFilterFromQuery(r)
	if filter.Type != "rent" || filter.City != "Austin" || filter.State != "TX" || filter.PropertyType != "apartment" {
		t.Errorf("filter = %+v", filter)
	}
	if filter.MinPrice == nil || *filter.MinPrice != 500 {
		t.Errorf("MinPrice = %v", filter.MinPrice)
	}
	if filter.MaxPrice == nil || *filter.MaxPrice != 2000 {
		t.Errorf("MaxPrice = %v", filter.MaxPrice)
	}
	if filter.MinBedrooms == nil || *filter.MinBedrooms != 2 {
		t.Errorf("MinBedrooms = %v", filter.MinBedrooms)
	}
}

func TestParseFilterFromQueryMalformedNumbersAreUnset(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/properties?min_price=cheap&min_bedrooms=two", nil)

	filter := parseFilterFromQuery(r)
	if filter.MinPrice != nil {
		t.Errorf("MinPrice = %v; want unset", filter.MinPrice)
	}
	if filter.MinBedrooms != nil {
		t.Errorf("MinBedrooms = %v; want unset", filter.MinBedrooms)
	}
}

func TestParseFilterFromQueryEmptyIsUnconstrained(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/properties", nil)

	filter := parseFilterFromQuery(r)
	if filter.Type != "" || filter.MinPrice != nil || filter.City != "" {
		t.Errorf("filter = %+v; want zero value", filter)
	}
}
