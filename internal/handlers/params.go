package handlers

import (
	"net/http"
	"strconv"

	"homevistaBack/internal/models"
)

// getParam returns a path or query parameter value regardless of whether
// the router stores it with a leading colon or not.
func getParam(r *http.Request, name string) string {
	if r == nil {
		return ""
	}

	if val := r.URL.Query().Get(":" + name); val != "" {
		return val
	}

	if val := r.URL.Query().Get(name); val != "" {
		return val
	}

	return r.PathValue(name)
}

// contextUserID reads the authenticated user id placed in the request
// context by the JWT middleware. Zero means unauthenticated.
func contextUserID(r *http.Request) int {
	if id, ok := r.Context().Value("user_id").(int); ok {
		return id
	}
	return 0
}

// parseFilterFromQuery builds a search filter from query parameters.
// Empty and malformed numeric values are treated as unset so a sloppy
// query string narrows less rather than erroring.
func parseFilterFromQuery(r *http.Request) models.PropertyFilter {
	q := r.URL.Query()

	filter := models.PropertyFilter{
		Type:         q.Get("type"),
		PropertyType: q.Get("property_type"),
		City:         q.Get("city"),
		State:        q.Get("state"),
	}

	if v := q.Get("min_price"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MinPrice = &f
		}
	}
	if v := q.Get("max_price"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MaxPrice = &f
		}
	}
	if v := q.Get("min_bedrooms"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.MinBedrooms = &n
		}
	}
	if v := q.Get("min_bathrooms"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.MinBathrooms = &n
		}
	}
	return filter
}
