package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"sync"

	"homevistaBack/internal/models"
	"homevistaBack/internal/search"
)

// SearchHandler serves the one-shot property search: the store query and
// the location geocode run concurrently and neither waits on the other.
// A geocode failure never blocks the result list; a query failure is the
// only thing that fails the request.
type SearchHandler struct {
	Properties search.PropertyFinder
	Geocoder   search.Geocoder
}

func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	filter := parseFilterFromQuery(r)
	location := r.URL.Query().Get("location")

	geocodeQuery := location
	if geocodeQuery == "" && filter.City != "" {
		geocodeQuery = filter.City
		if filter.State != "" {
			geocodeQuery = fmt.Sprintf("%s, %s", filter.City, filter.State)
		}
	}

	var (
		wg         sync.WaitGroup
		properties []models.Property
		queryErr   error
		geocode    models.GeocodeResult
		geocodeErr error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		properties, queryErr = h.Properties.FindProperties(r.Context(), filter)
	}()

	if geocodeQuery != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			geocode, geocodeErr = h.Geocoder.Geocode(r.Context(), geocodeQuery)
		}()
	} else {
		geocodeErr = models.ErrGeocodeNoMatch
	}

	wg.Wait()

	if queryErr != nil {
		log.Printf("Search query error: %v", queryErr)
		http.Error(w, "Error fetching properties", http.StatusInternalServerError)
		return
	}

	response := models.SearchResponse{
		Properties: properties,
		Count:      len(properties),
	}
	if len(properties) == 0 {
		response.Message = "No properties found matching your criteria"
	} else {
		response.Message = fmt.Sprintf("Found %d properties matching your criteria", len(properties))
	}

	if geocodeErr == nil {
		response.Viewport = &models.Viewport{
			Center: geocode.Coordinate,
			Zoom:   models.CityZoom,
		}
		response.Location = geocode.FormattedAddress
		response.ShareParams = map[string]string{
			"lat":      strconv.FormatFloat(geocode.Coordinate.Lat, 'f', -1, 64),
			"lng":      strconv.FormatFloat(geocode.Coordinate.Lng, 'f', -1, 64),
			"location": geocode.FormattedAddress,
		}
	} else if geocodeQuery != "" {
		log.Printf("Search geocode miss for %q: %v", geocodeQuery, geocodeErr)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
