package search

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"homevistaBack/internal/models"
)

// PropertyFinder runs a submitted filter against the property store.
type PropertyFinder interface {
	FindProperties(ctx context.Context, filter models.PropertyFilter) ([]models.Property, error)
}

// Geocoder resolves free text to a best-match coordinate.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (models.GeocodeResult, error)
}

// State of the map view synchronizer.
type State int

const (
	StateIdle State = iota
	StateCentered
	StateMarked
)

func (s State) String() string {
	switch s {
	case StateCentered:
		return "centered"
	case StateMarked:
		return "marked"
	default:
		return "idle"
	}
}

// Event kinds pushed to the session.
const (
	EventResults     = "results"
	EventQueryError  = "query_error"
	EventViewport    = "viewport"
	EventGeocodeMiss = "geocode_miss"
)

// Event is a single update from the coordinator. Query and geocode events
// arrive independently, in whichever order the calls resolve.
type Event struct {
	Kind        string            `json:"kind"`
	Properties  []models.Property `json:"properties,omitempty"`
	Count       int               `json:"count"`
	Message     string            `json:"message,omitempty"`
	Viewport    *models.Viewport  `json:"viewport,omitempty"`
	Location    string            `json:"location,omitempty"`
	ShareParams map[string]string `json:"share_params,omitempty"`
	Error       string            `json:"error,omitempty"`
}

// Marker is a search result projected onto the map.
type Marker struct {
	PropertyID int               `json:"property_id"`
	Coordinate models.Coordinate `json:"coordinate"`
}

// Seed is the deep-link state a coordinator starts from (URL parameters
// city, state, lat, lng, location).
type Seed struct {
	City     string
	State    string
	Lat      string
	Lng      string
	Location string
}

// Coordinator owns the filter draft, the latest result set and the map
// viewport for one search session. Filter edits never trigger network
// calls; Submit runs the store query and, when a location is staged, the
// geocode concurrently. Each in-flight call carries a token and only the
// most recently issued token may apply its result, so a stale response
// that loses the race is discarded. After Close every late response is
// dropped.
type Coordinator struct {
	finder   PropertyFinder
	geocoder Geocoder

	mu         sync.Mutex
	filter     models.PropertyFilter
	results    []models.Property
	markers    []Marker
	selectedID int
	viewport   models.Viewport
	state      State
	location   string
	querySeq   uint64
	geocodeSeq uint64
	closed     bool

	events chan Event
}

// NewCoordinator builds a session seeded from deep-link parameters. A
// lat/lng pair centers the viewport immediately; a location string alone
// is geocoded asynchronously, same token discipline as a submit.
func NewCoordinator(finder PropertyFinder, geocoder Geocoder, seed Seed) *Coordinator {
	c := &Coordinator{
		finder:   finder,
		geocoder: geocoder,
		viewport: models.DefaultViewport(),
		state:    StateIdle,
		results:  []models.Property{},
		events:   make(chan Event, 32),
	}
	c.filter.City = strings.TrimSpace(seed.City)
	c.filter.State = strings.TrimSpace(seed.State)

	lat, errLat := strconv.ParseFloat(seed.Lat, 64)
	lng, errLng := strconv.ParseFloat(seed.Lng, 64)
	switch {
	case seed.Lat != "" && seed.Lng != "" && errLat == nil && errLng == nil:
		c.viewport = models.Viewport{
			Center: models.Coordinate{Lat: lat, Lng: lng},
			Zoom:   models.PlaceZoom,
		}
		c.state = StateCentered
		c.location = seed.Location
	case seed.Location != "":
		c.resolveLocation(context.Background(), seed.Location, models.PlaceZoom)
	}
	return c
}

// Events delivers coordinator updates. The channel is never closed;
// consumers stop reading once they call Close.
func (c *Coordinator) Events() <-chan Event {
	return c.events
}

// SetFilter updates exactly one field of the staged draft. An empty value
// unsets the field. No query or map side effect happens here.
func (c *Coordinator) SetFilter(field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	value = strings.TrimSpace(value)
	switch field {
	case "type":
		c.filter.Type = value
	case "min_price":
		f, err := parseOptionalFloat(value)
		if err != nil {
			return err
		}
		c.filter.MinPrice = f
	case "max_price":
		f, err := parseOptionalFloat(value)
		if err != nil {
			return err
		}
		c.filter.MaxPrice = f
	case "min_bedrooms":
		n, err := parseOptionalInt(value)
		if err != nil {
			return err
		}
		c.filter.MinBedrooms = n
	case "min_bathrooms":
		n, err := parseOptionalInt(value)
		if err != nil {
			return err
		}
		c.filter.MinBathrooms = n
	case "property_type":
		c.filter.PropertyType = value
	case "city":
		c.filter.City = value
	case "state":
		c.filter.State = value
	default:
		return fmt.Errorf("unknown filter field %q", field)
	}
	return nil
}

// Filter returns a snapshot of the staged draft.
func (c *Coordinator) Filter() models.PropertyFilter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// Submit snapshots the draft and starts the store query and, when a city
// is staged, the geocode. The two calls run concurrently and neither
// waits on the other; the UI must be correct whichever resolves first.
func (c *Coordinator) Submit(ctx context.Context) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	filter := c.filter
	c.querySeq++
	queryToken := c.querySeq
	c.mu.Unlock()

	go c.runQuery(ctx, queryToken, filter)

	if filter.City != "" {
		query := filter.City
		if filter.State != "" {
			query = fmt.Sprintf("%s, %s", filter.City, filter.State)
		}
		c.resolveLocation(ctx, query, models.CityZoom)
	}
}

func (c *Coordinator) runQuery(ctx context.Context, token uint64, filter models.PropertyFilter) {
	properties, err := c.finder.FindProperties(ctx, filter)

	c.mu.Lock()
	if c.closed || token != c.querySeq {
		c.mu.Unlock()
		return
	}
	if err != nil {
		// previous result set stays; user may retry by resubmitting
		c.mu.Unlock()
		c.emit(Event{Kind: EventQueryError, Error: "Error fetching properties"})
		return
	}

	if properties == nil {
		properties = []models.Property{}
	}
	c.results = properties
	c.selectedID = 0
	c.markers = projectMarkers(properties)
	c.state = StateMarked
	c.mu.Unlock()

	c.emit(Event{
		Kind:       EventResults,
		Properties: properties,
		Count:      len(properties),
		Message:    resultMessage(len(properties)),
	})
}

// resolveLocation issues a token-tracked geocode. On success the viewport
// recenters and narrows regardless of whether the paired query resolved;
// on failure the viewport is left untouched and the result list is never
// blocked.
func (c *Coordinator) resolveLocation(ctx context.Context, query string, zoom int) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.geocodeSeq++
	token := c.geocodeSeq
	c.mu.Unlock()

	go func() {
		result, err := c.geocoder.Geocode(ctx, query)

		c.mu.Lock()
		if c.closed || token != c.geocodeSeq {
			c.mu.Unlock()
			return
		}
		if err != nil {
			c.mu.Unlock()
			c.emit(Event{Kind: EventGeocodeMiss, Error: fmt.Sprintf("Could not locate %q", query)})
			return
		}

		c.viewport = models.Viewport{Center: result.Coordinate, Zoom: zoom}
		if c.state != StateMarked {
			c.state = StateCentered
		}
		c.location = result.FormattedAddress
		viewport := c.viewport
		c.mu.Unlock()

		c.emit(Event{
			Kind:     EventViewport,
			Viewport: &viewport,
			Location: result.FormattedAddress,
			ShareParams: map[string]string{
				"lat":      strconv.FormatFloat(result.Coordinate.Lat, 'f', -1, 64),
				"lng":      strconv.FormatFloat(result.Coordinate.Lng, 'f', -1, 64),
				"location": result.FormattedAddress,
			},
		})
	}()
}

// Select activates a property by id, whether the click came from the
// result list or a map marker, and returns the shared detail payload.
func (c *Coordinator) Select(propertyID int) (models.Property, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range c.results {
		if p.ID == propertyID {
			c.selectedID = propertyID
			return p, nil
		}
	}
	return models.Property{}, models.ErrPropertyNotFound
}

// Selected returns the currently selected property, if any.
func (c *Coordinator) Selected() (models.Property, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selectedID == 0 {
		return models.Property{}, false
	}
	for _, p := range c.results {
		if p.ID == c.selectedID {
			return p, true
		}
	}
	return models.Property{}, false
}

// Results returns the latest result set.
func (c *Coordinator) Results() []models.Property {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.results
}

// Markers returns the current marker set. It is replaced wholesale on
// every result update, never diffed.
func (c *Coordinator) Markers() []Marker {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.markers
}

// Viewport returns the current map viewport.
func (c *Coordinator) Viewport() models.Viewport {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewport
}

// Location returns the normalized display string of the last resolved
// location, if any.
func (c *Coordinator) Location() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.location
}

// State reports the synchronizer state: idle, centered or marked.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Close detaches the session. In-flight query and geocode responses that
// arrive afterwards are discarded instead of being applied to a dead view.
func (c *Coordinator) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

func (c *Coordinator) emit(event Event) {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return
	}
	select {
	case c.events <- event:
	default:
		// slow consumer; drop rather than block the resolver
	}
}

func projectMarkers(properties []models.Property) []Marker {
	markers := []Marker{}
	for _, p := range properties {
		if p.Latitude == nil || p.Longitude == nil {
			continue
		}
		markers = append(markers, Marker{
			PropertyID: p.ID,
			Coordinate: models.Coordinate{Lat: *p.Latitude, Lng: *p.Longitude},
		})
	}
	return markers
}

func resultMessage(count int) string {
	if count == 0 {
		return "No properties found matching your criteria"
	}
	return fmt.Sprintf("Found %d properties matching your criteria", count)
}

func parseOptionalFloat(value string) (*float64, error) {
	if value == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q", value)
	}
	return &f, nil
}

func parseOptionalInt(value string) (*int, error) {
	if value == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q", value)
	}
	return &n, nil
}
