package models

// Coordinate is a WGS84 pair.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Viewport is the map's current center and zoom.
type Viewport struct {
	Center Coordinate `json:"center"`
	Zoom   int        `json:"zoom"`
}

// Zoom levels. DefaultZoom shows the whole region; a resolved geocode
// narrows to CityZoom, a URL-supplied coordinate to PlaceZoom.
const (
	DefaultZoom = 5
	CityZoom    = 12
	PlaceZoom   = 14
)

// DefaultViewport is the region-wide view shown before any location
// resolves.
func DefaultViewport() Viewport {
	return Viewport{Center: Coordinate{Lat: 40.7128, Lng: -74.0060}, Zoom: DefaultZoom}
}

// GeocodeResult is a single best-match forward-geocode answer.
type GeocodeResult struct {
	Coordinate       Coordinate `json:"coordinate"`
	FormattedAddress string     `json:"formatted_address"`
}
