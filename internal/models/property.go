package models

import (
	"time"
)

// Transaction types for a listing.
const (
	ListingTypeSale = "sale"
	ListingTypeRent = "rent"
)

// Lifecycle statuses. Only "available" vs deleted is exercised by the
// public flows; "under_offer" is kept for profile management.
const (
	StatusAvailable  = "available"
	StatusUnderOffer = "under_offer"
	StatusRemoved    = "removed"
)

type Property struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"`

	// Commercial terms. Price is set for sale listings; the rent trio is
	// set for rent listings. The two groups are mutually exclusive.
	Price           *float64 `json:"price,omitempty"`
	MonthlyRent     *float64 `json:"monthly_rent,omitempty"`
	SecurityDeposit *float64 `json:"security_deposit,omitempty"`
	LeaseTerm       *int     `json:"lease_term,omitempty"`

	Bedrooms      int    `json:"bedrooms"`
	Bathrooms     int    `json:"bathrooms"`
	SquareFootage int    `json:"square_footage"`
	PropertyType  string `json:"property_type"`
	YearBuilt     int    `json:"year_built,omitempty"`

	// Address fields are authoritative; coordinates are derived from a
	// geocode of the address and may be absent.
	Address   string   `json:"address"`
	City      string   `json:"city"`
	State     string   `json:"state"`
	ZipCode   string   `json:"zip_code"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	Images []string `json:"images"`

	ListedBy   int    `json:"listed_by"`
	OwnerName  string `json:"owner_name"`
	OwnerEmail string `json:"owner_email"`
	OwnerPhone string `json:"owner_phone"`

	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// PropertyFilter is the staged search draft. Nil pointers and empty
// strings mean "no constraint"; every set field narrows the query.
type PropertyFilter struct {
	Type         string   `json:"type,omitempty"`
	MinPrice     *float64 `json:"min_price,omitempty"`
	MaxPrice     *float64 `json:"max_price,omitempty"`
	MinBedrooms  *int     `json:"min_bedrooms,omitempty"`
	MinBathrooms *int     `json:"min_bathrooms,omitempty"`
	PropertyType string   `json:"property_type,omitempty"`
	City         string   `json:"city,omitempty"`
	State        string   `json:"state,omitempty"`
}

// PriceColumn returns the column the price range applies to. Rent
// searches filter on monthly rent, everything else on sale price.
func (f PropertyFilter) PriceColumn() string {
	if f.Type == ListingTypeRent {
		return "monthly_rent"
	}
	return "price"
}

type PropertyListResponse struct {
	Properties []Property `json:"properties"`
	Count      int        `json:"count"`
	Message    string     `json:"message"`
}

// SearchResponse is the one-shot search payload: the filtered result set
// plus, when a location was part of the filter and resolved, the viewport
// and the shareable deep-link parameters.
type SearchResponse struct {
	Properties  []Property        `json:"properties"`
	Count       int               `json:"count"`
	Message     string            `json:"message"`
	Viewport    *Viewport         `json:"viewport,omitempty"`
	Location    string            `json:"location,omitempty"`
	ShareParams map[string]string `json:"share_params,omitempty"`
}
