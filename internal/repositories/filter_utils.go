package repositories

import (
	"strings"

	"homevistaBack/internal/models"
)

// buildPropertyFilterClauses translates a staged search filter into SQL
// predicates. Predicates combine with AND; an unset field contributes
// nothing, so the empty filter yields the unconstrained query. The price
// range targets monthly_rent for rent searches and price otherwise.
// An inverted range (min > max) is passed through as-is and simply
// matches nothing.
func buildPropertyFilterClauses(f models.PropertyFilter) ([]string, []interface{}) {
	var (
		conditions []string
		params     []interface{}
	)

	if f.Type != "" && f.Type != "all" {
		conditions = append(conditions, "p.type = ?")
		params = append(params, f.Type)
	}

	priceColumn := "p." + f.PriceColumn()
	if f.MinPrice != nil {
		conditions = append(conditions, priceColumn+" >= ?")
		params = append(params, *f.MinPrice)
	}
	if f.MaxPrice != nil {
		conditions = append(conditions, priceColumn+" <= ?")
		params = append(params, *f.MaxPrice)
	}

	if f.MinBedrooms != nil {
		conditions = append(conditions, "p.bedrooms >= ?")
		params = append(params, *f.MinBedrooms)
	}
	if f.MinBathrooms != nil {
		conditions = append(conditions, "p.bathrooms >= ?")
		params = append(params, *f.MinBathrooms)
	}

	if f.PropertyType != "" && f.PropertyType != "all" {
		conditions = append(conditions, "p.property_type = ?")
		params = append(params, strings.ToLower(f.PropertyType))
	}

	if f.City != "" {
		conditions = append(conditions, "LOWER(p.city) LIKE ?")
		params = append(params, "%"+strings.ToLower(strings.TrimSpace(f.City))+"%")
	}
	if f.State != "" {
		conditions = append(conditions, "LOWER(p.state) LIKE ?")
		params = append(params, "%"+strings.ToLower(strings.TrimSpace(f.State))+"%")
	}

	return conditions, params
}
