package repositories

import (
	"reflect"
	"testing"

	"homevistaBack/internal/models"
)

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }

func TestBuildPropertyFilterClausesEmptyFilter(t *testing.T) {
	conditions, params := buildPropertyFilterClauses(models.PropertyFilter{})
	if len(conditions) != 0 || len(params) != 0 {
		t.Errorf("empty filter produced %v / %v; want nothing", conditions, params)
	}
}

func TestBuildPropertyFilterClausesTypeAllIsUnset(t *testing.T) {
	conditions, _ := buildPropertyFilterClauses(models.PropertyFilter{Type: "all", PropertyType: "all"})
	if len(conditions) != 0 {
		t.Errorf(`"all" must not constrain; got %v`, conditions)
	}
}

func TestBuildPropertyFilterClausesRentUsesMonthlyRent(t *testing.T) {
	filter := models.PropertyFilter{
		Type:     "rent",
		MinPrice: fptr(500),
		MaxPrice: fptr(2000),
	}
	conditions, params := buildPropertyFilterClauses(filter)

	wantConditions := []string{"p.type = ?", "p.monthly_rent >= ?", "p.monthly_rent <= ?"}
	if !reflect.DeepEqual(conditions, wantConditions) {
		t.Errorf("conditions = %v; want %v", conditions, wantConditions)
	}
	wantParams := []interface{}{"rent", 500.0, 2000.0}
	if !reflect.DeepEqual(params, wantParams) {
		t.Errorf("params = %v; want %v", params, wantParams)
	}
}

func TestBuildPropertyFilterClausesSaleUsesPrice(t *testing.T) {
	conditions, _ := buildPropertyFilterClauses(models.PropertyFilter{Type: "sale", MinPrice: fptr(100000)})
	want := []string{"p.type = ?", "p.price >= ?"}
	if !reflect.DeepEqual(conditions, want) {
		t.Errorf("conditions = %v; want %v", conditions, want)
	}
}

func TestBuildPropertyFilterClausesCityIsSubstringMatch(t *testing.T) {
	conditions, params := buildPropertyFilterClauses(models.PropertyFilter{City: "  Austin "})
	if len(conditions) != 1 || conditions[0] != "LOWER(p.city) LIKE ?" {
		t.Fatalf("conditions = %v", conditions)
	}
	if params[0] != "%austin%" {
		t.Errorf("param = %v; want %%austin%%", params[0])
	}
}

func TestBuildPropertyFilterClausesCombined(t *testing.T) {
	filter := models.PropertyFilter{
		Type:         "rent",
		City:         "Austin",
		MinBedrooms:  iptr(2),
		MinBathrooms: iptr(1),
		PropertyType: "Apartment",
	}
	conditions, params := buildPropertyFilterClauses(filter)

	wantConditions := []string{
		"p.type = ?",
		"p.bedrooms >= ?",
		"p.bathrooms >= ?",
		"p.property_type = ?",
		"LOWER(p.city) LIKE ?",
	}
	if !reflect.DeepEqual(conditions, wantConditions) {
		t.Errorf("conditions = %v; want %v", conditions, wantConditions)
	}
	if params[3] != "apartment" {
		t.Errorf("property_type param = %v; want lowercased", params[3])
	}
}

func TestBuildPropertyFilterClausesInvertedRangePassesThrough(t *testing.T) {
	conditions, params := buildPropertyFilterClauses(models.PropertyFilter{
		MinPrice: fptr(900000),
		MaxPrice: fptr(100000),
	})
	want := []string{"p.price >= ?", "p.price <= ?"}
	if !reflect.DeepEqual(conditions, want) {
		t.Errorf("conditions = %v; want the range as given", conditions)
	}
	if params[0] != 900000.0 || params[1] != 100000.0 {
		t.Errorf("params = %v", params)
	}
}
