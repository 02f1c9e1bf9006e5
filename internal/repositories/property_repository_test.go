package repositories

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"homevistaBack/internal/models"
)

var propertyRows = []string{
	"id", "title", "description", "type", "price", "monthly_rent", "security_deposit", "lease_term",
	"bedrooms", "bathrooms", "square_footage", "property_type", "year_built",
	"address", "city", "state", "zip_code", "latitude", "longitude",
	"images", "listed_by", "owner_name", "owner_email", "owner_phone",
	"status", "created_at", "updated_at",
}

func newMock(t *testing.T) (*PropertyRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return &PropertyRepository{DB: db}, mock
}

func addSampleRow(rows *sqlmock.Rows, id int, title string) *sqlmock.Rows {
	return rows.AddRow(
		id, title, "Quiet street", "sale", 450000.0, nil, nil, nil,
		3, 2, 1800, "house", 1998,
		"12 Oak St", "Austin", "TX", "78701", 30.26, -97.74,
		`["https://cdn.example.com/a.jpg"]`, 5, "Pat Doe", "pat@example.com", "555-0100",
		models.StatusAvailable, time.Now(), nil,
	)
}

func TestGetPropertiesWithFiltersScopesToAvailable(t *testing.T) {
	repo, mock := newMock(t)

	rows := addSampleRow(sqlmock.NewRows(propertyRows), 1, "Downtown loft")
	mock.ExpectQuery(`(?s)SELECT .+ FROM properties p WHERE p\.status = \? AND p\.type = \? AND LOWER\(p\.city\) LIKE \? ORDER BY p\.created_at DESC`).
		WithArgs(models.StatusAvailable, "rent", "%austin%").
		WillReturnRows(rows)

	properties, err := repo.GetPropertiesWithFilters(context.Background(), models.PropertyFilter{
		Type: "rent",
		City: "Austin",
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(properties) != 1 || properties[0].Title != "Downtown loft" {
		t.Errorf("properties = %+v", properties)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestGetPropertiesWithFiltersEmptyFilterStillScoped(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`(?s)SELECT .+ FROM properties p WHERE p\.status = \? ORDER BY p\.created_at DESC`).
		WithArgs(models.StatusAvailable).
		WillReturnRows(sqlmock.NewRows(propertyRows))

	properties, err := repo.GetPropertiesWithFilters(context.Background(), models.PropertyFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if properties == nil {
		t.Error("empty result must be an empty slice, not nil")
	}
	if len(properties) != 0 {
		t.Errorf("properties = %+v; want none", properties)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestGetPropertyByIDNotFound(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`(?s)SELECT .+ FROM properties p WHERE p\.id = \?`).
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows(propertyRows))

	_, err := repo.GetPropertyByID(context.Background(), 42)
	if !errors.Is(err, ErrPropertyNotFound) {
		t.Errorf("err = %v; want ErrPropertyNotFound", err)
	}
}

func TestGetPropertyByIDDecodesImages(t *testing.T) {
	repo, mock := newMock(t)

	rows := addSampleRow(sqlmock.NewRows(propertyRows), 7, "Hill country ranch")
	mock.ExpectQuery(`(?s)SELECT .+ FROM properties p WHERE p\.id = \?`).
		WithArgs(7).
		WillReturnRows(rows)

	property, err := repo.GetPropertyByID(context.Background(), 7)
	if err != nil {
		t.Fatal(err)
	}
	if len(property.Images) != 1 || property.Images[0] != "https://cdn.example.com/a.jpg" {
		t.Errorf("images = %v", property.Images)
	}
	if property.Latitude == nil || *property.Latitude != 30.26 {
		t.Errorf("latitude = %v", property.Latitude)
	}
}

func TestCreatePropertyReturnsInsertedID(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO properties")).
		WillReturnResult(sqlmock.NewResult(12, 1))

	property, err := repo.CreateProperty(context.Background(), models.Property{
		Title:  "Downtown loft",
		Type:   models.ListingTypeSale,
		Images: []string{},
		Status: models.StatusAvailable,
	})
	if err != nil {
		t.Fatal(err)
	}
	if property.ID != 12 {
		t.Errorf("ID = %d; want 12", property.ID)
	}
}

func TestDeletePropertyRepeatReportsNotFound(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM properties WHERE id = ?")).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM properties WHERE id = ?")).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.DeleteProperty(context.Background(), 3); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	err := repo.DeleteProperty(context.Background(), 3)
	if !errors.Is(err, ErrPropertyNotFound) {
		t.Errorf("repeat delete err = %v; want ErrPropertyNotFound", err)
	}
}

func TestUpdateStatusNotFound(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE properties SET status = ?, updated_at = ? WHERE id = ?")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), 99, models.StatusUnderOffer)
	if !errors.Is(err, ErrPropertyNotFound) {
		t.Errorf("err = %v; want ErrPropertyNotFound", err)
	}
}
