package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"homevistaBack/internal/models"
)

var ErrPropertyNotFound = models.ErrPropertyNotFound

type PropertyRepository struct {
	DB *sql.DB
}

const propertyColumns = `p.id, p.title, p.description, p.type, p.price, p.monthly_rent, p.security_deposit, p.lease_term,
       p.bedrooms, p.bathrooms, p.square_footage, p.property_type, p.year_built,
       p.address, p.city, p.state, p.zip_code, p.latitude, p.longitude,
       p.images, p.listed_by, p.owner_name, p.owner_email, p.owner_phone,
       p.status, p.created_at, p.updated_at`

func (r *PropertyRepository) CreateProperty(ctx context.Context, property models.Property) (models.Property, error) {
	query := `
    INSERT INTO properties (title, description, type, price, monthly_rent, security_deposit, lease_term,
                            bedrooms, bathrooms, square_footage, property_type, year_built,
                            address, city, state, zip_code, latitude, longitude,
                            images, listed_by, owner_name, owner_email, owner_phone, status, created_at)
    VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `

	imagesJSON, err := json.Marshal(property.Images)
	if err != nil {
		return models.Property{}, fmt.Errorf("failed to marshal images: %w", err)
	}

	if property.CreatedAt.IsZero() {
		property.CreatedAt = time.Now()
	}

	result, err := r.DB.ExecContext(ctx, query,
		property.Title,
		property.Description,
		property.Type,
		property.Price,
		property.MonthlyRent,
		property.SecurityDeposit,
		property.LeaseTerm,
		property.Bedrooms,
		property.Bathrooms,
		property.SquareFootage,
		property.PropertyType,
		property.YearBuilt,
		property.Address,
		property.City,
		property.State,
		property.ZipCode,
		property.Latitude,
		property.Longitude,
		string(imagesJSON),
		property.ListedBy,
		property.OwnerName,
		property.OwnerEmail,
		property.OwnerPhone,
		property.Status,
		property.CreatedAt,
	)
	if err != nil {
		return models.Property{}, err
	}

	lastID, err := result.LastInsertId()
	if err != nil {
		return models.Property{}, err
	}
	property.ID = int(lastID)
	return property, nil
}

func (r *PropertyRepository) GetPropertyByID(ctx context.Context, id int) (models.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties p WHERE p.id = ?`

	row := r.DB.QueryRowContext(ctx, query, id)
	property, err := scanProperty(row)
	if err == sql.ErrNoRows {
		return models.Property{}, ErrPropertyNotFound
	}
	if err != nil {
		return models.Property{}, err
	}
	return property, nil
}

// GetPropertiesWithFilters runs the submitted filter against available
// listings. An empty filter returns every available property; an empty
// result set is a valid outcome, not an error.
func (r *PropertyRepository) GetPropertiesWithFilters(ctx context.Context, filter models.PropertyFilter) ([]models.Property, error) {
	conditions, params := buildPropertyFilterClauses(filter)
	conditions = append([]string{"p.status = ?"}, conditions...)
	params = append([]interface{}{models.StatusAvailable}, params...)

	query := `SELECT ` + propertyColumns + ` FROM properties p WHERE ` +
		strings.Join(conditions, " AND ") + ` ORDER BY p.created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	properties := []models.Property{}
	for rows.Next() {
		property, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		properties = append(properties, property)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return properties, nil
}

func (r *PropertyRepository) GetPropertiesByUserID(ctx context.Context, userID int) ([]models.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties p WHERE p.listed_by = ? AND p.status != ? ORDER BY p.created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, userID, models.StatusRemoved)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	properties := []models.Property{}
	for rows.Next() {
		property, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		properties = append(properties, property)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return properties, nil
}

func (r *PropertyRepository) UpdateProperty(ctx context.Context, property models.Property) (models.Property, error) {
	query := `
    UPDATE properties
    SET title = ?, description = ?, type = ?, price = ?, monthly_rent = ?, security_deposit = ?, lease_term = ?,
        bedrooms = ?, bathrooms = ?, square_footage = ?, property_type = ?, year_built = ?,
        address = ?, city = ?, state = ?, zip_code = ?, latitude = ?, longitude = ?,
        images = ?, owner_name = ?, owner_email = ?, owner_phone = ?, status = ?, updated_at = ?
    WHERE id = ?
    `

	imagesJSON, err := json.Marshal(property.Images)
	if err != nil {
		return models.Property{}, fmt.Errorf("failed to marshal images: %w", err)
	}
	updatedAt := time.Now()
	property.UpdatedAt = &updatedAt

	_, err = r.DB.ExecContext(ctx, query,
		property.Title, property.Description, property.Type,
		property.Price, property.MonthlyRent, property.SecurityDeposit, property.LeaseTerm,
		property.Bedrooms, property.Bathrooms, property.SquareFootage, property.PropertyType, property.YearBuilt,
		property.Address, property.City, property.State, property.ZipCode,
		property.Latitude, property.Longitude,
		string(imagesJSON), property.OwnerName, property.OwnerEmail, property.OwnerPhone,
		property.Status, property.UpdatedAt, property.ID,
	)
	if err != nil {
		return models.Property{}, err
	}
	return property, nil
}

func (r *PropertyRepository) UpdateImages(ctx context.Context, id int, images []string) error {
	imagesJSON, err := json.Marshal(images)
	if err != nil {
		return fmt.Errorf("failed to marshal images: %w", err)
	}
	_, err = r.DB.ExecContext(ctx, `UPDATE properties SET images = ? WHERE id = ?`, string(imagesJSON), id)
	return err
}

func (r *PropertyRepository) UpdateStatus(ctx context.Context, id int, status string) error {
	result, err := r.DB.ExecContext(ctx, `UPDATE properties SET status = ?, updated_at = ? WHERE id = ?`, status, time.Now(), id)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrPropertyNotFound
	}
	return nil
}

// DeleteProperty removes a listing. A retry after a successful delete
// affects zero rows and reports not-found rather than failing.
func (r *PropertyRepository) DeleteProperty(ctx context.Context, id int) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM properties WHERE id = ?`, id)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrPropertyNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProperty(row rowScanner) (models.Property, error) {
	var (
		p          models.Property
		price      sql.NullFloat64
		rent       sql.NullFloat64
		deposit    sql.NullFloat64
		leaseTerm  sql.NullInt64
		yearBuilt  sql.NullInt64
		lat, lng   sql.NullFloat64
		imagesJSON []byte
	)

	err := row.Scan(
		&p.ID, &p.Title, &p.Description, &p.Type,
		&price, &rent, &deposit, &leaseTerm,
		&p.Bedrooms, &p.Bathrooms, &p.SquareFootage, &p.PropertyType, &yearBuilt,
		&p.Address, &p.City, &p.State, &p.ZipCode, &lat, &lng,
		&imagesJSON, &p.ListedBy, &p.OwnerName, &p.OwnerEmail, &p.OwnerPhone,
		&p.Status, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return models.Property{}, err
	}

	if price.Valid {
		p.Price = &price.Float64
	}
	if rent.Valid {
		p.MonthlyRent = &rent.Float64
	}
	if deposit.Valid {
		p.SecurityDeposit = &deposit.Float64
	}
	if leaseTerm.Valid {
		term := int(leaseTerm.Int64)
		p.LeaseTerm = &term
	}
	if yearBuilt.Valid {
		p.YearBuilt = int(yearBuilt.Int64)
	}
	if lat.Valid {
		p.Latitude = &lat.Float64
	}
	if lng.Valid {
		p.Longitude = &lng.Float64
	}

	if len(imagesJSON) > 0 {
		if err := json.Unmarshal(imagesJSON, &p.Images); err != nil {
			return models.Property{}, fmt.Errorf("failed to decode images json: %w", err)
		}
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	return p, nil
}
