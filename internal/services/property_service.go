package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"homevistaBack/internal/models"
	"homevistaBack/internal/repositories"
)

// ValidationError is a client-side form error. It is raised before any
// store or storage call is made.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

// BlobStorage stores listing images and returns publicly resolvable URLs.
type BlobStorage interface {
	UploadFile(ctx context.Context, data []byte, fileName, folder string) (string, error)
	DeleteFile(ctx context.Context, fileURL string) error
}

// Geocoder resolves a listing address to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (models.GeocodeResult, error)
}

// ImageUpload is one submitted image file, in submission order.
type ImageUpload struct {
	Name string
	Data []byte
}

type PropertyService struct {
	PropertyRepo *repositories.PropertyRepository
	Storage      BlobStorage
	Geocoder     Geocoder
	Notifier     *NotificationService
}

const imageFolder = "property-images"

// CreateProperty validates the submission, inserts the record, then
// uploads images and attaches their URLs. The record is created before
// any blob is written so a failed upload can be rolled back by deleting
// the uploaded blobs and the record, leaving no orphaned images behind.
func (s *PropertyService) CreateProperty(ctx context.Context, property models.Property, images []ImageUpload) (models.Property, error) {
	if err := validateProperty(property, len(images)); err != nil {
		return models.Property{}, err
	}

	property.Status = models.StatusAvailable
	property.Images = []string{}

	// Coordinates are derived; address stays authoritative even when the
	// geocode fails.
	if s.Geocoder != nil {
		address := fmt.Sprintf("%s, %s, %s %s", property.Address, property.City, property.State, property.ZipCode)
		if result, err := s.Geocoder.Geocode(ctx, address); err == nil {
			lat, lng := result.Coordinate.Lat, result.Coordinate.Lng
			property.Latitude = &lat
			property.Longitude = &lng
		} else {
			log.Printf("geocode failed for new listing %q: %v", property.Title, err)
		}
	}

	created, err := s.PropertyRepo.CreateProperty(ctx, property)
	if err != nil {
		return models.Property{}, err
	}

	urls, err := s.uploadImages(ctx, images)
	if err != nil {
		s.cleanupBlobs(ctx, urls)
		if delErr := s.PropertyRepo.DeleteProperty(ctx, created.ID); delErr != nil {
			log.Printf("failed to roll back listing %d after upload error: %v", created.ID, delErr)
		}
		return models.Property{}, fmt.Errorf("failed to upload images: %w", err)
	}

	if err := s.PropertyRepo.UpdateImages(ctx, created.ID, urls); err != nil {
		s.cleanupBlobs(ctx, urls)
		if delErr := s.PropertyRepo.DeleteProperty(ctx, created.ID); delErr != nil {
			log.Printf("failed to roll back listing %d after attach error: %v", created.ID, delErr)
		}
		return models.Property{}, err
	}
	created.Images = urls

	if s.Notifier != nil {
		if err := s.Notifier.ListingPublished(ctx, created); err != nil {
			log.Printf("publish notification for listing %d: %v", created.ID, err)
		}
	}
	return created, nil
}

func (s *PropertyService) GetPropertyByID(ctx context.Context, id int) (models.Property, error) {
	return s.PropertyRepo.GetPropertyByID(ctx, id)
}

// FindProperties runs a submitted search filter.
func (s *PropertyService) FindProperties(ctx context.Context, filter models.PropertyFilter) ([]models.Property, error) {
	return s.PropertyRepo.GetPropertiesWithFilters(ctx, filter)
}

func (s *PropertyService) GetPropertiesByUserID(ctx context.Context, userID int) ([]models.Property, error) {
	return s.PropertyRepo.GetPropertiesByUserID(ctx, userID)
}

// UpdateProperty applies a lister's edit. removeImages names image URLs
// to drop; newImages are appended after the kept ones, preserving
// submission order.
func (s *PropertyService) UpdateProperty(ctx context.Context, property models.Property, userID int, removeImages []string, newImages []ImageUpload) (models.Property, error) {
	existing, err := s.PropertyRepo.GetPropertyByID(ctx, property.ID)
	if err != nil {
		return models.Property{}, err
	}
	if existing.ListedBy != userID {
		return models.Property{}, models.ErrNotListingOwner
	}

	kept, removed := filterImages(existing.Images, removeImages)

	urls, err := s.uploadImages(ctx, newImages)
	if err != nil {
		s.cleanupBlobs(ctx, urls)
		return models.Property{}, fmt.Errorf("failed to upload images: %w", err)
	}
	property.Images = append(kept, urls...)

	if len(property.Images) == 0 {
		s.cleanupBlobs(ctx, urls)
		return models.Property{}, ValidationError("a listing needs at least one image")
	}

	property.Type = existing.Type // transaction type is immutable after creation
	property.ListedBy = existing.ListedBy
	if property.Status == "" {
		property.Status = existing.Status
	}

	updated, err := s.PropertyRepo.UpdateProperty(ctx, property)
	if err != nil {
		s.cleanupBlobs(ctx, urls)
		return models.Property{}, err
	}

	s.cleanupBlobs(ctx, removed)
	return updated, nil
}

// ChangeStatus moves a lister's own listing between available and
// under_offer without touching the rest of the record.
func (s *PropertyService) ChangeStatus(ctx context.Context, id, userID int, status string) error {
	if status != models.StatusAvailable && status != models.StatusUnderOffer {
		return ValidationError("status must be available or under_offer")
	}

	existing, err := s.PropertyRepo.GetPropertyByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.ListedBy != userID {
		return models.ErrNotListingOwner
	}
	return s.PropertyRepo.UpdateStatus(ctx, id, status)
}

// DeleteProperty removes a lister's own listing. Retrying after success
// reports not-found rather than failing.
func (s *PropertyService) DeleteProperty(ctx context.Context, id, userID int) error {
	existing, err := s.PropertyRepo.GetPropertyByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.ListedBy != userID {
		return models.ErrNotListingOwner
	}

	if err := s.PropertyRepo.DeleteProperty(ctx, id); err != nil {
		return err
	}
	s.cleanupBlobs(ctx, existing.Images)
	return nil
}

func (s *PropertyService) uploadImages(ctx context.Context, images []ImageUpload) ([]string, error) {
	urls := []string{}
	for _, img := range images {
		url, err := s.Storage.UploadFile(ctx, img.Data, img.Name, imageFolder)
		if err != nil {
			return urls, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

// cleanupBlobs deletes uploaded blobs best-effort; a leftover blob is
// logged, never surfaced to the caller.
func (s *PropertyService) cleanupBlobs(ctx context.Context, urls []string) {
	for _, url := range urls {
		if err := s.Storage.DeleteFile(ctx, url); err != nil {
			log.Printf("failed to delete blob %s: %v", url, err)
		}
	}
}

func validateProperty(property models.Property, imageCount int) error {
	if strings.TrimSpace(property.Title) == "" {
		return ValidationError("title is required")
	}
	if property.Type != models.ListingTypeSale && property.Type != models.ListingTypeRent {
		return ValidationError("type must be sale or rent")
	}
	switch property.Type {
	case models.ListingTypeSale:
		if property.Price == nil || *property.Price <= 0 {
			return ValidationError("valid price is required")
		}
		if property.MonthlyRent != nil || property.SecurityDeposit != nil || property.LeaseTerm != nil {
			return ValidationError("rent terms are not allowed on a sale listing")
		}
	case models.ListingTypeRent:
		if property.MonthlyRent == nil || *property.MonthlyRent <= 0 {
			return ValidationError("valid monthly rent is required")
		}
		if property.SecurityDeposit == nil || *property.SecurityDeposit < 0 {
			return ValidationError("valid security deposit is required")
		}
		if property.LeaseTerm == nil || *property.LeaseTerm <= 0 {
			return ValidationError("valid lease term is required")
		}
		if property.Price != nil {
			return ValidationError("sale price is not allowed on a rent listing")
		}
	}
	if property.Bedrooms < 0 || property.Bathrooms < 0 {
		return ValidationError("bedrooms and bathrooms cannot be negative")
	}
	if property.SquareFootage <= 0 {
		return ValidationError("valid square footage is required")
	}
	if strings.TrimSpace(property.Address) == "" || strings.TrimSpace(property.City) == "" ||
		strings.TrimSpace(property.State) == "" || strings.TrimSpace(property.ZipCode) == "" {
		return ValidationError("full address is required")
	}
	if strings.TrimSpace(property.OwnerName) == "" {
		return ValidationError("contact name is required")
	}
	if strings.TrimSpace(property.OwnerEmail) == "" {
		return ValidationError("contact email is required")
	}
	if strings.TrimSpace(property.OwnerPhone) == "" {
		return ValidationError("contact phone is required")
	}
	if imageCount == 0 {
		return ValidationError("please upload at least one image")
	}
	return nil
}

func filterImages(images []string, remove []string) (kept, removed []string) {
	if len(remove) == 0 {
		return images, nil
	}
	removeSet := make(map[string]struct{}, len(remove))
	for _, r := range remove {
		removeSet[r] = struct{}{}
	}
	for _, img := range images {
		if _, ok := removeSet[img]; ok {
			removed = append(removed, img)
			continue
		}
		kept = append(kept, img)
	}
	return kept, removed
}
