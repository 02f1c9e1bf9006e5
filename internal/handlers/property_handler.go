package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"homevistaBack/internal/models"
	"homevistaBack/internal/services"
)

const maxUploadMemory = 32 << 20 // 32 MB

type PropertyHandler struct {
	Service *services.PropertyService
}

// CreateProperty handles a listing submission: a multipart form with a
// "property" JSON field and one or more "images" files. Validation
// failures are rejected before any store or storage call is made.
func (h *PropertyHandler) CreateProperty(w http.ResponseWriter, r *http.Request) {
	userID := contextUserID(r)
	if userID == 0 {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	var property models.Property
	if err := json.Unmarshal([]byte(r.FormValue("property")), &property); err != nil {
		http.Error(w, "Invalid property payload", http.StatusBadRequest)
		return
	}
	property.ListedBy = userID

	images, err := readImageFiles(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := h.Service.CreateProperty(r.Context(), property, images)
	if err != nil {
		var validationErr services.ValidationError
		if errors.As(err, &validationErr) {
			http.Error(w, validationErr.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("CreateProperty error: %v", err)
		http.Error(w, "Failed to create property listing", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

func (h *PropertyHandler) GetPropertyByID(w http.ResponseWriter, r *http.Request) {
	idStr := getParam(r, "id")
	if idStr == "" {
		http.Error(w, "Missing property ID", http.StatusBadRequest)
		return
	}

	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "Invalid property ID", http.StatusBadRequest)
		return
	}

	property, err := h.Service.GetPropertyByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrPropertyNotFound) {
			http.Error(w, "Property not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to fetch property", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(property)
}

// GetFilteredProperties runs a submitted search filter. An empty result
// set is a valid outcome and carries its own message, distinct from an
// error.
func (h *PropertyHandler) GetFilteredProperties(w http.ResponseWriter, r *http.Request) {
	filter := parseFilterFromQuery(r)

	properties, err := h.Service.FindProperties(r.Context(), filter)
	if err != nil {
		log.Printf("GetFilteredProperties error: %v", err)
		http.Error(w, "Error fetching properties", http.StatusInternalServerError)
		return
	}

	response := models.PropertyListResponse{
		Properties: properties,
		Count:      len(properties),
	}
	if len(properties) == 0 {
		response.Message = "No properties found matching your criteria"
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// GetMyProperties lists the authenticated user's own listings.
func (h *PropertyHandler) GetMyProperties(w http.ResponseWriter, r *http.Request) {
	userID := contextUserID(r)
	if userID == 0 {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	properties, err := h.Service.GetPropertiesByUserID(r.Context(), userID)
	if err != nil {
		log.Printf("GetMyProperties error: %v", err)
		http.Error(w, "Failed to fetch listings", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(models.PropertyListResponse{Properties: properties, Count: len(properties)})
}

// UpdateProperty edits a lister's own listing. delete_images form values
// name image URLs to drop; new "images" files are appended after the
// kept ones.
func (h *PropertyHandler) UpdateProperty(w http.ResponseWriter, r *http.Request) {
	userID := contextUserID(r)
	if userID == 0 {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	idStr := getParam(r, "id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "Invalid property ID", http.StatusBadRequest)
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	var property models.Property
	if err := json.Unmarshal([]byte(r.FormValue("property")), &property); err != nil {
		http.Error(w, "Invalid property payload", http.StatusBadRequest)
		return
	}
	property.ID = id

	removeImages := r.MultipartForm.Value["delete_images"]

	newImages, err := readImageFiles(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	updated, err := h.Service.UpdateProperty(r.Context(), property, userID, removeImages, newImages)
	if err != nil {
		var validationErr services.ValidationError
		switch {
		case errors.As(err, &validationErr):
			http.Error(w, validationErr.Error(), http.StatusBadRequest)
		case errors.Is(err, models.ErrPropertyNotFound):
			http.Error(w, "Property not found", http.StatusNotFound)
		case errors.Is(err, models.ErrNotListingOwner):
			http.Error(w, "Only the lister can edit this listing", http.StatusForbidden)
		default:
			log.Printf("UpdateProperty error: %v", err)
			http.Error(w, "Failed to update property", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}

// ChangeStatus toggles a lister's own listing between available and
// under_offer.
func (h *PropertyHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	userID := contextUserID(r)
	if userID == 0 {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	idStr := getParam(r, "id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "Invalid property ID", http.StatusBadRequest)
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	err = h.Service.ChangeStatus(r.Context(), id, userID, req.Status)
	if err != nil {
		var validationErr services.ValidationError
		switch {
		case errors.As(err, &validationErr):
			http.Error(w, validationErr.Error(), http.StatusBadRequest)
		case errors.Is(err, models.ErrPropertyNotFound):
			http.Error(w, "Property not found", http.StatusNotFound)
		case errors.Is(err, models.ErrNotListingOwner):
			http.Error(w, "Only the lister can change this listing", http.StatusForbidden)
		default:
			log.Printf("ChangeStatus error: %v", err)
			http.Error(w, "Failed to change status", http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteProperty removes a lister's own listing. A repeat of a
// successful delete answers 404, never a crash.
func (h *PropertyHandler) DeleteProperty(w http.ResponseWriter, r *http.Request) {
	userID := contextUserID(r)
	if userID == 0 {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	idStr := getParam(r, "id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "Invalid property ID", http.StatusBadRequest)
		return
	}

	err = h.Service.DeleteProperty(r.Context(), id, userID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrPropertyNotFound):
			http.Error(w, "Property not found", http.StatusNotFound)
		case errors.Is(err, models.ErrNotListingOwner):
			http.Error(w, "Only the lister can delete this listing", http.StatusForbidden)
		default:
			log.Printf("DeleteProperty error: %v", err)
			http.Error(w, "Failed to delete property", http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// readImageFiles collects uploaded image files in submission order.
func readImageFiles(r *http.Request) ([]services.ImageUpload, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}

	var images []services.ImageUpload
	for _, header := range r.MultipartForm.File["images"] {
		file, err := header.Open()
		if err != nil {
			return nil, errors.New("failed to read uploaded image")
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return nil, errors.New("failed to read uploaded image")
		}
		images = append(images, services.ImageUpload{Name: header.Filename, Data: data})
	}
	return images, nil
}
