package controllers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/propnest/backend/cache"
	"github.com/propnest/backend/models"
	"github.com/propnest/backend/store"
)

// ListProperties serves the public filtered listing feed. Reads are
// cache-aside: the cache key is derived from the canonical filter
// serialization, so identical filters share an entry.
func ListProperties(db Store, rdb Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := models.ParsePropertyFilter(r.URL.Query())
		key := cache.PropertiesKey(filter.CanonicalString())

		var cached []models.Property
		if rdb.GetJSON(r.Context(), key, &cached) {
			log.Debug().Str("key", key).Msg("cache hit")
			respondJSON(w, http.StatusOK, cached)
			return
		}

		properties, err := db.FindProperties(r.Context(), filter.Query())
		if err != nil {
			log.Error().Err(err).Msg("listing properties failed")
			respondError(w, http.StatusInternalServerError, "Error fetching properties")
			return
		}

		rdb.SetJSON(r.Context(), key, properties, cache.DefaultTTL)
		respondJSON(w, http.StatusOK, properties)
	}
}

func GetProperty(db Store, rdb Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		objID, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid property ID")
			return
		}

		key := cache.PropertyKey(id)
		var cached models.Property
		if rdb.GetJSON(r.Context(), key, &cached) {
			respondJSON(w, http.StatusOK, cached)
			return
		}

		property, err := db.FindPropertyByID(r.Context(), objID)
		if err == store.ErrNotFound {
			respondError(w, http.StatusNotFound, "Property not found")
			return
		}
		if err != nil {
			log.Error().Err(err).Str("id", id).Msg("fetching property failed")
			respondError(w, http.StatusInternalServerError, "Error fetching property")
			return
		}

		rdb.SetJSON(r.Context(), key, property, cache.DefaultTTL)
		respondJSON(w, http.StatusOK, property)
	}
}

func CreateProperty(db Store, rdb Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userIDFromContext(r)
		if !ok {
			respondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		ownerID, err := primitive.ObjectIDFromHex(userID)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var property models.Property
		if err := json.NewDecoder(r.Body).Decode(&property); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if missing := missingPropertyFields(property); len(missing) > 0 {
			respondError(w, http.StatusBadRequest, "Missing required fields: "+strings.Join(missing, ", "))
			return
		}

		now := time.Now()
		property.ID = primitive.NewObjectID()
		property.ListedBy = ownerID
		property.Owner = nil
		property.CreatedAt = now
		property.UpdatedAt = now

		if err := db.InsertProperty(r.Context(), &property); err != nil {
			log.Error().Err(err).Msg("creating property failed")
			respondError(w, http.StatusInternalServerError, "Error creating property")
			return
		}

		rdb.DeletePrefix(r.Context(), cache.PropertiesPrefix)
		respondJSON(w, http.StatusCreated, property)
	}
}

func UpdateProperty(db Store, rdb Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userIDFromContext(r)
		if !ok {
			respondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		id := mux.Vars(r)["id"]
		objID, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid property ID")
			return
		}

		existing, err := db.GetProperty(r.Context(), objID)
		if err == store.ErrNotFound {
			respondError(w, http.StatusNotFound, "Property not found")
			return
		}
		if err != nil {
			log.Error().Err(err).Str("id", id).Msg("fetching property failed")
			respondError(w, http.StatusInternalServerError, "Error updating property")
			return
		}
		if existing.ListedBy.Hex() != userID {
			respondError(w, http.StatusForbidden, "Not authorized to update this property")
			return
		}

		var updateData map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&updateData); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		// Ownership and identity are immutable after creation.
		delete(updateData, "_id")
		delete(updateData, "id")
		delete(updateData, "listedBy")
		delete(updateData, "owner")
		delete(updateData, "createdAt")

		if af, ok := updateData["availableFrom"].(string); ok {
			if t, err := time.Parse(time.RFC3339, af); err == nil {
				updateData["availableFrom"] = t
			} else if t, err := time.Parse("2006-01-02", af); err == nil {
				updateData["availableFrom"] = t
			} else {
				respondError(w, http.StatusBadRequest, "Invalid availableFrom date")
				return
			}
		}
		updateData["updatedAt"] = time.Now()

		if _, err := db.UpdatePropertyByID(r.Context(), objID, updateData); err != nil {
			if err == store.ErrNotFound {
				respondError(w, http.StatusNotFound, "Property not found")
				return
			}
			log.Error().Err(err).Str("id", id).Msg("updating property failed")
			respondError(w, http.StatusInternalServerError, "Error updating property")
			return
		}

		rdb.Delete(r.Context(), cache.PropertyKey(id))
		rdb.DeletePrefix(r.Context(), cache.PropertiesPrefix)

		// Re-read through the populated path so the response carries the
		// owner projection, same shape as a GET.
		updated, err := db.FindPropertyByID(r.Context(), objID)
		if err == store.ErrNotFound {
			respondError(w, http.StatusNotFound, "Property not found")
			return
		}
		if err != nil {
			log.Error().Err(err).Str("id", id).Msg("fetching updated property failed")
			respondError(w, http.StatusInternalServerError, "Error updating property")
			return
		}
		respondJSON(w, http.StatusOK, updated)
	}
}

func DeleteProperty(db Store, rdb Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userIDFromContext(r)
		if !ok {
			respondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		id := mux.Vars(r)["id"]
		objID, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid property ID")
			return
		}

		existing, err := db.GetProperty(r.Context(), objID)
		if err == store.ErrNotFound {
			respondError(w, http.StatusNotFound, "Property not found")
			return
		}
		if err != nil {
			log.Error().Err(err).Str("id", id).Msg("fetching property failed")
			respondError(w, http.StatusInternalServerError, "Error deleting property")
			return
		}
		if existing.ListedBy.Hex() != userID {
			respondError(w, http.StatusForbidden, "Not authorized to delete this property")
			return
		}

		if err := db.DeletePropertyByID(r.Context(), objID); err != nil {
			if err == store.ErrNotFound {
				respondError(w, http.StatusNotFound, "Property not found")
				return
			}
			log.Error().Err(err).Str("id", id).Msg("deleting property failed")
			respondError(w, http.StatusInternalServerError, "Error deleting property")
			return
		}

		rdb.Delete(r.Context(), cache.PropertyKey(id))
		rdb.DeletePrefix(r.Context(), cache.PropertiesPrefix)
		respondJSON(w, http.StatusOK, map[string]string{"message": "Property deleted successfully"})
	}
}

func missingPropertyFields(p models.Property) []string {
	var missing []string
	if p.Title == "" {
		missing = append(missing, "title")
	}
	if p.Type == "" {
		missing = append(missing, "type")
	}
	if p.Price <= 0 {
		missing = append(missing, "price")
	}
	if p.State == "" {
		missing = append(missing, "state")
	}
	if p.City == "" {
		missing = append(missing, "city")
	}
	if p.AreaSqFt <= 0 {
		missing = append(missing, "areaSqFt")
	}
	if p.AvailableFrom.IsZero() {
		missing = append(missing, "availableFrom")
	}
	if p.ListingType == "" {
		missing = append(missing, "listingType")
	}
	return missing
}
