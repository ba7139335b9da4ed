package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/propnest/backend/cache"
	"github.com/propnest/backend/models"
	"github.com/propnest/backend/store"
)

type recommendRequest struct {
	PropertyID  string `json:"propertyId"`
	ToUserEmail string `json:"toUserEmail"`
	Message     string `json:"message"`
}

type deleteRecommendationRequest struct {
	RecommendationID string `json:"recommendationId"`
}

func GetRecommendations(db Store, rdb Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userIDFromContext(r)
		if !ok {
			respondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		uid, err := primitive.ObjectIDFromHex(userID)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		key := cache.RecommendationsKey(userID)
		var cached []models.Recommendation
		if rdb.GetJSON(r.Context(), key, &cached) {
			respondJSON(w, http.StatusOK, cached)
			return
		}

		recommendations, err := db.FindRecommendationsFor(r.Context(), uid)
		if err != nil {
			log.Error().Err(err).Str("userID", userID).Msg("fetching recommendations failed")
			respondError(w, http.StatusInternalServerError, "Error fetching recommendations")
			return
		}

		rdb.SetJSON(r.Context(), key, recommendations, cache.DefaultTTL)
		respondJSON(w, http.StatusOK, recommendations)
	}
}

func CreateRecommendation(db Store, rdb Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userIDFromContext(r)
		if !ok {
			respondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		fromID, err := primitive.ObjectIDFromHex(userID)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var req recommendRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.PropertyID == "" || req.ToUserEmail == "" {
			respondError(w, http.StatusBadRequest, "Property ID and recipient email are required")
			return
		}
		propID, err := primitive.ObjectIDFromHex(req.PropertyID)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid property ID")
			return
		}

		if _, err := db.GetProperty(r.Context(), propID); err != nil {
			if err == store.ErrNotFound {
				respondError(w, http.StatusNotFound, "Property not found")
				return
			}
			log.Error().Err(err).Str("propertyID", req.PropertyID).Msg("fetching property failed")
			respondError(w, http.StatusInternalServerError, "Error creating recommendation")
			return
		}

		toUser, err := db.FindUserByEmail(r.Context(), req.ToUserEmail)
		if err == store.ErrNotFound {
			respondError(w, http.StatusNotFound, "Recipient user not found")
			return
		}
		if err != nil {
			log.Error().Err(err).Msg("resolving recipient failed")
			respondError(w, http.StatusInternalServerError, "Error creating recommendation")
			return
		}

		rec := models.Recommendation{
			ID:         primitive.NewObjectID(),
			PropertyID: propID,
			FromUserID: fromID,
			ToUserID:   toUser.ID,
			Message:    req.Message,
			CreatedAt:  time.Now(),
		}
		if err := db.InsertRecommendation(r.Context(), &rec); err != nil {
			log.Error().Err(err).Msg("creating recommendation failed")
			respondError(w, http.StatusInternalServerError, "Error creating recommendation")
			return
		}

		rdb.Delete(r.Context(), cache.RecommendationsKey(toUser.ID.Hex()))
		respondJSON(w, http.StatusCreated, rec)
	}
}

// DeleteRecommendation removes a received recommendation. Only the recipient
// may delete it.
func DeleteRecommendation(db Store, rdb Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userIDFromContext(r)
		if !ok {
			respondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var req deleteRecommendationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RecommendationID == "" {
			respondError(w, http.StatusBadRequest, "Recommendation ID is required")
			return
		}
		recID, err := primitive.ObjectIDFromHex(req.RecommendationID)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid recommendation ID")
			return
		}

		rec, err := db.FindRecommendationByID(r.Context(), recID)
		if err == store.ErrNotFound {
			respondError(w, http.StatusNotFound, "Recommendation not found")
			return
		}
		if err != nil {
			log.Error().Err(err).Str("id", req.RecommendationID).Msg("fetching recommendation failed")
			respondError(w, http.StatusInternalServerError, "Error deleting recommendation")
			return
		}
		if rec.ToUserID.Hex() != userID {
			respondError(w, http.StatusForbidden, "Not authorized to delete this recommendation")
			return
		}

		if err := db.DeleteRecommendationByID(r.Context(), recID); err != nil {
			if err == store.ErrNotFound {
				respondError(w, http.StatusNotFound, "Recommendation not found")
				return
			}
			log.Error().Err(err).Str("id", req.RecommendationID).Msg("deleting recommendation failed")
			respondError(w, http.StatusInternalServerError, "Error deleting recommendation")
			return
		}

		rdb.Delete(r.Context(), cache.RecommendationsKey(userID))
		respondJSON(w, http.StatusOK, map[string]string{"message": "Recommendation deleted successfully"})
	}
}
