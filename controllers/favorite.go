package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/propnest/backend/cache"
	"github.com/propnest/backend/models"
	"github.com/propnest/backend/store"
)

type favoriteRequest struct {
	PropertyID string `json:"propertyId"`
}

func GetFavorites(db Store, rdb Cache) http.HandlerFunc {
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

		key := cache.FavoritesKey(userID)
		var cached []models.Property
		if rdb.GetJSON(r.Context(), key, &cached) {
			respondJSON(w, http.StatusOK, cached)
			return
		}

		favorites, err := db.FindFavorites(r.Context(), uid)
		if err == store.ErrNotFound {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}
		if err != nil {
			log.Error().Err(err).Str("userID", userID).Msg("fetching favorites failed")
			respondError(w, http.StatusInternalServerError, "Error fetching favorites")
			return
		}

		rdb.SetJSON(r.Context(), key, favorites, cache.DefaultTTL)
		respondJSON(w, http.StatusOK, favorites)
	}
}

func AddFavorite(db Store, rdb Cache) http.HandlerFunc {
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

		var req favoriteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PropertyID == "" {
			respondError(w, http.StatusBadRequest, "Property ID is required")
			return
		}
		propID, err := primitive.ObjectIDFromHex(req.PropertyID)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid property ID")
			return
		}

		user, err := db.FindUserByID(r.Context(), uid)
		if err == store.ErrNotFound {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}
		if err != nil {
			log.Error().Err(err).Str("userID", userID).Msg("fetching user failed")
			respondError(w, http.StatusInternalServerError, "Error adding favorite")
			return
		}

		for _, fav := range user.Favorites {
			if fav == propID {
				respondError(w, http.StatusBadRequest, "Property already in favorites")
				return
			}
		}

		if _, err := db.GetProperty(r.Context(), propID); err != nil {
			if err == store.ErrNotFound {
				respondError(w, http.StatusNotFound, "Property not found")
				return
			}
			log.Error().Err(err).Str("propertyID", req.PropertyID).Msg("fetching property failed")
			respondError(w, http.StatusInternalServerError, "Error adding favorite")
			return
		}

		if err := db.AddFavorite(r.Context(), uid, propID); err != nil {
			log.Error().Err(err).Str("userID", userID).Msg("adding favorite failed")
			respondError(w, http.StatusInternalServerError, "Error adding favorite")
			return
		}

		rdb.Delete(r.Context(), cache.FavoritesKey(userID))
		respondJSON(w, http.StatusOK, map[string]string{"message": "Property added to favorites"})
	}
}

func RemoveFavorite(db Store, rdb Cache) http.HandlerFunc {
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

		var req favoriteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PropertyID == "" {
			respondError(w, http.StatusBadRequest, "Property ID is required")
			return
		}
		propID, err := primitive.ObjectIDFromHex(req.PropertyID)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid property ID")
			return
		}

		user, err := db.FindUserByID(r.Context(), uid)
		if err == store.ErrNotFound {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}
		if err != nil {
			log.Error().Err(err).Str("userID", userID).Msg("fetching user failed")
			respondError(w, http.StatusInternalServerError, "Error removing favorite")
			return
		}

		found := false
		for _, fav := range user.Favorites {
			if fav == propID {
				found = true
				break
			}
		}
		if !found {
			respondError(w, http.StatusNotFound, "Favorite not found")
			return
		}

		if err := db.RemoveFavorite(r.Context(), uid, propID); err != nil {
			log.Error().Err(err).Str("userID", userID).Msg("removing favorite failed")
			respondError(w, http.StatusInternalServerError, "Error removing favorite")
			return
		}

		rdb.Delete(r.Context(), cache.FavoritesKey(userID))
		respondJSON(w, http.StatusOK, map[string]string{"message": "Property removed from favorites"})
	}
}
