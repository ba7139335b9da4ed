package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/propnest/backend/models"
	"github.com/propnest/backend/store"
	"github.com/propnest/backend/utils"
)

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func Register(db Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.Email == "" || req.Name == "" || req.Password == "" {
			respondError(w, http.StatusBadRequest, "Please provide all required fields")
			return
		}

		if _, err := db.FindUserByEmail(r.Context(), req.Email); err == nil {
			respondError(w, http.StatusBadRequest, "User with this email already exists")
			return
		} else if err != store.ErrNotFound {
			log.Error().Err(err).Msg("checking existing user failed")
			respondError(w, http.StatusInternalServerError, "Error creating user")
			return
		}

		hashed, err := utils.HashPassword(req.Password)
		if err != nil {
			log.Error().Err(err).Msg("hashing password failed")
			respondError(w, http.StatusInternalServerError, "Error creating user")
			return
		}

		now := time.Now()
		user := models.User{
			ID:        primitive.NewObjectID(),
			Email:     req.Email,
			Name:      req.Name,
			Password:  hashed,
			Favorites: []primitive.ObjectID{},
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := db.InsertUser(r.Context(), &user); err != nil {
			log.Error().Err(err).Msg("inserting user failed")
			respondError(w, http.StatusInternalServerError, "Error creating user")
			return
		}

		respondJSON(w, http.StatusCreated, map[string]string{
			"id":    user.ID.Hex(),
			"email": user.Email,
			"name":  user.Name,
		})
	}
}

func Login(db Store, secret []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		user, err := db.FindUserByEmail(r.Context(), req.Email)
		if err == store.ErrNotFound {
			respondError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		if err != nil {
			log.Error().Err(err).Msg("looking up user failed")
			respondError(w, http.StatusInternalServerError, "Error logging in")
			return
		}

		if !utils.CheckPasswordHash(req.Password, user.Password) {
			respondError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}

		token, err := utils.GenerateJWT(user.ID.Hex(), secret)
		if err != nil {
			log.Error().Err(err).Msg("generating token failed")
			respondError(w, http.StatusInternalServerError, "Error logging in")
			return
		}

		respondJSON(w, http.StatusOK, map[string]string{
			"message": "Login successful",
			"token":   token,
		})
	}
}
