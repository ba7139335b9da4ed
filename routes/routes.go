package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/propnest/backend/cache"
	"github.com/propnest/backend/controllers"
	"github.com/propnest/backend/middleware"
	"github.com/propnest/backend/store"
)

func Register(router *mux.Router, db *store.Store, rdb *cache.Client, jwtSecret []byte) {
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Auth routes
	router.HandleFunc("/api/auth/register", controllers.Register(db)).Methods("POST")
	router.HandleFunc("/api/auth/login", controllers.Login(db, jwtSecret)).Methods("POST")

	// Public listing reads
	router.HandleFunc("/api/properties", controllers.ListProperties(db, rdb)).Methods("GET")
	router.HandleFunc("/api/properties/{id}", controllers.GetProperty(db, rdb)).Methods("GET")

	// Routes that require authentication
	authenticated := router.PathPrefix("/api").Subrouter()
	authenticated.Use(middleware.RequireAuth(jwtSecret))

	authenticated.HandleFunc("/properties", controllers.CreateProperty(db, rdb)).Methods("POST")
	authenticated.HandleFunc("/properties/{id}", controllers.UpdateProperty(db, rdb)).Methods("PUT")
	authenticated.HandleFunc("/properties/{id}", controllers.DeleteProperty(db, rdb)).Methods("DELETE")

	authenticated.HandleFunc("/favorites", controllers.GetFavorites(db, rdb)).Methods("GET")
	authenticated.HandleFunc("/favorites", controllers.AddFavorite(db, rdb)).Methods("POST")
	authenticated.HandleFunc("/favorites", controllers.RemoveFavorite(db, rdb)).Methods("DELETE")

	authenticated.HandleFunc("/recommendations", controllers.GetRecommendations(db, rdb)).Methods("GET")
	authenticated.HandleFunc("/recommendations", controllers.CreateRecommendation(db, rdb)).Methods("POST")
	authenticated.HandleFunc("/recommendations", controllers.DeleteRecommendation(db, rdb)).Methods("DELETE")
}
