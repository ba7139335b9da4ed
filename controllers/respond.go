package controllers

import (
	"encoding/json"
	"net/http"
)

// ContextKey types the values the auth middleware stores on the request
// context.
type ContextKey string

// UserIDKey carries the authenticated caller's user id (hex ObjectID).
const UserIDKey = ContextKey("userID")

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// respondError converts every handler-level failure into the uniform
// {"error": msg} body; no internal error detail reaches the caller.
func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

func userIDFromContext(r *http.Request) (string, bool) {
	id, ok := r.Context().Value(UserIDKey).(string)
	return id, ok
}
