package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/propnest/backend/cache"
	"github.com/propnest/backend/models"
	"github.com/propnest/backend/store"
)

// The concrete clients must keep satisfying the handler dependencies.
var (
	_ Store = (*store.Store)(nil)
	_ Cache = (*cache.Client)(nil)
)

func authedRequest(method, target, body, userID string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	return req.WithContext(context.WithValue(req.Context(), UserIDKey, userID))
}

func listedProperty(owner primitive.ObjectID) *models.Property {
	return &models.Property{
		ID: primitive.NewObjectID(), Title: "Lakeview Villa", Type: "Villa",
		Price: 250000, State: "TX", City: "Austin", AreaSqFt: 1800,
		AvailableFrom: time.Now(), ListingType: "sale", ListedBy: owner,
	}
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	return body["error"]
}

func TestUpdatePropertyRejectsNonOwner(t *testing.T) {
	prop := listedProperty(primitive.NewObjectID())
	db := &fakeStore{property: prop}
	rdb := newFakeCache()

	req := authedRequest("PUT", "/api/properties/"+prop.ID.Hex(), `{"title":"Hijacked"}`, primitive.NewObjectID().Hex())
	req = mux.SetURLVars(req, map[string]string{"id": prop.ID.Hex()})
	rec := httptest.NewRecorder()
	UpdateProperty(db, rdb)(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if msg := errorMessage(t, rec); msg != "Not authorized to update this property" {
		t.Errorf("unexpected error message %q", msg)
	}
	if db.updateCalled {
		t.Error("store update ran for a non-owner")
	}
	if len(rdb.deleted) != 0 || len(rdb.deletedPrefixes) != 0 {
		t.Error("cache invalidated without a mutation")
	}
}

func TestDeletePropertyRejectsNonOwner(t *testing.T) {
	prop := listedProperty(primitive.NewObjectID())
	db := &fakeStore{property: prop}
	rdb := newFakeCache()

	req := authedRequest("DELETE", "/api/properties/"+prop.ID.Hex(), "", primitive.NewObjectID().Hex())
	req = mux.SetURLVars(req, map[string]string{"id": prop.ID.Hex()})
	rec := httptest.NewRecorder()
	DeleteProperty(db, rdb)(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if db.deleteCalled {
		t.Error("store delete ran for a non-owner")
	}
	if len(rdb.deleted) != 0 || len(rdb.deletedPrefixes) != 0 {
		t.Error("cache invalidated without a mutation")
	}
}

func TestUpdatePropertyByOwnerReturnsPopulatedOwner(t *testing.T) {
	owner := primitive.NewObjectID()
	prop := listedProperty(owner)
	populated := *prop
	populated.Title = "Renovated Villa"
	populated.Owner = &models.UserRef{Name: "Dana", Email: "dana@example.com"}

	db := &fakeStore{property: prop, populated: &populated}
	rdb := newFakeCache()

	req := authedRequest("PUT", "/api/properties/"+prop.ID.Hex(), `{"title":"Renovated Villa"}`, owner.Hex())
	req = mux.SetURLVars(req, map[string]string{"id": prop.ID.Hex()})
	rec := httptest.NewRecorder()
	UpdateProperty(db, rdb)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !db.updateCalled {
		t.Error("store update never ran")
	}

	var got models.Property
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("response is not a property: %v", err)
	}
	if got.Title != "Renovated Villa" {
		t.Errorf("unexpected title %q", got.Title)
	}
	if got.Owner == nil || got.Owner.Name != "Dana" || got.Owner.Email != "dana@example.com" {
		t.Errorf("response missing owner projection: %+v", got.Owner)
	}

	if !rdb.deletedKey(cache.PropertyKey(prop.ID.Hex())) {
		t.Error("single-property cache entry not invalidated")
	}
	if !rdb.deletedPrefix(cache.PropertiesPrefix) {
		t.Error("listing cache entries not invalidated")
	}
}

func TestDeletePropertyByOwnerInvalidatesCaches(t *testing.T) {
	owner := primitive.NewObjectID()
	prop := listedProperty(owner)
	db := &fakeStore{property: prop}
	rdb := newFakeCache()

	req := authedRequest("DELETE", "/api/properties/"+prop.ID.Hex(), "", owner.Hex())
	req = mux.SetURLVars(req, map[string]string{"id": prop.ID.Hex()})
	rec := httptest.NewRecorder()
	DeleteProperty(db, rdb)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !db.deleteCalled {
		t.Error("store delete never ran")
	}
	if !rdb.deletedKey(cache.PropertyKey(prop.ID.Hex())) {
		t.Error("single-property cache entry not invalidated")
	}
	if !rdb.deletedPrefix(cache.PropertiesPrefix) {
		t.Error("listing cache entries not invalidated")
	}
}

func TestGetPropertyServesFreshDataAfterUpdate(t *testing.T) {
	owner := primitive.NewObjectID()
	prop := listedProperty(owner)
	populated := *prop
	populated.Title = "Renovated Villa"

	db := &fakeStore{property: prop, populated: &populated}
	rdb := newFakeCache()
	rdb.SetJSON(context.Background(), cache.PropertyKey(prop.ID.Hex()), prop, cache.DefaultTTL)

	upd := authedRequest("PUT", "/api/properties/"+prop.ID.Hex(), `{"title":"Renovated Villa"}`, owner.Hex())
	upd = mux.SetURLVars(upd, map[string]string{"id": prop.ID.Hex()})
	UpdateProperty(db, rdb)(httptest.NewRecorder(), upd)

	get := httptest.NewRequest("GET", "/api/properties/"+prop.ID.Hex(), nil)
	get = mux.SetURLVars(get, map[string]string{"id": prop.ID.Hex()})
	rec := httptest.NewRecorder()
	GetProperty(db, rdb)(rec, get)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got models.Property
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("response is not a property: %v", err)
	}
	if got.Title != "Renovated Villa" {
		t.Errorf("read served stale data after update: %q", got.Title)
	}
}

func TestAddFavoriteRejectsDuplicate(t *testing.T) {
	uid := primitive.NewObjectID()
	prop := listedProperty(primitive.NewObjectID())
	user := &models.User{ID: uid, Email: "fan@example.com", Favorites: []primitive.ObjectID{prop.ID}}

	db := &fakeStore{user: user, property: prop}
	rdb := newFakeCache()

	req := authedRequest("POST", "/api/favorites", `{"propertyId":"`+prop.ID.Hex()+`"}`, uid.Hex())
	rec := httptest.NewRecorder()
	AddFavorite(db, rdb)(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if msg := errorMessage(t, rec); msg != "Property already in favorites" {
		t.Errorf("unexpected error message %q", msg)
	}
	if db.addFavoriteCalled {
		t.Error("store mutation ran for a duplicate favorite")
	}
	if len(user.Favorites) != 1 {
		t.Errorf("favorites set grew past one entry: %d", len(user.Favorites))
	}
	if len(rdb.deleted) != 0 {
		t.Error("cache invalidated without a mutation")
	}
}

func TestAddFavoriteInvalidatesFavoritesCache(t *testing.T) {
	uid := primitive.NewObjectID()
	prop := listedProperty(primitive.NewObjectID())
	user := &models.User{ID: uid, Email: "fan@example.com", Favorites: []primitive.ObjectID{}}

	db := &fakeStore{user: user, property: prop}
	rdb := newFakeCache()

	req := authedRequest("POST", "/api/favorites", `{"propertyId":"`+prop.ID.Hex()+`"}`, uid.Hex())
	rec := httptest.NewRecorder()
	AddFavorite(db, rdb)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !db.addFavoriteCalled {
		t.Error("store mutation never ran")
	}
	if len(user.Favorites) != 1 {
		t.Errorf("expected exactly one favorite, got %d", len(user.Favorites))
	}
	if !rdb.deletedKey(cache.FavoritesKey(uid.Hex())) {
		t.Error("favorites cache entry not invalidated")
	}
}

func TestDeleteRecommendationRejectsNonRecipient(t *testing.T) {
	recipient := primitive.NewObjectID()
	recDoc := &models.Recommendation{
		ID: primitive.NewObjectID(), PropertyID: primitive.NewObjectID(),
		FromUserID: primitive.NewObjectID(), ToUserID: recipient,
	}
	db := &fakeStore{rec: recDoc}
	rdb := newFakeCache()

	req := authedRequest("DELETE", "/api/recommendations", `{"recommendationId":"`+recDoc.ID.Hex()+`"}`, primitive.NewObjectID().Hex())
	rec := httptest.NewRecorder()
	DeleteRecommendation(db, rdb)(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if msg := errorMessage(t, rec); msg != "Not authorized to delete this recommendation" {
		t.Errorf("unexpected error message %q", msg)
	}
	if db.deleteRecCalled {
		t.Error("store delete ran for a non-recipient")
	}
	if len(rdb.deleted) != 0 {
		t.Error("cache invalidated without a mutation")
	}
}

func TestDeleteRecommendationByRecipientInvalidatesCache(t *testing.T) {
	recipient := primitive.NewObjectID()
	recDoc := &models.Recommendation{
		ID: primitive.NewObjectID(), PropertyID: primitive.NewObjectID(),
		FromUserID: primitive.NewObjectID(), ToUserID: recipient,
	}
	db := &fakeStore{rec: recDoc}
	rdb := newFakeCache()

	req := authedRequest("DELETE", "/api/recommendations", `{"recommendationId":"`+recDoc.ID.Hex()+`"}`, recipient.Hex())
	rec := httptest.NewRecorder()
	DeleteRecommendation(db, rdb)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !db.deleteRecCalled {
		t.Error("store delete never ran")
	}
	if !rdb.deletedKey(cache.RecommendationsKey(recipient.Hex())) {
		t.Error("recommendations cache entry not invalidated")
	}
}
