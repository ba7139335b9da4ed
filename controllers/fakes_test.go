package controllers

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/propnest/backend/models"
	"github.com/propnest/backend/store"
)

// fakeStore satisfies Store from canned fixtures and records which mutations
// the handlers attempted.
type fakeStore struct {
	property    *models.Property
	populated   *models.Property
	user        *models.User
	userByEmail *models.User
	rec         *models.Recommendation
	properties  []models.Property

	insertPropertyCalled bool
	updateCalled         bool
	deleteCalled         bool
	addFavoriteCalled    bool
	removeFavoriteCalled bool
	insertRecCalled      bool
	deleteRecCalled      bool
}

func (f *fakeStore) FindProperties(ctx context.Context, query bson.M) ([]models.Property, error) {
	return f.properties, nil
}

func (f *fakeStore) FindPropertyByID(ctx context.Context, id primitive.ObjectID) (*models.Property, error) {
	if f.populated != nil {
		return f.populated, nil
	}
	if f.property == nil {
		return nil, store.ErrNotFound
	}
	return f.property, nil
}

func (f *fakeStore) GetProperty(ctx context.Context, id primitive.ObjectID) (*models.Property, error) {
	if f.property == nil {
		return nil, store.ErrNotFound
	}
	return f.property, nil
}

func (f *fakeStore) InsertProperty(ctx context.Context, property *models.Property) error {
	f.insertPropertyCalled = true
	return nil
}

func (f *fakeStore) UpdatePropertyByID(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Property, error) {
	f.updateCalled = true
	if f.property == nil {
		return nil, store.ErrNotFound
	}
	return f.property, nil
}

func (f *fakeStore) DeletePropertyByID(ctx context.Context, id primitive.ObjectID) error {
	f.deleteCalled = true
	if f.property == nil {
		return store.ErrNotFound
	}
	return nil
}

func (f *fakeStore) FindUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	if f.user == nil {
		return nil, store.ErrNotFound
	}
	return f.user, nil
}

func (f *fakeStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.userByEmail == nil {
		return nil, store.ErrNotFound
	}
	return f.userByEmail, nil
}

func (f *fakeStore) InsertUser(ctx context.Context, user *models.User) error {
	return nil
}

func (f *fakeStore) AddFavorite(ctx context.Context, userID, propertyID primitive.ObjectID) error {
	f.addFavoriteCalled = true
	if f.user == nil {
		return store.ErrNotFound
	}
	f.user.Favorites = append(f.user.Favorites, propertyID)
	return nil
}

func (f *fakeStore) RemoveFavorite(ctx context.Context, userID, propertyID primitive.ObjectID) error {
	f.removeFavoriteCalled = true
	return nil
}

func (f *fakeStore) FindFavorites(ctx context.Context, userID primitive.ObjectID) ([]models.Property, error) {
	if f.user == nil {
		return nil, store.ErrNotFound
	}
	return f.properties, nil
}

func (f *fakeStore) FindRecommendationsFor(ctx context.Context, toUserID primitive.ObjectID) ([]models.Recommendation, error) {
	return nil, nil
}

func (f *fakeStore) FindRecommendationByID(ctx context.Context, id primitive.ObjectID) (*models.Recommendation, error) {
	if f.rec == nil {
		return nil, store.ErrNotFound
	}
	return f.rec, nil
}

func (f *fakeStore) InsertRecommendation(ctx context.Context, rec *models.Recommendation) error {
	f.insertRecCalled = true
	return nil
}

func (f *fakeStore) DeleteRecommendationByID(ctx context.Context, id primitive.ObjectID) error {
	f.deleteRecCalled = true
	if f.rec == nil {
		return store.ErrNotFound
	}
	return nil
}

// fakeCache is an in-memory Cache that records every invalidation.
type fakeCache struct {
	entries         map[string][]byte
	deleted         []string
	deletedPrefixes []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string][]byte{}}
}

func (c *fakeCache) GetJSON(ctx context.Context, key string, dest interface{}) bool {
	data, ok := c.entries[key]
	if !ok {
		return false
	}
	return json.Unmarshal(data, dest) == nil
}

func (c *fakeCache) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.entries[key] = data
}

func (c *fakeCache) Delete(ctx context.Context, keys ...string) {
	for _, key := range keys {
		delete(c.entries, key)
		c.deleted = append(c.deleted, key)
	}
}

func (c *fakeCache) DeletePrefix(ctx context.Context, prefix string) {
	c.deletedPrefixes = append(c.deletedPrefixes, prefix)
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
}

func (c *fakeCache) deletedKey(key string) bool {
	for _, d := range c.deleted {
		if d == key {
			return true
		}
	}
	return false
}

func (c *fakeCache) deletedPrefix(prefix string) bool {
	for _, p := range c.deletedPrefixes {
		if p == prefix {
			return true
		}
	}
	return false
}
