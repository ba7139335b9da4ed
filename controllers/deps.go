package controllers

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/propnest/backend/models"
)

// Store names the persistence operations the handlers consume. The concrete
// gateway in store/ satisfies it; tests substitute a fake.
type Store interface {
	FindProperties(ctx context.Context, query bson.M) ([]models.Property, error)
	FindPropertyByID(ctx context.Context, id primitive.ObjectID) (*models.Property, error)
	GetProperty(ctx context.Context, id primitive.ObjectID) (*models.Property, error)
	InsertProperty(ctx context.Context, property *models.Property) error
	UpdatePropertyByID(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Property, error)
	DeletePropertyByID(ctx context.Context, id primitive.ObjectID) error

	FindUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	InsertUser(ctx context.Context, user *models.User) error
	AddFavorite(ctx context.Context, userID, propertyID primitive.ObjectID) error
	RemoveFavorite(ctx context.Context, userID, propertyID primitive.ObjectID) error
	FindFavorites(ctx context.Context, userID primitive.ObjectID) ([]models.Property, error)

	FindRecommendationsFor(ctx context.Context, toUserID primitive.ObjectID) ([]models.Recommendation, error)
	FindRecommendationByID(ctx context.Context, id primitive.ObjectID) (*models.Recommendation, error)
	InsertRecommendation(ctx context.Context, rec *models.Recommendation) error
	DeleteRecommendationByID(ctx context.Context, id primitive.ObjectID) error
}

// Cache names the cache-aside operations the handlers consume, satisfied by
// the redis client in cache/.
type Cache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) bool
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration)
	Delete(ctx context.Context, keys ...string)
	DeletePrefix(ctx context.Context, prefix string)
}
