package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/propnest/backend/models"
)

func (s *Store) FindUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := s.users.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Store) InsertUser(ctx context.Context, user *models.User) error {
	_, err := s.users.InsertOne(ctx, user)
	return err
}

// AddFavorite appends a property reference to the user's favorites set.
// Callers check membership first; $addToSet keeps the set duplicate-free even
// if two requests race.
func (s *Store) AddFavorite(ctx context.Context, userID, propertyID primitive.ObjectID) error {
	update := bson.M{
		"$addToSet": bson.M{"favorites": propertyID},
		"$set":      bson.M{"updatedAt": time.Now()},
	}
	res, err := s.users.UpdateByID(ctx, userID, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) RemoveFavorite(ctx context.Context, userID, propertyID primitive.ObjectID) error {
	update := bson.M{
		"$pull": bson.M{"favorites": propertyID},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	res, err := s.users.UpdateByID(ctx, userID, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// FindFavorites resolves the user's favorites set into full listings with
// their owners populated. Reports ErrNotFound when the user is absent.
func (s *Store) FindFavorites(ctx context.Context, userID primitive.ObjectID) ([]models.Property, error) {
	user, err := s.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(user.Favorites) == 0 {
		return []models.Property{}, nil
	}
	return s.FindProperties(ctx, bson.M{"_id": bson.M{"$in": user.Favorites}})
}
