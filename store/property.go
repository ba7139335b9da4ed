package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/propnest/backend/models"
)

// FindProperties returns all listings matching query, newest first, with the
// listedBy reference populated as an owner projection.
func (s *Store) FindProperties(ctx context.Context, query bson.M) ([]models.Property, error) {
	pipeline := mongo.Pipeline{matchStage(query), sortByNewest()}
	pipeline = append(pipeline, lookupRef("users", "listedBy", "owner")...)
	pipeline = append(pipeline, projectUserRef("owner"))

	cursor, err := s.properties.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	properties := []models.Property{}
	if err := cursor.All(ctx, &properties); err != nil {
		return nil, err
	}
	return properties, nil
}

// FindPropertyByID returns a single listing with its owner populated.
func (s *Store) FindPropertyByID(ctx context.Context, id primitive.ObjectID) (*models.Property, error) {
	pipeline := mongo.Pipeline{matchStage(bson.M{"_id": id})}
	pipeline = append(pipeline, lookupRef("users", "listedBy", "owner")...)
	pipeline = append(pipeline, projectUserRef("owner"))

	cursor, err := s.properties.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var properties []models.Property
	if err := cursor.All(ctx, &properties); err != nil {
		return nil, err
	}
	if len(properties) == 0 {
		return nil, ErrNotFound
	}
	return &properties[0], nil
}

// GetProperty fetches a listing without populating references. Used for
// ownership checks before a mutation.
func (s *Store) GetProperty(ctx context.Context, id primitive.ObjectID) (*models.Property, error) {
	var property models.Property
	err := s.properties.FindOne(ctx, bson.M{"_id": id}).Decode(&property)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &property, nil
}

func (s *Store) InsertProperty(ctx context.Context, property *models.Property) error {
	_, err := s.properties.InsertOne(ctx, property)
	return err
}

// UpdatePropertyByID applies set and returns the updated document.
func (s *Store) UpdatePropertyByID(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Property, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Property
	err := s.properties.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *Store) DeletePropertyByID(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.properties.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
