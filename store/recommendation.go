package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/propnest/backend/models"
)

// FindRecommendationsFor returns the recommendations received by a user,
// newest first, with the recommended property and the sender populated.
func (s *Store) FindRecommendationsFor(ctx context.Context, toUserID primitive.ObjectID) ([]models.Recommendation, error) {
	pipeline := mongo.Pipeline{matchStage(bson.M{"toUserId": toUserID}), sortByNewest()}
	pipeline = append(pipeline, lookupRef("properties", "propertyId", "property")...)
	pipeline = append(pipeline, lookupRef("users", "fromUserId", "from")...)
	pipeline = append(pipeline, projectUserRef("from"))

	cursor, err := s.recommendations.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	recommendations := []models.Recommendation{}
	if err := cursor.All(ctx, &recommendations); err != nil {
		return nil, err
	}
	return recommendations, nil
}

func (s *Store) FindRecommendationByID(ctx context.Context, id primitive.ObjectID) (*models.Recommendation, error) {
	var rec models.Recommendation
	err := s.recommendations.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *Store) InsertRecommendation(ctx context.Context, rec *models.Recommendation) error {
	_, err := s.recommendations.InsertOne(ctx, rec)
	return err
}

func (s *Store) DeleteRecommendationByID(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.recommendations.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
