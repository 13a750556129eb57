package database

import (
	"context"

	"github.com/chachabrian/parcel-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (s *MongoStore) ListRidersByStatus(ctx context.Context, status models.RiderStatus) ([]models.Rider, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return findAll[models.Rider](ctx, s.riders, bson.M{"status": status}, opts)
}

func (s *MongoStore) FindRiderByID(ctx context.Context, id primitive.ObjectID) (*models.Rider, error) {
	return findOne[models.Rider](ctx, s.riders, bson.M{"_id": id})
}

func (s *MongoStore) InsertRider(ctx context.Context, rider *models.Rider) (primitive.ObjectID, error) {
	res, err := s.riders.InsertOne(ctx, rider)
	if err != nil {
		return primitive.NilObjectID, err
	}
	rider.ID = insertedID(res)
	return rider.ID, nil
}

func (s *MongoStore) UpdateRiderStatus(ctx context.Context, id primitive.ObjectID, status models.RiderStatus) (UpdateResult, error) {
	res, err := s.riders.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return UpdateResult{}, err
	}
	return updateResult(res), nil
}
