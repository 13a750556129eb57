package database

import (
	"context"

	"github.com/chachabrian/parcel-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (s *MongoStore) InsertTrackingLog(ctx context.Context, entry *models.TrackingLog) (primitive.ObjectID, error) {
	res, err := s.tracking.InsertOne(ctx, entry)
	if err != nil {
		return primitive.NilObjectID, err
	}
	entry.ID = insertedID(res)
	return entry.ID, nil
}

func (s *MongoStore) ListTrackingLogs(ctx context.Context, trackingID string) ([]models.TrackingLog, error) {
	opts := options.Find().SetSort(bson.D{{Key: "time", Value: 1}})
	return findAll[models.TrackingLog](ctx, s.tracking, bson.M{"tracking_id": trackingID}, opts)
}
