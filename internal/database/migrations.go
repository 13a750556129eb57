package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// EnsureIndexes creates the indexes backing the list and lookup queries.
// Email is indexed but deliberately not unique.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	indexes := map[*mongo.Collection][]mongo.IndexModel{
		s.users: {
			{Keys: bson.D{{Key: "email", Value: 1}}},
		},
		s.riders: {
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		s.parcels: {
			{Keys: bson.D{{Key: "created_by", Value: 1}, {Key: "creation_date", Value: -1}}},
			{Keys: bson.D{{Key: "tracking_id", Value: 1}}},
		},
		s.payments: {
			{Keys: bson.D{{Key: "email", Value: 1}, {Key: "paid_at", Value: -1}}},
		},
		s.tracking: {
			{Keys: bson.D{{Key: "tracking_id", Value: 1}, {Key: "time", Value: 1}}},
		},
	}

	for coll, models := range indexes {
		if _, err := coll.Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", coll.Name(), err)
		}
	}
	return nil
}
