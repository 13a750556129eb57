package database

import (
	"context"

	"github.com/chachabrian/parcel-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// parcelsFilter restricts the listing to one creator; empty means all parcels.
func parcelsFilter(createdBy string) bson.M {
	if createdBy == "" {
		return bson.M{}
	}
	return bson.M{"created_by": createdBy}
}

func (s *MongoStore) ListParcels(ctx context.Context, createdBy string) ([]models.Parcel, error) {
	opts := options.Find().SetSort(bson.D{{Key: "creation_date", Value: -1}})
	return findAll[models.Parcel](ctx, s.parcels, parcelsFilter(createdBy), opts)
}

func (s *MongoStore) FindParcelByID(ctx context.Context, id primitive.ObjectID) (*models.Parcel, error) {
	return findOne[models.Parcel](ctx, s.parcels, bson.M{"_id": id})
}

func (s *MongoStore) InsertParcel(ctx context.Context, parcel *models.Parcel) (primitive.ObjectID, error) {
	res, err := s.parcels.InsertOne(ctx, parcel)
	if err != nil {
		return primitive.NilObjectID, err
	}
	parcel.ID = insertedID(res)
	return parcel.ID, nil
}

func (s *MongoStore) DeleteParcel(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.parcels.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// MarkParcelPaid sets payment_status to paid. The filter is on the id only,
// so an already paid parcel matches but reports zero modified documents.
func (s *MongoStore) MarkParcelPaid(ctx context.Context, id primitive.ObjectID) (UpdateResult, error) {
	res, err := s.parcels.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"payment_status": models.PaymentStatusPaid}},
	)
	if err != nil {
		return UpdateResult{}, err
	}
	return updateResult(res), nil
}

func (s *MongoStore) SetParcelImage(ctx context.Context, id primitive.ObjectID, imageURL string) (UpdateResult, error) {
	res, err := s.parcels.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"parcel_image": imageURL}})
	if err != nil {
		return UpdateResult{}, err
	}
	return updateResult(res), nil
}
