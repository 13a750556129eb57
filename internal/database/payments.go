package database

import (
	"context"

	"github.com/chachabrian/parcel-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func paymentsFilter(email string) bson.M {
	if email == "" {
		return bson.M{}
	}
	return bson.M{"email": email}
}

func (s *MongoStore) ListPayments(ctx context.Context, email string) ([]models.Payment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "paid_at", Value: -1}})
	return findAll[models.Payment](ctx, s.payments, paymentsFilter(email), opts)
}

func (s *MongoStore) InsertPayment(ctx context.Context, payment *models.Payment) (primitive.ObjectID, error) {
	res, err := s.payments.InsertOne(ctx, payment)
	if err != nil {
		return primitive.NilObjectID, err
	}
	payment.ID = insertedID(res)
	return payment.ID, nil
}
