package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment is append-only; it is never modified after insert.
type Payment struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	ParcelID      primitive.ObjectID `bson:"parcelId" json:"parcelId"`
	Email         string             `bson:"email" json:"email"`
	Amount        float64            `bson:"amount" json:"amount"`
	PaymentMethod string             `bson:"paymentMethod" json:"paymentMethod"`
	TransactionID string             `bson:"transactionId" json:"transactionId"`
	PaidAt        time.Time          `bson:"paid_at" json:"paid_at"`
	PaidAtString  string             `bson:"paid_at_string" json:"paid_at_string"`
}

func NewPayment(parcelID primitive.ObjectID, email string, amount float64, method, transactionID string, now time.Time) *Payment {
	return &Payment{
		ParcelID:      parcelID,
		Email:         email,
		Amount:        amount,
		PaymentMethod: method,
		TransactionID: transactionID,
		PaidAt:        now,
		PaidAtString:  now.UTC().Format(time.RFC3339Nano),
	}
}
