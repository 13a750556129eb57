package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TrackingLog is an append-only audit entry for a parcel status change.
type TrackingLog struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	TrackingID string             `bson:"tracking_id" json:"tracking_id"`
	ParcelID   primitive.ObjectID `bson:"parcel_id" json:"parcel_id"`
	Status     string             `bson:"status" json:"status"`
	Message    string             `bson:"message" json:"message"`
	Time       time.Time          `bson:"time" json:"time"`
	UpdatedBy  string             `bson:"updated_by" json:"updated_by"`
}
