package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RiderStatus string

const (
	RiderStatusPending  RiderStatus = "pending"
	RiderStatusAccepted RiderStatus = "accepted"
	RiderStatusRejected RiderStatus = "rejected"
)

type Rider struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Phone     string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Region    string             `bson:"region,omitempty" json:"region,omitempty"`
	District  string             `bson:"district,omitempty" json:"district,omitempty"`
	NID       string             `bson:"nid,omitempty" json:"nid,omitempty"`
	BikeBrand string             `bson:"bike_brand,omitempty" json:"bike_brand,omitempty"`
	BikeRegNo string             `bson:"bike_registration,omitempty" json:"bike_registration,omitempty"`
	Status    RiderStatus        `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
