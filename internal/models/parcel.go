package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PaymentStatus string

const (
	PaymentStatusUnpaid PaymentStatus = "unpaid"
	PaymentStatusPaid   PaymentStatus = "paid"
)

const DeliveryStatusNotCollected = "not_collected"

type Parcel struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Type            string             `bson:"type" json:"type"`
	Title           string             `bson:"title" json:"title"`
	Weight          float64            `bson:"weight,omitempty" json:"weight,omitempty"`
	SenderName      string             `bson:"sender_name" json:"sender_name"`
	SenderContact   string             `bson:"sender_contact" json:"sender_contact"`
	SenderRegion    string             `bson:"sender_region" json:"sender_region"`
	SenderCenter    string             `bson:"sender_center" json:"sender_center"`
	SenderAddress   string             `bson:"sender_address" json:"sender_address"`
	PickupNote      string             `bson:"pickup_instruction,omitempty" json:"pickup_instruction,omitempty"`
	ReceiverName    string             `bson:"receiver_name" json:"receiver_name"`
	ReceiverContact string             `bson:"receiver_contact" json:"receiver_contact"`
	ReceiverRegion  string             `bson:"receiver_region" json:"receiver_region"`
	ReceiverCenter  string             `bson:"receiver_center" json:"receiver_center"`
	ReceiverAddress string             `bson:"receiver_address" json:"receiver_address"`
	DeliveryNote    string             `bson:"delivery_instruction,omitempty" json:"delivery_instruction,omitempty"`
	Cost            float64            `bson:"cost" json:"cost"`
	CreatedBy       string             `bson:"created_by" json:"created_by"`
	CreationDate    time.Time          `bson:"creation_date" json:"creation_date"`
	PaymentStatus   PaymentStatus      `bson:"payment_status" json:"payment_status"`
	DeliveryStatus  string             `bson:"delivery_status" json:"delivery_status"`
	TrackingID      string             `bson:"tracking_id" json:"tracking_id"`
	ParcelImage     string             `bson:"parcel_image,omitempty" json:"parcel_image,omitempty"`
}

// ApplyDefaults fills the fields the server owns on a freshly submitted parcel.
func (p *Parcel) ApplyDefaults(now time.Time) {
	if p.CreationDate.IsZero() {
		p.CreationDate = now
	}
	p.PaymentStatus = PaymentStatusUnpaid
	if p.DeliveryStatus == "" {
		p.DeliveryStatus = DeliveryStatusNotCollected
	}
	if p.TrackingID == "" {
		p.TrackingID = NewTrackingID(now)
	}
}

// NewTrackingID returns an id of the form PCL-20250102-1A2B3C4D.
func NewTrackingID(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("PCL-%s-%s", now.UTC().Format("20060102"), suffix)
}
