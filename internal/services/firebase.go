package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// InitFirebase initializes the Firebase Admin SDK from a service account
// file. The app backs both token verification and push notifications.
func InitFirebase(ctx context.Context, serviceAccountPath string) (*firebase.App, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(serviceAccountPath))
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}
	return app, nil
}

// MessageSender is the part of the FCM client the push publisher needs.
type MessageSender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// PushPublisher turns parcel events into FCM topic notifications. Apps
// subscribe a device to TrackingTopic(id) to follow a parcel.
type PushPublisher struct {
	sender MessageSender
}

func NewPushPublisher(ctx context.Context, app *firebase.App) (*PushPublisher, error) {
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting messaging client: %w", err)
	}
	log.Println("Firebase Cloud Messaging initialized successfully")
	return &PushPublisher{sender: client}, nil
}

func NewPushPublisherWithSender(sender MessageSender) *PushPublisher {
	return &PushPublisher{sender: sender}
}

// TrackingTopic is the FCM topic for a tracking id. Characters FCM does not
// allow in topic names are replaced with underscores.
func TrackingTopic(trackingID string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-', r == '_', r == '.', r == '~', r == '%':
			return r
		}
		return '_'
	}, trackingID)
	return "parcel_" + clean
}

func (p *PushPublisher) Publish(ctx context.Context, event ParcelEvent) error {
	if event.TrackingID == "" {
		return nil
	}

	message, err := topicMessage(event)
	if err != nil {
		return err
	}

	response, err := p.sender.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("error sending message: %w", err)
	}

	log.Printf("Sent %s notification to topic %s, response: %s", event.Type, message.Topic, response)
	return nil
}

func topicMessage(event ParcelEvent) (*messaging.Message, error) {
	data := map[string]string{
		"type":       event.Type,
		"parcelId":   event.ParcelID,
		"trackingId": event.TrackingID,
	}
	if event.Data != nil {
		raw, err := json.Marshal(event.Data)
		if err != nil {
			return nil, fmt.Errorf("error marshaling event data: %w", err)
		}
		data["payload"] = string(raw)
	}

	title, body := notificationText(event)
	return &messaging.Message{
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data:    data,
		Topic:   TrackingTopic(event.TrackingID),
		Android: androidConfig(event.TrackingID),
		APNS:    apnsConfig(),
	}, nil
}

func notificationText(event ParcelEvent) (string, string) {
	switch event.Type {
	case EventPaymentRecorded:
		return "Payment received", fmt.Sprintf("Payment for parcel %s has been recorded", event.TrackingID)
	default:
		return "Parcel update", fmt.Sprintf("Parcel %s has a new tracking update", event.TrackingID)
	}
}

// androidConfig tags notifications with the tracking id so a newer update
// replaces the previous one on the device.
func androidConfig(trackingID string) *messaging.AndroidConfig {
	return &messaging.AndroidConfig{
		Priority: "high",
		Notification: &messaging.AndroidNotification{
			ChannelID:             "parcel_updates",
			Sound:                 "default",
			DefaultSound:          true,
			Priority:              messaging.PriorityHigh,
			Tag:                   trackingID,
			DefaultVibrateTimings: true,
		},
	}
}

func apnsConfig() *messaging.APNSConfig {
	return &messaging.APNSConfig{
		Payload: &messaging.APNSPayload{
			Aps: &messaging.Aps{
				Sound:            "default",
				MutableContent:   true,
				ContentAvailable: true,
			},
		},
	}
}
