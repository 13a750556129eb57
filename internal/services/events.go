package services

import (
	"context"
	"errors"
	"time"
)

const (
	EventTrackingUpdated = "tracking_updated"
	EventPaymentRecorded = "payment_recorded"
)

// ParcelEvent describes a change to a parcel that live subscribers care about.
type ParcelEvent struct {
	Type       string      `json:"type"`
	ParcelID   string      `json:"parcelId"`
	TrackingID string      `json:"trackingId,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	Timestamp  int64       `json:"timestamp"`
}

func NewParcelEvent(eventType, parcelID, trackingID string, data interface{}) ParcelEvent {
	return ParcelEvent{
		Type:       eventType,
		ParcelID:   parcelID,
		TrackingID: trackingID,
		Data:       data,
		Timestamp:  time.Now().Unix(),
	}
}

type EventPublisher interface {
	Publish(ctx context.Context, event ParcelEvent) error
}

// LocalPublisher delivers events straight to this process's websocket hub.
type LocalPublisher struct {
	hub *Hub
}

func NewLocalPublisher(hub *Hub) *LocalPublisher {
	return &LocalPublisher{hub: hub}
}

func (p *LocalPublisher) Publish(_ context.Context, event ParcelEvent) error {
	deliver(p.hub, event)
	return nil
}

func deliver(hub *Hub, event ParcelEvent) {
	if event.TrackingID == "" {
		return
	}
	data, err := encodeMessage(event.Type, event)
	if err != nil {
		return
	}
	hub.BroadcastToTracking(event.TrackingID, data)
}

// MultiPublisher hands every event to each publisher in turn. All
// publishers run even when an earlier one fails.
type MultiPublisher []EventPublisher

func (m MultiPublisher) Publish(ctx context.Context, event ParcelEvent) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
