package testutil

import (
	"context"
	"mime/multipart"
	"sync"

	"github.com/chachabrian/parcel-backend/internal/services"
)

// FakeGateway returns a fixed secret or error and records requested amounts.
type FakeGateway struct {
	Secret  string
	Err     error
	Amounts []int64
}

func (g *FakeGateway) CreatePaymentIntent(_ context.Context, amountInCents int64) (string, error) {
	g.Amounts = append(g.Amounts, amountInCents)
	if g.Err != nil {
		return "", g.Err
	}
	return g.Secret, nil
}

// RecordingPublisher keeps every published event.
type RecordingPublisher struct {
	mu     sync.Mutex
	Events []services.ParcelEvent
	Err    error
}

func (p *RecordingPublisher) Publish(_ context.Context, event services.ParcelEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Events = append(p.Events, event)
	return p.Err
}

func (p *RecordingPublisher) Published() []services.ParcelEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]services.ParcelEvent(nil), p.Events...)
}

// FakeStorage pretends to upload and returns a deterministic path.
type FakeStorage struct {
	Uploaded []string
	Err      error
}

func (s *FakeStorage) UploadImage(file *multipart.FileHeader, folder string) (string, error) {
	if s.Err != nil {
		return "", s.Err
	}
	path := folder + "/" + file.Filename
	s.Uploaded = append(s.Uploaded, path)
	return path, nil
}

func (s *FakeStorage) ImageURL(path string) string {
	return "https://cdn.example.com/" + path
}
