package testutil

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/chachabrian/parcel-backend/internal/database"
	"github.com/chachabrian/parcel-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemStore is an in-memory database.Store with the same matching, ordering
// and modified-count semantics as the Mongo implementation.
type MemStore struct {
	mu sync.RWMutex

	users    []models.User
	riders   []models.Rider
	parcels  []models.Parcel
	payments []models.Payment
	tracking []models.TrackingLog

	// Error injection
	PingError          error
	InsertPaymentError error
	UpdateUserError    error
	FindParcelError    error

	// Call tracking
	Transactions  int
	ParcelLookups int
}

var _ database.Store = (*MemStore)(nil)

func NewMemStore() *MemStore {
	return &MemStore{}
}

func (m *MemStore) Ping(context.Context) error {
	return m.PingError
}

func (m *MemStore) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	m.Transactions++
	m.mu.Unlock()
	return fn(ctx)
}

// Users

func (m *MemStore) SeedUser(u models.User) models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	m.users = append(m.users, u)
	return u
}

func (m *MemStore) Users() []models.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.User(nil), m.users...)
}

func (m *MemStore) SearchUsersByEmail(_ context.Context, fragment string, limit int64) ([]models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.User{}
	for _, u := range m.users {
		if strings.Contains(strings.ToLower(u.Email), strings.ToLower(fragment)) {
			out = append(out, models.User{ID: u.ID, Email: u.Email, Role: u.Role, CreatedAt: u.CreatedAt})
		}
		if limit > 0 && int64(len(out)) == limit {
			break
		}
	}
	return out, nil
}

func (m *MemStore) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			found := u
			return &found, nil
		}
	}
	return nil, database.ErrNotFound
}

func (m *MemStore) InsertUser(_ context.Context, user *models.User) (primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user.ID = primitive.NewObjectID()
	m.users = append(m.users, *user)
	return user.ID, nil
}

func (m *MemStore) TouchUserLogin(_ context.Context, email string, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.users {
		if m.users[i].Email == email {
			m.users[i].LastLogIn = at
			return true, nil
		}
	}
	return false, nil
}

func (m *MemStore) UpdateUserRole(_ context.Context, id primitive.ObjectID, role models.Role) (database.UpdateResult, error) {
	return m.updateUser(func(u models.User) bool { return u.ID == id }, role)
}

func (m *MemStore) UpdateUserRoleByEmail(_ context.Context, email string, role models.Role) (database.UpdateResult, error) {
	return m.updateUser(func(u models.User) bool { return u.Email == email }, role)
}

func (m *MemStore) updateUser(match func(models.User) bool, role models.Role) (database.UpdateResult, error) {
	if m.UpdateUserError != nil {
		return database.UpdateResult{}, m.UpdateUserError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.users {
		if match(m.users[i]) {
			if m.users[i].Role == role {
				return database.UpdateResult{Matched: 1}, nil
			}
			m.users[i].Role = role
			return database.UpdateResult{Matched: 1, Modified: 1}, nil
		}
	}
	return database.UpdateResult{}, nil
}

// Riders

func (m *MemStore) SeedRider(r models.Rider) models.Rider {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	m.riders = append(m.riders, r)
	return r
}

func (m *MemStore) ListRidersByStatus(_ context.Context, status models.RiderStatus) ([]models.Rider, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.Rider{}
	for _, r := range m.riders {
		if r.Status == status {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemStore) FindRiderByID(_ context.Context, id primitive.ObjectID) (*models.Rider, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.riders {
		if r.ID == id {
			found := r
			return &found, nil
		}
	}
	return nil, database.ErrNotFound
}

func (m *MemStore) InsertRider(_ context.Context, rider *models.Rider) (primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rider.ID = primitive.NewObjectID()
	m.riders = append(m.riders, *rider)
	return rider.ID, nil
}

func (m *MemStore) UpdateRiderStatus(_ context.Context, id primitive.ObjectID, status models.RiderStatus) (database.UpdateResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.riders {
		if m.riders[i].ID == id {
			if m.riders[i].Status == status {
				return database.UpdateResult{Matched: 1}, nil
			}
			m.riders[i].Status = status
			return database.UpdateResult{Matched: 1, Modified: 1}, nil
		}
	}
	return database.UpdateResult{}, nil
}

// Parcels

func (m *MemStore) SeedParcel(p models.Parcel) models.Parcel {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	m.parcels = append(m.parcels, p)
	return p
}

func (m *MemStore) Parcel(id primitive.ObjectID) (models.Parcel, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.parcels {
		if p.ID == id {
			return p, true
		}
	}
	return models.Parcel{}, false
}

func (m *MemStore) ListParcels(_ context.Context, createdBy string) ([]models.Parcel, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.Parcel{}
	for _, p := range m.parcels {
		if createdBy == "" || p.CreatedBy == createdBy {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreationDate.After(out[j].CreationDate) })
	return out, nil
}

func (m *MemStore) FindParcelByID(_ context.Context, id primitive.ObjectID) (*models.Parcel, error) {
	m.mu.Lock()
	m.ParcelLookups++
	m.mu.Unlock()
	if m.FindParcelError != nil {
		return nil, m.FindParcelError
	}
	if p, ok := m.Parcel(id); ok {
		return &p, nil
	}
	return nil, database.ErrNotFound
}

func (m *MemStore) InsertParcel(_ context.Context, parcel *models.Parcel) (primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	parcel.ID = primitive.NewObjectID()
	m.parcels = append(m.parcels, *parcel)
	return parcel.ID, nil
}

func (m *MemStore) DeleteParcel(_ context.Context, id primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ParcelLookups++
	for i := range m.parcels {
		if m.parcels[i].ID == id {
			m.parcels = append(m.parcels[:i], m.parcels[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (m *MemStore) MarkParcelPaid(_ context.Context, id primitive.ObjectID) (database.UpdateResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.parcels {
		if m.parcels[i].ID == id {
			if m.parcels[i].PaymentStatus == models.PaymentStatusPaid {
				return database.UpdateResult{Matched: 1}, nil
			}
			m.parcels[i].PaymentStatus = models.PaymentStatusPaid
			return database.UpdateResult{Matched: 1, Modified: 1}, nil
		}
	}
	return database.UpdateResult{}, nil
}

func (m *MemStore) SetParcelImage(_ context.Context, id primitive.ObjectID, imageURL string) (database.UpdateResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.parcels {
		if m.parcels[i].ID == id {
			if m.parcels[i].ParcelImage == imageURL {
				return database.UpdateResult{Matched: 1}, nil
			}
			m.parcels[i].ParcelImage = imageURL
			return database.UpdateResult{Matched: 1, Modified: 1}, nil
		}
	}
	return database.UpdateResult{}, nil
}

// Payments

func (m *MemStore) SeedPayment(p models.Payment) models.Payment {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	m.payments = append(m.payments, p)
	return p
}

func (m *MemStore) Payments() []models.Payment {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.Payment(nil), m.payments...)
}

func (m *MemStore) ListPayments(_ context.Context, email string) ([]models.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.Payment{}
	for _, p := range m.payments {
		if email == "" || p.Email == email {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PaidAt.After(out[j].PaidAt) })
	return out, nil
}

func (m *MemStore) InsertPayment(_ context.Context, payment *models.Payment) (primitive.ObjectID, error) {
	if m.InsertPaymentError != nil {
		return primitive.NilObjectID, m.InsertPaymentError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	payment.ID = primitive.NewObjectID()
	m.payments = append(m.payments, *payment)
	return payment.ID, nil
}

// Tracking

func (m *MemStore) InsertTrackingLog(_ context.Context, entry *models.TrackingLog) (primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry.ID = primitive.NewObjectID()
	m.tracking = append(m.tracking, *entry)
	return entry.ID, nil
}

func (m *MemStore) ListTrackingLogs(_ context.Context, trackingID string) ([]models.TrackingLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.TrackingLog{}
	for _, e := range m.tracking {
		if e.TrackingID == trackingID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return out, nil
}

// ErrInjected is a generic failure for error injection in tests.
var ErrInjected = errors.New("injected failure")

// UnknownID returns a well-formed id that no seeded record uses.
func UnknownID() string {
	return primitive.NewObjectID().Hex()
}
