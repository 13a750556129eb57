package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/chachabrian/parcel-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// ErrNotFound is returned by single-document lookups that match nothing.
var ErrNotFound = errors.New("document not found")

const (
	usersCollection    = "users"
	ridersCollection   = "riders"
	parcelsCollection  = "parcels"
	paymentsCollection = "payments"
	trackingCollection = "tracking"
)

// UpdateResult mirrors the matched/modified counters of a single-document update.
type UpdateResult struct {
	Matched  int64
	Modified int64
}

// Store is the data-access context handed to every request handler. It owns
// the five record collections for the lifetime of the process.
type Store interface {
	Ping(ctx context.Context) error
	// WithTransaction runs fn so that its writes commit together when the
	// backing store supports multi-document transactions. Otherwise fn runs
	// as-is and a failure part way leaves earlier writes in place.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	SearchUsersByEmail(ctx context.Context, fragment string, limit int64) ([]models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	InsertUser(ctx context.Context, user *models.User) (primitive.ObjectID, error)
	TouchUserLogin(ctx context.Context, email string, at time.Time) (bool, error)
	UpdateUserRole(ctx context.Context, id primitive.ObjectID, role models.Role) (UpdateResult, error)
	UpdateUserRoleByEmail(ctx context.Context, email string, role models.Role) (UpdateResult, error)

	ListRidersByStatus(ctx context.Context, status models.RiderStatus) ([]models.Rider, error)
	FindRiderByID(ctx context.Context, id primitive.ObjectID) (*models.Rider, error)
	InsertRider(ctx context.Context, rider *models.Rider) (primitive.ObjectID, error)
	UpdateRiderStatus(ctx context.Context, id primitive.ObjectID, status models.RiderStatus) (UpdateResult, error)

	ListParcels(ctx context.Context, createdBy string) ([]models.Parcel, error)
	FindParcelByID(ctx context.Context, id primitive.ObjectID) (*models.Parcel, error)
	InsertParcel(ctx context.Context, parcel *models.Parcel) (primitive.ObjectID, error)
	DeleteParcel(ctx context.Context, id primitive.ObjectID) (int64, error)
	MarkParcelPaid(ctx context.Context, id primitive.ObjectID) (UpdateResult, error)
	SetParcelImage(ctx context.Context, id primitive.ObjectID, imageURL string) (UpdateResult, error)

	ListPayments(ctx context.Context, email string) ([]models.Payment, error)
	InsertPayment(ctx context.Context, payment *models.Payment) (primitive.ObjectID, error)

	InsertTrackingLog(ctx context.Context, entry *models.TrackingLog) (primitive.ObjectID, error)
	ListTrackingLogs(ctx context.Context, trackingID string) ([]models.TrackingLog, error)
}

// MongoStore implements Store on a MongoDB database.
type MongoStore struct {
	client          *mongo.Client
	useTransactions bool

	users    *mongo.Collection
	riders   *mongo.Collection
	parcels  *mongo.Collection
	payments *mongo.Collection
	tracking *mongo.Collection
}

var _ Store = (*MongoStore)(nil)

// InitDB connects to MongoDB, verifies the connection and ensures indexes.
// Transactions need a replica set; enable them only when one is available.
func InitDB(ctx context.Context, uri, dbName string, useTransactions bool) (*MongoStore, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := client.Database(dbName)
	store := &MongoStore{
		client:          client,
		useTransactions: useTransactions,
		users:           db.Collection(usersCollection),
		riders:          db.Collection(ridersCollection),
		parcels:         db.Collection(parcelsCollection),
		payments:        db.Collection(paymentsCollection),
		tracking:        db.Collection(trackingCollection),
	}

	if err := store.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	log.Printf("Connected to MongoDB database %s (transactions: %v)", dbName, useTransactions)
	return store, nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *MongoStore) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if !s.useTransactions {
		return fn(ctx)
	}

	session, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter interface{}, opts ...*options.FindOptions) ([]T, error) {
	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := []T{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func findOne[T any](ctx context.Context, coll *mongo.Collection, filter interface{}) (*T, error) {
	var doc T
	if err := coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

func insertedID(res *mongo.InsertOneResult) primitive.ObjectID {
	id, _ := res.InsertedID.(primitive.ObjectID)
	return id
}

func updateResult(res *mongo.UpdateResult) UpdateResult {
	return UpdateResult{Matched: res.MatchedCount, Modified: res.ModifiedCount}
}
