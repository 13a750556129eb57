package database

import (
	"context"
	"regexp"
	"time"

	"github.com/chachabrian/parcel-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// userSearchFilter matches emails containing fragment, case-insensitively.
// The fragment is matched literally.
func userSearchFilter(fragment string) bson.M {
	return bson.M{"email": bson.M{"$regex": regexp.QuoteMeta(fragment), "$options": "i"}}
}

func (s *MongoStore) SearchUsersByEmail(ctx context.Context, fragment string, limit int64) ([]models.User, error) {
	opts := options.Find().
		SetProjection(bson.M{"email": 1, "role": 1, "created_at": 1}).
		SetLimit(limit)
	return findAll[models.User](ctx, s.users, userSearchFilter(fragment), opts)
}

func (s *MongoStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return findOne[models.User](ctx, s.users, bson.M{"email": email})
}

func (s *MongoStore) InsertUser(ctx context.Context, user *models.User) (primitive.ObjectID, error) {
	res, err := s.users.InsertOne(ctx, user)
	if err != nil {
		return primitive.NilObjectID, err
	}
	user.ID = insertedID(res)
	return user.ID, nil
}

func (s *MongoStore) TouchUserLogin(ctx context.Context, email string, at time.Time) (bool, error) {
	res, err := s.users.UpdateOne(ctx, bson.M{"email": email}, bson.M{"$set": bson.M{"last_log_in": at}})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (s *MongoStore) UpdateUserRole(ctx context.Context, id primitive.ObjectID, role models.Role) (UpdateResult, error) {
	res, err := s.users.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"role": role}})
	if err != nil {
		return UpdateResult{}, err
	}
	return updateResult(res), nil
}

func (s *MongoStore) UpdateUserRoleByEmail(ctx context.Context, email string, role models.Role) (UpdateResult, error) {
	res, err := s.users.UpdateOne(ctx, bson.M{"email": email}, bson.M{"$set": bson.M{"role": role}})
	if err != nil {
		return UpdateResult{}, err
	}
	return updateResult(res), nil
}
