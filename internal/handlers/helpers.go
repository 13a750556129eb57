package handlers

import (
	"github.com/chachabrian/parcel-backend/internal/apperrors"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// paramObjectID parses a hex object id path parameter. Malformed ids are a
// validation error and never reach the store.
func paramObjectID(c *gin.Context, name string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		return primitive.NilObjectID, apperrors.NewValidation("Invalid ID format")
	}
	return id, nil
}
