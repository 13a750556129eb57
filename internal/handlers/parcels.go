package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/chachabrian/parcel-backend/internal/apperrors"
	"github.com/chachabrian/parcel-backend/internal/database"
	"github.com/chachabrian/parcel-backend/internal/middleware"
	"github.com/chachabrian/parcel-backend/internal/models"
	"github.com/chachabrian/parcel-backend/internal/services"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ListParcels returns parcels newest first, optionally only one creator's.
func ListParcels(store database.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		parcels, err := store.ListParcels(c.Request.Context(), c.Query("email"))
		if err != nil {
			apperrors.Abort(c, apperrors.NewUpstream("Failed to get parcels", err))
			return
		}
		c.JSON(http.StatusOK, parcels)
	}
}

func GetParcel(store database.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := paramObjectID(c, "id")
		if err != nil {
			apperrors.Abort(c, err)
			return
		}

		parcel, err := store.FindParcelByID(c.Request.Context(), id)
		if errors.Is(err, database.ErrNotFound) {
			apperrors.Abort(c, apperrors.NewNotFound("Parcel not found"))
			return
		}
		if err != nil {
			apperrors.Abort(c, apperrors.NewUpstream("Failed to fetch parcel", err))
			return
		}

		c.JSON(http.StatusOK, parcel)
	}
}

// CreateParcel stores a new unpaid parcel. When the caller is authenticated
// and the body names no creator, the token's email is used.
func CreateParcel(store database.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var parcel models.Parcel
		if err := c.ShouldBindJSON(&parcel); err != nil {
			apperrors.Abort(c, apperrors.NewValidation("Invalid parcel data"))
			return
		}

		if parcel.CreatedBy == "" {
			if claims, ok := middleware.ClaimsFrom(c); ok {
				parcel.CreatedBy = claims.Email
			}
		}
		if parcel.CreatedBy == "" {
			apperrors.Abort(c, apperrors.NewValidation("created_by is required"))
			return
		}

		parcel.ID = primitive.NilObjectID
		parcel.ParcelImage = ""
		parcel.ApplyDefaults(time.Now())

		id, err := store.InsertParcel(c.Request.Context(), &parcel)
		if err != nil {
			apperrors.Abort(c, apperrors.NewUpstream("Failed to create parcel", err))
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"insertedId":  id,
			"tracking_id": parcel.TrackingID,
		})
	}
}

func DeleteParcel(store database.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := paramObjectID(c, "id")
		if err != nil {
			apperrors.Abort(c, err)
			return
		}

		deleted, err := store.DeleteParcel(c.Request.Context(), id)
		if err != nil {
			apperrors.Abort(c, apperrors.NewUpstream("Failed to delete parcel", err))
			return
		}
		if deleted == 0 {
			apperrors.Abort(c, apperrors.NewNotFound("Parcel not found"))
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Parcel deleted", "deletedCount": deleted})
	}
}

// UploadParcelImage stores the multipart parcelImage file and links it to
// the parcel.
func UploadParcelImage(store database.Store, storage services.ImageStorage) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := paramObjectID(c, "id")
		if err != nil {
			apperrors.Abort(c, err)
			return
		}

		file, err := c.FormFile("parcelImage")
		if err != nil {
			apperrors.Abort(c, apperrors.NewValidation("Parcel image is required"))
			return
		}

		ctx := c.Request.Context()
		if _, err := store.FindParcelByID(ctx, id); err != nil {
			if errors.Is(err, database.ErrNotFound) {
				apperrors.Abort(c, apperrors.NewNotFound("Parcel not found"))
				return
			}
			apperrors.Abort(c, apperrors.NewUpstream("Failed to fetch parcel", err))
			return
		}

		path, err := storage.UploadImage(file, "parcels")
		if err != nil {
			apperrors.Abort(c, apperrors.NewUpstream("Failed to upload image", err))
			return
		}
		imageURL := storage.ImageURL(path)

		res, err := store.SetParcelImage(ctx, id, imageURL)
		if err != nil {
			apperrors.Abort(c, apperrors.NewUpstream("Failed to save parcel image", err))
			return
		}
		if res.Matched == 0 {
			apperrors.Abort(c, apperrors.NewNotFound("Parcel not found"))
			return
		}

		c.JSON(http.StatusOK, gin.H{"parcel_image": imageURL})
	}
}
