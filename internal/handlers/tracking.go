package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/chachabrian/parcel-backend/internal/apperrors"
	"github.com/chachabrian/parcel-backend/internal/database"
	"github.com/chachabrian/parcel-backend/internal/models"
	"github.com/chachabrian/parcel-backend/internal/services"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CreateTrackingLog appends a status event for a parcel and notifies live
// subscribers of its tracking id.
func CreateTrackingLog(store database.Store, publisher services.EventPublisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			TrackingID string `json:"tracking_id"`
			ParcelID   string `json:"parcel_id"`
			Status     string `json:"status"`
			Message    string `json:"message"`
			UpdatedBy  string `json:"updated_by"`
		}
		if err := c.ShouldBindJSON(&input); err != nil ||
			input.TrackingID == "" || input.ParcelID == "" || input.Status == "" || input.Message == "" {
			apperrors.Abort(c, apperrors.NewValidation("Missing required fields"))
			return
		}

		parcelID, err := primitive.ObjectIDFromHex(input.ParcelID)
		if err != nil {
			apperrors.Abort(c, apperrors.NewValidation("Invalid parcel_id"))
			return
		}

		entry := &models.TrackingLog{
			TrackingID: input.TrackingID,
			ParcelID:   parcelID,
			Status:     input.Status,
			Message:    input.Message,
			Time:       time.Now(),
			UpdatedBy:  input.UpdatedBy,
		}

		ctx := c.Request.Context()
		id, err := store.InsertTrackingLog(ctx, entry)
		if err != nil {
			apperrors.Abort(c, apperrors.NewUpstream("Failed to add tracking log", err))
			return
		}

		event := services.NewParcelEvent(services.EventTrackingUpdated, input.ParcelID, entry.TrackingID, entry)
		if err := publisher.Publish(ctx, event); err != nil {
			log.Printf("Failed to publish tracking event for %s: %v", entry.TrackingID, err)
		}

		c.JSON(http.StatusCreated, gin.H{"message": "Tracking log added", "insertedId": id})
	}
}

// ListTrackingLogs returns the history of a tracking id, oldest first.
func ListTrackingLogs(store database.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		logs, err := store.ListTrackingLogs(c.Request.Context(), c.Param("trackingId"))
		if err != nil {
			apperrors.Abort(c, apperrors.NewUpstream("Failed to load tracking logs", err))
			return
		}
		c.JSON(http.StatusOK, logs)
	}
}

// TrackingStream upgrades to a websocket that receives new events for the
// tracking id.
func TrackingStream(hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		services.ServeTracking(hub, c.Writer, c.Request, c.Param("trackingId"))
	}
}
