package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/chachabrian/parcel-backend/internal/apperrors"
	"github.com/chachabrian/parcel-backend/internal/database"
	"github.com/chachabrian/parcel-backend/internal/models"
	"github.com/gin-gonic/gin"
)

// ListRiders returns riders in status, newest application first.
func ListRiders(store database.Store, status models.RiderStatus) gin.HandlerFunc {
	return func(c *gin.Context) {
		riders, err := store.ListRidersByStatus(c.Request.Context(), status)
		if err != nil {
			apperrors.Abort(c, apperrors.NewUpstream("Failed to load riders", err))
			return
		}
		c.JSON(http.StatusOK, riders)
	}
}

// CreateRider stores a rider application in pending state.
func CreateRider(store database.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Name      string `json:"name"`
			Email     string `json:"email" binding:"required"`
			Phone     string `json:"phone"`
			Region    string `json:"region"`
			District  string `json:"district"`
			NID       string `json:"nid"`
			BikeBrand string `json:"bike_brand"`
			BikeRegNo string `json:"bike_registration"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			apperrors.Abort(c, apperrors.NewValidation("Email is required"))
			return
		}

		rider := &models.Rider{
			Name:      input.Name,
			Email:     input.Email,
			Phone:     input.Phone,
			Region:    input.Region,
			District:  input.District,
			NID:       input.NID,
			BikeBrand: input.BikeBrand,
			BikeRegNo: input.BikeRegNo,
			Status:    models.RiderStatusPending,
			CreatedAt: time.Now(),
		}
		id, err := store.InsertRider(c.Request.Context(), rider)
		if err != nil {
			apperrors.Abort(c, apperrors.NewUpstream("Failed to create rider", err))
			return
		}

		c.JSON(http.StatusCreated, gin.H{"insertedId": id})
	}
}

// UpdateRiderStatus persists a rider status change. Accepting a rider also
// promotes the user with the rider's stored email to the rider role. An
// email in the body is only checked against the stored one, never trusted.
func UpdateRiderStatus(store database.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := paramObjectID(c, "id")
		if err != nil {
			apperrors.Abort(c, err)
			return
		}

		var input struct {
			Status string `json:"status" binding:"required"`
			Email  string `json:"email"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			apperrors.Abort(c, apperrors.NewValidation("Status is required"))
			return
		}

		ctx := c.Request.Context()
		rider, err := store.FindRiderByID(ctx, id)
		if errors.Is(err, database.ErrNotFound) {
			apperrors.Abort(c, apperrors.NewNotFound("Rider not found"))
			return
		}
		if err != nil {
			apperrors.Abort(c, apperrors.NewUpstream("Failed to load rider", err))
			return
		}
		if input.Email != "" && !strings.EqualFold(input.Email, rider.Email) {
			apperrors.Abort(c, apperrors.NewValidation("Email does not match rider"))
			return
		}

		status := models.RiderStatus(input.Status)
		var (
			updated     database.UpdateResult
			roleUpdated bool
		)
		err = store.WithTransaction(ctx, func(ctx context.Context) error {
			res, err := store.UpdateRiderStatus(ctx, id, status)
			if err != nil {
				return apperrors.NewUpstream("Failed to update rider status", err)
			}
			updated = res

			if status != models.RiderStatusAccepted {
				return nil
			}
			userRes, err := store.UpdateUserRoleByEmail(ctx, rider.Email, models.RoleRider)
			if err != nil {
				return apperrors.NewUpstream("Failed to update user role", err)
			}
			if userRes.Matched == 0 {
				log.Printf("Rider %s accepted but no user has email %s", id.Hex(), rider.Email)
			}
			roleUpdated = userRes.Matched > 0
			return nil
		})
		if err != nil {
			apperrors.Abort(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":       "Rider status updated",
			"modifiedCount": updated.Modified,
			"roleUpdated":   roleUpdated,
		})
	}
}
