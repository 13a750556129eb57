package handlers

import (
	"context"
	"log"
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

// ListPayments returns payment history newest first. The email query has
// already been matched against the token; without it the caller's own
// history is listed.
func ListPayments(store database.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.Query("email")
		if email == "" {
			claims, ok := middleware.ClaimsFrom(c)
			if !ok {
				apperrors.Abort(c, apperrors.NewUnauthenticated("unauthorized access"))
				return
			}
			email = claims.Email
		}

		payments, err := store.ListPayments(c.Request.Context(), email)
		if err != nil {
			apperrors.Abort(c, apperrors.NewUpstream("Failed to get payments", err))
			return
		}
		c.JSON(http.StatusOK, payments)
	}
}

// RecordPayment marks the parcel paid and then appends the payment record.
// A parcel that is missing or already paid modifies nothing and stops the
// request before any payment is written.
func RecordPayment(store database.Store, publisher services.EventPublisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			ParcelID      string  `json:"parcelId"`
			Email         string  `json:"email"`
			Amount        float64 `json:"amount"`
			PaymentMethod string  `json:"paymentMethod"`
			TransactionID string  `json:"transactionId"`
		}
		if err := c.ShouldBindJSON(&input); err != nil ||
			input.Email == "" || input.TransactionID == "" || input.Amount <= 0 {
			apperrors.Abort(c, apperrors.NewValidation("Missing required payment fields"))
			return
		}

		parcelID, err := primitive.ObjectIDFromHex(input.ParcelID)
		if err != nil {
			apperrors.Abort(c, apperrors.NewValidation("Invalid parcelId"))
			return
		}

		var payment *models.Payment
		err = store.WithTransaction(c.Request.Context(), func(ctx context.Context) error {
			res, err := store.MarkParcelPaid(ctx, parcelID)
			if err != nil {
				return apperrors.NewUpstream("Failed to record payment", err)
			}
			if res.Modified == 0 {
				return apperrors.NewNotFound("Parcel not found or already paid")
			}

			payment = models.NewPayment(parcelID, input.Email, input.Amount, input.PaymentMethod, input.TransactionID, time.Now())
			if _, err := store.InsertPayment(ctx, payment); err != nil {
				return apperrors.NewUpstream("Failed to record payment", err)
			}
			return nil
		})
		if err != nil {
			apperrors.Abort(c, err)
			return
		}

		publishPayment(c.Request.Context(), store, publisher, payment)

		c.JSON(http.StatusCreated, gin.H{
			"message":    "Payment recorded and parcel marked as paid",
			"insertedId": payment.ID,
		})
	}
}

func publishPayment(ctx context.Context, store database.Store, publisher services.EventPublisher, payment *models.Payment) {
	trackingID := ""
	if parcel, err := store.FindParcelByID(ctx, payment.ParcelID); err == nil {
		trackingID = parcel.TrackingID
	}

	event := services.NewParcelEvent(services.EventPaymentRecorded, payment.ParcelID.Hex(), trackingID, payment)
	if err := publisher.Publish(ctx, event); err != nil {
		log.Printf("Failed to publish payment event for parcel %s: %v", payment.ParcelID.Hex(), err)
	}
}

// CreatePaymentIntent asks the payment provider for a card intent. Provider
// errors are returned to the caller as-is.
func CreatePaymentIntent(gateway services.PaymentGateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			AmountInCents int64 `json:"amountInCents"`
		}
		if err := c.ShouldBindJSON(&input); err != nil || input.AmountInCents <= 0 {
			apperrors.Abort(c, apperrors.NewValidation("amountInCents must be a positive integer"))
			return
		}

		secret, err := gateway.CreatePaymentIntent(c.Request.Context(), input.AmountInCents)
		if err != nil {
			log.Printf("Payment intent creation failed: %v", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"clientSecret": secret})
	}
}
