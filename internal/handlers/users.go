package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/chachabrian/parcel-backend/internal/apperrors"
	"github.com/chachabrian/parcel-backend/internal/database"
	"github.com/chachabrian/parcel-backend/internal/models"
	"github.com/gin-gonic/gin"
)

const userSearchLimit = 10

// SearchUsers returns users whose email contains the query, ignoring case.
func SearchUsers(store database.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.Query("email")
		if email == "" {
			apperrors.Abort(c, apperrors.NewValidation("Missing email query"))
			return
		}

		users, err := store.SearchUsersByEmail(c.Request.Context(), email, userSearchLimit)
		if err != nil {
			apperrors.Abort(c, apperrors.NewUpstream("Error searching users", err))
			return
		}

		c.JSON(http.StatusOK, users)
	}
}

// UpdateUserRole sets a user's role to admin or user.
func UpdateUserRole(store database.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := paramObjectID(c, "id")
		if err != nil {
			apperrors.Abort(c, err)
			return
		}

		var input struct {
			Role string `json:"role"`
		}
		if err := c.ShouldBindJSON(&input); err != nil || !models.AssignableRole(input.Role) {
			apperrors.Abort(c, apperrors.NewValidation("Invalid role"))
			return
		}

		res, err := store.UpdateUserRole(c.Request.Context(), id, models.Role(input.Role))
		if err != nil {
			apperrors.Abort(c, apperrors.NewUpstream("Failed to update user role", err))
			return
		}
		if res.Matched == 0 {
			apperrors.Abort(c, apperrors.NewNotFound("User not found"))
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":       "User role updated to " + input.Role,
			"modifiedCount": res.Modified,
		})
	}
}

// UpsertUser records a sign-in. A known email only refreshes last_log_in.
func UpsertUser(store database.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Email    string `json:"email" binding:"required"`
			Name     string `json:"name"`
			PhotoURL string `json:"photo_url"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			apperrors.Abort(c, apperrors.NewValidation("Email is required"))
			return
		}

		ctx := c.Request.Context()
		now := time.Now()

		exists, err := store.TouchUserLogin(ctx, input.Email, now)
		if err != nil {
			apperrors.Abort(c, apperrors.NewUpstream("Failed to save user", err))
			return
		}
		if exists {
			c.JSON(http.StatusOK, gin.H{"message": "User already exists", "inserted": false})
			return
		}

		user := &models.User{
			Email:     input.Email,
			Name:      input.Name,
			PhotoURL:  input.PhotoURL,
			Role:      models.RoleUser,
			CreatedAt: now,
			LastLogIn: now,
		}
		id, err := store.InsertUser(ctx, user)
		if err != nil {
			apperrors.Abort(c, apperrors.NewUpstream("Failed to save user", err))
			return
		}

		c.JSON(http.StatusCreated, gin.H{"inserted": true, "insertedId": id})
	}
}

// GetUserRole returns the role stored for an email.
func GetUserRole(store database.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := store.FindUserByEmail(c.Request.Context(), c.Param("email"))
		if errors.Is(err, database.ErrNotFound) {
			apperrors.Abort(c, apperrors.NewNotFound("User not found"))
			return
		}
		if err != nil {
			apperrors.Abort(c, apperrors.NewUpstream("Failed to get user role", err))
			return
		}

		c.JSON(http.StatusOK, gin.H{"role": user.Role})
	}
}
