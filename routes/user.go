package routes

import (
	"context"
	"net/http"
	"os"
	"time"

	"docuchat-backend/internal/auth"
	"docuchat-backend/internal/chat"
	"docuchat-backend/internal/config"
	"docuchat-backend/internal/logger"
	"docuchat-backend/middleware"
	"docuchat-backend/models"
	"docuchat-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type updateProfileRequest struct {
	Name string `json:"name" binding:"required,min=2,max=100"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required,min=8"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=128"`
}

// SetupUserRoutes wires profile management and account deletion.
func SetupUserRoutes(router *gin.Engine, cfg *config.Config, mongoClient *mongo.Client, rdb *redis.Client, engine *chat.Engine, authMiddleware *middleware.AuthMiddleware) {
	users := router.Group("/users")
	users.Use(authMiddleware.RequireAuth())

	db := mongoClient.Database(cfg.DBName)
	usersCollection := db.Collection("users")
	documentsCollection := db.Collection("documents")
	chatsCollection := db.Collection("chats")

	requireUser := func(c *gin.Context) (*models.User, bool) {
		userID, err := primitive.ObjectIDFromHex(middleware.GetUserID(c))
		if err != nil {
			utils.RespondWithUnauthorized(c, "User ID required")
			return nil, false
		}
		var user models.User
		if err := usersCollection.FindOne(context.Background(), bson.M{"_id": userID}).Decode(&user); err != nil {
			utils.RespondWithNotFound(c, "User not found")
			return nil, false
		}
		return &user, true
	}

	users.GET("/me", func(c *gin.Context) {
		user, ok := requireUser(c)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, user)
	})

	users.PUT("/me", func(c *gin.Context) {
		user, ok := requireUser(c)
		if !ok {
			return
		}

		var req updateProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}

		_, err := usersCollection.UpdateOne(context.Background(),
			bson.M{"_id": user.ID},
			bson.M{"$set": bson.M{"name": req.Name, "updated_at": time.Now()}})
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to update profile", nil)
			return
		}

		user.Name = req.Name
		c.JSON(http.StatusOK, user)
	})

	// Changing the password revokes every session
	users.PUT("/me/password", func(c *gin.Context) {
		user, ok := requireUser(c)
		if !ok {
			return
		}

		var req changePasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}

		if !utils.CheckPassword(req.CurrentPassword, user.PasswordHash) {
			utils.RespondWithUnauthorized(c, "Current password is incorrect")
			return
		}

		hash, err := utils.HashPassword(req.NewPassword, cfg.BcryptCost)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to process password", nil)
			return
		}

		_, err = usersCollection.UpdateOne(context.Background(),
			bson.M{"_id": user.ID},
			bson.M{"$set": bson.M{"password_hash": hash, "updated_at": time.Now()}})
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to update password", nil)
			return
		}

		if err := auth.RevokeAllUserTokens(user.ID.Hex(), rdb); err != nil {
			logger.Warn("Failed to revoke sessions after password change", "user_id", user.ID.Hex(), "error", err)
		}
		middleware.ClearAuthCookies(c, cfg)

		c.JSON(http.StatusOK, gin.H{"message": "Password updated. Please log in again."})
	})

	users.GET("/me/stats", func(c *gin.Context) {
		user, ok := requireUser(c)
		if !ok {
			return
		}

		docCount, err := documentsCollection.CountDocuments(context.Background(), bson.M{"user_id": user.ID})
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to compute stats", nil)
			return
		}
		chatCount, err := chatsCollection.CountDocuments(context.Background(), bson.M{"user_id": user.ID})
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to compute stats", nil)
			return
		}

		// Turn counts live inside the transcripts; sum them server-side.
		pipeline := mongo.Pipeline{
			{{Key: "$match", Value: bson.M{"user_id": user.ID}}},
			{{Key: "$project", Value: bson.M{"turns": bson.M{"$size": "$turns"}}}},
			{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$turns"}}}},
		}
		cursor, err := chatsCollection.Aggregate(context.Background(), pipeline)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to compute stats", nil)
			return
		}
		defer cursor.Close(context.Background())

		var totals []struct {
			Total int64 `bson:"total"`
		}
		if err := cursor.All(context.Background(), &totals); err != nil {
			utils.RespondWithInternalError(c, "Failed to compute stats", nil)
			return
		}

		stats := models.UserStats{
			DocumentCount: docCount,
			ChatCount:     chatCount,
		}
		if len(totals) > 0 {
			stats.MessageCount = totals[0].Total
		}

		c.JSON(http.StatusOK, stats)
	})

	// Delete the account and everything attached to it
	users.DELETE("/me", func(c *gin.Context) {
		user, ok := requireUser(c)
		if !ok {
			return
		}

		// Remove stored files first
		cursor, err := documentsCollection.Find(context.Background(), bson.M{"user_id": user.ID})
		if err == nil {
			var docs []models.Document
			if err := cursor.All(context.Background(), &docs); err == nil {
				for _, doc := range docs {
					if doc.FilePath == "" {
						continue
					}
					if rmErr := os.Remove(doc.FilePath); rmErr != nil && !os.IsNotExist(rmErr) {
						logger.Warn("Failed to remove stored file", "path", doc.FilePath, "error", rmErr)
					}
				}
			}
		}

		// Drop live chat sessions before their records go
		recCursor, err := chatsCollection.Find(context.Background(), bson.M{"user_id": user.ID})
		if err == nil {
			var records []models.ChatRecord
			if err := recCursor.All(context.Background(), &records); err == nil {
				for _, record := range records {
					if endErr := engine.EndSession(c.Request.Context(), record.SessionID); endErr != nil {
						logger.Debug("Failed to drop live session", "session_id", record.SessionID, "error", endErr)
					}
				}
			}
		}

		if _, err := documentsCollection.DeleteMany(context.Background(), bson.M{"user_id": user.ID}); err != nil {
			utils.RespondWithInternalError(c, "Failed to delete documents", nil)
			return
		}
		if _, err := chatsCollection.DeleteMany(context.Background(), bson.M{"user_id": user.ID}); err != nil {
			utils.RespondWithInternalError(c, "Failed to delete chats", nil)
			return
		}
		if _, err := usersCollection.DeleteOne(context.Background(), bson.M{"_id": user.ID}); err != nil {
			utils.RespondWithInternalError(c, "Failed to delete account", nil)
			return
		}

		if err := auth.RevokeAllUserTokens(user.ID.Hex(), rdb); err != nil {
			logger.Warn("Failed to revoke tokens for deleted account", "user_id", user.ID.Hex(), "error", err)
		}
		middleware.ClearAuthCookies(c, cfg)

		c.JSON(http.StatusOK, gin.H{"message": "Account deleted"})
	})
}
