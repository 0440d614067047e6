package routes

import (
	"context"
	"net/http"
	"time"

	"docuchat-backend/internal/chat"
	"docuchat-backend/internal/config"
	"docuchat-backend/internal/logger"
	"docuchat-backend/middleware"
	"docuchat-backend/models"
	"docuchat-backend/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SetupChatRoutes wires document conversations. Live session state lives
// in the engine's store; every turn is also mirrored into the chats
// collection so transcripts survive session expiry.
func SetupChatRoutes(router *gin.Engine, cfg *config.Config, mongoClient *mongo.Client, engine *chat.Engine, authMiddleware *middleware.AuthMiddleware) {
	chatGroup := router.Group("/chat")
	chatGroup.Use(authMiddleware.RequireAuth())

	db := mongoClient.Database(cfg.DBName)
	documentsCollection := db.Collection("documents")
	chatsCollection := db.Collection("chats")

	requireUserID := func(c *gin.Context) (primitive.ObjectID, bool) {
		userID, err := primitive.ObjectIDFromHex(middleware.GetUserID(c))
		if err != nil {
			utils.RespondWithUnauthorized(c, "User ID required")
			return primitive.NilObjectID, false
		}
		return userID, true
	}

	ownedRecord := func(c *gin.Context, userID primitive.ObjectID) (*models.ChatRecord, bool) {
		var record models.ChatRecord
		err := chatsCollection.FindOne(context.Background(),
			bson.M{"session_id": c.Param("sessionId"), "user_id": userID}).Decode(&record)
		if err != nil {
			utils.RespondWithNotFound(c, "Chat session not found")
			return nil, false
		}
		return &record, true
	}

	// Start a conversation about an analyzed document
	chatGroup.POST("/start/:documentId", func(c *gin.Context) {
		userID, ok := requireUserID(c)
		if !ok {
			return
		}

		docID, err := primitive.ObjectIDFromHex(c.Param("documentId"))
		if err != nil {
			utils.RespondWithBadRequest(c, "Invalid document ID", nil)
			return
		}

		var doc models.Document
		err = documentsCollection.FindOne(context.Background(),
			bson.M{"_id": docID, "user_id": userID}).Decode(&doc)
		if err != nil {
			utils.RespondWithNotFound(c, "Document not found")
			return
		}
		if doc.Status != models.StatusCompleted {
			utils.RespondWithConflict(c, "Document has not finished processing")
			return
		}

		text, err := doc.ExtractedText()
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to decode stored text", nil)
			return
		}

		session, err := engine.StartSession(c.Request.Context(), doc.ID.Hex(), doc.OriginalName, text)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to start chat session", nil)
			return
		}

		record := models.ChatRecord{
			SessionID:    session.ID,
			UserID:       userID,
			DocumentID:   doc.ID,
			DocumentName: doc.OriginalName,
			Turns:        session.Turns,
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		}
		if _, err := chatsCollection.InsertOne(context.Background(), record); err != nil {
			utils.RespondWithInternalError(c, "Failed to record chat session", nil)
			return
		}

		c.JSON(http.StatusCreated, models.ChatStartResponse{
			SessionID:    session.ID,
			DocumentID:   doc.ID.Hex(),
			DocumentName: doc.OriginalName,
			Messages:     session.Turns,
		})
	})

	// Send a message and get the assistant's reply
	chatGroup.POST("/message/:sessionId", func(c *gin.Context) {
		userID, ok := requireUserID(c)
		if !ok {
			return
		}
		record, ok := ownedRecord(c, userID)
		if !ok {
			return
		}

		var req models.ChatMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}

		session, reply, err := engine.PostMessage(c.Request.Context(), record.SessionID, req.Message)
		if err == chat.ErrSessionNotFound {
			utils.RespondWithNotFound(c, "Chat session expired. Start a new one.")
			return
		}
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to process message", nil)
			return
		}

		_, err = chatsCollection.UpdateOne(context.Background(),
			bson.M{"session_id": record.SessionID},
			bson.M{"$set": bson.M{
				"turns":      session.Turns,
				"updated_at": time.Now(),
			}},
		)
		if err != nil {
			logger.Warn("Failed to mirror chat turns", "session_id", record.SessionID, "error", err)
		}

		c.JSON(http.StatusOK, models.ChatMessageResponse{
			SessionID: record.SessionID,
			Reply:     reply.Content,
			Timestamp: reply.Timestamp,
		})
	})

	// Full transcript; falls back to the mirrored record after the live
	// session expires
	chatGroup.GET("/history/:sessionId", func(c *gin.Context) {
		userID, ok := requireUserID(c)
		if !ok {
			return
		}
		record, ok := ownedRecord(c, userID)
		if !ok {
			return
		}

		turns, err := engine.History(c.Request.Context(), record.SessionID)
		if err == chat.ErrSessionNotFound {
			turns = record.Turns
		} else if err != nil {
			utils.RespondWithInternalError(c, "Failed to load history", nil)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"session_id":    record.SessionID,
			"document_id":   record.DocumentID.Hex(),
			"document_name": record.DocumentName,
			"messages":      turns,
		})
	})

	// The caller's conversations, most recent first
	chatGroup.GET("/sessions", func(c *gin.Context) {
		userID, ok := requireUserID(c)
		if !ok {
			return
		}

		opts := options.Find().
			SetSort(bson.D{{Key: "updated_at", Value: -1}}).
			SetProjection(bson.M{"turns": 0}).
			SetLimit(50)
		cursor, err := chatsCollection.Find(context.Background(), bson.M{"user_id": userID}, opts)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to list sessions", nil)
			return
		}
		defer cursor.Close(context.Background())

		sessions := []models.ChatRecord{}
		if err := cursor.All(context.Background(), &sessions); err != nil {
			utils.RespondWithInternalError(c, "Failed to list sessions", nil)
			return
		}

		c.JSON(http.StatusOK, gin.H{"sessions": sessions})
	})

	// End a conversation and drop its transcript
	chatGroup.DELETE("/:sessionId", func(c *gin.Context) {
		userID, ok := requireUserID(c)
		if !ok {
			return
		}
		record, ok := ownedRecord(c, userID)
		if !ok {
			return
		}

		if err := engine.EndSession(c.Request.Context(), record.SessionID); err != nil {
			logger.Warn("Failed to drop live session", "session_id", record.SessionID, "error", err)
		}
		if _, err := chatsCollection.DeleteOne(context.Background(), bson.M{"session_id": record.SessionID}); err != nil {
			utils.RespondWithInternalError(c, "Failed to delete chat", nil)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Chat deleted"})
	})
}
