package routes

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"docuchat-backend/internal/config"
	"docuchat-backend/internal/logger"
	"docuchat-backend/internal/queue"
	"docuchat-backend/middleware"
	"docuchat-backend/models"
	"docuchat-backend/services"
	"docuchat-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SetupDocumentRoutes wires upload, listing, analysis, and deletion.
// Small uploads are analyzed inline; larger ones go through asynq.
func SetupDocumentRoutes(router *gin.Engine, cfg *config.Config, mongoClient *mongo.Client, asynqClient *asynq.Client, analyzer *services.AnalyzerService, authMiddleware *middleware.AuthMiddleware) {
	documents := router.Group("/documents")
	documents.Use(authMiddleware.RequireAuth())

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

	ownedDocument := func(c *gin.Context, userID primitive.ObjectID) (*models.Document, bool) {
		docID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			utils.RespondWithBadRequest(c, "Invalid document ID", nil)
			return nil, false
		}
		var doc models.Document
		err = documentsCollection.FindOne(context.Background(),
			bson.M{"_id": docID, "user_id": userID}).Decode(&doc)
		if err != nil {
			utils.RespondWithNotFound(c, "Document not found")
			return nil, false
		}
		return &doc, true
	}

	analyzeInline := func(ctx context.Context, doc *models.Document, content []byte) error {
		text := services.ExtractText(doc.OriginalName, content)
		result := analyzer.Analyze(ctx, text)

		if err := doc.SetExtractedText(text); err != nil {
			return err
		}
		doc.ApplyAnalysis(result)

		_, err := documentsCollection.UpdateOne(ctx,
			bson.M{"_id": doc.ID},
			bson.M{"$set": bson.M{
				"text":          doc.Text,
				"text_encoding": doc.TextEncoding,
				"summary":       doc.Summary,
				"insights":      doc.Insights,
				"keyPoints":     doc.KeyPoints,
				"sentiment":     doc.Sentiment,
				"status":        doc.Status,
				"error_message": "",
				"analyzed_at":   doc.AnalyzedAt,
			}},
		)
		return err
	}

	enqueueAnalysis := func(c *gin.Context, doc *models.Document) (string, bool) {
		task, err := queue.NewAnalyzeDocumentTask(doc.ID.Hex(), doc.UserID.Hex(), doc.FilePath, doc.OriginalName)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to queue analysis", nil)
			return "", false
		}
		info, err := asynqClient.Enqueue(task)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to queue analysis", nil)
			return "", false
		}
		return info.ID, true
	}

	// Upload a document and kick off analysis
	documents.POST("/upload", func(c *gin.Context) {
		userID, ok := requireUserID(c)
		if !ok {
			return
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			utils.RespondWithBadRequest(c, "A file is required", gin.H{"error": err.Error()})
			return
		}

		if fileHeader.Size > cfg.MaxFileSize {
			utils.RespondWithTooLarge(c, fmt.Sprintf("File exceeds the %d byte limit", cfg.MaxFileSize))
			return
		}

		contentType := fileHeader.Header.Get("Content-Type")
		if !typeAllowed(cfg.AllowedTypes, contentType) {
			utils.RespondWithUnsupportedType(c, "Unsupported file type: "+contentType)
			return
		}

		if err := os.MkdirAll(cfg.FileStorageDir, 0o755); err != nil {
			utils.RespondWithInternalError(c, "Failed to prepare storage", nil)
			return
		}

		storedName := fmt.Sprintf("%d-%s%s", time.Now().UnixNano(), uuid.NewString(), filepath.Ext(fileHeader.Filename))
		storedPath := filepath.Join(cfg.FileStorageDir, storedName)
		if err := c.SaveUploadedFile(fileHeader, storedPath); err != nil {
			utils.RespondWithInternalError(c, "Failed to store file", nil)
			return
		}

		doc := models.Document{
			UserID:       userID,
			Filename:     storedName,
			OriginalName: fileHeader.Filename,
			FilePath:     storedPath,
			ContentType:  contentType,
			Size:         fileHeader.Size,
			Status:       models.StatusPending,
			UploadedAt:   time.Now(),
		}
		result, err := documentsCollection.InsertOne(context.Background(), doc)
		if err != nil {
			os.Remove(storedPath)
			utils.RespondWithInternalError(c, "Failed to record document", nil)
			return
		}
		doc.ID = result.InsertedID.(primitive.ObjectID)

		// Small files analyze inline so the client gets results in one
		// round trip; everything else goes through the worker.
		if fileHeader.Size <= cfg.SyncProcessingLimit {
			content, err := os.ReadFile(storedPath)
			if err == nil {
				err = analyzeInline(c.Request.Context(), &doc, content)
			}
			if err != nil {
				logger.Error("Inline analysis failed", "document_id", doc.ID.Hex(), "error", err)
				documentsCollection.UpdateOne(context.Background(),
					bson.M{"_id": doc.ID},
					bson.M{"$set": bson.M{"status": models.StatusFailed, "error_message": "Analysis failed"}})
				utils.RespondWithInternalError(c, "Failed to analyze document", nil)
				return
			}

			c.JSON(http.StatusCreated, models.UploadResponse{
				ID:       doc.ID.Hex(),
				Filename: doc.OriginalName,
				Status:   models.StatusCompleted,
				Message:  "Document analyzed",
			})
			return
		}

		taskID, ok := enqueueAnalysis(c, &doc)
		if !ok {
			return
		}
		c.JSON(http.StatusAccepted, models.UploadResponse{
			ID:       doc.ID.Hex(),
			Filename: doc.OriginalName,
			Status:   models.StatusPending,
			Message:  "Document queued for analysis",
			TaskID:   taskID,
		})
	})

	// List the caller's documents, newest first
	documents.GET("", func(c *gin.Context) {
		userID, ok := requireUserID(c)
		if !ok {
			return
		}

		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		if page < 1 {
			page = 1
		}
		if limit < 1 || limit > 100 {
			limit = 20
		}

		filter := bson.M{"user_id": userID}
		total, err := documentsCollection.CountDocuments(context.Background(), filter)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to list documents", nil)
			return
		}

		opts := options.Find().
			SetSort(bson.D{{Key: "uploaded_at", Value: -1}}).
			SetSkip(int64((page - 1) * limit)).
			SetLimit(int64(limit))
		cursor, err := documentsCollection.Find(context.Background(), filter, opts)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to list documents", nil)
			return
		}
		defer cursor.Close(context.Background())

		docs := []models.Document{}
		if err := cursor.All(context.Background(), &docs); err != nil {
			utils.RespondWithInternalError(c, "Failed to list documents", nil)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"documents": docs,
			"page":      page,
			"limit":     limit,
			"total":     total,
		})
	})

	// Aggregate library stats
	documents.GET("/stats", func(c *gin.Context) {
		userID, ok := requireUserID(c)
		if !ok {
			return
		}

		pipeline := mongo.Pipeline{
			{{Key: "$match", Value: bson.M{"user_id": userID}}},
			{{Key: "$group", Value: bson.M{
				"_id":        "$status",
				"count":      bson.M{"$sum": 1},
				"total_size": bson.M{"$sum": "$size"},
			}}},
		}
		cursor, err := documentsCollection.Aggregate(context.Background(), pipeline)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to compute stats", nil)
			return
		}
		defer cursor.Close(context.Background())

		var groups []struct {
			Status    string `bson:"_id"`
			Count     int64  `bson:"count"`
			TotalSize int64  `bson:"total_size"`
		}
		if err := cursor.All(context.Background(), &groups); err != nil {
			utils.RespondWithInternalError(c, "Failed to compute stats", nil)
			return
		}

		stats := models.DocumentStats{}
		for _, g := range groups {
			stats.Total += g.Count
			stats.TotalSize += g.TotalSize
			switch g.Status {
			case models.StatusCompleted:
				stats.Completed += g.Count
			case models.StatusFailed:
				stats.Failed += g.Count
			default:
				stats.Pending += g.Count
			}
		}

		c.JSON(http.StatusOK, stats)
	})

	// Fetch one document with its analysis
	documents.GET("/:id", func(c *gin.Context) {
		userID, ok := requireUserID(c)
		if !ok {
			return
		}
		doc, ok := ownedDocument(c, userID)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, doc)
	})

	// Fetch the extracted text
	documents.GET("/:id/text", func(c *gin.Context) {
		userID, ok := requireUserID(c)
		if !ok {
			return
		}
		doc, ok := ownedDocument(c, userID)
		if !ok {
			return
		}

		text, err := doc.ExtractedText()
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to decode stored text", nil)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"id":   doc.ID.Hex(),
			"text": text,
		})
	})

	// Re-run analysis on a stored document
	documents.POST("/:id/analyze", func(c *gin.Context) {
		userID, ok := requireUserID(c)
		if !ok {
			return
		}
		doc, ok := ownedDocument(c, userID)
		if !ok {
			return
		}

		if doc.Size <= cfg.SyncProcessingLimit {
			content, err := os.ReadFile(doc.FilePath)
			if err == nil {
				err = analyzeInline(c.Request.Context(), doc, content)
			}
			if err != nil {
				logger.Error("Re-analysis failed", "document_id", doc.ID.Hex(), "error", err)
				utils.RespondWithInternalError(c, "Failed to analyze document", nil)
				return
			}
			c.JSON(http.StatusOK, doc)
			return
		}

		taskID, ok := enqueueAnalysis(c, doc)
		if !ok {
			return
		}
		documentsCollection.UpdateOne(context.Background(),
			bson.M{"_id": doc.ID},
			bson.M{"$set": bson.M{"status": models.StatusPending}})
		c.JSON(http.StatusAccepted, models.UploadResponse{
			ID:       doc.ID.Hex(),
			Filename: doc.OriginalName,
			Status:   models.StatusPending,
			Message:  "Document queued for analysis",
			TaskID:   taskID,
		})
	})

	// Delete a document, its stored file, and its chat transcripts
	documents.DELETE("/:id", func(c *gin.Context) {
		userID, ok := requireUserID(c)
		if !ok {
			return
		}
		doc, ok := ownedDocument(c, userID)
		if !ok {
			return
		}

		if _, err := documentsCollection.DeleteOne(context.Background(), bson.M{"_id": doc.ID}); err != nil {
			utils.RespondWithInternalError(c, "Failed to delete document", nil)
			return
		}
		if doc.FilePath != "" {
			if err := os.Remove(doc.FilePath); err != nil && !os.IsNotExist(err) {
				logger.Warn("Failed to remove stored file", "path", doc.FilePath, "error", err)
			}
		}
		if _, err := chatsCollection.DeleteMany(context.Background(), bson.M{"document_id": doc.ID}); err != nil {
			logger.Warn("Failed to remove document chats", "document_id", doc.ID.Hex(), "error", err)
		}

		c.JSON(http.StatusOK, gin.H{"message": "Document deleted"})
	})
}

func typeAllowed(allowed []string, contentType string) bool {
	for _, t := range allowed {
		if strings.TrimSpace(t) == contentType {
			return true
		}
	}
	return false
}
