package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"docuchat-backend/internal/logger"
	"docuchat-backend/models"
	"docuchat-backend/services"
)

const (
	TaskAnalyzeDocument = "document:analyze"
)

type AnalyzeDocumentPayload struct {
	DocumentID string `json:"document_id"`
	UserID     string `json:"user_id"`
	FilePath   string `json:"file_path"`
	FileName   string `json:"file_name"`
}

// NewAnalyzeDocumentTask queues extraction plus analysis for an upload
// too large to process inline.
func NewAnalyzeDocumentTask(documentID, userID, filePath, fileName string) (*asynq.Task, error) {
	payload, err := json.Marshal(AnalyzeDocumentPayload{
		DocumentID: documentID,
		UserID:     userID,
		FilePath:   filePath,
		FileName:   fileName,
	})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskAnalyzeDocument,
		payload,
		asynq.MaxRetry(3),
		asynq.Timeout(10*time.Minute),
		asynq.Queue("critical"),
	), nil
}

type TaskProcessor struct {
	documentsCol *mongo.Collection
	analyzer     *services.AnalyzerService
}

func NewTaskProcessor(documentsCol *mongo.Collection, analyzer *services.AnalyzerService) *TaskProcessor {
	return &TaskProcessor{
		documentsCol: documentsCol,
		analyzer:     analyzer,
	}
}

// ProcessAnalyzeDocument extracts text from the stored file, runs the
// analysis, and records the result. Malformed payloads and missing
// documents skip retry; transient failures return an error so asynq
// retries.
func (p *TaskProcessor) ProcessAnalyzeDocument(ctx context.Context, t *asynq.Task) error {
	var payload AnalyzeDocumentPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal failed: %w", asynq.SkipRetry)
	}

	docID, err := primitive.ObjectIDFromHex(payload.DocumentID)
	if err != nil {
		return fmt.Errorf("invalid document id %q: %w", payload.DocumentID, asynq.SkipRetry)
	}

	logger.Info("Analyzing document", "document_id", payload.DocumentID, "file", payload.FileName)

	if err := p.setStatus(ctx, docID, models.StatusProcessing, ""); err != nil {
		return err
	}

	content, err := os.ReadFile(payload.FilePath)
	if err != nil {
		p.setStatus(ctx, docID, models.StatusFailed, "Stored file is unreadable")
		return fmt.Errorf("failed to read %s: %w", payload.FilePath, asynq.SkipRetry)
	}

	text := services.ExtractText(payload.FileName, content)
	result := p.analyzer.Analyze(ctx, text)

	var doc models.Document
	if err := p.documentsCol.FindOne(ctx, bson.M{"_id": docID}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return fmt.Errorf("document %s deleted before analysis: %w", payload.DocumentID, asynq.SkipRetry)
		}
		return err
	}

	if err := doc.SetExtractedText(text); err != nil {
		p.setStatus(ctx, docID, models.StatusFailed, "Failed to store extracted text")
		return err
	}
	doc.ApplyAnalysis(result)

	_, err = p.documentsCol.UpdateOne(ctx,
		bson.M{"_id": docID},
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
	if err != nil {
		return err
	}

	logger.Info("Document analysis completed", "document_id", payload.DocumentID)
	return nil
}

func (p *TaskProcessor) setStatus(ctx context.Context, docID primitive.ObjectID, status, errorMessage string) error {
	_, err := p.documentsCol.UpdateOne(ctx,
		bson.M{"_id": docID},
		bson.M{"$set": bson.M{
			"status":        status,
			"error_message": errorMessage,
		}},
	)
	return err
}
