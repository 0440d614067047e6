package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"docuchat-backend/internal/analysis"
	"docuchat-backend/utils"
)

// Document processing status constants
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Document is an uploaded file plus everything derived from it. The
// extracted text is compressed for storage; TextEncoding records the
// algorithm so reads can decompress.
type Document struct {
	ID           primitive.ObjectID         `bson:"_id,omitempty" json:"id"`
	UserID       primitive.ObjectID         `bson:"user_id" json:"user_id"`
	Filename     string                     `bson:"filename" json:"filename"`
	OriginalName string                     `bson:"original_name" json:"original_name"`
	FilePath     string                     `bson:"file_path" json:"-"`
	ContentType  string                     `bson:"content_type" json:"content_type"`
	Size         int64                      `bson:"size" json:"size"`
	Status       string                     `bson:"status" json:"status"`
	ErrorMessage string                     `bson:"error_message,omitempty" json:"error_message,omitempty"`
	Text         []byte                     `bson:"text,omitempty" json:"-"`
	TextEncoding utils.CompressionAlgorithm `bson:"text_encoding,omitempty" json:"-"`
	Summary      string                     `bson:"summary,omitempty" json:"summary,omitempty"`
	Insights     []string                   `bson:"insights,omitempty" json:"insights,omitempty"`
	KeyPoints    []string                   `bson:"keyPoints,omitempty" json:"keyPoints,omitempty"`
	Sentiment    string                     `bson:"sentiment,omitempty" json:"sentiment,omitempty"`
	UploadedAt   time.Time                  `bson:"uploaded_at" json:"uploaded_at"`
	AnalyzedAt   *time.Time                 `bson:"analyzed_at,omitempty" json:"analyzed_at,omitempty"`
}

// ExtractedText decompresses the stored text.
func (d *Document) ExtractedText() (string, error) {
	if len(d.Text) == 0 {
		return "", nil
	}
	encoding := d.TextEncoding
	if encoding == "" {
		encoding = utils.CompressionNone
	}
	return utils.DecompressText(d.Text, encoding)
}

// SetExtractedText compresses and stores the text.
func (d *Document) SetExtractedText(text string) error {
	compressed, algorithm, err := utils.CompressText(text)
	if err != nil {
		return err
	}
	d.Text = compressed
	d.TextEncoding = algorithm
	return nil
}

// ApplyAnalysis records a completed analysis on the document.
func (d *Document) ApplyAnalysis(result analysis.Result) {
	now := time.Now()
	d.Summary = result.Summary
	d.Insights = result.Insights
	d.KeyPoints = result.KeyPoints
	d.Sentiment = result.Sentiment
	d.Status = StatusCompleted
	d.ErrorMessage = ""
	d.AnalyzedAt = &now
}

// UploadResponse is returned after a successful upload.
type UploadResponse struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	Status   string `json:"status"`
	Message  string `json:"message"`
	TaskID   string `json:"task_id,omitempty"` // Set for async processing
}

// DocumentStats summarizes a user's document library.
type DocumentStats struct {
	Total     int64 `json:"total"`
	Completed int64 `json:"completed"`
	Pending   int64 `json:"pending"`
	Failed    int64 `json:"failed"`
	TotalSize int64 `json:"total_size"`
}
