package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"docuchat-backend/internal/chat"
)

// ChatRecord mirrors a chat session's transcript into MongoDB so
// conversations outlive the Redis session TTL.
type ChatRecord struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SessionID    string             `bson:"session_id" json:"session_id"`
	UserID       primitive.ObjectID `bson:"user_id" json:"user_id"`
	DocumentID   primitive.ObjectID `bson:"document_id" json:"document_id"`
	DocumentName string             `bson:"document_name" json:"document_name"`
	Turns        []chat.Turn        `bson:"turns" json:"turns"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}

type ChatMessageRequest struct {
	Message string `json:"message" binding:"required,min=1,max=2000"`
}

type ChatMessageResponse struct {
	SessionID string    `json:"session_id"`
	Reply     string    `json:"reply"`
	Timestamp time.Time `json:"timestamp"`
}

type ChatStartResponse struct {
	SessionID    string      `json:"session_id"`
	DocumentID   string      `json:"document_id"`
	DocumentName string      `json:"document_name"`
	Messages     []chat.Turn `json:"messages"`
}
