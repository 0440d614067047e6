package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"docuchat-backend/internal/ai"
	"docuchat-backend/internal/analysis"
	"docuchat-backend/internal/logger"
)

const (
	// qaChunkChars bounds each chunk handed to the remote answering
	// model, measured in characters.
	qaChunkChars = 3000

	// historyWindow is how many recent turns the generative fallback
	// sees.
	historyWindow = 6
)

// Engine runs document-grounded conversations. Strategies are tried in
// order until one produces an answer: canned small talk, remote chunked
// QA, section extraction, remote dialog, then pattern matching. Exactly
// one assistant turn is appended per user message.
type Engine struct {
	store        SessionStore
	client       *ai.Client
	maxChunkSize int
	window       int
}

// NewEngine builds an engine. client may be nil, in which case only the
// local strategies run.
func NewEngine(store SessionStore, client *ai.Client) *Engine {
	return &Engine{
		store:        store,
		client:       client,
		maxChunkSize: qaChunkChars,
		window:       historyWindow,
	}
}

// StartSession creates a session for a document and records the greeting
// turn.
func (e *Engine) StartSession(ctx context.Context, documentID, documentName, documentText string) (*Session, error) {
	session := &Session{
		ID:           uuid.New().String(),
		DocumentID:   documentID,
		DocumentName: documentName,
		DocumentText: documentText,
		CreatedAt:    time.Now(),
	}
	greeting := fmt.Sprintf("Hello! I've analyzed your document \"%s\". You can now ask me questions about its content, and I'll provide answers based on the document.", documentName)
	session.Turns = append(session.Turns, Turn{
		Role:      "assistant",
		Content:   greeting,
		Timestamp: time.Now(),
	})
	if err := e.store.Put(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// History returns the session's turns in order.
func (e *Engine) History(ctx context.Context, sessionID string) ([]Turn, error) {
	session, err := e.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return session.Turns, nil
}

// EndSession discards the session state.
func (e *Engine) EndSession(ctx context.Context, sessionID string) error {
	return e.store.Delete(ctx, sessionID)
}

// PostMessage records the user turn, produces the assistant reply, and
// persists the updated session. The returned session includes both new
// turns.
func (e *Engine) PostMessage(ctx context.Context, sessionID, message string) (*Session, Turn, error) {
	session, err := e.store.Get(ctx, sessionID)
	if err != nil {
		return nil, Turn{}, err
	}

	session.Turns = append(session.Turns, Turn{
		Role:      "user",
		Content:   message,
		Timestamp: time.Now(),
	})

	reply := Turn{
		Role:      "assistant",
		Content:   e.respond(ctx, session, message),
		Timestamp: time.Now(),
	}
	session.Turns = append(session.Turns, reply)

	if err := e.store.Put(ctx, session); err != nil {
		return nil, Turn{}, err
	}
	return session, reply, nil
}

// respond walks the strategy chain and always returns a non-empty reply.
func (e *Engine) respond(ctx context.Context, session *Session, message string) string {
	content := session.DocumentText

	if isConversational(message) {
		return conversationalResponse(message, content)
	}

	if e.client != nil {
		chunks := analysis.ChunkByChars(content, e.maxChunkSize)
		answer, err := e.client.Answer(ctx, message, chunks)
		if err == nil {
			return answer
		}
		if err != ai.ErrNoResult {
			logger.Debug("Remote answering unavailable", "session", session.ID, "error", err)
		}
	}

	if answer := comprehensiveAnswer(message, content); answer != "" {
		return answer
	}

	if e.client != nil {
		history := session.Turns
		if len(history) > e.window {
			history = history[len(history)-e.window:]
		}
		answer, err := e.client.Dialog(ctx, dialogPrompt(content, message, history))
		if err == nil {
			return answer
		}
		if err != ai.ErrNoResult {
			logger.Debug("Dialog fallback unavailable", "session", session.ID, "error", err)
		}
	}

	if answer := keywordAnswer(message, content); answer != "" {
		return answer
	}

	return fmt.Sprintf("I couldn't find specific information about \"%s\" in the document. Could you try rephrasing your question or asking about specific details mentioned in the document?", message)
}
