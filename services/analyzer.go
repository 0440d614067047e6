package services

import (
	"context"

	"docuchat-backend/internal/ai"
	"docuchat-backend/internal/analysis"
	"docuchat-backend/internal/logger"
)

// AnalyzerService produces the document analysis: remote summarization
// when a client is available, local pattern extraction always. Insights,
// key points, and sentiment never depend on the remote model, so a dead
// endpoint degrades only the summary.
type AnalyzerService struct {
	client    *ai.Client
	maxTokens int
}

func NewAnalyzerService(client *ai.Client, maxTokens int) *AnalyzerService {
	if maxTokens <= 0 {
		maxTokens = 1000
	}
	return &AnalyzerService{client: client, maxTokens: maxTokens}
}

func (s *AnalyzerService) Analyze(ctx context.Context, content string) analysis.Result {
	if content == "" {
		return analysis.Analyze(content)
	}

	summary := ""
	if s.client != nil {
		chunks := analysis.ChunkByTokens(content, s.maxTokens)
		logger.Debug("Summarizing document", "chunks", len(chunks))
		summary = s.client.Summarize(ctx, chunks)
	}
	if summary == "" {
		summary = analysis.Summarize(content)
	}

	return analysis.Result{
		Summary:   summary,
		Insights:  analysis.Insights(content),
		KeyPoints: analysis.KeyPoints(content),
		Sentiment: analysis.Sentiment(content),
	}
}
