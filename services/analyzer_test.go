package services

import (
	"context"
	"strings"
	"testing"
)

func TestAnalyzeWithoutRemoteClient(t *testing.T) {
	s := NewAnalyzerService(nil, 1000)
	content := "This invoice from Acme Corp totals ₹1,200.50. Payment is due by 12/05/2024. Contact billing@acme.example.com for questions."

	result := s.Analyze(context.Background(), content)

	if !strings.Contains(result.Summary, "invoice") {
		t.Errorf("summary should identify the invoice: %q", result.Summary)
	}
	if len(result.Insights) == 0 {
		t.Error("expected insights")
	}
	if len(result.KeyPoints) == 0 {
		t.Error("expected key points")
	}
	if result.Sentiment == "" {
		t.Error("expected a sentiment")
	}
}

func TestAnalyzeEmptyContent(t *testing.T) {
	s := NewAnalyzerService(nil, 1000)

	result := s.Analyze(context.Background(), "")

	if result.Summary != "Document analysis completed." {
		t.Errorf("summary = %q", result.Summary)
	}
	if result.Sentiment != "neutral" {
		t.Errorf("sentiment = %q", result.Sentiment)
	}
}
