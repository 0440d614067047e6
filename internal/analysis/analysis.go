// Package analysis implements the deterministic document-understanding
// primitives: text chunking, regex-driven field extraction, and the local
// fallback analyzer used when the remote model is unavailable or returns
// unusable output. Everything in this package is pure and side-effect free.
package analysis

import (
	"math"
	"regexp"
	"strings"
)

// Sentiment labels returned by Sentiment.
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// Result is the structured output of one document analysis.
type Result struct {
	Summary   string   `json:"summary" bson:"summary"`
	Insights  []string `json:"insights" bson:"insights"`
	KeyPoints []string `json:"keyPoints" bson:"key_points"`
	Sentiment string   `json:"sentiment" bson:"sentiment"`
}

var sentenceEnd = regexp.MustCompile(`[.!?]+`)

// EstimateTokens approximates generative-model token counts without running
// a real tokenizer. One token is roughly four characters of English text.
func EstimateTokens(s string) int {
	return int(math.Ceil(float64(len(s)) / 4))
}

// SplitSentences splits text on terminal punctuation and drops fragments
// that are empty after trimming. The fragments keep their original
// surrounding whitespace.
func SplitSentences(text string) []string {
	parts := sentenceEnd.Split(text, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}

// Analyze builds a complete local analysis of the given text. It never
// fails: empty or unusable input degrades to placeholder output so the
// Result is always well-formed.
func Analyze(content string) Result {
	return Result{
		Summary:   Summarize(content),
		Insights:  Insights(content),
		KeyPoints: KeyPoints(content),
		Sentiment: Sentiment(content),
	}
}
