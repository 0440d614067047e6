// Package ai wraps the remote text-generation inference endpoint used for
// document summarization and question answering. Every remote failure
// degrades to the local analyzer rather than propagating an error.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"

	"docuchat-backend/internal/analysis"
	"docuchat-backend/internal/logger"
)

// ErrNoResult reports that no chunk produced an answer clearing the
// relevance and length thresholds. Callers fall through to the next
// strategy instead of guessing.
var ErrNoResult = errors.New("no usable answer from remote model")

const (
	defaultBaseURL      = "https://api-inference.huggingface.co/models"
	defaultSummaryModel = "facebook/bart-large-cnn"
	defaultAnswerModel  = "google/flan-t5-base"
	defaultDialogModel  = "microsoft/DialoGPT-medium"
)

// Options configures a Client. Zero values select the defaults above.
type Options struct {
	BaseURL      string
	Token        string
	SummaryModel string
	AnswerModel  string
	DialogModel  string

	// Timeout bounds each per-chunk request.
	Timeout time.Duration

	// RequestInterval is the fixed delay between successive chunk
	// requests within one operation, to respect upstream rate limits.
	RequestInterval time.Duration

	// MinRelevance is the lowest keyword-overlap score an answer must
	// reach; MinAnswerLen the shortest answer worth keeping.
	MinRelevance int
	MinAnswerLen int
}

// Client calls the inference endpoint sequentially per chunk, behind a
// circuit breaker and a pacing limiter shared across operations.
type Client struct {
	opts       Options
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	limiter    *rate.Limiter
}

func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.SummaryModel == "" {
		opts.SummaryModel = defaultSummaryModel
	}
	if opts.AnswerModel == "" {
		opts.AnswerModel = defaultAnswerModel
	}
	if opts.DialogModel == "" {
		opts.DialogModel = defaultDialogModel
	}
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.RequestInterval == 0 {
		opts.RequestInterval = time.Second
	}
	if opts.MinRelevance == 0 {
		opts.MinRelevance = 1
	}
	if opts.MinAnswerLen == 0 {
		opts.MinAnswerLen = 10
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "InferenceAPI",
		MaxRequests: 5,
		Interval:    10 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
	})

	return &Client{
		opts:       opts,
		httpClient: &http.Client{Timeout: opts.Timeout},
		breaker:    breaker,
		limiter:    rate.NewLimiter(rate.Every(opts.RequestInterval), 1),
	}
}

type generateRequest struct {
	Inputs     string             `json:"inputs"`
	Parameters generateParameters `json:"parameters"`
}

type generateParameters struct {
	MaxLength         int     `json:"max_length"`
	MinLength         int     `json:"min_length,omitempty"`
	Temperature       float64 `json:"temperature,omitempty"`
	DoSample          bool    `json:"do_sample"`
	NumBeams          int     `json:"num_beams,omitempty"`
	EarlyStopping     bool    `json:"early_stopping,omitempty"`
	TopP              float64 `json:"top_p,omitempty"`
	RepetitionPenalty float64 `json:"repetition_penalty,omitempty"`
}

// Summarize produces a combined summary of the chunks in order. Each chunk
// is summarized remotely; a chunk whose request fails or returns unusable
// output contributes the local extractive summary instead, so one bad
// chunk never aborts the operation. An empty string means no chunk
// produced anything, which callers treat as "fall back entirely".
func (c *Client) Summarize(ctx context.Context, chunks []string) string {
	tracer := otel.Tracer("analysis-client")
	ctx, span := tracer.Start(ctx, "inference.summarize")
	defer span.End()
	span.SetAttributes(attribute.Int("inference.chunks", len(chunks)))

	var combined strings.Builder
	for i, chunk := range chunks {
		prompt := summaryPrompt(chunk)
		text, err := c.generate(ctx, c.opts.SummaryModel, generateRequest{
			Inputs: prompt,
			Parameters: generateParameters{
				MaxLength:     150,
				MinLength:     50,
				DoSample:      false,
				NumBeams:      4,
				EarlyStopping: true,
			},
		})
		if err != nil || strings.TrimSpace(text) == "" {
			if err != nil {
				logger.Debug("Chunk summarization failed, using local summary", "chunk", i, "error", err)
			}
			text = analysis.Summarize(chunk)
		}
		combined.WriteString(text + " ")
	}

	return strings.TrimSpace(combined.String())
}

// Answer asks the generative model about each chunk and keeps the
// highest-scoring non-trivial answer. Relevance counts the question's
// keywords (longer than three characters, case-insensitive) found in the
// generated answer or the source chunk; ties keep the earliest chunk.
// Returns ErrNoResult when nothing clears MinRelevance and MinAnswerLen.
func (c *Client) Answer(ctx context.Context, question string, chunks []string) (string, error) {
	tracer := otel.Tracer("analysis-client")
	ctx, span := tracer.Start(ctx, "inference.answer")
	defer span.End()
	span.SetAttributes(attribute.Int("inference.chunks", len(chunks)))

	bestAnswer := ""
	bestRelevance := c.opts.MinRelevance - 1

	for i, chunk := range chunks {
		prompt := answerPrompt(chunk, question)
		text, err := c.generate(ctx, c.opts.AnswerModel, generateRequest{
			Inputs: prompt,
			Parameters: generateParameters{
				MaxLength:         512,
				Temperature:       0.8,
				DoSample:          true,
				TopP:              0.9,
				RepetitionPenalty: 1.2,
			},
		})
		if err != nil {
			logger.Debug("Chunk answer generation failed, skipping", "chunk", i, "error", err)
			continue
		}

		answer := cleanAnswer(text, prompt)
		if answer == "" {
			continue
		}

		score := relevanceScore(question, answer, chunk)
		if len(answer) > c.opts.MinAnswerLen && score > bestRelevance {
			bestAnswer = answer
			bestRelevance = score
		}
	}

	if bestAnswer == "" {
		span.SetAttributes(attribute.Bool("inference.no_result", true))
		return "", ErrNoResult
	}
	span.SetAttributes(attribute.Int("inference.relevance", bestRelevance))
	return bestAnswer, nil
}

// Dialog sends a fully-formed prompt to the smaller conversational model.
// Last-resort path used after chunked answering and rule-based extraction
// both came up empty.
func (c *Client) Dialog(ctx context.Context, prompt string) (string, error) {
	tracer := otel.Tracer("analysis-client")
	ctx, span := tracer.Start(ctx, "inference.dialog")
	defer span.End()

	text, err := c.generate(ctx, c.opts.DialogModel, generateRequest{
		Inputs: prompt,
		Parameters: generateParameters{
			MaxLength:   200,
			Temperature: 0.7,
			DoSample:    true,
		},
	})
	if err != nil {
		return "", err
	}

	answer := cleanAnswer(text, prompt)
	if len(answer) <= c.opts.MinAnswerLen {
		return "", ErrNoResult
	}
	return answer, nil
}

// generate performs one paced, breaker-guarded request against a model and
// normalizes the response body into plain generated text.
func (c *Client) generate(ctx context.Context, model string, req generateRequest) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.BaseURL+"/"+model, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		httpReq.Header.Set("Authorization", "Bearer "+c.opts.Token)
		httpReq.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			return nil, fmt.Errorf("inference request failed: %w", err)
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("inference request failed with status %d: %s", resp.StatusCode, string(respBody))
		}
		return respBody, nil
	})
	if err != nil {
		return "", err
	}

	text := extractGeneratedText(result.([]byte))
	if text == "" {
		return "", fmt.Errorf("malformed inference response for model %s", model)
	}
	return text, nil
}

// extractGeneratedText accepts the three response shapes models return:
// an array of objects carrying summary_text or generated_text, a single
// object with generated_text, or a bare JSON string.
func extractGeneratedText(body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return ""
	}

	type generated struct {
		SummaryText   string `json:"summary_text"`
		GeneratedText string `json:"generated_text"`
	}

	switch trimmed[0] {
	case '[':
		var arr []json.RawMessage
		if json.Unmarshal(trimmed, &arr) != nil || len(arr) == 0 {
			return ""
		}
		var obj generated
		if json.Unmarshal(arr[0], &obj) == nil {
			if obj.SummaryText != "" {
				return obj.SummaryText
			}
			if obj.GeneratedText != "" {
				return obj.GeneratedText
			}
		}
		var s string
		if json.Unmarshal(arr[0], &s) == nil {
			return s
		}
	case '{':
		var obj generated
		if json.Unmarshal(trimmed, &obj) == nil {
			if obj.SummaryText != "" {
				return obj.SummaryText
			}
			if obj.GeneratedText != "" {
				return obj.GeneratedText
			}
		}
	default:
		var s string
		if json.Unmarshal(trimmed, &s) == nil {
			return s
		}
	}
	return ""
}

// cleanAnswer strips an echoed prompt and answer-prefix noise that
// generative models tend to include.
func cleanAnswer(text, prompt string) string {
	text = strings.Replace(text, prompt, "", 1)
	text = strings.TrimSpace(text)
	lower := strings.ToLower(text)
	if strings.HasPrefix(lower, "answer:") {
		text = strings.TrimSpace(text[len("answer:"):])
	}
	text = strings.TrimLeft(text, "-* ")
	return strings.TrimSpace(text)
}

// relevanceScore counts question keywords (length > 3, case-insensitive)
// that appear in the answer or its source chunk. Scoring the chunk as well
// as the answer can rank a chunk highly even when the generated answer is
// off-topic; callers tune MinRelevance rather than change the rule.
func relevanceScore(question, answer, chunk string) int {
	answerLower := strings.ToLower(answer)
	chunkLower := strings.ToLower(chunk)

	score := 0
	for _, w := range strings.Fields(strings.ToLower(question)) {
		if len(w) > 3 && (strings.Contains(answerLower, w) || strings.Contains(chunkLower, w)) {
			score++
		}
	}
	return score
}

func summaryPrompt(chunk string) string {
	return fmt.Sprintf(`Summarize this document section focusing on:
- Document type and purpose
- Key parties and organizations
- Financial amounts and terms
- Important dates and deadlines
- Critical actions or requirements

Content:
%s

Provide a clear, professional summary:`, chunk)
}

func answerPrompt(chunk, question string) string {
	return fmt.Sprintf(`Document Content:
%s

Question: %s

Based on the document content above, provide a detailed and informative answer to the question. If the information is not in the document, say so clearly. Be specific and include relevant details from the document.

Answer:`, chunk, question)
}
