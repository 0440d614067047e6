package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(Options{
		BaseURL:         server.URL,
		Token:           "test-token",
		RequestInterval: time.Millisecond,
	})
}

func TestExtractGeneratedText(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"array of summary objects", `[{"summary_text":"a summary"}]`, "a summary"},
		{"array of generated objects", `[{"generated_text":"an answer"}]`, "an answer"},
		{"array of bare strings", `["plain text"]`, "plain text"},
		{"single object", `{"generated_text":"object answer"}`, "object answer"},
		{"bare string", `"just a string"`, "just a string"},
		{"empty array", `[]`, ""},
		{"empty body", ``, ""},
		{"unexpected shape", `{"foo":"bar"}`, ""},
	}
	for _, tc := range cases {
		if got := extractGeneratedText([]byte(tc.body)); got != tc.want {
			t.Errorf("%s: extractGeneratedText = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestSummarizeCombinesChunks(t *testing.T) {
	var calls int
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q", got)
		}
		fmt.Fprintf(w, `[{"summary_text":"summary %d."}]`, calls)
	})

	got := c.Summarize(context.Background(), []string{"first chunk", "second chunk"})
	if got != "summary 1. summary 2." {
		t.Errorf("Summarize = %q", got)
	}
	if calls != 2 {
		t.Errorf("expected 2 requests, got %d", calls)
	}
}

func TestSummarizeFallsBackPerChunk(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model loading", http.StatusServiceUnavailable)
	})

	content := "This invoice totals ₹5,000. Payment is due on 12/05/2024. Please remit promptly to the billing department."
	got := c.Summarize(context.Background(), []string{content})
	if got == "" {
		t.Fatal("expected local fallback summary, got empty string")
	}
	if !strings.Contains(got, "invoice") {
		t.Errorf("fallback summary should describe the invoice, got %q", got)
	}
}

func TestAnswerPicksMostRelevantChunk(t *testing.T) {
	var calls int
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			fmt.Fprint(w, `[{"generated_text":"Nothing about that here, sorry."}]`)
			return
		}
		fmt.Fprint(w, `[{"generated_text":"The total invoice amount is ₹5,000."}]`)
	})

	got, err := c.Answer(context.Background(), "What is the total invoice amount?", []string{
		"Shipping terms and general conditions apply.",
		"Invoice total: ₹5,000 payable within 30 days.",
	})
	if err != nil {
		t.Fatalf("Answer returned error: %v", err)
	}
	if got != "The total invoice amount is ₹5,000." {
		t.Errorf("Answer = %q", got)
	}
}

func TestAnswerFirstWinsOnTie(t *testing.T) {
	var calls int
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprintf(w, `[{"generated_text":"The invoice total amount is listed, response %d."}]`, calls)
	})

	chunks := []string{
		"Invoice total amount: ₹100.",
		"Invoice total amount: ₹100.",
	}
	got, err := c.Answer(context.Background(), "What is the total invoice amount?", chunks)
	if err != nil {
		t.Fatalf("Answer returned error: %v", err)
	}
	if !strings.Contains(got, "response 1") {
		t.Errorf("tie should keep the earliest chunk's answer, got %q", got)
	}
}

func TestAnswerNoResult(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"generated_text":"short"}]`)
	})

	_, err := c.Answer(context.Background(), "zzz?", []string{"unrelated content"})
	if !errors.Is(err, ErrNoResult) {
		t.Errorf("expected ErrNoResult, got %v", err)
	}
}

func TestAnswerStripsPromptEcho(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"generated_text":"Answer: The invoice amount due is ₹5,000 total."}]`)
	})

	got, err := c.Answer(context.Background(), "What is the invoice amount?", []string{"Invoice amount: ₹5,000."})
	if err != nil {
		t.Fatalf("Answer returned error: %v", err)
	}
	if strings.HasPrefix(strings.ToLower(got), "answer:") {
		t.Errorf("answer prefix not stripped: %q", got)
	}
}

func TestDialogRejectsShortOutput(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"generated_text":"ok"}]`)
	})

	_, err := c.Dialog(context.Background(), "some prompt")
	if !errors.Is(err, ErrNoResult) {
		t.Errorf("expected ErrNoResult for trivial output, got %v", err)
	}
}

func TestGenerateServerError(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := c.generate(context.Background(), "some-model", generateRequest{Inputs: "hello"})
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestRelevanceScore(t *testing.T) {
	score := relevanceScore("What is the total invoice amount?", "the total is ₹5", "invoice details")
	// "what", "total", "invoice" and "amount?" are the words longer than
	// three characters; "what" matches nothing and "amount?" keeps its
	// punctuation, leaving "total" (answer) and "invoice" (chunk).
	if score != 2 {
		t.Errorf("relevanceScore = %d, want 2", score)
	}
}
