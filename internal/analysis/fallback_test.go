package analysis

import (
	"reflect"
	"strings"
	"testing"
)

const sampleInvoice = `Invoice #4821
Acme Web Services Pvt Ltd
Service: Website maintenance retainer
Total: ₹1,200.50 due on 12/05/2024, contact billing@acme.example
Bank account details: IFSC ACME0001234
GST number included. Payment approved.`

func TestAnalyzeDeterministic(t *testing.T) {
	a := Analyze(sampleInvoice)
	b := Analyze(sampleInvoice)

	if !reflect.DeepEqual(a, b) {
		t.Errorf("Analyze is not deterministic:\n%+v\n%+v", a, b)
	}
}

func TestSummarizeInvoice(t *testing.T) {
	summary := Summarize(sampleInvoice)

	if !strings.HasPrefix(summary, "This is an invoice document.") {
		t.Errorf("summary missing type classification: %q", summary)
	}
	if !strings.Contains(summary, "₹1,200.50") {
		t.Errorf("summary missing amount: %q", summary)
	}
	if !strings.Contains(summary, "12/05/2024") {
		t.Errorf("summary missing date: %q", summary)
	}
}

func TestSummarizeEmptyInput(t *testing.T) {
	if got := Summarize(""); got != "Document analysis completed." {
		t.Errorf("Summarize(\"\") = %q", got)
	}
}

func TestInsightsCategories(t *testing.T) {
	insights := Insights(sampleInvoice)

	wantSubstrings := []string{
		"Document Type: Invoice",
		"Financial Information: 1 monetary amounts found",
		"email addresses found",
		"Banking Details",
		"Tax Information",
		"Service/Product",
	}
	joined := strings.Join(insights, "\n")
	for _, want := range wantSubstrings {
		if !strings.Contains(joined, want) {
			t.Errorf("insights missing %q:\n%s", want, joined)
		}
	}
}

func TestInsightsPlaceholdersWhenNothingMatches(t *testing.T) {
	insights := Insights("plain words without any structured data here")
	if len(insights) != 3 {
		t.Fatalf("expected 3 placeholder insights, got %v", insights)
	}
	if !strings.Contains(insights[0], "structured information") {
		t.Errorf("unexpected placeholder: %q", insights[0])
	}
}

func TestKeyPointsLimit(t *testing.T) {
	inputs := []string{
		"",
		sampleInvoice,
		sampleResume,
		strings.Repeat("A long sentence with plenty of characters inside it. ", 50),
	}
	for _, input := range inputs {
		points := KeyPoints(input)
		if len(points) > 7 {
			t.Errorf("KeyPoints returned %d entries, limit is 7", len(points))
		}
	}
}

func TestKeyPointsPriorityOrder(t *testing.T) {
	points := KeyPoints(sampleInvoice)
	if len(points) == 0 {
		t.Fatal("no key points extracted")
	}
	if !strings.HasPrefix(points[0], "💰 Amount: ₹1,200.50") {
		t.Errorf("first key point should be the amount: %q", points[0])
	}
}

func TestKeyPointsSentenceFallback(t *testing.T) {
	text := "This opening sentence easily clears twenty characters. Short one. Another sentence that is also long enough to qualify here."
	points := KeyPoints(text)

	if len(points) == 0 {
		t.Fatal("expected sentence fallback key points")
	}
	for _, p := range points {
		if len(p) <= 20 {
			t.Errorf("fallback kept a short sentence: %q", p)
		}
	}
}

func TestSentimentBoundaries(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"positive only", "The results were good and the proposal was approved", SentimentPositive},
		{"negative only", "A bad outcome, the request was rejected", SentimentNegative},
		{"tie", "one good thing and one bad thing", SentimentNeutral},
		{"empty", "", SentimentNeutral},
		{"no sentiment words", "quarterly totals attached for review", SentimentNeutral},
	}
	for _, tc := range cases {
		if got := Sentiment(tc.in); got != tc.want {
			t.Errorf("%s: Sentiment = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{300, "300"},
		{1500.5, "1,500.5"},
		{1234567, "1,234,567"},
	}
	for _, tc := range cases {
		if got := formatAmount(tc.in); got != tc.want {
			t.Errorf("formatAmount(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
