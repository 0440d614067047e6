package chat

import (
	"strings"
	"testing"
)

func TestIsConversational(t *testing.T) {
	cases := []struct {
		message string
		want    bool
	}{
		{"hello", true},
		{"Hello there", true},
		{"thanks a lot", true},
		{"ok", true},
		{"hi!", false},
		{"What is the total invoice amount?", false},
		{"okay got it", true},
		{"tell me about the summary", false},
	}
	for _, tc := range cases {
		if got := isConversational(tc.message); got != tc.want {
			t.Errorf("isConversational(%q) = %v, want %v", tc.message, got, tc.want)
		}
	}
}

func TestDocumentType(t *testing.T) {
	cases := []struct {
		content string
		want    string
	}{
		{resumeContent, "resume"},
		{invoiceContent, "invoice"},
		{"This contract binds both parties.", "contract"},
		{"Plain text with nothing special.", "document"},
	}
	for _, tc := range cases {
		if got := documentType(tc.content); got != tc.want {
			t.Errorf("documentType = %q, want %q", got, tc.want)
		}
	}
}

func TestConversationalResponseBranches(t *testing.T) {
	cases := []struct {
		message string
		phrase  string
	}{
		{"hello", "Hello! I'm here to help"},
		{"thanks", "You're welcome!"},
		{"bye", "Goodbye!"},
		{"sure", "Great! Is there anything specific"},
		{"nope", "No problem!"},
		{"maybe", "I understand!"},
	}
	for _, tc := range cases {
		got := conversationalResponse(tc.message, invoiceContent)
		if !strings.HasPrefix(got, tc.phrase) {
			t.Errorf("conversationalResponse(%q) = %q, want prefix %q", tc.message, got, tc.phrase)
		}
		if !strings.Contains(got, "invoice") {
			t.Errorf("conversationalResponse(%q) should mention the document type", tc.message)
		}
	}
}

func TestComprehensiveAnswerReturnsEmptyOnMiss(t *testing.T) {
	if got := comprehensiveAnswer("xyzzy quux?", invoiceContent); got != "" {
		t.Errorf("expected empty answer for unmatched question, got %q", got)
	}
}

func TestComprehensiveAnswerKeywordSentences(t *testing.T) {
	got := comprehensiveAnswer("what do the billing terms say", invoiceContent)
	if !strings.HasPrefix(got, "Based on the document content, here's what I found related to your question:") {
		t.Errorf("unexpected answer: %q", got)
	}
	if !strings.Contains(got, "• ") {
		t.Errorf("keyword matches should be bulleted: %q", got)
	}
}

func TestFullSummarySections(t *testing.T) {
	got := FullSummary(resumeContent)
	for _, heading := range []string{
		"This document is about John Smith.",
		"PROFESSIONAL EXPERIENCE:",
		"EDUCATION:",
		"TECHNICAL SKILLS:",
		"PROJECTS:",
		"ACHIEVEMENTS:",
	} {
		if !strings.Contains(got, heading) {
			t.Errorf("FullSummary missing %q", heading)
		}
	}
}

func TestFullSummaryEmptyDocument(t *testing.T) {
	if got := FullSummary("no structured sections here"); got != "" {
		t.Errorf("expected empty summary, got %q", got)
	}
}

func TestKeywordAnswerBranches(t *testing.T) {
	cases := []struct {
		question string
		prefix   string
	}{
		{"what is the amount due", "Based on the document, I found these amounts:"},
		{"when is it due", "The document mentions these dates:"},
		{"what's the email", "The document contains these email addresses:"},
		{"give me the phone", "The document mentions these phone numbers:"},
	}
	for _, tc := range cases {
		got := keywordAnswer(tc.question, invoiceContent)
		if !strings.HasPrefix(got, tc.prefix) {
			t.Errorf("keywordAnswer(%q) = %q, want prefix %q", tc.question, got, tc.prefix)
		}
	}
}

func TestKeywordAnswerSentenceFallback(t *testing.T) {
	got := keywordAnswer("anything about questions here", invoiceContent)
	if !strings.HasPrefix(got, "Based on the document content: ") {
		t.Errorf("keywordAnswer = %q", got)
	}
}
