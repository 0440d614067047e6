package chat

import (
	"context"
	"strings"
	"testing"
)

const resumeContent = `John Smith
Email: john.smith@example.com
Phone: +1 555 123 4567

Education
B.Tech in Computer Science, National Institute of Technology, 2020

Experience
Backend Engineer at Acme Corp, building payment APIs in Go and operating production services for three years.
Software Engineer Intern at Widget Labs, worked on internal tooling and release automation.

Projects
Built a document analysis pipeline handling thousands of uploads daily.

Technical Skills
Languages: Go, Python, TypeScript
Frameworks: Gin, Express

Achievements
Ranked first in the regional programming contest.`

const invoiceContent = `Invoice #42 from Acme Corp.
Total amount due: ₹1,200.50 payable by 12/05/2024.
Contact billing@acme.example.com or +91 98765 43210 with questions.`

func newTestEngine() *Engine {
	return NewEngine(NewMemoryStore(), nil)
}

func TestStartSessionGreets(t *testing.T) {
	e := newTestEngine()
	session, err := e.StartSession(context.Background(), "doc-1", "report.pdf", invoiceContent)
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if len(session.Turns) != 1 {
		t.Fatalf("expected 1 greeting turn, got %d", len(session.Turns))
	}
	greeting := session.Turns[0]
	if greeting.Role != "assistant" {
		t.Errorf("greeting role = %q", greeting.Role)
	}
	if !strings.Contains(greeting.Content, `"report.pdf"`) {
		t.Errorf("greeting should name the document: %q", greeting.Content)
	}
}

func TestHistoryUnknownSession(t *testing.T) {
	e := newTestEngine()
	if _, err := e.History(context.Background(), "missing"); err != ErrSessionNotFound {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestPostMessageAppendsOneReply(t *testing.T) {
	e := newTestEngine()
	session, err := e.StartSession(context.Background(), "doc-1", "invoice.pdf", invoiceContent)
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	updated, reply, err := e.PostMessage(context.Background(), session.ID, "What is the total amount?")
	if err != nil {
		t.Fatalf("PostMessage: %v", err)
	}
	if len(updated.Turns) != 3 {
		t.Fatalf("expected greeting + user + assistant, got %d turns", len(updated.Turns))
	}
	if updated.Turns[1].Role != "user" || updated.Turns[2].Role != "assistant" {
		t.Errorf("unexpected turn roles: %q, %q", updated.Turns[1].Role, updated.Turns[2].Role)
	}
	if reply.Content != updated.Turns[2].Content {
		t.Error("returned reply should match the stored assistant turn")
	}

	// A follow-up sees the persisted history.
	history, err := e.History(context.Background(), session.ID)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 3 {
		t.Errorf("persisted history has %d turns, want 3", len(history))
	}
}

func TestConversationalGreetingReply(t *testing.T) {
	e := newTestEngine()
	session, _ := e.StartSession(context.Background(), "doc-1", "resume.pdf", resumeContent)

	_, reply, err := e.PostMessage(context.Background(), session.ID, "hello")
	if err != nil {
		t.Fatalf("PostMessage: %v", err)
	}
	if !strings.Contains(reply.Content, "help you understand your resume") {
		t.Errorf("expected resume-aware greeting, got %q", reply.Content)
	}
}

func TestEmploymentQuestionUsesExperienceSection(t *testing.T) {
	e := newTestEngine()
	session, _ := e.StartSession(context.Background(), "doc-1", "resume.pdf", resumeContent)

	_, reply, err := e.PostMessage(context.Background(), session.ID, "Where did this person work?")
	if err != nil {
		t.Fatalf("PostMessage: %v", err)
	}
	if !strings.HasPrefix(reply.Content, "Based on the resume, here's the detailed employment information:") {
		t.Errorf("unexpected reply: %q", reply.Content)
	}
	if !strings.Contains(reply.Content, "Acme Corp") {
		t.Errorf("reply should include the employer: %q", reply.Content)
	}
	if strings.Contains(reply.Content, "B.Tech") {
		t.Errorf("employment answer leaked the education section: %q", reply.Content)
	}
}

func TestAmountQuestionUsesPatternExtraction(t *testing.T) {
	e := newTestEngine()
	session, _ := e.StartSession(context.Background(), "doc-1", "invoice.pdf", invoiceContent)

	// No word of this question appears in the document, so the
	// section-extraction strategy yields nothing and the pattern-based
	// fallback answers from the extracted amounts.
	_, reply, err := e.PostMessage(context.Background(), session.ID, "What does it cost?")
	if err != nil {
		t.Fatalf("PostMessage: %v", err)
	}
	if reply.Content != "Based on the document, I found these amounts: ₹1,200.50." {
		t.Errorf("reply = %q", reply.Content)
	}
}

func TestUnanswerableQuestionGetsTerminalReply(t *testing.T) {
	e := newTestEngine()
	session, _ := e.StartSession(context.Background(), "doc-1", "invoice.pdf", invoiceContent)

	question := "xyzzy plugh quux?"
	_, reply, err := e.PostMessage(context.Background(), session.ID, question)
	if err != nil {
		t.Fatalf("PostMessage: %v", err)
	}
	want := `I couldn't find specific information about "xyzzy plugh quux?" in the document. Could you try rephrasing your question or asking about specific details mentioned in the document?`
	if reply.Content != want {
		t.Errorf("reply = %q, want %q", reply.Content, want)
	}
}

func TestEndSessionRemovesState(t *testing.T) {
	e := newTestEngine()
	session, _ := e.StartSession(context.Background(), "doc-1", "invoice.pdf", invoiceContent)

	if err := e.EndSession(context.Background(), session.ID); err != nil {
		t.Fatalf("EndSession: %v", err)
	}
	if _, err := e.History(context.Background(), session.ID); err != ErrSessionNotFound {
		t.Errorf("expected ErrSessionNotFound after EndSession, got %v", err)
	}
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	store := NewMemoryStore()
	original := &Session{ID: "s1", Turns: []Turn{{Role: "assistant", Content: "hi"}}}
	if err := store.Put(context.Background(), original); err != nil {
		t.Fatalf("Put: %v", err)
	}

	loaded, err := store.Get(context.Background(), "s1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	loaded.Turns = append(loaded.Turns, Turn{Role: "user", Content: "mutated"})

	reloaded, err := store.Get(context.Background(), "s1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(reloaded.Turns) != 1 {
		t.Errorf("stored session mutated through a returned copy: %d turns", len(reloaded.Turns))
	}
}
