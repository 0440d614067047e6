package analysis

import (
	"strings"
	"testing"
)

func TestExtractionRoundTrip(t *testing.T) {
	text := `Total: ₹1,200.50 due on 12/05/2024, contact a@b.com`

	amounts := Amounts(text)
	if len(amounts) != 1 || amounts[0] != "₹1,200.50" {
		t.Errorf("Amounts = %v, want [₹1,200.50]", amounts)
	}

	dates := Dates(text)
	if len(dates) != 1 || dates[0] != "12/05/2024" {
		t.Errorf("Dates = %v, want [12/05/2024]", dates)
	}

	emails := Emails(text)
	if len(emails) != 1 || emails[0] != "a@b.com" {
		t.Errorf("Emails = %v, want [a@b.com]", emails)
	}
}

func TestAmountsMultipleCurrencies(t *testing.T) {
	text := "Paid $5,000 plus €250.75 and ₹10,00,000"
	amounts := Amounts(text)
	want := []string{"$5,000", "€250.75", "₹10,00,000"}

	if len(amounts) != len(want) {
		t.Fatalf("Amounts = %v, want %v", amounts, want)
	}
	for i := range want {
		if amounts[i] != want[i] {
			t.Errorf("amount %d = %q, want %q", i, amounts[i], want[i])
		}
	}
}

func TestNoMatchesYieldEmpty(t *testing.T) {
	text := "plain words only"
	if got := Amounts(text); len(got) != 0 {
		t.Errorf("Amounts = %v, want empty", got)
	}
	if got := Dates(text); len(got) != 0 {
		t.Errorf("Dates = %v, want empty", got)
	}
	if got := Emails(text); len(got) != 0 {
		t.Errorf("Emails = %v, want empty", got)
	}
	if got := Section(text, "Experience"); got != "" {
		t.Errorf("Section = %q, want empty", got)
	}
}

func TestPhonesArePermissive(t *testing.T) {
	// Any digit run matches, including years and invoice numbers. This is
	// the documented behavior, not an oversight.
	phones := Phones("Invoice 2024 ref 98765 call +919876543210")
	if len(phones) == 0 {
		t.Fatal("expected matches from permissive phone pattern")
	}

	found := false
	for _, p := range phones {
		if p == "+919876543210" {
			found = true
		}
	}
	if !found {
		t.Errorf("real phone number not matched: %v", phones)
	}
}

func TestSummarizeAmounts(t *testing.T) {
	fin := SummarizeAmounts([]string{"₹1,200.50", "₹300"})
	if fin.Count != 2 {
		t.Errorf("Count = %d, want 2", fin.Count)
	}
	if fin.Total != 1500.50 {
		t.Errorf("Total = %v, want 1500.50", fin.Total)
	}
	if fin.Symbol != "₹" {
		t.Errorf("Symbol = %q, want ₹", fin.Symbol)
	}

	if fin := SummarizeAmounts(nil); fin.Count != 0 || fin.Total != 0 {
		t.Errorf("empty input should yield zero summary, got %+v", fin)
	}
}

const sampleResume = `John Smith
john.smith@example.com +14155550123

Education
B.Tech in Computer Science, Example Institute of Technology, 2020

Experience
Backend Engineer at Acme Corp
Built payment processing services in Go and maintained the billing API.
Software Engineer Intern at Widget Labs
Developed internal tooling for the data platform team.

Projects
Document chat assistant with retrieval over uploaded files.

Technical Skills
Languages: Go, Python, TypeScript
Frameworks: Gin, React

Achievements
Ranked top 50 in the national programming contest 2019.`

func TestSectionExtraction(t *testing.T) {
	experience := Section(sampleResume, "Experience")
	if !strings.Contains(experience, "Acme Corp") {
		t.Errorf("Experience section missing employer: %q", experience)
	}
	if strings.Contains(experience, "Document chat assistant") {
		t.Errorf("Experience section bleeds into Projects: %q", experience)
	}

	education := Section(sampleResume, "Education")
	if !strings.Contains(education, "B.Tech") {
		t.Errorf("Education section missing degree: %q", education)
	}
	if strings.Contains(education, "Acme Corp") {
		t.Errorf("Education section bleeds into Experience: %q", education)
	}

	skills := Section(sampleResume, "Technical Skills")
	if !strings.Contains(skills, "Languages: Go") {
		t.Errorf("Skills section missing languages: %q", skills)
	}

	achievements := Section(sampleResume, "Achievements")
	if !strings.Contains(achievements, "contest") {
		t.Errorf("Achievements section missing content: %q", achievements)
	}
}

func TestExperienceStopsAtEducation(t *testing.T) {
	// Education appears after Experience in this layout; the Experience
	// body must not swallow it.
	text := `Experience
Backend Engineer at Initech working on infrastructure for three years.
Education
B.Sc from State University, 2018`

	experience := Section(text, "Experience")
	if !strings.Contains(experience, "Initech") {
		t.Errorf("Experience missing employer: %q", experience)
	}
	if strings.Contains(experience, "State University") {
		t.Errorf("Experience swallowed Education: %q", experience)
	}
}

func TestWorkExperienceSplitsPositions(t *testing.T) {
	positions := WorkExperience(sampleResume)
	if len(positions) != 2 {
		t.Fatalf("expected 2 positions, got %d: %v", len(positions), positions)
	}
	if !strings.Contains(positions[0], "Acme Corp") {
		t.Errorf("first position = %q", positions[0])
	}
	if !strings.Contains(positions[1], "Widget Labs") {
		t.Errorf("second position = %q", positions[1])
	}
}

func TestEducationFallbackPatterns(t *testing.T) {
	// No Education header, but a degree phrase ending in a year.
	text := "Jane Doe completed her B.Tech at Example Institute in 2019 before joining us."
	if got := EducationInfo(text); !strings.Contains(got, "B.Tech") {
		t.Errorf("EducationInfo fallback = %q", got)
	}
}

func TestContactInfo(t *testing.T) {
	got := ContactInfo(sampleResume)
	if !strings.Contains(got, "Email: john.smith@example.com") {
		t.Errorf("missing email line: %q", got)
	}
	if !strings.Contains(got, "Name: John Smith") {
		t.Errorf("missing name line: %q", got)
	}
}
