package chat

import (
	"fmt"
	"strings"

	"docuchat-backend/internal/analysis"
)

// conversationalPatterns are small-talk openers matched against the
// whole message, a leading word, or a trailing word.
var conversationalPatterns = []string{
	"hello", "hi", "hey", "good morning", "good afternoon", "good evening",
	"how are you", "what's up", "greetings", "salutations",
	"thanks", "thank you", "bye", "goodbye", "see you", "farewell",
	"ok", "okay", "alright", "got it", "understood", "cool", "nice",
	"yes", "no", "maybe", "sure", "definitely", "absolutely",
}

var shortConversational = map[string]bool{
	"hi": true, "hey": true, "ok": true, "yes": true, "no": true,
}

// isConversational reports whether a message is small talk rather than a
// question about the document.
func isConversational(message string) bool {
	lower := strings.ToLower(strings.TrimSpace(message))
	for _, p := range conversationalPatterns {
		if lower == p || strings.HasPrefix(lower, p+" ") || strings.HasSuffix(lower, " "+p) {
			return true
		}
	}
	return len(lower) <= 3 && shortConversational[lower]
}

// documentType classifies the document for conversational replies so
// small talk still sounds aware of what was uploaded.
func documentType(content string) string {
	lower := strings.ToLower(content)
	switch {
	case strings.Contains(lower, "experience") && strings.Contains(lower, "education"):
		return "resume"
	case strings.Contains(lower, "invoice"):
		return "invoice"
	case strings.Contains(lower, "contract"):
		return "contract"
	default:
		return "document"
	}
}

var affirmatives = []string{"yes", "ok", "okay", "alright", "got it", "understood", "cool", "nice", "sure"}
var negatives = []string{"no", "nope", "not really"}

// conversationalResponse answers small talk with a canned reply tailored
// to the document type.
func conversationalResponse(message, content string) string {
	lower := strings.ToLower(strings.TrimSpace(message))
	docType := documentType(content)

	containsAny := func(words []string) bool {
		for _, w := range words {
			if strings.Contains(lower, w) {
				return true
			}
		}
		return false
	}

	switch {
	case containsAny([]string{"hello", "hi", "hey"}):
		return fmt.Sprintf("Hello! I'm here to help you understand your %s. Feel free to ask me any questions about its content - like specific details, dates, amounts, or anything else you'd like to know!", docType)
	case containsAny([]string{"thank", "thanks"}):
		return fmt.Sprintf("You're welcome! I'm happy to help you analyze your %s. Do you have any other questions about its content?", docType)
	case containsAny([]string{"bye", "goodbye", "see you"}):
		return fmt.Sprintf("Goodbye! Feel free to come back anytime if you have more questions about your %s. Have a great day!", docType)
	case containsAny(affirmatives):
		return fmt.Sprintf("Great! Is there anything specific you'd like to know about your %s? I can help you find information about dates, amounts, names, or any other details.", docType)
	case containsAny(negatives):
		return fmt.Sprintf("No problem! If you change your mind and want to ask about anything in your %s, just let me know. I'm here to help!", docType)
	default:
		return fmt.Sprintf("I understand! I'm here to help you with your %s. You can ask me questions like \"What's the total amount?\", \"When is the due date?\", \"What's the email address?\", or anything else you'd like to know from the content.", docType)
	}
}

// comprehensiveAnswer serves structured questions against résumé-style
// documents by extracting whole sections. Returns "" when no section or
// keyword matches, letting the engine try the next strategy.
func comprehensiveAnswer(question, content string) string {
	lower := strings.ToLower(question)

	containsAny := func(words ...string) bool {
		for _, w := range words {
			if strings.Contains(lower, w) {
				return true
			}
		}
		return false
	}

	switch {
	case containsAny("employ", "work", "job", "company"):
		if jobs := analysis.WorkExperience(content); len(jobs) > 0 {
			return "Based on the resume, here's the detailed employment information:\n\n" + strings.Join(jobs, "\n\n")
		}
	case containsAny("educat", "school", "college", "university", "degree"):
		if edu := analysis.EducationInfo(content); edu != "" {
			return "Here's the detailed educational background:\n\n" + edu
		}
	case containsAny("skill", "technolog", "programming", "language"):
		if skills := analysis.SkillsInfo(content); skills != "" {
			return "Here are the technical skills and technologies:\n\n" + skills
		}
	case containsAny("project", "built", "develop"):
		if projects := analysis.ProjectsInfo(content); projects != "" {
			return "Here are the detailed projects:\n\n" + projects
		}
	case containsAny("achieve", "award", "rank", "contest"):
		if achievements := analysis.AchievementsInfo(content); achievements != "" {
			return "Here are the achievements and accomplishments:\n\n" + achievements
		}
	case containsAny("contact", "email", "phone", "location"):
		if contact := analysis.ContactInfo(content); contact != "" {
			return "Here's the contact and personal information:\n\n" + contact
		}
	case containsAny("about", "summary", "overview", "describe"):
		return FullSummary(content)
	}

	if found := keywordSentences(question, content); len(found) > 0 {
		return "Based on the document content, here's what I found related to your question:\n\n• " + strings.Join(found, "\n• ")
	}
	return ""
}

// keywordSentences collects up to three sentences per question keyword
// (length > 3), deduplicated, preserving document order per keyword.
func keywordSentences(question, content string) []string {
	sentences := analysis.SplitSentences(content)
	seen := make(map[string]bool)
	var found []string

	for _, word := range strings.Fields(strings.ToLower(question)) {
		if len(word) <= 3 {
			continue
		}
		matches := 0
		for _, sentence := range sentences {
			if matches >= 3 {
				break
			}
			trimmed := strings.TrimSpace(sentence)
			if trimmed == "" || !strings.Contains(strings.ToLower(trimmed), word) {
				continue
			}
			if !seen[trimmed] {
				seen[trimmed] = true
				found = append(found, trimmed)
			}
			matches++
		}
	}
	return found
}

// FullSummary formats a structured overview of a résumé-style document
// from its extracted sections.
func FullSummary(content string) string {
	var parts []string

	if name := analysis.LeadingName(content); name != "" {
		parts = append(parts, fmt.Sprintf("This document is about %s.", name))
	}
	if jobs := analysis.WorkExperience(content); len(jobs) > 0 {
		parts = append(parts, "\nPROFESSIONAL EXPERIENCE:\n"+strings.Join(jobs, "\n\n"))
	}
	if edu := analysis.EducationInfo(content); edu != "" {
		parts = append(parts, "\nEDUCATION:\n"+edu)
	}
	if skills := analysis.SkillsInfo(content); skills != "" {
		parts = append(parts, "\nTECHNICAL SKILLS:\n"+skills)
	}
	if projects := analysis.ProjectsInfo(content); projects != "" {
		parts = append(parts, "\nPROJECTS:\n"+projects)
	}
	if achievements := analysis.AchievementsInfo(content); achievements != "" {
		parts = append(parts, "\nACHIEVEMENTS:\n"+achievements)
	}

	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, "\n")
}

// keywordAnswer is the final rule-based pass: pattern extraction first,
// then a single keyword-matched sentence. Returns "" when nothing hits.
func keywordAnswer(question, content string) string {
	lower := strings.ToLower(question)

	containsAny := func(words ...string) bool {
		for _, w := range words {
			if strings.Contains(lower, w) {
				return true
			}
		}
		return false
	}

	switch {
	case containsAny("amount", "cost", "price"):
		if amounts := analysis.Amounts(content); len(amounts) > 0 {
			return fmt.Sprintf("Based on the document, I found these amounts: %s.", strings.Join(amounts, ", "))
		}
	case containsAny("date", "when"):
		if dates := analysis.Dates(content); len(dates) > 0 {
			return fmt.Sprintf("The document mentions these dates: %s.", strings.Join(dates, ", "))
		}
	case containsAny("email", "contact"):
		if emails := analysis.Emails(content); len(emails) > 0 {
			return fmt.Sprintf("The document contains these email addresses: %s.", strings.Join(emails, ", "))
		}
	case containsAny("phone", "number"):
		if phones := analysis.Phones(content); len(phones) > 0 {
			if len(phones) > 3 {
				phones = phones[:3]
			}
			return fmt.Sprintf("The document mentions these phone numbers: %s.", strings.Join(phones, ", "))
		}
	}

	for _, word := range strings.Fields(lower) {
		if len(word) <= 3 {
			continue
		}
		for _, sentence := range analysis.SplitSentences(content) {
			trimmed := strings.TrimSpace(sentence)
			if trimmed != "" && strings.Contains(strings.ToLower(trimmed), word) {
				return fmt.Sprintf("Based on the document content: %s.", trimmed)
			}
		}
	}
	return ""
}

// dialogPrompt assembles the last-resort generative prompt from the
// document and the recent turn history.
func dialogPrompt(content, question string, history []Turn) string {
	var b strings.Builder
	b.WriteString("You are a helpful assistant analyzing a document. Here is the document content:\n\n")
	b.WriteString(content)
	b.WriteString("\n\nConversation history:\n")
	for _, turn := range history {
		b.WriteString(turn.Role + ": " + turn.Content + "\n")
	}
	b.WriteString("\nAnswer the user's question based on the document content. Be specific and helpful. If the answer is not in the document, say so.\n\n")
	b.WriteString("user: " + question + "\nassistant:")
	return b.String()
}
