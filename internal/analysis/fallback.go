package analysis

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Summarize builds an extractive summary without any remote call: a
// document-type classification sentence, the first amounts and dates, and
// the opening non-trivial sentences of the text. Empty or unusable input
// yields a constant placeholder so callers always get a summary string.
func Summarize(content string) string {
	lower := strings.ToLower(content)
	var summary strings.Builder

	if strings.Contains(lower, "invoice") || strings.Contains(lower, "bill") {
		summary.WriteString("This is an invoice document. ")
	} else if strings.Contains(lower, "contract") || strings.Contains(lower, "agreement") {
		summary.WriteString("This is a contract or agreement document. ")
	} else if strings.Contains(lower, "report") {
		summary.WriteString("This is a report document. ")
	}

	if amounts := Amounts(content); len(amounts) > 0 {
		if len(amounts) > 3 {
			amounts = amounts[:3]
		}
		fmt.Fprintf(&summary, "Contains financial amounts: %s. ", strings.Join(amounts, ", "))
	}

	if dates := Dates(content); len(dates) > 0 {
		if len(dates) > 2 {
			dates = dates[:2]
		}
		fmt.Fprintf(&summary, "Key dates mentioned: %s. ", strings.Join(dates, ", "))
	}

	var meaningful []string
	for _, s := range sentenceEnd.Split(content, -1) {
		if len(strings.TrimSpace(s)) > 10 {
			meaningful = append(meaningful, s)
		}
		if len(meaningful) == 2 {
			break
		}
	}
	if len(meaningful) > 0 {
		summary.WriteString(strings.Join(meaningful, ". ") + ".")
	}

	if summary.Len() == 0 {
		return "Document analysis completed."
	}
	return summary.String()
}

// Insights produces categorical findings about the document. When nothing
// matches, three generic placeholder insights are emitted rather than an
// empty list.
func Insights(content string) []string {
	lower := strings.ToLower(content)
	var insights []string

	if strings.Contains(lower, "invoice") || strings.Contains(lower, "bill") {
		insights = append(insights, "📄 Document Type: Invoice or billing statement")
	} else if strings.Contains(lower, "contract") || strings.Contains(lower, "agreement") {
		insights = append(insights, "📋 Document Type: Contract or legal agreement")
	} else if strings.Contains(lower, "report") {
		insights = append(insights, "📊 Document Type: Report or analysis document")
	} else if strings.Contains(lower, "letter") {
		insights = append(insights, "📝 Document Type: Letter or correspondence")
	}

	if amounts := Amounts(content); len(amounts) > 0 {
		fin := SummarizeAmounts(amounts)
		insights = append(insights, fmt.Sprintf(
			"💰 Financial Information: %d monetary amounts found, total: %s%s",
			fin.Count, fin.Symbol, formatAmount(fin.Total)))
	}

	if emails := Emails(content); len(emails) > 0 {
		insights = append(insights, fmt.Sprintf("📧 Contact Information: %d email addresses found", len(emails)))
	}

	if phones := Phones(content); len(phones) > 0 {
		insights = append(insights, fmt.Sprintf("📞 Contact Information: %d phone numbers found", len(phones)))
	}

	if strings.Contains(lower, "bank") || strings.Contains(lower, "account") ||
		strings.Contains(lower, "ifsc") || strings.Contains(lower, "ac no") {
		insights = append(insights, "🏦 Banking Details: Contains banking or payment information")
	}

	if dates := Dates(content); len(dates) > 0 {
		insights = append(insights, fmt.Sprintf("📅 Time-sensitive: %d important dates mentioned", len(dates)))
	}

	if strings.Contains(lower, "gst") || strings.Contains(lower, "tax") || strings.Contains(lower, "pan") {
		insights = append(insights, "🏛️ Tax Information: Contains GST, PAN, or tax-related details")
	}

	if strings.Contains(lower, "service") || strings.Contains(lower, "product") {
		insights = append(insights, "🛠️ Service/Product: Contains service or product descriptions")
	}

	if len(insights) == 0 {
		insights = append(insights,
			"📄 Document contains structured information",
			"🔍 Multiple key topics identified",
			"📋 Professional language detected")
	}
	return insights
}

var (
	serviceMention = regexp.MustCompile(`(?i)(?:service|product|item|description)[\s:]*[^\n\r]+`)
	servicePrefix  = regexp.MustCompile(`(?i)^(service|product|item|description)[\s:]*`)
	orgMention     = regexp.MustCompile(`(?i)(?:company|organization|corporation|pvt|ltd|inc)[\s:]*[^\n\r]+`)
	orgPrefix      = regexp.MustCompile(`(?i)^(company|organization|corporation|pvt|ltd|inc)[\s:]*`)
	addressMention = regexp.MustCompile(`(?i)(?:address|location)[\s:]*[^\n\r]+`)
	addressPrefix  = regexp.MustCompile(`(?i)^(address|location)[\s:]*`)
)

// KeyPoints extracts up to seven key facts in priority order: first
// amount, date, email, phone, service mention, organization mention, and
// address mention. When no structured fact matches it falls back to the
// first five sentences longer than 20 characters.
func KeyPoints(content string) []string {
	var keyPoints []string

	if amounts := Amounts(content); len(amounts) > 0 {
		keyPoints = append(keyPoints, "💰 Amount: "+amounts[0])
	}
	if dates := Dates(content); len(dates) > 0 {
		keyPoints = append(keyPoints, "📅 Date: "+dates[0])
	}
	if emails := Emails(content); len(emails) > 0 {
		keyPoints = append(keyPoints, "📧 Email: "+emails[0])
	}
	if phones := Phones(content); len(phones) > 0 {
		keyPoints = append(keyPoints, "📞 Phone: "+phones[0])
	}
	if m := serviceMention.FindString(content); m != "" {
		keyPoints = append(keyPoints, "🛠️ Service: "+strings.TrimSpace(servicePrefix.ReplaceAllString(m, "")))
	}
	if m := orgMention.FindString(content); m != "" {
		keyPoints = append(keyPoints, "🏢 Organization: "+strings.TrimSpace(orgPrefix.ReplaceAllString(m, "")))
	}
	if m := addressMention.FindString(content); m != "" {
		keyPoints = append(keyPoints, "📍 Address: "+strings.TrimSpace(addressPrefix.ReplaceAllString(m, "")))
	}

	if len(keyPoints) == 0 {
		for _, s := range sentenceEnd.Split(content, -1) {
			trimmed := strings.TrimSpace(s)
			if len(trimmed) > 20 {
				keyPoints = append(keyPoints, trimmed)
			}
			if len(keyPoints) == 5 {
				break
			}
		}
	}

	if len(keyPoints) > 7 {
		keyPoints = keyPoints[:7]
	}
	return keyPoints
}

var (
	positiveWords = []string{"good", "great", "excellent", "positive", "success", "approved", "accepted"}
	negativeWords = []string{"bad", "poor", "negative", "failure", "problem", "rejected", "cancelled"}
)

// Sentiment classifies the document by counting which of the fixed
// positive and negative word lists appear in the text. Ties, including
// empty input, are neutral.
func Sentiment(content string) string {
	lower := strings.ToLower(content)

	positive := 0
	for _, w := range positiveWords {
		if strings.Contains(lower, w) {
			positive++
		}
	}
	negative := 0
	for _, w := range negativeWords {
		if strings.Contains(lower, w) {
			negative++
		}
	}

	switch {
	case positive > negative:
		return SentimentPositive
	case negative > positive:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// formatAmount renders a float with thousands separators in the integer
// part, dropping a trailing ".0" the way locale-aware formatting would.
func formatAmount(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	intPart, fracPart, hasFrac := strings.Cut(s, ".")

	neg := strings.HasPrefix(intPart, "-")
	if neg {
		intPart = intPart[1:]
	}

	var out strings.Builder
	for i, d := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			out.WriteByte(',')
		}
		out.WriteRune(d)
	}

	result := out.String()
	if neg {
		result = "-" + result
	}
	if hasFrac {
		result += "." + fracPart
	}
	return result
}
