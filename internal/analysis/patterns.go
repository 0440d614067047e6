package analysis

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	amountPattern = regexp.MustCompile(`₹[\d,]+\.?\d*|\$[\d,]+\.?\d*|€[\d,]+\.?\d*`)
	datePattern   = regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{2,4}|\d{1,2}-\d{1,2}-\d{2,4}`)
	emailPattern  = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

	// Deliberately permissive: matches any digit run, so invoice numbers
	// and years count as phones too. Known precision issue, kept for
	// output compatibility.
	phonePattern = regexp.MustCompile(`[+]?[1-9][\d]{0,15}`)

	// Stricter variant used only for the contact-info extractor.
	contactPhonePattern = regexp.MustCompile(`[+]?[1-9][\d\s\-()]{8,15}`)

	namePattern = regexp.MustCompile(`^([A-Z][a-z]+ [A-Z][a-z]+)`)
)

// Amounts returns currency-amount tokens (₹, $, €) in document order.
func Amounts(text string) []string { return amountPattern.FindAllString(text, -1) }

// Dates returns D/M/YY[YY] and D-M-YY[YY] numeric date forms. No calendar
// validation is performed.
func Dates(text string) []string { return datePattern.FindAllString(text, -1) }

// Emails returns local@domain.tld matches in document order.
func Emails(text string) []string { return emailPattern.FindAllString(text, -1) }

// Phones returns loose phone-number matches. See phonePattern.
func Phones(text string) []string { return phonePattern.FindAllString(text, -1) }

// FinancialSummary aggregates parsed amount tokens.
type FinancialSummary struct {
	Count  int
	Total  float64
	Symbol string
}

var amountStripper = strings.NewReplacer("₹", "", "$", "", "€", "", ",", "")

// SummarizeAmounts sums the numeric values of matched amount tokens and
// reports the currency symbol of the first match. Unparseable tokens
// contribute zero.
func SummarizeAmounts(amounts []string) FinancialSummary {
	if len(amounts) == 0 {
		return FinancialSummary{}
	}

	symbol := "€"
	if strings.Contains(amounts[0], "₹") {
		symbol = "₹"
	} else if strings.Contains(amounts[0], "$") {
		symbol = "$"
	}

	var total float64
	for _, a := range amounts {
		if v, err := strconv.ParseFloat(amountStripper.Replace(a), 64); err == nil {
			total += v
		}
	}

	return FinancialSummary{Count: len(amounts), Total: total, Symbol: symbol}
}

// Résumé section boundaries as a rule table: each known header maps to the
// headers that terminate its body. Rules are matched case-insensitively.
var sectionRules = map[string][]string{
	"Experience":       {"Education", "Projects", "Technical Skills", "Achievements"},
	"Education":        {"Experience", "Projects"},
	"Technical Skills": {"Achievements", "Projects"},
	"Projects":         {"Technical Skills", "Achievements"},
	"Achievements":     {},
}

// Section returns the body of a known résumé section per the rule table,
// or "" for unknown section names.
func Section(text, name string) string {
	stops, ok := sectionRules[name]
	if !ok {
		return ""
	}
	return SectionBody(text, name, stops...)
}

// SectionBody returns the trimmed substring between a case-insensitive
// header token and the next occurrence of any stop header, or the end of
// the text when no stop header follows.
func SectionBody(text, name string, stops ...string) string {
	alts := make([]string, 0, len(stops)+1)
	for _, s := range stops {
		alts = append(alts, regexp.QuoteMeta(s))
	}
	alts = append(alts, `$`)

	re, err := regexp.Compile(`(?is)` + regexp.QuoteMeta(name) + `(.*?)(?:` + strings.Join(alts, "|") + `)`)
	if err != nil {
		return ""
	}
	m := re.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// splitBefore splits text at the start of each match of re, keeping the
// match with the segment that follows it. Text before the first match is
// its own segment; with no matches the whole text is returned as one.
func splitBefore(text string, re *regexp.Regexp) []string {
	locs := re.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return []string{text}
	}
	var parts []string
	prev := 0
	for _, loc := range locs {
		if loc[0] > prev {
			parts = append(parts, text[prev:loc[0]])
			prev = loc[0]
		}
	}
	parts = append(parts, text[prev:])
	return parts
}

var positionHeading = regexp.MustCompile(`(?i)Backend Engineer|Software Engineer|Engineer|Intern`)

// WorkExperience extracts the Experience section and splits it into
// individual positions at job-title headings. Fragments of 20 characters
// or fewer are dropped as heading noise.
func WorkExperience(text string) []string {
	body := Section(text, "Experience")
	if body == "" {
		return nil
	}

	var positions []string
	for _, p := range splitBefore(body, positionHeading) {
		p = strings.TrimSpace(p)
		if len(p) > 20 {
			positions = append(positions, p)
		}
	}
	return positions
}

var educationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?is)B\.Tech.*?\d{4}`),
	regexp.MustCompile(`(?is)Bachelor.*?\d{4}`),
	regexp.MustCompile(`(?is)Institute.*?\d{4}`),
	regexp.MustCompile(`(?is)University.*?\d{4}`),
	regexp.MustCompile(`(?is)College.*?\d{4}`),
}

// EducationInfo extracts the Education section, falling back to common
// degree and institution phrases (each ending in a year) when the document
// has no explicit Education header.
func EducationInfo(text string) string {
	if body := Section(text, "Education"); body != "" {
		return body
	}
	for _, re := range educationPatterns {
		if m := re.FindAllString(text, -1); len(m) > 0 {
			return strings.Join(m, "\n")
		}
	}
	return ""
}

var (
	skillKeywords = []string{"Languages:", "Frameworks:", "Databases:", "Tools"}
	skillStop     = regexp.MustCompile(`(?i)Languages:|Frameworks:|Databases:|Tools`)
)

// SkillsInfo extracts the Technical Skills section, falling back to
// scanning for labeled skill lines (Languages:, Frameworks:, ...) when the
// section header is absent. Each line is cut at the next label.
func SkillsInfo(text string) string {
	if body := Section(text, "Technical Skills"); body != "" {
		return body
	}

	var sections []string
	for _, kw := range skillKeywords {
		re, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(kw) + `[^\n]*`)
		if err != nil {
			continue
		}
		for _, m := range re.FindAllString(text, -1) {
			tail := m[len(kw):]
			if loc := skillStop.FindStringIndex(tail); loc != nil {
				m = m[:len(kw)+loc[0]]
			}
			sections = append(sections, m)
		}
	}
	return strings.Join(sections, "\n")
}

// ProjectsInfo extracts the Projects section body.
func ProjectsInfo(text string) string { return Section(text, "Projects") }

// AchievementsInfo extracts the Achievements section body.
func AchievementsInfo(text string) string { return Section(text, "Achievements") }

// ContactInfo collects email, phone, and a leading "First Last" name into
// a labeled multi-line string. Missing fields are omitted.
func ContactInfo(text string) string {
	var lines []string
	if m := emailPattern.FindString(text); m != "" {
		lines = append(lines, "Email: "+m)
	}
	if m := contactPhonePattern.FindString(text); m != "" {
		lines = append(lines, "Phone: "+m)
	}
	if m := namePattern.FindStringSubmatch(text); m != nil {
		lines = append(lines, "Name: "+m[1])
	}
	return strings.Join(lines, "\n")
}

// LeadingName returns the "First Last" name a résumé typically starts
// with, or "".
func LeadingName(text string) string {
	if m := namePattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}
