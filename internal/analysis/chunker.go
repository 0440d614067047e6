package analysis

import "strings"

// ChunkByTokens splits content into pieces that stay under maxTokens
// estimated tokens each, preferring sentence boundaries. Sentences are
// accumulated greedily; when the next sentence would push the running
// estimate over the bound the current chunk is closed and the sentence
// starts a new one. Text without any terminal punctuation falls back to
// paragraph splitting, and oversized paragraphs to word accumulation
// bounded by maxTokens*4 characters. A single word longer than that bound
// becomes its own chunk unmodified. For non-empty input the result is
// never empty: the last resort is one chunk of the first maxTokens*4
// characters.
func ChunkByTokens(content string, maxTokens int) []string {
	var chunks []string

	currentChunk := ""
	currentTokens := 0
	for _, sentence := range SplitSentences(content) {
		sentenceTokens := EstimateTokens(sentence)
		if currentTokens+sentenceTokens > maxTokens && len(currentChunk) > 0 {
			chunks = append(chunks, strings.TrimSpace(currentChunk))
			currentChunk = sentence
			currentTokens = sentenceTokens
		} else {
			currentChunk += sentence + "."
			currentTokens += sentenceTokens
		}
	}
	if strings.TrimSpace(currentChunk) != "" {
		chunks = append(chunks, strings.TrimSpace(currentChunk))
	}

	if len(chunks) == 0 {
		chunks = chunkParagraphs(content, maxTokens)
	}

	if len(chunks) == 0 {
		bound := maxTokens * 4
		if bound > len(content) {
			bound = len(content)
		}
		chunks = append(chunks, content[:bound])
	}
	return chunks
}

// chunkParagraphs handles content with no sentence terminators at all.
func chunkParagraphs(content string, maxTokens int) []string {
	var chunks []string
	maxChars := maxTokens * 4

	currentParagraph := ""
	for _, paragraph := range strings.Split(content, "\n\n") {
		if strings.TrimSpace(paragraph) == "" {
			continue
		}

		if EstimateTokens(paragraph) > maxTokens {
			// Oversized paragraph: accumulate words up to the character
			// bound. A word that alone exceeds the bound is kept whole.
			wordChunk := ""
			for _, word := range strings.Split(paragraph, " ") {
				if len(wordChunk+word) > maxChars {
					if len(wordChunk) > 0 {
						chunks = append(chunks, strings.TrimSpace(wordChunk))
						wordChunk = word
					} else {
						chunks = append(chunks, word)
					}
				} else {
					wordChunk += " " + word
				}
			}
			if strings.TrimSpace(wordChunk) != "" {
				chunks = append(chunks, strings.TrimSpace(wordChunk))
			}
			continue
		}

		if len(currentParagraph+paragraph) > maxChars {
			if len(currentParagraph) > 0 {
				chunks = append(chunks, strings.TrimSpace(currentParagraph))
				currentParagraph = paragraph
			} else {
				chunks = append(chunks, paragraph)
			}
		} else {
			currentParagraph += "\n\n" + paragraph
		}
	}
	if strings.TrimSpace(currentParagraph) != "" {
		chunks = append(chunks, strings.TrimSpace(currentParagraph))
	}
	return chunks
}

// ChunkByChars is the conversational Q&A variant of ChunkByTokens. It
// bounds chunks by character count only, accumulating trimmed sentences
// joined with ". " and falling back to fixed-width slices when sentence
// splitting produces nothing (for example a single run-on line).
func ChunkByChars(content string, maxChars int) []string {
	var chunks []string

	currentChunk := ""
	for _, sentence := range SplitSentences(content) {
		trimmed := strings.TrimSpace(sentence)
		if trimmed == "" {
			continue
		}
		if len(currentChunk)+len(trimmed)+1 > maxChars && len(currentChunk) > 0 {
			chunks = append(chunks, strings.TrimSpace(currentChunk))
			currentChunk = trimmed
		} else {
			if currentChunk != "" {
				currentChunk += ". "
			}
			currentChunk += trimmed
		}
	}
	if strings.TrimSpace(currentChunk) != "" {
		chunks = append(chunks, strings.TrimSpace(currentChunk))
	}

	if len(chunks) == 0 {
		for i := 0; i < len(content); i += maxChars {
			end := i + maxChars
			if end > len(content) {
				end = len(content)
			}
			chunks = append(chunks, content[i:end])
		}
	}
	return chunks
}
