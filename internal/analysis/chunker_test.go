package analysis

import (
	"strings"
	"testing"
)

func TestChunkByTokensNonEmpty(t *testing.T) {
	inputs := []string{
		"Short sentence.",
		"First sentence. Second sentence! Third sentence? Fourth one.",
		"no terminal punctuation at all just words",
		strings.Repeat("word ", 500),
	}

	for _, input := range inputs {
		chunks := ChunkByTokens(input, 50)
		if len(chunks) == 0 {
			t.Errorf("ChunkByTokens(%q) returned no chunks", input[:min(len(input), 40)])
		}
		for i, c := range chunks {
			if strings.TrimSpace(c) == "" {
				t.Errorf("chunk %d is empty for input %q", i, input[:min(len(input), 40)])
			}
		}
	}
}

func TestChunkByTokensDeterministic(t *testing.T) {
	input := "Alpha beta gamma. Delta epsilon zeta! Eta theta iota? Kappa lambda mu."
	a := ChunkByTokens(input, 10)
	b := ChunkByTokens(input, 10)

	if len(a) != len(b) {
		t.Fatalf("chunk counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("chunk %d differs: %q vs %q", i, a[i], b[i])
		}
	}
}

func TestChunkByTokensRespectsSentenceBounds(t *testing.T) {
	// Each sentence is ~40 chars (~10 tokens); a 12-token bound forces one
	// sentence per chunk.
	input := "This is the first forty char sentence ok. This is the second forty char sentence x. This is the third forty char sentence yy."
	chunks := ChunkByTokens(input, 12)

	if len(chunks) < 3 {
		t.Fatalf("expected at least 3 chunks, got %d: %v", len(chunks), chunks)
	}
	if !strings.Contains(chunks[0], "first") {
		t.Errorf("first chunk missing first sentence: %q", chunks[0])
	}
	if !strings.Contains(chunks[1], "second") {
		t.Errorf("second chunk missing second sentence: %q", chunks[1])
	}
}

func TestChunkByTokensPreservesContent(t *testing.T) {
	input := "One two three. Four five six. Seven eight nine. Ten eleven twelve."
	chunks := ChunkByTokens(input, 8)

	joined := strings.Join(chunks, " ")
	for _, word := range strings.Fields("One two three Four five six Seven eight nine Ten eleven twelve") {
		if !strings.Contains(joined, word) {
			t.Errorf("word %q lost during chunking: %v", word, chunks)
		}
	}
}

func TestChunkByTokensNoWordSplit(t *testing.T) {
	words := []string{"alpha", "bravo", "charlie", "delta", "echo", "foxtrot", "golf", "hotel"}
	input := strings.Join(words[:4], " ") + ". " + strings.Join(words[4:], " ") + "."
	chunks := ChunkByTokens(input, 5)

	for _, c := range chunks {
		for _, w := range strings.Fields(c) {
			w = strings.Trim(w, ".")
			found := false
			for _, orig := range words {
				if w == orig {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("word %q in chunk %q is not an original word", w, c)
			}
		}
	}
}

func TestChunkByTokensOversizedWordKeptWhole(t *testing.T) {
	long := strings.Repeat("x", 100)
	input := "start " + long + " end"
	chunks := ChunkByTokens(input, 5) // 20-char bound

	found := false
	for _, c := range chunks {
		if strings.Contains(c, long) {
			found = true
		}
	}
	if !found {
		t.Errorf("oversized word was split or dropped: %v", chunks)
	}
}

func TestChunkByCharsBound(t *testing.T) {
	input := "Aa bb cc. Dd ee ff. Gg hh ii. Jj kk ll. Mm nn oo."
	chunks := ChunkByChars(input, 20)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %v", chunks)
	}
	for i, c := range chunks {
		// Bound may be exceeded only by a single oversized sentence.
		if len(c) > 20 && strings.Contains(c, ". ") {
			t.Errorf("chunk %d over bound with multiple sentences: %q", i, c)
		}
	}
}

func TestChunkByCharsFixedWidthFallback(t *testing.T) {
	// Input that sentence splitting reduces to nothing forces the
	// fixed-width fallback.
	input := strings.Repeat("!", 25)
	chunks := ChunkByChars(input, 10)

	if len(chunks) != 3 {
		t.Fatalf("expected 3 fixed-width chunks, got %d: %v", len(chunks), chunks)
	}
	if chunks[0] != strings.Repeat("!", 10) || chunks[2] != strings.Repeat("!", 5) {
		t.Errorf("unexpected fixed-width slices: %v", chunks)
	}
}

func TestEstimateTokens(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"abc", 1},
		{"abcd", 1},
		{"abcde", 2},
		{strings.Repeat("x", 400), 100},
	}
	for _, tc := range cases {
		if got := EstimateTokens(tc.in); got != tc.want {
			t.Errorf("EstimateTokens(%d chars) = %d, want %d", len(tc.in), got, tc.want)
		}
	}
}
