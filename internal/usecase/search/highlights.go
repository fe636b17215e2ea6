package search

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// highlight window sizing around a matched term.
const (
	highlightContext      = 60
	maxHighlightsPerField = 3
)

// extractHighlights returns snippets of each field around occurrences of
// the query terms. Terms shorter than three characters are skipped; they
// match too much to be useful.
func extractHighlights(query string, fields map[string]string) map[string][]string {
	terms := highlightTerms(query)
	if len(terms) == 0 {
		return nil
	}

	highlights := make(map[string][]string)
	for name, text := range fields {
		if text == "" {
			continue
		}
		snippets := fieldSnippets(text, terms)
		if len(snippets) > 0 {
			highlights[name] = snippets
		}
	}
	if len(highlights) == 0 {
		return nil
	}
	return highlights
}

func highlightTerms(query string) []string {
	var terms []string
	for _, t := range strings.Fields(strings.ToLower(query)) {
		if len(t) >= 3 {
			terms = append(terms, t)
		}
	}
	return terms
}

func fieldSnippets(text string, terms []string) []string {
	lower, offsets := lowerWithOffsets(text)
	var snippets []string

	for _, term := range terms {
		from := 0
		for len(snippets) < maxHighlightsPerField {
			idx := strings.Index(lower[from:], term)
			if idx < 0 {
				break
			}
			idx += from
			// Map the match back into the original text; lowering can
			// change byte lengths (e.g. İ), so lowered offsets do not
			// line up with text directly.
			start := offsets[idx]
			end := offsets[idx+len(term)]
			snippets = append(snippets, snippetAround(text, start, end-start))
			from = idx + len(term)
		}
		if len(snippets) >= maxHighlightsPerField {
			break
		}
	}
	return snippets
}

// lowerWithOffsets lowercases text rune by rune and records, for every
// byte position of the lowered form (plus one past the end), the byte
// offset of the originating rune in text.
func lowerWithOffsets(text string) (string, []int) {
	var b strings.Builder
	b.Grow(len(text))
	offsets := make([]int, 0, len(text)+1)

	for i, r := range text {
		lr := unicode.ToLower(r)
		for j := 0; j < utf8.RuneLen(lr); j++ {
			offsets = append(offsets, i)
		}
		b.WriteRune(lr)
	}
	offsets = append(offsets, len(text))

	return b.String(), offsets
}

func snippetAround(text string, idx, termLen int) string {
	start := idx - highlightContext
	if start < 0 {
		start = 0
	}
	for start > 0 && !utf8.RuneStart(text[start]) {
		start--
	}

	end := idx + termLen + highlightContext
	if end > len(text) {
		end = len(text)
	}
	for end < len(text) && !utf8.RuneStart(text[end]) {
		end++
	}

	snippet := strings.TrimSpace(text[start:end])
	if start > 0 {
		snippet = "…" + snippet
	}
	if end < len(text) {
		snippet += "…"
	}
	return snippet
}
