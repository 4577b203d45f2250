package services

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// TextAnalyzer provides text analysis capabilities for the domain
type TextAnalyzer interface {
	// TokenizeWords splits text on whitespace into a set of unique lowercase
	// words longer than the configured minimum
	TokenizeWords(text string) map[string]bool

	// ExtractKeywords returns words with punctuation stripped and stop words
	// removed, in order of first appearance with repeats kept
	ExtractKeywords(text string) []string
}

// DefaultTextAnalyzer provides a default implementation of TextAnalyzer
type DefaultTextAnalyzer struct {
	minLength int
	stopWords map[string]bool
}

// NewDefaultTextAnalyzer creates a text analyzer. Tokens must be strictly
// longer than minLength runes.
func NewDefaultTextAnalyzer(minLength int) *DefaultTextAnalyzer {
	return &DefaultTextAnalyzer{
		minLength: minLength,
		stopWords: getDefaultStopWords(),
	}
}

// TokenizeWords breaks text into a set of unique lowercase words. Only
// whitespace separates tokens, so "graph," and "graph" are different words.
func (ta *DefaultTextAnalyzer) TokenizeWords(text string) map[string]bool {
	words := make(map[string]bool)
	for _, field := range strings.Fields(strings.ToLower(text)) {
		if utf8.RuneCountInString(field) > ta.minLength {
			words[field] = true
		}
	}
	return words
}

// ExtractKeywords extracts meaningful keywords from text
func (ta *DefaultTextAnalyzer) ExtractKeywords(text string) []string {
	keywords := make([]string, 0)
	for _, field := range strings.Fields(strings.ToLower(text)) {
		if strings.HasPrefix(field, "#") {
			continue
		}
		word := strings.TrimFunc(field, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if utf8.RuneCountInString(word) <= ta.minLength || ta.stopWords[word] {
			continue
		}
		keywords = append(keywords, word)
	}
	return keywords
}

// getDefaultStopWords returns a set of common English stop words. Only words
// long enough to survive the length filter matter here.
func getDefaultStopWords() map[string]bool {
	return map[string]bool{
		"about": true, "after": true, "again": true, "also": true, "because": true,
		"been": true, "before": true, "being": true, "could": true, "does": true,
		"doing": true, "during": true, "each": true, "even": true, "from": true,
		"have": true, "having": true, "here": true, "into": true, "just": true,
		"like": true, "made": true, "make": true, "many": true, "more": true,
		"most": true, "much": true, "must": true, "only": true, "other": true,
		"over": true, "really": true, "said": true, "same": true, "should": true,
		"some": true, "such": true, "than": true, "that": true, "their": true,
		"them": true, "then": true, "there": true, "these": true, "they": true,
		"thing": true, "things": true, "think": true, "this": true, "those": true,
		"through": true, "very": true, "want": true, "were": true, "what": true,
		"when": true, "where": true, "which": true, "while": true, "will": true,
		"with": true, "would": true, "your": true, "today": true,
	}
}
