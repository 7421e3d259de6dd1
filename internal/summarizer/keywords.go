package summarizer

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"omnitutor/internal/domain"
)

// DefaultTopKeywords is the number of keywords reported per document.
const DefaultTopKeywords = 20

// KeywordSummarizer condenses a document into its most frequent terms
// (stopwords filtered). The output string is consumed verbatim by
// outline generation.
type KeywordSummarizer struct {
	topN         int
	tokenPattern *regexp.Regexp
	stopwords    map[string]struct{}
}

// NewKeywordSummarizer creates a frequency-keyword summarizer reporting
// the topN most common terms per document.
func NewKeywordSummarizer(topN int) *KeywordSummarizer {
	if topN <= 0 {
		topN = DefaultTopKeywords
	}
	return &KeywordSummarizer{
		topN:         topN,
		tokenPattern: regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`),
		stopwords:    defaultStopwords(),
	}
}

// Summarize returns "Top<N> frequency keywords for <source>: <terms>".
func (s *KeywordSummarizer) Summarize(document domain.Document) string {
	keywords := s.Keywords(document.Content)
	return fmt.Sprintf("Top%d frequency keywords for %s: %s",
		s.topN, document.Path, strings.Join(keywords, ", "))
}

// Keywords returns up to topN terms ordered by descending frequency,
// ties broken by first occurrence in the text.
func (s *KeywordSummarizer) Keywords(text string) []string {
	tokens := s.tokenize(text)
	freq := make(map[string]int, len(tokens))
	firstSeen := make(map[string]int, len(tokens))
	for i, tok := range tokens {
		if _, ok := firstSeen[tok]; !ok {
			firstSeen[tok] = i
		}
		freq[tok]++
	}
	terms := make([]string, 0, len(freq))
	for term := range freq {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if freq[terms[i]] != freq[terms[j]] {
			return freq[terms[i]] > freq[terms[j]]
		}
		return firstSeen[terms[i]] < firstSeen[terms[j]]
	})
	if len(terms) > s.topN {
		terms = terms[:s.topN]
	}
	return terms
}

func (s *KeywordSummarizer) tokenize(text string) []string {
	lower := strings.ToLower(text)
	raw := s.tokenPattern.FindAllString(lower, -1)
	out := raw[:0]
	for _, t := range raw {
		if _, isStop := s.stopwords[t]; isStop {
			continue
		}
		out = append(out, t)
	}
	return out
}

var _ domain.Summarizer = (*KeywordSummarizer)(nil)

// SummarizeAll summarizes every document in source-list order.
func SummarizeAll(s domain.Summarizer, documents []domain.Document) []string {
	out := make([]string, 0, len(documents))
	for _, d := range documents {
		out = append(out, s.Summarize(d))
	}
	return out
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at", "by", "with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "this", "that", "these", "those", "from", "up", "down", "over", "under", "again", "further", "than", "so", "such", "into", "about", "between", "through", "during", "before", "after", "above", "below", "out", "off", "own", "same", "too", "very", "can", "will", "just", "don", "should", "now",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
