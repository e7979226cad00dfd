package game

import (
	"math"
	"strings"
	"unicode"

	"github.com/agext/levenshtein"
)

// MaxAnswerLength bounds free-text answer submissions.
const MaxAnswerLength = 200

// Question-style prefixes stripped during normalization, longest first so
// "what is a" wins over "what is".
var questionPrefixes = []string{
	"what is", "what are", "what was", "what were",
	"who is", "who are", "who was", "who were",
	"where is", "where are", "where was", "where were",
	"when is", "when was",
}

var leadingArticles = []string{"a", "an", "the"}

// MatchResult is the outcome of comparing a candidate answer against the
// reference answer.
type MatchResult struct {
	IsMatch    bool
	Confidence float64
}

// Normalize reduces free-text to a canonical comparison form: lowercased,
// question prefix and a single leading article stripped, punctuation
// removed, whitespace collapsed.
func Normalize(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))

	for _, prefix := range questionPrefixes {
		if strings.HasPrefix(s, prefix+" ") {
			s = strings.TrimSpace(s[len(prefix):])
			break
		}
	}

	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	s = strings.Join(strings.Fields(b.String()), " ")

	for _, article := range leadingArticles {
		if strings.HasPrefix(s, article+" ") {
			s = s[len(article)+1:]
			break
		}
	}

	return s
}

// CheckMatch reports whether candidate matches reference with the default
// fuzzy budget of one edit.
func CheckMatch(candidate, reference string) MatchResult {
	return CheckMatchBudget(candidate, reference, 1)
}

// CheckMatchBudget compares a candidate against the reference answer.
// Matching is attempted in order of decreasing confidence: exact match
// after normalization, bounded edit distance, then word-set containment.
// It never fails on malformed input; empty or unmatchable input simply
// returns a no-match result.
func CheckMatchBudget(candidate, reference string, fuzzyBudget int) MatchResult {
	c := Normalize(candidate)
	r := Normalize(reference)
	if c == "" || r == "" {
		return MatchResult{}
	}

	if c == r {
		return MatchResult{IsMatch: true, Confidence: 1.0}
	}

	maxLen := len(c)
	if len(r) > maxLen {
		maxLen = len(r)
	}
	distance := levenshtein.Distance(c, r, nil)
	budget := int(math.Ceil(0.15 * float64(maxLen)))
	if budget > fuzzyBudget {
		budget = fuzzyBudget
	}
	similarity := 1.0 - float64(distance)/float64(maxLen)
	if distance <= budget && similarity >= 0.8 {
		return MatchResult{IsMatch: true, Confidence: similarity}
	}

	if overlap, ok := wordSetOverlap(c, r); ok && overlap >= 0.7 {
		return MatchResult{IsMatch: true, Confidence: overlap * 0.9}
	}

	return MatchResult{}
}

// wordSetOverlap reports the Jaccard overlap between the word sets of two
// normalized strings when one set contains the other. Only attempted when
// both sides have at least two words; single-word answers must match via
// the edit distance path.
func wordSetOverlap(a, b string) (float64, bool) {
	wordsA := strings.Fields(a)
	wordsB := strings.Fields(b)
	if len(wordsA) < 2 || len(wordsB) < 2 {
		return 0, false
	}

	setA := make(map[string]bool, len(wordsA))
	for _, w := range wordsA {
		setA[w] = true
	}
	setB := make(map[string]bool, len(wordsB))
	for _, w := range wordsB {
		setB[w] = true
	}

	shared := 0
	for w := range setA {
		if setB[w] {
			shared++
		}
	}
	if shared != len(setA) && shared != len(setB) {
		return 0, false // neither side contains the other
	}

	union := len(setA) + len(setB) - shared
	return float64(shared) / float64(union), true
}

// ValidateAnswer rejects submissions that cannot possibly be judged: empty
// strings, oversized strings, and strings with no alphabetic content.
func ValidateAnswer(text string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ErrEmptyAnswer
	}
	if len(text) > MaxAnswerLength {
		return ErrAnswerTooLong
	}
	for _, r := range trimmed {
		if unicode.IsLetter(r) {
			return nil
		}
	}
	return ErrAnswerNotText
}
