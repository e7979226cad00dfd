package game

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercases", "PARIS", "paris"},
		{"strips question prefix", "What is Paris?", "paris"},
		{"strips who prefix", "Who was Marie Curie", "marie curie"},
		{"strips leading article", "the Eiffel Tower", "eiffel tower"},
		{"strips prefix then article", "What is the Eiffel Tower?", "eiffel tower"},
		{"strips punctuation", "O'Brien, Jr.!", "obrien jr"},
		{"collapses whitespace", "  new   york\tcity ", "new york city"},
		{"keeps digits", "Area 51", "area 51"},
		{"only one article stripped", "the the answer", "the answer"},
		{"empty input", "", ""},
		{"punctuation only", "?!...", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestCheckMatchExact(t *testing.T) {
	result := CheckMatch("What is Paris?", "Paris")
	require.True(t, result.IsMatch)
	assert.Equal(t, 1.0, result.Confidence)

	// Question phrasing and articles are equivalent to the bare answer
	result = CheckMatch("what is the mona lisa", "Mona Lisa")
	require.True(t, result.IsMatch)
	assert.Equal(t, 1.0, result.Confidence)
}

func TestCheckMatchFuzzy(t *testing.T) {
	// One edit within budget, similarity above the floor
	result := CheckMatch("pariss", "Paris")
	require.True(t, result.IsMatch)
	assert.Greater(t, result.Confidence, 0.8)
	assert.Less(t, result.Confidence, 1.0)

	// Too many edits for the budget
	result = CheckMatch("parisss", "Paris")
	assert.False(t, result.IsMatch)

	// Short answers get no percentage slack beyond the absolute budget
	result = CheckMatch("cat", "dog")
	assert.False(t, result.IsMatch)
}

func TestCheckMatchBudget(t *testing.T) {
	// A second edit passes only when the budget allows it and the strings
	// are long enough to keep similarity at 0.8
	candidate := "mississipi rivr"
	reference := "Mississippi River"
	assert.False(t, CheckMatchBudget(candidate, reference, 1).IsMatch)
	require.True(t, CheckMatchBudget(candidate, reference, 2).IsMatch)
}

func TestCheckMatchWordContainment(t *testing.T) {
	// Same words, different order
	result := CheckMatch("Shakespeare William", "William Shakespeare")
	require.True(t, result.IsMatch)
	assert.InDelta(t, 0.9, result.Confidence, 0.001)

	// Single-word answers never match via containment
	result = CheckMatch("armstrong", "Neil Armstrong")
	assert.False(t, result.IsMatch)

	// Superset with too little overlap
	result = CheckMatch("the great wall of china", "Great Wall")
	assert.False(t, result.IsMatch)
}

func TestCheckMatchEmptyInput(t *testing.T) {
	assert.False(t, CheckMatch("", "Paris").IsMatch)
	assert.False(t, CheckMatch("Paris", "").IsMatch)
	assert.False(t, CheckMatch("?!", "Paris").IsMatch)
}

func TestValidateAnswer(t *testing.T) {
	assert.NoError(t, ValidateAnswer("What is Paris?"))
	assert.ErrorIs(t, ValidateAnswer(""), ErrEmptyAnswer)
	assert.ErrorIs(t, ValidateAnswer("   "), ErrEmptyAnswer)
	assert.ErrorIs(t, ValidateAnswer(strings.Repeat("x", MaxAnswerLength+1)), ErrAnswerTooLong)
	assert.ErrorIs(t, ValidateAnswer("12345!!"), ErrAnswerNotText)
}
