package summary

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarizeArithmetic(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"symbol sum", "12 + 7", "Sum of 12 and 7"},
		{"symbol difference", "9 - 4", "Difference 9–4"},
		{"symbol product", "3 x 4", "Product 3×4"},
		{"asterisk product", "what is 6*7?", "Product 6×7"},
		{"symbol quotient", "8/2", "Quotient 8÷2"},
		{"word sum", "What is 12 plus 7", "Sum of 12 and 7"},
		{"word difference", "5 minus 2 please", "Difference 5–2"},
		{"word product", "2 times 3", "Product 2×3"},
		{"multiplied by", "10 multiplied by 10", "Product 10×10"},
		{"word quotient", "15 divided by 3", "Quotient 15÷3"},
		{"arithmetic beats intent prefix", "what is 12 + 7?", "Sum of 12 and 7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Summarize(tt.input))
		})
	}
}

func TestSummarizeIntents(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"what is", "what is the capital of France?", "What is the capital of France"},
		{"what's", "what's recursion? and why use it", "What is recursion"},
		{"how to", "how to bake sourdough bread. Step by step", "How to bake sourdough bread"},
		{"explain", "explain monads in simple terms, please.", "Explain monads in simple terms, please"},
		{"summarize", "summarize this article for me", "Summary request"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Summarize(tt.input))
		})
	}
}

func TestSummarizeIntentTruncation(t *testing.T) {
	got := Summarize("what is the meaning of a very long rambling question that never ends")
	assert.True(t, strings.HasPrefix(got, "What is "))
	assert.Len(t, []rune(got), 48)
}

func TestSummarizeKeywordFallback(t *testing.T) {
	assert.Equal(t, "compare gradient descent variants",
		Summarize("can you compare the gradient descent variants for me"))

	// Punctuation is stripped; at most four keywords survive.
	assert.Equal(t, "tell joke about programmers",
		Summarize("tell me a joke, about programmers... right now!"))
}

func TestSummarizeEmptyInput(t *testing.T) {
	assert.Equal(t, Untitled, Summarize(""))
	assert.Equal(t, Untitled, Summarize("   "))
	assert.Equal(t, Untitled, Summarize("\n\t "))
}

func TestSummarizeStopWordsOnly(t *testing.T) {
	assert.Equal(t, Untitled, Summarize("the a an of"))
	assert.Equal(t, Untitled, Summarize("Can you do the, and my?"))
}

func TestSummarizeIsDeterministic(t *testing.T) {
	for i := 0; i < 3; i++ {
		assert.Equal(t, "Sum of 1 and 2", Summarize("1+2"))
	}
}
