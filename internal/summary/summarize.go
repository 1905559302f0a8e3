// Package summary derives short display titles from the first user message
// of a session. It is a fixed, ordered list of rules evaluated top to
// bottom; the first match wins.
package summary

import (
	"regexp"
	"strings"
)

// Untitled is returned for input that yields no usable title.
const Untitled = "Untitled"

// maxTitleLen caps phrase-based titles.
const maxTitleLen = 48

// maxKeywords caps the keyword fallback.
const maxKeywords = 4

// opRule recognizes a two-operand arithmetic expression, in symbol or word
// form, and renders the canonical phrase for it.
type opRule struct {
	re     *regexp.Regexp
	phrase func(a, b string) string
}

var opRules = []opRule{
	{regexp.MustCompile(`(\d+)\s*\+\s*(\d+)`), func(a, b string) string { return "Sum of " + a + " and " + b }},
	{regexp.MustCompile(`(\d+)\s*-\s*(\d+)`), func(a, b string) string { return "Difference " + a + "–" + b }},
	{regexp.MustCompile(`(\d+)\s*[×x*]\s*(\d+)`), func(a, b string) string { return "Product " + a + "×" + b }},
	{regexp.MustCompile(`(\d+)\s*[/÷]\s*(\d+)`), func(a, b string) string { return "Quotient " + a + "÷" + b }},
	{regexp.MustCompile(`(\d+)\s*plus\s*(\d+)`), func(a, b string) string { return "Sum of " + a + " and " + b }},
	{regexp.MustCompile(`(\d+)\s*minus\s*(\d+)`), func(a, b string) string { return "Difference " + a + "–" + b }},
	{regexp.MustCompile(`(\d+)\s*(?:times|multiplied by)\s*(\d+)`), func(a, b string) string { return "Product " + a + "×" + b }},
	{regexp.MustCompile(`(\d+)\s*divided by\s*(\d+)`), func(a, b string) string { return "Quotient " + a + "÷" + b }},
}

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	whatIsRe     = regexp.MustCompile(`(?i)^what('?| i)s\s+`)
	howToRe      = regexp.MustCompile(`(?i)^how to\b`)
	explainRe    = regexp.MustCompile(`(?i)^explain\b`)
	summarizeRe  = regexp.MustCompile(`(?i)^summarize\b`)

	// Keyword fallback strips punctuation but keeps arithmetic symbols.
	punctRe = regexp.MustCompile(`[^\w\s+\-/×÷]`)
)

var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "of": {}, "to": {},
	"in": {}, "on": {}, "for": {}, "with": {}, "is": {}, "are": {}, "be": {},
	"do": {}, "does": {}, "what": {}, "whats": {}, "how": {}, "why": {},
	"can": {}, "i": {}, "you": {}, "me": {}, "my": {}, "your": {},
}

// Summarize maps a first user message to a short display title. It is pure
// and deterministic; empty or stop-word-only input yields Untitled.
func Summarize(text string) string {
	cleaned := strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
	if cleaned == "" {
		return Untitled
	}

	lc := strings.ToLower(cleaned)

	for _, rule := range opRules {
		if m := rule.re.FindStringSubmatch(lc); m != nil {
			return rule.phrase(m[1], m[2])
		}
	}

	switch {
	case whatIsRe.MatchString(lc):
		t := whatIsRe.ReplaceAllString(cleaned, "What is ")
		return truncate(cutBefore(t, "?"), maxTitleLen)
	case howToRe.MatchString(lc):
		t := howToRe.ReplaceAllString(cleaned, "How to")
		return truncate(cutBefore(t, "?."), maxTitleLen)
	case explainRe.MatchString(lc):
		t := cutBefore(cleaned, "?.")
		return truncate(explainRe.ReplaceAllString(t, "Explain"), maxTitleLen)
	case summarizeRe.MatchString(lc):
		return "Summary request"
	}

	var kept []string
	for _, w := range strings.Fields(punctRe.ReplaceAllString(cleaned, "")) {
		if _, stop := stopWords[strings.ToLower(w)]; stop {
			continue
		}
		kept = append(kept, w)
		if len(kept) == maxKeywords {
			break
		}
	}
	if len(kept) == 0 {
		return Untitled
	}
	return strings.Join(kept, " ")
}

// cutBefore returns s up to the first occurrence of any rune in cutset.
func cutBefore(s, cutset string) string {
	if i := strings.IndexAny(s, cutset); i >= 0 {
		return s[:i]
	}
	return s
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
