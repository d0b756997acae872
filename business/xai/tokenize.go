package xai

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var tokenRe = regexp.MustCompile(`[가-힣A-Za-z0-9]{2,}`)

// Tokenize lowercases the text, extracts runs of two or more Hangul, Latin
// or digit characters, drops digit-bearing tokens and stopwords, and
// canonicalizes the rest.
func Tokenize(text string) []string {
	raw := tokenRe.FindAllString(strings.ToLower(text), -1)
	out := make([]string, 0, len(raw))
	for _, t := range raw {
		if hasDigit(t) || stopwords.has(t) {
			continue
		}
		out = append(out, canonicalize(t))
	}
	return out
}

func canonicalize(tok string) string {
	if c, ok := directCanon[tok]; ok {
		return c
	}
	for _, p := range stemPrefixes {
		if strings.HasPrefix(tok, p) {
			return p
		}
	}
	return tok
}

func hasDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// isVerbLike flags stray predicate forms such as "발라봤어요" so they are not
// picked as keywords. Known vocabulary is never verb-like.
func isVerbLike(tok string) bool {
	if closedWords.has(tok) {
		return false
	}
	if utf8.RuneCountInString(tok) < 3 {
		return false
	}
	return strings.HasSuffix(tok, "요") || strings.HasSuffix(tok, "다")
}

// TokenFrequency counts normalized tokens of one product's review text.
type TokenFrequency map[string]int

func CountTokens(text string) TokenFrequency {
	freq := TokenFrequency{}
	for _, t := range Tokenize(text) {
		freq[t]++
	}
	return freq
}
