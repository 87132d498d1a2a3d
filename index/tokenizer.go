package index

import (
	"strings"
	"unicode"
)

// Stemmer reduces a normalized token to its stem. It is a pluggable
// extension point; the engine ships no implementation of its own.
type Stemmer interface {
	Stem(token string) string
}

// Tokenizer normalizes free text into the term sequence the index and the
// query engine share. It is pure: the same input always yields the same
// output, which is what lets removal recover the exact term set that was
// indexed for an item.
type Tokenizer struct {
	minWordLength   int
	removeStopwords bool
	stemmer         Stemmer // nil when stemming is disabled
}

// NewTokenizer creates a Tokenizer from the config. The stemmer is only
// consulted when cfg.EnableStemming is set.
func NewTokenizer(cfg *Config, stemmer Stemmer) *Tokenizer {
	t := &Tokenizer{
		minWordLength:   cfg.MinWordLength,
		removeStopwords: cfg.RemoveStopwords,
	}
	if cfg.EnableStemming {
		t.stemmer = stemmer
	}
	return t
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// Tokenize lowercases the text, splits on runs of non-word characters,
// and drops tokens that are too short or are stopwords. Duplicates are
// kept and scan order is preserved.
func (t *Tokenizer) Tokenize(text string) []string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !isWordRune(r)
	})

	tokens := make([]string, 0, len(words))
	for _, word := range words {
		if len(word) < t.minWordLength {
			continue
		}
		if t.removeStopwords && IsStopword(word) {
			continue
		}
		if t.stemmer != nil {
			word = t.stemmer.Stem(word)
		}
		tokens = append(tokens, word)
	}

	return tokens
}

// TermSet returns the distinct terms of the text in first-seen scan order,
// truncated to max distinct terms. A max of zero or less means unlimited.
// Scan order matters: it decides which terms survive the truncation, and
// indexing and removal both rely on getting the same answer.
func (t *Tokenizer) TermSet(text string, max int) []string {
	tokens := t.Tokenize(text)
	seen := make(map[string]bool, len(tokens))
	terms := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if seen[token] {
			continue
		}
		seen[token] = true
		terms = append(terms, token)
		if max > 0 && len(terms) == max {
			break
		}
	}
	return terms
}
