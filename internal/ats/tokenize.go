// Package ats scores how well a resume matches a job description using
// TF-IDF weighted term vectors over stemmed words.
package ats

import (
	"strings"
	"unicode"

	porterstemmer "github.com/reiver/go-porterstemmer"
)

// Tokenize lower-cases text and splits it into word tokens. Any run of
// characters that is not a letter, digit or underscore separates tokens.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
	return fields
}

// Stem applies the Porter stemmer to each token.
func Stem(tokens []string) []string {
	stems := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if tok == "" {
			continue
		}
		stems = append(stems, stemWord(tok))
	}
	return stems
}

// stemWord stems a single token. porterstemmer indexes out of range on a
// few short inputs such as "eed"; those tokens are kept unstemmed.
func stemWord(tok string) (stem string) {
	defer func() {
		if recover() != nil {
			stem = tok
		}
	}()
	return porterstemmer.StemString(tok)
}

// Analyze runs the full text pipeline: tokenize, map aliases to their
// canonical form, optionally drop stop words, then stem.
func Analyze(text string, removeStopWords bool) []string {
	tokens := canonicalize(Tokenize(text))
	if removeStopWords {
		tokens = RemoveStopWords(tokens)
	}
	return Stem(tokens)
}

// RemoveStopWords drops common English function words.
func RemoveStopWords(tokens []string) []string {
	kept := tokens[:0:0]
	for _, tok := range tokens {
		if _, stop := stopWords[tok]; stop {
			continue
		}
		kept = append(kept, tok)
	}
	return kept
}

// IsStopWord reports whether the lower-cased token is a stop word.
func IsStopWord(token string) bool {
	_, ok := stopWords[strings.ToLower(token)]
	return ok
}
