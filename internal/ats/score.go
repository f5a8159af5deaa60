package ats

import (
	"fmt"
	"math"
	"sort"
	"unicode"
)

// DefaultMaxKeywords caps how many job keywords are reported.
const DefaultMaxKeywords = 25

// Options tunes scoring.
type Options struct {
	RemoveStopWords bool
	MaxKeywords     int
}

// DefaultOptions returns the options used by the HTTP API and the CLI.
func DefaultOptions() Options {
	return Options{
		RemoveStopWords: true,
		MaxKeywords:     DefaultMaxKeywords,
	}
}

// Result is the outcome of scoring a resume against a job description.
type Result struct {
	Score           int      `json:"score"`
	Similarity      float64  `json:"similarity"`
	MatchedKeywords []string `json:"matchedKeywords"`
	MissingKeywords []string `json:"missingKeywords"`
	ResumeTerms     int      `json:"resumeTerms"`
	JobTerms        int      `json:"jobTerms"`
}

// Score compares resume text with a job description. The score is the
// cosine similarity of the two TF-IDF vectors as a whole percentage.
func Score(resumeText, jobText string, opts Options) (*Result, error) {
	if opts.MaxKeywords <= 0 {
		opts.MaxKeywords = DefaultMaxKeywords
	}

	resumeTerms := Analyze(resumeText, opts.RemoveStopWords)
	if len(resumeTerms) == 0 {
		return nil, fmt.Errorf("resume: %w", ErrEmptyDocument)
	}
	jobTerms := Analyze(jobText, opts.RemoveStopWords)
	if len(jobTerms) == 0 {
		return nil, fmt.Errorf("job description: %w", ErrEmptyDocument)
	}

	corpus := NewCorpus()
	resumeDoc := corpus.AddDocument(resumeTerms)
	jobDoc := corpus.AddDocument(jobTerms)

	similarity := corpus.Cosine(resumeDoc, jobDoc)
	score := int(math.Round(math.Min(math.Max(similarity*100, 0), 100)))

	matched, missing := keywordCoverage(corpus, resumeDoc, jobText, opts.MaxKeywords)

	return &Result{
		Score:           score,
		Similarity:      similarity,
		MatchedKeywords: matched,
		MissingKeywords: missing,
		ResumeTerms:     len(resumeTerms),
		JobTerms:        len(jobTerms),
	}, nil
}

type keyword struct {
	stem    string
	surface string
	count   int
	first   int
}

// Keywords returns the most frequent content words of text, reported in
// the first surface form they appear in.
func Keywords(text string, limit int) []string {
	kws := rankKeywords(text)
	if limit > 0 && len(kws) > limit {
		kws = kws[:limit]
	}
	out := make([]string, len(kws))
	for i, kw := range kws {
		out[i] = kw.surface
	}
	return out
}

func keywordCoverage(corpus *Corpus, resumeDoc int, jobText string, limit int) (matched, missing []string) {
	matched, missing = []string{}, []string{}
	kws := rankKeywords(jobText)
	if len(kws) > limit {
		kws = kws[:limit]
	}
	for _, kw := range kws {
		if corpus.TermFrequency(resumeDoc, kw.stem) > 0 {
			matched = append(matched, kw.surface)
		} else {
			missing = append(missing, kw.surface)
		}
	}
	return matched, missing
}

func rankKeywords(text string) []keyword {
	byStem := make(map[string]*keyword)
	var order []*keyword
	for i, tok := range Tokenize(text) {
		if !isKeywordCandidate(tok) {
			continue
		}
		stem := stemWord(Canonical(tok))
		if kw, ok := byStem[stem]; ok {
			kw.count++
			continue
		}
		kw := &keyword{stem: stem, surface: tok, count: 1, first: i}
		byStem[stem] = kw
		order = append(order, kw)
	}

	sort.SliceStable(order, func(a, b int) bool {
		if order[a].count != order[b].count {
			return order[a].count > order[b].count
		}
		return order[a].first < order[b].first
	})

	out := make([]keyword, len(order))
	for i, kw := range order {
		out[i] = *kw
	}
	return out
}

func isKeywordCandidate(tok string) bool {
	if len([]rune(tok)) < 2 || IsStopWord(tok) {
		return false
	}
	for _, r := range tok {
		if !unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
