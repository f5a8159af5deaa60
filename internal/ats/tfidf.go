package ats

import "math"

// Corpus holds a small set of analyzed documents and computes TF-IDF
// weights over them.
type Corpus struct {
	docs []map[string]int
	df   map[string]int
}

// NewCorpus creates an empty corpus.
func NewCorpus() *Corpus {
	return &Corpus{df: make(map[string]int)}
}

// AddDocument adds a document given as analyzed terms and returns its index.
func (c *Corpus) AddDocument(terms []string) int {
	tf := make(map[string]int, len(terms))
	for _, t := range terms {
		tf[t]++
	}
	for t := range tf {
		c.df[t]++
	}
	c.docs = append(c.docs, tf)
	return len(c.docs) - 1
}

// Len returns the number of documents in the corpus.
func (c *Corpus) Len() int {
	return len(c.docs)
}

// TermFrequency returns the raw count of term in document i.
func (c *Corpus) TermFrequency(i int, term string) int {
	if i < 0 || i >= len(c.docs) {
		return 0
	}
	return c.docs[i][term]
}

// IDF returns 1 + ln(N / (1 + df)). A term that appears in every document
// of a two-document corpus still keeps a positive weight.
func (c *Corpus) IDF(term string) float64 {
	return 1 + math.Log(float64(len(c.docs))/float64(1+c.df[term]))
}

// Vector returns the TF-IDF vector for document i.
func (c *Corpus) Vector(i int) map[string]float64 {
	if i < 0 || i >= len(c.docs) {
		return nil
	}
	vec := make(map[string]float64, len(c.docs[i]))
	for t, n := range c.docs[i] {
		vec[t] = float64(n) * c.IDF(t)
	}
	return vec
}

// Cosine returns the cosine similarity of the TF-IDF vectors of
// documents i and j, in [0, 1].
func (c *Corpus) Cosine(i, j int) float64 {
	a, b := c.Vector(i), c.Vector(j)
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for t, wa := range a {
		normA += wa * wa
		if wb, ok := b[t]; ok {
			dot += wa * wb
		}
	}
	for _, wb := range b {
		normB += wb * wb
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	return math.Min(math.Max(sim, 0), 1)
}
