// Package index builds in-memory vector indices over the editorial and
// recipe corpora. Indices are constructed once at startup and are read-only
// afterwards, so searches need no locking.
package index

import (
	"errors"
	"math"
	"sort"
	"strings"
)

// ErrEmptyCorpus is returned when a vectorizer is fit on no usable documents.
var ErrEmptyCorpus = errors.New("index: empty corpus")

// VectorizerConfig bounds the vocabulary of a TF-IDF vectorizer.
type VectorizerConfig struct {
	// MaxFeatures caps the vocabulary at the N terms with the highest total
	// corpus frequency. Zero means unbounded.
	MaxFeatures int
	// MinDF drops terms appearing in fewer than MinDF documents.
	MinDF int
	// MaxDFRatio drops terms appearing in more than this fraction of
	// documents. Zero means no ceiling.
	MaxDFRatio float64
	// SublinearTF replaces raw term counts with 1 + ln(count).
	SublinearTF bool
}

// Validate checks the configuration bounds.
func (c VectorizerConfig) Validate() error {
	if c.MaxFeatures < 0 {
		return errors.New("index: max features must be non-negative")
	}
	if c.MinDF < 0 {
		return errors.New("index: min df must be non-negative")
	}
	if c.MaxDFRatio < 0 || c.MaxDFRatio > 1 {
		return errors.New("index: max df ratio must be within [0, 1]")
	}
	return nil
}

// Vector is a sparse L2-normalized term-weight vector keyed by vocabulary id.
type Vector map[int]float64

// Vectorizer converts normalized text into TF-IDF vectors. Fit it on a
// corpus once; Transform then projects any text into the fitted vocabulary.
type Vectorizer struct {
	cfg   VectorizerConfig
	vocab map[string]int
	idf   []float64
}

// NewVectorizer returns an unfitted vectorizer.
func NewVectorizer(cfg VectorizerConfig) *Vectorizer {
	return &Vectorizer{cfg: cfg}
}

// tokenize splits normalized text into unigrams and bigrams.
func tokenize(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	terms := make([]string, 0, 2*len(words))
	terms = append(terms, words...)
	for i := 0; i+1 < len(words); i++ {
		terms = append(terms, words[i]+" "+words[i+1])
	}
	return terms
}

// Fit builds the vocabulary and IDF table from the corpus, then returns the
// corpus projected into that vocabulary. Documents are expected to be
// normalized already.
func (v *Vectorizer) Fit(docs []string) ([]Vector, error) {
	if len(docs) == 0 {
		return nil, ErrEmptyCorpus
	}

	n := len(docs)
	docTerms := make([][]string, n)
	df := make(map[string]int)
	corpusFreq := make(map[string]int)

	for i, doc := range docs {
		terms := tokenize(doc)
		docTerms[i] = terms
		seen := make(map[string]struct{}, len(terms))
		for _, term := range terms {
			corpusFreq[term]++
			if _, ok := seen[term]; ok {
				continue
			}
			seen[term] = struct{}{}
			df[term]++
		}
	}

	candidates := make([]string, 0, len(df))
	for term, count := range df {
		if v.cfg.MinDF > 0 && count < v.cfg.MinDF {
			continue
		}
		if v.cfg.MaxDFRatio > 0 && float64(count) > v.cfg.MaxDFRatio*float64(n) {
			continue
		}
		candidates = append(candidates, term)
	}
	if len(candidates) == 0 {
		return nil, ErrEmptyCorpus
	}

	// Highest corpus frequency first; ties break alphabetically so the
	// vocabulary is deterministic.
	sort.Slice(candidates, func(i, j int) bool {
		fi, fj := corpusFreq[candidates[i]], corpusFreq[candidates[j]]
		if fi != fj {
			return fi > fj
		}
		return candidates[i] < candidates[j]
	})
	if v.cfg.MaxFeatures > 0 && len(candidates) > v.cfg.MaxFeatures {
		candidates = candidates[:v.cfg.MaxFeatures]
	}

	v.vocab = make(map[string]int, len(candidates))
	v.idf = make([]float64, len(candidates))
	for id, term := range candidates {
		v.vocab[term] = id
		v.idf[id] = math.Log(float64(1+n)/float64(1+df[term])) + 1
	}

	vectors := make([]Vector, n)
	for i, terms := range docTerms {
		vectors[i] = v.vectorize(terms)
	}
	return vectors, nil
}

// Transform projects normalized text into the fitted vocabulary. Terms
// outside the vocabulary are ignored; the result may be empty.
func (v *Vectorizer) Transform(text string) Vector {
	if v.vocab == nil {
		return nil
	}
	return v.vectorize(tokenize(text))
}

func (v *Vectorizer) vectorize(terms []string) Vector {
	counts := make(map[int]float64)
	for _, term := range terms {
		if id, ok := v.vocab[term]; ok {
			counts[id]++
		}
	}
	if len(counts) == 0 {
		return Vector{}
	}

	vec := make(Vector, len(counts))
	var sumSquares float64
	for id, count := range counts {
		tf := count
		if v.cfg.SublinearTF {
			tf = 1 + math.Log(count)
		}
		w := tf * v.idf[id]
		vec[id] = w
		sumSquares += w * w
	}

	norm := math.Sqrt(sumSquares)
	if norm > 0 {
		for id := range vec {
			vec[id] /= norm
		}
	}
	return vec
}

// VocabularySize reports the fitted vocabulary size, 0 before Fit.
func (v *Vectorizer) VocabularySize() int {
	return len(v.vocab)
}

// CosineSimilarity computes the dot product of two L2-normalized sparse
// vectors. Iterates over the smaller one.
func CosineSimilarity(a, b Vector) float64 {
	if len(a) > len(b) {
		a, b = b, a
	}
	var dot float64
	for id, w := range a {
		if bw, ok := b[id]; ok {
			dot += w * bw
		}
	}
	return dot
}
