package faq

import (
	"math"
	"regexp"
	"sort"
)

// termPattern selects the tokens that become vocabulary terms: runs of two or
// more word characters. Single-character tokens never carry weight.
var termPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// sparseVector is an L2-normalized TF-IDF row. Indices are strictly increasing.
type sparseVector struct {
	indices []int
	weights []float64
	norm    float64
}

func (v sparseVector) isZero() bool {
	return len(v.indices) == 0 || v.norm == 0
}

// vectorizer is a TF-IDF model frozen at fit time.
type vectorizer struct {
	vocabulary map[string]int
	idf        []float64
}

// fitVectorizer learns the vocabulary and smoothed IDF weights from docs and
// returns the model together with the vector of every doc, index-aligned.
func fitVectorizer(docs []string) (*vectorizer, []sparseVector, error) {
	docFreq := make(map[string]int)
	tokenized := make([][]string, len(docs))
	for i, doc := range docs {
		terms := termPattern.FindAllString(doc, -1)
		tokenized[i] = terms
		seen := make(map[string]struct{}, len(terms))
		for _, term := range terms {
			if _, ok := seen[term]; ok {
				continue
			}
			seen[term] = struct{}{}
			docFreq[term]++
		}
	}
	if len(docFreq) == 0 {
		return nil, nil, ErrEmptyVocabulary
	}

	terms := make([]string, 0, len(docFreq))
	for term := range docFreq {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	n := float64(len(docs))
	v := &vectorizer{
		vocabulary: make(map[string]int, len(terms)),
		idf:        make([]float64, len(terms)),
	}
	for i, term := range terms {
		v.vocabulary[term] = i
		v.idf[i] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}

	rows := make([]sparseVector, len(docs))
	for i, terms := range tokenized {
		rows[i] = v.weigh(terms)
	}
	return v, rows, nil
}

// transform projects text into the fitted space. Unknown terms are dropped.
func (v *vectorizer) transform(doc string) sparseVector {
	return v.weigh(termPattern.FindAllString(doc, -1))
}

func (v *vectorizer) size() int {
	return len(v.idf)
}

func (v *vectorizer) weigh(terms []string) sparseVector {
	counts := make(map[int]float64, len(terms))
	for _, term := range terms {
		if idx, ok := v.vocabulary[term]; ok {
			counts[idx]++
		}
	}
	if len(counts) == 0 {
		return sparseVector{}
	}

	indices := make([]int, 0, len(counts))
	for idx := range counts {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	weights := make([]float64, len(indices))
	var sumSquares float64
	for i, idx := range indices {
		w := counts[idx] * v.idf[idx]
		weights[i] = w
		sumSquares += w * w
	}
	norm := math.Sqrt(sumSquares)
	for i := range weights {
		weights[i] /= norm
	}
	return sparseVector{indices: indices, weights: weights, norm: 1}
}

// cosine returns the cosine similarity of a and b, or 0 when either is zero.
func cosine(a, b sparseVector) float64 {
	if a.isZero() || b.isZero() {
		return 0
	}
	var dot float64
	i, j := 0, 0
	for i < len(a.indices) && j < len(b.indices) {
		switch {
		case a.indices[i] == b.indices[j]:
			dot += a.weights[i] * b.weights[j]
			i++
			j++
		case a.indices[i] < b.indices[j]:
			i++
		default:
			j++
		}
	}
	return dot / (a.norm * b.norm)
}
