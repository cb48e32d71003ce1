// Package tfidf implements a TF-IDF vectorizer over tag lists. Unlike a
// free-text vectorizer there is no tokenizer: documents already carry their
// tags, so the model only builds a vocabulary and IDF weights.
package tfidf

import (
	"errors"
	"math"
	"sort"

	"semsi/internal/domain"
)

// ErrNoDocuments is returned when Fit is given an empty document collection.
var ErrNoDocuments = errors.New("tfidf: no documents to fit")

// ErrNotFitted is returned when Transform is called before Fit.
var ErrNotFitted = errors.New("tfidf: model must be fitted before transform")

// Model fits a vocabulary and IDF table over a document set and transforms
// documents into dense vectors. A model transitions from unfitted to fitted
// exactly once.
type Model struct {
	vocabulary map[string]int
	idf        []float64
	fitted     bool
}

// NewModel creates an unfitted TF-IDF model.
func NewModel() *Model {
	return &Model{vocabulary: make(map[string]int)}
}

// Dimension returns the vocabulary size fixed at fit time.
func (m *Model) Dimension() int { return len(m.idf) }

// Fitted reports whether Fit has run.
func (m *Model) Fitted() bool { return m.fitted }

// Terms returns the vocabulary in index order.
func (m *Model) Terms() []string {
	terms := make([]string, len(m.idf))
	for tag, i := range m.vocabulary {
		terms[i] = tag
	}
	return terms
}

// Fit builds the vocabulary and IDF values from the documents. Tag
// multiplicity within a document is ignored here: document frequency counts
// documents, not occurrences.
func (m *Model) Fit(documents []domain.TaggedDocument) error {
	if len(documents) == 0 {
		return ErrNoDocuments
	}
	df := make(map[string]int)
	for _, doc := range documents {
		seen := make(map[string]struct{}, len(doc.Tags))
		for _, tag := range doc.Tags {
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			df[tag]++
		}
	}
	// Stable ordering so two fits over the same corpus agree exactly.
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	m.vocabulary = make(map[string]int, len(terms))
	m.idf = make([]float64, len(terms))
	n := float64(len(documents))
	for i, term := range terms {
		m.vocabulary[term] = i
		// Smoothed IDF: stays positive even for tags present in every document.
		m.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}
	m.fitted = true
	return nil
}

// Transform maps documents into TF-IDF vectors using the fitted vocabulary.
// Tags unseen during fit are ignored; a document with no known tags yields an
// all-zero vector. The input need not be the fit set.
func (m *Model) Transform(documents []domain.TaggedDocument) ([][]float64, error) {
	if !m.fitted {
		return nil, ErrNotFitted
	}
	vectors := make([][]float64, len(documents))
	for i, doc := range documents {
		vec := make([]float64, len(m.idf))
		counts := make(map[string]int, len(doc.Tags))
		for _, tag := range doc.Tags {
			counts[tag]++
		}
		total := len(doc.Tags)
		if total == 0 {
			total = 1
		}
		for tag, count := range counts {
			idx, ok := m.vocabulary[tag]
			if !ok {
				continue
			}
			tf := float64(count) / float64(total)
			vec[idx] = tf * m.idf[idx]
		}
		vectors[i] = vec
	}
	return vectors, nil
}

// FitTransform fits the model on the documents and transforms them in one
// call.
func (m *Model) FitTransform(documents []domain.TaggedDocument) ([][]float64, error) {
	if err := m.Fit(documents); err != nil {
		return nil, err
	}
	return m.Transform(documents)
}

// IDF returns the inverse-document-frequency weight for a vocabulary index.
func (m *Model) IDF(index int) float64 { return m.idf[index] }

// Index returns the vector dimension assigned to a tag at fit time.
func (m *Model) Index(tag string) (int, bool) {
	i, ok := m.vocabulary[tag]
	return i, ok
}
