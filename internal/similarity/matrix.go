// Package similarity builds and queries labeled pairwise cosine-similarity
// matrices over document embedding vectors.
package similarity

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"semsi/internal/domain"
)

// ErrNoDocuments is returned when Build is given an empty document collection.
var ErrNoDocuments = errors.New("similarity: no documents to build matrix")

// ErrLengthMismatch is returned when documents and embeddings differ in length.
var ErrLengthMismatch = errors.New("similarity: documents and embeddings length mismatch")

// ErrUnknownTarget is returned when a queried label is not in the matrix.
var ErrUnknownTarget = errors.New("similarity: target not present in matrix")

// Matrix is a square pairwise similarity matrix. Labels keeps the input
// document order and may contain duplicates when the caller kept them;
// Values[i][j] is the similarity of document i to document j.
type Matrix struct {
	Labels []string
	Values [][]float64
}

// Build computes the full cosine-similarity matrix for the documents, paired
// positionally with their embedding vectors. When decimals >= 0 every stored
// value is rounded to that many digits; a negative value keeps full
// precision.
func Build(documents []domain.TaggedDocument, embeddings [][]float64, decimals int) (*Matrix, error) {
	if len(documents) == 0 {
		return nil, ErrNoDocuments
	}
	if len(documents) != len(embeddings) {
		return nil, fmt.Errorf("%w: %d documents, %d embeddings", ErrLengthMismatch, len(documents), len(embeddings))
	}

	labels := make([]string, len(documents))
	for i, doc := range documents {
		labels[i] = doc.Identifier
	}

	values := make([][]float64, len(embeddings))
	for i, a := range embeddings {
		row := make([]float64, len(embeddings))
		for j, b := range embeddings {
			s := cosine(a, b)
			if decimals >= 0 {
				s = round(s, decimals)
			}
			row[j] = s
		}
		values[i] = row
	}
	return &Matrix{Labels: labels, Values: values}, nil
}

// Row returns the similarity scores of the target against every label, in
// label order.
func (m *Matrix) Row(target string) ([]domain.Score, error) {
	idx := -1
	for i, label := range m.Labels {
		if label == target {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTarget, target)
	}
	scores := make([]domain.Score, len(m.Labels))
	for i, label := range m.Labels {
		scores[i] = domain.Score{Label: label, Value: m.Values[idx][i]}
	}
	return scores, nil
}

// TopSimilar returns up to topN labels most similar to the target, sorted by
// descending score. The self pair is excluded unless includeSelf is set. Ties
// keep their original label order (stable sort).
func TopSimilar(m *Matrix, target string, topN int, includeSelf bool) ([]domain.Score, error) {
	scores, err := m.Row(target)
	if err != nil {
		return nil, err
	}
	if !includeSelf {
		kept := scores[:0]
		for _, s := range scores {
			if s.Label != target {
				kept = append(kept, s)
			}
		}
		scores = kept
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].Value > scores[j].Value })
	if topN >= 0 && topN < len(scores) {
		scores = scores[:topN]
	}
	return scores, nil
}

// cosine computes cosine similarity, defined as exactly 0 when either vector
// has zero norm.
func cosine(a, b []float64) float64 {
	var dot, na2, nb2 float64
	for i := range a {
		dot += a[i] * b[i]
		na2 += a[i] * a[i]
		nb2 += b[i] * b[i]
	}
	if na2 == 0 || nb2 == 0 {
		return 0.0
	}
	return dot / (math.Sqrt(na2) * math.Sqrt(nb2))
}

func round(v float64, decimals int) float64 {
	p := math.Pow10(decimals)
	return math.Round(v*p) / p
}
