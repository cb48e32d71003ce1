// Package service wires the parsing and embedding pipeline together: raw
// lines become tagged documents, documents become TF-IDF vectors, vectors
// become a labeled similarity matrix.
package service

import (
	"errors"

	"semsi/internal/domain"
	"semsi/internal/embedding/tfidf"
	"semsi/internal/parser"
	"semsi/internal/similarity"
)

// ErrNoDocuments is returned when the contents input yields no parseable
// documents; callers treat it as a usage error.
var ErrNoDocuments = errors.New("service: no documents could be parsed from the contents input")

// Options controls a pipeline run.
type Options struct {
	KeepDuplicates bool
	// Decimals is the rounding precision for stored matrix values; negative
	// keeps full precision.
	Decimals int
}

// Result is the output of one full pipeline run.
type Result struct {
	Documents   []domain.TaggedDocument
	Diagnostics []parser.Diagnostic
	Model       *tfidf.Model
	Matrix      *similarity.Matrix
}

// BuildFromLines runs the full pipeline over raw contents lines.
func BuildFromLines(lines []string, opts Options) (*Result, error) {
	docs, diags := parser.ParseLines(lines, parser.Options{KeepDuplicates: opts.KeepDuplicates})
	return build(docs, diags, opts)
}

// BuildFromFile runs the full pipeline over a contents file on disk.
func BuildFromFile(path string, opts Options) (*Result, error) {
	docs, diags, err := parser.ParseFile(path, parser.Options{KeepDuplicates: opts.KeepDuplicates})
	if err != nil {
		return nil, err
	}
	return build(docs, diags, opts)
}

func build(docs []domain.TaggedDocument, diags []parser.Diagnostic, opts Options) (*Result, error) {
	if len(docs) == 0 {
		return nil, ErrNoDocuments
	}
	model := tfidf.NewModel()
	embeddings, err := model.FitTransform(docs)
	if err != nil {
		return nil, err
	}
	matrix, err := similarity.Build(docs, embeddings, opts.Decimals)
	if err != nil {
		return nil, err
	}
	return &Result{Documents: docs, Diagnostics: diags, Model: model, Matrix: matrix}, nil
}
