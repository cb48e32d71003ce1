package tfidf

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"semsi/internal/domain"
)

func sampleDocs() []domain.TaggedDocument {
	return []domain.TaggedDocument{
		{Identifier: "doc1.txt", Tags: []string{"crowd", "city"}},
		{Identifier: "doc2.txt", Tags: []string{"city", "street"}},
		{Identifier: "doc3.txt", Tags: []string{"river", "nature"}},
	}
}

func TestFitRejectsEmptyInput(t *testing.T) {
	err := NewModel().Fit(nil)
	if !errors.Is(err, ErrNoDocuments) {
		t.Fatalf("expected ErrNoDocuments, got %v", err)
	}
}

func TestTransformBeforeFitFails(t *testing.T) {
	_, err := NewModel().Transform(sampleDocs())
	if !errors.Is(err, ErrNotFitted) {
		t.Fatalf("expected ErrNotFitted, got %v", err)
	}
}

func TestFitBuildsSortedVocabularyAndSmoothedIDF(t *testing.T) {
	m := NewModel()
	if err := m.Fit(sampleDocs()); err != nil {
		t.Fatalf("fit: %v", err)
	}
	want := []string{"city", "crowd", "nature", "river", "street"}
	if got := m.Terms(); !reflect.DeepEqual(got, want) {
		t.Fatalf("terms: got %v, want %v", got, want)
	}
	if m.Dimension() != 5 {
		t.Errorf("dimension: got %d, want 5", m.Dimension())
	}

	// city appears in 2 of 3 documents: ln(4/3) + 1.
	idx, ok := m.Index("city")
	if !ok {
		t.Fatal("city missing from vocabulary")
	}
	want2of3 := math.Log(4.0/3.0) + 1.0
	if got := m.IDF(idx); math.Abs(got-want2of3) > 1e-12 {
		t.Errorf("idf(city): got %v, want %v", got, want2of3)
	}

	// river appears in 1 of 3 documents: ln(4/2) + 1.
	idx, _ = m.Index("river")
	want1of3 := math.Log(2.0) + 1.0
	if got := m.IDF(idx); math.Abs(got-want1of3) > 1e-12 {
		t.Errorf("idf(river): got %v, want %v", got, want1of3)
	}
}

func TestFitIsDeterministic(t *testing.T) {
	docs := sampleDocs()
	shuffled := []domain.TaggedDocument{docs[2], docs[0], docs[1]}

	a := NewModel()
	b := NewModel()
	if err := a.Fit(docs); err != nil {
		t.Fatalf("fit a: %v", err)
	}
	if err := b.Fit(shuffled); err != nil {
		t.Fatalf("fit b: %v", err)
	}
	if !reflect.DeepEqual(a.Terms(), b.Terms()) {
		t.Errorf("vocabularies differ: %v vs %v", a.Terms(), b.Terms())
	}
	for i := range a.Terms() {
		if a.IDF(i) != b.IDF(i) {
			t.Errorf("idf[%d] differs: %v vs %v", i, a.IDF(i), b.IDF(i))
		}
	}
}

func TestTransform(t *testing.T) {
	docs := sampleDocs()
	m := NewModel()
	vectors, err := m.FitTransform(docs)
	if err != nil {
		t.Fatalf("fit transform: %v", err)
	}
	if len(vectors) != len(docs) {
		t.Fatalf("expected %d vectors, got %d", len(docs), len(vectors))
	}
	for i, vec := range vectors {
		if len(vec) != m.Dimension() {
			t.Errorf("vector %d has dimension %d, want %d", i, len(vec), m.Dimension())
		}
	}

	// doc1 = [crowd, city]: tf(city) = 1/2, weight = tf * idf.
	idx, _ := m.Index("city")
	want := 0.5 * m.IDF(idx)
	if got := vectors[0][idx]; math.Abs(got-want) > 1e-12 {
		t.Errorf("doc1 city weight: got %v, want %v", got, want)
	}

	t.Run("repeated tags raise term frequency", func(t *testing.T) {
		doubled := []domain.TaggedDocument{{Identifier: "d", Tags: []string{"city", "city", "crowd"}}}
		vecs, err := m.Transform(doubled)
		if err != nil {
			t.Fatalf("transform: %v", err)
		}
		want := (2.0 / 3.0) * m.IDF(idx)
		if got := vecs[0][idx]; math.Abs(got-want) > 1e-12 {
			t.Errorf("city weight: got %v, want %v", got, want)
		}
	})

	t.Run("out-of-vocabulary tags yield zero vector", func(t *testing.T) {
		unseen := []domain.TaggedDocument{{Identifier: "u", Tags: []string{"volcano", "lava"}}}
		vecs, err := m.Transform(unseen)
		if err != nil {
			t.Fatalf("transform must not fail on unseen tags: %v", err)
		}
		for i, v := range vecs[0] {
			if v != 0 {
				t.Errorf("expected zero vector, found %v at %d", v, i)
			}
		}
	})

	t.Run("zero-tag document yields zero vector", func(t *testing.T) {
		empty := []domain.TaggedDocument{{Identifier: "e"}}
		vecs, err := m.Transform(empty)
		if err != nil {
			t.Fatalf("transform: %v", err)
		}
		for _, v := range vecs[0] {
			if v != 0 || math.IsNaN(v) {
				t.Fatalf("expected clean zero vector, got %v", vecs[0])
			}
		}
	})
}
