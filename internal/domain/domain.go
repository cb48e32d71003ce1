// Package domain holds the value types shared across the parsing and
// similarity pipeline.
package domain

// TaggedDocument is a single parsed entry from a contents file. Identifier is
// the label used in similarity matrices; Tags keep their parse order and may
// repeat (repeats count toward term frequency). Source holds the trimmed raw
// line for diagnostics.
type TaggedDocument struct {
	Identifier string
	Tags       []string
	Source     string
}

// Score pairs a document label with a similarity value.
type Score struct {
	Label string
	Value float64
}
