package parser

import (
	"reflect"
	"strings"
	"testing"
)

func TestParseLinesHandlesMalformedEntries(t *testing.T) {
	lines := []string{
		"['first', 'second'].txt",
		"['first, 'second', 'third'].rtf",
		"[' lone '] .pdf",
		"no brackets here",
		"   ",
	}

	docs, diags := ParseLines(lines, Options{})

	if len(docs) != 3 {
		t.Fatalf("expected 3 documents, got %d", len(docs))
	}
	if docs[0].Identifier != "first_second.txt" {
		t.Errorf("expected identifier first_second.txt, got %s", docs[0].Identifier)
	}
	if !containsTag(docs[1].Tags, "third") {
		t.Errorf("expected tags of %s to contain 'third', got %v", docs[1].Identifier, docs[1].Tags)
	}
	if !containsTag(docs[2].Tags, "lone") {
		t.Errorf("expected tags of %s to contain 'lone', got %v", docs[2].Identifier, docs[2].Tags)
	}
	if docs[2].Identifier != "lone.pdf" {
		t.Errorf("expected suffix after closing bracket to apply, got %s", docs[2].Identifier)
	}

	// "no brackets here" is reported; the blank line is dropped silently.
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d: %v", len(diags), diags)
	}
	if diags[0].Reason != SkipNoBrackets {
		t.Errorf("expected no-brackets diagnostic, got %s", diags[0].Reason)
	}
	if diags[0].Line != 4 {
		t.Errorf("expected diagnostic for line 4, got %d", diags[0].Line)
	}
}

func TestParseLinesDuplicateHandling(t *testing.T) {
	lines := []string{"['a', 'b'].txt", "['a', 'b'].txt"}

	t.Run("drops duplicates by default", func(t *testing.T) {
		docs, diags := ParseLines(lines, Options{})
		if len(docs) != 1 {
			t.Fatalf("expected 1 document, got %d", len(docs))
		}
		if len(diags) != 1 || diags[0].Reason != SkipDuplicate {
			t.Fatalf("expected one duplicate diagnostic, got %v", diags)
		}
	})

	t.Run("keeps duplicates when requested", func(t *testing.T) {
		docs, diags := ParseLines(lines, Options{KeepDuplicates: true})
		if len(docs) != 2 {
			t.Fatalf("expected 2 documents, got %d", len(docs))
		}
		if len(diags) != 0 {
			t.Fatalf("expected no diagnostics, got %v", diags)
		}
		if docs[0].Identifier != docs[1].Identifier {
			t.Errorf("expected identical identifiers, got %s and %s", docs[0].Identifier, docs[1].Identifier)
		}
	})
}

func TestParseLinesIsIdempotent(t *testing.T) {
	lines := []string{
		"['crowd', 'city'].txt",
		"['city', 'street'].txt",
		"garbage",
		"['river', 'nature'].txt",
	}
	first, _ := ParseLines(lines, Options{})
	second, _ := ParseLines(lines, Options{})
	if !reflect.DeepEqual(first, second) {
		t.Errorf("re-parsing identical input produced different documents:\n%v\n%v", first, second)
	}
}

func TestParseLineNormalization(t *testing.T) {
	tests := []struct {
		name string
		line string
		id   string
		tags []string
	}{
		{
			name: "curly quotes and middle dot stripped",
			line: "[“city·”, ‘street’].txt",
			id:   "city_street.txt",
			tags: []string{"city", "street"},
		},
		{
			name: "internal whitespace collapsed",
			line: "['new   york', 'crowd'].jpg",
			id:   "new york_crowd.jpg",
			tags: []string{"new york", "crowd"},
		},
		{
			name: "backticks stripped",
			line: "[`beach`, `sand`].png",
			id:   "beach_sand.png",
			tags: []string{"beach", "sand"},
		},
		{
			name: "repeated tags kept in order",
			line: "['a', 'a', 'b'].txt",
			id:   "a_a_b.txt",
			tags: []string{"a", "a", "b"},
		},
		{
			name: "no suffix without trailing dot",
			line: "['tag', 'other'] notes",
			id:   "tag_other",
			tags: []string{"tag", "other"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ParseLine(tt.line)
			if res.Skipped {
				t.Fatalf("line unexpectedly skipped (%s)", res.Reason)
			}
			if res.Doc.Identifier != tt.id {
				t.Errorf("identifier: got %s, want %s", res.Doc.Identifier, tt.id)
			}
			if !reflect.DeepEqual(res.Doc.Tags, tt.tags) {
				t.Errorf("tags: got %v, want %v", res.Doc.Tags, tt.tags)
			}
			if res.Doc.Source != strings.TrimSpace(tt.line) {
				t.Errorf("source: got %q, want trimmed input", res.Doc.Source)
			}
		})
	}
}

func TestParseLineSkips(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		reason SkipReason
	}{
		{"blank line", "   \t ", SkipEmpty},
		{"no brackets", "just some text", SkipNoBrackets},
		{"unclosed bracket", "['a', 'b'", SkipNoBrackets},
		{"self listing", "contents.txt", SkipSelfListing},
		{"self listing case insensitive", "My CONTENTS.TXT", SkipSelfListing},
		{"only quotes inside brackets", "['', \"  \"].txt", SkipNoTags},
		{"empty brackets", "[].txt", SkipNoTags},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ParseLine(tt.line)
			if !res.Skipped {
				t.Fatalf("expected skip, got document %v", res.Doc)
			}
			if res.Reason != tt.reason {
				t.Errorf("reason: got %s, want %s", res.Reason, tt.reason)
			}
		})
	}
}

func TestParseReader(t *testing.T) {
	input := "['a', 'b'].txt\n['c'].txt\n"
	docs, diags, err := ParseReader(strings.NewReader(input), Options{})
	if err != nil {
		t.Fatalf("parse reader: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %v", diags)
	}
	if docs[1].Identifier != "c.txt" {
		t.Errorf("expected c.txt, got %s", docs[1].Identifier)
	}
}

func containsTag(tags []string, want string) bool {
	for _, tag := range tags {
		if tag == want {
			return true
		}
	}
	return false
}
