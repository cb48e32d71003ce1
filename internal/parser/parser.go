// Package parser turns loosely structured "contents.txt" style lines into
// tagged documents. Entries look like `['tag', 'other'].txt`; the parser is
// intentionally forgiving and accepts malformed lines by stripping stray
// quotation marks and whitespace. Lines it cannot use are reported as
// diagnostics, never as errors.
package parser

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"semsi/internal/domain"
)

// SkipReason classifies why a line produced no document.
type SkipReason string

const (
	// SkipEmpty marks blank lines.
	SkipEmpty SkipReason = "empty"
	// SkipNoBrackets marks lines without a bracketed tag list.
	SkipNoBrackets SkipReason = "no-brackets"
	// SkipSelfListing marks a bracketless line naming the contents file
	// itself; legacy files sometimes list themselves at the bottom.
	SkipSelfListing SkipReason = "self-listing"
	// SkipNoTags marks lines whose brackets yield no usable tags.
	SkipNoTags SkipReason = "no-tags"
	// SkipDuplicate marks lines whose identifier was already emitted.
	SkipDuplicate SkipReason = "duplicate"
)

// Diagnostic describes a skipped line. Diagnostics are informational; the
// caller decides whether to print them.
type Diagnostic struct {
	Line   int
	Text   string
	Reason SkipReason
}

func (d Diagnostic) String() string {
	switch d.Reason {
	case SkipNoBrackets:
		return fmt.Sprintf("line %d does not contain bracketed tags: %s", d.Line, d.Text)
	case SkipNoTags:
		return fmt.Sprintf("line %d did not yield any valid tags: %s", d.Line, d.Text)
	case SkipDuplicate:
		return fmt.Sprintf("line %d skipped, duplicate identifier: %s", d.Line, d.Text)
	default:
		return fmt.Sprintf("line %d skipped (%s): %s", d.Line, d.Reason, d.Text)
	}
}

// Options controls parsing behavior.
type Options struct {
	// KeepDuplicates emits every parsed document even when an identifier
	// repeats. By default repeated identifiers are dropped.
	KeepDuplicates bool
}

// Result is the outcome of parsing a single line: either a document or a
// skip reason, never both.
type Result struct {
	Doc     domain.TaggedDocument
	Skipped bool
	Reason  SkipReason
}

// quote-like characters stripped from tag edges: straight and curly
// single/double quotes, backtick, middle dot.
const quoteCutset = "'\"`“”‘’·"

// ParseLine parses one raw line. It is pure: deduplication is handled by the
// aggregating callers, which see every parsed document.
func ParseLine(raw string) Result {
	line := strings.TrimSpace(raw)
	if line == "" {
		return Result{Skipped: true, Reason: SkipEmpty}
	}

	content, ok := bracketContent(line)
	if !ok {
		if strings.HasSuffix(strings.ToLower(line), "contents.txt") {
			return Result{Skipped: true, Reason: SkipSelfListing}
		}
		return Result{Skipped: true, Reason: SkipNoBrackets}
	}

	var tags []string
	for _, token := range strings.Split(content, ",") {
		if tag := normalizeTag(token); tag != "" {
			tags = append(tags, tag)
		}
	}
	if len(tags) == 0 {
		return Result{Skipped: true, Reason: SkipNoTags}
	}

	return Result{Doc: domain.TaggedDocument{
		Identifier: buildIdentifier(tags, line),
		Tags:       tags,
		Source:     line,
	}}
}

// ParseLines parses raw lines in order, returning the surviving documents and
// one diagnostic per reportable skip. Blank lines and self-listings are
// dropped silently.
func ParseLines(lines []string, opts Options) ([]domain.TaggedDocument, []Diagnostic) {
	var docs []domain.TaggedDocument
	var diags []Diagnostic
	seen := make(map[string]struct{})

	for i, raw := range lines {
		res := ParseLine(raw)
		if res.Skipped {
			if res.Reason == SkipEmpty || res.Reason == SkipSelfListing {
				continue
			}
			diags = append(diags, Diagnostic{Line: i + 1, Text: strings.TrimSpace(raw), Reason: res.Reason})
			continue
		}
		if !opts.KeepDuplicates {
			if _, dup := seen[res.Doc.Identifier]; dup {
				diags = append(diags, Diagnostic{Line: i + 1, Text: res.Doc.Identifier, Reason: SkipDuplicate})
				continue
			}
			seen[res.Doc.Identifier] = struct{}{}
		}
		docs = append(docs, res.Doc)
	}
	return docs, diags
}

// ParseReader reads r line by line and parses it with ParseLines.
func ParseReader(r io.Reader, opts Options) ([]domain.TaggedDocument, []Diagnostic, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, nil, fmt.Errorf("read contents: %w", err)
	}
	docs, diags := ParseLines(lines, opts)
	return docs, diags, nil
}

// ParseFile reads and parses a contents file from disk.
func ParseFile(path string, opts Options) ([]domain.TaggedDocument, []Diagnostic, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open contents file: %w", err)
	}
	defer f.Close()
	return ParseReader(f, opts)
}

// bracketContent returns the substring strictly between the first `[` and the
// first `]` after it.
func bracketContent(line string) (string, bool) {
	start := strings.Index(line, "[")
	if start == -1 {
		return "", false
	}
	end := strings.Index(line[start+1:], "]")
	if end == -1 {
		return "", false
	}
	return line[start+1 : start+1+end], true
}

// normalizeTag strips surrounding whitespace and quote-like characters and
// collapses internal whitespace runs to single spaces. Returns "" when
// nothing survives.
func normalizeTag(token string) string {
	cleaned := strings.Trim(strings.TrimSpace(token), quoteCutset)
	return strings.Join(strings.Fields(cleaned), " ")
}

// buildIdentifier joins the tags with underscores and, when the text after
// the closing bracket starts with a dot, appends it as an extension-like
// suffix.
func buildIdentifier(tags []string, line string) string {
	base := strings.Join(tags, "_")
	if closing := strings.Index(line, "]"); closing != -1 {
		rest := strings.TrimSpace(line[closing+1:])
		if strings.HasPrefix(rest, ".") {
			return base + "." + rest[1:]
		}
	}
	return base
}
