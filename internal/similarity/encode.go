package similarity

import (
	"encoding/csv"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// WriteCSV writes the matrix as row/column-labeled CSV: a header row
// `identifier,<label>...` followed by one row per label with scores formatted
// to the given number of decimals.
func (m *Matrix) WriteCSV(w io.Writer, decimals int) error {
	cw := csv.NewWriter(w)
	header := append([]string{"identifier"}, m.Labels...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	record := make([]string, len(m.Labels)+1)
	for i, label := range m.Labels {
		record[0] = label
		for j, v := range m.Values[i] {
			record[j+1] = formatScore(v, decimals)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row %q: %w", label, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Nested returns the matrix as a label-to-label-to-score mapping with values
// rounded to the given number of decimals.
func (m *Matrix) Nested(decimals int) map[string]map[string]float64 {
	out := make(map[string]map[string]float64, len(m.Labels))
	for i, label := range m.Labels {
		row := make(map[string]float64, len(m.Labels))
		for j, other := range m.Labels {
			v := m.Values[i][j]
			if decimals >= 0 {
				v = round(v, decimals)
			}
			row[other] = v
		}
		out[label] = row
	}
	return out
}

// WriteJSON writes the nested-mapping export as indented JSON.
func (m *Matrix) WriteJSON(w io.Writer, decimals int) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(m.Nested(decimals))
}

// WriteSnapshot writes an opaque full-fidelity dump of labels and raw values
// for later exact reload with ReadSnapshot. The format is gob and is not
// meant to be read by anything else.
func (m *Matrix) WriteSnapshot(w io.Writer) error {
	return gob.NewEncoder(w).Encode(m)
}

// ReadSnapshot reloads a matrix written by WriteSnapshot.
func ReadSnapshot(r io.Reader) (*Matrix, error) {
	var m Matrix
	if err := gob.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return &m, nil
}

// Preview renders a bounded tab-separated table showing the first limit
// labels as both rows and columns. Limit is clamped to [1, len(Labels)].
func (m *Matrix) Preview(limit, decimals int) string {
	if limit < 1 {
		limit = 1
	}
	if limit > len(m.Labels) {
		limit = len(m.Labels)
	}
	var b strings.Builder
	b.WriteString("identifier")
	for _, label := range m.Labels[:limit] {
		b.WriteByte('\t')
		b.WriteString(label)
	}
	for i, label := range m.Labels[:limit] {
		b.WriteByte('\n')
		b.WriteString(label)
		for _, v := range m.Values[i][:limit] {
			b.WriteByte('\t')
			b.WriteString(formatScore(v, decimals))
		}
	}
	return b.String()
}

func formatScore(v float64, decimals int) string {
	return fmt.Sprintf("%.*f", decimals, v)
}
