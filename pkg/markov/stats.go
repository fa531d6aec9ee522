package markov

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Stats holds aggregated statistics for a trained model.
type Stats struct {
	WindowLength  int // The order of the model
	Windows       int // The number of distinct windows seen during training
	Transitions   int // The number of unique window->character links
	Observations  int // The sum of all counts; the total number of trained transitions
	DistinctChars int // The number of distinct characters that follow any window
	MaxBranching  int // The largest number of distinct characters following a single window
	SingleChoice  int // The number of windows followed by exactly one character
}

// Stats returns a snapshot of statistics for the model.
func (m *Model) Stats() Stats {
	stats := Stats{
		WindowLength: m.windowLength,
		Windows:      len(m.tables),
	}
	chars := make(map[rune]struct{})
	for _, t := range m.tables {
		stats.Transitions += t.Len()
		stats.Observations += t.Total()
		if t.Len() > stats.MaxBranching {
			stats.MaxBranching = t.Len()
		}
		if t.Len() == 1 {
			stats.SingleChoice++
		}
		for _, e := range t.entries {
			chars[e.Char] = struct{}{}
		}
	}
	stats.DistinctChars = len(chars)
	return stats
}

// WriteTo writes a human-readable listing of the model to w, one window per
// line in lexical order:
//
//	"ab" : ('c' 2 0.6667 0.6667) ('d' 1 0.3333 1.0000)
//
// Each group holds the character, its count, probability and cumulative
// probability.
func (m *Model) WriteTo(w io.Writer) (int64, error) {
	var written int64
	for _, key := range m.Windows() {
		n, err := io.WriteString(w, strconv.Quote(key)+" : "+m.tables[key].String()+"\n")
		written += int64(n)
		if err != nil {
			return written, err
		}
	}
	return written, nil
}

// String returns the same listing as WriteTo.
func (m *Model) String() string {
	var sb strings.Builder
	_, _ = m.WriteTo(&sb)
	return sb.String()
}

// String formats the table's entries in insertion order.
func (t *FrequencyTable) String() string {
	parts := make([]string, len(t.entries))
	for i, e := range t.entries {
		parts[i] = fmt.Sprintf("(%q %d %.4f %.4f)", e.Char, e.Count, e.Probability, e.CumulativeProbability)
	}
	return strings.Join(parts, " ")
}
