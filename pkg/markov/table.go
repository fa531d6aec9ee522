package markov

// CharEntry represents one character observed after a given window, along with
// how often it was seen and, once the table is finalized, its probability and
// cumulative probability.
type CharEntry struct {
	Char                  rune
	Count                 int
	Probability           float64
	CumulativeProbability float64
}

// FrequencyTable holds the characters observed after a single context window
// in the order they were first seen. Each character appears at most once.
// The insertion order is significant: cumulative probabilities, and therefore
// sampling, are defined relative to it.
type FrequencyTable struct {
	entries []CharEntry
	index   map[rune]int
}

// NewFrequencyTable returns an empty table.
func NewFrequencyTable() *FrequencyTable {
	return &FrequencyTable{index: make(map[rune]int)}
}

// Observe records one occurrence of c. The first observation appends a new
// entry with a count of 1, later observations increment that entry.
func (t *FrequencyTable) Observe(c rune) {
	t.add(c, 1)
}

func (t *FrequencyTable) add(c rune, n int) {
	if i, ok := t.index[c]; ok {
		t.entries[i].Count += n
		return
	}
	t.index[c] = len(t.entries)
	t.entries = append(t.entries, CharEntry{Char: c, Count: n})
}

// Get looks up the entry for c.
func (t *FrequencyTable) Get(c rune) (CharEntry, bool) {
	i, ok := t.index[c]
	if !ok {
		return CharEntry{}, false
	}
	return t.entries[i], true
}

// At returns the entry at position i in insertion order. It panics if i is
// out of range, like a slice index.
func (t *FrequencyTable) At(i int) CharEntry {
	return t.entries[i]
}

// Len returns the number of distinct characters observed.
func (t *FrequencyTable) Len() int {
	return len(t.entries)
}

// Total returns the sum of all counts in the table.
func (t *FrequencyTable) Total() int {
	var total int
	for _, e := range t.entries {
		total += e.Count
	}
	return total
}

// Entries returns a copy of the entries in insertion order.
func (t *FrequencyTable) Entries() []CharEntry {
	out := make([]CharEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Finalize computes the probability and cumulative probability of every entry
// from the current counts, walking the entries in insertion order. It must be
// called after the last Observe and before Sample. Finalizing an empty table
// is a programming error and panics.
func (t *FrequencyTable) Finalize() {
	total := t.Total()
	if total == 0 {
		panic("markov: Finalize called on an empty frequency table")
	}

	var running float64
	for i := range t.entries {
		e := &t.entries[i]
		e.Probability = float64(e.Count) / float64(total)
		e.CumulativeProbability = running + e.Probability
		running = e.CumulativeProbability
	}
}

// Sample returns the first entry, in insertion order, whose cumulative
// probability is strictly greater than r. r is expected to be in [0, 1).
// If rounding leaves no such entry the last entry is returned.
func (t *FrequencyTable) Sample(r float64) CharEntry {
	for _, e := range t.entries {
		if r < e.CumulativeProbability {
			return e
		}
	}
	return t.entries[len(t.entries)-1]
}

// prune removes entries with a count less than or equal to minCount, keeping
// the relative order of the survivors. It reports how many were removed.
func (t *FrequencyTable) prune(minCount int) int {
	kept := t.entries[:0]
	for _, e := range t.entries {
		if e.Count > minCount {
			kept = append(kept, e)
		}
	}
	removed := len(t.entries) - len(kept)
	if removed == 0 {
		return 0
	}
	t.entries = kept
	clear(t.index)
	for i, e := range t.entries {
		t.index[e.Char] = i
	}
	return removed
}
