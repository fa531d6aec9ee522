package markov

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Train slides a window of WindowLength characters across corpus and counts,
// for every window followed by at least one more character, which character
// came next. Once the pass is complete every table's probabilities are
// recomputed.
//
// A corpus shorter than WindowLength+1 characters observes nothing; the model
// is still marked as trained. Calling Train again accumulates counts on top of
// the previous calls rather than replacing them.
func (m *Model) Train(corpus string) {
	// strings.Reader only ever fails with io.EOF.
	_ = m.TrainReader(strings.NewReader(corpus))
}

// TrainReader is the streaming form of Train. If r fails before io.EOF, the
// model is left exactly as it was before the call.
func (m *Model) TrainReader(r io.RuneReader) error {
	shard := make(map[string]*FrequencyTable)
	window := make([]rune, 0, m.windowLength)
	var observed int64

	for {
		c, _, err := r.ReadRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("corpus read error: %w", err)
		}

		if len(window) < m.windowLength {
			window = append(window, c)
			continue
		}

		key := string(window)
		table, ok := shard[key]
		if !ok {
			table = NewFrequencyTable()
			shard[key] = table
		}
		table.Observe(c)
		observed++

		// Shift the window one character to the right.
		copy(window, window[1:])
		window[len(window)-1] = c
	}

	m.mergeTables(shard)
	m.finalize()

	m.logger.Info("Training completed",
		slog.Int("window_length", m.windowLength),
		slog.Int64("transitions_observed", observed),
		slog.Int("windows_in_shard", len(shard)),
		slog.Int("windows_total", len(m.tables)),
	)
	return nil
}

// mergeTables adds the counts of every table in shard to the model's tables.
// Characters new to a window are appended in the shard's order.
func (m *Model) mergeTables(shard map[string]*FrequencyTable) {
	for key, src := range shard {
		dst, ok := m.tables[key]
		if !ok {
			dst = NewFrequencyTable()
			m.tables[key] = dst
		}
		for _, e := range src.entries {
			dst.add(e.Char, e.Count)
		}
	}
}

// Merge adds the counts learned by other into m and recomputes the
// probabilities. Both models must use the same window length. This allows a
// corpus to be trained in independent shards and combined afterwards; other
// is not modified.
//
// Characters that are new to one of m's windows are appended after the
// existing ones, in the order other saw them.
func (m *Model) Merge(other *Model) error {
	if other.windowLength != m.windowLength {
		return fmt.Errorf("%w: %d and %d", ErrWindowMismatch, m.windowLength, other.windowLength)
	}
	// Map iteration order is random, but each window's table is merged
	// independently, so the result does not depend on it.
	m.mergeTables(other.tables)
	m.finalize()

	m.logger.Debug("Models merged",
		slog.Int("window_length", m.windowLength),
		slog.Int("windows_merged", len(other.tables)),
		slog.Int("windows_total", len(m.tables)),
	)
	return nil
}

// Prune removes every transition that was observed minCount times or fewer,
// drops windows left without any transition and recomputes the
// probabilities. It returns the number of transitions removed. Pruning an
// untrained model does nothing.
func (m *Model) Prune(minCount int) int {
	if !m.trained {
		return 0
	}

	var removed, windowsRemoved int
	for key, t := range m.tables {
		removed += t.prune(minCount)
		if t.Len() == 0 {
			delete(m.tables, key)
			windowsRemoved++
		}
	}
	m.finalize()

	m.logger.Info("Model pruned",
		slog.Int("min_count", minCount),
		slog.Int("transitions_removed", removed),
		slog.Int("windows_removed", windowsRemoved),
	)
	return removed
}
