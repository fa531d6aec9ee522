package markov

import (
	"iter"
	"log/slog"
	"strings"
	"unicode/utf8"
)

// maxPreallocRunes caps the output buffer reserved before generating.
const maxPreallocRunes = 4096

// Generate continues seed by up to length characters drawn from the trained
// distribution and returns seed followed by the generated text.
//
// A cursor starts at the first character of seed. Each step looks up the
// WindowLength characters of the output starting at the cursor, appends a
// character drawn from that window's table and advances the cursor by one.
// With a seed longer than WindowLength the window trails the end of the output
// by the difference.
//
// If seed is shorter than WindowLength it is returned unchanged, and if a
// window was never seen during training generation stops there and the text
// produced up to that point is returned. Neither case is an error.
//
// With a model built using WithSeed, the same corpus, seed and length always
// yield the same output.
func (m *Model) Generate(seed string, length int) (string, error) {
	if !m.trained {
		return "", ErrNotTrained
	}
	if length < 0 {
		return "", ErrInvalidLength
	}

	var builder strings.Builder
	builder.Grow(len(seed) + min(length, maxPreallocRunes))
	builder.WriteString(seed)

	var generated int
	for c := range m.Stream(seed, length) {
		builder.WriteRune(c)
		generated++
	}

	m.logger.Debug("Generation completed",
		slog.Int("seed_length", utf8.RuneCountInString(seed)),
		slog.Int("requested_length", length),
		slog.Int("generated_length", generated),
		slog.Bool("terminated_early", generated < length),
	)

	return builder.String(), nil
}

// Stream returns an iterator over the characters Generate would append to
// seed, produced one at a time as the caller ranges over it. Stopping the
// iteration early simply stops drawing characters. The seed itself is not
// yielded.
func (m *Model) Stream(seed string, length int) iter.Seq[rune] {
	return func(yield func(rune) bool) {
		out := []rune(seed)
		if len(out) < m.windowLength {
			return
		}

		for generated := 0; generated < length; generated++ {
			key := string(out[generated : generated+m.windowLength])
			table, ok := m.tables[key]
			if !ok { // Dead end in chain
				m.logger.Debug("Generation terminated due to unseen window",
					slog.String("window", key),
					slog.Int("generated_length", generated),
				)
				return
			}

			next := table.Sample(m.source.Float64()).Char
			out = append(out, next)

			if !yield(next) {
				return
			}
		}
	}
}
