package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/CTAG07/charkov/pkg/corpus"
	"github.com/CTAG07/charkov/pkg/markov"
	"github.com/fatih/color"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mattn/go-runewidth"
)

// palette holds the colors used to tell the seed apart from generated text.
type palette struct {
	seed      *color.Color
	generated *color.Color
}

// newPalette builds a palette for a color mode. In "auto" mode color is used
// only when standard output is a terminal and NO_COLOR is unset.
func newPalette(mode string) palette {
	p := palette{
		seed:      color.New(color.Faint),
		generated: color.New(color.FgCyan),
	}
	switch strings.ToLower(mode) {
	case "always":
		p.seed.EnableColor()
		p.generated.EnableColor()
	case "never":
		p.seed.DisableColor()
		p.generated.DisableColor()
	}
	return p
}

// render writes text followed by a newline, highlighting everything after
// the first seedLen characters. A positive width breaks lines once they
// would exceed that many display columns.
func render(w io.Writer, text string, seedLen, width int, p palette) error {
	var seedPart, genPart strings.Builder
	col := 0
	for i, r := range []rune(text) {
		part := &genPart
		if i < seedLen {
			part = &seedPart
		}
		if r == '\n' {
			part.WriteRune(r)
			col = 0
			continue
		}
		rw := runewidth.RuneWidth(r)
		if width > 0 && col > 0 && col+rw > width {
			part.WriteByte('\n')
			col = 0
		}
		part.WriteRune(r)
		col += rw
	}

	var out strings.Builder
	if seedPart.Len() > 0 {
		out.WriteString(p.seed.Sprint(seedPart.String()))
	}
	if genPart.Len() > 0 {
		out.WriteString(p.generated.Sprint(genPart.String()))
	}
	_, err := fmt.Fprintln(w, out.String())
	return err
}

// suggestWindows returns up to n known windows closest to window by edit
// distance, ignoring case first and then preferring exact-case matches.
func suggestWindows(windows []string, window string, n int) []string {
	if n <= 0 || len(windows) == 0 {
		return nil
	}

	type candidate struct {
		window   string
		folded   int
		distance int
	}
	lower := strings.ToLower(window)
	candidates := make([]candidate, 0, len(windows))
	for _, w := range windows {
		candidates = append(candidates, candidate{
			window:   w,
			folded:   fuzzy.LevenshteinDistance(lower, strings.ToLower(w)),
			distance: fuzzy.LevenshteinDistance(window, w),
		})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].folded != candidates[j].folded {
			return candidates[i].folded < candidates[j].folded
		}
		return candidates[i].distance < candidates[j].distance
	})

	if n > len(candidates) {
		n = len(candidates)
	}
	out := make([]string, n)
	for i := range out {
		out[i] = candidates[i].window
	}
	return out
}

// writeStats writes a one-line summary of a model.
func writeStats(w io.Writer, s markov.Stats) error {
	_, err := fmt.Fprintf(w, "# window_length=%d windows=%d transitions=%d observations=%d distinct_chars=%d max_branching=%d single_choice=%d\n",
		s.WindowLength, s.Windows, s.Transitions, s.Observations, s.DistinctChars, s.MaxBranching, s.SingleChoice)
	return err
}

// writeDump lists every window of the model with its frequency table,
// aligning the tables even when windows contain wide characters.
func writeDump(w io.Writer, model *markov.Model) error {
	windows := model.Windows()
	keys := make([]string, len(windows))
	width := 0
	for i, window := range windows {
		keys[i] = strconv.Quote(window)
		if kw := runewidth.StringWidth(keys[i]); kw > width {
			width = kw
		}
	}

	for i, window := range windows {
		table, _ := model.Table(window)
		if _, err := fmt.Fprintf(w, "%s  %s\n", runewidth.FillRight(keys[i], width), table); err != nil {
			return err
		}
	}
	return nil
}

// writeDocuments lists stored corpus documents in aligned columns.
func writeDocuments(w io.Writer, docs []corpus.Document) error {
	width := runewidth.StringWidth("NAME")
	for _, doc := range docs {
		if dw := runewidth.StringWidth(doc.Name); dw > width {
			width = dw
		}
	}

	if _, err := fmt.Fprintf(w, "%s  %10s  %10s  %s\n", runewidth.FillRight("NAME", width), "CHARS", "BYTES", "UPDATED"); err != nil {
		return err
	}
	for _, doc := range docs {
		_, err := fmt.Fprintf(w, "%s  %10d  %10d  %s\n",
			runewidth.FillRight(doc.Name, width), doc.Runes, doc.Bytes, doc.UpdatedAt.Format(time.RFC3339))
		if err != nil {
			return err
		}
	}
	return nil
}
