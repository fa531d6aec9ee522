package markov

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	for _, k := range []int{0, -1} {
		if _, err := New(k); !errors.Is(err, ErrInvalidWindowLength) {
			t.Errorf("New(%d): expected ErrInvalidWindowLength, got %v", k, err)
		}
	}

	m, err := New(3)
	if err != nil {
		t.Fatalf("New(3) failed: %v", err)
	}
	if m.WindowLength() != 3 {
		t.Errorf("expected window length 3, got %d", m.WindowLength())
	}
	if m.Trained() {
		t.Error("a new model should not be trained")
	}
}

func TestTrain(t *testing.T) {
	m, _ := newTestModel(t, 1, "aab")

	if !m.Trained() {
		t.Fatal("expected model to be trained")
	}
	if got := m.Windows(); len(got) != 1 || got[0] != "a" {
		t.Fatalf("expected only window \"a\", got %q", got)
	}

	table, _ := m.Table("a")
	want := []CharEntry{
		{Char: 'a', Count: 1, Probability: 0.5, CumulativeProbability: 0.5},
		{Char: 'b', Count: 1, Probability: 0.5, CumulativeProbability: 1.0},
	}
	if table.Len() != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), table.Len())
	}
	for i, w := range want {
		if got := table.At(i); got != w {
			t.Errorf("entry %d = %+v, want %+v", i, got, w)
		}
	}
}

func TestTrainSlidingWindow(t *testing.T) {
	m, _ := newTestModel(t, 2, "abcabc")

	testCases := []struct {
		window string
		next   rune
		count  int
	}{
		{"ab", 'c', 2},
		{"bc", 'a', 1},
		{"ca", 'b', 1},
	}
	if len(m.Windows()) != len(testCases) {
		t.Errorf("expected %d windows, got %q", len(testCases), m.Windows())
	}
	for _, tc := range testCases {
		table, ok := m.Table(tc.window)
		if !ok {
			t.Errorf("window %q not found", tc.window)
			continue
		}
		e, ok := table.Get(tc.next)
		if !ok || e.Count != tc.count || table.Len() != 1 {
			t.Errorf("window %q: got %s, want only %q with count %d", tc.window, table, tc.next, tc.count)
		}
		if e.Probability != 1.0 {
			t.Errorf("window %q: expected probability 1.0, got %v", tc.window, e.Probability)
		}
	}
}

func TestTrainShortCorpus(t *testing.T) {
	for _, corpus := range []string{"", "abc", "abcde"} {
		t.Run(fmt.Sprintf("len%d", len(corpus)), func(t *testing.T) {
			m, _ := newTestModel(t, 5, corpus)
			if len(m.Windows()) != 0 {
				t.Errorf("expected an empty model, got windows %q", m.Windows())
			}
			if !m.Trained() {
				t.Error("training on a short corpus should still mark the model as trained")
			}
		})
	}
}

func TestTrainUnicode(t *testing.T) {
	m, _ := newTestModel(t, 2, "日本語日本人")

	table, ok := m.Table("日本")
	if !ok {
		t.Fatalf("expected multi-byte window to be found, got %q", m.Windows())
	}
	if table.Len() != 2 || table.At(0).Char != '語' || table.At(1).Char != '人' {
		t.Errorf("unexpected table for \"日本\": %s", table)
	}
}

func TestTrainIsCumulative(t *testing.T) {
	m, _ := newTestModel(t, 1, "aab")
	m.Train("abb")

	table, _ := m.Table("a")
	a, _ := table.Get('a')
	b, _ := table.Get('b')
	if a.Count != 1 || b.Count != 2 {
		t.Errorf("expected counts a=1 b=2 after second training pass, got %s", table)
	}
	if math.Abs(b.Probability-2.0/3) > 1e-9 {
		t.Errorf("expected probabilities to be recomputed, got %s", table)
	}
	if _, ok := m.Table("b"); !ok {
		t.Error("expected window \"b\" from the second corpus")
	}
}

func TestProbabilitiesSumToOne(t *testing.T) {
	for k := 1; k <= 4; k++ {
		m, _ := newTestModel(t, k, testCorpus)
		for _, w := range m.Windows() {
			table, _ := m.Table(w)
			var sum, prev float64
			for i := 0; i < table.Len(); i++ {
				e := table.At(i)
				sum += e.Probability
				if e.CumulativeProbability < prev {
					t.Errorf("k=%d window %q: cumulative probability decreased at entry %d", k, w, i)
				}
				prev = e.CumulativeProbability
			}
			if math.Abs(sum-1) > 1e-9 {
				t.Errorf("k=%d window %q: probabilities sum to %v", k, w, sum)
			}
			if last := table.At(table.Len() - 1).CumulativeProbability; math.Abs(last-1) > 1e-9 {
				t.Errorf("k=%d window %q: last cumulative probability is %v", k, w, last)
			}
		}
	}
}

// failingReader yields its text and then fails.
type failingReader struct {
	r *strings.Reader
}

func (f *failingReader) ReadRune() (rune, int, error) {
	c, n, err := f.r.ReadRune()
	if errors.Is(err, io.EOF) {
		return 0, 0, io.ErrUnexpectedEOF
	}
	return c, n, err
}

func TestTrainReaderFailureLeavesModelUntouched(t *testing.T) {
	m, _ := newTestModel(t, 1, "ab")

	err := m.TrainReader(&failingReader{r: strings.NewReader("aaaa")})
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("expected wrapped io.ErrUnexpectedEOF, got %v", err)
	}

	table, _ := m.Table("a")
	if table.Len() != 1 || table.At(0).Char != 'b' || table.At(0).Count != 1 {
		t.Errorf("failed training pass modified the model: %s", m)
	}
}

func BenchmarkTrain(b *testing.B) {
	corpus := createBenchmarkCorpus()

	for _, order := range []int{1, 2, 3, 4, 5} {
		b.Run(fmt.Sprintf("Order%d", order), func(b *testing.B) {
			b.SetBytes(int64(len(corpus)))
			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				m, err := New(order, WithSeed(DefaultSeed))
				if err != nil {
					b.Fatal(err)
				}
				m.Train(corpus)
			}
		})
	}
}
