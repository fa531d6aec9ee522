package markov

import (
	"math"
	"testing"
)

func TestFrequencyTableObserve(t *testing.T) {
	table := NewFrequencyTable()
	for _, c := range "abacab" {
		table.Observe(c)
	}

	if table.Len() != 3 {
		t.Fatalf("expected 3 distinct characters, got %d", table.Len())
	}

	// Entries keep the order in which characters were first observed.
	want := []CharEntry{{Char: 'a', Count: 3}, {Char: 'b', Count: 2}, {Char: 'c', Count: 1}}
	for i, w := range want {
		if got := table.At(i); got != w {
			t.Errorf("At(%d) = %+v, want %+v", i, got, w)
		}
	}

	if e, ok := table.Get('b'); !ok || e.Count != 2 {
		t.Errorf("Get('b') = %+v, %v; want count 2", e, ok)
	}
	if _, ok := table.Get('z'); ok {
		t.Error("Get('z') reported an entry for an unobserved character")
	}
	if table.Total() != 6 {
		t.Errorf("expected total of 6, got %d", table.Total())
	}
}

func TestFrequencyTableFinalize(t *testing.T) {
	table := NewFrequencyTable()
	for _, c := range "aaabbc" {
		table.Observe(c)
	}
	table.Finalize()

	want := []struct {
		p, cp float64
	}{
		{0.5, 0.5},
		{1.0 / 3, 0.5 + 1.0/3},
		{1.0 / 6, 1.0},
	}
	for i, w := range want {
		e := table.At(i)
		if math.Abs(e.Probability-w.p) > 1e-9 {
			t.Errorf("entry %d: probability = %v, want %v", i, e.Probability, w.p)
		}
		if math.Abs(e.CumulativeProbability-w.cp) > 1e-9 {
			t.Errorf("entry %d: cumulative probability = %v, want %v", i, e.CumulativeProbability, w.cp)
		}
	}
}

func TestFrequencyTableFinalizeEmptyPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected Finalize on an empty table to panic")
		}
	}()
	NewFrequencyTable().Finalize()
}

func TestFrequencyTableSample(t *testing.T) {
	table := NewFrequencyTable()
	for _, c := range "xyyz" {
		table.Observe(c)
	}
	table.Finalize()
	// x: [0, .25), y: [.25, .75), z: [.75, 1)

	testCases := []struct {
		name string
		r    float64
		want rune
	}{
		{name: "Zero picks the first entry", r: 0, want: 'x'},
		{name: "Just below first boundary", r: 0.2499, want: 'x'},
		{name: "On a boundary picks the next entry", r: 0.25, want: 'y'},
		{name: "Middle", r: 0.5, want: 'y'},
		{name: "Just below one picks the last entry", r: math.Nextafter(1, 0), want: 'z'},
		{name: "Rounding overflow falls back to the last entry", r: 1.0, want: 'z'},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := table.Sample(tc.r).Char; got != tc.want {
				t.Errorf("Sample(%v) = %q, want %q", tc.r, got, tc.want)
			}
		})
	}
}

func TestFrequencyTableString(t *testing.T) {
	table := NewFrequencyTable()
	table.Observe('a')
	table.Observe('b')
	table.Finalize()

	want := "('a' 1 0.5000 0.5000) ('b' 1 0.5000 1.0000)"
	if got := table.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
