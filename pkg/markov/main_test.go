package markov

import (
	"go/build"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// scriptedSource returns the given values in order, cycling when it runs out,
// and counts how many values were drawn.
type scriptedSource struct {
	values []float64
	drawn  int
}

func (s *scriptedSource) Float64() float64 {
	v := s.values[s.drawn%len(s.values)]
	s.drawn++
	return v
}

// newTestModel creates a model with a scripted random source and trains it on corpus.
func newTestModel(t *testing.T, windowLength int, corpus string, values ...float64) (*Model, *scriptedSource) {
	t.Helper()
	if len(values) == 0 {
		values = []float64{0}
	}
	src := &scriptedSource{values: values}
	m, err := New(windowLength, WithSource(src))
	if err != nil {
		t.Fatalf("New(%d) error = %v", windowLength, err)
	}
	m.Train(corpus)
	return m, src
}

const testCorpus = `one fish two fish red fish blue fish.
this one has a little star, this one has a little car.
say, what a lot of fish there are.`

var (
	benchmarkCorpus string
	corpusOnce      sync.Once
)

// createBenchmarkCorpus reads Go source files to create a corpus for benchmarking.
func createBenchmarkCorpus() string {
	corpusOnce.Do(func() {
		var sb strings.Builder
		goRoot := build.Default.GOROOT
		filesToRead := []string{
			filepath.Join(goRoot, "src/net/http/server.go"),
			filepath.Join(goRoot, "src/go/parser/parser.go"),
			filepath.Join(goRoot, "src/encoding/json/encode.go"),
		}

		for _, file := range filesToRead {
			content, err := os.ReadFile(file)
			if err != nil {
				benchmarkCorpus = strings.Repeat(testCorpus, 100)
				return
			}
			sb.Write(content)
			sb.WriteString("\n")
		}
		benchmarkCorpus = sb.String()
	})
	return benchmarkCorpus
}
