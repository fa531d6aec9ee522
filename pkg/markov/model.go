package markov

import (
	"errors"
	"io"
	"log/slog"
	"math/rand/v2"
	"sort"
	"time"
)

// DefaultSeed is the seed used for reproducible ("fixed") generation when the
// caller does not pick one.
const DefaultSeed uint64 = 20

var (
	// ErrInvalidWindowLength is returned by New when the window length is not positive.
	ErrInvalidWindowLength = errors.New("markov: window length must be positive")
	// ErrInvalidLength is returned when a negative generation length is requested.
	ErrInvalidLength = errors.New("markov: generation length must not be negative")
	// ErrNotTrained is returned when generating from a model that was never trained.
	ErrNotTrained = errors.New("markov: model has not been trained")
	// ErrWindowMismatch is returned by Merge when the two models use different window lengths.
	ErrWindowMismatch = errors.New("markov: window lengths differ")
)

// Source is the random source used for sampling. Float64 must return a value
// in [0, 1). *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	Float64() float64
}

// Model is a character-level Markov model of a fixed order. It maps every
// window of WindowLength characters seen during training to the table of
// characters that followed it.
//
// A Model is not safe for concurrent use.
type Model struct {
	windowLength int
	tables       map[string]*FrequencyTable
	source       Source
	trained      bool
	logger       *slog.Logger
}

// modelOptions is used by New to configure the random source.
type modelOptions struct {
	source Source
}

// Option configures a Model at construction time.
type Option func(*modelOptions)

// WithSeed makes generation reproducible: two models built with the same seed
// and trained on the same corpus produce identical output.
func WithSeed(seed uint64) Option {
	return func(o *modelOptions) { o.source = rand.New(rand.NewPCG(seed, seed)) }
}

// WithSource sets the random source directly.
func WithSource(src Source) Option {
	return func(o *modelOptions) { o.source = src }
}

// New creates an untrained model with the given window length. Without
// WithSeed or WithSource the random source is seeded from the current time,
// so every run produces different text.
func New(windowLength int, opts ...Option) (*Model, error) {
	if windowLength <= 0 {
		return nil, ErrInvalidWindowLength
	}

	options := &modelOptions{}
	for _, opt := range opts {
		opt(options)
	}
	if options.source == nil {
		now := uint64(time.Now().UnixNano())
		options.source = rand.New(rand.NewPCG(now, now>>1|1))
	}

	return &Model{
		windowLength: windowLength,
		tables:       make(map[string]*FrequencyTable),
		source:       options.source,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, nil
}

// SetLogger sets the logger for the Model. By default, all logs are discarded.
func (m *Model) SetLogger(logger *slog.Logger) {
	if logger != nil {
		m.logger = logger
	}
}

// WindowLength returns the order of the model.
func (m *Model) WindowLength() int {
	return m.windowLength
}

// Trained reports whether Train (or TrainReader) has completed at least once.
func (m *Model) Trained() bool {
	return m.trained
}

// Table returns the frequency table for a window, if the window was seen.
// The returned table must not be modified.
func (m *Model) Table(window string) (*FrequencyTable, bool) {
	t, ok := m.tables[window]
	return t, ok
}

// Windows returns every known window in lexical order.
func (m *Model) Windows() []string {
	windows := make([]string, 0, len(m.tables))
	for w := range m.tables {
		windows = append(windows, w)
	}
	sort.Strings(windows)
	return windows
}

// finalize recomputes the probabilities of every table.
func (m *Model) finalize() {
	for _, t := range m.tables {
		t.Finalize()
	}
	m.trained = true
}
