package corpus

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"
)

const (
	// StdinRef is the reference that reads corpus text from standard input.
	StdinRef = "-"
	// StorePrefix marks a reference to a document in the Store, e.g. "db:alice".
	StorePrefix = "db:"
)

var (
	// ErrNoStore is returned when a reference names a stored document but the
	// Loader has no Store.
	ErrNoStore = errors.New("corpus: no document store configured")
	// ErrDuplicateStdin is returned when standard input is referenced more than once.
	ErrDuplicateStdin = errors.New("corpus: standard input can only be read once")
)

// Loader resolves corpus references to text. A reference is either
// StdinRef, StorePrefix followed by a document name, or a file path.
type Loader struct {
	store  *Store
	stdin  io.Reader
	opts   []ReadOption
	logger *slog.Logger
}

// NewLoader creates a Loader. store may be nil if no stored documents will be
// referenced, and stdin may be nil if standard input will not be referenced.
func NewLoader(store *Store, stdin io.Reader, opts ...ReadOption) *Loader {
	return &Loader{
		store:  store,
		stdin:  stdin,
		opts:   opts,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// SetLogger sets the logger for the Loader. By default, all logs are discarded.
func (l *Loader) SetLogger(logger *slog.Logger) {
	if logger != nil {
		l.logger = logger
	}
}

// Load returns the text behind a single reference.
func (l *Loader) Load(ctx context.Context, ref string) (string, error) {
	var text string
	var err error

	switch {
	case ref == StdinRef:
		if l.stdin == nil {
			return "", fmt.Errorf("standard input is not available")
		}
		text, err = Read(l.stdin, l.opts...)
	case strings.HasPrefix(ref, StorePrefix):
		if l.store == nil {
			return "", ErrNoStore
		}
		text, err = l.store.Get(ctx, strings.TrimPrefix(ref, StorePrefix))
		if err == nil {
			text = newReadOptions(l.opts).text(text)
		}
	default:
		text, err = ReadFile(ref, l.opts...)
	}
	if err != nil {
		return "", err
	}

	l.logger.DebugContext(ctx, "Corpus loaded",
		slog.String("ref", ref),
		slog.Int("runes", utf8.RuneCountInString(text)),
	)
	return text, nil
}

// LoadAll loads every reference concurrently and returns the texts in the
// same order as refs. The first failure cancels the remaining loads.
func (l *Loader) LoadAll(ctx context.Context, refs []string) ([]string, error) {
	var stdinRefs int
	for _, ref := range refs {
		if ref == StdinRef {
			stdinRefs++
		}
	}
	if stdinRefs > 1 {
		return nil, ErrDuplicateStdin
	}

	texts := make([]string, len(refs))
	g, gctx := errgroup.WithContext(ctx)
	for i, ref := range refs {
		g.Go(func() error {
			text, err := l.Load(gctx, ref)
			if err != nil {
				return fmt.Errorf("corpus '%s': %w", ref, err)
			}
			texts[i] = text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return texts, nil
}
