package corpus

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// readOptions Is used by the read functions to configure text handling.
type readOptions struct {
	normalize bool
	form      norm.Form
}

// ReadOption configures how corpus text is read.
type ReadOption func(*readOptions)

// WithNormalization applies the given Unicode normalization form to the text.
func WithNormalization(form norm.Form) ReadOption {
	return func(o *readOptions) {
		o.normalize = true
		o.form = form
	}
}

// ParseNormalization maps a form name ("nfc", "nfd", "nfkc", "nfkd", case
// insensitive) to a ReadOption. An empty name or "none" disables
// normalization.
func ParseNormalization(name string) (ReadOption, error) {
	switch strings.ToLower(name) {
	case "", "none":
		return func(o *readOptions) { o.normalize = false }, nil
	case "nfc":
		return WithNormalization(norm.NFC), nil
	case "nfd":
		return WithNormalization(norm.NFD), nil
	case "nfkc":
		return WithNormalization(norm.NFKC), nil
	case "nfkd":
		return WithNormalization(norm.NFKD), nil
	default:
		return nil, fmt.Errorf("unknown normalization form %q", name)
	}
}

func newReadOptions(opts []ReadOption) *readOptions {
	options := &readOptions{}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

func (o *readOptions) reader(r io.Reader) io.Reader {
	if !o.normalize {
		return r
	}
	return o.form.Reader(r)
}

func (o *readOptions) text(s string) string {
	if !o.normalize {
		return s
	}
	return o.form.String(s)
}

// Read reads all of r and returns it as corpus text.
func Read(r io.Reader, opts ...ReadOption) (string, error) {
	data, err := io.ReadAll(newReadOptions(opts).reader(r))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ReadFile reads the file at path and returns its content as corpus text.
func ReadFile(path string, opts ...ReadOption) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func(file *os.File) {
		_ = file.Close()
	}(file)

	text, err := Read(file, opts...)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return text, nil
}
