package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/CTAG07/charkov/pkg/markov"
	"github.com/chzyer/readline"
)

// lineReader is the part of *readline.Instance the REPL needs.
type lineReader interface {
	Readline() (string, error)
}

func cmdRepl(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("repl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	common := registerCommon(fs)
	length := fs.Int("n", 200, "number of characters to generate per seed")
	wrap := fs.Int("wrap", -1, "wrap output at this many display columns, 0 disables (overrides config)")
	colorMode := fs.String("color", "", "auto, always or never (overrides config)")
	fs.Usage = func() {
		_, _ = fmt.Fprintln(stderr, "Usage: charkov repl [flags] <window> <fixed|random> <corpus>...")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 3 {
		return usagef("expected <window> <fixed|random> <corpus>..., got %d arguments", fs.NArg())
	}
	if *length < 0 {
		return usagef("-n must not be negative, got %d", *length)
	}
	window, err := parseWindow(fs.Arg(0))
	if err != nil {
		return err
	}
	mode, err := parseMode(fs.Arg(1))
	if err != nil {
		return err
	}

	e, err := common.setup(stdin, stdout, stderr, func(c *Config) {
		if *wrap >= 0 {
			c.WrapWidth = *wrap
		}
		if *colorMode != "" {
			c.Color = *colorMode
		}
	})
	if err != nil {
		return err
	}
	defer e.close()

	model, err := e.trainModel(ctx, window, mode, fs.Args()[2:])
	if err != nil {
		return err
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "seed> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		Stdin:           io.NopCloser(stdin),
		Stdout:          stdout,
		Stderr:          stderr,
	})
	if err != nil {
		return fmt.Errorf("failed to start line editor: %w", err)
	}
	defer func(rl *readline.Instance) {
		_ = rl.Close()
	}(rl)

	return e.replLoop(rl, model, *length)
}

// replLoop reads seeds until EOF, an interrupt on an empty line, or ":q",
// printing a generation for each. ":stats" prints the model summary.
func (e *env) replLoop(lines lineReader, model *markov.Model, length int) error {
	p := newPalette(e.cfg.Color)
	for {
		line, err := lines.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if line == "" {
				return nil
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		switch strings.TrimSpace(line) {
		case "":
			continue
		case ":q", ":quit":
			return nil
		case ":stats":
			if err = writeStats(e.stdout, model.Stats()); err != nil {
				return err
			}
			continue
		}

		// The line is used as typed; surrounding spaces are part of the seed.
		result, err := model.Generate(line, length)
		if err != nil {
			return err
		}
		e.reportShortfall(model, line, result, length)
		if err = render(e.stdout, result, utf8.RuneCountInString(line), e.cfg.WrapWidth, p); err != nil {
			return err
		}
	}
}
