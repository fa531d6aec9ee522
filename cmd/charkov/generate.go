package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/CTAG07/charkov/pkg/markov"
	"github.com/natefinch/atomic"
)

// generateArgs holds the positional arguments of the generate command.
type generateArgs struct {
	window int
	seed   string
	length int
	mode   string
	corpus []string
}

func parseGenerateArgs(args []string) (generateArgs, error) {
	if len(args) < 5 {
		return generateArgs{}, usagef("expected <window> <seed> <length> <fixed|random> <corpus>..., got %d arguments", len(args))
	}

	window, err := parseWindow(args[0])
	if err != nil {
		return generateArgs{}, err
	}
	length, err := strconv.Atoi(args[2])
	if err != nil || length < 0 {
		return generateArgs{}, usagef("length must be a non-negative integer, got %q", args[2])
	}
	mode, err := parseMode(args[3])
	if err != nil {
		return generateArgs{}, err
	}

	return generateArgs{
		window: window,
		seed:   args[1],
		length: length,
		mode:   mode,
		corpus: args[4:],
	}, nil
}

func cmdGenerate(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	common := registerCommon(fs)
	pruneMin := fs.Int("prune", 0, "drop transitions seen this many times or fewer before generating")
	outPath := fs.String("out", "", "write the result to this `file` instead of standard output")
	wrap := fs.Int("wrap", -1, "wrap output at this many display columns, 0 disables (overrides config)")
	colorMode := fs.String("color", "", "auto, always or never (overrides config)")
	fs.Usage = func() {
		_, _ = fmt.Fprintln(stderr, "Usage: charkov generate [flags] <window> <seed> <length> <fixed|random> <corpus>...")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	ga, err := parseGenerateArgs(fs.Args())
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

	model, err := e.trainModel(ctx, ga.window, ga.mode, ga.corpus)
	if err != nil {
		return err
	}
	if *pruneMin > 0 {
		model.Prune(*pruneMin)
	}

	result, err := model.Generate(ga.seed, ga.length)
	if err != nil {
		return err
	}
	e.reportShortfall(model, ga.seed, result, ga.length)

	if *outPath != "" {
		if err = atomic.WriteFile(*outPath, strings.NewReader(result)); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		e.logger.Info("Generated text written",
			slog.String("path", *outPath),
			slog.Int("runes", utf8.RuneCountInString(result)),
		)
		return nil
	}

	return render(stdout, result, utf8.RuneCountInString(ga.seed), e.cfg.WrapWidth, newPalette(e.cfg.Color))
}

// reportShortfall logs why a generation produced fewer characters than
// requested, suggesting nearby windows when the seed itself was a dead end.
func (e *env) reportShortfall(model *markov.Model, seed, result string, length int) {
	seedLen := utf8.RuneCountInString(seed)
	generated := utf8.RuneCountInString(result) - seedLen
	if generated >= length {
		return
	}

	k := model.WindowLength()
	if seedLen < k {
		e.logger.Warn("Seed is shorter than the window length, returning it unchanged",
			slog.Int("seed_length", seedLen),
			slog.Int("window_length", k),
		)
		return
	}
	if generated > 0 {
		e.logger.Info("Generation reached a window that never appeared in the corpus",
			slog.Int("generated_length", generated),
			slog.Int("requested_length", length),
		)
		return
	}

	window := string([]rune(seed)[:k])
	e.logger.Warn("Seed window never appeared in the corpus",
		slog.String("window", window),
		slog.Any("closest_windows", suggestWindows(model.Windows(), window, e.cfg.Suggestions)),
	)
}
