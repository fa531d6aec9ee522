package main

import (
	"context"
	"flag"
	"fmt"
	"io"
)

func cmdDump(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("dump", flag.ContinueOnError)
	fs.SetOutput(stderr)
	common := registerCommon(fs)
	statsOnly := fs.Bool("stats", false, "print only the summary line")
	pruneMin := fs.Int("prune", 0, "drop transitions seen this many times or fewer before dumping")
	fs.Usage = func() {
		_, _ = fmt.Fprintln(stderr, "Usage: charkov dump [flags] <window> <corpus>...")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return usagef("expected <window> <corpus>..., got %d arguments", fs.NArg())
	}
	window, err := parseWindow(fs.Arg(0))
	if err != nil {
		return err
	}

	e, err := common.setup(stdin, stdout, stderr, nil)
	if err != nil {
		return err
	}
	defer e.close()

	// Dumping never samples, so the mode does not matter.
	model, err := e.trainModel(ctx, window, modeFixed, fs.Args()[1:])
	if err != nil {
		return err
	}
	if *pruneMin > 0 {
		model.Prune(*pruneMin)
	}

	if err = writeStats(stdout, model.Stats()); err != nil {
		return err
	}
	if *statsOnly {
		return nil
	}
	return writeDump(stdout, model)
}
