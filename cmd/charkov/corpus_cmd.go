package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/CTAG07/charkov/pkg/corpus"
)

func cmdCorpus(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		return usagef("expected a corpus subcommand: import, list or rm")
	}
	sub, rest := args[0], args[1:]

	var want int
	switch sub {
	case "import":
		want = 2
	case "list":
		want = 0
	case "rm":
		want = 1
	default:
		return usagef("unknown corpus subcommand %q", sub)
	}

	fs := flag.NewFlagSet("corpus "+sub, flag.ContinueOnError)
	fs.SetOutput(stderr)
	common := registerCommon(fs)
	if err := fs.Parse(rest); err != nil {
		return err
	}
	if fs.NArg() != want {
		return usagef("corpus %s expects %d arguments, got %d", sub, want, fs.NArg())
	}

	e, err := common.setup(stdin, stdout, stderr, nil)
	if err != nil {
		return err
	}
	defer e.close()

	store, err := e.openStore()
	if err != nil {
		return err
	}

	switch sub {
	case "import":
		name, path := fs.Arg(0), fs.Arg(1)
		normalize, err := corpus.ParseNormalization(e.cfg.Normalize)
		if err != nil {
			return usageError{msg: err.Error()}
		}

		var r io.Reader = stdin
		if path != corpus.StdinRef {
			file, err := os.Open(path)
			if err != nil {
				return err
			}
			defer func(file *os.File) {
				_ = file.Close()
			}(file)
			r = file
		}

		doc, err := store.Put(ctx, name, r, normalize)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(stdout, "imported %s%s: %d characters, %d bytes\n", corpus.StorePrefix, doc.Name, doc.Runes, doc.Bytes)
		return err

	case "list":
		docs, err := store.List(ctx)
		if err != nil {
			return err
		}
		return writeDocuments(stdout, docs)

	default: // rm
		return store.Remove(ctx, fs.Arg(0))
	}
}
