package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/CTAG07/charkov/pkg/corpus"
	"github.com/CTAG07/charkov/pkg/markov"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

const (
	modeFixed  = "fixed"
	modeRandom = "random"
)

const usage = `charkov trains a character-level Markov model and generates text from it.

Usage:
  charkov <window> <seed> <length> <fixed|random> <corpus>...
  charkov generate [flags] <window> <seed> <length> <fixed|random> <corpus>...
  charkov repl [flags] <window> <fixed|random> <corpus>...
  charkov dump [flags] <window> <corpus>...
  charkov corpus import [flags] <name> <file|->
  charkov corpus list [flags]
  charkov corpus rm [flags] <name>
  charkov version

A corpus is a file path, "-" for standard input, or "db:<name>" for a
document imported into the corpus database.

Run "charkov <command> -h" for the flags of a command.
`

// usageError marks errors caused by invalid arguments.
type usageError struct {
	msg string
}

func (e usageError) Error() string {
	return e.msg
}

func usagef(format string, args ...any) error {
	return usageError{msg: fmt.Sprintf(format, args...)}
}

func main() {
	// A missing .env file is fine.
	_ = godotenv.Load()
	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run dispatches to a subcommand and returns the process exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		_, _ = fmt.Fprint(stderr, usage)
		return 2
	}

	var err error
	switch cmd, rest := args[0], args[1:]; cmd {
	case "generate":
		err = cmdGenerate(ctx, rest, stdin, stdout, stderr)
	case "repl":
		err = cmdRepl(ctx, rest, stdin, stdout, stderr)
	case "dump":
		err = cmdDump(ctx, rest, stdin, stdout, stderr)
	case "corpus":
		err = cmdCorpus(ctx, rest, stdin, stdout, stderr)
	case "version":
		_, _ = fmt.Fprintf(stdout, "charkov %s (commit %s, built %s)\n", Version, Commit, BuildDate)
	case "help", "-h", "-help", "--help":
		_, _ = fmt.Fprint(stdout, usage)
	default:
		// The bare positional form starts with the window length.
		if _, convErr := strconv.Atoi(cmd); convErr != nil {
			_, _ = fmt.Fprintf(stderr, "charkov: unknown command %q\n\n%s", cmd, usage)
			return 2
		}
		err = cmdGenerate(ctx, args, stdin, stdout, stderr)
	}

	if err == nil || errors.Is(err, flag.ErrHelp) {
		return 0
	}
	_, _ = fmt.Fprintf(stderr, "charkov: %v\n", err)
	var ue usageError
	if errors.As(err, &ue) {
		return 2
	}
	return 1
}

// commonFlags are accepted by every subcommand.
type commonFlags struct {
	configPath string
	dbPath     string
	logLevel   string
	normalize  string
}

func registerCommon(fs *flag.FlagSet) *commonFlags {
	c := &commonFlags{}
	fs.StringVar(&c.configPath, "config", os.Getenv("CHARKOV_CONFIG"), "JSON config file, created with defaults if missing")
	fs.StringVar(&c.dbPath, "db", "", "corpus database `path` (overrides config)")
	fs.StringVar(&c.logLevel, "log-level", "", "debug, info, warn or error (overrides config)")
	fs.StringVar(&c.normalize, "normalize", "", "Unicode normalization of corpus text: none, nfc, nfd, nfkc or nfkd")
	return c
}

// env carries the configuration and shared resources of one command run.
type env struct {
	cfg    *Config
	logger *slog.Logger
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	db     *sql.DB
	store  *corpus.Store
}

// setup loads the config, applies environment and flag overrides in that
// order, and builds the logger. override may adjust command-specific values.
func (c *commonFlags) setup(stdin io.Reader, stdout, stderr io.Writer, override func(*Config)) (*env, error) {
	cfg, err := LoadConfig(c.configPath)
	var saveErr error
	if errors.Is(err, ErrConfigNotSaved) {
		saveErr, err = err, nil
	}
	if err != nil {
		return nil, err
	}
	if err = cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if c.dbPath != "" {
		cfg.DatabasePath = c.dbPath
	}
	if c.logLevel != "" {
		cfg.LogLevel = c.logLevel
	}
	if c.normalize != "" {
		cfg.Normalize = c.normalize
	}
	if override != nil {
		override(cfg)
	}
	if err = cfg.Validate(); err != nil {
		return nil, usageError{msg: err.Error()}
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: parseLogLevel(cfg.LogLevel)})).
		With(slog.String("run_id", uuid.NewString()))
	if saveErr != nil {
		logger.Warn("Using default config", slog.String("path", c.configPath), slog.Any("error", saveErr))
	}

	return &env{
		cfg:    cfg,
		logger: logger,
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
	}, nil
}

// openStore opens the corpus database on first use.
func (e *env) openStore() (*corpus.Store, error) {
	if e.store != nil {
		return e.store, nil
	}

	db, err := initDB(e.cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	if err = corpus.SetupSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	store, err := corpus.NewStore(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("error creating corpus store: %w", err)
	}
	store.SetLogger(e.logger)

	e.logger.Debug("Corpus database opened",
		slog.String("driver", sqliteDriver),
		slog.String("path", e.cfg.DatabasePath),
	)
	e.db, e.store = db, store
	return store, nil
}

func (e *env) close() {
	if e.store != nil {
		e.store.Close()
	}
	if e.db != nil {
		if err := e.db.Close(); err != nil {
			e.logger.Error("Failed to close database", "error", err)
		}
	}
}

// loadCorpus resolves every reference, opening the corpus database only if
// one of them points into it.
func (e *env) loadCorpus(ctx context.Context, refs []string) ([]string, error) {
	normalize, err := corpus.ParseNormalization(e.cfg.Normalize)
	if err != nil {
		return nil, usageError{msg: err.Error()}
	}

	var store *corpus.Store
	for _, ref := range refs {
		if strings.HasPrefix(ref, corpus.StorePrefix) {
			if store, err = e.openStore(); err != nil {
				return nil, err
			}
			break
		}
	}

	loader := corpus.NewLoader(store, e.stdin, normalize)
	loader.SetLogger(e.logger)
	return loader.LoadAll(ctx, refs)
}

// trainModel creates a model in the given mode and trains it on each corpus
// in turn. Windows never span two corpora.
func (e *env) trainModel(ctx context.Context, window int, mode string, refs []string) (*markov.Model, error) {
	var opts []markov.Option
	if mode == modeFixed {
		opts = append(opts, markov.WithSeed(e.cfg.FixedSeed))
	}
	model, err := markov.New(window, opts...)
	if err != nil {
		return nil, usageError{msg: err.Error()}
	}
	model.SetLogger(e.logger)

	texts, err := e.loadCorpus(ctx, refs)
	if err != nil {
		return nil, err
	}
	for _, text := range texts {
		model.Train(text)
	}
	return model, nil
}

func parseWindow(s string) (int, error) {
	window, err := strconv.Atoi(s)
	if err != nil || window <= 0 {
		return 0, usagef("window length must be a positive integer, got %q", s)
	}
	return window, nil
}

func parseMode(s string) (string, error) {
	switch s {
	case modeFixed, modeRandom:
		return s, nil
	default:
		return "", usagef("mode must be %q or %q, got %q", modeFixed, modeRandom, s)
	}
}
