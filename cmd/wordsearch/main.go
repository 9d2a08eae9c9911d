package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/gookit/color"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/kyiku/wordsearch-back/internal/definition"
	"github.com/kyiku/wordsearch-back/internal/placement"
	"github.com/kyiku/wordsearch-back/internal/puzzle"
	"github.com/kyiku/wordsearch-back/internal/render"
	"github.com/kyiku/wordsearch-back/internal/shapes"
	"github.com/kyiku/wordsearch-back/internal/util"
	"github.com/kyiku/wordsearch-back/internal/wordlist"
)

const defaultWidth = 80

var colorWarning = color.Style{color.FgYellow, color.OpBold}

type options struct {
	file        string
	level       string
	secretLevel string
	secret      string
	size        int
	seed        int64
	shape       string
	random      int
	theme       string
	format      string
	solution    bool
	lowercase   bool
	verbose     bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("wordsearch", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts options
	fs.StringVar(&opts.file, "f", "", "YAML or JSON puzzle definition file")
	fs.StringVar(&opts.level, "l", "", "level number or comma separated directions, e.g. 3 or N,E,S")
	fs.StringVar(&opts.secretLevel, "sl", "", "level for secret words")
	fs.StringVar(&opts.secret, "x", "", "secret words, comma separated")
	fs.IntVar(&opts.size, "s", 0, fmt.Sprintf("puzzle size (%d-%d), 0 picks one", puzzle.MinSize, puzzle.MaxSize))
	fs.Int64Var(&opts.seed, "seed", 0, "random seed, 0 for a random puzzle")
	fs.StringVar(&opts.shape, "shape", "", "mask shape: "+strings.Join(shapes.Names(), ", "))
	fs.IntVar(&opts.random, "r", 0, fmt.Sprintf("generate with n random words (1-%d)", util.MaxWords))
	fs.StringVar(&opts.theme, "theme", "", "theme for -r")
	fs.StringVar(&opts.format, "o", "text", "output format: text, key or json")
	fs.BoolVar(&opts.solution, "c", false, "show the solution")
	fs.BoolVar(&opts.lowercase, "lower", false, "print lowercase letters")
	fs.BoolVar(&opts.verbose, "v", false, "log generation details")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: wordsearch [flags] [words...]")
		fmt.Fprintln(stderr, "Words are read from stdin when none are given.")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	def, err := buildDefinition(opts, fs.Args(), stdin)
	if err != nil {
		fmt.Fprintln(stderr, colorWarning.Sprint("error: "+err.Error()))
		return 1
	}

	log := logrus.New()
	log.SetOutput(stderr)
	log.SetLevel(logrus.WarnLevel)
	if opts.verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	p, err := def.Build(definition.BuildOptions{Logger: log})
	var missing *placement.MissingWordError
	if errors.As(err, &missing) {
		fmt.Fprintln(stderr, colorWarning.Sprintf("warning: %d word(s) could not be placed: %s",
			len(missing.Words), strings.Join(missing.Words, ", ")))
	} else if err != nil {
		fmt.Fprintln(stderr, colorWarning.Sprint("error: "+err.Error()))
		return 1
	}

	switch opts.format {
	case "json":
		out, err := render.JSON(p)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		fmt.Fprintln(stdout, out)
	case "key":
		for _, ks := range p.KeyStrings() {
			fmt.Fprintln(stdout, ks)
		}
	default:
		tty := isTerminal(stdout)
		if !tty {
			color.Disable()
		}
		if w := terminalWidth(stdout); tty && p.Size()*2 > w {
			fmt.Fprintln(stderr, colorWarning.Sprintf("warning: the puzzle is wider than the terminal (%d columns)", w))
		}
		fmt.Fprintln(stdout, render.Text(p, render.Options{
			Solution:  opts.solution,
			Color:     tty,
			Lowercase: opts.lowercase,
		}))
	}
	return 0
}

// buildDefinition merges the definition file, if any, with the flags and
// positional words. Flags win over the file.
func buildDefinition(opts options, args []string, stdin io.Reader) (*definition.Definition, error) {
	switch opts.format {
	case "text", "key", "json":
	default:
		return nil, fmt.Errorf("unknown output format: %q", opts.format)
	}

	def := &definition.Definition{}
	if opts.file != "" {
		var err error
		if def, err = definition.Load(opts.file); err != nil {
			return nil, err
		}
	}

	words := util.CleanInput(strings.Join(args, " "), util.MaxWords)
	if opts.random > 0 {
		if opts.random > util.MaxWords {
			return nil, fmt.Errorf("-r must be between 1 and %d", util.MaxWords)
		}
		dataset := wordlist.NewDataset(rand.New(rand.NewSource(seedOrNow(opts.seed))))
		random, err := dataset.Random(opts.theme, opts.random, 3, 0)
		if err != nil {
			return nil, err
		}
		words = append(words, random...)
	}
	if len(words) == 0 && opts.file == "" {
		data, err := io.ReadAll(io.LimitReader(stdin, 1<<20))
		if err != nil {
			return nil, fmt.Errorf("failed to read words: %w", err)
		}
		words = util.CleanInput(string(data), util.MaxWords)
	}
	if len(words) > 0 {
		def.Words = words
	}
	if opts.secret != "" {
		def.SecretWords = util.CleanInput(opts.secret, util.MaxWords)
	}
	if opts.level != "" {
		def.Level = definition.Level(opts.level)
	}
	if opts.secretLevel != "" {
		def.SecretLevel = definition.Level(opts.secretLevel)
	}
	if opts.size != 0 {
		def.Size = opts.size
	}
	if opts.seed != 0 {
		def.Seed = opts.seed
	}
	if opts.shape != "" {
		def.Masks = append(def.Masks, definition.MaskDef{Shape: opts.shape})
	}

	if err := def.Validate(); err != nil {
		return nil, err
	}
	return def, nil
}

func seedOrNow(seed int64) int64 {
	if seed != 0 {
		return seed
	}
	return time.Now().UnixNano()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// terminalWidth falls back to defaultWidth when the size is unknown.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return defaultWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return defaultWidth
	}
	return width
}
