// Command bitfieldgen generates Go accessors for bitfield declarations.
//
// Usage:
//
//	bitfieldgen [flags] <file.go|file.bf|file.yaml>...
//
// Go inputs carry declarations in comments that start with @bitfield.
// Every input produces <name>_bitfield.go next to it.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/sync/errgroup"

	"github.com/alexhholmes/bitfield/internal/analyzer"
	"github.com/alexhholmes/bitfield/internal/config"
	"github.com/alexhholmes/bitfield/internal/logging"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

type stringsFlag []string

func (s *stringsFlag) String() string { return strings.Join(*s, ",") }

func (s *stringsFlag) Set(v string) error {
	*s = append(*s, v)
	return nil
}

type flags struct {
	config  string
	pkg     string
	output  string
	diff    bool
	check   bool
	dump    bool
	report  string
	sets    stringsFlag
	verbose bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	var f flags
	fs := flag.NewFlagSet("bitfieldgen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.config, "config", "", "TOML config `file`")
	fs.StringVar(&f.pkg, "pkg", "", "package name of generated files")
	fs.StringVar(&f.output, "o", "", "output `file` (single input only)")
	fs.BoolVar(&f.diff, "d", false, "print a diff against existing output instead of writing")
	fs.BoolVar(&f.check, "check", false, "exit 1 if any output is out of date")
	fs.BoolVar(&f.dump, "dump", false, "print parsed declarations and exit")
	fs.StringVar(&f.report, "report", "", "also write a register map: md or html")
	fs.Var(&f.sets, "set", "config override `key=value` (repeatable)")
	fs.BoolVar(&f.verbose, "v", false, "debug logging")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: bitfieldgen [flags] <file.go|file.bf|file.yaml>...\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	inputs := fs.Args()
	if len(inputs) == 0 {
		fs.Usage()
		return exitUsage
	}
	if f.output != "" && len(inputs) > 1 {
		fmt.Fprintln(stderr, "bitfieldgen: -o requires a single input")
		return exitUsage
	}

	cfg, err := loadConfig(f)
	if err != nil {
		fmt.Fprintf(stderr, "bitfieldgen: %v\n", err)
		return exitUsage
	}

	logger, useColor := newLogger(cfg, stderr)

	if f.dump {
		return dumpFiles(inputs, cfg, stdout, stderr)
	}

	g := &generator{
		cfg:    cfg,
		output: f.output,
		write:  !f.diff && !f.check,
		logger: logger,
	}
	results := g.runAll(context.Background(), inputs)

	errPrefix := color.New(color.FgRed, color.Bold)
	if useColor {
		errPrefix.EnableColor()
	} else {
		errPrefix.DisableColor()
	}

	code := exitOK
	for _, res := range results {
		if res.err != nil {
			printError(stderr, errPrefix, res.err)
			code = exitError
			continue
		}
		if f.diff && res.diff != "" {
			fmt.Fprint(stdout, res.diff)
		}
		if f.check && res.stale {
			fmt.Fprintf(stderr, "%s is out of date\n", res.output)
			code = exitError
		}
	}
	return code
}

func loadConfig(f flags) (*config.Config, error) {
	cfg := config.Default()
	if f.config != "" {
		var err error
		if cfg, err = config.Load(f.config); err != nil {
			return nil, err
		}
	}

	sets := append([]string(nil), f.sets...)
	if f.pkg != "" {
		sets = append(sets, "package="+f.pkg)
	}
	if f.report != "" {
		sets = append(sets, "report="+f.report)
	}
	if f.verbose {
		sets = append(sets, "log_level=debug")
	}
	if len(sets) > 0 {
		if err := cfg.Override(sets); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func newLogger(cfg *config.Config, stderr io.Writer) (*slog.Logger, bool) {
	file, _ := stderr.(*os.File)
	useColor := logging.UseColor(cfg.Color, file)

	// config validation only admits known levels
	level, _ := logging.ParseLevel(cfg.LogLevel)

	return logging.New(stderr, &logging.PrettyHandlerOptions{
		Level:    level,
		UseColor: useColor,
	}), useColor
}

// printError prints one line per validation error.
func printError(w io.Writer, prefix *color.Color, err error) {
	var list analyzer.ErrorList
	if errors.As(err, &list) {
		for _, fe := range list {
			fmt.Fprintf(w, "%s %v\n", prefix.Sprint("error:"), fe)
		}
		return
	}
	fmt.Fprintf(w, "%s %v\n", prefix.Sprint("error:"), err)
}

// runAll generates every input with at most cfg.Jobs files in flight.
// Results are in input order.
func (g *generator) runAll(ctx context.Context, inputs []string) []result {
	results := make([]result, len(inputs))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.cfg.Jobs)
	for i, input := range inputs {
		eg.Go(func() error {
			results[i] = g.generate(ctx, input)
			return nil
		})
	}
	_ = eg.Wait()

	return results
}
