package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"go/token"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/alexhholmes/bitfield/internal/analyzer"
	"github.com/alexhholmes/bitfield/internal/codegen"
	"github.com/alexhholmes/bitfield/internal/config"
	"github.com/alexhholmes/bitfield/internal/parser"
	"github.com/alexhholmes/bitfield/internal/report"
)

type generator struct {
	cfg    *config.Config
	output string // -o, empty for the default name
	write  bool
	logger *slog.Logger
}

type result struct {
	input  string
	output string
	stale  bool   // output differs from what is on disk
	diff   string // unified diff when stale
	err    error
}

// input is a parsed input file
type input struct {
	path  string
	pkg   string
	decls []*parser.Bitfield
	types map[string]string
	funcs map[string]parser.FuncSig
}

// readInput parses path according to its extension: Go source, YAML, or
// plain declaration text.
func readInput(path string) (*input, error) {
	in := &input{path: path}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".go":
		file, err := parser.ParseFile(path)
		if err != nil {
			return nil, err
		}
		in.pkg = file.Package
		in.decls = file.Bitfields
		in.types = file.Types
		in.funcs = file.Funcs

	case ".yaml", ".yml":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		if in.decls, err = parser.ParseYAML(path, f); err != nil {
			return nil, err
		}

	default:
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if in.decls, err = parser.Parse(path, string(src)); err != nil {
			return nil, err
		}
	}

	return in, nil
}

// packageName picks the package clause for generated code: the config, the
// Go input's own package, or the input directory name.
func (in *input) packageName(cfg *config.Config) (string, error) {
	if cfg.Package != "" {
		return cfg.Package, nil
	}
	if in.pkg != "" {
		return in.pkg, nil
	}
	abs, err := filepath.Abs(in.path)
	if err != nil {
		return "", err
	}
	dir := filepath.Base(filepath.Dir(abs))
	if token.IsIdentifier(dir) && !token.IsKeyword(dir) {
		return dir, nil
	}
	return "", fmt.Errorf("%s: cannot derive a package name from %q, use -pkg", in.path, dir)
}

func (in *input) analyze(cfg *config.Config, logger *slog.Logger) ([]*analyzer.Container, error) {
	reg := analyzer.NewTypeRegistry()
	for _, name := range cfg.TypeNames() {
		reg.RegisterAlias(name, cfg.Types[name])
	}
	for name, underlying := range in.types {
		reg.RegisterAlias(name, underlying)
	}

	return analyzer.AnalyzeAll(in.decls, analyzer.Options{
		Overlap:  cfg.Overlap,
		Bounds:   cfg.Bounds,
		Registry: reg,
		Sigs:     in.funcs,
		Logger:   logger,
	})
}

// outputPath returns name_bitfield.go for name.ext.
func outputPath(path, suffix string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + suffix
}

func (g *generator) generate(ctx context.Context, path string) result {
	res := result{input: path}
	if err := ctx.Err(); err != nil {
		res.err = err
		return res
	}

	logger := g.logger.With("file", path)

	cfg, err := g.cfg.For(filepath.Base(path))
	if err != nil {
		res.err = err
		return res
	}

	in, err := readInput(path)
	if err != nil {
		res.err = err
		return res
	}
	if len(in.decls) == 0 {
		logger.Warn("no bitfield declarations")
		return res
	}

	containers, err := in.analyze(cfg, logger)
	if err != nil {
		res.err = err
		return res
	}

	pkg, err := in.packageName(cfg)
	if err != nil {
		res.err = err
		return res
	}

	code, err := codegen.NewGenerator(pkg, filepath.Base(path), containers).Generate()
	if err != nil {
		res.err = fmt.Errorf("%s: %w", path, err)
		return res
	}

	res.output = g.output
	if res.output == "" {
		res.output = outputPath(path, cfg.Suffix)
	}

	existing, err := os.ReadFile(res.output)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		res.err = err
		return res
	}
	res.stale = !bytes.Equal(existing, code)

	if res.stale && !g.write {
		res.diff, err = difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(string(existing)),
			B:        difflib.SplitLines(string(code)),
			FromFile: res.output,
			ToFile:   res.output + " (generated)",
			Context:  3,
		})
		if err != nil {
			res.err = err
		}
		return res
	}

	if g.write {
		if res.stale {
			if err := os.WriteFile(res.output, code, 0o644); err != nil {
				res.err = err
				return res
			}
			logger.Info("wrote", "output", res.output, "containers", len(containers))
		} else {
			logger.Debug("unchanged", "output", res.output)
		}

		if cfg.Report != "" {
			if err := g.writeReport(cfg.Report, res.output, containers); err != nil {
				res.err = err
				return res
			}
		}
	}

	return res
}

func (g *generator) writeReport(kind, output string, containers []*analyzer.Container) error {
	base := strings.TrimSuffix(output, ".go")
	title := filepath.Base(base)

	var (
		data []byte
		path string
	)
	switch kind {
	case "md":
		data, path = report.Markdown(title, containers), base+".md"
	case "html":
		data, path = report.HTML(title, containers), base+".html"
	default:
		return fmt.Errorf("unknown report format %q", kind)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	g.logger.Debug("wrote report", "path", path)
	return nil
}
