package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/alexhholmes/bitfield/internal/config"
)

// dumpFiles prints the analyzed layout of every input.
func dumpFiles(inputs []string, base *config.Config, stdout, stderr io.Writer) int {
	code := exitOK
	for _, path := range inputs {
		cfg, err := base.For(filepath.Base(path))
		if err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			code = exitError
			continue
		}

		in, err := readInput(path)
		if err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			code = exitError
			continue
		}

		if len(in.decls) == 0 {
			fmt.Fprintf(stdout, "%s: no bitfield declarations found\n", path)
			continue
		}

		containers, err := in.analyze(cfg, nil)
		if err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			code = exitError
			continue
		}

		for _, c := range containers {
			fmt.Fprintf(stdout, "\n%s (type=%s, width=%d, mask=%#x, overlap=%s)\n", c.Name, c.Type.Name, c.Width, c.DataMask, c.Overlap)
			fmt.Fprintln(stdout, "Fields:")
			for _, f := range c.Fields {
				fmt.Fprintf(stdout, "  %-15s %-10s %-10s %s", f.Name, f.Type.Name, f.Range, f.Output.Name)
				if f.Transform != nil {
					fmt.Fprintf(stdout, " => %s%s", f.Transform.Func, f.Transform.Expr)
				}
				fmt.Fprintln(stdout)
			}
		}
	}
	return code
}
