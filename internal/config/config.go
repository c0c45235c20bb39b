// Package config loads bitfieldgen settings from a TOML file with
// command line overrides.
//
//	suffix = "_bitfield.go"
//	overlap = "deny"
//	jobs = 8
//
//	[types]
//	Level = "uint8"
//
//	[files."status.go"]
//	package = "regs"
//	bounds = "explicit"
package config

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/creasty/defaults"
	"github.com/mitchellh/copystructure"
	"github.com/mitchellh/mapstructure"

	"github.com/alexhholmes/bitfield/internal/parser"
)

// Config holds generator settings.
type Config struct {
	// Package overrides the package clause of generated files. Empty means
	// the package of the input file, or "main" for non Go inputs.
	Package string `toml:"package" mapstructure:"package"`

	Suffix  string `toml:"suffix" mapstructure:"suffix" default:"_bitfield.go"`
	Overlap string `toml:"overlap" mapstructure:"overlap" default:"allow"`
	Bounds  string `toml:"bounds" mapstructure:"bounds" default:"implicit"`

	// Jobs bounds the number of files generated concurrently.
	Jobs int `toml:"jobs" mapstructure:"jobs" default:"4"`

	Color    string `toml:"color" mapstructure:"color" default:"auto"`
	LogLevel string `toml:"log_level" mapstructure:"log_level" default:"info"`

	// Report writes a register map next to each output: "", "md" or "html".
	Report string `toml:"report" mapstructure:"report"`

	// Types declares named types available to every input, e.g.
	// Level = "uint8".
	Types map[string]string `toml:"types" mapstructure:"types"`

	Files map[string]FileConfig `toml:"files" mapstructure:"files"`
}

// FileConfig overrides settings for one input file, keyed by base name.
type FileConfig struct {
	Package string `toml:"package" mapstructure:"package"`
	Overlap string `toml:"overlap" mapstructure:"overlap"`
	Bounds  string `toml:"bounds" mapstructure:"bounds"`
	Report  string `toml:"report" mapstructure:"report"`
}

// Default returns a config with every default applied.
func Default() *Config {
	cfg := &Config{}
	defaults.MustSet(cfg)
	return cfg
}

// Load reads a TOML file over the defaults.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	defer f.Close()

	cfg, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse reads TOML from r over the defaults. Unknown keys are an error.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	md, err := toml.NewDecoder(r).Decode(cfg)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Override applies key=value pairs such as "jobs=8" or "types.Level=uint8".
func (c *Config) Override(pairs []string) error {
	input := make(map[string]any)
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return fmt.Errorf("config: invalid override %q, want key=value", pair)
		}
		if outer, inner, nested := strings.Cut(key, "."); nested {
			m, _ := input[outer].(map[string]any)
			if m == nil {
				m = make(map[string]any)
				input[outer] = m
			}
			m[inner] = value
			continue
		}
		input[key] = value
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           c,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(input); err != nil {
		return fmt.Errorf("config: override: %w", err)
	}
	return c.Validate()
}

// Clone returns a deep copy of c.
func (c *Config) Clone() (*Config, error) {
	out, err := copystructure.Copy(c)
	if err != nil {
		return nil, fmt.Errorf("config: clone: %w", err)
	}
	return out.(*Config), nil
}

// For returns the settings for one input file: a copy of c with the
// matching [files] entry applied.
func (c *Config) For(name string) (*Config, error) {
	out, err := c.Clone()
	if err != nil {
		return nil, err
	}
	fc, ok := c.Files[name]
	if !ok {
		return out, nil
	}
	if fc.Package != "" {
		out.Package = fc.Package
	}
	if fc.Overlap != "" {
		out.Overlap = fc.Overlap
	}
	if fc.Bounds != "" {
		out.Bounds = fc.Bounds
	}
	if fc.Report != "" {
		out.Report = fc.Report
	}
	return out, out.Validate()
}

// TypeNames returns the names in Types in sorted order.
func (c *Config) TypeNames() []string {
	names := make([]string, 0, len(c.Types))
	for name := range c.Types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func oneOf(key, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("config: %s must be one of %s, got %q", key, strings.Join(allowed, ", "), value)
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	if c.Suffix == "" || !strings.HasSuffix(c.Suffix, ".go") {
		return fmt.Errorf("config: suffix must end in .go, got %q", c.Suffix)
	}
	if c.Jobs < 1 {
		return fmt.Errorf("config: jobs must be at least 1, got %d", c.Jobs)
	}
	checks := []error{
		oneOf("overlap", c.Overlap, parser.OverlapAllow, parser.OverlapDeny),
		oneOf("bounds", c.Bounds, parser.BoundsImplicit, parser.BoundsExplicit),
		oneOf("color", c.Color, "auto", "always", "never"),
		oneOf("log_level", c.LogLevel, "debug", "info", "warn", "error"),
		oneOf("report", c.Report, "", "md", "html"),
	}
	for _, err := range checks {
		if err != nil {
			return err
		}
	}
	for name, fc := range c.Files {
		if fc.Overlap != "" {
			if err := oneOf("files."+name+".overlap", fc.Overlap, parser.OverlapAllow, parser.OverlapDeny); err != nil {
				return err
			}
		}
		if fc.Bounds != "" {
			if err := oneOf("files."+name+".bounds", fc.Bounds, parser.BoundsImplicit, parser.BoundsExplicit); err != nil {
				return err
			}
		}
	}
	return nil
}
