package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Suffix != "_bitfield.go" || cfg.Overlap != "allow" || cfg.Bounds != "implicit" {
		t.Errorf("Default() = %+v", cfg)
	}
	if cfg.Jobs != 4 || cfg.Color != "auto" || cfg.LogLevel != "info" || cfg.Report != "" {
		t.Errorf("Default() = %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() error: %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bitfieldgen.toml")
	src := `
overlap = "deny"
jobs = 2

[types]
Level = "uint8"
Mode = "u8"

[files."status.go"]
package = "regs"
bounds = "explicit"
`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Overlap != "deny" || cfg.Jobs != 2 {
		t.Errorf("overlap, jobs = %s, %d; want deny, 2", cfg.Overlap, cfg.Jobs)
	}
	// unset keys keep their defaults
	if cfg.Suffix != "_bitfield.go" || cfg.Bounds != "implicit" {
		t.Errorf("suffix, bounds = %s, %s", cfg.Suffix, cfg.Bounds)
	}
	if got := cfg.TypeNames(); !reflect.DeepEqual(got, []string{"Level", "Mode"}) {
		t.Errorf("TypeNames() = %v", got)
	}
	if fc := cfg.Files["status.go"]; fc.Package != "regs" || fc.Bounds != "explicit" {
		t.Errorf("files[status.go] = %+v", fc)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"unknown key", `colour = "never"`, "unknown keys: colour"},
		{"bad enum", `overlap = "sometimes"`, "overlap must be one of allow, deny"},
		{"bad jobs", `jobs = 0`, "jobs must be at least 1"},
		{"bad suffix", `suffix = "_gen.txt"`, "suffix must end in .go"},
		{"bad file entry", "[files.\"a.go\"]\nbounds = \"loose\"", "files.a.go.bounds"},
		{"syntax", `jobs = = 4`, "toml: line 1"},
		{"truncated", `jobs = `, "toml: line"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.src))
			if err == nil {
				t.Fatal("Parse() succeeded")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Parse() error = %q, want it to contain %q", err, tt.want)
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("Load() of a missing file succeeded")
	}
}

func TestOverride(t *testing.T) {
	cfg := Default()
	err := cfg.Override([]string{"jobs=8", "overlap=deny", "types.Level=uint8", "package=regs"})
	if err != nil {
		t.Fatalf("Override() error: %v", err)
	}
	if cfg.Jobs != 8 || cfg.Overlap != "deny" || cfg.Package != "regs" {
		t.Errorf("Override() = %+v", cfg)
	}
	if cfg.Types["Level"] != "uint8" {
		t.Errorf("types = %v", cfg.Types)
	}

	for _, bad := range [][]string{{"jobs"}, {"=1"}, {"nope=1"}, {"jobs=many"}, {"bounds=loose"}} {
		if err := Default().Override(bad); err == nil {
			t.Errorf("Override(%q) succeeded", bad)
		}
	}
}

func TestFor(t *testing.T) {
	cfg := Default()
	cfg.Types = map[string]string{"Level": "uint8"}
	cfg.Files = map[string]FileConfig{
		"status.go": {Package: "regs", Overlap: "deny"},
	}

	status, err := cfg.For("status.go")
	if err != nil {
		t.Fatalf("For() error: %v", err)
	}
	if status.Package != "regs" || status.Overlap != "deny" || status.Bounds != "implicit" {
		t.Errorf("For(status.go) = %+v", status)
	}

	// the copy does not alias the base config
	status.Types["Mode"] = "uint8"
	if _, ok := cfg.Types["Mode"]; ok {
		t.Error("For() result shares Types with the base config")
	}
	if cfg.Overlap != "allow" {
		t.Errorf("base overlap changed to %s", cfg.Overlap)
	}

	other, err := cfg.For("other.go")
	if err != nil {
		t.Fatalf("For() error: %v", err)
	}
	if other.Package != "" || other.Overlap != "allow" {
		t.Errorf("For(other.go) = %+v", other)
	}
}
