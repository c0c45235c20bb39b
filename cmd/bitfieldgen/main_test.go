package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const statusSrc = `package regs

// Level is a severity.
type Level uint8

// Device status register.
//
// @bitfield overlap=deny
// pub struct Status: u16 {
//     pub ready: bool @ 0..=0,
//     pub level: Level @ 1..4,
//     pub mode: u8 @ 4..6 => modeName,
//     pub count: u8 @ 8.. => |v| v * 2,
// }

func modeName(m uint8) string {
	return [...]string{"off", "low", "high", "max"}[m&3]
}
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCmd(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestGenerate(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "status.go", statusSrc)

	code, _, stderr := runCmd(t, input)
	if code != exitOK {
		t.Fatalf("exit %d, stderr:\n%s", code, stderr)
	}

	out, err := os.ReadFile(filepath.Join(dir, "status_bitfield.go"))
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	for _, want := range []string{
		"// Code generated by bitfieldgen. DO NOT EDIT.",
		"// Source: status.go",
		"package regs",
		"type Status struct",
		"func (b Status) Level() Level {",
		"return modeName(v)",
		"statusCountTransform",
	} {
		if !strings.Contains(string(out), want) {
			t.Errorf("output missing %q", want)
		}
	}
	if !strings.Contains(stderr, "wrote") {
		t.Errorf("stderr = %q, want a wrote message", stderr)
	}

	// a second run is a no-op and -check passes
	if code, _, stderr := runCmd(t, "-check", input); code != exitOK {
		t.Errorf("-check after generation: exit %d, stderr:\n%s", code, stderr)
	}
}

func TestCheckAndDiff(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "status.go", statusSrc)
	output := writeFile(t, dir, "status_bitfield.go", "package regs\n")

	code, _, stderr := runCmd(t, "-check", input)
	if code != exitError || !strings.Contains(stderr, "out of date") {
		t.Errorf("-check: exit %d, stderr %q; want 1 and out of date", code, stderr)
	}

	code, stdout, _ := runCmd(t, "-d", input)
	if code != exitOK {
		t.Errorf("-d: exit %d", code)
	}
	for _, want := range []string{"--- " + output, "+++ " + output + " (generated)", "+type Status struct"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("-d output missing %q:\n%s", want, stdout)
		}
	}

	// neither mode writes
	if got, _ := os.ReadFile(output); string(got) != "package regs\n" {
		t.Error("-check or -d modified the output file")
	}
}

func TestOutputFlag(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "status.go", statusSrc)
	output := filepath.Join(dir, "gen.go")

	if code, _, stderr := runCmd(t, "-o", output, "-pkg", "other", input); code != exitOK {
		t.Fatalf("exit %d, stderr:\n%s", code, stderr)
	}
	out, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), "package other") {
		t.Error("-pkg not applied")
	}

	if code, _, _ := runCmd(t, "-o", output, input, input); code != exitUsage {
		t.Errorf("-o with two inputs: exit %d, want %d", code, exitUsage)
	}
}

func TestDeclarationErrors(t *testing.T) {
	// the directory name is no package name; declaration errors still come first
	dir := filepath.Join(t.TempDir(), "001")
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	input := writeFile(t, dir, "bad.bf", `struct Bad: u8 {
    f: u8 @ 4..9,
    g: i8 @ 0..1,
}
`)

	code, _, stderr := runCmd(t, input)
	if code != exitError {
		t.Fatalf("exit %d, want %d", code, exitError)
	}
	for _, want := range []string{
		input + ":2:13: Bad.f: invalid range",
		input + ":3:8: Bad.g: unsupported field type",
	} {
		if !strings.Contains(stderr, want) {
			t.Errorf("stderr missing %q:\n%s", want, stderr)
		}
	}
	if strings.Contains(stderr, "cannot derive a package name") {
		t.Errorf("package name error reported before declaration errors:\n%s", stderr)
	}
	if _, err := os.Stat(filepath.Join(dir, "bad_bitfield.go")); err == nil {
		t.Error("output written despite errors")
	}
}

func TestTextAndYAMLInputs(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "regs")
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	text := writeFile(t, dir, "ctl.bf", "pub struct Ctl: u8 { pub en: bool @ 7..=7 }\n")
	doc := writeFile(t, dir, "irq.yaml", `
bitfields:
  - name: Irq
    pub: true
    type: u32
    fields:
      - {name: pending, pub: true, type: u16, bits: "0..16"}
`)

	if code, _, stderr := runCmd(t, "-set", "jobs=1", text, doc); code != exitOK {
		t.Fatalf("exit %d, stderr:\n%s", code, stderr)
	}

	for name, want := range map[string]string{
		"ctl_bitfield.go": "func (b Ctl) En() bool",
		"irq_bitfield.go": "func (b Irq) Pending() uint16",
	} {
		out, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("%s not written: %v", name, err)
		}
		if !strings.Contains(string(out), "package regs") || !strings.Contains(string(out), want) {
			t.Errorf("%s missing package regs or %q", name, want)
		}
	}
}

func TestConfigAndReport(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "ctl.go", `package ctl

// @bitfield
// pub struct Ctl: u8 {
//     pub lvl: Level @ 0..2,
//     pub a: u8 @ 1..3,
// }
`)
	cfg := writeFile(t, dir, "bitfieldgen.toml", `
suffix = "_gen.go"
report = "md"

[types]
Level = "u8"

[files."ctl.go"]
overlap = "deny"
`)

	// the [files] entry denies the overlap between lvl and a
	code, _, stderr := runCmd(t, "-config", cfg, input)
	if code != exitError || !strings.Contains(stderr, "overlapping fields") {
		t.Fatalf("exit %d, stderr %q; want overlap error", code, stderr)
	}

	input = writeFile(t, dir, "ctl.go", `package ctl

// @bitfield
// pub struct Ctl: u8 {
//     pub lvl: Level @ 0..2,
//     pub a: u8 @ 2..4,
// }
`)
	if code, _, stderr := runCmd(t, "-config", cfg, input); code != exitOK {
		t.Fatalf("exit %d, stderr:\n%s", code, stderr)
	}

	out, err := os.ReadFile(filepath.Join(dir, "ctl_gen.go"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), "func (b Ctl) Lvl() Level") {
		t.Error("configured type Level not used")
	}

	md, err := os.ReadFile(filepath.Join(dir, "ctl_gen.md"))
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	if !strings.Contains(string(md), "## Ctl") {
		t.Errorf("report = %s", md)
	}
}

func TestDump(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "status.go", statusSrc)
	empty := writeFile(t, dir, "empty.go", "package regs\n")

	code, stdout, stderr := runCmd(t, "-dump", input, empty)
	if code != exitOK {
		t.Fatalf("exit %d, stderr:\n%s", code, stderr)
	}
	for _, want := range []string{
		"Status (type=uint16, width=16, mask=0xff3f, overlap=deny)",
		"ready",
		"[8, 16)",
		"=> modeName",
		"=> v * 2",
		empty + ": no bitfield declarations found",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("dump missing %q:\n%s", want, stdout)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "status_bitfield.go")); err == nil {
		t.Error("-dump wrote output")
	}
}

func TestUsage(t *testing.T) {
	tests := [][]string{
		{},
		{"-nope"},
		{"-set", "nope=1", "x.go"},
		{"-report", "pdf", "x.go"},
		{"-config", "/does/not/exist.toml", "x.go"},
	}
	for _, args := range tests {
		if code, _, _ := runCmd(t, args...); code != exitUsage {
			t.Errorf("run(%q) = %d, want %d", args, code, exitUsage)
		}
	}
}

func TestExampleUpToDate(t *testing.T) {
	input := filepath.Join("..", "..", "example", "flags.go")

	code, stdout, stderr := runCmd(t, "-d", input)
	if code != exitOK {
		t.Fatalf("exit %d, stderr:\n%s", code, stderr)
	}
	if stdout != "" {
		t.Errorf("example/flags_bitfield.go is stale, run go generate ./example:\n%s", stdout)
	}
}
