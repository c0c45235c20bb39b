package xform

import (
	"errors"
	"testing"
)

func TestCompileAndEval(t *testing.T) {
	tests := []struct {
		name    string
		expr    string
		in, out Kind
		arg     any
		want    any
	}{
		{"double", "2 * v", Uint8, Uint8, uint8(3), uint8(6)},
		{"table", "[0xAA, 0xBB, 0xCC, 0xDD][v]", Uint8, Uint8, uint8(3), uint8(0xDD)},
		{"widen", "v * 0x01010101", Uint8, Uint32, uint8(3), uint32(0x03030303)},
		{"bool", "!v", Bool, Bool, true, false},
		{"ternary", "v ? 'on' : 'off'", Bool, String, true, "on"},
		{"compare", "v > 2", Uint16, Bool, uint16(3), true},
		{"signed", "v - 8", Uint8, Int8, uint8(3), int8(-5)},
		{"float", "double(v) / 4.0", Uint8, Float64, uint8(3), 0.75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Compile("v", tt.expr, tt.in, tt.out)
			if err != nil {
				t.Fatalf("Compile(%q) error: %v", tt.expr, err)
			}

			got, err := f.Eval(tt.arg)
			if err != nil {
				t.Fatalf("Eval(%v) error: %v", tt.arg, err)
			}
			if got != tt.want {
				t.Errorf("Eval(%v) = %#v, want %#v", tt.arg, got, tt.want)
			}
		})
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name    string
		expr    string
		in, out Kind
	}{
		{"syntax", "2 *", Uint8, Uint8},
		{"unknown variable", "2 * x", Uint8, Uint8},
		{"bool into int", "v > 1", Uint8, Uint8},
		{"int into bool", "v + 1", Uint8, Bool},
		{"invalid kind", "v", Uint8, Invalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile("v", tt.expr, tt.in, tt.out)
			if err == nil {
				t.Fatalf("Compile(%q) expected error", tt.expr)
			}
			if !errors.Is(err, ErrTransform) {
				t.Errorf("Compile(%q) error %v does not wrap ErrTransform", tt.expr, err)
			}
		})
	}
}

func TestEvalOutOfRange(t *testing.T) {
	f := MustCompile("v", "[1, 2][v]", Uint8, Uint8)

	if _, err := f.Eval(uint8(5)); !errors.Is(err, ErrTransform) {
		t.Errorf("Eval(5) error = %v, want ErrTransform", err)
	}
}

func TestWideUnsignedInput(t *testing.T) {
	tests := []struct {
		name    string
		expr    string
		in, out Kind
		arg     any
		want    any
	}{
		{"halve", "v / 2", Uint64, Uint64, ^uint64(0), uint64(0x7FFFFFFFFFFFFFFF)},
		{"compare", "v > 5", Uint64, Bool, ^uint64(0), true},
		{"hex literal", "v == 0x10 ? 'x' : 'y'", Uint64, String, uint64(16), "x"},
		{"native word", "v * 2", Uint, Uint, uint(3), uint(6)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Compile("v", tt.expr, tt.in, tt.out)
			if err != nil {
				t.Fatalf("Compile(%q) error: %v", tt.expr, err)
			}

			got, err := f.Eval(tt.arg)
			if err != nil {
				t.Fatalf("Eval(%v) error: %v", tt.arg, err)
			}
			if got != tt.want {
				t.Errorf("Eval(%v) = %#v, want %#v", tt.arg, got, tt.want)
			}
		})
	}
}

func TestWideUnsignedIndex(t *testing.T) {
	// list indexing needs an int, values above math.MaxInt64 are rejected
	f := MustCompile("v", "[10, 20][v]", Uint64, Uint64)

	got, err := f.Eval(uint64(1))
	if err != nil || got != uint64(20) {
		t.Errorf("Eval(1) = %#v, %v; want uint64(20)", got, err)
	}
	if _, err := f.Eval(^uint64(0)); !errors.Is(err, ErrTransform) {
		t.Errorf("Eval(max) error = %v, want ErrTransform", err)
	}
}

type level uint8

func TestNamedInputType(t *testing.T) {
	f := MustCompile("lvl", "lvl + 1", Uint8, Uint8)

	got, err := f.Eval(level(4))
	if err != nil {
		t.Fatalf("Eval(level(4)) error: %v", err)
	}
	if got != uint8(5) {
		t.Errorf("Eval(level(4)) = %#v, want uint8(5)", got)
	}
}

func TestApply(t *testing.T) {
	f := MustCompile("v", "2 * v", Uint8, Uint32)
	if got := Apply[uint32](f, uint8(21)); got != 42 {
		t.Errorf("Apply = %d, want 42", got)
	}

	defer func() {
		if recover() == nil {
			t.Error("Apply with mismatched type did not panic")
		}
	}()
	Apply[string](f, uint8(1))
}

func TestWrap(t *testing.T) {
	f := Wrap("name", func(v any) any {
		return map[uint8]string{0: "off", 1: "on"}[v.(uint8)]
	})

	got, err := f.Eval(uint8(1))
	if err != nil {
		t.Fatalf("Eval error: %v", err)
	}
	if got != "on" {
		t.Errorf("Eval(1) = %v, want on", got)
	}
	if f.IsExpr() {
		t.Error("wrapped function reported as expression")
	}
}

func TestKindOf(t *testing.T) {
	for k, name := range kindNames {
		got, ok := KindOf(name)
		if !ok || got != k {
			t.Errorf("KindOf(%q) = %v, %v; want %v", name, got, ok, k)
		}
	}
	if _, ok := KindOf("complex64"); ok {
		t.Error("KindOf(complex64) should fail")
	}
}

func TestConvertWraps(t *testing.T) {
	got, err := Uint8.Convert(int64(0x1FF))
	if err != nil {
		t.Fatal(err)
	}
	if got != uint8(0xFF) {
		t.Errorf("Convert(0x1FF) = %#v, want uint8(0xff)", got)
	}

	if _, err := Bool.Convert(1); err == nil {
		t.Error("Bool.Convert(1) should fail")
	}
}
