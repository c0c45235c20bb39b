package example

import (
	"testing"
)

func TestMaskedDataMask(t *testing.T) {
	if got := NewMasked(0).DataMask(); got != 0xC3 {
		t.Errorf("DataMask: expected 0xC3, got 0x%X", got)
	}
}

func TestNibbleClearsUnclaimedBits(t *testing.T) {
	n := NewNibble(0xFF)
	if n.Data() != 0x0F {
		t.Errorf("NewNibble(0xFF).Data(): expected 0x0F, got 0x%X", n.Data())
	}

	n.SetData(0xF0)
	if n.Data() != 0x00 {
		t.Errorf("after SetData(0xF0): expected 0x00, got 0x%X", n.Data())
	}

	n.SetData(0x0F)
	if n.Data() != 0x0F {
		t.Errorf("after SetData(0x0F): expected 0x0F, got 0x%X", n.Data())
	}
}

func TestWideByteAccess(t *testing.T) {
	w := NewWide(0)

	w.SetByte(0, 0xFF)
	if w.Byte(0) != 0x0F {
		t.Errorf("Byte(0): expected 0x0F, got 0x%X", w.Byte(0))
	}
	if w.Data() != 0x000F {
		t.Errorf("Data: expected 0x000F, got 0x%X", w.Data())
	}

	w.SetByte(1, 0xFF)
	if w.Byte(1) != 0xF0 {
		t.Errorf("Byte(1): expected 0xF0, got 0x%X", w.Byte(1))
	}
	if w.Data() != 0xF00F {
		t.Errorf("Data: expected 0xF00F, got 0x%X", w.Data())
	}
}

func TestWideByteIndexPanics(t *testing.T) {
	for _, index := range []int{-1, 2} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("Byte(%d) did not panic", index)
				}
			}()
			NewWide(0).Byte(index)
		}()

		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("SetByte(%d) did not panic", index)
				}
			}()
			w := NewWide(0)
			w.SetByte(index, 1)
		}()
	}
}

func TestPipedTransforms(t *testing.T) {
	p := NewPiped(0xFF)
	if p.F1() != 6 {
		t.Errorf("F1: expected 6, got %d", p.F1())
	}
	if p.F2() != 0xDD {
		t.Errorf("F2: expected 0xDD, got 0x%X", p.F2())
	}

	// setters store the raw value, the transform runs on every read
	p.SetF1(1)
	p.SetF2(0)
	if p.F1() != 2 || p.F2() != 0xAA {
		t.Errorf("after set: F1=%d F2=0x%X, expected 2 and 0xAA", p.F1(), p.F2())
	}
	if p.Data() != 0x01 {
		t.Errorf("Data: expected 0x01, got 0x%X", p.Data())
	}
}

func TestOverlappedViews(t *testing.T) {
	o := NewOverlapped(0)

	o.SetF3(0xAB)
	if o.F1() != 0xB || o.F2() != 0xA {
		t.Errorf("after SetF3(0xAB): F1=0x%X F2=0x%X, expected 0xB and 0xA", o.F1(), o.F2())
	}

	o.SetF1(0xD)
	o.SetF2(0xC)
	if o.F3() != 0xCD {
		t.Errorf("F3: expected 0xCD, got 0x%X", o.F3())
	}
}

func TestFieldRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		set  func(*Masked, uint8)
		get  func(Masked) uint8
	}{
		{"f1", (*Masked).SetF1, Masked.F1},
		{"f2", (*Masked).SetF2, Masked.F2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for v := 0; v < 256; v++ {
				m := NewMasked(0xFF)
				tt.set(&m, uint8(v))
				if got := tt.get(m); got != uint8(v)&0x3 {
					t.Fatalf("set %d: got %d, expected %d", v, got, v&0x3)
				}
				if m.Data()&^m.DataMask() != 0 {
					t.Fatalf("set %d: unclaimed bits set in 0x%X", v, m.Data())
				}
			}
		})
	}
}

func TestMaskingIdempotent(t *testing.T) {
	for r := 0; r < 256; r++ {
		once := NewMasked(uint8(r)).Data()
		if twice := NewMasked(once).Data(); once != twice {
			t.Fatalf("raw 0x%X: 0x%X then 0x%X", r, once, twice)
		}
	}
}

func TestByteReconstruction(t *testing.T) {
	for _, raw := range []uint32{0, 0x12345678, 0x80FFFF3F, 0xFFFFFFFF} {
		want := NewControl(raw)

		var got Control
		for i := 0; i < 4; i++ {
			got.SetByte(i, want.Byte(i))
		}
		if got != want {
			t.Errorf("raw 0x%X: rebuilt 0x%X, expected 0x%X", raw, got.Data(), want.Data())
		}
	}
}

func TestControl(t *testing.T) {
	var c Control
	c.SetEnabled(true)
	c.SetPriority(5)
	c.SetMode(2)
	c.SetVector(0xBEEF)
	c.SetArmed(true)

	if c.Data() != 0x80BEEF2B {
		t.Fatalf("Data: expected 0x80BEEF2B, got 0x%X", c.Data())
	}
	if !c.Enabled() || c.Priority() != 5 || c.Mode() != "level" || c.Vector() != 0xBEEF || !c.Armed() {
		t.Errorf("unexpected fields: %v", c)
	}

	const want = "Control{enabled: true, priority: 5, mode: level, vector: 48879, armed: true}"
	if c.String() != want {
		t.Errorf("String:\nexpected %s\ngot      %s", want, c.String())
	}

	c.SetEnabled(false)
	c.SetPriority(0xFF) // truncated to three bits
	if c.Enabled() || c.Priority() != 7 {
		t.Errorf("Enabled=%v Priority=%d, expected false and 7", c.Enabled(), c.Priority())
	}
	if c.Data()&^c.DataMask() != 0 {
		t.Errorf("unclaimed bits set in 0x%X", c.Data())
	}
}
