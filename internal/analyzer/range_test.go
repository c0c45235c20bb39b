package analyzer

import (
	"errors"
	"testing"

	"github.com/alexhholmes/bitfield/internal/parser"
)

func rng(start, end int, inclusive bool) parser.RangeExpr {
	return parser.RangeExpr{Start: start, End: end, Inclusive: inclusive}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		expr    parser.RangeExpr
		maxEnd  int
		want    Range
		wantErr bool
	}{
		{"explicit", rng(0, 4, false), 8, Range{0, 4}, false},
		{"inclusive", rng(2, 3, true), 8, Range{2, 4}, false},
		{"implicit start", rng(-1, 4, false), 8, Range{0, 4}, false},
		{"implicit end", rng(4, -1, false), 8, Range{4, 8}, false},
		{"both implicit", rng(-1, -1, false), 16, Range{0, 16}, false},
		{"inclusive implicit start", rng(-1, 7, true), 8, Range{0, 8}, false},
		{"single bit", rng(7, 7, true), 8, Range{7, 8}, false},
		{"full u64", rng(0, 63, true), 64, Range{0, 64}, false},

		{"empty", rng(4, 4, false), 8, Range{}, true},
		{"reversed", rng(5, 4, false), 8, Range{}, true},
		{"past end", rng(0, 9, false), 8, Range{}, true},
		{"inclusive past end", rng(0, 8, true), 8, Range{}, true},
		{"start past implicit end", rng(8, -1, false), 8, Range{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.expr, tt.maxEnd)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidRange) {
					t.Errorf("Resolve(%v, %d) error = %v, want ErrInvalidRange", tt.expr, tt.maxEnd, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve(%v, %d) error: %v", tt.expr, tt.maxEnd, err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%v, %d) = %v, want %v", tt.expr, tt.maxEnd, got, tt.want)
			}
		})
	}
}

func TestRangeMask(t *testing.T) {
	tests := []struct {
		r       Range
		mask    uint64
		posMask uint64
	}{
		{Range{0, 2}, 0x3, 0x3},
		{Range{6, 8}, 0x3, 0xC0},
		{Range{4, 8}, 0xF, 0xF0},
		{Range{12, 16}, 0xF, 0xF000},
		{Range{0, 64}, ^uint64(0), ^uint64(0)},
		{Range{63, 64}, 0x1, 1 << 63},
	}

	for _, tt := range tests {
		if got := tt.r.Mask(); got != tt.mask {
			t.Errorf("%v.Mask() = %#x, want %#x", tt.r, got, tt.mask)
		}
		if got := tt.r.PosMask(); got != tt.posMask {
			t.Errorf("%v.PosMask() = %#x, want %#x", tt.r, got, tt.posMask)
		}
		if got := tt.r.Shift(); got != tt.r.Start {
			t.Errorf("%v.Shift() = %d, want %d", tt.r, got, tt.r.Start)
		}
	}
}

func TestRangeOverlaps(t *testing.T) {
	tests := []struct {
		a, b Range
		want bool
	}{
		{Range{0, 4}, Range{4, 8}, false},
		{Range{0, 5}, Range{4, 8}, true},
		{Range{0, 8}, Range{2, 3}, true},
		{Range{6, 8}, Range{0, 2}, false},
	}
	for _, tt := range tests {
		if got := tt.a.Overlaps(tt.b); got != tt.want {
			t.Errorf("%v.Overlaps(%v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
		if got := tt.b.Overlaps(tt.a); got != tt.want {
			t.Errorf("%v.Overlaps(%v) = %v, want %v", tt.b, tt.a, got, tt.want)
		}
	}
}
