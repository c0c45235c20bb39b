package analyzer

import (
	"fmt"

	"github.com/alexhholmes/bitfield/internal/bitops"
	"github.com/alexhholmes/bitfield/internal/parser"
)

// Range is a resolved half-open bit range [Start, End).
type Range struct {
	Start int
	End   int
}

// Resolve normalizes a written range against maxEnd. An omitted start is 0,
// an omitted end is maxEnd, and an inclusive end is moved past the last bit.
// The result must satisfy Start < End <= maxEnd.
func Resolve(expr parser.RangeExpr, maxEnd int) (Range, error) {
	r := Range{Start: 0, End: maxEnd}
	if expr.Start >= 0 {
		r.Start = expr.Start
	}
	if expr.End >= 0 {
		r.End = expr.End
		if expr.Inclusive {
			r.End++
		}
	}

	if r.Start >= r.End || r.End > maxEnd {
		return r, fmt.Errorf("%w: %s resolves to %s, want start < end <= %d", ErrInvalidRange, expr, r, maxEnd)
	}
	return r, nil
}

// Len returns the number of bits in r.
func (r Range) Len() int {
	return r.End - r.Start
}

func (r Range) Shift() int {
	return r.Start
}

// Mask returns the unshifted mask of r, (1 << Len) - 1.
func (r Range) Mask() uint64 {
	return bitops.Mask[uint64](r.Len())
}

// PosMask returns the mask of r in place, Mask << Shift.
func (r Range) PosMask() uint64 {
	return r.Mask() << r.Shift()
}

// Overlaps reports whether r and o share a bit.
func (r Range) Overlaps(o Range) bool {
	return r.Start < o.End && o.Start < r.End
}

func (r Range) String() string {
	return fmt.Sprintf("[%d, %d)", r.Start, r.End)
}
