// Package bitops provides mask and shift primitives over a single unsigned
// machine word. Bit positions count from the least significant bit.
package bitops

import (
	"fmt"
	"math/bits"

	"golang.org/x/exp/constraints"
)

// Width returns the number of bits in T.
func Width[T constraints.Unsigned]() int {
	var zero T
	return bits.OnesCount64(uint64(^zero))
}

// Mask returns a value with the low size bits set.
// It panics if size is negative or wider than T.
func Mask[T constraints.Unsigned](size int) T {
	w := Width[T]()
	if size < 0 || size > w {
		panic(fmt.Sprintf("bitops: mask size %d out of range [0, %d]", size, w))
	}
	return ^T(0) >> (w - size)
}

// IsSet reports whether bit index of v is set.
func IsSet[T constraints.Unsigned](v T, index int) bool {
	checkIndex[T](index)
	return v&(1<<index) != 0
}

// Bit returns bit index of v as 0 or 1.
func Bit[T constraints.Unsigned](v T, index int) T {
	checkIndex[T](index)
	return (v >> index) & 0x1
}

// SetBit returns v with bit index replaced by the low bit of b.
func SetBit[T constraints.Unsigned](v T, index int, b T) T {
	checkIndex[T](index)
	return v&^(1<<index) | (b&0x1)<<index
}

// Bits returns bits [start, end) of v shifted down to bit 0.
func Bits[T constraints.Unsigned](v T, start, end int) T {
	checkRange[T](start, end)
	return (v >> start) & Mask[T](end-start)
}

// SetBits returns v with bits [start, end) replaced by the low end-start bits
// of x. Higher bits of x are discarded.
func SetBits[T constraints.Unsigned](v T, start, end int, x T) T {
	checkRange[T](start, end)
	mask := Mask[T](end - start)
	return v&^(mask<<start) | (x&mask)<<start
}

// Field returns the mask and shift that isolate bits [start, end).
func Field[T constraints.Unsigned](start, end int) (mask T, shift int) {
	checkRange[T](start, end)
	return Mask[T](end - start), start
}

func checkIndex[T constraints.Unsigned](index int) {
	if w := Width[T](); index < 0 || index >= w {
		panic(fmt.Sprintf("bitops: bit index %d out of range [0, %d)", index, w))
	}
}

func checkRange[T constraints.Unsigned](start, end int) {
	if w := Width[T](); start < 0 || start >= end || end > w {
		panic(fmt.Sprintf("bitops: bit range [%d, %d) invalid for %d-bit word", start, end, w))
	}
}
