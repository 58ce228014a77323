// Package mathx holds small generic integer helpers shared by the driver and
// services.
package mathx

import "golang.org/x/exp/constraints"

// Clamp limits v to the closed range between lo and hi, in either order.
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if hi < lo {
		lo, hi = hi, lo
	}
	return min(max(v, lo), hi)
}

// Between reports whether v lies in the closed range between lo and hi.
func Between[T constraints.Ordered](v, lo, hi T) bool {
	return Clamp(v, lo, hi) == v
}

// Log2Floor returns floor(log2(v)). Log2Floor(0) is 0.
func Log2Floor[T constraints.Unsigned](v T) uint8 {
	var n uint8
	for v > 1 {
		v >>= 1
		n++
	}
	return n
}

// Join16 combines two 16-bit halves into one 32-bit value.
func Join16(upper, lower uint16) uint32 { return uint32(upper)<<16 | uint32(lower) }

// Split16 returns the upper and lower 16-bit halves of v.
func Split16(v uint32) (upper, lower uint16) { return uint16(v >> 16), uint16(v) }
