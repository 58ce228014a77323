// Package conv formats integers into caller-provided buffers without fmt or
// strconv, so console output on the MCU does not allocate.
package conv

const hexDigits = "0123456789ABCDEF"

// Utoa writes n in base 10 at the end of buf and returns the written tail.
// A buffer that is too short yields the lowest digits only; 20 bytes always
// suffice.
func Utoa(buf []byte, n uint64) []byte {
	i := len(buf)
	for i > 0 {
		i--
		buf[i] = '0' + byte(n%10)
		n /= 10
		if n == 0 {
			break
		}
	}
	return buf[i:]
}

// Itoa is Utoa with a leading '-' for negative n. It returns an empty slice
// when buf cannot hold the sign.
func Itoa(buf []byte, n int64) []byte {
	if n >= 0 {
		return Utoa(buf, uint64(n))
	}
	if len(buf) < 2 {
		return buf[:0]
	}
	// uint64(-n) is also right for math.MinInt64.
	d := Utoa(buf[1:], uint64(-n))
	i := len(buf) - len(d) - 1
	buf[i] = '-'
	return buf[i:]
}

// U32Hex writes n as eight uppercase hex digits, without a prefix, at the end
// of buf. It returns an empty slice when buf is shorter than eight bytes.
func U32Hex(buf []byte, n uint32) []byte {
	if len(buf) < 8 {
		return buf[:0]
	}
	out := buf[len(buf)-8:]
	for i := 7; i >= 0; i-- {
		out[i] = hexDigits[n&0xF]
		n >>= 4
	}
	return out
}
