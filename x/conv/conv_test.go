package conv

import (
	"math"
	"testing"
)

func TestItoa(t *testing.T) {
	var buf [20]byte
	for n, want := range map[int64]string{
		0:              "0",
		7:              "7",
		-1:             "-1",
		70000:          "70000",
		-40:            "-40",
		math.MinInt32:  "-2147483648",
		math.MaxUint32: "4294967295",
	} {
		if got := string(Itoa(buf[:], n)); got != want {
			t.Errorf("Itoa(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestU32Hex(t *testing.T) {
	var buf [8]byte
	if got := string(U32Hex(buf[:], 0xCAFEF00D)); got != "CAFEF00D" {
		t.Fatalf("U32Hex = %q", got)
	}
	if got := string(U32Hex(buf[:], 0x11170)); got != "00011170" {
		t.Fatalf("U32Hex = %q", got)
	}
	if got := U32Hex(buf[:4], 1); len(got) != 0 {
		t.Fatalf("short buffer returned %q", got)
	}
}

func TestUtoaShortBuffer(t *testing.T) {
	var buf [3]byte
	if got := string(Utoa(buf[:], 12345)); got != "345" {
		t.Fatalf("Utoa into 3 bytes = %q", got)
	}
	if got := string(Utoa(buf[:0], 7)); got != "" {
		t.Fatalf("Utoa into 0 bytes = %q", got)
	}
	var one [1]byte
	if got := string(Itoa(one[:], -5)); got != "" {
		t.Fatalf("Itoa without room for sign = %q", got)
	}
}
