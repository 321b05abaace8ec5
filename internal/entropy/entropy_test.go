package entropy

import (
	"math"
	"testing"
)

func TestBitsEmpty(t *testing.T) {
	// Charset defaults to 1, so log2 stays in domain and entropy is zero.
	if bits := Bits(""); bits != 0 {
		t.Errorf("Empty password should have 0 bits, have %f", bits)
	}
}

func TestCharsetSize(t *testing.T) {
	if cs := CharsetSize("abc"); cs != 26 {
		t.Errorf("Lowercase only should be 26, have %f", cs)
	}
	if cs := CharsetSize("aB3"); cs != 62 {
		t.Errorf("Lower+upper+digit should be 62, have %f", cs)
	}
	if cs := CharsetSize("aB3!"); cs != 94 {
		t.Errorf("All printable classes should be 94, have %f", cs)
	}
	if cs := CharsetSize("a b"); cs != 27 {
		t.Errorf("Lower plus whitespace should be 27, have %f", cs)
	}
	if cs := CharsetSize("√√"); cs != 1 {
		t.Errorf("Unrecognized classes should default to 1, have %f", cs)
	}
}

func TestBits(t *testing.T) {
	bits := Bits("abcdefgh")
	want := 8 * math.Log2(26)
	if math.Abs(bits-want) > 1e-9 {
		t.Errorf("8 lowercase chars should be %f bits, have %f", want, bits)
	}
}

func TestFormatHours(t *testing.T) {
	cases := []struct {
		hours float64
		want  string
	}{
		{0.001, "3 seconds"},
		{0.5, "30 minutes"},
		{5, "5 hours"},
		{48, "2 days"},
		{24 * 365 * 3, "3 years"},
		{24 * 365 * 250, "3 centuries"},
		{24 * 365 * 5000, "5 millennia"},
	}
	for _, c := range cases {
		if have := FormatHours(c.hours); have != c.want {
			t.Errorf("FormatHours(%f) should be %q, have %q", c.hours, c.want, have)
		}
	}
}
