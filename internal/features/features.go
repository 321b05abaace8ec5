package features

import (
	"strings"
)

// The symbol class is deliberately narrow; everything else printable that is not a
// letter or digit counts toward length and uniqueness only.
const symbolSet = "!@#$%^&*"

var keyboardRows = []string{"qwertyuiop", "asdfghjkl", "zxcvbnm"}

const (
	alphaSequence = "abcdefghijklmnopqrstuvwxyz"
	digitSequence = "01234567890"
)

// Vector is the fixed-schema numeric summary of a password consumed by the
// strength model. Field order matches the model's training layout.
type Vector struct {
	Length       int
	UpperCount   int
	LowerCount   int
	DigitCount   int
	SymbolCount  int
	MidCharCount int
	RepeatCount  int
	UniqueCount  int
	ConsecUpper  int
	ConsecLower  int
	ConsecDigit  int
	ConsecSymbol int
	SeqAlpha     int
	SeqDigit     int
	SeqKeyboard  int
}

// Values returns the vector in schema order.
func (v Vector) Values() []float64 {
	return []float64{
		float64(v.Length),
		float64(v.UpperCount),
		float64(v.LowerCount),
		float64(v.DigitCount),
		float64(v.SymbolCount),
		float64(v.MidCharCount),
		float64(v.RepeatCount),
		float64(v.UniqueCount),
		float64(v.ConsecUpper),
		float64(v.ConsecLower),
		float64(v.ConsecDigit),
		float64(v.ConsecSymbol),
		float64(v.SeqAlpha),
		float64(v.SeqDigit),
		float64(v.SeqKeyboard),
	}
}

func isUpper(r rune) bool  { return r >= 'A' && r <= 'Z' }
func isLower(r rune) bool  { return r >= 'a' && r <= 'z' }
func isDigit(r rune) bool  { return r >= '0' && r <= '9' }
func isSymbol(r rune) bool { return strings.ContainsRune(symbolSet, r) }

// Extract computes the feature vector for a password. It never fails; the empty
// string yields an all-zero vector. Character classes are mutually exclusive,
// checked in order: upper, lower, digit, symbol, other.
func Extract(password string) Vector {
	runes := []rune(password)

	var v Vector
	v.Length = len(runes)

	seen := make(map[rune]struct{}, len(runes))
	var prevUpper, prevLower, prevDigit, prevSymbol rune
	for i, r := range runes {
		seen[r] = struct{}{}

		switch {
		case isUpper(r):
			v.UpperCount++
			if prevUpper == r {
				v.ConsecUpper++
			}
			prevUpper = r
		case isLower(r):
			v.LowerCount++
			if prevLower == r {
				v.ConsecLower++
			}
			prevLower = r
		case isDigit(r):
			v.DigitCount++
			if prevDigit == r {
				v.ConsecDigit++
			}
			prevDigit = r
		case isSymbol(r):
			v.SymbolCount++
			if prevSymbol == r {
				v.ConsecSymbol++
			}
			prevSymbol = r
		}

		// Interior digits and symbols only; the first and last position never count.
		if i > 0 && i < len(runes)-1 && (isDigit(r) || isSymbol(r)) {
			v.MidCharCount++
		}
	}

	v.UniqueCount = len(seen)
	v.RepeatCount = v.Length - v.UniqueCount

	lowered := strings.ToLower(password)
	v.SeqAlpha = countSequenceWindows(lowered, alphaSequence)
	v.SeqDigit = countSequenceWindows(lowered, digitSequence)
	for _, row := range keyboardRows {
		v.SeqKeyboard += countSequenceWindows(lowered, row)
	}

	return v
}

// countSequenceWindows slides a window of 3 over the reference sequence and counts
// windows whose forward or reversed form appears anywhere in the text.
func countSequenceWindows(lowered, sequence string) int {
	n := 0
	for s := 0; s+3 <= len(sequence); s++ {
		fwd := sequence[s : s+3]
		rev := string([]byte{fwd[2], fwd[1], fwd[0]})
		if strings.Contains(lowered, fwd) || strings.Contains(lowered, rev) {
			n++
		}
	}
	return n
}
