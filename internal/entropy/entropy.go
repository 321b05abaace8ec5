package entropy

import (
	"fmt"
	"math"
	"strings"
	"unicode"
)

// punctuationSet is the full ASCII punctuation set, matching the broader symbol
// check used by the scorer override (not the 8-symbol feature class).
const punctuationSet = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// CharsetSize estimates the size of the alphabet a password draws from. A
// password with no recognized class reports 1 so log2 stays in domain.
func CharsetSize(password string) float64 {
	var lower, upper, digit, punct, space bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(punctuationSet, r):
			punct = true
		case unicode.IsSpace(r):
			space = true
		}
	}

	charset := 0.0
	if lower {
		charset += 26
	}
	if upper {
		charset += 26
	}
	if digit {
		charset += 10
	}
	if punct {
		charset += float64(len(punctuationSet))
	}
	if space {
		charset++
	}
	if charset == 0 {
		charset = 1
	}
	return charset
}

// Bits computes Shannon-style entropy: length times log2 of the charset size.
func Bits(password string) float64 {
	return float64(len([]rune(password))) * math.Log2(CharsetSize(password))
}

// FormatHours renders an hour count as a rough human duration, coarsening from
// seconds up to millennia.
func FormatHours(hours float64) string {
	seconds := hours * 3600
	years := seconds / (60 * 60 * 24 * 365)

	switch {
	case seconds < 60:
		return fmt.Sprintf("%d seconds", int64(seconds))
	case seconds < 3600:
		return fmt.Sprintf("%d minutes", int64(seconds/60))
	case seconds < 86400:
		return fmt.Sprintf("%d hours", int64(seconds/3600))
	case seconds < 31536000:
		return fmt.Sprintf("%d days", int64(seconds/86400))
	case years < 100:
		return fmt.Sprintf("%.0f years", math.Ceil(years))
	case years < 1000:
		return fmt.Sprintf("%.0f centuries", math.Ceil(years/100))
	default:
		return fmt.Sprintf("%.0f millennia", math.Ceil(years/1000))
	}
}
