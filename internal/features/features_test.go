package features

import (
	"testing"
)

func TestExtractEmpty(t *testing.T) {
	v := Extract("")
	if v != (Vector{}) {
		t.Errorf("Empty password should produce an all-zero vector, have %+v", v)
	}
}

func TestExtractLengthAndClasses(t *testing.T) {
	v := Extract("Ab1!x√")
	if v.Length != 6 {
		t.Errorf("Length should be 6, have %d", v.Length)
	}
	if v.UpperCount != 1 || v.LowerCount != 2 || v.DigitCount != 1 || v.SymbolCount != 1 {
		t.Errorf("Class counts should be 1/2/1/1, have %d/%d/%d/%d",
			v.UpperCount, v.LowerCount, v.DigitCount, v.SymbolCount)
	}

	// The √ rune is "other": counted in length and uniqueness, not in any class.
	sum := v.UpperCount + v.LowerCount + v.DigitCount + v.SymbolCount
	if sum != v.Length-1 {
		t.Errorf("Class counts should sum to length-1 with one other char, have %d", sum)
	}
}

func TestExtractMidChars(t *testing.T) {
	// 1 at index 0 and # at the last index are excluded; 2 and @ are interior.
	v := Extract("1a2b@c#")
	if v.MidCharCount != 2 {
		t.Errorf("MidCharCount should be 2, have %d", v.MidCharCount)
	}
}

func TestExtractRepeatsAndUnique(t *testing.T) {
	v := Extract("aabbc")
	if v.UniqueCount != 3 {
		t.Errorf("UniqueCount should be 3, have %d", v.UniqueCount)
	}
	if v.RepeatCount != 2 {
		t.Errorf("RepeatCount should be length-unique=2, have %d", v.RepeatCount)
	}
}

func TestExtractConsecutiveIsLiteralRepetition(t *testing.T) {
	// AB is same-class adjacency, not repetition; AA is.
	if v := Extract("AB"); v.ConsecUpper != 0 {
		t.Errorf("Two different uppercase letters should not count, have %d", v.ConsecUpper)
	}
	if v := Extract("AA"); v.ConsecUpper != 1 {
		t.Errorf("AA should count once, have %d", v.ConsecUpper)
	}
	// The repeated class character need not be adjacent in the password itself,
	// only the previous character of the same class is compared.
	if v := Extract("A1A"); v.ConsecUpper != 1 {
		t.Errorf("A1A should count once for the upper class, have %d", v.ConsecUpper)
	}
	if v := Extract("aa11!!"); v.ConsecLower != 1 || v.ConsecDigit != 1 || v.ConsecSymbol != 1 {
		t.Errorf("aa11!! should count one per class, have %d/%d/%d",
			v.ConsecLower, v.ConsecDigit, v.ConsecSymbol)
	}
}

func TestExtractSequentialAlpha(t *testing.T) {
	// abc matches one window; dcb matches the reverse of bcd.
	if v := Extract("abc"); v.SeqAlpha != 1 {
		t.Errorf("abc should match one alpha window, have %d", v.SeqAlpha)
	}
	if v := Extract("dcb"); v.SeqAlpha != 1 {
		t.Errorf("dcb should match the reversed bcd window, have %d", v.SeqAlpha)
	}
	// Case-insensitive.
	if v := Extract("AbC"); v.SeqAlpha != 1 {
		t.Errorf("AbC should match case-insensitively, have %d", v.SeqAlpha)
	}
	// abcd covers the abc and bcd windows.
	if v := Extract("abcd"); v.SeqAlpha != 2 {
		t.Errorf("abcd should match two windows, have %d", v.SeqAlpha)
	}
}

func TestExtractSequentialDigit(t *testing.T) {
	// The digit reference is 01234567890: 890 and 901(rev 109) are windows too.
	if v := Extract("123"); v.SeqDigit != 1 {
		t.Errorf("123 should match one digit window, have %d", v.SeqDigit)
	}
	if v := Extract("890"); v.SeqDigit != 1 {
		t.Errorf("890 should match the wrap window, have %d", v.SeqDigit)
	}
}

func TestExtractSequentialKeyboard(t *testing.T) {
	if v := Extract("qwerty"); v.SeqKeyboard != 4 {
		t.Errorf("qwerty should match 4 top-row windows, have %d", v.SeqKeyboard)
	}
	if v := Extract("asd"); v.SeqKeyboard != 1 {
		t.Errorf("asd should match one home-row window, have %d", v.SeqKeyboard)
	}
	if v := Extract("xyz"); v.SeqKeyboard != 0 {
		t.Errorf("xyz spans no keyboard row window, have %d", v.SeqKeyboard)
	}
}

func TestValuesOrder(t *testing.T) {
	v := Extract("Aa1!")
	vals := v.Values()
	if len(vals) != 15 {
		t.Fatalf("Schema should have 15 features, have %d", len(vals))
	}
	if vals[0] != 4 {
		t.Errorf("First feature should be length 4, have %f", vals[0])
	}
}
