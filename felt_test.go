package introspect

import (
	"math/big"
	"testing"
)

// Test helper functions
func TestFeltConversion(t *testing.T) {
	value := uint64(123)
	f := FeltFromUint(value)
	back := UintFromFelt(f)
	if back != value {
		t.Errorf("FeltFromUint/UintFromFelt roundtrip failed: expected %d, got %d", value, back)
	}

	intValue := int64(456)
	f2 := FeltFromInt(intValue)
	back2 := IntFromFelt(f2)
	if back2 != intValue {
		t.Errorf("FeltFromInt/IntFromFelt roundtrip failed: expected %d, got %d", intValue, back2)
	}

	boolValue := true
	f3 := FeltFromBool(boolValue)
	back3 := BoolFromFelt(f3)
	if back3 != boolValue {
		t.Errorf("FeltFromBool/BoolFromFelt roundtrip failed: expected %v, got %v", boolValue, back3)
	}

	bigValue := new(big.Int).SetInt64(789)
	f4 := FeltFromBigInt(bigValue)
	back4 := BigIntFromFelt(f4)
	if back4.Cmp(bigValue) != 0 {
		t.Errorf("FeltFromBigInt/BigIntFromFelt roundtrip failed: expected %s, got %s", bigValue.String(), back4.String())
	}
}

func TestNegativeIntegers(t *testing.T) {
	for _, v := range []int64{-1, -128, -1 << 40, -9223372036854775808} {
		f := FeltFromInt(v)

		expected := new(big.Int).Add(Modulus(), big.NewInt(v))
		if BigIntFromFelt(f).Cmp(expected) != 0 {
			t.Errorf("FeltFromInt(%d): expected p%d, got %s", v, v, f.String())
		}
		if back := IntFromFelt(f); back != v {
			t.Errorf("IntFromFelt roundtrip failed: expected %d, got %d", v, back)
		}
	}
}

func TestUint64Overflow(t *testing.T) {
	large := new(big.Int).Lsh(big.NewInt(1), 70)
	if _, ok := Uint64FromFelt(FeltFromBigInt(large)); ok {
		t.Errorf("expected 2^70 not to fit into uint64")
	}
	if UintFromFelt(FeltFromBigInt(large)) != 0 {
		t.Errorf("expected UintFromFelt to return 0 on overflow")
	}
}

func TestShortStrings(t *testing.T) {
	tests := []string{"", "a", "Point", "abcdefghijklmnopqrstuvwxyz01234"}

	for _, s := range tests {
		f := FeltFromShortString(s)
		if got := ShortStringFromFelt(f); got != s {
			t.Errorf("short string roundtrip failed: expected %q, got %q", s, got)
		}
	}

	if UintFromFelt(FeltFromShortString("ab")) != 0x6162 {
		t.Errorf("expected 'ab' to pack as 0x6162")
	}
}

func TestWordFromFelt(t *testing.T) {
	f := FeltFromUint(0x6162)

	word, ok := WordFromFelt(f, 2)
	if !ok || string(word) != "ab" {
		t.Errorf("expected word \"ab\", got %q (ok=%v)", word, ok)
	}

	if _, ok := WordFromFelt(f, 1); ok {
		t.Errorf("expected a one byte window to reject 0x6162")
	}
}

func TestFeltFromHex(t *testing.T) {
	f, err := FeltFromHex("0x2a")
	if err != nil {
		t.Fatalf("FeltFromHex failed: %v", err)
	}
	if UintFromFelt(f) != 42 {
		t.Errorf("expected 42, got %d", UintFromFelt(f))
	}
}

func BenchmarkFeltFromShortString(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = FeltFromShortString("CreateTableWithColumns")
	}
}

func BenchmarkSignedBigIntFromFelt(b *testing.B) {
	f := FeltFromInt(-42)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = SignedBigIntFromFelt(f)
	}
}
