package cmap

import (
	"errors"
	"strings"
	"testing"
	"unsafe"
)

func TestMakeKey(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"simple", "hello", nil},
		{"max length", strings.Repeat("x", MaxKeyLen), nil},
		{"empty", "", ErrEmptyKey},
		{"too long", strings.Repeat("x", MaxKeyLen+1), ErrKeyTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k, err := MakeKey(tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("MakeKey err = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil {
				if k.String() != tt.input {
					t.Errorf("String() = %q, want %q", k.String(), tt.input)
				}
				if k.Len() != len(tt.input) {
					t.Errorf("Len() = %d, want %d", k.Len(), len(tt.input))
				}
			}
		})
	}
}

func TestMustKey_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustKey(\"\") should panic")
		}
	}()
	MustKey("")
}

func TestKey_FixedSize(t *testing.T) {
	if size := unsafe.Sizeof(Key{}); size != 64 {
		t.Errorf("sizeof(Key) = %d, want 64", size)
	}
}

func TestKey_Hash(t *testing.T) {
	// djb2("a") = 5381*33 + 'a'
	if got := MustKey("a").Hash(); got != 5381*33+97 {
		t.Errorf("Hash(a) = %d, want %d", got, 5381*33+97)
	}
	if MustKey("ab").Hash() == MustKey("ba").Hash() {
		t.Error("Hash should depend on byte order")
	}
}

func TestKey_Sum32Deterministic(t *testing.T) {
	k := MustKey("partition-me")
	first := k.Sum32()
	for i := 0; i < 10; i++ {
		if k.Sum32() != first {
			t.Fatal("Sum32 is not deterministic")
		}
	}
	if MustKey("partition-me").Sum32() != first {
		t.Error("equal keys must have equal Sum32")
	}
}

func TestIntKey_Hash(t *testing.T) {
	seen := make(map[uint64]bool)
	for k := IntKey(1); k <= 1000; k++ {
		h := k.Hash()
		if seen[h] {
			t.Fatalf("Hash collision at %d", k)
		}
		seen[h] = true
	}
}

func TestElement_IsEmpty(t *testing.T) {
	if !(Element[Key]{}).IsEmpty() {
		t.Error("zero element should be empty")
	}
	if (Element[IntKey]{Key: 3}).IsEmpty() {
		t.Error("element with key 3 should not be empty")
	}
}

func TestParsePolicy(t *testing.T) {
	for _, p := range []Policy{Overwrite, Increment, Decrement} {
		got, err := ParsePolicy(p.String())
		if err != nil || got != p {
			t.Errorf("ParsePolicy(%q) = (%v, %v), want %v", p.String(), got, err, p)
		}
	}
	if _, err := ParsePolicy("multiply"); !errors.Is(err, ErrInvalidPolicy) {
		t.Errorf("ParsePolicy(multiply) err = %v, want ErrInvalidPolicy", err)
	}
	if Policy(9).String() != "unknown" {
		t.Errorf("Policy(9).String() = %q", Policy(9).String())
	}
}

func TestBackoff_Bounded(t *testing.T) {
	var bo backoff
	for i := 0; i < 200; i++ {
		bo.wait()
	}
	if bo.attempt != 200 {
		t.Errorf("attempt = %d, want 200", bo.attempt)
	}
}
