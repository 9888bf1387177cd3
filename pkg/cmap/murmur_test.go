package cmap

import "testing"

func TestMurmur32_Vectors(t *testing.T) {
	tests := []struct {
		in   string
		want uint32
	}{
		{"", 0},
		{"test", 0xba6bd213},
		{"Hello, world!", 0xc0363e43},
		{"The quick brown fox jumps over the lazy dog", 0x2e4ff723},
	}

	for _, tt := range tests {
		if got := murmur32([]byte(tt.in)); got != tt.want {
			t.Errorf("murmur32(%q) = %#08x, want %#08x", tt.in, got, tt.want)
		}
	}
}

func TestKey_Sum32HeapKeys(t *testing.T) {
	keys := make([]Key, 0, 64)
	for _, s := range []string{"a", "ab", "abc", "abcd", "abcde", "Hello, world!"} {
		keys = append(keys, MustKey(s))
	}
	for _, k := range keys {
		if got, want := k.Sum32(), murmur32([]byte(k.String())); got != want {
			t.Errorf("Key(%q).Sum32() = %#08x, want %#08x", k.String(), got, want)
		}
	}

	ints := []IntKey{1, 42, 1 << 40}
	for _, k := range ints {
		_ = k.Sum32()
	}
}
