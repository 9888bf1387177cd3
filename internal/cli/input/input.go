// Package input turns text into count items for the count command.
package input

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yndnr/countmesh/internal/core/domain"
	"github.com/yndnr/countmesh/pkg/cmap"
)

// Unit selects what a key is.
type Unit string

const (
	// UnitWord counts whitespace-separated words, lowercased, with leading
	// and trailing punctuation removed.
	UnitWord Unit = "word"

	// UnitLetter counts individual letters, lowercased.
	UnitLetter Unit = "letter"
)

// ParseUnit validates a unit name. The empty string selects UnitWord.
func ParseUnit(s string) (Unit, error) {
	switch u := Unit(strings.ToLower(s)); u {
	case "":
		return UnitWord, nil
	case UnitWord, UnitLetter:
		return u, nil
	default:
		return "", domain.ErrInvalidArgument.WithDetails(fmt.Sprintf("unknown unit %q", s))
	}
}

// maxTokenSize bounds a single whitespace-separated token.
const maxTokenSize = 1 << 20

// Tokenizer splits text into keys and keeps running totals.
// It is not safe for concurrent use.
type Tokenizer struct {
	unit Unit

	// Tokens is the number of keys produced.
	Tokens uint64
	// Rejected counts tokens that could not become a key, such as words
	// longer than cmap.MaxKeyLen.
	Rejected uint64
}

// NewTokenizer creates a tokenizer for unit.
func NewTokenizer(unit Unit) *Tokenizer {
	if unit == "" {
		unit = UnitWord
	}
	return &Tokenizer{unit: unit}
}

// Unit returns the tokenizer's unit.
func (t *Tokenizer) Unit() Unit {
	return t.unit
}

// Scan reads r to the end and calls emit for every key.
func (t *Tokenizer) Scan(r io.Reader, emit func(cmap.Key)) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxTokenSize)
	sc.Split(bufio.ScanWords)

	for sc.Scan() {
		word := Normalize(sc.Text())
		if word == "" {
			continue
		}

		if t.unit == UnitLetter {
			for _, r := range word {
				if !unicode.IsLetter(r) {
					continue
				}
				t.Tokens++
				emit(cmap.MustKey(string(r)))
			}
			continue
		}

		key, err := cmap.MakeKey(word)
		if err != nil {
			t.Rejected++
			continue
		}
		t.Tokens++
		emit(key)
	}
	return sc.Err()
}

// Collect reads r and appends one item with delta 1 per key to items.
func (t *Tokenizer) Collect(items []domain.Item[cmap.Key], r io.Reader) ([]domain.Item[cmap.Key], error) {
	err := t.Scan(r, func(k cmap.Key) {
		items = append(items, domain.Item[cmap.Key]{Key: k, Delta: 1})
	})
	return items, err
}

// Normalize lowercases s and strips leading and trailing characters that
// are neither letters nor digits. Invalid UTF-8 only has its ASCII letters
// lowercased.
func Normalize(s string) string {
	if !utf8.ValidString(s) {
		b := []byte(s)
		for i, c := range b {
			if 'A' <= c && c <= 'Z' {
				b[i] = c + 'a' - 'A'
			}
		}
		return string(b)
	}
	s = strings.TrimFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.ToLower(s)
}

// Repeat returns items concatenated n times. n below 2 returns items as is.
func Repeat[K comparable](items []domain.Item[K], n int) []domain.Item[K] {
	if n < 2 || len(items) == 0 {
		return items
	}
	out := make([]domain.Item[K], 0, len(items)*n)
	for i := 0; i < n; i++ {
		out = append(out, items...)
	}
	return out
}
