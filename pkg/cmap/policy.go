package cmap

import (
	"errors"
	"runtime"
)

// ErrInvalidPolicy is returned for a Policy outside the defined set.
var ErrInvalidPolicy = errors.New("cmap: invalid update policy")

// Policy selects how a delta is applied to the count of a claimed slot.
type Policy uint8

const (
	// Overwrite replaces the count with the delta.
	Overwrite Policy = iota
	// Increment adds the delta to the count.
	Increment
	// Decrement subtracts the delta from the count.
	Decrement
)

// String returns the policy name.
func (p Policy) String() string {
	switch p {
	case Overwrite:
		return "overwrite"
	case Increment:
		return "increment"
	case Decrement:
		return "decrement"
	default:
		return "unknown"
	}
}

// ParsePolicy converts a name produced by String back into a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "overwrite":
		return Overwrite, nil
	case "increment", "":
		return Increment, nil
	case "decrement":
		return Decrement, nil
	default:
		return 0, ErrInvalidPolicy
	}
}

func (p Policy) valid() bool {
	return p <= Decrement
}

// apply returns the count that should replace old.
func (p Policy) apply(old, delta int64) int64 {
	switch p {
	case Increment:
		return old + delta
	case Decrement:
		return old - delta
	default:
		return delta
	}
}

// initial returns the count stored when a key claims an empty slot.
func (p Policy) initial(delta int64) int64 {
	return p.apply(0, delta)
}

// backoff paces retry loops: a few immediate retries, then an exponentially
// growing number of scheduler yields, capped at maxYields per wait.
type backoff struct {
	attempt int
}

const (
	spinRetries = 4
	maxYields   = 16
)

func (b *backoff) wait() {
	b.attempt++
	if b.attempt <= spinRetries {
		return
	}
	yields := 1 << (b.attempt - spinRetries - 1)
	if yields > maxYields || yields <= 0 {
		yields = maxYields
	}
	for i := 0; i < yields; i++ {
		runtime.Gosched()
	}
}
