// Package cbg implements set and map containers based on Cuckoo Breeding
// Ground (CBG) hashing: cuckoo hashing with two hash functions and buckets
// of 2 to 4 contiguous bins, extended with per-bin labels, bucket reversal
// and hopscotch displacement. The combination sustains load factors up to
// ~99% while a lookup touches at most two buckets.
//
// Three data layouts are available, selected at construction:
//
//   - LayoutSoA: metadata, keys and values live in separate arrays. The
//     metadata carries an extra hash byte per bin, which filters most
//     negative lookups without touching the keys. The fastest choice for
//     negative queries.
//   - LayoutAoS: metadata and payload are colocated per bin. One cache
//     line holds the match, the fastest choice for positive queries.
//   - LayoutAoB: metadata and payload are colocated per fixed-size block
//     of bins. Like LayoutAoS but without unaligned payload access.
//
// The bucket size trades lookup speed against achievable load:
//
//   - 2 bins: fastest queries, recommended load factor < 80%
//   - 3 bins: balanced, load factors between 80% and 95%
//   - 4 bins: minimal memory waste, load factors up to 99%
//
// The containers are not safe for concurrent use.
package cbg

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfRange signals an out of range request.
	ErrOutOfRange = errors.New("out of range")

	// ErrKeyNotFound is returned by At for a missing key.
	ErrKeyNotFound = errors.New("key not found")

	// ErrCapacityExhausted is returned when the table cannot grow any
	// further because the next size is not representable.
	ErrCapacityExhausted = errors.New("capacity exhausted")
)

func errOutOfRangeF(f float32) error {
	return fmt.Errorf("%f: %w", f, ErrOutOfRange)
}

// SearchHint tells a lookup which outcome the caller expects, so it can
// pick the cheaper probe sequence for that case. A wrong hint costs some
// speed, never correctness.
type SearchHint uint8

const (
	// HintUnknown makes no assumption about the outcome.
	HintUnknown SearchHint = iota
	// HintExpectPositive is for lookups that mostly hit. The secondary
	// bucket is probed unconditionally, trading one predictable miss for
	// a hard to predict branch.
	HintExpectPositive
	// HintExpectNegative is for lookups that mostly miss.
	HintExpectNegative
)

// Layout selects how bins are stored in memory, see the package
// documentation for the trade-offs.
type Layout uint8

const (
	// LayoutSoA stores metadata, keys and values in parallel arrays.
	LayoutSoA Layout = iota
	// LayoutAoS stores each bin as one metadata+payload struct.
	LayoutAoS
	// LayoutAoB stores bins grouped into fixed-size blocks.
	LayoutAoB
)
