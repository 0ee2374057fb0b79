package cbg

import (
	"crypto/rand"
	"encoding/binary"
	"math/bits"
	"reflect"
	"unsafe"

	"github.com/dolthub/maphash"
	"github.com/zeebo/xxh3"
)

// HashFn is a function that returns the 64-bit hash of 't'. Both candidate
// buckets of an element are derived from this single value, so the hash
// must be well distributed over the full 64-bit range. A hash of the low
// bits only (e.g. the identity on small integers) degrades the table badly.
type HashFn[T any] func(t T) uint64

// GetHasher returns a hasher for the given key type, seeded from the
// platform entropy source. Two tables built with separate GetHasher calls
// place the same keys differently.
func GetHasher[K comparable]() HashFn[K] {
	return GetSeededHasher[K](randomSeed())
}

// GetSeededHasher returns a hasher using the given seed. The same seed
// yields the same placement, which is useful for reproducing issues.
//
// Keys whose memory image determines equality (integers, floats, pointers,
// strings) are hashed with xxh3 over their raw bytes. For the remaining
// comparable kinds (structs, arrays, interfaces) the memory image can
// differ between equal values, so the runtime hasher is used instead; it
// draws its own seed and ignores the given one.
func GetSeededHasher[K comparable](seed uint64) HashFn[K] {
	var key K
	kind := reflect.ValueOf(&key).Elem().Type().Kind()

	switch kind {
	case reflect.String:
		return func(k K) uint64 {
			return xxh3.HashStringSeed(*(*string)(unsafe.Pointer(&k)), seed)
		}

	case reflect.Struct, reflect.Array, reflect.Interface:
		h := maphash.NewHasher[K]()
		return h.Hash

	default:
		size := int(unsafe.Sizeof(key))
		return func(k K) uint64 {
			view := *(*string)(unsafe.Pointer(&struct {
				data unsafe.Pointer
				len  int
			}{unsafe.Pointer(&k), size}))
			return xxh3.HashStringSeed(view, seed)
		}
	}
}

func randomSeed() uint64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic("cbg: seeding hasher: " + err.Error())
	}
	return binary.LittleEndian.Uint64(b[:])
}

// secondaryHash derives the second bucket hash. A rotation instead of an
// independent hash function is sufficient here: cuckoo schemes behave the
// same with a few bits of secondary entropy as with a full second hash,
// and the rotation keeps the lookup path free of extra mixing work. Only
// tables beyond 2^48 buckets would need a real second hash.
func secondaryHash(hash uint64) uint64 {
	return bits.RotateLeft64(hash, 32)
}

// fastrange maps a hash word to [0,n) without a division. It is as fair
// as a modulo for well distributed inputs, but consumes the high bits of
// the word rather than the low ones.
func fastrange(word uint64, n int) int {
	hi, _ := bits.Mul64(word, uint64(n))
	return int(hi)
}
