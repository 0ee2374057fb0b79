package cbg

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// checkTableInvariants verifies the structural invariants of the table:
// empty bins carry label 0, occupied bins resolve to a bucket window that
// contains them and that matches one of the key's two hash buckets, the
// unlucky flag covers every element living in its secondary bucket, and
// the element count matches the metadata.
func checkTableInvariants[K comparable, V any](t *testing.T, tbl *table[K, V]) {
	t.Helper()

	occupied := 0
	for i := 0; i < tbl.numBuckets; i++ {
		if tbl.data.isEmpty(i) {
			require.Zero(t, tbl.data.label(i), "empty bin %d has a label", i)
			continue
		}
		occupied++

		d := tbl.data.distance(i)
		require.Less(t, d, tbl.numElemsBucket, "bin %d distance out of range", i)

		anchor := tbl.belongToBucket(i)
		require.GreaterOrEqual(t, anchor, 0, "bin %d anchor under-runs", i)
		require.Less(t, anchor, tbl.numBuckets, "bin %d anchor over-runs", i)
		require.Equal(t, tbl.data.isBucketReversed(anchor), tbl.data.isReverseItem(i),
			"bin %d direction disagrees with its anchor %d", i, anchor)

		init, _ := tbl.windowInit(anchor)
		require.GreaterOrEqual(t, i, init, "bin %d left of its window", i)
		require.Less(t, i, init+tbl.numElemsBucket, "bin %d right of its window", i)

		hash0 := tbl.hasher(tbl.data.key(i))
		p1 := fastrange(hash0, tbl.numBuckets)
		p2 := fastrange(secondaryHash(hash0), tbl.numBuckets)
		require.True(t, anchor == p1 || anchor == p2,
			"bin %d anchored at %d, neither primary %d nor secondary %d", i, anchor, p1, p2)
		if anchor == p2 && anchor != p1 {
			require.NotZero(t, tbl.data.meta(p1)&unluckyBit,
				"element in secondary bucket %d but primary %d not marked unlucky", p2, p1)
		}
	}
	require.Equal(t, tbl.numElems, occupied, "element counter out of sync")
}

func allVariants() []struct {
	name   string
	layout Layout
	k      int
} {
	var variants []struct {
		name   string
		layout Layout
		k      int
	}
	layouts := map[string]Layout{"SoA": LayoutSoA, "AoS": LayoutAoS, "AoB": LayoutAoB}
	for name, l := range layouts {
		for k := 2; k <= 4; k++ {
			variants = append(variants, struct {
				name   string
				layout Layout
				k      int
			}{name: name + "-k" + string(rune('0'+k)), layout: l, k: k})
		}
	}
	return variants
}

func TestInvariantsUnderRandomOps(t *testing.T) {
	for _, v := range allVariants() {
		v := v
		t.Run(v.name, func(t *testing.T) {
			m := NewMap[uint64, uint32](16,
				WithBucketSize[uint64](v.k),
				WithLayout[uint64](v.layout),
				WithSeed[uint64](7))
			r := rand.New(rand.NewSource(int64(v.k) * 1000))
			stdm := make(map[uint64]uint32)

			for i := 0; i < 4000; i++ {
				key := uint64(r.Intn(900)) + 1
				switch r.Intn(3) {
				case 0, 1:
					val := r.Uint32()
					stdm[key] = val
					_, err := m.Put(key, val)
					require.NoError(t, err)
				case 2:
					_, wasIn := stdm[key]
					delete(stdm, key)
					require.Equal(t, wasIn, m.Remove(key))
				}

				if i%500 == 0 {
					checkTableInvariants(t, m.table)
				}
			}

			checkTableInvariants(t, m.table)
			require.Equal(t, len(stdm), m.Size())
			for k, v := range stdm {
				got, found := m.Get(k)
				require.True(t, found)
				require.Equal(t, v, got)
			}
		})
	}
}

func TestInvariantsSurviveRehash(t *testing.T) {
	m := NewMap[uint64, uint64](8,
		WithBucketSize[uint64](3),
		WithSeed[uint64](11))

	for i := uint64(1); i <= 5000; i++ {
		_, err := m.Put(i, i*i)
		require.NoError(t, err)
	}
	checkTableInvariants(t, m.table)

	old := m.Capacity()
	m.Reserve(3 * old)
	require.GreaterOrEqual(t, m.Capacity(), 3*old)
	checkTableInvariants(t, m.table)

	for i := uint64(1); i <= 5000; i++ {
		got, found := m.Get(i)
		require.True(t, found)
		require.Equal(t, i*i, got)
	}
}

func TestTailBucketsStartReversed(t *testing.T) {
	for _, v := range allVariants() {
		s := NewSet[uint64](32, WithBucketSize[uint64](v.k), WithLayout[uint64](v.layout))
		tbl := s.table
		for i := 0; i < v.k-1; i++ {
			require.True(t, tbl.data.isBucketReversed(tbl.numBuckets-1-i), v.name)
		}

		s.Clear()
		for i := 0; i < v.k-1; i++ {
			require.True(t, tbl.data.isBucketReversed(tbl.numBuckets-1-i), v.name)
		}
	}
}

// collidingHasher sends every key to primary bucket 0 of a 64 bin table
// while spreading the secondary buckets: fastrange consumes the high hash
// bits, and the rotation turns bits 26..31 into the top bits of the
// secondary hash.
func collidingHasher(key uint64) uint64 {
	return 0xABCD<<32 | key<<26
}

func TestSecondaryBucketPath(t *testing.T) {
	const numKeys = 16

	s := NewSet[uint64](64, WithHasher[uint64](collidingHasher))
	for key := uint64(1); key <= numKeys; key++ {
		isNew, err := s.Insert(key)
		require.NoError(t, err)
		require.True(t, isNew)
	}
	require.Equal(t, numKeys, s.Size())
	require.Equal(t, 64, s.Capacity(), "no rehash expected at this load")

	tbl := s.table
	inSecondary := 0
	for i := 0; i < tbl.numBuckets; i++ {
		if tbl.data.isEmpty(i) {
			continue
		}
		hash0 := tbl.hasher(tbl.data.key(i))
		p1 := fastrange(hash0, tbl.numBuckets)
		require.Equal(t, 0, p1, "all keys must collide on the primary bucket")
		if tbl.belongToBucket(i) != p1 {
			inSecondary++
		}
	}
	require.GreaterOrEqual(t, inSecondary, numKeys/2)
	require.NotZero(t, tbl.data.meta(0)&unluckyBit)

	for key := uint64(1); key <= numKeys; key++ {
		require.True(t, s.ContainsHint(key, HintUnknown))
		require.True(t, s.ContainsHint(key, HintExpectPositive))
		require.True(t, s.ContainsHint(key, HintExpectNegative))
	}
	checkTableInvariants(t, tbl)
}

func TestSeededHasherIsDeterministic(t *testing.T) {
	h1 := GetSeededHasher[uint64](1)
	h2 := GetSeededHasher[uint64](1)
	h3 := GetSeededHasher[uint64](2)

	require.Equal(t, h1(42), h2(42))
	require.NotEqual(t, h1(42), h3(42))

	s1 := GetSeededHasher[string](99)
	s2 := GetSeededHasher[string](99)
	require.Equal(t, s1("hello"), s2("hello"))
	require.NotEqual(t, s1("hello"), s1("world"))
}

func TestHasherStructKeys(t *testing.T) {
	type pair struct {
		a string
		b int
	}
	h := GetHasher[pair]()
	require.Equal(t, h(pair{"x", 1}), h(pair{"x", 1}))
	require.NotEqual(t, h(pair{"x", 1}), h(pair{"y", 1}))
}

func TestGrowSizeOverflow(t *testing.T) {
	tbl := &table[uint64, struct{}]{
		numElemsBucket: 2,
		numBuckets:     int(^uint(0) >> 1),
		growFactor:     defaultGrowFactor,
	}
	_, err := tbl.growSize()
	require.ErrorIs(t, err, ErrCapacityExhausted)
}
