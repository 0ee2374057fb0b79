package cbg

import "github.com/gammazero/deque"

type element[K comparable, V any] struct {
	key K
	val V
}

// growSize returns the next table size: at least the minimum head room
// for the in-place pass, otherwise the configured growth.
func (t *table[K, V]) growSize() (int, error) {
	newNumBuckets := max(t.numBuckets+t.minBucketsCount(),
		int(float64(t.numBuckets)*float64(t.growFactor)))
	if newNumBuckets <= t.numBuckets {
		return 0, ErrCapacityExhausted
	}
	return newNumBuckets, nil
}

// rehash grows the table to newNumBuckets in place. Elements are first
// replayed from the old tail downward: an element whose new primary
// window starts after its current bin can be placed immediately without
// clobbering unread bins. The rest are parked in an overflow buffer and
// re-inserted regularly; holding ~1/8 of the elements there keeps the
// peak extra memory far below a full second table. If the re-insert runs
// into saturated buckets the target size is bumped a few percent and the
// whole pass repeats on what is already in place.
func (t *table[K, V]) rehash(newNumBuckets int) {
	overflow := deque.New[element[K, V]]()
	needRehash := true

	for needRehash {
		needRehash = false

		oldNumBuckets := t.numBuckets
		t.numBuckets = newNumBuckets
		newNumBuckets += max(1, newNumBuckets>>5) // add 3.1% if this pass fails

		t.data.resize(t.numBuckets)
		t.data.clear(oldNumBuckets, t.numBuckets-oldNumBuckets)
		t.numElems = 0
		for i := 0; i < t.numElemsBucket-1; i++ {
			t.data.setBucketReversed(t.numBuckets - 1 - i)
		}

		// Move items from the old end toward the new end.
		for i := oldNumBuckets - 1; i > 0; i-- {
			if !t.data.isEmpty(i) {
				hash0 := t.hasher(t.data.key(i))
				bucket1Init := fastrange(hash0, t.numBuckets)
				isReversed1 := t.data.isBucketReversed(bucket1Init)
				if isReversed1 {
					bucket1Init += 1 - t.numElemsBucket
				}
				moved := false

				if bucket1Init > i {
					if min1, pos1 := t.calcMin(bucket1Init); min1 == 0 {
						t.data.update(pos1, pos1-bucket1Init, isReversed1, 1, hash0)
						t.data.move(pos1, i)
						t.numElems++
						moved = true
					}
				}

				if !moved {
					overflow.PushBack(element[K, V]{t.data.key(i), *t.data.value(i)})
				}
			}
			t.data.clear(i, 1)
		}

		// Bin 0 is outside the loop above; its element always goes
		// through the overflow buffer.
		if !t.data.isEmpty(0) {
			overflow.PushBack(element[K, V]{t.data.key(0), *t.data.value(0)})
		}
		t.data.clear(0, 1)

		for overflow.Len() > 0 && !needRehash {
			e := overflow.Back()
			if t.tryInsert(e.key, e.val) {
				overflow.PopBack()
			} else {
				needRehash = true
			}
		}
	}
}
