package cbg

// capLabel bounds a label to lMax.
func capLabel(label uint16) uint16 {
	return min(label, lMax)
}

// tryInsert runs the label-guided cuckoo insertion for one element.
// Returns false when both candidate buckets are saturated at lMax, which
// means the table has to grow.
//
// A placed element gets the label "minimum of the other bucket + 1": the
// label records a lower bound on how many evictions it would take to free
// the element's alternative bin, so the eviction loop below always kicks
// out the cheapest victim. The loop terminates because every unsuccessful
// round strictly raises a label along the cuckoo path.
func (t *table[K, V]) tryInsert(key K, val V) bool {
	k := t.numElemsBucket

	for {
		hash0 := t.hasher(key)
		hash1 := secondaryHash(hash0)

		bucket1Pos := fastrange(hash0, t.numBuckets)
		bucket2Pos := fastrange(hash1, t.numBuckets)

		isReversed1 := t.data.isBucketReversed(bucket1Pos)
		isReversed2 := t.data.isBucketReversed(bucket2Pos)
		bucket1Init := bucket1Pos
		bucket2Init := bucket2Pos
		if isReversed1 {
			bucket1Init += 1 - k
		}
		if isReversed2 {
			bucket2Init += 1 - k
		}

		// Minimum label of both windows, ties toward the lowest bin.
		min1 := t.data.label(bucket1Init)
		min2 := t.data.label(bucket2Init)
		pos1 := bucket1Init
		pos2 := bucket2Init
		for i := 1; i < k; i++ {
			if label := t.data.label(bucket1Init + i); label < min1 {
				min1 = label
				pos1 = bucket1Init + i
			}
			if label := t.data.label(bucket2Init + i); label < min2 {
				min2 = label
				pos2 = bucket2Init + i
			}
		}

		// Free bin in the primary bucket.
		if min1 == 0 {
			t.data.update(pos1, pos1-bucket1Init, isReversed1, capLabel(min2+1), hash0)
			t.data.save(pos1, key, val)
			t.numElems++
			return true
		}

		// Make room in the primary bucket by reversal or hopscotch.
		if emptyPos := t.findEmptyHopscotch(bucket1Pos, bucket1Init); emptyPos >= 0 {
			isReversed1 = t.data.isBucketReversed(bucket1Pos)
			bucket1Init = bucket1Pos
			if isReversed1 {
				bucket1Init += 1 - k
			}
			t.data.update(emptyPos, emptyPos-bucket1Init, isReversed1, capLabel(min2+1), hash0)
			t.data.save(emptyPos, key, val)
			t.numElems++
			return true
		}

		// From here on the element may end up in its secondary bucket,
		// so the primary anchor is marked unlucky for the lookup path.
		if min2 == 0 {
			t.data.setUnluckyBucket(bucket1Pos)
			t.data.update(pos2, pos2-bucket2Init, isReversed2, capLabel(min1+1), hash1)
			t.data.save(pos2, key, val)
			t.numElems++
			return true
		}

		if emptyPos := t.findEmptyHopscotch(bucket2Pos, bucket2Init); emptyPos >= 0 {
			t.data.setUnluckyBucket(bucket1Pos)
			isReversed2 = t.data.isBucketReversed(bucket2Pos)
			bucket2Init = bucket2Pos
			if isReversed2 {
				bucket2Init += 1 - k
			}
			t.data.update(emptyPos, emptyPos-bucket2Init, isReversed2, capLabel(min1+1), hash1)
			t.data.save(emptyPos, key, val)
			t.numElems++
			return true
		}

		if min(min1, min2) >= lMax {
			return false
		}

		// Evict the cheapest victim and insert it instead.
		if min1 <= min2 {
			t.data.update(pos1, pos1-bucket1Init, isReversed1, capLabel(min2+1), hash0)
			victimKey, victimVal := t.data.key(pos1), *t.data.value(pos1)
			t.data.save(pos1, key, val)
			key, val = victimKey, victimVal
		} else {
			t.data.setUnluckyBucket(bucket1Pos)
			t.data.update(pos2, pos2-bucket2Init, isReversed2, capLabel(min1+1), hash1)
			victimKey, victimVal := t.data.key(pos2), *t.data.value(pos2)
			t.data.save(pos2, key, val)
			key, val = victimKey, victimVal
		}
	}
}
