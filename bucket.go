package cbg

// Bucket-level primitives. A bucket anchored at position p owns the window
// [p, p+numElemsBucket-1], or [p-numElemsBucket+1, p] if its reversed flag
// is set. An occupied bin finds its anchor through the distance and
// reverse-item bits.

// calcMin returns the smallest label over the bucket window starting at
// init and the position holding it, ties broken toward the lowest
// position. A zero label means a free bin, so the scan stops early.
func (t *table[K, V]) calcMin(init int) (uint16, int) {
	minimum := t.data.label(init)
	pos := init

	for i := 1; minimum != 0 && i < t.numElemsBucket; i++ {
		if label := t.data.label(init + i); label < minimum {
			minimum = label
			pos = init + i
		}
	}

	return minimum, pos
}

// windowInit returns the first bin of the bucket anchored at pos.
func (t *table[K, V]) windowInit(pos int) (int, bool) {
	if t.data.isBucketReversed(pos) {
		return pos + 1 - t.numElemsBucket, true
	}
	return pos, false
}

// belongToBucket returns the anchor of the bucket owning the element at
// pos, or -1 for an empty bin.
func (t *table[K, V]) belongToBucket(pos int) int {
	if t.data.isEmpty(pos) {
		return -1
	}
	anchor := pos - t.data.distance(pos)
	if t.data.isReverseItem(pos) {
		anchor += t.numElemsBucket - 1
	}
	return anchor
}

// countEmpty counts the free bins among the window starting at pos.
func (t *table[K, V]) countEmpty(pos int) int {
	count := 0
	for i := 0; i < t.numElemsBucket; i++ {
		if t.data.isEmpty(pos + i) {
			count++
		}
	}
	return count
}

// countOwnedNonReversed counts the elements of the non-reversed bucket
// anchored at bucketPos that live inside its (rightward) window.
func (t *table[K, V]) countOwnedNonReversed(bucketPos int) int {
	count := 0
	for i := 0; i < t.numElemsBucket; i++ {
		pos := bucketPos + i
		// inlined belongToBucket for the non-reversed case
		if !t.data.isReverseItem(pos) && t.data.distance(pos) == i {
			count++
		}
	}
	return count
}

// countOwnedOutsideRange counts the elements owned by the non-reversed
// bucket at bucketPos, and how many of them lie outside the window
// starting at rangeInit.
func (t *table[K, V]) countOwnedOutsideRange(bucketPos, rangeInit int) (count, outside int) {
	for i := 0; i < t.numElemsBucket; i++ {
		pos := bucketPos + i
		if !t.data.isReverseItem(pos) && t.data.distance(pos) == i {
			count++
			if pos < rangeInit || pos >= rangeInit+t.numElemsBucket {
				outside++
			}
		}
	}
	return count, outside
}

// reverseBucket flips the bucket at bucketPos to its leftward window and
// relocates every element it owns into that window. The caller has
// verified there is enough free space; at most the element sitting on the
// anchor itself may stay put.
func (t *table[K, V]) reverseBucket(bucketPos int) {
	t.data.setBucketReversed(bucketPos)

	k := t.numElemsBucket
	j := k - 1
	for i := k - 1; i >= 0; i-- {
		if t.belongToBucket(bucketPos+i) != bucketPos {
			continue
		}
		for ; j >= 0 && !t.data.isEmpty(bucketPos-j); j-- {
		}
		if j >= 0 {
			t.data.update(bucketPos-j, k-1-j, true,
				t.data.label(bucketPos+i), t.data.hashTag(bucketPos+i))
			t.data.setEmpty(bucketPos + i)
			t.data.move(bucketPos-j, bucketPos+i)
		} else {
			// No free bin left; only the anchor element can stay
			// where it is, rewritten as the last bin of the new
			// window.
			t.data.update(bucketPos, k-1, true,
				t.data.label(bucketPos), t.data.hashTag(bucketPos))
		}
	}
}

// findEmptyHopscotch tries to free a bin inside the window of the bucket
// at bucketPos (window start bucketInit) without evicting anyone to the
// secondary bucket. Three strategies are tried in order: reverse this
// bucket, reverse another bucket whose elements sit in this window, and
// hopscotch an empty bin leftward into the window. Returns the freed
// position, or -1 when the window stays full.
func (t *table[K, V]) findEmptyHopscotch(bucketPos, bucketInit int) int {
	k := t.numElemsBucket

	// Reverse this bucket.
	if !t.data.isBucketReversed(bucketPos) && bucketPos >= k {
		countEmpty := t.countEmpty(bucketPos + 1 - k)
		if countEmpty > 0 {
			countElems := t.countOwnedNonReversed(bucketPos)

			if countEmpty > countElems ||
				(countEmpty == countElems && t.belongToBucket(bucketPos) == bucketPos) {
				if countElems > 0 {
					t.reverseBucket(bucketPos)
				} else {
					t.data.setBucketReversed(bucketPos)
				}

				_, pos := t.calcMin(bucketPos + 1 - k)
				return pos
			}
		}
	}

	// Reverse some other bucket with elements inside this window.
	if bucketInit >= 2*k {
		for i := 0; i < k; i++ {
			posElem := bucketInit + i
			if t.data.isReverseItem(posElem) {
				continue
			}
			bucketElem := posElem - t.data.distance(posElem)
			if bucketElem == bucketPos {
				continue
			}

			// Skip candidates whose leftward window has no free bin.
			countEmpty := t.countEmpty(bucketElem + 1 - k)
			if countEmpty == 0 {
				continue
			}
			countElems, countOutside := t.countOwnedOutsideRange(bucketElem, bucketInit)

			if countOutside < countEmpty &&
				(countEmpty >= countElems ||
					(countEmpty+1 == countElems && t.belongToBucket(bucketElem) == bucketElem)) {
				t.reverseBucket(bucketElem)

				_, pos := t.calcMin(bucketInit)
				return pos
			}
		}
	}

	// Hopscotch: walk right for an empty bin that some chain of in-bucket
	// moves can drag back into the window. maxDistToMove tracks how far
	// the rightmost reachable empty bin may be.
	maxDistToMove := k - 1
	for i := 0; i <= maxDistToMove && bucketInit+i < t.numBuckets; i++ {
		if t.data.isEmpty(bucketInit + i) {
			blank := bucketInit + i
			for blank-bucketInit >= k {
				swap := blank + 1 - k
				for blank-swap > k-1-t.data.distance(swap) {
					swap++
				}

				t.data.move(blank, swap)
				t.data.update(blank, t.data.distance(swap)+(blank-swap),
					t.data.isReverseItem(swap), t.data.label(swap), t.data.hashTag(swap))

				blank = swap
			}
			return blank
		}
		if m := i + k - 1 - t.data.distance(bucketInit+i); m > maxDistToMove {
			maxDistToMove = m
		}
	}

	return -1
}
