package cbg

// Lookup paths. All share one shape: probe the bins of the primary bucket
// in the direction of its reversed flag, then the secondary bucket's bins,
// either gated on the unlucky flag (negative paths) or unconditionally
// (positive path). They return the bin index or -1.

// findPositionNegative is the miss-biased path for layouts carrying hash
// tags. A bin is only compared when the cached hash byte matches, which
// kills most negative probes without loading a key.
func (t *table[K, V]) findPositionNegative(key K) int {
	hash := t.hasher(key)
	pos := fastrange(hash, t.numBuckets)

	c0 := t.data.meta(pos)
	h := uint16(hash)

	if (c0^h)&hashTagMask == 0 && c0&labelMask != 0 && t.data.key(pos) == key {
		return pos
	}

	step := 1
	if c0&reverseBit != 0 {
		step = -1
	}
	probe := pos
	for i := 1; i < t.numElemsBucket; i++ {
		probe += step
		cc := t.data.meta(probe)
		if (cc^h)&hashTagMask == 0 && cc&labelMask != 0 && t.data.key(probe) == key {
			return probe
		}
	}

	if c0&unluckyBit != 0 {
		hash = secondaryHash(hash)
		pos = fastrange(hash, t.numBuckets)
		h = uint16(hash)

		cc := t.data.meta(pos)
		if (cc^h)&hashTagMask == 0 && cc&labelMask != 0 && t.data.key(pos) == key {
			return pos
		}

		step = 1
		if cc&reverseBit != 0 {
			step = -1
		}
		for i := 1; i < t.numElemsBucket; i++ {
			pos += step
			cc = t.data.meta(pos)
			if (cc^h)&hashTagMask == 0 && cc&labelMask != 0 && t.data.key(pos) == key {
				return pos
			}
		}
	}

	return -1
}

// findPositionNegativeNoTags is the miss-biased path for the colocated
// layouts, whose metadata has no room for hash tags.
func (t *table[K, V]) findPositionNegativeNoTags(key K) int {
	hash := t.hasher(key)
	pos := fastrange(hash, t.numBuckets)

	c0 := t.data.meta(pos)

	if t.data.key(pos) == key && c0&labelMask != 0 {
		return pos
	}

	step := 1
	if c0&reverseBit != 0 {
		step = -1
	}
	probe := pos
	for i := 1; i < t.numElemsBucket; i++ {
		probe += step
		if t.data.key(probe) == key && t.data.meta(probe)&labelMask != 0 {
			return probe
		}
	}

	if c0&unluckyBit != 0 {
		hash = secondaryHash(hash)
		pos = fastrange(hash, t.numBuckets)

		cc := t.data.meta(pos)
		if t.data.key(pos) == key && cc&labelMask != 0 {
			return pos
		}

		step = 1
		if cc&reverseBit != 0 {
			step = -1
		}
		for i := 1; i < t.numElemsBucket; i++ {
			pos += step
			if t.data.key(pos) == key && t.data.meta(pos)&labelMask != 0 {
				return pos
			}
		}
	}

	return -1
}

// findPositionPositive is the hit-biased path. The secondary bucket is
// probed without consulting the unlucky flag: for workloads dominated by
// hits the guaranteed extra probe is cheaper than the mispredicted branch.
func (t *table[K, V]) findPositionPositive(key K) int {
	hash := t.hasher(key)
	pos := fastrange(hash, t.numBuckets)

	c0 := t.data.meta(pos)

	if t.data.key(pos) == key && c0&labelMask != 0 {
		return pos
	}

	step := 1
	if c0&reverseBit != 0 {
		step = -1
	}
	probe := pos
	for i := 1; i < t.numElemsBucket; i++ {
		probe += step
		if t.data.key(probe) == key && t.data.meta(probe)&labelMask != 0 {
			return probe
		}
	}

	hash = secondaryHash(hash)
	pos = fastrange(hash, t.numBuckets)

	cc := t.data.meta(pos)
	if t.data.key(pos) == key && cc&labelMask != 0 {
		return pos
	}

	step = 1
	if cc&reverseBit != 0 {
		step = -1
	}
	for i := 1; i < t.numElemsBucket; i++ {
		pos += step
		if t.data.key(pos) == key && t.data.meta(pos)&labelMask != 0 {
			return pos
		}
	}

	return -1
}

func (t *table[K, V]) findPosition(key K, hint SearchHint) int {
	if hint == HintExpectPositive {
		return t.findPositionPositive(key)
	}

	// Negative or unknown queries.
	if t.useHashTags {
		return t.findPositionNegative(key)
	}
	return t.findPositionNegativeNoTags(key)
}
