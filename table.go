package cbg

const (
	defaultMaxLoad    = 0.9001
	defaultGrowFactor = 1.2
)

// table is the CBG engine shared by Set and Map. It tracks the bucket
// geometry and counters and drives the storage through the layout
// interface. Sets instantiate it with V = struct{}.
type table[K comparable, V any] struct {
	data   storage[K, V]
	hasher HashFn[K]
	// numElemsBucket is the number of bins per bucket (2..4).
	numElemsBucket int
	numElems       int
	numBuckets     int

	maxLoadFactor float32
	growFactor    float32
	// useHashTags mirrors data.hasHashTags() to keep the lookup
	// dispatch off the interface.
	useHashTags bool
}

// minBucketsCount is the smallest table the in-place rehash can handle:
// the reversed windows of the last bins of the old table must not overlap
// the reversed windows of the new one.
func (t *table[K, V]) minBucketsCount() int {
	return 2*t.numElemsBucket - 2
}

func newTable[K comparable, V any](capacity int, cfg config[K]) *table[K, V] {
	if cfg.hasher == nil {
		cfg.hasher = GetHasher[K]()
	}
	t := &table[K, V]{
		hasher:         cfg.hasher,
		numElemsBucket: cfg.numElemsBucket,
		maxLoadFactor:  defaultMaxLoad,
		growFactor:     defaultGrowFactor,
	}
	t.numBuckets = max(t.minBucketsCount(), capacity)
	t.data = newStorage[K, V](cfg.layout, t.numBuckets)
	t.useHashTags = t.data.hasHashTags()

	// The windows of the last buckets must not fall off the end.
	for i := 0; i < t.numElemsBucket-1; i++ {
		t.data.setBucketReversed(t.numBuckets - 1 - i)
	}
	return t
}

func (t *table[K, V]) capacity() int {
	return t.numBuckets
}

func (t *table[K, V]) size() int {
	return t.numElems
}

func (t *table[K, V]) load() float32 {
	return float32(t.numElems) / float32(t.numBuckets)
}

func (t *table[K, V]) setMaxLoad(lf float32) error {
	if lf <= 0.0 || lf > 1.0 {
		return errOutOfRangeF(lf)
	}
	t.maxLoadFactor = lf
	return nil
}

func (t *table[K, V]) setGrowFactor(gf float32) error {
	if gf <= 1.0 {
		return errOutOfRangeF(gf)
	}
	t.growFactor = gf
	return nil
}

func (t *table[K, V]) clear() {
	t.numElems = 0
	t.data.clear(0, t.numBuckets)

	for i := 0; i < t.numElemsBucket-1; i++ {
		t.data.setBucketReversed(t.numBuckets - 1 - i)
	}
}

func (t *table[K, V]) reserve(capacity int) {
	if capacity >= t.numBuckets+t.minBucketsCount() {
		t.rehash(capacity)
	}
}

// insert places the element, growing the table as often as needed. The
// caller has already ruled out a duplicate key.
func (t *table[K, V]) insert(key K, val V) error {
	if float32(t.numElems) >= float32(t.numBuckets)*t.maxLoadFactor {
		n, err := t.growSize()
		if err != nil {
			return err
		}
		t.rehash(n)
	}

	for !t.tryInsert(key, val) {
		n, err := t.growSize()
		if err != nil {
			return err
		}
		t.rehash(n)
	}
	return nil
}

func (t *table[K, V]) remove(key K) bool {
	pos := t.findPosition(key, HintUnknown)
	if pos < 0 {
		return false
	}
	// Only the element bits are dropped. The anchor flags stay: another
	// element may still live in its secondary bucket or in a reversed
	// window anchored here.
	t.data.setEmpty(pos)
	t.numElems--
	return true
}

func (t *table[K, V]) copyFrom(o *table[K, V]) {
	t.data = o.data.clone()
	t.hasher = o.hasher
	t.numElemsBucket = o.numElemsBucket
	t.numElems = o.numElems
	t.numBuckets = o.numBuckets
	t.maxLoadFactor = o.maxLoadFactor
	t.growFactor = o.growFactor
	t.useHashTags = o.useHashTags
}
