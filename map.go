package cbg

// Map is an unordered key-value container hashed with the CBG scheme. The
// zero value is not usable, create instances with NewMap. A Map is not
// safe for concurrent use.
//
// Values are stored and moved by plain copy: during insertion existing
// elements migrate between bins without any destructor-like hook running.
// Use value types for which a bitwise copy is the full story.
type Map[K comparable, V any] struct {
	table *table[K, V]
}

// NewMap creates a map backed by capacity bins (at least 2k-2 for bucket
// size k), using the given options. The map grows once its load reaches
// the maximum load factor, or earlier when an insertion finds both
// candidate buckets saturated. Invalid option values panic, the choices
// are programming errors, not runtime conditions.
func NewMap[K comparable, V any](capacity int, opts ...Option[K]) *Map[K, V] {
	cfg := defaultConfig[K]()
	for _, op := range opts {
		op.apply(&cfg)
	}
	return &Map[K, V]{table: newTable[K, V](capacity, cfg)}
}

// Put maps the given key to the given value. If the key already exists
// its value is overwritten with the new value. It returns true if the
// element is a new item in the map. The only possible error is
// ErrCapacityExhausted.
func (m *Map[K, V]) Put(key K, val V) (bool, error) {
	if pos := m.table.findPosition(key, HintUnknown); pos >= 0 {
		*m.table.data.value(pos) = val
		return false, nil
	}
	if err := m.table.insert(key, val); err != nil {
		return false, err
	}
	return true, nil
}

// Get returns the value stored for this key, or false if there is no
// such value.
func (m *Map[K, V]) Get(key K) (V, bool) {
	return m.GetHint(key, HintUnknown)
}

// GetHint is Get with an expected outcome, see SearchHint.
func (m *Map[K, V]) GetHint(key K, hint SearchHint) (V, bool) {
	if pos := m.table.findPosition(key, hint); pos >= 0 {
		return *m.table.data.value(pos), true
	}
	var v V
	return v, false
}

// At returns the value stored for this key, or ErrKeyNotFound.
func (m *Map[K, V]) At(key K) (V, error) {
	if pos := m.table.findPosition(key, HintExpectPositive); pos >= 0 {
		return *m.table.data.value(pos), nil
	}
	var v V
	return v, ErrKeyNotFound
}

// GetOrInsert returns a pointer to the value stored for this key,
// inserting the zero value first when the key is absent. The pointer is
// valid until the next operation that can move or release elements: Put
// or GetOrInsert of an absent key, Reserve, Clear, or Remove of this key.
func (m *Map[K, V]) GetOrInsert(key K) (*V, error) {
	pos := m.table.findPosition(key, HintExpectPositive)
	if pos < 0 {
		var zero V
		if err := m.table.insert(key, zero); err != nil {
			return nil, err
		}
		pos = m.table.findPosition(key, HintExpectPositive)
	}
	return m.table.data.value(pos), nil
}

// Contains reports whether the key is in the map.
func (m *Map[K, V]) Contains(key K) bool {
	return m.table.findPosition(key, HintUnknown) >= 0
}

// ContainsHint is Contains with an expected outcome, see SearchHint.
func (m *Map[K, V]) ContainsHint(key K, hint SearchHint) bool {
	return m.table.findPosition(key, hint) >= 0
}

// Count returns 1 if the key is in the map, 0 otherwise.
func (m *Map[K, V]) Count(key K, hint SearchHint) int {
	if m.table.findPosition(key, hint) >= 0 {
		return 1
	}
	return 0
}

// Remove removes the specified key-value pair from the map.
// Returns true if the element was in the map.
func (m *Map[K, V]) Remove(key K) bool {
	return m.table.remove(key)
}

// Clear removes all key-value pairs from the map, keeping the capacity.
func (m *Map[K, V]) Clear() {
	m.table.clear()
}

// Size returns the number of items in the map.
func (m *Map[K, V]) Size() int {
	return m.table.size()
}

// Empty reports whether the map holds no items.
func (m *Map[K, V]) Empty() bool {
	return m.table.size() == 0
}

// Capacity returns the number of bins backing the map.
func (m *Map[K, V]) Capacity() int {
	return m.table.capacity()
}

// BucketCount is the same as Capacity.
func (m *Map[K, V]) BucketCount() int {
	return m.table.capacity()
}

// Load returns the current load of the map as a ratio in [0,1].
func (m *Map[K, V]) Load() float32 {
	return m.table.load()
}

// MaxLoad forces growing once the load ratio is reached. Useful values
// depend on the bucket size, see the package documentation.
// Returns ErrOutOfRange if lf is not in (0.0,1.0].
func (m *Map[K, V]) MaxLoad(lf float32) error {
	return m.table.setMaxLoad(lf)
}

// GrowFactor sets how much the table grows when it has to.
// Returns ErrOutOfRange if gf is not greater than 1.0.
func (m *Map[K, V]) GrowFactor(gf float32) error {
	return m.table.setGrowFactor(gf)
}

// Reserve grows the map to hold at least capacity bins. Requests below
// the minimum growth step have no effect.
func (m *Map[K, V]) Reserve(capacity int) {
	m.table.reserve(capacity)
}

// Copy returns a copy of this map.
func (m *Map[K, V]) Copy() *Map[K, V] {
	c := &Map[K, V]{table: &table[K, V]{}}
	c.table.copyFrom(m.table)
	return c
}
