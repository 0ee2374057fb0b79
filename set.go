package cbg

// Set is an unordered collection of unique keys hashed with the CBG
// scheme. The zero value is not usable, create instances with NewSet.
// A Set is not safe for concurrent use.
type Set[K comparable] struct {
	table *table[K, struct{}]
}

// NewSet creates a set backed by capacity bins (at least 2k-2 for bucket
// size k), using the given options. The set grows once its load reaches
// the maximum load factor, or earlier when an insertion finds both
// candidate buckets saturated. Invalid option values panic, the choices
// are programming errors, not runtime conditions.
func NewSet[K comparable](capacity int, opts ...Option[K]) *Set[K] {
	cfg := defaultConfig[K]()
	for _, op := range opts {
		op.apply(&cfg)
	}
	return &Set[K]{table: newTable[K, struct{}](capacity, cfg)}
}

// Insert adds the key to the set. It returns true if the key was not
// present before. Inserting a present key is a no-op. The only possible
// error is ErrCapacityExhausted.
func (s *Set[K]) Insert(key K) (bool, error) {
	if s.table.findPosition(key, HintUnknown) >= 0 {
		return false, nil
	}
	if err := s.table.insert(key, struct{}{}); err != nil {
		return false, err
	}
	return true, nil
}

// Contains reports whether the key is in the set.
func (s *Set[K]) Contains(key K) bool {
	return s.table.findPosition(key, HintUnknown) >= 0
}

// ContainsHint is Contains with an expected outcome, see SearchHint.
func (s *Set[K]) ContainsHint(key K, hint SearchHint) bool {
	return s.table.findPosition(key, hint) >= 0
}

// Count returns 1 if the key is in the set, 0 otherwise.
func (s *Set[K]) Count(key K, hint SearchHint) int {
	if s.table.findPosition(key, hint) >= 0 {
		return 1
	}
	return 0
}

// Remove removes the key from the set.
// Returns true if the key was in the set.
func (s *Set[K]) Remove(key K) bool {
	return s.table.remove(key)
}

// Clear removes all keys from the set, keeping the capacity.
func (s *Set[K]) Clear() {
	s.table.clear()
}

// Size returns the number of keys in the set.
func (s *Set[K]) Size() int {
	return s.table.size()
}

// Empty reports whether the set holds no keys.
func (s *Set[K]) Empty() bool {
	return s.table.size() == 0
}

// Capacity returns the number of bins backing the set.
func (s *Set[K]) Capacity() int {
	return s.table.capacity()
}

// BucketCount is the same as Capacity.
func (s *Set[K]) BucketCount() int {
	return s.table.capacity()
}

// Load returns the current load of the set as a ratio in [0,1].
func (s *Set[K]) Load() float32 {
	return s.table.load()
}

// MaxLoad forces growing once the load ratio is reached. Useful values
// depend on the bucket size, see the package documentation.
// Returns ErrOutOfRange if lf is not in (0.0,1.0].
func (s *Set[K]) MaxLoad(lf float32) error {
	return s.table.setMaxLoad(lf)
}

// GrowFactor sets how much the table grows when it has to.
// Returns ErrOutOfRange if gf is not greater than 1.0.
func (s *Set[K]) GrowFactor(gf float32) error {
	return s.table.setGrowFactor(gf)
}

// Reserve grows the set to hold at least capacity bins. Requests below
// the minimum growth step have no effect.
func (s *Set[K]) Reserve(capacity int) {
	s.table.reserve(capacity)
}

// Copy returns a copy of this set.
func (s *Set[K]) Copy() *Set[K] {
	c := &Set[K]{table: &table[K, struct{}]{}}
	c.table.copyFrom(s.table)
	return c
}
