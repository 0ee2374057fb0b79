package cbg

// Option configures a Set or Map while it is being created.
type Option[K comparable] interface {
	apply(c *config[K])
}

type config[K comparable] struct {
	numElemsBucket int
	layout         Layout
	hasher         HashFn[K]
}

func defaultConfig[K comparable]() config[K] {
	return config[K]{
		numElemsBucket: 2,
		layout:         LayoutSoA,
	}
}

type bucketSizeOption[K comparable] struct {
	n int
}

func (op bucketSizeOption[K]) apply(c *config[K]) {
	if op.n < 2 || op.n > 4 {
		panic("cbg: bucket size must be 2, 3 or 4")
	}
	c.numElemsBucket = op.n
}

// WithBucketSize sets the number of bins per bucket, which must be 2, 3
// or 4. Two bins give the fastest queries below 80% load, four bins
// sustain loads up to 99%, three is the balanced middle. The default is 2.
func WithBucketSize[K comparable](n int) Option[K] {
	return bucketSizeOption[K]{n}
}

type layoutOption[K comparable] struct {
	layout Layout
}

func (op layoutOption[K]) apply(c *config[K]) {
	if op.layout > LayoutAoB {
		panic("cbg: unknown layout")
	}
	c.layout = op.layout
}

// WithLayout selects the bin storage layout. The default is LayoutSoA.
func WithLayout[K comparable](l Layout) Option[K] {
	return layoutOption[K]{l}
}

type hasherOption[K comparable] struct {
	hasher HashFn[K]
}

func (op hasherOption[K]) apply(c *config[K]) {
	c.hasher = op.hasher
}

// WithHasher is an option to specify the hash function.
func WithHasher[K comparable](hasher HashFn[K]) Option[K] {
	return hasherOption[K]{hasher}
}

type seedOption[K comparable] struct {
	seed uint64
}

func (op seedOption[K]) apply(c *config[K]) {
	c.hasher = GetSeededHasher[K](op.seed)
}

// WithSeed seeds the default hasher with the given value instead of the
// platform entropy source, making placement reproducible. Struct, array
// and interface keys use the runtime hasher, which ignores the seed, so
// their placement is not reproducible.
func WithSeed[K comparable](seed uint64) Option[K] {
	return seedOption[K]{seed}
}
