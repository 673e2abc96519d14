package storage

// Set defines a concurrency-safe set of comparable keys
type Set[K comparable] interface {
	// Add inserts key and reports whether it was not present before.
	// Check and insert happen under one lock, so exactly one concurrent
	// caller sees true for a given key.
	Add(key K) bool
	Has(key K) bool
	Delete(key K) bool
	ForEach(fn func(key K) bool)
	Snapshot() map[K]struct{}
	Count() int
}
