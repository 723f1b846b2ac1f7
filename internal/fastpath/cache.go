package fastpath

import "vectra/internal/instr"

type cacheKey struct {
	hash   uint64
	depth  int
	dyadic bool
}

// Cache memoizes recognition results per function hash and depth. It
// is meant to be held per-context (per spec.md §9: "no cyclic
// structures; per-context (not global) recognizer cache"), since a
// fast-path entry closes over nothing global but recomputing it on
// every call of a hot inner function would waste cycles.
type Cache struct {
	entries map[cacheKey]*Entry
}

// NewCache builds an empty recognizer cache.
func NewCache() *Cache { return &Cache{entries: make(map[cacheKey]*Entry)} }

// MonadicEntry returns the cached (or freshly recognized and cached)
// monadic fast-path entry for f at depth, or nil if f doesn't
// recognize as a fast path.
func (c *Cache) MonadicEntry(f *instr.Function, depth int) *Entry {
	key := cacheKey{hash: f.Hash(), depth: depth, dyadic: false}
	if e, ok := c.entries[key]; ok {
		return e
	}
	e := RecognizeMonadic(f, depth)
	c.entries[key] = e
	return e
}

// Monadic2Entry returns the cached (or freshly recognized) Monadic-2
// fast-path entry for f at depth, or nil if f doesn't recognize as one.
// It shares MonadicEntry's cache slot and recognition pass — a body can
// only ever match one of KindMonadic/KindMonadic2/KindMonadicReplace/nil
// — so a lookup that turns up any other kind of entry here correctly
// reports "not a Monadic-2 fast path" rather than recomputing anything.
func (c *Cache) Monadic2Entry(f *instr.Function, depth int) *Entry {
	e := c.MonadicEntry(f, depth)
	if e == nil || e.Kind != KindMonadic2 {
		return nil
	}
	return e
}

// DyadicEntry is MonadicEntry's dyadic counterpart.
func (c *Cache) DyadicEntry(f *instr.Function, depth int) *Entry {
	key := cacheKey{hash: f.Hash(), depth: depth, dyadic: true}
	if e, ok := c.entries[key]; ok {
		return e
	}
	e := RecognizeDyadic(f, depth)
	c.entries[key] = e
	return e
}
