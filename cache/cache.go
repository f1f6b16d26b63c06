// Package cache provides memoization for compiled hazard model maps.
// Compilation is deterministic, so specifications that hash equal
// always yield the same maps. Caching pays off in interactive model
// building, where the same specification is recompiled after edits to
// unrelated parts of a session.
package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"log"
	"sort"
	"sync"

	"github.com/hazmap-xyz/go-hazmap/compile"
)

// ResultCache caches compiled results keyed by specification hash.
type ResultCache struct {
	mu        sync.RWMutex
	cache     map[string]*compile.Result
	maxSize   int
	hits      int64
	misses    int64
	evictions int64
}

// NewResultCache creates a cache with the specified maximum size.
// When the cache is full, an arbitrary entry is evicted.
// Set maxSize to 0 for an unlimited cache.
func NewResultCache(maxSize int) *ResultCache {
	return &ResultCache{
		cache:   make(map[string]*compile.Result),
		maxSize: maxSize,
	}
}

// HashSpec creates a deterministic hash of a model specification.
// Expression trees contribute through their canonical rendering, and
// attribute columns are visited in sorted order.
func HashSpec(spec compile.ModelSpec) string {
	h := sha256.New()
	buf := make([]byte, 8)
	writeInt := func(v int) {
		binary.BigEndian.PutUint64(buf, uint64(int64(v)))
		h.Write(buf)
	}
	writeStr := func(s string) {
		writeInt(len(s))
		h.Write([]byte(s))
	}

	if spec.Table != nil {
		ns := spec.Table.Len()
		writeInt(ns)
		attrNames := map[string]bool{}
		for i := 1; i <= ns; i++ {
			st := spec.Table.State(i)
			writeStr(st.Name)
			for k := range st.Attrs {
				attrNames[k] = true
			}
		}
		keys := make([]string, 0, len(attrNames))
		for k := range attrNames {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			writeStr(k)
			for i := 1; i <= ns; i++ {
				writeStr(spec.Table.State(i).Attrs[k])
			}
		}
	}

	if spec.Default != nil {
		writeStr(spec.Default.String())
	}
	writeInt(len(spec.Lines))
	for _, l := range spec.Lines {
		writeStr(l.String())
	}

	writeInt(len(spec.Observed))
	for _, row := range spec.Observed {
		writeInt(len(row))
		for _, n := range row {
			writeInt(n)
		}
	}
	writeInt(spec.Censor)

	if spec.Layout != nil {
		writeInt(len(spec.Layout.Names))
		for _, n := range spec.Layout.Names {
			writeStr(n)
		}
		for _, a := range spec.Layout.Assign {
			writeInt(a)
		}
	}

	return string(h.Sum(nil))
}

// Get retrieves a cached result for the given specification.
// Returns nil if not found. Lookups take the write lock because they
// mutate the hit and miss counters.
func (c *ResultCache) Get(spec compile.ModelSpec) *compile.Result {
	key := HashSpec(spec)

	c.mu.Lock()
	defer c.mu.Unlock()

	if res, ok := c.cache[key]; ok {
		c.hits++
		return res
	}
	c.misses++
	return nil
}

// Put stores a result in the cache.
func (c *ResultCache) Put(spec compile.ModelSpec, res *compile.Result) {
	key := HashSpec(spec)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.maxSize > 0 && len(c.cache) >= c.maxSize {
		for k := range c.cache {
			delete(c.cache, k)
			c.evictions++
			break
		}
	}

	c.cache[key] = res
}

// GetOrCompile retrieves from cache or compiles and caches the result.
// Failed compilations are returned without being cached.
func (c *ResultCache) GetOrCompile(spec compile.ModelSpec, compileFn func() (*compile.Result, error)) (*compile.Result, error) {
	if res := c.Get(spec); res != nil {
		return res, nil
	}

	res, err := compileFn()
	if err != nil {
		return nil, err
	}
	c.Put(spec, res)
	return res, nil
}

// Clear removes all entries from the cache.
func (c *ResultCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string]*compile.Result)
}

// Size returns the current number of cached entries.
func (c *ResultCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

// Stats returns cache statistics.
type Stats struct {
	Size      int
	MaxSize   int
	Hits      int64
	Misses    int64
	Evictions int64
	HitRate   float64
}

// Stats returns cache statistics.
func (c *ResultCache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	total := c.hits + c.misses
	hitRate := 0.0
	if total > 0 {
		hitRate = float64(c.hits) / float64(total)
	}

	return Stats{
		Size:      len(c.cache),
		MaxSize:   c.maxSize,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		HitRate:   hitRate,
	}
}

// CachedCompiler wraps a compiler with built-in result caching.
type CachedCompiler struct {
	compiler *compile.Compiler
	cache    *ResultCache
}

// NewCachedCompiler creates a compiler with built-in caching.
func NewCachedCompiler(cacheSize int) *CachedCompiler {
	return &CachedCompiler{
		compiler: compile.New(),
		cache:    NewResultCache(cacheSize),
	}
}

// WithLogger routes compiler progress logging to l.
func (cc *CachedCompiler) WithLogger(l *log.Logger) *CachedCompiler {
	cc.compiler.WithLogger(l)
	return cc
}

// Compile compiles a specification, reusing a cached result when the
// same specification was compiled before.
func (cc *CachedCompiler) Compile(spec compile.ModelSpec) (*compile.Result, error) {
	return cc.cache.GetOrCompile(spec, func() (*compile.Result, error) {
		return cc.compiler.Compile(spec)
	})
}

// Cache returns the underlying cache for inspection.
func (cc *CachedCompiler) Cache() *ResultCache {
	return cc.cache
}

// ClearCache clears the cache.
func (cc *CachedCompiler) ClearCache() {
	cc.cache.Clear()
}
