package cache

import (
	"strings"
	"sync"
	"sync/atomic"
)

// Keys extracts the indexed fields of an entity.
type Keys[T any] struct {
	ID    func(T) string
	Name  func(T) string
	Color func(T) string
}

// index is an immutable snapshot of one collection and every lookup derived
// from it. It is never modified after being published.
type index[T any] struct {
	items  []T
	pos    map[string]int    // id -> position in items
	names  map[string]string // id -> name
	colors map[string]string // id -> color, only non-empty colors
	byName map[string]string // lower(name) -> id
}

// Collection holds one remote collection. Readers load the current snapshot
// without locking; writers build a new snapshot and swap it in.
type Collection[T any] struct {
	keys Keys[T]
	mu   sync.Mutex
	cur  atomic.Pointer[index[T]]
}

// NewCollection creates an empty collection indexed by keys.
func NewCollection[T any](keys Keys[T]) *Collection[T] {
	c := &Collection[T]{keys: keys}
	c.cur.Store(c.build(nil))
	return c
}

func (c *Collection[T]) build(items []T) *index[T] {
	idx := &index[T]{
		items:  make([]T, 0, len(items)),
		pos:    make(map[string]int, len(items)),
		names:  make(map[string]string, len(items)),
		colors: make(map[string]string, len(items)),
		byName: make(map[string]string, len(items)),
	}

	for _, item := range items {
		id := c.keys.ID(item)
		if id == "" {
			continue
		}
		if p, dup := idx.pos[id]; dup {
			// a repeated id replaces the earlier entry in place
			old := idx.items[p]
			delete(idx.byName, strings.ToLower(c.keys.Name(old)))
			idx.items[p] = item
		} else {
			idx.pos[id] = len(idx.items)
			idx.items = append(idx.items, item)
		}
		c.indexOne(idx, id, item)
	}

	return idx
}

func (c *Collection[T]) indexOne(idx *index[T], id string, item T) {
	name := c.keys.Name(item)
	idx.names[id] = name
	if name != "" {
		idx.byName[strings.ToLower(name)] = id
	}

	delete(idx.colors, id)
	if c.keys.Color != nil {
		if color := c.keys.Color(item); color != "" {
			idx.colors[id] = color
		}
	}
}

// Replace swaps the whole collection and rebuilds every index from items.
func (c *Collection[T]) Replace(items []T) {
	next := c.build(items)

	c.mu.Lock()
	c.cur.Store(next)
	c.mu.Unlock()
}

// Upsert inserts or updates one entity, keeping the rest of the snapshot.
func (c *Collection[T]) Upsert(item T) {
	id := c.keys.ID(item)
	if id == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	prev := c.cur.Load()
	next := prev.clone()

	if p, ok := next.pos[id]; ok {
		old := next.items[p]
		if oldKey := strings.ToLower(c.keys.Name(old)); next.byName[oldKey] == id {
			delete(next.byName, oldKey)
		}
		next.items[p] = item
	} else {
		next.pos[id] = len(next.items)
		next.items = append(next.items, item)
	}
	c.indexOne(next, id, item)

	c.cur.Store(next)
}

// Remove drops one entity. It reports whether the id was present.
func (c *Collection[T]) Remove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	prev := c.cur.Load()
	if _, ok := prev.pos[id]; !ok {
		return false
	}

	kept := make([]T, 0, len(prev.items)-1)
	for _, item := range prev.items {
		if c.keys.ID(item) != id {
			kept = append(kept, item)
		}
	}
	c.cur.Store(c.build(kept))
	return true
}

// Snapshot returns a consistent read-only view of the collection.
func (c *Collection[T]) Snapshot() View[T] {
	return View[T]{idx: c.cur.Load()}
}

// Items returns a copy of the current entities in server order.
func (c *Collection[T]) Items() []T {
	return c.Snapshot().Items()
}

// Len returns the number of entities.
func (c *Collection[T]) Len() int {
	return len(c.cur.Load().items)
}

// Get returns the entity with the given id.
func (c *Collection[T]) Get(id string) (T, bool) {
	return c.Snapshot().Get(id)
}

// Name returns the indexed name for id.
func (c *Collection[T]) Name(id string) (string, bool) {
	return c.Snapshot().Name(id)
}

// Color returns the indexed color for id.
func (c *Collection[T]) Color(id string) (string, bool) {
	return c.Snapshot().Color(id)
}

// IDByName resolves a name, case-insensitively, to an id.
func (c *Collection[T]) IDByName(name string) (string, bool) {
	return c.Snapshot().IDByName(name)
}

func (idx *index[T]) clone() *index[T] {
	next := &index[T]{
		items:  make([]T, len(idx.items), len(idx.items)+1),
		pos:    make(map[string]int, len(idx.pos)+1),
		names:  make(map[string]string, len(idx.names)+1),
		colors: make(map[string]string, len(idx.colors)+1),
		byName: make(map[string]string, len(idx.byName)+1),
	}
	copy(next.items, idx.items)
	for k, v := range idx.pos {
		next.pos[k] = v
	}
	for k, v := range idx.names {
		next.names[k] = v
	}
	for k, v := range idx.colors {
		next.colors[k] = v
	}
	for k, v := range idx.byName {
		next.byName[k] = v
	}
	return next
}

// View is one published snapshot. Entities and lookups always agree.
type View[T any] struct {
	idx *index[T]
}

// Items returns a copy of the entities in server order.
func (v View[T]) Items() []T {
	out := make([]T, len(v.idx.items))
	copy(out, v.idx.items)
	return out
}

// Len returns the number of entities.
func (v View[T]) Len() int {
	return len(v.idx.items)
}

// Get returns the entity with the given id.
func (v View[T]) Get(id string) (T, bool) {
	p, ok := v.idx.pos[id]
	if !ok {
		var zero T
		return zero, false
	}
	return v.idx.items[p], true
}

// Name returns the indexed name for id.
func (v View[T]) Name(id string) (string, bool) {
	name, ok := v.idx.names[id]
	return name, ok
}

// Color returns the indexed color for id.
func (v View[T]) Color(id string) (string, bool) {
	color, ok := v.idx.colors[id]
	return color, ok
}

// IDByName resolves a name, case-insensitively, to an id.
func (v View[T]) IDByName(name string) (string, bool) {
	id, ok := v.idx.byName[strings.ToLower(name)]
	return id, ok
}
