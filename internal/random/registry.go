package random

import (
	"fmt"
	"sort"
	"sync/atomic"
)

// Registry maps category ids to categories. It is mutated only from the
// simulator's control goroutine.
type Registry struct {
	categories map[string]*Category
	stepping   atomic.Bool
}

func NewRegistry() *Registry {
	return &Registry{categories: make(map[string]*Category)}
}

// CreateCategory adds a category unless the id is taken, in which case it
// returns false and changes nothing.
func (r *Registry) CreateCategory(id string, seed uint32) bool {
	if _, ok := r.categories[id]; ok {
		return false
	}
	c, err := NewCategory(id, seed)
	if err != nil {
		// The default generator type always exists in the active backend.
		panic(err)
	}
	c.guard = &r.stepping
	r.categories[id] = c
	return true
}

func (r *Registry) Category(id string) (*Category, error) {
	c, ok := r.categories[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrCategoryNotFound, id)
	}
	return c, nil
}

func (r *Registry) ExistsCategory(id string) bool {
	_, ok := r.categories[id]
	return ok
}

// RemoveCategory drops a category together with all its RNGs.
func (r *Registry) RemoveCategory(id string) error {
	if _, ok := r.categories[id]; !ok {
		return fmt.Errorf("%w: %q", ErrCategoryNotFound, id)
	}
	delete(r.categories, id)
	return nil
}

// Categories returns the registered ids, sorted.
func (r *Registry) Categories() []string {
	ids := make([]string, 0, len(r.categories))
	for id := range r.categories {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (r *Registry) CreateRNG(category, typ string) (*RNG, error) {
	c, err := r.Category(category)
	if err != nil {
		return nil, err
	}
	return c.CreateRNG(typ)
}

func (r *Registry) SeedOf(category string) (uint32, error) {
	c, err := r.Category(category)
	if err != nil {
		return 0, err
	}
	return c.Seed(), nil
}

func (r *Registry) SetSeedOf(category string, seed uint32) error {
	c, err := r.Category(category)
	if err != nil {
		return err
	}
	c.SetSeed(seed)
	return nil
}

// Reset calls ResetRNGs on every category, in id order.
func (r *Registry) Reset() {
	for _, id := range r.Categories() {
		r.categories[id].ResetRNGs()
	}
}

// BeginStep marks the start of a parallel stepping phase; CreateRNG fails
// until EndStep.
func (r *Registry) BeginStep() { r.stepping.Store(true) }

func (r *Registry) EndStep() { r.stepping.Store(false) }

// SaveState serializes the category count followed by every category in id
// order.
func (r *Registry) SaveState() ([]byte, error) {
	var w stateWriter
	ids := r.Categories()
	w.u64(uint64(len(ids)))
	for _, id := range ids {
		if err := r.categories[id].save(&w); err != nil {
			return nil, err
		}
	}
	return w.buf.Bytes(), nil
}

// LoadState replaces the registry content with a SaveState buffer.
// Categories present in both are restored in place; categories absent from
// the buffer are removed. Every generator is built before the first category
// changes, so the registry is left untouched on any error.
func (r *Registry) LoadState(data []byte) error {
	sr := newStateReader(data)
	n, err := sr.u64()
	if err != nil {
		return err
	}
	states := make([]categoryState, 0)
	for i := uint64(0); i < n; i++ {
		cs, err := sr.category()
		if err != nil {
			return fmt.Errorf("category %d: %w", i, err)
		}
		states = append(states, cs)
	}
	if sr.r.Len() != 0 {
		return fmt.Errorf("%w: %d trailing bytes", ErrCorruptState, sr.r.Len())
	}
	built := make([]builtCategory, 0, len(states))
	for _, cs := range states {
		bc, err := cs.build()
		if err != nil {
			return err
		}
		built = append(built, bc)
	}
	next := make(map[string]*Category, len(built))
	for _, bc := range built {
		c, ok := r.categories[bc.id]
		if !ok {
			c = &Category{guard: &r.stepping}
		}
		c.commit(bc)
		next[bc.id] = c
	}
	r.categories = next
	return nil
}
