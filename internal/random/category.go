package random

import (
	"fmt"
	"sync/atomic"
)

// Category owns a seeder RNG and every RNG it has seeded. Member RNGs never
// outlive their category.
type Category struct {
	id      string
	seed    uint32
	seeder  *RNG
	members []*RNG
	guard   *atomic.Bool
}

// NewCategory builds a standalone category whose seeder uses the backend
// default generator type.
func NewCategory(id string, seed uint32) (*Category, error) {
	seeder, err := NewRNG(seed, "")
	if err != nil {
		return nil, fmt.Errorf("category %q seeder: %w", id, err)
	}
	return &Category{id: id, seed: seed, seeder: seeder}, nil
}

func (c *Category) ID() string   { return c.id }
func (c *Category) Seed() uint32 { return c.seed }

// SetSeed replaces the category seed. Members are only reseeded by the next
// ResetRNGs.
func (c *Category) SetSeed(seed uint32) {
	c.seed = seed
	c.seeder.SetSeed(seed)
}

// Len returns the number of member RNGs.
func (c *Category) Len() int { return len(c.members) }

// RNGs returns the members in creation order.
func (c *Category) RNGs() []*RNG {
	out := make([]*RNG, len(c.members))
	copy(out, c.members)
	return out
}

// CreateRNG draws a seed from the seeder and appends a new member. The
// returned pointer stays owned by the category.
func (c *Category) CreateRNG(typ string) (*RNG, error) {
	if c.guard != nil && c.guard.Load() {
		return nil, fmt.Errorf("category %q: %w", c.id, ErrCreateDuringStep)
	}
	rng, err := NewRNG(c.seeder.UniformUint(SeedRange), typ)
	if err != nil {
		return nil, fmt.Errorf("category %q: %w", c.id, err)
	}
	c.members = append(c.members, rng)
	return rng, nil
}

// ResetRNGs rewinds the seeder, reseeds every member from it in creation
// order, then rewinds every member to its new seed.
func (c *Category) ResetRNGs() {
	c.seeder.Reset()
	c.ReseedRNGs()
	for _, rng := range c.members {
		rng.Reset()
	}
}

// ReseedRNGs draws a fresh seed for every member from the seeder's current
// position. Members keep their state until reset.
func (c *Category) ReseedRNGs() {
	for _, rng := range c.members {
		rng.SetSeed(c.seeder.UniformUint(SeedRange))
	}
}

func (c *Category) save(w *stateWriter) error {
	w.str(c.id)
	w.u32(c.seed)
	w.u64(uint64(len(c.members)))
	for i, rng := range c.members {
		if err := w.rng(rng); err != nil {
			return fmt.Errorf("category %q member %d: %w", c.id, i, err)
		}
	}
	if err := w.rng(c.seeder); err != nil {
		return fmt.Errorf("category %q seeder: %w", c.id, err)
	}
	return nil
}

type categoryState struct {
	id      string
	seed    uint32
	members []rngState
	seeder  rngState
}

func (sr *stateReader) category() (categoryState, error) {
	var cs categoryState
	var err error
	if cs.id, err = sr.str(); err != nil {
		return cs, err
	}
	if cs.seed, err = sr.u32(); err != nil {
		return cs, err
	}
	n, err := sr.u64()
	if err != nil {
		return cs, err
	}
	if n > uint64(sr.r.Len()) {
		return cs, fmt.Errorf("%w: member count %d", ErrCorruptState, n)
	}
	cs.members = make([]rngState, 0, n)
	for i := uint64(0); i < n; i++ {
		rs, err := sr.rng()
		if err != nil {
			return cs, err
		}
		cs.members = append(cs.members, rs)
	}
	cs.seeder, err = sr.rng()
	return cs, err
}

// builtCategory is a decoded category whose generators are all constructed.
type builtCategory struct {
	id      string
	seed    uint32
	seeder  *RNG
	members []*RNG
}

// build constructs every generator of cs. Nothing is shared with a live
// category, so a failure here leaves the caller untouched.
func (cs categoryState) build() (builtCategory, error) {
	bc := builtCategory{id: cs.id, seed: cs.seed}
	var err error
	if bc.seeder, err = cs.seeder.build(); err != nil {
		return bc, fmt.Errorf("category %q seeder: %w", cs.id, err)
	}
	bc.members = make([]*RNG, 0, len(cs.members))
	for i, rs := range cs.members {
		rng, err := rs.build()
		if err != nil {
			return bc, fmt.Errorf("category %q member %d: %w", cs.id, i, err)
		}
		bc.members = append(bc.members, rng)
	}
	return bc, nil
}

// commit installs bc into c and cannot fail. When the member count matches,
// members are overwritten in place so pointers held by consumers follow the
// checkpoint.
func (c *Category) commit(bc builtCategory) {
	if len(c.members) == len(bc.members) {
		for i, rng := range bc.members {
			*c.members[i] = *rng
		}
	} else {
		c.members = bc.members
	}
	c.id = bc.id
	c.seed = bc.seed
	c.seeder = bc.seeder
}

// SaveState serializes the category: id, seed, member count, members, seeder.
func (c *Category) SaveState() ([]byte, error) {
	var w stateWriter
	if err := c.save(&w); err != nil {
		return nil, err
	}
	return w.buf.Bytes(), nil
}

// LoadState restores the category from SaveState output.
func (c *Category) LoadState(data []byte) error {
	cs, err := newStateReader(data).category()
	if err != nil {
		return err
	}
	bc, err := cs.build()
	if err != nil {
		return err
	}
	c.commit(bc)
	return nil
}

// LoadCategory builds a new category from SaveState output.
func LoadCategory(data []byte) (*Category, error) {
	c := &Category{}
	if err := c.LoadState(data); err != nil {
		return nil, err
	}
	return c, nil
}
