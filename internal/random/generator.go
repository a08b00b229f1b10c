package random

import (
	"encoding"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"sort"
)

// Generator is the uniform 32-bit primitive every distribution is built on.
type Generator interface {
	Seed(seed uint32)
	Uint32() uint32
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
}

// Backend is the set of generator types compiled into the binary.
type Backend struct {
	name        string
	defaultType string
	types       map[string]func() Generator
}

// ActiveBackend returns the backend selected at build time.
func ActiveBackend() *Backend { return active }

func (b *Backend) Name() string        { return b.name }
func (b *Backend) DefaultType() string { return b.defaultType }

// Types lists the generator type names, sorted.
func (b *Backend) Types() []string {
	names := make([]string, 0, len(b.types))
	for name := range b.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New builds an unseeded generator. An empty type selects the default.
func (b *Backend) New(typ string) (Generator, error) {
	if typ == "" {
		typ = b.defaultType
	}
	fn, ok := b.types[typ]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownGeneratorType, typ, b.Types())
	}
	g := fn()
	if g == nil {
		return nil, fmt.Errorf("%w: %q", ErrGeneratorConstruction, typ)
	}
	return g, nil
}

const (
	mtN         = 624
	mtM         = 397
	mtMatrixA   = 0x9908b0df
	mtUpperMask = 0x80000000
	mtLowerMask = 0x7fffffff
)

// MT19937 is the 32-bit Mersenne Twister.
type MT19937 struct {
	state [mtN]uint32
	index int
}

func NewMT19937() *MT19937 {
	m := &MT19937{}
	m.Seed(5489)
	return m
}

func (m *MT19937) Seed(seed uint32) {
	m.state[0] = seed
	for i := 1; i < mtN; i++ {
		prev := m.state[i-1]
		m.state[i] = 1812433253*(prev^(prev>>30)) + uint32(i)
	}
	m.index = mtN
}

func (m *MT19937) twist() {
	for i := 0; i < mtN; i++ {
		y := (m.state[i] & mtUpperMask) | (m.state[(i+1)%mtN] & mtLowerMask)
		next := m.state[(i+mtM)%mtN] ^ (y >> 1)
		if y&1 != 0 {
			next ^= mtMatrixA
		}
		m.state[i] = next
	}
	m.index = 0
}

func (m *MT19937) Uint32() uint32 {
	if m.index >= mtN {
		m.twist()
	}
	y := m.state[m.index]
	m.index++
	y ^= y >> 11
	y ^= (y << 7) & 0x9d2c5680
	y ^= (y << 15) & 0xefc60000
	y ^= y >> 18
	return y
}

func (m *MT19937) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 4*mtN+4)
	for i, v := range m.state {
		binary.LittleEndian.PutUint32(buf[4*i:], v)
	}
	binary.LittleEndian.PutUint32(buf[4*mtN:], uint32(m.index))
	return buf, nil
}

func (m *MT19937) UnmarshalBinary(data []byte) error {
	if len(data) != 4*mtN+4 {
		return fmt.Errorf("mt19937: state must be %d bytes, got %d", 4*mtN+4, len(data))
	}
	for i := range m.state {
		m.state[i] = binary.LittleEndian.Uint32(data[4*i:])
	}
	idx := int(binary.LittleEndian.Uint32(data[4*mtN:]))
	if idx > mtN {
		return fmt.Errorf("mt19937: index %d out of range", idx)
	}
	m.index = idx
	return nil
}

// LCG is a 64-bit linear congruential generator returning the high word,
// the minimal generator available on every build.
type LCG struct {
	state uint64
}

func NewLCG() *LCG { return &LCG{} }

func (l *LCG) Seed(seed uint32) { l.state = uint64(seed) }

func (l *LCG) Uint32() uint32 {
	l.state = l.state*6364136223846793005 + 1442695040888963407
	return uint32(l.state >> 32)
}

func (l *LCG) MarshalBinary() ([]byte, error) {
	return binary.LittleEndian.AppendUint64(nil, l.state), nil
}

func (l *LCG) UnmarshalBinary(data []byte) error {
	if len(data) != 8 {
		return fmt.Errorf("lcg: state must be 8 bytes, got %d", len(data))
	}
	l.state = binary.LittleEndian.Uint64(data)
	return nil
}

// splitmix64 expands a 32-bit seed into well-mixed 64-bit words.
func splitmix64(x *uint64) uint64 {
	*x += 0x9e3779b97f4a7c15
	z := *x
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// PCG adapts math/rand/v2's PCG to the Generator interface.
type PCG struct {
	src *rand.PCG
}

func NewPCG() *PCG { return &PCG{src: rand.NewPCG(0, 0)} }

func (p *PCG) Seed(seed uint32) {
	x := uint64(seed)
	p.src.Seed(splitmix64(&x), splitmix64(&x))
}

func (p *PCG) Uint32() uint32 { return uint32(p.src.Uint64() >> 32) }

func (p *PCG) MarshalBinary() ([]byte, error) { return p.src.MarshalBinary() }

func (p *PCG) UnmarshalBinary(data []byte) error { return p.src.UnmarshalBinary(data) }

// ChaCha8 adapts math/rand/v2's ChaCha8 to the Generator interface.
type ChaCha8 struct {
	src *rand.ChaCha8
}

func NewChaCha8() *ChaCha8 { return &ChaCha8{src: rand.NewChaCha8([32]byte{})} }

func (c *ChaCha8) Seed(seed uint32) {
	var key [32]byte
	x := uint64(seed)
	for i := 0; i < 4; i++ {
		binary.LittleEndian.PutUint64(key[8*i:], splitmix64(&x))
	}
	c.src.Seed(key)
}

func (c *ChaCha8) Uint32() uint32 { return uint32(c.src.Uint64() >> 32) }

func (c *ChaCha8) MarshalBinary() ([]byte, error) { return c.src.MarshalBinary() }

func (c *ChaCha8) UnmarshalBinary(data []byte) error { return c.src.UnmarshalBinary(data) }
