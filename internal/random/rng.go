package random

import (
	"math"
)

// Radians is an angle in radians.
type Radians float64

type number interface {
	~int32 | ~uint32 | ~float64
}

// Range is the half-open interval [Min, Max).
type Range[T number] struct {
	Min T
	Max T
}

func (r Range[T]) Span() T { return r.Max - r.Min }

// SeedRange is the interval member seeds are drawn from.
var SeedRange = Range[uint32]{Min: 1, Max: math.MaxUint32}

// RNG is a seeded generator of a named type. It is not safe for concurrent
// use; each consumer owns its own RNG.
type RNG struct {
	seed uint32
	typ  string
	gen  Generator
}

// NewRNG builds an RNG of the given type from the active backend and seeds
// it. An empty type selects the backend default.
func NewRNG(seed uint32, typ string) (*RNG, error) {
	if typ == "" {
		typ = active.DefaultType()
	}
	gen, err := active.New(typ)
	if err != nil {
		return nil, err
	}
	gen.Seed(seed)
	return &RNG{seed: seed, typ: typ, gen: gen}, nil
}

func (r *RNG) Seed() uint32 { return r.seed }
func (r *RNG) Type() string { return r.typ }

// SetSeed changes the seed without touching the generator state; it takes
// effect at the next Reset.
func (r *RNG) SetSeed(seed uint32) { r.seed = seed }

// Reset rewinds the generator to the start of the sequence for its seed.
func (r *RNG) Reset() { r.gen.Seed(r.seed) }

// Uint32 returns the next raw 32-bit value.
func (r *RNG) Uint32() uint32 { return r.gen.Uint32() }

// unit returns a value in [0, 1).
func (r *RNG) unit() float64 {
	return float64(r.gen.Uint32()) / (1 << 32)
}

// openUnit returns a value in (0, 1).
func (r *RNG) openUnit() float64 {
	for {
		if u := r.unit(); u > 0 {
			return u
		}
	}
}

// Bernoulli returns true with probability p.
func (r *RNG) Bernoulli(p float64) bool {
	return r.unit() < p
}

func (r *RNG) UniformRadians(rg Range[Radians]) Radians {
	return rg.Min + Radians(r.unit())*rg.Span()
}

func (r *RNG) UniformReal(rg Range[float64]) float64 {
	return rg.Min + r.unit()*rg.Span()
}

// UniformInt returns an integer in [Min, Max). An empty range yields Min.
func (r *RNG) UniformInt(rg Range[int32]) int32 {
	if rg.Max <= rg.Min {
		return rg.Min
	}
	span := uint64(int64(rg.Max) - int64(rg.Min))
	off := (uint64(r.gen.Uint32()) * span) >> 32
	return int32(int64(rg.Min) + int64(off))
}

// UniformUint returns an integer in [Min, Max). An empty range yields Min.
func (r *RNG) UniformUint(rg Range[uint32]) uint32 {
	if rg.Max <= rg.Min {
		return rg.Min
	}
	span := uint64(rg.Max - rg.Min)
	return rg.Min + uint32((uint64(r.gen.Uint32())*span)>>32)
}

// Exponential draws by inverse CDF.
func (r *RNG) Exponential(mean float64) float64 {
	return -math.Log(1-r.unit()) * mean
}

// Gaussian uses the polar form of Box-Muller. Only one of the two deviates
// is returned so the generator state stays the only state to serialize.
func (r *RNG) Gaussian(stdDev, mean float64) float64 {
	var x, s float64
	unit := Range[float64]{Min: -1, Max: 1}
	for {
		x = r.UniformReal(unit)
		y := r.UniformReal(unit)
		s = x*x + y*y
		if s > 0 && s < 1 {
			break
		}
	}
	return mean + stdDev*x*math.Sqrt(-2*math.Log(s)/s)
}

func (r *RNG) Rayleigh(sigma float64) float64 {
	return sigma * math.Sqrt(-2*math.Log(r.openUnit()))
}

func (r *RNG) Lognormal(sigma, mu float64) float64 {
	return math.Exp(mu + sigma*r.Gaussian(1, 0))
}

// poissonKnuthLimit bounds the mean handled by the multiplicative method;
// larger means use a rounded normal approximation.
const poissonKnuthLimit = 500

func (r *RNG) Poisson(mean float64) uint32 {
	if mean <= 0 {
		return 0
	}
	if mean > poissonKnuthLimit {
		v := math.Round(r.Gaussian(math.Sqrt(mean), mean))
		if v < 0 {
			return 0
		}
		return uint32(v)
	}
	limit := math.Exp(-mean)
	var k uint32
	p := 1.0
	for {
		p *= r.unit()
		if p <= limit {
			return k
		}
		k++
	}
}

// Shuffle permutes s in place (Fisher-Yates).
func Shuffle[T any](r *RNG, s []T) {
	for i := 0; i+1 < len(s); i++ {
		j := i + int(r.UniformUint(Range[uint32]{Min: 0, Max: uint32(len(s) - i)}))
		s[i], s[j] = s[j], s[i]
	}
}
