// Package random provides reproducible, hierarchically seeded random number
// generation for the simulator.
//
// Generators are grouped in named categories:
//
//   - [RNG]: a single seeded generator with the usual distributions
//   - [Category]: a seeder RNG plus the member RNGs it has seeded
//   - [Registry]: the id -> category map owned by one simulator
//
// Every member of a category draws its seed from the category's seeder at
// creation time and again on every [Category.ResetRNGs]. As long as all RNGs
// are created from single-threaded setup code, the numbers each consumer sees
// depend only on the category seed and the order of the CreateRNG calls,
// never on how many worker goroutines step the simulation.
//
// # Example
//
//	reg := random.NewRegistry()
//	reg.CreateCategory("argos", 42)
//	rng, _ := reg.CreateRNG("argos", "")
//	x := rng.UniformReal(random.Range[float64]{Min: 0, Max: 1})
//
// # Checkpoints
//
// [Registry.SaveState] and [Registry.LoadState] serialize every category,
// member and seeder into a flat little-endian byte buffer. Loading a buffer
// and drawing continues exactly where the saved registry left off.
//
// # Backends
//
// The set of generator types is chosen at compile time. The default build
// offers mt19937, pcg, chacha8 and lcg; building with the argos_minimal tag
// leaves only lcg.
package random
