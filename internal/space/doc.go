// Package space holds the arena: the simulation clock, every entity, and
// the physics engines that move them.
//
// # Tick
//
// [Space.Update] advances the clock and then runs, in order: the act phase
// of every controllable entity, one update of every physics engine, the
// pre-step hook, the sense+step phase of every controllable entity, and the
// post-step hook. The act, physics and sense+step phases fan out through
// the installed [Strategy]; the hooks always run on the calling goroutine.
//
// # Strategies
//
//   - "single": everything runs on the calling goroutine
//   - "scatter-gather": tasks are split in equal slices, one per thread
//   - "h-dispatch": a fixed pool of workers takes tasks one at a time
//
// The result of a tick never depends on the strategy. Random generators may
// be drawn from during the parallel phases but never created.
package space
