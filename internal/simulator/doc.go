// Package simulator runs an experiment.
//
// A [Simulator] owns every part of one experiment: the parsed configuration,
// the space and its entities, the physics engines, the loop functions, the
// visualization, the profiler and the canonical "argos" random category.
// It drives them through a fixed lifecycle:
//
//	sim := simulator.New(simulator.WithLogger(logger))
//	if err := sim.LoadExperiment("experiment.yaml"); err != nil { ... }
//	defer sim.Destroy()
//	err := sim.Execute(ctx)
//
// Init wires the parts in this order: framework, controller definitions,
// loop functions, space, physics engines, entity to engine mapping, loop
// functions Init, visualization, profiler. Reset rewinds to the state right
// after Init without rebuilding anything.
//
// Everything created from configuration goes through a [Registry] of
// factories keyed by element name.
package simulator
