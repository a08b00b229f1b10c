// Package physics defines the physics engine contract and ships a
// point-mass engine.
//
// An engine owns no entities. It is handed embodied entities during the
// entity/engine mapping and advances their bodies by one tick on every
// call to [Engine.Update]. Engines are updated concurrently with each
// other, so an engine only ever touches the bodies it houses.
//
// # Point-mass engine
//
// Each movable body follows m x'' = u - c x', integrated with the named
// scheme over the given number of sub-steps per tick:
//
//	physics_engines:
//	  - pointmass: {id: pm, integrator: rk4, iterations: 4, damping: 0.1}
package physics
