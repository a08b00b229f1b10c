// Package config holds the experiment configuration tree.
//
// An experiment document is decoded once into a tree of [Node] values. Both
// YAML and XML documents map onto the same tree, so the rest of the program
// only ever sees element names, string attributes and ordered children.
//
// # YAML layout
//
//	framework:
//	  system: {threads: 4, method: scatter-gather}
//	  experiment: {random_seed: 42, ticks_per_second: 10, length: 60}
//	physics_engines:
//	  - pointmass: {id: pm}
//	arena_physics:
//	  engine:
//	    - id: pm
//	      entity:
//	        - id: "fb[0-9]+"
//
// Scalars become attributes, mappings become children, and a sequence of
// single-key mappings becomes a container whose children are tagged by those
// keys. Any other sequence yields one child per item.
//
// # Attributes
//
// [Attr] and [AttrOrDefault] convert attribute text into string, bool, int,
// uint32, uint64 or float64.
package config
