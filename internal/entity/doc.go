// Package entity defines the things that live in the arena.
//
// Every entity has a unique id and a type tag. Capabilities are discovered
// with explicit queries rather than type switches spread over the code:
//
//   - [AsEmbodied] returns the physical [Body], if any
//   - [AsControllable] returns the controller slot, if any
//
// Entities never create random generators themselves; controllers do that
// when they are attached.
package entity
