// Package world holds the simulated field: circular robots and a ball as
// rigid bodies in a 2D physics engine space.
//
// Positions are always read back from the engine. Handles stay valid for
// the lifetime of the World.
package world
