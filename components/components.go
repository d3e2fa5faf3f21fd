// Package components defines ECS components for the arena simulation.
package components

import "gonum.org/v1/gonum/spatial/r2"

// Position represents an entity's world position.
type Position struct {
	r2.Vec
}

// Velocity represents an entity's velocity in world units per second.
type Velocity struct {
	r2.Vec
}

// Body holds physical properties of an entity.
type Body struct {
	Radius float64
}

// At returns a Position at (x, y).
func At(x, y float64) Position {
	return Position{Vec: r2.Vec{X: x, Y: y}}
}
