package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// clamp clamps v between minVal and maxVal.
func clamp(v, minVal, maxVal float64) float64 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// clamp01 clamps v to the [0, 1] range.
func clamp01(v float64) float64 {
	return clamp(v, 0, 1)
}

// normalizeAngle wraps an angle to [-Pi, Pi].
func normalizeAngle(angle float64) float64 {
	for angle > math.Pi {
		angle -= 2 * math.Pi
	}
	for angle < -math.Pi {
		angle += 2 * math.Pi
	}
	return angle
}

// angleOf returns the heading of v in radians.
func angleOf(v r2.Vec) float64 {
	return math.Atan2(v.Y, v.X)
}

// fromAngle returns the unit vector for heading a.
func fromAngle(a float64) r2.Vec {
	return r2.Vec{X: math.Cos(a), Y: math.Sin(a)}
}

// turnToward rotates current toward target by at most maxStep radians.
func turnToward(current, target, maxStep float64) float64 {
	diff := normalizeAngle(target - current)
	if math.Abs(diff) <= maxStep {
		return target
	}
	if diff > 0 {
		return normalizeAngle(current + maxStep)
	}
	return normalizeAngle(current - maxStep)
}

// unit returns the unit vector of v, or the zero vector when v has no length.
func unit(v r2.Vec) r2.Vec {
	n := r2.Norm(v)
	if n == 0 {
		return r2.Vec{}
	}
	return r2.Scale(1/n, v)
}

// dist returns the distance between a and b.
func dist(a, b r2.Vec) float64 {
	return r2.Norm(r2.Sub(a, b))
}

// distSq returns the squared distance between a and b.
func distSq(a, b r2.Vec) float64 {
	return r2.Norm2(r2.Sub(a, b))
}

// segmentDistance returns the distance from p to the segment a-b.
func segmentDistance(p, a, b r2.Vec) float64 {
	ab := r2.Sub(b, a)
	lenSq := r2.Norm2(ab)
	if lenSq == 0 {
		return dist(p, a)
	}
	t := clamp01(r2.Dot(r2.Sub(p, a), ab) / lenSq)
	closest := r2.Add(a, r2.Scale(t, ab))
	return dist(p, closest)
}

// finite reports whether both components of v are finite.
func finite(v r2.Vec) bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) && !math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}

// perpendicular returns v rotated 90 degrees counter-clockwise.
func perpendicular(v r2.Vec) r2.Vec {
	return r2.Vec{X: -v.Y, Y: v.X}
}
