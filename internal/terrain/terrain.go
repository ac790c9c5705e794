// Package terrain decides which points of the map are passable. The map is
// an organic corridor winding along the diagonal between the player bases
// and the enemy base, carved out of otherwise impassable ground.
package terrain

import (
	"math"

	"holdfast/server/internal/geom"
)

const (
	// BaseClearRadius is the radius around every base anchor that is
	// always passable regardless of the corridor shape.
	BaseClearRadius = 3.0

	corridorHalfWidth = 5.0

	noiseAmp1  = 1.6
	noiseAmp2  = 1.2
	noiseAmp3  = 0.9
	noiseFreq1 = 0.35
	noiseFreq2 = 0.29
	noiseFreq3 = 0.17
)

// Oracle answers passability queries for a fixed map size and base layout.
// It carries no mutable state; the same query always yields the same answer.
type Oracle struct {
	size    float64
	anchors []geom.Vec2
}

// NewOracle builds an oracle for a square map of the given size with the
// given base anchors (player bases plus the enemy base).
func NewOracle(size float64, anchors []geom.Vec2) *Oracle {
	copied := append([]geom.Vec2(nil), anchors...)
	return &Oracle{size: size, anchors: copied}
}

// Size returns the edge length of the map in tiles.
func (o *Oracle) Size() float64 {
	if o == nil {
		return 0
	}
	return o.size
}

// Anchors returns the base anchors the oracle was built with.
func (o *Oracle) Anchors() []geom.Vec2 {
	if o == nil {
		return nil
	}
	return append([]geom.Vec2(nil), o.anchors...)
}

// IsValid reports whether the point (x, y) is passable. Out-of-bounds points
// are never passable; points near a base anchor always are; everything else
// must fall inside the noise-perturbed diagonal corridor.
func (o *Oracle) IsValid(x, y float64) bool {
	if o == nil {
		return false
	}
	if x < 0 || y < 0 || x >= o.size || y >= o.size {
		return false
	}
	p := geom.Vec2{X: x, Y: y}
	for _, anchor := range o.anchors {
		if geom.Dist(p, anchor) <= BaseClearRadius {
			return true
		}
	}
	return math.Abs(x+y-o.size) < corridorHalfWidth+noise(x, y)
}

// noise is a smooth bounded perturbation of the corridor edge. The amplitude
// sum stays below corridorHalfWidth so the corridor never pinches shut.
func noise(x, y float64) float64 {
	return noiseAmp1*math.Sin(x*noiseFreq1) +
		noiseAmp2*math.Cos(y*noiseFreq2) +
		noiseAmp3*math.Sin((x+y)*noiseFreq3)
}
