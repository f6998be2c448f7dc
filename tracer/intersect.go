package tracer

import (
	"math"

	"github.com/achilleasa/go-chunktrace/scene"
)

// Intersect a ray with a triangle using the Möller–Trumbore algorithm.
//
// Rays whose direction is parallel to the triangle plane (|det| below
// parallelEpsilon) never hit. Hits closer than tMin are rejected which
// prevents rays spawned on a surface from re-hitting it. The function returns
// the distance to the hit point and true on hit.
func Intersect(ray *Ray, tri *scene.Triangle, tMin, parallelEpsilon float32) (float32, bool) {
	e1, e2 := tri.Edges()

	p := ray.Dir.Cross(e2)
	det := e1.Dot(p)
	if float32(math.Abs(float64(det))) < parallelEpsilon || det == 0 {
		return 0, false
	}
	invDet := 1.0 / det

	tVec := ray.Origin.Sub(tri.V0)
	u := tVec.Dot(p) * invDet
	if u < 0 || u > 1 {
		return 0, false
	}

	q := tVec.Cross(e1)
	v := ray.Dir.Dot(q) * invDet
	if v < 0 || u+v > 1 {
		return 0, false
	}

	dist := e2.Dot(q) * invDet
	if dist < tMin {
		return 0, false
	}
	return dist, true
}
