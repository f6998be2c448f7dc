package tracer

import "github.com/achilleasa/go-chunktrace/types"

// A ray carries the throughput of the path it belongs to. The throughput
// starts out white and is attenuated by every surface the path interacts
// with.
type Ray struct {
	Origin     types.Vec3
	Dir        types.Vec3
	Throughput types.Vec3
}

// Create a new ray with white throughput. The direction is normalized.
func NewRay(origin, dir types.Vec3) Ray {
	return Ray{
		Origin:     origin,
		Dir:        dir.Normalize(),
		Throughput: types.XYZ(1, 1, 1),
	}
}

// Get the point at distance t along the ray.
func (r *Ray) At(t float32) types.Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}
