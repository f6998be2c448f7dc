package tracer

import (
	"image"
	"math/rand"

	"github.com/achilleasa/go-chunktrace/scene"
	"github.com/achilleasa/go-chunktrace/types"
)

// Max attempts for rejection sampling a point inside the unit ball.
const maxHemisphereAttempts = 100

// The sampler generates camera rays and diffuse bounce directions from a
// random source. A sampler is not safe for concurrent use.
type Sampler struct {
	rng *rand.Rand
}

// Create a sampler backed by rng.
func NewSampler(rng *rand.Rand) *Sampler {
	return &Sampler{rng: rng}
}

// Pick a random point inside a pixel block and return its normalized image
// coordinates. A jitter value in [0, 1) is added to the pixel index before
// normalization so the whole block area can be sampled.
func (s *Sampler) BlockPoint(bounds image.Rectangle, frameW, frameH int) (float32, float32) {
	px := float32(bounds.Min.X+s.rng.Intn(bounds.Dx())) + s.rng.Float32()
	py := float32(bounds.Min.Y+s.rng.Intn(bounds.Dy())) + s.rng.Float32()
	return px / float32(frameW), py / float32(frameH)
}

// Generate a camera ray that passes through the near plane point with
// normalized image coordinates (u, v).
func (s *Sampler) CameraRay(camera *scene.Camera, u, v float32) Ray {
	target := camera.Point(u, v)
	return NewRay(camera.Position, target.Sub(camera.Position))
}

// Generate a random unit direction in the hemisphere around normal.
//
// Points are drawn uniformly from the [-1, 1]^3 cube until one falls inside
// the unit ball; points at the center are rejected too. The point is then
// flipped to the normal's side and normalized. If no valid point is found within maxHemisphereAttempts the
// zero vector is returned; a path continuing with it cannot hit anything.
func (s *Sampler) HemisphereDir(normal types.Vec3) types.Vec3 {
	for attempt := 0; attempt < maxHemisphereAttempts; attempt++ {
		point := types.XYZ(
			s.rng.Float32()*2-1,
			s.rng.Float32()*2-1,
			s.rng.Float32()*2-1,
		)
		if lenSq := point.Dot(point); lenSq > 1 || lenSq < 1e-12 {
			continue
		}

		if point.Dot(normal) < 0 {
			point = point.Neg()
		}
		return point.Normalize()
	}

	return types.Vec3{}
}
